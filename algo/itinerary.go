package algo

import (
	"fmt"

	"mountain-map/model"
	"mountain-map/utils"
)

// Synthesizer 把路径转换成可展示的行程指令
type Synthesizer struct {
	net  *Network
	site Site
}

// NewSynthesizer 创建行程合成器
func NewSynthesizer(net *Network, site Site) *Synthesizer {
	return &Synthesizer{net: net, site: site}
}

// Synthesize 逐对遍历路径生成指令, 连续的步行合并成一条
// 只有一个节点的路径返回空指令列表和零合计
func (s *Synthesizer) Synthesize(path PathResult) (model.Itinerary, error) {
	it := model.Itinerary{Instructions: []model.Instruction{}}
	for _, id := range path.Nodes {
		if _, ok := s.net.POI(id); !ok {
			return model.Itinerary{}, fmt.Errorf("%w: %q in path", ErrUnknownPOI, id)
		}
	}

	useHops := hasHops(path)
	for i := 0; i+1 < len(path.Nodes); i++ {
		from, to := path.Nodes[i], path.Nodes[i+1]
		var hop *Hop
		if useHops {
			hop = &path.Hops[i]
		}
		next := s.instruction(from, to, hop)

		// 连续步行合并: 距离累加, 时间按合并后的距离重新计算
		if n := len(it.Instructions); n > 0 && next.Kind == model.KindWalk && it.Instructions[n-1].Kind == model.KindWalk {
			last := &it.Instructions[n-1]
			last.ToID = next.ToID
			last.DistanceMeters += next.DistanceMeters
			last.DurationMinutes = utils.MinutesFor(last.DistanceMeters, s.site.WalkSpeed)
			continue
		}
		it.Instructions = append(it.Instructions, next)
	}

	for _, ins := range it.Instructions {
		it.TotalDistanceMeters += ins.DistanceMeters
		it.TotalDurationMinutes += ins.DurationMinutes
		it.TotalCost += ins.CostAmount
	}
	return it, nil
}

// instruction 对一跳分类并计算距离、时间、费用
func (s *Synthesizer) instruction(from, to string, hop *Hop) model.Instruction {
	ins := model.Instruction{FromID: from, ToID: to}
	kind, label := s.classify(from, to, hop)
	ins.Kind = kind

	switch kind {
	case model.KindTransferWalk:
		ins.DurationMinutes = s.site.TransferWalkTime
	case model.KindCableRide:
		ins.RouteLabel = label
		ins.DurationMinutes = utils.MinutesFor(s.net.Distance(from, to), s.site.CableSpeed) + s.site.CableWait
		ins.CostAmount = s.site.CableFare
	case model.KindCoasterRide:
		ins.DurationMinutes = utils.MinutesFor(s.net.Distance(from, to), s.site.CoasterSpeed) + s.site.CoasterWait
		ins.CostAmount = s.site.CoasterFare
	default:
		ins.DistanceMeters = s.net.Distance(from, to)
		ins.DurationMinutes = utils.MinutesFor(ins.DistanceMeters, s.site.WalkSpeed)
	}
	return ins
}

// classify 搜索时记录了边类型就以记录为准, 否则按站点关系推断
func (s *Synthesizer) classify(from, to string, hop *Hop) (model.InstructionKind, string) {
	if hop != nil {
		switch hop.Kind {
		case EdgeCable:
			label := hop.Route
			if label == "" {
				label, _ = s.net.RouteLabel(from, to)
			}
			return model.KindCableRide, label
		case EdgeCoaster:
			return model.KindCoasterRide, ""
		}
		if s.isTransfer(from, to) {
			return model.KindTransferWalk, ""
		}
		return model.KindWalk, ""
	}

	if s.isTransfer(from, to) {
		return model.KindTransferWalk, ""
	}
	if s.site.isCoasterHop(from, to) {
		return model.KindCoasterRide, ""
	}
	if label, ok := s.net.RouteLabel(from, to); ok {
		return model.KindCableRide, label
	}
	return model.KindWalk, ""
}

// isTransfer 两个交通类 POI 在同一个区域
func (s *Synthesizer) isTransfer(from, to string) bool {
	a, _ := s.net.POI(from)
	b, _ := s.net.POI(to)
	return a.IsTransport() && b.IsTransport() && a.Area != "" && a.Area == b.Area
}
