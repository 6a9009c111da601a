package algo

import (
	"fmt"
	"strings"

	"mountain-map/model"
)

// DescentChoice 用户选择的下山方式
type DescentChoice string

const (
	ChoiceCableCar DescentChoice = "cableCar"
	ChoiceCoaster  DescentChoice = "coaster"
)

// ParseDescentChoice 解析下山方式, 不区分大小写
func ParseDescentChoice(s string) (DescentChoice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cablecar", "cable_car", "cable":
		return ChoiceCableCar, nil
	case "coaster":
		return ChoiceCoaster, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidChoice, s)
	}
}

// DescentOptions 两种下山方式当前是否可用
type DescentOptions struct {
	CableCarAvailable bool `json:"cableCarAvailable"`
	CoasterAvailable  bool `json:"coasterAvailable"`
}

// Both 两种方式都可用时才需要用户选择
func (o DescentOptions) Both() bool {
	return o.CableCarAvailable && o.CoasterAvailable
}

// Disambiguator 处理 Chùa Bà -> Chân núi 下山时索道和滑道二选一的情况
// 只针对这一对区域, 不是通用的多路径检测
type Disambiguator struct {
	finder *Finder
}

// NewDisambiguator 基于同一个快照的搜索器创建
func NewDisambiguator(finder *Finder) *Disambiguator {
	return &Disambiguator{finder: finder}
}

// Detect 起点在上方区域且终点在山脚区域时返回 true
func (d *Disambiguator) Detect(startID, endID string) bool {
	site := d.finder.site
	if site.UpperArea == "" || site.BaseArea == "" {
		return false
	}
	net := d.finder.net
	return net.EffectiveArea(startID) == site.UpperArea && net.EffectiveArea(endID) == site.BaseArea
}

// OptionsStatus 评估所有连接上下两个区域的索道站和滑道
func (d *Disambiguator) OptionsStatus(at Moment) DescentOptions {
	return DescentOptions{
		CableCarAvailable: d.cableAvailable(at),
		CoasterAvailable:  d.coasterAvailable(at),
	}
}

// cableAvailable 任意一条线路在上下两个区域都有站, 且两端站点都在运营
func (d *Disambiguator) cableAvailable(at Moment) bool {
	net, site := d.finder.net, d.finder.site
	for _, code := range net.RouteCodes() {
		upper, base := false, false
		for _, id := range net.RouteMembers(code) {
			poi, _ := net.POI(id)
			if !d.finder.operational(id, at) {
				continue
			}
			switch poi.Area {
			case site.UpperArea:
				upper = true
			case site.BaseArea:
				base = true
			}
		}
		if upper && base {
			return true
		}
	}
	return false
}

func (d *Disambiguator) coasterAvailable(at Moment) bool {
	site := d.finder.site
	if _, ok := d.finder.net.POI(site.CoasterEndID); !ok {
		return false
	}
	return d.finder.operational(site.CoasterStartID, at)
}

// Resolve 按用户选择强制路径
// coaster: 分别搜索 起点->滑道上站 和 滑道下站->终点, 再拼接; 任一段失败整体返回 ErrNoPathFound,
// 不会自动退回索道
// cableCar: 等价于去掉滑道边的普通搜索
func (d *Disambiguator) Resolve(choice DescentChoice, startID, endID string, at Moment) (PathResult, error) {
	switch choice {
	case ChoiceCableCar:
		return d.finder.Find(startID, endID, at, WithoutCoaster())
	case ChoiceCoaster:
	default:
		return PathResult{}, fmt.Errorf("%w: %q", ErrInvalidChoice, string(choice))
	}

	site := d.finder.site
	if _, ok := d.finder.net.POI(startID); !ok {
		return PathResult{}, fmt.Errorf("%w: start %q", ErrUnknownPOI, startID)
	}
	if _, ok := d.finder.net.POI(endID); !ok {
		return PathResult{}, fmt.Errorf("%w: end %q", ErrUnknownPOI, endID)
	}
	if !d.coasterAvailable(at) {
		reason := "coaster stations missing"
		if poi, ok := d.finder.net.POI(site.CoasterStartID); ok {
			reason = "coaster " + d.finder.hours.StatusOf(poi, at).Reason
		}
		return PathResult{}, fmt.Errorf("%w: %s", ErrNoPathFound, reason)
	}

	upper, err := d.finder.Find(startID, site.CoasterStartID, at, WithoutCoaster())
	if err != nil {
		return PathResult{}, fmt.Errorf("%w: leg to coaster: %w", ErrNoPathFound, err)
	}
	lower, err := d.finder.Find(site.CoasterEndID, endID, at, WithoutCoaster())
	if err != nil {
		return PathResult{}, fmt.Errorf("%w: leg from coaster: %w", ErrNoPathFound, err)
	}

	ride := PathResult{
		Nodes:     []string{site.CoasterStartID, site.CoasterEndID},
		UsedModes: []string{model.ModeCoaster},
		Hops:      []Hop{{Kind: EdgeCoaster}},
	}
	return Stitch(Stitch(upper, ride), lower), nil
}

// Stitch 拼接两段路径, 连接点重复时只保留一个
// 两段不相接时中间补一跳步行; 任一段缺少 Hops 时结果也不带 Hops
// 返回新的 PathResult, 不修改输入
func Stitch(a, b PathResult) PathResult {
	if len(a.Nodes) == 0 {
		return clonePath(b)
	}
	if len(b.Nodes) == 0 {
		return clonePath(a)
	}
	out := clonePath(a)
	aligned := hasHops(a) && hasHops(b)

	nodes := b.Nodes
	if out.Nodes[len(out.Nodes)-1] == nodes[0] {
		nodes = nodes[1:]
	} else if aligned {
		out.Hops = append(out.Hops, Hop{Kind: EdgeWalk})
	}
	out.Nodes = append(out.Nodes, nodes...)
	if aligned {
		out.Hops = append(out.Hops, b.Hops...)
	} else {
		out.Hops = nil
	}

	modes := make(map[string]bool, len(a.UsedModes)+len(b.UsedModes))
	for _, m := range a.UsedModes {
		modes[m] = true
	}
	for _, m := range b.UsedModes {
		modes[m] = true
	}
	out.UsedModes = sortedKeys(modes)
	return out
}

func hasHops(p PathResult) bool {
	return len(p.Hops) == len(p.Nodes)-1
}

func clonePath(p PathResult) PathResult {
	return PathResult{
		Nodes:     append([]string{}, p.Nodes...),
		UsedModes: append([]string{}, p.UsedModes...),
		Hops:      append([]Hop{}, p.Hops...),
	}
}
