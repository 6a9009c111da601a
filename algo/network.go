package algo

import (
	"errors"
	"sort"

	"mountain-map/model"
	"mountain-map/utils"
)

// CurrentLocationID 用户实时定位点的合成 ID
const CurrentLocationID = "current-location"

// Network 景区 POI 网络 (只读快照)
// 数据刷新时整体重建, 不在原地修改, 并发查询不会看到一半更新的邻接关系
type Network struct {
	pois    map[string]*model.POI // 节点字典 (ID -> POI)
	order   []string              // 按 ID 排序, 保证遍历顺序确定
	routes  map[string][]string   // 交通类 POI 的线路代码 (已排序)
	byArea  map[string][]string   // 区域 -> POI ID 列表
	byRoute map[string][]string   // 线路代码 -> POI ID 列表
	live    *model.POI            // 用户定位点, 只存在于单次查询的副本里

	liveRadius float64
}

// BuildNetwork 根据 POI 列表构建网络
// 坐标不可用、ID 为空或重复的 POI 会被排除, 对应的 InvalidDataError 通过 errors.Join 返回;
// 即使返回错误, 网络本身仍然可用
func BuildNetwork(pois []model.POI, site Site) (*Network, error) {
	n := &Network{
		pois:       make(map[string]*model.POI, len(pois)),
		routes:     make(map[string][]string),
		byArea:     make(map[string][]string),
		byRoute:    make(map[string][]string),
		liveRadius: site.LiveLocationRadius,
	}

	var errs []error
	for i := range pois {
		poi := pois[i]
		switch {
		case poi.ID == "":
			errs = append(errs, &InvalidDataError{POIID: poi.Name, Reason: "missing id"})
			continue
		case poi.ID == CurrentLocationID:
			errs = append(errs, &InvalidDataError{POIID: poi.ID, Reason: "reserved id"})
			continue
		case !poi.HasPosition():
			errs = append(errs, &InvalidDataError{POIID: poi.ID, Reason: "missing or invalid coordinates"})
			continue
		case n.pois[poi.ID] != nil:
			errs = append(errs, &InvalidDataError{POIID: poi.ID, Reason: "duplicate id"})
			continue
		}
		n.pois[poi.ID] = &poi
		n.order = append(n.order, poi.ID)
	}
	sort.Strings(n.order)

	// 索引按排序后的 ID 建立, 索引里的列表也就是有序的
	for _, id := range n.order {
		poi := n.pois[id]
		if poi.Area != "" {
			n.byArea[poi.Area] = append(n.byArea[poi.Area], id)
		}
		if !poi.IsTransport() {
			continue
		}
		codes := poi.CableRoutes()
		if len(codes) == 0 {
			continue
		}
		n.routes[id] = codes
		for _, code := range codes {
			n.byRoute[code] = append(n.byRoute[code], id)
		}
	}

	return n, errors.Join(errs...)
}

// WithCurrentLocation 返回一个带用户定位点的网络副本
// 原网络不变; 索引是共享的, 定位点不属于任何区域和线路
func (n *Network) WithCurrentLocation(p model.Point) (*Network, error) {
	live := &model.POI{ID: CurrentLocationID, Name: "Current location", Lat: p.Lat, Lng: p.Lng}
	if !live.HasPosition() {
		return nil, &InvalidDataError{POIID: CurrentLocationID, Reason: "missing or invalid coordinates"}
	}
	cp := *n
	cp.live = live
	return &cp, nil
}

// POI 根据 ID 获取 POI
func (n *Network) POI(id string) (*model.POI, bool) {
	if n.live != nil && id == CurrentLocationID {
		return n.live, true
	}
	poi, ok := n.pois[id]
	return poi, ok
}

// Len 网络中的 POI 数量 (不含定位点)
func (n *Network) Len() int {
	return len(n.order)
}

// IDs 按 ID 排序的 POI 列表 (不含定位点)
func (n *Network) IDs() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

// POIs 按 ID 排序的 POI 副本
func (n *Network) POIs() []model.POI {
	out := make([]model.POI, 0, len(n.order))
	for _, id := range n.order {
		out = append(out, *n.pois[id])
	}
	return out
}

// AreaMembers 某个区域内的 POI
func (n *Network) AreaMembers(area string) []string {
	return n.byArea[area]
}

// RouteMembers 某条线路上的站点
func (n *Network) RouteMembers(code string) []string {
	return n.byRoute[code]
}

// RouteCodes 网络中所有线路代码 (已排序)
func (n *Network) RouteCodes() []string {
	codes := make([]string, 0, len(n.byRoute))
	for code := range n.byRoute {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Distance 两个 POI 之间的球面距离 (米), 任一不存在时返回 -1
func (n *Network) Distance(a, b string) float64 {
	pa, okA := n.POI(a)
	pb, okB := n.POI(b)
	if !okA || !okB {
		return -1
	}
	return utils.HaversineDistance(pa.Point(), pb.Point())
}

// AreConnectedByArea 两个点是否可以通过同区域换乘互达
// 定位点没有区域标签, 只要离某个有区域的 POI 足够近就视为同区域;
// 这个规则只在 定位点 <-> POI 之间生效
func (n *Network) AreConnectedByArea(a, b string) bool {
	if a == b {
		return false
	}
	pa, okA := n.POI(a)
	pb, okB := n.POI(b)
	if !okA || !okB {
		return false
	}
	aLive, bLive := a == CurrentLocationID, b == CurrentLocationID
	switch {
	case aLive && bLive:
		return false
	case aLive:
		return n.nearArea(pa, pb)
	case bLive:
		return n.nearArea(pb, pa)
	}
	return pa.Area != "" && pa.Area == pb.Area
}

func (n *Network) nearArea(live, poi *model.POI) bool {
	if poi.Area == "" {
		return false
	}
	return utils.HaversineDistance(live.Point(), poi.Point()) <= n.liveRadius
}

// AreConnectedByRoute 两个交通类 POI 是否在同一条索道线路上
func (n *Network) AreConnectedByRoute(a, b string) bool {
	return a != b && len(n.SharedRoutes(a, b)) > 0
}

// SharedRoutes 两个站点共有的线路代码 (已排序)
func (n *Network) SharedRoutes(a, b string) []string {
	ra, rb := n.routes[a], n.routes[b]
	shared := []string{}
	// 两个列表都有序, 双指针求交集
	for i, j := 0, 0; i < len(ra) && j < len(rb); {
		switch {
		case ra[i] == rb[j]:
			shared = append(shared, ra[i])
			i++
			j++
		case ra[i] < rb[j]:
			i++
		default:
			j++
		}
	}
	return shared
}

// RouteLabel 多条线路连接同一对站点时, 取字典序最小的代码
func (n *Network) RouteLabel(a, b string) (string, bool) {
	shared := n.SharedRoutes(a, b)
	if len(shared) == 0 {
		return "", false
	}
	return shared[0], true
}

// EffectiveArea 点所属区域; 定位点取半径内最近的有区域 POI 的区域
func (n *Network) EffectiveArea(id string) string {
	poi, ok := n.POI(id)
	if !ok {
		return ""
	}
	if id != CurrentLocationID {
		return poi.Area
	}
	area := ""
	best := -1.0
	for _, other := range n.order {
		candidate := n.pois[other]
		if candidate.Area == "" {
			continue
		}
		d := utils.HaversineDistance(poi.Point(), candidate.Point())
		if d <= n.liveRadius && (best < 0 || d < best) {
			best = d
			area = candidate.Area
		}
	}
	return area
}

// Nearest 找到离给定坐标最近的 POI
func (n *Network) Nearest(p model.Point) (*model.POI, float64) {
	var nearest *model.POI
	minDist := -1.0
	for _, id := range n.order {
		poi := n.pois[id]
		dist := utils.HaversineDistance(p, poi.Point())
		if minDist < 0 || dist < minDist {
			minDist = dist
			nearest = poi
		}
	}
	return nearest, minDist
}

// areaNeighbors 与 id 同区域的点 (按 ID 排序, 定位点排在最后)
func (n *Network) areaNeighbors(id string) []string {
	if id == CurrentLocationID {
		var out []string
		for _, other := range n.order {
			if n.AreConnectedByArea(id, other) {
				out = append(out, other)
			}
		}
		return out
	}
	poi, ok := n.POI(id)
	if !ok || poi.Area == "" {
		return nil
	}
	out := make([]string, 0, len(n.byArea[poi.Area]))
	for _, other := range n.byArea[poi.Area] {
		if other != id {
			out = append(out, other)
		}
	}
	if n.live != nil && n.AreConnectedByArea(id, CurrentLocationID) {
		out = append(out, CurrentLocationID)
	}
	return out
}

// walkNeighbors 步行半径内的点 (按 ID 排序, 定位点排在最后)
func (n *Network) walkNeighbors(id string, radius float64) []string {
	from, ok := n.POI(id)
	if !ok {
		return nil
	}
	var out []string
	for _, other := range n.order {
		if other == id {
			continue
		}
		if utils.HaversineDistance(from.Point(), n.pois[other].Point()) <= radius {
			out = append(out, other)
		}
	}
	if n.live != nil && id != CurrentLocationID &&
		utils.HaversineDistance(from.Point(), n.live.Point()) <= radius {
		out = append(out, CurrentLocationID)
	}
	return out
}
