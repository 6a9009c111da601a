package algo

import (
	"container/heap"
	"fmt"
	"slices"
	"sort"

	"mountain-map/model"
)

// EdgeKind 路径中每一跳使用的边类型
type EdgeKind string

const (
	EdgeArea    EdgeKind = "area"    // 同区域换乘, 免费且总是可用
	EdgeWalk    EdgeKind = "walk"    // 步行半径内的直接步行
	EdgeCable   EdgeKind = "cable"   // 索道, 受运营时间限制
	EdgeCoaster EdgeKind = "coaster" // 滑道, 受运营时间限制
)

// Hop 路径中的一跳
type Hop struct {
	Kind  EdgeKind `json:"kind"`
	Route string   `json:"route,omitempty"` // 仅索道
}

// PathResult 路径规划结果, 返回后不再修改
type PathResult struct {
	Nodes     []string `json:"nodes"`      // 从起点到终点的 POI ID 序列
	UsedModes []string `json:"used_modes"` // 实际乘坐的线路代码和滑道标记
	Hops      []Hop    `json:"hops"`       // len(Hops) == len(Nodes)-1; 为空时由行程合成器自行分类
}

// searchCost 字典序代价: 先比乘坐次数, 再比步行距离, 最后比跳数
type searchCost struct {
	rides int
	walk  float64
	hops  int
}

func (c searchCost) less(o searchCost) bool {
	if c.rides != o.rides {
		return c.rides < o.rides
	}
	if c.walk != o.walk {
		return c.walk < o.walk
	}
	return c.hops < o.hops
}

// PriorityQueueItem 优先队列中的元素
type PriorityQueueItem struct {
	NodeID string
	Cost   searchCost
	Seq    int // 发现顺序, 代价相同时先发现的优先
	Index  int // 在堆中的索引
}

// PriorityQueue 实现 heap.Interface 接口的优先队列
type PriorityQueue []*PriorityQueueItem

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	if pq[i].Cost != pq[j].Cost {
		return pq[i].Cost.less(pq[j].Cost)
	}
	return pq[i].Seq < pq[j].Seq
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *PriorityQueue) Push(x any) {
	n := len(*pq)
	item := x.(*PriorityQueueItem)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *PriorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // 避免内存泄漏
	item.Index = -1 // 标记为已移除
	*pq = old[0 : n-1]
	return item
}

// FindOption 路径搜索选项
type FindOption func(*findOptions)

type findOptions struct {
	excludeCoaster bool
	ignoreGates    bool // 假设全部设施开放, 用于区分 NoPathFound 和 StructurallyUnreachable
}

// WithoutCoaster 搜索时不使用滑道
func WithoutCoaster() FindOption {
	return func(o *findOptions) { o.excludeCoaster = true }
}

// Finder 在网络上搜索满足运营时间的路径
type Finder struct {
	net   *Network
	hours *Evaluator
	site  Site
}

// NewFinder 创建路径搜索器
func NewFinder(net *Network, hours *Evaluator, site Site) *Finder {
	return &Finder{net: net, hours: hours, site: site}
}

// edge 搜索过程中的一条候选边
type edge struct {
	to    string
	kind  EdgeKind
	route string
	walk  float64
}

// Find 搜索从 startID 到 endID 的路径
// 所有索道/滑道跳在 at 时刻都必须处于 Operational; 不可用的边直接不进入搜索
func (f *Finder) Find(startID, endID string, at Moment, opts ...FindOption) (PathResult, error) {
	var o findOptions
	for _, opt := range opts {
		opt(&o)
	}
	if _, ok := f.net.POI(startID); !ok {
		return PathResult{}, fmt.Errorf("%w: start %q", ErrUnknownPOI, startID)
	}
	if _, ok := f.net.POI(endID); !ok {
		return PathResult{}, fmt.Errorf("%w: end %q", ErrUnknownPOI, endID)
	}
	if startID == endID {
		return PathResult{Nodes: []string{startID}, UsedModes: []string{}, Hops: []Hop{}}, nil
	}

	if res, ok := f.search(startID, endID, at, o); ok {
		return res, nil
	}
	if !o.ignoreGates {
		o.ignoreGates = true
		if _, ok := f.search(startID, endID, at, o); ok {
			return PathResult{}, fmt.Errorf("%w: %s -> %s", ErrNoPathFound, startID, endID)
		}
	}
	return PathResult{}, fmt.Errorf("%w: %s -> %s", ErrStructurallyUnreachable, startID, endID)
}

// search 字典序代价的 Dijkstra, 邻居按确定顺序展开
func (f *Finder) search(startID, endID string, at Moment, o findOptions) (PathResult, bool) {
	best := map[string]searchCost{startID: {}}
	prev := make(map[string]string)
	prevEdge := make(map[string]edge)
	visited := make(map[string]bool)

	seq := 0
	pq := make(PriorityQueue, 0)
	heap.Init(&pq)
	heap.Push(&pq, &PriorityQueueItem{NodeID: startID, Seq: seq})

	found := false
	for pq.Len() > 0 {
		current := heap.Pop(&pq).(*PriorityQueueItem)
		if visited[current.NodeID] {
			continue
		}
		visited[current.NodeID] = true
		if current.NodeID == endID {
			found = true
			break
		}

		for _, e := range f.edges(current.NodeID, at, o) {
			if visited[e.to] {
				continue
			}
			next := current.Cost
			next.hops++
			next.walk += e.walk
			if e.kind == EdgeCable || e.kind == EdgeCoaster {
				next.rides++
			}
			if old, ok := best[e.to]; ok && !next.less(old) {
				continue
			}
			best[e.to] = next
			prev[e.to] = current.NodeID
			prevEdge[e.to] = e
			seq++
			heap.Push(&pq, &PriorityQueueItem{NodeID: e.to, Cost: next, Seq: seq})
		}
	}
	if !found {
		return PathResult{}, false
	}

	// 回溯路径和边
	path := []string{}
	hops := []Hop{}
	modes := map[string]bool{}
	for node := endID; node != startID; node = prev[node] {
		path = append(path, node)
		e := prevEdge[node]
		hops = append(hops, Hop{Kind: e.kind, Route: e.route})
		switch e.kind {
		case EdgeCable:
			modes[e.route] = true
		case EdgeCoaster:
			modes[model.ModeCoaster] = true
		}
	}
	path = append(path, startID)
	slices.Reverse(path)
	slices.Reverse(hops)

	return PathResult{Nodes: path, UsedModes: sortedKeys(modes), Hops: hops}, true
}

// edges 展开一个节点的所有可用出边, 顺序: 同区域 -> 步行 -> 索道 -> 滑道
func (f *Finder) edges(id string, at Moment, o findOptions) []edge {
	var out []edge
	for _, other := range f.net.areaNeighbors(id) {
		out = append(out, edge{to: other, kind: EdgeArea})
	}
	for _, other := range f.net.walkNeighbors(id, f.site.MaxWalkDistance) {
		out = append(out, edge{to: other, kind: EdgeWalk, walk: f.net.Distance(id, other)})
	}

	if codes := f.net.routes[id]; len(codes) > 0 && (o.ignoreGates || f.operational(id, at)) {
		seen := make(map[string]bool)
		// 线路代码已排序, 同一对站点取到的第一条线路就是字典序最小的
		for _, code := range codes {
			for _, other := range f.net.byRoute[code] {
				if other == id || seen[other] {
					continue
				}
				seen[other] = true
				if !o.ignoreGates && !f.operational(other, at) {
					continue
				}
				out = append(out, edge{to: other, kind: EdgeCable, route: code})
			}
		}
	}

	if !o.excludeCoaster && id == f.site.CoasterStartID {
		if _, ok := f.net.POI(f.site.CoasterEndID); ok && (o.ignoreGates || f.operational(id, at)) {
			out = append(out, edge{to: f.site.CoasterEndID, kind: EdgeCoaster})
		}
	}
	return out
}

func (f *Finder) operational(id string, at Moment) bool {
	poi, ok := f.net.POI(id)
	if !ok {
		return false
	}
	return f.hours.StatusOf(poi, at).Operational()
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
