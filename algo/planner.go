package algo

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"mountain-map/model"
)

// Snapshot 一次数据加载得到的只读视图: 网络 + 运营时间
type Snapshot struct {
	Network *Network
	Hours   *Evaluator
	BuiltAt time.Time
}

// Planner 对外提供路径规划接口
// 快照指针是唯一的共享可变状态: 刷新时整体替换, 正在进行的查询继续使用旧快照
type Planner struct {
	site    Site
	logger  *slog.Logger
	current atomic.Pointer[Snapshot]
}

// NewPlanner 创建一个带空快照的 Planner
func NewPlanner(site Site, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Planner{site: site, logger: logger}
	empty, _ := BuildNetwork(nil, site)
	p.current.Store(&Snapshot{Network: empty, Hours: NewEvaluator(nil)})
	return p
}

// Site 当前部署参数
func (p *Planner) Site() Site {
	return p.site
}

// Snapshot 当前快照
func (p *Planner) Snapshot() *Snapshot {
	return p.current.Load()
}

// Reload 用新数据重建快照并原子替换
// 个别 POI 或运营时间有问题时照样替换, 问题通过返回的错误告知调用方
func (p *Planner) Reload(pois []model.POI, schedules []model.OperatingSchedule) error {
	net, netErr := BuildNetwork(pois, p.site)
	records, schedErr := ParseSchedules(schedules)

	logRejected(p.logger, "poi excluded", netErr)
	logRejected(p.logger, "schedule rejected", schedErr)

	snap := &Snapshot{Network: net, Hours: NewEvaluator(records), BuiltAt: time.Now()}
	p.current.Store(snap)
	p.logger.Info("network rebuilt", "pois", net.Len(), "schedules", len(records), "routes", len(net.RouteCodes()))
	return errors.Join(netErr, schedErr)
}

func logRejected(logger *slog.Logger, msg string, err error) {
	if err == nil {
		return
	}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			logger.Warn(msg, "error", e)
		}
		return
	}
	logger.Warn(msg, "error", err)
}

// QueryOption 单次查询的附加参数
type QueryOption func(*query)

type query struct {
	location *model.Point
}

// FromLocation 提供用户实时定位, 允许使用 CurrentLocationID 作为起点或终点
func FromLocation(pt model.Point) QueryOption {
	return func(q *query) { q.location = &pt }
}

// session 绑定到某个快照的一次查询
type session struct {
	net     *Network
	finder  *Finder
	descent *Disambiguator
	synth   *Synthesizer
	at      Moment
}

func (p *Planner) session(now time.Time, opts []QueryOption) (*session, error) {
	var q query
	for _, opt := range opts {
		opt(&q)
	}
	snap := p.current.Load()
	net := snap.Network
	if q.location != nil {
		withLive, err := net.WithCurrentLocation(*q.location)
		if err != nil {
			return nil, err
		}
		net = withLive
	}
	finder := NewFinder(net, snap.Hours, p.site)
	return &session{
		net:     net,
		finder:  finder,
		descent: NewDisambiguator(finder),
		synth:   NewSynthesizer(net, p.site),
		at:      MomentOf(now),
	}, nil
}

func (p *Planner) checkLocation(startID, endID string, opts []QueryOption) error {
	if startID != CurrentLocationID && endID != CurrentLocationID {
		return nil
	}
	var q query
	for _, opt := range opts {
		opt(&q)
	}
	if q.location == nil {
		return ErrNoLocation
	}
	return nil
}

// FindRoute 普通路径规划
// 起终点落在下山歧义区域且两种方式都可用时, 返回 *AmbiguousDescentError, 由调用方让用户选择
func (p *Planner) FindRoute(startID, endID string, now time.Time, opts ...QueryOption) (PathResult, error) {
	if err := p.checkLocation(startID, endID, opts); err != nil {
		return PathResult{}, err
	}
	s, err := p.session(now, opts)
	if err != nil {
		return PathResult{}, err
	}
	if s.descent.Detect(startID, endID) {
		if options := s.descent.OptionsStatus(s.at); options.Both() {
			return PathResult{}, &AmbiguousDescentError{StartID: startID, EndID: endID, Options: options}
		}
	}
	res, err := s.finder.Find(startID, endID, s.at)
	p.logOutcome(startID, endID, err)
	return res, err
}

// IsDescentAmbiguous 起终点是否落在 Chùa Bà -> Chân núi 下山区域
func (p *Planner) IsDescentAmbiguous(startID, endID string, opts ...QueryOption) bool {
	s, err := p.session(time.Time{}, opts)
	if err != nil {
		return false
	}
	return s.descent.Detect(startID, endID)
}

// DescentOptionsStatus 两种下山方式当前是否可用
func (p *Planner) DescentOptionsStatus(now time.Time) DescentOptions {
	s, _ := p.session(now, nil)
	return s.descent.OptionsStatus(s.at)
}

// ResolveDescent 按用户选择的下山方式规划路径
func (p *Planner) ResolveDescent(choice DescentChoice, startID, endID string, now time.Time, opts ...QueryOption) (PathResult, error) {
	if err := p.checkLocation(startID, endID, opts); err != nil {
		return PathResult{}, err
	}
	s, err := p.session(now, opts)
	if err != nil {
		return PathResult{}, err
	}
	res, err := s.descent.Resolve(choice, startID, endID, s.at)
	p.logOutcome(startID, endID, err)
	return res, err
}

// SynthesizeItinerary 生成行程指令和合计
func (p *Planner) SynthesizeItinerary(path PathResult, opts ...QueryOption) (model.Itinerary, error) {
	s, err := p.session(time.Time{}, opts)
	if err != nil {
		return model.Itinerary{}, err
	}
	return s.synth.Synthesize(path)
}

// StatusOf 某个 POI 在 now 时刻的运营状态
func (p *Planner) StatusOf(id string, now time.Time) (Status, error) {
	snap := p.current.Load()
	poi, ok := snap.Network.POI(id)
	if !ok {
		return Status{}, fmt.Errorf("%w: %q", ErrUnknownPOI, id)
	}
	return snap.Hours.StatusOf(poi, MomentOf(now)), nil
}

// logOutcome 结构性不可达只写诊断日志, 不作为用户可见的区别
func (p *Planner) logOutcome(startID, endID string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, ErrNoPathFound):
		p.logger.Debug("route blocked by operating hours", "start", startID, "end", endID, "error", err)
	case errors.Is(err, ErrStructurallyUnreachable):
		p.logger.Info("route structurally unreachable", "start", startID, "end", endID)
	}
}
