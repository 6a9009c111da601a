package algo

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPathFound 起终点在结构上连通, 但当前运营时间下没有可用路径
	ErrNoPathFound = errors.New("no path found under current operating hours")
	// ErrStructurallyUnreachable 即使全部设施开放也无法到达 (仅用于诊断日志)
	ErrStructurallyUnreachable = errors.New("destination structurally unreachable")
	// ErrUnknownPOI 起点或终点不在当前网络中
	ErrUnknownPOI = errors.New("unknown poi")
	// ErrInvalidChoice 下山方式不是 cableCar / coaster
	ErrInvalidChoice = errors.New("invalid descent choice")
	// ErrNoLocation 起点是用户定位, 但没有提供坐标
	ErrNoLocation = errors.New("current location requested without a position")
)

// InvalidDataError 建图时被排除的 POI
type InvalidDataError struct {
	POIID  string
	Reason string
}

func (e *InvalidDataError) Error() string {
	return fmt.Sprintf("invalid poi %q: %s", e.POIID, e.Reason)
}

// ScheduleFormatError 无法解析的运营时间
type ScheduleFormatError struct {
	POIID  string
	Value  string
	Reason string
}

func (e *ScheduleFormatError) Error() string {
	return fmt.Sprintf("schedule for %q: invalid value %q: %s", e.POIID, e.Value, e.Reason)
}

// AmbiguousDescentError 查询命中下山歧义区域但没有指定下山方式
// 调用方应根据 Options 让用户选择, 再调用 ResolveDescent
type AmbiguousDescentError struct {
	StartID string
	EndID   string
	Options DescentOptions
}

func (e *AmbiguousDescentError) Error() string {
	return fmt.Sprintf("descent from %q to %q needs a choice (cable car: %t, coaster: %t)",
		e.StartID, e.EndID, e.Options.CableCarAvailable, e.Options.CoasterAvailable)
}
