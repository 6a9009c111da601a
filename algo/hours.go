package algo

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"mountain-map/model"
)

// State 运营状态
type State int

const (
	NoSchedule State = iota
	Closed
	BeforeOpen
	AfterClose
	Operational
)

func (s State) String() string {
	switch s {
	case NoSchedule:
		return "no_schedule"
	case Closed:
		return "closed"
	case BeforeOpen:
		return "before_open"
	case AfterClose:
		return "after_close"
	case Operational:
		return "operational"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText 以字符串形式输出到 JSON
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Moment 查询时刻 (星期几 + 时分)
// 评估器不读系统时钟, 时刻总是由调用方传入
type Moment struct {
	Weekday time.Weekday
	Hour    int
	Minute  int
}

// MomentOf 从 time.Time 取出时刻, 使用 t 自带的时区
func MomentOf(t time.Time) Moment {
	return Moment{Weekday: t.Weekday(), Hour: t.Hour(), Minute: t.Minute()}
}

func (m Moment) minutes() int {
	return m.Hour*60 + m.Minute
}

// Status 一次评估的结果
type Status struct {
	State  State  `json:"state"`
	Reason string `json:"reason"`
	Opens  string `json:"opens,omitempty"`  // HH:MM
	Closes string `json:"closes,omitempty"` // HH:MM
	Err    error  `json:"-"`                // 运营时间格式错误
}

// Operational 当前是否可用
func (s Status) Operational() bool {
	return s.State == Operational
}

// ScheduleRecord 解析后的运营时间记录
type ScheduleRecord struct {
	POIID string
	Days  map[string]string // 日期键 (小写) -> "closed" 或 "HH:MM-HH:MM"
	Err   error             // 整条记录无法解析时保留的错误
}

// ParseScheduleRecord 解析 operating_hours JSON 文本
// 解析失败时仍然返回一条带 Err 的记录, 该 POI 会被当作不可用, 不影响其他 POI
func ParseScheduleRecord(s model.OperatingSchedule) (*ScheduleRecord, error) {
	rec := &ScheduleRecord{POIID: s.POIID}
	if strings.TrimSpace(s.OperatingHours) == "" {
		return rec, nil
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(s.OperatingHours), &raw); err != nil {
		rec.Err = &ScheduleFormatError{POIID: s.POIID, Value: s.OperatingHours, Reason: "not a JSON object"}
		return rec, rec.Err
	}
	rec.Days = make(map[string]string, len(raw))
	var errs []error
	for key, value := range raw {
		str, ok := value.(string)
		if !ok {
			// 非字符串的值只影响这一天, 评估时会得到格式错误
			str = fmt.Sprint(value)
			errs = append(errs, &ScheduleFormatError{POIID: s.POIID, Value: str, Reason: "day value must be a string"})
		}
		rec.Days[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(str)
	}
	return rec, errors.Join(errs...)
}

// ParseSchedules 批量解析, 返回 POI ID -> 记录
// 所有记录都会被保留, 错误通过 errors.Join 汇总
func ParseSchedules(schedules []model.OperatingSchedule) (map[string]*ScheduleRecord, error) {
	out := make(map[string]*ScheduleRecord, len(schedules))
	var errs []error
	for _, s := range schedules {
		rec, err := ParseScheduleRecord(s)
		if err != nil {
			errs = append(errs, err)
		}
		out[s.POIID] = rec
	}
	return out, errors.Join(errs...)
}

// Evaluate 评估一条运营时间记录在某个时刻的状态
// 纯函数: 相同输入总是相同输出
func Evaluate(rec *ScheduleRecord, at Moment) Status {
	if rec == nil {
		return Status{State: NoSchedule, Reason: "no schedule"}
	}
	if rec.Err != nil {
		return Status{State: NoSchedule, Reason: "invalid operating hours", Err: rec.Err}
	}

	value, ok := rec.Days[model.DayKey(at.Weekday)]
	if !ok {
		// 当天没有单独规则, 回退到 default
		value, ok = rec.Days[model.DayDefault]
	}
	if !ok {
		return Status{State: NoSchedule, Reason: "no schedule"}
	}
	if strings.EqualFold(value, model.DayClosed) {
		return Status{State: Closed, Reason: "closed today"}
	}

	open, closing, err := parseRange(value)
	if err != nil {
		ferr := &ScheduleFormatError{POIID: rec.POIID, Value: value, Reason: err.Error()}
		return Status{State: NoSchedule, Reason: "invalid operating hours: " + value, Err: ferr}
	}

	opens, closes := formatMinutes(open), formatMinutes(closing)
	now := at.minutes()
	switch {
	case now < open:
		return Status{State: BeforeOpen, Reason: "opens at " + opens, Opens: opens, Closes: closes}
	case now >= closing:
		return Status{State: AfterClose, Reason: "closed at " + closes, Opens: opens, Closes: closes}
	default:
		return Status{State: Operational, Reason: "open until " + closes, Opens: opens, Closes: closes}
	}
}

var rangePattern = regexp.MustCompile(`^(\d{2}):(\d{2})-(\d{2}):(\d{2})$`)

// parseRange 严格解析 "HH:MM-HH:MM", 返回开门和关门的分钟数
func parseRange(value string) (int, int, error) {
	m := rangePattern.FindStringSubmatch(value)
	if m == nil {
		return 0, 0, errors.New("expected HH:MM-HH:MM")
	}
	open, err := clock(m[1], m[2])
	if err != nil {
		return 0, 0, err
	}
	closing, err := clock(m[3], m[4])
	if err != nil {
		return 0, 0, err
	}
	if open >= closing {
		return 0, 0, errors.New("opening time must be before closing time")
	}
	return open, closing, nil
}

func clock(hh, mm string) (int, error) {
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("time %s:%s out of range", hh, mm)
	}
	return h*60 + m, nil
}

func formatMinutes(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Evaluator 持有一份运营时间快照, 回答某个 POI 当前是否可用
type Evaluator struct {
	records map[string]*ScheduleRecord
}

// NewEvaluator 创建评估器, records 之后不应再被修改
func NewEvaluator(records map[string]*ScheduleRecord) *Evaluator {
	if records == nil {
		records = map[string]*ScheduleRecord{}
	}
	return &Evaluator{records: records}
}

// Record 获取某个 POI 的运营时间记录
func (e *Evaluator) Record(id string) (*ScheduleRecord, bool) {
	rec, ok := e.records[id]
	return rec, ok
}

// StatusOf 评估一个 POI
// 非交通类 POI 没有运营时间时视为不受限制; 交通类 POI 没有运营时间时状态未知, 按不可用处理
func (e *Evaluator) StatusOf(poi *model.POI, at Moment) Status {
	rec := e.records[poi.ID]
	if !poi.IsTransport() && (rec == nil || (rec.Err == nil && len(rec.Days) == 0)) {
		return Status{State: Operational, Reason: "not gated"}
	}
	return Evaluate(rec, at)
}
