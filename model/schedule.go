package model

import "time"

// 运营时间表里使用的日期键
const (
	DayDefault = "default"
	DayClosed  = "closed"
)

// WeekdayKeys 按 time.Weekday 顺序排列的日期键 (周日 = 0)
var WeekdayKeys = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// DayKey 获取某个星期几对应的日期键
func DayKey(d time.Weekday) string {
	return WeekdayKeys[int(d)%7]
}

// OperatingSchedule 一个 POI 的运营时间记录
// OperatingHours 保存原始 JSON 文本, 例如 {"default":"07:00-17:30","sun":"closed"}
type OperatingSchedule struct {
	POIID          string `json:"id" gorm:"primaryKey;column:poi_id"`
	OperatingHours string `json:"operating_hours" gorm:"type:text"`
}
