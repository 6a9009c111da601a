package algo

import (
	"errors"

	"mountain-map/model"
)

// Site 当前景区部署的固定参数
// 滑道起终点和下山歧义区域都是这个部署的数据常量, 不是通用的多路径检测
type Site struct {
	CoasterStartID string `yaml:"coaster_start_id"`
	CoasterEndID   string `yaml:"coaster_end_id"`
	UpperArea      string `yaml:"upper_area"` // 歧义区域的上方 (Chùa Bà)
	BaseArea       string `yaml:"base_area"`  // 歧义区域的下方 (Chân núi)

	WalkSpeed          float64 `yaml:"walk_speed"`           // 米/分钟
	MaxWalkDistance    float64 `yaml:"max_walk_distance"`    // 米
	LiveLocationRadius float64 `yaml:"live_location_radius"` // 米

	CableSpeed       float64 `yaml:"cable_speed"`
	CoasterSpeed     float64 `yaml:"coaster_speed"`
	CableWait        int     `yaml:"cable_wait"`
	CoasterWait      int     `yaml:"coaster_wait"`
	TransferWalkTime int     `yaml:"transfer_walk_time"`

	CableFare   int64 `yaml:"cable_fare"`
	CoasterFare int64 `yaml:"coaster_fare"`
}

// DefaultSite 返回当前部署 (Núi Bà Đen) 的参数
func DefaultSite() Site {
	return Site{
		CoasterStartID: "coaster_chua_ba",
		CoasterEndID:   "coaster_chan_nui",
		UpperArea:      "Chùa Bà",
		BaseArea:       "Chân núi",

		WalkSpeed:          model.SpeedWalk,
		MaxWalkDistance:    model.MaxWalkDistance,
		LiveLocationRadius: model.LiveLocationRadius,

		CableSpeed:       model.SpeedCable,
		CoasterSpeed:     model.SpeedCoaster,
		CableWait:        model.WaitTimeCable,
		CoasterWait:      model.WaitTimeCoaster,
		TransferWalkTime: model.TransferWalkTime,

		CableFare:   model.FareCable,
		CoasterFare: model.FareCoaster,
	}
}

// Validate 检查参数是否可用
func (s Site) Validate() error {
	var errs []error
	if s.CoasterStartID == "" || s.CoasterEndID == "" {
		errs = append(errs, errors.New("coaster node ids must be set"))
	}
	if s.CoasterStartID == s.CoasterEndID && s.CoasterStartID != "" {
		errs = append(errs, errors.New("coaster start and end must differ"))
	}
	if s.WalkSpeed <= 0 || s.CableSpeed <= 0 || s.CoasterSpeed <= 0 {
		errs = append(errs, errors.New("speeds must be positive"))
	}
	if s.MaxWalkDistance < 0 || s.LiveLocationRadius < 0 {
		errs = append(errs, errors.New("distances must not be negative"))
	}
	if s.CableWait < 0 || s.CoasterWait < 0 || s.TransferWalkTime < 0 {
		errs = append(errs, errors.New("wait times must not be negative"))
	}
	if s.CableFare < 0 || s.CoasterFare < 0 {
		errs = append(errs, errors.New("fares must not be negative"))
	}
	return errors.Join(errs...)
}

// isCoasterHop 判断 a->b 是否正好是滑道 (只能下行)
func (s Site) isCoasterHop(a, b string) bool {
	return a == s.CoasterStartID && b == s.CoasterEndID
}
