package model

// InstructionKind 行程指令类型
type InstructionKind string

const (
	KindWalk         InstructionKind = "walk"         // 普通步行
	KindTransferWalk InstructionKind = "transferWalk" // 同区域站点之间换乘
	KindCableRide    InstructionKind = "cableRide"    // 乘坐索道
	KindCoasterRide  InstructionKind = "coasterRide"  // 乘坐滑道
)

// ModeCoaster 路径使用了滑道时写入 UsedModes 的标记
const ModeCoaster = "coaster"

// 各交通方式的默认速度 (米/分钟)
const (
	SpeedWalk    = 60.0  // 步行: 山区约 3.6 km/h
	SpeedCable   = 300.0 // 索道: 约 5 m/s
	SpeedCoaster = 250.0 // 滑道: 约 15 km/h
)

// 各交通方式的默认等待/准备时间 (分钟)
const (
	WaitTimeCable    = 5 // 排队上缆车
	WaitTimeCoaster  = 5 // 排队上滑道
	TransferWalkTime = 2 // 同区域站点之间换乘
)

// 默认票价 (越南盾), 仅作展示, 不参与路径选择
const (
	FareCable   = 300000
	FareCoaster = 150000
)

// 默认距离参数 (米)
const (
	MaxWalkDistance    = 500.0 // 两个 POI 之间允许直接步行的最大距离
	LiveLocationRadius = 150.0 // 用户定位点与区域 POI 的"同区域"判定半径
)

// Instruction 行程中的一条指令
type Instruction struct {
	Kind            InstructionKind `json:"kind"`
	FromID          string          `json:"from_id"`
	ToID            string          `json:"to_id"`
	DistanceMeters  float64         `json:"distance_meters"`  // 乘坐类指令为 0
	DurationMinutes int             `json:"duration_minutes"` // 预计时间 (分钟)
	CostAmount      int64           `json:"cost_amount"`      // 步行为 0
	RouteLabel      string          `json:"route_label,omitempty"`
}

// Itinerary 完整行程: 指令列表和合计
type Itinerary struct {
	Instructions         []Instruction `json:"instructions"`
	TotalDistanceMeters  float64       `json:"total_distance_meters"`
	TotalDurationMinutes int           `json:"total_duration_minutes"`
	TotalCost            int64         `json:"total_cost"`
}
