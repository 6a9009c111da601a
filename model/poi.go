package model

import (
	"math"
	"sort"
	"strings"
)

// Point 代表一个经纬度点 (WGS84)
type Point struct {
	Lat float64 // 纬度
	Lng float64 // 经度
}

// POI 分类
const (
	CategoryTransport  = "transport"
	CategoryAttraction = "attraction"
	CategoryFood       = "food"
	CategoryAmenities  = "amenities"
	CategoryReligious  = "religious"
	CategoryHistorical = "historical"
	CategoryViewpoint  = "viewpoint"
	CategoryParking    = "parking"
)

// POI 对应景区地图上的一个兴趣点 (索道站、景点、餐饮、停车场等)
type POI struct {
	ID          string  `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"index"`
	Lat         float64 `json:"latitude"`
	Lng         float64 `json:"longitude"`
	Category    string  `json:"category" gorm:"index"`
	Area        string  `json:"area" gorm:"index"` // 区域标签, 同区域的点之间可以免费换乘步行
	CableRoute  string  `json:"cable_route"`       // 逗号分隔的索道线路代码, 如 "A,B"
	Description string  `json:"description,omitempty"`
}

// Point 返回 POI 的坐标
func (p *POI) Point() Point {
	return Point{Lat: p.Lat, Lng: p.Lng}
}

// IsTransport 只有交通类 POI 才会受运营时间限制
func (p *POI) IsTransport() bool {
	return strings.EqualFold(p.Category, CategoryTransport)
}

// HasPosition 判断坐标是否可用
// (0,0) 视为缺失, 数据源里没填坐标时就是这个值
func (p *POI) HasPosition() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return false
	}
	return p.Lat != 0 || p.Lng != 0
}

// CableRoutes 解析 CableRoute 字段, 返回去重并排序后的线路代码
// 例如: " B, A,B" -> ["A", "B"]
func (p *POI) CableRoutes() []string {
	return ParseRouteCodes(p.CableRoute)
}

// ParseRouteCodes 解析逗号分隔的线路代码
func ParseRouteCodes(raw string) []string {
	seen := make(map[string]bool)
	codes := []string{}
	for _, part := range strings.Split(raw, ",") {
		code := strings.TrimSpace(part)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
