package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"mountain-map/algo"
	"mountain-map/model"
)

// PathNode 返回给前端的 POI 信息
type PathNode struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Category string   `json:"category"`
	Area     string   `json:"area,omitempty"`
	Routes   []string `json:"routes,omitempty"` // 仅交通类
}

func toPathNode(poi *model.POI) PathNode {
	node := PathNode{
		ID:       poi.ID,
		Name:     poi.Name,
		Lat:      poi.Lat,
		Lng:      poi.Lng,
		Category: poi.Category,
		Area:     poi.Area,
	}
	if poi.IsTransport() {
		node.Routes = poi.CableRoutes()
	}
	return node
}

// GetPOIs 获取所有 POI, 可按 category / area 过滤
func GetPOIs(c *gin.Context) {
	if !ready(c) {
		return
	}
	category := c.Query("category")
	area := c.Query("area")

	pois := Planner.Snapshot().Network.POIs()
	nodes := make([]PathNode, 0, len(pois))
	for i := range pois {
		if category != "" && !strings.EqualFold(pois[i].Category, category) {
			continue
		}
		if area != "" && pois[i].Area != area {
			continue
		}
		nodes = append(nodes, toPathNode(&pois[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(nodes),
		"pois":  nodes,
	})
}

// GetPOIByID 根据 ID 获取 POI
func GetPOIByID(c *gin.Context) {
	if !ready(c) {
		return
	}
	poi, ok := Planner.Snapshot().Network.POI(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "poi not found"})
		return
	}
	c.JSON(http.StatusOK, toPathNode(poi))
}

// SearchPOIs 按名称或 ID 模糊搜索 (不区分大小写)
func SearchPOIs(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing search query"})
		return
	}
	if !ready(c) {
		return
	}

	needle := strings.ToLower(query)
	pois := Planner.Snapshot().Network.POIs()
	results := make([]PathNode, 0)
	for i := range pois {
		if strings.Contains(strings.ToLower(pois[i].Name), needle) || strings.Contains(strings.ToLower(pois[i].ID), needle) {
			results = append(results, toPathNode(&pois[i]))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}

// GetPOIStatus 某个 POI 在指定时刻的运营状态
func GetPOIStatus(c *gin.Context) {
	if !ready(c) {
		return
	}
	now, err := resolveNow(c.Query("at"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time, expected RFC3339"})
		return
	}

	id := c.Param("id")
	status, err := Planner.StatusOf(id, now)
	if errors.Is(err, algo.ErrUnknownPOI) {
		c.JSON(http.StatusNotFound, gin.H{"error": "poi not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          id,
		"at":          now.Format(time.RFC3339),
		"operational": status.Operational(),
		"status":      status,
	})
}

// NearestPOI 离给定坐标最近的 POI, 用于把用户定位吸附到地图点上
func NearestPOI(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng are required"})
		return
	}
	if !ready(c) {
		return
	}

	poi, dist := Planner.Snapshot().Network.Nearest(model.Point{Lat: lat, Lng: lng})
	if poi == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no poi loaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"poi":             toPathNode(poi),
		"distance_meters": dist,
	})
}
