package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mountain-map/algo"
	"mountain-map/model"
)

// 返回给用户的提示
const (
	msgRouteFound      = "Route found"
	msgNoPath          = "No route is available right now: the cable car or coaster stations on the way are closed."
	msgUnreachable     = "These places are not connected by walking paths, cable cars or the coaster."
	msgDescentRequired = "Choose how to go down: cable car or coaster."
)

// RouteRequest 路径规划请求
// start_id 为 "current-location" 或省略时必须提供 start_lat / start_lng
type RouteRequest struct {
	StartID  string   `json:"start_id"`
	EndID    string   `json:"end_id" binding:"required"`
	StartLat *float64 `json:"start_lat,omitempty"` // 用户实时定位 (可选)
	StartLng *float64 `json:"start_lng,omitempty"`
	At       string   `json:"at,omitempty"` // RFC3339, 为空时使用当前时间
}

// DescentRequest 指定下山方式的路径规划请求
type DescentRequest struct {
	RouteRequest
	Choice string `json:"choice" binding:"required"` // cableCar / coaster
}

// RouteResponse 路径规划响应
type RouteResponse struct {
	Found     bool             `json:"found"`
	Path      []PathNode       `json:"path,omitempty"`
	UsedModes []string         `json:"used_modes,omitempty"`
	Itinerary *model.Itinerary `json:"itinerary,omitempty"`
	At        string           `json:"at"`
	Message   string           `json:"message,omitempty"`
}

// parsed 校验过的请求参数
type parsed struct {
	startID string
	endID   string
	now     time.Time
	loc     *model.Point
	opts    []algo.QueryOption
}

func parseRoute(c *gin.Context, req RouteRequest) (parsed, bool) {
	now, err := resolveNow(req.At)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time, expected RFC3339"})
		return parsed{}, false
	}

	p := parsed{startID: req.StartID, endID: req.EndID, now: now}
	if req.StartLat != nil && req.StartLng != nil {
		p.loc = &model.Point{Lat: *req.StartLat, Lng: *req.StartLng}
		p.opts = append(p.opts, algo.FromLocation(*p.loc))
		if p.startID == "" {
			p.startID = algo.CurrentLocationID
		}
	}
	if p.startID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_id or start_lat/start_lng is required"})
		return parsed{}, false
	}
	return p, true
}

// FindRoute 路径规划接口
// 下山歧义时返回 409 和两种方式的可用情况, 前端让用户选择后调用 ResolveDescent
func FindRoute(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if !ready(c) {
		return
	}
	p, ok := parseRoute(c, req)
	if !ok {
		return
	}

	path, err := Planner.FindRoute(p.startID, p.endID, p.now, p.opts...)
	respondRoute(c, p, path, err)
}

// ResolveDescent 按用户选择的下山方式规划路径
func ResolveDescent(c *gin.Context) {
	var req DescentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if !ready(c) {
		return
	}
	choice, err := algo.ParseDescentChoice(req.Choice)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "choice must be cableCar or coaster"})
		return
	}
	p, ok := parseRoute(c, req.RouteRequest)
	if !ok {
		return
	}

	path, err := Planner.ResolveDescent(choice, p.startID, p.endID, p.now, p.opts...)
	respondRoute(c, p, path, err)
}

// DescentOptions 查询两种下山方式当前是否可用
func DescentOptions(c *gin.Context) {
	if !ready(c) {
		return
	}
	now, err := resolveNow(c.Query("at"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time, expected RFC3339"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"at":      now.Format(time.RFC3339),
		"options": Planner.DescentOptionsStatus(now),
	})
}

func respondRoute(c *gin.Context, p parsed, path algo.PathResult, err error) {
	at := p.now.Format(time.RFC3339)

	var ambiguous *algo.AmbiguousDescentError
	switch {
	case err == nil:
	case errors.As(err, &ambiguous):
		c.JSON(http.StatusConflict, gin.H{
			"error":            msgDescentRequired,
			"descent_required": true,
			"options":          ambiguous.Options,
			"at":               at,
		})
		return
	case errors.Is(err, algo.ErrUnknownPOI):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, algo.ErrNoLocation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_lat and start_lng are required for current-location"})
		return
	case errors.Is(err, algo.ErrNoPathFound):
		c.JSON(http.StatusOK, RouteResponse{Found: false, At: at, Message: msgNoPath})
		return
	case errors.Is(err, algo.ErrStructurallyUnreachable):
		c.JSON(http.StatusOK, RouteResponse{Found: false, At: at, Message: msgUnreachable})
		return
	default:
		var invalid *algo.InvalidDataError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		Logger.Error("route planning failed", "start", p.startID, "end", p.endID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "route planning failed"})
		return
	}

	itinerary, err := Planner.SynthesizeItinerary(path, p.opts...)
	if err != nil {
		// 两次调用之间快照被替换, 路径里的点已经不存在
		Logger.Warn("itinerary synthesis failed", "error", err)
		c.JSON(http.StatusConflict, gin.H{"error": "map data changed, please retry"})
		return
	}

	nodes := make([]PathNode, 0, len(path.Nodes))
	for _, id := range path.Nodes {
		if id == algo.CurrentLocationID && p.loc != nil {
			nodes = append(nodes, PathNode{ID: id, Name: "Current location", Lat: p.loc.Lat, Lng: p.loc.Lng, Category: "location"})
			continue
		}
		if poi, ok := Planner.Snapshot().Network.POI(id); ok {
			nodes = append(nodes, toPathNode(poi))
		}
	}

	c.JSON(http.StatusOK, RouteResponse{
		Found:     true,
		Path:      nodes,
		UsedModes: path.UsedModes,
		Itinerary: &itinerary,
		At:        at,
		Message:   msgRouteFound,
	})
}
