package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mountain-map/algo"
	"mountain-map/db"
	"mountain-map/model"
)

// UserStore 账号存储 (生产环境由 db.Store 实现)
type UserStore interface {
	FindUser(ctx context.Context, username string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
}

// DataRefresher 手动触发的数据刷新
type DataRefresher interface {
	Refresh(ctx context.Context) (db.RefreshStats, error)
}

// 全局依赖 (应在 main 中初始化)
var (
	Planner   *algo.Planner
	Users     UserStore
	Refresher DataRefresher

	Logger = slog.Default()

	// Location 景区时区, 没有传入 at 时用当前时间换算
	Location = time.UTC
)

// resolveNow 解析查询时间; 为空时取当前时间
// 运营时间按景区当地时间判断, 所以统一换算到 Location
func resolveNow(at string) (time.Time, error) {
	if at == "" {
		return time.Now().In(Location), nil
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(Location), nil
}

// ready 规划器还没初始化时直接返回 503
func ready(c *gin.Context) bool {
	if Planner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "map data not loaded"})
		return false
	}
	return true
}
