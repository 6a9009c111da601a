package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mountain-map/algo"
	"mountain-map/model"
)

// Source 路径网络的数据来源
type Source interface {
	LoadSiteData(ctx context.Context) ([]model.POI, []model.OperatingSchedule, error)
}

// RefreshStats 一次刷新的结果
type RefreshStats struct {
	POIs      int       `json:"pois"`
	Schedules int       `json:"schedules"`
	Warnings  []string  `json:"warnings"`
	At        time.Time `json:"at"`
}

// Refresher 定期从数据库重新加载 POI 和运营时间, 原子替换规划器的快照
type Refresher struct {
	source   Source
	planner  *algo.Planner
	interval time.Duration
	logger   *slog.Logger

	mu sync.Mutex // 同一时间只有一次刷新
}

// NewRefresher 创建刷新器, interval 为 0 时只响应手动刷新
func NewRefresher(source Source, planner *algo.Planner, interval time.Duration, logger *slog.Logger) *Refresher {
	return &Refresher{source: source, planner: planner, interval: interval, logger: logger}
}

// Refresh 立即刷新一次
// 读取失败时保留旧快照并返回错误; 个别数据有问题时照常替换, 问题写入 Warnings
func (r *Refresher) Refresh(ctx context.Context) (RefreshStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pois, schedules, err := r.source.LoadSiteData(ctx)
	if err != nil {
		r.logger.Error("refresh failed, keeping previous network", "error", err)
		return RefreshStats{}, fmt.Errorf("refresh: %w", err)
	}

	stats := RefreshStats{POIs: len(pois), Schedules: len(schedules), Warnings: []string{}, At: time.Now()}
	if err := r.planner.Reload(pois, schedules); err != nil {
		stats.Warnings = warnings(err)
	}
	return stats, nil
}

// Start 按间隔刷新, 直到 ctx 取消
func (r *Refresher) Start(ctx context.Context) {
	if r.interval <= 0 {
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = r.Refresh(ctx)
		case <-ctx.Done():
			r.logger.Info("refresher stopped")
			return
		}
	}
}

func warnings(err error) []string {
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		return []string{err.Error()}
	}
	var out []string
	for _, e := range joined.Unwrap() {
		out = append(out, warnings(e)...)
	}
	return out
}
