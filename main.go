package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"mountain-map/algo"
	"mountain-map/config"
	"mountain-map/db"
	"mountain-map/handler"
	"mountain-map/model"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	// 1. 景区参数 (滑道站点、歧义区域、速度和票价)
	site, err := config.LoadSite(cfg.SiteConfig)
	if err != nil {
		logger.Error("load site config", "error", err)
		os.Exit(1)
	}

	// 2. 初始化数据库
	// 连接 PostgreSQL，自动迁移表结构; 第一次运行时导入种子数据
	if err := db.InitDB(cfg, logger); err != nil {
		logger.Error("init database", "error", err)
		os.Exit(1)
	}
	store := db.NewStore(db.DB)

	// 3. 从数据库构建路径网络, 之后定期刷新
	planner := algo.NewPlanner(site, logger)
	refresher := db.NewRefresher(store, planner, cfg.RefreshInterval, logger)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if _, err := refresher.Refresh(ctx); err != nil {
		logger.Error("initial load", "error", err)
		os.Exit(1)
	}
	go refresher.Start(ctx)

	// 4. 注入 handler 依赖
	handler.Planner = planner
	handler.Users = store
	handler.Refresher = refresher
	handler.Logger = logger
	handler.Location = cfg.Location()
	handler.SetJWTSecret(cfg.JWTSecret)

	// 5. 初始化 Gin 引擎并配置路由
	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger())
	setupRoutes(r, cfg)

	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Port), Handler: r}
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "coaster", site.CoasterStartID+" -> "+site.CoasterEndID)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("server stopped")
}

// setupRoutes 配置路由
func setupRoutes(r *gin.Engine, cfg *config.Config) {
	// CORS 跨域中间件
	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		snap := handler.Planner.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"message":  "pong",
			"status":   "ok",
			"pois":     snap.Network.Len(),
			"built_at": snap.BuiltAt,
		})
	})

	// API 路由组
	api := r.Group("/api")
	{
		// 公开接口 (无需认证)
		api.POST("/login", handler.Login)

		// POI 相关接口
		api.GET("/pois", handler.GetPOIs)
		api.GET("/pois/search", handler.SearchPOIs)
		api.GET("/pois/nearest", handler.NearestPOI)
		api.GET("/pois/:id", handler.GetPOIByID)
		api.GET("/pois/:id/status", handler.GetPOIStatus)

		// 路径规划
		api.POST("/route/find", handler.FindRoute)
		api.GET("/route/descent/options", handler.DescentOptions)
		api.POST("/route/descent/resolve", handler.ResolveDescent)

		// 管理接口
		admin := api.Group("/admin")
		admin.Use(handler.AuthMiddleware(model.RoleAdmin))
		{
			admin.POST("/refresh", handler.RefreshData)
			admin.POST("/users", handler.Register)
		}
	}
}
