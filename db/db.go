package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mountain-map/config"
	"mountain-map/model"
	"mountain-map/utils"
)

var DB *gorm.DB

// InitDB 连接数据库, 迁移表结构, 首次运行时导入种子数据并创建管理员
func InitDB(cfg *config.Config, logger *slog.Logger) error {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode, cfg.SiteTimezone,
	)

	// 带重试的数据库连接 (Docker 启动时数据库可能还没准备好)
	var err error
	maxRetries := 30
	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err == nil {
			break
		}
		logger.Warn("waiting for database", "attempt", i+1, "max", maxRetries, "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	// 自动迁移模式 (自动创建表结构)
	if err := DB.AutoMigrate(&model.User{}, &model.POI{}, &model.OperatingSchedule{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// 检查是否需要导入初始数据
	var poiCount int64
	if err := DB.Model(&model.POI{}).Count(&poiCount).Error; err != nil {
		return fmt.Errorf("count pois: %w", err)
	}
	if poiCount == 0 && cfg.SeedFile != "" {
		logger.Info("database is empty, importing seed data", "file", cfg.SeedFile)
		pois, schedules, err := importSeed(DB, cfg.SeedFile)
		if err != nil {
			logger.Warn("seed import failed", "error", err)
		} else {
			logger.Info("seed data imported", "pois", pois, "schedules", schedules)
		}
	}

	if err := ensureAdmin(DB, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	logger.Info("database ready", "host", cfg.DBHost, "name", cfg.DBName)
	return nil
}

// ensureAdmin 管理员不存在时创建; 没有配置密码时跳过
func ensureAdmin(db *gorm.DB, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	var count int64
	if err := db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	return db.Create(&model.User{
		Username: username,
		Password: hashed,
		Roles:    []string{model.RoleAdmin},
	}).Error
}
