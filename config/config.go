package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config 服务配置, 全部来自环境变量 (可选 .env 文件)
type Config struct {
	Port int

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	SeedFile     string // 数据库为空时导入的 JSON 文件
	SiteConfig   string // 景区参数 YAML, 为空时使用默认参数
	SiteTimezone string // 没有显式传入查询时间时使用的时区

	JWTSecret     string
	AdminUsername string
	AdminPassword string // 为空时不创建管理员账号

	RefreshInterval time.Duration // 0 表示只在启动和手动触发时刷新
	LogLevel        string
	CORSOrigins     []string // 为空时允许所有来源
}

// Load 读取配置; .env 不存在时直接使用进程环境变量
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port: envInt("PORT", 8080),

		DBHost:     envStr("DB_HOST", "localhost"),
		DBPort:     envInt("DB_PORT", 5432),
		DBUser:     envStr("DB_USER", "mountain"),
		DBPassword: envStr("DB_PASSWORD", "mountain"),
		DBName:     envStr("DB_NAME", "mountain_map"),
		DBSSLMode:  envStr("DB_SSLMODE", "disable"),

		SeedFile:     envStr("SEED_FILE", "site_data.json"),
		SiteConfig:   envStr("SITE_CONFIG", ""),
		SiteTimezone: envStr("SITE_TIMEZONE", "Asia/Ho_Chi_Minh"),

		JWTSecret:     envStr("JWT_SECRET", "change-me-in-production"),
		AdminUsername: envStr("ADMIN_USERNAME", "admin"),
		AdminPassword: envStr("ADMIN_PASSWORD", ""),

		RefreshInterval: envDuration("REFRESH_INTERVAL", 10*time.Minute),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		CORSOrigins:     envList("CORS_ORIGINS"),
	}
}

// Location 景区所在时区, 无法加载时退回 UTC+7
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.SiteTimezone)
	if err != nil {
		return time.FixedZone("ICT", 7*3600)
	}
	return loc
}

// Level 解析日志级别, 无法识别时使用 info
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
