package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config アプリケーション設定
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	Backup    BackupConfig
	S3        S3Config
}

// ServerConfig サーバー設定
type ServerConfig struct {
	Port           string
	GinMode        string
	AllowedOrigins []string
}

// LogConfig ログ設定
type LogConfig struct {
	Level     string
	Format    string
	Directory string
}

// StorageConfig selects and locates the goal persistence backend
type StorageConfig struct {
	Driver      string
	DataFile    string
	SQLitePath  string
	DatabaseURL string
}

// RateLimitConfig per-client request limits; RPS 0 disables limiting
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// BackupConfig snapshot backup schedule
type BackupConfig struct {
	Enabled  bool
	Interval time.Duration
	Prefix   string
}

// S3Config S3設定
type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	UseSSL          bool
}

// LoadConfig 環境変数から設定を読み込み
func LoadConfig() *Config {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Log: LogConfig{
			Level:     getEnv("LOG_LEVEL", "info"),
			Format:    getEnv("LOG_FORMAT", "json"),
			Directory: getEnv("LOG_DIRECTORY", ""),
		},
		Storage: StorageConfig{
			Driver:      getEnv("STORAGE_DRIVER", StorageFile),
			DataFile:    getEnv("DATA_FILE", "data/goals.json"),
			SQLitePath:  getEnv("SQLITE_PATH", "data/goals.db"),
			DatabaseURL: getEnv("DATABASE_URL", ""),
		},
		RateLimit: RateLimitConfig{
			RPS:   getFloatEnv("RATE_LIMIT_RPS", 20),
			Burst: getIntEnv("RATE_LIMIT_BURST", 40),
		},
		Backup: BackupConfig{
			Enabled:  getBoolEnv("BACKUP_ENABLED", false),
			Interval: getDurationEnv("BACKUP_INTERVAL", 1*time.Hour),
			Prefix:   getEnv("S3_PREFIX", "backups/"),
		},
		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", "http://localhost:9000"), // MinIO用のデフォルト
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", "goal-app-backups"),
			UseSSL:          getBoolEnv("S3_USE_SSL", false),
		},
	}
}

// getEnv 環境変数を取得（デフォルト値付き）
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv 環境変数をboolで取得
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getIntEnv 環境変数をintで取得
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getFloatEnv 環境変数をfloat64で取得
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getDurationEnv 環境変数をtime.Durationで取得（0以下はデフォルト値）
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

// getListEnv カンマ区切りの環境変数をスライスで取得
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
