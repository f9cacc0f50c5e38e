package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Auth         AuthConfig
	Feed         FeedConfig
	Notification NotificationConfig
}

type ServerConfig struct {
	Port          string
	Mode          string // gin mode: debug / release / test
	LogLevel      string
	TimeZone      string // datetime-local 表單時間的解讀時區
	DefaultLocale string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Migrate  bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
}

type FeedConfig struct {
	CacheTTL time.Duration // 0 表示不快取
}

type NotificationConfig struct {
	Queue             string // memory / redis
	Retention         time.Duration
	RetentionSchedule string // cron 表達式
}

// URL 回傳 golang-migrate 使用的 postgres:// 連線字串
func (c DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%s", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

var AppConfig *Config

func LoadConfig() *Config {
	// .env 為選用，容器或 CI 環境直接提供環境變數
	_ = godotenv.Load()

	AppConfig = &Config{
		Server:       GetServerConfig(),
		Database:     GetDatabaseConfig(),
		Redis:        GetRedisConfig(),
		Auth:         GetAuthConfig(),
		Feed:         GetFeedConfig(),
		Notification: GetNotificationConfig(),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
		Migrate:  true,
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		Server: ServerConfig{
			Port:          "8080",
			Mode:          "test",
			LogLevel:      "info",
			TimeZone:      "UTC",
			DefaultLocale: "en",
		},
		Database: *testConfig,
		Redis:    testRedisConfig,
		Auth:     AuthConfig{JWTSecret: "test-secret"},
		Feed:     FeedConfig{CacheTTL: 30 * time.Second},
		Notification: NotificationConfig{
			Queue:             "memory",
			Retention:         30 * 24 * time.Hour,
			RetentionSchedule: "@daily",
		},
	}
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port:          getEnv("PORT", "8080"),
		Mode:          getEnv("GIN_MODE", "release"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		TimeZone:      getEnv("APP_TIMEZONE", "UTC"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		Migrate:  getEnvBool("DB_MIGRATE", true),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func GetAuthConfig() AuthConfig {
	secret := getEnv("JWT_SECRET", "")
	if secret == "" {
		panic("JWT_SECRET is required")
	}
	return AuthConfig{JWTSecret: secret}
}

func GetFeedConfig() FeedConfig {
	return FeedConfig{
		CacheTTL: getEnvDuration("FEED_CACHE_TTL", 30*time.Second),
	}
}

func GetNotificationConfig() NotificationConfig {
	return NotificationConfig{
		Queue:             getEnv("NOTIFICATION_QUEUE", "redis"),
		Retention:         getEnvDuration("NOTIFICATION_RETENTION", 30*24*time.Hour),
		RetentionSchedule: getEnv("NOTIFICATION_RETENTION_SCHEDULE", "@daily"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		panic(fmt.Errorf("invalid %s: %w", key, err))
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		panic(fmt.Errorf("invalid %s: %w", key, err))
	}
	return d
}
