package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server (api 커맨드)
	Port string
	Env  string // development, staging, production

	// External collaborators
	Kakao KakaoConfig
	Feed  FeedConfig
	Naver NaverConfig

	// Selection
	Selection SelectionConfig

	// History
	History HistoryConfig

	// Database (optional pick archive)
	Database DatabaseConfig

	// Scheduler
	AlertSchedule string

	// Logging
	LogLevel  string
	LogFormat string
}

// KakaoConfig holds Kakao OAuth / message API configuration
type KakaoConfig struct {
	RESTKey      string
	RefreshToken string
	AuthURL      string
	APIURL       string
}

// FeedConfig holds the candidate sheet feed configuration
type FeedConfig struct {
	CSVURL         string
	DropBlankNames bool
}

// NaverConfig holds Naver Finance scrape configuration
type NaverConfig struct {
	BaseURL     string
	RankPages   int           // 시총 페이지 수 (페이지당 ~50종목)
	RankCeiling int           // 시총순위 상한
	PageDelay   time.Duration // 페이지 간 대기
}

// SelectionConfig holds candidate selection configuration
type SelectionConfig struct {
	TopN int
}

// HistoryConfig holds the daily pick archive configuration
type HistoryConfig struct {
	Dir      string
	Timezone string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Kakao: KakaoConfig{
			RESTKey:      getEnv("KAKAO_REST_KEY", ""),
			RefreshToken: getEnv("KAKAO_REFRESH_TOKEN", ""),
			AuthURL:      getEnv("KAKAO_AUTH_URL", "https://kauth.kakao.com"),
			APIURL:       getEnv("KAKAO_API_URL", "https://kapi.kakao.com"),
		},

		Feed: FeedConfig{
			CSVURL:         getEnv("SHEET_CSV_URL", ""),
			DropBlankNames: getEnvAsBool("FEED_DROP_BLANK_NAMES", true),
		},

		Naver: NaverConfig{
			BaseURL:     getEnv("NAVER_BASE_URL", "https://finance.naver.com"),
			RankPages:   getEnvAsInt("RANK_PAGES", 10),
			RankCeiling: getEnvAsInt("RANK_CEILING", 200),
			PageDelay:   getEnvAsDuration("RANK_PAGE_DELAY", "200ms"),
		},

		Selection: SelectionConfig{
			TopN: getEnvAsInt("TOP_N", 3),
		},

		History: HistoryConfig{
			Dir:      getEnv("HISTORY_DIR", "history"),
			Timezone: getEnv("HISTORY_TZ", "Asia/Seoul"),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 5),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// 평일 16:10 KST (장마감 후)
		AlertSchedule: getEnv("ALERT_SCHEDULE", "0 10 16 * * 1-5"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Naver.RankPages < 1 {
		return fmt.Errorf("RANK_PAGES must be at least 1")
	}

	if c.Naver.RankCeiling < 1 {
		return fmt.Errorf("RANK_CEILING must be at least 1")
	}

	if c.Selection.TopN < 1 {
		return fmt.Errorf("TOP_N must be at least 1")
	}

	return nil
}

// RequireAlert checks the values the alert run path cannot work without.
// preview/api 커맨드는 Kakao 자격증명 없이도 동작해야 하므로 validate()와 분리
func (c *Config) RequireAlert() error {
	if c.Kakao.RESTKey == "" {
		return fmt.Errorf("KAKAO_REST_KEY is required")
	}
	if c.Kakao.RefreshToken == "" {
		return fmt.Errorf("KAKAO_REFRESH_TOKEN is required")
	}
	return c.RequireFeed()
}

// RequireFeed checks the values any candidate fetch needs.
func (c *Config) RequireFeed() error {
	if c.Feed.CSVURL == "" {
		return fmt.Errorf("SHEET_CSV_URL is required")
	}
	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
