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
	// Server
	Port string
	Env  string // development, staging, production

	// Redis
	Redis RedisConfig

	// Upstream market data API
	MarketData MarketDataConfig

	// Engines
	Engine EngineConfig

	// Theme definitions
	ThemesPath string

	// Scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// MarketDataConfig holds upstream quote API configuration
type MarketDataConfig struct {
	BaseURL        string
	UserAgent      string
	Timeout        time.Duration
	RequestsPerSec float64 // politeness limit toward the upstream
	Burst          int
}

// EngineConfig holds comparison/scoring engine tuning
type EngineConfig struct {
	DiscoveryWorkers   int // bounded concurrency for candidate scans
	FetchWorkers       int // bounded concurrency for batch metric/history fetches
	DefaultPeerLimit   int
	DeviationThreshold float64 // strength/weakness trigger, percent vs peer median
	ValuationThreshold float64 // weakness trigger for valuation premiums, percent
}

// SchedulerConfig holds background job configuration
type SchedulerConfig struct {
	Enabled         bool
	ThemeReloadCron string // cron spec (with seconds field)
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8091"),
		Env:  getEnv("ENV", "development"),

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Upstream market data
		MarketData: MarketDataConfig{
			BaseURL:        getEnv("MARKETDATA_BASE_URL", "https://query1.finance.yahoo.com"),
			UserAgent:      getEnv("MARKETDATA_USER_AGENT", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"),
			Timeout:        getEnvAsDuration("MARKETDATA_TIMEOUT", "15s"),
			RequestsPerSec: getEnvAsFloat("MARKETDATA_RATE_PER_SEC", 10),
			Burst:          getEnvAsInt("MARKETDATA_RATE_BURST", 10),
		},

		// Engines
		Engine: EngineConfig{
			DiscoveryWorkers:   getEnvAsInt("ENGINE_DISCOVERY_WORKERS", 10),
			FetchWorkers:       getEnvAsInt("ENGINE_FETCH_WORKERS", 10),
			DefaultPeerLimit:   getEnvAsInt("ENGINE_DEFAULT_PEER_LIMIT", 5),
			DeviationThreshold: getEnvAsFloat("ENGINE_DEVIATION_THRESHOLD", 20),
			ValuationThreshold: getEnvAsFloat("ENGINE_VALUATION_THRESHOLD", 30),
		},

		// Theme definitions
		ThemesPath: getEnv("THEMES_PATH", "config/themes.yaml"),

		// Scheduler
		Scheduler: SchedulerConfig{
			Enabled:         getEnvAsBool("SCHEDULER_ENABLED", false),
			ThemeReloadCron: getEnv("SCHEDULER_THEME_RELOAD_CRON", "0 0 6 * * *"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.MarketData.BaseURL == "" {
		return fmt.Errorf("MARKETDATA_BASE_URL is required")
	}

	if c.Engine.DiscoveryWorkers < 1 || c.Engine.FetchWorkers < 1 {
		return fmt.Errorf("engine worker counts must be >= 1")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",         // Current directory
		"backend/.env", // From project root
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
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
