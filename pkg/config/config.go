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

	// Database (optional ledger mirror)
	Database DatabaseConfig

	// Market data
	Tushare TushareConfig

	// Index
	Index IndexConfig

	// Scheduler
	Schedule ScheduleConfig

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   LogFileConfig
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string // empty disables the mirror

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a database URL is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// TushareConfig holds Tushare Pro API configuration
type TushareConfig struct {
	Token      string
	BaseURL    string
	RatePerMin int // client-side request budget
	Timeout    time.Duration
}

// IndexConfig holds index computation and output settings
type IndexConfig struct {
	RulesPath      string
	DataDir        string
	DocsDir        string
	BenchmarkMode  string // index, fund, stock
	BenchmarkCode  string
	BenchmarkLabel string
	UseAdjFactor   bool
	MinCoverage    float64 // priced/total below this is logged as low coverage
	Timezone       string
}

// ScheduleConfig holds the daily job schedule
type ScheduleConfig struct {
	Cron string // with seconds field
}

// LogFileConfig holds the optional rotating log file
type LogFileConfig struct {
	Path       string // empty = stdout only
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 5),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Tushare: TushareConfig{
			Token:      getEnv("TUSHARE_TOKEN", ""),
			BaseURL:    getEnv("TUSHARE_BASE_URL", "http://api.tushare.pro"),
			RatePerMin: getEnvAsInt("TUSHARE_RATE_PER_MIN", 180),
			Timeout:    getEnvAsDuration("TUSHARE_TIMEOUT", "30s"),
		},

		Index: IndexConfig{
			RulesPath:      getEnv("RULES_PATH", "rules.yml"),
			DataDir:        getEnv("DATA_DIR", "data"),
			DocsDir:        getEnv("DOCS_DIR", "docs"),
			BenchmarkMode:  getEnv("BENCHMARK_MODE", "index"),
			BenchmarkCode:  getEnv("BENCHMARK_CODE", "000300.SH"),
			BenchmarkLabel: getEnv("BENCHMARK_LABEL", "HS300"),
			UseAdjFactor:   getEnvAsBool("USE_ADJ_FACTOR", true),
			MinCoverage:    getEnvAsFloat("MIN_COVERAGE", 0.9),
			Timezone:       getEnv("TIMEZONE", "Asia/Shanghai"),
		},

		Schedule: ScheduleConfig{
			Cron: getEnv("SCHEDULE_CRON", "0 30 17 * * 1-5"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
		LogFile: LogFileConfig{
			Path:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 50),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 30),
		},
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Location returns the configured market timezone, falling back to UTC+8
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Index.Timezone)
	if err != nil {
		return time.FixedZone("CST", 8*3600)
	}
	return loc
}

// RequireToken checks the Tushare token for commands that fetch market data
func (c *Config) RequireToken() error {
	if c.Tushare.Token == "" {
		return fmt.Errorf("TUSHARE_TOKEN is required (set it in the environment or pass --token)")
	}
	return nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Index.BenchmarkMode {
	case "index", "fund", "stock":
	default:
		return fmt.Errorf("BENCHMARK_MODE must be one of: index, fund, stock")
	}

	if c.Tushare.RatePerMin <= 0 {
		return fmt.Errorf("TUSHARE_RATE_PER_MIN must be positive")
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
