package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // REPORT_TIMEZONE resolves without system zoneinfo

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"tradeJournal/internal/adapters/logger" // Import the logger package for LogLevel
	"tradeJournal/internal/analytics"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config holds all application configuration.
type Config struct {
	// Database
	DBDriver string // sqlite | memory
	DBPath   string

	// Logging
	LogLevel  logger.LogLevel // Use the LogLevel type from the logger adapter
	LogFormat string          // text | json

	// Tracing
	TracingEnabled bool

	// Analytics
	StartingEquity     decimal.Decimal
	DailyLossLimit     decimal.Decimal
	OvertradeThreshold int
	RiskPerOpenTrade   decimal.Decimal // Percent of equity per open trade
	DefaultListLimit   int
	ReportLocation     *time.Location

	// Demo data for the memory driver
	Seed int64
}

// fileConfig is the optional YAML file layout. Every key maps to one
// environment variable; the environment wins when both are set.
type fileConfig struct {
	Database struct {
		Driver string `yaml:"driver"`
		Path   string `yaml:"path"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Tracing struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"tracing"`
	Analytics struct {
		StartingEquity     string `yaml:"starting_equity"`
		DailyLossLimit     string `yaml:"daily_loss_limit"`
		OvertradeThreshold *int   `yaml:"overtrade_threshold"`
		RiskPerOpenTrade   string `yaml:"risk_per_open_trade"`
		DefaultListLimit   *int   `yaml:"default_list_limit"`
		Timezone           string `yaml:"timezone"`
	} `yaml:"analytics"`
	Seed *int64 `yaml:"seed"`
}

// LoadConfig loads configuration from environment variables (.env file),
// layered over an optional YAML file. path overrides CONFIG_FILE when set.
func LoadConfig(path string) (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	env, err := newSource(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	var errs []string // Collect validation errors

	// Database
	cfg.DBDriver = strings.ToLower(env.getEnv("DB_DRIVER", DriverSQLite))
	if cfg.DBDriver != DriverSQLite && cfg.DBDriver != DriverMemory {
		errs = append(errs, fmt.Sprintf("DB_DRIVER must be %q or %q", DriverSQLite, DriverMemory))
	}
	cfg.DBPath = env.getEnv("DB_PATH", "./data/trade_journal.db")
	if cfg.DBDriver == DriverSQLite && cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	// Logging
	logLevelStr := env.getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr)
	cfg.LogFormat = strings.ToLower(env.getEnv("LOG_FORMAT", "text"))
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		errs = append(errs, "LOG_FORMAT must be text or json")
	}

	cfg.TracingEnabled = env.getEnvAsBool("TRACING_ENABLED", false)

	// Analytics
	cfg.StartingEquity, err = env.getEnvAsDecimalRequired("STARTING_EQUITY", decimal.NewFromInt(10000))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid STARTING_EQUITY: %v", err))
	} else if !cfg.StartingEquity.IsPositive() {
		errs = append(errs, "STARTING_EQUITY must be positive")
	}

	cfg.DailyLossLimit, err = env.getEnvAsDecimalRequired("DAILY_LOSS_LIMIT", decimal.NewFromInt(500))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid DAILY_LOSS_LIMIT: %v", err))
	} else if !cfg.DailyLossLimit.IsPositive() {
		errs = append(errs, "DAILY_LOSS_LIMIT must be positive")
	}

	cfg.OvertradeThreshold, err = env.getEnvAsIntRequired("OVERTRADE_THRESHOLD", 10)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid OVERTRADE_THRESHOLD: %v", err))
	} else if cfg.OvertradeThreshold <= 0 {
		errs = append(errs, "OVERTRADE_THRESHOLD must be positive")
	}

	cfg.RiskPerOpenTrade, err = env.getEnvAsDecimalRequired("RISK_PER_OPEN_TRADE", decimal.NewFromInt(2))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid RISK_PER_OPEN_TRADE: %v", err))
	} else if !cfg.RiskPerOpenTrade.IsPositive() || cfg.RiskPerOpenTrade.GreaterThan(decimal.NewFromInt(100)) {
		errs = append(errs, "RISK_PER_OPEN_TRADE must be between 0 (exclusive) and 100")
	}

	cfg.DefaultListLimit, err = env.getEnvAsIntRequired("DEFAULT_LIST_LIMIT", 100)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid DEFAULT_LIST_LIMIT: %v", err))
	} else if cfg.DefaultListLimit <= 0 {
		errs = append(errs, "DEFAULT_LIST_LIMIT must be positive")
	}

	tz := env.getEnv("REPORT_TIMEZONE", "UTC")
	cfg.ReportLocation, err = time.LoadLocation(tz)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid REPORT_TIMEZONE %q: %v", tz, err))
	}

	seed, err := env.getEnvAsIntRequired("SEED", 42)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid SEED: %v", err))
	}
	cfg.Seed = int64(seed)

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// AnalyticsConfig returns the engine constants. The clock is left to the engine default.
func (c *Config) AnalyticsConfig() analytics.Config {
	return analytics.Config{
		StartingEquity:     c.StartingEquity,
		DailyLossLimit:     c.DailyLossLimit,
		OvertradeThreshold: c.OvertradeThreshold,
		RiskPerOpenTrade:   c.RiskPerOpenTrade,
		Location:           c.ReportLocation,
	}
}

// --- Env Var Helpers ---

// source resolves a key from the environment first, then the YAML file.
type source struct {
	file map[string]string
}

func newSource(path string) (*source, error) {
	s := &source{file: map[string]string{}}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}

	set := func(key, value string) {
		if value != "" {
			s.file[key] = value
		}
	}
	set("DB_DRIVER", fc.Database.Driver)
	set("DB_PATH", fc.Database.Path)
	set("LOG_LEVEL", fc.Log.Level)
	set("LOG_FORMAT", fc.Log.Format)
	if fc.Tracing.Enabled != nil {
		set("TRACING_ENABLED", strconv.FormatBool(*fc.Tracing.Enabled))
	}
	set("STARTING_EQUITY", fc.Analytics.StartingEquity)
	set("DAILY_LOSS_LIMIT", fc.Analytics.DailyLossLimit)
	if fc.Analytics.OvertradeThreshold != nil {
		set("OVERTRADE_THRESHOLD", strconv.Itoa(*fc.Analytics.OvertradeThreshold))
	}
	set("RISK_PER_OPEN_TRADE", fc.Analytics.RiskPerOpenTrade)
	if fc.Analytics.DefaultListLimit != nil {
		set("DEFAULT_LIST_LIMIT", strconv.Itoa(*fc.Analytics.DefaultListLimit))
	}
	set("REPORT_TIMEZONE", fc.Analytics.Timezone)
	if fc.Seed != nil {
		set("SEED", strconv.FormatInt(*fc.Seed, 10))
	}
	return s, nil
}

func (s *source) lookup(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return s.file[key]
}

func (s *source) getEnv(key, defaultValue string) string {
	value := s.lookup(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func (s *source) getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := s.lookup(key)
	if valueStr == "" {
		// Use default if the key is not set at all
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Return error if the key is set but invalid
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func (s *source) getEnvAsDecimalRequired(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	valueStr := s.lookup(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func (s *source) getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := s.lookup(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
