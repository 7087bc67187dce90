package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the attribution service.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	ClickHouse ClickHouseConfig
	Redis      RedisConfig
	AdPlatform AdPlatformConfig
	Report     ReportConfig
	Log        LogConfig
	Metrics    MetricsConfig
	Geo        GeoConfig
}

type ServerConfig struct {
	Addr            string
	Env             string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// ClickHouseConfig configures the ad-event store connection.
type ClickHouseConfig struct {
	Addr     []string
	Database string
	User     string
	Password string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// AdTTL bounds how long cached ad metadata is trusted.
	AdTTL time.Duration
}

// AdPlatformConfig configures the remote ads metadata API.
type AdPlatformConfig struct {
	BaseURL     string
	AccessToken string
	Timeout     time.Duration
}

// ReportConfig holds attribution report defaults.
type ReportConfig struct {
	// Timezone used to resolve calendar dates into day windows.
	Timezone string
	// Timeout is the per-report deadline propagated to all external calls.
	Timeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// GeoConfig configures optional MaxMind country annotation.
type GeoConfig struct {
	Enabled      bool
	DatabasePath string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("ATTR_HTTP_ADDR", ":8080"),
			Env:             getEnv("ATTR_ENV", "development"),
			ShutdownTimeout: getDurationEnv("ATTR_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("ATTR_DB_HOST", "localhost"),
			Port:     getIntEnv("ATTR_DB_PORT", 5432),
			User:     getEnv("ATTR_DB_USER", "roas"),
			Password: getEnv("ATTR_DB_PASSWORD", "roas_secret"),
			DBName:   getEnv("ATTR_DB_NAME", "roas"),
			SSLMode:  getEnv("ATTR_DB_SSLMODE", "disable"),
			MaxConns: getIntEnv("ATTR_DB_MAX_CONNS", 25),
			MinConns: getIntEnv("ATTR_DB_MIN_CONNS", 5),
		},
		ClickHouse: ClickHouseConfig{
			Addr:     getSliceEnv("ATTR_CLICKHOUSE_ADDR", []string{"localhost:9000"}),
			Database: getEnv("ATTR_CLICKHOUSE_DB", "roas"),
			User:     getEnv("ATTR_CLICKHOUSE_USER", "default"),
			Password: getEnv("ATTR_CLICKHOUSE_PASSWORD", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("ATTR_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("ATTR_REDIS_PASSWORD", ""),
			DB:       getIntEnv("ATTR_REDIS_DB", 0),
			AdTTL:    getDurationEnv("ATTR_REDIS_AD_TTL", 24*time.Hour),
		},
		AdPlatform: AdPlatformConfig{
			BaseURL:     getEnv("ATTR_ADS_API_URL", "https://graph.facebook.com/v17.0"),
			AccessToken: getEnv("ATTR_ADS_API_TOKEN", ""),
			Timeout:     getDurationEnv("ATTR_ADS_API_TIMEOUT", 15*time.Second),
		},
		Report: ReportConfig{
			Timezone: getEnv("ATTR_REPORT_TIMEZONE", "America/Los_Angeles"),
			Timeout:  getDurationEnv("ATTR_REPORT_TIMEOUT", 60*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("ATTR_LOG_LEVEL", "info"),
			Format: getEnv("ATTR_LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolEnv("ATTR_METRICS_ENABLED", true),
			Path:    getEnv("ATTR_METRICS_PATH", "/metrics"),
		},
		Geo: GeoConfig{
			Enabled:      getBoolEnv("ATTR_GEO_ENABLED", false),
			DatabasePath: getEnv("ATTR_GEO_DB_PATH", "/app/data/GeoLite2-Country.mmdb"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Report.Timezone == "" {
		return fmt.Errorf("ATTR_REPORT_TIMEZONE must not be empty")
	}
	if _, err := time.LoadLocation(c.Report.Timezone); err != nil {
		return fmt.Errorf("invalid ATTR_REPORT_TIMEZONE: %w", err)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// Helper functions for reading environment variables

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getSliceEnv(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				result = append(result, p)
			}
		}
		return result
	}
	return def
}
