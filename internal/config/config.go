package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Data source kinds accepted in DATA_SOURCE.
const (
	SourceCSV        = "csv"
	SourceJSON       = "json"
	SourcePostgres   = "postgres"
	SourceClickHouse = "clickhouse"
	SourceSQLite     = "sqlite"
	SourceMySQL      = "mysql"
)

type Config struct {
	// Server
	Port           int
	Env            string
	RequestTimeout time.Duration

	// CORS
	AllowedOrigins []string

	// Data source
	DataSource           string
	PlaysPath            string
	DefenseRushingPath   string
	DefenseReceivingPath string
	DefensePassingPath   string

	// Database URLs
	PostgresURL   string
	ClickHouseURL string
	SQLDSN        string
	RedisURL      string

	// Reloads
	ReloadInterval  time.Duration
	ReloadQueueSize int

	// Batch prediction
	BatchConcurrency int
	MaxBatchSize     int

	// Auth
	AdminToken string
}

// Load loads configuration from environment variables.
// It returns an error if the variables the selected data source needs are missing.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnvInt("PORT", 8080),
		Env:            getEnv("ENV", "development"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),

		DataSource:           strings.ToLower(getEnv("DATA_SOURCE", SourceCSV)),
		PlaysPath:            getEnv("PLAYS_PATH", "data/play_by_play.csv"),
		DefenseRushingPath:   getEnv("DEFENSE_RUSHING_PATH", "data/rb_defense.csv"),
		DefenseReceivingPath: getEnv("DEFENSE_RECEIVING_PATH", "data/wr_defense.csv"),
		DefensePassingPath:   getEnv("DEFENSE_PASSING_PATH", "data/qb_defense.csv"),

		RedisURL: os.Getenv("REDIS_URL"),

		ReloadInterval:  getEnvDuration("RELOAD_INTERVAL", 0),
		ReloadQueueSize: getEnvInt("RELOAD_QUEUE_SIZE", 4),

		BatchConcurrency: getEnvInt("BATCH_CONCURRENCY", 8),
		MaxBatchSize:     getEnvInt("MAX_BATCH_SIZE", 100),

		AdminToken: os.Getenv("ADMIN_TOKEN"),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	if cfg.ReloadQueueSize < 1 {
		cfg.ReloadQueueSize = 1
	}
	if cfg.BatchConcurrency < 1 {
		cfg.BatchConcurrency = 1
	}

	// Source-specific configuration - fail if missing
	var err error
	switch cfg.DataSource {
	case SourceCSV, SourceJSON:
	case SourcePostgres:
		if cfg.PostgresURL, err = getEnvRequired("POSTGRES_URL"); err != nil {
			return nil, err
		}
	case SourceClickHouse:
		if cfg.ClickHouseURL, err = getEnvRequired("CLICKHOUSE_URL"); err != nil {
			return nil, err
		}
	case SourceSQLite, SourceMySQL:
		if cfg.SQLDSN, err = getEnvRequired("SQL_DSN"); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported DATA_SOURCE %q", cfg.DataSource)
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs with development logging.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvRequired(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing required environment variable: %s", key)
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
