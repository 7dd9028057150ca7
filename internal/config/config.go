package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Data sources understood by DATA_SOURCE.
const (
	DataSourceMock     = "mock"
	DataSourcePostgres = "postgres"
	DataSourceKilimo   = "kilimo"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port       string
	Env        string
	DataSource string

	DB     DatabaseConfig
	Redis  RedisConfig
	Kilimo KilimoConfig
	Market MarketConfig
	Worker WorkerConfig
	CORS   CORSConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// KilimoConfig contains settings for the remote Kilimo statistics API.
type KilimoConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// MarketConfig contains query tuning and the export locator base.
type MarketConfig struct {
	ExportBaseURL   string
	HighlightsSize  int
	TopSellingLimit int
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	PollInterval time.Duration
}

// CORSConfig lists hosts allowed to call the API from a browser.
type CORSConfig struct {
	AllowedHosts []string
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Missing .env is fine; production relies on real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.DataSource = strings.ToLower(getEnv("DATA_SOURCE", DataSourceMock))

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Kilimo statistics API
	cfg.Kilimo = KilimoConfig{
		BaseURL:    strings.TrimSuffix(getEnv("KILIMO_BASE_URL", "https://statistics.kilimo.go.ke/api/v1"), "/"),
		MaxRetries: getEnvInt("KILIMO_MAX_RETRIES", 2),
	}

	// Market queries and export
	cfg.Market = MarketConfig{
		ExportBaseURL:   strings.TrimSuffix(getEnv("EXPORT_BASE_URL", cfg.Kilimo.BaseURL), "/"),
		HighlightsSize:  getEnvInt("HIGHLIGHTS_SIZE", 3),
		TopSellingLimit: getEnvInt("TOP_SELLING_LIMIT", 3),
	}

	cfg.CORS = CORSConfig{
		AllowedHosts: splitList(getEnv("CORS_ALLOWED_HOSTS", "localhost:8081,127.0.0.1:8081,localhost:19006")),
	}

	// Durations
	var err error
	if cfg.Kilimo.Timeout, err = parseDurationEnv("KILIMO_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid KILIMO_TIMEOUT: %w", err)
	}
	if cfg.Worker.PollInterval, err = parseDurationEnv("POLL_INTERVAL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid POLL_INTERVAL: %w", err)
	}
	if cfg.Worker.PollInterval == 0 {
		return nil, errors.New("POLL_INTERVAL must be greater than zero")
	}

	if cfg.Market.HighlightsSize <= 0 || cfg.Market.TopSellingLimit <= 0 {
		return nil, errors.New("HIGHLIGHTS_SIZE and TOP_SELLING_LIMIT must be positive")
	}

	switch cfg.DataSource {
	case DataSourceMock, DataSourceKilimo:
	case DataSourcePostgres:
		if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
			return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
		}
	default:
		return nil, fmt.Errorf("unknown DATA_SOURCE %q: use mock, postgres or kilimo", cfg.DataSource)
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
