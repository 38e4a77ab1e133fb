package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Prices   PriceConfig
	Cache    CacheConfig
	IBKR     IBKRConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// PriceConfig controls the scheduled refresh of current prices from the quote provider.
type PriceConfig struct {
	RefreshEnabled  bool
	RefreshSchedule string  // cron spec, e.g. "@every 15m" or "0 18 * * 1-5"
	RequestsPerSec  float64 // Outbound quote requests allowed per second
}

// CacheConfig controls memoization of computed dashboards.
type CacheConfig struct {
	DashboardTTL time.Duration
}

// IBKRConfig holds the Interactive Brokers Flex Web Service credentials.
// Syncing is available only when both are set.
type IBKRConfig struct {
	FlexToken   string
	FlexQueryID string
}

// Enabled reports whether Flex credentials are configured.
func (c IBKRConfig) Enabled() bool {
	return c.FlexToken != "" && c.FlexQueryID != ""
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	refreshEnabled, err := getEnvBool("PRICE_REFRESH_ENABLED", false)
	if err != nil {
		return nil, err
	}
	requestsPerSec, err := getEnvFloat("PRICE_REQUESTS_PER_SECOND", 2)
	if err != nil {
		return nil, err
	}
	if requestsPerSec <= 0 {
		return nil, fmt.Errorf("invalid PRICE_REQUESTS_PER_SECOND: must be positive, got %g", requestsPerSec)
	}
	dashboardTTL, err := getEnvDuration("DASHBOARD_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/stock_ledger.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Prices: PriceConfig{
			RefreshEnabled:  refreshEnabled,
			RefreshSchedule: getEnv("PRICE_REFRESH_SCHEDULE", "@every 15m"),
			RequestsPerSec:  requestsPerSec,
		},
		Cache: CacheConfig{
			DashboardTTL: dashboardTTL,
		},
		IBKR: IBKRConfig{
			FlexToken:   os.Getenv("IBKR_FLEX_TOKEN"),
			FlexQueryID: os.Getenv("IBKR_FLEX_QUERY_ID"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma separated environment variable, dropping empty entries.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
