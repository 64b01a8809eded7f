package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// External services
	SalesAPIURL string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Polling cadences (per view, independent and non-synchronized)
	DashboardPollInterval time.Duration
	StrategyPollInterval  time.Duration
	InventoryPollInterval time.Duration

	// Forecast / goal. Demo constants in the source system; configuration
	// inputs here.
	ForecastWindow      int
	ForecastHorizon     int
	ForecastDailyGrowth float64
	MonthlyRevenueGoal  float64

	// Cache
	BestSellersTTL time.Duration

	// Session
	SessionDir string

	// Observability
	OTLPEndpoint string
}

// LoadDotEnv loads a .env file into the environment (existing env vars win).
// A missing file is not an error for the caller to care about.
func LoadDotEnv(path string) error {
	return godotenv.Load(path)
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		SalesAPIURL: getEnv("SALES_API_URL", "http://localhost:5000"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 10),

		DashboardPollInterval: getEnvDuration("DASHBOARD_POLL_INTERVAL", 5*time.Second),
		StrategyPollInterval:  getEnvDuration("STRATEGY_POLL_INTERVAL", 3*time.Second),
		InventoryPollInterval: getEnvDuration("INVENTORY_POLL_INTERVAL", 5*time.Second),

		ForecastWindow:      getEnvInt("FORECAST_WINDOW_DAYS", 7),
		ForecastHorizon:     getEnvInt("FORECAST_HORIZON_DAYS", 3),
		ForecastDailyGrowth: getEnvFloat("FORECAST_DAILY_GROWTH", 0.02),
		MonthlyRevenueGoal:  getEnvFloat("MONTHLY_REVENUE_GOAL", 50000),

		BestSellersTTL: getEnvDuration("BEST_SELLERS_TTL", 30*time.Second),

		SessionDir: getEnv("SESSION_DIR", ".salesdeck"),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
