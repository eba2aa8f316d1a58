package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port         int
	DevMode      bool
	LogLevel     string
	DatabasePath string

	// Market data collaborator
	MarketDataURL     string
	MarketDataTimeout time.Duration

	// Explanation collaborator (Gemini)
	GeminiAPIKey       string
	GeminiModel        string
	ExplanationTimeout time.Duration

	// Engine tunables
	EngineVersion      string
	StockLimit         int
	FundLimit          int
	RiskFreeRate       float64
	TradingDaysPerYear int
	MinFactorFraction  float64
	ConfidenceHigh     float64
	ConfidenceMedium   float64
	FactorWorkers      int
	AssetTimeout       time.Duration

	// Optional cron spec for scheduled refresh ("" disables it)
	RefreshSchedule string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnvAsInt("PORT", 8080),
		DevMode:      getEnvAsBool("DEV_MODE", false),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DatabasePath: getEnv("DATABASE_PATH", "./data/advisor.db"),

		MarketDataURL:     getEnv("MARKET_DATA_URL", "http://localhost:9200"),
		MarketDataTimeout: getEnvAsDuration("MARKET_DATA_TIMEOUT", 30*time.Second),

		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		ExplanationTimeout: getEnvAsDuration("EXPLANATION_TIMEOUT", 20*time.Second),

		EngineVersion:      getEnv("ENGINE_VERSION", "v1"),
		StockLimit:         getEnvAsInt("STOCK_LIMIT", 20),
		FundLimit:          getEnvAsInt("FUND_LIMIT", 20),
		RiskFreeRate:       getEnvAsFloat("RISK_FREE_RATE", 0.0),
		TradingDaysPerYear: getEnvAsInt("TRADING_DAYS_PER_YEAR", 252),
		MinFactorFraction:  getEnvAsFloat("MIN_FACTOR_FRACTION", 0.5),
		ConfidenceHigh:     getEnvAsFloat("CONFIDENCE_HIGH", 80),
		ConfidenceMedium:   getEnvAsFloat("CONFIDENCE_MEDIUM", 60),
		FactorWorkers:      getEnvAsInt("FACTOR_WORKERS", 8),
		AssetTimeout:       getEnvAsDuration("ASSET_TIMEOUT", 10*time.Second),

		RefreshSchedule: getEnv("REFRESH_SCHEDULE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present and coherent
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.MinFactorFraction < 0 || c.MinFactorFraction > 1 {
		return fmt.Errorf("MIN_FACTOR_FRACTION must be within [0,1], got %v", c.MinFactorFraction)
	}
	if c.ConfidenceMedium > c.ConfidenceHigh {
		return fmt.Errorf("CONFIDENCE_MEDIUM (%v) must not exceed CONFIDENCE_HIGH (%v)",
			c.ConfidenceMedium, c.ConfidenceHigh)
	}
	if c.StockLimit <= 0 || c.FundLimit <= 0 {
		return fmt.Errorf("result limits must be positive")
	}

	// Gemini credentials optional: explanations degrade to absent without them.
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
