package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Rate limit applied to the HTTP surface, in ulule/limiter notation,
	// e.g. "100-M" for 100 requests per minute per client.
	RateLimit string

	// Allocation dispatcher retry policy for conflicting jobs.
	AllocMaxRetries       uint64
	AllocRetryMaxInterval time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("ALLOC_MAX_RETRIES", 5)
	viper.SetDefault("ALLOC_RETRY_MAX_INTERVAL", "30s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	retryIntervalStr := viper.GetString("ALLOC_RETRY_MAX_INTERVAL")
	retryInterval, err := time.ParseDuration(retryIntervalStr)
	if err != nil {
		retryInterval = 30 * time.Second
		if retryIntervalStr != "" {
			log.Printf("Warning: Invalid value for ALLOC_RETRY_MAX_INTERVAL ('%s'). Defaulting to %s.\n", retryIntervalStr, retryInterval)
		}
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.AllocMaxRetries = viper.GetUint64("ALLOC_MAX_RETRIES")
	cfg.AllocRetryMaxInterval = retryInterval

	return cfg, nil
}
