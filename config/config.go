package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/AnnaCarter465/paye-calculator/tax"
)

type Config struct {
	Port            string
	DatabaseURL     string
	LogLevel        string
	Stage           string
	DefaultScheme   string
	BatchWorkers    int
	ShutdownTimeout time.Duration
}

// Load reads the environment, picking up a .env file first when one exists.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Stage:           getEnv("APP_STAGE", "development"),
		DefaultScheme:   getEnv("DEFAULT_SCHEME", string(tax.VersionNTA2025)),
		BatchWorkers:    getEnvInt("BATCH_WORKERS", 8),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.BatchWorkers <= 0 {
		return fmt.Errorf("BATCH_WORKERS must be positive")
	}
	if _, err := tax.SchemeFor(c.DefaultScheme); err != nil {
		return fmt.Errorf("DEFAULT_SCHEME: %w", err)
	}
	return nil
}
