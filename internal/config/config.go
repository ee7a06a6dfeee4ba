package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL string
	Port        string
	Environment string
	LogLevel    string

	// CSFloat listings API
	CSFloatBaseURL string
	CSFloatAPIKey  string

	// Shared secret for the scheduled price-update trigger
	CronSecret string
	// Cron expression for the in-process scheduled run; empty disables it
	PriceUpdateSchedule string

	// Pacing for the ingestion pipeline
	BatchSize   int
	BatchPause  time.Duration
	ManualPause time.Duration
}

func Load() *Config {
	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", "root:password@tcp(127.0.0.1:3306)/cs2investments?charset=utf8mb4&parseTime=True&loc=Local"),
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		CSFloatBaseURL: getEnv("CSFLOAT_BASE_URL", "https://csfloat.com/api/v1"),
		CSFloatAPIKey:  getEnv("CSFLOAT_API_KEY", ""),

		CronSecret:          getEnv("CRON_SECRET", ""),
		PriceUpdateSchedule: getEnv("PRICE_UPDATE_SCHEDULE", ""),

		BatchSize:   getEnvInt("PRICE_BATCH_SIZE", 5),
		BatchPause:  getEnvDuration("PRICE_BATCH_PAUSE", time.Second),
		ManualPause: getEnvDuration("PRICE_MANUAL_PAUSE", 10*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d >= 0 {
			return d
		}
	}
	return defaultValue
}
