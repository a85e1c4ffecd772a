package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	RedisURL    string
	Environment string

	// Intelligence service (question generation / answer evaluation)
	IntelligenceURL     string
	IntelligenceTimeout time.Duration

	// Session store eviction
	SessionTTL      time.Duration
	SweepInterval   time.Duration
	ResultsCacheTTL time.Duration
}

func LoadConfig() (*Config, error) {
	// A missing .env file is fine outside development; env vars win anyway.
	_ = godotenv.Load()

	return &Config{
		Port:                getEnv("PORT", "8080"),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		IntelligenceURL:     getEnv("INTELLIGENCE_URL", "http://localhost:9090"),
		IntelligenceTimeout: getDuration("INTELLIGENCE_TIMEOUT_SECONDS", 20*time.Second),
		SessionTTL:          getDuration("SESSION_TTL_SECONDS", 2*time.Hour),
		SweepInterval:       getDuration("SESSION_SWEEP_INTERVAL_SECONDS", time.Minute),
		ResultsCacheTTL:     getDuration("RESULTS_CACHE_TTL_SECONDS", 24*time.Hour),
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
