package config

import (
	"os"
	"strconv"
)

// Config holds runtime configuration read from the environment
type Config struct {
	Environment string
	Port        string
	LogLevel    string
	LogFile     string

	DatabaseURL string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	JWTSecret string

	// Feed behavior
	FeedCacheTTLSeconds int
	FeedDefaultPageSize int
	FeedMaxPageSize     int

	// Tracing
	TracingEnabled  bool
	OTLPEndpoint    string
	TraceSampleRate float64
}

// Load reads configuration from environment variables with sensible defaults.
// Callers are expected to have loaded .env already (godotenv in main).
func Load() *Config {
	return &Config{
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),
		Port:        getEnvOrDefault("PORT", "8080"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:     getEnvOrDefault("LOG_FILE", "server.log"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		FeedCacheTTLSeconds: getEnvInt("FEED_CACHE_TTL_SECONDS", 30),
		FeedDefaultPageSize: getEnvInt("FEED_DEFAULT_PAGE_SIZE", 20),
		FeedMaxPageSize:     getEnvInt("FEED_MAX_PAGE_SIZE", 100),

		TracingEnabled:  getEnvOrDefault("TRACING_ENABLED", "false") == "true",
		OTLPEndpoint:    getEnvOrDefault("OTLP_ENDPOINT", "localhost:4318"),
		TraceSampleRate: getEnvFloat("TRACE_SAMPLE_RATE", 1.0),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
