package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds the runtime settings shared by all goshop services. Each binary
// loads the same structure; fields it does not need stay at their defaults.
type Config struct {
	// General
	Port        string
	Environment string
	LogLevel    string

	// Database (PostgreSQL)
	DatabaseURL string
	DBTimeout   time.Duration

	// Cache (Redis)
	RedisAddr string
	CacheTTL  time.Duration

	// Security (JWT)
	JWTSecretKey string
	TokenExpiry  time.Duration

	// Rate limiting on admin routes
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration

	// Sibling services (reviews service enrichment)
	UsersServiceURL   string
	CatalogServiceURL string
	HTTPClientTimeout time.Duration
}

// LoadConfig reads the configuration from environment variables. DATABASE_URL
// and JWT_SECRET_KEY are mandatory; everything else has a default.
func LoadConfig() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DatabaseURL: mustGetEnv("DATABASE_URL"),
		DBTimeout:   getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTTL:  getDurationEnv("CACHE_TTL_SEC", 300) * time.Second,

		JWTSecretKey: mustGetEnv("JWT_SECRET_KEY"),
		TokenExpiry:  getDurationEnv("JWT_EXPIRY_MIN", 60) * time.Minute,

		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,

		UsersServiceURL:   getEnv("USERS_SERVICE_URL", "http://localhost:8081"),
		CatalogServiceURL: getEnv("CATALOG_SERVICE_URL", "http://localhost:8082"),
		HTTPClientTimeout: getDurationEnv("HTTP_CLIENT_TIMEOUT_SEC", 10) * time.Second,
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func mustGetEnv(key string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Fatalf("configuration error: environment variable %s must be set", key)
	return ""
}

func getDurationEnv(key string, defaultValue int) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return time.Duration(defaultValue)
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("warning: value of %s (%q) is not a valid integer, using default (%d)", key, valueStr, defaultValue)
		return time.Duration(defaultValue)
	}
	return time.Duration(value)
}

func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("warning: value of %s (%q) is not a valid integer, using default (%d)", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
