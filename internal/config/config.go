// Package config handles loading and validation of application configuration
// from environment variables. Supports .env files via godotenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-secret-change-in-production"

// Config holds all application configuration
type Config struct {
	// Server settings
	Port        int
	Environment string // "development" | "staging" | "production"

	// Storage
	StorageBackend string // "memory" | "sqlite" | "postgres" | "redis" | "mongo"
	SQLitePath     string
	DatabaseURL    string
	RedisURL       string
	MongoURI       string
	MongoDatabase  string

	// Security
	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins []string
	RateLimitRPM   int

	// AI enrichment
	GeminiAPIKey string
	GeminiModel  string
	AITimeout    time.Duration // zero means no deadline

	// Ward directory override (YAML)
	WardsFile string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvInt("PORT", 8080),
		Environment: getEnv("ENVIRONMENT", "development"),

		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", "sqlite")),
		SQLitePath:     getEnv("SQLITE_PATH", "fixmyward.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGO_DB", "fixmyward"),

		JWTSecret:      getEnv("JWT_SECRET", devJWTSecret),
		TokenTTL:       getEnvDuration("TOKEN_TTL", 72*time.Hour),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"), ","),
		RateLimitRPM:   getEnvInt("RATE_LIMIT_RPM", 60),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", os.Getenv("API_KEY")),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		AITimeout:    getEnvDuration("AI_TIMEOUT", 0),

		WardsFile: getEnv("WARDS_FILE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the backend choice and, in production, the secrets.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case "memory", "sqlite", "redis", "mongo":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	// Validate required fields in production
	if c.Environment == "production" {
		if c.JWTSecret == devJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.StorageBackend == "memory" {
			return fmt.Errorf("memory storage is not allowed in production")
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
