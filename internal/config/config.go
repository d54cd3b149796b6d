package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	BaseURL         string
	DatabaseType    string // sqlite (default), postgres, mysql
	DatabasePath    string // sqlite file path
	DatabaseURL     string // postgres/mysql connection string
	MigrationsPath  string
	StaticFilesPath string
	AudioCachePath  string
	SessionDuration time.Duration

	// JWTSecret signs API bearer tokens. Empty disables token issuance.
	JWTSecret   string
	JWTLifetime time.Duration

	// Google OAuth sign-in. Empty client ID disables the flow.
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Certificate email delivery via SES. Empty sender disables email.
	AWSRegion   string
	EmailSender string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
		DatabaseType:    getEnv("DB_TYPE", "sqlite"),
		DatabasePath:    getEnv("DB_PATH", "./speechcoach.db"),
		DatabaseURL:     getEnv("DB_URL", ""),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		StaticFilesPath: getEnv("STATIC_PATH", "./static"),
		AudioCachePath:  getEnv("AUDIO_CACHE_PATH", "./static/audio"),
		SessionDuration: getDurationEnv("SESSION_DURATION_HOURS", 24) * time.Hour,
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTLifetime:     getDurationEnv("JWT_LIFETIME_HOURS", 72) * time.Hour,

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),

		AWSRegion:   getEnv("AWS_REGION", "eu-west-1"),
		EmailSender: getEnv("EMAIL_SENDER", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv reads an integer environment variable as a time.Duration
func getDurationEnv(key string, defaultValue int64) time.Duration {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil && n > 0 {
			return time.Duration(n)
		}
		log.Printf("Invalid value for %s, using default %d", key, defaultValue)
	}
	return time.Duration(defaultValue)
}
