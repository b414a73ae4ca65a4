package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// app config, read from environment variables
type Config struct {
	Port string

	Provider string // AI provider name, see internal/llm

	PostgresDSN string
	AutoMigrate bool

	RedisAddr     string
	RedisPassword string

	JWTSecret string

	// object storage bucket for uploaded resumes
	StorageEndpoint string
	StorageBucket   string
	StorageAPIKey   string

	// speech-to-text provider
	TranscribeEndpoint string
	TranscribeAPIKey   string
	TranscribeModel    string

	// orphaned-resume cleanup job
	CleanupSchedule string
	CleanupEnabled  bool

	MaxResumeBytes int64

	AllowedOrigins []string
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		Provider:           getEnvOrDefault("AI_PROVIDER", "gemini"),
		PostgresDSN:        postgresDSN(),
		AutoMigrate:        getEnvBool("DB_AUTOMIGRATE", true),
		RedisAddr:          getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		JWTSecret:          getEnvOrDefault("JWT_SECRET", "dev"),
		StorageEndpoint:    os.Getenv("STORAGE_ENDPOINT"),
		StorageBucket:      getEnvOrDefault("STORAGE_BUCKET", "resumes"),
		StorageAPIKey:      os.Getenv("STORAGE_API_KEY"),
		TranscribeEndpoint: getEnvOrDefault("TRANSCRIBE_ENDPOINT", "https://api.openai.com/v1/audio/transcriptions"),
		TranscribeAPIKey:   os.Getenv("TRANSCRIBE_API_KEY"),
		TranscribeModel:    getEnvOrDefault("TRANSCRIBE_MODEL", "whisper-1"),
		CleanupSchedule:    getEnvOrDefault("RESUME_CLEANUP_SCHEDULE", "@hourly"),
		CleanupEnabled:     getEnvBool("RESUME_CLEANUP_ENABLED", false),
		MaxResumeBytes:     getEnvInt64("MAX_RESUME_BYTES", 5<<20),
		AllowedOrigins:     []string{getEnvOrDefault("ALLOWED_ORIGIN", "http://localhost:5173")},
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Provider == "" {
		return errors.New("AI_PROVIDER must not be empty")
	}
	if cfg.MaxResumeBytes <= 0 {
		return errors.New("MAX_RESUME_BYTES must be positive")
	}
	return nil
}

func postgresDSN() string {
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		return dsn
	}
	host := getEnvOrDefault("POSTGRES_HOST", "localhost")
	user := getEnvOrDefault("POSTGRES_USER", "postgres")
	password := getEnvOrDefault("POSTGRES_PASSWORD", "postgres")
	dbname := getEnvOrDefault("POSTGRES_DB", "postgres")
	port := getEnvOrDefault("POSTGRES_PORT", "5432")
	sslmode := getEnvOrDefault("POSTGRES_SSLMODE", "disable")
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
