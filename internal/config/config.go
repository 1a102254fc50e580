// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the api and cli commands need to start.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// DatabaseURL is the Postgres DSN.
	DatabaseURL string

	// GeminiModel is the model name for the primary extraction path. The
	// GEMINI_API_KEY env var is read directly by the genai client.
	GeminiModel string

	// AITimeout bounds a single model call before falling back.
	AITimeout time.Duration

	// UploadDir is where uploaded screenshots are stored on disk.
	UploadDir string

	// JWTSecret signs session tokens.
	JWTSecret string

	// OCRLanguage is the Tesseract language pack to use.
	OCRLanguage string

	// QueueSize buffers pending upload-parsing jobs.
	QueueSize int

	// Workers is the number of concurrent upload-parsing workers.
	Workers int

	// LogLevel is debug, info, warn, or error.
	LogLevel string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; real env vars win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		GeminiModel: getEnv("GEMINI_MODEL", ""),
		AITimeout:   getDuration("AI_TIMEOUT", 20*time.Second),
		UploadDir:   getEnv("UPLOAD_DIR", "./uploads"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		OCRLanguage: getEnv("OCR_LANGUAGE", "eng"),
		QueueSize:   getInt("QUEUE_SIZE", 100),
		Workers:     getInt("WORKERS", 4),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("config.Load: DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config.Load: JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
