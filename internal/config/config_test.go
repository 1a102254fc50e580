package config

import (
	"testing"
	"time"
)

func TestLoadRequiredVars(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("Load() succeeded without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/upitrack")
	if _, err := Load(); err == nil {
		t.Error("Load() succeeded without JWT_SECRET")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/upitrack")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "")
	t.Setenv("AI_TIMEOUT", "")
	t.Setenv("QUEUE_SIZE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.AITimeout != 20*time.Second {
		t.Errorf("AITimeout = %v, want 20s", cfg.AITimeout)
	}
	if cfg.QueueSize != 100 {
		t.Errorf("QueueSize = %d, want 100", cfg.QueueSize)
	}
	if cfg.OCRLanguage != "eng" {
		t.Errorf("OCRLanguage = %q, want eng", cfg.OCRLanguage)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/upitrack")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9000")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("QUEUE_SIZE", "10")
	t.Setenv("WORKERS", "2")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.AITimeout != 5*time.Second {
		t.Errorf("AITimeout = %v, want 5s", cfg.AITimeout)
	}
	if cfg.QueueSize != 10 || cfg.Workers != 2 {
		t.Errorf("QueueSize/Workers = %d/%d, want 10/2", cfg.QueueSize, cfg.Workers)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadBadNumbersFallBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/upitrack")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("QUEUE_SIZE", "lots")
	t.Setenv("AI_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.QueueSize != 100 {
		t.Errorf("QueueSize = %d, want fallback 100", cfg.QueueSize)
	}
	if cfg.AITimeout != 20*time.Second {
		t.Errorf("AITimeout = %v, want fallback 20s", cfg.AITimeout)
	}
}
