package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "5000" || cfg.Storage.Driver != DriverMemory {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Mongo.Database != "Quiz-AI" || cfg.Submissions.MaxPossibleScore != 125 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  port: "9000"
storage:
  driver: postgres
postgres:
  url: postgres://localhost/quiz
pagination:
  maxLimit: 50
submissions:
  recomputeScores: true
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9000" || cfg.Storage.Driver != DriverPostgres {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Pagination.MaxLimit != 50 || cfg.Pagination.DefaultLimit != 10 {
		t.Fatalf("expected maxLimit 50 and default limit kept, got %+v", cfg.Pagination)
	}
	if !cfg.Submissions.RecomputeScores {
		t.Fatalf("expected recomputeScores")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected yaml error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("STORAGE_DRIVER", "MONGO")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("ALLOWED_ORIGIN", "https://quiz.example.com")

	cfg := Default()
	ApplyEnv(&cfg)
	if cfg.Server.Port != "7000" {
		t.Fatalf("expected port override, got %s", cfg.Server.Port)
	}
	if cfg.Storage.Driver != DriverMongo {
		t.Fatalf("expected lowercased driver, got %s", cfg.Storage.Driver)
	}
	if cfg.Server.AllowedOrigin != "https://quiz.example.com" {
		t.Fatalf("unexpected origin %s", cfg.Server.AllowedOrigin)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Storage.Driver = DriverPostgres
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error without postgres url")
	}
	cfg.Storage.Driver = "sqlite"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %s", got)
	}
	if got := TTLDuration("nope", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for bad input, got %s", got)
	}
	if got := TTLDuration("30s", time.Minute); got != 30*time.Second {
		t.Fatalf("expected 30s, got %s", got)
	}
}
