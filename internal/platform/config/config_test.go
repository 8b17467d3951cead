package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.BackendURL != "http://localhost:8084" || cfg.Journal != JournalSQLite {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("cors origins = %v", cfg.CORSOrigins)
	}
	if cfg.Autoplay != 0 || cfg.Seed != 0 {
		t.Errorf("autoplay and seed should be off by default: %+v", cfg)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LIFESIM_ADDR", ":9999")
	t.Setenv("LIFESIM_SEED", "42")
	t.Setenv("LIFESIM_AUTOPLAY", "2s")
	t.Setenv("LIFESIM_CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("LIFESIM_JOURNAL", "none")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.Seed != 42 || cfg.Autoplay != 2*time.Second || cfg.Journal != JournalNone {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("cors origins = %v", cfg.CORSOrigins)
	}
}

func TestDotenvDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "LIFESIM_LOG_LEVEL=debug\nLIFESIM_PROFILE=stress\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LIFESIM_PROFILE", "low")
	// godotenv sets variables in the process; make sure they are unset after.
	t.Setenv("LIFESIM_LOG_LEVEL", "")
	os.Unsetenv("LIFESIM_LOG_LEVEL")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level from .env = %q", cfg.LogLevel)
	}
	if cfg.Profile != "low" {
		t.Errorf("environment should win, got profile %q", cfg.Profile)
	}
}

func TestValidate(t *testing.T) {
	if err := (Config{Journal: JournalMongo}).Validate(); err == nil {
		t.Error("mongo without a URI should fail")
	}
	if err := (Config{Journal: JournalMongo, MongoURI: "mongodb://localhost"}).Validate(); err != nil {
		t.Errorf("mongo with URI: %v", err)
	}
	if err := (Config{Journal: "redis"}).Validate(); !errors.Is(err, ErrUnknownJournal) {
		t.Errorf("expected ErrUnknownJournal, got %v", err)
	}
}

func TestInvalidSeed(t *testing.T) {
	t.Setenv("LIFESIM_SEED", "not-a-number")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected a parse error")
	}
}
