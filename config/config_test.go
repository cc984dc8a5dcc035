package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/binary1248/sfnul-go/config"
)

func TestDefaultValidates(t *testing.T) {
	if err := config.Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsZeroWorkers(t *testing.T) {
	cfg := config.Default()
	cfg.Reactor.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected Validate to reject zero reactor workers")
	}
}

func TestLoaderMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sfnul.yaml")
	body := "reactor:\n  workers: 9\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := config.NewLoader().File(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Reactor.Workers != 9 {
		t.Fatalf("Reactor.Workers = %d, want 9 from file", cfg.Reactor.Workers)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("Log.Level = %q, want debug from file", cfg.Log.Level)
	}
	if cfg.Synchronizer.StreamPeriod != 1000*time.Millisecond {
		t.Fatalf("Synchronizer.StreamPeriod = %v, want the untouched default", cfg.Synchronizer.StreamPeriod)
	}
}

func TestLoaderEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sfnul.yaml")
	if err := os.WriteFile(path, []byte("reactor:\n  workers: 2\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("SFNUL_REACTOR_WORKERS", "7")

	cfg, err := config.NewLoader().File(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Reactor.Workers != 7 {
		t.Fatalf("Reactor.Workers = %d, want 7 from environment override", cfg.Reactor.Workers)
	}
}

func TestLoaderRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sfnul.yaml")
	if err := os.WriteFile(path, []byte("reactor:\n  workers: -1\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := config.NewLoader().File(path).Load(); err == nil {
		t.Fatal("expected Load to reject a negative worker count")
	}
}
