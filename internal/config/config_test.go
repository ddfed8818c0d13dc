package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Infernos444/insurely/internal/config"
)

// setRequiredEnv supplies the values that carry no defaults so Load can
// finalize without a config file.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("INSURELY_DB_NAME", "insurely")
	t.Setenv("INSURELY_DB_USER", "insurely")
	t.Setenv("INSURELY_DOCSTORE_NAME", "insurely")
	t.Setenv("INSURELY_DOCSTORE_USER", "insurely")
	t.Setenv("INSURELY_STORAGE_CONNECTION_STRING", "UseDevelopmentStorage=true")
	t.Setenv("INSURELY_AUTH_ISSUER", "https://auth.example.com")
	t.Setenv("INSURELY_AUTH_CLIENT_ID", "insurely-portal")
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequiredEnv(t)
	t.Setenv("INSURELY_ENV", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ShutdownTimeout != "30s" {
		t.Errorf("ShutdownTimeout = %q, want 30s", cfg.ShutdownTimeout)
	}
	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("ShutdownTimeoutDuration() = %v", cfg.ShutdownTimeoutDuration())
	}
	if cfg.Env() != "local" {
		t.Errorf("Env() = %q, want local", cfg.Env())
	}
	if cfg.Enrichment.PollIntervalDuration() != 2*time.Second {
		t.Errorf("enrichment poll interval = %v, want 2s", cfg.Enrichment.PollIntervalDuration())
	}
	if cfg.Enrichment.TimeoutDuration() != 2*time.Minute {
		t.Errorf("enrichment timeout = %v, want 2m", cfg.Enrichment.TimeoutDuration())
	}
	if cfg.Estimates.MaxStored != 50 {
		t.Errorf("estimates max stored = %d, want 50", cfg.Estimates.MaxStored)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("api base path = %q, want /api", cfg.API.BasePath)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	setRequiredEnv(t)
	t.Setenv("INSURELY_ENV", "")

	base := `
shutdown_timeout = "10s"

[server]
port = 9090

[enrichment]
poll_interval = "500ms"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(base), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ShutdownTimeout != "10s" {
		t.Errorf("ShutdownTimeout = %q, want 10s", cfg.ShutdownTimeout)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Enrichment.PollIntervalDuration() != 500*time.Millisecond {
		t.Errorf("enrichment poll interval = %v, want 500ms", cfg.Enrichment.PollIntervalDuration())
	}
}

func TestLoadAppliesOverlay(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	setRequiredEnv(t)
	t.Setenv("INSURELY_ENV", "staging")

	base := `
[server]
port = 9090

[estimates]
max_stored = 25
`
	overlay := `
[server]
port = 8443
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(base), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.staging.toml"), []byte(overlay), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8443 {
		t.Errorf("server port = %d, want overlay value 8443", cfg.Server.Port)
	}
	if cfg.Estimates.MaxStored != 25 {
		t.Errorf("estimates max stored = %d, want base value 25", cfg.Estimates.MaxStored)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequiredEnv(t)
	t.Setenv("INSURELY_ENV", "")
	t.Setenv("INSURELY_SHUTDOWN_TIMEOUT", "45s")
	t.Setenv("INSURELY_ENRICHMENT_TIMEOUT", "90s")
	t.Setenv("INSURELY_ESTIMATES_MAX_STORED", "10")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ShutdownTimeout != "45s" {
		t.Errorf("ShutdownTimeout = %q, want 45s", cfg.ShutdownTimeout)
	}
	if cfg.Enrichment.TimeoutDuration() != 90*time.Second {
		t.Errorf("enrichment timeout = %v, want 90s", cfg.Enrichment.TimeoutDuration())
	}
	if cfg.Estimates.MaxStored != 10 {
		t.Errorf("estimates max stored = %d, want 10", cfg.Estimates.MaxStored)
	}
}

func TestLoadMissingRequiredValues(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequiredEnv(t)
	t.Setenv("INSURELY_ENV", "")
	t.Setenv("INSURELY_AUTH_ISSUER", "")

	if _, err := config.Load(); err == nil {
		t.Error("Load() without auth issuer: want error")
	}
}
