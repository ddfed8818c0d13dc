package estimates_test

import (
	"testing"

	"github.com/Infernos444/insurely/internal/estimates"
)

func TestConfigDefaults(t *testing.T) {
	cfg := &estimates.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.MaxStored != 50 {
		t.Errorf("MaxStored = %d, want 50", cfg.MaxStored)
	}
	if !cfg.Accepts("application/pdf") {
		t.Error("Accepts(application/pdf) = false, want true")
	}
	if !cfg.Accepts("image/png") {
		t.Error("Accepts(image/png) = false, want true")
	}
	if cfg.Accepts("text/html") {
		t.Error("Accepts(text/html) = true, want false")
	}
}

func TestConfigEnvOverride(t *testing.T) {
	t.Setenv("TEST_ESTIMATES_MAX_STORED", "5")

	cfg := &estimates.Config{}
	if err := cfg.Finalize(&estimates.Env{MaxStored: "TEST_ESTIMATES_MAX_STORED"}); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.MaxStored != 5 {
		t.Errorf("MaxStored = %d, want 5", cfg.MaxStored)
	}
}

func TestConfigMerge(t *testing.T) {
	cfg := &estimates.Config{MaxStored: 50, AcceptedTypes: []string{"application/pdf"}}
	cfg.Merge(&estimates.Config{MaxStored: 10})

	if cfg.MaxStored != 10 {
		t.Errorf("MaxStored = %d, want 10", cfg.MaxStored)
	}
	if len(cfg.AcceptedTypes) != 1 || cfg.AcceptedTypes[0] != "application/pdf" {
		t.Errorf("AcceptedTypes = %v, want unchanged", cfg.AcceptedTypes)
	}
}

func TestConfigValidation(t *testing.T) {
	cfg := &estimates.Config{MaxStored: -1}
	if err := cfg.Finalize(nil); err == nil {
		t.Error("Finalize() with negative max_stored: want error")
	}
}
