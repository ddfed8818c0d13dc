package estimates

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds estimate domain limits.
type Config struct {
	MaxStored     int      `toml:"max_stored"`
	AcceptedTypes []string `toml:"accepted_types"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	MaxStored string
}

// Accepts reports whether the content type is allowed for upload.
func (c *Config) Accepts(contentType string) bool {
	for _, accepted := range c.AcceptedTypes {
		if contentType == accepted {
			return true
		}
	}
	return false
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.MaxStored != 0 {
		c.MaxStored = overlay.MaxStored
	}
	if len(overlay.AcceptedTypes) > 0 {
		c.AcceptedTypes = overlay.AcceptedTypes
	}
}

func (c *Config) loadDefaults() {
	if c.MaxStored == 0 {
		c.MaxStored = 50
	}
	if len(c.AcceptedTypes) == 0 {
		c.AcceptedTypes = []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"image/jpeg",
			"image/png",
			"image/webp",
		}
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.MaxStored != "" {
		if v := os.Getenv(env.MaxStored); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxStored = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.MaxStored < 1 {
		return fmt.Errorf("max_stored must be positive")
	}
	return nil
}
