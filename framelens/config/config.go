// Package config loads inspector settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the user-tunable inspector settings.
type Config struct {
	// Backend selects the display frontend, "terminal" or "window".
	Backend string `yaml:"backend"`

	// Magnification scales the displayed frame, 1 to 8.
	Magnification int `yaml:"magnification"`

	// GlowIntervalMs is the highlight animation tick in milliseconds.
	GlowIntervalMs int `yaml:"glow_interval_ms"`

	DisableScanlineEffects bool `yaml:"disable_scanline_effects"`

	// Freeze starts the inspector with queue refresh paused.
	Freeze bool `yaml:"freeze"`
}

func Default() Config {
	return Config{
		Backend:        "terminal",
		Magnification:  1,
		GlowIntervalMs: 33,
	}
}

// Load reads a YAML config file over the defaults. Missing keys keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Backend {
	case "terminal", "window":
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Magnification < 1 || c.Magnification > 8 {
		return fmt.Errorf("magnification %d out of range 1-8", c.Magnification)
	}
	if c.GlowIntervalMs < 1 {
		return fmt.Errorf("glow interval %dms out of range", c.GlowIntervalMs)
	}
	return nil
}

// GlowInterval returns the animation tick as a duration.
func (c Config) GlowInterval() time.Duration {
	return time.Duration(c.GlowIntervalMs) * time.Millisecond
}
