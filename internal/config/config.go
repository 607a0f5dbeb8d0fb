// Package config reads editor settings from the environment.
package config

import (
	"fmt"
	"log/slog"

	"github.com/kelseyhightower/envconfig"

	"labelall/internal/logging"
)

// Prefix is prepended to every variable name, e.g. LABELALL_ICON_SIZE.
const Prefix = "labelall"

// Config holds the editor settings. Every field can be set through a
// LABELALL_ prefixed environment variable.
type Config struct {
	IconSize       float64 `envconfig:"ICON_SIZE" default:"10"`
	EmbedImageData bool    `envconfig:"EMBED_IMAGE_DATA" default:"true"`
	LogLevel       string  `envconfig:"LOG_LEVEL" default:"info"`
	FillAlpha      uint8   `envconfig:"FILL_ALPHA" default:"50"`
	EdgeWidth      float64 `envconfig:"EDGE_WIDTH" default:"2"`
}

// Load reads the settings from the environment and validates them.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	if cfg.IconSize <= 0 {
		return nil, fmt.Errorf("ICON_SIZE must be positive, got %v", cfg.IconSize)
	}
	if cfg.EdgeWidth <= 0 {
		return nil, fmt.Errorf("EDGE_WIDTH must be positive, got %v", cfg.EdgeWidth)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	l, _ := logging.ParseLevel(c.LogLevel)
	return l
}
