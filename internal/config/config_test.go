package config

import (
	"log/slog"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IconSize != 10 || !cfg.EmbedImageData || cfg.FillAlpha != 50 || cfg.EdgeWidth != 2 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("Level = %v, want info", cfg.Level())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LABELALL_ICON_SIZE", "14")
	t.Setenv("LABELALL_EMBED_IMAGE_DATA", "false")
	t.Setenv("LABELALL_LOG_LEVEL", "debug")
	t.Setenv("LABELALL_FILL_ALPHA", "90")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IconSize != 14 || cfg.EmbedImageData || cfg.FillAlpha != 90 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level = %v, want debug", cfg.Level())
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"zero icon", "LABELALL_ICON_SIZE", "0"},
		{"bad level", "LABELALL_LOG_LEVEL", "verbose"},
		{"alpha overflow", "LABELALL_FILL_ALPHA", "300"},
		{"not a number", "LABELALL_EDGE_WIDTH", "wide"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load with %s=%s succeeded", tt.key, tt.value)
			}
		})
	}
}
