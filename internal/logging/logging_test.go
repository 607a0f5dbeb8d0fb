package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestSlotDefaultsSilent(t *testing.T) {
	var s Slot
	if s.Get().Enabled(context.Background(), slog.LevelError) {
		t.Error("unset slot should not be enabled")
	}
}

func TestSlotSet(t *testing.T) {
	var s Slot
	var buf bytes.Buffer
	s.Set(slog.New(slog.NewTextHandler(&buf, nil)))
	s.Get().Info("hello", "k", 1)
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("output = %q, want it to contain hello", buf.String())
	}
	s.Set(nil)
	s.Get().Info("dropped")
	if strings.Contains(buf.String(), "dropped") {
		t.Error("Set(nil) should silence the slot")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"loud", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}
