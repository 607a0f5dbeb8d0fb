package editor

import (
	"log/slog"

	"labelall/internal/logging"
)

var logger logging.Slot

// SetLogger configures the logger used by the editor. By default the editor
// logs nothing. Pass nil to restore that.
func SetLogger(l *slog.Logger) { logger.Set(l) }

// Logger returns the editor's current logger.
func Logger() *slog.Logger { return logger.Get() }
