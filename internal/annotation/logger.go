package annotation

import (
	"log/slog"

	"labelall/internal/logging"
)

var logger logging.Slot

// SetLogger configures the logger used for load and save diagnostics.
// Pass nil to silence it again.
func SetLogger(l *slog.Logger) { logger.Set(l) }

// Logger returns the package logger.
func Logger() *slog.Logger { return logger.Get() }
