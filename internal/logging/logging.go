// Package logging holds the shared slog plumbing for the core packages.
// Library packages log nothing until the application installs a logger.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
)

// nopHandler discards every record. Enabled returns false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// Nop returns a logger that drops all output.
func Nop() *slog.Logger { return slog.New(nopHandler{}) }

// Slot is a package-level logger that is safe to swap at any time.
type Slot struct {
	p atomic.Pointer[slog.Logger]
}

// Set stores l, or the silent logger when l is nil.
func (s *Slot) Set(l *slog.Logger) {
	if l == nil {
		l = Nop()
	}
	s.p.Store(l)
}

// Get returns the stored logger, silent until Set is called.
func (s *Slot) Get() *slog.Logger {
	if l := s.p.Load(); l != nil {
		return l
	}
	return Nop()
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
