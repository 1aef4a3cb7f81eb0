// Package logging builds the zerolog loggers used by the CLI and dashboard.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Logger aliases zerolog.Logger so callers don't import zerolog just to
// pass a logger around.
type Logger = zerolog.Logger

// ParseLevel maps a config level to zerolog, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// NewConsole returns a human-readable logger writing to w, for CLI commands.
func NewConsole(w io.Writer, level string) Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// NewFile returns a JSON logger appending to path. The dashboard owns the
// terminal, so it logs here instead of stderr. The returned closer must be
// called on exit.
func NewFile(path, level string) (Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("creating log dir: %w", err)
	}
	//nolint:gosec // log path is configured by the local user
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
	}

	l := zerolog.New(f).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
	return l, f, nil
}

// DefaultFile returns the dashboard log path under the XDG state directory.
func DefaultFile() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cfarm", "cfarm.log")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "cfarm", "cfarm.log")
}

// Nop returns a disabled logger.
func Nop() Logger { return zerolog.Nop() }
