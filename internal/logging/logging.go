// Package logging builds the structured logger shared by every component.
// Logs go to stderr; stdout carries the MCP transport.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}

// New returns a text logger writing to w at level. An unknown level falls
// back to info and is reported as the first record.
func New(w io.Writer, level string) *slog.Logger {
	l, err := ParseLevel(level)
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
	if err != nil {
		logger.Warn("using default log level", "error", err)
	}
	return logger
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
