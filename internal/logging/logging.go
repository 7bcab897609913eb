// Package logging configures the process-wide slog logger.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/mdobak/go-xerrors"
)

// ParseLevel maps a LOG_LEVEL value to a slog level. Unknown or empty
// values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup installs a text logger writing to w at level as the slog default.
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// Error logs err at error level through the default logger, with the call
// stack recorded where it was logged.
func Error(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	traced := xerrors.New(err)
	attrs = append(attrs, slog.Any("error", traced))
	slog.Default().LogAttrs(ctx, slog.LevelError, msg, attrs...)
}
