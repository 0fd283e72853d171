// Package telemetry owns process-wide logging. Level and style come from
// the CRABE_LOG_LEVEL / CRABE_LOG_STYLE environment variables.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

var logger *slog.Logger

// Init installs the process logger. Safe to call once from main.
func Init(level slog.Level, color bool) {
	logger = slog.New(&prettyHandler{w: os.Stderr, level: level, color: color})
	slog.SetDefault(logger)
}

// InitFromEnv reads CRABE_LOG_LEVEL (default debug) and CRABE_LOG_STYLE
// (default always) and installs the logger.
func InitFromEnv() {
	level := ParseLogLevel(envOr("CRABE_LOG_LEVEL", "debug"))
	color := envOr("CRABE_LOG_STYLE", "always") != "never"
	Init(level, color)
}

// L returns the process logger, initializing a default one if needed.
func L() *slog.Logger {
	if logger == nil {
		Init(slog.LevelDebug, true)
	}
	return logger
}

func Infof(format string, args ...any)  { L().Info(fmt.Sprintf(format, args...)) }
func Warnf(format string, args ...any)  { L().Warn(fmt.Sprintf(format, args...)) }
func Errorf(format string, args ...any) { L().Error(fmt.Sprintf(format, args...)) }
func Debugf(format string, args ...any) { L().Debug(fmt.Sprintf(format, args...)) }

// ParseLogLevel converts a string level name to slog.Level.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiDim    = "\x1b[2m"
)

// prettyHandler outputs: [15:04:05.000] LEVEL message (no LEVEL for info)
type prettyHandler struct {
	w     io.Writer
	level slog.Level
	color bool
	mu    sync.Mutex
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time.Format("15:04:05.000")

	var prefix string
	switch {
	case r.Level >= slog.LevelError:
		prefix = "ERROR "
		if h.color {
			prefix = ansiRed + prefix + ansiReset
		}
	case r.Level >= slog.LevelWarn:
		prefix = "WARN "
		if h.color {
			prefix = ansiYellow + prefix + ansiReset
		}
	case r.Level < slog.LevelInfo:
		prefix = "DEBUG "
		if h.color {
			prefix = ansiDim + prefix + ansiReset
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.w, "[%s] %s%s\n", ts, prefix, r.Message)
	return err
}

func (h *prettyHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *prettyHandler) WithGroup(_ string) slog.Handler      { return h }
