package common

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Log levels used by TurnLogger implementations
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// TurnLogger provides logging functionality for bot turn processing
type TurnLogger interface {
	Log(level, message string, metadata map[string]interface{})
}

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger TurnLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op logger if not found
func LoggerFromContext(ctx context.Context) TurnLogger {
	if logger, ok := ctx.Value(loggerKey).(TurnLogger); ok {
		return logger
	}
	return &noOpLogger{}
}

// noOpLogger is a logger that does nothing (fallback when no logger in context)
type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, metadata map[string]interface{}) {
	// Do nothing
}

// NewNoOpLogger returns a logger that discards everything. Used in tests and
// wherever turn narration is unwanted.
func NewNoOpLogger() TurnLogger {
	return &noOpLogger{}
}

// consoleLogger writes one line per entry to stdout. minLevel filters what
// gets through; metadata keys are sorted so lines diff cleanly.
type consoleLogger struct {
	minLevel string
}

// NewConsoleLogger creates a stdout logger filtering below minLevel.
// Unknown levels are treated as info.
func NewConsoleLogger(minLevel string) TurnLogger {
	if levelRank(minLevel) < 0 {
		minLevel = LevelInfo
	}
	return &consoleLogger{minLevel: minLevel}
}

func (l *consoleLogger) Log(level, message string, metadata map[string]interface{}) {
	if levelRank(level) < levelRank(l.minLevel) {
		return
	}
	line := fmt.Sprintf("%s [%s] %s", time.Now().UTC().Format(time.RFC3339), level, message)
	if len(metadata) > 0 {
		keys := make([]string, 0, len(metadata))
		for k := range metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			line += fmt.Sprintf(" %s=%v", k, metadata[k])
		}
	}
	fmt.Println(line)
}

func levelRank(level string) int {
	switch level {
	case LevelDebug:
		return 0
	case LevelInfo:
		return 1
	case LevelWarn:
		return 2
	case LevelError:
		return 3
	default:
		return -1
	}
}
