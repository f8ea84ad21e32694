package common

import (
	"context"
	"fmt"
	"reflect"
	"runtime/debug"
	"time"
)

// RecoveryMiddleware converts handler panics into errors so one bad bot
// turn cannot take the daemon down.
func RecoveryMiddleware() Middleware {
	return func(ctx context.Context, request Request, next HandlerFunc) (response Response, err error) {
		defer func() {
			if r := recover(); r != nil {
				LoggerFromContext(ctx).Log(LevelError, "handler panic recovered", map[string]interface{}{
					"request": requestName(request),
					"panic":   fmt.Sprintf("%v", r),
					"stack":   string(debug.Stack()),
				})
				err = fmt.Errorf("handler panic: %v", r)
			}
		}()
		return next(ctx, request)
	}
}

// LoggingMiddleware logs every request with its duration and outcome
func LoggingMiddleware() Middleware {
	return func(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
		start := time.Now()
		response, err := next(ctx, request)

		metadata := map[string]interface{}{
			"request":    requestName(request),
			"durationMs": time.Since(start).Milliseconds(),
		}
		logger := LoggerFromContext(ctx)
		if err != nil {
			metadata["error"] = err.Error()
			logger.Log(LevelError, "request failed", metadata)
			return response, err
		}
		logger.Log(LevelDebug, "request handled", metadata)
		return response, nil
	}
}

func requestName(request Request) string {
	t := reflect.TypeOf(request)
	if t == nil {
		return "nil"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
