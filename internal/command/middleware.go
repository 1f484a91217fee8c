package command

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leengari/primitive-db/internal/domain/errors"
)

// Handler produces a command's result
type Handler func() (Result, error)

// Stage wraps a handler with a cross-cutting concern
type Stage func(name string, next Handler) Handler

// Chain composes stages around core. stages[0] is the outermost.
func Chain(name string, core Handler, stages ...Stage) Handler {
	h := core
	for i := len(stages) - 1; i >= 0; i-- {
		h = stages[i](name, h)
	}
	return h
}

// ErrorBoundary turns every error, and any panic, into a failed Result.
// The wrapped handler never returns an error.
func ErrorBoundary() Stage {
	return func(name string, next Handler) Handler {
		return func() (res Result, err error) {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("command panicked",
						slog.String("command", name),
						slog.Any("panic", r),
					)
					res, err = Failure(fmt.Sprintf("internal error: %v", r)), nil
				}
			}()

			res, err = next()
			if err == nil {
				return res, nil
			}

			level := slog.LevelWarn
			if errors.KindOf(err) == errors.KindStorage || errors.KindOf(err) == "" {
				level = slog.LevelError
			}
			slog.Log(context.Background(), level, "command failed",
				slog.String("command", name),
				slog.Any("error", err),
			)

			failed := Failure(Describe(err))
			failed.Duration = res.Duration
			return failed, nil
		}
	}
}

// Describe renders an error for the user
func Describe(err error) string {
	if errors.KindOf(err) == "" {
		return fmt.Sprintf("unexpected error: %v", err)
	}
	return err.Error()
}

// Confirmation asks confirmer before running next. No confirmer, or a
// negative answer, cancels without running it.
func Confirmation(confirmer Confirmer, action string) Stage {
	return func(name string, next Handler) Handler {
		return func() (Result, error) {
			if confirmer == nil || !confirmer.Confirm(action) {
				slog.Info("command cancelled",
					slog.String("command", name),
					slog.String("action", action),
				)
				return Cancelled(), nil
			}
			return next()
		}
	}
}

// Timing attaches the wall-clock duration and logs commands slower than
// threshold. A zero threshold uses DefaultSlowThreshold.
func Timing(threshold time.Duration) Stage {
	if threshold <= 0 {
		threshold = DefaultSlowThreshold
	}
	return func(name string, next Handler) Handler {
		return func() (Result, error) {
			start := time.Now()
			res, err := next()
			res.Duration = time.Since(start)

			if res.Duration > threshold {
				slog.Info("slow command",
					slog.String("command", name),
					slog.Duration("duration", res.Duration),
				)
			}
			return res, err
		}
	}
}
