// Package logging defines the structured logger used across the backend.
package logging

import "context"

// Logger is a context-aware, structured logger. Variadic args are key-value
// pairs, e.g. log.Info(ctx, "level created", "level_id", id).
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}
