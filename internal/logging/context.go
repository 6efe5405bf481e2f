package logging

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// FromContext returns the logger carried by ctx, or the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
			return logger
		}
	}
	return Default()
}

// WithContext returns a new context with the given logger.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// ContextWith returns a new context whose logger carries additional attributes.
func ContextWith(ctx context.Context, args ...any) context.Context {
	return WithContext(ctx, FromContext(ctx).With(args...))
}

// ContextWithComponent tags the context logger with a component attribute.
func ContextWithComponent(ctx context.Context, component string) context.Context {
	return ContextWith(ctx, "component", component)
}
