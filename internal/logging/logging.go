// Package logging carries a *slog.Logger through a context.
package logging // import "sub2utf.app/v2/internal/logging"

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

var ctxKeyLogger ctxKey = struct{}{}

// Discard is a logger which drops every record. It's used when the logging
// facility isn't installed.
var Discard = slog.New(slog.DiscardHandler)

func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if l, ok := ctx.Value(ctxKeyLogger).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

func With(ctx context.Context, args ...any) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(args...))
}

func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKeyLogger, l)
}
