package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	var b bytes.Buffer
	l := slog.New(slog.NewTextHandler(&b, nil))
	ctx := WithLogger(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))

	FromContext(With(ctx, slog.String("command", "detect_encoding"))).
		Info("invoked")
	assert.Contains(t, b.String(), "command=detect_encoding")
}

func TestDiscard(t *testing.T) {
	ctx := context.Background()
	assert.False(t, Discard.Enabled(ctx, slog.LevelError))
}
