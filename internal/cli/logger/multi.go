package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

func NewMultiHandler(handlers []slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

// MultiHandler sends every record to all of its handlers. The first handler
// also receives errors of others.
type MultiHandler struct {
	handlers []slog.Handler
	closers  []io.Closer
}

var _ slog.Handler = (*MultiHandler)(nil)

func (self *MultiHandler) WithClosers(closers []io.Closer) *MultiHandler {
	self.closers = closers
	return self
}

func (self *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range self.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (self *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range self.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		return nil
	}

	err := fmt.Errorf("logger: one of handlers failed: %w", errors.Join(errs...))
	self.logInternalErr(ctx, err)
	return err
}

func (self *MultiHandler) logInternalErr(ctx context.Context, err error) {
	h0 := self.handlers[0]
	if !h0.Enabled(ctx, slog.LevelError) {
		return
	}

	r := slog.NewRecord(time.Now(), slog.LevelError, "unable log message",
		uintptr(0))
	r.AddAttrs(slog.Any("error", err))
	_ = h0.Handle(ctx, r)
}

func (self *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(self.handlers))
	for i, h := range self.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: handlers, closers: self.closers}
}

func (self *MultiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return self
	}
	handlers := make([]slog.Handler, len(self.handlers))
	for i, h := range self.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &MultiHandler{handlers: handlers, closers: self.closers}
}

func (self *MultiHandler) Close() error {
	for _, closer := range self.closers {
		if closer != nil {
			_ = closer.Close()
		}
	}
	return nil
}
