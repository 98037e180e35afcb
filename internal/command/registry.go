// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package command is the dispatch layer between a front-end and the
// application: it maps command names to handlers with JSON arguments.
package command // import "sub2utf.app/v2/internal/command"

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"sub2utf.app/v2/internal/logging"
	"sub2utf.app/v2/internal/metric"
)

var (
	ErrNotFound     = errors.New("command not found")
	ErrInvalidArgs  = errors.New("invalid command arguments")
	ErrAlreadyTaken = errors.New("command already registered")
)

// Handler executes a single command. args is the JSON object sent by the
// front-end; the returned value must be marshalable to JSON.
type Handler interface {
	Invoke(ctx context.Context, args json.RawMessage) (any, error)
}

type HandlerFunc func(ctx context.Context, args json.RawMessage) (any, error)

func (fn HandlerFunc) Invoke(ctx context.Context, args json.RawMessage,
) (any, error) {
	return fn(ctx, args)
}

// Typed adapts fn, which takes its arguments as a struct, to Handler.
func Typed[A, R any](fn func(ctx context.Context, args A) (R, error)) Handler {
	return HandlerFunc(func(ctx context.Context, raw json.RawMessage,
	) (any, error) {
		var args A
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidArgs, err)
			}
		}
		return fn(ctx, args)
	})
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Registry holds the complete set of commands callable by a front-end.
type Registry struct {
	handlers map[string]Handler
}

func (self *Registry) Register(name string, h Handler) error {
	if _, ok := self.handlers[name]; ok {
		return fmt.Errorf("command: %q: %w", name, ErrAlreadyTaken)
	}
	self.handlers[name] = h
	return nil
}

// Names returns sorted names of all registered commands.
func (self *Registry) Names() []string {
	return slices.Sorted(maps.Keys(self.handlers))
}

// Invoke runs command name. Errors returned by the handler are passed
// through as is.
func (self *Registry) Invoke(ctx context.Context, name string,
	args json.RawMessage,
) (any, error) {
	h, ok := self.handlers[name]
	if !ok {
		return nil, fmt.Errorf("command: %q: %w", name, ErrNotFound)
	}

	log := logging.FromContext(ctx).With(slog.String("command", name))
	ctx = logging.WithLogger(ctx, log)

	startTime := time.Now()
	result, err := h.Invoke(ctx, args)
	elapsed := time.Since(startTime)
	metric.ObserveCommand(name, err, elapsed)

	if err != nil {
		log.Info("command failed", slog.Any("error", err),
			slog.Duration("elapsed", elapsed))
		return nil, err
	}
	log.Debug("command completed", slog.Duration("elapsed", elapsed))
	return result, nil
}

// Call marshals args and invokes command name.
func (self *Registry) Call(ctx context.Context, name string, args any,
) (any, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("command: marshal %q arguments: %w", name, err)
	}
	return self.Invoke(ctx, name, raw)
}
