// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package app performs one-time process setup: it installs the logging
// facility in debug mode and registers commands callable by a front-end.
package app // import "sub2utf.app/v2/internal/app"

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"sub2utf.app/v2/internal/cli/logger"
	"sub2utf.app/v2/internal/command"
	"sub2utf.app/v2/internal/config"
	"sub2utf.app/v2/internal/logging"
)

type Options struct {
	// Debug enables the logging facility. Without it nothing is logged.
	Debug bool
	// Logging configures log outputs in debug mode.
	Logging []config.Log
}

// New builds the application. It must be called once, at process entry.
func New(opts Options) (*App, error) {
	self := &App{log: logging.Discard, registry: command.NewRegistry()}

	if opts.Debug {
		if err := self.installLogger(opts.Logging); err != nil {
			return nil, err
		}
	}

	if err := command.RegisterAll(self.registry); err != nil {
		self.Close()
		return nil, fmt.Errorf("app: register commands: %w", err)
	}
	self.log.Info("application initialized",
		slog.Any("commands", self.registry.Names()))
	return self, nil
}

type App struct {
	log      *slog.Logger
	closer   io.Closer
	registry *command.Registry
}

func (self *App) installLogger(logs []config.Log) error {
	if len(logs) == 0 {
		logs = []config.Log{{
			LogFile:   "stderr",
			LogFormat: "text",
			LogLevel:  "info",
		}}
	}

	l, closer, err := logger.New(logs)
	if err != nil {
		return fmt.Errorf("app: install logger: %w", err)
	}
	slog.SetDefault(l)
	self.log, self.closer = l, closer
	return nil
}

func (self *App) Logger() *slog.Logger { return self.log }

func (self *App) Registry() *command.Registry { return self.registry }

// Context returns a copy of ctx carrying the application logger.
func (self *App) Context(ctx context.Context) context.Context {
	return logging.WithLogger(ctx, self.log)
}

// Invoke runs command name with args, using the application logger.
func (self *App) Invoke(ctx context.Context, name string, args any,
) (any, error) {
	return self.registry.Call(self.Context(ctx), name, args)
}

// Close releases log files opened by the logging facility.
func (self *App) Close() error {
	if self.closer == nil {
		return nil
	}
	closer := self.closer
	self.closer = nil
	if err := closer.Close(); err != nil {
		return fmt.Errorf("app: close logger: %w", err)
	}
	return nil
}
