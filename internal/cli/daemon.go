// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cli // import "sub2utf.app/v2/internal/cli"

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"sub2utf.app/v2/internal/app"
	"sub2utf.app/v2/internal/config"
	"sub2utf.app/v2/internal/http/server"
	"sub2utf.app/v2/internal/ipc"
	"sub2utf.app/v2/internal/logging"
)

const shutdownTimeout = 5 * time.Second

func NewDaemon(a *app.App) *Daemon { return &Daemon{app: a} }

// Daemon serves commands to the front-end until it receives SIGTERM or
// SIGINT.
type Daemon struct {
	app        *app.App
	g          *errgroup.Group
	httpServer *http.Server
}

func (self *Daemon) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(self.app.Context(ctx),
		syscall.SIGTERM, os.Interrupt)
	defer cancel()

	logging.FromContext(ctx).Info("Starting daemon...")
	ctx, err := self.start(ctx)
	if err != nil {
		return err
	}
	return self.wait(ctx)
}

func (self *Daemon) start(ctx context.Context) (context.Context, error) {
	listener, err := server.Listener(config.Opts.ListenAddr())
	if err != nil {
		return nil, err
	}

	self.g, ctx = errgroup.WithContext(ctx)
	handler := ipc.NewHandler(self.app.Registry(), config.Opts)
	self.httpServer = server.New(context.WithoutCancel(ctx), handler,
		config.Opts.HTTPServerTimeout())
	server.Start(ctx, self.g, self.httpServer, listener)
	return ctx, nil
}

func (self *Daemon) wait(ctx context.Context) error {
	log := logging.FromContext(ctx)
	<-ctx.Done()

	if err := server.Shutdown(ctx, self.httpServer, shutdownTimeout); err != nil {
		log.Error("failed shutdown IPC server", slog.Any("error", err))
	}

	if err := self.g.Wait(); err != nil {
		log.Error("process stopped with error", slog.Any("error", err))
		return fmt.Errorf("process stopped with error: %w", err)
	}
	log.Info("Process gracefully stopped")
	return nil
}
