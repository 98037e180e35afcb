// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package server // import "sub2utf.app/v2/internal/http/server"

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"sub2utf.app/v2/internal/logging"
)

// Listener creates a listener for listenAddr. A socket passed by systemd has
// priority, a listenAddr starting with "/" is a Unix socket path.
func Listener(listenAddr string) (net.Listener, error) {
	switch {
	case os.Getenv("LISTEN_PID") == strconv.Itoa(os.Getpid()):
		f := os.NewFile(3, "systemd socket")
		l, err := net.FileListener(f)
		if err != nil {
			return nil, fmt.Errorf(
				"http/server: create listener from systemd socket: %w", err)
		}
		return l, nil
	case strings.HasPrefix(listenAddr, "/"):
		l, err := unixListener(listenAddr, 0o600)
		if err != nil {
			return nil, fmt.Errorf(
				"http/server: create unix listener on %q: %w", listenAddr, err)
		}
		return l, nil
	}

	l, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("http/server: listen on %q: %w", listenAddr, err)
	}
	return l, nil
}

func unixListener(path string, mode uint32) (*net.UnixListener, error) {
	if err := unlinkStaleUnix(path); err != nil {
		return nil, err
	}

	laddr, err := net.ResolveUnixAddr("unix", path)
	if err != nil {
		return nil, fmt.Errorf("http/server: resolve unix address: %w", err)
	}

	l, err := net.ListenUnix("unix", laddr)
	if err != nil {
		return nil, fmt.Errorf("http/server: listen unix: %w", err)
	}

	l.SetUnlinkOnClose(true)
	if mode == 0 {
		return l, nil
	}

	if err := os.Chmod(path, os.FileMode(mode)); err != nil {
		l.Close()
		return nil, fmt.Errorf(
			"http/server: change socket mode to %O: %w", mode, err)
	}
	return l, nil
}

func unlinkStaleUnix(path string) error {
	sockdir := filepath.Dir(path)
	stat, err := os.Stat(sockdir)
	switch {
	case err != nil && os.IsNotExist(err):
		if err := os.MkdirAll(sockdir, 0o700); err != nil {
			return fmt.Errorf("http/server: cannot mkdir %q: %w", sockdir, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("http/server: cannot stat(2) %q: %w", sockdir, err)
	case !stat.IsDir():
		return fmt.Errorf("http/server: not a directory: %q", sockdir)
	}

	_, err = os.Stat(path)
	switch {
	case err == nil:
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("http/server: cannot remove stale socket: %w", err)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("http/server: cannot stat(2): %w", err)
	}
	return nil
}

// New returns a server with handler and timeouts. Requests get ctx as their
// base context.
func New(ctx context.Context, handler http.Handler, timeout time.Duration,
) *http.Server {
	return &http.Server{
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		IdleTimeout:  timeout,
		Handler:      handler,
		BaseContext:  func(net.Listener) context.Context { return ctx },
		ErrorLog:     slog.NewLogLogger(logging.FromContext(ctx).Handler(), slog.LevelWarn),
	}
}

// Start serves requests from listener in a goroutine of g.
func Start(ctx context.Context, g *errgroup.Group, server *http.Server,
	listener net.Listener,
) {
	log := logging.FromContext(ctx).With(
		slog.String("listen_address", listener.Addr().String()))

	g.Go(func() error {
		log.Info("Starting IPC server")
		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed serve IPC server", slog.Any("error", err))
			return fmt.Errorf("http/server: failed serve: %w", err)
		}
		return nil
	})
}

// Shutdown gracefully stops server, waiting no longer than timeout.
func Shutdown(ctx context.Context, server *http.Server,
	timeout time.Duration,
) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	logging.FromContext(ctx).Info("Shutting down the IPC server gracefully...")
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http/server: failed shutdown: %w", err)
	}
	return nil
}
