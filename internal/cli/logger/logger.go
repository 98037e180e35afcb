// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"sub2utf.app/v2/internal/config"
)

// New builds a logger writing into every configured output. Returned closer
// closes opened log files.
func New(logs []config.Log) (*slog.Logger, io.Closer, error) {
	if len(logs) == 0 {
		return nil, nil, fmt.Errorf("logger: no log outputs configured")
	}

	closers := make([]io.Closer, 0, len(logs))
	handlers := make([]slog.Handler, len(logs))
	for i := range logs {
		h, closer, err := handlerFromConfig(&logs[i])
		if err != nil {
			closeAll(closers)
			return nil, nil, err
		}
		if closer != nil {
			closers = append(closers, closer)
		}
		handlers[i] = h
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0]), closerFunc(func() error {
			closeAll(closers)
			return nil
		}), nil
	}

	h := NewMultiHandler(handlers).WithClosers(closers)
	return slog.New(h), h, nil
}

type closerFunc func() error

func (fn closerFunc) Close() error { return fn() }

func closeAll(closers []io.Closer) {
	for _, closer := range closers {
		_ = closer.Close()
	}
}

func handlerFromConfig(c *config.Log) (slog.Handler, io.Closer, error) {
	w, closer, err := parseLogFile(c.LogFile)
	if err != nil {
		return nil, nil, err
	}
	h := parseFormat(w, c.LogFormat, c.LogLevel, c.LogDateTime)
	return h, closer, nil
}

func parseLogFile(logFile string) (io.Writer, io.Closer, error) {
	switch logFile {
	case "stdout":
		return os.Stdout, nil, nil
	case "stderr":
		return os.Stderr, nil, nil
	}

	f, err := NewLogFile(logFile)
	if err != nil {
		return nil, nil, fmt.Errorf(
			"logger: unable to open log file %q: %w", logFile, err)
	}
	return f, f, nil
}

func parseLogLevel(s string) slog.Level {
	var level slog.Level
	switch s {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return level
}

func hideTime(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey && len(groups) == 0 {
		return slog.Attr{}
	}
	return a
}

func parseFormat(w io.Writer, format, level string, logTime bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLogLevel(level)}
	if !logTime {
		opts.ReplaceAttr = hideTime
	}

	switch format {
	case "human":
		return NewConsoleHandler(w, opts, logTime)
	case "json":
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
