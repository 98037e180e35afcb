// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package middleware contains HTTP middlewares of the IPC server.
package middleware // import "sub2utf.app/v2/internal/http/middleware"

import (
	"log/slog"
	"net/http"

	"github.com/klauspost/compress/gzhttp"

	"sub2utf.app/v2/internal/http/request"
	"sub2utf.app/v2/internal/http/response"
	"sub2utf.app/v2/internal/logging"
)

type MiddlewareFunc func(next http.Handler) http.Handler

// WithLogger puts l into the context of every request.
func WithLogger(l *slog.Logger) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logging.WithLogger(r.Context(), l)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := request.WithClientIP(r.Context(), request.FindRemoteIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Max-Age", "3600")
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Gzip compresses responses bigger than response.CompressionThreshold,
// unless the handler disabled it.
func Gzip(next http.Handler) http.Handler {
	wrapper, err := gzhttp.NewWrapper(
		gzhttp.MinSize(response.CompressionThreshold))
	if err != nil {
		panic(err)
	}
	return wrapper(next)
}
