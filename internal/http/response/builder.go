// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package response // import "sub2utf.app/v2/internal/http/response"

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/klauspost/compress/gzhttp"

	"sub2utf.app/v2/internal/logging"
)

// CompressionThreshold is the minimal size of a response body, which will be
// compressed.
const CompressionThreshold = 1024

// Builder generates HTTP responses.
type Builder struct {
	w          http.ResponseWriter
	r          *http.Request
	statusCode int
	headers    map[string]string
	body       any
}

// New creates a new response builder.
func New(w http.ResponseWriter, r *http.Request) *Builder {
	return &Builder{
		w:          w,
		r:          r,
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// WithStatus uses the given status code to build the response.
func (b *Builder) WithStatus(statusCode int) *Builder {
	b.statusCode = statusCode
	return b
}

// WithHeader adds the given HTTP header to the response.
func (b *Builder) WithHeader(key, value string) *Builder {
	b.headers[key] = value
	return b
}

// WithBody uses the given body to build the response.
func (b *Builder) WithBody(body any) *Builder {
	b.body = body
	return b
}

// WithoutCompression disables HTTP compression.
func (b *Builder) WithoutCompression() *Builder {
	b.headers[gzhttp.HeaderNoCompression] = "yes"
	return b
}

// Write generates the HTTP response.
func (b *Builder) Write() {
	if b.body == nil {
		b.writeHeaders()
		return
	}

	switch v := b.body.(type) {
	case []byte:
		b.write(v)
	case string:
		b.write([]byte(v))
	case error:
		b.write([]byte(v.Error()))
	case io.Reader:
		b.writeHeaders()
		if _, err := io.Copy(b.w, v); err != nil {
			b.logWriteError(err)
		}
	}
}

func (b *Builder) writeHeaders() {
	b.headers["X-Content-Type-Options"] = "nosniff"
	b.headers["Cache-Control"] = "no-store"

	for key, value := range b.headers {
		b.w.Header().Set(key, value)
	}
	b.w.WriteHeader(b.statusCode)
}

func (b *Builder) write(data []byte) {
	b.writeHeaders()
	if _, err := b.w.Write(data); err != nil {
		b.logWriteError(err)
	}
}

func (b *Builder) logWriteError(err error) {
	logging.FromContext(b.r.Context()).Error(
		"http/response: unable to write response", slog.Any("error", err))
}
