package middleware

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"sub2utf.app/v2/internal/http/response/json"
	"sub2utf.app/v2/internal/logging"
)

// WithPanic recovers from panics of handlers and responds with 500.
func WithPanic(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				//nolint:errorlint // we are checking exactly ErrAbortHandler
				if err == http.ErrAbortHandler {
					// the response to the client is aborted, don't log it
					panic(err)
				}
				logPanic(r, err)
				json.ServerError(w, r, fmt.Errorf("panic: %v", err))
			}
		}()
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}

func logPanic(r *http.Request, err any) {
	log := logging.FromContext(r.Context())
	log.Error("request aborted with panic", slog.Any("reason", err))

	for line := range bytes.Lines(debug.Stack()) {
		line = bytes.Replace(line, []byte("\t"), []byte("  "), 1)
		line = bytes.TrimRight(line, "\n")
		log.Error("panic: " + string(line))
	}
}
