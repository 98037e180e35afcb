package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"sub2utf.app/v2/internal/http/request"
	"sub2utf.app/v2/internal/logging"
)

// WithAccessLog logs every request. Requests to paths with given prefixes
// are logged at debug level.
func WithAccessLog(prefixes ...string) MiddlewareFunc {
	fn := func(next http.Handler) http.Handler {
		return &AccessLog{prefixes: prefixes, next: next}
	}
	return fn
}

type AccessLog struct {
	prefixes []string
	next     http.Handler
}

func (self *AccessLog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sw := newStatusResponseWriter(w)
	startTime := time.Now()
	self.next.ServeHTTP(sw, r)

	log := logging.FromContext(ctx).With(
		slog.String("client_ip", request.ClientIP(r)),
		slog.String("proto", r.Proto))

	if name := r.PathValue("command"); name != "" {
		log = log.With(slog.String("command", name))
	}

	methodURL := r.Method + " " + r.URL.RequestURI()
	log.LogAttrs(ctx, self.level(r), methodURL,
		slog.Int("status_code", sw.StatusCode()),
		slog.Int("size", sw.Size()),
		slog.Duration("request_time", time.Since(startTime)))
}

func (self *AccessLog) level(r *http.Request) slog.Level {
	p := r.URL.Path
	for _, prefix := range self.prefixes {
		if strings.HasPrefix(p, prefix) {
			return slog.LevelDebug
		}
	}
	return slog.LevelInfo
}

func newStatusResponseWriter(w http.ResponseWriter) *statusResponseWriter {
	return &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

type statusResponseWriter struct {
	http.ResponseWriter

	statusCode    int
	headerWritten bool
	size          int
}

var (
	_ io.ReaderFrom       = (*statusResponseWriter)(nil)
	_ http.ResponseWriter = (*statusResponseWriter)(nil)
)

func (self *statusResponseWriter) StatusCode() int { return self.statusCode }
func (self *statusResponseWriter) Size() int       { return self.size }

func (self *statusResponseWriter) WriteHeader(statusCode int) {
	self.ResponseWriter.WriteHeader(statusCode)
	if !self.headerWritten {
		self.statusCode = statusCode
		self.headerWritten = true
	}
}

func (self *statusResponseWriter) Write(b []byte) (n int, err error) {
	self.headerWritten = true
	n, err = self.ResponseWriter.Write(b)
	self.size += n
	return n, err //nolint:wrapcheck // return as is
}

func (self *statusResponseWriter) Unwrap() http.ResponseWriter {
	return self.ResponseWriter
}

func (self *statusResponseWriter) ReadFrom(r io.Reader) (n int64, err error) {
	self.headerWritten = true
	switch v := self.ResponseWriter.(type) {
	case io.ReaderFrom:
		n, err = v.ReadFrom(r)
	default:
		n, err = io.Copy(self.ResponseWriter, r)
	}
	self.size += int(n)
	return n, err //nolint:wrapcheck // return as is
}
