package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sub2utf.app/v2/internal/http/request"
	"sub2utf.app/v2/internal/logging"
)

func newTestLogger(b *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(b, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func TestWithLogger(t *testing.T) {
	var b bytes.Buffer
	l := newTestLogger(&b)

	h := WithLogger(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context()).Info("inside")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "level=INFO msg=inside\n", b.String())
}

func TestRequestId(t *testing.T) {
	var ids []string
	h := RequestId(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, RequestIdFrom(r.Context()))
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, ids, 2)
	assert.NotEmpty(t, ids[0])
	assert.NotEqual(t, ids[0], ids[1])
	assert.Equal(t, ids[0], w.Header().Get(RequestIdHeader))
	assert.Empty(t, RequestIdFrom(nil)) //nolint:staticcheck // nil context
}

func TestClientIP(t *testing.T) {
	var got string
	h := ClientIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = request.ClientIP(r)
	}))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "127.0.0.1:5555"
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "127.0.0.1", got)
}

func TestCORS(t *testing.T) {
	var called bool
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/invoke/save_file", nil))
	assert.False(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/invoke/save_file", nil))
	assert.True(t, called)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestGzip(t *testing.T) {
	big := strings.Repeat("Ђорђе ", 1000)
	tests := []struct {
		name     string
		body     string
		noGzip   bool
		wantGzip bool
	}{
		{name: "small", body: "ok"},
		{name: "big", body: big, wantGzip: true},
		{name: "disabled", body: big, noGzip: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Gzip(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.noGzip {
					w.Header().Set(gzhttp.HeaderNoCompression, "yes")
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("Accept-Encoding", "gzip")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			if tt.wantGzip {
				assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
				assert.Less(t, w.Body.Len(), len(tt.body))
			} else {
				assert.Empty(t, w.Header().Get("Content-Encoding"))
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestWithAccessLog(t *testing.T) {
	var b bytes.Buffer
	l := newTestLogger(&b)

	h := WithAccessLog("/healthz")(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("body"))
		}))

	r := httptest.NewRequest(http.MethodGet, "/version", nil)
	r = r.WithContext(logging.WithLogger(r.Context(), l))
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Contains(t, b.String(), `level=INFO msg="GET /version"`)
	assert.Contains(t, b.String(), "status_code=418")
	assert.Contains(t, b.String(), "size=4")

	b.Reset()
	r = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	r = r.WithContext(logging.WithLogger(r.Context(), l))
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Contains(t, b.String(), `level=DEBUG msg="GET /healthz"`)
}

func TestWithPanic(t *testing.T) {
	var b bytes.Buffer
	l := newTestLogger(&b)

	h := WithPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(logging.WithLogger(r.Context(), l))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error_message":"panic: boom"}`, w.Body.String())
	assert.Contains(t, b.String(), "request aborted with panic")
}

func TestWithPanic_stackAtInfo(t *testing.T) {
	var b bytes.Buffer
	l := slog.New(slog.NewTextHandler(&b,
		&slog.HandlerOptions{Level: slog.LevelInfo}))

	h := WithPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(logging.WithLogger(r.Context(), l))
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Contains(t, b.String(), `level=ERROR msg="panic: goroutine `)
	assert.Contains(t, b.String(), "runtime/debug.Stack")
}
