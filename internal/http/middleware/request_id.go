package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"

	"sub2utf.app/v2/internal/logging"
)

const RequestIdHeader = "X-Request-Id"

type ctxRequestId struct{}

var (
	requestIdKey  ctxRequestId = struct{}{}
	nextRequestId atomic.Uint64
)

// RequestId numbers every request and adds the number to the request logger
// as "rid".
func RequestId(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		id := nextRequestId.Add(1)
		s := strconv.FormatUint(id, 10)
		ctx := context.WithValue(r.Context(), requestIdKey, s)
		ctx = logging.With(ctx, slog.Uint64("rid", id))
		w.Header().Set(RequestIdHeader, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(fn)
}

func RequestIdFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIdKey).(string); ok {
		return id
	}
	return ""
}
