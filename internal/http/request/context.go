// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package request // import "sub2utf.app/v2/internal/http/request"

import (
	"context"
	"net/http"
)

type ctxClientIP struct{}

var clientIPKey ctxClientIP = struct{}{}

func WithClientIP(ctx context.Context, clientIP string) context.Context {
	return context.WithValue(ctx, clientIPKey, clientIP)
}

// ClientIP returns the client IP address stored in the context.
func ClientIP(r *http.Request) string {
	if v, ok := r.Context().Value(clientIPKey).(string); ok {
		return v
	}
	return FindRemoteIP(r)
}
