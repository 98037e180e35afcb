package request // import "sub2utf.app/v2/internal/http/request"

import (
	"fmt"
	"io"
	"net/http"
)

// MaxBodySize limits the size of a request body. Subtitle files are small,
// but commands carry them as JSON arrays of numbers.
const MaxBodySize = 64 << 20

// RouteStringParam returns a string route parameter.
func RouteStringParam(r *http.Request, param string) string {
	return r.PathValue(param)
}

// ReadBody reads the whole request body, up to MaxBodySize bytes.
func ReadBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("http/request: read body: %w", err)
	}
	return b, nil
}
