// Package mux wraps http.ServeMux with middleware groups.
package mux // import "sub2utf.app/v2/internal/http/mux"

import (
	"net/http"
	"path"
	"slices"
	"strings"
)

func New() *ServeMux {
	return &ServeMux{ServeMux: http.NewServeMux()}
}

type ServeMux struct {
	*http.ServeMux

	middlewares []MiddlewareFunc
	pathPrefix  string
}

type MiddlewareFunc func(next http.Handler) http.Handler

var _ http.Handler = (*ServeMux)(nil)

// Group returns a copy of the mux. Middlewares added to the copy don't
// affect the original.
func (self *ServeMux) Group(funcs ...func(m *ServeMux)) *ServeMux {
	g := *self
	g.middlewares = slices.Clone(self.middlewares)
	for _, fn := range funcs {
		fn(&g)
	}
	return &g
}

func (self *ServeMux) Handle(pattern string, handler http.Handler) *ServeMux {
	self.ServeMux.Handle(pattern, self.wrapped(handler))
	return self
}

func (self *ServeMux) wrapped(handler http.Handler) http.Handler {
	for _, m := range slices.Backward(self.middlewares) {
		handler = m(handler)
	}
	return handler
}

func (self *ServeMux) HandleFunc(pattern string,
	handler func(http.ResponseWriter, *http.Request),
) *ServeMux {
	return self.Handle(pattern, http.HandlerFunc(handler))
}

// PrefixGroup returns a mux, which handles requests with given path prefix.
// The prefix is stripped before matching.
func (self *ServeMux) PrefixGroup(prefix string, funcs ...func(m *ServeMux),
) *ServeMux {
	if prefix == "" {
		return self.Group(funcs...)
	}

	pattern := prefix
	if !strings.HasSuffix(pattern, "/") {
		pattern += "/"
	}
	mux := http.NewServeMux()
	self.Handle(pattern, http.StripPrefix(strings.TrimSuffix(prefix, "/"), mux))

	g := *self
	g.ServeMux = mux
	g.middlewares = nil
	g.pathPrefix = path.Join(self.pathPrefix, prefix)

	for _, fn := range funcs {
		fn(&g)
	}
	return &g
}

// PathPrefix returns the full path prefix of the mux.
func (self *ServeMux) PathPrefix() string { return self.pathPrefix }

func (self *ServeMux) Use(m ...MiddlewareFunc) *ServeMux {
	self.middlewares = append(self.middlewares, m...)
	return self
}
