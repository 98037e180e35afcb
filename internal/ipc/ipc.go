// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ipc exposes application commands to a front-end over local HTTP.
package ipc // import "sub2utf.app/v2/internal/ipc"

import (
	"errors"
	"net/http"

	"sub2utf.app/v2/internal/command"
	"sub2utf.app/v2/internal/config"
	"sub2utf.app/v2/internal/http/middleware"
	"sub2utf.app/v2/internal/http/mux"
	"sub2utf.app/v2/internal/http/request"
	"sub2utf.app/v2/internal/http/response"
	"sub2utf.app/v2/internal/http/response/json"
	"sub2utf.app/v2/internal/metric"
	"sub2utf.app/v2/internal/model"
	"sub2utf.app/v2/internal/version"
)

type handler struct {
	registry *command.Registry
	opts     *config.Options
}

// NewHandler returns the root handler of the IPC server.
func NewHandler(registry *command.Registry, opts *config.Options,
) http.Handler {
	m := mux.New()
	m.HandleFunc("GET /healthz", livenessProbe)

	m.Use(middleware.RequestId, middleware.ClientIP,
		middleware.WithAccessLog("/healthz", "/metrics"), middleware.WithPanic)

	if opts.HasMetricsCollector() {
		metric.RegisterMetrics()
		m.Handle("GET /metrics", metric.Handler())
	}

	Serve(m.Group(), registry, opts)
	return m
}

// Serve declares IPC routes.
func Serve(m *mux.ServeMux, registry *command.Registry, opts *config.Options) {
	m.Use(middleware.Gzip, middleware.CORS)
	h := &handler{registry: registry, opts: opts}

	m.HandleFunc("GET /version", h.version).
		HandleFunc("GET /commands", h.commands).
		HandleFunc("GET /settings", h.settings).
		HandleFunc("OPTIONS /invoke/{command}", func(http.ResponseWriter, *http.Request) {}).
		HandleFunc("POST /invoke/{command}", h.invoke)
}

func livenessProbe(w http.ResponseWriter, r *http.Request) {
	response.New(w, r).WithBody("OK").Write()
}

func (self *handler) version(w http.ResponseWriter, r *http.Request) {
	json.OK(w, r, version.New())
}

func (self *handler) commands(w http.ResponseWriter, r *http.Request) {
	json.OK(w, r, self.registry.Names())
}

type settingsResponse struct {
	ConfidenceThreshold float64           `json:"confidence_threshold"`
	DefaultLanguage     string            `json:"default_language"`
	Encodings           []string          `json:"encodings"`
	Languages           []config.Language `json:"languages"`
}

func (self *handler) settings(w http.ResponseWriter, r *http.Request) {
	json.OK(w, r, settingsResponse{
		ConfidenceThreshold: self.opts.ConfidenceThreshold(),
		DefaultLanguage:     self.opts.DefaultLanguage(),
		Encodings:           self.opts.Encodings,
		Languages:           self.opts.Languages,
	})
}

func (self *handler) invoke(w http.ResponseWriter, r *http.Request) {
	name := request.RouteStringParam(r, "command")
	body, err := request.ReadBody(w, r)
	if err != nil {
		json.BadRequest(w, r, err)
		return
	}

	result, err := self.registry.Invoke(r.Context(), name, body)
	if err != nil {
		self.commandError(w, r, err)
		return
	}
	json.OK(w, r, result)
}

func (self *handler) commandError(w http.ResponseWriter, r *http.Request,
	err error,
) {
	var cmdErr *model.Error
	switch {
	case errors.Is(err, command.ErrNotFound):
		json.NotFound(w, r, err)
	case errors.Is(err, command.ErrInvalidArgs), errors.As(err, &cmdErr):
		json.BadRequest(w, r, err)
	default:
		json.ServerError(w, r, err)
	}
}
