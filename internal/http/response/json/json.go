// SPDX-FileCopyrightText: Copyright The Sub2utf Authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package json // import "sub2utf.app/v2/internal/http/response/json"

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"sub2utf.app/v2/internal/http/request"
	"sub2utf.app/v2/internal/http/response"
	"sub2utf.app/v2/internal/logging"
)

const contentTypeHeader = `application/json`

// OK creates a new JSON response with a 200 status code.
func OK(w http.ResponseWriter, r *http.Request, body any) {
	responseBody, err := json.Marshal(body)
	if err != nil {
		ServerError(w, r, fmt.Errorf(
			"http/response/json: failed marshal response: %w", err))
		return
	}

	response.New(w, r).
		WithHeader("Content-Type", contentTypeHeader).
		WithBody(responseBody).
		Write()
}

// NoContent sends a no content response to the client.
func NoContent(w http.ResponseWriter, r *http.Request) {
	response.New(w, r).
		WithStatus(http.StatusNoContent).
		WithHeader("Content-Type", contentTypeHeader).
		Write()
}

// ServerError sends an internal error to the client.
func ServerError(w http.ResponseWriter, r *http.Request, err error) {
	clientClosed := errors.Is(err, context.Canceled) &&
		errors.Is(r.Context().Err(), context.Canceled)
	if clientClosed {
		statusCode := 499
		requestLogger(r, err).Debug("client closed request",
			slog.Group("response", slog.Int("status_code", statusCode)))
		http.Error(w, err.Error(), statusCode)
		return
	}
	writeError(w, r, http.StatusInternalServerError, err, slog.LevelError)
}

// BadRequest sends a bad request error to the client.
func BadRequest(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, http.StatusBadRequest, err, slog.LevelWarn)
}

// NotFound sends a not found error to the client.
func NotFound(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		err = errors.New("resource not found")
	}
	writeError(w, r, http.StatusNotFound, err, slog.LevelWarn)
}

func writeError(w http.ResponseWriter, r *http.Request, statusCode int,
	err error, level slog.Level,
) {
	log := requestLogger(r, err)
	log.Log(r.Context(), level, http.StatusText(statusCode),
		slog.Group("response", slog.Int("status_code", statusCode)))

	responseBody, jsonErr := generateJSONError(err)
	if jsonErr != nil {
		log.Error("Unable to generate JSON error", slog.Any("json_error", jsonErr))
		http.Error(w, http.StatusText(http.StatusInternalServerError),
			http.StatusInternalServerError)
		return
	}

	response.New(w, r).
		WithStatus(statusCode).
		WithHeader("Content-Type", contentTypeHeader).
		WithBody(responseBody).
		Write()
}

func requestLogger(r *http.Request, err error) *slog.Logger {
	return logging.FromContext(r.Context()).With(
		slog.Any("error", err),
		slog.String("client_ip", request.ClientIP(r)),
		slog.Group("request",
			slog.String("method", r.Method),
			slog.String("uri", r.RequestURI),
			slog.String("user_agent", r.UserAgent())))
}

func generateJSONError(err error) ([]byte, error) {
	type errorMsg struct {
		ErrorMessage string `json:"error_message"`
	}
	encodedBody, err := json.Marshal(errorMsg{ErrorMessage: err.Error()})
	if err != nil {
		return nil, fmt.Errorf(
			"http/response/json: failed marshal error message: %w", err)
	}
	return encodedBody, nil
}
