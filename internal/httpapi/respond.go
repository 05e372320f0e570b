// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/qna-dev/qna/internal/apperr"
	"github.com/qna-dev/qna/pkg/errutil"
)

// HandlerFunc is an HTTP handler that reports failure by returning it.
// Handlers must not write a response when they return an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts h to http.Handler. It is the only place a failure becomes
// a response.
func (a *API) handle(h HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			a.fail(w, r, err)
		}
	})
}

// fail resolves err, logs it and writes the mapped status and message.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	resp := apperr.Resolve(err)
	ctx := r.Context()

	attrs := []any{"kind", resp.Kind.String(), "status", resp.Status}
	if resp.Alert {
		attrs = append(attrs, "alert", true)
	}
	errutil.Log(ctx, a.logger, resp.Level, "request failed", err, attrs...)
	a.metrics.RecordRejection(resp.Kind.String())

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.RecordError(err)
		if resp.Status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, resp.Kind.String())
		}
	}

	writeText(w, resp.Status, resp.Message)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // client may disconnect
	w.Write([]byte(body))
}

// writeJSON encodes v before writing anything, so an encoding failure can
// still be reported as an error.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return oops.With("operation", "encode response").Wrap(err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // client may disconnect
	w.Write(body)
	return nil
}

func routeNotFound(_ http.ResponseWriter, r *http.Request) error {
	return oops.Code(apperr.CodeRouteNotFound).With("path", r.URL.Path).Errorf("no route")
}

func methodNotAllowed(_ http.ResponseWriter, r *http.Request) error {
	return oops.Code(apperr.CodeMethodNotAllowed).
		With("path", r.URL.Path).
		With("method", r.Method).
		Errorf("method not allowed")
}
