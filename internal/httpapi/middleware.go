// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package httpapi

import (
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/qna-dev/qna/internal/apperr"
	"github.com/qna-dev/qna/internal/auth"
	"github.com/qna-dev/qna/internal/logging"
)

var tracer = otel.Tracer("qna/httpapi")

// RequestIDHeader carries the request id back to the client.
const RequestIDHeader = "X-Request-ID"

// unmatchedRoute labels requests that matched no route.
const unmatchedRoute = "unmatched"

var errMissingToken = errors.New("missing authorization header")

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.wroteHeader {
		s.WriteHeader(http.StatusOK)
	}
	//nolint:wrapcheck // pass-through writer
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return unmatchedRoute
}

// instrument assigns a request id, opens a span, and records the access
// log line and request metrics once the response is written.
func (a *API) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		route := routeTemplate(r)
		requestID := ulid.Make().String()

		ctx := logging.WithRequestID(r.Context(), requestID)
		ctx, span := tracer.Start(ctx, r.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("request.id", requestID),
			),
		)
		defer span.End()

		w.Header().Set(RequestIDHeader, requestID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		elapsed := time.Since(start)
		span.SetAttributes(attribute.Int("http.response.status_code", rec.status))
		a.metrics.ObserveRequest(r.Method, route, rec.status, elapsed)
		a.logger.InfoContext(ctx, "request",
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"duration_ms", elapsed.Milliseconds())
	})
}

// recoverPanics turns a handler panic into an Internal failure.
func (a *API) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value
				panic(v)
			}
			a.fail(w, r, oops.Code(apperr.CodeInternal).
				With("stack", string(debug.Stack())).
				Errorf("panic: %v", v))
		}()
		next.ServeHTTP(w, r)
	})
}

// SessionHandlerFunc handles a request from an authenticated account.
type SessionHandlerFunc func(w http.ResponseWriter, r *http.Request, sess auth.Session) error

// requireSession is the auth gate. It verifies the raw Authorization
// header and only then runs h. A missing header is rejected like an
// invalid token. No storage is consulted.
func (a *API) requireSession(h SessionHandlerFunc) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		raw := r.Header.Get("Authorization")
		if raw == "" {
			return apperr.TokenInvalid(errMissingToken)
		}
		sess, err := a.tokens.Verify(raw)
		if err != nil {
			return err
		}

		trace.SpanFromContext(r.Context()).SetAttributes(attribute.Int64("account.id", int64(sess.AccountID)))
		return h(w, r, sess)
	}
}
