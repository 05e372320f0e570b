// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package apperr

import (
	"log/slog"
	"net/http"

	"github.com/samber/oops"
)

// Messages shared by more than one kind.
const (
	msgInternal        = "Internal Server Error"
	msgWrongCredential = "Wrong E-Mail/Password combination"
)

// Response is the wire form of a failure.
type Response struct {
	Kind    Kind
	Status  int
	Message string
	// Level is the slog level the failure should be logged at.
	Level slog.Level
	// Alert marks failures that indicate corrupted stored data.
	Alert bool
}

type rule struct {
	status  int
	message string
	level   slog.Level
	alert   bool
}

var rules = map[Kind]rule{
	KindInternal:               {http.StatusInternalServerError, msgInternal, slog.LevelError, false},
	KindMalformedInput:         {http.StatusUnprocessableEntity, "Cannot deserialize request body", slog.LevelInfo, false},
	KindInvalidParameter:       {http.StatusBadRequest, "Cannot parse parameter", slog.LevelInfo, false},
	KindDuplicateAccount:       {http.StatusUnprocessableEntity, "Account already exists", slog.LevelInfo, false},
	KindWrongPassword:          {http.StatusUnauthorized, msgWrongCredential, slog.LevelInfo, false},
	KindUnknownAccount:         {http.StatusUnauthorized, msgWrongCredential, slog.LevelInfo, false},
	KindTokenInvalid:           {http.StatusUnauthorized, "Invalid or missing authorization token", slog.LevelInfo, false},
	KindUnauthorized:           {http.StatusUnauthorized, "No permission to change the underlying resource", slog.LevelWarn, false},
	KindNotFound:               {http.StatusNotFound, "Resource not found", slog.LevelInfo, false},
	KindRouteNotFound:          {http.StatusNotFound, "Route not found", slog.LevelDebug, false},
	KindMethodNotAllowed:       {http.StatusMethodNotAllowed, "Method not allowed", slog.LevelDebug, false},
	KindCredentialHashCorrupt:  {http.StatusInternalServerError, msgInternal, slog.LevelError, true},
	KindPersistenceUnavailable: {http.StatusInternalServerError, msgInternal, slog.LevelError, false},
	KindUpstreamFailure:        {http.StatusInternalServerError, msgInternal, slog.LevelError, false},
}

// KindOf classifies err. Errors without a recognised code are KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return KindInternal
	}
	code, _ := any(oopsErr.Code()).(string)
	if kind, ok := codeToKind[code]; ok {
		return kind
	}
	return KindInternal
}

// Resolve maps err to exactly one Response. It never fails.
func Resolve(err error) Response {
	kind := KindOf(err)
	r, ok := rules[kind]
	if !ok {
		kind, r = KindInternal, rules[KindInternal]
	}

	resp := Response{
		Kind:    kind,
		Status:  r.status,
		Message: r.message,
		Level:   r.level,
		Alert:   r.alert,
	}

	oopsErr, isOops := oops.AsOops(err)
	if !isOops {
		return resp
	}
	ctx := oopsErr.Context()

	switch kind {
	case KindInvalidParameter:
		if msg, ok := ctx[KeyPublicMessage].(string); ok && msg != "" {
			resp.Message = msg
		}
	case KindUpstreamFailure:
		// Client-side rejections from the dependency are passed through;
		// everything else stays a 500.
		if status, ok := ctx[KeyUpstreamStatus].(int); ok && status >= 400 && status < 500 {
			resp.Status = status
			resp.Message = "Content filter rejected the request"
			resp.Level = slog.LevelWarn
		}
	}

	return resp
}
