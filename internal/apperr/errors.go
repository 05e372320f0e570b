// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package apperr

import (
	"errors"

	"github.com/samber/oops"
)

// ErrNotFound is wrapped by stores when a row does not exist.
var ErrNotFound = errors.New("not found")

// Context keys read by Resolve.
const (
	// KeyPublicMessage overrides the default client message for kinds whose
	// message is safe to vary (InvalidParameter).
	KeyPublicMessage = "public_message"
	// KeyUpstreamStatus is the HTTP status returned by an upstream dependency.
	KeyUpstreamStatus = "upstream_status"
)

// MalformedInput creates an error for a request body that cannot be used.
func MalformedInput(cause error) error {
	builder := oops.Code(CodeMalformedInput)
	if cause != nil {
		return builder.Wrapf(cause, "malformed request body")
	}
	return builder.Errorf("malformed request body")
}

// MissingParameter creates an error for an absent query parameter.
func MissingParameter(name string) error {
	return oops.Code(CodeInvalidParameter).
		With("parameter", name).
		With(KeyPublicMessage, "Missing parameter").
		Errorf("missing parameter %q", name)
}

// InvalidParameter creates an error for a query or path parameter that does
// not parse.
func InvalidParameter(name string, cause error) error {
	builder := oops.Code(CodeInvalidParameter).
		With("parameter", name).
		With(KeyPublicMessage, "Cannot parse parameter")
	if cause == nil {
		return builder.Errorf("cannot parse parameter %q", name)
	}
	return builder.Wrapf(cause, "cannot parse parameter %q", name)
}

// TokenInvalid creates the single error used for every token rejection.
// The cause is kept for logs only.
func TokenInvalid(cause error) error {
	builder := oops.Code(CodeTokenInvalid)
	if cause != nil {
		return builder.Wrapf(cause, "invalid token")
	}
	return builder.Errorf("invalid token")
}

// Unauthorized creates an error for a session acting on a resource it does
// not own.
func Unauthorized(resource string, resourceID, accountID int64) error {
	return oops.Code(CodeUnauthorized).
		With("resource", resource).
		With("resource_id", resourceID).
		With("account_id", accountID).
		Errorf("account %d does not own %s %d", accountID, resource, resourceID)
}

// NotFound wraps ErrNotFound for a missing resource.
func NotFound(resource string, id any) error {
	return oops.Code(CodeNotFound).
		With("resource", resource).
		With("id", id).
		Wrap(ErrNotFound)
}

// Persistence wraps a storage failure.
func Persistence(operation string, cause error) error {
	return oops.Code(CodePersistenceUnavailable).
		With("operation", operation).
		Wrap(cause)
}

// Upstream wraps a failure from an external dependency. status is the
// upstream HTTP status, or 0 when no response was received.
func Upstream(dependency string, status int, cause error) error {
	builder := oops.Code(CodeUpstreamFailure).
		With("dependency", dependency).
		With(KeyUpstreamStatus, status)
	if cause == nil {
		return builder.Errorf("%s returned status %d", dependency, status)
	}
	return builder.Wrap(cause)
}
