// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package apperr defines the closed set of failure kinds the service can
// produce and the single mapping from a failure to its wire response.
//
// Errors are created at their source with one of the Code constants (or a
// constructor in this package) and travel unchanged to Resolve. Layers in
// between may add context with oops.With but must not attach a new code.
package apperr

// Kind is a failure category. The zero value is KindInternal.
type Kind int

// Failure kinds.
const (
	KindInternal Kind = iota
	KindMalformedInput
	KindInvalidParameter
	KindDuplicateAccount
	KindWrongPassword
	KindUnknownAccount
	KindTokenInvalid
	KindUnauthorized
	KindNotFound
	KindRouteNotFound
	KindMethodNotAllowed
	KindCredentialHashCorrupt
	KindPersistenceUnavailable
	KindUpstreamFailure
)

// Error codes attached with oops.Code. These are the only codes Resolve
// recognises; anything else is KindInternal.
const (
	CodeInternal               = "INTERNAL"
	CodeMalformedInput         = "MALFORMED_INPUT"
	CodeInvalidParameter       = "INVALID_PARAMETER"
	CodeDuplicateAccount       = "DUPLICATE_ACCOUNT"
	CodeWrongPassword          = "WRONG_PASSWORD"
	CodeUnknownAccount         = "UNKNOWN_ACCOUNT"
	CodeTokenInvalid           = "TOKEN_INVALID"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeNotFound               = "NOT_FOUND"
	CodeRouteNotFound          = "ROUTE_NOT_FOUND"
	CodeMethodNotAllowed       = "METHOD_NOT_ALLOWED"
	CodeCredentialHashCorrupt  = "CREDENTIAL_HASH_CORRUPT"
	CodePersistenceUnavailable = "PERSISTENCE_UNAVAILABLE"
	CodeUpstreamFailure        = "UPSTREAM_FAILURE"
)

// kinds lists every Kind; tests use it to check the response table is total.
var kinds = []Kind{
	KindInternal,
	KindMalformedInput,
	KindInvalidParameter,
	KindDuplicateAccount,
	KindWrongPassword,
	KindUnknownAccount,
	KindTokenInvalid,
	KindUnauthorized,
	KindNotFound,
	KindRouteNotFound,
	KindMethodNotAllowed,
	KindCredentialHashCorrupt,
	KindPersistenceUnavailable,
	KindUpstreamFailure,
}

var codeToKind = map[string]Kind{
	CodeInternal:               KindInternal,
	CodeMalformedInput:         KindMalformedInput,
	CodeInvalidParameter:       KindInvalidParameter,
	CodeDuplicateAccount:       KindDuplicateAccount,
	CodeWrongPassword:          KindWrongPassword,
	CodeUnknownAccount:         KindUnknownAccount,
	CodeTokenInvalid:           KindTokenInvalid,
	CodeUnauthorized:           KindUnauthorized,
	CodeNotFound:               KindNotFound,
	CodeRouteNotFound:          KindRouteNotFound,
	CodeMethodNotAllowed:       KindMethodNotAllowed,
	CodeCredentialHashCorrupt:  KindCredentialHashCorrupt,
	CodePersistenceUnavailable: KindPersistenceUnavailable,
	CodeUpstreamFailure:        KindUpstreamFailure,
}

// Kinds returns every defined Kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// String returns the snake_case name used in logs and metric labels.
func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindMalformedInput:
		return "malformed_input"
	case KindInvalidParameter:
		return "invalid_parameter"
	case KindDuplicateAccount:
		return "duplicate_account"
	case KindWrongPassword:
		return "wrong_password"
	case KindUnknownAccount:
		return "unknown_account"
	case KindTokenInvalid:
		return "token_invalid"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindRouteNotFound:
		return "route_not_found"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	case KindCredentialHashCorrupt:
		return "credential_hash_corrupt"
	case KindPersistenceUnavailable:
		return "persistence_unavailable"
	case KindUpstreamFailure:
		return "upstream_failure"
	default:
		return "unknown"
	}
}
