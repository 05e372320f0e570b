// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/samber/oops"

	"github.com/qna-dev/qna/internal/apperr"
)

// AccountID identifies an account. Assigned by the store; always positive.
type AccountID int64

// Account is a registered user. PasswordHash is an encoded argon2id hash
// and must never be logged or returned to clients.
type Account struct {
	ID           AccountID
	Email        string
	PasswordHash string
}

// LogValue keeps the hash out of structured logs.
func (a Account) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("id", int64(a.ID)),
		slog.String("email", a.Email),
	)
}

// Credentials is the registration and login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate rejects credentials with a blank email or an empty password.
// Email is compared exactly as stored, so only surrounding whitespace is
// checked.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return oops.Code(apperr.CodeMalformedInput).With("field", "email").Errorf("email is required")
	}
	if c.Password == "" {
		return oops.Code(apperr.CodeMalformedInput).With("field", "password").Errorf("password is required")
	}
	return nil
}

// AccountRepository persists accounts.
type AccountRepository interface {
	// Create inserts an account and returns its id. A taken email fails
	// with DuplicateAccount.
	Create(ctx context.Context, email, passwordHash string) (AccountID, error)

	// GetByEmail returns the account with exactly this email. A missing
	// account fails with NotFound wrapping apperr.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*Account, error)
}
