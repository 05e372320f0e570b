// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/qna-dev/qna/internal/apperr"
)

// Service registers accounts and logs them in.
type Service struct {
	accounts AccountRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	pool     *CryptoPool
	logger   *slog.Logger
}

// NewService creates a Service that logs to slog.Default.
func NewService(accounts AccountRepository, hasher PasswordHasher, tokens TokenIssuer, pool *CryptoPool) (*Service, error) {
	return NewServiceWithLogger(accounts, hasher, tokens, pool, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(
	accounts AccountRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	pool *CryptoPool,
	logger *slog.Logger,
) (*Service, error) {
	switch {
	case accounts == nil:
		return nil, oops.Errorf("account repository is required")
	case hasher == nil:
		return nil, oops.Errorf("password hasher is required")
	case tokens == nil:
		return nil, oops.Errorf("token issuer is required")
	case pool == nil:
		return nil, oops.Errorf("crypto pool is required")
	case logger == nil:
		return nil, oops.Errorf("logger is required")
	}
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		pool:     pool,
		logger:   logger,
	}, nil
}

// dummyPasswordHash is verified when the email is unknown so a miss costs
// the same as a wrong password. Its parameters match the live ones.
//
//nolint:gosec // G101: not a credential; never matches any password
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Register hashes the password and stores a new account.
func (s *Service) Register(ctx context.Context, creds Credentials) (AccountID, error) {
	if err := creds.Validate(); err != nil {
		return 0, err
	}

	var hash string
	if err := s.pool.Do(ctx, func() { hash = s.hasher.Hash(creds.Password) }); err != nil {
		return 0, err
	}

	id, err := s.accounts.Create(ctx, creds.Email, hash)
	if err != nil {
		return 0, oops.With("operation", "create account").Wrap(err)
	}

	s.logger.InfoContext(ctx, "account registered", "account_id", id)
	return id, nil
}

// Login checks the credentials and issues a session token.
// An unknown email and a wrong password produce different kinds that
// resolve to the same response; both paths run one argon2id verification.
func (s *Service) Login(ctx context.Context, creds Credentials) (string, error) {
	if err := creds.Validate(); err != nil {
		return "", err
	}

	account, lookupErr := s.accounts.GetByEmail(ctx, creds.Email)
	exists := lookupErr == nil
	targetHash := dummyPasswordHash
	switch {
	case exists:
		targetHash = account.PasswordHash
	case !errors.Is(lookupErr, apperr.ErrNotFound):
		return "", oops.With("operation", "get account by email").Wrap(lookupErr)
	}

	var (
		valid     bool
		verifyErr error
	)
	if err := s.pool.Do(ctx, func() { valid, verifyErr = s.hasher.Verify(creds.Password, targetHash) }); err != nil {
		return "", err
	}

	if !exists {
		return "", oops.Code(apperr.CodeUnknownAccount).Errorf("no account for email")
	}
	if verifyErr != nil {
		return "", oops.With("operation", "verify password").
			With("account_id", account.ID).
			Wrap(verifyErr)
	}
	if !valid {
		return "", oops.Code(apperr.CodeWrongPassword).
			With("account_id", account.ID).
			Errorf("password mismatch")
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return "", oops.With("operation", "issue token").With("account_id", account.ID).Wrap(err)
	}

	s.logger.InfoContext(ctx, "login succeeded", "account_id", account.ID)
	return token, nil
}
