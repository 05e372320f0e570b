// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package postgres implements the auth repositories on PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/qna-dev/qna/internal/apperr"
	"github.com/qna-dev/qna/internal/auth"
	"github.com/qna-dev/qna/internal/store"
)

// AccountRepository implements auth.AccountRepository using PostgreSQL.
type AccountRepository struct {
	db store.Querier
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db store.Querier) *AccountRepository {
	return &AccountRepository{db: db}
}

var _ auth.AccountRepository = (*AccountRepository)(nil)

// Create inserts an account. The email is stored exactly as given.
func (r *AccountRepository) Create(ctx context.Context, email, passwordHash string) (auth.AccountID, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO accounts (email, password)
		VALUES ($1, $2)
		RETURNING id
	`, email, passwordHash).Scan(&id)
	if err == nil {
		return auth.AccountID(id), nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return 0, oops.Code(apperr.CodeDuplicateAccount).
			With("constraint", pgErr.ConstraintName).
			Wrapf(err, "account already exists")
	}
	return 0, apperr.Persistence("insert account", err)
}

// GetByEmail retrieves an account by exact email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*auth.Account, error) {
	var (
		account auth.Account
		id      int64
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, email, password
		FROM accounts
		WHERE email = $1
	`, email).Scan(&id, &account.Email, &account.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("account", email)
	}
	if err != nil {
		return nil, apperr.Persistence("select account by email", err)
	}
	account.ID = auth.AccountID(id)
	return &account, nil
}
