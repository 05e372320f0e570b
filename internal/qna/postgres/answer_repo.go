// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/qna-dev/qna/internal/apperr"
	"github.com/qna-dev/qna/internal/auth"
	"github.com/qna-dev/qna/internal/qna"
	"github.com/qna-dev/qna/internal/store"
)

// AnswerRepository implements qna.AnswerRepository using PostgreSQL.
type AnswerRepository struct {
	db store.Querier
}

// NewAnswerRepository creates a new AnswerRepository.
func NewAnswerRepository(db store.Querier) *AnswerRepository {
	return &AnswerRepository{db: db}
}

var _ qna.AnswerRepository = (*AnswerRepository)(nil)

// questionFKey is the foreign key from answers to questions.
const questionFKey = "answers_question_fkey"

// Create inserts an answer. A question id with no matching row violates
// questionFKey and is reported as NotFound. Any other constraint failure is
// a persistence error.
func (r *AnswerRepository) Create(ctx context.Context, na qna.NewAnswer, owner auth.AccountID) (qna.Answer, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO answers (content, corresponding_question, account_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, na.Content, int64(na.QuestionID), int64(owner)).Scan(&id)

	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return qna.Answer{ID: qna.AnswerID(id), Content: na.Content, QuestionID: na.QuestionID}, nil
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation && pgErr.ConstraintName == questionFKey:
		return qna.Answer{}, apperr.NotFound("question", na.QuestionID)
	default:
		return qna.Answer{}, apperr.Persistence("insert answer", err)
	}
}
