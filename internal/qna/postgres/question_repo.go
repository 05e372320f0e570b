// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package postgres implements the qna repositories on PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/qna-dev/qna/internal/apperr"
	"github.com/qna-dev/qna/internal/auth"
	"github.com/qna-dev/qna/internal/qna"
	"github.com/qna-dev/qna/internal/store"
)

// QuestionRepository implements qna.QuestionRepository using PostgreSQL.
type QuestionRepository struct {
	db store.Querier
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(db store.Querier) *QuestionRepository {
	return &QuestionRepository{db: db}
}

var _ qna.QuestionRepository = (*QuestionRepository)(nil)

// List returns questions ordered by id. A NULL limit returns all rows.
func (r *QuestionRepository) List(ctx context.Context, page qna.Pagination) ([]qna.Question, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, content, tags
		FROM questions
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, page.Limit, page.Offset)
	if err != nil {
		return nil, apperr.Persistence("select questions", err)
	}
	defer rows.Close()

	questions := make([]qna.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, apperr.Persistence("scan question", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("iterate questions", err)
	}
	return questions, nil
}

// Get retrieves a question by id.
func (r *QuestionRepository) Get(ctx context.Context, id qna.QuestionID) (*qna.Question, error) {
	q, err := scanQuestion(r.db.QueryRow(ctx, `
		SELECT id, title, content, tags
		FROM questions
		WHERE id = $1
	`, int64(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("question", id)
	}
	if err != nil {
		return nil, apperr.Persistence("select question", err)
	}
	return &q, nil
}

// Create inserts a question owned by owner.
func (r *QuestionRepository) Create(ctx context.Context, nq qna.NewQuestion, owner auth.AccountID) (qna.Question, error) {
	q, err := scanQuestion(r.db.QueryRow(ctx, `
		INSERT INTO questions (title, content, tags, account_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, content, tags
	`, nq.Title, nq.Content, nq.Tags, int64(owner)))
	if err != nil {
		return qna.Question{}, apperr.Persistence("insert question", err)
	}
	return q, nil
}

// Update replaces title, content and tags. Ownership is not changed.
func (r *QuestionRepository) Update(ctx context.Context, id qna.QuestionID, nq qna.NewQuestion) (qna.Question, error) {
	q, err := scanQuestion(r.db.QueryRow(ctx, `
		UPDATE questions
		SET title = $1, content = $2, tags = $3
		WHERE id = $4
		RETURNING id, title, content, tags
	`, nq.Title, nq.Content, nq.Tags, int64(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return qna.Question{}, apperr.NotFound("question", id)
	}
	if err != nil {
		return qna.Question{}, apperr.Persistence("update question", err)
	}
	return q, nil
}

// Delete removes a question. Its answers go with it.
func (r *QuestionRepository) Delete(ctx context.Context, id qna.QuestionID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM questions WHERE id = $1`, int64(id))
	if err != nil {
		return apperr.Persistence("delete question", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("question", id)
	}
	return nil
}

// OwnerOf returns the account that created the question.
func (r *QuestionRepository) OwnerOf(ctx context.Context, resourceID int64) (auth.AccountID, error) {
	var owner int64
	err := r.db.QueryRow(ctx, `SELECT account_id FROM questions WHERE id = $1`, resourceID).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperr.NotFound("question", resourceID)
	}
	if err != nil {
		return 0, apperr.Persistence("select question owner", err)
	}
	return auth.AccountID(owner), nil
}

func scanQuestion(row pgx.Row) (qna.Question, error) {
	var (
		q  qna.Question
		id int64
	)
	if err := row.Scan(&id, &q.Title, &q.Content, &q.Tags); err != nil {
		return qna.Question{}, err
	}
	q.ID = qna.QuestionID(id)
	return q, nil
}
