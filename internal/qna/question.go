// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package qna

import (
	"context"
	"strings"

	"github.com/samber/oops"

	"github.com/qna-dev/qna/internal/apperr"
	"github.com/qna-dev/qna/internal/auth"
)

// QuestionID identifies a question.
type QuestionID int64

// Question is a stored question.
type Question struct {
	ID      QuestionID `json:"id"`
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Tags    []string   `json:"tags,omitempty"`
}

// NewQuestion is the body of a create request.
type NewQuestion struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// Validate requires a title and content.
func (q NewQuestion) Validate() error {
	return requireText(q.Title, q.Content)
}

// UpdateQuestion is the body of an update request. ID is optional; when
// set it must match the id in the path.
type UpdateQuestion struct {
	ID      *QuestionID `json:"id,omitempty"`
	Title   string      `json:"title"`
	Content string      `json:"content"`
	Tags    []string    `json:"tags,omitempty"`
}

// Validate requires a title and content.
func (q UpdateQuestion) Validate() error {
	return requireText(q.Title, q.Content)
}

func requireText(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return oops.Code(apperr.CodeMalformedInput).With("field", "title").Errorf("title is required")
	}
	if strings.TrimSpace(content) == "" {
		return oops.Code(apperr.CodeMalformedInput).With("field", "content").Errorf("content is required")
	}
	return nil
}

// QuestionRepository persists questions. Missing rows fail with NotFound
// wrapping apperr.ErrNotFound.
type QuestionRepository interface {
	List(ctx context.Context, page Pagination) ([]Question, error)
	Get(ctx context.Context, id QuestionID) (*Question, error)
	Create(ctx context.Context, q NewQuestion, owner auth.AccountID) (Question, error)
	Update(ctx context.Context, id QuestionID, q NewQuestion) (Question, error)
	Delete(ctx context.Context, id QuestionID) error
	auth.OwnerLookup
}
