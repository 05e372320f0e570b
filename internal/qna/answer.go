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

// AnswerID identifies an answer.
type AnswerID int64

// Answer is a stored answer to a question.
type Answer struct {
	ID         AnswerID   `json:"id"`
	Content    string     `json:"content"`
	QuestionID QuestionID `json:"question_id"`
}

// NewAnswer is a submitted answer.
type NewAnswer struct {
	Content    string
	QuestionID QuestionID
}

// Validate requires content and a positive question id.
func (a NewAnswer) Validate() error {
	if strings.TrimSpace(a.Content) == "" {
		return oops.Code(apperr.CodeMalformedInput).With("field", "content").Errorf("content is required")
	}
	if a.QuestionID <= 0 {
		return oops.Code(apperr.CodeInvalidParameter).
			With("parameter", "questionId").
			With(apperr.KeyPublicMessage, "Cannot parse parameter").
			Errorf("question id must be positive")
	}
	return nil
}

// AnswerRepository persists answers. Answering a question that does not
// exist fails with NotFound.
type AnswerRepository interface {
	Create(ctx context.Context, a NewAnswer, owner auth.AccountID) (Answer, error)
}
