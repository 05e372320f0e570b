// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package qna

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"

	"github.com/qna-dev/qna/internal/apperr"
	"github.com/qna-dev/qna/internal/auth"
)

// Censor replaces offensive words in text. Failures carry the
// UpstreamFailure kind.
type Censor interface {
	Censor(ctx context.Context, text string) (string, error)
}

// Service reads questions publicly and gates every mutation on ownership.
type Service struct {
	questions QuestionRepository
	answers   AnswerRepository
	censor    Censor
	owners    *auth.Ownership
	logger    *slog.Logger
}

// NewService creates a Service.
func NewService(questions QuestionRepository, answers AnswerRepository, censor Censor, logger *slog.Logger) (*Service, error) {
	switch {
	case questions == nil:
		return nil, oops.Errorf("question repository is required")
	case answers == nil:
		return nil, oops.Errorf("answer repository is required")
	case censor == nil:
		return nil, oops.Errorf("censor is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		questions: questions,
		answers:   answers,
		censor:    censor,
		owners:    auth.NewOwnership("question", questions),
		logger:    logger,
	}, nil
}

// ListQuestions returns a page of questions.
func (s *Service) ListQuestions(ctx context.Context, page Pagination) ([]Question, error) {
	questions, err := s.questions.List(ctx, page)
	if err != nil {
		return nil, oops.With("operation", "list questions").Wrap(err)
	}
	return questions, nil
}

// GetQuestion returns one question.
func (s *Service) GetQuestion(ctx context.Context, id QuestionID) (*Question, error) {
	q, err := s.questions.Get(ctx, id)
	if err != nil {
		return nil, oops.With("operation", "get question").Wrap(err)
	}
	return q, nil
}

// AddQuestion filters and stores a question owned by the session's account.
func (s *Service) AddQuestion(ctx context.Context, sess auth.Session, nq NewQuestion) (Question, error) {
	if err := nq.Validate(); err != nil {
		return Question{}, err
	}

	title, content, err := s.censorPair(ctx, nq.Title, nq.Content)
	if err != nil {
		return Question{}, err
	}
	nq.Title, nq.Content = title, content

	q, err := s.questions.Create(ctx, nq, sess.AccountID)
	if err != nil {
		return Question{}, oops.With("operation", "create question").Wrap(err)
	}
	s.logger.InfoContext(ctx, "question added", "question_id", q.ID, "account_id", sess.AccountID)
	return q, nil
}

// UpdateQuestion replaces a question the session owns.
func (s *Service) UpdateQuestion(ctx context.Context, sess auth.Session, id QuestionID, uq UpdateQuestion) (Question, error) {
	if err := uq.Validate(); err != nil {
		return Question{}, err
	}
	if uq.ID != nil && *uq.ID != id {
		return Question{}, oops.Code(apperr.CodeInvalidParameter).
			With("parameter", "id").
			With("path_id", id).
			With("body_id", *uq.ID).
			With(apperr.KeyPublicMessage, "Cannot parse parameter").
			Errorf("body id does not match path id")
	}

	if err := s.owners.Authorize(ctx, int64(id), sess); err != nil {
		return Question{}, err
	}

	title, content, err := s.censorPair(ctx, uq.Title, uq.Content)
	if err != nil {
		return Question{}, err
	}

	q, err := s.questions.Update(ctx, id, NewQuestion{Title: title, Content: content, Tags: uq.Tags})
	if err != nil {
		return Question{}, oops.With("operation", "update question").With("question_id", id).Wrap(err)
	}
	s.logger.InfoContext(ctx, "question updated", "question_id", id, "account_id", sess.AccountID)
	return q, nil
}

// DeleteQuestion removes a question the session owns, along with its answers.
func (s *Service) DeleteQuestion(ctx context.Context, sess auth.Session, id QuestionID) error {
	if err := s.owners.Authorize(ctx, int64(id), sess); err != nil {
		return err
	}
	if err := s.questions.Delete(ctx, id); err != nil {
		return oops.With("operation", "delete question").With("question_id", id).Wrap(err)
	}
	s.logger.InfoContext(ctx, "question deleted", "question_id", id, "account_id", sess.AccountID)
	return nil
}

// AddAnswer filters and stores an answer owned by the session's account.
// Any authenticated account may answer any question.
func (s *Service) AddAnswer(ctx context.Context, sess auth.Session, na NewAnswer) (Answer, error) {
	if err := na.Validate(); err != nil {
		return Answer{}, err
	}

	content, err := s.censor.Censor(ctx, na.Content)
	if err != nil {
		return Answer{}, oops.With("operation", "censor answer").Wrap(err)
	}
	na.Content = content

	a, err := s.answers.Create(ctx, na, sess.AccountID)
	if err != nil {
		return Answer{}, oops.With("operation", "create answer").With("question_id", na.QuestionID).Wrap(err)
	}
	s.logger.InfoContext(ctx, "answer added", "answer_id", a.ID, "question_id", na.QuestionID)
	return a, nil
}

// censorPair filters title and content concurrently.
func (s *Service) censorPair(ctx context.Context, title, content string) (string, string, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		title, err = s.censor.Censor(gctx, title)
		return oops.With("operation", "censor title").Wrap(err)
	})
	g.Go(func() error {
		var err error
		content, err = s.censor.Censor(gctx, content)
		return oops.With("operation", "censor content").Wrap(err)
	})
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return title, content, nil
}
