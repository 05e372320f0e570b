// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package httpapi_test

import (
	"context"
	"sort"
	"sync"

	"github.com/samber/oops"

	"github.com/qna-dev/qna/internal/apperr"
	"github.com/qna-dev/qna/internal/auth"
	"github.com/qna-dev/qna/internal/qna"
)

// memStore is an in-memory implementation of the account, question and
// answer repositories.
type memStore struct {
	mu        sync.Mutex
	accounts  map[string]auth.Account
	questions map[qna.QuestionID]storedQuestion
	answers   []qna.Answer
	nextID    int64
}

type storedQuestion struct {
	q     qna.Question
	owner auth.AccountID
}

func newMemStore() *memStore {
	return &memStore{
		accounts:  map[string]auth.Account{},
		questions: map[qna.QuestionID]storedQuestion{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

type memAccounts struct{ *memStore }

func (m memAccounts) Create(_ context.Context, email, hash string) (auth.AccountID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[email]; ok {
		return 0, oops.Code(apperr.CodeDuplicateAccount).Errorf("duplicate")
	}
	id := auth.AccountID(m.id())
	m.accounts[email] = auth.Account{ID: id, Email: email, PasswordHash: hash}
	return id, nil
}

func (m memAccounts) GetByEmail(_ context.Context, email string) (*auth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[email]
	if !ok {
		return nil, apperr.NotFound("account", email)
	}
	return &a, nil
}

type memQuestions struct{ *memStore }

func (m memQuestions) List(_ context.Context, page qna.Pagination) ([]qna.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]qna.Question, 0, len(m.questions))
	for _, sq := range m.questions {
		out = append(out, sq.q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if page.Offset >= len(out) {
		return []qna.Question{}, nil
	}
	out = out[page.Offset:]
	if page.Limit != nil && *page.Limit < len(out) {
		out = out[:*page.Limit]
	}
	return out, nil
}

func (m memQuestions) Get(_ context.Context, id qna.QuestionID) (*qna.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sq, ok := m.questions[id]
	if !ok {
		return nil, apperr.NotFound("question", id)
	}
	return &sq.q, nil
}

func (m memQuestions) Create(_ context.Context, nq qna.NewQuestion, owner auth.AccountID) (qna.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := qna.Question{ID: qna.QuestionID(m.id()), Title: nq.Title, Content: nq.Content, Tags: nq.Tags}
	m.questions[q.ID] = storedQuestion{q: q, owner: owner}
	return q, nil
}

func (m memQuestions) Update(_ context.Context, id qna.QuestionID, nq qna.NewQuestion) (qna.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sq, ok := m.questions[id]
	if !ok {
		return qna.Question{}, apperr.NotFound("question", id)
	}
	sq.q = qna.Question{ID: id, Title: nq.Title, Content: nq.Content, Tags: nq.Tags}
	m.questions[id] = sq
	return sq.q, nil
}

func (m memQuestions) Delete(_ context.Context, id qna.QuestionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[id]; !ok {
		return apperr.NotFound("question", id)
	}
	delete(m.questions, id)
	return nil
}

func (m memQuestions) OwnerOf(_ context.Context, resourceID int64) (auth.AccountID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sq, ok := m.questions[qna.QuestionID(resourceID)]
	if !ok {
		return 0, apperr.NotFound("question", resourceID)
	}
	return sq.owner, nil
}

func (m memQuestions) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.questions)
}

type memAnswers struct{ *memStore }

func (m memAnswers) Create(_ context.Context, na qna.NewAnswer, _ auth.AccountID) (qna.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[na.QuestionID]; !ok {
		return qna.Answer{}, apperr.NotFound("question", na.QuestionID)
	}
	a := qna.Answer{ID: qna.AnswerID(m.id()), Content: na.Content, QuestionID: na.QuestionID}
	m.answers = append(m.answers, a)
	return a, nil
}

// passCensor returns text unchanged.
type passCensor struct{}

func (passCensor) Censor(_ context.Context, text string) (string, error) { return text, nil }
