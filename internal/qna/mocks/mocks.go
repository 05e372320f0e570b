// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package mocks provides testify mocks for the qna interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/qna-dev/qna/internal/auth"
	"github.com/qna-dev/qna/internal/qna"
)

type cleanupT interface {
	mock.TestingT
	Cleanup(func())
}

// MockQuestionRepository mocks qna.QuestionRepository.
type MockQuestionRepository struct {
	mock.Mock
}

// NewMockQuestionRepository creates a mock that asserts its expectations on cleanup.
func NewMockQuestionRepository(t cleanupT) *MockQuestionRepository {
	m := &MockQuestionRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// List records the call.
func (m *MockQuestionRepository) List(ctx context.Context, page qna.Pagination) ([]qna.Question, error) {
	args := m.Called(ctx, page)
	questions, _ := args.Get(0).([]qna.Question)
	return questions, args.Error(1)
}

// Get records the call.
func (m *MockQuestionRepository) Get(ctx context.Context, id qna.QuestionID) (*qna.Question, error) {
	args := m.Called(ctx, id)
	q, _ := args.Get(0).(*qna.Question)
	return q, args.Error(1)
}

// Create records the call.
func (m *MockQuestionRepository) Create(ctx context.Context, q qna.NewQuestion, owner auth.AccountID) (qna.Question, error) {
	args := m.Called(ctx, q, owner)
	out, _ := args.Get(0).(qna.Question)
	return out, args.Error(1)
}

// Update records the call.
func (m *MockQuestionRepository) Update(ctx context.Context, id qna.QuestionID, q qna.NewQuestion) (qna.Question, error) {
	args := m.Called(ctx, id, q)
	out, _ := args.Get(0).(qna.Question)
	return out, args.Error(1)
}

// Delete records the call.
func (m *MockQuestionRepository) Delete(ctx context.Context, id qna.QuestionID) error {
	return m.Called(ctx, id).Error(0)
}

// OwnerOf records the call.
func (m *MockQuestionRepository) OwnerOf(ctx context.Context, resourceID int64) (auth.AccountID, error) {
	args := m.Called(ctx, resourceID)
	owner, _ := args.Get(0).(auth.AccountID)
	return owner, args.Error(1)
}

// MockAnswerRepository mocks qna.AnswerRepository.
type MockAnswerRepository struct {
	mock.Mock
}

// NewMockAnswerRepository creates a mock that asserts its expectations on cleanup.
func NewMockAnswerRepository(t cleanupT) *MockAnswerRepository {
	m := &MockAnswerRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Create records the call.
func (m *MockAnswerRepository) Create(ctx context.Context, a qna.NewAnswer, owner auth.AccountID) (qna.Answer, error) {
	args := m.Called(ctx, a, owner)
	out, _ := args.Get(0).(qna.Answer)
	return out, args.Error(1)
}

// MockCensor mocks qna.Censor.
type MockCensor struct {
	mock.Mock
}

// NewMockCensor creates a mock that asserts its expectations on cleanup.
func NewMockCensor(t cleanupT) *MockCensor {
	m := &MockCensor{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Censor records the call.
func (m *MockCensor) Censor(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}
