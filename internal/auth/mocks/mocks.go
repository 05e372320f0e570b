// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package mocks provides testify mocks for the auth interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/qna-dev/qna/internal/auth"
)

type cleanupT interface {
	mock.TestingT
	Cleanup(func())
}

// MockAccountRepository mocks auth.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

// NewMockAccountRepository creates a mock that asserts its expectations on cleanup.
func NewMockAccountRepository(t cleanupT) *MockAccountRepository {
	m := &MockAccountRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Create records the call.
func (m *MockAccountRepository) Create(ctx context.Context, email, passwordHash string) (auth.AccountID, error) {
	args := m.Called(ctx, email, passwordHash)
	return args.Get(0).(auth.AccountID), args.Error(1)
}

// GetByEmail records the call.
func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*auth.Account, error) {
	args := m.Called(ctx, email)
	account, _ := args.Get(0).(*auth.Account)
	return account, args.Error(1)
}

// MockPasswordHasher mocks auth.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a mock that asserts its expectations on cleanup.
func NewMockPasswordHasher(t cleanupT) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Hash records the call.
func (m *MockPasswordHasher) Hash(password string) string {
	return m.Called(password).String(0)
}

// Verify records the call.
func (m *MockPasswordHasher) Verify(password, encoded string) (bool, error) {
	args := m.Called(password, encoded)
	return args.Bool(0), args.Error(1)
}

// MockTokenIssuer mocks auth.TokenIssuer.
type MockTokenIssuer struct {
	mock.Mock
}

// NewMockTokenIssuer creates a mock that asserts its expectations on cleanup.
func NewMockTokenIssuer(t cleanupT) *MockTokenIssuer {
	m := &MockTokenIssuer{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Issue records the call.
func (m *MockTokenIssuer) Issue(accountID auth.AccountID) (string, error) {
	args := m.Called(accountID)
	return args.String(0), args.Error(1)
}

// MockOwnerLookup mocks auth.OwnerLookup.
type MockOwnerLookup struct {
	mock.Mock
}

// NewMockOwnerLookup creates a mock that asserts its expectations on cleanup.
func NewMockOwnerLookup(t cleanupT) *MockOwnerLookup {
	m := &MockOwnerLookup{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// OwnerOf records the call.
func (m *MockOwnerLookup) OwnerOf(ctx context.Context, resourceID int64) (auth.AccountID, error) {
	args := m.Called(ctx, resourceID)
	return args.Get(0).(auth.AccountID), args.Error(1)
}
