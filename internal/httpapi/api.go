// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package httpapi is the HTTP surface: routing, the auth gate, request
// instrumentation and the terminal stage that turns every failure into a
// response.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/samber/oops"

	"github.com/qna-dev/qna/internal/auth"
	"github.com/qna-dev/qna/internal/observability"
	"github.com/qna-dev/qna/internal/qna"
)

// Accounts registers accounts and logs them in.
type Accounts interface {
	Register(ctx context.Context, creds auth.Credentials) (auth.AccountID, error)
	Login(ctx context.Context, creds auth.Credentials) (string, error)
}

// Questions is the question and answer service.
type Questions interface {
	ListQuestions(ctx context.Context, page qna.Pagination) ([]qna.Question, error)
	GetQuestion(ctx context.Context, id qna.QuestionID) (*qna.Question, error)
	AddQuestion(ctx context.Context, sess auth.Session, nq qna.NewQuestion) (qna.Question, error)
	UpdateQuestion(ctx context.Context, sess auth.Session, id qna.QuestionID, uq qna.UpdateQuestion) (qna.Question, error)
	DeleteQuestion(ctx context.Context, sess auth.Session, id qna.QuestionID) error
	AddAnswer(ctx context.Context, sess auth.Session, na qna.NewAnswer) (qna.Answer, error)
}

// Deps are the collaborators of the API. Logger defaults to slog.Default.
type Deps struct {
	Accounts  Accounts
	Questions Questions
	Tokens    auth.TokenVerifier
	Metrics   *observability.Metrics
	Logger    *slog.Logger
}

// API holds the handlers.
type API struct {
	accounts  Accounts
	questions Questions
	tokens    auth.TokenVerifier
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// New creates an API.
func New(deps Deps) (*API, error) {
	switch {
	case deps.Accounts == nil:
		return nil, oops.Errorf("accounts service is required")
	case deps.Questions == nil:
		return nil, oops.Errorf("questions service is required")
	case deps.Tokens == nil:
		return nil, oops.Errorf("token verifier is required")
	case deps.Metrics == nil:
		return nil, oops.Errorf("metrics are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		accounts:  deps.Accounts,
		questions: deps.Questions,
		tokens:    deps.Tokens,
		metrics:   deps.Metrics,
		logger:    logger,
	}, nil
}

// Handler returns the routed, instrumented and CORS-wrapped handler.
func (a *API) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(a.instrument, a.recoverPanics)

	r.Handle("/registration", a.handle(a.register)).Methods(http.MethodPost)
	r.Handle("/login", a.handle(a.login)).Methods(http.MethodPost)

	r.Handle("/questions", a.handle(a.listQuestions)).Methods(http.MethodGet)
	r.Handle("/questions", a.handle(a.requireSession(a.addQuestion))).Methods(http.MethodPost)
	r.Handle("/questions/{id}", a.handle(a.getQuestion)).Methods(http.MethodGet)
	r.Handle("/questions/{id}", a.handle(a.requireSession(a.updateQuestion))).Methods(http.MethodPut)
	r.Handle("/questions/{id}", a.handle(a.requireSession(a.deleteQuestion))).Methods(http.MethodDelete)

	r.Handle("/answers", a.handle(a.requireSession(a.addAnswer))).Methods(http.MethodPost)

	// the router does not run its middleware for unmatched requests
	r.NotFoundHandler = a.instrument(a.handle(routeNotFound))
	r.MethodNotAllowedHandler = a.instrument(a.handle(methodNotAllowed))

	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(r)
}
