// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/qna-dev/qna/internal/auth"
	authpg "github.com/qna-dev/qna/internal/auth/postgres"
	"github.com/qna-dev/qna/internal/httpapi"
	"github.com/qna-dev/qna/internal/observability"
	"github.com/qna-dev/qna/internal/profanity"
	"github.com/qna-dev/qna/internal/qna"
	qnapg "github.com/qna-dev/qna/internal/qna/postgres"
	"github.com/qna-dev/qna/internal/store"
)

// testEnv holds a migrated database, a fake content filter and the API.
type testEnv struct {
	ctx       context.Context
	cancel    context.CancelFunc
	container testcontainers.Container
	pool      *pgxpool.Pool
	filter    *httptest.Server
	api       *httptest.Server
	metrics   *observability.Metrics
}

// setupTestEnv starts PostgreSQL, applies migrations and serves the API.
func setupTestEnv() (*testEnv, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	env := &testEnv{ctx: ctx, cancel: cancel}

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("qna_test"),
		postgres.WithUsername("qna"),
		postgres.WithPassword("qna"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		cancel()
		return nil, err
	}
	env.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		env.cleanup()
		return nil, err
	}

	migrator, err := store.NewMigrator(connStr)
	if err != nil {
		env.cleanup()
		return nil, err
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		env.cleanup()
		return nil, err
	}
	_ = migrator.Close()

	env.pool, err = store.OpenPool(ctx, store.PoolConfig{URL: connStr, MaxConns: 5})
	if err != nil {
		env.cleanup()
		return nil, err
	}

	env.filter = httptest.NewServer(http.HandlerFunc(fakeFilter))

	handler, metrics, err := buildAPI(env.pool, env.filter.URL)
	if err != nil {
		env.cleanup()
		return nil, err
	}
	env.metrics = metrics
	env.api = httptest.NewServer(handler)

	return env, nil
}

func buildAPI(pool *pgxpool.Pool, filterURL string) (http.Handler, *observability.Metrics, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenService(auth.NewRandomSecretKey())

	accounts, err := auth.NewServiceWithLogger(
		authpg.NewAccountRepository(pool),
		auth.NewArgon2idHasher(),
		tokens,
		auth.NewCryptoPool(2),
		logger,
	)
	if err != nil {
		return nil, nil, err
	}

	censor := profanity.NewClient(profanity.Config{URL: filterURL, APIKey: "test-key"}, profanity.WithLogger(logger))
	questions, err := qna.NewService(qnapg.NewQuestionRepository(pool), qnapg.NewAnswerRepository(pool), censor, logger)
	if err != nil {
		return nil, nil, err
	}

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	api, err := httpapi.New(httpapi.Deps{
		Accounts:  accounts,
		Questions: questions,
		Tokens:    tokens,
		Metrics:   metrics,
		Logger:    logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return api.Handler(), metrics, nil
}

// fakeFilter censors the word "shoot" and rejects bodies containing
// "too long" with a 413.
func fakeFilter(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("apikey") != "test-key" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"bad key"}`)
		return
	}
	body, _ := io.ReadAll(r.Body)
	text := string(body)
	if strings.Contains(text, "too long") {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_, _ = io.WriteString(w, `{"message":"content too long"}`)
		return
	}
	censored := strings.ReplaceAll(text, "shoot", "*****")
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(profanity.Result{
		Content:         text,
		BadWordsTotal:   int64(strings.Count(text, "shoot")),
		CensoredContent: censored,
	})
}

// reset empties every table between specs.
func (env *testEnv) reset() error {
	_, err := env.pool.Exec(env.ctx, `TRUNCATE answers, questions, accounts RESTART IDENTITY CASCADE`)
	return err
}

// cleanup releases all test resources.
func (env *testEnv) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if env.api != nil {
		env.api.Close()
	}
	if env.filter != nil {
		env.filter.Close()
	}
	if env.pool != nil {
		env.pool.Close()
	}
	if env.container != nil {
		_ = env.container.Terminate(ctx)
	}
	env.cancel()
}

type response struct {
	status int
	body   string
}

// doJSON sends v as a JSON body. token is sent raw in Authorization when set.
func (env *testEnv) doJSON(method, path, token string, v any) (response, error) {
	var body io.Reader
	if v != nil {
		b, err := json.Marshal(v)
		if err != nil {
			return response{}, err
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(env.ctx, method, env.api.URL+path, body)
	if err != nil {
		return response{}, err
	}
	if v != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return env.send(req, token)
}

// doForm sends values as an urlencoded form.
func (env *testEnv) doForm(path, token string, values url.Values) (response, error) {
	req, err := http.NewRequestWithContext(env.ctx, http.MethodPost, env.api.URL+path, strings.NewReader(values.Encode()))
	if err != nil {
		return response{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return env.send(req, token)
}

func (env *testEnv) send(req *http.Request, token string) (response, error) {
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return response{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, err
	}
	return response{status: resp.StatusCode, body: string(b)}, nil
}

// login registers email and returns a session token for it.
func (env *testEnv) login(email, password string) (string, error) {
	creds := map[string]string{"email": email, "password": password}
	if _, err := env.doJSON(http.MethodPost, "/registration", "", creds); err != nil {
		return "", err
	}
	resp, err := env.doJSON(http.MethodPost, "/login", "", creds)
	if err != nil {
		return "", err
	}
	var token string
	if err := json.Unmarshal([]byte(resp.body), &token); err != nil {
		return "", err
	}
	return token, nil
}
