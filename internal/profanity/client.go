// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package profanity is a client for the bad-words filtering API.
package profanity

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/qna-dev/qna/internal/apperr"
)

// Dependency names the upstream in errors and logs.
const Dependency = "bad-words-api"

const (
	defaultTimeout = 5 * time.Second
	retryBase      = 100 * time.Millisecond
	maxRetries     = 3
	// maxErrorBody bounds how much of a failed response is read for logging.
	maxErrorBody = 4 << 10
)

// Config configures a Client. An empty URL disables filtering.
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// BadWord is one match reported by the API.
type BadWord struct {
	Original    string `json:"original"`
	Word        string `json:"word"`
	Deviations  int64  `json:"deviations"`
	Info        int64  `json:"info"`
	ReplacedLen int64  `json:"replacedLen"`
}

// Result is the API's successful response body.
type Result struct {
	Content         string    `json:"content"`
	BadWordsTotal   int64     `json:"bad_words_total"`
	BadWordsList    []BadWord `json:"bad_words_list"`
	CensoredContent string    `json:"censored_content"`
}

type apiError struct {
	Message string `json:"message"`
}

// Client calls the filtering API, retrying transport errors and 5xx
// responses with exponential backoff.
type Client struct {
	cfg     Config
	http    *http.Client
	backoff func() retry.Backoff
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBackoff replaces the retry policy.
func WithBackoff(f func() retry.Backoff) Option {
	return func(c *Client) { c.backoff = f }
}

// WithLogger sets the logger used for retry and rejection messages.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(maxRetries, retry.NewExponential(retryBase))
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether a URL is configured.
func (c *Client) Enabled() bool {
	return c.cfg.URL != ""
}

// Censor returns text with offensive words masked. When the client is
// disabled text is returned unchanged.
func (c *Client) Censor(ctx context.Context, text string) (string, error) {
	if !c.Enabled() {
		return text, nil
	}
	res, err := c.Check(ctx, text)
	if err != nil {
		return "", err
	}
	return res.CensoredContent, nil
}

// Check submits text and returns the full API result.
func (c *Client) Check(ctx context.Context, text string) (*Result, error) {
	var (
		result  Result
		attempt int
	)
	err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		attempt++
		err := c.post(ctx, text, &result)
		if err != nil && attempt > 1 {
			c.logger.DebugContext(ctx, "content filter attempt failed", "attempt", attempt, "error", err)
		}
		return err
	})
	if err == nil {
		return &result, nil
	}
	if _, ok := oops.AsOops(err); ok {
		return nil, oops.With("attempts", attempt).Wrap(err)
	}
	// context cancellation while waiting between attempts
	return nil, apperr.Upstream(Dependency, 0, err)
}

// post performs one request. Retryable failures are wrapped with
// retry.RetryableError.
func (c *Client) post(ctx context.Context, text string, out *Result) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, strings.NewReader(text))
	if err != nil {
		return apperr.Upstream(Dependency, 0, err)
	}
	req.Header.Set("apikey", c.cfg.APIKey)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return apperr.Upstream(Dependency, 0, err)
		}
		return retry.RetryableError(apperr.Upstream(Dependency, 0, err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upErr := c.statusError(ctx, resp)
		if resp.StatusCode >= 500 {
			return retry.RetryableError(upErr)
		}
		return upErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Upstream(Dependency, resp.StatusCode, oops.Wrapf(err, "decode response"))
	}
	return nil
}

func (c *Client) statusError(ctx context.Context, resp *http.Response) error {
	var body apiError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err := json.Unmarshal(raw, &body); err != nil {
		body.Message = strings.TrimSpace(string(raw))
	}

	c.logger.WarnContext(ctx, "content filter rejected request",
		"status", resp.StatusCode,
		"message", body.Message)

	return oops.With("upstream_message", body.Message).
		Wrap(apperr.Upstream(Dependency, resp.StatusCode, nil))
}
