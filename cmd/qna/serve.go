// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/qna-dev/qna/internal/auth"
	authpg "github.com/qna-dev/qna/internal/auth/postgres"
	"github.com/qna-dev/qna/internal/config"
	"github.com/qna-dev/qna/internal/httpapi"
	"github.com/qna-dev/qna/internal/logging"
	"github.com/qna-dev/qna/internal/observability"
	"github.com/qna-dev/qna/internal/profanity"
	"github.com/qna-dev/qna/internal/qna"
	qnapg "github.com/qna-dev/qna/internal/qna/postgres"
	"github.com/qna-dev/qna/internal/store"
)

const (
	serviceName       = "qna"
	readHeaderTimeout = 5 * time.Second
	readinessTimeout  = 2 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Database is the subset of a connection pool the server uses.
type Database interface {
	store.Querier
	store.Pinger
	Close()
}

// AutoMigrator applies pending migrations at startup.
type AutoMigrator interface {
	Up() error
	Close() error
}

// ObservabilityServer serves metrics and health probes.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// ServeDeps holds the injectable dependencies of the serve command.
// Nil fields get production defaults.
type ServeDeps struct {
	DatabaseFactory            func(ctx context.Context, cfg store.PoolConfig) (Database, error)
	MigratorFactory            func(url string) (AutoMigrator, error)
	ObservabilityServerFactory func(addr string, ready observability.ReadinessChecker) ObservabilityServer
	Listen                     func(addr string) (net.Listener, error)
}

func (d *ServeDeps) withDefaults() *ServeDeps {
	out := ServeDeps{}
	if d != nil {
		out = *d
	}
	if out.DatabaseFactory == nil {
		out.DatabaseFactory = func(ctx context.Context, cfg store.PoolConfig) (Database, error) {
			pool, err := store.OpenPool(ctx, cfg)
			if err != nil {
				return nil, err
			}
			return pool, nil
		}
	}
	if out.MigratorFactory == nil {
		out.MigratorFactory = func(url string) (AutoMigrator, error) {
			m, err := store.NewMigrator(url)
			if err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	if out.ObservabilityServerFactory == nil {
		out.ObservabilityServerFactory = func(addr string, ready observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, ready)
		}
	}
	if out.Listen == nil {
		out.Listen = func(addr string) (net.Listener, error) {
			return net.Listen("tcp", addr)
		}
	}
	return &out
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the question and answer HTTP API. Configuration is read from
the config file, the env file, the environment and flags, in increasing
order of precedence.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, nil)
		},
	}
}

// runServe validates cfg, wires the service and blocks until ctx is done or
// a server fails.
func runServe(ctx context.Context, cfg *config.Config, deps *ServeDeps) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	deps = deps.withDefaults()

	logger := logging.SetDefault(serviceName, version, cfg.LogFormat, cfg.LogLevel)
	logger.Info("starting", "config", cfg)

	key, err := cfg.SecretKey()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	db, err := deps.DatabaseFactory(ctx, store.PoolConfig{
		URL:      cfg.DatabaseURL(),
		MaxConns: int32(cfg.Database.MaxConns), //nolint:gosec // validated positive and small
	})
	if err != nil {
		return oops.With("operation", "open database").Wrap(err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := runAutoMigration(cfg.DatabaseURL(), deps.MigratorFactory); err != nil {
			return err
		}
	}

	var (
		obsServer ObservabilityServer
		metrics   *observability.Metrics
	)
	if cfg.MetricsAddr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.MetricsAddr, store.ReadinessCheck(db, readinessTimeout))
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").With("addr", cfg.MetricsAddr).Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
		metrics = obsServer.Metrics()
		logger.Info("observability server started", "addr", obsServer.Addr())
	} else {
		metrics = observability.NewMetrics(prometheus.NewRegistry())
	}
	defer stopObservability(obsServer)

	handler, err := buildHandler(cfg, key, db, metrics, logger)
	if err != nil {
		return err
	}

	listener, err := deps.Listen(cfg.ListenAddr())
	if err != nil {
		return oops.Code("LISTEN_FAILED").With("addr", cfg.ListenAddr()).Wrap(err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
	httpErrCh := make(chan error, 1)
	go func() {
		defer close(httpErrCh)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErrCh <- err
		}
	}()
	logger.Info("http server started", "addr", listener.Addr().String())

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err, ok := <-httpErrCh:
		if ok && err != nil {
			serveErr = oops.Code("HTTP_SERVE_FAILED").Wrap(err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server did not drain", "error", err)
	}
	logger.Info("shutdown complete")
	return serveErr
}

// buildHandler wires repositories, services and the HTTP API.
func buildHandler(
	cfg *config.Config,
	key auth.SecretKey,
	db store.Querier,
	metrics *observability.Metrics,
	logger *slog.Logger,
) (http.Handler, error) {
	tokens := auth.NewTokenService(key)
	pool := auth.NewCryptoPool(cfg.Crypto.Workers)
	logger.Info("password hashing pool ready", "workers", pool.Size())
	accounts, err := auth.NewServiceWithLogger(
		authpg.NewAccountRepository(db),
		auth.NewArgon2idHasher(),
		tokens,
		pool,
		logger,
	)
	if err != nil {
		return nil, oops.With("component", "accounts").Wrap(err)
	}

	censor := profanity.NewClient(profanity.Config{
		URL:    cfg.Profanity.URL,
		APIKey: cfg.Profanity.APIKey,
	}, profanity.WithLogger(logger))
	if !censor.Enabled() {
		logger.Warn("content filter disabled", "reason", "profanity.url is empty")
	}

	questions, err := qna.NewService(
		qnapg.NewQuestionRepository(db),
		qnapg.NewAnswerRepository(db),
		censor,
		logger,
	)
	if err != nil {
		return nil, oops.With("component", "questions").Wrap(err)
	}

	api, err := httpapi.New(httpapi.Deps{
		Accounts:  accounts,
		Questions: questions,
		Tokens:    tokens,
		Metrics:   metrics,
		Logger:    logger,
	})
	if err != nil {
		return nil, oops.With("component", "http api").Wrap(err)
	}
	return api.Handler(), nil
}

// runAutoMigration applies pending migrations. A failed Close is logged but
// does not fail startup.
func runAutoMigration(url string, factory func(string) (AutoMigrator, error)) error {
	slog.Info("running database migrations")
	migrator, err := factory(url)
	if err != nil {
		return oops.Code("MIGRATION_INIT_FAILED").Wrap(err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			slog.Warn("error closing migrator, database connection may leak", "error", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil {
		return oops.Code("AUTO_MIGRATION_FAILED").Wrap(err)
	}
	slog.Info("database migrations completed")
	return nil
}

func stopObservability(s ObservabilityServer) {
	if s == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		slog.Warn("error stopping observability server", "error", err)
	}
}

// monitorServerErrors cancels ctx when errCh delivers an error.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
