// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/gradekeeper/gradekeeper/internal/admin"
	adminpg "github.com/gradekeeper/gradekeeper/internal/admin/postgres"
	"github.com/gradekeeper/gradekeeper/internal/auth"
	authpg "github.com/gradekeeper/gradekeeper/internal/auth/postgres"
	"github.com/gradekeeper/gradekeeper/internal/logging"
	"github.com/gradekeeper/gradekeeper/internal/observability"
	"github.com/gradekeeper/gradekeeper/internal/server"
	"github.com/gradekeeper/gradekeeper/internal/store"
)

// Shutdown budget for the metrics server after the API server stops.
const metricsStopTimeout = 5 * time.Second

// serveConfig holds configuration for the serve command.
type serveConfig struct {
	autoMigrate bool
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cfg := &serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the HTTP API server along with its metrics endpoint.
The server handles account registration, login, password changes,
and administration records, backed by PostgreSQL.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.autoMigrate, "auto-migrate", false, "run pending database migrations on startup")
	registerConfigFlags(cmd.Flags())

	return cmd
}

func runServe(cmd *cobra.Command, serveCfg *serveConfig) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault("gradekeeper", version, cfg.LogFormat, cfg.LogLevel)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serveCfg.autoMigrate {
		if err := migrateUp(cfg.DatabaseURL); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	metricsSrv := observability.NewServer(cfg.MetricsAddr, func() bool {
		return pool.Ping(ctx) == nil
	})
	metricsErrCh, err := metricsSrv.Start()
	if err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), metricsStopTimeout)
		defer cancel()
		if stopErr := metricsSrv.Stop(stopCtx); stopErr != nil {
			logger.Warn("metrics server shutdown failed", "error", stopErr)
		}
	}()
	logger.Info("metrics server listening", "addr", metricsSrv.Addr())

	authSvc, err := auth.NewServiceWithLogger(
		authpg.NewAccountRepository(pool),
		authpg.NewSessionRepository(pool),
		auth.NewArgon2idHasher(),
		auth.NewZxcvbnValidator(),
		logger,
	)
	if err != nil {
		return oops.Code("SERVE_FAILED").With("operation", "build auth service").Wrap(err)
	}

	adminSvc, err := admin.NewServiceWithLogger(adminpg.NewRepository(pool), logger)
	if err != nil {
		return oops.Code("SERVE_FAILED").With("operation", "build admin service").Wrap(err)
	}

	srv, err := server.New(authSvc, adminSvc, metricsSrv.Metrics(), logger)
	if err != nil {
		return oops.Code("SERVE_FAILED").With("operation", "build server").Wrap(err)
	}

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- srv.Run(ctx, cfg.HTTPAddr)
	}()
	logger.Info("api server listening", "addr", cfg.HTTPAddr)

	select {
	case err := <-metricsErrCh:
		stop()
		<-runErrCh
		return oops.Code("SERVE_FAILED").With("operation", "metrics server").Wrap(err)
	case err := <-runErrCh:
		return err
	}
}
