// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/gradekeeper/gradekeeper/internal/admin"
	adminpg "github.com/gradekeeper/gradekeeper/internal/admin/postgres"
	"github.com/gradekeeper/gradekeeper/internal/auth"
	authpg "github.com/gradekeeper/gradekeeper/internal/auth/postgres"
	"github.com/gradekeeper/gradekeeper/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	timeout       time.Duration
	adminLogin    string
	adminEmail    string
	adminPassword string
	schoolName    string
	schoolPlace   string
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with an admin account and a school",
		Long: `Creates the initial admin account and a first school record.
This command is idempotent - it will not create duplicates if run multiple times.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	cmd.Flags().StringVar(&cfg.adminLogin, "admin-login", "admin", "login for the seeded admin account")
	cmd.Flags().StringVar(&cfg.adminEmail, "admin-email", "admin@example.com", "email for the seeded admin account")
	cmd.Flags().StringVar(&cfg.adminPassword, "admin-password", "", "password for the seeded admin account (required)")
	cmd.Flags().StringVar(&cfg.schoolName, "school-name", "First School", "name of the seeded school")
	cmd.Flags().StringVar(&cfg.schoolPlace, "school-place", "Springfield", "place of the seeded school")
	registerConfigFlags(cmd.Flags())

	return cmd
}

func runSeed(cmd *cobra.Command, seedCfg *seedConfig) error {
	if seedCfg.adminPassword == "" {
		return oops.Code("CONFIG_INVALID").Errorf("--admin-password is required")
	}

	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	// Timeout prevents indefinite hangs; cmd.Context() respects SIGINT/SIGTERM.
	ctx, cancel := context.WithTimeout(cmd.Context(), seedCfg.timeout)
	defer cancel()

	cmd.Println("Running migrations...")
	if err := migrateUp(cfg.DatabaseURL); err != nil {
		return err
	}

	cmd.Println("Connecting to database...")
	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	authSvc, err := auth.NewService(
		authpg.NewAccountRepository(pool),
		authpg.NewSessionRepository(pool),
		auth.NewArgon2idHasher(),
		auth.NewZxcvbnValidator(),
	)
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "build auth service").Wrap(err)
	}

	account, err := authSvc.Register(ctx, seedCfg.adminLogin, seedCfg.adminEmail, seedCfg.adminPassword)
	if err != nil {
		// Registration is the idempotency anchor: an existing admin
		// account means the database was already seeded.
		if errors.Is(err, auth.ErrUserExists) {
			cmd.Println("Admin account already exists, skipping seed")
			slog.Info("database already seeded", "login", seedCfg.adminLogin)
			return nil
		}
		return oops.Code("SEED_FAILED").With("operation", "create admin account").Wrap(err)
	}
	cmd.Println("Created admin account:", account.Login)
	slog.Info("created admin account", "id", account.ID, "login", account.Login)

	adminSvc, err := admin.NewService(adminpg.NewRepository(pool))
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "build admin service").Wrap(err)
	}

	school, err := adminSvc.CreateSchool(ctx, seedCfg.schoolName, seedCfg.schoolPlace, nil)
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "create school").Wrap(err)
	}
	cmd.Println("Created school:", school.Name)
	slog.Info("created school", "id", school.ID, "name", school.Name)

	cmd.Println("Database seeding complete!")
	return nil
}
