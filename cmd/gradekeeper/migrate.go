// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/gradekeeper/gradekeeper/internal/store"
)

// migrateConfig holds configuration for the migrate command.
type migrateConfig struct {
	down  bool
	steps int
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cfg := &migrateConfig{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Run all pending database migrations against the PostgreSQL database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.down, "down", false, "roll back all migrations instead of applying them")
	cmd.Flags().IntVar(&cfg.steps, "steps", 0, "apply exactly n migrations (negative rolls back)")
	registerConfigFlags(cmd.Flags())

	return cmd
}

func runMigrate(cmd *cobra.Command, migrateCfg *migrateConfig) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	if migrateCfg.down && migrateCfg.steps != 0 {
		return oops.Code("CONFIG_INVALID").Errorf("--down and --steps are mutually exclusive")
	}

	m, err := store.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer closeMigrator(cmd, m)

	switch {
	case migrateCfg.down:
		cmd.Println("Rolling back migrations...")
		if err := m.Down(); err != nil {
			return oops.Code("MIGRATION_FAILED").With("operation", "roll back migrations").Wrap(err)
		}
		cmd.Println("Rollback completed successfully")
	case migrateCfg.steps != 0:
		cmd.Printf("Applying %d migration step(s)...\n", migrateCfg.steps)
		if err := m.Steps(migrateCfg.steps); err != nil {
			return oops.Code("MIGRATION_FAILED").With("operation", "apply migration steps").Wrap(err)
		}
		cmd.Println("Steps completed successfully")
	default:
		cmd.Println("Running migrations...")
		if err := m.Up(); err != nil {
			return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
		}
		cmd.Println("Migrations completed successfully")
	}

	return nil
}

// migrateUp applies all pending migrations. Used by serve --auto-migrate.
func migrateUp(databaseURL string) error {
	m, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	upErr := m.Up()
	if closeErr := m.Close(); upErr == nil {
		upErr = closeErr
	}
	if upErr != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(upErr)
	}
	return nil
}

func closeMigrator(cmd *cobra.Command, m *store.Migrator) {
	if err := m.Close(); err != nil {
		cmd.PrintErrln("warning: closing migrator:", err)
	}
}
