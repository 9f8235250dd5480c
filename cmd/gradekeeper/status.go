// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/gradekeeper/gradekeeper/internal/store"
)

// SchemaStatus holds the migration state reported by the status command.
type SchemaStatus struct {
	Version uint   `json:"version"`
	Dirty   bool   `json:"dirty"`
	Pending []uint `json:"pending"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show database schema status",
		Long:  `Show the applied schema version and any pending migrations.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")
	registerConfigFlags(cmd.Flags())

	return cmd
}

func runStatus(cmd *cobra.Command, statusCfg *statusConfig) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	m, err := store.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer closeMigrator(cmd, m)

	version, dirty, err := m.Version()
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "read schema version").Wrap(err)
	}
	pending, err := m.PendingMigrations()
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "list pending migrations").Wrap(err)
	}

	status := SchemaStatus{Version: version, Dirty: dirty, Pending: pending}

	if statusCfg.jsonOutput {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return oops.With("operation", "marshal status").Wrap(err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(formatStatusTable(m, status))
	return nil
}

// formatStatusTable formats the schema status as a human-readable table.
func formatStatusTable(m *store.Migrator, status SchemaStatus) string {
	var sb strings.Builder

	if status.Version == 0 {
		sb.WriteString("Schema version: none\n")
	} else {
		fmt.Fprintf(&sb, "Schema version: %d (%s)\n", status.Version, m.MigrationName(status.Version))
	}
	if status.Dirty {
		sb.WriteString("State: dirty (last migration failed, use force to recover)\n")
	}

	if len(status.Pending) == 0 {
		sb.WriteString("Pending migrations: none")
		return sb.String()
	}

	sb.WriteString("Pending migrations:\n")
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	for _, v := range status.Pending {
		fmt.Fprintf(w, "  %d\t%s\n", v, m.MigrationName(v))
	}
	_ = w.Flush()
	return strings.TrimRight(sb.String(), "\n")
}
