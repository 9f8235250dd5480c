// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gradekeeper Contributors

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gradekeeper/gradekeeper/internal/config"
)

// Config file path checked when --config is not given.
const defaultConfigPath = "gradekeeper.yaml"

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Gradekeeper CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gradekeeper",
		Short: "Gradekeeper - school administration backend",
		Long: `Gradekeeper is a school administration backend with account
registration, password-based login, short-lived sessions, and
record keeping for schools, classes, students, and grades.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}

// registerConfigFlags adds flags that override config file values. Flag
// names match the koanf keys so posflag can merge them directly.
func registerConfigFlags(fs *pflag.FlagSet) {
	fs.String("database_url", "", "PostgreSQL connection URL")
	fs.String("http_addr", "", "API listen address")
	fs.String("metrics_addr", "", "metrics listen address")
	fs.String("log_level", "", "log level (debug, info, warn, error)")
	fs.String("log_format", "", "log format (text, json)")
}

// loadConfig resolves configuration from the --config flag, falling back
// to the default path when no file was named.
func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	path := configFile
	explicit := configFile != ""
	if !explicit {
		path = defaultConfigPath
	}
	return config.Load(path, explicit, flags)
}
