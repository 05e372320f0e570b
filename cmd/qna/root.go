// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/qna-dev/qna/internal/config"
	"github.com/qna-dev/qna/internal/xdg"
)

// Flags shared by all subcommands that are not configuration values.
const (
	flagConfig  = "config"
	flagEnvFile = "env-file"
)

// NewRootCmd creates the root command for the qna CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qna",
		Short: "qna - a question and answer service",
		Long: `qna serves a question and answer HTTP API backed by PostgreSQL.
Accounts log in for a stateless session token; only the author of a
question may change or delete it.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String(flagConfig, "", "config file path (YAML, default: XDG_CONFIG_HOME/qna/config.yaml if present)")
	cmd.PersistentFlags().String(flagEnvFile, ".env", "environment file loaded before reading the environment")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewConfigCmd())

	return cmd
}

// configFile returns --config, or the XDG default when the flag is empty.
func configFile(cmd *cobra.Command) (string, error) {
	path, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return "", err //nolint:wrapcheck // flag is always registered
	}
	if path != "" {
		return path, nil
	}
	return xdg.DefaultConfigFile()
}

// loadConfig reads configuration for cmd from all sources.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	path, err := configFile(cmd)
	if err != nil {
		return nil, err
	}
	envFile, err := flags.GetString(flagEnvFile)
	if err != nil {
		return nil, err //nolint:wrapcheck // flag is always registered
	}
	return config.Load(flags, config.LoadOptions{ConfigFile: path, DotEnvFile: envFile})
}
