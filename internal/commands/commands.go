// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package commands holds the CLI surface reachable through "run".
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aragorn2909/media-dashboard/internal/database"
)

func initializeDatabase() (*database.DB, error) {
	db, err := database.InitDB("")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}
	return db, nil
}

// RootCommand assembles the CLI command tree.
func RootCommand() *cobra.Command {
	command := &cobra.Command{
		Use:          "media-dashboard",
		Short:        "Manage the media dashboard from the command line",
		SilenceUsage: true,
	}

	command.RunE = func(cmd *cobra.Command, args []string) error {
		return cmd.Usage()
	}

	command.AddCommand(VersionCommand())
	command.AddCommand(UserCommand())
	command.AddCommand(HealthCommand())
	command.AddCommand(ConfigCommand())
	command.AddCommand(DiscoverCommand())

	return command
}

// Execute runs the CLI with the given arguments.
func Execute(args []string) error {
	root := RootCommand()
	root.SetArgs(args)
	return root.Execute()
}
