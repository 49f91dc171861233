// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aragorn2909/media-dashboard/internal/services/discovery"
)

func ConfigCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "config",
		Short: "Import and export backend configuration",
		Example: `  media-dashboard run config export backends.yaml --mask
  media-dashboard run config import backends.yaml`,
	}

	command.RunE = func(cmd *cobra.Command, args []string) error {
		return cmd.Usage()
	}

	command.AddCommand(configExportCommand())
	command.AddCommand(configImportCommand())

	return command
}

func configExportCommand() *cobra.Command {
	var maskSecrets bool

	command := &cobra.Command{
		Use:   "export <path>",
		Short: "Export the backend configuration to a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := initializeDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			config, err := db.LoadDashboardConfig(context.Background())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %v", err)
			}

			if err := discovery.ExportConfig(*config, args[0], maskSecrets); err != nil {
				return err
			}

			fmt.Printf("Configuration exported to %s\n", args[0])
			return nil
		},
	}

	command.Flags().BoolVar(&maskSecrets, "mask", false, "replace secrets with environment variable references")

	return command
}

func configImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Import backend configuration from a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backends, err := discovery.ImportConfig(args[0])
			if err != nil {
				return err
			}
			if len(backends) == 0 {
				return fmt.Errorf("no backends found in %s", args[0])
			}

			db, err := initializeDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := context.Background()

			config, err := db.LoadDashboardConfig(ctx)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %v", err)
			}

			discovery.Apply(config, backends)

			if err := db.SaveDashboardConfig(ctx, config); err != nil {
				return fmt.Errorf("failed to save configuration: %v", err)
			}

			fmt.Printf("Imported %d backend(s) from %s\n", len(backends), args[0])
			return nil
		},
	}
}
