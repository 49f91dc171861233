// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aragorn2909/media-dashboard/internal/services/discovery"
)

func DiscoverCommand() *cobra.Command {
	var apply bool

	command := &cobra.Command{
		Use:   "discover",
		Short: "Discover backends from Docker and Kubernetes labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := discovery.NewManager()
			if err != nil {
				return err
			}
			defer manager.Close()

			ctx := context.Background()

			backends, err := manager.DiscoverAll(ctx)
			if err != nil {
				return err
			}
			if len(backends) == 0 {
				fmt.Println("No backends discovered")
				return nil
			}

			for _, backend := range backends {
				fmt.Printf("%-14s %s\n", backend.Type, backend.URL)
			}

			if !apply {
				return nil
			}

			db, err := initializeDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			config, err := db.LoadDashboardConfig(ctx)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %v", err)
			}

			discovery.Apply(config, backends)

			if err := db.SaveDashboardConfig(ctx, config); err != nil {
				return fmt.Errorf("failed to save configuration: %v", err)
			}

			fmt.Printf("Applied %d discovered backend(s)\n", len(backends))
			return nil
		},
	}

	command.Flags().BoolVar(&apply, "apply", false, "save discovered backends to the configuration")

	return command
}
