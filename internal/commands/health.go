// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aragorn2909/media-dashboard/internal/models"
	"github.com/aragorn2909/media-dashboard/internal/services/aggregator"
)

func HealthCommand() *cobra.Command {
	var timeout time.Duration

	command := &cobra.Command{
		Use:   "health",
		Short: "Poll every configured backend once and print the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := initializeDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			config, err := db.LoadDashboardConfig(ctx)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %v", err)
			}

			agg := aggregator.New(models.NewAdapterRegistry())
			results := agg.PollAll(ctx, *config)

			if len(results) == 0 {
				fmt.Println("No backends configured")
				return nil
			}

			for _, status := range results {
				state := "DOWN"
				if status.Active {
					state = "UP"
				}
				line := fmt.Sprintf("%-14s %-5s %s", status.Name, state, status.Message)
				if status.Version != "" {
					line += fmt.Sprintf(" (v%s)", status.Version)
				}
				fmt.Println(line)
			}

			return nil
		},
	}

	command.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall poll timeout")

	return command
}
