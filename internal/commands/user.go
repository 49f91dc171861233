// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aragorn2909/media-dashboard/internal/auth"
	"github.com/aragorn2909/media-dashboard/internal/models"
)

func UserCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "user",
		Short: "Manage dashboard users",
		Example: `  media-dashboard run user create admin Sup3rSecret
  media-dashboard run user change-password admin N3wSecret`,
	}

	command.RunE = func(cmd *cobra.Command, args []string) error {
		return cmd.Usage()
	}

	command.AddCommand(userCreateCommand())
	command.AddCommand(userChangePasswordCommand())

	return command
}

func userCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <username> <password>",
		Short: "Create a new user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password := args[0], args[1]

			if len(username) < 3 || len(username) > 32 {
				return fmt.Errorf("username must be between 3 and 32 characters")
			}
			if err := auth.ValidatePassword(password); err != nil {
				return err
			}

			db, err := initializeDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := context.Background()

			existing, err := db.FindUser(ctx, username)
			if err != nil {
				return fmt.Errorf("error checking username: %v", err)
			}
			if existing != nil {
				return fmt.Errorf("username %s already exists", username)
			}

			passwordHash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			user := &models.User{
				Username:     username,
				PasswordHash: passwordHash,
			}
			if err := db.CreateUser(ctx, user); err != nil {
				return fmt.Errorf("failed to create user: %v", err)
			}

			fmt.Printf("User %s created successfully\n", username)
			return nil
		},
	}
}

func userChangePasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "change-password <username> <new_password>",
		Short: "Change a user's password",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, newPassword := args[0], args[1]

			if err := auth.ValidatePassword(newPassword); err != nil {
				return err
			}

			db, err := initializeDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := context.Background()

			user, err := db.FindUser(ctx, username)
			if err != nil {
				return fmt.Errorf("failed to find user: %v", err)
			}
			if user == nil {
				return fmt.Errorf("user %s not found", username)
			}

			passwordHash, err := auth.HashPassword(newPassword)
			if err != nil {
				return err
			}

			if err := db.UpdateUserPassword(ctx, user.ID, passwordHash); err != nil {
				return fmt.Errorf("failed to update password: %v", err)
			}

			fmt.Printf("Password updated for user %s\n", username)
			return nil
		},
	}
}
