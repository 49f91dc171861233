// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Set via ldflags at build time.
	Version = "dev"
	Commit  = ""
	Date    = ""
)

type versionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

func VersionCommand() *cobra.Command {
	var jsonOutput bool

	command := &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := versionInfo{
				Version: Version,
				Commit:  Commit,
				Date:    Date,
			}

			if jsonOutput {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(info)
			}

			fmt.Printf("media-dashboard version %s\n", info.Version)
			if info.Commit != "" {
				fmt.Printf("Commit: %s\n", info.Commit)
			}
			if info.Date != "" {
				fmt.Printf("Built: %s\n", info.Date)
			}
			return nil
		},
	}

	command.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return command
}
