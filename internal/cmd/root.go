// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

// Package cmd wires xlinker's cobra subcommands: link, index, inspect,
// serve and version.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotandev/xlinker/internal/config"
	"github.com/dotandev/xlinker/internal/logger"
)

// Version is set from cmd/xlinker/main.go via ldflags.
var Version = "dev"

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "xlinker",
	Short: "A bytecode module linker",
	Long: `xlinker statically links sibling object units into a shared module,
and dynamically links (indexes) shared modules plus an application into
a runtime-loadable image index.

Examples:
  xlinker link -o app.module unit1.json unit2.json
  xlinker index -o app.index app.module math.module std.module
  xlinker inspect app.module
  xlinker serve --port 8080`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		var level slog.Level
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			level = slog.LevelInfo
		}
		logger.Init(level, os.Stderr)

		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it. It is
// called once by cmd/xlinker/main.go.
func Execute() error {
	return rootCmd.Execute()
}
