// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotandev/xlinker/internal/depthsort"
	"github.com/dotandev/xlinker/internal/entry"
	"github.com/dotandev/xlinker/internal/indexer"
	"github.com/dotandev/xlinker/internal/telemetry"
)

var indexOutput string

var indexCmd = &cobra.Command{
	Use:   "index <app.module> [shared.module ...]",
	Short: "Dynamically link (index) an application and its shared modules",
	Long: `index depth-sorts the application plus every shared module it
transitively depends on, then resolves every cross-module function and
data import into a runtime-loadable image index.

The first argument must be the application module; the rest are shared
modules, in any order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: indexExec,
}

func indexExec(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	tracer := telemetry.GetTracer()
	_, span := tracer.Start(ctx, "cmd_index")
	defer span.End()

	modules := make([]entry.ImageCommonEntry, 0, len(args))
	for _, path := range args {
		module, err := readUnit(path)
		if err != nil {
			return err
		}
		modules = append(modules, module)
	}

	sorted, order, err := depthsort.SortByDepth(modules)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("depth sort failed: %w", err)
	}

	index, err := indexer.BuildImageIndex(sorted, order, nil)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("image index build failed: %w", err)
	}

	return writeEntryJSON(indexOutput, index)
}

func init() {
	indexCmd.Flags().StringVarP(&indexOutput, "output", "o", "-", "Output path for the image index (JSON); - for stdout")
	rootCmd.AddCommand(indexCmd)
}
