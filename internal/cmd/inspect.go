// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotandev/xlinker/internal/entry"
	"github.com/dotandev/xlinker/internal/inspect"
)

var (
	inspectJSON  bool
	inspectIsIdx bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.json>",
	Short: "Print a linked module or image index in human- or machine-readable form",
	Long: `inspect reads a JSON-encoded ImageCommonEntry (a linked module) and
prints a short summary of its tables. Pass --index to instead read a
JSON-encoded ImageIndexEntry (the output of "xlinker index").`,
	Args: cobra.ExactArgs(1),
	RunE: inspectExec,
}

func inspectExec(cmd *cobra.Command, args []string) error {
	if inspectIsIdx {
		var idx entry.ImageIndexEntry
		if err := readEntryJSON(args[0], &idx); err != nil {
			return err
		}
		return printInspection(idx, inspect.FormatIndexText, inspect.FormatIndexJSON)
	}

	var module entry.ImageCommonEntry
	if err := readEntryJSON(args[0], &module); err != nil {
		return err
	}
	return printInspection(module, inspect.FormatModuleText, inspect.FormatModuleJSON)
}

func printInspection[T any](v T, formatText func(T) string, formatJSON func(T) (string, error)) error {
	if inspectJSON {
		out, err := formatJSON(v)
		if err != nil {
			return fmt.Errorf("failed to format: %w", err)
		}
		fmt.Println(out)
		return nil
	}
	fmt.Print(formatText(v))
	return nil
}

func readEntryJSON(path string, v interface{}) error {
	data, err := readFileOrStdin(path)
	if err != nil {
		return err
	}
	if err := unmarshalJSON(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Print as indented JSON instead of a text summary")
	inspectCmd.Flags().BoolVar(&inspectIsIdx, "index", false, "The input file is an image index, not a linked module")

	rootCmd.AddCommand(inspectCmd)
}
