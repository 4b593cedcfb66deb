// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dotandev/xlinker/internal/entry"
	"github.com/dotandev/xlinker/internal/staticlink"
	"github.com/dotandev/xlinker/internal/telemetry"
)

var warningColor = color.New(color.FgYellow)

var (
	linkTargetName    string
	linkTargetVersion string
	linkObjectOnly    bool
	linkOutput        string
	linkDryRun        bool
)

var linkCmd = &cobra.Command{
	Use:   "link [unit.json ...]",
	Short: "Statically link sibling object units into a module",
	Long: `link merges a target's sibling object units into a single
ImageCommonEntry, per the static-link algorithm: types, local-variable
lists, import modules, data, external libraries/functions, export
functions, import functions and relocated code are each merged in turn.

Each argument names a JSON-encoded object unit (ImageCommonEntry). By
default the result is finalized into a shared module; pass --object to
leave it as an intermediate object file instead. Pass --dry-run to run
every step except the closure check that would normally fail the link
on an unresolved internal reference; unresolved names are reported as
warnings alongside a best-effort object file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: linkExec,
}

func linkExec(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	tracer := telemetry.GetTracer()
	_, span := tracer.Start(ctx, "cmd_link")
	defer span.End()

	units := make([]entry.ImageCommonEntry, 0, len(args))
	for _, path := range args {
		unit, err := readUnit(path)
		if err != nil {
			return err
		}
		units = append(units, unit)
	}

	name := linkTargetName
	if name == "" {
		name = units[0].Name
	}

	if linkDryRun {
		result, err := staticlink.StaticLinkDryRun(name, linkTargetVersion, units)
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("link failed: %w", err)
		}
		for _, w := range result.Warnings {
			warningColor.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", w)
		}
		return writeEntryJSON(linkOutput, result.Module)
	}

	module, err := staticlink.StaticLink(name, linkTargetVersion, !linkObjectOnly, units)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("link failed: %w", err)
	}

	return writeEntryJSON(linkOutput, module)
}

func readUnit(path string) (entry.ImageCommonEntry, error) {
	data, err := readFileOrStdin(path)
	if err != nil {
		return entry.ImageCommonEntry{}, err
	}

	var unit entry.ImageCommonEntry
	if err := unmarshalJSON(data, &unit); err != nil {
		return entry.ImageCommonEntry{}, fmt.Errorf("failed to parse unit %s: %w", path, err)
	}
	return unit, nil
}

// readFileOrStdin reads path, or os.Stdin when path is "-".
func readFileOrStdin(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func writeEntryJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	if path == "" || path == "-" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func init() {
	linkCmd.Flags().StringVarP(&linkTargetName, "name", "n", "", "Target module name (defaults to the first unit's name)")
	linkCmd.Flags().StringVarP(&linkTargetVersion, "version", "V", "0.1.0", "Target module version")
	linkCmd.Flags().BoolVar(&linkObjectOnly, "object", false, "Leave the result as an object file instead of finalizing to a shared module")
	linkCmd.Flags().StringVarP(&linkOutput, "output", "o", "-", "Output path for the linked module (JSON); - for stdout")
	linkCmd.Flags().BoolVar(&linkDryRun, "dry-run", false, "Run every step but downgrade unresolved internal references to warnings")

	rootCmd.AddCommand(linkCmd)
}
