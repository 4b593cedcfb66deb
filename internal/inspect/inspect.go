// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

// Package inspect renders ImageCommonEntry and ImageIndexEntry values
// for human or machine consumption, mirroring the teacher's FormatText/
// FormatJSON pair.
package inspect

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/dotandev/xlinker/internal/entry"
)

var headerColor = color.New(color.FgHiCyan, color.Bold)

// FormatModuleJSON renders a linked module as indented JSON.
func FormatModuleJSON(module entry.ImageCommonEntry) (string, error) {
	data, err := json.MarshalIndent(module, "", "  ")
	if err != nil {
		return "", fmt.Errorf("inspect: failed to marshal module: %w", err)
	}
	return string(data), nil
}

// FormatModuleText renders a linked module as a short human-readable
// summary: name, version, kind, and every table's entry count.
func FormatModuleText(module entry.ImageCommonEntry) string {
	var b strings.Builder

	kind := "object file"
	if module.Kind == entry.ImageKindSharedModule {
		kind = "shared module"
	}
	headerColor.Fprintf(&b, "%s %s (%s)\n", module.Name, module.Version, kind)

	fmt.Fprintf(&b, "  types:               %d\n", len(module.Types))
	fmt.Fprintf(&b, "  local variable lists: %d\n", len(module.LocalVariableLists))
	fmt.Fprintf(&b, "  functions:           %d\n", len(module.Functions))
	fmt.Fprintf(&b, "  read-only data:      %d\n", len(module.ReadOnlyData))
	fmt.Fprintf(&b, "  read-write data:     %d\n", len(module.ReadWriteData))
	fmt.Fprintf(&b, "  uninitialized data:  %d\n", len(module.UninitData))
	fmt.Fprintf(&b, "  import modules:      %d\n", len(module.ImportModules))
	fmt.Fprintf(&b, "  import functions:    %d\n", len(module.ImportFunctions))
	fmt.Fprintf(&b, "  import data:         %d\n", len(module.ImportData))
	fmt.Fprintf(&b, "  export functions:    %d\n", len(module.ExportFunctions))
	fmt.Fprintf(&b, "  export data:         %d\n", len(module.ExportData))
	fmt.Fprintf(&b, "  external libraries:  %d\n", len(module.ExternalLibraries))
	fmt.Fprintf(&b, "  external functions:  %d\n", len(module.ExternalFunctions))

	if len(module.ImportModules) > 0 {
		b.WriteString("  dependencies:\n")
		for _, dep := range module.ImportModules {
			fmt.Fprintf(&b, "    - %s\n", dep.Name)
		}
	}

	return b.String()
}

// FormatIndexJSON renders an image index entry as indented JSON.
func FormatIndexJSON(index entry.ImageIndexEntry) (string, error) {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return "", fmt.Errorf("inspect: failed to marshal image index: %w", err)
	}
	return string(data), nil
}

// FormatIndexText renders an image index entry as a short human-readable
// summary: per-module index counts, unified external tables, and
// discovered entry points.
func FormatIndexText(index entry.ImageIndexEntry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "modules: %d\n", len(index.DynamicLinkModules))
	for i, m := range index.DynamicLinkModules {
		functions := 0
		data := 0
		if i < len(index.FunctionIndexLists) {
			functions = len(index.FunctionIndexLists[i])
		}
		if i < len(index.DataIndexLists) {
			data = len(index.DataIndexLists[i])
		}
		fmt.Fprintf(&b, "  [%d] %s: %d function refs, %d data refs\n", i, m.Name, functions, data)
	}

	fmt.Fprintf(&b, "unified external libraries: %d\n", len(index.UnifiedExternalLibraries))
	fmt.Fprintf(&b, "unified external functions:  %d\n", len(index.UnifiedExternalFunctions))

	if len(index.EntryPoints) > 0 {
		b.WriteString("entry points:\n")
		for _, ep := range index.EntryPoints {
			fmt.Fprintf(&b, "  %s -> public index %d\n", ep.Name, ep.PublicIndex)
		}
	}

	return b.String()
}
