// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

// Package tablemerge implements C2: the per-table deduplicating mergers
// the static linker (internal/staticlink) orchestrates in the fixed
// order of spec.md §4.1. Every merge function here is a pure function
// over its inputs: it returns the merged table plus one remap vector per
// source unit mapping that unit's old index to the merged index.
package tablemerge

import "github.com/dotandev/xlinker/internal/entry"

// importRemapKind tags whether one unit's import-function or import-data
// entry resolved, during merging, to an already-internal definition in
// the same link set or stayed an unresolved import.
type importRemapKind int

const (
	remapInternal importRemapKind = iota
	remapImport
)

// importRemapItem is one entry of the per-unit resolution table built
// while merging import functions (step 9) or import data (step 5's
// second half): either "this name turned out to be internal, at merged
// internal position N" or "this stays an import, at merged import
// position N".
type importRemapItem struct {
	kind importRemapKind
	pos  int
}

// DataMergeResult is the output of merging the three data sections plus
// their parallel export table (§4.1 step 4).
type DataMergeResult struct {
	ReadOnlyData  []entry.InitedDataEntry
	ReadWriteData []entry.InitedDataEntry
	UninitData    []entry.UninitDataEntry
	ExportData    []entry.ExportDataEntry

	// InternalDataRemap[u][section][i] maps unit u's internal data index
	// i (within that section) to the merged internal index within the
	// same section's merged list.
	InternalDataRemap []map[entry.DataSection][]int
}
