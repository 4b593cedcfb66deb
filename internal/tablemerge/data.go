// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package tablemerge

import "github.com/dotandev/xlinker/internal/entry"

// MergeData implements §4.1 step 4: for each of the three sections in
// fixed order (read-only, read-write, uninitialized), walk units in
// order, appending each unit's data of that section (and the parallel
// window of export-data entries) to the merged lists. The merged
// export-data table ends up ordered [ro* | rw* | bss*], each block
// concatenating units in input order -- invariant #3 of spec.md §8.
func MergeData(units []entry.ImageCommonEntry) DataMergeResult {
	result := DataMergeResult{
		InternalDataRemap: make([]map[entry.DataSection][]int, len(units)),
	}
	for u := range units {
		result.InternalDataRemap[u] = map[entry.DataSection][]int{}
	}

	// Read-only section.
	for u, unit := range units {
		remap := make([]int, len(unit.ReadOnlyData))
		for i, d := range unit.ReadOnlyData {
			remap[i] = len(result.ReadOnlyData)
			result.ReadOnlyData = append(result.ReadOnlyData, d)
		}
		result.InternalDataRemap[u][entry.SectionReadOnly] = remap
	}
	result.ExportData = append(result.ExportData, exportsOfSection(units, entry.SectionReadOnly)...)

	// Read-write section.
	for u, unit := range units {
		remap := make([]int, len(unit.ReadWriteData))
		for i, d := range unit.ReadWriteData {
			remap[i] = len(result.ReadWriteData)
			result.ReadWriteData = append(result.ReadWriteData, d)
		}
		result.InternalDataRemap[u][entry.SectionReadWrite] = remap
	}
	result.ExportData = append(result.ExportData, exportsOfSection(units, entry.SectionReadWrite)...)

	// Uninitialized section.
	for u, unit := range units {
		remap := make([]int, len(unit.UninitData))
		for i, d := range unit.UninitData {
			remap[i] = len(result.UninitData)
			result.UninitData = append(result.UninitData, d)
		}
		result.InternalDataRemap[u][entry.SectionUninit] = remap
	}
	result.ExportData = append(result.ExportData, exportsOfSection(units, entry.SectionUninit)...)

	return result
}

// exportsOfSection returns, for every unit in order, the export-data
// entries belonging to the given section, preserving each unit's
// internal relative order. Export-data entries are assumed to be
// recorded in the same per-section order as their internal data (the
// assembler's invariant that export and internal data tables align
// one-to-one within a section).
func exportsOfSection(units []entry.ImageCommonEntry, section entry.DataSection) []entry.ExportDataEntry {
	var out []entry.ExportDataEntry
	for _, unit := range units {
		for _, e := range unit.ExportData {
			if e.Section == section {
				out = append(out, e)
			}
		}
	}
	return out
}

// InternalDataIndex locates, by full name, the merged internal-data index
// and section of an export-data entry. Used by MergeImportData to decide
// whether an import should be rewritten to an internal reference.
func InternalDataIndex(mergedExportData []entry.ExportDataEntry, mergedData DataMergeResult, fullName string) (entry.DataSection, int, bool) {
	// The export-data table is ordered [ro* | rw* | bss*] and aligns
	// one-to-one with the concatenation of the three internal-data
	// lists in the same order, so the position within each section's
	// block is also the internal index within that section's list.
	roCount := len(mergedData.ReadOnlyData)
	rwCount := len(mergedData.ReadWriteData)

	for i, e := range mergedExportData {
		if e.FullName != fullName {
			continue
		}
		switch {
		case i < roCount:
			return entry.SectionReadOnly, i, true
		case i < roCount+rwCount:
			return entry.SectionReadWrite, i - roCount, true
		default:
			return entry.SectionUninit, i - roCount - rwCount, true
		}
	}
	return 0, 0, false
}
