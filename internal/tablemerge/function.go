// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package tablemerge

import "github.com/dotandev/xlinker/internal/entry"

// MergeExportFunctions implements §4.1 step 8: concatenate every unit's
// export-function entries in input order. Export-function entries align
// one-to-one with their unit's Functions table, so the per-unit remap is
// simply the contiguous slice of merged positions that unit occupies.
func MergeExportFunctions(units []entry.ImageCommonEntry) ([]entry.ExportFunctionEntry, [][]int) {
	var merged []entry.ExportFunctionEntry
	remaps := make([][]int, len(units))

	for u, unit := range units {
		start := len(merged)
		remap := make([]int, len(unit.ExportFunctions))
		for i := range unit.ExportFunctions {
			remap[i] = start + i
		}
		remaps[u] = remap
		merged = append(merged, unit.ExportFunctions...)
	}

	return merged, remaps
}

// MergeImportFunctions implements §4.1 step 9 and the function half of
// step 10. For each unit's import-function entries in order: if the full
// name already appears in the concatenated export-function list, the
// import resolves to that internal function (Internal); otherwise it is
// added to (or reused from) the merged import table (Import). It then
// builds, per unit, the full function-public-index remap: translated
// imports (Internal(k) -> k+importCount, Import(k) -> k) followed by
// translated internals (offset+i+importCount).
func MergeImportFunctions(
	units []entry.ImageCommonEntry,
	mergedExportFunctions []entry.ExportFunctionEntry,
	internalFunctionRemap [][]int,
	importModuleRemap [][]int,
	typeRemap [][]int,
) ([]entry.ImportFunctionEntry, [][]int) {
	var merged []entry.ImportFunctionEntry
	resolutions := make([][]importRemapItem, len(units))

	exportPos := map[string]int{}
	for i, e := range mergedExportFunctions {
		if _, ok := exportPos[e.FullName]; !ok {
			exportPos[e.FullName] = i
		}
	}
	importPos := map[string]int{}

	for u, unit := range units {
		items := make([]importRemapItem, len(unit.ImportFunctions))
		for i, imp := range unit.ImportFunctions {
			if pos, ok := exportPos[imp.FullName]; ok {
				items[i] = importRemapItem{kind: remapInternal, pos: pos}
				continue
			}
			if pos, ok := importPos[imp.FullName]; ok {
				items[i] = importRemapItem{kind: remapImport, pos: pos}
				continue
			}

			merged = append(merged, entry.ImportFunctionEntry{
				FullName:          imp.FullName,
				ImportModuleIndex: importModuleRemap[u][imp.ImportModuleIndex],
				TypeIndex:         typeRemap[u][imp.TypeIndex],
			})
			pos := len(merged) - 1
			importPos[imp.FullName] = pos
			items[i] = importRemapItem{kind: remapImport, pos: pos}
		}
		resolutions[u] = items
	}

	importCount := len(merged)
	publicRemaps := make([][]int, len(units))
	for u := range units {
		remap := make([]int, 0, len(resolutions[u])+len(internalFunctionRemap[u]))
		for _, item := range resolutions[u] {
			if item.kind == remapInternal {
				remap = append(remap, item.pos+importCount)
			} else {
				remap = append(remap, item.pos)
			}
		}
		for _, idx := range internalFunctionRemap[u] {
			remap = append(remap, idx+importCount)
		}
		publicRemaps[u] = remap
	}

	return merged, publicRemaps
}
