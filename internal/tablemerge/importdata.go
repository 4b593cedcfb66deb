// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package tablemerge

import (
	"github.com/dotandev/xlinker/internal/entry"
	"github.com/dotandev/xlinker/internal/linkerrors"
)

// MergeImportData implements §4.1 step 5 and the data half of step 10.
// Imports are processed grouped by section (read-only, then read-write,
// then uninitialized), and within a section by unit in order -- this is
// also the order each unit's own import-data entries are assumed to
// already carry, per the public-index-layout invariant of spec.md §3.
//
// For each import: if its name is an export in the merged table, it is
// rewritten to an internal reference (verifying section and memory type
// agree); else if it is already in the merged import table, that slot is
// reused (verifying section and memory type agree); else it is appended.
//
// The returned public-index remaps use one flat space per unit: merged
// imports first, then merged internal read-only, read-write and
// uninitialized data, each section offset by the sizes of the sections
// before it.
func MergeImportData(
	units []entry.ImageCommonEntry,
	mergedExportData []entry.ExportDataEntry,
	mergedData DataMergeResult,
	internalDataRemap []map[entry.DataSection][]int,
	importModuleRemap [][]int,
) ([]entry.ImportDataEntry, [][]int, error) {
	var merged []entry.ImportDataEntry
	resolutions := make([][]importRemapItem, len(units))
	for u := range units {
		resolutions[u] = []importRemapItem{}
	}

	importPos := map[string]int{}

	roCount := len(mergedData.ReadOnlyData)
	rwCount := len(mergedData.ReadWriteData)
	sectionOffset := map[entry.DataSection]int{
		entry.SectionReadOnly:  0,
		entry.SectionReadWrite: roCount,
		entry.SectionUninit:    roCount + rwCount,
	}

	for _, section := range []entry.DataSection{entry.SectionReadOnly, entry.SectionReadWrite, entry.SectionUninit} {
		for u, unit := range units {
			for _, imp := range unit.ImportData {
				if imp.Section != section {
					continue
				}

				if targetSection, internalIdx, ok := InternalDataIndex(mergedExportData, mergedData, imp.FullName); ok {
					if targetSection != imp.Section {
						return nil, nil, linkerrors.WrapImportDataSectionMismatch(imp.FullName, imp.Section)
					}
					if internalMemoryType(mergedData, targetSection, internalIdx) != imp.MemoryType {
						return nil, nil, linkerrors.WrapImportDataTypeMismatch(imp.FullName, imp.MemoryType)
					}
					resolutions[u] = append(resolutions[u], importRemapItem{kind: remapInternal, pos: sectionOffset[targetSection] + internalIdx})
					continue
				}

				if pos, ok := importPos[imp.FullName]; ok {
					existing := merged[pos]
					if existing.Section != imp.Section {
						return nil, nil, linkerrors.WrapImportDataSectionInconsistant(imp.FullName)
					}
					if existing.MemoryType != imp.MemoryType {
						return nil, nil, linkerrors.WrapImportDataTypeInconsistant(imp.FullName)
					}
					resolutions[u] = append(resolutions[u], importRemapItem{kind: remapImport, pos: pos})
					continue
				}

				merged = append(merged, entry.ImportDataEntry{
					FullName:          imp.FullName,
					ImportModuleIndex: importModuleRemap[u][imp.ImportModuleIndex],
					Section:           imp.Section,
					MemoryType:        imp.MemoryType,
				})
				pos := len(merged) - 1
				importPos[imp.FullName] = pos
				resolutions[u] = append(resolutions[u], importRemapItem{kind: remapImport, pos: pos})
			}
		}
	}

	importCount := len(merged)
	publicRemaps := make([][]int, len(units))
	for u, unit := range units {
		remap := make([]int, 0, len(resolutions[u])+len(unit.ReadOnlyData)+len(unit.ReadWriteData)+len(unit.UninitData))
		for _, item := range resolutions[u] {
			if item.kind == remapInternal {
				remap = append(remap, item.pos+importCount)
			} else {
				remap = append(remap, item.pos)
			}
		}
		for _, idx := range internalDataRemap[u][entry.SectionReadOnly] {
			remap = append(remap, idx+importCount)
		}
		for _, idx := range internalDataRemap[u][entry.SectionReadWrite] {
			remap = append(remap, idx+importCount+sectionOffset[entry.SectionReadWrite])
		}
		for _, idx := range internalDataRemap[u][entry.SectionUninit] {
			remap = append(remap, idx+importCount+sectionOffset[entry.SectionUninit])
		}
		publicRemaps[u] = remap
	}

	return merged, publicRemaps, nil
}

// internalMemoryType returns the memory type of the merged internal data
// entry at section-relative index idx within section. Both InitedDataEntry
// (read-only, read-write) and UninitDataEntry (uninitialized) carry a
// MemoryType field; which list to index is picked by section.
func internalMemoryType(mergedData DataMergeResult, section entry.DataSection, idx int) entry.LocalVariableEntry {
	switch section {
	case entry.SectionReadOnly:
		return mergedData.ReadOnlyData[idx].MemoryType
	case entry.SectionReadWrite:
		return mergedData.ReadWriteData[idx].MemoryType
	default:
		return mergedData.UninitData[idx].MemoryType
	}
}
