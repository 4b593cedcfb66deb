// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

// Package indexer implements C6: cross-module index build. Given the
// depth-sorted module array (internal/depthsort's output), it resolves
// every inter-module function/data import to a (module_index,
// internal_index) pair, unifies external C-ABI libraries, types and
// functions across the whole array, and discovers entry points in the
// application module, per spec.md §4.2.2.
package indexer

import (
	"strings"

	"github.com/dotandev/xlinker/internal/entry"
	"github.com/dotandev/xlinker/internal/linkerrors"
	"github.com/dotandev/xlinker/internal/tablemerge"
)

// BuildImageIndex consumes sorted (element 0 is the application, the
// same order depthsort.SortByDepth returns) and produces the full
// ImageIndexEntry. order is depthsort.SortByDepth's second return value
// (sorted[i] originally sat at index order[i]); it is used only to
// reorder dynamicLinkModules, which is supplied in the caller's original,
// pre-sort array order. dynamicLinkModules may be nil if the caller has
// no load-location metadata yet.
func BuildImageIndex(sorted []entry.ImageCommonEntry, order []int, dynamicLinkModules []entry.DynamicLinkModuleEntry) (entry.ImageIndexEntry, error) {
	if len(sorted) == 0 {
		return entry.ImageIndexEntry{}, nil
	}

	byName := make(map[string]int, len(sorted))
	for i, m := range sorted {
		byName[m.Name] = i
	}

	functionLists := make([][]entry.FunctionIndexEntry, len(sorted))
	dataLists := make([][]entry.DataIndexEntry, len(sorted))

	for mi, m := range sorted {
		funcs, err := buildFunctionIndexList(sorted, byName, mi, m)
		if err != nil {
			return entry.ImageIndexEntry{}, err
		}
		functionLists[mi] = funcs

		data, err := buildDataIndexList(sorted, byName, mi, m)
		if err != nil {
			return entry.ImageIndexEntry{}, err
		}
		dataLists[mi] = data
	}

	unifiedTypes, typeRemap := tablemerge.MergeTypes(sorted)

	unifiedLibraries, libraryRemap, err := tablemerge.MergeExternalLibraries(sorted)
	if err != nil {
		return entry.ImageIndexEntry{}, err
	}

	unifiedExternalFunctions, externalFunctionIndexLists := tablemerge.MergeExternalFunctions(sorted, libraryRemap, typeRemap)

	entryPoints := discoverEntryPoints(sorted[0], len(sorted[0].ImportFunctions))

	var reorderedDynamicLinkModules []entry.DynamicLinkModuleEntry
	if dynamicLinkModules != nil {
		reorderedDynamicLinkModules = make([]entry.DynamicLinkModuleEntry, len(sorted))
		for i, originalIndex := range order {
			reorderedDynamicLinkModules[i] = dynamicLinkModules[originalIndex]
		}
	}

	return entry.ImageIndexEntry{
		FunctionIndexLists: functionLists,
		DataIndexLists:     dataLists,

		EntryPoints: entryPoints,

		UnifiedExternalLibraries: unifiedLibraries,
		UnifiedTypes:             unifiedTypes,
		UnifiedExternalFunctions: unifiedExternalFunctions,

		ExternalFunctionIndexLists: externalFunctionIndexLists,

		DynamicLinkModules: reorderedDynamicLinkModules,
	}, nil
}

func buildFunctionIndexList(modules []entry.ImageCommonEntry, byName map[string]int, mi int, m entry.ImageCommonEntry) ([]entry.FunctionIndexEntry, error) {
	var out []entry.FunctionIndexEntry

	for _, imp := range m.ImportFunctions {
		targetName := m.ImportModules[imp.ImportModuleIndex].Name
		targetIdx, ok := byName[targetName]
		if !ok {
			return nil, linkerrors.WrapFunctionNotFound(imp.FullName)
		}
		target := modules[targetIdx]

		internalIdx := -1
		for i, exp := range target.ExportFunctions {
			if exp.FullName == imp.FullName {
				internalIdx = i
				break
			}
		}
		if internalIdx < 0 {
			return nil, linkerrors.WrapFunctionNotFound(imp.FullName)
		}
		if target.ExportFunctions[internalIdx].Visibility != entry.VisibilityPublic {
			return nil, linkerrors.WrapFunctionNotExported(imp.FullName)
		}

		targetFn := target.Functions[internalIdx]
		expectedType := m.Types[imp.TypeIndex]
		actualType := target.Types[targetFn.TypeIndex]
		if !expectedType.Equal(actualType) {
			return nil, linkerrors.WrapImportFunctionTypeMismatch(imp.FullName)
		}

		out = append(out, entry.FunctionIndexEntry{TargetModuleIndex: targetIdx, TargetInternalIndex: internalIdx})
	}

	for i := range m.Functions {
		out = append(out, entry.FunctionIndexEntry{TargetModuleIndex: mi, TargetInternalIndex: i})
	}

	return out, nil
}

func buildDataIndexList(modules []entry.ImageCommonEntry, byName map[string]int, mi int, m entry.ImageCommonEntry) ([]entry.DataIndexEntry, error) {
	var out []entry.DataIndexEntry

	for _, imp := range m.ImportData {
		targetName := m.ImportModules[imp.ImportModuleIndex].Name
		targetIdx, ok := byName[targetName]
		if !ok {
			return nil, linkerrors.WrapDataNotFound(imp.FullName)
		}
		target := modules[targetIdx]

		pos := -1
		for i, exp := range target.ExportData {
			if exp.FullName == imp.FullName {
				pos = i
				break
			}
		}
		if pos < 0 {
			return nil, linkerrors.WrapDataNotFound(imp.FullName)
		}

		targetExport := target.ExportData[pos]
		if targetExport.Section != imp.Section {
			return nil, linkerrors.WrapImportDataSectionMismatch(imp.FullName, imp.Section)
		}
		if targetExport.Visibility != entry.VisibilityPublic {
			return nil, linkerrors.WrapDataNotExported(imp.FullName)
		}

		out = append(out, entry.DataIndexEntry{
			TargetModuleIndex:   targetIdx,
			TargetInternalIndex: sectionRelativeIndex(target.ExportData, pos),
			Section:             targetExport.Section,
		})
	}

	for i := range m.ReadOnlyData {
		out = append(out, entry.DataIndexEntry{TargetModuleIndex: mi, TargetInternalIndex: i, Section: entry.SectionReadOnly})
	}
	for i := range m.ReadWriteData {
		out = append(out, entry.DataIndexEntry{TargetModuleIndex: mi, TargetInternalIndex: i, Section: entry.SectionReadWrite})
	}
	for i := range m.UninitData {
		out = append(out, entry.DataIndexEntry{TargetModuleIndex: mi, TargetInternalIndex: i, Section: entry.SectionUninit})
	}

	return out, nil
}

// sectionRelativeIndex converts a position within a module's whole
// ExportData table into an index relative to just the entries sharing
// that position's section -- the index that actually resolves against
// the module's own ReadOnlyData/ReadWriteData/UninitData array.
func sectionRelativeIndex(exportData []entry.ExportDataEntry, pos int) int {
	section := exportData[pos].Section
	count := 0
	for i := 0; i < pos; i++ {
		if exportData[i].Section == section {
			count++
		}
	}
	return count
}

// discoverEntryPoints implements the §4.2.2 entry-point scan over the
// application module's export-function table using a plain string
// scanner (the spec permits this in place of a regex engine; the
// patterns are anchored on full-name segments, never on substrings).
func discoverEntryPoints(app entry.ImageCommonEntry, importFunctionCount int) []entry.EntryPointEntry {
	var out []entry.EntryPointEntry

	startFullName := app.Name + "::_start"
	appPrefix := app.Name + "::app::"
	testsPrefix := app.Name + "::tests::"

	for i, exp := range app.ExportFunctions {
		publicIndex := importFunctionCount + i

		switch {
		case exp.FullName == startFullName:
			out = append(out, entry.EntryPointEntry{Name: "_start", PublicIndex: publicIndex})

		case strings.HasPrefix(exp.FullName, appPrefix):
			rest := exp.FullName[len(appPrefix):]
			if name, ok := strings.CutSuffix(rest, "::_start"); ok && name != "" && !strings.Contains(name, "::") {
				out = append(out, entry.EntryPointEntry{Name: name, PublicIndex: publicIndex})
			}

		case strings.HasPrefix(exp.FullName, testsPrefix):
			rest := exp.FullName[len(testsPrefix):]
			lastSeg := rest
			if lastSep := strings.LastIndex(rest, "::"); lastSep >= 0 {
				lastSeg = rest[lastSep+2:]
			}
			if strings.HasPrefix(lastSeg, "test_") {
				out = append(out, entry.EntryPointEntry{Name: rest, PublicIndex: publicIndex})
			}
		}
	}

	return out
}
