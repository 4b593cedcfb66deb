// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

// Package staticlink implements C4: the orchestrator that fuses sibling
// object units belonging to one logical module into a single
// ImageCommonEntry, per spec.md §4.1's fixed 12-step algorithm. It is a
// pure function of its inputs -- no hidden state, no I/O -- consuming
// internal/tablemerge (C2) and internal/reloc (C3).
package staticlink

import (
	"github.com/dotandev/xlinker/internal/entry"
	"github.com/dotandev/xlinker/internal/linkerrors"
	"github.com/dotandev/xlinker/internal/reloc"
	"github.com/dotandev/xlinker/internal/tablemerge"
)

// StaticLink merges units into one ImageCommonEntry named targetName at
// targetVersion. The result's Kind is SharedModule if finalize is true
// (and every internal reference must then resolve, step 12), else
// ObjectFile. Any step's error aborts the link; no partial artifact is
// returned.
func StaticLink(targetName, targetVersion string, finalize bool, units []entry.ImageCommonEntry) (entry.ImageCommonEntry, error) {
	if len(units) == 0 {
		return entry.ImageCommonEntry{Name: targetName, Version: targetVersion}, nil
	}

	// Step 1-2: types and local-variable lists.
	mergedTypes, typeRemap := tablemerge.MergeTypes(units)
	mergedLocals, localsRemap := tablemerge.MergeLocalVariableLists(units)

	// Step 3: import modules.
	mergedImportModules, importModuleRemap, err := tablemerge.MergeImportModules(units)
	if err != nil {
		return entry.ImageCommonEntry{}, err
	}

	// Step 4: data entries, three sections in fixed order.
	dataMerge := tablemerge.MergeData(units)

	// Step 5: import data.
	mergedImportData, dataPublicRemap, err := tablemerge.MergeImportData(
		units, dataMerge.ExportData, dataMerge, dataMerge.InternalDataRemap, importModuleRemap,
	)
	if err != nil {
		return entry.ImageCommonEntry{}, err
	}

	// Step 6: external libraries.
	mergedExternalLibraries, externalLibraryRemap, err := tablemerge.MergeExternalLibraries(units)
	if err != nil {
		return entry.ImageCommonEntry{}, err
	}

	// Step 7: external functions.
	mergedExternalFunctions, externalFunctionRemap := tablemerge.MergeExternalFunctions(
		units, externalLibraryRemap, typeRemap,
	)

	// Step 8: export functions.
	mergedExportFunctions, internalFunctionRemap := tablemerge.MergeExportFunctions(units)

	// Step 9 + function half of step 10: import functions and the
	// function-public-index remap.
	mergedImportFunctions, functionPublicRemap := tablemerge.MergeImportFunctions(
		units, mergedExportFunctions, internalFunctionRemap, importModuleRemap, typeRemap,
	)

	// Step 11: relocate code for every function of every unit, in order.
	var mergedFunctions []entry.FunctionEntry
	var mergedRelocationLists []entry.RelocationListEntry

	for u, unit := range units {
		bundle := reloc.RemapBundle{
			TypeIndex:              typeRemap[u],
			LocalVariableListIndex: localsRemap[u],
			FunctionPublicIndex:    functionPublicRemap[u],
			ExternalFunctionIndex:  externalFunctionRemap[u],
			DataPublicIndex:        dataPublicRemap[u],
		}

		for i, fn := range unit.Functions {
			relocs := unit.RelocationLists[i]
			newCode := reloc.Relocate(fn.Code, relocs, bundle)

			mergedFunctions = append(mergedFunctions, entry.FunctionEntry{
				TypeIndex:              typeRemap[u][fn.TypeIndex],
				LocalVariableListIndex: localsRemap[u][fn.LocalVariableListIndex],
				Code:                   newCode,
			})
			mergedRelocationLists = append(mergedRelocationLists, relocs)
		}
	}

	kind := entry.ImageKindObjectFile
	if finalize {
		kind = entry.ImageKindSharedModule

		// Step 12: closure check.
		selfPos := -1
		for i, m := range mergedImportModules {
			if entry.IsSelfReference(m.Dependency) {
				selfPos = i
				break
			}
		}
		if selfPos >= 0 {
			for _, imp := range mergedImportFunctions {
				if imp.ImportModuleIndex == selfPos {
					return entry.ImageCommonEntry{}, linkerrors.WrapFunctionNotFound(imp.FullName)
				}
			}
			for _, imp := range mergedImportData {
				if imp.ImportModuleIndex == selfPos {
					return entry.ImageCommonEntry{}, linkerrors.WrapDataNotFound(imp.FullName)
				}
			}
		}
	}

	return entry.ImageCommonEntry{
		Name:    targetName,
		Version: targetVersion,
		Kind:    kind,

		Types:              mergedTypes,
		LocalVariableLists: mergedLocals,

		Functions:       mergedFunctions,
		RelocationLists: mergedRelocationLists,

		ReadOnlyData:  dataMerge.ReadOnlyData,
		ReadWriteData: dataMerge.ReadWriteData,
		UninitData:    dataMerge.UninitData,

		ImportModules: mergedImportModules,

		ImportFunctions: mergedImportFunctions,
		ImportData:      mergedImportData,

		ExportFunctions: mergedExportFunctions,
		ExportData:      dataMerge.ExportData,

		ExternalLibraries: mergedExternalLibraries,
		ExternalFunctions: mergedExternalFunctions,
	}, nil
}
