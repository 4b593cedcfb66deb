// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package tablemerge

import "github.com/dotandev/xlinker/internal/entry"

// externalFunctionKey is the dedup key for external functions: identity
// is (name, merged_external_library_index), not (name, library, type) --
// the type-identity question is an open one per spec.md §9 "Design
// notes", and the contract chosen here is to accept mismatching types
// across units silently, matching the source's current behavior.
type externalFunctionKey struct {
	name       string
	libraryIdx int
}

// MergeExternalFunctions implements §4.1 step 7: deduplicate external
// functions by (name, merged_external_library_index), remapping each
// entry's TypeIndex and ExternalLibraryIndex through the earlier merges.
func MergeExternalFunctions(
	units []entry.ImageCommonEntry,
	externalLibraryRemap [][]int,
	typeRemap [][]int,
) ([]entry.ExternalFunctionEntry, [][]int) {
	var merged []entry.ExternalFunctionEntry
	index := map[externalFunctionKey]int{}
	remaps := make([][]int, len(units))

	for u, unit := range units {
		remap := make([]int, len(unit.ExternalFunctions))
		for i, fn := range unit.ExternalFunctions {
			mergedLibIdx := externalLibraryRemap[u][fn.ExternalLibraryIndex]
			mergedTypeIdx := typeRemap[u][fn.TypeIndex]
			key := externalFunctionKey{name: fn.Name, libraryIdx: mergedLibIdx}

			if pos, ok := index[key]; ok {
				remap[i] = pos
				continue
			}

			merged = append(merged, entry.ExternalFunctionEntry{
				Name:                 fn.Name,
				ExternalLibraryIndex: mergedLibIdx,
				TypeIndex:            mergedTypeIdx,
			})
			pos := len(merged) - 1
			index[key] = pos
			remap[i] = pos
		}
		remaps[u] = remap
	}

	return merged, remaps
}
