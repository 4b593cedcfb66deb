// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package tablemerge

import "github.com/dotandev/xlinker/internal/entry"

// MergeTypes implements spec.md §4.1 step 1: seed the merged list with
// unit 0's types, then for each subsequent unit's type entry reuse a
// structurally equal merged entry or append a new one. Returns the
// merged table plus, per unit, the remap from that unit's original type
// index to the merged index.
func MergeTypes(units []entry.ImageCommonEntry) ([]entry.TypeEntry, [][]int) {
	var merged []entry.TypeEntry
	remaps := make([][]int, len(units))

	for u, unit := range units {
		remap := make([]int, len(unit.Types))
		for i, t := range unit.Types {
			remap[i] = findOrAppendType(&merged, t)
		}
		remaps[u] = remap
	}

	return merged, remaps
}

func findOrAppendType(merged *[]entry.TypeEntry, t entry.TypeEntry) int {
	for i, m := range *merged {
		if m.Equal(t) {
			return i
		}
	}
	*merged = append(*merged, t)
	return len(*merged) - 1
}

// MergeLocalVariableLists implements §4.1 step 2 with the same discipline
// as MergeTypes, deduplicating on structural equality.
func MergeLocalVariableLists(units []entry.ImageCommonEntry) ([]entry.LocalVariableListEntry, [][]int) {
	var merged []entry.LocalVariableListEntry
	remaps := make([][]int, len(units))

	for u, unit := range units {
		remap := make([]int, len(unit.LocalVariableLists))
		for i, l := range unit.LocalVariableLists {
			remap[i] = findOrAppendLocals(&merged, l)
		}
		remaps[u] = remap
	}

	return merged, remaps
}

func findOrAppendLocals(merged *[]entry.LocalVariableListEntry, l entry.LocalVariableListEntry) int {
	for i, m := range *merged {
		if m.Equal(l) {
			return i
		}
	}
	*merged = append(*merged, l)
	return len(*merged) - 1
}
