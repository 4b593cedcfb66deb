// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package tablemerge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dotandev/xlinker/internal/entry"
)

func TestMergeTypesDeduplicatesAcrossUnits(t *testing.T) {
	i32i32ToI32 := entry.TypeEntry{Params: []entry.DataTypeTag{1, 1}, Results: []entry.DataTypeTag{1}}
	i32ToVoid := entry.TypeEntry{Params: []entry.DataTypeTag{1}}

	units := []entry.ImageCommonEntry{
		{Types: []entry.TypeEntry{i32i32ToI32}},
		{Types: []entry.TypeEntry{i32ToVoid, i32i32ToI32}},
	}

	merged, remaps := MergeTypes(units)

	assert.Len(t, merged, 2)
	assert.Equal(t, []int{0}, remaps[0])
	assert.Equal(t, []int{1, 0}, remaps[1])
}

func TestMergeTypesEmpty(t *testing.T) {
	merged, remaps := MergeTypes(nil)
	assert.Empty(t, merged)
	assert.Empty(t, remaps)
}

func TestMergeLocalVariableListsDeduplicates(t *testing.T) {
	a := entry.LocalVariableListEntry{Variables: []entry.LocalVariableEntry{{DataType: 1, Size: 4, Alignment: 4}}}
	b := entry.LocalVariableListEntry{Variables: []entry.LocalVariableEntry{{DataType: 2, Size: 8, Alignment: 8}}}

	units := []entry.ImageCommonEntry{
		{LocalVariableLists: []entry.LocalVariableListEntry{a}},
		{LocalVariableLists: []entry.LocalVariableListEntry{b, a}},
	}

	merged, remaps := MergeLocalVariableLists(units)

	assert.Len(t, merged, 2)
	assert.Equal(t, []int{0}, remaps[0])
	assert.Equal(t, []int{1, 0}, remaps[1])
}
