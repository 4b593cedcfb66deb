// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package tablemerge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dotandev/xlinker/internal/entry"
)

func TestMergeExternalFunctionsDeduplicatesByNameAndLibrary(t *testing.T) {
	units := []entry.ImageCommonEntry{
		{ExternalFunctions: []entry.ExternalFunctionEntry{{Name: "malloc", ExternalLibraryIndex: 0, TypeIndex: 0}}},
		{ExternalFunctions: []entry.ExternalFunctionEntry{{Name: "malloc", ExternalLibraryIndex: 0, TypeIndex: 0}}},
	}

	externalLibraryRemap := [][]int{{0}, {0}}
	typeRemap := [][]int{{0}, {0}}

	merged, remaps := MergeExternalFunctions(units, externalLibraryRemap, typeRemap)

	assert.Len(t, merged, 1)
	assert.Equal(t, []int{0}, remaps[0])
	assert.Equal(t, []int{0}, remaps[1])
}

func TestMergeExternalFunctionsSameNameDifferentLibraryStaysDistinct(t *testing.T) {
	units := []entry.ImageCommonEntry{
		{ExternalFunctions: []entry.ExternalFunctionEntry{{Name: "open", ExternalLibraryIndex: 0, TypeIndex: 0}}},
		{ExternalFunctions: []entry.ExternalFunctionEntry{{Name: "open", ExternalLibraryIndex: 1, TypeIndex: 0}}},
	}

	externalLibraryRemap := [][]int{{0}, {1}}
	typeRemap := [][]int{{0}, {0}}

	merged, remaps := MergeExternalFunctions(units, externalLibraryRemap, typeRemap)

	assert.Len(t, merged, 2)
	assert.Equal(t, []int{0}, remaps[0])
	assert.Equal(t, []int{1}, remaps[1])
}

func TestMergeExternalFunctionsRemapsThroughEarlierMerges(t *testing.T) {
	units := []entry.ImageCommonEntry{
		{ExternalFunctions: []entry.ExternalFunctionEntry{{Name: "free", ExternalLibraryIndex: 2, TypeIndex: 1}}},
	}

	// unit 0's local library index 2 maps to merged library index 7;
	// its local type index 1 maps to merged type index 3.
	externalLibraryRemap := [][]int{{0, 0, 7}}
	typeRemap := [][]int{{0, 3}}

	merged, _ := MergeExternalFunctions(units, externalLibraryRemap, typeRemap)
	assert.Equal(t, 7, merged[0].ExternalLibraryIndex)
	assert.Equal(t, 3, merged[0].TypeIndex)
}
