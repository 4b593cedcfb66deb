// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotandev/xlinker/internal/entry"
)

// TestBuildImageIndexFunctionIndexList is S4: three modules app, math, std
// (already sorted in that order). app imports std::add, math::inc,
// std::sub and has two internal functions.
func TestBuildImageIndexFunctionIndexList(t *testing.T) {
	sharedType := entry.TypeEntry{}

	app := entry.ImageCommonEntry{
		Name:  "app",
		Types: []entry.TypeEntry{sharedType},
		ImportModules: []entry.ImportModuleEntry{
			{Name: "math"},
			{Name: "std"},
		},
		ImportFunctions: []entry.ImportFunctionEntry{
			{FullName: "std::add", ImportModuleIndex: 1, TypeIndex: 0},
			{FullName: "math::inc", ImportModuleIndex: 0, TypeIndex: 0},
			{FullName: "std::sub", ImportModuleIndex: 1, TypeIndex: 0},
		},
		Functions: []entry.FunctionEntry{{TypeIndex: 0}, {TypeIndex: 0}},
	}

	math := entry.ImageCommonEntry{
		Name:            "math",
		Types:           []entry.TypeEntry{sharedType},
		Functions:       []entry.FunctionEntry{{TypeIndex: 0}},
		ExportFunctions: []entry.ExportFunctionEntry{{FullName: "math::inc", Visibility: entry.VisibilityPublic}},
	}

	std := entry.ImageCommonEntry{
		Name:  "std",
		Types: []entry.TypeEntry{sharedType},
		Functions: []entry.FunctionEntry{
			{TypeIndex: 0},
			{TypeIndex: 0},
		},
		ExportFunctions: []entry.ExportFunctionEntry{
			{FullName: "std::add", Visibility: entry.VisibilityPublic},
			{FullName: "std::sub", Visibility: entry.VisibilityPublic},
		},
	}

	sorted := []entry.ImageCommonEntry{app, math, std}
	order := []int{0, 1, 2}

	idx, err := BuildImageIndex(sorted, order, nil)
	require.NoError(t, err)

	assert.Equal(t, []entry.FunctionIndexEntry{
		{TargetModuleIndex: 2, TargetInternalIndex: 0},
		{TargetModuleIndex: 1, TargetInternalIndex: 0},
		{TargetModuleIndex: 2, TargetInternalIndex: 1},
		{TargetModuleIndex: 0, TargetInternalIndex: 0},
		{TargetModuleIndex: 0, TargetInternalIndex: 1},
	}, idx.FunctionIndexLists[0])
}

func TestBuildImageIndexFunctionNotFound(t *testing.T) {
	app := entry.ImageCommonEntry{
		Name:          "app",
		ImportModules: []entry.ImportModuleEntry{{Name: "std"}},
		ImportFunctions: []entry.ImportFunctionEntry{
			{FullName: "std::missing", ImportModuleIndex: 0},
		},
	}
	std := entry.ImageCommonEntry{Name: "std"}

	_, err := BuildImageIndex([]entry.ImageCommonEntry{app, std}, []int{0, 1}, nil)
	require.Error(t, err)
}

// TestBuildImageIndexExternalFunctionUnification is S5. Unified
// libraries and external functions are deduplicated by processing the
// sorted module array in order; std's external-function-index list is
// pinned by the scenario to [5, 1].
func TestBuildImageIndexExternalFunctionUnification(t *testing.T) {
	sharedType := entry.TypeEntry{}

	app := entry.ImageCommonEntry{
		Name:  "app",
		Types: []entry.TypeEntry{sharedType},
		ExternalLibraries: []entry.ExternalLibraryEntry{
			{Name: "hello"}, {Name: "foo"}, {Name: "bar"},
		},
		ExternalFunctions: []entry.ExternalFunctionEntry{
			{Name: "x", ExternalLibraryIndex: 0, TypeIndex: 0},
			{Name: "b", ExternalLibraryIndex: 1, TypeIndex: 0},
			{Name: "m", ExternalLibraryIndex: 2, TypeIndex: 0},
			{Name: "y", ExternalLibraryIndex: 0, TypeIndex: 0},
		},
	}

	math := entry.ImageCommonEntry{
		Name:  "math",
		Types: []entry.TypeEntry{sharedType},
		ExternalLibraries: []entry.ExternalLibraryEntry{
			{Name: "bar"}, {Name: "foo"}, {Name: "world"},
		},
		ExternalFunctions: []entry.ExternalFunctionEntry{
			{Name: "m", ExternalLibraryIndex: 0, TypeIndex: 0},
			{Name: "n", ExternalLibraryIndex: 0, TypeIndex: 0},
			{Name: "a", ExternalLibraryIndex: 1, TypeIndex: 0},
			{Name: "p", ExternalLibraryIndex: 2, TypeIndex: 0},
			{Name: "q", ExternalLibraryIndex: 2, TypeIndex: 0},
		},
	}

	std := entry.ImageCommonEntry{
		Name:              "std",
		Types:             []entry.TypeEntry{sharedType},
		ExternalLibraries: []entry.ExternalLibraryEntry{{Name: "foo"}},
		ExternalFunctions: []entry.ExternalFunctionEntry{
			{Name: "a", ExternalLibraryIndex: 0, TypeIndex: 0},
			{Name: "b", ExternalLibraryIndex: 0, TypeIndex: 0},
		},
	}

	sorted := []entry.ImageCommonEntry{app, math, std}

	idx, err := BuildImageIndex(sorted, []int{0, 1, 2}, nil)
	require.NoError(t, err)

	gotNames := make([]string, len(idx.UnifiedExternalFunctions))
	for i, f := range idx.UnifiedExternalFunctions {
		gotNames[i] = f.Name
	}
	assert.Equal(t, []string{"x", "b", "m", "y", "n", "a", "p", "q"}, gotNames)
	assert.Equal(t, []int{5, 1}, idx.ExternalFunctionIndexLists[2])
}

// TestDiscoverEntryPoints is S6.
func TestDiscoverEntryPoints(t *testing.T) {
	exports := []string{
		"hello::_start",
		"hello::empty",
		"hello::app::foo::_start",
		"hello::app::foo::empty",
		"hello::app::bar::_start",
		"hello::app::bar::empty",
		"hello::tests::foo::test_a",
		"hello::tests::foo::test_b",
		"hello::tests::foo::empty",
		"hello::tests::bar::test_c",
		"hello::tests::bar::test_d",
		"hello::tests::bar::empty",
		"hello::tests::common::baz::test_e",
		"hello::tests::common::baz::test_f",
		"hello::tests::common::baz::empty",
	}

	var exportEntries []entry.ExportFunctionEntry
	for _, name := range exports {
		exportEntries = append(exportEntries, entry.ExportFunctionEntry{FullName: name, Visibility: entry.VisibilityPublic})
	}

	app := entry.ImageCommonEntry{Name: "hello", ExportFunctions: exportEntries}

	got := discoverEntryPoints(app, 0)

	want := []entry.EntryPointEntry{
		{Name: "_start", PublicIndex: 0},
		{Name: "foo", PublicIndex: 2},
		{Name: "bar", PublicIndex: 4},
		{Name: "foo::test_a", PublicIndex: 6},
		{Name: "foo::test_b", PublicIndex: 7},
		{Name: "bar::test_c", PublicIndex: 9},
		{Name: "bar::test_d", PublicIndex: 10},
		{Name: "common::baz::test_e", PublicIndex: 12},
		{Name: "common::baz::test_f", PublicIndex: 13},
	}
	assert.Equal(t, want, got)
}
