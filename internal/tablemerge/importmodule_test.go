// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package tablemerge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotandev/xlinker/internal/entry"
	"github.com/dotandev/xlinker/internal/linkerrors"
)

func localDep(path string) entry.Dependency {
	return entry.Dependency{Kind: entry.DependencyLocal, Path: path}
}

func shareDep(version string) entry.Dependency {
	return entry.Dependency{Kind: entry.DependencyShare, Version: version}
}

func TestMergeImportModulesReusesIdenticalEntry(t *testing.T) {
	units := []entry.ImageCommonEntry{
		{ImportModules: []entry.ImportModuleEntry{{Name: "math", Dependency: localDep("../math")}}},
		{ImportModules: []entry.ImportModuleEntry{{Name: "math", Dependency: localDep("../math")}}},
	}

	merged, remaps, err := MergeImportModules(units)
	require.NoError(t, err)

	assert.Len(t, merged, 1)
	assert.Equal(t, []int{0}, remaps[0])
	assert.Equal(t, []int{0}, remaps[1])
}

func TestMergeImportModulesLocalSourceConflict(t *testing.T) {
	units := []entry.ImageCommonEntry{
		{ImportModules: []entry.ImportModuleEntry{{Name: "math", Dependency: localDep("../math")}}},
		{ImportModules: []entry.ImportModuleEntry{{Name: "math", Dependency: localDep("../other-math")}}},
	}

	_, _, err := MergeImportModules(units)
	assert.ErrorIs(t, err, linkerrors.ErrDependentSourceConflict)
}

func TestMergeImportModulesShareVersionUpgrade(t *testing.T) {
	units := []entry.ImageCommonEntry{
		{ImportModules: []entry.ImportModuleEntry{{Name: "encoding", Dependency: shareDep("2.1.0")}}},
		{ImportModules: []entry.ImportModuleEntry{{Name: "encoding", Dependency: shareDep("2.2.0")}}},
	}

	merged, _, err := MergeImportModules(units)
	require.NoError(t, err)
	assert.Equal(t, "2.2.0", merged[0].Dependency.Version)
}

func TestMergeImportModulesShareMajorMismatchConflicts(t *testing.T) {
	units := []entry.ImageCommonEntry{
		{ImportModules: []entry.ImportModuleEntry{{Name: "encoding", Dependency: shareDep("1.0.0")}}},
		{ImportModules: []entry.ImportModuleEntry{{Name: "encoding", Dependency: shareDep("2.0.0")}}},
	}

	_, _, err := MergeImportModules(units)
	assert.ErrorIs(t, err, linkerrors.ErrDependentVersionConflict)
}

func TestMergeImportModulesKindMismatchConflicts(t *testing.T) {
	units := []entry.ImageCommonEntry{
		{ImportModules: []entry.ImportModuleEntry{{Name: "x", Dependency: localDep("../x")}}},
		{ImportModules: []entry.ImportModuleEntry{{Name: "x", Dependency: shareDep("1.0.0")}}},
	}

	_, _, err := MergeImportModules(units)
	assert.ErrorIs(t, err, linkerrors.ErrDependentNameConflict)
}

func TestMergeExternalLibrariesSystemNameMatch(t *testing.T) {
	sys := entry.Dependency{Kind: entry.DependencySystem, SystemName: "libc"}
	units := []entry.ImageCommonEntry{
		{ExternalLibraries: []entry.ExternalLibraryEntry{{Name: "libc", Dependency: sys}}},
		{ExternalLibraries: []entry.ExternalLibraryEntry{{Name: "libc", Dependency: sys}}},
	}

	merged, remaps, err := MergeExternalLibraries(units)
	require.NoError(t, err)
	assert.Len(t, merged, 1)
	assert.Equal(t, []int{0}, remaps[0])
	assert.Equal(t, []int{0}, remaps[1])
}

func TestMergeExternalLibrariesSystemNameMismatchConflicts(t *testing.T) {
	units := []entry.ImageCommonEntry{
		{ExternalLibraries: []entry.ExternalLibraryEntry{{Name: "libc", Dependency: entry.Dependency{Kind: entry.DependencySystem, SystemName: "libc"}}}},
		{ExternalLibraries: []entry.ExternalLibraryEntry{{Name: "libc", Dependency: entry.Dependency{Kind: entry.DependencySystem, SystemName: "libc.so.6"}}}},
	}

	_, _, err := MergeExternalLibraries(units)
	assert.ErrorIs(t, err, linkerrors.ErrDependentNameConflict)
}
