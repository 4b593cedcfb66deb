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

func TestMergeImportDataResolvesToInternalExport(t *testing.T) {
	units := []entry.ImageCommonEntry{
		{
			ReadOnlyData: []entry.InitedDataEntry{{Data: []byte("v")}},
			ExportData:   []entry.ExportDataEntry{{FullName: "cfg::version", Section: entry.SectionReadOnly, Visibility: entry.VisibilityPublic}},
		},
		{
			ImportData: []entry.ImportDataEntry{{FullName: "cfg::version", ImportModuleIndex: 0, Section: entry.SectionReadOnly}},
		},
	}

	dataMerge := MergeData(units)
	importModuleRemap := [][]int{{}, {0}}

	merged, publicRemap, err := MergeImportData(units, dataMerge.ExportData, dataMerge, dataMerge.InternalDataRemap, importModuleRemap)
	require.NoError(t, err)

	assert.Empty(t, merged)
	assert.Equal(t, []int{0}, publicRemap[1])
}

func TestMergeImportDataSectionMismatchErrors(t *testing.T) {
	units := []entry.ImageCommonEntry{
		{
			ReadOnlyData: []entry.InitedDataEntry{{Data: []byte("v")}},
			ExportData:   []entry.ExportDataEntry{{FullName: "cfg::version", Section: entry.SectionReadOnly, Visibility: entry.VisibilityPublic}},
		},
		{
			ImportData: []entry.ImportDataEntry{{FullName: "cfg::version", ImportModuleIndex: 0, Section: entry.SectionReadWrite}},
		},
	}

	dataMerge := MergeData(units)
	importModuleRemap := [][]int{{}, {0}}

	_, _, err := MergeImportData(units, dataMerge.ExportData, dataMerge, dataMerge.InternalDataRemap, importModuleRemap)
	assert.ErrorIs(t, err, linkerrors.ErrImportDataSectionMismatch)
}

func TestMergeImportDataDeduplicatesAcrossUnits(t *testing.T) {
	units := []entry.ImageCommonEntry{
		{ImportData: []entry.ImportDataEntry{{FullName: "env::argc", ImportModuleIndex: 0, Section: entry.SectionReadOnly}}},
		{ImportData: []entry.ImportDataEntry{{FullName: "env::argc", ImportModuleIndex: 0, Section: entry.SectionReadOnly}}},
	}

	dataMerge := MergeData(units)
	importModuleRemap := [][]int{{0}, {0}}

	merged, publicRemap, err := MergeImportData(units, dataMerge.ExportData, dataMerge, dataMerge.InternalDataRemap, importModuleRemap)
	require.NoError(t, err)

	assert.Len(t, merged, 1)
	assert.Equal(t, []int{0}, publicRemap[0])
	assert.Equal(t, []int{0}, publicRemap[1])
}

func TestMergeImportDataTypeMismatchOnInternalCollapseErrors(t *testing.T) {
	units := []entry.ImageCommonEntry{
		{
			ReadOnlyData: []entry.InitedDataEntry{{Data: []byte("v"), MemoryType: entry.LocalVariableEntry{Size: 4, Alignment: 4}}},
			ExportData:   []entry.ExportDataEntry{{FullName: "cfg::version", Section: entry.SectionReadOnly, Visibility: entry.VisibilityPublic}},
		},
		{
			ImportData: []entry.ImportDataEntry{{FullName: "cfg::version", ImportModuleIndex: 0, Section: entry.SectionReadOnly, MemoryType: entry.LocalVariableEntry{Size: 8, Alignment: 8}}},
		},
	}

	dataMerge := MergeData(units)
	importModuleRemap := [][]int{{}, {0}}

	_, _, err := MergeImportData(units, dataMerge.ExportData, dataMerge, dataMerge.InternalDataRemap, importModuleRemap)
	assert.ErrorIs(t, err, linkerrors.ErrImportDataTypeMismatch)
}

func TestMergeImportDataTypeInconsistentErrors(t *testing.T) {
	units := []entry.ImageCommonEntry{
		{ImportData: []entry.ImportDataEntry{{FullName: "env::argc", ImportModuleIndex: 0, Section: entry.SectionReadOnly, MemoryType: entry.LocalVariableEntry{Size: 4}}}},
		{ImportData: []entry.ImportDataEntry{{FullName: "env::argc", ImportModuleIndex: 0, Section: entry.SectionReadOnly, MemoryType: entry.LocalVariableEntry{Size: 8}}}},
	}

	dataMerge := MergeData(units)
	importModuleRemap := [][]int{{0}, {0}}

	_, _, err := MergeImportData(units, dataMerge.ExportData, dataMerge, dataMerge.InternalDataRemap, importModuleRemap)
	assert.ErrorIs(t, err, linkerrors.ErrImportDataTypeInconsistant)
}
