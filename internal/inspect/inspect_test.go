// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotandev/xlinker/internal/entry"
)

func sampleModule() entry.ImageCommonEntry {
	return entry.ImageCommonEntry{
		Name:          "hello",
		Version:       "1.0.0",
		Kind:          entry.ImageKindSharedModule,
		Types:         []entry.TypeEntry{{}},
		Functions:     []entry.FunctionEntry{{}},
		ImportModules: []entry.ImportModuleEntry{{Name: "std"}},
	}
}

func TestFormatModuleTextIncludesCounts(t *testing.T) {
	out := FormatModuleText(sampleModule())
	assert.Contains(t, out, "hello 1.0.0 (shared module)")
	assert.Contains(t, out, "types:               1")
	assert.Contains(t, out, "functions:           1")
	assert.Contains(t, out, "- std")
}

func TestFormatModuleTextObjectFileKind(t *testing.T) {
	m := sampleModule()
	m.Kind = entry.ImageKindObjectFile
	assert.Contains(t, FormatModuleText(m), "(object file)")
}

func TestFormatModuleJSONRoundTrips(t *testing.T) {
	out, err := FormatModuleJSON(sampleModule())
	require.NoError(t, err)

	var decoded entry.ImageCommonEntry
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "hello", decoded.Name)
}

func TestFormatIndexTextIncludesEntryPoints(t *testing.T) {
	idx := entry.ImageIndexEntry{
		DynamicLinkModules: []entry.DynamicLinkModuleEntry{{Name: "app"}},
		FunctionIndexLists: [][]entry.FunctionIndexEntry{{{TargetModuleIndex: 0, TargetInternalIndex: 0}}},
		EntryPoints:        []entry.EntryPointEntry{{Name: "_start", PublicIndex: 0}},
	}

	out := FormatIndexText(idx)
	assert.Contains(t, out, "modules: 1")
	assert.Contains(t, out, "[0] app: 1 function refs, 0 data refs")
	assert.Contains(t, out, "_start -> public index 0")
}

func TestFormatIndexJSONRoundTrips(t *testing.T) {
	idx := entry.ImageIndexEntry{EntryPoints: []entry.EntryPointEntry{{Name: "_start"}}}
	out, err := FormatIndexJSON(idx)
	require.NoError(t, err)

	var decoded entry.ImageIndexEntry
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "_start", decoded.EntryPoints[0].Name)
}
