// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package tablemerge

import (
	"github.com/dotandev/xlinker/internal/entry"
	"github.com/dotandev/xlinker/internal/linkerrors"
	"github.com/dotandev/xlinker/internal/version"
)

// MergeImportModules implements §4.1 step 3 and the §4.1.1 dependency
// reconciliation table: for each unit's import-module entries in order,
// look up by name. Append if absent; reuse if present with an identical
// dependency; otherwise apply the reconciliation table, which may keep
// the existing entry, replace it with the incoming one (a Share version
// upgrade), or fail.
func MergeImportModules(units []entry.ImageCommonEntry) ([]entry.ImportModuleEntry, [][]int, error) {
	var merged []entry.ImportModuleEntry
	index := map[string]int{}
	remaps := make([][]int, len(units))

	for u, unit := range units {
		remap := make([]int, len(unit.ImportModules))
		for i, m := range unit.ImportModules {
			pos, ok := index[m.Name]
			if !ok {
				merged = append(merged, m)
				index[m.Name] = len(merged) - 1
				remap[i] = len(merged) - 1
				continue
			}

			if merged[pos].Dependency.Equal(m.Dependency) {
				remap[i] = pos
				continue
			}

			resolved, err := reconcile(m.Name, merged[pos].Dependency, m.Dependency)
			if err != nil {
				return nil, nil, err
			}
			merged[pos].Dependency = resolved
			remap[i] = pos
		}
		remaps[u] = remap
	}

	return merged, remaps, nil
}

// reconcile applies the §4.1.1 table for one (existing, incoming) pair
// sharing a name, returning the dependency the merged entry should carry.
func reconcile(name string, existing, incoming entry.Dependency) (entry.Dependency, error) {
	switch existing.Kind {
	case entry.DependencyLocal:
		if incoming.Kind != entry.DependencyLocal {
			return entry.Dependency{}, linkerrors.WrapDependentNameConflict(name)
		}
		if existing.Path == incoming.Path {
			return existing, nil
		}
		return entry.Dependency{}, linkerrors.WrapDependentSourceConflict(name)

	case entry.DependencyRemote:
		if incoming.Kind != entry.DependencyRemote {
			return entry.Dependency{}, linkerrors.WrapDependentNameConflict(name)
		}
		if existing.URL == incoming.URL && existing.Commit == incoming.Commit {
			return existing, nil
		}
		return entry.Dependency{}, linkerrors.WrapDependentSourceConflict(name)

	case entry.DependencyShare:
		if incoming.Kind != entry.DependencyShare {
			return entry.Dependency{}, linkerrors.WrapDependentNameConflict(name)
		}
		result, err := version.Compare(existing.Version, incoming.Version)
		if err != nil {
			return entry.Dependency{}, err
		}
		switch result {
		case version.Equals, version.LessThan:
			return existing, nil
		case version.GreaterThan:
			return incoming, nil
		default:
			return entry.Dependency{}, linkerrors.WrapDependentVersionConflict(name)
		}

	case entry.DependencyRuntime:
		if incoming.Kind != entry.DependencyRuntime {
			return entry.Dependency{}, linkerrors.WrapDependentNameConflict(name)
		}
		return existing, nil

	case entry.DependencyModule:
		if incoming.Kind != entry.DependencyModule {
			return entry.Dependency{}, linkerrors.WrapDependentNameConflict(name)
		}
		return existing, nil

	default:
		return entry.Dependency{}, linkerrors.WrapDependentNameConflict(name)
	}
}

// MergeExternalLibraries implements §4.1 step 6 with the identical
// discipline as import-modules, over external-library dependency
// variants (which additionally include System).
func MergeExternalLibraries(units []entry.ImageCommonEntry) ([]entry.ExternalLibraryEntry, [][]int, error) {
	var merged []entry.ExternalLibraryEntry
	index := map[string]int{}
	remaps := make([][]int, len(units))

	for u, unit := range units {
		remap := make([]int, len(unit.ExternalLibraries))
		for i, lib := range unit.ExternalLibraries {
			pos, ok := index[lib.Name]
			if !ok {
				merged = append(merged, lib)
				index[lib.Name] = len(merged) - 1
				remap[i] = len(merged) - 1
				continue
			}

			if merged[pos].Dependency.Equal(lib.Dependency) {
				remap[i] = pos
				continue
			}

			resolved, err := reconcileExternal(lib.Name, merged[pos].Dependency, lib.Dependency)
			if err != nil {
				return nil, nil, err
			}
			merged[pos].Dependency = resolved
			remap[i] = pos
		}
		remaps[u] = remap
	}

	return merged, remaps, nil
}

func reconcileExternal(name string, existing, incoming entry.Dependency) (entry.Dependency, error) {
	if existing.Kind == entry.DependencySystem {
		if incoming.Kind == entry.DependencySystem && existing.SystemName == incoming.SystemName {
			return existing, nil
		}
		return entry.Dependency{}, linkerrors.WrapDependentNameConflict(name)
	}
	return reconcile(name, existing, incoming)
}
