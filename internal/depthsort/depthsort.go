// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

// Package depthsort implements C5: ordering the application together
// with its transitive shared-module dependencies by maximum import
// depth, per spec.md §4.2.1.
package depthsort

import (
	"sort"

	"github.com/dotandev/xlinker/internal/entry"
	"github.com/dotandev/xlinker/internal/linkerrors"
)

type queueItem struct {
	index int
	depth int
}

// SortByDepth computes, for each module in modules (element 0 is the
// application; the rest are its transitively-depended-on shared
// modules), the maximum depth from the application along any path in
// the import-module DAG, then returns the modules stable-sorted by
// ascending depth (deepest-last load order) along with a parallel
// originalIndex slice recording where each returned module came from in
// the input array.
//
// The traversal is not a classic fixed-depth BFS: a node is re-enqueued
// whenever a longer path to it is discovered, so the depth recorded is
// always the maximum, not the first-seen, depth. Termination is
// guaranteed because a re-enqueue only happens on a strict depth
// increase, which is bounded by the DAG's longest path.
func SortByDepth(modules []entry.ImageCommonEntry) ([]entry.ImageCommonEntry, []int, error) {
	if len(modules) == 0 {
		return nil, nil, nil
	}

	byName := make(map[string]int, len(modules))
	for i, m := range modules {
		byName[m.Name] = i
	}

	depth := make([]int, len(modules))
	seen := make([]bool, len(modules))

	depth[0] = 0
	seen[0] = true
	queue := []queueItem{{index: 0, depth: 0}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		m := modules[item.index]
		for _, dep := range m.ImportModules {
			if entry.IsSelfReference(dep.Dependency) {
				continue
			}
			n, ok := byName[dep.Name]
			if !ok {
				continue
			}

			candidate := item.depth + 1
			if !seen[n] {
				depth[n] = candidate
				seen[n] = true
				queue = append(queue, queueItem{index: n, depth: candidate})
			} else if candidate > depth[n] {
				depth[n] = candidate
				queue = append(queue, queueItem{index: n, depth: candidate})
			}
		}
	}

	zeroDepthCount := 0
	for i := range modules {
		if depth[i] == 0 {
			zeroDepthCount++
		}
	}
	if zeroDepthCount > 1 {
		for i, m := range modules {
			if i != 0 && depth[i] == 0 {
				return nil, nil, linkerrors.WrapDanglingModule(m.Name)
			}
		}
	}

	order := make([]int, len(modules))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return depth[order[a]] < depth[order[b]]
	})

	sorted := make([]entry.ImageCommonEntry, len(modules))
	for i, idx := range order {
		sorted[i] = modules[idx]
	}

	return sorted, order, nil
}
