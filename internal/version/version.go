// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

// Package version implements the §4.1.1 version-compare policy used to
// reconcile two Share dependencies that name the same module under
// different version strings.
//
// Segment parsing is delegated to hashicorp/go-version, which already
// knows how to split a version string into numeric segments; the
// compatibility *policy* on top of those segments -- beta majors compare
// minors strictly, stable majors compare minor-then-patch, and a major
// mismatch is always a conflict -- is specific to this linker and does
// not match go-version's own Compare (which treats all differences as a
// strict total order), so it is applied here rather than reused.
package version

import (
	"fmt"

	hcversion "github.com/hashicorp/go-version"
)

// Result is the outcome of comparing an existing Share version against an
// incoming one.
type Result int

const (
	// Equals means the two versions are the same; keep existing.
	Equals Result = iota
	// LessThan means incoming is older than existing; keep existing.
	LessThan
	// GreaterThan means incoming is newer; replace existing with incoming.
	GreaterThan
	// Conflict means the two versions cannot be reconciled.
	Conflict
)

// segments is the (major, minor, patch) triple this package's policy
// operates on. Each field is a 16-bit decimal field per the spec.
type segments struct {
	major, minor, patch uint16
}

func parse(v string) (segments, error) {
	parsed, err := hcversion.NewVersion(v)
	if err != nil {
		return segments{}, fmt.Errorf("parsing version %q: %w", v, err)
	}
	s := parsed.Segments64()
	seg := segments{}
	if len(s) > 0 {
		seg.major = uint16(s[0])
	}
	if len(s) > 1 {
		seg.minor = uint16(s[1])
	}
	if len(s) > 2 {
		seg.patch = uint16(s[2])
	}
	return seg, nil
}

// Compare decides keep/replace/conflict for an existing Share dependency
// version against an incoming one, per §4.1.1:
//
//   - majors differ                         -> Conflict
//   - major == 0 (beta) and minors differ    -> Conflict
//   - major == 0 (beta) and minors equal     -> compare patch
//   - stable (major != 0)                    -> compare minor then patch
func Compare(existing, incoming string) (Result, error) {
	e, err := parse(existing)
	if err != nil {
		return Conflict, err
	}
	i, err := parse(incoming)
	if err != nil {
		return Conflict, err
	}

	if e.major != i.major {
		return Conflict, nil
	}

	if e.major == 0 {
		if e.minor != i.minor {
			return Conflict, nil
		}
		return comparePatch(e.patch, i.patch), nil
	}

	if e.minor != i.minor {
		return compareScalar(e.minor, i.minor), nil
	}
	return comparePatch(e.patch, i.patch), nil
}

func comparePatch(existing, incoming uint16) Result {
	return compareScalar(existing, incoming)
}

func compareScalar(existing, incoming uint16) Result {
	switch {
	case incoming == existing:
		return Equals
	case incoming < existing:
		return LessThan
	default:
		return GreaterThan
	}
}
