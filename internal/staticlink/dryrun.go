// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package staticlink

import (
	"github.com/dotandev/xlinker/internal/entry"
	"github.com/dotandev/xlinker/internal/linkerrors"
)

func unresolvedFunctionWarning(name string) error {
	return linkerrors.WrapFunctionNotFound(name)
}

func unresolvedDataWarning(name string) error {
	return linkerrors.WrapDataNotFound(name)
}

// DryRunResult is the outcome of StaticLinkDryRun: a best-effort merged
// module plus any closure-check problems downgraded from hard failures
// to warnings.
type DryRunResult struct {
	Module   entry.ImageCommonEntry
	Warnings []error
}

// StaticLinkDryRun runs the same merge as StaticLink(finalize=true), but
// never aborts on an unresolved internal reference: instead of failing
// at step 12, it collects every unresolved import-function/import-data
// name into Warnings and still returns the merged (ObjectFile-kind)
// module. It is used only by the "link --dry-run" CLI path to let a
// developer see how far a partial link set gets; StaticLink remains the
// fail-fast entry point used by link without --dry-run and by the
// JSON-RPC server.
func StaticLinkDryRun(targetName, targetVersion string, units []entry.ImageCommonEntry) (DryRunResult, error) {
	module, err := StaticLink(targetName, targetVersion, false, units)
	if err != nil {
		return DryRunResult{}, err
	}

	var warnings []error

	selfPos := -1
	for i, m := range module.ImportModules {
		if entry.IsSelfReference(m.Dependency) {
			selfPos = i
			break
		}
	}
	if selfPos >= 0 {
		for _, imp := range module.ImportFunctions {
			if imp.ImportModuleIndex == selfPos {
				warnings = append(warnings, unresolvedFunctionWarning(imp.FullName))
			}
		}
		for _, imp := range module.ImportData {
			if imp.ImportModuleIndex == selfPos {
				warnings = append(warnings, unresolvedDataWarning(imp.FullName))
			}
		}
	}

	return DryRunResult{Module: module, Warnings: warnings}, nil
}
