// Copyright (c) 2026 dotandev
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package linkerrors is the linker's closed error taxonomy. Every failure
// the static linker or the dynamic indexer can produce is a member of one
// of the sentinel errors below, wrapped with the offending name (and,
// where relevant, the offending section or type) via the matching Wrap*
// constructor so that errors.Is still matches the sentinel.
package linkerrors

import (
	"errors"
	"fmt"

	"github.com/dotandev/xlinker/internal/entry"
)

// Sentinel errors for comparison with errors.Is.
var (
	ErrCannotLoadModule               = errors.New("cannot load module")
	ErrDependentNameConflict          = errors.New("dependent name conflict")
	ErrDependentSourceConflict        = errors.New("dependent source conflict")
	ErrDependentVersionConflict       = errors.New("dependent version conflict")
	ErrFunctionNotFound               = errors.New("function not found")
	ErrFunctionNotExported            = errors.New("function not exported")
	ErrImportFunctionTypeMismatch     = errors.New("import function type mismatch")
	ErrImportFunctionTypeInconsistant = errors.New("import function type inconsistant")
	ErrDataNotFound                   = errors.New("data not found")
	ErrDataNotExported                = errors.New("data not exported")
	ErrImportDataSectionMismatch      = errors.New("import data section mismatch")
	ErrImportDataSectionInconsistant  = errors.New("import data section inconsistant")
	ErrImportDataTypeMismatch         = errors.New("import data type mismatch")
	ErrImportDataTypeInconsistant     = errors.New("import data type inconsistant")
	ErrExternalFunctionTypeInconsistent = errors.New("external function type inconsistent")
	ErrExternalDataTypeInconsistent     = errors.New("external data type inconsistent")
	ErrDanglingModule                   = errors.New("dangling module")
)

// WrapCannotLoadModule reports a failure from the reader collaborator.
func WrapCannotLoadModule(name, message string) error {
	return fmt.Errorf("%w: %s: %s", ErrCannotLoadModule, name, message)
}

// WrapDependentNameConflict reports two dependency entries sharing a
// name but with incompatible dependency variants.
func WrapDependentNameConflict(name string) error {
	return fmt.Errorf("%w: %s", ErrDependentNameConflict, name)
}

// WrapDependentSourceConflict reports two Local (or two Remote)
// dependencies under the same name whose sources differ.
func WrapDependentSourceConflict(name string) error {
	return fmt.Errorf("%w: %s", ErrDependentSourceConflict, name)
}

// WrapDependentVersionConflict reports two Share dependencies whose
// majors (or minors, when major == 0) disagree.
func WrapDependentVersionConflict(name string) error {
	return fmt.Errorf("%w: %s", ErrDependentVersionConflict, name)
}

func WrapFunctionNotFound(name string) error {
	return fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
}

func WrapFunctionNotExported(name string) error {
	return fmt.Errorf("%w: %s", ErrFunctionNotExported, name)
}

func WrapImportFunctionTypeMismatch(name string) error {
	return fmt.Errorf("%w: %s", ErrImportFunctionTypeMismatch, name)
}

func WrapImportFunctionTypeInconsistant(name string) error {
	return fmt.Errorf("%w: %s", ErrImportFunctionTypeInconsistant, name)
}

func WrapDataNotFound(name string) error {
	return fmt.Errorf("%w: %s", ErrDataNotFound, name)
}

func WrapDataNotExported(name string) error {
	return fmt.Errorf("%w: %s", ErrDataNotExported, name)
}

// WrapImportDataSectionMismatch reports an import whose declared section
// disagrees with the matching export's section.
func WrapImportDataSectionMismatch(name string, section entry.DataSection) error {
	return fmt.Errorf("%w: %s (section %d)", ErrImportDataSectionMismatch, name, section)
}

func WrapImportDataSectionInconsistant(name string) error {
	return fmt.Errorf("%w: %s", ErrImportDataSectionInconsistant, name)
}

func WrapImportDataTypeMismatch(name string, memType entry.LocalVariableEntry) error {
	return fmt.Errorf("%w: %s (type %+v)", ErrImportDataTypeMismatch, name, memType)
}

func WrapImportDataTypeInconsistant(name string) error {
	return fmt.Errorf("%w: %s", ErrImportDataTypeInconsistant, name)
}

func WrapExternalFunctionTypeInconsistent(name string) error {
	return fmt.Errorf("%w: %s", ErrExternalFunctionTypeInconsistent, name)
}

func WrapExternalDataTypeInconsistent(name string) error {
	return fmt.Errorf("%w: %s", ErrExternalDataTypeInconsistent, name)
}

func WrapDanglingModule(name string) error {
	return fmt.Errorf("%w: %s", ErrDanglingModule, name)
}
