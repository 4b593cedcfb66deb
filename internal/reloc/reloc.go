// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

// Package reloc implements C3, the code relocator: the sole operation of
// rewriting the 4-byte little-endian operand slots inside a function's
// bytecode that spec.md §4.3 describes. The relocator does not know the
// bytecode's opcode layout; it trusts the relocation list the assembler
// produced.
package reloc

import (
	"encoding/binary"

	"github.com/dotandev/xlinker/internal/entry"
)

// RemapBundle bundles the five remap vectors produced for one source
// unit by internal/tablemerge, keyed by relocate type.
type RemapBundle struct {
	TypeIndex              []int
	LocalVariableListIndex []int
	FunctionPublicIndex    []int
	ExternalFunctionIndex  []int
	DataPublicIndex        []int
}

func (b RemapBundle) forType(t entry.RelocateType) []int {
	switch t {
	case entry.RelocateTypeIndex:
		return b.TypeIndex
	case entry.RelocateLocalVariableListIndex:
		return b.LocalVariableListIndex
	case entry.RelocateFunctionPublicIndex:
		return b.FunctionPublicIndex
	case entry.RelocateExternalFunctionIndex:
		return b.ExternalFunctionIndex
	case entry.RelocateDataPublicIndex:
		return b.DataPublicIndex
	default:
		return nil
	}
}

// Relocate returns a rewritten copy of code: for each relocation entry,
// the 4-byte little-endian unsigned slot at CodeOffset is read as an old
// table index, looked up in the remap vector matching the relocation's
// type, and the new index is written back in place. Every other byte of
// code is preserved exactly -- testable property #4 of spec.md §8.
func Relocate(code []byte, relocs entry.RelocationListEntry, remaps RemapBundle) []byte {
	out := make([]byte, len(code))
	copy(out, code)

	for _, r := range relocs.Relocations {
		slot := out[r.CodeOffset : r.CodeOffset+4]
		oldIndex := binary.LittleEndian.Uint32(slot)

		table := remaps.forType(r.RelocateType)
		newIndex := table[oldIndex]

		binary.LittleEndian.PutUint32(slot, uint32(newIndex))
	}

	return out
}
