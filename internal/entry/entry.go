// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

// Package entry defines the value-record data model shared by every stage
// of the linker: object units and linked modules are both represented as
// an ImageCommonEntry, and the dynamic-link indexer consumes and produces
// the remaining types in this package.
//
// Every type here is a plain value record. Identity between entries that
// denote the same program element is by full name, a "::"-delimited path
// string such as "modname::sub::item". No type in this package performs
// I/O or holds a reference to anything mutable outside itself.
package entry

// SelfReferenceName is the name every unit uses, in its import-module
// table, to denote "this module". Equality against this canonical value
// -- not a string literal scattered across call sites -- is the
// definitive self-reference test.
const SelfReferenceName = "module"

// DataSection identifies which of the three data sections an entry
// belongs to. Order matters: merges and public-index layout both use the
// fixed ReadOnly -> ReadWrite -> Uninit ordering.
type DataSection int

const (
	SectionReadOnly DataSection = iota
	SectionReadWrite
	SectionUninit
)

// Visibility controls whether an export is reachable from other modules.
type Visibility int

const (
	VisibilityPrivate Visibility = iota
	VisibilityPublic
)

// DataTypeTag is a scalar value-type tag used in type entries and local
// variable records. The concrete tag set is owned by the bytecode ISA;
// the linker only ever compares tags for equality.
type DataTypeTag uint8

// TypeEntry is the ordered parameter/result signature of a function.
// Equality is structural over both sequences (order matters).
type TypeEntry struct {
	Params  []DataTypeTag
	Results []DataTypeTag
}

// Equal reports whether two type entries are structurally identical.
func (t TypeEntry) Equal(o TypeEntry) bool {
	return tagSliceEqual(t.Params, o.Params) && tagSliceEqual(t.Results, o.Results)
}

func tagSliceEqual(a, b []DataTypeTag) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// LocalVariableEntry is one local variable slot: its scalar data type
// plus the size/alignment the assembler computed for it.
type LocalVariableEntry struct {
	DataType  DataTypeTag
	Size      uint32
	Alignment uint16
}

// LocalVariableListEntry is the ordered list of locals (including
// parameters, per the assembler's convention) for one function.
// Equality is structural on the sequence.
type LocalVariableListEntry struct {
	Variables []LocalVariableEntry
}

// Equal reports whether two local-variable lists are structurally
// identical.
func (l LocalVariableListEntry) Equal(o LocalVariableListEntry) bool {
	if len(l.Variables) != len(o.Variables) {
		return false
	}
	for i := range l.Variables {
		if l.Variables[i] != o.Variables[i] {
			return false
		}
	}
	return true
}

// FunctionEntry references a type and a local-variable list by index
// into the owning ImageCommonEntry's tables, and carries the opaque
// bytecode for the function body.
type FunctionEntry struct {
	TypeIndex             int
	LocalVariableListIndex int
	Code                   []byte
}

// InitedDataEntry is a data object with an initial byte payload. Its
// MemoryType describes size/alignment the way LocalVariableEntry does
// for locals.
type InitedDataEntry struct {
	Data       []byte
	MemoryType LocalVariableEntry
}

// UninitDataEntry is a data object with no initial payload -- just a
// reserved, zero-filled region described by MemoryType.
type UninitDataEntry struct {
	MemoryType LocalVariableEntry
}

// DependencyKind tags the variant of a Dependency value.
type DependencyKind int

const (
	DependencyLocal DependencyKind = iota
	DependencyRemote
	DependencyShare
	DependencyRuntime
	DependencyModule
	// DependencySystem is an external-library-only variant: a named
	// system library the runtime is expected to already provide.
	DependencySystem
)

// Dependency is the tagged variant describing where an import-module or
// external-library entry's target actually comes from.
type Dependency struct {
	Kind DependencyKind

	// Local
	Path string

	// Remote
	URL    string
	Commit string

	// Share
	Version   string
	Condition string
	Params    map[string]string

	// System (external-library only)
	SystemName string
}

// Equal reports whether two dependency values are componentwise equal.
// Two import-module (or external-library) entries are "identical" per
// the spec iff their dependency values compare Equal.
func (d Dependency) Equal(o Dependency) bool {
	if d.Kind != o.Kind {
		return false
	}
	switch d.Kind {
	case DependencyLocal:
		return d.Path == o.Path
	case DependencyRemote:
		return d.URL == o.URL && d.Commit == o.Commit
	case DependencyShare:
		if d.Version != o.Version || d.Condition != o.Condition {
			return false
		}
		if len(d.Params) != len(o.Params) {
			return false
		}
		for k, v := range d.Params {
			if ov, ok := o.Params[k]; !ok || ov != v {
				return false
			}
		}
		return true
	case DependencyRuntime:
		return true
	case DependencyModule:
		return true
	case DependencySystem:
		return d.SystemName == o.SystemName
	default:
		return false
	}
}

// IsSelfReference reports whether dep denotes the canonical
// self-reference ("this module") variant.
func IsSelfReference(dep Dependency) bool {
	return dep.Kind == DependencyModule
}

// ImportModuleEntry names a module this unit depends on and describes
// how to obtain it.
type ImportModuleEntry struct {
	Name       string
	Dependency Dependency
}

// ImportFunctionEntry is an unresolved reference to a function exported
// by some import-module.
type ImportFunctionEntry struct {
	FullName        string
	ImportModuleIndex int
	TypeIndex         int
}

// ImportDataEntry is an unresolved reference to a datum exported by some
// import-module.
type ImportDataEntry struct {
	FullName          string
	ImportModuleIndex int
	Section           DataSection
	MemoryType        LocalVariableEntry
}

// ExportFunctionEntry publishes one of this unit's internal functions
// under a full name, with a visibility controlling cross-module use.
type ExportFunctionEntry struct {
	FullName   string
	Visibility Visibility
}

// ExportDataEntry publishes one of this unit's internal data objects.
type ExportDataEntry struct {
	FullName   string
	Visibility Visibility
	Section    DataSection
}

// ExternalLibraryEntry names a C-ABI library this unit calls into.
type ExternalLibraryEntry struct {
	Name       string
	Dependency Dependency
}

// ExternalFunctionEntry is a C-ABI function imported from an external
// library, with the external calling signature given by TypeIndex.
type ExternalFunctionEntry struct {
	Name                string
	ExternalLibraryIndex int
	TypeIndex            int
}

// RelocateType identifies which remap table a relocation entry's slot
// should be rewritten against.
type RelocateType int

const (
	RelocateTypeIndex RelocateType = iota
	RelocateLocalVariableListIndex
	RelocateFunctionPublicIndex
	RelocateExternalFunctionIndex
	RelocateDataPublicIndex
)

// RelocationEntry describes one 4-byte little-endian slot inside a
// function's bytecode that encodes a table index and must be rewritten
// whenever that table is merged or renumbered.
type RelocationEntry struct {
	CodeOffset   int
	RelocateType RelocateType
}

// RelocationListEntry is the list of relocations for one function. It
// parallels the owning ImageCommonEntry's Functions slice one to one.
type RelocationListEntry struct {
	Relocations []RelocationEntry
}

// ImageKind distinguishes an as-yet-unlinked object unit from a fully
// linked shared module.
type ImageKind int

const (
	ImageKindObjectFile ImageKind = iota
	ImageKindSharedModule
)

// ImageCommonEntry is the structure shared by object units and linked
// modules: a name, a version, a kind, and every table §3 defines.
//
// Invariants (enforced by the producers in internal/tablemerge and
// internal/staticlink, not by this type itself):
//   - every ImportModuleIndex referenced anywhere is in range;
//   - every TypeIndex / LocalVariableListIndex a function references is
//     in range;
//   - every relocation's CodeOffset+4 lies inside its function's Code.
type ImageCommonEntry struct {
	Name    string
	Version string
	Kind    ImageKind

	Types             []TypeEntry
	LocalVariableLists []LocalVariableListEntry

	Functions        []FunctionEntry
	RelocationLists  []RelocationListEntry

	ReadOnlyData  []InitedDataEntry
	ReadWriteData []InitedDataEntry
	UninitData    []UninitDataEntry

	ImportModules []ImportModuleEntry

	ImportFunctions []ImportFunctionEntry
	ImportData      []ImportDataEntry

	ExportFunctions []ExportFunctionEntry
	ExportData      []ExportDataEntry

	ExternalLibraries  []ExternalLibraryEntry
	ExternalFunctions  []ExternalFunctionEntry
}

// DynamicLinkModuleEntry tells the runtime loader where to fetch one
// module of an application image index.
type DynamicLinkModuleEntry struct {
	Name     string
	Location DynamicLinkLocation
}

// DynamicLinkLocationKind tags the variant of a DynamicLinkLocation.
type DynamicLinkLocationKind int

const (
	LocationEmbedded DynamicLinkLocationKind = iota
	LocationRuntime
	LocationRemote
)

// DynamicLinkLocation describes where the loader should obtain a shared
// module's bytes from.
type DynamicLinkLocation struct {
	Kind DynamicLinkLocationKind
	Path string
	URL  string
}

// FunctionIndexEntry is one resolved (module_index, internal_index) pair
// in a module's function index list.
type FunctionIndexEntry struct {
	TargetModuleIndex   int
	TargetInternalIndex int
}

// DataIndexEntry is one resolved data reference in a module's data index
// list, additionally carrying the section the referenced datum lives in.
type DataIndexEntry struct {
	TargetModuleIndex   int
	TargetInternalIndex int
	Section             DataSection
}

// EntryPointEntry names one discovered application entry point and the
// public function index the loader should invoke.
type EntryPointEntry struct {
	Name        string
	PublicIndex int
}

// ImageIndexEntry is the output of dynamic-link indexing: everything the
// runtime loader needs to wire an application together with its
// transitive shared-module dependencies at load time.
type ImageIndexEntry struct {
	FunctionIndexLists [][]FunctionIndexEntry
	DataIndexLists     [][]DataIndexEntry

	EntryPoints []EntryPointEntry

	UnifiedExternalLibraries []ExternalLibraryEntry
	UnifiedTypes             []TypeEntry
	UnifiedExternalFunctions []ExternalFunctionEntry

	ExternalFunctionIndexLists [][]int

	DynamicLinkModules []DynamicLinkModuleEntry
}
