package file

import (
	"fmt"

	"github.com/pkg/errors"
)

// ModuleID is a module's identity: the address it is published under and
// its name.
type ModuleID struct {
	Address [32]byte
	Name    string
}

func (m ModuleID) String() string {
	return fmt.Sprintf("%x::%s", m.Address, m.Name)
}

// Metadata is an opaque, tool-defined key/value blob attached to a module
// or script; the interpreter never interprets its contents.
type Metadata struct {
	Key   []byte
	Value []byte
}

// CompiledModule is the published unit of code: a self-contained table set
// plus the struct and function definitions implemented locally. All
// indices used by its code and tables are assumed to have been checked by
// the (external) verifier to fall within their target table's bounds;
// accessors below panic on an out-of-range index since, per the file
// format model's contract, that is a bug in the caller, not a recoverable
// runtime condition.
type CompiledModule struct {
	Version uint32

	SelfModuleHandleIdx ModuleHandleIndex

	ModuleHandles   []ModuleHandle
	StructHandles   []StructHandle
	FunctionHandles []FunctionHandle
	FieldHandles    []FieldHandle
	FriendDecls     []ModuleHandle

	StructDefInstantiations []StructDefInstantiation
	FunctionInstantiations  []FunctionInstantiation
	FieldInstantiations     []FieldInstantiation

	Signatures [][]Token

	Identifiers        []string
	AddressIdentifiers [][32]byte
	ConstantPool       []Constant

	Metadata []Metadata

	StructDefs   []StructDefinition
	FunctionDefs []FunctionDefinition

	// Since version 7.
	StructVariantHandles        []StructVariantHandle
	StructVariantInstantiations []StructVariantInstantiation
	VariantFieldHandles         []VariantFieldHandle
	VariantFieldInstantiations  []VariantFieldInstantiation
}

// CompiledScript is a one-shot, unpublished transaction payload: like a
// module but with a single entry function (Code) instead of a definition
// table, and no self-handle (it is not itself a module).
type CompiledScript struct {
	Version uint32

	ModuleHandles   []ModuleHandle
	StructHandles   []StructHandle
	FunctionHandles []FunctionHandle

	FunctionInstantiations []FunctionInstantiation

	Signatures [][]Token

	Identifiers        []string
	AddressIdentifiers [][32]byte
	ConstantPool       []Constant

	Metadata []Metadata

	Code           CodeUnit
	TypeParameters []AbilitySet
	Parameters     SignatureIndex

	AccessSpecifiers []AccessSpecifier // nil: unconstrained
}

// MainIndex is the conventional function-definition index `main` occupies
// when a script is converted to a single-function module.
const MainIndex FunctionDefinitionIndex = 0

func oob(kind string, idx int, n int) {
	panic(fmt.Sprintf("file: %s index %d out of range (table has %d entries): verifier precondition violated", kind, idx, n))
}

// ModuleHandleAt returns the module handle at idx, panicking if idx is out of range.
func (m *CompiledModule) ModuleHandleAt(idx ModuleHandleIndex) *ModuleHandle {
	if int(idx) >= len(m.ModuleHandles) {
		oob("module handle", int(idx), len(m.ModuleHandles))
	}
	return &m.ModuleHandles[idx]
}

func (m *CompiledModule) StructHandleAt(idx StructHandleIndex) *StructHandle {
	if int(idx) >= len(m.StructHandles) {
		oob("struct handle", int(idx), len(m.StructHandles))
	}
	return &m.StructHandles[idx]
}

func (m *CompiledModule) FunctionHandleAt(idx FunctionHandleIndex) *FunctionHandle {
	if int(idx) >= len(m.FunctionHandles) {
		oob("function handle", int(idx), len(m.FunctionHandles))
	}
	return &m.FunctionHandles[idx]
}

func (m *CompiledModule) FieldHandleAt(idx FieldHandleIndex) *FieldHandle {
	if int(idx) >= len(m.FieldHandles) {
		oob("field handle", int(idx), len(m.FieldHandles))
	}
	return &m.FieldHandles[idx]
}

func (m *CompiledModule) VariantFieldHandleAt(idx VariantFieldHandleIndex) *VariantFieldHandle {
	if int(idx) >= len(m.VariantFieldHandles) {
		oob("variant field handle", int(idx), len(m.VariantFieldHandles))
	}
	return &m.VariantFieldHandles[idx]
}

func (m *CompiledModule) StructVariantHandleAt(idx StructVariantHandleIndex) *StructVariantHandle {
	if int(idx) >= len(m.StructVariantHandles) {
		oob("struct variant handle", int(idx), len(m.StructVariantHandles))
	}
	return &m.StructVariantHandles[idx]
}

func (m *CompiledModule) StructDefInstantiationAt(idx StructDefInstantiationIndex) *StructDefInstantiation {
	if int(idx) >= len(m.StructDefInstantiations) {
		oob("struct def instantiation", int(idx), len(m.StructDefInstantiations))
	}
	return &m.StructDefInstantiations[idx]
}

func (m *CompiledModule) FunctionInstantiationAt(idx FunctionInstantiationIndex) *FunctionInstantiation {
	if int(idx) >= len(m.FunctionInstantiations) {
		oob("function instantiation", int(idx), len(m.FunctionInstantiations))
	}
	return &m.FunctionInstantiations[idx]
}

func (m *CompiledModule) FieldInstantiationAt(idx FieldInstantiationIndex) *FieldInstantiation {
	if int(idx) >= len(m.FieldInstantiations) {
		oob("field instantiation", int(idx), len(m.FieldInstantiations))
	}
	return &m.FieldInstantiations[idx]
}

func (m *CompiledModule) VariantFieldInstantiationAt(idx VariantFieldInstantiationIndex) *VariantFieldInstantiation {
	if int(idx) >= len(m.VariantFieldInstantiations) {
		oob("variant field instantiation", int(idx), len(m.VariantFieldInstantiations))
	}
	return &m.VariantFieldInstantiations[idx]
}

func (m *CompiledModule) StructVariantInstantiationAt(idx StructVariantInstantiationIndex) *StructVariantInstantiation {
	if int(idx) >= len(m.StructVariantInstantiations) {
		oob("struct variant instantiation", int(idx), len(m.StructVariantInstantiations))
	}
	return &m.StructVariantInstantiations[idx]
}

func (m *CompiledModule) SignatureAt(idx SignatureIndex) []Token {
	if int(idx) >= len(m.Signatures) {
		oob("signature", int(idx), len(m.Signatures))
	}
	return m.Signatures[idx]
}

func (m *CompiledModule) IdentifierAt(idx IdentifierIndex) string {
	if int(idx) >= len(m.Identifiers) {
		oob("identifier", int(idx), len(m.Identifiers))
	}
	return m.Identifiers[idx]
}

func (m *CompiledModule) AddressIdentifierAt(idx AddressIdentifierIndex) [32]byte {
	if int(idx) >= len(m.AddressIdentifiers) {
		oob("address identifier", int(idx), len(m.AddressIdentifiers))
	}
	return m.AddressIdentifiers[idx]
}

func (m *CompiledModule) ConstantAt(idx ConstantPoolIndex) *Constant {
	if int(idx) >= len(m.ConstantPool) {
		oob("constant", int(idx), len(m.ConstantPool))
	}
	return &m.ConstantPool[idx]
}

func (m *CompiledModule) StructDefAt(idx StructDefinitionIndex) *StructDefinition {
	if int(idx) >= len(m.StructDefs) {
		oob("struct definition", int(idx), len(m.StructDefs))
	}
	return &m.StructDefs[idx]
}

func (m *CompiledModule) FunctionDefAt(idx FunctionDefinitionIndex) *FunctionDefinition {
	if int(idx) >= len(m.FunctionDefs) {
		oob("function definition", int(idx), len(m.FunctionDefs))
	}
	return &m.FunctionDefs[idx]
}

// SelfID returns the module's own identity derived from the self handle
// and the address/identifier pools.
func (m *CompiledModule) SelfID() ModuleID {
	return m.ModuleIDForHandle(m.ModuleHandleAt(m.SelfModuleHandleIdx))
}

// ModuleIDForHandle resolves a module handle's identity via this module's
// address and identifier pools. The handle need not be the self handle:
// any module handle recorded in this module's table (including imports)
// resolves correctly since the address/identifier pools are shared across
// all handles in the table.
func (m *CompiledModule) ModuleIDForHandle(h *ModuleHandle) ModuleID {
	return ModuleID{
		Address: m.AddressIdentifierAt(h.Address),
		Name:    m.IdentifierAt(h.Name),
	}
}

// KindCount returns the number of entries in the table of the given kind.
func (m *CompiledModule) KindCount(kind TableKind) int {
	switch kind {
	case KindModuleHandle:
		return len(m.ModuleHandles)
	case KindStructHandle:
		return len(m.StructHandles)
	case KindFunctionHandle:
		return len(m.FunctionHandles)
	case KindFieldHandle:
		return len(m.FieldHandles)
	case KindStructDefInstantiation:
		return len(m.StructDefInstantiations)
	case KindFunctionInstantiation:
		return len(m.FunctionInstantiations)
	case KindFieldInstantiation:
		return len(m.FieldInstantiations)
	case KindSignature:
		return len(m.Signatures)
	case KindIdentifier:
		return len(m.Identifiers)
	case KindAddressIdentifier:
		return len(m.AddressIdentifiers)
	case KindConstantPool:
		return len(m.ConstantPool)
	case KindStructDefinition:
		return len(m.StructDefs)
	case KindFunctionDefinition:
		return len(m.FunctionDefs)
	case KindStructVariantHandle:
		return len(m.StructVariantHandles)
	case KindStructVariantInstantiation:
		return len(m.StructVariantInstantiations)
	case KindVariantFieldHandle:
		return len(m.VariantFieldHandles)
	case KindVariantFieldInstantiation:
		return len(m.VariantFieldInstantiations)
	default:
		panic(fmt.Sprintf("file: unknown table kind %d", kind))
	}
}

// --- CompiledScript accessors (a narrower subset of the module's) ---

func (s *CompiledScript) ModuleHandleAt(idx ModuleHandleIndex) *ModuleHandle {
	if int(idx) >= len(s.ModuleHandles) {
		oob("module handle", int(idx), len(s.ModuleHandles))
	}
	return &s.ModuleHandles[idx]
}

func (s *CompiledScript) FunctionHandleAt(idx FunctionHandleIndex) *FunctionHandle {
	if int(idx) >= len(s.FunctionHandles) {
		oob("function handle", int(idx), len(s.FunctionHandles))
	}
	return &s.FunctionHandles[idx]
}

func (s *CompiledScript) FunctionInstantiationAt(idx FunctionInstantiationIndex) *FunctionInstantiation {
	if int(idx) >= len(s.FunctionInstantiations) {
		oob("function instantiation", int(idx), len(s.FunctionInstantiations))
	}
	return &s.FunctionInstantiations[idx]
}

func (s *CompiledScript) SignatureAt(idx SignatureIndex) []Token {
	if int(idx) >= len(s.Signatures) {
		oob("signature", int(idx), len(s.Signatures))
	}
	return s.Signatures[idx]
}

func (s *CompiledScript) IdentifierAt(idx IdentifierIndex) string {
	if int(idx) >= len(s.Identifiers) {
		oob("identifier", int(idx), len(s.Identifiers))
	}
	return s.Identifiers[idx]
}

func (s *CompiledScript) AddressIdentifierAt(idx AddressIdentifierIndex) [32]byte {
	if int(idx) >= len(s.AddressIdentifiers) {
		oob("address identifier", int(idx), len(s.AddressIdentifiers))
	}
	return s.AddressIdentifiers[idx]
}

func (s *CompiledScript) ConstantAt(idx ConstantPoolIndex) *Constant {
	if int(idx) >= len(s.ConstantPool) {
		oob("constant", int(idx), len(s.ConstantPool))
	}
	return &s.ConstantPool[idx]
}

// ModuleIDForHandle resolves a module handle's identity via this script's
// address and identifier pools.
func (s *CompiledScript) ModuleIDForHandle(h *ModuleHandle) ModuleID {
	return ModuleID{
		Address: s.AddressIdentifierAt(h.Address),
		Name:    s.IdentifierAt(h.Name),
	}
}

// VersionInRange validates a module's format version against the
// implementation's supported range, per §6 "version-dependent table set".
func VersionInRange(version, min, max uint32) error {
	if version < min || version > max {
		return errors.Errorf("module format version %d outside supported range [%d, %d]", version, min, max)
	}
	return nil
}

// MinSupportedVersion and MaxSupportedVersion bound the module versions
// this interpreter accepts. Version 7 introduces the variant tables.
const (
	MinSupportedVersion uint32 = 1
	MaxSupportedVersion uint32 = 7
	VariantsVersion      uint32 = 7
)

// HasVariants reports whether this module's version carries the variant
// tables (struct-variant/variant-field handles and instantiations).
func (m *CompiledModule) HasVariants() bool {
	return m.Version >= VariantsVersion
}
