// Package file implements the in-memory, table-indexed representation of a
// compiled Move module or script: the binary file format model described in
// the core VM specification. Deserialization and verification of this
// representation are external concerns; this package only defines the
// shape and the index-safe accessors over it.
package file

// Index types are distinct nominal types so that, for instance, a
// ModuleHandleIndex can never be passed where a FunctionHandleIndex is
// expected, even though both are backed by uint16.

// ModuleHandleIndex points into CompiledModule.ModuleHandles / CompiledScript.ModuleHandles.
type ModuleHandleIndex uint16

// StructHandleIndex points into the struct handle table.
type StructHandleIndex uint16

// FunctionHandleIndex points into the function handle table.
type FunctionHandleIndex uint16

// FieldHandleIndex points into the field handle table.
type FieldHandleIndex uint16

// VariantFieldHandleIndex points into the variant-field handle table (v7+).
type VariantFieldHandleIndex uint16

// StructVariantHandleIndex points into the struct-variant handle table (v7+).
type StructVariantHandleIndex uint16

// StructDefInstantiationIndex points into the struct-definition instantiation table.
type StructDefInstantiationIndex uint16

// FunctionInstantiationIndex points into the function instantiation table.
type FunctionInstantiationIndex uint16

// FieldInstantiationIndex points into the field instantiation table.
type FieldInstantiationIndex uint16

// VariantFieldInstantiationIndex points into the variant-field instantiation table (v7+).
type VariantFieldInstantiationIndex uint16

// StructVariantInstantiationIndex points into the struct-variant instantiation table (v7+).
type StructVariantInstantiationIndex uint16

// IdentifierIndex points into the identifier pool.
type IdentifierIndex uint16

// AddressIdentifierIndex points into the address identifier pool.
type AddressIdentifierIndex uint16

// ConstantPoolIndex points into the constant pool.
type ConstantPoolIndex uint16

// SignatureIndex points into the signature pool; a signature is a list of
// signature tokens (e.g. a function's parameter or return list, or a
// locals layout).
type SignatureIndex uint16

// StructDefinitionIndex points into the struct definition table.
type StructDefinitionIndex uint16

// FunctionDefinitionIndex points into the function definition table.
type FunctionDefinitionIndex uint16

// TypeParameterIndex identifies a type parameter by its position in the
// enclosing struct's or function's type-parameter list.
type TypeParameterIndex uint16

// LocalIndex identifies a local slot within a function's locals frame.
type LocalIndex uint16

// CodeOffset identifies an instruction position within a function's code unit.
type CodeOffset uint16

// MemberCount is a small bound used for field/variant counts within a single struct.
type MemberCount uint16

// TableKind enumerates the categories of table a compiled module or script carries.
// Used by KindCount to report table sizes by category (file-format model contract, §4.1).
type TableKind uint8

const (
	KindModuleHandle TableKind = iota
	KindStructHandle
	KindFunctionHandle
	KindFieldHandle
	KindStructDefInstantiation
	KindFunctionInstantiation
	KindFieldInstantiation
	KindSignature
	KindIdentifier
	KindAddressIdentifier
	KindConstantPool
	KindStructDefinition
	KindFunctionDefinition
	KindStructVariantHandle
	KindStructVariantInstantiation
	KindVariantFieldHandle
	KindVariantFieldInstantiation
)
