package file

// ModuleHandle names a module by its publishing account's address and its
// name, both resolved through the identifier/address pools.
type ModuleHandle struct {
	Address AddressIdentifierIndex
	Name    IdentifierIndex
}

// StructTypeParameter is a type formal in a struct's declaration: the
// abilities required of the actual argument, and whether the parameter is
// phantom (does not contribute to the struct's own ability derivation).
type StructTypeParameter struct {
	Constraints AbilitySet
	IsPhantom   bool
}

// StructHandle is a by-reference name for a user-defined type, possibly
// defined in another module. It carries enough information (abilities,
// type-parameter kinds) for the verifier and interpreter to reason about
// the type without loading its definition.
type StructHandle struct {
	Module         ModuleHandleIndex
	Name           IdentifierIndex
	Abilities      AbilitySet
	TypeParameters []StructTypeParameter
}

// TypeParamConstraints returns the declared constraint of each type parameter.
func (h StructHandle) TypeParamConstraints() []AbilitySet {
	out := make([]AbilitySet, len(h.TypeParameters))
	for i, p := range h.TypeParameters {
		out[i] = p.Constraints
	}
	return out
}

// FunctionAttribute is metadata attached to a function handle that the
// dependency verifier cross-checks against the matching function
// definition's own attributes.
type FunctionAttribute uint8

const (
	// AttributePersistent marks the function as treated like a public
	// function across module upgrades.
	AttributePersistent FunctionAttribute = iota
	// AttributeModuleLock establishes a module reentrancy lock for the
	// duration of the function's execution.
	AttributeModuleLock
)

// AccessKind distinguishes a read access specifier from a write one.
type AccessKind uint8

const (
	AccessReads AccessKind = iota
	AccessWrites
)

// ResourceSpecifier approximates the set of resource types an access
// specifier covers.
type ResourceSpecifier struct {
	Any             bool
	DeclaredAtAddr  *AddressIdentifierIndex
	DeclaredInMod   *ModuleHandleIndex
	Resource        *StructHandleIndex
	ResourceInst    *StructHandleIndex
	ResourceInstArg *SignatureIndex
}

// AddressSpecifier names the address an access specifier's resource lives
// under: a literal address, a function parameter, or any address.
type AddressSpecifier struct {
	Any     bool
	Literal *AddressIdentifierIndex
	Param   *LocalIndex
}

// AccessSpecifier approximates a read or write a function performs against
// global storage; used by the verifier, carried here only as data.
type AccessSpecifier struct {
	Kind     AccessKind
	Resource ResourceSpecifier
	Address  AddressSpecifier
	Negated  bool
}

// FunctionHandle is a by-reference name for a function, possibly defined
// in another module, carrying its full signature for link-time and
// call-site type checking.
type FunctionHandle struct {
	Module           ModuleHandleIndex
	Name             IdentifierIndex
	Parameters       SignatureIndex
	Return           SignatureIndex
	TypeParameters   []AbilitySet
	AccessSpecifiers []AccessSpecifier // nil means "accesses anything"
	Attributes       []FunctionAttribute
}

// HasAttribute reports whether the handle carries the given attribute.
func (h FunctionHandle) HasAttribute(a FunctionAttribute) bool {
	for _, x := range h.Attributes {
		if x == a {
			return true
		}
	}
	return false
}

// FieldHandle names a field by its owning struct definition and its
// declaration-order offset.
type FieldHandle struct {
	Owner StructDefinitionIndex
	Field MemberCount
}

// VariantFieldHandle names a field shared by one or more variants of a
// variant-capable struct (v7+).
type VariantFieldHandle struct {
	StructIndex StructDefinitionIndex
	Variants    []uint16 // variant tags sharing this field
	Field       MemberCount
}

// StructVariantHandle names a single variant of a variant-capable struct (v7+).
type StructVariantHandle struct {
	StructIndex StructDefinitionIndex
	Variant     uint16
}

// StructDefInstantiation pairs a struct definition with a type-argument list.
type StructDefInstantiation struct {
	Def      StructDefinitionIndex
	TypeArgs SignatureIndex
}

// StructVariantInstantiation pairs a struct-variant handle with a type-argument list.
type StructVariantInstantiation struct {
	Handle   StructVariantHandleIndex
	TypeArgs SignatureIndex
}

// FunctionInstantiation pairs a function handle with a type-argument list.
type FunctionInstantiation struct {
	Handle   FunctionHandleIndex
	TypeArgs SignatureIndex
}

// FieldInstantiation pairs a field handle with a type-argument list (the
// owning struct's instantiation).
type FieldInstantiation struct {
	Handle   FieldHandleIndex
	TypeArgs SignatureIndex
}

// VariantFieldInstantiation pairs a variant-field handle with a type-argument list.
type VariantFieldInstantiation struct {
	Handle   VariantFieldHandleIndex
	TypeArgs SignatureIndex
}
