package file

// Visibility controls whether a function may be called from outside its
// declaring module, and if so, by whom.
type Visibility uint8

const (
	VisibilityPrivate Visibility = iota
	VisibilityPublic
	VisibilityFriend
)

// FieldDefinition is a single field's name and declared type.
type FieldDefinition struct {
	Name IdentifierIndex
	Type Token
}

// VariantDefinition is a named case of a variant-capable struct, carrying
// its own field list.
type VariantDefinition struct {
	Name   IdentifierIndex
	Fields []FieldDefinition
}

// StructFieldInformation is either a flat field list (an ordinary struct)
// or a list of variants (a variant/enum struct, v7+).
type StructFieldInformation struct {
	Native          bool
	Declared        []FieldDefinition
	DeclaredVariants []VariantDefinition
}

// IsVariant reports whether the struct is declared with variants rather
// than a flat field list.
func (s StructFieldInformation) IsVariant() bool {
	return s.DeclaredVariants != nil
}

// StructDefinition is the local implementation of a struct named by a
// StructHandle: its handle plus field layout.
type StructDefinition struct {
	Handle StructHandleIndex
	Field  StructFieldInformation
}

// FunctionDefinition is the local implementation of a function named by a
// FunctionHandle: visibility, entry flag, acquired resources, and the code
// unit (absent for native functions).
type FunctionDefinition struct {
	Handle          FunctionHandleIndex
	Visibility      Visibility
	IsEntry         bool
	AcquiresGlobal  []StructDefinitionIndex
	Code            *CodeUnit // nil for native functions
	IsNative        bool
}

// Constant is a module- or script-level literal value. Its Type must
// satisfy Token.IsValidForConstant; Value is the little-endian BCS-style
// byte encoding of the literal (opaque here: deserialization is out of
// scope, the interpreter only needs to know this blob exists and its type).
type Constant struct {
	Type  Token
	Value []byte
}

// CodeUnit is a function body: the signature index of its locals layout
// (including the parameters occupying the first ParamCount slots) and its
// instruction vector.
type CodeUnit struct {
	Locals SignatureIndex
	Code   []Bytecode
}
