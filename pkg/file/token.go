package file

// TokenTag discriminates the cases of a SignatureToken. Tokens form a tree;
// see package signature for the traversal, instantiation and assignability
// algebra over this type.
type TokenTag uint8

const (
	TagBool TokenTag = iota
	TagU8
	TagU16
	TagU32
	TagU64
	TagU128
	TagU256
	TagAddress
	TagSigner
	TagTypeParameter
	TagStruct
	TagStructInstantiation
	TagVector
	TagReference
	TagMutableReference
	TagFunction
)

// Token is a Move type term. Leaves carry no children; composites carry one
// or more child tokens via Inner/Args. The zero value is the bool token
// (TagBool is 0); composites are built through the New* helpers below.
type Token struct {
	Tag TokenTag

	// TypeParameter leaf.
	TypeParamIndex TypeParameterIndex

	// Struct / StructInstantiation.
	StructIndex StructHandleIndex
	TypeArgs    []Token // instantiation arguments, empty for a bare Struct

	// Vector / Reference / MutableReference.
	Inner *Token

	// Function.
	FunctionArgs    []Token
	FunctionResults []Token
	FunctionAbility AbilitySet
}

func NewBoolToken() Token   { return Token{Tag: TagBool} }
func NewU8Token() Token     { return Token{Tag: TagU8} }
func NewU16Token() Token    { return Token{Tag: TagU16} }
func NewU32Token() Token    { return Token{Tag: TagU32} }
func NewU64Token() Token    { return Token{Tag: TagU64} }
func NewU128Token() Token   { return Token{Tag: TagU128} }
func NewU256Token() Token   { return Token{Tag: TagU256} }
func NewAddressToken() Token { return Token{Tag: TagAddress} }
func NewSignerToken() Token { return Token{Tag: TagSigner} }

func NewTypeParameterToken(idx TypeParameterIndex) Token {
	return Token{Tag: TagTypeParameter, TypeParamIndex: idx}
}

func NewStructToken(idx StructHandleIndex) Token {
	return Token{Tag: TagStruct, StructIndex: idx}
}

func NewStructInstantiationToken(idx StructHandleIndex, args []Token) Token {
	return Token{Tag: TagStructInstantiation, StructIndex: idx, TypeArgs: args}
}

func NewVectorToken(elem Token) Token {
	return Token{Tag: TagVector, Inner: &elem}
}

func NewReferenceToken(inner Token) Token {
	return Token{Tag: TagReference, Inner: &inner}
}

func NewMutableReferenceToken(inner Token) Token {
	return Token{Tag: TagMutableReference, Inner: &inner}
}

func NewFunctionToken(args, results []Token, ability AbilitySet) Token {
	return Token{Tag: TagFunction, FunctionArgs: args, FunctionResults: results, FunctionAbility: ability}
}

// IsInteger reports whether the token is one of the six integer leaf kinds.
func (t Token) IsInteger() bool {
	switch t.Tag {
	case TagU8, TagU16, TagU32, TagU64, TagU128, TagU256:
		return true
	default:
		return false
	}
}

// IsReference reports whether the token is an immutable or mutable reference.
func (t Token) IsReference() bool {
	return t.Tag == TagReference || t.Tag == TagMutableReference
}

// IsMutableReference reports whether the token is a mutable reference.
func (t Token) IsMutableReference() bool {
	return t.Tag == TagMutableReference
}

// IsSigner reports whether the token is the signer leaf.
func (t Token) IsSigner() bool {
	return t.Tag == TagSigner
}

// IsValidForConstant reports whether the token may type a module or script
// constant: bool, any integer width, address, and vectors thereof,
// recursively.
func (t Token) IsValidForConstant() bool {
	switch t.Tag {
	case TagBool, TagAddress:
		return true
	default:
		if t.IsInteger() {
			return true
		}
		if t.Tag == TagVector {
			return t.Inner.IsValidForConstant()
		}
		return false
	}
}

// StructIdx returns the struct handle index for Struct/StructInstantiation
// tokens and false otherwise.
func (t Token) StructIdx() (StructHandleIndex, bool) {
	if t.Tag == TagStruct || t.Tag == TagStructInstantiation {
		return t.StructIndex, true
	}
	return 0, false
}
