// Package values implements the runtime value representation that flows
// through the operand stack and locals frame: the tagged Value union,
// struct/vector containers, references with owner-tracked mutation, and
// function-value closures.
package values

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Kind discriminates the cases of a Value.
type Kind uint8

const (
	KindU8 Kind = iota
	KindU16
	KindU32
	KindU64
	KindU128
	KindU256
	KindBool
	KindAddress
	KindSigner
	KindVector
	KindStruct
	KindReference
	KindMutableReference
	KindClosure
)

func (k Kind) String() string {
	switch k {
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindU128:
		return "u128"
	case KindU256:
		return "u256"
	case KindBool:
		return "bool"
	case KindAddress:
		return "address"
	case KindSigner:
		return "signer"
	case KindVector:
		return "vector"
	case KindStruct:
		return "struct"
	case KindReference:
		return "&"
	case KindMutableReference:
		return "&mut"
	case KindClosure:
		return "closure"
	default:
		return "?"
	}
}

// Address is the 32-byte account address type.
type Address [32]byte

// Vector is a homogeneous, growable container. It records no element
// type; runtime type checking of element operations is the paranoid
// checker's job, not this package's.
type Vector struct {
	Elems []Value
}

// Struct is an ordered field vector, optionally tagged with a variant
// discriminant for variant-capable types (v7+). VariantTag is -1 for an
// ordinary (non-variant) struct.
type Struct struct {
	Fields     []Value
	VariantTag int32
}

// NewStruct builds an ordinary, non-variant struct.
func NewStruct(fields []Value) *Struct {
	return &Struct{Fields: fields, VariantTag: -1}
}

// NewVariantStruct builds a struct tagged with the given variant.
func NewVariantStruct(tag uint16, fields []Value) *Struct {
	return &Struct{Fields: fields, VariantTag: int32(tag)}
}

// IsVariant reports whether s carries a variant tag.
func (s *Struct) IsVariant() bool {
	return s.VariantTag >= 0
}

// Closure is a captured function value: the identity of the underlying
// function handle (opaque here — the interpreter's Resolver owns what
// FuncRef actually means), the capture mask used to build it, and the
// captured argument values in mask-bit order.
type Closure struct {
	FuncRef        interface{} // resolver-defined function identity
	Mask           uint64
	CapturedValues []Value
	Abilities      uint8 // snapshot of the closure's own ability set (file.AbilitySet)
}

// Value is a tagged runtime value. Exactly one of the typed fields is
// meaningful for a given Kind; callers must check Kind before reading.
type Value struct {
	kind Kind

	u8  uint8
	u16 uint16
	u32 uint32
	u64 uint64
	big *uint256.Int // u128 (range-checked to 2^128-1) and u256

	b    bool
	addr Address

	vec    *Vector
	strct  *Struct
	ref    Reference
	clos   *Closure
}

func (v Value) Kind() Kind { return v.kind }

func NewU8(x uint8) Value   { return Value{kind: KindU8, u8: x} }
func NewU16(x uint16) Value { return Value{kind: KindU16, u16: x} }
func NewU32(x uint32) Value { return Value{kind: KindU32, u32: x} }
func NewU64(x uint64) Value { return Value{kind: KindU64, u64: x} }

// NewU128 wraps x, which must already be range-checked to fit in 128 bits;
// the interpreter's arithmetic/cast opcodes are responsible for that check
// (see §4.12: both u128 and u256 share uint256.Int as storage).
func NewU128(x *uint256.Int) Value { return Value{kind: KindU128, big: x} }
func NewU256(x *uint256.Int) Value { return Value{kind: KindU256, big: x} }

func NewBool(b bool) Value       { return Value{kind: KindBool, b: b} }
func NewAddress(a Address) Value { return Value{kind: KindAddress, addr: a} }
func NewSigner(a Address) Value  { return Value{kind: KindSigner, addr: a} }

func NewVector(elems []Value) Value { return Value{kind: KindVector, vec: &Vector{Elems: elems}} }
func NewStructValue(s *Struct) Value { return Value{kind: KindStruct, strct: s} }
func NewClosureValue(c *Closure) Value { return Value{kind: KindClosure, clos: c} }

func NewReference(r Reference) Value        { return Value{kind: KindReference, ref: r} }
func NewMutableReference(r Reference) Value { return Value{kind: KindMutableReference, ref: r} }

func (v Value) U8() uint8        { v.mustBe(KindU8); return v.u8 }
func (v Value) U16() uint16      { v.mustBe(KindU16); return v.u16 }
func (v Value) U32() uint32      { v.mustBe(KindU32); return v.u32 }
func (v Value) U64() uint64      { v.mustBe(KindU64); return v.u64 }
func (v Value) U128() *uint256.Int { v.mustBe(KindU128); return v.big }
func (v Value) U256() *uint256.Int { v.mustBe(KindU256); return v.big }
func (v Value) Bool() bool       { v.mustBe(KindBool); return v.b }
func (v Value) Address() Address {
	if v.kind != KindAddress && v.kind != KindSigner {
		panic(fmt.Sprintf("values: expected address/signer, got %s", v.kind))
	}
	return v.addr
}
func (v Value) Vector() *Vector { v.mustBe(KindVector); return v.vec }
func (v Value) Struct() *Struct { v.mustBe(KindStruct); return v.strct }
func (v Value) Closure() *Closure { v.mustBe(KindClosure); return v.clos }
func (v Value) Reference() Reference {
	if v.kind != KindReference && v.kind != KindMutableReference {
		panic(fmt.Sprintf("values: expected reference, got %s", v.kind))
	}
	return v.ref
}

func (v Value) mustBe(k Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("values: expected %s, got %s", k, v.kind))
	}
}

// IsInteger reports whether v is one of the six integer kinds.
func (v Value) IsInteger() bool {
	switch v.kind {
	case KindU8, KindU16, KindU32, KindU64, KindU128, KindU256:
		return true
	default:
		return false
	}
}

// AsUint256 widens any integer kind to a uint256.Int for uniform
// arithmetic; callers must already know (via the paranoid checker or
// verifier-enforced same-type operand rule) that this is a sound widening.
func (v Value) AsUint256() *uint256.Int {
	switch v.kind {
	case KindU8:
		return uint256.NewInt(uint64(v.u8))
	case KindU16:
		return uint256.NewInt(uint64(v.u16))
	case KindU32:
		return uint256.NewInt(uint64(v.u32))
	case KindU64:
		return uint256.NewInt(v.u64)
	case KindU128, KindU256:
		return new(uint256.Int).Set(v.big)
	default:
		panic(fmt.Sprintf("values: AsUint256 on non-integer kind %s", v.kind))
	}
}

// Copy returns a deep clone of v, following vectors, structs and closures.
// The interpreter calls this only where the paranoid checker (or, in
// release builds, the trusted verifier) has already established the value
// carries the copy ability.
func (v Value) Copy() Value {
	switch v.kind {
	case KindVector:
		elems := make([]Value, len(v.vec.Elems))
		for i, e := range v.vec.Elems {
			elems[i] = e.Copy()
		}
		return NewVector(elems)
	case KindStruct:
		fields := make([]Value, len(v.strct.Fields))
		for i, f := range v.strct.Fields {
			fields[i] = f.Copy()
		}
		return Value{kind: KindStruct, strct: &Struct{Fields: fields, VariantTag: v.strct.VariantTag}}
	case KindU128, KindU256:
		return Value{kind: v.kind, big: new(uint256.Int).Set(v.big)}
	case KindClosure:
		captured := make([]Value, len(v.clos.CapturedValues))
		for i, c := range v.clos.CapturedValues {
			captured[i] = c.Copy()
		}
		return Value{kind: KindClosure, clos: &Closure{
			FuncRef: v.clos.FuncRef, Mask: v.clos.Mask, CapturedValues: captured, Abilities: v.clos.Abilities,
		}}
	default:
		// Scalars (including references, which copy by aliasing the same
		// target) and addresses/signers are plain value copies already.
		return v
	}
}

// Equal implements Eq/Neq's value equality. References compare by
// referent equality; a reference whose referent can no longer be read
// compares unequal.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindU8:
		return a.u8 == b.u8
	case KindU16:
		return a.u16 == b.u16
	case KindU32:
		return a.u32 == b.u32
	case KindU64:
		return a.u64 == b.u64
	case KindU128, KindU256:
		return a.big.Eq(b.big)
	case KindBool:
		return a.b == b.b
	case KindAddress, KindSigner:
		return a.addr == b.addr
	case KindVector:
		if len(a.vec.Elems) != len(b.vec.Elems) {
			return false
		}
		for i := range a.vec.Elems {
			if !Equal(a.vec.Elems[i], b.vec.Elems[i]) {
				return false
			}
		}
		return true
	case KindStruct:
		if a.strct.VariantTag != b.strct.VariantTag || len(a.strct.Fields) != len(b.strct.Fields) {
			return false
		}
		for i := range a.strct.Fields {
			if !Equal(a.strct.Fields[i], b.strct.Fields[i]) {
				return false
			}
		}
		return true
	case KindReference, KindMutableReference:
		av, aerr := a.ref.Get()
		bv, berr := b.ref.Get()
		if aerr != nil || berr != nil {
			return false
		}
		return Equal(av, bv)
	default:
		panic(fmt.Sprintf("values: equality undefined for kind %s", a.kind))
	}
}
