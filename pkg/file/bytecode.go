package file

import "github.com/holiman/uint256"

// Op identifies a bytecode instruction kind. Every Op belongs to exactly
// one of the instruction groups named in the core specification.
type Op uint8

const (
	// --- stack and local ---
	OpPop Op = iota
	OpLdU8
	OpLdU16
	OpLdU32
	OpLdU64
	OpLdU128
	OpLdU256
	OpLdTrue
	OpLdFalse
	OpLdConst
	OpCopyLoc
	OpMoveLoc
	OpStLoc

	// --- control flow ---
	OpRet
	OpAbort
	OpBrTrue
	OpBrFalse
	OpBranch
	OpCall
	OpCallGeneric

	// --- reference ---
	OpReadRef
	OpWriteRef
	OpFreezeRef
	OpMutBorrowLoc
	OpImmBorrowLoc
	OpMutBorrowField
	OpImmBorrowField
	OpMutBorrowFieldGeneric
	OpImmBorrowFieldGeneric

	// --- struct ---
	OpPack
	OpPackGeneric
	OpUnpack
	OpUnpackGeneric

	// --- variant (v7+) ---
	OpPackVariant
	OpPackVariantGeneric
	OpUnpackVariant
	OpUnpackVariantGeneric
	OpTestVariant
	OpTestVariantGeneric
	OpMutBorrowVariantField
	OpImmBorrowVariantField
	OpMutBorrowVariantFieldGeneric
	OpImmBorrowVariantFieldGeneric

	// --- arithmetic / bitwise / boolean / comparison ---
	OpAdd
	OpSub
	OpMul
	OpMod
	OpDiv
	OpBitOr
	OpBitAnd
	OpXor
	OpShl
	OpShr
	OpOr
	OpAnd
	OpNot
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLe
	OpGe

	// --- casting ---
	OpCastU8
	OpCastU16
	OpCastU32
	OpCastU64
	OpCastU128
	OpCastU256

	// --- global storage ---
	OpMutBorrowGlobal
	OpMutBorrowGlobalGeneric
	OpImmBorrowGlobal
	OpImmBorrowGlobalGeneric
	OpExists
	OpExistsGeneric
	OpMoveFrom
	OpMoveFromGeneric
	OpMoveTo
	OpMoveToGeneric

	// --- vector ---
	OpVecPack
	OpVecLen
	OpVecImmBorrow
	OpVecMutBorrow
	OpVecPushBack
	OpVecPopBack
	OpVecUnpack
	OpVecSwap

	// --- closure ---
	OpPackClosure
	OpPackClosureGeneric
	OpCallClosure

	OpNop
)

// ClosureMask is a 64-bit bitset whose set bits index the captured formal
// parameters of a closure's target function, in positional order.
type ClosureMask uint64

// PopCount returns the number of captured parameters.
func (m ClosureMask) PopCount() int {
	count := 0
	for m != 0 {
		count += int(m & 1)
		m >>= 1
	}
	return count
}

// IsCaptured reports whether formal parameter i is captured by this mask.
func (m ClosureMask) IsCaptured(i int) bool {
	return m&(1<<uint(i)) != 0
}

// Bytecode is a single instruction: an Op tag plus whichever operand
// fields that Op uses. Unused fields are left zero. This mirrors the
// dense tagged-variant representation the design notes call for; a
// switch on Op is a perfectly adequate dispatch and needs no separate
// jump table.
type Bytecode struct {
	Op Op

	// LdU8/LdU16/LdU32/LdU64 immediates.
	U8Val  uint8
	U16Val uint16
	U32Val uint32
	U64Val uint64
	// LdU128/LdU256 immediates (shared 256-bit representation, see §4.12).
	U128Val *uint256.Int
	U256Val *uint256.Int

	// CopyLoc/MoveLoc/StLoc/MutBorrowLoc/ImmBorrowLoc.
	LocalIdx LocalIndex

	// BrTrue/BrFalse/Branch.
	CodeOffset CodeOffset

	// Call/PackClosure.
	FuncHandleIdx FunctionHandleIndex
	// CallGeneric/PackClosureGeneric.
	FuncInstIdx FunctionInstantiationIndex
	// PackClosure/PackClosureGeneric.
	Mask ClosureMask
	// CallClosure.
	SigIdx SignatureIndex

	// LdConst.
	ConstIdx ConstantPoolIndex

	// MutBorrowField/ImmBorrowField.
	FieldHandleIdx FieldHandleIndex
	// MutBorrowFieldGeneric/ImmBorrowFieldGeneric.
	FieldInstIdx FieldInstantiationIndex

	// Pack/Unpack/BorrowGlobal/Exists/MoveFrom/MoveTo (non-generic).
	StructDefIdx StructDefinitionIndex
	// *Generic struct/global variants.
	StructInstIdx StructDefInstantiationIndex

	// Variant opcodes (non-generic).
	StructVariantIdx StructVariantHandleIndex
	// Variant opcodes (generic).
	StructVariantInstIdx StructVariantInstantiationIndex
	// Variant-field opcodes (non-generic).
	VariantFieldIdx VariantFieldHandleIndex
	// Variant-field opcodes (generic).
	VariantFieldInstIdx VariantFieldInstantiationIndex

	// VecPack/VecUnpack element count.
	VecLen uint64
	// Every Vec* opcode carries the element type as a signature-pool index.
	VecElemSigIdx SignatureIndex
}
