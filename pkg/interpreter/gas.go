package interpreter

import "github.com/aptos-labs/aptos-core-sub004/pkg/file"

// baseOpCost gives each opcode a nominal, deterministic cost. The actual
// pricing policy is the external GasMeter's concern (§6); this table only
// needs to be stable and total (every opcode maps to something) so the
// interpreter always has a cost to report — production deployments charge
// through a real schedule fed into the meter, not this table.
func baseOpCost(op file.Op) uint64 {
	switch op {
	case file.OpPop, file.OpLdTrue, file.OpLdFalse, file.OpNop,
		file.OpCopyLoc, file.OpMoveLoc, file.OpStLoc,
		file.OpMutBorrowLoc, file.OpImmBorrowLoc, file.OpReadRef, file.OpFreezeRef,
		file.OpBrTrue, file.OpBrFalse, file.OpBranch, file.OpRet, file.OpAbort:
		return 1
	case file.OpLdU8, file.OpLdU16, file.OpLdU32, file.OpLdU64:
		return 1
	case file.OpLdU128, file.OpLdU256, file.OpLdConst:
		return 2
	case file.OpWriteRef:
		return 1
	case file.OpAdd, file.OpSub, file.OpMul, file.OpMod, file.OpDiv,
		file.OpBitOr, file.OpBitAnd, file.OpXor, file.OpShl, file.OpShr,
		file.OpOr, file.OpAnd, file.OpNot, file.OpEq, file.OpNeq,
		file.OpLt, file.OpGt, file.OpLe, file.OpGe:
		return 1
	case file.OpCastU8, file.OpCastU16, file.OpCastU32, file.OpCastU64, file.OpCastU128, file.OpCastU256:
		return 1
	case file.OpPack, file.OpPackGeneric, file.OpUnpack, file.OpUnpackGeneric,
		file.OpPackVariant, file.OpPackVariantGeneric, file.OpUnpackVariant, file.OpUnpackVariantGeneric,
		file.OpTestVariant, file.OpTestVariantGeneric:
		return 2
	case file.OpMutBorrowField, file.OpImmBorrowField, file.OpMutBorrowFieldGeneric, file.OpImmBorrowFieldGeneric,
		file.OpMutBorrowVariantField, file.OpImmBorrowVariantField, file.OpMutBorrowVariantFieldGeneric, file.OpImmBorrowVariantFieldGeneric:
		return 1
	case file.OpMutBorrowGlobal, file.OpMutBorrowGlobalGeneric, file.OpImmBorrowGlobal, file.OpImmBorrowGlobalGeneric,
		file.OpExists, file.OpExistsGeneric:
		return 3
	case file.OpMoveFrom, file.OpMoveFromGeneric, file.OpMoveTo, file.OpMoveToGeneric:
		return 5
	case file.OpVecPack, file.OpVecUnpack:
		return 2
	case file.OpVecLen, file.OpVecImmBorrow, file.OpVecMutBorrow, file.OpVecSwap:
		return 1
	case file.OpVecPushBack, file.OpVecPopBack:
		return 2
	case file.OpCall:
		return 3
	case file.OpCallGeneric:
		return 4
	case file.OpPackClosure, file.OpPackClosureGeneric:
		return 2
	case file.OpCallClosure:
		return 3
	default:
		return 1
	}
}

// opName renders an Op for gas-meter labels and trace logging.
func opName(op file.Op) string {
	names := map[file.Op]string{
		file.OpPop: "Pop", file.OpLdU8: "LdU8", file.OpLdU16: "LdU16", file.OpLdU32: "LdU32",
		file.OpLdU64: "LdU64", file.OpLdU128: "LdU128", file.OpLdU256: "LdU256",
		file.OpLdTrue: "LdTrue", file.OpLdFalse: "LdFalse", file.OpLdConst: "LdConst",
		file.OpCopyLoc: "CopyLoc", file.OpMoveLoc: "MoveLoc", file.OpStLoc: "StLoc",
		file.OpRet: "Ret", file.OpAbort: "Abort", file.OpBrTrue: "BrTrue", file.OpBrFalse: "BrFalse",
		file.OpBranch: "Branch", file.OpCall: "Call", file.OpCallGeneric: "CallGeneric",
		file.OpReadRef: "ReadRef", file.OpWriteRef: "WriteRef", file.OpFreezeRef: "FreezeRef",
		file.OpMutBorrowLoc: "MutBorrowLoc", file.OpImmBorrowLoc: "ImmBorrowLoc",
		file.OpMutBorrowField: "MutBorrowField", file.OpImmBorrowField: "ImmBorrowField",
		file.OpMutBorrowFieldGeneric: "MutBorrowFieldGeneric", file.OpImmBorrowFieldGeneric: "ImmBorrowFieldGeneric",
		file.OpPack: "Pack", file.OpPackGeneric: "PackGeneric", file.OpUnpack: "Unpack", file.OpUnpackGeneric: "UnpackGeneric",
		file.OpPackVariant: "PackVariant", file.OpPackVariantGeneric: "PackVariantGeneric",
		file.OpUnpackVariant: "UnpackVariant", file.OpUnpackVariantGeneric: "UnpackVariantGeneric",
		file.OpTestVariant: "TestVariant", file.OpTestVariantGeneric: "TestVariantGeneric",
		file.OpMutBorrowVariantField: "MutBorrowVariantField", file.OpImmBorrowVariantField: "ImmBorrowVariantField",
		file.OpMutBorrowVariantFieldGeneric: "MutBorrowVariantFieldGeneric", file.OpImmBorrowVariantFieldGeneric: "ImmBorrowVariantFieldGeneric",
		file.OpAdd: "Add", file.OpSub: "Sub", file.OpMul: "Mul", file.OpMod: "Mod", file.OpDiv: "Div",
		file.OpBitOr: "BitOr", file.OpBitAnd: "BitAnd", file.OpXor: "Xor", file.OpShl: "Shl", file.OpShr: "Shr",
		file.OpOr: "Or", file.OpAnd: "And", file.OpNot: "Not", file.OpEq: "Eq", file.OpNeq: "Neq",
		file.OpLt: "Lt", file.OpGt: "Gt", file.OpLe: "Le", file.OpGe: "Ge",
		file.OpCastU8: "CastU8", file.OpCastU16: "CastU16", file.OpCastU32: "CastU32",
		file.OpCastU64: "CastU64", file.OpCastU128: "CastU128", file.OpCastU256: "CastU256",
		file.OpMutBorrowGlobal: "MutBorrowGlobal", file.OpMutBorrowGlobalGeneric: "MutBorrowGlobalGeneric",
		file.OpImmBorrowGlobal: "ImmBorrowGlobal", file.OpImmBorrowGlobalGeneric: "ImmBorrowGlobalGeneric",
		file.OpExists: "Exists", file.OpExistsGeneric: "ExistsGeneric",
		file.OpMoveFrom: "MoveFrom", file.OpMoveFromGeneric: "MoveFromGeneric",
		file.OpMoveTo: "MoveTo", file.OpMoveToGeneric: "MoveToGeneric",
		file.OpVecPack: "VecPack", file.OpVecLen: "VecLen", file.OpVecImmBorrow: "VecImmBorrow",
		file.OpVecMutBorrow: "VecMutBorrow", file.OpVecPushBack: "VecPushBack", file.OpVecPopBack: "VecPopBack",
		file.OpVecUnpack: "VecUnpack", file.OpVecSwap: "VecSwap",
		file.OpPackClosure: "PackClosure", file.OpPackClosureGeneric: "PackClosureGeneric", file.OpCallClosure: "CallClosure",
		file.OpNop: "Nop",
	}
	if n, ok := names[op]; ok {
		return n
	}
	return "Unknown"
}
