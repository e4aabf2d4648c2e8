package interpreter

import "github.com/aptos-labs/aptos-core-sub004/pkg/file"

// execValueOp dispatches every opcode that is not one of
// Ret/Abort/BrTrue/BrFalse/Branch/Call/CallGeneric/CallClosure (those are handled
// directly in executeCode since they affect control flow or exit the
// frame). Each case pops its operands in the documented order and pushes
// its results.
func (vm *VM) execValueOp(f *Frame, instr file.Bytecode) error {
	switch instr.Op {
	case file.OpPop:
		return vm.execPop(f)
	case file.OpLdU8, file.OpLdU16, file.OpLdU32, file.OpLdU64, file.OpLdU128, file.OpLdU256, file.OpLdTrue, file.OpLdFalse, file.OpLdConst:
		return vm.execLoadConstant(f, instr)
	case file.OpCopyLoc:
		return vm.execCopyLoc(f, instr)
	case file.OpMoveLoc:
		return vm.execMoveLoc(f, instr)
	case file.OpStLoc:
		return vm.execStLoc(f, instr)
	case file.OpNop:
		return nil

	case file.OpReadRef:
		return vm.execReadRef(f)
	case file.OpWriteRef:
		return vm.execWriteRef(f)
	case file.OpFreezeRef:
		return vm.execFreezeRef(f)
	case file.OpMutBorrowLoc, file.OpImmBorrowLoc:
		return vm.execBorrowLoc(f, instr)
	case file.OpMutBorrowField, file.OpImmBorrowField, file.OpMutBorrowFieldGeneric, file.OpImmBorrowFieldGeneric:
		return vm.execBorrowField(f, instr)
	case file.OpMutBorrowVariantField, file.OpImmBorrowVariantField, file.OpMutBorrowVariantFieldGeneric, file.OpImmBorrowVariantFieldGeneric:
		return vm.execBorrowVariantField(f, instr)

	case file.OpPack, file.OpPackGeneric:
		return vm.execPack(f, instr)
	case file.OpUnpack, file.OpUnpackGeneric:
		return vm.execUnpack(f, instr)
	case file.OpPackVariant, file.OpPackVariantGeneric:
		return vm.execPackVariant(f, instr)
	case file.OpUnpackVariant, file.OpUnpackVariantGeneric:
		return vm.execUnpackVariant(f, instr)
	case file.OpTestVariant, file.OpTestVariantGeneric:
		return vm.execTestVariant(f, instr)

	case file.OpAdd, file.OpSub, file.OpMul, file.OpMod, file.OpDiv,
		file.OpBitOr, file.OpBitAnd, file.OpXor, file.OpShl, file.OpShr:
		return vm.execArith(f, instr)
	case file.OpOr, file.OpAnd, file.OpNot:
		return vm.execBoolOp(f, instr)
	case file.OpEq, file.OpNeq:
		return vm.execEquality(f, instr)
	case file.OpLt, file.OpGt, file.OpLe, file.OpGe:
		return vm.execCompare(f, instr)

	case file.OpCastU8, file.OpCastU16, file.OpCastU32, file.OpCastU64, file.OpCastU128, file.OpCastU256:
		return vm.execCast(f, instr)

	case file.OpMutBorrowGlobal, file.OpImmBorrowGlobal, file.OpMutBorrowGlobalGeneric, file.OpImmBorrowGlobalGeneric:
		return vm.execBorrowGlobal(f, instr)
	case file.OpExists, file.OpExistsGeneric:
		return vm.execExists(f, instr)
	case file.OpMoveFrom, file.OpMoveFromGeneric:
		return vm.execMoveFrom(f, instr)
	case file.OpMoveTo, file.OpMoveToGeneric:
		return vm.execMoveTo(f, instr)

	case file.OpVecPack:
		return vm.execVecPack(f, instr)
	case file.OpVecLen:
		return vm.execVecLen(f, instr)
	case file.OpVecImmBorrow, file.OpVecMutBorrow:
		return vm.execVecBorrow(f, instr)
	case file.OpVecPushBack:
		return vm.execVecPushBack(f, instr)
	case file.OpVecPopBack:
		return vm.execVecPopBack(f, instr)
	case file.OpVecUnpack:
		return vm.execVecUnpack(f, instr)
	case file.OpVecSwap:
		return vm.execVecSwap(f, instr)

	case file.OpPackClosure, file.OpPackClosureGeneric:
		return vm.execPackClosure(f, instr)

	default:
		return InvariantViolation(f.loc(), nil, "unimplemented opcode %d", instr.Op)
	}
}

func (vm *VM) execPop(f *Frame) error {
	v, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	t, err := vm.tyPop(f.loc())
	if err != nil {
		return err
	}
	if err := vm.requireAbility(t, file.AbilityDrop, f.loc(), "Pop"); err != nil {
		return err
	}
	_ = v
	return nil
}
