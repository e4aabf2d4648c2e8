package interpreter

import (
	"github.com/holiman/uint256"

	"github.com/aptos-labs/aptos-core-sub004/pkg/file"
	"github.com/aptos-labs/aptos-core-sub004/pkg/values"
)

func primitiveType(tag file.TokenTag) RuntimeType {
	return RuntimeType{
		Token:     file.Token{Tag: tag},
		Abilities: file.NewAbilitySet(file.AbilityCopy, file.AbilityDrop, file.AbilityStore),
	}
}

func (vm *VM) execLoadConstant(f *Frame, instr file.Bytecode) error {
	var v values.Value
	var t RuntimeType

	switch instr.Op {
	case file.OpLdU8:
		v, t = values.NewU8(instr.U8Val), primitiveType(file.TagU8)
	case file.OpLdU16:
		v, t = values.NewU16(instr.U16Val), primitiveType(file.TagU16)
	case file.OpLdU32:
		v, t = values.NewU32(instr.U32Val), primitiveType(file.TagU32)
	case file.OpLdU64:
		v, t = values.NewU64(instr.U64Val), primitiveType(file.TagU64)
	case file.OpLdU128:
		v, t = values.NewU128(new(uint256.Int).Set(instr.U128Val)), primitiveType(file.TagU128)
	case file.OpLdU256:
		v, t = values.NewU256(new(uint256.Int).Set(instr.U256Val)), primitiveType(file.TagU256)
	case file.OpLdTrue:
		v, t = values.NewBool(true), primitiveType(file.TagBool)
	case file.OpLdFalse:
		v, t = values.NewBool(false), primitiveType(file.TagBool)
	case file.OpLdConst:
		var err error
		v, t, err = vm.resolver.Constant(instr.ConstIdx)
		if err != nil {
			return AsInvariantViolation(f.loc(), err)
		}
	}

	if err := vm.operand.Push(v, f.loc()); err != nil {
		return err
	}
	return vm.tyPush(t, f.loc())
}

func (vm *VM) execCopyLoc(f *Frame, instr file.Bytecode) error {
	idx := int(instr.LocalIdx)
	if !f.Locals.IsValid(idx) {
		return InvariantViolation(f.loc(), nil, "CopyLoc: local %d is invalid", idx)
	}
	if vm.config.Paranoid {
		if err := vm.requireAbility(f.LocalTypes[idx], file.AbilityCopy, f.loc(), "CopyLoc"); err != nil {
			return err
		}
	}
	v := f.Locals.CopyLoc(idx)
	if err := vm.operand.Push(v, f.loc()); err != nil {
		return err
	}
	if vm.config.Paranoid {
		return vm.tyPush(f.LocalTypes[idx], f.loc())
	}
	return nil
}

func (vm *VM) execMoveLoc(f *Frame, instr file.Bytecode) error {
	idx := int(instr.LocalIdx)
	if !f.Locals.IsValid(idx) {
		return InvariantViolation(f.loc(), nil, "MoveLoc: local %d is invalid", idx)
	}
	v := f.Locals.MoveLoc(idx)
	if err := vm.operand.Push(v, f.loc()); err != nil {
		return err
	}
	if vm.config.Paranoid {
		return vm.tyPush(f.LocalTypes[idx], f.loc())
	}
	return nil
}

func (vm *VM) execStLoc(f *Frame, instr file.Bytecode) error {
	idx := int(instr.LocalIdx)
	if err := vm.checkStoreLocDrop(f, idx); err != nil {
		return err
	}
	v, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	t, err := vm.tyPop(f.loc())
	if err != nil {
		return err
	}
	if vm.config.Paranoid {
		f.LocalTypes[idx] = t
	}
	f.Locals.StoreLoc(idx, v)
	return nil
}

// execCast implements CastU8..CastU256: the operand is any integer; if it
// does not fit the target width, raise an arithmetic error.
func (vm *VM) execCast(f *Frame, instr file.Bytecode) error {
	v, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	if _, err := vm.tyPop(f.loc()); err != nil {
		return err
	}
	wide := v.AsUint256()

	var out values.Value
	var tag file.TokenTag
	switch instr.Op {
	case file.OpCastU8:
		if wide.BitLen() > 8 {
			return ArithmeticError(f.loc(), "CastU8: value does not fit in 8 bits")
		}
		out, tag = values.NewU8(uint8(wide.Uint64())), file.TagU8
	case file.OpCastU16:
		if wide.BitLen() > 16 {
			return ArithmeticError(f.loc(), "CastU16: value does not fit in 16 bits")
		}
		out, tag = values.NewU16(uint16(wide.Uint64())), file.TagU16
	case file.OpCastU32:
		if wide.BitLen() > 32 {
			return ArithmeticError(f.loc(), "CastU32: value does not fit in 32 bits")
		}
		out, tag = values.NewU32(uint32(wide.Uint64())), file.TagU32
	case file.OpCastU64:
		if wide.BitLen() > 64 {
			return ArithmeticError(f.loc(), "CastU64: value does not fit in 64 bits")
		}
		out, tag = values.NewU64(wide.Uint64()), file.TagU64
	case file.OpCastU128:
		if wide.BitLen() > 128 {
			return ArithmeticError(f.loc(), "CastU128: value does not fit in 128 bits")
		}
		out, tag = values.NewU128(wide), file.TagU128
	case file.OpCastU256:
		out, tag = values.NewU256(wide), file.TagU256
	}

	if err := vm.operand.Push(out, f.loc()); err != nil {
		return err
	}
	return vm.tyPush(primitiveType(tag), f.loc())
}
