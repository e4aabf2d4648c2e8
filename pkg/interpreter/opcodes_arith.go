package interpreter

import (
	"github.com/holiman/uint256"

	"github.com/aptos-labs/aptos-core-sub004/pkg/file"
	"github.com/aptos-labs/aptos-core-sub004/pkg/values"
)

func maxUintForKind(k values.Kind) *uint256.Int {
	switch k {
	case values.KindU8:
		return uint256.NewInt(0xff)
	case values.KindU16:
		return uint256.NewInt(0xffff)
	case values.KindU32:
		return uint256.NewInt(0xffffffff)
	case values.KindU64:
		return uint256.NewInt(0xffffffffffffffff)
	case values.KindU128:
		max := new(uint256.Int).Lsh(uint256.NewInt(1), 128)
		return max.Sub(max, uint256.NewInt(1))
	case values.KindU256:
		max := new(uint256.Int)
		return max.Not(max) // all ones
	default:
		panic("values: maxUintForKind on non-integer kind")
	}
}

func bitWidthForKind(k values.Kind) uint {
	switch k {
	case values.KindU8:
		return 8
	case values.KindU16:
		return 16
	case values.KindU32:
		return 32
	case values.KindU64:
		return 64
	case values.KindU128:
		return 128
	case values.KindU256:
		return 256
	default:
		panic("values: bitWidthForKind on non-integer kind")
	}
}

func narrowTo(k values.Kind, x *uint256.Int) values.Value {
	switch k {
	case values.KindU8:
		return values.NewU8(uint8(x.Uint64()))
	case values.KindU16:
		return values.NewU16(uint16(x.Uint64()))
	case values.KindU32:
		return values.NewU32(uint32(x.Uint64()))
	case values.KindU64:
		return values.NewU64(x.Uint64())
	case values.KindU128:
		return values.NewU128(x)
	case values.KindU256:
		return values.NewU256(x)
	default:
		panic("values: narrowTo on non-integer kind")
	}
}

// execArith implements Add/Sub/Mul/Mod/Div/BitOr/BitAnd/Xor/Shl/Shr. Both
// operands (except the shift count for Shl/Shr) share the same integer
// kind per the verifier's same-type-operand rule; the result carries that
// kind.
func (vm *VM) execArith(f *Frame, instr file.Bytecode) error {
	rhs, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	rhsTy, err := vm.tyPop(f.loc())
	if err != nil {
		return err
	}
	lhs, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	lhsTy, err := vm.tyPop(f.loc())
	if err != nil {
		return err
	}

	kind := lhs.Kind()
	lv := lhs.AsUint256()
	rv := rhs.AsUint256()
	max := maxUintForKind(kind)

	var result *uint256.Int
	switch instr.Op {
	case file.OpAdd:
		result = new(uint256.Int).Add(lv, rv)
		if result.Cmp(max) > 0 || result.Cmp(lv) < 0 {
			return ArithmeticError(f.loc(), "Add: %s + %s overflows %s", lv, rv, kind)
		}
	case file.OpSub:
		if lv.Cmp(rv) < 0 {
			return ArithmeticError(f.loc(), "Sub: %s - %s underflows %s", lv, rv, kind)
		}
		result = new(uint256.Int).Sub(lv, rv)
	case file.OpMul:
		result = new(uint256.Int).Mul(lv, rv)
		if result.Cmp(max) > 0 || (!lv.IsZero() && new(uint256.Int).Div(result, lv).Cmp(rv) != 0) {
			return ArithmeticError(f.loc(), "Mul: %s * %s overflows %s", lv, rv, kind)
		}
	case file.OpMod:
		if rv.IsZero() {
			return ArithmeticError(f.loc(), "Mod: division by zero")
		}
		result = new(uint256.Int).Mod(lv, rv)
	case file.OpDiv:
		if rv.IsZero() {
			return ArithmeticError(f.loc(), "Div: division by zero")
		}
		result = new(uint256.Int).Div(lv, rv)
	case file.OpBitOr:
		result = new(uint256.Int).Or(lv, rv)
	case file.OpBitAnd:
		result = new(uint256.Int).And(lv, rv)
	case file.OpXor:
		result = new(uint256.Int).Xor(lv, rv)
	case file.OpShl:
		shift := rhs.U8()
		if uint(shift) >= bitWidthForKind(kind) {
			return ArithmeticError(f.loc(), "Shl: shift amount %d >= width of %s", shift, kind)
		}
		result = new(uint256.Int).Lsh(lv, uint(shift))
		result.And(result, max)
	case file.OpShr:
		shift := rhs.U8()
		if uint(shift) >= bitWidthForKind(kind) {
			return ArithmeticError(f.loc(), "Shr: shift amount %d >= width of %s", shift, kind)
		}
		result = new(uint256.Int).Rsh(lv, uint(shift))
	default:
		return InvariantViolation(f.loc(), nil, "execArith: unexpected op %d", instr.Op)
	}

	out := narrowTo(kind, result)
	if err := vm.operand.Push(out, f.loc()); err != nil {
		return err
	}
	if !vm.config.Paranoid {
		return nil
	}
	_ = rhsTy
	return vm.tyPush(lhsTy, f.loc())
}

func (vm *VM) execBoolOp(f *Frame, instr file.Bytecode) error {
	if instr.Op == file.OpNot {
		v, err := vm.operand.Pop(f.loc())
		if err != nil {
			return err
		}
		if _, err := vm.tyPop(f.loc()); err != nil {
			return err
		}
		if err := vm.operand.Push(values.NewBool(!v.Bool()), f.loc()); err != nil {
			return err
		}
		return vm.tyPush(primitiveType(file.TagBool), f.loc())
	}

	rhs, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	if _, err := vm.tyPop(f.loc()); err != nil {
		return err
	}
	lhs, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	if _, err := vm.tyPop(f.loc()); err != nil {
		return err
	}

	var out bool
	if instr.Op == file.OpOr {
		out = lhs.Bool() || rhs.Bool()
	} else {
		out = lhs.Bool() && rhs.Bool()
	}
	if err := vm.operand.Push(values.NewBool(out), f.loc()); err != nil {
		return err
	}
	return vm.tyPush(primitiveType(file.TagBool), f.loc())
}

func (vm *VM) execEquality(f *Frame, instr file.Bytecode) error {
	rhs, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	rhsTy, err := vm.tyPop(f.loc())
	if err != nil {
		return err
	}
	lhs, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	lhsTy, err := vm.tyPop(f.loc())
	if err != nil {
		return err
	}
	if vm.config.Paranoid {
		if err := vm.requireAbility(lhsTy, file.AbilityDrop, f.loc(), "Eq/Neq"); err != nil {
			return err
		}
		if err := vm.requireAbility(rhsTy, file.AbilityDrop, f.loc(), "Eq/Neq"); err != nil {
			return err
		}
	}

	eq := values.Equal(lhs, rhs)
	out := eq
	if instr.Op == file.OpNeq {
		out = !eq
	}
	if err := vm.operand.Push(values.NewBool(out), f.loc()); err != nil {
		return err
	}
	return vm.tyPush(primitiveType(file.TagBool), f.loc())
}

func (vm *VM) execCompare(f *Frame, instr file.Bytecode) error {
	rhs, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	if _, err := vm.tyPop(f.loc()); err != nil {
		return err
	}
	lhs, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	if _, err := vm.tyPop(f.loc()); err != nil {
		return err
	}

	cmp := lhs.AsUint256().Cmp(rhs.AsUint256())
	var out bool
	switch instr.Op {
	case file.OpLt:
		out = cmp < 0
	case file.OpGt:
		out = cmp > 0
	case file.OpLe:
		out = cmp <= 0
	case file.OpGe:
		out = cmp >= 0
	}
	if err := vm.operand.Push(values.NewBool(out), f.loc()); err != nil {
		return err
	}
	return vm.tyPush(primitiveType(file.TagBool), f.loc())
}
