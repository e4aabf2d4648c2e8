package interpreter

import (
	"github.com/aptos-labs/aptos-core-sub004/pkg/file"
	"github.com/aptos-labs/aptos-core-sub004/pkg/values"
)

func (vm *VM) vecElemType(f *Frame, instr file.Bytecode) (RuntimeType, error) {
	toks, err := vm.resolver.Signature(instr.VecElemSigIdx, f.TypeArgs)
	if err != nil {
		return RuntimeType{}, AsInvariantViolation(f.loc(), err)
	}
	if len(toks) != 1 {
		return RuntimeType{}, InvariantViolation(f.loc(), nil, "vector element signature must carry exactly one type, got %d", len(toks))
	}
	return RuntimeType{Token: toks[0], Abilities: vm.resolver.Abilities(RuntimeType{Token: toks[0]})}, nil
}

func (vm *VM) execVecPack(f *Frame, instr file.Bytecode) error {
	elemTy, err := vm.vecElemType(f, instr)
	if err != nil {
		return err
	}
	n := int(instr.VecLen)
	elems, err := vm.operand.PopN(n, f.loc())
	if err != nil {
		return err
	}
	if vm.config.Paranoid {
		gotTypes, err := vm.tyPopN(n, f.loc())
		if err != nil {
			return err
		}
		for _, got := range gotTypes {
			if err := vm.requireSameType(elemTy, got, f.loc(), "VecPack"); err != nil {
				return err
			}
		}
	}
	if err := vm.operand.Push(values.NewVector(elems), f.loc()); err != nil {
		return err
	}
	return vm.tyPush(RuntimeType{
		Token:     file.NewVectorToken(elemTy.Token),
		Abilities: vectorRuntimeAbilities(elemTy.Abilities),
	}, f.loc())
}

func vectorRuntimeAbilities(elem file.AbilitySet) file.AbilitySet {
	base := file.NewAbilitySet(file.AbilityCopy, file.AbilityDrop, file.AbilityStore)
	return base.Intersect(elem)
}

func (vm *VM) execVecLen(f *Frame, instr file.Bytecode) error {
	v, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	if _, err := vm.tyPop(f.loc()); err != nil {
		return err
	}
	vec := v.Reference()
	referent, err := vec.Get()
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}
	n := uint64(len(referent.Vector().Elems))
	if err := vm.operand.Push(values.NewU64(n), f.loc()); err != nil {
		return err
	}
	return vm.tyPush(primitiveType(file.TagU64), f.loc())
}

func (vm *VM) execVecBorrow(f *Frame, instr file.Bytecode) error {
	idxVal, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	if _, err := vm.tyPop(f.loc()); err != nil {
		return err
	}
	v, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	vecTy, err := vm.tyPop(f.loc())
	if err != nil {
		return err
	}

	referent, err := v.Reference().Get()
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}
	vec := referent.Vector()
	idx := int(idxVal.U64())
	if idx < 0 || idx >= len(vec.Elems) {
		return Abort(f.loc(), AbortCodeVectorIndexOOB)
	}

	mutable := instr.Op == file.OpVecMutBorrow
	elemRef := values.ElemRef{Owner: vec, Idx: idx}
	var out values.Value
	if mutable {
		out = values.NewMutableReference(elemRef)
	} else {
		out = values.NewReference(elemRef)
	}
	if err := vm.operand.Push(out, f.loc()); err != nil {
		return err
	}
	if !vm.config.Paranoid {
		return nil
	}
	elemTok := *vecTy.Token.Inner
	var tok file.Token
	if mutable {
		tok = file.NewMutableReferenceToken(elemTok)
	} else {
		tok = file.NewReferenceToken(elemTok)
	}
	return vm.tyPush(RuntimeType{Token: tok, Abilities: refAbilities()}, f.loc())
}

func (vm *VM) execVecPushBack(f *Frame, instr file.Bytecode) error {
	val, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	valTy, err := vm.tyPop(f.loc())
	if err != nil {
		return err
	}
	v, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	vecTy, err := vm.tyPop(f.loc())
	if err != nil {
		return err
	}
	if vm.config.Paranoid {
		elemTy := RuntimeType{Token: *vecTy.Token.Inner, Abilities: vm.resolver.Abilities(RuntimeType{Token: *vecTy.Token.Inner})}
		if err := vm.requireSameType(elemTy, valTy, f.loc(), "VecPushBack"); err != nil {
			return err
		}
	}

	referent, err := v.Reference().Get()
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}
	vec := referent.Vector()
	vec.Elems = append(vec.Elems, val)

	return vm.chargeGas(f.loc(), "VecPushBack", baseOpCost(instr.Op))
}

func (vm *VM) execVecPopBack(f *Frame, instr file.Bytecode) error {
	v, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	vecTy, err := vm.tyPop(f.loc())
	if err != nil {
		return err
	}

	referent, err := v.Reference().Get()
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}
	vec := referent.Vector()
	if len(vec.Elems) == 0 {
		return Abort(f.loc(), AbortCodeVectorEmptyPop)
	}
	last := len(vec.Elems) - 1
	out := vec.Elems[last]
	vec.Elems = vec.Elems[:last]

	if err := vm.operand.Push(out, f.loc()); err != nil {
		return err
	}
	if vm.config.Paranoid {
		elemTy := RuntimeType{Token: *vecTy.Token.Inner, Abilities: vm.resolver.Abilities(RuntimeType{Token: *vecTy.Token.Inner})}
		if err := vm.tyPush(elemTy, f.loc()); err != nil {
			return err
		}
	}

	return vm.chargeGas(f.loc(), "VecPopBack", baseOpCost(instr.Op))
}

func (vm *VM) execVecUnpack(f *Frame, instr file.Bytecode) error {
	elemTy, err := vm.vecElemType(f, instr)
	if err != nil {
		return err
	}
	v, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	if _, err := vm.tyPop(f.loc()); err != nil {
		return err
	}
	vec := v.Vector()
	n := int(instr.VecLen)
	if len(vec.Elems) != n {
		return InvariantViolation(f.loc(), nil, "VecUnpack: vector has %d elements, expected %d", len(vec.Elems), n)
	}
	for _, e := range vec.Elems {
		if err := vm.operand.Push(e, f.loc()); err != nil {
			return err
		}
	}
	if !vm.config.Paranoid {
		return nil
	}
	for i := 0; i < n; i++ {
		if err := vm.tyPush(elemTy, f.loc()); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) execVecSwap(f *Frame, instr file.Bytecode) error {
	jVal, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	if _, err := vm.tyPop(f.loc()); err != nil {
		return err
	}
	iVal, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	if _, err := vm.tyPop(f.loc()); err != nil {
		return err
	}
	v, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	if _, err := vm.tyPop(f.loc()); err != nil {
		return err
	}

	referent, err := v.Reference().Get()
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}
	vec := referent.Vector()
	i, j := int(iVal.U64()), int(jVal.U64())
	if i < 0 || i >= len(vec.Elems) || j < 0 || j >= len(vec.Elems) {
		return Abort(f.loc(), AbortCodeVectorIndexOOB)
	}
	vec.Elems[i], vec.Elems[j] = vec.Elems[j], vec.Elems[i]
	return nil
}
