package interpreter

import (
	"github.com/aptos-labs/aptos-core-sub004/pkg/file"
	"github.com/aptos-labs/aptos-core-sub004/pkg/values"
)

func (vm *VM) execReadRef(f *Frame) error {
	v, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	t, err := vm.tyPop(f.loc())
	if err != nil {
		return err
	}
	referent, err := v.Reference().Get()
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}
	if err := vm.operand.Push(referent, f.loc()); err != nil {
		return err
	}
	if !vm.config.Paranoid {
		return nil
	}
	return vm.tyPush(RuntimeType{Token: *t.Token.Inner, Abilities: vm.resolver.Abilities(RuntimeType{Token: *t.Token.Inner})}, f.loc())
}

func (vm *VM) execWriteRef(f *Frame) error {
	val, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	valTy, err := vm.tyPop(f.loc())
	if err != nil {
		return err
	}
	ref, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	refTy, err := vm.tyPop(f.loc())
	if err != nil {
		return err
	}
	if vm.config.Paranoid {
		referentTy := RuntimeType{Token: *refTy.Token.Inner, Abilities: vm.resolver.Abilities(RuntimeType{Token: *refTy.Token.Inner})}
		if err := vm.requireSameType(referentTy, valTy, f.loc(), "WriteRef"); err != nil {
			return err
		}
	}
	if err := ref.Reference().Set(val); err != nil {
		return AsInvariantViolation(f.loc(), err)
	}
	return nil
}

func (vm *VM) execFreezeRef(f *Frame) error {
	v, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	t, err := vm.tyPop(f.loc())
	if err != nil {
		return err
	}
	frozen := values.FreezeRef(v)
	if err := vm.operand.Push(frozen, f.loc()); err != nil {
		return err
	}
	if !vm.config.Paranoid {
		return nil
	}
	return vm.tyPush(RuntimeType{
		Token:     file.NewReferenceToken(*t.Token.Inner),
		Abilities: file.NewAbilitySet(file.AbilityCopy, file.AbilityDrop),
	}, f.loc())
}

func (vm *VM) execBorrowLoc(f *Frame, instr file.Bytecode) error {
	idx := int(instr.LocalIdx)
	if !f.Locals.IsValid(idx) {
		return InvariantViolation(f.loc(), nil, "BorrowLoc: local %d is invalid", idx)
	}
	ref := f.Locals.BorrowLoc(idx)
	mutable := instr.Op == file.OpMutBorrowLoc
	var v values.Value
	if mutable {
		v = values.NewMutableReference(ref)
	} else {
		v = values.NewReference(ref)
	}
	if err := vm.operand.Push(v, f.loc()); err != nil {
		return err
	}
	if !vm.config.Paranoid {
		return nil
	}
	local := f.LocalTypes[idx]
	var tok file.Token
	if mutable {
		tok = file.NewMutableReferenceToken(local.Token)
	} else {
		tok = file.NewReferenceToken(local.Token)
	}
	return vm.tyPush(RuntimeType{Token: tok, Abilities: file.NewAbilitySet(file.AbilityCopy, file.AbilityDrop)}, f.loc())
}

func refAbilities() file.AbilitySet {
	return file.NewAbilitySet(file.AbilityCopy, file.AbilityDrop)
}

func (vm *VM) execBorrowField(f *Frame, instr file.Bytecode) error {
	v, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	ownerTy, err := vm.tyPop(f.loc())
	if err != nil {
		return err
	}

	generic := instr.Op == file.OpMutBorrowFieldGeneric || instr.Op == file.OpImmBorrowFieldGeneric
	mutable := instr.Op == file.OpMutBorrowField || instr.Op == file.OpMutBorrowFieldGeneric

	var offset int
	if generic {
		offset, err = vm.resolver.FieldOffsetGeneric(instr.FieldInstIdx, f.TypeArgs)
	} else {
		offset, err = vm.resolver.FieldOffset(instr.FieldHandleIdx)
	}
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}

	referent, err := v.Reference().Get()
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}
	strct := referent.Struct()
	if offset < 0 || offset >= len(strct.Fields) {
		return InvariantViolation(f.loc(), nil, "BorrowField: offset %d out of range for struct with %d fields", offset, len(strct.Fields))
	}
	fieldRef := values.FieldRef{Owner: strct, Idx: offset}

	var out values.Value
	if mutable {
		out = values.NewMutableReference(fieldRef)
	} else {
		out = values.NewReference(fieldRef)
	}
	if err := vm.operand.Push(out, f.loc()); err != nil {
		return err
	}
	if !vm.config.Paranoid {
		return nil
	}

	fieldTok := *ownerTy.Token.Inner
	var tok file.Token
	if mutable {
		tok = file.NewMutableReferenceToken(fieldTok)
	} else {
		tok = file.NewReferenceToken(fieldTok)
	}
	return vm.tyPush(RuntimeType{Token: tok, Abilities: refAbilities()}, f.loc())
}

func (vm *VM) execBorrowVariantField(f *Frame, instr file.Bytecode) error {
	v, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	ownerTy, err := vm.tyPop(f.loc())
	if err != nil {
		return err
	}

	generic := instr.Op == file.OpMutBorrowVariantFieldGeneric || instr.Op == file.OpImmBorrowVariantFieldGeneric
	mutable := instr.Op == file.OpMutBorrowVariantField || instr.Op == file.OpMutBorrowVariantFieldGeneric

	var offset int
	var variants []uint16
	if generic {
		offset, variants, err = vm.resolver.VariantFieldOffsetGeneric(instr.VariantFieldInstIdx, f.TypeArgs)
	} else {
		offset, variants, err = vm.resolver.VariantFieldOffset(instr.VariantFieldIdx)
	}
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}

	referent, err := v.Reference().Get()
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}
	strct := referent.Struct()
	if !matchesAnyVariant(strct.VariantTag, variants) {
		return Abort(f.loc(), AbortCodeVariantMismatch)
	}
	if offset < 0 || offset >= len(strct.Fields) {
		return InvariantViolation(f.loc(), nil, "BorrowVariantField: offset %d out of range", offset)
	}
	fieldRef := values.FieldRef{Owner: strct, Idx: offset}

	var out values.Value
	if mutable {
		out = values.NewMutableReference(fieldRef)
	} else {
		out = values.NewReference(fieldRef)
	}
	if err := vm.operand.Push(out, f.loc()); err != nil {
		return err
	}
	if !vm.config.Paranoid {
		return nil
	}
	fieldTok := *ownerTy.Token.Inner
	var tok file.Token
	if mutable {
		tok = file.NewMutableReferenceToken(fieldTok)
	} else {
		tok = file.NewReferenceToken(fieldTok)
	}
	return vm.tyPush(RuntimeType{Token: tok, Abilities: refAbilities()}, f.loc())
}

func matchesAnyVariant(tag int32, variants []uint16) bool {
	if tag < 0 {
		return false
	}
	for _, v := range variants {
		if uint16(tag) == v {
			return true
		}
	}
	return false
}
