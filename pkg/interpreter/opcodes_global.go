package interpreter

import (
	"github.com/aptos-labs/aptos-core-sub004/pkg/file"
	"github.com/aptos-labs/aptos-core-sub004/pkg/values"
)

func (vm *VM) resolveGlobalType(f *Frame, generic bool, def file.StructDefinitionIndex, inst file.StructDefInstantiationIndex) (RuntimeType, error) {
	if generic {
		return vm.resolver.StructTypeGeneric(inst, f.TypeArgs)
	}
	return vm.resolver.StructType(def)
}

func (vm *VM) loadGlobalCell(f *Frame, t RuntimeType, op string) (ResourceCell, error) {
	addrVal, err := vm.operand.Pop(f.loc())
	if err != nil {
		return nil, err
	}
	if _, err := vm.tyPop(f.loc()); err != nil {
		return nil, err
	}
	if vm.config.Paranoid {
		if err := vm.requireAbility(t, file.AbilityKey, f.loc(), op); err != nil {
			return nil, err
		}
	}
	cell, loadSize, err := vm.dataStore.LoadResource(values.Address(addrVal.Address()), t)
	if err != nil {
		return nil, AsInvariantViolation(f.loc(), err)
	}
	if loadSize != nil {
		if err := vm.chargeGas(f.loc(), "storage_load", *loadSize); err != nil {
			return nil, err
		}
	}
	return cell, nil
}

func genericFlag(op file.Op) bool {
	switch op {
	case file.OpMutBorrowGlobalGeneric, file.OpImmBorrowGlobalGeneric,
		file.OpExistsGeneric, file.OpMoveFromGeneric, file.OpMoveToGeneric:
		return true
	default:
		return false
	}
}

func (vm *VM) execBorrowGlobal(f *Frame, instr file.Bytecode) error {
	generic := genericFlag(instr.Op)
	mutable := instr.Op == file.OpMutBorrowGlobal || instr.Op == file.OpMutBorrowGlobalGeneric

	t, err := vm.resolveGlobalType(f, generic, instr.StructDefIdx, instr.StructInstIdx)
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}
	cell, err := vm.loadGlobalCell(f, t, "BorrowGlobal")
	if err != nil {
		return err
	}
	if !cell.Exists() {
		return Abort(f.loc(), AbortCodeMoveFromMissing)
	}

	ref := values.GlobalRef{Cell: cell}
	var out values.Value
	if mutable {
		out = values.NewMutableReference(ref)
	} else {
		out = values.NewReference(ref)
	}
	if err := vm.operand.Push(out, f.loc()); err != nil {
		return err
	}
	if !vm.config.Paranoid {
		return nil
	}
	var tok file.Token
	if mutable {
		tok = file.NewMutableReferenceToken(t.Token)
	} else {
		tok = file.NewReferenceToken(t.Token)
	}
	return vm.tyPush(RuntimeType{Token: tok, Abilities: refAbilities()}, f.loc())
}

func (vm *VM) execExists(f *Frame, instr file.Bytecode) error {
	generic := genericFlag(instr.Op)
	t, err := vm.resolveGlobalType(f, generic, instr.StructDefIdx, instr.StructInstIdx)
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}
	cell, err := vm.loadGlobalCell(f, t, "Exists")
	if err != nil {
		return err
	}
	if err := vm.operand.Push(values.NewBool(cell.Exists()), f.loc()); err != nil {
		return err
	}
	return vm.tyPush(primitiveType(file.TagBool), f.loc())
}

func (vm *VM) execMoveFrom(f *Frame, instr file.Bytecode) error {
	generic := genericFlag(instr.Op)
	t, err := vm.resolveGlobalType(f, generic, instr.StructDefIdx, instr.StructInstIdx)
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}
	cell, err := vm.loadGlobalCell(f, t, "MoveFrom")
	if err != nil {
		return err
	}
	if !cell.Exists() {
		return Abort(f.loc(), AbortCodeMoveFromMissing)
	}
	v, err := cell.Get()
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}
	if err := cell.Remove(); err != nil {
		return AsInvariantViolation(f.loc(), err)
	}

	if err := vm.chargeGas(f.loc(), "MoveFrom", baseOpCost(instr.Op)); err != nil {
		return err
	}

	if err := vm.operand.Push(v, f.loc()); err != nil {
		return err
	}
	return vm.tyPush(t, f.loc())
}

func (vm *VM) execMoveTo(f *Frame, instr file.Bytecode) error {
	generic := genericFlag(instr.Op)
	t, err := vm.resolveGlobalType(f, generic, instr.StructDefIdx, instr.StructInstIdx)
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}

	// Canonical Move bytecode pushes the signer before the resource, so the
	// resource is on top: pop it first, then the signer reference (or
	// signer value) beneath.
	v, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	valTy, err := vm.tyPop(f.loc())
	if err != nil {
		return err
	}
	signerVal, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	if k := signerVal.Kind(); k == values.KindReference || k == values.KindMutableReference {
		if signerVal, err = signerVal.Reference().Get(); err != nil {
			return AsInvariantViolation(f.loc(), err)
		}
	}
	if _, err := vm.tyPop(f.loc()); err != nil {
		return err
	}
	if vm.config.Paranoid {
		if err := vm.requireSameType(t, valTy, f.loc(), "MoveTo"); err != nil {
			return err
		}
		if err := vm.requireAbility(t, file.AbilityKey, f.loc(), "MoveTo"); err != nil {
			return err
		}
	}

	cell, loadSize, err := vm.dataStore.LoadResource(values.Address(signerVal.Address()), t)
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}
	if loadSize != nil {
		if err := vm.chargeGas(f.loc(), "storage_load", *loadSize); err != nil {
			return err
		}
	}
	if cell.Exists() {
		return Abort(f.loc(), AbortCodeMoveToExisting)
	}
	if err := cell.Set(v); err != nil {
		return AsInvariantViolation(f.loc(), err)
	}

	return vm.chargeGas(f.loc(), "MoveTo", baseOpCost(instr.Op))
}
