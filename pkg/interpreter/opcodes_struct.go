package interpreter

import (
	"github.com/aptos-labs/aptos-core-sub004/pkg/file"
	"github.com/aptos-labs/aptos-core-sub004/pkg/values"
)

func (vm *VM) execPack(f *Frame, instr file.Bytecode) error {
	generic := instr.Op == file.OpPackGeneric

	var structTy RuntimeType
	var fieldTypes []RuntimeType
	var err error
	if generic {
		structTy, err = vm.resolver.StructTypeGeneric(instr.StructInstIdx, f.TypeArgs)
		if err == nil {
			fieldTypes, err = vm.resolver.StructFieldTypesGeneric(instr.StructInstIdx, f.TypeArgs)
		}
	} else {
		structTy, err = vm.resolver.StructType(instr.StructDefIdx)
		if err == nil {
			fieldTypes, err = vm.resolver.StructFieldTypes(instr.StructDefIdx)
		}
	}
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}

	fieldVals, err := vm.operand.PopN(len(fieldTypes), f.loc())
	if err != nil {
		return err
	}
	if vm.config.Paranoid {
		gotTypes, err := vm.tyPopN(len(fieldTypes), f.loc())
		if err != nil {
			return err
		}
		for i, want := range fieldTypes {
			if err := vm.requireSameType(want, gotTypes[i], f.loc(), "Pack"); err != nil {
				return err
			}
		}
	}

	strct := values.NewStruct(fieldVals)
	if err := vm.operand.Push(values.NewStructValue(strct), f.loc()); err != nil {
		return err
	}
	return vm.tyPush(structTy, f.loc())
}

func (vm *VM) execUnpack(f *Frame, instr file.Bytecode) error {
	generic := instr.Op == file.OpUnpackGeneric

	var fieldTypes []RuntimeType
	var err error
	if generic {
		fieldTypes, err = vm.resolver.StructFieldTypesGeneric(instr.StructInstIdx, f.TypeArgs)
	} else {
		fieldTypes, err = vm.resolver.StructFieldTypes(instr.StructDefIdx)
	}
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}

	v, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	if _, err := vm.tyPop(f.loc()); err != nil {
		return err
	}
	strct := v.Struct()
	if strct.IsVariant() {
		return InvariantViolation(f.loc(), nil, "Unpack: value is a variant struct")
	}
	if len(strct.Fields) != len(fieldTypes) {
		return InvariantViolation(f.loc(), nil, "Unpack: struct has %d fields, expected %d", len(strct.Fields), len(fieldTypes))
	}
	for _, fv := range strct.Fields {
		if err := vm.operand.Push(fv, f.loc()); err != nil {
			return err
		}
	}
	if !vm.config.Paranoid {
		return nil
	}
	for _, ft := range fieldTypes {
		if err := vm.tyPush(ft, f.loc()); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) execPackVariant(f *Frame, instr file.Bytecode) error {
	generic := instr.Op == file.OpPackVariantGeneric

	var variantTy RuntimeType
	var variant uint16
	var fieldTypes []RuntimeType
	var err error
	if generic {
		variantTy, variant, err = vm.resolver.StructVariantTypeGeneric(instr.StructVariantInstIdx, f.TypeArgs)
		if err == nil {
			fieldTypes, err = vm.resolver.StructVariantFieldTypesGeneric(instr.StructVariantInstIdx, f.TypeArgs)
		}
	} else {
		variantTy, variant, err = vm.resolver.StructVariantType(instr.StructVariantIdx)
		if err == nil {
			fieldTypes, err = vm.resolver.StructVariantFieldTypes(instr.StructVariantIdx)
		}
	}
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}

	fieldVals, err := vm.operand.PopN(len(fieldTypes), f.loc())
	if err != nil {
		return err
	}
	if vm.config.Paranoid {
		gotTypes, err := vm.tyPopN(len(fieldTypes), f.loc())
		if err != nil {
			return err
		}
		for i, want := range fieldTypes {
			if err := vm.requireSameType(want, gotTypes[i], f.loc(), "PackVariant"); err != nil {
				return err
			}
		}
	}

	strct := values.NewVariantStruct(variant, fieldVals)
	if err := vm.operand.Push(values.NewStructValue(strct), f.loc()); err != nil {
		return err
	}
	return vm.tyPush(variantTy, f.loc())
}

func (vm *VM) execUnpackVariant(f *Frame, instr file.Bytecode) error {
	generic := instr.Op == file.OpUnpackVariantGeneric

	var variant uint16
	var fieldTypes []RuntimeType
	var err error
	if generic {
		_, variant, err = vm.resolver.StructVariantTypeGeneric(instr.StructVariantInstIdx, f.TypeArgs)
		if err == nil {
			fieldTypes, err = vm.resolver.StructVariantFieldTypesGeneric(instr.StructVariantInstIdx, f.TypeArgs)
		}
	} else {
		_, variant, err = vm.resolver.StructVariantType(instr.StructVariantIdx)
		if err == nil {
			fieldTypes, err = vm.resolver.StructVariantFieldTypes(instr.StructVariantIdx)
		}
	}
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}

	v, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	if _, err := vm.tyPop(f.loc()); err != nil {
		return err
	}
	strct := v.Struct()
	if !strct.IsVariant() || uint16(strct.VariantTag) != variant {
		return Abort(f.loc(), AbortCodeVariantMismatch)
	}
	if len(strct.Fields) != len(fieldTypes) {
		return InvariantViolation(f.loc(), nil, "UnpackVariant: field count mismatch")
	}
	for _, fv := range strct.Fields {
		if err := vm.operand.Push(fv, f.loc()); err != nil {
			return err
		}
	}
	if !vm.config.Paranoid {
		return nil
	}
	for _, ft := range fieldTypes {
		if err := vm.tyPush(ft, f.loc()); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) execTestVariant(f *Frame, instr file.Bytecode) error {
	generic := instr.Op == file.OpTestVariantGeneric

	var variant uint16
	var err error
	if generic {
		_, variant, err = vm.resolver.StructVariantTypeGeneric(instr.StructVariantInstIdx, f.TypeArgs)
	} else {
		_, variant, err = vm.resolver.StructVariantType(instr.StructVariantIdx)
	}
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}

	v, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	ownerTy, err := vm.tyPop(f.loc())
	if err != nil {
		return err
	}
	referent, err := v.Reference().Get()
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}
	strct := referent.Struct()
	matches := strct.IsVariant() && uint16(strct.VariantTag) == variant

	if err := vm.operand.Push(values.NewBool(matches), f.loc()); err != nil {
		return err
	}
	_ = ownerTy
	return vm.tyPush(primitiveType(file.TagBool), f.loc())
}
