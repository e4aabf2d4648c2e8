package interpreter

import (
	"github.com/aptos-labs/aptos-core-sub004/pkg/file"
	"github.com/aptos-labs/aptos-core-sub004/pkg/values"
)

func closureAbilities(vm *VM, capturedTypes []RuntimeType) file.AbilitySet {
	result := file.NewAbilitySet(file.AbilityCopy, file.AbilityDrop, file.AbilityStore)
	for _, t := range capturedTypes {
		result = result.Intersect(t.Abilities)
	}
	return result
}

func (vm *VM) execPackClosure(f *Frame, instr file.Bytecode) error {
	generic := instr.Op == file.OpPackClosureGeneric

	var callee FunctionRef
	var err error
	if generic {
		callee, err = vm.resolver.ResolveFunctionGeneric(instr.FuncInstIdx, f.TypeArgs)
	} else {
		callee, err = vm.resolver.ResolveFunction(instr.FuncHandleIdx)
	}
	if err != nil {
		return AsInvariantViolation(f.loc(), err)
	}

	paramTypes := callee.ParamTypes()
	mask := instr.Mask
	captureCount := mask.PopCount()

	capturedVals, err := vm.operand.PopN(captureCount, f.loc())
	if err != nil {
		return err
	}
	var capturedGotTypes []RuntimeType
	if vm.config.Paranoid {
		capturedGotTypes, err = vm.tyPopN(captureCount, f.loc())
		if err != nil {
			return err
		}
	}

	capturedTypes := make([]RuntimeType, 0, captureCount)
	remainingArgTokens := make([]file.Token, 0, len(paramTypes)-captureCount)
	next := 0
	for i, pt := range paramTypes {
		if mask.IsCaptured(i) {
			if vm.config.Paranoid {
				if err := vm.requireSameType(pt, capturedGotTypes[next], f.loc(), "PackClosure"); err != nil {
					return err
				}
			}
			capturedTypes = append(capturedTypes, pt)
			next++
		} else {
			remainingArgTokens = append(remainingArgTokens, pt.Token)
		}
	}

	resultTypes := callee.ResultTypes()
	resultTokens := make([]file.Token, len(resultTypes))
	for i, rt := range resultTypes {
		resultTokens[i] = rt.Token
	}

	ability := closureAbilities(vm, capturedTypes)
	clos := &values.Closure{
		FuncRef:        callee,
		Mask:           uint64(mask),
		CapturedValues: capturedVals,
		Abilities:      uint8(ability),
	}
	if err := vm.operand.Push(values.NewClosureValue(clos), f.loc()); err != nil {
		return err
	}
	return vm.tyPush(RuntimeType{
		Token:     file.NewFunctionToken(remainingArgTokens, resultTokens, ability),
		Abilities: ability,
	}, f.loc())
}

// execCallClosure dispatches a closure value. It reports pushed=true when a
// new Move frame was pushed (the caller's executeCode must treat the
// instruction as terminal, exactly like Call/CallGeneric), or false when a
// native target already ran to completion inline.
func (vm *VM) execCallClosure(f *Frame, instr file.Bytecode) (bool, error) {
	callSiteToks, err := vm.resolver.Signature(instr.SigIdx, f.TypeArgs)
	if err != nil {
		return false, AsInvariantViolation(f.loc(), err)
	}
	if len(callSiteToks) != 1 || callSiteToks[0].Tag != file.TagFunction {
		return false, InvariantViolation(f.loc(), nil, "CallClosure: call-site signature is not a function type")
	}
	callSite := callSiteToks[0]

	// §4.6: "the top of stack is a closure; beneath it lie n argument
	// values" — pop the closure first, then the free arguments.
	closVal, err := vm.operand.Pop(f.loc())
	if err != nil {
		return false, err
	}
	if _, err := vm.tyPop(f.loc()); err != nil {
		return false, err
	}
	clos := closVal.Closure()

	argc := len(callSite.FunctionArgs)
	args, err := vm.operand.PopN(argc, f.loc())
	if err != nil {
		return false, err
	}
	var argTypes []RuntimeType
	if vm.config.Paranoid {
		argTypes, err = vm.tyPopN(argc, f.loc())
		if err != nil {
			return false, err
		}
		for i, want := range callSite.FunctionArgs {
			wantTy := RuntimeType{Token: want, Abilities: vm.resolver.Abilities(RuntimeType{Token: want})}
			if err := vm.requireSameType(wantTy, argTypes[i], f.loc(), "CallClosure"); err != nil {
				return false, err
			}
		}
	}

	callee, ok := clos.FuncRef.(FunctionRef)
	if !ok {
		return false, InvariantViolation(f.loc(), nil, "CallClosure: closure's captured function reference has an unexpected type")
	}

	if err := vm.checkVisibility(f, callee); err != nil {
		return false, err
	}

	fullArgs := make([]values.Value, callee.ParamCount())
	capturedIdx, poppedIdx := 0, 0
	mask := file.ClosureMask(clos.Mask)
	for i := range fullArgs {
		if mask.IsCaptured(i) {
			fullArgs[i] = clos.CapturedValues[capturedIdx]
			capturedIdx++
		} else {
			fullArgs[i] = args[poppedIdx]
			poppedIdx++
		}
	}

	if callee.IsNative() {
		return false, vm.invokeNative(f, callee, fullArgs, argTypes)
	}

	newFrame, err := vm.newFrame(callee, f.TypeArgs, fullArgs)
	if err != nil {
		return false, err
	}
	if err := vm.calls.Push(newFrame); err != nil {
		return false, err
	}
	return true, nil
}
