package interpreter

import "github.com/aptos-labs/aptos-core-sub004/pkg/values"

// vmNativeContext adapts *VM to the narrow NativeContext surface a native
// function is allowed to see.
type vmNativeContext struct{ vm *VM }

func (c vmNativeContext) GasMeter() GasMeter           { return c.vm.gasMeter }
func (c vmNativeContext) DataStore() DataStore         { return c.vm.dataStore }
func (c vmNativeContext) CallStackView() []FrameView   { return c.vm.calls.Views() }

// invokeNative implements the native call bridge of §4.6: pop already
// happened in dispatchCallee; here we look the implementation up, run it,
// and reconcile its NativeOutcome against the VM's stacks and gas meter.
// Per §9's legacy gas-ordering note, native calls charge their cost after
// executing, not before.
func (vm *VM) invokeNative(caller *Frame, callee FunctionRef, args []values.Value, argTypes []RuntimeType) error {
	mod, ok := callee.Module()
	if !ok {
		return InvariantViolation(caller.loc(), nil, "native function %s has no owning module", callee.Name())
	}
	impl, found := vm.natives.Lookup(mod, callee.Name())
	if !found {
		return InvariantViolation(caller.loc(), nil, "native function %s::%s is not registered", mod, callee.Name())
	}

	outcome := impl(vmNativeContext{vm}, args)

	switch {
	case outcome.Success != nil:
		s := outcome.Success
		if len(s.Returns) != callee.ReturnCount() {
			return InvariantViolation(caller.loc(), nil,
				"native %s::%s returned %d values, declared %d", mod, callee.Name(), len(s.Returns), callee.ReturnCount())
		}
		if err := vm.chargeGas(caller.loc(), "native:"+callee.Name(), s.Cost); err != nil {
			return err
		}
		for _, v := range s.Returns {
			if err := vm.operand.Push(v, caller.loc()); err != nil {
				return err
			}
		}
		if vm.config.Paranoid {
			if len(s.ReturnTypes) != len(s.Returns) {
				return InvariantViolation(caller.loc(), nil,
					"native %s::%s did not report return types under paranoid mode", mod, callee.Name())
			}
			for _, t := range s.ReturnTypes {
				if err := vm.types.Push(t, caller.loc()); err != nil {
					return err
				}
			}
		}
		return nil

	case outcome.Abort != nil:
		a := outcome.Abort
		if err := vm.chargeGas(caller.loc(), "native_abort:"+callee.Name(), a.Cost); err != nil {
			return err
		}
		return Abort(caller.loc(), a.Code)

	case outcome.OutOfGas != nil:
		o := outcome.OutOfGas
		_ = vm.chargeGas(caller.loc(), "native_partial:"+callee.Name(), o.PartialCost)
		return OutOfGas(caller.loc(), "native "+callee.Name()+" exhausted the meter")

	default:
		return InvariantViolation(caller.loc(), nil, "native %s::%s returned an empty outcome", mod, callee.Name())
	}
}
