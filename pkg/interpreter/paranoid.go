// Paranoid Type Checker (§4.7): a shadow type stack mirrored against the
// real operand stack, and the ability checks layered on top of it. The
// opcode handlers in opcodes_*.go call the small helpers here; every call
// is a no-op when the VM was not constructed with Config.Paranoid, so
// correctness of the value-level interpreter never depends on this file.
package interpreter

import (
	"github.com/aptos-labs/aptos-core-sub004/pkg/file"
	"github.com/aptos-labs/aptos-core-sub004/pkg/signature"
)

func (vm *VM) instantiatedLocalTypes(fn FunctionRef, typeArgs []RuntimeType) ([]RuntimeType, error) {
	declared := fn.DeclaredLocalTypes()
	subst := make([]file.Token, len(typeArgs))
	for i, t := range typeArgs {
		subst[i] = t.Token
	}
	out := make([]RuntimeType, len(declared))
	for i, tok := range declared {
		inst := signature.Instantiate(tok, subst)
		out[i] = RuntimeType{Token: inst, Abilities: vm.resolver.Abilities(RuntimeType{Token: inst})}
	}
	return out, nil
}

// tyPop pops the shadow type stack; a no-op returning the zero value when
// not running paranoid.
func (vm *VM) tyPop(loc Location) (RuntimeType, error) {
	if !vm.config.Paranoid {
		return RuntimeType{}, nil
	}
	return vm.types.Pop(loc)
}

func (vm *VM) tyPopN(n int, loc Location) ([]RuntimeType, error) {
	if !vm.config.Paranoid {
		return nil, nil
	}
	return vm.types.PopN(n, loc)
}

func (vm *VM) tyPush(t RuntimeType, loc Location) error {
	if !vm.config.Paranoid {
		return nil
	}
	return vm.types.Push(t, loc)
}

func (vm *VM) tyTop(loc Location) (RuntimeType, error) {
	if !vm.config.Paranoid {
		return RuntimeType{}, nil
	}
	return vm.types.Top(loc)
}

// requireAbility enforces that t carries ability a, reporting
// InvariantViolation (a verifier-bypass, per §7) if not. context names the
// opcode/operation for the error message.
func (vm *VM) requireAbility(t RuntimeType, a file.Ability, loc Location, context string) error {
	if !vm.config.Paranoid {
		return nil
	}
	if !t.Abilities.Has(a) {
		return InvariantViolation(loc, nil, "%s: type %v lacks required ability %s (has %s)", context, t.Token.Tag, a, t.Abilities)
	}
	return nil
}

// requireSameType enforces structural equality between two runtime types,
// used by WriteRef's "prior referent type matches written value's type"
// rule (testable property 3) and by the operand checks of Pack,
// PackVariant, VecPack, VecPushBack, MoveTo, PackClosure and CallClosure.
// Eq/Neq do not call it; they check only drop on both operands.
func (vm *VM) requireSameType(a, b RuntimeType, loc Location, context string) error {
	if !vm.config.Paranoid {
		return nil
	}
	if !signature.StructuralEqual(a.Token, b.Token) {
		return InvariantViolation(loc, nil, "%s: type mismatch", context)
	}
	return nil
}

// checkBalance is called by the dispatch loop after every opcode
// completes without error (testable property 1).
func (vm *VM) checkBalance(loc Location) error {
	if !vm.config.Paranoid {
		return nil
	}
	return CheckBalance(vm.operand, vm.types, loc)
}

// checkLocalsDroppableOnReturn is Ret's pre-transition: every local still
// holding a value must have the drop ability (testable property 2).
func (vm *VM) checkLocalsDroppableOnReturn(f *Frame) error {
	if !vm.config.Paranoid {
		return nil
	}
	for i := 0; i < f.Locals.Len(); i++ {
		if !f.Locals.IsValid(i) {
			continue
		}
		if !f.LocalTypes[i].Abilities.HasDrop() {
			return InvariantViolation(f.loc(), nil, "Ret: local %d still holds a non-droppable value", i)
		}
	}
	return nil
}

// checkStoreLocDrop is StLoc's pre-transition: overwriting a valid slot
// requires the prior value's type to have drop.
func (vm *VM) checkStoreLocDrop(f *Frame, idx int) error {
	if !vm.config.Paranoid {
		return nil
	}
	if !f.Locals.IsValid(idx) {
		return nil
	}
	if !f.LocalTypes[idx].Abilities.HasDrop() {
		return InvariantViolation(f.loc(), nil, "StLoc: overwriting local %d requires its prior value to have drop", idx)
	}
	return nil
}
