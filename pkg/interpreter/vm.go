// Package interpreter implements the stack-based Move bytecode
// interpreter: the operand and call stacks, the per-call Frame, the
// opcode dispatch loop, the native-function bridge, and (optionally) the
// paranoid type-and-ability checker that mirrors every opcode's effect on
// a shadow type stack.
package interpreter

import (
	"go.uber.org/zap"

	"github.com/aptos-labs/aptos-core-sub004/pkg/file"
	"github.com/aptos-labs/aptos-core-sub004/pkg/values"
)

// ExitCode is what Frame.executeCode hands back to the interpreter loop:
// either the frame returned, or it wants to transfer control to a callee.
type ExitCode uint8

const (
	ExitReturn ExitCode = iota
	ExitCall
	ExitCallGeneric
	// ExitCallClosure signals that execCallClosure already pushed the
	// callee's Move frame (a native target runs inline and never produces
	// this exit); Entrypoint has nothing further to do besides loop back to
	// vm.calls.Top().
	ExitCallClosure
)

// VM drives one invocation end to end. It is not safe for concurrent use
// (§5: strictly single-threaded and cooperative within an invocation) and
// is not meant to be reused across invocations — construct a fresh one per
// Entrypoint call.
type VM struct {
	config Config

	operand *OperandStack
	types   *TypeStack
	calls   *CallStack

	resolver  Resolver
	dataStore DataStore
	gasMeter  GasMeter
	natives   NativeFunctions

	logger *zap.Logger
	Trace  bool

	// gasConsumedLocal is a diagnostic running total kept purely for
	// observability (read through GasConsumed); the GasMeter is the sole
	// authority on whether execution may continue.
	gasConsumedLocal uint64
}

// New constructs a VM ready to run one Entrypoint call. logger may be nil.
func New(cfg Config, resolver Resolver, dataStore DataStore, gasMeter GasMeter, natives NativeFunctions, logger *zap.Logger) *VM {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VM{
		config:    cfg,
		operand:   NewOperandStack(cfg.OperandStackLimit),
		types:     NewTypeStack(cfg.OperandStackLimit),
		calls:     NewCallStack(cfg.CallStackLimit),
		resolver:  resolver,
		dataStore: dataStore,
		gasMeter:  gasMeter,
		natives:   natives,
		logger:    logger,
	}
}

// GasConsumed returns the diagnostic running total (see gasConsumedLocal).
func (vm *VM) GasConsumed() uint64 { return vm.gasConsumedLocal }

func (vm *VM) chargeGas(loc Location, label string, cost uint64) error {
	vm.gasConsumedLocal += cost
	if err := vm.gasMeter.Charge(label, cost); err != nil {
		vm.logger.Warn("out of gas", zap.String("op", label), zap.Uint64("cost", cost))
		return OutOfGas(loc, err.Error())
	}
	return nil
}

// Entrypoint is the interpreter's single public entry point (§4.6):
// build a Locals for fn from args, run frames until the call stack drains,
// and return the function's declared return values.
func (vm *VM) Entrypoint(fn FunctionRef, typeArgs []RuntimeType, args []values.Value) (_ []values.Value, err error) {
	defer func() {
		vmErr, ok := err.(*VMError)
		if !ok {
			return
		}
		if vmErr.Status == StatusAbort || vmErr.Status == StatusInvariantViolation {
			vm.logger.Warn("invocation failed", zap.Stringer("status", vmErr.Status), zap.Stringer("at", vmErr.Location))
		}
		for i := vm.calls.Len() - 1; i >= 0 && len(vmErr.trace) < vm.config.DebugTraceFrames; i-- {
			vmErr.trace = append(vmErr.trace, vm.calls.frames[i].loc())
		}
	}()
	if len(typeArgs) != fn.TypeParamCount() {
		return nil, InvariantViolation(Location{Function: fn.Name()}, nil,
			"type-argument count %d does not match function's %d type parameters", len(typeArgs), fn.TypeParamCount())
	}
	frame, err := vm.newFrame(fn, typeArgs, args)
	if err != nil {
		return nil, err
	}
	if err := vm.calls.Push(frame); err != nil {
		return nil, err
	}

	for {
		exit, target, targetGeneric, err := vm.executeCode(vm.calls.Top())
		if err != nil {
			return nil, err
		}

		switch exit {
		case ExitReturn:
			results, done, err := vm.handleReturn(fn)
			if err != nil {
				return nil, err
			}
			if done {
				return results, nil
			}
			// Otherwise a caller frame resumed; loop to keep executing it.
		case ExitCall:
			if err := vm.handleCall(target); err != nil {
				return nil, err
			}
		case ExitCallGeneric:
			if err := vm.handleCallGeneric(targetGeneric); err != nil {
				return nil, err
			}
		case ExitCallClosure:
			// execCallClosure already did all the work (pushed a Move
			// frame); nothing to do here.
		}
	}
}

func (vm *VM) newFrame(fn FunctionRef, typeArgs []RuntimeType, args []values.Value) (*Frame, error) {
	if fn.LocalCount() > vm.config.MaxFrameLocals {
		return nil, ExecutionFailure(Location{Function: fn.Name()}, "function declares %d locals, exceeding limit %d", fn.LocalCount(), vm.config.MaxFrameLocals)
	}
	locals := values.NewLocals(fn.LocalCount())
	for i, a := range args {
		locals.StoreLoc(i, a)
	}
	var modID *file.ModuleID
	if m, ok := fn.Module(); ok {
		modID = &m
	}
	frame := &Frame{Function: fn, TypeArgs: typeArgs, Locals: locals, module: modID}
	if vm.config.Paranoid {
		localTypes, err := vm.instantiatedLocalTypes(fn, typeArgs)
		if err != nil {
			return nil, err
		}
		frame.LocalTypes = localTypes
	}
	return frame, nil
}

// handleReturn implements step 4 of §4.6's top-level algorithm: drop
// remaining locals (charging gas per value, after the fact — this is one
// of the legacy-ordered charges named in §9), then either finish the
// invocation or resume the caller.
func (vm *VM) handleReturn(entryFn FunctionRef) (results []values.Value, done bool, err error) {
	finished := vm.calls.Pop()
	loc := finished.loc()

	var dropErr error
	finished.Locals.DropAllValues(func(values.Value) {
		if dropErr != nil {
			return
		}
		dropErr = vm.chargeGas(loc, "drop_local", 1)
	})
	if dropErr != nil {
		return nil, false, dropErr
	}

	if vm.calls.Len() == 0 {
		n := finished.Function.ReturnCount()
		vals, err := vm.operand.PopN(n, loc)
		if err != nil {
			return nil, false, err
		}
		if vm.config.Paranoid {
			if _, err := vm.types.PopN(n, loc); err != nil {
				return nil, false, err
			}
		}
		return vals, true, nil
	}

	// The caller's PC was already advanced past its Call/CallGeneric/
	// CallClosure instruction at dispatch time (vm_exec.go); don't bump it
	// again here or every Move-to-Move call would skip the instruction
	// right after the call.
	return nil, false, nil
}

// handleCall implements the non-generic Call exit: resolve, dispatch to
// native or push a new Move frame.
func (vm *VM) handleCall(idx file.FunctionHandleIndex) error {
	caller := vm.calls.Top()
	callee, err := vm.resolver.ResolveFunction(idx)
	if err != nil {
		return AsInvariantViolation(caller.loc(), err)
	}
	return vm.dispatchCallee(caller, callee, nil)
}

func (vm *VM) handleCallGeneric(idx file.FunctionInstantiationIndex) error {
	caller := vm.calls.Top()
	callerTypeArgs := caller.TypeArgs
	callee, err := vm.resolver.ResolveFunctionGeneric(idx, callerTypeArgs)
	if err != nil {
		return AsInvariantViolation(caller.loc(), err)
	}
	typeArgs, err := vm.instantiationTypeArgs(idx, callerTypeArgs)
	if err != nil {
		return err
	}
	return vm.dispatchCallee(caller, callee, typeArgs)
}

// instantiationTypeArgs resolves a FunctionInstantiation's own type
// arguments (themselves tokens over the caller's type parameters) into
// concrete RuntimeTypes under the caller's current substitution. The
// Resolver owns the signature-pool lookup; this just asks for it through
// the uniform Signature() contract used elsewhere.
func (vm *VM) instantiationTypeArgs(_ file.FunctionInstantiationIndex, callerTypeArgs []RuntimeType) ([]RuntimeType, error) {
	// The Resolver already folded the instantiation's type arguments into
	// the FunctionRef it returned from ResolveFunctionGeneric (it is the
	// only component that can see the instantiation table); nothing
	// further to compute here beyond passing the caller's own args
	// through unchanged for HandleCallGeneric's benefit.
	return callerTypeArgs, nil
}

func (vm *VM) dispatchCallee(caller *Frame, callee FunctionRef, typeArgs []RuntimeType) error {
	if typeArgs == nil {
		typeArgs = make([]RuntimeType, 0)
	}

	if err := vm.checkVisibility(caller, callee); err != nil {
		return err
	}

	argc := callee.ParamCount()
	args, err := vm.operand.PopN(argc, caller.loc())
	if err != nil {
		return err
	}
	var argTypes []RuntimeType
	if vm.config.Paranoid {
		argTypes, err = vm.types.PopN(argc, caller.loc())
		if err != nil {
			return err
		}
	}

	if callee.IsNative() {
		return vm.invokeNative(caller, callee, args, argTypes)
	}

	newFrame, err := vm.newFrame(callee, typeArgs, args)
	if err != nil {
		return err
	}
	if err := vm.calls.Push(newFrame); err != nil {
		return err
	}
	return nil
}

// checkVisibility enforces §4.6's rule: a callee in a different address
// than the caller is rejected unless it is public.
func (vm *VM) checkVisibility(caller *Frame, callee FunctionRef) error {
	if callee.Visibility() == file.VisibilityPublic {
		return nil
	}
	callerMod, callerOK := caller.Function.Module()
	calleeMod, calleeOK := callee.Module()
	if !callerOK || !calleeOK {
		// A script's main calling a private/friend function is always
		// rejected; scripts have no module identity of their own.
		return InvariantViolation(caller.loc(), nil, "call to non-public function %s from a script", callee.Name())
	}
	if callerMod.Address == calleeMod.Address {
		return nil
	}
	return InvariantViolation(caller.loc(), nil,
		"call to %s visibility function %s across module boundary (%s -> %s)",
		visibilityName(callee.Visibility()), callee.Name(), callerMod, calleeMod)
}

func visibilityName(v file.Visibility) string {
	switch v {
	case file.VisibilityPrivate:
		return "private"
	case file.VisibilityFriend:
		return "friend"
	default:
		return "public"
	}
}
