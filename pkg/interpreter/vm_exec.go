package interpreter

import (
	"go.uber.org/zap"

	"github.com/aptos-labs/aptos-core-sub004/pkg/file"
)

// chargeAfter is the small set of opcodes whose gas charge is ordered
// after value-level execution rather than before, per §9's "ordering of
// gas charges" note. Everything else charges before.
func chargeAfter(op file.Op) bool {
	switch op {
	case file.OpMoveTo, file.OpMoveToGeneric, file.OpMoveFrom, file.OpMoveFromGeneric,
		file.OpVecPushBack, file.OpVecPopBack:
		return true
	default:
		return false
	}
}

// executeCode interprets f's instructions from f.PC forward until a
// branch (which rewrites PC and restarts this same loop), a
// Ret/Call/CallGeneric or a CallClosure that pushed a Move frame (which
// returns control to Entrypoint via an ExitCode), an error (including
// Abort), or falling off the end of the code vector (a pc-overflow
// ExecutionFailure).
func (vm *VM) executeCode(f *Frame) (ExitCode, file.FunctionHandleIndex, file.FunctionInstantiationIndex, error) {
	code := f.code()
	for {
		if int(f.PC) >= len(code) {
			return 0, 0, 0, ExecutionFailure(f.loc(), "pc overflow: fell off the end of %s's code", f.Function.Name())
		}
		instr := code[f.PC]

		if vm.Trace {
			vm.logger.Debug("exec", zap.String("fn", f.Function.Name()), zap.Uint16("pc", uint16(f.PC)), zap.String("op", opName(instr.Op)))
		}

		pre := !chargeAfter(instr.Op)
		if pre {
			if err := vm.chargeGas(f.loc(), opName(instr.Op), baseOpCost(instr.Op)); err != nil {
				return 0, 0, 0, err
			}
		}

		advance := true
		var exit ExitCode
		var callTarget file.FunctionHandleIndex
		var callGenericTarget file.FunctionInstantiationIndex
		var terminal bool
		var err error

		switch instr.Op {
		case file.OpRet:
			if err = vm.checkLocalsDroppableOnReturn(f); err != nil {
				return 0, 0, 0, err
			}
			exit, terminal = ExitReturn, true
		case file.OpAbort:
			err = vm.execAbort(f)
		case file.OpBrTrue, file.OpBrFalse, file.OpBranch:
			advance, err = vm.execBranch(f, instr)
		case file.OpCall:
			callTarget, terminal, exit = instr.FuncHandleIdx, true, ExitCall
		case file.OpCallGeneric:
			callGenericTarget, terminal, exit = instr.FuncInstIdx, true, ExitCallGeneric
		case file.OpCallClosure:
			var pushed bool
			pushed, err = vm.execCallClosure(f, instr)
			if pushed {
				terminal, exit = true, ExitCallClosure
			}
		default:
			err = vm.execValueOp(f, instr)
		}

		if err != nil {
			return 0, 0, 0, err
		}

		if terminal {
			if instr.Op == file.OpCall || instr.Op == file.OpCallGeneric || instr.Op == file.OpCallClosure {
				// §4.6: the caller's pc advances past Call on resume. This is
				// the only place that happens: a Move callee resumes the
				// caller frame in place (handleReturn does not re-advance
				// it), and a native callee runs to completion inline without
				// ever pushing a new frame, so this is its only advance too.
				f.PC++
			}
			return exit, callTarget, callGenericTarget, nil
		}

		if err := vm.checkBalance(f.loc()); err != nil {
			return 0, 0, 0, err
		}

		if advance {
			f.PC++
		}
	}
}

func (vm *VM) execAbort(f *Frame) error {
	v, err := vm.operand.Pop(f.loc())
	if err != nil {
		return err
	}
	if _, err := vm.tyPop(f.loc()); err != nil {
		return err
	}
	return Abort(f.loc(), v.U64())
}

func (vm *VM) execBranch(f *Frame, instr file.Bytecode) (advance bool, err error) {
	switch instr.Op {
	case file.OpBranch:
		f.PC = instr.CodeOffset
		return false, nil
	case file.OpBrTrue, file.OpBrFalse:
		v, err := vm.operand.Pop(f.loc())
		if err != nil {
			return false, err
		}
		if _, err := vm.tyPop(f.loc()); err != nil {
			return false, err
		}
		flag := v.Bool()
		take := (instr.Op == file.OpBrTrue && flag) || (instr.Op == file.OpBrFalse && !flag)
		if take {
			f.PC = instr.CodeOffset
			return false, nil
		}
		return true, nil
	default:
		return true, nil
	}
}
