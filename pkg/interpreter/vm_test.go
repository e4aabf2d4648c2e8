package interpreter_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aptos-labs/aptos-core-sub004/pkg/file"
	"github.com/aptos-labs/aptos-core-sub004/pkg/interpreter"
	"github.com/aptos-labs/aptos-core-sub004/pkg/values"
)

func newVM(t *testing.T, r interpreter.Resolver, paranoid bool) *interpreter.VM {
	t.Helper()
	cfg := interpreter.DefaultConfig()
	cfg.Paranoid = paranoid
	return interpreter.New(cfg, r, newTestDataStore(), newUnlimitedGasMeter(), newTestNatives(), nil)
}

// S1 — Arithmetic: LdU64(2); LdU64(3); Add; Ret returns [u64 5].
func TestScenario_Arithmetic(t *testing.T) {
	r := newTestResolver()
	fn := &testFunc{
		name:        "add",
		resultTypes: []file.Token{file.NewU64Token()},
		code: []file.Bytecode{
			{Op: file.OpLdU64, U64Val: 2},
			{Op: file.OpLdU64, U64Val: 3},
			{Op: file.OpAdd},
			{Op: file.OpRet},
		},
	}
	r.registerFunc(0, fn)

	vm := newVM(t, r, true)
	results, err := vm.Entrypoint(fn, nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, uint64(5), results[0].U64())
}

// S2 — Overflow: LdU8(200); LdU8(200); Add; Ret errors before Ret.
func TestScenario_Overflow(t *testing.T) {
	r := newTestResolver()
	fn := &testFunc{
		name:        "addOverflow",
		resultTypes: []file.Token{file.NewU8Token()},
		code: []file.Bytecode{
			{Op: file.OpLdU8, U8Val: 200},
			{Op: file.OpLdU8, U8Val: 200},
			{Op: file.OpAdd},
			{Op: file.OpRet},
		},
	}
	r.registerFunc(0, fn)

	vm := newVM(t, r, true)
	_, err := vm.Entrypoint(fn, nil, nil)
	require.Error(t, err)
	vmErr, ok := err.(*interpreter.VMError)
	require.True(t, ok)
	assert.Equal(t, interpreter.StatusArithmeticError, vmErr.Status)
}

// S3 — Generic call: id<T>(x: T): T { Ret } called with [u64], arg u64 7.
func TestScenario_GenericIdentity(t *testing.T) {
	r := newTestResolver()
	fn := &testFunc{
		name:         "id",
		paramTypes:   []file.Token{file.NewTypeParameterToken(0)},
		resultTypes:  []file.Token{file.NewTypeParameterToken(0)},
		localTypes:   []file.Token{file.NewTypeParameterToken(0)},
		typeParamCnt: 1,
		code: []file.Bytecode{
			{Op: file.OpMoveLoc, LocalIdx: 0},
			{Op: file.OpRet},
		},
	}
	r.registerFunc(0, fn)

	vm := newVM(t, r, true)
	typeArgs := []interpreter.RuntimeType{{Token: file.NewU64Token(), Abilities: testAbilities(file.NewU64Token())}}
	results, err := vm.Entrypoint(fn, typeArgs, []values.Value{values.NewU64(7)})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, uint64(7), results[0].U64())
}

// S4 — Global lifecycle: MoveTo, Exists, MoveFrom, Exists for a `key`
// struct R { v: u64 }.
func TestScenario_GlobalLifecycle(t *testing.T) {
	r := newTestResolver()
	structIdx := file.StructHandleIndex(0)
	r.structs[structIdx] = &testStruct{
		abilities: file.NewAbilitySet(file.AbilityKey, file.AbilityStore),
		fields:    []file.Token{file.NewU64Token()},
	}

	signer := values.Address{0xA}

	moveToFn := &testFunc{
		name:        "moveTo",
		paramTypes:  []file.Token{file.NewSignerToken()},
		localTypes:  []file.Token{file.NewSignerToken()},
		resultTypes: nil,
		code: []file.Bytecode{
			// Canonical Move bytecode pushes the signer before the resource
			// (the resource ends up on top, per execMoveTo's pop order).
			{Op: file.OpMoveLoc, LocalIdx: 0},
			{Op: file.OpLdU64, U64Val: 1},
			{Op: file.OpPack, StructDefIdx: file.StructDefinitionIndex(structIdx)},
			{Op: file.OpMoveTo, StructDefIdx: file.StructDefinitionIndex(structIdx)},
			{Op: file.OpRet},
		},
	}
	existsFn := &testFunc{
		name:        "exists",
		paramTypes:  []file.Token{file.NewAddressToken()},
		localTypes:  []file.Token{file.NewAddressToken()},
		resultTypes: []file.Token{file.NewBoolToken()},
		code: []file.Bytecode{
			{Op: file.OpMoveLoc, LocalIdx: 0},
			{Op: file.OpExists, StructDefIdx: file.StructDefinitionIndex(structIdx)},
			{Op: file.OpRet},
		},
	}
	moveFromFn := &testFunc{
		name:        "moveFrom",
		paramTypes:  []file.Token{file.NewAddressToken()},
		localTypes:  []file.Token{file.NewAddressToken()},
		resultTypes: []file.Token{file.NewStructToken(structIdx)},
		code: []file.Bytecode{
			{Op: file.OpMoveLoc, LocalIdx: 0},
			{Op: file.OpMoveFrom, StructDefIdx: file.StructDefinitionIndex(structIdx)},
			{Op: file.OpRet},
		},
	}
	r.registerFunc(0, moveToFn)
	r.registerFunc(1, existsFn)
	r.registerFunc(2, moveFromFn)

	ds := newTestDataStore()
	vm := interpreter.New(interpreter.DefaultConfig(), r, ds, newUnlimitedGasMeter(), newTestNatives(), nil)
	_, err := vm.Entrypoint(moveToFn, nil, []values.Value{values.NewSigner(signer)})
	require.NoError(t, err)

	vm2 := interpreter.New(interpreter.DefaultConfig(), r, ds, newUnlimitedGasMeter(), newTestNatives(), nil)
	existsResult, err := vm2.Entrypoint(existsFn, nil, []values.Value{values.NewAddress(signer)})
	require.NoError(t, err)
	assert.True(t, existsResult[0].Bool())

	vm3 := interpreter.New(interpreter.DefaultConfig(), r, ds, newUnlimitedGasMeter(), newTestNatives(), nil)
	moveFromResult, err := vm3.Entrypoint(moveFromFn, nil, []values.Value{values.NewAddress(signer)})
	require.NoError(t, err)
	require.Len(t, moveFromResult, 1)
	assert.Equal(t, uint64(1), moveFromResult[0].Struct().Fields[0].U64())

	vm4 := interpreter.New(interpreter.DefaultConfig(), r, ds, newUnlimitedGasMeter(), newTestNatives(), nil)
	existsAfter, err := vm4.Entrypoint(existsFn, nil, []values.Value{values.NewAddress(signer)})
	require.NoError(t, err)
	assert.False(t, existsAfter[0].Bool())
}

// MoveTo on an address that already holds the resource aborts with the
// dedicated duplicate-resource code.
func TestScenario_MoveToExistingAborts(t *testing.T) {
	r := newTestResolver()
	structIdx := file.StructHandleIndex(0)
	r.structs[structIdx] = &testStruct{
		abilities: file.NewAbilitySet(file.AbilityKey, file.AbilityStore),
		fields:    []file.Token{file.NewU64Token()},
	}
	moveToFn := &testFunc{
		name:       "moveTo",
		paramTypes: []file.Token{file.NewSignerToken()},
		localTypes: []file.Token{file.NewSignerToken()},
		code: []file.Bytecode{
			{Op: file.OpMoveLoc, LocalIdx: 0},
			{Op: file.OpLdU64, U64Val: 1},
			{Op: file.OpPack, StructDefIdx: file.StructDefinitionIndex(structIdx)},
			{Op: file.OpMoveTo, StructDefIdx: file.StructDefinitionIndex(structIdx)},
			{Op: file.OpRet},
		},
	}
	r.registerFunc(0, moveToFn)

	ds := newTestDataStore()
	signer := values.Address{0xB}
	vm1 := interpreter.New(interpreter.DefaultConfig(), r, ds, newUnlimitedGasMeter(), newTestNatives(), nil)
	_, err := vm1.Entrypoint(moveToFn, nil, []values.Value{values.NewSigner(signer)})
	require.NoError(t, err)

	vm2 := interpreter.New(interpreter.DefaultConfig(), r, ds, newUnlimitedGasMeter(), newTestNatives(), nil)
	_, err = vm2.Entrypoint(moveToFn, nil, []values.Value{values.NewSigner(signer)})
	require.Error(t, err)
	vmErr := err.(*interpreter.VMError)
	assert.Equal(t, interpreter.StatusAbort, vmErr.Status)
	assert.Equal(t, interpreter.AbortCodeMoveToExisting, vmErr.AbortCode)
}

// S5 — Reference write: x: u64 = 10; MutBorrowLoc(0); LdU64(42); WriteRef;
// CopyLoc(0); Ret returns [u64 42].
func TestScenario_ReferenceWrite(t *testing.T) {
	r := newTestResolver()
	fn := &testFunc{
		name:        "writeRef",
		localTypes:  []file.Token{file.NewU64Token()},
		resultTypes: []file.Token{file.NewU64Token()},
		code: []file.Bytecode{
			{Op: file.OpMutBorrowLoc, LocalIdx: 0},
			{Op: file.OpLdU64, U64Val: 42},
			{Op: file.OpWriteRef},
			{Op: file.OpCopyLoc, LocalIdx: 0},
			{Op: file.OpRet},
		},
	}
	r.registerFunc(0, fn)

	vm := newVM(t, r, true)
	locals := []values.Value{values.NewU64(10)}
	// The frame's locals are built from args positionally; simulate the
	// "Locals [x: u64 = 10]" starting state by passing x as the sole arg.
	fn.paramTypes = []file.Token{file.NewU64Token()}
	results, err := vm.Entrypoint(fn, nil, locals)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, uint64(42), results[0].U64())
}

// S6 — Vector ops: LdU64(1); LdU64(2); LdU64(3); VecPack(u64, 3); Ret
// returns a single vector [1,2,3] of element type u64.
func TestScenario_VectorPack(t *testing.T) {
	base := newTestResolver()
	r := &resolverWithSignature{testResolver: base, sigs: map[file.SignatureIndex][]file.Token{
		0: {file.NewU64Token()},
	}}
	fn := &testFunc{
		name: "vecPack",
		code: []file.Bytecode{
			{Op: file.OpLdU64, U64Val: 1},
			{Op: file.OpLdU64, U64Val: 2},
			{Op: file.OpLdU64, U64Val: 3},
			{Op: file.OpVecPack, VecLen: 3, VecElemSigIdx: 0},
			{Op: file.OpRet},
		},
		resultTypes: []file.Token{file.NewVectorToken(file.NewU64Token())},
	}
	r.registerFunc(0, fn)

	vm := newVM(t, r, true)
	results, err := vm.Entrypoint(fn, nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	vec := results[0].Vector()
	require.Len(t, vec.Elems, 3)
	assert.Equal(t, uint64(1), vec.Elems[0].U64())
	assert.Equal(t, uint64(2), vec.Elems[1].U64())
	assert.Equal(t, uint64(3), vec.Elems[2].U64())
}

// PackClosure captures the first of a two-argument function's parameters;
// CallClosure supplies the remaining free argument. §4.6: "the top of
// stack is a closure; beneath it lie n argument values" — the free
// argument is pushed before PackClosure runs so it ends up underneath the
// closure value PackClosure produces.
func TestScenario_ClosureCaptureAndCall(t *testing.T) {
	base := newTestResolver()
	addXY := &testFunc{
		name:        "addXY",
		visibility:  file.VisibilityPublic,
		paramTypes:  []file.Token{file.NewU64Token(), file.NewU64Token()},
		localTypes:  []file.Token{file.NewU64Token(), file.NewU64Token()},
		resultTypes: []file.Token{file.NewU64Token()},
		code: []file.Bytecode{
			{Op: file.OpMoveLoc, LocalIdx: 0},
			{Op: file.OpMoveLoc, LocalIdx: 1},
			{Op: file.OpAdd},
			{Op: file.OpRet},
		},
	}
	base.registerFunc(0, addXY)

	r := &resolverWithSignature{testResolver: base, sigs: map[file.SignatureIndex][]file.Token{
		0: {file.NewFunctionToken(
			[]file.Token{file.NewU64Token()},
			[]file.Token{file.NewU64Token()},
			file.NewAbilitySet(file.AbilityCopy, file.AbilityDrop, file.AbilityStore),
		)},
	}}
	main := &testFunc{
		name:        "callIt",
		resultTypes: []file.Token{file.NewU64Token()},
		code: []file.Bytecode{
			{Op: file.OpLdU64, U64Val: 32}, // free arg y, pushed first
			{Op: file.OpLdU64, U64Val: 10}, // captured arg x, pushed last
			{Op: file.OpPackClosure, FuncHandleIdx: 0, Mask: file.ClosureMask(1)},
			{Op: file.OpCallClosure, SigIdx: 0},
			{Op: file.OpRet},
		},
	}
	r.registerFunc(1, main)

	vm := newVM(t, r, true)
	results, err := vm.Entrypoint(main, nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, uint64(42), results[0].U64())
}

func TestBoundary_CastU8Fits(t *testing.T) {
	r := newTestResolver()
	fn := &testFunc{
		name:        "castFits",
		resultTypes: []file.Token{file.NewU8Token()},
		code: []file.Bytecode{
			{Op: file.OpLdU256, U256Val: uint256.NewInt(255)},
			{Op: file.OpCastU8},
			{Op: file.OpRet},
		},
	}
	r.registerFunc(0, fn)
	vm := newVM(t, r, true)
	results, err := vm.Entrypoint(fn, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), results[0].U8())
}

func TestBoundary_CastU8Overflows(t *testing.T) {
	r := newTestResolver()
	fn := &testFunc{
		name:        "castOverflows",
		resultTypes: []file.Token{file.NewU8Token()},
		code: []file.Bytecode{
			{Op: file.OpLdU256, U256Val: uint256.NewInt(256)},
			{Op: file.OpCastU8},
			{Op: file.OpRet},
		},
	}
	r.registerFunc(0, fn)
	vm := newVM(t, r, true)
	_, err := vm.Entrypoint(fn, nil, nil)
	require.Error(t, err)
	assert.Equal(t, interpreter.StatusArithmeticError, err.(*interpreter.VMError).Status)
}

func TestBoundary_DivByZero(t *testing.T) {
	r := newTestResolver()
	fn := &testFunc{
		name:        "divZero",
		resultTypes: []file.Token{file.NewU64Token()},
		code: []file.Bytecode{
			{Op: file.OpLdU64, U64Val: 10},
			{Op: file.OpLdU64, U64Val: 0},
			{Op: file.OpDiv},
			{Op: file.OpRet},
		},
	}
	r.registerFunc(0, fn)
	vm := newVM(t, r, true)
	_, err := vm.Entrypoint(fn, nil, nil)
	require.Error(t, err)
	assert.Equal(t, interpreter.StatusArithmeticError, err.(*interpreter.VMError).Status)
}

func TestBoundary_ShiftByBitWidth(t *testing.T) {
	r := newTestResolver()
	fn := &testFunc{
		name:        "shiftOverflow",
		resultTypes: []file.Token{file.NewU8Token()},
		code: []file.Bytecode{
			{Op: file.OpLdU8, U8Val: 1},
			{Op: file.OpLdU8, U8Val: 8},
			{Op: file.OpShl},
			{Op: file.OpRet},
		},
	}
	r.registerFunc(0, fn)
	vm := newVM(t, r, true)
	_, err := vm.Entrypoint(fn, nil, nil)
	require.Error(t, err)
	assert.Equal(t, interpreter.StatusArithmeticError, err.(*interpreter.VMError).Status)
}

func TestBoundary_VecPopBackOnEmptyAborts(t *testing.T) {
	base := newTestResolver()
	r := &resolverWithSignature{testResolver: base, sigs: map[file.SignatureIndex][]file.Token{
		0: {file.NewU64Token()},
	}}
	fn := &testFunc{
		name:       "popEmpty",
		localTypes: []file.Token{file.NewVectorToken(file.NewU64Token())},
		code: []file.Bytecode{
			{Op: file.OpVecPack, VecLen: 0, VecElemSigIdx: 0},
			{Op: file.OpStLoc, LocalIdx: 0},
			{Op: file.OpMutBorrowLoc, LocalIdx: 0},
			{Op: file.OpVecPopBack},
			{Op: file.OpPop},
			{Op: file.OpRet},
		},
	}
	r.registerFunc(0, fn)
	vm := newVM(t, r, true)
	_, err := vm.Entrypoint(fn, nil, nil)
	require.Error(t, err)
	vmErr := err.(*interpreter.VMError)
	assert.Equal(t, interpreter.StatusAbort, vmErr.Status)
	assert.Equal(t, interpreter.AbortCodeVectorEmptyPop, vmErr.AbortCode)
}

// A Call that returns must resume the caller at the instruction right
// after the Call, not the one after that: the caller's PC is advanced
// exactly once across the whole dispatch/return round trip.
func TestCall_ResumesCallerAtNextInstruction(t *testing.T) {
	r := newTestResolver()
	callee := &testFunc{
		name:        "one",
		visibility:  file.VisibilityPublic,
		resultTypes: []file.Token{file.NewU64Token()},
		code: []file.Bytecode{
			{Op: file.OpLdU64, U64Val: 1},
			{Op: file.OpRet},
		},
	}
	caller := &testFunc{
		name:        "callerPlusForty1",
		resultTypes: []file.Token{file.NewU64Token()},
		code: []file.Bytecode{
			{Op: file.OpCall, FuncHandleIdx: 0},
			{Op: file.OpLdU64, U64Val: 41},
			{Op: file.OpAdd},
			{Op: file.OpRet},
		},
	}
	r.registerFunc(0, callee)
	r.registerFunc(1, caller)

	vm := newVM(t, r, true)
	results, err := vm.Entrypoint(caller, nil, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, uint64(42), results[0].U64())
}

func TestCallStackOverflow(t *testing.T) {
	r := newTestResolver()
	var fn *testFunc
	fn = &testFunc{
		name:       "recurse",
		visibility: file.VisibilityPublic,
		code: []file.Bytecode{
			{Op: file.OpCall, FuncHandleIdx: 0},
			{Op: file.OpRet},
		},
	}
	r.registerFunc(0, fn)

	cfg := interpreter.DefaultConfig()
	cfg.CallStackLimit = 4
	vm := interpreter.New(cfg, r, newTestDataStore(), newUnlimitedGasMeter(), newTestNatives(), nil)
	_, err := vm.Entrypoint(fn, nil, nil)
	require.Error(t, err)
	assert.Equal(t, interpreter.StatusExecutionFailure, err.(*interpreter.VMError).Status)
}

func TestOutOfGas(t *testing.T) {
	r := newTestResolver()
	fn := &testFunc{
		name:        "loop",
		resultTypes: []file.Token{file.NewU64Token()},
		code: []file.Bytecode{
			{Op: file.OpLdU64, U64Val: 1},
			{Op: file.OpLdU64, U64Val: 2},
			{Op: file.OpAdd},
			{Op: file.OpRet},
		},
	}
	r.registerFunc(0, fn)
	vm := interpreter.New(interpreter.DefaultConfig(), r, newTestDataStore(), newBudgetedGasMeter(1), newTestNatives(), nil)
	_, err := vm.Entrypoint(fn, nil, nil)
	require.Error(t, err)
	assert.Equal(t, interpreter.StatusOutOfGas, err.(*interpreter.VMError).Status)
}
