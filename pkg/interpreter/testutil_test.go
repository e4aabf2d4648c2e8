package interpreter_test

import (
	"github.com/aptos-labs/aptos-core-sub004/pkg/file"
	"github.com/aptos-labs/aptos-core-sub004/pkg/interpreter"
	"github.com/aptos-labs/aptos-core-sub004/pkg/signature"
	"github.com/aptos-labs/aptos-core-sub004/pkg/values"
)

// testFunc is a hand-built FunctionRef fixture: no deserializer or
// loader runs in these tests, so each test builds the tiny function(s)
// it needs directly against the interpreter.Resolver/FunctionRef
// contracts, the way the package's own fixtures would.
type testFunc struct {
	module       *file.ModuleID
	name         string
	native       bool
	visibility   file.Visibility
	paramTypes   []file.Token
	resultTypes  []file.Token
	localTypes   []file.Token // parameters first, then let-bound locals
	typeParamCnt int
	code         []file.Bytecode
}

func (f *testFunc) IsNative() bool { return f.native }
func (f *testFunc) Module() (file.ModuleID, bool) {
	if f.module == nil {
		return file.ModuleID{}, false
	}
	return *f.module, true
}
func (f *testFunc) Name() string              { return f.name }
func (f *testFunc) Visibility() file.Visibility { return f.visibility }
func (f *testFunc) ParamCount() int           { return len(f.paramTypes) }
func (f *testFunc) ReturnCount() int          { return len(f.resultTypes) }
func (f *testFunc) LocalCount() int           { return len(f.localTypes) }
func (f *testFunc) ParamTypes() []interpreter.RuntimeType {
	return toRuntimeTypes(f.paramTypes, testAbilities)
}
func (f *testFunc) ResultTypes() []interpreter.RuntimeType {
	return toRuntimeTypes(f.resultTypes, testAbilities)
}
func (f *testFunc) Code() []file.Bytecode        { return f.code }
func (f *testFunc) TypeParamCount() int          { return f.typeParamCnt }
func (f *testFunc) DeclaredLocalTypes() []file.Token { return f.localTypes }

func toRuntimeTypes(toks []file.Token, abilities func(file.Token) file.AbilitySet) []interpreter.RuntimeType {
	out := make([]interpreter.RuntimeType, len(toks))
	for i, t := range toks {
		out[i] = interpreter.RuntimeType{Token: t, Abilities: abilities(t)}
	}
	return out
}

// testStruct describes a fixture struct definition keyed by a
// StructHandleIndex, resolved through testResolver.
type testStruct struct {
	abilities file.AbilitySet
	fields    []file.Token
	variants  [][]file.Token // non-nil only for variant-capable structs
}

// testResolver is a minimal, in-memory Resolver built directly by each
// test: no signature/constant pool deserialization, just the handful of
// lookups a given scenario exercises.
type testResolver struct {
	funcs       map[string]*testFunc
	structs     map[file.StructHandleIndex]*testStruct
	constants   map[file.ConstantPoolIndex]constantFixture
	funcHandles map[file.FunctionHandleIndex]string
}

type constantFixture struct {
	value values.Value
	typ   file.Token
}

func newTestResolver() *testResolver {
	return &testResolver{
		funcs:       map[string]*testFunc{},
		structs:     map[file.StructHandleIndex]*testStruct{},
		constants:   map[file.ConstantPoolIndex]constantFixture{},
		funcHandles: map[file.FunctionHandleIndex]string{},
	}
}

func testAbilities(t file.Token) file.AbilitySet {
	lookup := func(idx file.StructHandleIndex) (file.AbilitySet, []bool) {
		return file.EmptyAbilitySet, nil
	}
	return signature.AbilitiesOf(t, lookup)
}

func (r *testResolver) registerFunc(idx file.FunctionHandleIndex, fn *testFunc) {
	r.funcHandles[idx] = fn.name
	r.funcs[fn.name] = fn
}

func (r *testResolver) ResolveFunction(idx file.FunctionHandleIndex) (interpreter.FunctionRef, error) {
	name, ok := r.funcHandles[idx]
	if !ok {
		panic("testResolver: unknown function handle")
	}
	return r.funcs[name], nil
}

func (r *testResolver) ResolveFunctionGeneric(idx file.FunctionInstantiationIndex, callerTypeArgs []interpreter.RuntimeType) (interpreter.FunctionRef, error) {
	return r.ResolveFunction(file.FunctionHandleIndex(idx))
}

func (r *testResolver) FieldOffset(idx file.FieldHandleIndex) (int, error) { return int(idx), nil }
func (r *testResolver) FieldOffsetGeneric(idx file.FieldInstantiationIndex, callerTypeArgs []interpreter.RuntimeType) (int, error) {
	return int(idx), nil
}
func (r *testResolver) VariantFieldOffset(idx file.VariantFieldHandleIndex) (int, []uint16, error) {
	return 0, nil, nil
}
func (r *testResolver) VariantFieldOffsetGeneric(idx file.VariantFieldInstantiationIndex, callerTypeArgs []interpreter.RuntimeType) (int, []uint16, error) {
	return 0, nil, nil
}

func (r *testResolver) structOf(idx file.StructHandleIndex) *testStruct {
	s, ok := r.structs[idx]
	if !ok {
		panic("testResolver: unknown struct handle")
	}
	return s
}

func (r *testResolver) StructType(idx file.StructDefinitionIndex) (interpreter.RuntimeType, error) {
	s := r.structOf(file.StructHandleIndex(idx))
	tok := file.NewStructToken(file.StructHandleIndex(idx))
	return interpreter.RuntimeType{Token: tok, Abilities: s.abilities}, nil
}
func (r *testResolver) StructTypeGeneric(idx file.StructDefInstantiationIndex, callerTypeArgs []interpreter.RuntimeType) (interpreter.RuntimeType, error) {
	return r.StructType(file.StructDefinitionIndex(idx))
}
func (r *testResolver) StructVariantType(idx file.StructVariantHandleIndex) (interpreter.RuntimeType, uint16, error) {
	t, err := r.StructType(file.StructDefinitionIndex(idx))
	return t, 0, err
}
func (r *testResolver) StructVariantTypeGeneric(idx file.StructVariantInstantiationIndex, callerTypeArgs []interpreter.RuntimeType) (interpreter.RuntimeType, uint16, error) {
	return r.StructVariantType(file.StructVariantHandleIndex(idx))
}

func (r *testResolver) StructFieldTypes(idx file.StructDefinitionIndex) ([]interpreter.RuntimeType, error) {
	s := r.structOf(file.StructHandleIndex(idx))
	return toRuntimeTypes(s.fields, testAbilities), nil
}
func (r *testResolver) StructFieldTypesGeneric(idx file.StructDefInstantiationIndex, callerTypeArgs []interpreter.RuntimeType) ([]interpreter.RuntimeType, error) {
	return r.StructFieldTypes(file.StructDefinitionIndex(idx))
}
func (r *testResolver) StructVariantFieldTypes(idx file.StructVariantHandleIndex) ([]interpreter.RuntimeType, error) {
	s := r.structOf(file.StructHandleIndex(idx))
	return toRuntimeTypes(s.variants[0], testAbilities), nil
}
func (r *testResolver) StructVariantFieldTypesGeneric(idx file.StructVariantInstantiationIndex, callerTypeArgs []interpreter.RuntimeType) ([]interpreter.RuntimeType, error) {
	return r.StructVariantFieldTypes(file.StructVariantHandleIndex(idx))
}

func (r *testResolver) Signature(idx file.SignatureIndex, callerTypeArgs []interpreter.RuntimeType) ([]file.Token, error) {
	panic("testResolver: Signature is overridden per-test via signatureFn")
}

func (r *testResolver) Abilities(t interpreter.RuntimeType) file.AbilitySet {
	return testAbilities(t.Token)
}

func (r *testResolver) Constant(idx file.ConstantPoolIndex) (values.Value, interpreter.RuntimeType, error) {
	c, ok := r.constants[idx]
	if !ok {
		panic("testResolver: unknown constant")
	}
	return c.value, interpreter.RuntimeType{Token: c.typ, Abilities: testAbilities(c.typ)}, nil
}

// resolverWithSignature wraps testResolver to answer Signature() calls
// (VecPack/VecUnpack's element-type lookup) from a fixed table, since the
// base fixture has no signature pool of its own.
type resolverWithSignature struct {
	*testResolver
	sigs map[file.SignatureIndex][]file.Token
}

func (r *resolverWithSignature) Signature(idx file.SignatureIndex, callerTypeArgs []interpreter.RuntimeType) ([]file.Token, error) {
	return r.sigs[idx], nil
}

// testDataStore is an in-memory global resource store keyed by
// (address, struct handle index) — sufficient for the single-module
// scenarios exercised here; a real Resolver would key by full
// RuntimeType.
type testDataStore struct {
	cells map[resourceKey]*testCell
}

type resourceKey struct {
	addr values.Address
	tok  file.StructHandleIndex
}

func newTestDataStore() *testDataStore {
	return &testDataStore{cells: map[resourceKey]*testCell{}}
}

type testCell struct {
	value  values.Value
	exists bool
}

func (c *testCell) Get() (values.Value, error) { return c.value, nil }
func (c *testCell) Set(v values.Value) error   { c.value = v; c.exists = true; return nil }
func (c *testCell) Exists() bool               { return c.exists }
func (c *testCell) Remove() error              { c.exists = false; c.value = values.Value{}; return nil }

func (d *testDataStore) LoadResource(addr values.Address, t interpreter.RuntimeType) (interpreter.ResourceCell, *uint64, error) {
	idx, _ := t.Token.StructIdx()
	key := resourceKey{addr: addr, tok: idx}
	cell, ok := d.cells[key]
	if !ok {
		cell = &testCell{}
		d.cells[key] = cell
	}
	return cell, nil, nil
}

// testGasMeter is an unbounded-by-default meter; tests that want
// out-of-gas behavior construct one with a small budget.
type testGasMeter struct {
	balance uint64
	unlimited bool
	charged uint64
}

func newUnlimitedGasMeter() *testGasMeter { return &testGasMeter{unlimited: true} }
func newBudgetedGasMeter(budget uint64) *testGasMeter {
	return &testGasMeter{balance: budget}
}

func (g *testGasMeter) Charge(label string, cost uint64) error {
	g.charged += cost
	if g.unlimited {
		return nil
	}
	if cost > g.balance {
		g.balance = 0
		return errOutOfGas
	}
	g.balance -= cost
	return nil
}
func (g *testGasMeter) BalanceInternal() uint64 { return g.balance }

var errOutOfGas = &gasExhaustedError{}

type gasExhaustedError struct{}

func (*gasExhaustedError) Error() string { return "gas exhausted" }

type testNatives struct {
	fns map[string]interpreter.NativeFunction
}

func newTestNatives() *testNatives { return &testNatives{fns: map[string]interpreter.NativeFunction{}} }

func (n *testNatives) Lookup(module file.ModuleID, name string) (interpreter.NativeFunction, bool) {
	fn, ok := n.fns[module.Name+"::"+name]
	return fn, ok
}

func (n *testNatives) register(module file.ModuleID, name string, fn interpreter.NativeFunction) {
	n.fns[module.Name+"::"+name] = fn
}
