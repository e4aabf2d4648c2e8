package main

import (
	"github.com/aptos-labs/aptos-core-sub004/pkg/file"
	"github.com/aptos-labs/aptos-core-sub004/pkg/interpreter"
	"github.com/aptos-labs/aptos-core-sub004/pkg/values"
)

// scenario is one named in-process fixture the run subcommand can drive
// end-to-end through the interpreter, standing in for a deserialized
// module since this repository ships no loader.
type scenario struct {
	name     string
	fn       *fixtureFunc
	args     []values.Value
	resolver interpreter.Resolver
}

func builtinScenarios() []scenario {
	return []scenario{
		{
			name: "arithmetic",
			fn: &fixtureFunc{
				name:        "add",
				resultTypes: []file.Token{file.NewU64Token()},
				code: []file.Bytecode{
					{Op: file.OpLdU64, U64Val: 2},
					{Op: file.OpLdU64, U64Val: 3},
					{Op: file.OpAdd},
					{Op: file.OpRet},
				},
			},
		},
		{
			name: "vector-pack",
			fn: &fixtureFunc{
				name:        "pack3",
				resultTypes: []file.Token{file.NewVectorToken(file.NewU64Token())},
				code: []file.Bytecode{
					{Op: file.OpLdU64, U64Val: 1},
					{Op: file.OpLdU64, U64Val: 2},
					{Op: file.OpLdU64, U64Val: 3},
					{Op: file.OpVecPack, VecElemSigIdx: 0, VecLen: 3},
					{Op: file.OpRet},
				},
			},
			resolver: &fixtureResolver{sigs: map[file.SignatureIndex][]file.Token{
				0: {file.NewU64Token()},
			}},
		},
	}
}

// fixtureFunc is a minimal interpreter.FunctionRef for the scenarios above.
type fixtureFunc struct {
	name        string
	paramTypes  []file.Token
	resultTypes []file.Token
	localTypes  []file.Token
	code        []file.Bytecode
}

func (f *fixtureFunc) IsNative() bool                  { return false }
func (f *fixtureFunc) Module() (file.ModuleID, bool)   { return file.ModuleID{}, false }
func (f *fixtureFunc) Name() string                    { return f.name }
func (f *fixtureFunc) Visibility() file.Visibility     { return file.VisibilityPublic }
func (f *fixtureFunc) ParamCount() int                 { return len(f.paramTypes) }
func (f *fixtureFunc) ReturnCount() int                { return len(f.resultTypes) }
func (f *fixtureFunc) LocalCount() int {
	if f.localTypes != nil {
		return len(f.localTypes)
	}
	return len(f.paramTypes)
}
func (f *fixtureFunc) ParamTypes() []interpreter.RuntimeType  { return runtimeTypes(f.paramTypes) }
func (f *fixtureFunc) ResultTypes() []interpreter.RuntimeType { return runtimeTypes(f.resultTypes) }
func (f *fixtureFunc) Code() []file.Bytecode                  { return f.code }
func (f *fixtureFunc) TypeParamCount() int                    { return 0 }
func (f *fixtureFunc) DeclaredLocalTypes() []file.Token {
	if f.localTypes != nil {
		return f.localTypes
	}
	return f.paramTypes
}

func runtimeTypes(toks []file.Token) []interpreter.RuntimeType {
	out := make([]interpreter.RuntimeType, len(toks))
	for i, t := range toks {
		out[i] = interpreter.RuntimeType{Token: t}
	}
	return out
}

// fixtureResolver answers the handful of lookups the builtin scenarios
// exercise; scenarios that never call or index into a struct never need
// more than the zero value.
type fixtureResolver struct {
	sigs map[file.SignatureIndex][]file.Token
}

func (r *fixtureResolver) ResolveFunction(file.FunctionHandleIndex) (interpreter.FunctionRef, error) {
	panic("movevm: fixture scenarios make no function calls")
}
func (r *fixtureResolver) ResolveFunctionGeneric(file.FunctionInstantiationIndex, []interpreter.RuntimeType) (interpreter.FunctionRef, error) {
	panic("movevm: fixture scenarios make no generic calls")
}
func (r *fixtureResolver) FieldOffset(file.FieldHandleIndex) (int, error) { return 0, nil }
func (r *fixtureResolver) FieldOffsetGeneric(file.FieldInstantiationIndex, []interpreter.RuntimeType) (int, error) {
	return 0, nil
}
func (r *fixtureResolver) VariantFieldOffset(file.VariantFieldHandleIndex) (int, []uint16, error) {
	return 0, nil, nil
}
func (r *fixtureResolver) VariantFieldOffsetGeneric(file.VariantFieldInstantiationIndex, []interpreter.RuntimeType) (int, []uint16, error) {
	return 0, nil, nil
}
func (r *fixtureResolver) StructType(file.StructDefinitionIndex) (interpreter.RuntimeType, error) {
	panic("movevm: fixture scenarios declare no structs")
}
func (r *fixtureResolver) StructTypeGeneric(file.StructDefInstantiationIndex, []interpreter.RuntimeType) (interpreter.RuntimeType, error) {
	panic("movevm: fixture scenarios declare no structs")
}
func (r *fixtureResolver) StructVariantType(file.StructVariantHandleIndex) (interpreter.RuntimeType, uint16, error) {
	panic("movevm: fixture scenarios declare no variants")
}
func (r *fixtureResolver) StructVariantTypeGeneric(file.StructVariantInstantiationIndex, []interpreter.RuntimeType) (interpreter.RuntimeType, uint16, error) {
	panic("movevm: fixture scenarios declare no variants")
}
func (r *fixtureResolver) StructFieldTypes(file.StructDefinitionIndex) ([]interpreter.RuntimeType, error) {
	panic("movevm: fixture scenarios declare no structs")
}
func (r *fixtureResolver) StructFieldTypesGeneric(file.StructDefInstantiationIndex, []interpreter.RuntimeType) ([]interpreter.RuntimeType, error) {
	panic("movevm: fixture scenarios declare no structs")
}
func (r *fixtureResolver) StructVariantFieldTypes(file.StructVariantHandleIndex) ([]interpreter.RuntimeType, error) {
	panic("movevm: fixture scenarios declare no variants")
}
func (r *fixtureResolver) StructVariantFieldTypesGeneric(file.StructVariantInstantiationIndex, []interpreter.RuntimeType) ([]interpreter.RuntimeType, error) {
	panic("movevm: fixture scenarios declare no variants")
}
func (r *fixtureResolver) Signature(idx file.SignatureIndex, _ []interpreter.RuntimeType) ([]file.Token, error) {
	return r.sigs[idx], nil
}
func (r *fixtureResolver) Abilities(t interpreter.RuntimeType) file.AbilitySet { return t.Abilities }
func (r *fixtureResolver) Constant(file.ConstantPoolIndex) (values.Value, interpreter.RuntimeType, error) {
	panic("movevm: fixture scenarios declare no constants")
}

// fixtureDataStore is only here to satisfy interpreter.New's signature:
// none of the builtin scenarios touch global storage, and LoadResource
// panics if one does.
type fixtureDataStore struct{}

func (fixtureDataStore) LoadResource(values.Address, interpreter.RuntimeType) (interpreter.ResourceCell, *uint64, error) {
	panic("movevm: fixture scenarios touch no global storage")
}

// fixtureGasMeter is unbounded; the run subcommand reports what it would
// have charged, not what it refused to spend.
type fixtureGasMeter struct {
	charged uint64
}

func (g *fixtureGasMeter) Charge(_ string, cost uint64) error { g.charged += cost; return nil }
func (g *fixtureGasMeter) BalanceInternal() uint64             { return ^uint64(0) - g.charged }

// fixtureNatives registers no natives; none of the builtin scenarios call one.
type fixtureNatives struct{}

func (fixtureNatives) Lookup(file.ModuleID, string) (interpreter.NativeFunction, bool) {
	return nil, false
}
