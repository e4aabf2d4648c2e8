package interpreter

import (
	"github.com/aptos-labs/aptos-core-sub004/pkg/file"
	"github.com/aptos-labs/aptos-core-sub004/pkg/values"
)

// RuntimeType is a fully instantiated type as produced by the Resolver: a
// signature token with every type-parameter already substituted, paired
// with the ability set the Resolver computed for it. The interpreter
// treats this as opaque data outside of the few places (global ops,
// paranoid checker) that need to inspect or compare it.
type RuntimeType struct {
	Token     file.Token
	Abilities file.AbilitySet
}

// FunctionRef is an opaque, resolver-defined handle to a concrete function
// (its code, locals layout, and metadata), already bound to a specific
// type-argument instantiation. The interpreter never constructs one
// itself; it only asks the Resolver for one and later hands it back to
// Frame/CallStack bookkeeping.
type FunctionRef interface {
	// IsNative reports whether this function has no Move code body.
	IsNative() bool
	// Module returns the defining module's identity, or ok=false for a script's main.
	Module() (file.ModuleID, bool)
	// Name returns the function's identifier.
	Name() string
	// Visibility returns the function's declared visibility.
	Visibility() file.Visibility
	// ParamCount, ReturnCount and LocalCount bound the Locals frame
	// Call/CallGeneric builds and the final-results slice Ret produces.
	ParamCount() int
	ReturnCount() int
	LocalCount() int
	// ParamTypes and ResultTypes give the already-instantiated parameter
	// and return types, needed to build a closure's function-type (used by
	// PackClosure) and to validate CallClosure's argument list.
	ParamTypes() []RuntimeType
	ResultTypes() []RuntimeType
	// Code returns the function's instruction vector; empty for natives.
	Code() []file.Bytecode
	// TypeParamCount returns the number of generic type parameters.
	TypeParamCount() int
	// DeclaredLocalTypes returns the function's locals layout (parameters
	// followed by let-bound locals) as uninstantiated signature tokens;
	// the interpreter substitutes the frame's type-args into these itself
	// (package signature's Instantiate) when running paranoid.
	DeclaredLocalTypes() []file.Token
}

// Resolver is the external collaborator that, given the current frame's
// loaded module and type-argument substitution, produces fully
// instantiated runtime types and function references. Per §6, it resolves
// function and field indices (generic or not), constructs struct types
// (including generic instantiation under the frame's current type
// arguments), and computes the ability set of any runtime type.
type Resolver interface {
	// ResolveFunction resolves a Call target.
	ResolveFunction(idx file.FunctionHandleIndex) (FunctionRef, error)
	// ResolveFunctionGeneric resolves a CallGeneric target, already bound
	// to the instantiation's type arguments (themselves instantiated
	// under the caller's current type-args where the instantiation's
	// tokens reference the caller's type parameters).
	ResolveFunctionGeneric(idx file.FunctionInstantiationIndex, callerTypeArgs []RuntimeType) (FunctionRef, error)

	// FieldOffset resolves a field handle (generic or not) to its
	// 0-based offset within the owning struct's field vector.
	FieldOffset(idx file.FieldHandleIndex) (int, error)
	FieldOffsetGeneric(idx file.FieldInstantiationIndex, callerTypeArgs []RuntimeType) (int, error)
	// VariantFieldOffset additionally returns the set of variant tags
	// the field is valid for, so the interpreter can check the struct's
	// actual tag against it.
	VariantFieldOffset(idx file.VariantFieldHandleIndex) (offset int, variants []uint16, err error)
	VariantFieldOffsetGeneric(idx file.VariantFieldInstantiationIndex, callerTypeArgs []RuntimeType) (offset int, variants []uint16, err error)

	// StructType constructs the fully instantiated runtime type of a
	// struct definition (generic or not) under the caller's current
	// type-args.
	StructType(idx file.StructDefinitionIndex) (RuntimeType, error)
	StructTypeGeneric(idx file.StructDefInstantiationIndex, callerTypeArgs []RuntimeType) (RuntimeType, error)
	StructVariantType(idx file.StructVariantHandleIndex) (RuntimeType, uint16, error)
	StructVariantTypeGeneric(idx file.StructVariantInstantiationIndex, callerTypeArgs []RuntimeType) (RuntimeType, uint16, error)

	// StructFieldTypes returns the instantiated type of each field, in
	// declaration order, for Pack/Unpack's arity and per-field type checks.
	StructFieldTypes(idx file.StructDefinitionIndex) ([]RuntimeType, error)
	StructFieldTypesGeneric(idx file.StructDefInstantiationIndex, callerTypeArgs []RuntimeType) ([]RuntimeType, error)
	// StructVariantFieldTypes returns the instantiated type of each field
	// belonging to the named variant, in declaration order.
	StructVariantFieldTypes(idx file.StructVariantHandleIndex) ([]RuntimeType, error)
	StructVariantFieldTypesGeneric(idx file.StructVariantInstantiationIndex, callerTypeArgs []RuntimeType) ([]RuntimeType, error)

	// Signature resolves a raw signature-pool entry (e.g. for VecPack's
	// element type or a locals layout) to its runtime tokens under the
	// caller's current type-args.
	Signature(idx file.SignatureIndex, callerTypeArgs []RuntimeType) ([]file.Token, error)

	// Abilities computes the ability set of an arbitrary runtime type,
	// used by the paranoid checker and by MoveTo/Exists/MoveFrom's key
	// requirement.
	Abilities(t RuntimeType) file.AbilitySet

	// Constant decodes a constant-pool entry (LdConst) into a runtime
	// value and its type. Deserialization of the constant's byte blob is
	// the Resolver's concern; the interpreter only consumes the result.
	Constant(idx file.ConstantPoolIndex) (values.Value, RuntimeType, error)
}

// ResourceCell is a single global-storage slot, keyed externally by
// (address, struct-instantiation); see DataStore.
type ResourceCell interface {
	values.GlobalCell
	Exists() bool
	// Remove deletes the resource, implementing MoveFrom's storage effect.
	// Calling Get or Set after Remove is undefined; the interpreter never
	// does so within the same MoveFrom.
	Remove() error
}

// DataStore is the external collaborator providing global resource
// storage. LoadSize is non-nil only on first load of a given resource
// within the current invocation, enabling correct gas charging for the
// simulated disk read (§6).
type DataStore interface {
	LoadResource(addr values.Address, t RuntimeType) (cell ResourceCell, loadSize *uint64, err error)
}

// GasMeter is consulted before or after each opcode, per the ordering
// rules in §5/§9. It decides whether to admit a charge or signal
// out-of-gas; natives additionally get a read-only balance probe.
type GasMeter interface {
	// Charge requests that cost units be deducted for the named opcode
	// or native. Returns an error (treated as OutOfGas) if the meter
	// refuses.
	Charge(label string, cost uint64) error
	// BalanceInternal exposes the meter's remaining balance to natives;
	// no other component may depend on its exact value.
	BalanceInternal() uint64
}

// NativeOutcome is the result a native function returns to the bridge.
type NativeOutcome struct {
	// Exactly one of these is set.
	Success *NativeSuccess
	Abort   *NativeAbort
	OutOfGas *NativeOutOfGas
}

type NativeSuccess struct {
	Cost    uint64
	Returns []values.Value
	// ReturnTypes is populated by the native only when paranoid mode is
	// on; the interpreter requires it in that mode to keep the
	// type-shadow stack synchronized.
	ReturnTypes []RuntimeType
}

type NativeAbort struct {
	Cost uint64
	Code uint64
}

// NativeOutOfGas signals the native itself tipped the meter over; PartialCost
// is charged and nothing else, per §4.6's native bridge contract.
type NativeOutOfGas struct {
	PartialCost uint64
}

// NativeFunction is the signature a registered native implements. It
// receives the live call stack only for read-only inspection (shallow
// FrameView snapshots — see the Open Question resolution in DESIGN.md),
// plus its popped arguments in declaration order.
type NativeFunction func(ctx NativeContext, args []values.Value) NativeOutcome

// NativeContext is what a native function sees of the running VM: gas
// balance, the data store, and a read-only view of the call stack.
type NativeContext interface {
	GasMeter() GasMeter
	DataStore() DataStore
	CallStackView() []FrameView
}

// NativeFunctions resolves a (module, function name) pair to an
// implementation; indexing per §6.
type NativeFunctions interface {
	Lookup(module file.ModuleID, name string) (NativeFunction, bool)
}
