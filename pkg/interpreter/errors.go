package interpreter

import (
	"fmt"

	"github.com/aptos-labs/aptos-core-sub004/pkg/file"
	pkgerrors "github.com/pkg/errors"
)

// StatusCode ranks the VMError kinds from §7, most to least recoverable
// from the caller's point of view (Abort carries the most program-level
// information; InvariantViolation the least — it always indicates a bug).
type StatusCode uint8

const (
	StatusAbort StatusCode = iota
	StatusOutOfGas
	StatusExecutionFailure
	StatusArithmeticError
	StatusInvariantViolation
)

func (s StatusCode) String() string {
	switch s {
	case StatusAbort:
		return "ABORT"
	case StatusOutOfGas:
		return "OUT_OF_GAS"
	case StatusExecutionFailure:
		return "EXECUTION_FAILURE"
	case StatusArithmeticError:
		return "ARITHMETIC_ERROR"
	case StatusInvariantViolation:
		return "INVARIANT_VIOLATION"
	default:
		return "UNKNOWN"
	}
}

// Location pins an error to the instruction that raised it: the module
// (or nil for a script) and the code offset within the active function.
type Location struct {
	Module     *file.ModuleID
	Function   string
	CodeOffset file.CodeOffset
}

func (l Location) String() string {
	where := "Script"
	if l.Module != nil {
		where = l.Module.String()
	}
	return fmt.Sprintf("%s::%s@%d", where, l.Function, l.CodeOffset)
}

// VMError is the single error type that ever crosses the interpreter's
// entrypoint boundary; every interior error (reference liberties, abort,
// bad cast, out-of-gas, invariant bug) is repackaged into one of these
// before propagating, each enriched with the offending Location.
type VMError struct {
	Status       StatusCode
	Message      string
	AbortCode    uint64 // meaningful only for StatusAbort
	Location     Location
	cause        error
	trace        []Location // filled by Entrypoint when Config.DebugTraceFrames > 0
}

func (e *VMError) Error() string {
	if e.Status == StatusAbort {
		return fmt.Sprintf("%s: abort code %d at %s", e.Status, e.AbortCode, e.Location)
	}
	return fmt.Sprintf("%s: %s at %s", e.Status, e.Message, e.Location)
}

// Unwrap exposes the causal chain to errors.Is/errors.As and to
// github.com/pkg/errors.Cause.
func (e *VMError) Unwrap() error { return e.cause }

// Trace returns the call-stack snapshot (innermost frame first) captured
// when this error left Entrypoint, if Config.DebugTraceFrames was
// positive; nil otherwise.
func (e *VMError) Trace() []Location { return e.trace }

func newVMError(status StatusCode, loc Location, format string, args ...interface{}) *VMError {
	return &VMError{Status: status, Message: fmt.Sprintf(format, args...), Location: loc}
}

// Abort builds a user-program-initiated failure carrying a 64-bit code.
func Abort(loc Location, code uint64) *VMError {
	return &VMError{Status: StatusAbort, AbortCode: code, Location: loc, Message: "abort"}
}

// OutOfGas builds a terminal out-of-gas error.
func OutOfGas(loc Location, detail string) *VMError {
	return newVMError(StatusOutOfGas, loc, "out of gas: %s", detail)
}

// ExecutionFailure builds a terminal stack/pc overflow-class error.
func ExecutionFailure(loc Location, format string, args ...interface{}) *VMError {
	return newVMError(StatusExecutionFailure, loc, format, args...)
}

// ArithmeticError builds a terminal overflow/underflow/cast/shift error.
func ArithmeticError(loc Location, format string, args ...interface{}) *VMError {
	return newVMError(StatusArithmeticError, loc, format, args...)
}

// InvariantViolation builds a terminal verifier-bypass-class error,
// wrapping cause (if any) so the original failure is still inspectable via
// pkg/errors.Cause.
func InvariantViolation(loc Location, cause error, format string, args ...interface{}) *VMError {
	err := newVMError(StatusInvariantViolation, loc, format, args...)
	if cause != nil {
		err.cause = pkgerrors.Wrap(cause, err.Message)
	}
	return err
}

// AsInvariantViolation repackages any error leaking from an external
// collaborator (Resolver, DataStore, natives) as an invariant violation at
// the interpreter's boundary, per §7's "also repackages any leaked
// verifier-class error as invariant-violation at the boundary".
func AsInvariantViolation(loc Location, err error) *VMError {
	if vmErr, ok := err.(*VMError); ok {
		return vmErr
	}
	return InvariantViolation(loc, err, "unexpected error from external collaborator: %v", err)
}

// Well-known abort codes the interpreter itself raises (as opposed to
// codes chosen by Move program authors via the Abort opcode).
const (
	AbortCodeMoveToExisting  uint64 = 0x0101_0000
	AbortCodeMoveFromMissing uint64 = 0x0101_0001
	AbortCodeVectorEmptyPop  uint64 = 0x0102_0000
	AbortCodeVectorIndexOOB  uint64 = 0x0102_0001
	AbortCodeVariantMismatch uint64 = 0x0103_0000
)
