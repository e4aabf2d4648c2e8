package interpreter

import "fmt"

// Config bounds the interpreter the way pkg/config.Logger's yaml-tagged,
// Validate()-carrying structs bound the teacher repo's node configuration.
// Loaded from YAML by callers that embed a VM in a larger service; the
// zero value is never used directly — construct via DefaultConfig and
// override selectively.
type Config struct {
	// OperandStackLimit bounds both the value stack and, when Paranoid is
	// set, the type-shadow stack (§4.4: both share one limit).
	OperandStackLimit int `yaml:"operandStackLimit"`
	// CallStackLimit bounds call depth, independent of OperandStackLimit.
	CallStackLimit int `yaml:"callStackLimit"`
	// Paranoid turns on the shadow type checker (§4.7). Correctness must
	// never depend on this being set; it only adds defense in depth
	// against a buggy verifier.
	Paranoid bool `yaml:"paranoid"`
	// MaxFrameLocals bounds a single function's locals count, a sanity
	// ceiling independent of the operand stack.
	MaxFrameLocals int `yaml:"maxFrameLocals"`
	// DebugTraceFrames bounds how many call-stack frames (innermost first)
	// Entrypoint records in a returned VMError's Trace; 0 disables it.
	DebugTraceFrames int `yaml:"debugTraceFrames"`
}

// DefaultConfig returns the §4.4 bounds: 1024 operand/type-stack depth,
// 1024 call-stack depth, paranoid mode on (safety default; callers running
// hot paths where the verifier is trusted may flip it off).
func DefaultConfig() Config {
	return Config{
		OperandStackLimit: 1024,
		CallStackLimit:    1024,
		Paranoid:          true,
		MaxFrameLocals:    256,
		DebugTraceFrames:  16,
	}
}

// Validate reports a config that would make the interpreter's own
// invariants unenforceable.
func (c Config) Validate() error {
	if c.OperandStackLimit <= 0 {
		return fmt.Errorf("interpreter: OperandStackLimit must be positive, got %d", c.OperandStackLimit)
	}
	if c.CallStackLimit <= 0 {
		return fmt.Errorf("interpreter: CallStackLimit must be positive, got %d", c.CallStackLimit)
	}
	if c.MaxFrameLocals <= 0 {
		return fmt.Errorf("interpreter: MaxFrameLocals must be positive, got %d", c.MaxFrameLocals)
	}
	if c.DebugTraceFrames < 0 {
		return fmt.Errorf("interpreter: DebugTraceFrames must be non-negative, got %d", c.DebugTraceFrames)
	}
	return nil
}
