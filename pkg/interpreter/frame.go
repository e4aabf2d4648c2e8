package interpreter

import (
	"github.com/aptos-labs/aptos-core-sub004/pkg/file"
	"github.com/aptos-labs/aptos-core-sub004/pkg/values"
)

// Frame is a single call's execution state: its program counter, its
// locals, the function it is executing, its type-argument instantiation,
// and (paranoid mode only) the instantiated type of each local.
type Frame struct {
	PC       file.CodeOffset
	Locals   *values.Locals
	Function FunctionRef
	TypeArgs []RuntimeType

	// LocalTypes[i] is the instantiation of the function's declared
	// local i under TypeArgs; populated only when the VM runs paranoid.
	LocalTypes []RuntimeType

	module   *file.ModuleID // nil for a script's main
}

// ModuleID returns the defining module's identity, or nil for a script.
func (f *Frame) ModuleID() *file.ModuleID { return f.module }

// loc builds an error Location pinned to this frame's current PC.
func (f *Frame) loc() Location {
	return Location{Module: f.module, Function: f.Function.Name(), CodeOffset: f.PC}
}

// code returns the function's instruction vector.
func (f *Frame) code() []file.Bytecode { return f.Function.Code() }

// FrameView is a shallow, non-mutating snapshot of a Frame exposed to
// native functions and to captured error traces. It deliberately carries
// no pointer back into the live Frame or Locals: per the design notes'
// open question, implementers should expose only shallow views, never let
// a native mutate or outlive a torn-down frame.
type FrameView struct {
	Module     *file.ModuleID
	Function   string
	PC         file.CodeOffset
	TypeArgs   []RuntimeType
}

func viewOf(f *Frame) FrameView {
	return FrameView{Module: f.module, Function: f.Function.Name(), PC: f.PC, TypeArgs: f.TypeArgs}
}

// CallStack is the bounded stack of Frames, separate from and independent
// of the operand/type stacks' own bound (§4.4).
type CallStack struct {
	frames []*Frame
	limit  int
}

func NewCallStack(limit int) *CallStack {
	return &CallStack{limit: limit}
}

func (c *CallStack) Len() int { return len(c.frames) }

func (c *CallStack) Push(f *Frame) error {
	if len(c.frames) >= c.limit {
		return ExecutionFailure(f.loc(), "call stack overflow: limit %d", c.limit)
	}
	c.frames = append(c.frames, f)
	return nil
}

// Pop removes and returns the top frame. Callers must ensure the stack is
// non-empty (the interpreter loop only calls this after confirming depth).
func (c *CallStack) Pop() *Frame {
	f := c.frames[len(c.frames)-1]
	c.frames = c.frames[:len(c.frames)-1]
	return f
}

func (c *CallStack) Top() *Frame {
	if len(c.frames) == 0 {
		return nil
	}
	return c.frames[len(c.frames)-1]
}

// Views returns shallow, non-mutating snapshots of every frame, bottom to
// top, for exposure to natives via NativeContext.CallStackView.
func (c *CallStack) Views() []FrameView {
	out := make([]FrameView, len(c.frames))
	for i, f := range c.frames {
		out[i] = viewOf(f)
	}
	return out
}
