package interpreter

import (
	"github.com/aptos-labs/aptos-core-sub004/pkg/values"
)

// OperandStack is the bounded value stack every frame shares across the
// current invocation's lifetime (it is not per-frame: a callee's pushes
// and pops interleave with the caller's on the same physical stack, only
// the locals are per-frame).
type OperandStack struct {
	items []values.Value
	limit int
}

// NewOperandStack builds a stack bounded to limit entries.
func NewOperandStack(limit int) *OperandStack {
	return &OperandStack{limit: limit}
}

func (s *OperandStack) Len() int { return len(s.items) }

// Push appends v, returning ExecutionFailure (stack overflow) if the
// configured limit would be exceeded. loc is used only to annotate the
// error.
func (s *OperandStack) Push(v values.Value, loc Location) error {
	if len(s.items) >= s.limit {
		return ExecutionFailure(loc, "operand stack overflow: limit %d", s.limit)
	}
	s.items = append(s.items, v)
	return nil
}

// Pop removes and returns the top value, or ExecutionFailure (empty stack)
// if the stack is empty.
func (s *OperandStack) Pop(loc Location) (values.Value, error) {
	if len(s.items) == 0 {
		return values.Value{}, ExecutionFailure(loc, "pop from empty operand stack")
	}
	v := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return v, nil
}

// PopN removes and returns the top n values in their original
// bottom-to-top order (e.g. Pack's field values, declaration order first).
func (s *OperandStack) PopN(n int, loc Location) ([]values.Value, error) {
	if n == 0 {
		return nil, nil
	}
	if len(s.items) < n {
		return nil, ExecutionFailure(loc, "pop %d from operand stack of depth %d", n, len(s.items))
	}
	start := len(s.items) - n
	out := make([]values.Value, n)
	copy(out, s.items[start:])
	s.items = s.items[:start]
	return out, nil
}

// LastN returns a read-only view of the top n values, bottom-to-top,
// without popping them.
func (s *OperandStack) LastN(n int, loc Location) ([]values.Value, error) {
	if len(s.items) < n {
		return nil, ExecutionFailure(loc, "peek %d on operand stack of depth %d", n, len(s.items))
	}
	return s.items[len(s.items)-n:], nil
}

// Top returns the top value without popping it.
func (s *OperandStack) Top(loc Location) (values.Value, error) {
	if len(s.items) == 0 {
		return values.Value{}, ExecutionFailure(loc, "peek on empty operand stack")
	}
	return s.items[len(s.items)-1], nil
}

// TypeStack is the shadow stack the paranoid checker runs in lock-step
// with OperandStack; see §4.7. It has the exact same shape so that
// CheckBalance can compare depths in O(1).
type TypeStack struct {
	items []RuntimeType
	limit int
}

func NewTypeStack(limit int) *TypeStack {
	return &TypeStack{limit: limit}
}

func (s *TypeStack) Len() int { return len(s.items) }

func (s *TypeStack) Push(t RuntimeType, loc Location) error {
	if len(s.items) >= s.limit {
		return ExecutionFailure(loc, "type stack overflow: limit %d", s.limit)
	}
	s.items = append(s.items, t)
	return nil
}

func (s *TypeStack) Pop(loc Location) (RuntimeType, error) {
	if len(s.items) == 0 {
		return RuntimeType{}, InvariantViolation(loc, nil, "pop from empty type-shadow stack")
	}
	t := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return t, nil
}

func (s *TypeStack) PopN(n int, loc Location) ([]RuntimeType, error) {
	if n == 0 {
		return nil, nil
	}
	if len(s.items) < n {
		return nil, InvariantViolation(loc, nil, "pop %d from type-shadow stack of depth %d", n, len(s.items))
	}
	start := len(s.items) - n
	out := make([]RuntimeType, n)
	copy(out, s.items[start:])
	s.items = s.items[:start]
	return out, nil
}

func (s *TypeStack) Top(loc Location) (RuntimeType, error) {
	if len(s.items) == 0 {
		return RuntimeType{}, InvariantViolation(loc, nil, "peek on empty type-shadow stack")
	}
	return s.items[len(s.items)-1], nil
}

// CheckBalance reports an InvariantViolation if the value stack and the
// type-shadow stack no longer agree in depth: testable property 1, the
// post-condition the paranoid checker enforces after every opcode.
func CheckBalance(values *OperandStack, types *TypeStack, loc Location) error {
	if values.Len() != types.Len() {
		return InvariantViolation(loc, nil, "operand stack depth %d != type stack depth %d", values.Len(), types.Len())
	}
	return nil
}
