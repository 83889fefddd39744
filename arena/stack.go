package arena

import "github.com/wippyai/arcboot"

// Stack is a LIFO of 64-bit values backed by a region carved out of an
// Arena. It is owned by a single execution context and is not locked.
type Stack struct {
	data []uint64
	ptr  int
}

// NewStack reserves every remaining word of r as stack storage. If r
// refuses the request the stack has no capacity and every push is dropped.
func NewStack(r arcboot.Region) *Stack {
	data, err := r.Alloc(r.Cap() - r.Used())
	if err != nil {
		return &Stack{}
	}
	return &Stack{data: data}
}

// Push appends v. It reports false, leaving the stack unchanged, when the
// backing region is full.
func (s *Stack) Push(v uint64) bool {
	if s.ptr == len(s.data) {
		return false
	}
	s.data[s.ptr] = v
	s.ptr++
	return true
}

// Pop removes and returns the top value.
func (s *Stack) Pop() (uint64, bool) {
	if s.ptr == 0 {
		return 0, false
	}
	s.ptr--
	return s.data[s.ptr], true
}

// PopOr pops the top value, or returns def when the stack is empty.
func (s *Stack) PopOr(def uint64) uint64 {
	if v, ok := s.Pop(); ok {
		return v
	}
	return def
}

// Peek returns the top value without removing it.
func (s *Stack) Peek() (uint64, bool) {
	if s.ptr == 0 {
		return 0, false
	}
	return s.data[s.ptr-1], true
}

func (s *Stack) Len() int { return s.ptr }

func (s *Stack) Cap() int { return len(s.data) }

func (s *Stack) Empty() bool { return s.ptr == 0 }

// Clear empties the stack.
func (s *Stack) Clear() {
	s.ptr = 0
}

// Values returns a copy of the stack contents, bottom first.
func (s *Stack) Values() []uint64 {
	out := make([]uint64, s.ptr)
	copy(out, s.data[:s.ptr])
	return out
}
