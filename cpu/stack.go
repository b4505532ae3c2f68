package cpu

const (
	STACK_LIMIT = 4096 // Default call stack depth
)

// Stack is the call stack of return addresses. It is distinct from the
// data stack addressed by SPR.
type Stack struct {
	Data  []uint32
	Limit int // Maximum depth; STACK_LIMIT when zero.
}

func (s *Stack) Push(value uint32) (ok bool) {
	if s.Full() {
		return false
	}
	s.Data = append(s.Data, value)
	return true
}

func (s *Stack) Pop() (value uint32, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack) Full() bool {
	depth, limit := s.Depth()
	return depth >= limit
}

func (s *Stack) Peek() (value uint32, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

// Depth of the stack, and its limit.
func (s *Stack) Depth() (depth int, limit int) {
	limit = s.Limit
	if limit <= 0 {
		limit = STACK_LIMIT
	}
	return len(s.Data), limit
}

func (s *Stack) Reset() {
	s.Data = s.Data[:0]
}
