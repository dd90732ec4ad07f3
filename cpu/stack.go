package cpu

const (
	STACK_LIMIT = 16 // Maximum call depth
)

// Stack holds the return addresses of active subroutine calls.
type Stack struct {
	Data  [STACK_LIMIT]uint16
	Depth int
}

func (s *Stack) Push(value uint16) (err error) {
	if s.Full() {
		err = ErrStackOverflow
		return
	}

	s.Data[s.Depth] = value
	s.Depth++
	return
}

func (s *Stack) Pop() (value uint16, err error) {
	value, ok := s.Peek()
	if !ok {
		err = ErrStackUnderflow
		return
	}

	s.Depth--
	return
}

func (s *Stack) Empty() bool {
	return s.Depth == 0
}

func (s *Stack) Full() bool {
	return s.Depth == STACK_LIMIT
}

func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[s.Depth-1], true
}

func (s *Stack) Reset() {
	clear(s.Data[:])
	s.Depth = 0
}
