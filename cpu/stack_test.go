package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.True(s.Empty())
	assert.False(s.Full())

	assert.NoError(s.Push(0x202))
	assert.False(s.Empty())
	assert.Equal(1, s.Depth)
	assert.Equal(uint16(0x202), s.Data[0])
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.NoError(s.Push(0x202))
	assert.NoError(s.Push(0x404))

	val, err := s.Pop()
	assert.NoError(err)
	assert.Equal(uint16(0x404), val)
	assert.Equal(1, s.Depth)

	val, err = s.Pop()
	assert.NoError(err)
	assert.Equal(uint16(0x202), val)
	assert.True(s.Empty())
}

func TestStack_Underflow(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	val, err := s.Pop()
	assert.ErrorIs(err, ErrStackUnderflow)
	assert.Equal(uint16(0), val)
	assert.Equal(0, s.Depth)
}

func TestStack_Overflow(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	for i := range STACK_LIMIT {
		assert.False(s.Full())
		assert.NoError(s.Push(uint16(0x200 + 2*i)))
	}
	assert.True(s.Full())

	err := s.Push(0xABC)
	assert.ErrorIs(err, ErrStackOverflow)
	assert.Equal(STACK_LIMIT, s.Depth)

	top, ok := s.Peek()
	assert.True(ok)
	assert.Equal(uint16(0x200+2*(STACK_LIMIT-1)), top)
}

func TestStack_Peek_Empty(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	val, ok := s.Peek()
	assert.False(ok)
	assert.Equal(uint16(0), val)
}

func TestStack_Reset(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.NoError(s.Push(0x202))
	assert.NoError(s.Push(0x204))

	s.Reset()
	assert.True(s.Empty())
	assert.Equal(Stack{}, *s)
}
