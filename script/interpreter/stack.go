package interpreter

import (
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/script"
)

type stack struct {
	items [][]byte
}

func (s *stack) Depth() int {
	return len(s.items)
}

func (s *stack) Push(b []byte) {
	s.items = append(s.items, b)
}

func (s *stack) PushBool(v bool) {
	if v {
		s.Push([]byte{1})
		return
	}

	s.Push(nil)
}

func (s *stack) PushInt(n int64) {
	s.Push(script.NumberBytes(n))
}

func (s *stack) Pop() ([]byte, error) {
	if len(s.items) == 0 {
		return nil, errors.NewScriptVerifyError("stack underflow")
	}

	top := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]

	return top, nil
}

// Peek returns the item idx positions below the top.
func (s *stack) Peek(idx int) ([]byte, error) {
	if idx < 0 || idx >= len(s.items) {
		return nil, errors.NewScriptVerifyError("stack index %d out of range", idx)
	}

	return s.items[len(s.items)-1-idx], nil
}

func (s *stack) PopInt() (int64, error) {
	b, err := s.Pop()
	if err != nil {
		return 0, err
	}

	n, err := script.ParseNumber(b, script.DefaultNumberLength)
	if err != nil {
		return 0, errors.NewScriptVerifyError("invalid number", err)
	}

	return n, nil
}

func (s *stack) PopBool() (bool, error) {
	b, err := s.Pop()
	if err != nil {
		return false, err
	}

	return asBool(b), nil
}

// remove deletes the item idx positions below the top and returns it.
func (s *stack) remove(idx int) ([]byte, error) {
	if idx < 0 || idx >= len(s.items) {
		return nil, errors.NewScriptVerifyError("stack index %d out of range", idx)
	}

	pos := len(s.items) - 1 - idx
	item := s.items[pos]
	s.items = append(s.items[:pos], s.items[pos+1:]...)

	return item, nil
}

// dup pushes copies of the top n items.
func (s *stack) dup(n int) error {
	if n > len(s.items) {
		return errors.NewScriptVerifyError("stack underflow")
	}

	s.items = append(s.items, s.items[len(s.items)-n:]...)

	return nil
}

// asBool is false for empty data, zero bytes and negative zero.
func asBool(b []byte) bool {
	for i, v := range b {
		if v != 0 {
			if i == len(b)-1 && v == 0x80 {
				return false
			}

			return true
		}
	}

	return false
}
