package contract

import (
	"iter"
	"reflect"
)

// Hasher is implemented by values with structural equality, such as bound
// objects.
type Hasher interface {
	Hash() uint64
	Equal(other any) bool
}

// Set is an unordered collection without duplicates.  Elements implementing
// Hasher are compared with Equal, comparable values with ==, and anything
// else with reflect.DeepEqual.
type Set struct {
	elems  []any
	hashed map[uint64][]int
	plain  map[any]int
	other  []int
}

func NewSet(elems ...any) *Set {
	s := &Set{}
	for _, e := range elems {
		s.Add(e)
	}
	return s
}

// Add inserts v and reports whether it was not already present.
func (s *Set) Add(v any) bool {
	if s.indexOf(v) >= 0 {
		return false
	}
	i := len(s.elems)
	s.elems = append(s.elems, v)
	switch x := v.(type) {
	case Hasher:
		if s.hashed == nil {
			s.hashed = make(map[uint64][]int)
		}
		h := x.Hash()
		s.hashed[h] = append(s.hashed[h], i)
	default:
		if isComparable(v) {
			if s.plain == nil {
				s.plain = make(map[any]int)
			}
			s.plain[v] = i
		} else {
			s.other = append(s.other, i)
		}
	}
	return true
}

func (s *Set) Contains(v any) bool {
	return s.indexOf(v) >= 0
}

func (s *Set) indexOf(v any) int {
	if s == nil {
		return -1
	}
	switch x := v.(type) {
	case Hasher:
		for _, i := range s.hashed[x.Hash()] {
			if x.Equal(s.elems[i]) {
				return i
			}
		}
		return -1
	}
	if isComparable(v) {
		if i, ok := s.plain[v]; ok {
			return i
		}
		return -1
	}
	for _, i := range s.other {
		if reflect.DeepEqual(v, s.elems[i]) {
			return i
		}
	}
	return -1
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.elems)
}

// All yields the elements in insertion order.
func (s *Set) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		if s == nil {
			return
		}
		for _, e := range s.elems {
			if !yield(e) {
				return
			}
		}
	}
}

// Equal reports whether both sets hold the same elements.
func (s *Set) Equal(other any) bool {
	o, ok := other.(*Set)
	if !ok || s.Len() != o.Len() {
		return false
	}
	for e := range s.All() {
		if !o.Contains(e) {
			return false
		}
	}
	return true
}

// Hash is independent of insertion order.
func (s *Set) Hash() uint64 {
	var h uint64
	for e := range s.All() {
		h += ElemHash(e)
	}
	return h
}

// ElemHash hashes a set element, using its Hash method when it has one.
func ElemHash(v any) uint64 {
	if x, ok := v.(Hasher); ok {
		return x.Hash()
	}
	return hashAny(v)
}

func isComparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).Comparable()
}
