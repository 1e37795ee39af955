// Package classify assigns each contract operation the behaviour used to
// answer it.
//
// Categories are decided by an ordered list of predicates over the
// operation's shape and annotations; the first match wins.  Results are
// memoized process-wide per contract type and operation.
package classify

import (
	"reflect"
	"sync"

	"github.com/signadot/tony-format/go-bind/contract"
)

type Category int

const (
	Invalid Category = iota
	IllegalMutator
	IllegalUntypedCollection
	Derived
	ContractArray
	List
	Set
	Map
	Nested
	Mutator
	Optional
	Scalar
)

var categoryNames = map[Category]string{
	Invalid:                  "invalid",
	IllegalMutator:           "illegal-mutator",
	IllegalUntypedCollection: "illegal-untyped-collection",
	Derived:                  "derived",
	ContractArray:            "contract-array",
	List:                     "list",
	Set:                      "set",
	Map:                      "map",
	Nested:                   "nested",
	Mutator:                  "mutator",
	Optional:                 "optional",
	Scalar:                   "scalar",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "<unknown category>"
}

// Illegal reports whether operations of the category cannot be bound.
func (c Category) Illegal() bool {
	return c == Invalid || c == IllegalMutator || c == IllegalUntypedCollection
}

// Cached reports whether results of the category are memoized per bound
// object.
func (c Category) Cached() bool {
	return !c.Illegal() && c != Derived && c != Mutator
}

type predicate struct {
	cat   Category
	match func(op *contract.Operation) bool
}

// predicates in evaluation order.
var predicates = []predicate{
	{IllegalMutator, func(op *contract.Operation) bool {
		return op.NumIn() > 1 && returnsNoneOrSelf(op)
	}},
	{IllegalUntypedCollection, func(op *contract.Operation) bool {
		return op.NumIn() == 0 && isUntypedCollection(op.Result) && op.Annotations.Elem == nil
	}},
	{Derived, func(op *contract.Operation) bool {
		return op.IsDerived()
	}},
	{ContractArray, func(op *contract.Operation) bool {
		return op.NumIn() == 0 && op.Result != nil && op.Result.Kind() == reflect.Slice && contract.IsContract(op.Result.Elem())
	}},
	{List, func(op *contract.Operation) bool {
		return op.NumIn() == 0 && op.Result == anySliceType
	}},
	{Set, func(op *contract.Operation) bool {
		return op.NumIn() == 0 && op.Result == setType
	}},
	{Map, func(op *contract.Operation) bool {
		if op.NumIn() != 0 || op.Result == nil || op.Result.Kind() != reflect.Map {
			return false
		}
		v := op.Result.Elem()
		return contract.IsContract(v) || v == anyType
	}},
	{Nested, func(op *contract.Operation) bool {
		return op.NumIn() == 0 && contract.IsContract(op.Result)
	}},
	{Mutator, func(op *contract.Operation) bool {
		return op.NumIn() == 1 && returnsNoneOrSelf(op)
	}},
	{Optional, func(op *contract.Operation) bool {
		if op.NumIn() != 0 {
			return false
		}
		_, ok := contract.OptionalElem(op.Result)
		return ok
	}},
	{Scalar, func(op *contract.Operation) bool {
		return op.NumIn() == 0 && op.Result != nil
	}},
}

var (
	anyType      = reflect.TypeFor[any]()
	anySliceType = reflect.TypeFor[[]any]()
	setType      = reflect.TypeFor[*contract.Set]()
)

func returnsNoneOrSelf(op *contract.Operation) bool {
	return op.Result == nil || op.ReturnsSelf()
}

func isUntypedCollection(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch {
	case t == anySliceType, t == setType:
		return true
	case t.Kind() == reflect.Map:
		return t.Elem() == anyType
	}
	return false
}

type memoKey struct {
	contract reflect.Type
	op       string
}

type memoEntry struct {
	cat Category
	err error
}

var memo sync.Map // memoKey -> memoEntry

// Classify returns the category of op.  Illegal categories come with a
// *contract.ConfigError naming the operation and its contract.
func Classify(op *contract.Operation) (Category, error) {
	key := memoKey{contract: op.Contract.Type, op: op.Name}
	if e, ok := memo.Load(key); ok {
		e := e.(memoEntry)
		return e.cat, e.err
	}
	cat, err := classify(op)
	e, _ := memo.LoadOrStore(key, memoEntry{cat: cat, err: err})
	return e.(memoEntry).cat, e.(memoEntry).err
}

func classify(op *contract.Operation) (Category, error) {
	for _, p := range predicates {
		if !p.match(op) {
			continue
		}
		switch p.cat {
		case IllegalMutator:
			return p.cat, contract.OpError(op, "mutator %s takes %d parameters, want 1", op.Signature(), op.NumIn())
		case IllegalUntypedCollection:
			return p.cat, contract.OpError(op, "%s needs an element type annotation", op.Result)
		}
		return p.cat, nil
	}
	return Invalid, contract.OpError(op, "cannot bind %s", op.Signature())
}

// Check classifies every operation of c and returns the categories in
// operation order, or the first configuration error.
func Check(c *contract.Contract) ([]Category, error) {
	res := make([]Category, len(c.Ops))
	for i, op := range c.Ops {
		cat, err := Classify(op)
		if err != nil {
			return nil, err
		}
		res[i] = cat
	}
	return res, nil
}
