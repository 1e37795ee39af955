// Package contract describes the Go interfaces that documents are bound to.
//
// A contract is a non-empty interface type.  Each of its methods is an
// Operation: an accessor (no parameters), a mutator (one parameter) or a
// derived operation whose body is supplied with Annotate.  Descriptors are
// built once per type by a Provider and are immutable afterwards.
package contract

import (
	"fmt"
	"reflect"
	"strings"
)

// Contract is the immutable description of one contract type.
type Contract struct {
	Name          string
	CanonicalName string
	Type          reflect.Type
	Ops           []*Operation

	byName map[string]*Operation
}

// Op returns the operation with the given method name, or nil.
func (c *Contract) Op(name string) *Operation {
	return c.byName[name]
}

func (c *Contract) String() string {
	return c.Name
}

// Operation describes one method of a contract.
type Operation struct {
	Name     string
	Contract *Contract
	Params   []reflect.Type
	// Result is nil when the method returns nothing (or only an error).
	Result       reflect.Type
	ReturnsError bool
	Annotations  Annotations
}

func (o *Operation) NumIn() int {
	return len(o.Params)
}

// IsDerived reports whether the operation has a supplied body.
func (o *Operation) IsDerived() bool {
	return o.Annotations.Derived != nil || o.Annotations.Expr != ""
}

// ReturnsSelf reports whether the result is the declaring contract, as
// for fluent mutators.
func (o *Operation) ReturnsSelf() bool {
	return o.Result != nil && o.Result == o.Contract.Type
}

func (o *Operation) String() string {
	return o.Contract.Name + "." + o.Name
}

// Signature renders the method as it is declared.
func (o *Operation) Signature() string {
	var b strings.Builder
	b.WriteString(o.Name)
	b.WriteByte('(')
	for i, p := range o.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	switch {
	case o.Result != nil && o.ReturnsError:
		fmt.Fprintf(&b, " (%s, error)", o.Result)
	case o.Result != nil:
		fmt.Fprintf(&b, " %s", o.Result)
	case o.ReturnsError:
		b.WriteString(" error")
	}
	return b.String()
}

// Annotations are the binding hints attached to an operation.
type Annotations struct {
	Identity bool
	// Index is the position of the answering node in a collection root.
	Index *int
	// Path overrides the decoded field name, e.g. "meta.name".
	Path string
	// Elem is the element type of []any, map[K]any and *Set results.
	Elem     reflect.Type
	Parallel bool
	Derived  DerivedFunc
	// Expr is an expression computing the result from other operations.
	Expr string
}

// Receiver is what derived bodies call back into: the bound object.
type Receiver interface {
	Call(op string, args ...any) (any, error)
}

// DerivedFunc computes a derived operation.  self is the bound object the
// operation was called on.
type DerivedFunc func(self Receiver, args []any) (any, error)

// Invoke calls op on r and asserts the result to T.  A nil result yields
// the zero T.
func Invoke[T any](r Receiver, op string, args ...any) (T, error) {
	var zero T
	v, err := r.Call(op, args...)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%s returned %T, not %s", op, v, reflect.TypeFor[T]())
	}
	return t, nil
}

var errorType = reflect.TypeFor[error]()

// IsContract reports whether t can be described as a contract.
func IsContract(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface && t.NumMethod() > 0 && t != errorType
}
