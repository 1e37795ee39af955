package contract

import (
	"fmt"
	"reflect"
	"sync"
)

// Annotation attaches a binding hint to one operation of a contract.
type Annotation struct {
	op    string
	apply func(*Annotations) error
}

// Op is the method name the annotation applies to.
func (a Annotation) Op() string { return a.op }

// Identity marks op as part of the identity set.
func Identity(op string) Annotation {
	return Annotation{op: op, apply: func(a *Annotations) error {
		a.Identity = true
		return nil
	}}
}

// Index resolves op positionally, to element i of a collection root.
func Index(op string, i int) Annotation {
	return Annotation{op: op, apply: func(a *Annotations) error {
		if i < 0 {
			return fmt.Errorf("negative index %d", i)
		}
		a.Index = &i
		return nil
	}}
}

// Path overrides the decoded field path of op.
func Path(op, path string) Annotation {
	return Annotation{op: op, apply: func(a *Annotations) error {
		if path == "" {
			return fmt.Errorf("empty path")
		}
		a.Path = path
		return nil
	}}
}

// Elem declares the element type of an untyped collection result.
func Elem(op string, t reflect.Type) Annotation {
	return Annotation{op: op, apply: func(a *Annotations) error {
		if t == nil {
			return fmt.Errorf("nil element type")
		}
		a.Elem = t
		return nil
	}}
}

func ElemOf[E any](op string) Annotation {
	return Elem(op, reflect.TypeFor[E]())
}

// Parallel builds the elements of a collection result concurrently.
func Parallel(op string) Annotation {
	return Annotation{op: op, apply: func(a *Annotations) error {
		a.Parallel = true
		return nil
	}}
}

// Derive supplies the body of op.
func Derive(op string, fn DerivedFunc) Annotation {
	return Annotation{op: op, apply: func(a *Annotations) error {
		if fn == nil {
			return fmt.Errorf("nil derived body")
		}
		a.Derived = fn
		return nil
	}}
}

// DeriveExpr supplies the body of op as an expression over the other
// zero-argument operations, e.g. `First() + " " + Last()`.
func DeriveExpr(op, src string) Annotation {
	return Annotation{op: op, apply: func(a *Annotations) error {
		if src == "" {
			return fmt.Errorf("empty expression")
		}
		a.Expr = src
		return nil
	}}
}

type registry struct {
	mu      sync.Mutex
	pending map[reflect.Type][]Annotation
	sealed  map[reflect.Type]bool
}

var annotations = &registry{
	pending: make(map[reflect.Type][]Annotation),
	sealed:  make(map[reflect.Type]bool),
}

// Annotate registers annotations for the contract T.  It must be called
// before T is first described, typically from an init function.
func Annotate[T any](anns ...Annotation) error {
	return AnnotateType(reflect.TypeFor[T](), anns...)
}

// AnnotateType is Annotate for a reflect.Type.
func AnnotateType(t reflect.Type, anns ...Annotation) error {
	if !IsContract(t) {
		return &ConfigError{Contract: typeName(t), Message: "not a contract interface"}
	}
	for _, a := range anns {
		if _, ok := t.MethodByName(a.op); !ok {
			return &ConfigError{Contract: t.Name(), Operation: a.op, Message: "annotation names an unknown operation"}
		}
	}
	annotations.mu.Lock()
	defer annotations.mu.Unlock()
	if annotations.sealed[t] {
		return &ConfigError{Contract: t.Name(), Message: "cannot annotate", Err: ErrSealed}
	}
	annotations.pending[t] = append(annotations.pending[t], anns...)
	return nil
}

// MustAnnotate is Annotate that panics on error, for use in init.
func MustAnnotate[T any](anns ...Annotation) {
	if err := Annotate[T](anns...); err != nil {
		panic(err)
	}
}

// seal returns the annotations of t and refuses any later ones.
func (r *registry) seal(t reflect.Type) []Annotation {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed[t] = true
	return r.pending[t]
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
