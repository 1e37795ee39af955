package contract

import (
	"fmt"
	"reflect"
)

// Optional is a present or absent value.  Accessors returning Optional
// never fail on a missing node; they return an absent value instead.
type Optional[T any] struct {
	v  T
	ok bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{v: v, ok: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) Get() (T, bool) {
	return o.v, o.ok
}

func (o Optional[T]) OK() bool {
	return o.ok
}

func (o Optional[T]) OrElse(d T) T {
	if o.ok {
		return o.v
	}
	return d
}

func (o Optional[T]) String() string {
	if !o.ok {
		return "None"
	}
	return "Some(" + fmt.Sprint(o.v) + ")"
}

// ElemType is the type of the wrapped value.
func (o Optional[T]) ElemType() reflect.Type {
	return reflect.TypeFor[T]()
}

// Any returns the wrapped value as an any.
func (o Optional[T]) Any() (any, bool) {
	return o.v, o.ok
}

func (o Optional[T]) isOptional() {}

func (o *Optional[T]) setAny(v any) {
	if v != nil {
		o.v = v.(T)
	}
	o.ok = true
}

// OptionalShape is implemented only by Optional types.
type OptionalShape interface {
	ElemType() reflect.Type
	Any() (any, bool)
	isOptional()
}

var optionalShapeType = reflect.TypeFor[OptionalShape]()

// OptionalElem returns the wrapped type if t is an Optional.
func OptionalElem(t reflect.Type) (reflect.Type, bool) {
	if t == nil || t.Kind() != reflect.Struct || !t.Implements(optionalShapeType) {
		return nil, false
	}
	return reflect.Zero(t).Interface().(OptionalShape).ElemType(), true
}

// MakeOptional builds a value of the Optional type t holding v, or an
// absent one if present is false.
func MakeOptional(t reflect.Type, v any, present bool) any {
	p := reflect.New(t)
	if present {
		p.Interface().(interface{ setAny(any) }).setAny(v)
	}
	return p.Elem().Interface()
}
