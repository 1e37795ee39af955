// Package bind binds Go interface contracts to document trees.
//
// A bound object answers each operation of its contract lazily from the
// node it is bound to: scalars are decoded, nested contracts and
// collections of them are bound on demand, and mutators write back into
// the tree.  Results are cached per object according to the context's
// cache policy.
//
// Go cannot implement an interface at run time, so objects are reached
// either through Object.Call or through a facade: a type implementing the
// contract by forwarding to Call, registered with RegisterFacade.  The
// tony-bindgen command generates facades together with a precompiled plan
// for the Specialized builder.
package bind

import (
	"fmt"
	"io"
	"reflect"

	"github.com/signadot/tony-format/go-bind/contract"
	"github.com/signadot/tony-format/go-bind/ir"
)

// build produces an object for p over n with the context's builder.
func (ctx *Context) build(p *prepared, n *ir.Node) (Object, error) {
	if ctx.builder == Specialized {
		pl, err := planFor(ctx, p)
		if err != nil {
			return nil, err
		}
		return newSpecialized(ctx, pl, n), nil
	}
	return newInstance(ctx, p, n), nil
}

// BindObject binds node to the contract t.  Configuration errors in t, or
// in any contract it declares as a result, are reported here.
func BindObject(ctx *Context, t reflect.Type, node *ir.Node) (Object, error) {
	c, err := ctx.provider.Describe(t)
	if err != nil {
		return nil, err
	}
	p, err := prepare(ctx.provider, c)
	if err != nil {
		ctx.log.Debug("bind failed", "contract", c.Name, "error", err)
		return nil, err
	}
	if node == nil {
		return nil, &MissingNodeError{Op: c.Name, Path: ""}
	}
	if want := p.rootKind(); node.Kind() != want {
		return nil, &StructuralError{Op: c.Name, Path: node.KPath(), Expected: want, Found: node.Kind()}
	}
	obj, err := ctx.build(p, node)
	if err != nil {
		return nil, err
	}
	ctx.log.Debug("bind", "contract", c.Name, "builder", ctx.builder.String())
	return obj, nil
}

// Bind binds node to the contract T and returns it through the facade
// registered for T.
func Bind[T any](ctx *Context, node *ir.Node) (T, error) {
	var zero T
	obj, err := BindObject(ctx, reflect.TypeFor[T](), node)
	if err != nil {
		return zero, err
	}
	v, ok := wrap(obj).(T)
	if !ok {
		return zero, fmt.Errorf("bind: no facade registered for %s", reflect.TypeFor[T]())
	}
	return v, nil
}

// ReadAndBind reads a document with the context's producer and binds its
// root to T.
func ReadAndBind[T any](ctx *Context, r io.Reader) (T, error) {
	var zero T
	node, err := ctx.producer.Read(r)
	if err != nil {
		return zero, err
	}
	return Bind[T](ctx, node)
}

// Call invokes op on o and asserts its result to T.
func Call[T any](o Object, op string, args ...any) (T, error) {
	return contract.Invoke[T](o, op, args...)
}

// Must returns v, panicking with err if it is not nil.  Facade methods
// without an error result use it.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// MustCall is Must(Call[T](o, op, args...)).
func MustCall[T any](o Object, op string, args ...any) T {
	return Must(Call[T](o, op, args...))
}
