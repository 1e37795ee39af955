package bind

import (
	"fmt"
	"reflect"

	"github.com/signadot/tony-format/go-bind/classify"
	"github.com/signadot/tony-format/go-bind/contract"
	"github.com/signadot/tony-format/go-bind/debug"
	"github.com/signadot/tony-format/go-bind/ir"
	"github.com/signadot/tony-format/go-bind/resolve"
)

type computeFn func(b *base, bd *binding) (any, error)

// computeFunc returns the algorithm answering a cached category.
func computeFunc(cat classify.Category) computeFn {
	switch cat {
	case classify.Nested:
		return (*base).nested
	case classify.ContractArray:
		return (*base).contractArray
	case classify.List:
		return (*base).list
	case classify.Set:
		return (*base).set
	case classify.Map:
		return (*base).mapOf
	case classify.Optional:
		return (*base).optional
	case classify.Scalar:
		return (*base).scalar
	}
	return func(_ *base, bd *binding) (any, error) {
		return nil, contract.OpError(bd.op, "%s operations are not computed", cat)
	}
}

func (b *base) lookup(bd *binding) *ir.Node {
	n := b.node.Walk(bd.steps)
	if debug.Resolve() {
		debug.Logf("resolve %s at %q: found=%t\n", bd.op, bd.path(), n != nil)
	}
	b.ctx.log.Debug("resolve", "op", bd.op.String(), "path", bd.path(), "found", n != nil)
	return n
}

var nodeType = reflect.TypeFor[*ir.Node]()

// scalar decodes the answering node.  A missing or null node yields an
// empty value for slice results and an error otherwise.
func (b *base) scalar(bd *binding) (any, error) {
	t := bd.op.Result
	n := b.lookup(bd)
	if n.IsNull() {
		if t.Kind() == reflect.Slice {
			return reflect.MakeSlice(t, 0, 0).Interface(), nil
		}
		if t.Kind() == reflect.Array {
			return reflect.Zero(t).Interface(), nil
		}
		return nil, &MissingNodeError{Op: bd.op.String(), Path: bd.path()}
	}
	return b.decode(bd, n, t)
}

func (b *base) decode(bd *binding, n *ir.Node, t reflect.Type) (any, error) {
	if t == nodeType {
		return n, nil
	}
	if want, ok := expectedKind(t); ok && !n.IsNull() && n.Kind() != want {
		return nil, &StructuralError{Op: bd.op.String(), Path: n.KPath(), Expected: want, Found: n.Kind()}
	}
	return b.ctx.producer.DecodeLeaf(n, t)
}

var textUnmarshalerType = reflect.TypeFor[interface{ UnmarshalText([]byte) error }]()

// expectedKind is the node kind a Go type decodes from.  Interfaces accept
// any kind.
func expectedKind(t reflect.Type) (ir.Kind, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return ir.LeafKind, true
	}
	switch t.Kind() {
	case reflect.Interface:
		return 0, false
	case reflect.Slice, reflect.Array:
		return ir.CollectionKind, true
	case reflect.Map, reflect.Struct:
		return ir.ContainerKind, true
	}
	return ir.LeafKind, true
}

// nested binds the answering node to the result contract.  Missing and
// null nodes yield nil.
func (b *base) nested(bd *binding) (any, error) {
	n := b.lookup(bd)
	if n.IsNull() {
		return nil, nil
	}
	return b.child(bd, bd.op.Result, n)
}

// child binds n to the contract t, checking its kind first.
func (b *base) child(bd *binding, t reflect.Type, n *ir.Node) (any, error) {
	c, err := b.ctx.provider.Describe(t)
	if err != nil {
		return nil, err
	}
	p, err := prepare(b.ctx.provider, c)
	if err != nil {
		return nil, err
	}
	if want := p.rootKind(); n.Kind() != want {
		return nil, &StructuralError{Op: bd.op.String(), Path: n.KPath(), Expected: want, Found: n.Kind()}
	}
	obj, err := b.ctx.build(p, n)
	if err != nil {
		return nil, err
	}
	return wrap(obj), nil
}

// element builds one member of a collection: a bound object for contract
// element types, a decoded value otherwise.
func (b *base) element(bd *binding, t reflect.Type, n *ir.Node) (any, error) {
	if contract.IsContract(t) {
		if n.IsNull() {
			return nil, nil
		}
		return b.child(bd, t, n)
	}
	return b.decode(bd, n, t)
}

// optional answers like nested or scalar but reports absence in the result.
func (b *base) optional(bd *binding) (any, error) {
	t := bd.op.Result
	elem, _ := contract.OptionalElem(t)
	n := b.lookup(bd)
	if n.IsNull() {
		return contract.MakeOptional(t, nil, false), nil
	}
	v, err := b.element(bd, elem, n)
	if err != nil {
		return nil, err
	}
	return contract.MakeOptional(t, v, true), nil
}

// mutate writes arg at the operation's path and forgets the cached value
// of the paired accessor.
func (b *base) mutate(bd *binding, arg any) (any, error) {
	v, err := b.toNode(arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", bd.op, err)
	}
	parent, s, err := resolve.Target(b.node, bd.steps)
	if err == nil {
		err = resolve.Write(parent, s, v)
	}
	if err != nil {
		return nil, &StructuralError{Op: bd.op.String(), Path: bd.path(), Err: err}
	}
	b.cache.Clear(bd.key)
	b.ctx.log.Debug("mutate", "op", bd.op.String(), "path", bd.path())
	if bd.op.ReturnsSelf() {
		return wrap(b.self), nil
	}
	return nil, nil
}

func (b *base) toNode(arg any) (*ir.Node, error) {
	switch x := arg.(type) {
	case nil:
		return ir.Null(), nil
	case Object:
		return x.Node().Clone(), nil
	case *ir.Node:
		return x.Clone(), nil
	case contract.OptionalShape:
		v, ok := x.Any()
		if !ok {
			return ir.Null(), nil
		}
		return b.toNode(v)
	}
	if b.ctx.producer.CanMapToPrimitive(arg) {
		n, _ := ir.FromScalar(arg)
		return n, nil
	}
	return b.ctx.producer.ToNode(arg)
}
