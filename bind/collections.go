package bind

import (
	"reflect"
	"slices"

	"github.com/signadot/tony-format/go-bind/contract"
	"github.com/signadot/tony-format/go-bind/docio"
	"github.com/signadot/tony-format/go-bind/gomap"
	"github.com/signadot/tony-format/go-bind/ir"
	"golang.org/x/sync/errgroup"
)

var objectType = reflect.TypeFor[Object]()

// children returns the elements of the collection answering bd, or nil
// when there is none.
func (b *base) children(bd *binding) ([]*ir.Node, error) {
	n := b.lookup(bd)
	if n.IsNull() {
		return nil, nil
	}
	if !n.IsCollection() {
		return nil, &StructuralError{Op: bd.op.String(), Path: n.KPath(), Expected: ir.CollectionKind, Found: n.Kind()}
	}
	return slices.Collect(n.Children()), nil
}

// elements builds one value per node, concurrently when the operation is
// annotated Parallel.  The result is in node order; on failure nothing is
// returned.
func (b *base) elements(bd *binding, t reflect.Type, nodes []*ir.Node) ([]any, error) {
	out := make([]any, len(nodes))
	if !bd.op.Annotations.Parallel || len(nodes) < 2 {
		for i, n := range nodes {
			v, err := b.element(bd, t, n)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	var g errgroup.Group
	g.SetLimit(b.ctx.workers)
	for i, n := range nodes {
		g.Go(func() error {
			v, err := b.element(bd, t, n)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// contractArray answers []C.  Without a facade for C the result is a
// []Object.
func (b *base) contractArray(bd *binding) (any, error) {
	elem := bd.op.Result.Elem()
	nodes, err := b.children(bd)
	if err != nil {
		return nil, err
	}
	vals, err := b.elements(bd, elem, nodes)
	if err != nil {
		return nil, err
	}
	st := bd.op.Result
	if !hasFacade(elem) {
		st = reflect.SliceOf(objectType)
	}
	out := reflect.MakeSlice(st, len(vals), len(vals))
	for i, v := range vals {
		if v != nil {
			out.Index(i).Set(reflect.ValueOf(v))
		}
	}
	return out.Interface(), nil
}

// list answers []any annotated with an element type.
func (b *base) list(bd *binding) (any, error) {
	nodes, err := b.children(bd)
	if err != nil {
		return nil, err
	}
	vals, err := b.elements(bd, bd.op.Annotations.Elem, nodes)
	if err != nil {
		return nil, err
	}
	return vals, nil
}

func (b *base) set(bd *binding) (any, error) {
	nodes, err := b.children(bd)
	if err != nil {
		return nil, err
	}
	vals, err := b.elements(bd, bd.op.Annotations.Elem, nodes)
	if err != nil {
		return nil, err
	}
	return contract.NewSet(vals...), nil
}

// mapOf answers map[K]V from the fields of a container.  Keys are decoded
// from their text; a later duplicate key replaces an earlier one.
func (b *base) mapOf(bd *binding) (any, error) {
	mt := bd.op.Result
	elem := mt.Elem()
	if elem == reflect.TypeFor[any]() {
		elem = bd.op.Annotations.Elem
	} else if !hasFacade(elem) {
		mt = reflect.MapOf(mt.Key(), objectType)
	}
	n := b.lookup(bd)
	if n.IsNull() {
		return reflect.MakeMap(mt).Interface(), nil
	}
	if !n.IsContainer() {
		return nil, &StructuralError{Op: bd.op.String(), Path: n.KPath(), Expected: ir.ContainerKind, Found: n.Kind()}
	}
	var (
		keys  []reflect.Value
		nodes []*ir.Node
	)
	for k, v := range n.FieldSeq() {
		kv, err := gomap.DecodeKey(k, mt.Key())
		if err != nil {
			return nil, &docio.ReadError{Format: b.ctx.producer.Name(), Path: v.KPath(), Err: err}
		}
		keys = append(keys, kv)
		nodes = append(nodes, v)
	}
	vals, err := b.elements(bd, elem, nodes)
	if err != nil {
		return nil, err
	}
	out := reflect.MakeMapWithSize(mt, len(keys))
	for i, k := range keys {
		v := reflect.Zero(mt.Elem())
		if vals[i] != nil {
			v = reflect.ValueOf(vals[i])
		}
		out.SetMapIndex(k, v)
	}
	return out.Interface(), nil
}
