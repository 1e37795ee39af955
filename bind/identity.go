package bind

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/signadot/tony-format/go-bind/classify"
	"github.com/signadot/tony-format/go-bind/contract"
	"github.com/signadot/tony-format/go-bind/ir"
)

type identityOp struct {
	op  *contract.Operation
	cat classify.Category
}

var identitySets sync.Map // *contract.Contract -> []identityOp

// identity returns the operations that decide equality for c: those
// annotated Identity, or every non-derived accessor if there are none.
func identity(c *contract.Contract) []identityOp {
	if s, ok := identitySets.Load(c); ok {
		return s.([]identityOp)
	}
	var flagged, accessors []identityOp
	for _, op := range c.Ops {
		if op.NumIn() != 0 || op.Result == nil {
			continue
		}
		cat, _ := classify.Classify(op)
		id := identityOp{op: op, cat: cat}
		if op.Annotations.Identity {
			flagged = append(flagged, id)
		}
		if cat != classify.Derived {
			accessors = append(accessors, id)
		}
	}
	set := accessors
	if len(flagged) > 0 {
		set = flagged
	}
	s, _ := identitySets.LoadOrStore(c, set)
	return s.([]identityOp)
}

// identityValue calls op on o.  A failed call counts as an absent value.
func identityValue(o Object, op *contract.Operation) any {
	v, err := o.Call(op.Name)
	if err != nil {
		return nil
	}
	return v
}

func equal(self Object, other any) bool {
	o, ok := other.(Object)
	if !ok {
		return false
	}
	if self == o {
		return true
	}
	if self.Contract().Type != o.Contract().Type {
		return false
	}
	for _, id := range identity(self.Contract()) {
		if !valuesEqual(id.cat, identityValue(self, id.op), identityValue(o, id.op)) {
			return false
		}
	}
	return true
}

func hash(self Object) uint64 {
	h := uint64(1)
	for _, id := range identity(self.Contract()) {
		h = 31*h + valueHash(id.cat, identityValue(self, id.op))
	}
	return h
}

// byReference reports whether values of the category compare as the same
// backing array rather than by content.
func byReference(cat classify.Category, v any) bool {
	switch cat {
	case classify.ContractArray:
		return true
	case classify.Scalar:
		k := reflect.TypeOf(v)
		return k != nil && k.Kind() == reflect.Slice
	}
	return false
}

func sameArray(a, b any) bool {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Kind() != reflect.Slice || bv.Kind() != reflect.Slice {
		return false
	}
	return av.Len() > 0 && av.Pointer() == bv.Pointer() && av.Len() == bv.Len()
}

func valuesEqual(cat classify.Category, a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if byReference(cat, a) {
		return sameArray(a, b)
	}
	return deepEqual(a, b)
}

// deepEqual compares results by content, using Equal for bound objects
// and sets.
func deepEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case contract.Hasher:
		return x.Equal(b)
	case *ir.Node:
		y, ok := b.(*ir.Node)
		return ok && ir.Equal(x, y)
	case contract.OptionalShape:
		y, ok := b.(contract.OptionalShape)
		if !ok {
			return false
		}
		xv, xok := x.Any()
		yv, yok := y.Any()
		return xok == yok && (!xok || deepEqual(xv, yv))
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Type() != bv.Type() {
		return false
	}
	switch av.Kind() {
	case reflect.Slice:
		if av.Len() != bv.Len() {
			return false
		}
		for i := range av.Len() {
			if !deepEqual(av.Index(i).Interface(), bv.Index(i).Interface()) {
				return false
			}
		}
		return true
	case reflect.Map:
		if av.Len() != bv.Len() {
			return false
		}
		for it := av.MapRange(); it.Next(); {
			w := bv.MapIndex(it.Key())
			if !w.IsValid() || !deepEqual(it.Value().Interface(), w.Interface()) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func valueHash(cat classify.Category, v any) uint64 {
	if v == nil {
		return 0
	}
	if byReference(cat, v) {
		return uint64(reflect.ValueOf(v).Pointer())
	}
	return deepHash(v)
}

func deepHash(v any) uint64 {
	switch x := v.(type) {
	case nil:
		return 0
	case contract.Hasher:
		return x.Hash()
	case *ir.Node:
		if x == nil {
			return 0
		}
		return x.Hash()
	case contract.OptionalShape:
		e, ok := x.Any()
		if !ok {
			return 0
		}
		return deepHash(e)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		h := uint64(1)
		for i := range rv.Len() {
			h = 31*h + deepHash(rv.Index(i).Interface())
		}
		return h
	case reflect.Map:
		var h uint64
		for it := rv.MapRange(); it.Next(); {
			h += contract.ElemHash(it.Key().Interface()) ^ deepHash(it.Value().Interface())
		}
		return h
	}
	return contract.ElemHash(v)
}

// render formats self as "Name [op()=value, ...]" over its identity
// operations, followed by the bound node in debug mode.
func render(self Object) string {
	var b strings.Builder
	b.WriteString(self.Contract().Name)
	b.WriteString(" [")
	for i, id := range identity(self.Contract()) {
		if i > 0 {
			b.WriteString(", ")
		}
		v, err := self.Call(id.op.Name)
		if err != nil {
			fmt.Fprintf(&b, "%s()=!(%v)", id.op.Name, err)
			continue
		}
		fmt.Fprintf(&b, "%s()=%v", id.op.Name, v)
	}
	b.WriteByte(']')
	if self.Context().Debug() {
		d, err := self.Node().MarshalJSON()
		if err != nil {
			fmt.Fprintf(&b, " !(%v)", err)
		} else {
			b.WriteByte(' ')
			b.Write(d)
		}
	}
	return b.String()
}
