package codegen

import (
	"fmt"
	"go/types"

	"github.com/signadot/tony-format/go-bind/classify"
	"github.com/signadot/tony-format/go-bind/contract"
	"github.com/signadot/tony-format/go-bind/ir"
	"github.com/signadot/tony-format/go-bind/resolve"
)

const contractPkg = "github.com/signadot/tony-format/go-bind/contract"

func opError(c *Contract, m *Method, format string, args ...any) error {
	return &contract.ConfigError{Contract: c.Name, Operation: m.Name, Message: fmt.Sprintf(format, args...)}
}

// objectMethods are promoted from bind.Object into every facade.
var objectMethods = map[string]bool{
	"Call": true, "Contract": true, "Node": true, "Context": true,
	"Equal": true, "Hash": true, "String": true,
}

// plan classifies every method of c and computes its path.
func plan(c *Contract) error {
	for _, m := range c.Methods {
		if objectMethods[m.Name] {
			return opError(c, m, "method name conflicts with bind.Object")
		}
		cat, err := classifyMethod(c, m)
		if err != nil {
			return err
		}
		m.Category = cat
	}
	return paths(c)
}

// classifyMethod mirrors the run time classifier over go/types.
func classifyMethod(c *Contract, m *Method) (classify.Category, error) {
	n := len(m.Params)
	untyped := isAnySlice(m.Result) || isSet(m.Result) || isAnyMap(m.Result)
	switch {
	case n > 1 && returnsNoneOrSelf(c, m):
		return classify.IllegalMutator, opError(c, m, "mutator takes %d parameters, want 1", n)
	case n == 0 && untyped && m.Elem == nil:
		return classify.IllegalUntypedCollection, opError(c, m, "%s needs an elem directive", typeString(m.Result))
	case m.Directives.derived():
		return classify.Derived, nil
	case n == 0 && isContractSlice(m.Result):
		return classify.ContractArray, nil
	case n == 0 && isAnySlice(m.Result):
		return classify.List, nil
	case n == 0 && isSet(m.Result):
		return classify.Set, nil
	case n == 0 && isContractMap(m.Result):
		return classify.Map, nil
	case n == 0 && isContractType(m.Result):
		return classify.Nested, nil
	case n == 1 && returnsNoneOrSelf(c, m):
		return classify.Mutator, nil
	case n == 0 && isOptional(m.Result):
		return classify.Optional, nil
	case n == 0 && m.Result != nil:
		return classify.Scalar, nil
	}
	return classify.Invalid, opError(c, m, "cannot bind method")
}

func returnsNoneOrSelf(c *Contract, m *Method) bool {
	return m.Result == nil || types.Identical(m.Result, c.Named)
}

func isContractType(t types.Type) bool {
	if t == nil || types.Identical(t, errorType) {
		return false
	}
	it, ok := t.Underlying().(*types.Interface)
	return ok && it.NumMethods() > 0
}

func isAny(t types.Type) bool {
	it, ok := types.Unalias(t).(*types.Interface)
	return ok && it.Empty()
}

func isAnySlice(t types.Type) bool {
	s, ok := types.Unalias(t).(*types.Slice)
	return ok && isAny(s.Elem())
}

func isContractSlice(t types.Type) bool {
	if t == nil {
		return false
	}
	s, ok := t.Underlying().(*types.Slice)
	return ok && isContractType(s.Elem())
}

func isAnyMap(t types.Type) bool {
	if t == nil {
		return false
	}
	mt, ok := t.Underlying().(*types.Map)
	return ok && isAny(mt.Elem())
}

func isContractMap(t types.Type) bool {
	if t == nil {
		return false
	}
	mt, ok := t.Underlying().(*types.Map)
	return ok && (isContractType(mt.Elem()) || isAny(mt.Elem()))
}

func isContractNamed(t types.Type, name string) bool {
	n, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}
	obj := n.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == contractPkg && obj.Name() == name
}

func isSet(t types.Type) bool {
	if t == nil {
		return false
	}
	p, ok := types.Unalias(t).(*types.Pointer)
	return ok && isContractNamed(p.Elem(), "Set")
}

func isOptional(t types.Type) bool {
	return t != nil && isContractNamed(t, "Optional")
}

// paths mirrors the run time resolver: positional when every accessor has
// an index, field paths otherwise.
func paths(c *Contract) error {
	var indexed, plain []string
	accessors := make(map[string]*Method)
	for _, m := range c.Methods {
		if m.Directives.derived() || len(m.Params) != 0 {
			continue
		}
		accessors[resolve.DecodeName(m.Name)] = m
		if m.Directives.Index != nil {
			indexed = append(indexed, m.Name)
		} else {
			plain = append(plain, m.Name)
		}
	}
	if len(indexed) > 0 && len(plain) > 0 {
		return &contract.ConfigError{
			Contract: c.Name,
			Message:  fmt.Sprintf("index directives on %v but not on %v", indexed, plain),
		}
	}
	positional := len(indexed) > 0
	for _, m := range c.Methods {
		if m.Directives.derived() {
			continue
		}
		var acc *Method
		if len(m.Params) == 1 {
			acc = accessors[resolve.DecodeName(m.Name)]
		}
		if positional {
			idx := m.Directives.Index
			if idx == nil && acc != nil {
				idx = acc.Directives.Index
			}
			if idx == nil {
				return opError(c, m, "no index for positional contract")
			}
			m.Path = ir.FormatPath([]ir.Step{ir.IndexStep(*idx)})
			continue
		}
		p := m.Directives.Path
		if p == "" && acc != nil {
			p = acc.Directives.Path
		}
		if p == "" {
			m.Path = ir.FormatPath([]ir.Step{ir.FieldStep(resolve.DecodeName(m.Name))})
			continue
		}
		steps, err := ir.ParsePath(p)
		if err != nil {
			return opError(c, m, "bad path: %v", err)
		}
		if len(steps) == 0 {
			return opError(c, m, "empty path")
		}
		m.Path = ir.FormatPath(steps)
	}
	return nil
}

func typeString(t types.Type) string {
	if t == nil {
		return "<none>"
	}
	return t.String()
}
