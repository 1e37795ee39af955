package contract

import (
	"reflect"
	"sync"
)

// Provider describes contract types.
type Provider interface {
	Describe(t reflect.Type) (*Contract, error)
}

type reflectProvider struct {
	contracts sync.Map // reflect.Type -> *Contract
}

var defaultProvider = &reflectProvider{}

// Reflect returns the process-wide provider that describes contracts from
// their method sets and registered annotations.  Methods are ordered by name.
func Reflect() Provider {
	return defaultProvider
}

// Describe describes t with the Reflect provider.
func Describe(t reflect.Type) (*Contract, error) {
	return defaultProvider.Describe(t)
}

// Of describes the contract T.
func Of[T any]() (*Contract, error) {
	return defaultProvider.Describe(reflect.TypeFor[T]())
}

func (p *reflectProvider) Describe(t reflect.Type) (*Contract, error) {
	if c, ok := p.contracts.Load(t); ok {
		return c.(*Contract), nil
	}
	c, err := describe(t)
	if err != nil {
		return nil, err
	}
	actual, _ := p.contracts.LoadOrStore(t, c)
	return actual.(*Contract), nil
}

func describe(t reflect.Type) (*Contract, error) {
	if !IsContract(t) {
		return nil, &ConfigError{Contract: typeName(t), Message: "not a contract interface"}
	}
	c := &Contract{
		Name:          t.Name(),
		CanonicalName: t.PkgPath() + "." + t.Name(),
		Type:          t,
		byName:        make(map[string]*Operation, t.NumMethod()),
	}
	if c.Name == "" {
		c.Name = t.String()
		c.CanonicalName = t.String()
	}
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		op, err := describeOp(c, m)
		if err != nil {
			return nil, err
		}
		c.Ops = append(c.Ops, op)
		c.byName[op.Name] = op
	}
	for _, a := range annotations.seal(t) {
		op := c.byName[a.op]
		if err := a.apply(&op.Annotations); err != nil {
			return nil, &ConfigError{Contract: c.Name, Operation: op.Name, Message: "bad annotation", Err: err}
		}
	}
	return c, nil
}

func describeOp(c *Contract, m reflect.Method) (*Operation, error) {
	mt := m.Type
	op := &Operation{Name: m.Name, Contract: c}
	if mt.IsVariadic() {
		return nil, OpError(op, "variadic operations are not supported")
	}
	for i := 0; i < mt.NumIn(); i++ {
		op.Params = append(op.Params, mt.In(i))
	}
	switch mt.NumOut() {
	case 0:
	case 1:
		if mt.Out(0) == errorType {
			op.ReturnsError = true
		} else {
			op.Result = mt.Out(0)
		}
	case 2:
		if mt.Out(1) != errorType {
			return nil, OpError(op, "second result must be error, got %s", mt.Out(1))
		}
		op.Result = mt.Out(0)
		op.ReturnsError = true
	default:
		return nil, OpError(op, "too many results")
	}
	return op, nil
}
