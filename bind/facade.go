package bind

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/signadot/tony-format/go-bind/contract"
)

var facades sync.Map // reflect.Type -> func(Object) any

// RegisterFacade makes the bind functions return typed values for the
// contract T.  The usual facade is a struct embedding Object whose methods
// call Invoke:
//
//	type person struct{ bind.Object }
//
//	func (p person) Name() string { return bind.MustCall[string](p, "Name") }
//
//	func init() { bind.RegisterFacade(func(o bind.Object) Person { return person{o} }) }
func RegisterFacade[T any](fn func(Object) T) {
	t := reflect.TypeFor[T]()
	if !contract.IsContract(t) {
		panic(fmt.Sprintf("bind: facade for non contract type %s", t))
	}
	facades.Store(t, func(o Object) any { return fn(o) })
}

func hasFacade(t reflect.Type) bool {
	_, ok := facades.Load(t)
	return ok
}

// wrap returns obj as its contract type when a facade is registered.
func wrap(obj Object) any {
	if obj == nil {
		return nil
	}
	f, ok := facades.Load(obj.Contract().Type)
	if !ok {
		return obj
	}
	return f.(func(Object) any)(obj)
}
