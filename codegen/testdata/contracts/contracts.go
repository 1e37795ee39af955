// Package contracts holds contracts for the generator tests.
package contracts

import (
	"time"

	"github.com/signadot/tony-format/go-bind/contract"
)

//bind:contract
type Person interface {
	//bind:identity
	Name() string
	SetName(string) Person
	Age() (int, error)
	SetAge(int)
	//bind:path=address.city
	City() string
	SetCity(string) error
	Address() Address
	//bind:parallel
	Friends() []Person
	//bind:elem=string
	Tags() []any
	//bind:elem=time.Time
	Dates() map[string]any
	Born() time.Time
	//bind:elem=string
	Roles() *contract.Set
	Nick() contract.Optional[string]
	//bind:expr='"Hello " + Name()'
	Greeting() string
	//bind:derived
	Initial() string
}

// Address is a contract too.
//
//bind:contract
type Address interface {
	Street() string
}

//bind:contract
type Point interface {
	//bind:index=0
	X() float64
	//bind:index=1
	Y() float64
	SetY(float64)
}

// NotBound has no directive.
type NotBound interface {
	A() string
}
