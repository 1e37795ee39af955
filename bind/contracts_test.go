package bind_test

import (
	"strings"
	"testing"

	"github.com/signadot/tony-format/go-bind/bind"
	"github.com/signadot/tony-format/go-bind/contract"
	"github.com/signadot/tony-format/go-bind/docio"
	"github.com/signadot/tony-format/go-bind/ir"
)

type Entity interface {
	Name() string
	Type() string
}

type RefEntity interface {
	Name() string
	Type() string
}

type StringIF interface {
	Name() string
}

type MapIF interface {
	Data() map[string]StringIF
}

type ListIF interface {
	Items() []any
}

type Address interface {
	Street() string
	Zip() (int, error)
}

type Person interface {
	Name() string
	SetName(string) Person
	Age() (int, error)
	SetAge(int)
	Address() Address
	SetAddress(Address)
	City() string
	SetCity(string)
	Tags() []string
	Friends() []Person
	Nick() contract.Optional[string]
	Boss() contract.Optional[Person]
	Roles() *contract.Set
	Labels() map[string]any
	Greeting() string
	Initial() string
}

type Point interface {
	X() float64
	Y() float64
	SetY(float64)
}

type Mixed interface {
	A() string
	B() string
}

func init() {
	contract.MustAnnotate[RefEntity](contract.Identity("Name"))
	contract.MustAnnotate[ListIF](contract.ElemOf[string]("Items"))
	contract.MustAnnotate[Person](
		contract.Identity("Name"),
		contract.Path("City", "address.city"),
		contract.Parallel("Friends"),
		contract.ElemOf[string]("Roles"),
		contract.ElemOf[int]("Labels"),
		contract.DeriveExpr("Greeting", `"Hello " + Name()`),
		contract.Derive("Initial", func(self contract.Receiver, _ []any) (any, error) {
			p := self.(Person)
			return p.Name()[:1], nil
		}),
	)
	contract.MustAnnotate[Point](contract.Index("X", 0), contract.Index("Y", 1))
	contract.MustAnnotate[Mixed](contract.Index("A", 0))

	bind.RegisterFacade(func(o bind.Object) Entity { return entity{o} })
	bind.RegisterFacade(func(o bind.Object) RefEntity { return refEntity{o} })
	bind.RegisterFacade(func(o bind.Object) StringIF { return stringIF{o} })
	bind.RegisterFacade(func(o bind.Object) MapIF { return mapIF{o} })
	bind.RegisterFacade(func(o bind.Object) ListIF { return listIF{o} })
	bind.RegisterFacade(func(o bind.Object) Address { return address{o} })
	bind.RegisterFacade(func(o bind.Object) Person { return person{o} })
	bind.RegisterFacade(func(o bind.Object) Point { return point{o} })
}

type entity struct{ bind.Object }

func (e entity) Name() string { return bind.MustCall[string](e, "Name") }
func (e entity) Type() string { return bind.MustCall[string](e, "Type") }

type refEntity struct{ bind.Object }

func (e refEntity) Name() string { return bind.MustCall[string](e, "Name") }
func (e refEntity) Type() string { return bind.MustCall[string](e, "Type") }

type stringIF struct{ bind.Object }

func (s stringIF) Name() string { return bind.MustCall[string](s, "Name") }

type mapIF struct{ bind.Object }

func (m mapIF) Data() map[string]StringIF { return bind.MustCall[map[string]StringIF](m, "Data") }

type listIF struct{ bind.Object }

func (l listIF) Items() []any { return bind.MustCall[[]any](l, "Items") }

type address struct{ bind.Object }

func (a address) Street() string    { return bind.MustCall[string](a, "Street") }
func (a address) Zip() (int, error) { return bind.Call[int](a, "Zip") }

type person struct{ bind.Object }

func (p person) Name() string            { return bind.MustCall[string](p, "Name") }
func (p person) SetName(v string) Person { return bind.MustCall[Person](p, "SetName", v) }
func (p person) Age() (int, error)       { return bind.Call[int](p, "Age") }
func (p person) SetAge(v int)            { bind.MustCall[any](p, "SetAge", v) }
func (p person) Address() Address        { return bind.MustCall[Address](p, "Address") }
func (p person) SetAddress(v Address)    { bind.MustCall[any](p, "SetAddress", v) }
func (p person) City() string            { return bind.MustCall[string](p, "City") }
func (p person) SetCity(v string)        { bind.MustCall[any](p, "SetCity", v) }
func (p person) Tags() []string          { return bind.MustCall[[]string](p, "Tags") }
func (p person) Friends() []Person       { return bind.MustCall[[]Person](p, "Friends") }
func (p person) Nick() contract.Optional[string] {
	return bind.MustCall[contract.Optional[string]](p, "Nick")
}
func (p person) Boss() contract.Optional[Person] {
	return bind.MustCall[contract.Optional[Person]](p, "Boss")
}
func (p person) Roles() *contract.Set   { return bind.MustCall[*contract.Set](p, "Roles") }
func (p person) Labels() map[string]any { return bind.MustCall[map[string]any](p, "Labels") }
func (p person) Greeting() string       { return bind.MustCall[string](p, "Greeting") }
func (p person) Initial() string        { return bind.MustCall[string](p, "Initial") }

type point struct{ bind.Object }

func (p point) X() float64     { return bind.MustCall[float64](p, "X") }
func (p point) Y() float64     { return bind.MustCall[float64](p, "Y") }
func (p point) SetY(v float64) { bind.MustCall[any](p, "SetY", v) }

func parse(t *testing.T, s string) *ir.Node {
	t.Helper()
	n, err := docio.JSON().Read(strings.NewReader(s))
	if err != nil {
		t.Fatal(err)
	}
	return n
}

// builders runs f once per builder.
func builders(t *testing.T, f func(t *testing.T, ctx *bind.Context)) {
	for _, b := range []bind.Builder{bind.Dynamic, bind.Specialized} {
		t.Run(b.String(), func(t *testing.T) {
			f(t, bind.NewContext(bind.WithBuilder(b)))
		})
	}
}

func mustBind[T any](t *testing.T, ctx *bind.Context, s string) T {
	t.Helper()
	v, err := bind.Bind[T](ctx, parse(t, s))
	if err != nil {
		t.Fatal(err)
	}
	return v
}

const alice = `{
  "name": "Alice",
  "age": 30,
  "address": {"street": "Main", "zip": 12345, "city": "Springfield"},
  "tags": ["a", "b"],
  "friends": [{"name": "Bob"}, {"name": "Carol"}],
  "nick": "Al",
  "roles": ["admin", "dev", "admin"],
  "labels": {"x": 1, "y": 2}
}`
