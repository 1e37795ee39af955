package bind_test

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/tony-format/go-bind/bind"
	"github.com/signadot/tony-format/go-bind/cache"
	"github.com/signadot/tony-format/go-bind/contract"
	"github.com/signadot/tony-format/go-bind/docio"
	"go.uber.org/goleak"
)

func TestAccessors(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		p := mustBind[Person](t, ctx, alice)
		if p.Name() != "Alice" {
			t.Errorf("Name() = %q", p.Name())
		}
		if age, err := p.Age(); err != nil || age != 30 {
			t.Errorf("Age() = %d, %v", age, err)
		}
		if p.City() != "Springfield" {
			t.Errorf("City() = %q", p.City())
		}
		if zip, err := p.Address().Zip(); err != nil || zip != 12345 {
			t.Errorf("Address().Zip() = %d, %v", zip, err)
		}
		if diff := cmp.Diff([]string{"a", "b"}, p.Tags()); diff != "" {
			t.Errorf("Tags() (-want +got):\n%s", diff)
		}
		var friends []string
		for _, f := range p.Friends() {
			friends = append(friends, f.Name())
		}
		if diff := cmp.Diff([]string{"Bob", "Carol"}, friends); diff != "" {
			t.Errorf("Friends() (-want +got):\n%s", diff)
		}
		if nick, ok := p.Nick().Get(); !ok || nick != "Al" {
			t.Errorf("Nick() = %v", p.Nick())
		}
		if p.Boss().OK() {
			t.Errorf("Boss() should be absent")
		}
		roles := p.Roles()
		if roles.Len() != 2 || !roles.Contains("admin") || !roles.Contains("dev") {
			t.Errorf("Roles() = %v", roles)
		}
		if diff := cmp.Diff(map[string]any{"x": 1, "y": 2}, p.Labels()); diff != "" {
			t.Errorf("Labels() (-want +got):\n%s", diff)
		}
		if p.Greeting() != "Hello Alice" {
			t.Errorf("Greeting() = %q", p.Greeting())
		}
		if p.Initial() != "A" {
			t.Errorf("Initial() = %q", p.Initial())
		}
	})
}

func TestBindTwiceEqual(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		node := parse(t, alice)
		a, err := bind.Bind[Person](ctx, node)
		if err != nil {
			t.Fatal(err)
		}
		b, err := bind.Bind[Person](ctx, node)
		if err != nil {
			t.Fatal(err)
		}
		if !a.(bind.Object).Equal(b) || a.(bind.Object).Hash() != b.(bind.Object).Hash() {
			t.Errorf("%v and %v should be equal", a, b)
		}
		if a.Name() != b.Name() || a.Address().Street() != b.Address().Street() {
			t.Errorf("results differ")
		}
	})
}

func TestCachedResultsAreIdentical(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		p := mustBind[Person](t, ctx, alice)
		if p.Address() != p.Address() {
			t.Errorf("nested object rebuilt")
		}
		f1, f2 := p.Friends(), p.Friends()
		if &f1[0] != &f2[0] {
			t.Errorf("contract array rebuilt")
		}
	})
}

func TestNoCacheRebuilds(t *testing.T) {
	ctx := bind.NewContext(bind.WithCache(cache.None))
	p := mustBind[Person](t, ctx, alice)
	if p.Address() == p.Address() {
		t.Errorf("expected a new nested object per call")
	}
	if !p.Address().(bind.Object).Equal(p.Address()) {
		t.Errorf("rebuilt nested objects should be equal")
	}
}

func TestMutatorClearsOnlyItsKey(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		p := mustBind[Person](t, ctx, alice)
		addr := p.Address()
		if age, _ := p.Age(); age != 30 {
			t.Fatalf("Age() = %d", age)
		}
		p.SetAge(31)
		if age, _ := p.Age(); age != 31 {
			t.Errorf("Age() after SetAge = %d", age)
		}
		if p.Address() != addr {
			t.Errorf("SetAge invalidated Address")
		}
	})
}

func TestMutatorRoundTrip(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		node := parse(t, alice)
		p, err := bind.Bind[Person](ctx, node)
		if err != nil {
			t.Fatal(err)
		}
		p.SetAge(42)
		q, err := bind.Bind[Person](ctx, node)
		if err != nil {
			t.Fatal(err)
		}
		if age, _ := q.Age(); age != 42 {
			t.Errorf("Age() on a new binding = %d", age)
		}
		if r := p.SetName("Alicia"); r.Name() != "Alicia" || p.Name() != "Alicia" {
			t.Errorf("fluent SetName: %q, %q", r.Name(), p.Name())
		}
	})
}

func TestMutatorCreatesIntermediates(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		node := parse(t, `{}`)
		p, err := bind.Bind[Person](ctx, node)
		if err != nil {
			t.Fatal(err)
		}
		p.SetCity("Paris")
		if p.City() != "Paris" {
			t.Errorf("City() = %q", p.City())
		}
		d, _ := node.MarshalJSON()
		if got := string(d); got != `{"address":{"city":"Paris"}}` {
			t.Errorf("document %s", got)
		}
	})
}

func TestMutatorWritesObjectClone(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		src := mustBind[Person](t, ctx, alice)
		dst := mustBind[Person](t, ctx, `{"name": "Dan"}`)
		dst.SetAddress(src.Address())
		dst.SetCity("Shelbyville")
		if dst.Address().Street() != "Main" {
			t.Errorf("Street() = %q", dst.Address().Street())
		}
		if src.City() != "Springfield" {
			t.Errorf("source document changed: %q", src.City())
		}
	})
}

func TestPositional(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		p := mustBind[Point](t, ctx, `[1.5, 2]`)
		if p.X() != 1.5 || p.Y() != 2 {
			t.Errorf("point (%v, %v)", p.X(), p.Y())
		}
		p.SetY(3.5)
		if p.Y() != 3.5 {
			t.Errorf("Y() after SetY = %v", p.Y())
		}
		_, err := bind.Bind[Point](ctx, parse(t, `{"x": 1}`))
		if !errors.Is(err, bind.ErrStructural) {
			t.Errorf("expected structural error for an object root, got %v", err)
		}
	})
}

func TestPartialIndexRejectedAtBind(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		_, err := bind.BindObject(ctx, reflect.TypeFor[Mixed](), parse(t, `["a", "b"]`))
		if !errors.Is(err, contract.ErrConfig) {
			t.Errorf("expected configuration error, got %v", err)
		}
	})
}

func TestEntityIdentity(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		a := mustBind[Entity](t, ctx, `{"name":"n1","type":"t1"}`)
		b := mustBind[Entity](t, ctx, `{"name":"n1","type":"t1"}`)
		c := mustBind[Entity](t, ctx, `{"name":"n1","type":"t2"}`)
		ao := a.(bind.Object)
		if !ao.Equal(b) || ao.Hash() != b.(bind.Object).Hash() {
			t.Errorf("%v != %v", a, b)
		}
		if ao.Equal(c) {
			t.Errorf("%v == %v", a, c)
		}
		if got := ao.String(); got != "Entity [Name()=n1, Type()=t1]" {
			t.Errorf("String() = %q", got)
		}
	})
}

func TestRefEntityIdentityFlag(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		a := mustBind[RefEntity](t, ctx, `{"name":"n1","type":"t1"}`)
		b := mustBind[RefEntity](t, ctx, `{"name":"n1","type":"t2"}`)
		if !a.(bind.Object).Equal(b) || a.(bind.Object).Hash() != b.(bind.Object).Hash() {
			t.Errorf("%v != %v", a, b)
		}
		if got := a.(bind.Object).String(); got != "RefEntity [Name()=n1]" {
			t.Errorf("String() = %q", got)
		}
	})
}

func TestIdentityAcrossBuilders(t *testing.T) {
	const doc = `{"name":"n1","type":"t1"}`
	a := mustBind[Entity](t, bind.NewContext(bind.WithBuilder(bind.Dynamic)), doc)
	b := mustBind[Entity](t, bind.NewContext(bind.WithBuilder(bind.Specialized)), doc)
	if !a.(bind.Object).Equal(b) || !b.(bind.Object).Equal(a) {
		t.Errorf("objects from different builders should be equal")
	}
}

func TestDifferentContractsNotEqual(t *testing.T) {
	ctx := bind.NewContext()
	a := mustBind[Entity](t, ctx, `{"name":"n1","type":"t1"}`)
	b := mustBind[RefEntity](t, ctx, `{"name":"n1","type":"t1"}`)
	if a.(bind.Object).Equal(b) {
		t.Errorf("objects of different contracts compared equal")
	}
}

func TestDebugString(t *testing.T) {
	ctx := bind.NewContext(bind.WithDebug(true))
	e := mustBind[Entity](t, ctx, `{"name":"n1","type":"t1"}`)
	want := `Entity [Name()=n1, Type()=t1] {"name":"n1","type":"t1"}`
	if got := e.(bind.Object).String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestMapScenario(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		m := mustBind[MapIF](t, ctx, `{"data":{"k1":{"name":"s1"},"k2":{"name":"s2"}}}`)
		data := m.Data()
		if len(data) != 2 {
			t.Fatalf("len(Data()) = %d", len(data))
		}
		if data["k1"].Name() != "s1" || data["k2"].Name() != "s2" {
			t.Errorf("Data() = %v", data)
		}
	})
}

func TestMissingCollectionIsEmpty(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		l := mustBind[ListIF](t, ctx, `{}`)
		if diff := cmp.Diff([]any{}, l.Items()); diff != "" {
			t.Errorf("Items() (-want +got):\n%s", diff)
		}
	})
}

// The answers for missing nodes differ per category.  This is retained
// behaviour: a missing scalar fails, a missing nested contract is nil, a
// missing optional is absent and a missing slice is empty.
func TestMissingNodeAnswersPerCategory(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		p := mustBind[Person](t, ctx, `{}`)
		obj := p.(bind.Object)
		if _, err := obj.Call("Name"); !errors.Is(err, bind.ErrMissingNode) {
			t.Errorf("Name(): expected missing node error, got %v", err)
		}
		if _, err := p.Age(); !errors.Is(err, bind.ErrMissingNode) {
			t.Errorf("Age(): expected missing node error, got %v", err)
		}
		if p.Address() != nil {
			t.Errorf("Address() = %v, want nil", p.Address())
		}
		if p.Nick().OK() {
			t.Errorf("Nick() should be absent")
		}
		if tags := p.Tags(); tags == nil || len(tags) != 0 {
			t.Errorf("Tags() = %#v, want empty", tags)
		}
		if f := p.Friends(); f == nil || len(f) != 0 {
			t.Errorf("Friends() = %#v, want empty", f)
		}
		if p.Roles().Len() != 0 || len(p.Labels()) != 0 {
			t.Errorf("Roles() and Labels() should be empty")
		}
	})
}

func TestNullIsAbsent(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		p := mustBind[Person](t, ctx, `{"address": null, "nick": null, "friends": null}`)
		if p.Address() != nil || p.Nick().OK() || len(p.Friends()) != 0 {
			t.Errorf("null should read as absent")
		}
	})
}

func TestStructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		op   string
		want error
	}{
		{"nested leaf", `{"address": "x"}`, "Address", bind.ErrStructural},
		{"array object", `{"friends": {}}`, "Friends", bind.ErrStructural},
		{"map array", `{"labels": []}`, "Labels", bind.ErrStructural},
		{"scalar container", `{"name": {}}`, "Name", bind.ErrStructural},
		{"slice leaf", `{"tags": "a"}`, "Tags", bind.ErrStructural},
		{"bad leaf", `{"age": "old"}`, "Age", docio.ErrRead},
		{"bad map value", `{"labels": {"x": "y"}}`, "Labels", docio.ErrRead},
	}
	builders(t, func(t *testing.T, ctx *bind.Context) {
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				obj, err := bind.BindObject(ctx, reflect.TypeFor[Person](), parse(t, tt.doc))
				if err != nil {
					t.Fatal(err)
				}
				_, err = obj.Call(tt.op)
				if !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})
}

func TestCallErrors(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		obj, err := bind.BindObject(ctx, reflect.TypeFor[Person](), parse(t, alice))
		if err != nil {
			t.Fatal(err)
		}
		var unknown *bind.UnknownOpError
		if _, err := obj.Call("Nope"); !errors.As(err, &unknown) {
			t.Errorf("expected UnknownOpError, got %v", err)
		}
		var argErr *bind.ArgError
		if _, err := obj.Call("SetAge", "x"); !errors.As(err, &argErr) {
			t.Errorf("expected ArgError, got %v", err)
		}
		if _, err := obj.Call("SetAge"); !errors.As(err, &argErr) {
			t.Errorf("expected ArgError for missing argument, got %v", err)
		}
	})
}

type Tagged interface {
	Tags() []string
}

type Team interface {
	Members() []StringIF
}

type Roster interface {
	Members() []any
}

func init() {
	contract.MustAnnotate[Roster](contract.ElemOf[StringIF]("Members"))
}

// Slice results take part in identity by reference, so separately bound
// objects with the same content differ.  This is retained behaviour.
func TestSliceIdentityByReference(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		bindRaw := func(typ reflect.Type, doc string) bind.Object {
			obj, err := bind.BindObject(ctx, typ, parse(t, doc))
			if err != nil {
				t.Fatal(err)
			}
			return obj
		}
		tags := `{"tags": ["a", "b"]}`
		a, b := bindRaw(reflect.TypeFor[Tagged](), tags), bindRaw(reflect.TypeFor[Tagged](), tags)
		if a.Equal(b) {
			t.Errorf("scalar slices compared by content")
		}
		if !a.Equal(a) || a.Hash() != a.Hash() {
			t.Errorf("object not equal to itself")
		}

		members := `{"members": [{"name": "m1"}]}`
		a, b = bindRaw(reflect.TypeFor[Team](), members), bindRaw(reflect.TypeFor[Team](), members)
		if a.Equal(b) {
			t.Errorf("contract arrays compared by content")
		}
		a, b = bindRaw(reflect.TypeFor[Roster](), members), bindRaw(reflect.TypeFor[Roster](), members)
		if !a.Equal(b) || a.Hash() != b.Hash() {
			t.Errorf("lists should compare by content")
		}
	})
}

func TestParallelKeepsOrder(t *testing.T) {
	defer goleak.VerifyNone(t)
	var (
		b    strings.Builder
		want []string
	)
	b.WriteString(`{"friends": [`)
	for i := range 64 {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"name": "f%d"}`, i)
		want = append(want, fmt.Sprintf("f%d", i))
	}
	b.WriteString(`]}`)
	builders(t, func(t *testing.T, ctx *bind.Context) {
		p := mustBind[Person](t, ctx, b.String())
		var got []string
		for _, f := range p.Friends() {
			got = append(got, f.Name())
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Friends() (-want +got):\n%s", diff)
		}
	})
}

func TestParallelFailureIsAtomic(t *testing.T) {
	defer goleak.VerifyNone(t)
	builders(t, func(t *testing.T, ctx *bind.Context) {
		obj, err := bind.BindObject(ctx, reflect.TypeFor[Person](), parse(t, `{"friends": [{"name": "a"}, "b", {"name": "c"}]}`))
		if err != nil {
			t.Fatal(err)
		}
		v, err := obj.Call("Friends")
		if !errors.Is(err, bind.ErrStructural) || v != nil {
			t.Errorf("got %v, %v", v, err)
		}
	})
}

func TestConcurrentCallsShareResult(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		p := mustBind[Person](t, ctx, alice)
		res := make([]Address, 16)
		var wg sync.WaitGroup
		for i := range res {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res[i] = p.Address()
			}()
		}
		wg.Wait()
		for _, a := range res[1:] {
			if a != res[0] {
				t.Fatalf("concurrent callers got different objects")
			}
		}
	})
}

func TestOptionalContract(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		p := mustBind[Person](t, ctx, `{"boss": {"name": "Eve"}}`)
		boss, ok := p.Boss().Get()
		if !ok || boss.Name() != "Eve" {
			t.Errorf("Boss() = %v", p.Boss())
		}
	})
}

func TestReadAndBindYAML(t *testing.T) {
	ctx := bind.NewContext(bind.WithProducer(docio.YAML()))
	e, err := bind.ReadAndBind[Entity](ctx, strings.NewReader("name: n1\ntype: t1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if e.Name() != "n1" || e.Type() != "t1" {
		t.Errorf("got %v", e)
	}
}

func TestBindWithoutFacade(t *testing.T) {
	_, err := bind.Bind[Tagged](bind.NewContext(), parse(t, `{}`))
	if err == nil {
		t.Errorf("expected an error binding a contract without a facade")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("TONY_BIND_BUILDER", "specialized")
	t.Setenv("TONY_BIND_CACHE", "none")
	t.Setenv("TONY_BIND_FORMAT", "yaml")
	t.Setenv("TONY_BIND_DEBUG", "true")
	opts, err := bind.FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	ctx := bind.NewContext(opts...)
	if ctx.Builder() != bind.Specialized || ctx.Producer().Name() != "yaml" || !ctx.Debug() {
		t.Errorf("builder %s, format %s, debug %t", ctx.Builder(), ctx.Producer().Name(), ctx.Debug())
	}

	t.Setenv("TONY_BIND_CACHE", "lru")
	if _, err := bind.FromEnv(); err == nil {
		t.Errorf("expected an error for an unknown cache policy")
	}
}

type Aliased interface {
	Name() string
	MaybeName() contract.Optional[string]
}

func init() {
	contract.MustAnnotate[Aliased](contract.Path("MaybeName", "name"))
}

func TestAccessorsSharingAPath(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		obj, err := bind.BindObject(ctx, reflect.TypeFor[Aliased](), parse(t, `{"name": "n"}`))
		if err != nil {
			t.Fatal(err)
		}
		for range 2 {
			if v, err := bind.Call[string](obj, "Name"); err != nil || v != "n" {
				t.Errorf("Name() = %v, %v", v, err)
			}
			v, err := bind.Call[contract.Optional[string]](obj, "MaybeName")
			if err != nil {
				t.Fatalf("MaybeName(): %v", err)
			}
			if s, ok := v.Get(); !ok || s != "n" {
				t.Errorf("MaybeName() = %v", v)
			}
		}
	})
}

type Bare interface {
	A() string
}

type NestedMixed interface {
	Inner() Mixed
}

type ArrayMixed interface {
	Inner() []Mixed
}

type MapMixed interface {
	Inner() map[string]Mixed
}

type ListMixed interface {
	Inner() []any
}

type DeepMixed interface {
	Outer() NestedMixed
}

type OptionalBare interface {
	Inner() contract.Optional[Bare]
}

type RecursiveOK interface {
	Next() contract.Optional[Person]
}

type ElementsOfAny interface {
	Inner() []any
}

func init() {
	contract.MustAnnotate[ListMixed](contract.ElemOf[Mixed]("Inner"))
	contract.MustAnnotate[ElementsOfAny](contract.ElemOf[Person]("Inner"))
}

func TestResultContractsCheckedAtBind(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		doc  string
		ok   bool
	}{
		{"nested", reflect.TypeFor[NestedMixed](), `{"inner": ["a", "b"]}`, false},
		{"contract array", reflect.TypeFor[ArrayMixed](), `{"inner": []}`, false},
		{"map value", reflect.TypeFor[MapMixed](), `{"inner": {}}`, false},
		{"list element", reflect.TypeFor[ListMixed](), `{"inner": []}`, false},
		{"two levels down", reflect.TypeFor[DeepMixed](), `{}`, false},
		{"optional without facade", reflect.TypeFor[OptionalBare](), `{}`, false},
		{"recursive", reflect.TypeFor[RecursiveOK](), `{}`, true},
		{"list of recursive", reflect.TypeFor[ElementsOfAny](), `{"inner": []}`, true},
	}
	builders(t, func(t *testing.T, ctx *bind.Context) {
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := bind.BindObject(ctx, tt.typ, parse(t, tt.doc))
				if tt.ok {
					if err != nil {
						t.Errorf("unexpected error %v", err)
					}
					return
				}
				if !errors.Is(err, contract.ErrConfig) {
					t.Errorf("expected configuration error, got %v", err)
				}
			})
		}
	})
}

func TestNullScalarIsMissing(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		obj, err := bind.BindObject(ctx, reflect.TypeFor[Person](), parse(t, `{"name": null, "age": null, "tags": null}`))
		if err != nil {
			t.Fatal(err)
		}
		for _, op := range []string{"Name", "Age"} {
			if v, err := obj.Call(op); !errors.Is(err, bind.ErrMissingNode) {
				t.Errorf("%s() = %v, %v; want missing node", op, v, err)
			}
		}
		if v, err := bind.Call[[]string](obj, "Tags"); err != nil || len(v) != 0 {
			t.Errorf("Tags() = %#v, %v", v, err)
		}
		e, err := bind.BindObject(ctx, reflect.TypeFor[Entity](), parse(t, `{"name": null, "type": "t"}`))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := e.Call("Name"); !errors.Is(err, bind.ErrMissingNode) {
			t.Errorf("Entity Name(): expected missing node, got %v", err)
		}
	})
}

type IntKeyed interface {
	Data() map[int]StringIF
}

func TestMapWithIntKeys(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		obj, err := bind.BindObject(ctx, reflect.TypeFor[IntKeyed](), parse(t, `{"data": {"1": {"name": "a"}, "2": {"name": "b"}}}`))
		if err != nil {
			t.Fatal(err)
		}
		data, err := bind.Call[map[int]StringIF](obj, "Data")
		if err != nil {
			t.Fatal(err)
		}
		got := map[int]string{}
		for k, v := range data {
			got[k] = v.Name()
		}
		if diff := cmp.Diff(map[int]string{1: "a", 2: "b"}, got); diff != "" {
			t.Errorf("Data() (-want +got):\n%s", diff)
		}

		bad, err := bind.BindObject(ctx, reflect.TypeFor[IntKeyed](), parse(t, `{"data": {"x": {"name": "a"}}}`))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := bad.Call("Data"); !errors.Is(err, docio.ErrRead) {
			t.Errorf("expected read error for a non-integer key, got %v", err)
		}
	})
}

func TestZeroSignIgnoredByIdentity(t *testing.T) {
	builders(t, func(t *testing.T, ctx *bind.Context) {
		a := mustBind[Point](t, ctx, `[0.0, 1]`).(bind.Object)
		b := mustBind[Point](t, ctx, `[-0.0, 1]`).(bind.Object)
		if !a.Equal(b) || a.Hash() != b.Hash() {
			t.Errorf("%v and %v: equal %v, hashes %x %x", a, b, a.Equal(b), a.Hash(), b.Hash())
		}
	})
}
