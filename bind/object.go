package bind

import (
	"reflect"
	"sync"

	"github.com/expr-lang/expr/vm"
	"github.com/signadot/tony-format/go-bind/cache"
	"github.com/signadot/tony-format/go-bind/classify"
	"github.com/signadot/tony-format/go-bind/contract"
	"github.com/signadot/tony-format/go-bind/ir"
	"github.com/signadot/tony-format/go-bind/resolve"
)

// Object is a contract bound to a document node.  Operations are invoked by
// method name through Call; typed access goes through a registered facade.
type Object interface {
	contract.Receiver
	Contract() *contract.Contract
	Node() *ir.Node
	Context() *Context
	// Equal reports whether other is bound to the same contract and agrees
	// on every identity operation.
	Equal(other any) bool
	Hash() uint64
	String() string
}

// prepared is the validated, per contract state shared by both builders.
type prepared struct {
	c     *contract.Contract
	res   resolve.Resolver
	progs map[string]*vm.Program
}

type prepareEntry struct {
	p   *prepared
	err error
}

var (
	preparedContracts sync.Map // *contract.Contract -> prepareEntry
	checkedContracts  sync.Map // *contract.Contract -> prepareEntry, own operations only
)

// prepare validates c and every contract reachable from its results, then
// returns the state of c.  Configuration errors surface here, before any
// operation is called.
func prepare(pr contract.Provider, c *contract.Contract) (*prepared, error) {
	if e, ok := preparedContracts.Load(c); ok {
		e := e.(prepareEntry)
		return e.p, e.err
	}
	p, err := check(c)
	if err == nil {
		err = checkReachable(pr, c)
	}
	if err != nil {
		p = nil
	}
	e, _ := preparedContracts.LoadOrStore(c, prepareEntry{p: p, err: err})
	return e.(prepareEntry).p, e.(prepareEntry).err
}

// check classifies every operation of c, builds its resolver and compiles
// its expressions.
func check(c *contract.Contract) (*prepared, error) {
	if e, ok := checkedContracts.Load(c); ok {
		e := e.(prepareEntry)
		return e.p, e.err
	}
	p, err := doPrepare(c)
	e, _ := checkedContracts.LoadOrStore(c, prepareEntry{p: p, err: err})
	return e.(prepareEntry).p, e.(prepareEntry).err
}

func doPrepare(c *contract.Contract) (*prepared, error) {
	cats, err := classify.Check(c)
	if err != nil {
		return nil, err
	}
	for i, op := range c.Ops {
		if cats[i] != classify.Optional {
			continue
		}
		if elem, _ := contract.OptionalElem(op.Result); contract.IsContract(elem) && !hasFacade(elem) {
			return nil, contract.OpError(op, "optional %s needs a registered facade", elem)
		}
	}
	res, err := resolve.New(c)
	if err != nil {
		return nil, err
	}
	progs, err := compileExprs(c)
	if err != nil {
		return nil, err
	}
	return &prepared{c: c, res: res, progs: progs}, nil
}

// checkReachable checks every contract that root's results bind to,
// following nested results through recursive contracts once.
func checkReachable(pr contract.Provider, root *contract.Contract) error {
	seen := map[reflect.Type]bool{root.Type: true}
	queue := []*contract.Contract{root}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, op := range c.Ops {
			cat, err := classify.Classify(op)
			if err != nil {
				return err
			}
			t := resultContract(op, cat)
			if t == nil || seen[t] {
				continue
			}
			seen[t] = true
			nc, err := pr.Describe(t)
			if err != nil {
				return err
			}
			if _, err := check(nc); err != nil {
				return err
			}
			queue = append(queue, nc)
		}
	}
	return nil
}

// resultContract is the contract an operation's result binds nodes to, or
// nil when it yields plain values.
func resultContract(op *contract.Operation, cat classify.Category) reflect.Type {
	var t reflect.Type
	switch cat {
	case classify.Nested:
		t = op.Result
	case classify.ContractArray:
		t = op.Result.Elem()
	case classify.List, classify.Set:
		t = op.Annotations.Elem
	case classify.Map:
		t = op.Result.Elem()
		if t == reflect.TypeFor[any]() {
			t = op.Annotations.Elem
		}
	case classify.Optional:
		t, _ = contract.OptionalElem(op.Result)
	}
	if t == nil || !contract.IsContract(t) {
		return nil
	}
	return t
}

// rootKind is the kind of node a contract binds to.
func (p *prepared) rootKind() ir.Kind {
	if p.res.Positional() {
		return ir.CollectionKind
	}
	return ir.ContainerKind
}

// binding is everything needed to answer one operation.
type binding struct {
	op    *contract.Operation
	cat   classify.Category
	key   string
	steps []ir.Step
	prog  *vm.Program
}

func (b *binding) path() string {
	return ir.FormatPath(b.steps)
}

// base holds the state of one bound object.
type base struct {
	ctx   *Context
	c     *contract.Contract
	node  *ir.Node
	cache cache.Cache
	// self is the outer object, handed to derived bodies and returned by
	// fluent mutators.
	self Object
}

func (b *base) Contract() *contract.Contract { return b.c }

func (b *base) Node() *ir.Node { return b.node }

func (b *base) Context() *Context { return b.ctx }

// Instance is the object produced by the Dynamic builder: every call is
// classified and resolved when it is made.
type Instance struct {
	base
	p *prepared
}

func newInstance(ctx *Context, p *prepared, node *ir.Node) *Instance {
	i := &Instance{
		base: base{ctx: ctx, c: p.c, node: node, cache: ctx.cache()},
		p:    p,
	}
	i.self = i
	return i
}

func (i *Instance) Call(name string, args ...any) (any, error) {
	op := i.c.Op(name)
	if op == nil {
		return nil, &UnknownOpError{Contract: i.c.Name, Op: name}
	}
	cat, err := classify.Classify(op)
	if err != nil {
		return nil, err
	}
	bd := &binding{
		op:    op,
		cat:   cat,
		key:   i.p.res.Key(op),
		steps: i.p.res.Steps(op),
		prog:  i.p.progs[op.Name],
	}
	if err := checkArgs(op, args); err != nil {
		return nil, err
	}
	switch cat {
	case classify.Derived:
		return i.derived(bd, args)
	case classify.Mutator:
		return i.mutate(bd, args[0])
	}
	return i.cache.Get(bd.key, func() (any, error) {
		return computeFunc(bd.cat)(&i.base, bd)
	})
}

func (i *Instance) Equal(other any) bool { return equal(i, other) }

func (i *Instance) Hash() uint64 { return hash(i) }

func (i *Instance) String() string { return render(i) }

func checkArgs(op *contract.Operation, args []any) error {
	if len(args) != op.NumIn() {
		return &ArgError{Op: op.String(), Message: "wrong number of arguments"}
	}
	for j, a := range args {
		if a == nil {
			continue
		}
		if _, ok := a.(Object); ok && contract.IsContract(op.Params[j]) {
			continue
		}
		if !reflect.TypeOf(a).AssignableTo(op.Params[j]) {
			return &ArgError{Op: op.String(), Message: "argument " + reflect.TypeOf(a).String() + " is not " + op.Params[j].String()}
		}
	}
	return nil
}
