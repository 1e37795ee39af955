package bind

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/signadot/tony-format/go-bind/classify"
	"github.com/signadot/tony-format/go-bind/contract"
	"github.com/signadot/tony-format/go-bind/debug"
	"github.com/signadot/tony-format/go-bind/ir"
	"golang.org/x/sync/singleflight"
)

// OpPlan fixes how one operation of a contract is answered.  Generated
// code registers them with Precompile.
type OpPlan struct {
	Op       string
	Category classify.Category
	// Path is the formatted step path relative to the bound node.
	Path string
}

var precompiled sync.Map // reflect.Type -> []OpPlan

// Precompile registers the plan of contract T.  The specialized builder
// uses it instead of classifying and resolving T itself, after checking
// that it still agrees with T.
func Precompile[T any](ops ...OpPlan) {
	precompiled.Store(reflect.TypeFor[T](), ops)
}

type call func(s *specialized, args []any) (any, error)

type planOp struct {
	bd   *binding
	call call
}

// plan is the compiled form of one contract.
type plan struct {
	p      *prepared
	ops    map[string]*planOp
	loaded bool
}

var (
	plans     sync.Map // *contract.Contract -> *plan
	planGroup singleflight.Group
)

// planFor returns the plan of p.c, compiling it on first use.  Concurrent
// first uses share one compilation.
func planFor(ctx *Context, p *prepared) (*plan, error) {
	if pl, ok := plans.Load(p.c); ok {
		return pl.(*plan), nil
	}
	v, err, _ := planGroup.Do(fmt.Sprintf("%p", p.c), func() (any, error) {
		if pl, ok := plans.Load(p.c); ok {
			return pl, nil
		}
		pl, err := compilePlan(p)
		if err != nil {
			return nil, err
		}
		plans.Store(p.c, pl)
		ctx.log.Debug("compiled plan", "contract", p.c.Name, "ops", len(pl.ops), "precompiled", pl.loaded)
		return pl, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*plan), nil
}

func compilePlan(p *prepared) (*plan, error) {
	pl := &plan{p: p, ops: make(map[string]*planOp, len(p.c.Ops))}
	pre, err := loadPrecompiled(p)
	if err != nil {
		return nil, err
	}
	pl.loaded = pre != nil
	for _, op := range p.c.Ops {
		cat, err := classify.Classify(op)
		if err != nil {
			return nil, err
		}
		steps := p.res.Steps(op)
		if o, ok := pre[op.Name]; ok {
			cat = o.Category
			if steps, err = ir.ParsePath(o.Path); err != nil {
				return nil, contract.OpError(op, "precompiled path %q: %v", o.Path, err)
			}
		}
		bd := &binding{op: op, cat: cat, key: p.res.Key(op), steps: steps, prog: p.progs[op.Name]}
		pl.ops[op.Name] = &planOp{bd: bd, call: callFor(bd)}
		if debug.Plan() {
			debug.Logf("plan %s: %s at %q\n", op, cat, bd.path())
		}
	}
	return pl, nil
}

// loadPrecompiled returns the registered plan of p.c by operation name.
// A registered plan that disagrees with the contract is a configuration
// error: the generated code is stale.
func loadPrecompiled(p *prepared) (map[string]OpPlan, error) {
	v, ok := precompiled.Load(p.c.Type)
	if !ok {
		return nil, nil
	}
	res := make(map[string]OpPlan)
	for _, o := range v.([]OpPlan) {
		op := p.c.Op(o.Op)
		if op == nil {
			return nil, &contract.ConfigError{Contract: p.c.Name, Operation: o.Op, Message: "precompiled plan names an unknown operation"}
		}
		cat, _ := classify.Classify(op)
		if cat != o.Category {
			return nil, contract.OpError(op, "precompiled as %s, classified as %s", o.Category, cat)
		}
		if !op.IsDerived() {
			if path := ir.FormatPath(p.res.Steps(op)); path != o.Path {
				return nil, contract.OpError(op, "precompiled path %q, resolved %q", o.Path, path)
			}
		}
		res[o.Op] = o
	}
	return res, nil
}

// callFor fixes the algorithm of one operation.
func callFor(bd *binding) call {
	switch bd.cat {
	case classify.Derived:
		return func(s *specialized, args []any) (any, error) {
			return s.derived(bd, args)
		}
	case classify.Mutator:
		return func(s *specialized, args []any) (any, error) {
			return s.mutate(bd, args[0])
		}
	}
	compute := computeFunc(bd.cat)
	return func(s *specialized, _ []any) (any, error) {
		return s.cache.Get(bd.key, func() (any, error) {
			return compute(&s.base, bd)
		})
	}
}

// specialized is the object produced by the Specialized builder.
type specialized struct {
	base
	plan *plan
}

func newSpecialized(ctx *Context, pl *plan, node *ir.Node) *specialized {
	s := &specialized{
		base: base{ctx: ctx, c: pl.p.c, node: node, cache: ctx.cache()},
		plan: pl,
	}
	s.self = s
	return s
}

func (s *specialized) Call(name string, args ...any) (any, error) {
	po, ok := s.plan.ops[name]
	if !ok {
		return nil, &UnknownOpError{Contract: s.c.Name, Op: name}
	}
	if err := checkArgs(po.bd.op, args); err != nil {
		return nil, err
	}
	return po.call(s, args)
}

func (s *specialized) Equal(other any) bool { return equal(s, other) }

func (s *specialized) Hash() uint64 { return hash(s) }

func (s *specialized) String() string { return render(s) }
