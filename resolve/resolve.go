// Package resolve maps contract operations to the document nodes that
// answer them.
//
// Two strategies exist.  The name-path strategy decodes the operation name
// (or an explicit Path annotation) into field steps from the bound node.
// The positional strategy answers every operation with one element of a
// collection root and applies only when all non-derived accessors carry
// an Index annotation.
package resolve

import (
	"fmt"

	"github.com/signadot/tony-format/go-bind/contract"
	"github.com/signadot/tony-format/go-bind/debug"
	"github.com/signadot/tony-format/go-bind/ir"
)

type Resolver interface {
	// Resolve returns the node answering op, or nil if any step is missing.
	Resolve(node *ir.Node, op *contract.Operation) *ir.Node
	// Target returns the node a mutator writes into and the step to write
	// at, creating missing intermediate objects.
	Target(node *ir.Node, op *contract.Operation) (*ir.Node, ir.Step, error)
	// Steps is the fixed path of op relative to the bound node.
	Steps(op *contract.Operation) []ir.Step
	// Key is the cache key of op: its decoded name, never its path, so
	// accessors sharing a path keep separate values.  A mutator shares the
	// key of its accessor.
	Key(op *contract.Operation) string
	Positional() bool
}

type resolver struct {
	positional bool
	steps      map[string][]ir.Step
	keys       map[string]string
}

// New selects and builds the resolver of c.  Partial use of Index
// annotations and unparseable paths are reported here.
func New(c *contract.Contract) (Resolver, error) {
	positional, err := isPositional(c)
	if err != nil {
		return nil, err
	}
	r := &resolver{
		positional: positional,
		steps:      make(map[string][]ir.Step, len(c.Ops)),
		keys:       make(map[string]string, len(c.Ops)),
	}
	accessors := make(map[string]*contract.Operation)
	for _, op := range c.Ops {
		if op.NumIn() == 0 && !op.IsDerived() {
			accessors[DecodeName(op.Name)] = op
		}
	}
	for _, op := range c.Ops {
		if op.IsDerived() {
			r.keys[op.Name] = op.Name
			continue
		}
		var steps []ir.Step
		if positional {
			steps, err = positionalSteps(op, accessors)
		} else {
			steps, err = namedSteps(op, accessors)
		}
		if err != nil {
			return nil, err
		}
		r.steps[op.Name] = steps
		r.keys[op.Name] = key(op, accessors)
	}
	return r, nil
}

// key is the decoded name of op.  A mutator takes the key of the accessor
// it pairs with, so that writing forgets exactly that accessor's value.
func key(op *contract.Operation, accessors map[string]*contract.Operation) string {
	name := DecodeName(op.Name)
	if acc := accessors[name]; acc != nil && op.NumIn() == 1 {
		return DecodeName(acc.Name)
	}
	return name
}

func isPositional(c *contract.Contract) (bool, error) {
	var indexed, plain []string
	for _, op := range c.Ops {
		if op.IsDerived() || op.NumIn() != 0 {
			continue
		}
		if op.Annotations.Index != nil {
			indexed = append(indexed, op.Name)
		} else {
			plain = append(plain, op.Name)
		}
	}
	if len(indexed) > 0 && len(plain) > 0 {
		return false, &contract.ConfigError{
			Contract: c.Name,
			Message:  fmt.Sprintf("index annotations on %v but not on %v", indexed, plain),
		}
	}
	return len(indexed) > 0, nil
}

func positionalSteps(op *contract.Operation, accessors map[string]*contract.Operation) ([]ir.Step, error) {
	idx := op.Annotations.Index
	if idx == nil && op.NumIn() == 1 {
		if acc := accessors[DecodeName(op.Name)]; acc != nil {
			idx = acc.Annotations.Index
		}
	}
	if idx == nil && op.NumIn() > 1 {
		// illegal shape, reported by the classifier
		return nil, nil
	}
	if idx == nil {
		return nil, contract.OpError(op, "no index for positional contract")
	}
	return []ir.Step{ir.IndexStep(*idx)}, nil
}

func namedSteps(op *contract.Operation, accessors map[string]*contract.Operation) ([]ir.Step, error) {
	path := op.Annotations.Path
	if path == "" && op.NumIn() == 1 {
		if acc := accessors[DecodeName(op.Name)]; acc != nil {
			path = acc.Annotations.Path
		}
	}
	if path == "" {
		return []ir.Step{ir.FieldStep(DecodeName(op.Name))}, nil
	}
	steps, err := ir.ParsePath(path)
	if err != nil {
		return nil, &contract.ConfigError{Contract: op.Contract.Name, Operation: op.Name, Message: "bad path", Err: err}
	}
	if len(steps) == 0 {
		return nil, contract.OpError(op, "empty path")
	}
	return steps, nil
}

func (r *resolver) Positional() bool { return r.positional }

func (r *resolver) Steps(op *contract.Operation) []ir.Step {
	return r.steps[op.Name]
}

func (r *resolver) Key(op *contract.Operation) string {
	return r.keys[op.Name]
}

func (r *resolver) Resolve(node *ir.Node, op *contract.Operation) *ir.Node {
	res := node.Walk(r.steps[op.Name])
	if debug.Resolve() {
		debug.Logf("resolve %s at %q: found=%t\n", op, r.keys[op.Name], res != nil)
	}
	return res
}

func (r *resolver) Target(node *ir.Node, op *contract.Operation) (*ir.Node, ir.Step, error) {
	return Target(node, r.steps[op.Name])
}

// Target walks all but the last of steps from node, creating missing
// objects along the way, and returns the reached node and the last step.
func Target(node *ir.Node, steps []ir.Step) (*ir.Node, ir.Step, error) {
	if len(steps) == 0 {
		return nil, ir.Step{}, fmt.Errorf("empty path")
	}
	if node == nil {
		return nil, ir.Step{}, fmt.Errorf("no node to write into")
	}
	cur := node
	for i, s := range steps[:len(steps)-1] {
		next := step(cur, s)
		if next == nil || next.IsNull() {
			next = ir.FromKeyVals(nil)
			if err := set(cur, s, next); err != nil {
				return nil, ir.Step{}, fmt.Errorf("at %s: %w", ir.FormatPath(steps[:i+1]), err)
			}
		}
		cur = next
	}
	last := steps[len(steps)-1]
	if last.IsIndex() && !cur.IsCollection() {
		return nil, ir.Step{}, fmt.Errorf("cannot write %s into %s", last, cur.Kind())
	}
	if !last.IsIndex() && !cur.IsContainer() {
		return nil, ir.Step{}, fmt.Errorf("cannot write %s into %s", last, cur.Kind())
	}
	return cur, last, nil
}

func step(n *ir.Node, s ir.Step) *ir.Node {
	if s.IsIndex() {
		return n.At(s.Index)
	}
	return n.Get(s.Field)
}

func set(n *ir.Node, s ir.Step, v *ir.Node) error {
	if s.IsIndex() {
		return n.SetAt(s.Index, v)
	}
	return n.Set(s.Field, v)
}

// Write sets v at the final step of a Target.
func Write(parent *ir.Node, s ir.Step, v *ir.Node) error {
	return set(parent, s, v)
}
