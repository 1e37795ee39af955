package bind

import (
	"fmt"
	"reflect"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/signadot/tony-format/go-bind/contract"
)

// exprEnv is the compile time environment of the derived expressions of
// c: every other zero-argument operation as a function, plus args.
func exprEnv(c *contract.Contract, self *contract.Operation) map[string]any {
	env := map[string]any{"args": []any{}}
	for _, op := range c.Ops {
		if op == self || op.NumIn() != 0 || op.Result == nil {
			continue
		}
		env[op.Name] = func() (any, error) { return nil, nil }
	}
	return env
}

// compileExprs compiles the expression bodies of c once, so that syntax
// errors and unknown operation names are configuration errors.
func compileExprs(c *contract.Contract) (map[string]*vm.Program, error) {
	progs := make(map[string]*vm.Program)
	for _, op := range c.Ops {
		src := op.Annotations.Expr
		if src == "" || op.Annotations.Derived != nil {
			continue
		}
		prg, err := expr.Compile(src, expr.Env(exprEnv(c, op)))
		if err != nil {
			return nil, &contract.ConfigError{Contract: c.Name, Operation: op.Name, Message: "bad expression", Err: err}
		}
		progs[op.Name] = prg
	}
	return progs, nil
}

// env binds the expression environment to the receiver r.
func env(c *contract.Contract, self *contract.Operation, r contract.Receiver, args []any) map[string]any {
	m := map[string]any{"args": args}
	for _, op := range c.Ops {
		if op == self || op.NumIn() != 0 || op.Result == nil {
			continue
		}
		name := op.Name
		m[name] = func() (any, error) { return r.Call(name) }
	}
	return m
}

// derived runs the body of a derived operation with the bound object as
// receiver.  Calls it makes go through the same dispatch and cache.
func (b *base) derived(bd *binding, args []any) (any, error) {
	r, ok := wrap(b.self).(contract.Receiver)
	if !ok {
		r = b.self
	}
	var (
		v   any
		err error
	)
	switch {
	case bd.op.Annotations.Derived != nil:
		v, err = bd.op.Annotations.Derived(r, args)
	case bd.prog != nil:
		if args == nil {
			args = []any{}
		}
		v, err = expr.Run(bd.prog, env(b.c, bd.op, r, args))
	default:
		return nil, fmt.Errorf("%s: derived operation has no body", bd.op)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", bd.op, err)
	}
	return convertResult(bd.op, v)
}

// convertResult fits a derived value to the declared result type.  Numbers
// convert between Go numeric types.
func convertResult(op *contract.Operation, v any) (any, error) {
	t := op.Result
	if t == nil || v == nil {
		return nil, nil
	}
	vt := reflect.TypeOf(v)
	if vt.AssignableTo(t) {
		return v, nil
	}
	if isNumeric(vt.Kind()) && isNumeric(t.Kind()) {
		return reflect.ValueOf(v).Convert(t).Interface(), nil
	}
	if o, ok := v.(Object); ok && contract.IsContract(t) {
		if w := wrap(o); reflect.TypeOf(w).AssignableTo(t) {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%s: derived value %T is not %s", op, v, t)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
