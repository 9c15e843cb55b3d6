package schist

// thunk is a deferred tail call: evaluate expects a matching trampoline
// to keep unwinding until a non-thunk Value surfaces (spec.md §4.9
// "Evaluator").
type thunk struct {
	expr Value
	env  *Env
}

func (thunk) isValue()       {}
func (thunk) String() string { return "#<thunk>" }

// Run is the public entry point: it evaluates expr in env, trampolining
// through any chain of tail calls until a final value is reached.
func Run(expr Value, env *Env) (Value, error) {
	v, err := evaluate(expr, env)
	if err != nil {
		return nil, err
	}
	for {
		t, ok := v.(thunk)
		if !ok {
			return v, nil
		}
		v, err = evaluate(t.expr, t.env)
		if err != nil {
			return nil, err
		}
	}
}

// evaluate performs one step: it may itself return a thunk rather than
// fully unwinding tail calls (the caller, Run, does that).
func evaluate(expr Value, env *Env) (Value, error) {
	switch x := expr.(type) {
	case Number, Bool:
		return x, nil
	case Symbol:
		if v, ok := env.Lookup(string(x)); ok {
			return v, nil
		}
		// Unbound: treated as a literal symbol (spec.md §4.9 "makes
		// quoted symbols 'foo resolve to the literal symbol").
		return x, nil
	case List:
		return evalList(x, env)
	case thunk:
		return evaluate(x.expr, x.env)
	default:
		return expr, nil
	}
}

func evalList(l List, env *Env) (Value, error) {
	if len(l.Items) == 0 {
		return l, nil
	}
	if head, ok := l.Items[0].(Symbol); ok {
		if fn, ok := specialForms[string(head)]; ok {
			return fn(l.Items[1:], env)
		}
	}

	headVal, err := Run(l.Items[0], env)
	if err != nil {
		return nil, err
	}
	args := make([]Value, len(l.Items)-1)
	for i, a := range l.Items[1:] {
		v, err := Run(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return applyTail(headVal, args)
}

// applyTail applies fn to args. Applying a Closure returns a thunk
// (tail position, per spec.md §4.9); applying a Builtin calls it
// directly since built-ins never recurse back into user code in tail
// position.
func applyTail(fn Value, args []Value) (Value, error) {
	switch f := fn.(type) {
	case *Builtin:
		return f.Fn(args)
	case *Closure:
		if len(args) != len(f.Params) {
			return nil, errf("arity mismatch: %s expects %d argument(s), got %d", f.String(), len(f.Params), len(args))
		}
		callEnv := f.Env.Child()
		for i, p := range f.Params {
			callEnv.Define(string(p), args[i])
		}
		return thunk{expr: f.Body, env: callEnv}, nil
	default:
		return nil, errf("%s is not callable", fn.String())
	}
}

// Apply is the fully-unwound counterpart used by the `apply` built-in
// and by schist.Run's external callers.
func Apply(fn Value, args []Value) (Value, error) {
	v, err := applyTail(fn, args)
	if err != nil {
		return nil, err
	}
	if t, ok := v.(thunk); ok {
		return Run(t.expr, t.env)
	}
	return v, nil
}

type specialForm func(args []Value, env *Env) (Value, error)

var specialForms map[string]specialForm

func init() {
	specialForms = map[string]specialForm{
		"quote":  sfQuote,
		"if":     sfIf,
		"cond":   sfCond,
		"lambda": sfLambda,
		"define": sfDefine,
		"set!":   sfSetBang,
		"begin":  sfBegin,
		"let":    sfLet,
	}
}

func sfQuote(args []Value, env *Env) (Value, error) {
	if len(args) != 1 {
		return nil, errf("quote: expects exactly 1 argument")
	}
	return args[0], nil
}

func sfIf(args []Value, env *Env) (Value, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, errf("if: expects 2 or 3 arguments")
	}
	cond, err := Run(args[0], env)
	if err != nil {
		return nil, err
	}
	if truthy(cond) {
		return thunk{expr: args[1], env: env}, nil
	}
	if len(args) == 3 {
		return thunk{expr: args[2], env: env}, nil
	}
	return List{}, nil
}

func sfCond(args []Value, env *Env) (Value, error) {
	for _, clauseV := range args {
		clause, ok := clauseV.(List)
		if !ok || len(clause.Items) == 0 {
			return nil, errf("cond: malformed clause")
		}
		test := clause.Items[0]
		isElse := false
		if sym, ok := test.(Symbol); ok && sym == "else" {
			isElse = true
		}
		matched := isElse
		if !isElse {
			tv, err := Run(test, env)
			if err != nil {
				return nil, err
			}
			matched = truthy(tv)
		}
		if !matched {
			continue
		}
		body := clause.Items[1:]
		if len(body) == 0 {
			return List{}, nil
		}
		return thunk{expr: List{Items: append([]Value{Symbol("begin")}, body...)}, env: env}, nil
	}
	return List{}, nil
}

func sfLambda(args []Value, env *Env) (Value, error) {
	if len(args) != 2 {
		return nil, errf("lambda: expects exactly 2 arguments (params body)")
	}
	paramList, ok := args[0].(List)
	if !ok {
		return nil, errf("lambda: parameter list must be a list")
	}
	params := make([]Symbol, len(paramList.Items))
	for i, p := range paramList.Items {
		sym, ok := p.(Symbol)
		if !ok {
			return nil, errf("lambda: parameters must be symbols")
		}
		params[i] = sym
	}
	return &Closure{Params: params, Body: args[1], Env: env}, nil
}

func sfDefine(args []Value, env *Env) (Value, error) {
	if len(args) != 2 {
		return nil, errf("define: expects exactly 2 arguments (name value)")
	}
	name, ok := args[0].(Symbol)
	if !ok {
		return nil, errf("define: name must be a symbol")
	}
	v, err := Run(args[1], env)
	if err != nil {
		return nil, err
	}
	if c, ok := v.(*Closure); ok && c.Name == "" {
		c.Name = string(name)
	}
	env.Define(string(name), v)
	return name, nil
}

func sfSetBang(args []Value, env *Env) (Value, error) {
	if len(args) != 2 {
		return nil, errf("set!: expects exactly 2 arguments (name value)")
	}
	name, ok := args[0].(Symbol)
	if !ok {
		return nil, errf("set!: name must be a symbol")
	}
	v, err := Run(args[1], env)
	if err != nil {
		return nil, err
	}
	if err := env.Set(string(name), v); err != nil {
		return nil, err
	}
	return v, nil
}

func sfBegin(args []Value, env *Env) (Value, error) {
	if len(args) == 0 {
		return List{}, nil
	}
	for _, expr := range args[:len(args)-1] {
		if _, err := Run(expr, env); err != nil {
			return nil, err
		}
	}
	return thunk{expr: args[len(args)-1], env: env}, nil
}

// sfLet implements spec.md §4.9's `let`: equivalent to applying
// `(lambda (x…) b)` to `(v…)`.
func sfLet(args []Value, env *Env) (Value, error) {
	if len(args) != 2 {
		return nil, errf("let: expects exactly 2 arguments (bindings body)")
	}
	bindings, ok := args[0].(List)
	if !ok {
		return nil, errf("let: bindings must be a list")
	}
	childEnv := env.Child()
	for _, bv := range bindings.Items {
		pair, ok := bv.(List)
		if !ok || len(pair.Items) != 2 {
			return nil, errf("let: each binding must be (name value)")
		}
		name, ok := pair.Items[0].(Symbol)
		if !ok {
			return nil, errf("let: binding name must be a symbol")
		}
		v, err := Run(pair.Items[1], env)
		if err != nil {
			return nil, err
		}
		childEnv.Define(string(name), v)
	}
	return thunk{expr: args[1], env: childEnv}, nil
}
