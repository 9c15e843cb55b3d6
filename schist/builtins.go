package schist

// NewGlobalEnv builds a root environment with every built-in from
// spec.md §4.9 bound, then evaluates the prelude (reverse/append/map/
// filter, expressed purely in terms of car/cdr/cons/apply so the Go-
// side built-in surface matches the spec's named list exactly).
func NewGlobalEnv() (*Env, error) {
	env := NewEnv()
	for name, fn := range builtinTable {
		env.Define(name, &Builtin{Name: name, Fn: fn})
	}
	forms, err := ReadAll(prelude)
	if err != nil {
		return nil, err
	}
	for _, f := range forms {
		if _, err := Run(f, env); err != nil {
			return nil, err
		}
	}
	return env, nil
}

var builtinTable = map[string]func(args []Value) (Value, error){
	"+": arith(func(a, b float64) float64 { return a + b }, 0),
	"*": arith(func(a, b float64) float64 { return a * b }, 1),
	"-": subtract,
	"/": divide,

	"=":  numCompare(func(a, b float64) bool { return a == b }),
	"<":  numCompare(func(a, b float64) bool { return a < b }),
	">":  numCompare(func(a, b float64) bool { return a > b }),
	"<=": numCompare(func(a, b float64) bool { return a <= b }),
	">=": numCompare(func(a, b float64) bool { return a >= b }),
	"eq": biEq,

	"list":   biList,
	"car":    biCar,
	"cdr":    biCdr,
	"cons":   biCons,
	"length": biLength,
	"null?":  biNullP,

	"not": biNot,
	"and": biAnd,
	"or":  biOr,

	"number?":   biNumberP,
	"symbol?":   biSymbolP,
	"list?":     biListP,
	"function?": biFunctionP,

	"apply": biApply,

	"display": biDisplay,
	"write":   biWrite,
	"print":   biPrint,
	"newline": biNewline,
	"read":    biRead,
}

// eval is added in init because biEval calls NewGlobalEnv, which reads
// builtinTable; listing it in the literal would be an initialization cycle.
func init() { builtinTable["eval"] = biEval }

func arith(op func(a, b float64) float64, identity float64) func(args []Value) (Value, error) {
	return func(args []Value) (Value, error) {
		acc := identity
		for _, a := range args {
			n, ok := a.(Number)
			if !ok {
				return nil, errf("arithmetic: expected a number, got %s", a.String())
			}
			acc = op(acc, float64(n))
		}
		return Number(acc), nil
	}
}

func subtract(args []Value) (Value, error) {
	nums, err := toNumbers(args)
	if err != nil {
		return nil, err
	}
	switch len(nums) {
	case 0:
		return nil, errf("-: expects at least 1 argument")
	case 1:
		return Number(-nums[0]), nil
	default:
		acc := nums[0]
		for _, n := range nums[1:] {
			acc -= n
		}
		return Number(acc), nil
	}
}

func divide(args []Value) (Value, error) {
	nums, err := toNumbers(args)
	if err != nil {
		return nil, err
	}
	if len(nums) < 2 {
		return nil, errf("/: expects at least 2 arguments")
	}
	acc := nums[0]
	for _, n := range nums[1:] {
		if n == 0 {
			return nil, errf("/: division by zero")
		}
		acc /= n
	}
	return Number(acc), nil
}

func toNumbers(args []Value) ([]float64, error) {
	nums := make([]float64, len(args))
	for i, a := range args {
		n, ok := a.(Number)
		if !ok {
			return nil, errf("arithmetic: expected a number, got %s", a.String())
		}
		nums[i] = float64(n)
	}
	return nums, nil
}

func numCompare(cmp func(a, b float64) bool) func(args []Value) (Value, error) {
	return func(args []Value) (Value, error) {
		nums, err := toNumbers(args)
		if err != nil {
			return nil, err
		}
		for i := 0; i+1 < len(nums); i++ {
			if !cmp(nums[i], nums[i+1]) {
				return Bool(false), nil
			}
		}
		return Bool(true), nil
	}
}

// biEq compares two values by structural equality (numbers by value,
// symbols by name, otherwise by printed form — Schist has no pointer
// identity exposed to user code).
func biEq(args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, errf("eq: expects exactly 2 arguments")
	}
	return Bool(args[0].String() == args[1].String()), nil
}

func biList(args []Value) (Value, error) {
	return List{Items: append([]Value(nil), args...)}, nil
}

func biCar(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, errf("car: expects exactly 1 argument")
	}
	l, ok := args[0].(List)
	if !ok || len(l.Items) == 0 {
		return nil, errf("car: expects a non-empty list")
	}
	return l.Items[0], nil
}

func biCdr(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, errf("cdr: expects exactly 1 argument")
	}
	l, ok := args[0].(List)
	if !ok || len(l.Items) == 0 {
		return nil, errf("cdr: expects a non-empty list")
	}
	return List{Items: l.Items[1:]}, nil
}

func biCons(args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, errf("cons: expects exactly 2 arguments")
	}
	rest, ok := args[1].(List)
	if !ok {
		return nil, errf("cons: second argument must be a list")
	}
	items := make([]Value, 0, len(rest.Items)+1)
	items = append(items, args[0])
	items = append(items, rest.Items...)
	return List{Items: items}, nil
}

func biLength(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, errf("length: expects exactly 1 argument")
	}
	l, ok := args[0].(List)
	if !ok {
		return nil, errf("length: expects a list")
	}
	return Number(len(l.Items)), nil
}

func biNullP(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, errf("null?: expects exactly 1 argument")
	}
	l, ok := args[0].(List)
	return Bool(ok && len(l.Items) == 0), nil
}

func biNot(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, errf("not: expects exactly 1 argument")
	}
	return Bool(!truthy(args[0])), nil
}

func biAnd(args []Value) (Value, error) {
	for _, a := range args {
		if !truthy(a) {
			return Bool(false), nil
		}
	}
	return Bool(true), nil
}

func biOr(args []Value) (Value, error) {
	for _, a := range args {
		if truthy(a) {
			return Bool(true), nil
		}
	}
	return Bool(false), nil
}

func biNumberP(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, errf("number?: expects exactly 1 argument")
	}
	_, ok := args[0].(Number)
	return Bool(ok), nil
}

func biSymbolP(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, errf("symbol?: expects exactly 1 argument")
	}
	_, ok := args[0].(Symbol)
	return Bool(ok), nil
}

func biListP(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, errf("list?: expects exactly 1 argument")
	}
	_, ok := args[0].(List)
	return Bool(ok), nil
}

func biFunctionP(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, errf("function?: expects exactly 1 argument")
	}
	switch args[0].(type) {
	case *Closure, *Builtin:
		return Bool(true), nil
	default:
		return Bool(false), nil
	}
}

// biEval implements `eval expr [env]` (spec.md §4.9 "meta"); a second
// argument is accepted for interface symmetry but Schist exposes no way
// to construct a first-class environment value, so it is always ignored
// and expr is evaluated in a fresh global environment.
func biEval(args []Value) (Value, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, errf("eval: expects 1 or 2 arguments")
	}
	env, err := NewGlobalEnv()
	if err != nil {
		return nil, err
	}
	return Run(args[0], env)
}

func biApply(args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, errf("apply: expects exactly 2 arguments (fn args)")
	}
	l, ok := args[1].(List)
	if !ok {
		return nil, errf("apply: second argument must be a list")
	}
	return Apply(args[0], l.Items)
}

func biDisplay(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, errf("display: expects exactly 1 argument")
	}
	return IOMarker{Kind: "display", Value: args[0]}, nil
}

func biWrite(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, errf("write: expects exactly 1 argument")
	}
	return IOMarker{Kind: "write", Value: args[0]}, nil
}

func biPrint(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, errf("print: expects exactly 1 argument")
	}
	return IOMarker{Kind: "print", Value: args[0]}, nil
}

func biNewline(args []Value) (Value, error) {
	if len(args) != 0 {
		return nil, errf("newline: expects no arguments")
	}
	return IOMarker{Kind: "newline"}, nil
}

// biRead implements spec.md §4.9's `read`: with an argument, its
// printed form is parsed as an S-expression (Schist has no distinct
// string type, so a quoted form such as '(+ 1 2) is how source text is
// passed in); with none, it returns an IOMarker the driver resolves via
// the Context's interactive readline, since this function must stay
// pure and cannot itself suspend.
func biRead(args []Value) (Value, error) {
	switch len(args) {
	case 0:
		return IOMarker{Kind: "read"}, nil
	case 1:
		v, _, err := Read(args[0].String())
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, errf("read: expects 0 or 1 arguments")
	}
}

// prelude defines library procedures purely in terms of the Go-side
// built-ins above (spec.md §4.9's "[FULL]" supplementary procedures),
// so the Go built-in surface matches the spec's named list exactly.
const prelude = `
(define reverse
  (lambda (lst)
    (if (null? lst)
        (list)
        (append (reverse (cdr lst)) (list (car lst))))))

(define append
  (lambda (a b)
    (if (null? a)
        b
        (cons (car a) (append (cdr a) b)))))

(define map
  (lambda (f lst)
    (if (null? lst)
        (list)
        (cons (f (car lst)) (map f (cdr lst))))))

(define filter
  (lambda (pred lst)
    (if (null? lst)
        (list)
        (if (pred (car lst))
            (cons (car lst) (filter pred (cdr lst)))
            (filter pred (cdr lst))))))
`
