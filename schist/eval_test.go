package schist

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func runSrc(c *qt.C, env *Env, src string) Value {
	v, _, err := Read(src)
	c.Assert(err, qt.IsNil)
	result, err := Run(v, env)
	c.Assert(err, qt.IsNil)
	return result
}

func TestEvalArithmetic(t *testing.T) {
	c := qt.New(t)
	env, err := NewGlobalEnv()
	c.Assert(err, qt.IsNil)

	v := runSrc(c, env, "(+ 1 2 3)")
	c.Assert(v, qt.Equals, Value(Number(6)))

	v = runSrc(c, env, "(- 10 4)")
	c.Assert(v, qt.Equals, Value(Number(6)))

	v = runSrc(c, env, "(* 2 3 4)")
	c.Assert(v, qt.Equals, Value(Number(24)))

	v = runSrc(c, env, "(/ 12 2 3)")
	c.Assert(v, qt.Equals, Value(Number(2)))
}

func TestEvalDivisionByZero(t *testing.T) {
	c := qt.New(t)
	env, err := NewGlobalEnv()
	c.Assert(err, qt.IsNil)
	v, _, err := Read("(/ 1 0)")
	c.Assert(err, qt.IsNil)
	_, err = Run(v, env)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestEvalIf(t *testing.T) {
	c := qt.New(t)
	env, err := NewGlobalEnv()
	c.Assert(err, qt.IsNil)

	v := runSrc(c, env, "(if (< 1 2) 10 20)")
	c.Assert(v, qt.Equals, Value(Number(10)))

	v = runSrc(c, env, "(if #f 10 20)")
	c.Assert(v, qt.Equals, Value(Number(20)))

	v = runSrc(c, env, "(if 0 10 20)")
	c.Assert(v, qt.Equals, Value(Number(20)), qt.Commentf("0 is falsy per the truthiness rule"))
}

func TestEvalDefineAndLookup(t *testing.T) {
	c := qt.New(t)
	env, err := NewGlobalEnv()
	c.Assert(err, qt.IsNil)

	runSrc(c, env, "(define x 42)")
	v := runSrc(c, env, "x")
	c.Assert(v, qt.Equals, Value(Number(42)))
}

func TestEvalSetBangRebindsExisting(t *testing.T) {
	c := qt.New(t)
	env, err := NewGlobalEnv()
	c.Assert(err, qt.IsNil)

	runSrc(c, env, "(define x 1)")
	runSrc(c, env, "(set! x 2)")
	v := runSrc(c, env, "x")
	c.Assert(v, qt.Equals, Value(Number(2)))
}

func TestEvalSetBangUnboundIsError(t *testing.T) {
	c := qt.New(t)
	env, err := NewGlobalEnv()
	c.Assert(err, qt.IsNil)
	v, _, err := Read("(set! nope 1)")
	c.Assert(err, qt.IsNil)
	_, err = Run(v, env)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestEvalLambdaAndClosureCapture(t *testing.T) {
	c := qt.New(t)
	env, err := NewGlobalEnv()
	c.Assert(err, qt.IsNil)

	runSrc(c, env, "(define make-adder (lambda (n) (lambda (x) (+ x n))))")
	runSrc(c, env, "(define add5 (make-adder 5))")
	v := runSrc(c, env, "(add5 10)")
	c.Assert(v, qt.Equals, Value(Number(15)))
}

func TestEvalLet(t *testing.T) {
	c := qt.New(t)
	env, err := NewGlobalEnv()
	c.Assert(err, qt.IsNil)

	v := runSrc(c, env, "(let ((x 3) (y 4)) (+ x y))")
	c.Assert(v, qt.Equals, Value(Number(7)))
}

func TestEvalCond(t *testing.T) {
	c := qt.New(t)
	env, err := NewGlobalEnv()
	c.Assert(err, qt.IsNil)

	v := runSrc(c, env, `(cond ((< 1 0) 1) ((< 2 3) 2) (else 3))`)
	c.Assert(v, qt.Equals, Value(Number(2)))
}

func TestEvalBeginSequencesAndReturnsLast(t *testing.T) {
	c := qt.New(t)
	env, err := NewGlobalEnv()
	c.Assert(err, qt.IsNil)

	runSrc(c, env, "(define x 0)")
	v := runSrc(c, env, "(begin (set! x 1) (set! x 2) x)")
	c.Assert(v, qt.Equals, Value(Number(2)))
}

// TestFactorialDeepRecursionDoesNotOverflowStack exercises the
// trampolined tail call: a naive recursive Go implementation of this
// would blow the call stack at this depth.
func TestFactorialDeepRecursionDoesNotOverflowStack(t *testing.T) {
	c := qt.New(t)
	env, err := NewGlobalEnv()
	c.Assert(err, qt.IsNil)

	runSrc(c, env, `
(define fact-iter
  (lambda (n acc)
    (if (= n 0)
        acc
        (fact-iter (- n 1) (* n acc)))))`)
	v := runSrc(c, env, "(fact-iter 10 1)")
	c.Assert(v, qt.Equals, Value(Number(3628800)))

	runSrc(c, env, `
(define count-to
  (lambda (n limit)
    (if (= n limit)
        n
        (count-to (+ n 1) limit))))`)
	v = runSrc(c, env, "(count-to 0 200000)")
	c.Assert(v, qt.Equals, Value(Number(200000)))
}

// TestMetaCircularEval exercises the eval/apply built-ins evaluating a
// quoted form.
func TestMetaCircularEval(t *testing.T) {
	c := qt.New(t)
	env, err := NewGlobalEnv()
	c.Assert(err, qt.IsNil)

	v := runSrc(c, env, "(eval (list '+ 1 2))")
	c.Assert(v, qt.Equals, Value(Number(3)))
}

func TestApplyBuiltin(t *testing.T) {
	c := qt.New(t)
	env, err := NewGlobalEnv()
	c.Assert(err, qt.IsNil)

	v := runSrc(c, env, "(apply + (list 1 2 3))")
	c.Assert(v, qt.Equals, Value(Number(6)))
}

func TestUnboundSymbolIsLiteral(t *testing.T) {
	// spec.md §4.9: unbound symbols (typically quoted) evaluate to
	// themselves rather than erroring.
	c := qt.New(t)
	env, err := NewGlobalEnv()
	c.Assert(err, qt.IsNil)
	v := runSrc(c, env, "'some-unbound-name")
	c.Assert(v, qt.Equals, Value(Symbol("some-unbound-name")))
}

func TestArityMismatchIsError(t *testing.T) {
	c := qt.New(t)
	env, err := NewGlobalEnv()
	c.Assert(err, qt.IsNil)
	runSrc(c, env, "(define f (lambda (a b) (+ a b)))")
	v, _, err := Read("(f 1)")
	c.Assert(err, qt.IsNil)
	_, err = Run(v, env)
	c.Assert(err, qt.Not(qt.IsNil))
}
