package schist

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestReadNumber(t *testing.T) {
	c := qt.New(t)
	v, rest, err := Read("42")
	c.Assert(err, qt.IsNil)
	c.Assert(rest, qt.Equals, "")
	n, ok := v.(Number)
	c.Assert(ok, qt.IsTrue)
	c.Assert(float64(n), qt.Equals, 42.0)
}

func TestReadNegativeFloat(t *testing.T) {
	c := qt.New(t)
	v, _, err := Read("-3.5")
	c.Assert(err, qt.IsNil)
	n, ok := v.(Number)
	c.Assert(ok, qt.IsTrue)
	c.Assert(float64(n), qt.Equals, -3.5)
}

func TestReadBooleans(t *testing.T) {
	c := qt.New(t)
	v, _, err := Read("#t")
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, Value(Bool(true)))

	v, _, err = Read("#f")
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, Value(Bool(false)))
}

func TestReadSymbol(t *testing.T) {
	c := qt.New(t)
	v, _, err := Read("foo")
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, Value(Symbol("foo")))
}

func TestReadQuotedSymbol(t *testing.T) {
	c := qt.New(t)
	v, _, err := Read("'foo")
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, Value(Symbol("foo")))
}

func TestReadList(t *testing.T) {
	c := qt.New(t)
	v, _, err := Read("(+ 1 2)")
	c.Assert(err, qt.IsNil)
	l, ok := v.(List)
	c.Assert(ok, qt.IsTrue)
	c.Assert(len(l.Items), qt.Equals, 3)
	c.Assert(l.Items[0], qt.Equals, Value(Symbol("+")))
	c.Assert(l.Items[1], qt.Equals, Value(Number(1)))
}

func TestReadNestedList(t *testing.T) {
	c := qt.New(t)
	v, _, err := Read("(lambda (x) (* x x))")
	c.Assert(err, qt.IsNil)
	l, ok := v.(List)
	c.Assert(ok, qt.IsTrue)
	c.Assert(len(l.Items), qt.Equals, 3)
}

func TestReadEmptyList(t *testing.T) {
	c := qt.New(t)
	v, _, err := Read("()")
	c.Assert(err, qt.IsNil)
	l, ok := v.(List)
	c.Assert(ok, qt.IsTrue)
	c.Assert(len(l.Items), qt.Equals, 0)
}

func TestReadLeavesRemainder(t *testing.T) {
	c := qt.New(t)
	v, rest, err := Read("(foo) (bar)")
	c.Assert(err, qt.IsNil)
	_, ok := v.(List)
	c.Assert(ok, qt.IsTrue)
	c.Assert(rest, qt.Equals, "( bar )")
}

func TestReadAllMultipleForms(t *testing.T) {
	c := qt.New(t)
	forms, err := ReadAll("(define x 1) (define y 2) (+ x y)")
	c.Assert(err, qt.IsNil)
	c.Assert(len(forms), qt.Equals, 3)
}

func TestReadUnclosedListIsError(t *testing.T) {
	c := qt.New(t)
	_, _, err := Read("(+ 1 2")
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestReadUnexpectedCloseParenIsError(t *testing.T) {
	c := qt.New(t)
	_, _, err := Read(")")
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestReadEmptyInputIsError(t *testing.T) {
	c := qt.New(t)
	_, _, err := Read("")
	c.Assert(err, qt.Not(qt.IsNil))
}
