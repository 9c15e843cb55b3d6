// Package schist implements Schist, the koma shell's bundled Lisp
// interpreter (spec.md §4.9): a meta-circular reader/evaluator with
// lexical closures and trampolined tail calls. Grounded on the closed
// Node/WordPart sum-type pattern from syntax/nodes.go (itself adapted
// from mvdan.cc/sh/v3/syntax.Node), applied here to Schist's Value type.
package schist

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is the closed sum type every Schist datum belongs to.
type Value interface {
	isValue()
	String() string
}

// Number is a Schist numeric literal. Schist has no integer/float
// distinction (spec.md §4.9's reader accepts `-?\d+(\.\d+)?` uniformly).
type Number float64

func (Number) isValue() {}
func (n Number) String() string {
	if n == Number(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

// Symbol is an identifier: either bound (looked up) or, if unbound
// (typically because it was quoted), a literal symbolic datum.
type Symbol string

func (Symbol) isValue() {}
func (s Symbol) String() string { return string(s) }

// Bool is Schist's boolean, written `#t` or `#f`. Per spec.md §4.9
// "Truthiness", `#f` and 0 are false and everything else, including the
// empty list, is true (see truthy).
type Bool bool

func (Bool) isValue() {}
func (b Bool) String() string {
	if b {
		return "#t"
	}
	return "#f"
}

// List is a Schist list, including the empty list `()`.
type List struct {
	Items []Value
}

func (List) isValue() {}
func (l List) String() string {
	parts := make([]string, len(l.Items))
	for i, v := range l.Items {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Closure is a user-defined procedure: parameters bound to a body
// evaluated in an environment chained from the environment captured at
// creation time (spec.md §4.9 "lambda").
type Closure struct {
	Params []Symbol
	Body   Value
	Env    *Env
	Name   string // set by `define` for friendlier error messages; may be ""
}

func (*Closure) isValue() {}
func (c *Closure) String() string {
	if c.Name != "" {
		return "#<procedure:" + c.Name + ">"
	}
	return "#<procedure>"
}

// Builtin is a Go-implemented procedure.
type Builtin struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

func (*Builtin) isValue() {}
func (b *Builtin) String() string { return "#<builtin:" + b.Name + ">" }

// IOMarker is the tagged value an I/O built-in returns instead of
// performing output itself (spec.md §4.9 "I/O built-ins return tagged
// markers"), keeping the evaluator pure; the REPL driver interprets and
// emits these.
type IOMarker struct {
	Kind  string // "display", "write", "print", "newline", "read"
	Value Value  // nil for "newline" and "read"
}

func (IOMarker) isValue() {}
func (m IOMarker) String() string {
	if m.Value == nil {
		return fmt.Sprintf("#<io:%s>", m.Kind)
	}
	return fmt.Sprintf("#<io:%s %s>", m.Kind, m.Value.String())
}

// truthy implements spec.md §4.9: "#f and 0 are false; everything else,
// including the empty list, is true."
func truthy(v Value) bool {
	switch x := v.(type) {
	case Bool:
		return bool(x)
	case Number:
		return x != 0
	default:
		return true
	}
}

// RuntimeError is a Schist evaluation failure (unbound variable, arity
// mismatch, type error, division by zero).
type RuntimeError struct {
	Msg string
}

func (e *RuntimeError) Error() string { return e.Msg }

func errf(format string, args ...any) error {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...)}
}
