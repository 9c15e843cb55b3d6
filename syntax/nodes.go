package syntax

import (
	"strings"

	"github.com/komashell/koma/token"
)

// Node is any AST node produced by the Parser.
type Node interface {
	Pos() token.Pos
	// String renders the node back to shell source; used by property
	// tests that re-parse a node's own rendering (spec.md §8 universal 2).
	String() string
}

// RedirMode distinguishes write-truncate from append redirection.
type RedirMode uint8

const (
	RedirNone RedirMode = iota
	RedirWrite
	RedirAppend
)

// Empty is the result of parsing an empty line.
type Empty struct {
	At token.Pos
}

func (e *Empty) Pos() token.Pos { return e.At }
func (e *Empty) String() string { return "" }

// Arg is either a literal string (Lit) or a variable reference (VarRef).
type Arg interface {
	Node
	argNode()
}

// Lit is a literal argument: a bareword or an already-unquoted/escaped
// quoted string. Quoted is true for STRING-token-derived literals, which
// never undergo variable expansion at evaluation time.
type Lit struct {
	At     token.Pos
	Value  string
	Quoted bool
	Single bool // single-quoted: no escape processing happened either
}

func (l *Lit) Pos() token.Pos { return l.At }
func (l *Lit) argNode()       {}
func (l *Lit) String() string {
	if l.Single {
		return "'" + l.Value + "'"
	}
	if l.Quoted {
		return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(l.Value) + `"`
	}
	return l.Value
}

// VarRef is a $NAME or ${NAME} argument, expanded at evaluation time.
type VarRef struct {
	At   token.Pos
	Name string
}

func (v *VarRef) Pos() token.Pos { return v.At }
func (v *VarRef) argNode()       {}
func (v *VarRef) String() string {
	if len(v.Name) == 1 {
		switch v.Name[0] {
		case '?', '#', '@':
			return "$" + v.Name
		}
	}
	return "${" + v.Name + "}"
}

// Command is a single command invocation: a name plus its arguments.
type Command struct {
	At   token.Pos
	Name string
	Args []Arg
}

func (c *Command) Pos() token.Pos { return c.At }
func (c *Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for _, a := range c.Args {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, " ")
}

// Pipeline chains two or more Commands connected by '|'.
type Pipeline struct {
	Stages []*Command
}

func (p *Pipeline) Pos() token.Pos { return p.Stages[0].Pos() }
func (p *Pipeline) String() string {
	parts := make([]string, len(p.Stages))
	for i, s := range p.Stages {
		parts[i] = s.String()
	}
	return strings.Join(parts, " | ")
}

// Compound wraps a Command or a Pipeline with optional redirections.
// Inner is *Command or *Pipeline.
type Compound struct {
	Inner Node
	In    string // input redirection path, "" if unset
	Out   string // output redirection path, "" if unset
	Mode  RedirMode
}

func (c *Compound) Pos() token.Pos { return c.Inner.Pos() }
func (c *Compound) String() string {
	s := c.Inner.String()
	if c.In != "" {
		s += " < " + c.In
	}
	if c.Out != "" {
		if c.Mode == RedirAppend {
			s += " >> " + c.Out
		} else {
			s += " > " + c.Out
		}
	}
	return s
}

// Sequence chains two or more items separated by ';' or a newline.
type Sequence struct {
	Items []Node
}

func (s *Sequence) Pos() token.Pos { return s.Items[0].Pos() }
func (s *Sequence) String() string {
	parts := make([]string, len(s.Items))
	for i, it := range s.Items {
		parts[i] = it.String()
	}
	return strings.Join(parts, "; ")
}

// Assignment is a NAME=VALUE statement; Value is captured verbatim at
// parse time with no expansion (spec.md §3).
type Assignment struct {
	At    token.Pos
	Name  string
	Value string
}

func (a *Assignment) Pos() token.Pos { return a.At }
func (a *Assignment) String() string { return a.Name + "=" + a.Value }
