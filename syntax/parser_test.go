package syntax

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestParseEmptyInput(t *testing.T) {
	c := qt.New(t)
	node, err := Parse("")
	c.Assert(err, qt.IsNil)
	_, ok := node.(*Empty)
	c.Assert(ok, qt.IsTrue)
}

func TestParseSimpleCommand(t *testing.T) {
	c := qt.New(t)
	node, err := Parse("echo hello world")
	c.Assert(err, qt.IsNil)
	cmd, ok := node.(*Command)
	c.Assert(ok, qt.IsTrue)
	c.Assert(cmd.Name, qt.Equals, "echo")
	c.Assert(len(cmd.Args), qt.Equals, 2)
	lit, ok := cmd.Args[0].(*Lit)
	c.Assert(ok, qt.IsTrue)
	c.Assert(lit.Value, qt.Equals, "hello")
}

func TestParseAssignment(t *testing.T) {
	c := qt.New(t)
	node, err := Parse("NAME=value")
	c.Assert(err, qt.IsNil)
	a, ok := node.(*Assignment)
	c.Assert(ok, qt.IsTrue)
	c.Assert(a.Name, qt.Equals, "NAME")
	c.Assert(a.Value, qt.Equals, "value")
}

func TestParsePipeline(t *testing.T) {
	c := qt.New(t)
	node, err := Parse("cat f.txt | grep foo | wc -l")
	c.Assert(err, qt.IsNil)
	pipe, ok := node.(*Pipeline)
	c.Assert(ok, qt.IsTrue)
	c.Assert(len(pipe.Stages), qt.Equals, 3)
	c.Assert(pipe.Stages[0].Name, qt.Equals, "cat")
	c.Assert(pipe.Stages[1].Name, qt.Equals, "grep")
	c.Assert(pipe.Stages[2].Name, qt.Equals, "wc")
}

func TestParseRedirects(t *testing.T) {
	c := qt.New(t)
	node, err := Parse("sort < in.txt > out.txt")
	c.Assert(err, qt.IsNil)
	comp, ok := node.(*Compound)
	c.Assert(ok, qt.IsTrue)
	c.Assert(comp.In, qt.Equals, "in.txt")
	c.Assert(comp.Out, qt.Equals, "out.txt")
	c.Assert(comp.Mode, qt.Equals, RedirWrite)
	_, ok = comp.Inner.(*Command)
	c.Assert(ok, qt.IsTrue)
}

func TestParseAppendRedirect(t *testing.T) {
	c := qt.New(t)
	node, err := Parse("echo hi >> log.txt")
	c.Assert(err, qt.IsNil)
	comp, ok := node.(*Compound)
	c.Assert(ok, qt.IsTrue)
	c.Assert(comp.Out, qt.Equals, "log.txt")
	c.Assert(comp.Mode, qt.Equals, RedirAppend)
}

func TestParsePipelineWithRedirectAppliesToWholeCompound(t *testing.T) {
	c := qt.New(t)
	node, err := Parse("cat a.txt | sort > out.txt")
	c.Assert(err, qt.IsNil)
	comp, ok := node.(*Compound)
	c.Assert(ok, qt.IsTrue)
	c.Assert(comp.Out, qt.Equals, "out.txt")
	pipe, ok := comp.Inner.(*Pipeline)
	c.Assert(ok, qt.IsTrue)
	c.Assert(len(pipe.Stages), qt.Equals, 2)
}

func TestParseSequence(t *testing.T) {
	c := qt.New(t)
	node, err := Parse("echo a; echo b\necho c")
	c.Assert(err, qt.IsNil)
	seq, ok := node.(*Sequence)
	c.Assert(ok, qt.IsTrue)
	c.Assert(len(seq.Items), qt.Equals, 3)
}

func TestParseVariableArgument(t *testing.T) {
	c := qt.New(t)
	node, err := Parse("echo $NAME")
	c.Assert(err, qt.IsNil)
	cmd, ok := node.(*Command)
	c.Assert(ok, qt.IsTrue)
	v, ok := cmd.Args[0].(*VarRef)
	c.Assert(ok, qt.IsTrue)
	c.Assert(v.Name, qt.Equals, "NAME")
}

func TestParseTestParensAsLiteralArgs(t *testing.T) {
	// spec.md §4.8: '(' and ')' only ever reach a command as literal
	// arguments, used by test/[ for its outermost-only parenthesized
	// groups.
	c := qt.New(t)
	node, err := Parse(`test ( -f a.txt -a -f b.txt )`)
	c.Assert(err, qt.IsNil)
	cmd, ok := node.(*Command)
	c.Assert(ok, qt.IsTrue)
	c.Assert(cmd.Name, qt.Equals, "test")
	c.Assert(len(cmd.Args), qt.Equals, 7)
	first, ok := cmd.Args[0].(*Lit)
	c.Assert(ok, qt.IsTrue)
	c.Assert(first.Value, qt.Equals, "(")
	last, ok := cmd.Args[6].(*Lit)
	c.Assert(ok, qt.IsTrue)
	c.Assert(last.Value, qt.Equals, ")")
}

func TestParseQuotedStringArgument(t *testing.T) {
	c := qt.New(t)
	node, err := Parse(`echo "hello world"`)
	c.Assert(err, qt.IsNil)
	cmd, ok := node.(*Command)
	c.Assert(ok, qt.IsTrue)
	lit, ok := cmd.Args[0].(*Lit)
	c.Assert(ok, qt.IsTrue)
	c.Assert(lit.Quoted, qt.IsTrue)
	c.Assert(lit.Value, qt.Equals, "hello world")
}

func TestParseMissingRedirectFilenameIsSyntaxError(t *testing.T) {
	c := qt.New(t)
	_, err := Parse("echo hi >")
	c.Assert(err, qt.Not(qt.IsNil))
	var serr *SyntaxError
	c.Assert(err, qt.ErrorAs, &serr)
}

func TestParseUnexpectedTokenAfterCommand(t *testing.T) {
	c := qt.New(t)
	_, err := Parse("echo hi )")
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestParseLeadingSeparatorsSkipped(t *testing.T) {
	c := qt.New(t)
	node, err := Parse("\n\n; echo hi")
	c.Assert(err, qt.IsNil)
	cmd, ok := node.(*Command)
	c.Assert(ok, qt.IsTrue)
	c.Assert(cmd.Name, qt.Equals, "echo")
}

// TestStringRoundTrips exercises spec.md §8 universal 2: rendering a
// parsed node back to source and reparsing it yields the same shape.
func TestStringRoundTrips(t *testing.T) {
	c := qt.New(t)
	inputs := []string{
		"echo hello world",
		"cat f.txt | grep foo",
		"sort < in.txt > out.txt",
		"NAME=value",
	}
	for _, src := range inputs {
		node, err := Parse(src)
		c.Assert(err, qt.IsNil)
		rendered := node.String()
		node2, err := Parse(rendered)
		c.Assert(err, qt.IsNil)
		c.Assert(node2.String(), qt.Equals, rendered)
	}
}
