package cmdctx

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

// A piped stage's stdin is another stage's buffered stdout, and every
// Writeln call terminates (not separates) its line — so a single
// trailing '\n' must not grow a spurious empty trailing line.
func TestSplitLinesTreatsTrailingNewlineAsTerminator(t *testing.T) {
	c := qt.New(t)
	c.Assert(splitLines("apple\napricot\n"), qt.DeepEquals, []string{"apple", "apricot"})
	c.Assert(splitLines("hi\n"), qt.DeepEquals, []string{"hi"})
	c.Assert(splitLines("hi"), qt.DeepEquals, []string{"hi"})
	c.Assert(splitLines(""), qt.IsNil)
	c.Assert(splitLines("\n"), qt.IsNil)
	// An interior blank line stays, only the single trailing terminator
	// is dropped.
	c.Assert(splitLines("a\n\n"), qt.DeepEquals, []string{"a", ""})
}

func TestNewPipedStripsOneTrailingNewline(t *testing.T) {
	c := qt.New(t)
	ctx := NewPiped("apple\nbanana\napricot\n", func(string) {})
	c.Assert(ctx.GetStdinLines(), qt.DeepEquals, []string{"apple", "banana", "apricot"})
}
