package builtins

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/komashell/koma/cmdctx"
	"github.com/komashell/koma/interp"
)

func newPipedCtx(stdin string) (*cmdctx.Context, *strings.Builder) {
	var errOut strings.Builder
	ctx := cmdctx.NewPiped(stdin, func(s string) { errOut.WriteString(s) })
	return ctx, &errOut
}

func TestEchoJoinsArgsWithSpaces(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	ctx, out, _ := newCapturingCtx()
	code := cmdEcho([]string{"echo", "hello", "world"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(out.String(), qt.Equals, "hello world\n")
}

func TestEchoNoNewlineFlag(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	ctx, out, _ := newCapturingCtx()
	code := cmdEcho([]string{"echo", "-n", "hi"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(out.String(), qt.Equals, "hi")
}

func TestCatFromStdin(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	ctx, _ := newPipedCtx("one\ntwo")
	code := cmdCat([]string{"cat"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(ctx.GetStdout(), qt.Equals, "one\ntwo\n")
}

func TestCatFromFile(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	c.Assert(fs.WriteFile("/home/a.txt", "content\n"), qt.IsNil)
	ctx, _ := newPipedCtx("")
	code := cmdCat([]string{"cat", "a.txt"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(ctx.GetStdout(), qt.Equals, "content\n")
}

func TestCatMissingFileFails(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	ctx, _ := newPipedCtx("")
	code := cmdCat([]string{"cat", "nope.txt"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitFailure)
}

func TestGrepFiltersMatchingLines(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	ctx, _ := newPipedCtx("apple\nbanana\ncherry")
	code := cmdGrep([]string{"grep", "an"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(ctx.GetStdout(), qt.Equals, "banana\n")
}

func TestGrepInvertMatch(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	ctx, _ := newPipedCtx("apple\nbanana\ncherry")
	code := cmdGrep([]string{"grep", "-v", "an"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(ctx.GetStdout(), qt.Equals, "apple\ncherry\n")
}

func TestGrepCountFlag(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	ctx, _ := newPipedCtx("apple\nbanana\ncherry")
	code := cmdGrep([]string{"grep", "-c", "a"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(ctx.GetStdout(), qt.Equals, "2\n")
}

func TestGrepNoMatchIsFailureExitCode(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	ctx, _ := newPipedCtx("apple\nbanana")
	code := cmdGrep([]string{"grep", "zzz"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitFailure)
}

func TestSortLexical(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	ctx, _ := newPipedCtx("banana\napple\ncherry")
	code := cmdSort([]string{"sort"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(ctx.GetStdout(), qt.Equals, "apple\nbanana\ncherry\n")
}

func TestSortNumericAndReverse(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	ctx, _ := newPipedCtx("10\n2\n33\n4")
	code := cmdSort([]string{"sort", "-n"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(ctx.GetStdout(), qt.Equals, "2\n4\n10\n33\n")

	ctx2, _ := newPipedCtx("10\n2\n33\n4")
	code = cmdSort([]string{"sort", "-n", "-r"}, sh, fs, ctx2)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(ctx2.GetStdout(), qt.Equals, "33\n10\n4\n2\n")
}

func TestUniqCollapsesAdjacentOnly(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	ctx, _ := newPipedCtx("a\na\nb\na")
	code := cmdUniq([]string{"uniq"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(ctx.GetStdout(), qt.Equals, "a\nb\na\n")
}

func TestUniqCountFlag(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	ctx, _ := newPipedCtx("a\na\nb")
	code := cmdUniq([]string{"uniq", "-c"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(ctx.GetStdout(), qt.Equals, "   2 a\n   1 b\n")
}

func TestWcCountsLinesWordsBytes(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	ctx, _ := newPipedCtx("one two\nthree")
	code := cmdWc([]string{"wc"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(ctx.GetStdout(), qt.Equals, "      2       3      13\n")
}

func TestWcLinesOnly(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	ctx, _ := newPipedCtx("one\ntwo\nthree")
	code := cmdWc([]string{"wc", "-l"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(ctx.GetStdout(), qt.Equals, "3\n")
}

func TestTeeWritesToStdoutAndFile(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	ctx, _ := newPipedCtx("data")
	code := cmdTee([]string{"tee", "out.txt"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(ctx.GetStdout(), qt.Equals, "data")
	got, err := fs.ReadFile("/home/out.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "data")
}

func TestTeeAppendFlag(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	c.Assert(fs.WriteFile("/home/out.txt", "existing"), qt.IsNil)
	ctx, _ := newPipedCtx("new")
	code := cmdTee([]string{"tee", "-a", "out.txt"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	got, err := fs.ReadFile("/home/out.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "existing\nnew")
}

func TestHeadDefaultAndCustomCount(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	stdin := strings.Join([]string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}, "\n")

	ctx, _ := newPipedCtx(stdin)
	code := cmdHead([]string{"head"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(ctx.GetStdout(), qt.Equals, "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n")

	ctx2, _ := newPipedCtx(stdin)
	code = cmdHead([]string{"head", "-n", "3"}, sh, fs, ctx2)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(ctx2.GetStdout(), qt.Equals, "1\n2\n3\n")
}

func TestTailDefaultAndCustomCount(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	stdin := strings.Join([]string{"1", "2", "3", "4", "5"}, "\n")

	ctx, _ := newPipedCtx(stdin)
	code := cmdTail([]string{"tail", "-n", "2"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(ctx.GetStdout(), qt.Equals, "4\n5\n")
}
