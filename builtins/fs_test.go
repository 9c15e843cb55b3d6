package builtins

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/komashell/koma/cmdctx"
	"github.com/komashell/koma/interp"
	"github.com/komashell/koma/shellstate"
	"github.com/komashell/koma/vfs"
)

func newCapturingCtx() (*cmdctx.Context, *strings.Builder, *strings.Builder) {
	var out, errOut strings.Builder
	ctx := cmdctx.NewTerminal(func(s string) { out.WriteString(s) }, func(s string) { errOut.WriteString(s) }, nil)
	return ctx, &out, &errOut
}

func newShellAndStore(c *qt.C) (*shellstate.Shell, *vfs.Store) {
	sh := shellstate.New(nil)
	fs, err := vfs.Open("")
	c.Assert(err, qt.IsNil)
	return sh, fs
}

func TestCdChangesCwd(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	c.Assert(fs.Mkdir("/home/proj"), qt.IsNil)

	ctx, _, _ := newCapturingCtx()
	code := cmdCd([]string{"cd", "proj"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(sh.Cwd, qt.Equals, "/home/proj")
}

func TestCdNonexistentDirFails(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	ctx, _, errOut := newCapturingCtx()
	code := cmdCd([]string{"cd", "/nope"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitFailure)
	c.Assert(errOut.String(), qt.Not(qt.Equals), "")
}

func TestCdIntoFileFails(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	c.Assert(fs.WriteFile("/home/f.txt", "x"), qt.IsNil)
	ctx, _, _ := newCapturingCtx()
	code := cmdCd([]string{"cd", "/home/f.txt"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitFailure)
}

func TestPwdPrintsCwd(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	ctx, out, _ := newCapturingCtx()
	code := cmdPwd([]string{"pwd"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(out.String(), qt.Equals, sh.Cwd+"\n")
}

func TestLsHidesDotfilesByDefault(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	c.Assert(fs.WriteFile("/home/.secret", "x"), qt.IsNil)
	c.Assert(fs.WriteFile("/home/visible.txt", "x"), qt.IsNil)

	ctx, out, _ := newCapturingCtx()
	code := cmdLs([]string{"ls"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(out.String(), qt.Not(qt.Contains), ".secret")
	c.Assert(out.String(), qt.Contains, "visible.txt")
}

func TestLsAllShowsDotfiles(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	c.Assert(fs.WriteFile("/home/.secret", "x"), qt.IsNil)

	ctx, out, _ := newCapturingCtx()
	code := cmdLs([]string{"ls", "-a"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(out.String(), qt.Contains, ".secret")
}

func TestLsMarksDirectoriesWithSlash(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	c.Assert(fs.Mkdir("/home/sub"), qt.IsNil)

	ctx, out, _ := newCapturingCtx()
	code := cmdLs([]string{"ls"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	c.Assert(out.String(), qt.Contains, "sub/")
}

func TestMkdirThenStat(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	ctx, _, _ := newCapturingCtx()
	code := cmdMkdir([]string{"mkdir", "newdir"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	info, err := fs.Stat("/home/newdir")
	c.Assert(err, qt.IsNil)
	c.Assert(info.Type, qt.Equals, vfs.TypeDir)
}

func TestTouchCreatesEmptyFileAndPreservesExisting(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	ctx, _, _ := newCapturingCtx()

	c.Assert(cmdTouch([]string{"touch", "a.txt"}, sh, fs, ctx), qt.Equals, interp.ExitOK)
	content, err := fs.ReadFile("/home/a.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(content, qt.Equals, "")

	c.Assert(fs.WriteFile("/home/a.txt", "keep me"), qt.IsNil)
	c.Assert(cmdTouch([]string{"touch", "a.txt"}, sh, fs, ctx), qt.Equals, interp.ExitOK)
	content, err = fs.ReadFile("/home/a.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(content, qt.Equals, "keep me")
}

func TestRmRecursiveRemovesSubtree(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	c.Assert(fs.Mkdir("/home/d"), qt.IsNil)
	c.Assert(fs.WriteFile("/home/d/f.txt", "x"), qt.IsNil)
	ctx, _, _ := newCapturingCtx()

	code := cmdRm([]string{"rm", "-r", "d"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	_, err := fs.Stat("/home/d")
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestRmNonRecursiveOnDirFails(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	c.Assert(fs.Mkdir("/home/d"), qt.IsNil)
	c.Assert(fs.WriteFile("/home/d/f.txt", "x"), qt.IsNil)
	ctx, _, _ := newCapturingCtx()

	code := cmdRm([]string{"rm", "d"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitFailure)
}

func TestCpCopiesIntoExistingDirectory(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	c.Assert(fs.WriteFile("/home/a.txt", "hello"), qt.IsNil)
	c.Assert(fs.Mkdir("/home/dest"), qt.IsNil)
	ctx, _, _ := newCapturingCtx()

	code := cmdCp([]string{"cp", "a.txt", "dest"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	got, err := fs.ReadFile("/home/dest/a.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "hello")
	// cp leaves the source untouched.
	_, err = fs.Stat("/home/a.txt")
	c.Assert(err, qt.IsNil)
}

func TestMvRenamesAndRemovesSource(t *testing.T) {
	c := qt.New(t)
	sh, fs := newShellAndStore(c)
	c.Assert(fs.WriteFile("/home/a.txt", "hello"), qt.IsNil)
	ctx, _, _ := newCapturingCtx()

	code := cmdMv([]string{"mv", "a.txt", "b.txt"}, sh, fs, ctx)
	c.Assert(code, qt.Equals, interp.ExitOK)
	_, err := fs.Stat("/home/a.txt")
	c.Assert(err, qt.Not(qt.IsNil))
	got, err := fs.ReadFile("/home/b.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "hello")
}
