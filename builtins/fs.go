package builtins

import (
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/komashell/koma/cmdctx"
	"github.com/komashell/koma/flagspec"
	"github.com/komashell/koma/interp"
	"github.com/komashell/koma/shellstate"
	"github.com/komashell/koma/vfs"
)

var cdSpec = &flagspec.Spec{
	Name:        "cd",
	Description: "change the current working directory",
	Positional:  "[dir] — defaults to $HOME; \"~\" expands to $HOME",
	Examples:    []string{"cd /home", "cd ..", "cd"},
	SeeAlso:     []string{"pwd"},
}

func cmdCd(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	res, err := flagspec.Parse(cdSpec, argv[1:])
	if err != nil {
		ctx.Error(fmt.Sprintf("cd: %v\n", err))
		return interp.ExitFailure
	}
	if res.Help {
		ctx.Write(flagspec.Help(cdSpec))
		return interp.ExitOK
	}
	target := sh.Getenv(shellstate.EnvHome)
	if len(res.Positional) > 0 {
		target = res.Positional[0]
	}
	target = resolve(sh, target)
	info, err := fs.Stat(target)
	if err != nil {
		ctx.Error(fmt.Sprintf("cd: %s: no such file or directory\n", target))
		return interp.ExitFailure
	}
	if info.Type != vfs.TypeDir {
		ctx.Error(fmt.Sprintf("cd: %s: not a directory\n", target))
		return interp.ExitFailure
	}
	sh.Cwd = target
	return interp.ExitOK
}

var pwdSpec = &flagspec.Spec{
	Name:        "pwd",
	Description: "print the current working directory",
}

func cmdPwd(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	res, err := flagspec.Parse(pwdSpec, argv[1:])
	if err != nil {
		ctx.Error(fmt.Sprintf("pwd: %v\n", err))
		return interp.ExitFailure
	}
	if res.Help {
		ctx.Write(flagspec.Help(pwdSpec))
		return interp.ExitOK
	}
	ctx.Writeln(sh.Cwd)
	return interp.ExitOK
}

var lsSpec = &flagspec.Spec{
	Name:        "ls",
	Description: "list directory contents",
	Flags: []flagspec.Flag{
		{Name: "all", Short: 'a', Description: "show entries starting with \".\""},
		{Name: "long", Short: 'l', Description: "use a long, fixed-width listing format"},
	},
	Positional: "[path] — defaults to the current directory",
	Examples:   []string{"ls", "ls -l /home", "ls -la"},
}

func cmdLs(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	res, err := flagspec.Parse(lsSpec, argv[1:])
	if err != nil {
		ctx.Error(fmt.Sprintf("ls: %v\n", err))
		return interp.ExitFailure
	}
	if res.Help {
		ctx.Write(flagspec.Help(lsSpec))
		return interp.ExitOK
	}
	target := sh.Cwd
	if len(res.Positional) > 0 {
		target = resolve(sh, res.Positional[0])
	}
	entries, err := fs.Readdir(target)
	if err != nil {
		ctx.Error(fmt.Sprintf("ls: %v\n", err))
		return interp.ExitFailure
	}
	if !res.Bool("all") {
		filtered := entries[:0]
		for _, e := range entries {
			if !strings.HasPrefix(e.Name, ".") {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	long := res.Bool("long")
	piped := ctx.IsPiped() || ctx.IsRedirected()
	for _, e := range entries {
		switch {
		case long:
			marker := "-"
			if e.Type == vfs.TypeDir {
				marker = "d"
			}
			ctx.Writeln(fmt.Sprintf("%s %8d %s %s", marker, e.Size, e.Mtime.Format("2006-01-02 15:04"), e.Name))
		case piped:
			ctx.Writeln(e.Name)
		default:
			name := e.Name
			if e.Type == vfs.TypeDir {
				name += "/"
			}
			ctx.Writeln(name)
		}
	}
	return interp.ExitOK
}

var mkdirSpec = &flagspec.Spec{
	Name:        "mkdir",
	Description: "create a directory",
	Positional:  "<dir> — the non-recursive directory to create",
	Examples:    []string{"mkdir /home/scratch"},
}

func cmdMkdir(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	res, err := flagspec.Parse(mkdirSpec, argv[1:])
	if err != nil {
		ctx.Error(fmt.Sprintf("mkdir: %v\n", err))
		return interp.ExitFailure
	}
	if res.Help {
		ctx.Write(flagspec.Help(mkdirSpec))
		return interp.ExitOK
	}
	if len(res.Positional) != 1 {
		ctx.Error("mkdir: missing operand\n")
		return interp.ExitFailure
	}
	target := resolve(sh, res.Positional[0])
	if err := fs.Mkdir(target); err != nil {
		ctx.Error(fmt.Sprintf("mkdir: %v\n", err))
		return interp.ExitFailure
	}
	return interp.ExitOK
}

var touchSpec = &flagspec.Spec{
	Name:        "touch",
	Description: "create an empty file, or update an existing file's modification time",
	Positional:  "<file>",
	Examples:    []string{"touch /tmp/marker"},
}

func cmdTouch(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	res, err := flagspec.Parse(touchSpec, argv[1:])
	if err != nil {
		ctx.Error(fmt.Sprintf("touch: %v\n", err))
		return interp.ExitFailure
	}
	if res.Help {
		ctx.Write(flagspec.Help(touchSpec))
		return interp.ExitOK
	}
	if len(res.Positional) != 1 {
		ctx.Error("touch: missing operand\n")
		return interp.ExitFailure
	}
	target := resolve(sh, res.Positional[0])
	content := ""
	if existing, err := fs.ReadFile(target); err == nil {
		content = existing
	}
	if err := fs.WriteFile(target, content); err != nil {
		ctx.Error(fmt.Sprintf("touch: %v\n", err))
		return interp.ExitFailure
	}
	return interp.ExitOK
}

var rmSpec = &flagspec.Spec{
	Name:        "rm",
	Description: "remove files or directories",
	Flags: []flagspec.Flag{
		{Name: "recursive", Short: 'r', Description: "remove directories and their contents recursively"},
	},
	Positional: "<path ...>",
	Examples:   []string{"rm /tmp/f", "rm -r /tmp/dir"},
}

func cmdRm(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	res, err := flagspec.Parse(rmSpec, argv[1:])
	if err != nil {
		ctx.Error(fmt.Sprintf("rm: %v\n", err))
		return interp.ExitFailure
	}
	if res.Help {
		ctx.Write(flagspec.Help(rmSpec))
		return interp.ExitOK
	}
	if len(res.Positional) == 0 {
		ctx.Error("rm: missing operand\n")
		return interp.ExitFailure
	}
	code := interp.ExitOK
	recursive := res.Bool("recursive")
	for _, p := range res.Positional {
		target := resolve(sh, p)
		var err error
		if recursive {
			err = fs.UnlinkRecursive(target)
		} else {
			err = fs.Unlink(target)
		}
		if err != nil {
			ctx.Error(fmt.Sprintf("rm: %v\n", err))
			code = interp.ExitFailure
		}
	}
	return code
}

var cpSpec = &flagspec.Spec{
	Name:        "cp",
	Description: "copy a file",
	Positional:  "<src> <dst> — if dst is a directory, basename(src) is appended",
	Examples:    []string{"cp a.txt b.txt", "cp a.txt /tmp"},
}

func cmdCp(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	return copyOrMove(cpSpec, "cp", argv, sh, fs, ctx, false)
}

var mvSpec = &flagspec.Spec{
	Name:        "mv",
	Description: "move (rename) a file or directory",
	Positional:  "<src> <dst> — if dst is a directory, basename(src) is appended",
	Examples:    []string{"mv a.txt b.txt", "mv a.txt /tmp"},
}

func cmdMv(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	return copyOrMove(mvSpec, "mv", argv, sh, fs, ctx, true)
}

func copyOrMove(spec *flagspec.Spec, name string, argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context, move bool) int {
	res, err := flagspec.Parse(spec, argv[1:])
	if err != nil {
		ctx.Error(fmt.Sprintf("%s: %v\n", name, err))
		return interp.ExitFailure
	}
	if res.Help {
		ctx.Write(flagspec.Help(spec))
		return interp.ExitOK
	}
	if len(res.Positional) != 2 {
		ctx.Error(fmt.Sprintf("%s: usage: %s <src> <dst>\n", name, name))
		return interp.ExitFailure
	}
	src := resolve(sh, res.Positional[0])
	dst := resolve(sh, res.Positional[1])
	if info, err := fs.Stat(dst); err == nil && info.Type == vfs.TypeDir {
		dst = dst + "/" + path.Base(src)
	}
	if move {
		err = fs.Move(src, dst)
	} else {
		err = fs.CopyFile(src, dst)
	}
	if err != nil {
		ctx.Error(fmt.Sprintf("%s: %v\n", name, err))
		return interp.ExitFailure
	}
	return interp.ExitOK
}

// intFlag is a small helper shared by the head/tail-style commands that
// need an int flag value with a default.
func intFlag(res flagspec.Result, name string, def int) int {
	v := res.String(name, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
