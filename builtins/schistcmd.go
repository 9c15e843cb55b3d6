package builtins

import (
	"fmt"

	"github.com/komashell/koma/cmdctx"
	"github.com/komashell/koma/flagspec"
	"github.com/komashell/koma/interp"
	"github.com/komashell/koma/schist"
	"github.com/komashell/koma/shellstate"
	"github.com/komashell/koma/vfs"
)

var schistSpec = &flagspec.Spec{
	Name:        "schist",
	Description: "evaluate a Schist file, or start an interactive sub-REPL",
	Positional:  "[file]",
	Examples:    []string{"schist", "schist /home/fib.schist"},
	Notes:       []string{"With no file, reads forms interactively via the session's readline."},
}

// cmdSchist implements the koma built-in that bridges the shell to the
// Schist interpreter (spec.md §4.9): with a file argument it evaluates
// every top-level form the VFS returns for that path in one fresh
// environment; with none, it loops reading forms from the Context's
// interactive readline until cancelled.
func cmdSchist(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	res, err := flagspec.Parse(schistSpec, argv[1:])
	if err != nil {
		ctx.Error(fmt.Sprintf("schist: %v\n", err))
		return interp.ExitFailure
	}
	if res.Help {
		ctx.Write(flagspec.Help(schistSpec))
		return interp.ExitOK
	}

	env, err := schist.NewGlobalEnv()
	if err != nil {
		ctx.Error(fmt.Sprintf("schist: %v\n", err))
		return interp.ExitFailure
	}

	if len(res.Positional) == 1 {
		return runSchistFile(resolve(sh, res.Positional[0]), fs, env, ctx)
	}
	return runSchistREPL(env, ctx)
}

func runSchistFile(path string, fs *vfs.Store, env *schist.Env, ctx *cmdctx.Context) int {
	content, err := fs.ReadFile(path)
	if err != nil {
		ctx.Error(fmt.Sprintf("schist: %v\n", err))
		return interp.ExitFailure
	}
	forms, err := schist.ReadAll(content)
	if err != nil {
		ctx.Error(fmt.Sprintf("schist: %v\n", err))
		return interp.ExitFailure
	}
	for _, form := range forms {
		v, err := schist.Run(form, env)
		if err != nil {
			ctx.Error(fmt.Sprintf("schist: %v\n", err))
			return interp.ExitFailure
		}
		emitIO(v, ctx)
	}
	return interp.ExitOK
}

func runSchistREPL(env *schist.Env, ctx *cmdctx.Context) int {
	for {
		line, err := ctx.Readline("schist> ")
		if err == cmdctx.ErrCancelled {
			return interp.ExitInterrupt
		}
		if err != nil {
			return interp.ExitOK
		}
		form, _, err := schist.Read(line)
		if err != nil {
			ctx.Error(fmt.Sprintf("schist: %v\n", err))
			continue
		}
		v, err := schist.Run(form, env)
		if err != nil {
			ctx.Error(fmt.Sprintf("schist: %v\n", err))
			continue
		}
		emitIO(v, ctx)
	}
}

// emitIO is the driver spec.md §4.9 describes for the I/O built-ins'
// tagged markers: `display`/`write`/`print` render their payload,
// `newline` emits a bare line break, and a `read` marker (produced by a
// no-argument `(read)` call) suspends via the Context's readline for one
// more line, parses it as an S-expression, and emits whatever that
// yields — the same top-level-only resolution display/write/print get,
// since the evaluator itself stays pure and cannot suspend mid-expression
// (schist/builtins.go's biRead).
func emitIO(v schist.Value, ctx *cmdctx.Context) {
	marker, ok := v.(schist.IOMarker)
	if !ok {
		if v != nil {
			ctx.Writeln(v.String())
		}
		return
	}
	switch marker.Kind {
	case "newline":
		ctx.Writeln("")
	case "display", "write", "print":
		ctx.Writeln(marker.Value.String())
	case "read":
		line, err := ctx.Readline("")
		if err != nil {
			return
		}
		rv, _, err := schist.Read(line)
		if err != nil {
			ctx.Error(fmt.Sprintf("schist: %v\n", err))
			return
		}
		emitIO(rv, ctx)
	}
}
