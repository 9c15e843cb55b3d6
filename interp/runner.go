// Package interp implements the koma shell Executor (spec.md §4.4): it
// walks the AST the syntax package produces, routing each Command to a
// handler from the registry and threading buffered I/O through cmdctx
// across pipeline stages and redirections. Grounded on the tree-walking
// dispatch of mvdan.cc/sh/v3/interp.Runner.run, trimmed to the strictly
// sequential single-threaded model spec.md §5 requires (no background
// jobs, no parallel stage execution).
package interp

import (
	"fmt"
	"strings"

	"github.com/komashell/koma/cmdctx"
	"github.com/komashell/koma/registry"
	"github.com/komashell/koma/shellstate"
	"github.com/komashell/koma/syntax"
	"github.com/komashell/koma/vfs"
)

// Exit codes (spec.md §6 "CLI surface").
const (
	ExitOK              = 0
	ExitFailure         = 1
	ExitTestSyntaxError = 2
	ExitCommandNotFound = 127
	ExitInterrupt       = 130
)

// Runner is the Executor. It is not safe for concurrent use.
type Runner struct {
	Reg    *registry.Registry
	Shell  *shellstate.Shell
	VFS    *vfs.Store
	Stdout func(string)
	Stderr func(string)
	Reader cmdctx.Reader

	// Interrupted is polled each time the runner starts executing an AST
	// node, i.e. before each statement of a sequence (spec.md §5); set it
	// from a signal handler to stop a script before its next statement.
	// A command that is already running is not interrupted by it.
	Interrupted func() bool
}

// New builds a Runner. stdout/stderr must not be nil; reader may be nil
// if the caller never needs interactive readline.
func New(reg *registry.Registry, sh *shellstate.Shell, fs *vfs.Store, stdout, stderr func(string), reader cmdctx.Reader) *Runner {
	return &Runner{Reg: reg, Shell: sh, VFS: fs, Stdout: stdout, Stderr: stderr, Reader: reader}
}

// Run executes an AST node and returns its exit code, also recording it
// as the shell's $?.
func (r *Runner) Run(node syntax.Node) int {
	code := r.run(node)
	r.Shell.LastExitCode = code
	return code
}

func (r *Runner) run(node syntax.Node) int {
	if r.Interrupted != nil && r.Interrupted() {
		return ExitInterrupt
	}
	switch n := node.(type) {
	case *syntax.Empty, nil:
		return ExitOK
	case *syntax.Assignment:
		r.Shell.Env[n.Name] = n.Value
		return ExitOK
	case *syntax.Command:
		ctx := cmdctx.NewTerminal(r.Stdout, r.Stderr, r.Reader)
		return r.runCommand(n, ctx)
	case *syntax.Pipeline:
		return r.runPipeline(n, "", "", syntax.RedirNone)
	case *syntax.Compound:
		return r.runCompound(n)
	case *syntax.Sequence:
		return r.runSequence(n)
	default:
		r.Stderr(fmt.Sprintf("koma: internal error: unknown node type %T\n", node))
		return ExitFailure
	}
}

func (r *Runner) runSequence(seq *syntax.Sequence) int {
	code := ExitOK
	for _, item := range seq.Items {
		code = r.run(item)
		if r.Shell.Exiting {
			break
		}
	}
	return code
}

func (r *Runner) runCompound(c *syntax.Compound) int {
	var stages []*syntax.Command
	switch inner := c.Inner.(type) {
	case *syntax.Command:
		stages = []*syntax.Command{inner}
	case *syntax.Pipeline:
		stages = inner.Stages
	default:
		r.Stderr("koma: internal error: compound wraps neither a command nor a pipeline\n")
		return ExitFailure
	}
	return r.runStages(stages, c.In, c.Out, c.Mode)
}

func (r *Runner) runPipeline(p *syntax.Pipeline, in, out string, mode syntax.RedirMode) int {
	return r.runStages(p.Stages, in, out, mode)
}

// runStages is the shared engine for both bare Pipelines and
// redirection-wrapped Compounds, implementing spec.md §4.4's Pipeline
// and Compound rules: strictly sequential stage execution (stage i+1
// only ever starts after stage i has fully run), stdin prefilled from a
// redirected input file for the first stage, and the last stage's
// buffered stdout either flushed to the terminal or written/appended to
// a redirected output file. The first stage always gets a Redirected
// Context (its stdin is optional — a file or nothing) and every later
// stage gets a Piped Context (its stdin is always the prior stage's
// buffered output); see DESIGN.md for why a bare multi-stage Pipeline's
// first stage also counts as "redirected" here.
func (r *Runner) runStages(stages []*syntax.Command, in, out string, mode syntax.RedirMode) int {
	var carry string
	hasCarry := false
	if in != "" {
		content, err := r.VFS.ReadFile(in)
		if err != nil {
			r.Stderr(fmt.Sprintf("koma: %v\n", err))
			return ExitFailure
		}
		carry, hasCarry = content, true
	}

	code := ExitOK
	for i, stage := range stages {
		var ctx *cmdctx.Context
		if i == 0 {
			ctx = cmdctx.NewRedirected(carry, hasCarry, r.Stderr)
		} else {
			ctx = cmdctx.NewPiped(carry, r.Stderr)
		}
		code = r.runCommand(stage, ctx)
		carry = ctx.GetStdout()
		hasCarry = true
	}

	if out != "" {
		// Every Write(ln) call that built carry terminates its own line,
		// the last one included; a file's content has no such mandatory
		// trailing terminator (vfs round-trips whatever text it is given),
		// so drop the one dangling '\n' before it lands in the VFS.
		if err := r.writeRedirect(out, strings.TrimSuffix(carry, "\n"), mode); err != nil {
			r.Stderr(fmt.Sprintf("koma: %v\n", err))
			return ExitFailure
		}
	} else if carry != "" {
		r.Stdout(carry)
	}
	return code
}

func (r *Runner) writeRedirect(path, content string, mode syntax.RedirMode) error {
	if mode == syntax.RedirAppend {
		existing, err := r.VFS.ReadFile(path)
		if err == nil {
			content = existing + "\n" + content
		} else if !vfs.IsNotExist(err) {
			return err
		}
	}
	return r.VFS.WriteFile(path, content)
}

func (r *Runner) runCommand(cmd *syntax.Command, ctx *cmdctx.Context) int {
	argv := append([]string{cmd.Name}, expandArgs(cmd.Args, r.Shell)...)
	entry, ok := r.Reg.Lookup(cmd.Name)
	if !ok {
		r.Stderr(fmt.Sprintf("koma: command not found: %s\n", cmd.Name))
		return ExitCommandNotFound
	}
	return entry.Handler(argv, r.Shell, r.VFS, ctx)
}

// Render re-renders an AST node to shell source (its String form) with
// surrounding whitespace trimmed; nil renders as "".
func Render(node syntax.Node) string {
	if node == nil {
		return ""
	}
	return strings.TrimSpace(node.String())
}
