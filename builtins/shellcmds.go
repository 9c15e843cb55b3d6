package builtins

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/komashell/koma/cmdctx"
	"github.com/komashell/koma/flagspec"
	"github.com/komashell/koma/interp"
	"github.com/komashell/koma/registry"
	"github.com/komashell/koma/shellstate"
	"github.com/komashell/koma/vfs"
)

var exportSpec = &flagspec.Spec{
	Name:        "export",
	Description: "set an environment variable for the current session",
	Positional:  "<name>=<value>",
	Examples:    []string{"export EDITOR=koma"},
}

func cmdExport(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	res, err := flagspec.Parse(exportSpec, argv[1:])
	if err != nil {
		ctx.Error(fmt.Sprintf("export: %v\n", err))
		return interp.ExitFailure
	}
	if res.Help {
		ctx.Write(flagspec.Help(exportSpec))
		return interp.ExitOK
	}
	if len(res.Positional) != 1 {
		ctx.Error("export: usage: export NAME=VALUE\n")
		return interp.ExitFailure
	}
	name, value, ok := strings.Cut(res.Positional[0], "=")
	if !ok || name == "" {
		ctx.Error("export: usage: export NAME=VALUE\n")
		return interp.ExitFailure
	}
	sh.Env[name] = value
	return interp.ExitOK
}

var envSpec = &flagspec.Spec{
	Name:        "env",
	Description: "print the current environment, one NAME=VALUE per line",
}

func cmdEnv(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	res, err := flagspec.Parse(envSpec, argv[1:])
	if err != nil {
		ctx.Error(fmt.Sprintf("env: %v\n", err))
		return interp.ExitFailure
	}
	if res.Help {
		ctx.Write(flagspec.Help(envSpec))
		return interp.ExitOK
	}
	names := make([]string, 0, len(sh.Env))
	for n := range sh.Env {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		ctx.Writeln(fmt.Sprintf("%s=%s", n, sh.Env[n]))
	}
	return interp.ExitOK
}

var exitSpec = &flagspec.Spec{
	Name:        "exit",
	Description: "terminate the session",
	Positional:  "[code] — defaults to $?",
	Examples:    []string{"exit", "exit 1"},
}

func cmdExit(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	res, err := flagspec.Parse(exitSpec, argv[1:])
	if err != nil {
		ctx.Error(fmt.Sprintf("exit: %v\n", err))
		return interp.ExitFailure
	}
	if res.Help {
		ctx.Write(flagspec.Help(exitSpec))
		return interp.ExitOK
	}
	code := sh.LastExitCode
	if len(res.Positional) > 0 {
		n, err := strconv.Atoi(res.Positional[0])
		if err != nil {
			ctx.Error(fmt.Sprintf("exit: %s: numeric argument required\n", res.Positional[0]))
			return interp.ExitFailure
		}
		code = n
	}
	sh.Exiting = true
	return code
}

var historySpec = &flagspec.Spec{
	Name:        "history",
	Description: "print the session's command history",
}

func cmdHistory(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	res, err := flagspec.Parse(historySpec, argv[1:])
	if err != nil {
		ctx.Error(fmt.Sprintf("history: %v\n", err))
		return interp.ExitFailure
	}
	if res.Help {
		ctx.Write(flagspec.Help(historySpec))
		return interp.ExitOK
	}
	for i, line := range sh.History {
		ctx.Writeln(fmt.Sprintf("%5d  %s", i+1, line))
	}
	return interp.ExitOK
}

var helpSpec = &flagspec.Spec{
	Name:        "help",
	Description: "list built-in commands, or describe one in detail",
	Positional:  "[command]",
	Examples:    []string{"help", "help grep"},
}

// NewHelpHandler closes over the registry so `help` can enumerate and
// describe every other registered command (spec.md §4.6 "help").
func NewHelpHandler(reg *registry.Registry) registry.Handler {
	return func(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
		res, err := flagspec.Parse(helpSpec, argv[1:])
		if err != nil {
			ctx.Error(fmt.Sprintf("help: %v\n", err))
			return interp.ExitFailure
		}
		if res.Help {
			ctx.Write(flagspec.Help(helpSpec))
			return interp.ExitOK
		}
		if len(res.Positional) == 1 {
			entry, ok := reg.Lookup(res.Positional[0])
			if !ok {
				ctx.Error(fmt.Sprintf("help: no such command: %s\n", res.Positional[0]))
				return interp.ExitFailure
			}
			entry.Handler([]string{entry.Name, "--help"}, sh, fs, ctx)
			return interp.ExitOK
		}

		groups := reg.ByCategory()
		order := []registry.Category{
			registry.CategoryShell, registry.CategoryFilesystem,
			registry.CategoryProcess, registry.CategoryEditor,
		}
		for _, cat := range order {
			entries := groups[cat]
			if len(entries) == 0 {
				continue
			}
			ctx.Writeln(titleCase(string(cat)) + ":")
			for _, e := range entries {
				ctx.Writeln(fmt.Sprintf("  %-10s %s", e.Name, e.Description))
			}
		}
		ctx.Writeln("\nRun `help <command>` for details.")
		return interp.ExitOK
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
