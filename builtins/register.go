package builtins

import "github.com/komashell/koma/registry"

// NewRegistry builds the Registry every koma session shares, with every
// built-in from spec.md §4.7/§4.8 plus the supplementary commands
// SPEC_FULL.md adds (pwd, export, env, exit, history, help, schist).
func NewRegistry() *registry.Registry {
	reg := registry.New()

	reg.Register(registry.Entry{Name: "cd", Description: "change the current directory", Category: registry.CategoryFilesystem, Handler: cmdCd})
	reg.Register(registry.Entry{Name: "pwd", Description: "print the current directory", Category: registry.CategoryFilesystem, Handler: cmdPwd})
	reg.Register(registry.Entry{Name: "ls", Description: "list directory contents", Category: registry.CategoryFilesystem, Handler: cmdLs})
	reg.Register(registry.Entry{Name: "mkdir", Description: "create a directory", Category: registry.CategoryFilesystem, Handler: cmdMkdir})
	reg.Register(registry.Entry{Name: "touch", Description: "create or update a file", Category: registry.CategoryFilesystem, Handler: cmdTouch})
	reg.Register(registry.Entry{Name: "rm", Description: "remove files or directories", Category: registry.CategoryFilesystem, Handler: cmdRm})
	reg.Register(registry.Entry{Name: "cp", Description: "copy a file", Category: registry.CategoryFilesystem, Handler: cmdCp})
	reg.Register(registry.Entry{Name: "mv", Description: "move or rename a file", Category: registry.CategoryFilesystem, Handler: cmdMv})

	reg.Register(registry.Entry{Name: "cat", Description: "print file contents", Category: registry.CategoryFilesystem, Handler: cmdCat})
	reg.Register(registry.Entry{Name: "echo", Description: "print arguments", Category: registry.CategoryShell, Handler: cmdEcho})
	reg.Register(registry.Entry{Name: "grep", Description: "print lines matching a pattern", Category: registry.CategoryFilesystem, Handler: cmdGrep})
	reg.Register(registry.Entry{Name: "find", Description: "recursively list filesystem entries", Category: registry.CategoryFilesystem, Handler: cmdFind})
	reg.Register(registry.Entry{Name: "sort", Description: "sort lines of input", Category: registry.CategoryFilesystem, Handler: cmdSort})
	reg.Register(registry.Entry{Name: "uniq", Description: "collapse adjacent duplicate lines", Category: registry.CategoryFilesystem, Handler: cmdUniq})
	reg.Register(registry.Entry{Name: "wc", Description: "count lines, words, and bytes", Category: registry.CategoryFilesystem, Handler: cmdWc})
	reg.Register(registry.Entry{Name: "tee", Description: "copy stdin to stdout and a file", Category: registry.CategoryFilesystem, Handler: cmdTee})
	reg.Register(registry.Entry{Name: "head", Description: "print the first lines of input", Category: registry.CategoryFilesystem, Handler: cmdHead})
	reg.Register(registry.Entry{Name: "tail", Description: "print the last lines of input", Category: registry.CategoryFilesystem, Handler: cmdTail})

	reg.Register(registry.Entry{Name: "test", Description: "evaluate a conditional expression", Category: registry.CategoryShell, Handler: cmdTest})
	reg.Register(registry.Entry{Name: "[", Description: "evaluate a conditional expression (test alias)", Category: registry.CategoryShell, Handler: cmdTest})

	reg.Register(registry.Entry{Name: "export", Description: "set an environment variable", Category: registry.CategoryShell, Handler: cmdExport})
	reg.Register(registry.Entry{Name: "env", Description: "print the environment", Category: registry.CategoryShell, Handler: cmdEnv})
	reg.Register(registry.Entry{Name: "exit", Description: "terminate the session", Category: registry.CategoryShell, Handler: cmdExit})
	reg.Register(registry.Entry{Name: "history", Description: "print command history", Category: registry.CategoryShell, Handler: cmdHistory})
	reg.Register(registry.Entry{Name: "schist", Description: "run the Schist Lisp interpreter", Category: registry.CategoryProcess, Handler: cmdSchist})

	reg.Register(registry.Entry{Name: "help", Description: "list built-in commands", Category: registry.CategoryShell, Handler: NewHelpHandler(reg)})

	return reg
}
