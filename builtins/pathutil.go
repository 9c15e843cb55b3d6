// Package builtins implements the koma shell's built-in commands
// (spec.md §4.7, §4.8), grounded on the built-in implementations of
// mvdan.cc/sh/v3/interp.Runner.builtin (cat/echo/pwd/cd/test), adapted
// to route file operations through vfs.Store instead of the real OS
// filesystem.
package builtins

import (
	"path"
	"strings"

	"github.com/komashell/koma/shellstate"
)

// resolve turns a possibly-relative argument into an absolute, clean VFS
// path, expanding a leading "~" to $HOME (spec.md §4.7 "cd").
func resolve(sh *shellstate.Shell, p string) string {
	if p == "" {
		return sh.Cwd
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home := sh.Getenv(shellstate.EnvHome)
		p = home + p[1:]
	}
	if !strings.HasPrefix(p, "/") {
		p = sh.Cwd + "/" + p
	}
	return path.Clean(p)
}
