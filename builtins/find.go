package builtins

import (
	"fmt"
	"sort"
	"strings"

	"github.com/komashell/koma/cmdctx"
	"github.com/komashell/koma/flagspec"
	"github.com/komashell/koma/interp"
	"github.com/komashell/koma/pattern"
	"github.com/komashell/koma/shellstate"
	"github.com/komashell/koma/vfs"
)

var findSpec = &flagspec.Spec{
	Name:        "find",
	Description: "recursively list filesystem entries, optionally filtered",
	Flags: []flagspec.Flag{
		{Name: "name", Description: "only entries whose name matches this wildcard pattern (* and ?)", TakesValue: true},
		{Name: "type", Description: "only entries of this type: f (file) or d (directory)", TakesValue: true},
	},
	Positional: "[start] — defaults to the current directory",
	Examples:   []string{"find /home -name '*.txt'", "find . -type d"},
}

func cmdFind(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int {
	res, err := flagspec.Parse(findSpec, argv[1:])
	if err != nil {
		ctx.Error(fmt.Sprintf("find: %v\n", err))
		return interp.ExitFailure
	}
	if res.Help {
		ctx.Write(flagspec.Help(findSpec))
		return interp.ExitOK
	}
	start := sh.Cwd
	if len(res.Positional) > 0 {
		start = resolve(sh, res.Positional[0])
	}

	namePattern, wantName := res.Flags["name"]
	typeFilter, wantType := res.Flags["type"]
	if wantType && typeFilter != "f" && typeFilter != "d" {
		ctx.Error("find: -type must be f or d\n")
		return interp.ExitFailure
	}

	var results []string
	if err := walk(fs, start, &results); err != nil {
		ctx.Error(fmt.Sprintf("find: %v\n", err))
		return interp.ExitFailure
	}
	sort.Strings(results)

	for _, p := range results {
		info, err := fs.Stat(p)
		if err != nil {
			continue
		}
		if wantType {
			if typeFilter == "f" && info.Type != vfs.TypeFile {
				continue
			}
			if typeFilter == "d" && info.Type != vfs.TypeDir {
				continue
			}
		}
		if wantName {
			base := p
			if idx := strings.LastIndex(p, "/"); idx >= 0 {
				base = p[idx+1:]
			}
			ok, err := pattern.Match(namePattern, base)
			if err != nil {
				ctx.Error(fmt.Sprintf("find: %v\n", err))
				return interp.ExitFailure
			}
			if !ok {
				continue
			}
		}
		ctx.Writeln(p)
	}
	return interp.ExitOK
}

// walk appends start and, recursively, every descendant path into results.
func walk(fs *vfs.Store, start string, results *[]string) error {
	info, err := fs.Stat(start)
	if err != nil {
		return err
	}
	*results = append(*results, start)
	if info.Type != vfs.TypeDir {
		return nil
	}
	entries, err := fs.Readdir(start)
	if err != nil {
		return err
	}
	for _, e := range entries {
		child := start
		if child != "/" {
			child += "/"
		}
		child += e.Name
		if err := walk(fs, child, results); err != nil {
			return err
		}
	}
	return nil
}
