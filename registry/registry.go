// Package registry implements the koma shell's Command Registry
// (spec.md §4.6): a name → handler map with category-grouped metadata,
// turned into explicit data instead of the switch-statement dispatch the
// teacher's mvdan.cc/sh/v3/interp.Runner.builtin uses, because §4.6
// requires enumerable metadata a switch can't expose.
package registry

import (
	"sort"

	"github.com/komashell/koma/cmdctx"
	"github.com/komashell/koma/shellstate"
	"github.com/komashell/koma/vfs"
)

// Category tags a handler for `help`'s grouped listing.
type Category string

const (
	CategoryShell      Category = "shell"
	CategoryFilesystem Category = "filesystem"
	CategoryProcess    Category = "process"
	CategoryEditor     Category = "editor"
)

// Handler is the signature every registered command implements
// (spec.md §6 "Handler contract"). An absent return value is treated as
// 0 by the executor; Handler itself always returns an int so Go callers
// don't need a separate "no return" case.
type Handler func(argv []string, sh *shellstate.Shell, fs *vfs.Store, ctx *cmdctx.Context) int

// Entry is one registered command.
type Entry struct {
	Name        string
	Description string
	Category    Category
	Handler     Handler
}

// Registry is a process-wide, explicitly-initialized container: built
// once at startup and passed into shells, never a hidden global (spec.md
// §9 "Global mutable state").
type Registry struct {
	entries map[string]Entry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds a command. It panics on a duplicate name, since that can
// only happen due to a programming error at startup registration time.
func (r *Registry) Register(e Entry) {
	if _, exists := r.entries[e.Name]; exists {
		panic("registry: duplicate command name " + e.Name)
	}
	r.entries[e.Name] = e
}

// Lookup returns the entry for name, if registered.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Names returns every registered command name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ByCategory groups registered commands by category, each group sorted
// by name, for `help`'s category-grouped enumeration.
func (r *Registry) ByCategory() map[Category][]Entry {
	groups := make(map[Category][]Entry)
	for _, e := range r.entries {
		groups[e.Category] = append(groups[e.Category], e)
	}
	for cat := range groups {
		sort.Slice(groups[cat], func(i, j int) bool {
			return groups[cat][i].Name < groups[cat][j].Name
		})
	}
	return groups
}
