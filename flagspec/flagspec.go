// Package flagspec implements the schema-driven flag parser every koma
// built-in declares itself through (spec.md §4.7, §6 "Schema for
// --help"): `--long`, `-s`, `--long=value`, `-s value`, and combined
// short flags (`-la` ≡ `-l -a`), plus a derived `--help`/`-h` that always
// short-circuits with exit 0. No example repo's CLI library (cobra/
// pflag in aledsdavies-opal, opal-lang-opal, silo) attaches structured
// examples/seeAlso metadata to a flag the way this schema needs, so this
// is hand-rolled against the standard library (see DESIGN.md).
package flagspec

import (
	"fmt"
	"sort"
	"strings"
)

// Flag describes one boolean or valued flag.
type Flag struct {
	Name        string // long form, e.g. "all"
	Short       byte   // short form, e.g. 'a'; 0 if none
	Description string
	TakesValue  bool
}

// Spec is a command's full declared schema.
type Spec struct {
	Name        string
	Description string
	Flags       []Flag
	Positional  string // description of positional arguments
	Examples    []string
	Notes       []string
	SeeAlso     []string
}

// Result is the outcome of parsing argv against a Spec.
type Result struct {
	Flags      map[string]string // by long name; boolean flags map to ""
	Positional []string
	Help       bool
}

func (s *Spec) flagByLong(name string) (Flag, bool) {
	for _, f := range s.Flags {
		if f.Name == name {
			return f, true
		}
	}
	return Flag{}, false
}

func (s *Spec) flagByShort(b byte) (Flag, bool) {
	for _, f := range s.Flags {
		if f.Short == b {
			return f, true
		}
	}
	return Flag{}, false
}

// Parse parses argv (not including argv[0], the command name) against
// spec. On any usage error it returns a non-nil error with a message
// suitable for direct display.
func Parse(spec *Spec, argv []string) (Result, error) {
	res := Result{Flags: make(map[string]string)}
	i := 0
	for i < len(argv) {
		arg := argv[i]
		switch {
		case arg == "-h" || arg == "--help":
			res.Help = true
			return res, nil
		case strings.HasPrefix(arg, "--"):
			body := arg[2:]
			name, value, hasValue := strings.Cut(body, "=")
			f, ok := spec.flagByLong(name)
			if !ok {
				return res, fmt.Errorf("unknown flag --%s", name)
			}
			if f.TakesValue {
				if !hasValue {
					i++
					if i >= len(argv) {
						return res, fmt.Errorf("flag --%s requires a value", name)
					}
					value = argv[i]
				}
				res.Flags[f.Name] = value
			} else if hasValue {
				return res, fmt.Errorf("flag --%s does not take a value", name)
			} else {
				res.Flags[f.Name] = ""
			}
		case len(arg) > 1 && arg[0] == '-':
			// Combined short flags: -la ≡ -l -a. A trailing flag that
			// takes a value consumes the next argv entry.
			letters := arg[1:]
			for j := 0; j < len(letters); j++ {
				f, ok := spec.flagByShort(letters[j])
				if !ok {
					return res, fmt.Errorf("unknown flag -%c", letters[j])
				}
				if f.TakesValue {
					if j != len(letters)-1 {
						return res, fmt.Errorf("flag -%c must be last in a combined group since it takes a value", letters[j])
					}
					i++
					if i >= len(argv) {
						return res, fmt.Errorf("flag -%c requires a value", letters[j])
					}
					res.Flags[f.Name] = argv[i]
				} else {
					res.Flags[f.Name] = ""
				}
			}
		default:
			res.Positional = append(res.Positional, arg)
		}
		i++
	}
	return res, nil
}

// Bool reports whether a boolean flag was set.
func (r Result) Bool(name string) bool {
	_, ok := r.Flags[name]
	return ok
}

// String returns a valued flag, or def if unset.
func (r Result) String(name, def string) string {
	if v, ok := r.Flags[name]; ok {
		return v
	}
	return def
}

// Help renders the derived --help text for spec.
func Help(spec *Spec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s\n", spec.Name, spec.Description)
	if len(spec.Flags) > 0 {
		b.WriteString("\nFlags:\n")
		flags := append([]Flag(nil), spec.Flags...)
		sort.Slice(flags, func(i, j int) bool { return flags[i].Name < flags[j].Name })
		for _, f := range flags {
			if f.Short != 0 {
				fmt.Fprintf(&b, "  -%c, --%s  %s\n", f.Short, f.Name, f.Description)
			} else {
				fmt.Fprintf(&b, "      --%s  %s\n", f.Name, f.Description)
			}
		}
	}
	if spec.Positional != "" {
		fmt.Fprintf(&b, "\nArguments:\n  %s\n", spec.Positional)
	}
	if len(spec.Examples) > 0 {
		b.WriteString("\nExamples:\n")
		for _, ex := range spec.Examples {
			fmt.Fprintf(&b, "  %s\n", ex)
		}
	}
	if len(spec.Notes) > 0 {
		b.WriteString("\nNotes:\n")
		for _, n := range spec.Notes {
			fmt.Fprintf(&b, "  %s\n", n)
		}
	}
	if len(spec.SeeAlso) > 0 {
		fmt.Fprintf(&b, "\nSee also: %s\n", strings.Join(spec.SeeAlso, ", "))
	}
	return b.String()
}
