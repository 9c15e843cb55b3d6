package interp

import (
	"github.com/komashell/koma/shellstate"
	"github.com/komashell/koma/syntax"
)

// expandArg resolves a single Arg to its runtime string value. Variable
// expansion occurs only on VariableRef args at evaluation time, never on
// literal/quoted tokens (spec.md §4.4): single-quoted strings never
// expand, and double-quoted strings' escape processing already happened
// at lex time, so there is nothing left to expand here — matching the
// "intent-ambiguous" behavior spec.md §9 documents and preserves.
func expandArg(a syntax.Arg, sh *shellstate.Shell) string {
	switch v := a.(type) {
	case *syntax.Lit:
		return v.Value
	case *syntax.VarRef:
		return sh.Getenv(v.Name)
	default:
		return ""
	}
}

// expandArgs resolves every Arg of a Command to its argv tail.
func expandArgs(args []syntax.Arg, sh *shellstate.Shell) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = expandArg(a, sh)
	}
	return out
}
