package schist

import (
	"regexp"
	"strconv"
	"strings"
)

var numberRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// tokenize implements spec.md §4.9's Reader: insert whitespace around
// parens, then split on whitespace.
func tokenize(src string) []string {
	var b strings.Builder
	for _, r := range src {
		switch r {
		case '(', ')':
			b.WriteRune(' ')
			b.WriteRune(r)
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Fields(b.String())
}

// Read parses exactly one top-level S-expression from src and reports
// the portion of src still unconsumed, so callers can read a stream of
// top-level forms one at a time (used by the interactive `schist` REPL
// and by `read`; the `schist <file>` loader uses ReadAll).
func Read(src string) (Value, string, error) {
	toks := tokenize(src)
	if len(toks) == 0 {
		return nil, "", errf("read: unexpected end of input")
	}
	v, rest, err := readForm(toks)
	if err != nil {
		return nil, "", err
	}
	return v, strings.Join(rest, " "), nil
}

// ReadAll parses every top-level form in src.
func ReadAll(src string) ([]Value, error) {
	toks := tokenize(src)
	var forms []Value
	for len(toks) > 0 {
		v, rest, err := readForm(toks)
		if err != nil {
			return nil, err
		}
		forms = append(forms, v)
		toks = rest
	}
	return forms, nil
}

func readForm(toks []string) (Value, []string, error) {
	if len(toks) == 0 {
		return nil, nil, errf("read: unexpected end of input")
	}
	tok := toks[0]
	rest := toks[1:]

	switch tok {
	case "(":
		return readList(rest)
	case ")":
		return nil, nil, errf("read: unexpected )")
	}

	if tok == "'" {
		// tokenize splits a quote written directly before '(' into its own
		// token; it quotes the form that follows.
		quoted, after, err := readForm(rest)
		if err != nil {
			return nil, nil, err
		}
		return List{Items: []Value{Symbol("quote"), quoted}}, after, nil
	}
	if strings.HasPrefix(tok, "'") {
		sym := strings.TrimPrefix(tok, "'")
		return Symbol(sym), rest, nil
	}
	if numberRe.MatchString(tok) {
		n, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, nil, errf("read: malformed number %q", tok)
		}
		return Number(n), rest, nil
	}
	if tok == "#t" {
		return Bool(true), rest, nil
	}
	if tok == "#f" {
		return Bool(false), rest, nil
	}
	return Symbol(tok), rest, nil
}

func readList(toks []string) (Value, []string, error) {
	var items []Value
	for {
		if len(toks) == 0 {
			return nil, nil, errf("read: unexpected end of input inside list")
		}
		if toks[0] == ")" {
			return List{Items: items}, toks[1:], nil
		}
		v, rest, err := readForm(toks)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, v)
		toks = rest
	}
}
