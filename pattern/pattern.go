// Package pattern translates the small wildcard vocabulary koma's `find`
// built-in accepts for `-name` (`*` and `?`) into a [regexp.Regexp],
// adopted and trimmed from mvdan.cc/sh/v3/pattern — glob expansion at the
// shell-word level is an explicit Non-goal (spec.md §1), so this package
// only covers the single place the spec names wildcards.
package pattern

import (
	"regexp"
	"strings"
)

// Regexp turns a `-name` wildcard pattern into an anchored *regexp.Regexp.
// `*` matches any run of characters (including none); `?` matches exactly
// one character. All other regexp metacharacters in pattern are escaped.
func Regexp(pat string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pat {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// Match reports whether name matches the `-name` wildcard pattern pat.
func Match(pat, name string) (bool, error) {
	re, err := Regexp(pat)
	if err != nil {
		return false, err
	}
	return re.MatchString(name), nil
}
