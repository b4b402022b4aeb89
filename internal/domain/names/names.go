// Package names standardizes data-frame column names into snake_case identifiers.
package names

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const emptyName = "x"

// Standardize converts names to unique lowercase snake_case identifiers.
// Accents are stripped, camelCase is split, runs of other characters become
// a single underscore, names starting with a digit get an "x" prefix, and
// repeats get _2, _3, ... suffixes in input order.
func Standardize(in []string) []string {
	out := make([]string, len(in))
	seen := make(map[string]int, len(in))
	for i, name := range in {
		base := Clean(name)
		n := seen[base]
		seen[base] = n + 1
		if n == 0 {
			out[i] = base
			continue
		}
		candidate := base + "_" + strconv.Itoa(n+1)
		for seen[candidate] > 0 {
			n++
			candidate = base + "_" + strconv.Itoa(n+1)
		}
		seen[candidate] = 1
		out[i] = candidate
	}
	return out
}

// Clean standardizes one name without de-duplication.
func Clean(name string) string {
	name = stripAccents(name)

	var b strings.Builder
	var prev rune
	pendingSep := false
	for i, r := range []rune(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
				pendingSep = true
			}
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingSep = true
		}
		prev = r
	}

	s := b.String()
	if s == "" {
		return emptyName
	}
	if r := []rune(s)[0]; unicode.IsDigit(r) {
		s = emptyName + s
	}
	return s
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
