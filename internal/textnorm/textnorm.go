// Package textnorm provides the text normalization primitives used for key
// derivation and flexible matching. Fiscal documents arrive with inconsistent
// casing, accents and punctuation; every matching key in the pipeline goes
// through this package first.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnumSpaceRe = regexp.MustCompile(`[^a-z0-9\s]+`)
	nonAlnumRe      = regexp.MustCompile(`[^a-z0-9]+`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	hyphenRunRe     = regexp.MustCompile(`-+`)
)

// foldASCII lowercases the input, decomposes it (NFKD) and drops combining
// marks and any remaining non-ASCII runes, so "Manutenção" becomes "manutencao".
func foldASCII(s string) string {
	s = strings.ToLower(s)
	decomposed := norm.NFKD.String(s)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) || r > unicode.MaxASCII {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Normalize lowercases the text, strips diacritics, removes everything that is
// not alphanumeric or whitespace and collapses whitespace runs. It is
// idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = foldASCII(s)
	s = nonAlnumSpaceRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Slugify converts text into a URL/key-safe token containing only lowercase
// alphanumerics and single hyphens, with no leading or trailing hyphen.
func Slugify(s string) string {
	s = foldASCII(s)
	s = nonAlnumRe.ReplaceAllString(s, "-")
	s = hyphenRunRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// FlexiblePattern is a "contains all these words" matcher built from
// free text. All fragments must appear as substrings of the normalized
// target, in any order. This mirrors lookahead-style search patterns
// without requiring lookahead support from the regexp engine.
type FlexiblePattern struct {
	fragments []string
}

// BuildFlexiblePattern splits the normalized text into whitespace-delimited
// fragments. An empty or punctuation-only input yields a pattern that matches
// everything.
func BuildFlexiblePattern(s string) FlexiblePattern {
	return FlexiblePattern{fragments: strings.Fields(Normalize(s))}
}

// Match reports whether every fragment appears in the normalized target.
func (p FlexiblePattern) Match(target string) bool {
	normalized := Normalize(target)
	for _, fragment := range p.fragments {
		if !strings.Contains(normalized, fragment) {
			return false
		}
	}
	return true
}

// Fragments returns the normalized fragments the pattern requires.
func (p FlexiblePattern) Fragments() []string {
	return p.fragments
}
