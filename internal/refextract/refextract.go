// Package refextract pulls embedded business references out of free text.
// Invoice remarks and service descriptions routinely carry ERP purchase-order
// tokens and WBS project codes that are never present as structured fields;
// extraction is best-effort and absence of a match is a normal outcome.
package refextract

import (
	"regexp"
	"strings"
)

const (
	// poTokenLength is the canonical length of a requisition reference:
	// 4-digit prefix plus 6 digits.
	poTokenLength = 10

	// maxPOReferences caps how many distinct tokens one text can contribute.
	maxPOReferences = 10
)

var (
	// Requisition tokens start with one of the recognized prefixes 4501-4506
	// followed by at least six more digits.
	poTokenRe = regexp.MustCompile(`450[1-6]\d{6,}`)

	// WBS element layout X-XX-NNNNNN-NNN-NNNN-NNN; only the six-digit
	// segment identifies the project.
	projectCodeRe = regexp.MustCompile(`[A-Z0-9]-[A-Z0-9]{2}-(\d{6})-\d{3}-\d{4}-\d{3}`)
)

// POReferences scans text for purchase-order reference tokens. Each match is
// truncated to exactly 10 characters; duplicates are removed preserving
// first-seen order; the result is capped at 10 tokens. Returns an empty slice
// when nothing matches.
func POReferences(text string) []string {
	matches := poTokenRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	refs := make([]string, 0, len(matches))
	for _, match := range matches {
		token := match[:poTokenLength]
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		refs = append(refs, token)
		if len(refs) == maxPOReferences {
			break
		}
	}
	return refs
}

// FirstPOReference returns the first purchase-order token found in text,
// or "" when there is none.
func FirstPOReference(text string) string {
	if refs := POReferences(text); len(refs) > 0 {
		return refs[0]
	}
	return ""
}

// JoinPOReferences renders the extracted tokens as a single space-separated
// field, the shape downstream spreadsheets expect.
func JoinPOReferences(text string) string {
	return strings.Join(POReferences(text), " ")
}

// ProjectCode extracts the six-digit project segment from a WBS element
// embedded in text, or "" when the structural pattern is absent.
func ProjectCode(text string) string {
	match := projectCodeRe.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return match[1]
}
