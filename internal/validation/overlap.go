package validation

import (
	"strings"
	"unicode/utf8"
)

// HasOverlap reports whether two element ids share enough lexical material to
// treat a mismatch as a near-miss rather than an invention. Both ids are
// compared case-folded and stripped of punctuation. Containment of the
// shorter id (when it is at least minOverlapLength runes long) counts, as
// does an edit distance within maxEditDistance.
func HasOverlap(a, b string, minOverlapLength, maxEditDistance int) bool {
	na, nb := normalizeToken(a), normalizeToken(b)
	if na == "" || nb == "" {
		return false
	}

	shorter, longer := na, nb
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if utf8.RuneCountInString(shorter) >= minOverlapLength && strings.Contains(longer, shorter) {
		return true
	}
	return levenshtein(na, nb) <= maxEditDistance
}

// levenshtein computes the edit distance between two strings by rune.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			next := row[j]
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			row[j] = min3(row[j]+1, row[j-1]+1, diag+cost)
			diag = next
		}
	}
	return row[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
