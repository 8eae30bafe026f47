// Package calendarintel implements the pure, deterministic predicates shared
// by duplicate detection and conflict detection: title similarity, the
// buffer-aware conflict test, working-hours predicates, and next-slot search.
package calendarintel

import (
	"regexp"
	"strings"
)

const (
	// similarityThreshold is the default sequence-ratio threshold above which
	// two normalized titles are considered similar.
	similarityThreshold = 0.85
	// testBulkThreshold is the raised threshold applied when both titles
	// contain "test" or "bulk".
	testBulkThreshold = 0.95
)

var (
	digitsRe = regexp.MustCompile(`\d+`)
	spacesRe = regexp.MustCompile(`\s+`)
)

// normalize lowercases and trims/collapses whitespace for title comparison.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return spacesRe.ReplaceAllString(s, " ")
}

// TitlesAreSimilar implements the title-similarity rule, including
// its two exceptions: numbered variants never count as duplicates, and
// test/bulk titles require a higher similarity threshold.
func TitlesAreSimilar(a, b string) bool {
	na, nb := normalize(a), normalize(b)
	if na == nb {
		return true
	}
	if isNumberedVariant(na, nb) {
		return false
	}
	threshold := similarityThreshold
	if containsAny(na, "test", "bulk") && containsAny(nb, "test", "bulk") {
		threshold = testBulkThreshold
	}
	return sequenceRatio(na, nb) >= threshold
}

// isNumberedVariant reports whether both titles contain digit sequences that
// differ, and stripping all digits (then re-normalizing whitespace) yields an
// identical string — e.g. "Bulk test task 1" vs "Bulk test task 2".
func isNumberedVariant(a, b string) bool {
	da, db := digitsRe.FindAllString(a, -1), digitsRe.FindAllString(b, -1)
	if len(da) == 0 || len(db) == 0 {
		return false
	}
	if strings.Join(da, ",") == strings.Join(db, ",") {
		return false
	}
	strippedA := normalize(digitsRe.ReplaceAllString(a, ""))
	strippedB := normalize(digitsRe.ReplaceAllString(b, ""))
	return strippedA == strippedB
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// sequenceRatio computes a Ratcliff/Obershelp-style similarity ratio in
// [0,1]: twice the total length of matching blocks divided by the combined
// length of both strings, the same algorithm Python's
// difflib.SequenceMatcher.ratio uses.
func sequenceRatio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	matches := matchingBlockLength([]rune(a), []rune(b))
	return 2 * float64(matches) / float64(len(a)+len(b))
}

// matchingBlockLength recursively finds the longest matching block between a
// and b, then recurses on the unmatched left/right remainders, summing the
// total length of all matching blocks found.
func matchingBlockLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	bestLen, bestAI, bestBI := 0, 0, 0
	for ai := 0; ai < len(a); ai++ {
		for bi := 0; bi < len(b); bi++ {
			l := 0
			for ai+l < len(a) && bi+l < len(b) && a[ai+l] == b[bi+l] {
				l++
			}
			if l > bestLen {
				bestLen, bestAI, bestBI = l, ai, bi
			}
		}
	}
	if bestLen == 0 {
		return 0
	}
	total := bestLen
	total += matchingBlockLength(a[:bestAI], b[:bestBI])
	total += matchingBlockLength(a[bestAI+bestLen:], b[bestBI+bestLen:])
	return total
}
