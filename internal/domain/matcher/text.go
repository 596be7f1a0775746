package matcher

import (
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
)

var (
	entitySuffixes = regexp.MustCompile(`inc\.|llc|ltd|corp|corporation`)
	domainSuffixes = regexp.MustCompile(`\.com|\.net|\.org`)
	nonAlphanum    = regexp.MustCompile(`[^a-z0-9 ]`)
	multiSpace     = regexp.MustCompile(`\s+`)
)

// normalizeMerchant strips the noise banks append to merchant names so
// "AMAZON.COM WA" and "Amazon" compare equal: lowercase, drop legal
// entity and domain suffixes, drop non-alphanumerics, collapse spaces.
func normalizeMerchant(name string) string {
	s := strings.ToLower(name)
	s = entitySuffixes.ReplaceAllString(s, "")
	s = domainSuffixes.ReplaceAllString(s, "")
	s = nonAlphanum.ReplaceAllString(s, "")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// textSimilarity scores two merchant descriptions on [0,1] after
// normalization. Exact equality scores 1.0. Otherwise the better of a
// Levenshtein similarity and a word-overlap score is used, with
// containment of one side in the other floored at 0.85.
func textSimilarity(a, b string) float64 {
	na := normalizeMerchant(a)
	nb := normalizeMerchant(b)

	if na == nb {
		return 1.0
	}
	if na == "" || nb == "" {
		return 0
	}

	score := levenshteinSimilarity(na, nb)
	if overlap := wordOverlap(na, nb); overlap > score {
		score = overlap
	}

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		if score < 0.85 {
			score = 0.85
		}
	}

	return score
}

// levenshteinSimilarity converts edit distance to a 0-1 similarity:
// (maxLen - distance) / maxLen.
func levenshteinSimilarity(a, b string) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}

	dist := levenshtein.ComputeDistance(a, b)
	return float64(maxLen-dist) / float64(maxLen)
}

// wordOverlap scores the fraction of words on one side that contain, or
// are contained in, a word on the other side.
func wordOverlap(a, b string) float64 {
	aWords := strings.Fields(a)
	bWords := strings.Fields(b)
	if len(aWords) == 0 || len(bWords) == 0 {
		return 0
	}

	matching := 0
	for _, aw := range aWords {
		for _, bw := range bWords {
			if strings.Contains(aw, bw) || strings.Contains(bw, aw) {
				matching++
				break
			}
		}
	}

	longest := len(aWords)
	if len(bWords) > longest {
		longest = len(bWords)
	}
	return float64(matching) / float64(longest)
}
