package parse

import (
	"strings"

	"github.com/tentacle-scylla/sqlcomplete/pkg/tokenize"
)

// SuggestKeyword checks if the input looks like a misspelled SQL keyword
// and returns a suggestion if a close match is found.
// Returns empty string if no suggestion.
func SuggestKeyword(input string) string {
	input = strings.ToUpper(strings.TrimSpace(input))
	if input == "" {
		return ""
	}

	// Skip very short inputs (likely not keyword typos)
	if len(input) < 4 {
		return ""
	}

	// Exact keywords need no suggestion
	if tokenize.IsKeyword(input) {
		return ""
	}

	// Find closest keyword within threshold
	const maxDistance = 2

	bestMatch := ""
	bestDistance := maxDistance + 1

	for _, kw := range tokenize.Keywords() {
		// Skip very short keywords (BY, OR, ON, IN, AS) - too many false positives
		if len(kw) <= 2 {
			continue
		}

		// Quick length check - if lengths differ by more than maxDistance, skip
		lenDiff := len(kw) - len(input)
		if lenDiff < 0 {
			lenDiff = -lenDiff
		}
		if lenDiff > maxDistance {
			continue
		}

		dist := levenshteinDistance(input, kw)
		if dist <= maxDistance && dist < bestDistance {
			bestDistance = dist
			bestMatch = kw
		}
	}

	if bestMatch != "" {
		return bestMatch
	}
	return ""
}

// levenshteinDistance calculates the Levenshtein distance between two strings.
// This is the minimum number of single-character edits (insertions, deletions,
// or substitutions) required to change one string into the other.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	// Create two rows for the DP matrix
	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)

	// Initialize first row
	for j := range prev {
		prev[j] = j
	}

	// Fill the matrix
	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}

// min3 returns the minimum of three integers
func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

// SuggestName returns the candidate closest to input, ignoring case, when it
// is within two edits. Exact matches yield "".
func SuggestName(input string, candidates []string) string {
	const maxDistance = 2

	input = strings.ToLower(input)
	bestMatch := ""
	bestDistance := maxDistance + 1
	for _, candidate := range candidates {
		dist := levenshteinDistance(input, strings.ToLower(candidate))
		if dist == 0 {
			return ""
		}
		if dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}
	return bestMatch
}
