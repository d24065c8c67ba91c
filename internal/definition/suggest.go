package definition

import (
	"github.com/agext/levenshtein"
)

// Suggest returns the option closest to input by edit distance, or "" when
// nothing is close enough to be a plausible typo. The acceptance window
// scales with the input length so short keys don't match everything.
func Suggest(options []string, input string) string {
	best := ""
	bestDist := len(input)/4 + 2
	for _, opt := range options {
		if opt == input {
			continue
		}
		d := levenshtein.Distance(input, opt, nil)
		if d < bestDist {
			best, bestDist = opt, d
		}
	}
	return best
}
