// ABOUTME: Maps raw severity scores from scan reports to likelihood categories.
// ABOUTME: Implements the fixed CVSS threshold bands used by the register builder.

package scoring

import (
	"strconv"
	"strings"
)

// Likelihood categories derived from a CVSS base score.
const (
	LikelihoodLow    = 1
	LikelihoodMedium = 3
	LikelihoodHigh   = 5
)

// CVSS thresholds separating the likelihood bands.
const (
	highThreshold   = 7.0
	mediumThreshold = 4.0
)

// Likelihood maps a raw severity string to a discrete likelihood category.
// Values that do not parse as a number fall back to the lowest category.
func Likelihood(raw string) int {
	score, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return LikelihoodLow
	}
	switch {
	case score >= highThreshold:
		return LikelihoodHigh
	case score >= mediumThreshold:
		return LikelihoodMedium
	default:
		return LikelihoodLow
	}
}

// Label returns the human-readable name of a likelihood category.
func Label(likelihood int) string {
	switch likelihood {
	case LikelihoodHigh:
		return "high"
	case LikelihoodMedium:
		return "medium"
	default:
		return "low"
	}
}
