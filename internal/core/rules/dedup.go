package rules

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
)

// Similarity is the difflib ratio of the lower-cased texts compared rune by
// rune. The pair is put in a fixed order first so that
// Similarity(a, b) == Similarity(b, a).
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a > b {
		a, b = b, a
	}
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

// Deduplicate keeps the first candidate of every near-duplicate cluster.
// A candidate is dropped when its similarity to any accepted task exceeds
// threshold. The scan is quadratic; documents carry tens of tasks.
func Deduplicate(candidates []domain.StaffTask, threshold float64) []domain.StaffTask {
	accepted := make([]domain.StaffTask, 0, len(candidates))
	for _, candidate := range candidates {
		duplicate := false
		for _, kept := range accepted {
			if Similarity(candidate.Text, kept.Text) > threshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			accepted = append(accepted, candidate)
		}
	}
	return accepted
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
