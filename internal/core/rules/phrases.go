package rules

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"
)

// PhraseSet is an immutable set of lowercase phrases matched by substring
// containment. Order is kept for deterministic iteration.
type PhraseSet struct {
	phrases []string
	// longestFirst drives Count so that a phrase nested in a longer one
	// ("appreciate" in "we appreciate") is not counted twice.
	longestFirst []string
}

func NewPhraseSet(phrases ...string) PhraseSet {
	seen := make(map[string]struct{}, len(phrases))
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	longest := slices.Clone(out)
	slices.SortStableFunc(longest, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})
	return PhraseSet{phrases: out, longestFirst: longest}
}

// ContainsAny reports whether lowered contains at least one phrase.
// The caller lower-cases once per sentence.
func (s PhraseSet) ContainsAny(lowered string) bool {
	for _, p := range s.phrases {
		if strings.Contains(lowered, p) {
			return true
		}
	}
	return false
}

// Count scans lowered left to right and counts leftmost-longest matches.
// Matched text is consumed, so overlapping phrases count once.
func (s PhraseSet) Count(lowered string) int {
	total := 0
	for i := 0; i < len(lowered); {
		if n := s.longestAt(lowered[i:]); n > 0 {
			total++
			i += n
			continue
		}
		_, size := utf8.DecodeRuneInString(lowered[i:])
		i += size
	}
	return total
}

func (s PhraseSet) longestAt(text string) int {
	for _, p := range s.longestFirst {
		if strings.HasPrefix(text, p) {
			return len(p)
		}
	}
	return 0
}

func (s PhraseSet) Len() int {
	return len(s.phrases)
}

func (s PhraseSet) Phrases() []string {
	out := make([]string, len(s.phrases))
	copy(out, s.phrases)
	return out
}
