package rules

import (
	"iter"
	"regexp"
	"strings"
	"unicode/utf8"
)

var sentenceBoundary = regexp.MustCompile(`[.!?](\s+)[A-Z]`)

// Segmenter splits text on ".", "!" or "?" followed by whitespace and an
// upper-case letter, dropping sentences shorter than minLength runes.
type Segmenter struct {
	minLength int
}

func NewSegmenter(minLength int) *Segmenter {
	if minLength < 1 {
		minLength = 1
	}
	return &Segmenter{minLength: minLength}
}

// Sentences yields trimmed sentences lazily. The sequence can be ranged over
// any number of times.
func (s *Segmenter) Sentences(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := text
		for {
			loc := sentenceBoundary.FindStringSubmatchIndex(rest)
			if loc == nil {
				s.emit(rest, yield)
				return
			}
			// loc[2] is where the whitespace run starts; the punctuation stays
			// with the current sentence and the capital starts the next one.
			if !s.emit(rest[:loc[2]], yield) {
				return
			}
			rest = rest[loc[3]:]
		}
	}
}

func (s *Segmenter) emit(candidate string, yield func(string) bool) bool {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" || utf8.RuneCountInString(candidate) < s.minLength {
		return true
	}
	return yield(candidate)
}
