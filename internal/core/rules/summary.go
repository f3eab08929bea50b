package rules

import (
	"regexp"
	"slices"
	"strings"
)

var summaryWord = regexp.MustCompile(`[A-Za-z']+`)

var summaryStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "to": {}, "of": {},
	"for": {}, "in": {}, "on": {}, "with": {}, "by": {}, "is": {}, "are": {},
	"be": {}, "that": {}, "this": {}, "as": {}, "at": {}, "it": {},
	"from": {}, "their": {}, "our": {}, "we": {}, "will": {}, "must": {},
}

// Summarize picks the maxSentences sentences whose non-stopword terms are
// most frequent across the text, highest score first.
func Summarize(text string, maxSentences int) string {
	var sentences []string
	for s := range NewSegmenter(1).Sentences(text) {
		sentences = append(sentences, s)
	}
	if len(sentences) == 0 {
		return ""
	}
	if maxSentences <= 0 || maxSentences > len(sentences) {
		maxSentences = len(sentences)
	}

	tokens := make([][]string, len(sentences))
	freq := make(map[string]int)
	for i, s := range sentences {
		tokens[i] = summaryWord.FindAllString(strings.ToLower(s), -1)
		for _, tok := range tokens[i] {
			if _, stop := summaryStopwords[tok]; !stop {
				freq[tok]++
			}
		}
	}
	if len(freq) == 0 {
		return strings.Join(sentences[:maxSentences], " ")
	}

	type scored struct {
		score    int
		sentence string
	}
	ranked := make([]scored, len(sentences))
	for i, s := range sentences {
		total := 0
		for _, tok := range tokens[i] {
			total += freq[tok]
		}
		ranked[i] = scored{score: total, sentence: s}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int { return b.score - a.score })

	picked := make([]string, 0, maxSentences)
	for _, r := range ranked[:maxSentences] {
		picked = append(picked, r.sentence)
	}
	return strings.Join(picked, " ")
}
