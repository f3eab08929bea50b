package rules

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize turns an accepted sentence into display text: filler removal,
// ordered rewrites over the lower-cased text, then whitespace and
// punctuation cleanup with a capitalized first letter.
func (p *Pipeline) Normalize(sentence string) string {
	text := sentence
	for _, re := range p.fillers {
		text = re.ReplaceAllString(text, "")
	}
	// Rewrite patterns are line anchored, so wrapped lines are joined first.
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = strings.TrimLeft(strings.TrimSpace(text), ",;: ")

	text = strings.ToLower(text)
	for _, rule := range p.rewrites {
		text = rewriteFirst(rule.re, text, rule.replacement)
	}

	text = whitespaceRun.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	text = strings.TrimRight(text, ".,;: ")
	return capitalize(text)
}

// rewriteFirst replaces only the leftmost match of re.
func rewriteFirst(re *regexp.Regexp, text, replacement string) string {
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return text
	}
	expanded := re.ExpandString(nil, replacement, text, loc)
	return text[:loc[0]] + string(expanded) + text[loc[1]:]
}

func capitalize(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError {
		return text
	}
	return string(unicode.ToUpper(r)) + text[size:]
}

func wordBounded(phrase string) string {
	quoted := regexp.QuoteMeta(phrase)
	first, _ := utf8.DecodeRuneInString(phrase)
	last, _ := utf8.DecodeLastRuneInString(phrase)
	if isWordRune(first) {
		quoted = `\b` + quoted
	}
	if isWordRune(last) {
		quoted += `\b`
	}
	return quoted
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
