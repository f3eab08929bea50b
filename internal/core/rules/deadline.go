package rules

import "strings"

// Deadline returns the text matched by the first deadline pattern that hits
// the raw sentence, or "" when none does.
func (p *Pipeline) Deadline(sentence string) string {
	for _, re := range p.deadlines {
		if match := re.FindString(sentence); match != "" {
			return strings.TrimSpace(match)
		}
	}
	return ""
}
