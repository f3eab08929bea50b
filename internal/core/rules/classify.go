package rules

import "strings"

// Verdict is the per-sentence outcome of the lexical classifier.
type Verdict struct {
	Feedback   bool
	Actionable bool
	Urgent     bool
}

func (p *Pipeline) Classify(sentence string) Verdict {
	lowered := strings.ToLower(sentence)
	tx := p.taxonomy

	feedback := p.isFeedback(lowered)
	hasAction := tx.ActionVerbs.ContainsAny(lowered) || tx.NegativeActions.ContainsAny(lowered)
	hasObligation := tx.HardObligations.ContainsAny(lowered) ||
		tx.SoftObligations.ContainsAny(lowered) ||
		tx.ProcessIndicators.ContainsAny(lowered)

	return Verdict{
		Feedback:   feedback,
		Actionable: !feedback && hasAction && hasObligation,
		Urgent:     tx.UrgencyMarkers.ContainsAny(lowered),
	}
}

// isFeedback: two or more feedback phrases always mean feedback; a single one
// does unless the sentence also looks forward.
func (p *Pipeline) isFeedback(lowered string) bool {
	switch hits := p.taxonomy.FeedbackPhrases.Count(lowered); {
	case hits >= 2:
		return true
	case hits == 1:
		return !p.taxonomy.ForwardQualifiers.ContainsAny(lowered)
	default:
		return false
	}
}
