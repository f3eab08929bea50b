package rules

import (
	"strings"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
)

// SignedScore maps the classifier verdict onto [-1, 1].
func SignedScore(s domain.Sentiment) float64 {
	confidence := s.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	if s.Label == domain.LabelPositive {
		return confidence
	}
	return -confidence
}

// ToneHits counts professional-tone phrase occurrences in the full text.
func (p *Pipeline) ToneHits(text string) int {
	return p.taxonomy.ProfessionalTone.Count(strings.ToLower(text))
}

// AdjustSentiment signs the classifier score and dampens it by the amount of
// courtesy language in fullText.
func (p *Pipeline) AdjustSentiment(s domain.Sentiment, fullText string) float64 {
	score := SignedScore(s)
	tone := p.ruleset.Tone
	switch hits := p.ToneHits(fullText); {
	case hits >= tone.StrongHits:
		score *= tone.StrongFactor
	case hits > 0:
		score *= tone.MildFactor
	}
	return score
}

func (p *Pipeline) Categorize(score float64) domain.SentimentCategory {
	return Categorize(score, p.ruleset.Categories)
}

func Categorize(score float64, t CategoryThresholds) domain.SentimentCategory {
	switch {
	case score >= t.VeryPositive:
		return domain.CategoryVeryPositive
	case score >= t.Positive:
		return domain.CategoryPositive
	case score > t.Neutral:
		return domain.CategoryNeutral
	case score > t.Bad:
		return domain.CategoryBad
	default:
		return domain.CategoryVeryBad
	}
}
