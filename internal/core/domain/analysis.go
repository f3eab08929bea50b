package domain

import "strings"

type SentimentLabel string

const (
	LabelPositive SentimentLabel = "POSITIVE"
	LabelNegative SentimentLabel = "NEGATIVE"
)

// ParseSentimentLabel accepts the label spellings used by binary sentiment
// models, including the generic LABEL_0/LABEL_1 ids.
func ParseSentimentLabel(raw string) (SentimentLabel, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "POSITIVE", "POS", "LABEL_1":
		return LabelPositive, true
	case "NEGATIVE", "NEG", "LABEL_0":
		return LabelNegative, true
	default:
		return "", false
	}
}

// Sentiment is the raw verdict of the external classifier for one text window.
type Sentiment struct {
	Label      SentimentLabel `json:"label"`
	Confidence float64        `json:"confidence"`
}

type SentimentCategory string

const (
	CategoryVeryPositive SentimentCategory = "VERY_POSITIVE"
	CategoryPositive     SentimentCategory = "POSITIVE"
	CategoryNeutral      SentimentCategory = "NEUTRAL"
	CategoryBad          SentimentCategory = "BAD"
	CategoryVeryBad      SentimentCategory = "VERY_BAD"
)

// StaffTask is a normalized, actionable sentence. Text already carries the
// " [Due: ...]" annotation when a deadline was found.
type StaffTask struct {
	Text   string `json:"text"`
	Urgent bool   `json:"urgent"`
}

type AnalysisResult struct {
	SentimentScore    float64           `json:"sentiment_score"`
	SentimentCategory SentimentCategory `json:"sentiment_category"`
	StaffTasks        []string          `json:"staff_tasks"`
	HighPriorityCount int               `json:"high_priority_count"`
}

// Analysis is the full outcome of one run: the public result plus the
// structured tasks and metadata persisted by the worker.
type Analysis struct {
	Result         AnalysisResult `json:"result"`
	Tasks          []StaffTask    `json:"tasks"`
	Summary        string         `json:"summary,omitempty"`
	RulesetVersion string         `json:"ruleset_version"`
}
