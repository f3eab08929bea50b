package rules

import (
	"fmt"
	"sort"
)

const (
	VersionV1 = "v1"
	VersionV3 = "v3"

	// DefaultVersion is the canonical ruleset.
	DefaultVersion = VersionV3
)

const (
	WindowHead     = "head"
	WindowHeadTail = "head_tail"
)

// RewriteRule rewrites the first match of Pattern with Replacement
// (regexp.Expand syntax, e.g. "ensure ${1}"). Rules run in list order against
// lower-cased text and each sees the output of the previous one.
type RewriteRule struct {
	Name        string `yaml:"name"`
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// ToneDampening scales the signed score by how much courtesy boilerplate the
// full text carries.
type ToneDampening struct {
	StrongHits   int     `yaml:"strong_hits"`
	StrongFactor float64 `yaml:"strong_factor"`
	MildFactor   float64 `yaml:"mild_factor"`
}

// CategoryThresholds are the step boundaries of the sentiment category:
// score >= VeryPositive, score >= Positive, score > Neutral, score > Bad.
type CategoryThresholds struct {
	VeryPositive float64 `yaml:"very_positive"`
	Positive     float64 `yaml:"positive"`
	Neutral      float64 `yaml:"neutral"`
	Bad          float64 `yaml:"bad"`
}

type WindowSettings struct {
	MaxTokens int     `yaml:"max_tokens"`
	Strategy  string  `yaml:"strategy"`
	HeadRatio float64 `yaml:"head_ratio"`
}

// Ruleset is the versioned configuration of the extraction-and-scoring
// pipeline.
type Ruleset struct {
	Version             string             `yaml:"version"`
	MinSentenceLength   int                `yaml:"min_sentence_length"`
	SimilarityThreshold float64            `yaml:"similarity_threshold"`
	Taxonomy            TaxonomyConfig     `yaml:"taxonomy"`
	RewriteRules        []RewriteRule      `yaml:"rewrite_rules"`
	DeadlinePatterns    []string           `yaml:"deadline_patterns"`
	Tone                ToneDampening      `yaml:"tone_dampening"`
	Categories          CategoryThresholds `yaml:"categories"`
	Window              WindowSettings     `yaml:"window"`
}

var builtin = map[string]func() Ruleset{
	VersionV1: V1,
	VersionV3: V3,
}

// Lookup returns a fresh copy of a built-in ruleset.
func Lookup(version string) (Ruleset, error) {
	if version == "" {
		version = DefaultVersion
	}
	build, ok := builtin[version]
	if !ok {
		return Ruleset{}, fmt.Errorf("unknown ruleset version %q (known: %v)", version, Versions())
	}
	return build(), nil
}

func Versions() []string {
	out := make([]string, 0, len(builtin))
	for v := range builtin {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// V3 is the canonical ruleset: tone dampening, +/-0.50 boundaries and a
// head/tail classifier window.
func V3() Ruleset {
	return Ruleset{
		Version:             VersionV3,
		MinSentenceLength:   12,
		SimilarityThreshold: 0.85,
		Taxonomy:            defaultTaxonomy(),
		RewriteRules:        defaultRewriteRules(),
		DeadlinePatterns:    defaultDeadlinePatterns(),
		Tone: ToneDampening{
			StrongHits:   3,
			StrongFactor: 0.45,
			MildFactor:   0.7,
		},
		Categories: CategoryThresholds{
			VeryPositive: 0.75,
			Positive:     0.50,
			Neutral:      -0.50,
			Bad:          -0.75,
		},
		Window: WindowSettings{
			MaxTokens: 510,
			Strategy:  WindowHeadTail,
			HeadRatio: 0.6,
		},
	}
}

// V1 is the earliest observed variant: no dampening, +/-0.35 boundaries and
// plain head truncation.
func V1() Ruleset {
	rs := V3()
	rs.Version = VersionV1
	rs.Tone = ToneDampening{StrongHits: 3, StrongFactor: 1, MildFactor: 1}
	rs.Categories = CategoryThresholds{
		VeryPositive: 0.75,
		Positive:     0.35,
		Neutral:      -0.35,
		Bad:          -0.75,
	}
	rs.Window.Strategy = WindowHead
	return rs
}

func (rs Ruleset) validate() error {
	if rs.Version == "" {
		return fmt.Errorf("ruleset version is required")
	}
	if rs.MinSentenceLength < 0 {
		return fmt.Errorf("min_sentence_length must be >= 0, got %d", rs.MinSentenceLength)
	}
	if rs.SimilarityThreshold <= 0 || rs.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be in (0,1], got %v", rs.SimilarityThreshold)
	}
	c := rs.Categories
	if !(c.VeryPositive >= c.Positive && c.Positive > c.Neutral && c.Neutral > c.Bad) {
		return fmt.Errorf("category thresholds must be descending, got %+v", c)
	}
	if rs.Tone.StrongHits < 1 {
		return fmt.Errorf("tone_dampening.strong_hits must be >= 1, got %d", rs.Tone.StrongHits)
	}
	if rs.Tone.StrongFactor < 0 || rs.Tone.MildFactor < 0 {
		return fmt.Errorf("tone dampening factors must be non-negative")
	}
	switch rs.Window.Strategy {
	case WindowHead, WindowHeadTail:
	default:
		return fmt.Errorf("unknown window strategy %q", rs.Window.Strategy)
	}
	if rs.Window.MaxTokens <= 0 {
		return fmt.Errorf("window.max_tokens must be > 0, got %d", rs.Window.MaxTokens)
	}
	if rs.Window.HeadRatio <= 0 || rs.Window.HeadRatio > 1 {
		return fmt.Errorf("window.head_ratio must be in (0,1], got %v", rs.Window.HeadRatio)
	}
	return nil
}

func defaultRewriteRules() []RewriteRule {
	return []RewriteRule{
		{Name: "important-that", Pattern: `^it is (?:very )?(?:important|essential|critical|imperative|necessary|vital) that (.+)$`, Replacement: "${1}"},
		{Name: "would-like", Pattern: `^(?:we|i) would (?:like|appreciate it if) (?:you|the team|your team|the vendor|staff) (?:to |could )?(.+)$`, Replacement: "${1}"},
		{Name: "request-that", Pattern: `^(?:we|i) (?:kindly )?(?:request|ask|expect) that (.+)$`, Replacement: "${1}"},
		{Name: "please-ensure", Pattern: `^(?:please|kindly) (?:make sure|ensure) (?:that )?(.+)$`, Replacement: "ensure ${1}"},
		{Name: "please", Pattern: `^(?:please|kindly) (.+)$`, Replacement: "${1}"},
		{Name: "team-prohibition", Pattern: `^(?:you|we|the team|your team|our team|all staff|staff) (?:must|shall|should) not (.+)$`, Replacement: "do not ${1}"},
		{Name: "team-obligation", Pattern: `^(?:you|we|the team|your team|our team|all staff|staff) (?:must|shall|should|need to|needs to|have to|has to|are required to|is required to|will need to) (.+)$`, Replacement: "${1}"},
		{Name: "there-is-a-need", Pattern: `^there (?:is|will be) a need to (.+)$`, Replacement: "${1}"},
		{Name: "make-sure", Pattern: `\bmake sure (?:that )?`, Replacement: "ensure "},
		{Name: "in-order-to", Pattern: `\bin order to\b`, Replacement: "to"},
		{Name: "asap", Pattern: `\bas soon as possible\b`, Replacement: "asap"},
	}
}

func defaultDeadlinePatterns() []string {
	const months = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`
	const numbers = `(?:\d+|a|an|one|two|three|four|five|six|seven|eight|nine|ten|twelve|fourteen|thirty|forty-eight|seventy-two)`
	return []string{
		`\bby\s+` + months + `\.?\s+\d{1,2}(?:st|nd|rd|th)?\b`,
		`\bwithin\s+` + numbers + `\s+(?:business\s+|working\s+|calendar\s+)?(?:hours?|days?|weeks?|months?)\b`,
		`\bno later than\s+[^,.;!?]+`,
		`\bdeadline\s*(?::|is)\s*[^,.;!?]+`,
		`\bby\s+\d{1,2}/\d{1,2}(?:/\d{2,4})?\b`,
		`\bby\s+eod\b`,
		`\bby\s+(?:the\s+)?end\s+of\s+(?:the\s+)?(?:business\s+)?(?:day|week|month|quarter)\b`,
		`\bby\s+(?:next\s+)?(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday|tomorrow|tonight)\b`,
	}
}
