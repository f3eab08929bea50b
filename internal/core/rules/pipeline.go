// Package rules implements the deterministic extraction-and-scoring pipeline:
// sentence segmentation, lexical classification, task normalization with
// deadline annotation, deduplication, ranking and sentiment adjustment.
//
// A Pipeline is compiled once from a Ruleset and is safe for concurrent use.
package rules

import (
	"fmt"
	"regexp"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
)

type Pipeline struct {
	ruleset   Ruleset
	taxonomy  Taxonomy
	segmenter *Segmenter
	fillers   []*regexp.Regexp
	rewrites  []compiledRewrite
	deadlines []*regexp.Regexp
}

type compiledRewrite struct {
	name        string
	re          *regexp.Regexp
	replacement string
}

func NewPipeline(rs Ruleset) (*Pipeline, error) {
	if err := rs.validate(); err != nil {
		return nil, fmt.Errorf("invalid ruleset %s: %w", rs.Version, err)
	}

	p := &Pipeline{
		ruleset:   rs,
		taxonomy:  rs.Taxonomy.compile(),
		segmenter: NewSegmenter(rs.MinSentenceLength),
	}

	for _, phrase := range p.taxonomy.FillerPhrases.Phrases() {
		re, err := regexp.Compile(`(?i)` + wordBounded(phrase))
		if err != nil {
			return nil, fmt.Errorf("compile filler %q: %w", phrase, err)
		}
		p.fillers = append(p.fillers, re)
	}
	for _, rule := range rs.RewriteRules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile rewrite rule %q: %w", rule.Name, err)
		}
		p.rewrites = append(p.rewrites, compiledRewrite{name: rule.Name, re: re, replacement: rule.Replacement})
	}
	for _, pattern := range rs.DeadlinePatterns {
		re, err := regexp.Compile(`(?i)` + pattern)
		if err != nil {
			return nil, fmt.Errorf("compile deadline pattern %q: %w", pattern, err)
		}
		p.deadlines = append(p.deadlines, re)
	}
	return p, nil
}

// MustPipeline is for built-in rulesets that are known to compile.
func MustPipeline(rs Ruleset) *Pipeline {
	p, err := NewPipeline(rs)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pipeline) Version() string {
	return p.ruleset.Version
}

func (p *Pipeline) Window() WindowSettings {
	return p.ruleset.Window
}

// ExtractTasks runs segmentation, classification, normalization, deadline
// annotation, deduplication and ranking. It never fails.
func (p *Pipeline) ExtractTasks(text string) []domain.StaffTask {
	var candidates []domain.StaffTask
	for sentence := range p.segmenter.Sentences(text) {
		verdict := p.Classify(sentence)
		if !verdict.Actionable {
			continue
		}
		task := p.Normalize(sentence)
		if task == "" {
			continue
		}
		if due := p.Deadline(sentence); due != "" {
			task += " [Due: " + due + "]"
		}
		candidates = append(candidates, domain.StaffTask{Text: task, Urgent: verdict.Urgent})
	}

	unique := Deduplicate(candidates, p.ruleset.SimilarityThreshold)
	Rank(unique)
	return unique
}

// Analyze merges the external sentiment verdict with the extracted tasks.
func (p *Pipeline) Analyze(text string, sentiment domain.Sentiment) domain.Analysis {
	tasks := p.ExtractTasks(text)
	lines, highPriority := Format(tasks)
	score := p.AdjustSentiment(sentiment, text)

	return domain.Analysis{
		Result: domain.AnalysisResult{
			SentimentScore:    score,
			SentimentCategory: p.Categorize(score),
			StaffTasks:        lines,
			HighPriorityCount: highPriority,
		},
		Tasks:          tasks,
		RulesetVersion: p.ruleset.Version,
	}
}
