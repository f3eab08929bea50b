package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
	"github.com/kirillkom/correspondence-analyzer/internal/core/ports"
	"github.com/kirillkom/correspondence-analyzer/internal/core/rules"
)

// AnalyzeUseCase orchestrates one analysis: it windows the text for the
// external classifier, adjusts the returned sentiment and extracts staff
// tasks with the rule pipeline.
type AnalyzeUseCase struct {
	classifier ports.SentimentClassifier
	windower   ports.TextWindower
	pipeline   *rules.Pipeline
}

func NewAnalyzeUseCase(
	classifier ports.SentimentClassifier,
	windower ports.TextWindower,
	pipeline *rules.Pipeline,
) *AnalyzeUseCase {
	return &AnalyzeUseCase{
		classifier: classifier,
		windower:   windower,
		pipeline:   pipeline,
	}
}

func (uc *AnalyzeUseCase) Analyze(ctx context.Context, text string) (*domain.AnalysisResult, error) {
	analysis, err := uc.Run(ctx, text)
	if err != nil {
		return nil, err
	}
	return &analysis.Result, nil
}

// Run is Analyze plus the structured tasks and ruleset version.
// The classifier is called exactly once; its failure is returned as
// domain.ErrClassification without retry or fallback scoring.
func (uc *AnalyzeUseCase) Run(ctx context.Context, text string) (*domain.Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "analyze", errors.New("text must be non-empty"))
	}

	start := time.Now()
	sentiment, err := uc.classifier.ClassifySentiment(ctx, uc.windower.Window(text))
	if err != nil {
		if domain.IsKind(err, domain.ErrClassification) {
			return nil, err
		}
		return nil, domain.WrapError(domain.ErrClassification, "classify sentiment", err)
	}

	analysis := uc.pipeline.Analyze(text, sentiment)
	slog.Debug("analysis_completed",
		"ruleset", analysis.RulesetVersion,
		"label", string(sentiment.Label),
		"confidence", sentiment.Confidence,
		"score", analysis.Result.SentimentScore,
		"category", string(analysis.Result.SentimentCategory),
		"tasks", len(analysis.Tasks),
		"high_priority", analysis.Result.HighPriorityCount,
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
	)
	return &analysis, nil
}
