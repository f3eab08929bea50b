package httpadapter

import (
	"context"
	"net/http"
	"time"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
	"github.com/kirillkom/correspondence-analyzer/internal/core/rules"
)

type analyzeRequest struct {
	Text string `json:"text"`
}

// analysisRunner is implemented by analyzers that also expose the structured
// tasks behind the formatted lines.
type analysisRunner interface {
	Run(ctx context.Context, text string) (*domain.Analysis, error)
}

func (rt *Router) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	start := time.Now()
	result, taskCount, err := rt.runAnalysis(r.Context(), req.Text)
	if err != nil {
		if rt.metrics != nil && domain.IsKind(err, domain.ErrClassification) {
			rt.metrics.RecordClassifierFailure(serviceName, "analyze", domain.IsKind(err, domain.ErrTemporary))
		}
		writeError(w, r, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordAnalysis(
			serviceName,
			"analyze",
			string(result.SentimentCategory),
			taskCount,
			result.HighPriorityCount,
			time.Since(start),
		)
	}
	writeJSON(w, http.StatusOK, result)
}

// runAnalysis returns the public result and the number of unique extracted
// tasks, which excludes the fixed default and review lines.
func (rt *Router) runAnalysis(ctx context.Context, text string) (*domain.AnalysisResult, int, error) {
	if runner, ok := rt.analyzer.(analysisRunner); ok {
		analysis, err := runner.Run(ctx, text)
		if err != nil {
			return nil, 0, err
		}
		return &analysis.Result, len(analysis.Tasks), nil
	}

	result, err := rt.analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, 0, err
	}
	count := 0
	for _, line := range result.StaffTasks {
		if line != rules.DefaultTaskLine && line != rules.ReviewTaskLine {
			count++
		}
	}
	return result, count, nil
}
