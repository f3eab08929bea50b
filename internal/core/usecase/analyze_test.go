package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
	"github.com/kirillkom/correspondence-analyzer/internal/core/rules"
)

type sentimentFake struct {
	sentiment domain.Sentiment
	err       error
	calls     int
	lastText  string
}

func (f *sentimentFake) ClassifySentiment(_ context.Context, text string) (domain.Sentiment, error) {
	f.calls++
	f.lastText = text
	if f.err != nil {
		return domain.Sentiment{}, f.err
	}
	return f.sentiment, nil
}

type windowerFake struct{}

func (windowerFake) Window(text string) string { return "windowed:" + text }

func newAnalyzeFixture(classifier *sentimentFake) *AnalyzeUseCase {
	return NewAnalyzeUseCase(classifier, windowerFake{}, rules.MustPipeline(rules.V3()))
}

func TestAnalyzeRejectsBlankText(t *testing.T) {
	classifier := &sentimentFake{}
	uc := newAnalyzeFixture(classifier)

	for _, text := range []string{"", "   \n\t"} {
		_, err := uc.Analyze(context.Background(), text)
		if !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %q, got %v", text, err)
		}
	}
	if classifier.calls != 0 {
		t.Fatalf("classifier must not be called, got %d calls", classifier.calls)
	}
}

func TestAnalyzeSendsWindowedTextOnce(t *testing.T) {
	classifier := &sentimentFake{sentiment: domain.Sentiment{Label: domain.LabelPositive, Confidence: 0.9}}
	uc := newAnalyzeFixture(classifier)
	text := "The vendor must provide a status report by March 5. We are very pleased with the collaboration so far."

	result, err := uc.Analyze(context.Background(), text)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if classifier.calls != 1 {
		t.Fatalf("expected exactly one classifier call, got %d", classifier.calls)
	}
	if classifier.lastText != "windowed:"+text {
		t.Fatalf("classifier got unwindowed text %q", classifier.lastText)
	}
	if result.SentimentCategory != domain.CategoryVeryPositive {
		t.Fatalf("expected VERY_POSITIVE, got %s", result.SentimentCategory)
	}
	if len(result.StaffTasks) != 2 || !strings.Contains(result.StaffTasks[0], "[Due: by March 5]") {
		t.Fatalf("unexpected staff tasks %q", result.StaffTasks)
	}
}

func TestAnalyzeWrapsClassifierFailure(t *testing.T) {
	classifier := &sentimentFake{err: errors.New("connection refused")}
	uc := newAnalyzeFixture(classifier)

	_, err := uc.Analyze(context.Background(), "Please send the updated invoice.")
	if !domain.IsKind(err, domain.ErrClassification) {
		t.Fatalf("expected classification error, got %v", err)
	}
	if classifier.calls != 1 {
		t.Fatalf("expected no retry, got %d calls", classifier.calls)
	}
}

func TestAnalyzeKeepsTypedClassifierFailure(t *testing.T) {
	typed := domain.WrapError(domain.ErrClassification, "hf inference", errors.New("status 503"))
	uc := newAnalyzeFixture(&sentimentFake{err: typed})

	_, err := uc.Analyze(context.Background(), "Please send the updated invoice.")
	if err != typed {
		t.Fatalf("expected classifier error returned as-is, got %v", err)
	}
}

func TestRunReportsRulesetVersion(t *testing.T) {
	uc := NewAnalyzeUseCase(
		&sentimentFake{sentiment: domain.Sentiment{Label: domain.LabelNegative, Confidence: 0.5}},
		windowerFake{},
		rules.MustPipeline(rules.V1()),
	)

	analysis, err := uc.Run(context.Background(), "Thanks for the update.")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if analysis.RulesetVersion != rules.VersionV1 {
		t.Fatalf("expected v1, got %s", analysis.RulesetVersion)
	}
	if analysis.Result.SentimentCategory != domain.CategoryBad {
		t.Fatalf("expected BAD under legacy thresholds, got %s", analysis.Result.SentimentCategory)
	}
	if analysis.Result.StaffTasks[0] != rules.DefaultTaskLine {
		t.Fatalf("expected default task line, got %q", analysis.Result.StaffTasks)
	}
}
