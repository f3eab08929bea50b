package mcpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
	"github.com/mark3labs/mcp-go/mcp"
)

type analyzerFake struct {
	err error
}

func (f analyzerFake) Analyze(_ context.Context, text string) (*domain.AnalysisResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.AnalysisResult{
		SentimentScore:    0.2,
		SentimentCategory: domain.CategoryNeutral,
		StaffTasks:        []string{"Review: " + text},
	}, nil
}

func callTool(t *testing.T, analyzer analyzerFake, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = AnalyzeToolName
	req.Params.Arguments = args

	result, err := analyzeHandler(analyzer)(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if result == nil {
		t.Fatalf("handler returned nil result")
	}
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(result.Content))
	}
	content, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return content.Text
}

func TestAnalyzeToolReturnsJSON(t *testing.T) {
	result := callTool(t, analyzerFake{}, map[string]any{"text": "the contract"})
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	var got domain.AnalysisResult
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("decode tool output: %v", err)
	}
	if got.SentimentCategory != domain.CategoryNeutral || got.StaffTasks[0] != "Review: the contract" {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestAnalyzeToolRequiresText(t *testing.T) {
	result := callTool(t, analyzerFake{}, map[string]any{})
	if !result.IsError {
		t.Fatalf("expected tool error for missing text")
	}
}

func TestAnalyzeToolSurfacesClassifierFailure(t *testing.T) {
	failure := domain.WrapError(domain.ErrClassification, "classify sentiment", errors.New("model unavailable"))
	result := callTool(t, analyzerFake{err: failure}, map[string]any{"text": "hello"})
	if !result.IsError {
		t.Fatalf("expected tool error")
	}
	if !strings.Contains(resultText(t, result), "model unavailable") {
		t.Fatalf("unexpected error text %q", resultText(t, result))
	}
}

func TestNewServerRegistersTool(t *testing.T) {
	if NewServer(analyzerFake{}, "test") == nil {
		t.Fatalf("expected server")
	}
	tool := analyzeTool()
	if tool.Name != AnalyzeToolName {
		t.Fatalf("unexpected tool name %q", tool.Name)
	}
	if len(tool.InputSchema.Required) != 1 || tool.InputSchema.Required[0] != "text" {
		t.Fatalf("expected text to be required, got %v", tool.InputSchema.Required)
	}
}
