// Package mcpadapter serves the analyzer as a Model Context Protocol tool.
package mcpadapter

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
	"github.com/kirillkom/correspondence-analyzer/internal/core/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ServerName      = "correspondence-analyzer"
	AnalyzeToolName = "analyze_correspondence"
)

func NewServer(analyzer ports.CorrespondenceAnalyzer, version string) *server.MCPServer {
	s := server.NewMCPServer(ServerName, version, server.WithToolCapabilities(false))
	s.AddTool(analyzeTool(), analyzeHandler(analyzer))
	return s
}

func analyzeTool() mcp.Tool {
	return mcp.NewTool(AnalyzeToolName,
		mcp.WithDescription("Score the sentiment of customer correspondence and extract prioritized staff tasks. "+
			"Returns JSON with sentiment_score, sentiment_category, staff_tasks and high_priority_count."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Email body, meeting transcript or document text"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func analyzeHandler(analyzer ports.CorrespondenceAnalyzer) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := analyzer.Analyze(ctx, text)
		if err != nil {
			slog.Warn("mcp_analyze_failed",
				"error", err,
				"classification_failure", domain.IsKind(err, domain.ErrClassification),
			)
			return mcp.NewToolResultError(err.Error()), nil
		}

		payload, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
}
