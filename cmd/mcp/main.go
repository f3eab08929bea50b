package main

import (
	"log/slog"
	"os"

	mcpadapter "github.com/kirillkom/correspondence-analyzer/internal/adapters/mcp"
	"github.com/kirillkom/correspondence-analyzer/internal/bootstrap"
	"github.com/kirillkom/correspondence-analyzer/internal/config"
	"github.com/kirillkom/correspondence-analyzer/internal/observability/logging"
	"github.com/mark3labs/mcp-go/server"
)

var version = "dev"

func main() {
	cfg := config.Load()
	// stdout carries protocol frames.
	slog.SetDefault(logging.NewJSONLoggerTo(os.Stderr, "mcp", cfg.LogLevel))

	analyzer, err := bootstrap.NewAnalyzer(cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}

	if err := server.ServeStdio(mcpadapter.NewServer(analyzer, version)); err != nil {
		slog.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
