package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kirillkom/correspondence-analyzer/internal/adapters/cli"
	"github.com/kirillkom/correspondence-analyzer/internal/bootstrap"
	"github.com/kirillkom/correspondence-analyzer/internal/config"
	"github.com/kirillkom/correspondence-analyzer/internal/core/ports"
	"github.com/kirillkom/correspondence-analyzer/internal/observability/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLoggerTo(os.Stderr, "analyze", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewAnalyzeCommand(cfg, func(cfg config.Config) (ports.CorrespondenceAnalyzer, error) {
		analyzer, err := bootstrap.NewAnalyzer(cfg)
		if err != nil {
			return nil, err
		}
		return analyzer, nil
	})
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return cli.ExitCode(err)
}
