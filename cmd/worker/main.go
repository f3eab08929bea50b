package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/correspondence-analyzer/internal/bootstrap"
	"github.com/kirillkom/correspondence-analyzer/internal/config"
	"github.com/kirillkom/correspondence-analyzer/internal/observability/logging"
	"github.com/kirillkom/correspondence-analyzer/internal/observability/metrics"
)

const serviceName = "worker"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	app, err := bootstrap.New(ctx, cfg, bootstrap.WithQueueLagObserver(func(lag time.Duration) {
		workerMetrics.ObserveQueueLag(serviceName, lag)
	}))
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject, "metrics_port", cfg.WorkerMetricsPort)
	err = app.Queue.SubscribeCommunicationIngested(ctx, func(handlerCtx context.Context, communicationID string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		start := time.Now()
		workerMetrics.StartCommunication()
		err := app.ProcessUC.ProcessByID(processCtx, communicationID)
		workerMetrics.FinishCommunication(serviceName, time.Since(start), err)
		if err == nil {
			slog.Info("communication_processed", "communication_id", communicationID, "duration_ms", time.Since(start).Milliseconds())
		}
		return err
	})
	if err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}
