package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/kirillkom/correspondence-analyzer/internal/config"
	"github.com/kirillkom/correspondence-analyzer/internal/core/ports"
	"github.com/kirillkom/correspondence-analyzer/internal/core/rules"
	"github.com/kirillkom/correspondence-analyzer/internal/core/usecase"
	"github.com/kirillkom/correspondence-analyzer/internal/infrastructure/chunking"
	"github.com/kirillkom/correspondence-analyzer/internal/infrastructure/extractor"
	"github.com/kirillkom/correspondence-analyzer/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/correspondence-analyzer/internal/infrastructure/queue/nats"
	"github.com/kirillkom/correspondence-analyzer/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/correspondence-analyzer/internal/infrastructure/resilience"
	"github.com/kirillkom/correspondence-analyzer/internal/infrastructure/sentiment/hfinference"
	"github.com/kirillkom/correspondence-analyzer/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue ports.MessageQueue

	AnalyzeUC ports.CorrespondenceAnalyzer
	IngestUC  ports.CommunicationIngestor
	ProcessUC ports.CommunicationProcessor
	QueryUC   ports.CommunicationReader

	closeFn func()
}

type Option func(*options)

type options struct {
	queueLag func(time.Duration)
}

// WithQueueLagObserver reports publish-to-delivery delay of ingestion events.
func WithQueueLagObserver(fn func(time.Duration)) Option {
	return func(o *options) {
		o.queueLag = fn
	}
}

func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	analyzer, err := NewAnalyzer(cfg)
	if err != nil {
		return nil, err
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewCommunicationRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	tasks := postgres.NewTaskRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
		LagObserver:        o.queueLag,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	return &App{
		Config: cfg,
		Queue:  queue,

		AnalyzeUC: analyzer,
		IngestUC:  usecase.NewIngestCommunicationUseCase(repo, storage, queue),
		ProcessUC: usecase.NewProcessCommunicationUseCase(repo, extractor.New(storage), analyzer),
		QueryUC:   usecase.NewQueryUseCase(repo, tasks),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// NewAnalyzer wires only the synchronous analysis path. The CLI and the MCP
// server use it without any storage or queue.
func NewAnalyzer(cfg config.Config) (*usecase.AnalyzeUseCase, error) {
	ruleset, err := rules.Resolve(cfg.RulesetVersion, cfg.RulesetPath)
	if err != nil {
		return nil, fmt.Errorf("resolve ruleset: %w", err)
	}
	pipeline, err := rules.NewPipeline(ruleset)
	if err != nil {
		return nil, fmt.Errorf("compile ruleset %s: %w", ruleset.Version, err)
	}

	classifier, err := newSentimentClassifier(cfg)
	if err != nil {
		return nil, err
	}

	window := pipeline.Window()
	if cfg.SentimentMaxTokens > 0 {
		window.MaxTokens = cfg.SentimentMaxTokens
	}
	windower := chunking.NewWindower(window.MaxTokens, window.Strategy, window.HeadRatio)

	return usecase.NewAnalyzeUseCase(classifier, windower, pipeline), nil
}

func newSentimentClassifier(cfg config.Config) (ports.SentimentClassifier, error) {
	policy := resilience.DefaultConfig().SingleAttempt()
	policy.BreakerEnabled = cfg.SentimentBreakerEnabled
	executor := resilience.NewExecutor(policy)
	timeout := time.Duration(cfg.SentimentTimeoutSeconds) * time.Second

	switch cfg.SentimentProvider {
	case config.ProviderHF:
		return hfinference.New(cfg.SentimentURL, cfg.SentimentModel, cfg.SentimentAPIToken, timeout, executor), nil
	case config.ProviderOllama:
		return ollama.NewSentimentClassifier(ollama.New(cfg.OllamaURL, cfg.OllamaModel, timeout), executor), nil
	default:
		return nil, fmt.Errorf("unsupported sentiment provider %q", cfg.SentimentProvider)
	}
}
