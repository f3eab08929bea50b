package ports

import (
	"context"
	"io"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
)

// SentimentClassifier wraps the external pretrained sentiment model.
type SentimentClassifier interface {
	ClassifySentiment(ctx context.Context, text string) (domain.Sentiment, error)
}

// TextWindower bounds the text sent to the sentiment classifier.
type TextWindower interface {
	Window(text string) string
}

// CommunicationRepository persists communication state and analysis results.
type CommunicationRepository interface {
	Create(ctx context.Context, comm *domain.Communication) error
	GetByID(ctx context.Context, id string) (*domain.Communication, error)
	List(ctx context.Context, filter domain.CommunicationFilter) ([]domain.Communication, error)
	UpdateStatus(ctx context.Context, id string, status domain.CommunicationStatus, errMessage string) error
	SaveAnalysis(ctx context.Context, id string, analysis domain.Analysis) error
}

// TaskStore reads persisted staff tasks.
type TaskStore interface {
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.TaskRecord, error)
}

// ObjectStorage stores raw correspondence.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishCommunicationIngested(ctx context.Context, communicationID string) error
	SubscribeCommunicationIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from stored correspondence.
type TextExtractor interface {
	Extract(ctx context.Context, comm *domain.Communication) (string, error)
}
