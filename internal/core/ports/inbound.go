package ports

import (
	"context"
	"io"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
)

// CorrespondenceAnalyzer is the inbound contract for synchronous text analysis.
type CorrespondenceAnalyzer interface {
	Analyze(ctx context.Context, text string) (*domain.AnalysisResult, error)
}

// CommunicationIngestor is the inbound contract for storing correspondence
// and scheduling its asynchronous analysis.
type CommunicationIngestor interface {
	Submit(ctx context.Context, meta domain.NewCommunication, content string) (*domain.Communication, error)
	Upload(ctx context.Context, meta domain.NewCommunication, body io.Reader) (*domain.Communication, error)
}

// CommunicationReader is the inbound read model for communications and their tasks.
type CommunicationReader interface {
	GetByID(ctx context.Context, id string) (*domain.Communication, error)
	List(ctx context.Context, filter domain.CommunicationFilter) ([]domain.Communication, error)
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.TaskRecord, error)
}

// CommunicationProcessor is the inbound contract for asynchronous processing.
type CommunicationProcessor interface {
	ProcessByID(ctx context.Context, communicationID string) error
}
