package nats

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
	"github.com/kirillkom/correspondence-analyzer/internal/infrastructure/resilience"
	"github.com/nats-io/nats.go"
)

// Connection states the client recovers from on its own.
var transientErrors = []error{
	nats.ErrNoServers,
	nats.ErrTimeout,
	nats.ErrConnectionClosed,
	nats.ErrConnectionDraining,
	nats.ErrConnectionReconnecting,
	nats.ErrDisconnected,
	nats.ErrStaleConnection,
	nats.ErrReconnectBufExceeded,
	nats.ErrSlowConsumer,
}

func isTransient(err error) bool {
	for _, target := range transientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// classifyDeliveryError drives the executor around event publishing.
func classifyDeliveryError(err error) resilience.ErrorClassification {
	switch {
	case err == nil:
		return resilience.ErrorClassification{}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return resilience.ErrorClassification{}
	case resilience.IsCircuitOpen(err), isTransient(err):
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	default:
		return resilience.ErrorClassification{RecordFailure: true}
	}
}

// wrapTemporary marks broker outages so that ingestion answers 503 and the
// worker reports the subscription as recoverable.
func wrapTemporary(operation string, err error) error {
	if err == nil || domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if classifyDeliveryError(err).Retryable {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return err
}

// handlerFailureEvent names the log event for a failed analysis job. A
// communication that is gone or unreadable is rejected for good; the rest
// may succeed when the event is published again.
func handlerFailureEvent(err error) (string, slog.Level) {
	switch {
	case domain.IsKind(err, domain.ErrCommunicationNotFound), domain.IsKind(err, domain.ErrInvalidInput):
		return "communication_rejected", slog.LevelWarn
	case domain.IsKind(err, domain.ErrTemporary):
		return "communication_deferred", slog.LevelError
	case domain.IsKind(err, domain.ErrClassification):
		return "communication_classification_failed", slog.LevelError
	default:
		return "worker_handler_failed", slog.LevelError
	}
}

func logHandlerFailure(ctx context.Context, communicationID string, err error) {
	event, level := handlerFailureEvent(err)
	slog.Log(ctx, level, event, "communication_id", communicationID, "error", err)
}
