package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kirillkom/correspondence-analyzer/internal/infrastructure/resilience"
	"github.com/nats-io/nats.go"
)

const workerQueueGroup = "analyzers"

type Queue struct {
	conn     *nats.Conn
	subject  string
	executor *resilience.Executor
	onLag    func(time.Duration)
}

func New(url, subject string) (*Queue, error) {
	return NewWithOptions(url, subject, Options{})
}

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
	// LagObserver receives the delay between publish and delivery of each
	// event that carries a publish timestamp.
	LagObserver func(time.Duration)
}

func NewWithOptions(url, subject string, options Options) (*Queue, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}

	conn, err := nats.Connect(
		url,
		nats.Name("correspondence-analyzer"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Queue{
		conn:     conn,
		subject:  subject,
		executor: options.ResilienceExecutor,
		onLag:    options.LagObserver,
	}, nil
}

func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

// ingestedEvent is the wire payload on the analysis subject.
type ingestedEvent struct {
	CommunicationID string    `json:"communication_id"`
	PublishedAt     time.Time `json:"published_at"`
}

func encodeEvent(communicationID string, now time.Time) ([]byte, error) {
	return json.Marshal(ingestedEvent{CommunicationID: communicationID, PublishedAt: now.UTC()})
}

// decodeEvent also accepts a bare id so that events can be injected by hand
// with `nats pub`.
func decodeEvent(data []byte) (ingestedEvent, error) {
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return ingestedEvent{}, errors.New("empty event payload")
	}
	if !strings.HasPrefix(raw, "{") {
		return ingestedEvent{CommunicationID: raw}, nil
	}
	var event ingestedEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return ingestedEvent{}, fmt.Errorf("decode event: %w", err)
	}
	if strings.TrimSpace(event.CommunicationID) == "" {
		return ingestedEvent{}, errors.New("event without communication_id")
	}
	return event, nil
}

func (q *Queue) PublishCommunicationIngested(ctx context.Context, communicationID string) error {
	payload, err := encodeEvent(communicationID, time.Now())
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	call := func(_ context.Context) error {
		if err := q.conn.Publish(q.subject, payload); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}

	if q.executor != nil {
		err = q.executor.Execute(ctx, "nats.publish", call, classifyDeliveryError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return wrapTemporary("nats publish", err)
	}
	return nil
}

func (q *Queue) SubscribeCommunicationIngested(ctx context.Context, handler func(context.Context, string) error) error {
	sub, err := q.conn.QueueSubscribe(q.subject, workerQueueGroup, func(msg *nats.Msg) {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}

		event, err := decodeEvent(msg.Data)
		if err != nil {
			slog.Error("nats_event_rejected", "subject", msg.Subject, "error", err)
			return
		}
		if q.onLag != nil && !event.PublishedAt.IsZero() {
			q.onLag(time.Since(event.PublishedAt))
		}
		communicationID := event.CommunicationID

		handlerCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := handler(handlerCtx, communicationID); err != nil {
			logHandlerFailure(handlerCtx, communicationID, err)
		}
	})
	if err != nil {
		return wrapTemporary("nats subscribe", fmt.Errorf("nats subscribe: %w", err))
	}

	if err := q.conn.Flush(); err != nil {
		return wrapTemporary("nats subscribe", fmt.Errorf("nats flush: %w", err))
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := q.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}
