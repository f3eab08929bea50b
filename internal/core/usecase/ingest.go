package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
	"github.com/kirillkom/correspondence-analyzer/internal/core/ports"
)

type IngestCommunicationUseCase struct {
	repo    ports.CommunicationRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewIngestCommunicationUseCase(
	repo ports.CommunicationRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestCommunicationUseCase {
	return &IngestCommunicationUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

// Submit stores an email or transcript body as plain text and schedules it
// for analysis.
func (uc *IngestCommunicationUseCase) Submit(
	ctx context.Context,
	meta domain.NewCommunication,
	content string,
) (*domain.Communication, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit communication", errors.New("content is required"))
	}
	if err := validateMeta(meta); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit communication", err)
	}
	if meta.Filename == "" {
		meta.Filename = string(meta.Type) + ".txt"
	}
	meta.MimeType = "text/plain"
	return uc.store(ctx, meta, strings.NewReader(content))
}

// Upload stores a document file as-is; text is extracted by the worker.
func (uc *IngestCommunicationUseCase) Upload(
	ctx context.Context,
	meta domain.NewCommunication,
	body io.Reader,
) (*domain.Communication, error) {
	if meta.Type == "" {
		meta.Type = domain.TypeDocument
	}
	if strings.TrimSpace(meta.Filename) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload communication", errors.New("filename is required"))
	}
	if err := validateMeta(meta); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload communication", err)
	}
	return uc.store(ctx, meta, body)
}

func (uc *IngestCommunicationUseCase) store(
	ctx context.Context,
	meta domain.NewCommunication,
	body io.Reader,
) (*domain.Communication, error) {
	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(meta.Filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	comm := &domain.Communication{
		ID:           id,
		Type:         meta.Type,
		Subject:      meta.Subject,
		Sender:       meta.Sender,
		MeetingDate:  meta.MeetingDate,
		Participants: meta.Participants,
		ProjectID:    meta.ProjectID,
		CustomerID:   meta.CustomerID,
		Filename:     meta.Filename,
		MimeType:     meta.MimeType,
		StoragePath:  storageKey,
		Status:       domain.StatusUploaded,
		StaffTasks:   []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.repo.Create(ctx, comm); err != nil {
		return nil, fmt.Errorf("create communication metadata: %w", err)
	}

	if err := uc.queue.PublishCommunicationIngested(ctx, comm.ID); err != nil {
		return nil, fmt.Errorf("publish ingestion event: %w", err)
	}

	return comm, nil
}

func validateMeta(meta domain.NewCommunication) error {
	if !meta.Type.Valid() {
		return fmt.Errorf("unsupported communication type %q", meta.Type)
	}

	var missing []string
	if strings.TrimSpace(meta.ProjectID) == "" {
		missing = append(missing, "project_id")
	}
	if strings.TrimSpace(meta.CustomerID) == "" {
		missing = append(missing, "customer_id")
	}
	switch meta.Type {
	case domain.TypeEmail:
		if strings.TrimSpace(meta.Subject) == "" {
			missing = append(missing, "subject")
		}
		if strings.TrimSpace(meta.Sender) == "" {
			missing = append(missing, "sender")
		}
	case domain.TypeTranscript:
		if strings.TrimSpace(meta.MeetingDate) == "" {
			missing = append(missing, "meeting_date")
		}
		if len(meta.Participants) == 0 {
			missing = append(missing, "participants")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s required", strings.Join(missing, ", "))
	}
	return nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		return "communication.bin"
	}
	return base
}
