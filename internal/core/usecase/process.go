package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
	"github.com/kirillkom/correspondence-analyzer/internal/core/ports"
	"github.com/kirillkom/correspondence-analyzer/internal/core/rules"
)

const summarySentences = 3

type analysisRunner interface {
	Run(ctx context.Context, text string) (*domain.Analysis, error)
}

type ProcessCommunicationUseCase struct {
	repo      ports.CommunicationRepository
	extractor ports.TextExtractor
	analyzer  analysisRunner
}

func NewProcessCommunicationUseCase(
	repo ports.CommunicationRepository,
	extractor ports.TextExtractor,
	analyzer analysisRunner,
) *ProcessCommunicationUseCase {
	return &ProcessCommunicationUseCase{
		repo:      repo,
		extractor: extractor,
		analyzer:  analyzer,
	}
}

func (uc *ProcessCommunicationUseCase) ProcessByID(ctx context.Context, communicationID string) error {
	if err := uc.markStatus(ctx, communicationID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	analysis, err := uc.processPipeline(ctx, communicationID)
	if err != nil {
		if failErr := uc.markFailed(ctx, communicationID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SaveAnalysis(ctx, communicationID, *analysis); err != nil {
		err = fmt.Errorf("save analysis: %w", err)
		if failErr := uc.markFailed(ctx, communicationID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, communicationID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessCommunicationUseCase) processPipeline(ctx context.Context, communicationID string) (*domain.Analysis, error) {
	comm, err := uc.repo.GetByID(ctx, communicationID)
	if err != nil {
		return nil, fmt.Errorf("fetch communication by id: %w", err)
	}

	text, err := uc.extractor.Extract(ctx, comm)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("empty extracted text"))
	}

	analysis, err := uc.analyzer.Run(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("analyze communication: %w", err)
	}
	analysis.Summary = rules.Summarize(text, summarySentences)
	return analysis, nil
}

func (uc *ProcessCommunicationUseCase) markStatus(ctx context.Context, id string, status domain.CommunicationStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, id, status, errMessage)
}

func (uc *ProcessCommunicationUseCase) markFailed(ctx context.Context, id string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, id, domain.StatusFailed, processErr.Error())
}
