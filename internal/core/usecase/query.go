package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
	"github.com/kirillkom/correspondence-analyzer/internal/core/ports"
)

const (
	defaultTaskLimit = 50
	maxTaskLimit     = 500
)

// QueryUseCase serves the read model of communications and staff tasks.
type QueryUseCase struct {
	repo  ports.CommunicationRepository
	tasks ports.TaskStore
}

func NewQueryUseCase(repo ports.CommunicationRepository, tasks ports.TaskStore) *QueryUseCase {
	return &QueryUseCase{repo: repo, tasks: tasks}
}

func (uc *QueryUseCase) GetByID(ctx context.Context, id string) (*domain.Communication, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "get communication", errors.New("id is required"))
	}
	comm, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get communication: %w", err)
	}
	return comm, nil
}

func (uc *QueryUseCase) List(ctx context.Context, filter domain.CommunicationFilter) ([]domain.Communication, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "list communications", fmt.Errorf("unsupported type %q", filter.Type))
	}
	items, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list communications: %w", err)
	}
	return items, nil
}

func (uc *QueryUseCase) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.TaskRecord, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultTaskLimit
	}
	if filter.Limit > maxTaskLimit {
		filter.Limit = maxTaskLimit
	}
	tasks, err := uc.tasks.ListTasks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}
