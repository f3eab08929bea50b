package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
)

type queryRepoFake struct {
	ingestRepoFake
	comm       *domain.Communication
	getErr     error
	listFilter domain.CommunicationFilter
}

func (f *queryRepoFake) GetByID(context.Context, string) (*domain.Communication, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.comm, nil
}

func (f *queryRepoFake) List(_ context.Context, filter domain.CommunicationFilter) ([]domain.Communication, error) {
	f.listFilter = filter
	return []domain.Communication{*f.comm}, nil
}

type taskStoreFake struct {
	filter domain.TaskFilter
	err    error
}

func (f *taskStoreFake) ListTasks(_ context.Context, filter domain.TaskFilter) ([]domain.TaskRecord, error) {
	f.filter = filter
	if f.err != nil {
		return nil, f.err
	}
	return []domain.TaskRecord{{ID: "t-1", Text: "Send the report"}}, nil
}

func TestQueryGetByIDNotFound(t *testing.T) {
	repo := &queryRepoFake{getErr: domain.WrapError(domain.ErrCommunicationNotFound, "get", errors.New("no rows"))}
	uc := NewQueryUseCase(repo, &taskStoreFake{})

	_, err := uc.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrCommunicationNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestQueryGetByIDRequiresID(t *testing.T) {
	uc := NewQueryUseCase(&queryRepoFake{}, &taskStoreFake{})
	if _, err := uc.GetByID(context.Background(), " "); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestQueryListRejectsUnknownType(t *testing.T) {
	uc := NewQueryUseCase(&queryRepoFake{comm: &domain.Communication{}}, &taskStoreFake{})
	_, err := uc.List(context.Background(), domain.CommunicationFilter{Type: "fax"})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestQueryListPassesFilter(t *testing.T) {
	repo := &queryRepoFake{comm: &domain.Communication{ID: "c-1"}}
	uc := NewQueryUseCase(repo, &taskStoreFake{})
	items, err := uc.List(context.Background(), domain.CommunicationFilter{Type: domain.TypeEmail, ProjectID: "p-1"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 || repo.listFilter.ProjectID != "p-1" {
		t.Fatalf("unexpected list result %+v filter %+v", items, repo.listFilter)
	}
}

func TestQueryListTasksClampsLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: 0, want: defaultTaskLimit},
		{in: -3, want: defaultTaskLimit},
		{in: 10, want: 10},
		{in: 10000, want: maxTaskLimit},
	}
	for _, tt := range tests {
		store := &taskStoreFake{}
		uc := NewQueryUseCase(&queryRepoFake{}, store)
		if _, err := uc.ListTasks(context.Background(), domain.TaskFilter{Limit: tt.in}); err != nil {
			t.Fatalf("ListTasks() error = %v", err)
		}
		if store.filter.Limit != tt.want {
			t.Fatalf("limit %d: expected %d, got %d", tt.in, tt.want, store.filter.Limit)
		}
	}
}
