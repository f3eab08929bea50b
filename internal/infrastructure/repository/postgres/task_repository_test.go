package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
)

var taskColumns = []string{"id", "communication_id", "position", "text", "high_priority", "created_at"}

func TestTaskRepositoryListTasksFiltersByCommunication(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewTaskRepository(db)
	rows := sqlmock.NewRows(taskColumns).
		AddRow("t-1", "c-1", 0, "Send the report", true, time.Now()).
		AddRow("t-2", "c-1", 1, "Book the venue", false, time.Now())

	mock.ExpectQuery("WHERE communication_id = \\$1 AND high_priority").
		WithArgs("c-1", 50).
		WillReturnRows(rows)

	tasks, err := repo.ListTasks(context.Background(), domain.TaskFilter{CommunicationID: "c-1", HighPriorityOnly: true, Limit: 50})
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(tasks) != 2 || !tasks[0].HighPriority || tasks[1].Position != 1 {
		t.Fatalf("unexpected tasks %+v", tasks)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestTaskRepositoryListTasksWithoutFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewTaskRepository(db)
	mock.ExpectQuery("FROM staff_tasks").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows(taskColumns))

	tasks, err := repo.ListTasks(context.Background(), domain.TaskFilter{Limit: 10})
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected no tasks, got %d", len(tasks))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
