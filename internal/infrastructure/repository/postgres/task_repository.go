package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
)

// TaskRepository reads the staff_tasks rows written by SaveAnalysis.
type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.TaskRecord, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.CommunicationID != "" {
		args = append(args, filter.CommunicationID)
		conditions = append(conditions, fmt.Sprintf("communication_id = $%d", len(args)))
	}
	if filter.HighPriorityOnly {
		conditions = append(conditions, "high_priority")
	}

	query := `
SELECT id, communication_id, position, text, high_priority, created_at
FROM staff_tasks
`
	if len(conditions) > 0 {
		query += "WHERE " + strings.Join(conditions, " AND ") + "\n"
	}
	args = append(args, filter.Limit)
	query += fmt.Sprintf("ORDER BY high_priority DESC, created_at DESC, position ASC\nLIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]domain.TaskRecord, 0)
	for rows.Next() {
		var task domain.TaskRecord
		if err := rows.Scan(&task.ID, &task.CommunicationID, &task.Position, &task.Text, &task.HighPriority, &task.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return out, nil
}
