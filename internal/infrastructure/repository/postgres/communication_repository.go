package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
)

const listLimit = 200

type CommunicationRepository struct {
	db *sql.DB
}

func NewCommunicationRepository(db *sql.DB) *CommunicationRepository {
	return &CommunicationRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *CommunicationRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026101501)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS communications (
	id TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	subject TEXT,
	sender TEXT,
	meeting_date TEXT,
	participants JSONB NOT NULL DEFAULT '[]'::jsonb,
	project_id TEXT NOT NULL,
	customer_id TEXT NOT NULL,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT,
	sentiment_score DOUBLE PRECISION,
	sentiment_category TEXT,
	staff_tasks JSONB NOT NULL DEFAULT '[]'::jsonb,
	high_priority_count INTEGER NOT NULL DEFAULT 0,
	summary TEXT,
	ruleset_version TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_communications_project ON communications(project_id);
CREATE INDEX IF NOT EXISTS idx_communications_customer ON communications(customer_id);
CREATE INDEX IF NOT EXISTS idx_communications_created_at ON communications(created_at DESC);

CREATE TABLE IF NOT EXISTS staff_tasks (
	id TEXT PRIMARY KEY,
	communication_id TEXT NOT NULL REFERENCES communications(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	text TEXT NOT NULL,
	high_priority BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_staff_tasks_communication ON staff_tasks(communication_id, position);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *CommunicationRepository) Create(ctx context.Context, comm *domain.Communication) error {
	participants, err := marshalList(comm.Participants)
	if err != nil {
		return fmt.Errorf("marshal participants: %w", err)
	}
	staffTasks, err := marshalList(comm.StaffTasks)
	if err != nil {
		return fmt.Errorf("marshal staff tasks: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO communications (
	id, type, subject, sender, meeting_date, participants, project_id, customer_id,
	filename, mime_type, storage_path, status, error_message, staff_tasks, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
`,
		comm.ID, string(comm.Type), comm.Subject, comm.Sender, comm.MeetingDate, participants,
		comm.ProjectID, comm.CustomerID, comm.Filename, comm.MimeType, comm.StoragePath,
		string(comm.Status), comm.Error, staffTasks, comm.CreatedAt, comm.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert communication: %w", err)
	}
	return nil
}

const selectCommunication = `
SELECT id, type, COALESCE(subject, ''), COALESCE(sender, ''), COALESCE(meeting_date, ''), participants,
	project_id, customer_id, filename, mime_type, storage_path, status, COALESCE(error_message, ''),
	sentiment_score, COALESCE(sentiment_category, ''), staff_tasks, high_priority_count,
	COALESCE(summary, ''), COALESCE(ruleset_version, ''), created_at, updated_at
FROM communications
`

func (r *CommunicationRepository) GetByID(ctx context.Context, id string) (*domain.Communication, error) {
	row := r.db.QueryRowContext(ctx, selectCommunication+"WHERE id = $1\n", id)

	comm, err := scanCommunication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrCommunicationNotFound, "get communication", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan communication: %w", err)
	}
	return &comm, nil
}

func (r *CommunicationRepository) List(ctx context.Context, filter domain.CommunicationFilter) ([]domain.Communication, error) {
	var (
		conditions []string
		args       []any
	)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("type", string(filter.Type))
	add("project_id", filter.ProjectID)
	add("customer_id", filter.CustomerID)

	query := selectCommunication
	if len(conditions) > 0 {
		query += "WHERE " + strings.Join(conditions, " AND ") + "\n"
	}
	query += fmt.Sprintf("ORDER BY created_at DESC\nLIMIT %d", listLimit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list communications: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Communication, 0)
	for rows.Next() {
		comm, err := scanCommunication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan communication: %w", err)
		}
		out = append(out, comm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate communications: %w", err)
	}
	return out, nil
}

func (r *CommunicationRepository) UpdateStatus(ctx context.Context, id string, status domain.CommunicationStatus, errMessage string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE communications
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update communication status: %w", err)
	}
	return requireAffected(result, "update communication status", id)
}

// SaveAnalysis stores the analysis columns and replaces the staff task rows
// in one transaction.
func (r *CommunicationRepository) SaveAnalysis(ctx context.Context, id string, analysis domain.Analysis) error {
	staffTasks, err := marshalList(analysis.Result.StaffTasks)
	if err != nil {
		return fmt.Errorf("marshal staff tasks: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin analysis tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx, `
UPDATE communications
SET sentiment_score = $2, sentiment_category = $3, staff_tasks = $4, high_priority_count = $5,
	summary = $6, ruleset_version = $7, updated_at = $8
WHERE id = $1
`,
		id, analysis.Result.SentimentScore, string(analysis.Result.SentimentCategory), staffTasks,
		analysis.Result.HighPriorityCount, analysis.Summary, analysis.RulesetVersion, now,
	)
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	if err := requireAffected(result, "save analysis", id); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM staff_tasks WHERE communication_id = $1`, id); err != nil {
		return fmt.Errorf("clear staff tasks: %w", err)
	}
	for position, task := range analysis.Tasks {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO staff_tasks (id, communication_id, position, text, high_priority, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, uuid.NewString(), id, position, task.Text, task.Urgent, now); err != nil {
			return fmt.Errorf("insert staff task %d: %w", position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit analysis tx: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCommunication(row rowScanner) (domain.Communication, error) {
	var (
		comm                     domain.Communication
		commType, status         string
		category                 string
		participantsRaw, taskRaw []byte
		score                    sql.NullFloat64
	)
	err := row.Scan(
		&comm.ID, &commType, &comm.Subject, &comm.Sender, &comm.MeetingDate, &participantsRaw,
		&comm.ProjectID, &comm.CustomerID, &comm.Filename, &comm.MimeType, &comm.StoragePath, &status, &comm.Error,
		&score, &category, &taskRaw, &comm.HighPriorityCount,
		&comm.Summary, &comm.RulesetVersion, &comm.CreatedAt, &comm.UpdatedAt,
	)
	if err != nil {
		return domain.Communication{}, err
	}

	if err := unmarshalList(participantsRaw, &comm.Participants); err != nil {
		return domain.Communication{}, fmt.Errorf("unmarshal participants: %w", err)
	}
	if err := unmarshalList(taskRaw, &comm.StaffTasks); err != nil {
		return domain.Communication{}, fmt.Errorf("unmarshal staff tasks: %w", err)
	}
	comm.Type = domain.CommunicationType(commType)
	comm.Status = domain.CommunicationStatus(status)
	comm.SentimentCategory = domain.SentimentCategory(category)
	if score.Valid {
		value := score.Float64
		comm.SentimentScore = &value
	}
	return comm, nil
}

func marshalList(items []string) ([]byte, error) {
	if items == nil {
		items = []string{}
	}
	return json.Marshal(items)
}

func unmarshalList(raw []byte, out *[]string) error {
	if len(raw) == 0 {
		*out = []string{}
		return nil
	}
	return json.Unmarshal(raw, out)
}

func requireAffected(result sql.Result, operation, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrCommunicationNotFound, operation, fmt.Errorf("id=%s", id))
	}
	return nil
}
