package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"content_fetcher/internal/domain"
)

// FetchTaskStore persists fetch task records. Every mutation here is a
// single guarded UPDATE running directly on the pool, so each one commits
// on its own and is visible to concurrent pollers immediately — task
// writes must never ride inside the orchestrator's item-save transactions.
// The WHERE status guards enforce the state machine at the store level:
// terminal states are sinks no matter who calls.
type FetchTaskStore struct {
	db *sqlx.DB
}

func NewFetchTaskStore(db *sqlx.DB) *FetchTaskStore {
	return &FetchTaskStore{db: db}
}

func (s *FetchTaskStore) Create(ctx context.Context, task *domain.FetchTask) error {
	query := `
		INSERT INTO fetch_tasks (
			id, user_id, task_type, start_time, end_time, status,
			progress, fetched_count, total_count, error_message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.UserID,
		task.TaskType,
		task.StartTime,
		task.EndTime,
		task.Status,
		task.Progress,
		task.FetchedCount,
		task.TotalCount,
		task.ErrorMessage,
	)
	return err
}

func (s *FetchTaskStore) Get(ctx context.Context, id uuid.UUID) (*domain.FetchTask, error) {
	var task domain.FetchTask
	err := s.db.GetContext(ctx, &task, "SELECT * FROM fetch_tasks WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *FetchTaskStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.FetchTask, error) {
	var tasks []domain.FetchTask
	err := s.db.SelectContext(ctx, &tasks,
		"SELECT * FROM fetch_tasks WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		userID, limit, offset)
	return tasks, err
}

func (s *FetchTaskStore) ListByStatus(ctx context.Context, status domain.TaskStatus) ([]domain.FetchTask, error) {
	var tasks []domain.FetchTask
	err := s.db.SelectContext(ctx, &tasks,
		"SELECT * FROM fetch_tasks WHERE status = $1 ORDER BY created_at DESC", status)
	return tasks, err
}

// MarkRunning transitions PENDING -> RUNNING, resetting progress. Returns
// false when the task was already past PENDING (e.g. cancelled while
// queued).
func (s *FetchTaskStore) MarkRunning(ctx context.Context, id uuid.UUID, startedAt time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE fetch_tasks
		SET status = $2, started_at = $3, progress = 0, fetched_count = 0
		WHERE id = $1 AND status = $4`,
		id, domain.TaskStatusRunning, startedAt, domain.TaskStatusPending)
	return rowUpdated(res, err)
}

// UpdateWindow records the effective fetch window once the orchestrator
// has resolved defaults (incremental start, end = now).
func (s *FetchTaskStore) UpdateWindow(ctx context.Context, id uuid.UUID, start, end *time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE fetch_tasks SET start_time = $2, end_time = $3 WHERE id = $1",
		id, start, end)
	return err
}

func (s *FetchTaskStore) UpdateProgress(ctx context.Context, id uuid.UUID, progress, fetchedCount int, totalCount *int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE fetch_tasks
		SET progress = $2, fetched_count = $3,
		    total_count = COALESCE($4, total_count)
		WHERE id = $1 AND status = $5`,
		id, progress, fetchedCount, totalCount, domain.TaskStatusRunning)
	return err
}

func (s *FetchTaskStore) MarkCompleted(ctx context.Context, id uuid.UUID, completedAt time.Time, fetchedCount int, totalCount *int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE fetch_tasks
		SET status = $2, completed_at = $3, progress = 100,
		    fetched_count = $4, total_count = COALESCE($5, total_count)
		WHERE id = $1 AND status = $6`,
		id, domain.TaskStatusCompleted, completedAt, fetchedCount, totalCount, domain.TaskStatusRunning)
	return rowUpdated(res, err)
}

// MarkFailed is reachable from PENDING as well as RUNNING: pre-flight
// failures (unknown platform, missing user) fail the task before it ever
// runs.
func (s *FetchTaskStore) MarkFailed(ctx context.Context, id uuid.UUID, completedAt time.Time, errorMessage string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE fetch_tasks
		SET status = $2, completed_at = $3, error_message = $4
		WHERE id = $1 AND status IN ($5, $6)`,
		id, domain.TaskStatusFailed, completedAt, errorMessage,
		domain.TaskStatusPending, domain.TaskStatusRunning)
	return rowUpdated(res, err)
}

// MarkCancelled is a no-op (returns false) once the task is terminal.
func (s *FetchTaskStore) MarkCancelled(ctx context.Context, id uuid.UUID, completedAt time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE fetch_tasks
		SET status = $2, completed_at = $3
		WHERE id = $1 AND status IN ($4, $5)`,
		id, domain.TaskStatusCancelled, completedAt,
		domain.TaskStatusPending, domain.TaskStatusRunning)
	return rowUpdated(res, err)
}

func rowUpdated(res sql.Result, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
