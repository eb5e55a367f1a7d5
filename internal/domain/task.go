package domain

import (
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeManual    TaskType = "MANUAL"
	TaskTypeScheduled TaskType = "SCHEDULED"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "PENDING"
	TaskStatusRunning   TaskStatus = "RUNNING"
	TaskStatusCompleted TaskStatus = "COMPLETED"
	TaskStatusFailed    TaskStatus = "FAILED"
	TaskStatusCancelled TaskStatus = "CANCELLED"
)

// Terminal reports whether the status is a sink; no transition leaves it.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo encodes the fetch task state machine:
// PENDING -> RUNNING -> {COMPLETED, FAILED, CANCELLED}. Failures and
// cancellations before the worker picks a task up go straight from PENDING.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if s.Terminal() {
		return false
	}
	switch s {
	case TaskStatusPending:
		return next == TaskStatusRunning || next == TaskStatusFailed || next == TaskStatusCancelled
	case TaskStatusRunning:
		return next.Terminal()
	}
	return false
}

// FetchTask is the record of one orchestration run. It is created PENDING
// before the fetch starts and mutated only through the task tracker.
type FetchTask struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UserID       uuid.UUID  `db:"user_id" json:"userId"`
	TaskType     TaskType   `db:"task_type" json:"taskType"`
	StartTime    *time.Time `db:"start_time" json:"startTime,omitempty"`
	EndTime      *time.Time `db:"end_time" json:"endTime,omitempty"`
	Status       TaskStatus `db:"status" json:"status"`
	Progress     int        `db:"progress" json:"progress"`
	FetchedCount int        `db:"fetched_count" json:"fetchedCount"`
	TotalCount   *int       `db:"total_count" json:"totalCount,omitempty"`
	ErrorMessage string     `db:"error_message" json:"errorMessage,omitempty"`
	StartedAt    *time.Time `db:"started_at" json:"startedAt,omitempty"`
	CompletedAt  *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}

// FetchStats summarizes one fetch run.
type FetchStats struct {
	TaskID     uuid.UUID
	Saved      int
	Duplicates int
	Errors     int
	Pages      int
	Capped     bool
	Duration   time.Duration
}
