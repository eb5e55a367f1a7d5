package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TaskTracker keeps the cancel functions of in-flight fetches. Cancelling a
// task flips its DB row to CANCELLED (guarded, so terminal tasks stay put)
// and, if the task is currently running in this process, cancels its
// context so the orchestrator stops at the next page boundary.
type TaskTracker struct {
	mu      sync.Mutex
	cancels map[uuid.UUID]context.CancelFunc
	tasks   TaskStore
}

func NewTaskTracker(tasks TaskStore) *TaskTracker {
	return &TaskTracker{
		cancels: make(map[uuid.UUID]context.CancelFunc),
		tasks:   tasks,
	}
}

// Track derives a cancellable context for a task and registers it.
func (t *TaskTracker) Track(ctx context.Context, taskID uuid.UUID) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	t.cancels[taskID] = cancel
	t.mu.Unlock()

	return ctx, func() {
		t.mu.Lock()
		delete(t.cancels, taskID)
		t.mu.Unlock()
		cancel()
	}
}

// Cancel requests cancellation of a task. Returns true when the task was
// still cancellable (PENDING or RUNNING). A queued task that has no
// running context yet is cancelled purely through the store; MarkRunning's
// PENDING guard keeps it from starting afterwards.
func (t *TaskTracker) Cancel(ctx context.Context, taskID uuid.UUID) (bool, error) {
	cancelled, err := t.tasks.MarkCancelled(ctx, taskID, time.Now().UTC())
	if err != nil {
		return false, err
	}
	if !cancelled {
		return false, nil
	}

	t.mu.Lock()
	cancel, ok := t.cancels[taskID]
	t.mu.Unlock()
	if ok {
		cancel()
	}
	return true, nil
}

// Running reports whether the task currently has an in-flight context in
// this process.
func (t *TaskTracker) Running(taskID uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.cancels[taskID]
	return ok
}
