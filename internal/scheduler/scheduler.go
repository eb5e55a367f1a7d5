package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"content_fetcher/internal/domain"
)

// Fetcher starts fetch tasks; the scheduler never waits on their results.
type Fetcher interface {
	StartFetch(ctx context.Context, userID uuid.UUID, taskType domain.TaskType, start, end *time.Time) (*domain.FetchTask, error)
}

// UserLister enumerates the users due for a scheduled fetch.
type UserLister interface {
	ListActive(ctx context.Context) ([]domain.TrackedUser, error)
}

type Scheduler struct {
	fetcher  Fetcher
	users    UserLister
	interval time.Duration
	logger   *slog.Logger
}

func NewScheduler(fetcher Fetcher, users UserLister, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		fetcher:  fetcher,
		users:    users,
		interval: interval,
		logger:   logger.With("component", "scheduler"),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runCycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// runCycle queues one SCHEDULED fetch per active user. Windows are left
// nil: each task resolves its own incremental start from stored content.
func (s *Scheduler) runCycle(ctx context.Context) {
	cycleCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	users, err := s.users.ListActive(cycleCtx)
	if err != nil {
		s.logger.Error("failed to list active users", "error", err)
		return
	}

	queued := 0
	for _, user := range users {
		if _, err := s.fetcher.StartFetch(cycleCtx, user.ID, domain.TaskTypeScheduled, nil, nil); err != nil {
			s.logger.Error("failed to queue scheduled fetch",
				"user_id", user.ID,
				"platform_type", user.PlatformType,
				"error", err,
			)
			continue
		}
		queued++
	}

	s.logger.Info("scheduled fetch cycle queued", "users", len(users), "queued", queued)
}
