package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"content_fetcher/internal/domain"
)

type stubFetcher struct {
	mu      sync.Mutex
	started []uuid.UUID
	err     error
}

func (f *stubFetcher) StartFetch(_ context.Context, userID uuid.UUID, taskType domain.TaskType, start, end *time.Time) (*domain.FetchTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if taskType != domain.TaskTypeScheduled || start != nil || end != nil {
		return nil, errors.New("unexpected arguments")
	}
	f.started = append(f.started, userID)
	return &domain.FetchTask{ID: uuid.New(), UserID: userID}, nil
}

type stubLister struct {
	users []domain.TrackedUser
	err   error
}

func (l *stubLister) ListActive(context.Context) ([]domain.TrackedUser, error) {
	return l.users, l.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestScheduler_QueuesFetchPerActiveUser(t *testing.T) {
	users := []domain.TrackedUser{
		{ID: uuid.New(), PlatformType: "github"},
		{ID: uuid.New(), PlatformType: "rss"},
	}
	fetcher := &stubFetcher{}
	sched := NewScheduler(fetcher, &stubLister{users: users}, time.Hour, testLogger())

	sched.runCycle(context.Background())

	assert.Len(t, fetcher.started, 2)
	assert.Equal(t, users[0].ID, fetcher.started[0])
	assert.Equal(t, users[1].ID, fetcher.started[1])
}

func TestScheduler_ListFailureSkipsCycle(t *testing.T) {
	fetcher := &stubFetcher{}
	sched := NewScheduler(fetcher, &stubLister{err: errors.New("db down")}, time.Hour, testLogger())

	sched.runCycle(context.Background())

	assert.Empty(t, fetcher.started)
}

func TestScheduler_StartStopsOnContextCancel(t *testing.T) {
	fetcher := &stubFetcher{}
	sched := NewScheduler(fetcher, &stubLister{}, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
