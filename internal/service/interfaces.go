package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"content_fetcher/internal/domain"
	"content_fetcher/internal/platform"
)

type ContentStore interface {
	ExistsByFingerprint(ctx context.Context, fingerprint string) (bool, error)
	Insert(ctx context.Context, content *domain.Content) error
	MaxPublishedAt(ctx context.Context, userID uuid.UUID, platformType string) (*time.Time, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type TaskStore interface {
	Create(ctx context.Context, task *domain.FetchTask) error
	Get(ctx context.Context, id uuid.UUID) (*domain.FetchTask, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.FetchTask, error)
	ListByStatus(ctx context.Context, status domain.TaskStatus) ([]domain.FetchTask, error)
	MarkRunning(ctx context.Context, id uuid.UUID, startedAt time.Time) (bool, error)
	UpdateWindow(ctx context.Context, id uuid.UUID, start, end *time.Time) error
	UpdateProgress(ctx context.Context, id uuid.UUID, progress, fetchedCount int, totalCount *int) error
	MarkCompleted(ctx context.Context, id uuid.UUID, completedAt time.Time, fetchedCount int, totalCount *int) (bool, error)
	MarkFailed(ctx context.Context, id uuid.UUID, completedAt time.Time, errorMessage string) (bool, error)
	MarkCancelled(ctx context.Context, id uuid.UUID, completedAt time.Time) (bool, error)
}

type UserStore interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.TrackedUser, error)
	ListActive(ctx context.Context) ([]domain.TrackedUser, error)
	UpdateLastFetchedAt(ctx context.Context, id uuid.UUID, fetchedAt time.Time) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Notifier interface {
	Notify(ctx context.Context, content *domain.Content) error
	Close() error
}

type Indexer interface {
	Index(ctx context.Context, content *domain.Content) error
}

type AdapterRegistry interface {
	Resolve(platformType string) (platform.Adapter, error)
	ValidateConfig(platformType string, cfg platform.Config) error
	SupportedTypes() []string
}
