package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"content_fetcher/internal/config"
	"content_fetcher/internal/domain"
	"content_fetcher/internal/platform"
	"content_fetcher/internal/retry"
)

// FetchService orchestrates content fetches: it creates task records,
// drives adapters through the paginated fetch loop, deduplicates by
// fingerprint and persists what survives. One service instance serves all
// platforms; the registry picks the adapter per task.
type FetchService struct {
	registry  AdapterRegistry
	contents  ContentStore
	tasks     TaskStore
	users     UserStore
	txManager TransactionManager
	notifier  Notifier
	indexer   Indexer
	tracker   *TaskTracker
	pool      *WorkerPool
	platforms func(platformType string) platform.Config
	logger    *slog.Logger
	config    config.FetchConfig
}

func NewFetchService(
	registry AdapterRegistry,
	contents ContentStore,
	tasks TaskStore,
	users UserStore,
	txManager TransactionManager,
	notifier Notifier,
	indexer Indexer,
	tracker *TaskTracker,
	pool *WorkerPool,
	platforms func(platformType string) platform.Config,
	logger *slog.Logger,
	cfg config.FetchConfig,
) *FetchService {
	return &FetchService{
		registry:  registry,
		contents:  contents,
		tasks:     tasks,
		users:     users,
		txManager: txManager,
		notifier:  notifier,
		indexer:   indexer,
		tracker:   tracker,
		pool:      pool,
		platforms: platforms,
		logger:    logger.With("component", "fetch_service"),
		config:    cfg,
	}
}

// StartFetch creates a PENDING task for the user and submits it to the
// worker pool. The returned task is a snapshot; callers poll Task for
// progress. Pre-flight checks that need no network (user exists, platform
// registered, config complete) happen here so obviously broken requests
// fail fast instead of producing FAILED tasks.
func (s *FetchService) StartFetch(ctx context.Context, userID uuid.UUID, taskType domain.TaskType, start, end *time.Time) (*domain.FetchTask, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.registry.Resolve(user.PlatformType); err != nil {
		return nil, err
	}
	if err := s.registry.ValidateConfig(user.PlatformType, s.platforms(user.PlatformType)); err != nil {
		return nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, fmt.Errorf("invalid fetch window: end %s before start %s", end, start)
	}

	task := &domain.FetchTask{
		ID:        uuid.New(),
		UserID:    userID,
		TaskType:  taskType,
		StartTime: start,
		EndTime:   end,
		Status:    domain.TaskStatusPending,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create fetch task: %w", err)
	}

	s.logger.Info("fetch task queued",
		"task_id", task.ID,
		"user_id", userID,
		"platform_type", user.PlatformType,
		"task_type", taskType,
	)

	s.pool.Submit(func() {
		s.run(context.Background(), task.ID, user)
	})

	return task, nil
}

func (s *FetchService) Task(ctx context.Context, id uuid.UUID) (*domain.FetchTask, error) {
	return s.tasks.Get(ctx, id)
}

func (s *FetchService) TaskHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.FetchTask, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.tasks.ListByUser(ctx, userID, limit, offset)
}

// QueuedTasks returns PENDING then RUNNING tasks, the live view of the
// pipeline.
func (s *FetchService) QueuedTasks(ctx context.Context) ([]domain.FetchTask, error) {
	pending, err := s.tasks.ListByStatus(ctx, domain.TaskStatusPending)
	if err != nil {
		return nil, err
	}
	running, err := s.tasks.ListByStatus(ctx, domain.TaskStatusRunning)
	if err != nil {
		return nil, err
	}
	return append(pending, running...), nil
}

// Cancel requests cancellation of a task. Returns domain.ErrTaskNotFound
// for unknown IDs and false for tasks already terminal.
func (s *FetchService) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := s.tasks.Get(ctx, id); err != nil {
		return false, err
	}
	return s.tracker.Cancel(ctx, id)
}

func (s *FetchService) SupportedPlatforms() []string {
	return s.registry.SupportedTypes()
}

func (s *FetchService) ValidateUserID(ctx context.Context, platformType, externalUserID string) (bool, error) {
	adapter, err := s.registry.Resolve(platformType)
	if err != nil {
		return false, err
	}
	return adapter.ValidateUserID(ctx, externalUserID, s.platforms(platformType)), nil
}

func (s *FetchService) TestConnection(ctx context.Context, platformType string) error {
	adapter, err := s.registry.Resolve(platformType)
	if err != nil {
		return err
	}
	return adapter.TestConnection(ctx, s.platforms(platformType))
}

// run executes one fetch task to a terminal state. It always runs on a
// pool worker with a fresh background context: the HTTP request that
// queued the task is long gone by the time pages stream in.
func (s *FetchService) run(ctx context.Context, taskID uuid.UUID, user *domain.TrackedUser) {
	logger := s.logger.With("task_id", taskID, "user_id", user.ID, "platform_type", user.PlatformType)

	ctx, done := s.tracker.Track(ctx, taskID)
	defer done()

	started, err := s.tasks.MarkRunning(ctx, taskID, time.Now().UTC())
	if err != nil {
		logger.Error("failed to mark task running", "error", err)
		return
	}
	if !started {
		// Cancelled while queued.
		logger.Info("task no longer pending, skipping")
		return
	}

	stats, err := s.fetchAll(ctx, taskID, user, logger)
	switch {
	case err == nil:
		completed, cerr := s.tasks.MarkCompleted(ctx, taskID, time.Now().UTC(), stats.Saved, nil)
		if cerr != nil {
			logger.Error("failed to mark task completed", "error", cerr)
			return
		}
		if !completed {
			// A cancellation won the race after the last page; the row is
			// already terminal and the watermark must not move.
			logger.Info("task no longer running, skipping completion")
			return
		}
		// The watermark moves only on success; a failed run refetches the
		// same window next time.
		if uerr := s.users.UpdateLastFetchedAt(context.Background(), user.ID, time.Now().UTC()); uerr != nil {
			logger.Error("failed to update last fetched at", "error", uerr)
		}
		logger.Info("fetch completed",
			"saved", stats.Saved,
			"duplicates", stats.Duplicates,
			"errors", stats.Errors,
			"pages", stats.Pages,
			"capped", stats.Capped,
			"duration", stats.Duration,
		)

	case errors.Is(err, context.Canceled):
		// The tracker already flipped the row when cancellation came through
		// the API; MarkCancelled is a guarded no-op then.
		if _, cerr := s.tasks.MarkCancelled(context.Background(), taskID, time.Now().UTC()); cerr != nil {
			logger.Error("failed to mark task cancelled", "error", cerr)
		}
		logger.Info("fetch cancelled",
			"saved", stats.Saved,
			"pages", stats.Pages,
		)

	default:
		if _, ferr := s.tasks.MarkFailed(context.Background(), taskID, time.Now().UTC(), err.Error()); ferr != nil {
			logger.Error("failed to mark task failed", "error", ferr)
		}
		logger.Error("fetch failed",
			"error", err,
			"saved", stats.Saved,
			"pages", stats.Pages,
		)
	}
}

// fetchAll drives the paginated loop for one task. Items saved before a
// failure stay saved; stats report what happened up to the stop point.
func (s *FetchService) fetchAll(ctx context.Context, taskID uuid.UUID, user *domain.TrackedUser, logger *slog.Logger) (*domain.FetchStats, error) {
	startTime := time.Now()
	stats := &domain.FetchStats{TaskID: taskID}

	adapter, err := s.registry.Resolve(user.PlatformType)
	if err != nil {
		return stats, err
	}

	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return stats, err
	}

	windowStart, windowEnd, err := s.resolveWindow(ctx, task, user)
	if err != nil {
		return stats, err
	}
	if err := s.tasks.UpdateWindow(ctx, taskID, windowStart, windowEnd); err != nil {
		logger.Warn("failed to record fetch window", "error", err)
	}

	query := platform.ContentQuery{
		ExternalUserID: user.ExternalUserID,
		Config:         s.platforms(user.PlatformType),
		Start:          windowStart,
		End:            windowEnd,
		Limit:          s.config.PageLimit,
	}

	policy := retry.Policy{
		MaxAttempts: s.config.Retry.MaxAttempts,
		MinDelay:    s.config.Retry.MinDelay,
		MaxDelay:    s.config.Retry.MaxDelay,
		Logger:      logger,
	}

	var totalCount *int
	processed := 0

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if stats.Pages >= s.config.MaxPagesPerFetch {
			// Bound hit: stop cleanly rather than chase a runaway upstream.
			stats.Capped = true
			logger.Warn("page bound reached, stopping fetch",
				"max_pages", s.config.MaxPagesPerFetch,
			)
			break
		}

		var page *platform.Page
		err := policy.Do(ctx, func(ctx context.Context) error {
			fetchCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
			defer cancel()

			var ferr error
			page, ferr = adapter.GetUserContents(fetchCtx, query)
			if errors.Is(ferr, platform.ErrUserNotFound) {
				// The upstream account is gone; more attempts cannot fix that.
				return retry.Permanent(ferr)
			}
			return ferr
		})
		if err != nil {
			stats.Duration = time.Since(startTime)
			return stats, fmt.Errorf("fetch page %d: %w", stats.Pages+1, err)
		}
		stats.Pages++

		if page.TotalCount != nil {
			totalCount = page.TotalCount
		}

		for i := range page.Items {
			s.processItem(ctx, &page.Items[i], user, query, stats, logger)
			processed++
		}

		progress := pageProgress(processed, totalCount)
		if perr := s.tasks.UpdateProgress(ctx, taskID, progress, stats.Saved, totalCount); perr != nil {
			logger.Warn("failed to update progress", "error", perr)
		}

		if !page.HasMore {
			break
		}
		if windowStart != nil && page.OldestPublishedAt != nil && page.OldestPublishedAt.Before(*windowStart) {
			// Newest-first ordering: once the raw page reaches past the
			// window start there is nothing left to find.
			logger.Debug("page predates fetch window, stopping early")
			break
		}
		query.Cursor = page.NextCursor

		if s.config.PageDelay > 0 {
			select {
			case <-ctx.Done():
				stats.Duration = time.Since(startTime)
				return stats, ctx.Err()
			case <-time.After(s.config.PageDelay):
			}
		}
	}

	stats.Duration = time.Since(startTime)
	return stats, nil
}

// processItem converts, deduplicates and persists a single upstream item.
// Failures here never abort the run; they count toward stats.Errors.
func (s *FetchService) processItem(ctx context.Context, item *platform.Item, user *domain.TrackedUser, query platform.ContentQuery, stats *domain.FetchStats, logger *slog.Logger) {
	if item.ExternalID == "" || item.URL == "" {
		stats.Errors++
		logger.Warn("skipping malformed item",
			"external_id", item.ExternalID,
			"url", item.URL,
		)
		return
	}
	if !query.InWindow(item.PublishedAt) {
		return
	}

	fingerprint := domain.Fingerprint(user.PlatformType, item.ExternalID, item.URL, item.PublishedAt)

	exists, err := s.contents.ExistsByFingerprint(ctx, fingerprint)
	if err != nil {
		stats.Errors++
		logger.Error("fingerprint lookup failed", "error", err, "external_id", item.ExternalID)
		return
	}
	if exists {
		stats.Duplicates++
		return
	}

	content := s.toContent(item, user, fingerprint)

	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		return s.contents.Insert(ctx, content)
	})
	if errors.Is(err, domain.ErrDuplicateContent) {
		// Lost the race to a concurrent task; the unique index is the
		// arbiter, not the pre-check.
		stats.Duplicates++
		return
	}
	if err != nil {
		stats.Errors++
		logger.Error("failed to save content", "error", err, "external_id", item.ExternalID)
		return
	}
	stats.Saved++

	if s.notifier != nil {
		if nerr := s.notifier.Notify(ctx, content); nerr != nil {
			logger.Warn("notification failed", "error", nerr, "content_id", content.ID)
		}
	}
	if s.indexer != nil {
		if ierr := s.indexer.Index(ctx, content); ierr != nil {
			logger.Warn("indexing failed", "error", ierr, "content_id", content.ID)
		}
	}
}

func (s *FetchService) toContent(item *platform.Item, user *domain.TrackedUser, fingerprint string) *domain.Content {
	var metadata []byte
	if len(item.Metadata) > 0 {
		metadata, _ = json.Marshal(item.Metadata)
	}

	return &domain.Content{
		ID:           uuid.New(),
		UserID:       user.ID,
		PlatformType: user.PlatformType,
		ExternalID:   item.ExternalID,
		Title:        item.Title,
		Body:         item.Body,
		URL:          item.URL,
		ContentType:  contentType(item.ContentType),
		MediaURLs:    item.MediaURLs,
		PublishedAt:  item.PublishedAt.UTC(),
		Metadata:     metadata,
		Fingerprint:  fingerprint,
	}
}

// resolveWindow fills window defaults: a missing start falls back to the
// newest stored item for this user+platform (incremental fetch), a missing
// end means now. A user with no stored content gets an open start.
func (s *FetchService) resolveWindow(ctx context.Context, task *domain.FetchTask, user *domain.TrackedUser) (*time.Time, *time.Time, error) {
	start := task.StartTime
	if start == nil {
		latest, err := s.contents.MaxPublishedAt(ctx, user.ID, user.PlatformType)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve window start: %w", err)
		}
		start = latest
	}

	end := task.EndTime
	if end == nil {
		now := time.Now().UTC()
		end = &now
	}

	return start, end, nil
}

func contentType(raw string) domain.ContentType {
	switch domain.ContentType(raw) {
	case domain.ContentTypeImage, domain.ContentTypeVideo, domain.ContentTypeLink, domain.ContentTypeText:
		return domain.ContentType(raw)
	}
	return domain.ContentTypeText
}

// pageProgress maps processed counts onto 0-99; only the terminal
// transition writes 100. With no total from the upstream there is nothing
// to scale against, so progress parks at 99 until the run ends.
func pageProgress(processed int, totalCount *int) int {
	if totalCount == nil || *totalCount <= 0 {
		return 99
	}
	p := processed * 100 / *totalCount
	if p > 99 {
		p = 99
	}
	return p
}
