package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"content_fetcher/internal/domain"
)

type ContentStore struct {
	db *sqlx.DB
}

func NewContentStore(db *sqlx.DB) *ContentStore {
	return &ContentStore{db: db}
}

// ExistsByFingerprint is the cheap pre-insert check. The unique constraint
// on contents.fingerprint remains the authoritative guard; a racing insert
// between this check and Insert surfaces as ErrDuplicateContent there.
func (s *ContentStore) ExistsByFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM contents WHERE fingerprint = $1)", fingerprint)
	return exists, err
}

func (s *ContentStore) GetByFingerprint(ctx context.Context, fingerprint string) (*domain.Content, error) {
	var content domain.Content
	err := s.db.GetContext(ctx, &content,
		"SELECT * FROM contents WHERE fingerprint = $1", fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadMediaURLs(ctx, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// Insert persists a content record and its media URLs. ON CONFLICT DO
// NOTHING turns a fingerprint race into domain.ErrDuplicateContent so the
// losing task can treat the item as already stored.
func (s *ContentStore) Insert(ctx context.Context, content *domain.Content) error {
	exec := GetExecutor(ctx, s.db)

	query := `
		INSERT INTO contents (
			id, user_id, platform_type, external_id, title, body, url,
			content_type, published_at, metadata, fingerprint, is_read, is_favorite
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		ON CONFLICT (fingerprint) DO NOTHING
		RETURNING id`

	var metadata any
	if len(content.Metadata) > 0 {
		metadata = content.Metadata
	}

	var id uuid.UUID
	err := exec.QueryRowxContext(ctx, query,
		content.ID,
		content.UserID,
		content.PlatformType,
		content.ExternalID,
		content.Title,
		content.Body,
		content.URL,
		content.ContentType,
		content.PublishedAt,
		metadata,
		content.Fingerprint,
		content.IsRead,
		content.IsFavorite,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrDuplicateContent
	}
	if err != nil {
		return err
	}

	if len(content.MediaURLs) > 0 {
		_, err = exec.ExecContext(ctx,
			"INSERT INTO content_media_urls (content_id, media_url) SELECT $1, unnest($2::text[])",
			id, pq.Array(content.MediaURLs),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// MaxPublishedAt returns the newest stored publish time for a tracked
// user, used as the default incremental window start.
func (s *ContentStore) MaxPublishedAt(ctx context.Context, userID uuid.UUID, platformType string) (*time.Time, error) {
	var max sql.NullTime
	err := s.db.GetContext(ctx, &max,
		"SELECT MAX(published_at) FROM contents WHERE user_id = $1 AND platform_type = $2",
		userID, platformType)
	if err != nil {
		return nil, err
	}
	if !max.Valid {
		return nil, nil
	}
	return &max.Time, nil
}

func (s *ContentStore) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM contents WHERE user_id = $1", userID)
	return count, err
}

func (s *ContentStore) loadMediaURLs(ctx context.Context, content *domain.Content) error {
	return s.db.SelectContext(ctx, &content.MediaURLs,
		"SELECT media_url FROM content_media_urls WHERE content_id = $1 ORDER BY media_url", content.ID)
}
