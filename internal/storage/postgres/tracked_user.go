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

type TrackedUserStore struct {
	db *sqlx.DB
}

func NewTrackedUserStore(db *sqlx.DB) *TrackedUserStore {
	return &TrackedUserStore{db: db}
}

func (s *TrackedUserStore) Create(ctx context.Context, user *domain.TrackedUser) error {
	query := `
		INSERT INTO tracked_users (
			id, platform_type, username, external_user_id,
			display_name, avatar_url, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.PlatformType,
		user.Username,
		user.ExternalUserID,
		user.DisplayName,
		user.AvatarURL,
		user.IsActive,
	)
	return err
}

func (s *TrackedUserStore) Get(ctx context.Context, id uuid.UUID) (*domain.TrackedUser, error) {
	var user domain.TrackedUser
	err := s.db.GetContext(ctx, &user, "SELECT * FROM tracked_users WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTrackedUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListActive returns the users the scheduler should fetch for.
func (s *TrackedUserStore) ListActive(ctx context.Context) ([]domain.TrackedUser, error) {
	var users []domain.TrackedUser
	err := s.db.SelectContext(ctx, &users,
		"SELECT * FROM tracked_users WHERE is_active = TRUE ORDER BY created_at")
	return users, err
}

// UpdateLastFetchedAt moves the incremental watermark forward. Only called
// after a task completes successfully.
func (s *TrackedUserStore) UpdateLastFetchedAt(ctx context.Context, id uuid.UUID, fetchedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE tracked_users SET last_fetched_at = $2, updated_at = NOW() WHERE id = $1",
		id, fetchedAt)
	return err
}
