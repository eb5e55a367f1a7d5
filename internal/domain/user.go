package domain

import (
	"time"

	"github.com/google/uuid"
)

// TrackedUser is a (platform, upstream user id) pair being monitored.
type TrackedUser struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PlatformType   string     `db:"platform_type" json:"platformType"`
	Username       string     `db:"username" json:"username"`
	ExternalUserID string     `db:"external_user_id" json:"externalUserId"`
	DisplayName    string     `db:"display_name" json:"displayName"`
	AvatarURL      string     `db:"avatar_url" json:"avatarUrl"`
	IsActive       bool       `db:"is_active" json:"isActive"`
	LastFetchedAt  *time.Time `db:"last_fetched_at" json:"lastFetchedAt,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
}
