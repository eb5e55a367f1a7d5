package domain

import (
	"time"

	"github.com/google/uuid"
)

type ContentType string

const (
	ContentTypeText  ContentType = "TEXT"
	ContentTypeImage ContentType = "IMAGE"
	ContentTypeVideo ContentType = "VIDEO"
	ContentTypeLink  ContentType = "LINK"
)

// Content is the durable record for one ingested item. Rows are only ever
// created by the fetch service; read/favorite state changes go through a
// separate path and never touch the ingestion fields.
type Content struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	UserID       uuid.UUID   `db:"user_id" json:"userId"`
	PlatformType string      `db:"platform_type" json:"platformType"`
	ExternalID   string      `db:"external_id" json:"externalId"`
	Title        string      `db:"title" json:"title"`
	Body         string      `db:"body" json:"body"`
	URL          string      `db:"url" json:"url"`
	ContentType  ContentType `db:"content_type" json:"contentType"`
	MediaURLs    []string    `db:"-" json:"mediaUrls"`
	PublishedAt  time.Time   `db:"published_at" json:"publishedAt"`
	Metadata     []byte      `db:"metadata" json:"metadata,omitempty"`
	Fingerprint  string      `db:"fingerprint" json:"fingerprint"`
	IsRead       bool        `db:"is_read" json:"isRead"`
	IsFavorite   bool        `db:"is_favorite" json:"isFavorite"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
}
