// Package indexer pushes newly saved content to the search indexing
// service. Indexing is best-effort: the orchestrator logs failures and
// moves on, it never fails a fetch over them.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"content_fetcher/internal/domain"
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type HTTPIndexer struct {
	client *resty.Client
	logger *slog.Logger
}

func NewHTTPIndexer(cfg Config, logger *slog.Logger) *HTTPIndexer {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	return &HTTPIndexer{
		client: client,
		logger: logger.With("component", "indexer"),
	}
}

type indexDocument struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	PlatformType string    `json:"platform_type"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	URL          string    `json:"url"`
	ContentType  string    `json:"content_type"`
	PublishedAt  time.Time `json:"published_at"`
}

func (i *HTTPIndexer) Index(ctx context.Context, content *domain.Content) error {
	doc := indexDocument{
		ID:           content.ID.String(),
		UserID:       content.UserID.String(),
		PlatformType: content.PlatformType,
		Title:        content.Title,
		Body:         content.Body,
		URL:          content.URL,
		ContentType:  string(content.ContentType),
		PublishedAt:  content.PublishedAt,
	}

	resp, err := i.client.R().
		SetContext(ctx).
		SetBody(doc).
		Post("/api/v1/documents")
	if err != nil {
		return fmt.Errorf("index content %s: %w", content.ID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("index content %s: status %d", content.ID, resp.StatusCode())
	}

	i.logger.Debug("indexed content", "content_id", content.ID)
	return nil
}
