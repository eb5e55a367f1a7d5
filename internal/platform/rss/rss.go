package rss

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"content_fetcher/internal/platform"
)

const (
	PlatformType = "rss"

	configKeyFeedURL = "feed_url"
)

// Adapter ingests any RSS/Atom feed (Medium author feeds, blogs, podcast
// feeds). Feeds are single-shot documents, so every fetch is one page with
// HasMore=false; the time window is applied client-side.
type Adapter struct {
	client *http.Client
	logger *slog.Logger
}

func New(timeout time.Duration, logger *slog.Logger) *Adapter {
	return &Adapter{
		client: &http.Client{Timeout: timeout},
		logger: logger.With("platform", PlatformType),
	}
}

func (a *Adapter) PlatformType() string { return PlatformType }

func (a *Adapter) RequiredConfig() []string { return []string{configKeyFeedURL} }

func (a *Adapter) TestConnection(ctx context.Context, cfg platform.Config) error {
	if _, err := a.parseFeed(ctx, cfg); err != nil {
		return fmt.Errorf("%w: %w", platform.ErrConnection, err)
	}
	return nil
}

func (a *Adapter) GetUserInfo(ctx context.Context, externalUserID string, cfg platform.Config) (*platform.Profile, error) {
	feed, err := a.parseFeed(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", platform.ErrUserNotFound, err)
	}

	profile := &platform.Profile{
		ExternalID:  externalUserID,
		Username:    externalUserID,
		DisplayName: feed.Title,
		Bio:         feed.Description,
		ProfileURL:  feed.Link,
	}
	if len(feed.Authors) > 0 && feed.Authors[0].Name != "" {
		profile.DisplayName = feed.Authors[0].Name
	}
	if feed.Image != nil {
		profile.AvatarURL = feed.Image.URL
	}
	return profile, nil
}

func (a *Adapter) ValidateUserID(ctx context.Context, externalUserID string, cfg platform.Config) bool {
	_, err := a.parseFeed(ctx, cfg)
	return err == nil
}

func (a *Adapter) GetUserContents(ctx context.Context, q platform.ContentQuery) (*platform.Page, error) {
	feed, err := a.parseFeed(ctx, q.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", platform.ErrConnection, err)
	}

	items := make([]platform.Item, 0, len(feed.Items))
	var oldest *time.Time
	for _, entry := range feed.Items {
		item, ok := a.convertEntry(entry)
		if !ok {
			continue
		}
		if oldest == nil || item.PublishedAt.Before(*oldest) {
			t := item.PublishedAt
			oldest = &t
		}
		if q.InWindow(item.PublishedAt) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})

	total := len(items)
	return &platform.Page{
		Items:             items,
		HasMore:           false,
		FetchedCount:      len(items),
		TotalCount:        &total,
		OldestPublishedAt: oldest,
	}, nil
}

func (a *Adapter) convertEntry(entry *gofeed.Item) (platform.Item, bool) {
	if entry == nil || entry.Link == "" {
		return platform.Item{}, false
	}
	if entry.PublishedParsed == nil && entry.UpdatedParsed == nil {
		a.logger.Warn("skipping entry without a parseable date", "link", entry.Link)
		return platform.Item{}, false
	}
	publishedAt := entry.PublishedParsed
	if publishedAt == nil {
		publishedAt = entry.UpdatedParsed
	}

	externalID := entry.GUID
	if externalID == "" {
		externalID = entry.Link
	}

	body := entry.Content
	if body == "" {
		body = entry.Description
	}

	item := platform.Item{
		ExternalID:  externalID,
		Title:       entry.Title,
		Body:        body,
		URL:         entry.Link,
		ContentType: "LINK",
		PublishedAt: *publishedAt,
		Metadata:    map[string]any{"categories": entry.Categories},
	}
	for _, enc := range entry.Enclosures {
		if enc != nil && enc.URL != "" {
			item.MediaURLs = append(item.MediaURLs, enc.URL)
		}
	}
	if entry.Image != nil && entry.Image.URL != "" {
		item.MediaURLs = append(item.MediaURLs, entry.Image.URL)
	}
	return item, true
}

func (a *Adapter) parseFeed(ctx context.Context, cfg platform.Config) (*gofeed.Feed, error) {
	feedURL := strings.TrimSpace(cfg.Get(configKeyFeedURL, ""))
	if feedURL == "" {
		return nil, fmt.Errorf("%w: rss feed_url is empty", platform.ErrConfig)
	}

	fp := gofeed.NewParser()
	fp.Client = a.client
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}
	return feed, nil
}
