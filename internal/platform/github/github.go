package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"content_fetcher/internal/platform"
)

const (
	PlatformType = "github"

	defaultBaseURL = "https://api.github.com"
	maxPerPage     = 100
)

// Config keys recognized by this adapter. api_key is optional;
// unauthenticated requests just run against a lower rate limit.
const (
	configKeyAPIKey  = "api_key"
	configKeyBaseURL = "base_url"
)

// Adapter fetches a tracked user's public activity (issues, pull requests,
// pushes) and repositories from the GitHub REST API.
type Adapter struct {
	client *resty.Client
	logger *slog.Logger
}

func New(timeout time.Duration, logger *slog.Logger) *Adapter {
	client := resty.New()
	client.SetTimeout(timeout)
	return &Adapter{
		client: client,
		logger: logger.With("platform", PlatformType),
	}
}

func (a *Adapter) PlatformType() string { return PlatformType }

func (a *Adapter) RequiredConfig() []string { return nil }

func (a *Adapter) TestConnection(ctx context.Context, cfg platform.Config) error {
	resp, err := a.request(ctx, cfg).Get(a.baseURL(cfg) + "/rate_limit")
	if err != nil {
		return fmt.Errorf("%w: github: %w", platform.ErrConnection, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: github returned status %d", platform.ErrConnection, resp.StatusCode())
	}
	return nil
}

func (a *Adapter) GetUserInfo(ctx context.Context, externalUserID string, cfg platform.Config) (*platform.Profile, error) {
	var user apiUser
	resp, err := a.request(ctx, cfg).
		SetResult(&user).
		Get(a.baseURL(cfg) + "/users/" + externalUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: github: %w", platform.ErrConnection, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: github user %q", platform.ErrUserNotFound, externalUserID)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: github user lookup returned status %d", platform.ErrConnection, resp.StatusCode())
	}

	displayName := user.Name
	if displayName == "" {
		displayName = user.Login
	}
	return &platform.Profile{
		ExternalID:  strconv.FormatInt(user.ID, 10),
		Username:    user.Login,
		DisplayName: displayName,
		AvatarURL:   user.AvatarURL,
		Bio:         user.Bio,
		ProfileURL:  user.HTMLURL,
	}, nil
}

func (a *Adapter) ValidateUserID(ctx context.Context, externalUserID string, cfg platform.Config) bool {
	_, err := a.GetUserInfo(ctx, externalUserID, cfg)
	return err == nil
}

// GetUserContents pages through the user's public events. The cursor is
// the upstream page number; the first page also carries the user's
// recently updated repositories. Items outside [Start, End] are filtered
// out here because the events API cannot filter server-side.
func (a *Adapter) GetUserContents(ctx context.Context, q platform.ContentQuery) (*platform.Page, error) {
	page := 1
	if q.Cursor != "" {
		parsed, err := strconv.Atoi(q.Cursor)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("%w: github cursor %q", platform.ErrConfig, q.Cursor)
		}
		page = parsed
	}
	limit := q.Limit
	if limit <= 0 || limit > maxPerPage {
		limit = maxPerPage
	}

	var events []apiEvent
	resp, err := a.request(ctx, q.Config).
		SetResult(&events).
		SetQueryParams(map[string]string{
			"per_page": strconv.Itoa(limit),
			"page":     strconv.Itoa(page),
		}).
		Get(a.baseURL(q.Config) + "/users/" + q.ExternalUserID + "/events/public")
	if err != nil {
		return nil, fmt.Errorf("%w: github events: %w", platform.ErrConnection, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: github user %q", platform.ErrUserNotFound, q.ExternalUserID)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("github events page %d returned status %d", page, resp.StatusCode())
	}

	items := make([]platform.Item, 0, len(events))
	var oldest *time.Time
	for _, ev := range events {
		item, ok := a.convertEvent(ev)
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

	if page == 1 {
		repos, err := a.fetchRepos(ctx, q)
		if err != nil {
			a.logger.Warn("fetching repositories failed", "user", q.ExternalUserID, "error", err)
		} else {
			items = append(items, repos...)
		}
	}

	return &platform.Page{
		Items:             items,
		NextCursor:        strconv.Itoa(page + 1),
		HasMore:           len(events) == limit,
		FetchedCount:      len(items),
		OldestPublishedAt: oldest,
	}, nil
}

func (a *Adapter) fetchRepos(ctx context.Context, q platform.ContentQuery) ([]platform.Item, error) {
	var repos []apiRepo
	resp, err := a.request(ctx, q.Config).
		SetResult(&repos).
		SetQueryParams(map[string]string{"sort": "updated", "per_page": strconv.Itoa(maxPerPage)}).
		Get(a.baseURL(q.Config) + "/users/" + q.ExternalUserID + "/repos")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("github repos returned status %d", resp.StatusCode())
	}

	items := make([]platform.Item, 0, len(repos))
	for _, repo := range repos {
		item := platform.Item{
			ExternalID:  strconv.FormatInt(repo.ID, 10),
			Title:       "Repository: " + repo.Name,
			Body:        repo.Description,
			URL:         repo.HTMLURL,
			ContentType: "LINK",
			PublishedAt: repo.UpdatedAt,
			Metadata: map[string]any{
				"type":     "repository",
				"language": repo.Language,
				"stars":    repo.StargazersCount,
				"forks":    repo.ForksCount,
			},
		}
		if q.InWindow(item.PublishedAt) {
			items = append(items, item)
		}
	}
	return items, nil
}

func (a *Adapter) convertEvent(ev apiEvent) (platform.Item, bool) {
	if ev.ID == "" || ev.CreatedAt.IsZero() {
		a.logger.Warn("skipping malformed event", "event_type", ev.Type)
		return platform.Item{}, false
	}

	item := platform.Item{
		ExternalID:  ev.ID,
		ContentType: "TEXT",
		PublishedAt: ev.CreatedAt,
		Metadata: map[string]any{
			"type":  ev.Type,
			"actor": ev.Actor.Login,
			"repo":  ev.Repo.Name,
		},
	}

	switch {
	case ev.Type == "IssuesEvent" && ev.Payload.Issue != nil:
		item.Title = "Issue: " + ev.Payload.Issue.Title
		item.Body = ev.Payload.Issue.Body
		item.URL = ev.Payload.Issue.HTMLURL
	case ev.Type == "PullRequestEvent" && ev.Payload.PullRequest != nil:
		item.Title = "PR: " + ev.Payload.PullRequest.Title
		item.Body = ev.Payload.PullRequest.Body
		item.URL = ev.Payload.PullRequest.HTMLURL
	case ev.Type == "PushEvent" && len(ev.Payload.Commits) > 0:
		item.Title = "Push: " + firstLine(ev.Payload.Commits[0].Message)
		item.Body = ev.Payload.Commits[0].Message
		item.URL = repoHTMLURL(ev.Repo.URL)
	default:
		item.Title = ev.Type + " in " + ev.Repo.Name
		item.URL = repoHTMLURL(ev.Repo.URL)
	}

	if item.URL == "" {
		a.logger.Warn("skipping event without URL", "event_id", ev.ID, "event_type", ev.Type)
		return platform.Item{}, false
	}
	return item, true
}

func (a *Adapter) request(ctx context.Context, cfg platform.Config) *resty.Request {
	req := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/vnd.github.v3+json").
		SetHeader("User-Agent", "content-fetcher")
	if key := cfg.Get(configKeyAPIKey, ""); key != "" {
		req.SetHeader("Authorization", "token "+key)
	}
	return req
}

func (a *Adapter) baseURL(cfg platform.Config) string {
	return strings.TrimRight(cfg.Get(configKeyBaseURL, defaultBaseURL), "/")
}

func repoHTMLURL(apiURL string) string {
	return strings.Replace(apiURL, "api.github.com/repos", "github.com", 1)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
