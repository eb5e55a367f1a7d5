package platform

import (
	"context"
	"time"
)

// Config is the opaque per-platform key-value configuration (credentials,
// base URLs) passed through to adapters unmodified.
type Config map[string]string

// Get returns the value for key or fallback when unset or empty.
func (c Config) Get(key, fallback string) string {
	if v, ok := c[key]; ok && v != "" {
		return v
	}
	return fallback
}

// MissingKeys returns the required keys absent from the config.
func (c Config) MissingKeys(required []string) []string {
	var missing []string
	for _, k := range required {
		if v, ok := c[k]; !ok || v == "" {
			missing = append(missing, k)
		}
	}
	return missing
}

// Item is one piece of content as reported by an upstream platform. It is
// transient; the fetch service converts it into a stored Content record.
type Item struct {
	ExternalID  string
	Title       string
	Body        string
	URL         string
	ContentType string
	MediaURLs   []string
	PublishedAt time.Time
	Metadata    map[string]any
}

// Page is the result of a single adapter call. HasMore=true means the
// caller may request the next page with NextCursor; HasMore=false ends
// pagination regardless of NextCursor.
//
// OldestPublishedAt is the publish time of the oldest item on the raw
// upstream page, recorded before window filtering. With newest-first
// ordering it tells the caller when every remaining page predates the
// window. Nil when the upstream page was empty.
type Page struct {
	Items             []Item
	NextCursor        string
	HasMore           bool
	FetchedCount      int
	TotalCount        *int
	OldestPublishedAt *time.Time
}

// Profile describes an upstream user identity.
type Profile struct {
	ExternalID  string
	Username    string
	DisplayName string
	AvatarURL   string
	Bio         string
	ProfileURL  string
}

// ContentQuery parameterizes one page fetch. Start/End bound the window as
// a closed interval; adapters must filter items to it before returning,
// client-side when the upstream cannot. Limit is a page size hint, not a
// cap on total results.
type ContentQuery struct {
	ExternalUserID string
	Config         Config
	Start          *time.Time
	End            *time.Time
	Cursor         string
	Limit          int
}

// InWindow reports whether t falls inside the query's closed interval.
func (q ContentQuery) InWindow(t time.Time) bool {
	if q.Start != nil && t.Before(*q.Start) {
		return false
	}
	if q.End != nil && t.After(*q.End) {
		return false
	}
	return true
}

// Adapter is the uniform fetch contract one platform integration implements.
// Implementations make network calls only and keep no local state between
// calls; pagination continuity lives entirely in the opaque cursor.
type Adapter interface {
	PlatformType() string

	// TestConnection verifies the upstream is reachable with the given
	// credentials. Returns an error wrapping ErrConnection otherwise.
	TestConnection(ctx context.Context, cfg Config) error

	// GetUserInfo resolves an upstream identity. Returns an error wrapping
	// ErrUserNotFound when the platform has no such user.
	GetUserInfo(ctx context.Context, externalUserID string, cfg Config) (*Profile, error)

	// GetUserContents returns one page of the user's content, already
	// filtered to the query window, ordered newest first.
	GetUserContents(ctx context.Context, q ContentQuery) (*Page, error)

	// ValidateUserID never returns an error; any failure maps to false.
	ValidateUserID(ctx context.Context, externalUserID string, cfg Config) bool

	// RequiredConfig lists config keys the adapter cannot operate without.
	RequiredConfig() []string
}
