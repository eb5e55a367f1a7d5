package rss

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content_fetcher/internal/platform"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Blog</title>
    <link>https://blog.example.com</link>
    <description>Notes on things</description>
    <image><url>https://blog.example.com/logo.png</url><title>logo</title><link>https://blog.example.com</link></image>
    <item>
      <title>Older Post</title>
      <link>https://blog.example.com/older</link>
      <guid>post-1</guid>
      <description>old text</description>
      <pubDate>Mon, 02 Jun 2025 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Newer Post</title>
      <link>https://blog.example.com/newer</link>
      <guid>post-2</guid>
      <description>new text</description>
      <enclosure url="https://blog.example.com/audio.mp3" length="123" type="audio/mpeg"/>
      <pubDate>Tue, 10 Jun 2025 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>No Date Post</title>
      <link>https://blog.example.com/undated</link>
      <guid>post-3</guid>
      <description>never parsed</description>
    </item>
  </channel>
</rss>`

func testAdapter() *Adapter {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(5*time.Second, logger)
}

func feedServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, feedXML)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestTestConnection(t *testing.T) {
	server := feedServer(t)

	err := testAdapter().TestConnection(context.Background(), platform.Config{"feed_url": server.URL})
	assert.NoError(t, err)
}

func TestTestConnection_MissingFeedURL(t *testing.T) {
	err := testAdapter().TestConnection(context.Background(), platform.Config{})
	assert.ErrorIs(t, err, platform.ErrConnection)
	assert.ErrorIs(t, err, platform.ErrConfig)
}

func TestTestConnection_BadFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := testAdapter().TestConnection(context.Background(), platform.Config{"feed_url": server.URL})
	assert.ErrorIs(t, err, platform.ErrConnection)
}

func TestGetUserInfo(t *testing.T) {
	server := feedServer(t)

	profile, err := testAdapter().GetUserInfo(context.Background(), "example-blog", platform.Config{"feed_url": server.URL})
	require.NoError(t, err)

	assert.Equal(t, "example-blog", profile.ExternalID)
	assert.Equal(t, "Example Blog", profile.DisplayName)
	assert.Equal(t, "Notes on things", profile.Bio)
	assert.Equal(t, "https://blog.example.com", profile.ProfileURL)
	assert.Equal(t, "https://blog.example.com/logo.png", profile.AvatarURL)
}

func TestGetUserContents_SinglePageNewestFirst(t *testing.T) {
	server := feedServer(t)

	page, err := testAdapter().GetUserContents(context.Background(), platform.ContentQuery{
		ExternalUserID: "example-blog",
		Config:         platform.Config{"feed_url": server.URL},
	})
	require.NoError(t, err)

	// The undated entry is dropped; the rest sort newest first.
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Newer Post", page.Items[0].Title)
	assert.Equal(t, "post-2", page.Items[0].ExternalID)
	assert.Equal(t, []string{"https://blog.example.com/audio.mp3"}, page.Items[0].MediaURLs)
	assert.Equal(t, "Older Post", page.Items[1].Title)

	assert.False(t, page.HasMore)
	require.NotNil(t, page.TotalCount)
	assert.Equal(t, 2, *page.TotalCount)
}

func TestGetUserContents_WindowFilter(t *testing.T) {
	server := feedServer(t)

	start := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	page, err := testAdapter().GetUserContents(context.Background(), platform.ContentQuery{
		Config: platform.Config{"feed_url": server.URL},
		Start:  &start,
	})
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "Newer Post", page.Items[0].Title)
	require.NotNil(t, page.TotalCount)
	assert.Equal(t, 1, *page.TotalCount)
}

func TestValidateUserID(t *testing.T) {
	server := feedServer(t)
	adapter := testAdapter()

	assert.True(t, adapter.ValidateUserID(context.Background(), "anything", platform.Config{"feed_url": server.URL}))
	assert.False(t, adapter.ValidateUserID(context.Background(), "anything", platform.Config{}))
}

func TestRequiredConfig(t *testing.T) {
	assert.Equal(t, []string{"feed_url"}, testAdapter().RequiredConfig())
}
