package github

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

func testAdapter() *Adapter {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(5*time.Second, logger)
}

func testConfig(serverURL string) platform.Config {
	return platform.Config{"base_url": serverURL, "api_key": "test-token"}
}

func TestTestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rate_limit", r.URL.Path)
		assert.Equal(t, "token test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"resources":{}}`)
	}))
	defer server.Close()

	err := testAdapter().TestConnection(context.Background(), testConfig(server.URL))
	assert.NoError(t, err)
}

func TestTestConnection_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	err := testAdapter().TestConnection(context.Background(), testConfig(server.URL))
	assert.ErrorIs(t, err, platform.ErrConnection)
}

func TestGetUserInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": 583231,
			"login": "octocat",
			"name": "The Octocat",
			"avatar_url": "https://avatars.example.com/u/583231",
			"bio": "mascot",
			"html_url": "https://github.com/octocat"
		}`)
	}))
	defer server.Close()

	profile, err := testAdapter().GetUserInfo(context.Background(), "octocat", testConfig(server.URL))
	require.NoError(t, err)

	assert.Equal(t, "583231", profile.ExternalID)
	assert.Equal(t, "octocat", profile.Username)
	assert.Equal(t, "The Octocat", profile.DisplayName)
	assert.Equal(t, "https://github.com/octocat", profile.ProfileURL)
}

func TestGetUserInfo_FallsBackToLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": 1, "login": "ghost"}`)
	}))
	defer server.Close()

	profile, err := testAdapter().GetUserInfo(context.Background(), "ghost", testConfig(server.URL))
	require.NoError(t, err)
	assert.Equal(t, "ghost", profile.DisplayName)
}

func TestGetUserInfo_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testAdapter().GetUserInfo(context.Background(), "nobody", testConfig(server.URL))
	assert.ErrorIs(t, err, platform.ErrUserNotFound)
}

func TestValidateUserID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/octocat" {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"id": 1, "login": "octocat"}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	adapter := testAdapter()
	assert.True(t, adapter.ValidateUserID(context.Background(), "octocat", testConfig(server.URL)))
	assert.False(t, adapter.ValidateUserID(context.Background(), "nobody", testConfig(server.URL)))
}

func eventsJSON(createdAt time.Time) string {
	return fmt.Sprintf(`[
		{
			"id": "evt-1",
			"type": "IssuesEvent",
			"actor": {"login": "octocat"},
			"repo": {"name": "octocat/hello", "url": "https://api.github.com/repos/octocat/hello"},
			"created_at": %q,
			"payload": {"issue": {"title": "Broken build", "body": "details", "html_url": "https://github.com/octocat/hello/issues/1"}}
		},
		{
			"id": "evt-2",
			"type": "PushEvent",
			"actor": {"login": "octocat"},
			"repo": {"name": "octocat/hello", "url": "https://api.github.com/repos/octocat/hello"},
			"created_at": %q,
			"payload": {"commits": [{"message": "fix tests\n\nlonger description"}]}
		},
		{
			"id": "evt-3",
			"type": "WatchEvent",
			"actor": {"login": "octocat"},
			"repo": {"name": "octocat/hello", "url": "https://api.github.com/repos/octocat/hello"},
			"created_at": %q,
			"payload": {}
		}
	]`, createdAt.Format(time.RFC3339), createdAt.Format(time.RFC3339), createdAt.Format(time.RFC3339))
}

func TestGetUserContents_FirstPageMergesRepos(t *testing.T) {
	createdAt := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/users/octocat/events/public":
			assert.Equal(t, "1", r.URL.Query().Get("page"))
			assert.Equal(t, "30", r.URL.Query().Get("per_page"))
			fmt.Fprint(w, eventsJSON(createdAt))
		case "/users/octocat/repos":
			fmt.Fprintf(w, `[{
				"id": 42,
				"name": "hello",
				"description": "demo repo",
				"html_url": "https://github.com/octocat/hello",
				"language": "Go",
				"stargazers_count": 7,
				"forks_count": 2,
				"updated_at": %q
			}]`, createdAt.Format(time.RFC3339))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	page, err := testAdapter().GetUserContents(context.Background(), platform.ContentQuery{
		ExternalUserID: "octocat",
		Config:         testConfig(server.URL),
		Limit:          30,
	})
	require.NoError(t, err)

	// 3 events + 1 repo; events convert to typed items.
	require.Len(t, page.Items, 4)
	assert.Equal(t, "Issue: Broken build", page.Items[0].Title)
	assert.Equal(t, "https://github.com/octocat/hello/issues/1", page.Items[0].URL)
	assert.Equal(t, "Push: fix tests", page.Items[1].Title)
	assert.Equal(t, "https://github.com/octocat/hello", page.Items[1].URL)
	assert.Equal(t, "WatchEvent in octocat/hello", page.Items[2].Title)
	assert.Equal(t, "Repository: hello", page.Items[3].Title)
	assert.Equal(t, "LINK", page.Items[3].ContentType)

	assert.Equal(t, "2", page.NextCursor)
	assert.False(t, page.HasMore) // fewer events than the page size
}

func TestGetUserContents_SecondPageSkipsRepos(t *testing.T) {
	createdAt := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	var repoCalls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/users/octocat/events/public":
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			fmt.Fprint(w, eventsJSON(createdAt))
		case "/users/octocat/repos":
			repoCalls++
			fmt.Fprint(w, `[]`)
		}
	}))
	defer server.Close()

	page, err := testAdapter().GetUserContents(context.Background(), platform.ContentQuery{
		ExternalUserID: "octocat",
		Config:         testConfig(server.URL),
		Cursor:         "2",
		Limit:          30,
	})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Zero(t, repoCalls)
}

func TestGetUserContents_HasMoreOnFullPage(t *testing.T) {
	createdAt := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/users/octocat/events/public":
			fmt.Fprint(w, eventsJSON(createdAt))
		case "/users/octocat/repos":
			fmt.Fprint(w, `[]`)
		}
	}))
	defer server.Close()

	// Limit matches the event count, so the upstream may have more.
	page, err := testAdapter().GetUserContents(context.Background(), platform.ContentQuery{
		ExternalUserID: "octocat",
		Config:         testConfig(server.URL),
		Limit:          3,
	})
	require.NoError(t, err)
	assert.True(t, page.HasMore)
}

func TestGetUserContents_FiltersWindow(t *testing.T) {
	old := time.Now().Add(-72 * time.Hour).UTC().Truncate(time.Second)
	start := time.Now().Add(-24 * time.Hour).UTC()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/users/octocat/events/public":
			fmt.Fprint(w, eventsJSON(old))
		case "/users/octocat/repos":
			fmt.Fprint(w, `[]`)
		}
	}))
	defer server.Close()

	page, err := testAdapter().GetUserContents(context.Background(), platform.ContentQuery{
		ExternalUserID: "octocat",
		Config:         testConfig(server.URL),
		Start:          &start,
		Limit:          30,
	})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	// The raw page's oldest timestamp survives the filter so the caller can
	// tell a pre-window page from a genuinely empty one and stop paging.
	require.NotNil(t, page.OldestPublishedAt)
	assert.True(t, page.OldestPublishedAt.Equal(old))
}

func TestGetUserContents_InvalidCursor(t *testing.T) {
	_, err := testAdapter().GetUserContents(context.Background(), platform.ContentQuery{
		ExternalUserID: "octocat",
		Cursor:         "not-a-page",
	})
	assert.ErrorIs(t, err, platform.ErrConfig)
}

func TestGetUserContents_UserNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testAdapter().GetUserContents(context.Background(), platform.ContentQuery{
		ExternalUserID: "ghost",
		Config:         testConfig(server.URL),
	})
	assert.ErrorIs(t, err, platform.ErrUserNotFound)
}
