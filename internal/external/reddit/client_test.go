package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickerpulse/backend/pkg/config"
	"github.com/tickerpulse/backend/pkg/logger"
)

const sampleListing = `{
	"kind": "Listing",
	"data": {
		"after": "t3_next",
		"children": [
			{
				"kind": "t3",
				"data": {
					"id": "pinned1",
					"name": "t3_pinned1",
					"subreddit": "wallstreetbets",
					"title": "Daily Discussion Thread",
					"selftext": "Talk about anything here.",
					"author": "AutoModerator",
					"score": 500,
					"num_comments": 9000,
					"upvote_ratio": 0.95,
					"created_utc": 1735689600,
					"permalink": "/r/wallstreetbets/comments/pinned1/",
					"stickied": true,
					"is_self": true
				}
			},
			{
				"kind": "t3",
				"data": {
					"id": "abc123",
					"name": "t3_abc123",
					"subreddit": "wallstreetbets",
					"title": "NVDA earnings play",
					"selftext": "Long thesis with numbers.",
					"author": "dd_writer",
					"score": 321,
					"num_comments": 87,
					"upvote_ratio": 0.91,
					"created_utc": 1735693200,
					"permalink": "/r/wallstreetbets/comments/abc123/",
					"stickied": false,
					"is_self": true,
					"link_flair_text": "DD"
				}
			}
		]
	}
}`

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{LogLevel: "error", LogFormat: "console"}
	cfg.Reddit.BaseURL = srv.URL
	cfg.Reddit.UserAgent = "tickerpulse-test/1.0"

	return New(cfg, logger.New(cfg), nil)
}

func TestFetch(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/wallstreetbets/hot.json", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "tickerpulse-test/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte(sampleListing))
	})

	posts, err := client.Fetch(context.Background(), "wallstreetbets", 50, "hot")
	require.NoError(t, err)

	// Stickied daily thread is dropped
	require.Len(t, posts, 1)
	p := posts[0]
	assert.Equal(t, "t3_abc123", p.ExternalID)
	assert.Equal(t, "wallstreetbets", p.Source)
	assert.Equal(t, "NVDA earnings play", p.Title)
	assert.Equal(t, 321, p.Upvotes)
	assert.Equal(t, 87, p.CommentCount)
	assert.InDelta(t, 0.91, p.UpvoteRatio, 1e-9)
	assert.Equal(t, "DD", p.Flair)
	assert.False(t, p.PostedAt.IsZero())
}

func TestFetch_ModeAndLimitSanitized(t *testing.T) {
	var gotPath, gotLimit string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"data": {"children": []}}`))
	})

	_, err := client.Fetch(context.Background(), "stocks", 0, "bogus")
	require.NoError(t, err)

	assert.Equal(t, "/r/stocks/hot.json", gotPath, "unknown mode falls back to hot")
	assert.Equal(t, "100", gotLimit, "limit clamps to the API page cap")
}

func TestFetch_HTTPError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	_, err := client.Fetch(context.Background(), "wallstreetbets", 10, "hot")
	require.Error(t, err)
}
