package posts

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickerpulse/backend/internal/quality"
)

const testSchema = `
	CREATE TABLE IF NOT EXISTS posts (
		id              BIGSERIAL PRIMARY KEY,
		external_id     TEXT NOT NULL UNIQUE,
		source          TEXT NOT NULL,
		title           TEXT NOT NULL,
		body            TEXT NOT NULL DEFAULT '',
		author          TEXT NOT NULL DEFAULT '',
		upvotes         INT NOT NULL DEFAULT 0,
		comment_count   INT NOT NULL DEFAULT 0,
		upvote_ratio    DOUBLE PRECISION NOT NULL DEFAULT 0,
		tickers         TEXT[] NOT NULL DEFAULT '{}',
		sentiment       DOUBLE PRECISION NOT NULL DEFAULT 0,
		sentiment_label TEXT NOT NULL DEFAULT 'neutral',
		quality_score   DOUBLE PRECISION NOT NULL DEFAULT 0,
		quality_tier    TEXT NOT NULL DEFAULT 'poor',
		is_quality      BOOLEAN NOT NULL DEFAULT FALSE,
		is_self         BOOLEAN NOT NULL DEFAULT TRUE,
		flair           TEXT NOT NULL DEFAULT '',
		permalink       TEXT NOT NULL DEFAULT '',
		posted_at       TIMESTAMPTZ NOT NULL,
		ingested_at     TIMESTAMPTZ NOT NULL
	)
`

// testRepo connects to TEST_DATABASE_URL or skips. Each call starts
// from an empty posts table.
func testRepo(t *testing.T) *Repository {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(), testSchema)
	require.NoError(t, err)
	_, err = pool.Exec(context.Background(), `TRUNCATE posts RESTART IDENTITY`)
	require.NoError(t, err)

	return NewRepository(pool)
}

func seedPost(t *testing.T, repo *Repository, p *Post) {
	t.Helper()

	ctx := context.Background()
	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Stage(ctx, p))
	require.NoError(t, tx.Commit(ctx))
}

func samplePost(externalID string) *Post {
	now := time.Now().UTC()
	return &Post{
		ExternalID:     externalID,
		Source:         "wallstreetbets",
		Title:          "NVDA earnings discussion",
		Body:           "Solid quarter all around.",
		Author:         "tester",
		Upvotes:        120,
		CommentCount:   34,
		UpvoteRatio:    0.91,
		Tickers:        []string{"NVDA"},
		Sentiment:      0.42,
		SentimentLabel: "positive",
		QualityScore:   64.2,
		QualityTier:    quality.TierGood,
		IsQuality:      true,
		IsSelf:         true,
		Permalink:      "/r/wallstreetbets/" + externalID,
		PostedAt:       now.Add(-time.Hour),
		IngestedAt:     now,
	}
}

func TestTx_ExistsAfterCommit(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	seedPost(t, repo, samplePost("t3_exists"))

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	found, err := tx.Exists(ctx, "t3_exists")
	require.NoError(t, err)
	assert.True(t, found)

	missing, err := tx.Exists(ctx, "t3_nope")
	require.NoError(t, err)
	assert.False(t, missing)
}

func TestTx_RollbackDiscardsStagedWrites(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Stage(ctx, samplePost("t3_rollback")))
	require.NoError(t, tx.Rollback(ctx))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRepository_ListByTicker(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	nvda := samplePost("t3_nvda")
	tsla := samplePost("t3_tsla")
	tsla.Tickers = []string{"TSLA"}
	seedPost(t, repo, nvda)
	seedPost(t, repo, tsla)

	got, err := repo.ListByTicker(ctx, "NVDA", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t3_nvda", got[0].ExternalID)
	assert.Equal(t, []string{"NVDA"}, got[0].Tickers)
}

func TestRepository_TrendingTickers(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	for i, id := range []string{"t3_a", "t3_b", "t3_c"} {
		p := samplePost(id)
		if i < 2 {
			p.Tickers = []string{"GME", "AMC"}
		} else {
			p.Tickers = []string{"GME"}
		}
		seedPost(t, repo, p)
	}

	got, err := repo.TrendingTickers(ctx, 24*time.Hour, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "GME", got[0].Ticker)
	assert.Equal(t, 3, got[0].Mentions)
	assert.Equal(t, "AMC", got[1].Ticker)
	assert.Equal(t, 2, got[1].Mentions)
}

func TestRepository_QualityAnalyticsZeroFilled(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	got, err := repo.QualityAnalytics(ctx, 24, 50)
	require.NoError(t, err)

	assert.Zero(t, got.TotalPosts)
	assert.Zero(t, got.AvgQualityScore)
	assert.Zero(t, got.HighQualityPct)
	assert.Zero(t, got.LowQualityPct)
	assert.Len(t, got.TierCounts, 4, "all four tiers present even when empty")
	for _, tier := range []string{quality.TierPoor, quality.TierFair, quality.TierGood, quality.TierExcellent} {
		assert.Contains(t, got.TierCounts, tier)
	}
}

func TestRepository_QualityAnalytics(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	good := samplePost("t3_good")
	poor := samplePost("t3_poor")
	poor.QualityScore = 22.0
	poor.QualityTier = quality.TierPoor
	poor.IsQuality = false
	seedPost(t, repo, good)
	seedPost(t, repo, poor)

	got, err := repo.QualityAnalytics(ctx, 24, 50)
	require.NoError(t, err)

	assert.EqualValues(t, 2, got.TotalPosts)
	assert.InDelta(t, 43.1, got.AvgQualityScore, 0.01)
	assert.InDelta(t, 50.0, got.HighQualityPct, 1e-9)
	assert.InDelta(t, 50.0, got.LowQualityPct, 1e-9)
	assert.Equal(t, 1, got.TierCounts[quality.TierGood])
	assert.Equal(t, 1, got.TierCounts[quality.TierPoor])
	assert.Equal(t, 0, got.TierCounts[quality.TierExcellent])
}

func TestRepository_RecomputeIsQuality(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	p := samplePost("t3_recompute") // quality_score 64.2, is_quality true
	seedPost(t, repo, p)

	changed, err := repo.RecomputeIsQuality(ctx, 80)
	require.NoError(t, err)
	assert.EqualValues(t, 1, changed)

	// Running again at the same threshold is a no-op
	changed, err = repo.RecomputeIsQuality(ctx, 80)
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestRepository_DeleteOlderThan(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	old := samplePost("t3_old")
	old.PostedAt = time.Now().UTC().Add(-120 * 24 * time.Hour)
	fresh := samplePost("t3_fresh")
	seedPost(t, repo, old)
	seedPost(t, repo, fresh)

	deleted, err := repo.DeleteOlderThan(ctx, 90*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
