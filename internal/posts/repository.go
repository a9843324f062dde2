package posts

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the persistence layer for ingested posts
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new posts repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Tx wraps one source's ingestion transaction. Writes staged through
// it become visible only on Commit; the unique constraint on
// external_id is the backstop against duplicate-check races.
type Tx struct {
	tx pgx.Tx
}

// Begin opens an ingestion transaction
func (r *Repository) Begin(ctx context.Context) (*Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

// Exists reports whether a post with the external id is already
// persisted or staged in this transaction
func (t *Tx) Exists(ctx context.Context, externalID string) (bool, error) {
	var one int
	err := t.tx.QueryRow(ctx,
		`SELECT 1 FROM posts WHERE external_id = $1`, externalID,
	).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Stage inserts a post inside the transaction
func (t *Tx) Stage(ctx context.Context, p *Post) error {
	query := `
		INSERT INTO posts (
			external_id, source, title, body, author,
			upvotes, comment_count, upvote_ratio,
			tickers, sentiment, sentiment_label,
			quality_score, quality_tier, is_quality,
			is_self, flair, permalink, posted_at, ingested_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8,
			$9, $10, $11,
			$12, $13, $14,
			$15, $16, $17, $18, $19
		)
	`

	_, err := t.tx.Exec(ctx, query,
		p.ExternalID, p.Source, p.Title, p.Body, p.Author,
		p.Upvotes, p.CommentCount, p.UpvoteRatio,
		p.Tickers, p.Sentiment, p.SentimentLabel,
		p.QualityScore, p.QualityTier, p.IsQuality,
		p.IsSelf, p.Flair, p.Permalink, p.PostedAt, p.IngestedAt,
	)
	return err
}

// Commit commits the transaction
func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback aborts the transaction
func (t *Tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

const postColumns = `
	id, external_id, source, title, body, author,
	upvotes, comment_count, upvote_ratio,
	tickers, sentiment, sentiment_label,
	quality_score, quality_tier, is_quality,
	is_self, flair, permalink, posted_at, ingested_at
`

func scanPost(row pgx.Row) (*Post, error) {
	var p Post
	err := row.Scan(
		&p.ID, &p.ExternalID, &p.Source, &p.Title, &p.Body, &p.Author,
		&p.Upvotes, &p.CommentCount, &p.UpvoteRatio,
		&p.Tickers, &p.Sentiment, &p.SentimentLabel,
		&p.QualityScore, &p.QualityTier, &p.IsQuality,
		&p.IsSelf, &p.Flair, &p.Permalink, &p.PostedAt, &p.IngestedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPosts(rows pgx.Rows) ([]*Post, error) {
	defer rows.Close()

	var result []*Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// ListFilter narrows List queries
type ListFilter struct {
	Source      string
	MinQuality  float64
	QualityOnly bool
	Limit       int
	Offset      int
}

// List returns posts ordered newest first
func (r *Repository) List(ctx context.Context, f ListFilter) ([]*Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE ($1 = '' OR source = $1)
		  AND quality_score >= $2
		  AND (NOT $3 OR is_quality)
		ORDER BY posted_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.pool.Query(ctx, query, f.Source, f.MinQuality, f.QualityOnly, f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

// ListByTicker returns posts mentioning a ticker, newest first
func (r *Repository) ListByTicker(ctx context.Context, ticker string, limit int) ([]*Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE $1 = ANY(tickers)
		ORDER BY posted_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, ticker, limit)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

// TrendingTickers ranks tickers by mention volume within the window
func (r *Repository) TrendingTickers(ctx context.Context, window time.Duration, limit int) ([]TrendingTicker, error) {
	query := `
		SELECT t.ticker,
		       COUNT(*) AS mentions,
		       AVG(p.sentiment) AS avg_sentiment,
		       AVG(p.quality_score) AS avg_quality
		FROM posts p, unnest(p.tickers) AS t(ticker)
		WHERE p.posted_at >= $1
		GROUP BY t.ticker
		ORDER BY mentions DESC, t.ticker ASC
		LIMIT $2
	`

	cutoff := time.Now().UTC().Add(-window)
	rows, err := r.pool.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TrendingTicker
	for rows.Next() {
		var t TrendingTicker
		if err := rows.Scan(&t.Ticker, &t.Mentions, &t.AvgSentiment, &t.AvgQuality); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// SentimentForTicker aggregates sentiment for one ticker in a window
func (r *Repository) SentimentForTicker(ctx context.Context, ticker string, window time.Duration) (*TickerSentiment, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(AVG(sentiment), 0),
		       COUNT(*) FILTER (WHERE sentiment_label = 'positive'),
		       COUNT(*) FILTER (WHERE sentiment_label = 'negative'),
		       COUNT(*) FILTER (WHERE sentiment_label = 'neutral')
		FROM posts
		WHERE $1 = ANY(tickers)
		  AND posted_at >= $2
	`

	s := TickerSentiment{Ticker: ticker}
	err := r.pool.QueryRow(ctx, query, ticker, time.Now().UTC().Add(-window)).Scan(
		&s.PostCount, &s.AvgSentiment, &s.Positive, &s.Negative, &s.Neutral,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// RecomputeIsQuality re-evaluates the acceptance verdict for every
// post against a new threshold. Idempotent; tier labels are untouched
// since they derive from the stored score, not the threshold.
func (r *Repository) RecomputeIsQuality(ctx context.Context, threshold float64) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE posts SET is_quality = (quality_score >= $1) WHERE is_quality <> (quality_score >= $1)`,
		threshold,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteOlderThan removes posts past the retention horizon and
// returns the number deleted
func (r *Repository) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM posts WHERE posted_at < $1`, time.Now().UTC().Add(-age),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Count returns the total number of persisted posts
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}
