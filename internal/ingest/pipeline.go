package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tickerpulse/backend/internal/posts"
	"github.com/tickerpulse/backend/internal/quality"
	"github.com/tickerpulse/backend/internal/sentiment"
	"github.com/tickerpulse/backend/internal/ticker"
	"github.com/tickerpulse/backend/pkg/logger"
)

// RawPost is an item as delivered by a fetch source, before any
// scoring or persistence. Consumed by value; the pipeline owns
// nothing about it.
type RawPost struct {
	ExternalID   string
	Source       string
	Title        string
	Body         string
	Author       string
	Upvotes      int
	CommentCount int
	UpvoteRatio  float64
	Permalink    string
	IsSelf       bool
	Flair        string
	PostedAt     time.Time
}

// Fetcher retrieves raw items for one source. Mode selects the
// source's listing ordering (hot, new, rising, top).
type Fetcher interface {
	Fetch(ctx context.Context, source string, limit int, mode string) ([]RawPost, error)
}

// Store opens per-source transactions for staged writes
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is a single source's transaction. Stage buffers writes; nothing
// is visible to readers until Commit.
type Tx interface {
	Exists(ctx context.Context, externalID string) (bool, error)
	Stage(ctx context.Context, post *posts.Post) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Config tunes one pipeline instance
type Config struct {
	FetchLimit int     // items requested per source
	FetchMode  string  // listing ordering requested from sources
	MinQuality float64 // acceptance threshold for the quality gate
}

// Pipeline fetches posts from configured sources, gates them on
// ticker mentions and quality, annotates them with sentiment, and
// persists survivors one transaction per source.
type Pipeline struct {
	fetcher  Fetcher
	store    Store
	scorer   *quality.Scorer
	analyzer *sentiment.Analyzer
	cfg      Config
	logger   *logger.Logger
}

// New creates an ingestion pipeline
func New(fetcher Fetcher, store Store, cfg Config, log *logger.Logger) *Pipeline {
	return &Pipeline{
		fetcher:  fetcher,
		store:    store,
		scorer:   quality.NewScorer(cfg.MinQuality),
		analyzer: sentiment.NewAnalyzer(),
		cfg:      cfg,
		logger:   log,
	}
}

// Run executes one ingestion batch over the given sources and returns
// the aggregated stats. Fetches run concurrently; each source is then
// processed sequentially inside its own transaction. A failing source
// never aborts the batch.
func (p *Pipeline) Run(ctx context.Context, sources []string) (*Stats, error) {
	stats := newStats()

	batches := p.fetchAll(ctx, sources)

	for i, source := range sources {
		src := p.processSource(ctx, source, batches[i])
		stats.add(src)
	}

	stats.FinishedAt = time.Now().UTC()

	p.logger.WithFields(map[string]interface{}{
		"sources":         len(sources),
		"fetched":         stats.Fetched,
		"saved":           stats.Saved,
		"skipped":         stats.Skipped,
		"failed":          stats.Failed,
		"acceptance_rate": stats.AcceptanceRate(),
		"duration":        stats.Duration(),
	}).Info("Ingestion batch completed")

	return stats, nil
}

// fetchAll fans out one fetch per source. A failed fetch is logged
// and yields an empty batch for that source.
func (p *Pipeline) fetchAll(ctx context.Context, sources []string) [][]RawPost {
	batches := make([][]RawPost, len(sources))

	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		go func(i int, source string) {
			defer wg.Done()

			items, err := p.fetcher.Fetch(ctx, source, p.cfg.FetchLimit, p.cfg.FetchMode)
			if err != nil {
				p.logger.WithError(err).WithField("source", source).Error("Fetch failed")
				return
			}
			batches[i] = items
		}(i, source)
	}
	wg.Wait()

	return batches
}

// processSource runs the item loop for one source inside a single
// transaction. On commit failure the staged writes are rolled back
// and the source reports zero saves.
func (p *Pipeline) processSource(ctx context.Context, source string, items []RawPost) SourceStats {
	stats := newSourceStats(source)
	stats.Fetched = len(items)

	if len(items) == 0 {
		return stats
	}

	tx, err := p.store.Begin(ctx)
	if err != nil {
		p.logger.WithError(err).WithField("source", source).Error("Failed to open transaction")
		stats.Failed = len(items)
		return stats
	}

	saved := 0
	for _, item := range items {
		outcome := p.processItem(ctx, tx, item)
		switch {
		case outcome.err != nil:
			stats.Failed++
			p.logger.WithError(outcome.err).WithFields(map[string]interface{}{
				"source":      source,
				"external_id": item.ExternalID,
			}).Warn("Item processing failed")
		case outcome.skip != "":
			stats.skip(outcome.skip)
		default:
			saved++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		p.logger.WithError(err).WithField("source", source).Error("Commit failed, rolling back source")
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			p.logger.WithError(rbErr).WithField("source", source).Error("Rollback failed")
		}
		// Nothing from this source is visible
		return stats
	}

	stats.Saved = saved
	return stats
}

type itemOutcome struct {
	skip SkipReason
	err  error
}

// processItem applies the per-item gates in fixed order: tickers,
// novelty, quality, sentiment, stage. A panic anywhere is converted
// to a failure for this item only.
func (p *Pipeline) processItem(ctx context.Context, tx Tx, item RawPost) (outcome itemOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = itemOutcome{err: fmt.Errorf("panic processing item %s: %v", item.ExternalID, r)}
		}
	}()

	// Ticker presence is the cheapest gate; check it before paying
	// for a duplicate lookup or scoring.
	tickers := ticker.Extract(item.Title + " " + item.Body)
	if len(tickers) == 0 {
		return itemOutcome{skip: SkipNoTickers}
	}

	exists, err := tx.Exists(ctx, item.ExternalID)
	if err != nil {
		return itemOutcome{err: fmt.Errorf("duplicate lookup: %w", err)}
	}
	if exists {
		return itemOutcome{skip: SkipDuplicate}
	}

	// The source reports only upvotes and a ratio, so derive the
	// downvote count from them.
	downvotes := int(float64(item.Upvotes) * (1 - item.UpvoteRatio))
	assessment := p.scorer.Score(item.Title, item.Body, item.Upvotes, downvotes, item.CommentCount, item.UpvoteRatio)
	if !assessment.IsQuality {
		return itemOutcome{skip: SkipLowQuality}
	}

	score := p.analyzer.Analyze(item.Title + " " + item.Body)

	post := &posts.Post{
		ExternalID:     item.ExternalID,
		Source:         item.Source,
		Title:          item.Title,
		Body:           item.Body,
		Author:         item.Author,
		Upvotes:        item.Upvotes,
		CommentCount:   item.CommentCount,
		UpvoteRatio:    item.UpvoteRatio,
		Tickers:        tickers,
		Sentiment:      score,
		SentimentLabel: p.analyzer.Classify(score),
		QualityScore:   assessment.Overall,
		QualityTier:    assessment.Tier,
		IsQuality:      assessment.IsQuality,
		IsSelf:         item.IsSelf,
		Flair:          item.Flair,
		Permalink:      item.Permalink,
		PostedAt:       item.PostedAt,
		IngestedAt:     time.Now().UTC(),
	}

	if err := tx.Stage(ctx, post); err != nil {
		return itemOutcome{err: fmt.Errorf("stage post: %w", err)}
	}

	return itemOutcome{}
}
