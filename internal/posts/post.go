package posts

import "time"

// Post is a persisted social media post that survived ingestion:
// it mentions at least one known ticker and passed the quality gate.
type Post struct {
	ID             int64     `json:"id"`
	ExternalID     string    `json:"external_id"`
	Source         string    `json:"source"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Author         string    `json:"author"`
	Upvotes        int       `json:"upvotes"`
	CommentCount   int       `json:"comment_count"`
	UpvoteRatio    float64   `json:"upvote_ratio"`
	Tickers        []string  `json:"tickers"`
	Sentiment      float64   `json:"sentiment"`
	SentimentLabel string    `json:"sentiment_label"`
	QualityScore   float64   `json:"quality_score"`
	QualityTier    string    `json:"quality_tier"`
	IsQuality      bool      `json:"is_quality"`
	IsSelf         bool      `json:"is_self"`
	Flair          string    `json:"flair,omitempty"`
	Permalink      string    `json:"permalink"`
	PostedAt       time.Time `json:"posted_at"`
	IngestedAt     time.Time `json:"ingested_at"`
}

// TrendingTicker is a ticker ranked by mention volume in a window
type TrendingTicker struct {
	Ticker       string  `json:"ticker"`
	Mentions     int     `json:"mentions"`
	AvgSentiment float64 `json:"avg_sentiment"`
	AvgQuality   float64 `json:"avg_quality"`
}

// TickerSentiment is the sentiment rollup for a single ticker
type TickerSentiment struct {
	Ticker       string  `json:"ticker"`
	PostCount    int     `json:"post_count"`
	AvgSentiment float64 `json:"avg_sentiment"`
	Positive     int     `json:"positive"`
	Negative     int     `json:"negative"`
	Neutral      int     `json:"neutral"`
}
