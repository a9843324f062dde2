package posts

import (
	"context"
	"fmt"
	"time"

	"github.com/tickerpulse/backend/internal/quality"
)

// QualityAnalytics is the read-side quality summary for a window of
// persisted posts. Pure aggregation: no scoring happens here and an
// empty window yields zeros, never an error.
type QualityAnalytics struct {
	WindowHours     int            `json:"window_hours"`
	Threshold       float64        `json:"threshold"`
	TotalPosts      int64          `json:"total_posts"`
	AvgQualityScore float64        `json:"avg_quality_score"`
	HighQualityPct  float64        `json:"high_quality_pct"`
	LowQualityPct   float64        `json:"low_quality_pct"`
	TierCounts      map[string]int `json:"tier_counts"`
}

// QualityAnalytics aggregates quality metrics for posts created
// within the last windowHours, judged against the given threshold.
// TierCounts always contains all four tier keys, zero-filled.
func (r *Repository) QualityAnalytics(ctx context.Context, windowHours int, threshold float64) (*QualityAnalytics, error) {
	result := &QualityAnalytics{
		WindowHours: windowHours,
		Threshold:   threshold,
		TierCounts: map[string]int{
			quality.TierPoor:      0,
			quality.TierFair:      0,
			quality.TierGood:      0,
			quality.TierExcellent: 0,
		},
	}

	cutoff := time.Now().UTC().Add(-time.Duration(windowHours) * time.Hour)

	summary := `
		SELECT COUNT(*),
		       COALESCE(AVG(quality_score), 0),
		       COUNT(*) FILTER (WHERE quality_score >= $2)
		FROM posts
		WHERE posted_at >= $1
	`

	var high int64
	err := r.pool.QueryRow(ctx, summary, cutoff, threshold).Scan(
		&result.TotalPosts, &result.AvgQualityScore, &high,
	)
	if err != nil {
		return nil, fmt.Errorf("quality summary query: %w", err)
	}

	if result.TotalPosts > 0 {
		result.HighQualityPct = float64(high) / float64(result.TotalPosts) * 100
		result.LowQualityPct = 100 - result.HighQualityPct
	}

	tiers := `
		SELECT quality_tier, COUNT(*)
		FROM posts
		WHERE posted_at >= $1
		GROUP BY quality_tier
	`

	rows, err := r.pool.Query(ctx, tiers, cutoff)
	if err != nil {
		return nil, fmt.Errorf("tier distribution query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tier string
		var count int
		if err := rows.Scan(&tier, &count); err != nil {
			return nil, err
		}
		result.TierCounts[tier] = count
	}
	return result, rows.Err()
}
