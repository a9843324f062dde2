package quality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ddBody = `Interesting analysis from today's earnings call.

Key findings:
1. Revenue beat expectations by 12%
2. Margin expansion despite supply chain challenges
3. Guidance raised for the full year

Sentiment in the big investing subs has been overwhelmingly positive.
This could signal strong upward momentum in the next few weeks.`

func TestScore_StrongResearchPost(t *testing.T) {
	s := NewScorer(50)

	got := s.Score(
		"Analysis of Tesla Q4 earnings and sentiment correlation",
		ddBody,
		150, 20, 42, 0.88,
	)

	assert.Equal(t, TierGood, got.Tier)
	assert.True(t, got.IsQuality)
	assert.InDelta(t, 67.8, got.Overall, 1.5)
	assert.Zero(t, got.Spam)
	assert.Empty(t, got.Flags)
}

func TestScore_HypeSpamPost(t *testing.T) {
	s := NewScorer(50)

	got := s.Score(
		"🚀🚀 MOON SOON 🚀🚀 BUY NOW!!!",
		"BUY BUY BUY!!! GUARANTEED MONEY!!! LAMBORGHINI TIME!!! 💎💰🤑",
		8, 50, 2, 0.14,
	)

	assert.Equal(t, TierPoor, got.Tier)
	assert.False(t, got.IsQuality)
	assert.Greater(t, got.Spam, 80.0)
	assert.Equal(t, 20.0, got.UpvoteRatio, "brigading floor")
	assert.NotEmpty(t, got.Flags)
}

func TestScore_EngagementFloors(t *testing.T) {
	s := NewScorer(50)

	low := s.Score("a title that is long enough to pass the gate", strings.Repeat("word ", 20), 3, 0, 10, 0.7)
	assert.Zero(t, low.Engagement, "upvote floor is a hard zero")
	assert.Contains(t, strings.Join(low.Flags, ";"), "low upvotes")

	// The floor must bite the composite too: the same post at exactly
	// the minimum upvotes scores strictly higher overall.
	atFloor := s.Score("a title that is long enough to pass the gate", strings.Repeat("word ", 20), 5, 0, 10, 0.7)
	assert.Positive(t, atFloor.Engagement)
	assert.Greater(t, atFloor.Overall, low.Overall)

	quiet := s.Score("a title that is long enough to pass the gate", strings.Repeat("word ", 20), 50, 0, 1, 0.7)
	assert.Equal(t, 20.0, quiet.Engagement, "missing discussion caps at partial credit")
	assert.Contains(t, strings.Join(quiet.Flags, ";"), "low comments")
}

func TestScore_EngagementLogScale(t *testing.T) {
	s := NewScorer(50)
	title := "a reasonably descriptive title for this post"
	body := "Some considered discussion follows. It has several sentences. Enough to be real."

	// log10(11)*30*0.7 + log10(11)*20*0.3
	mid := s.Score(title, body, 10, 0, 10, 0.7)
	assert.InDelta(t, 28.12, mid.Engagement, 0.05)

	// Both axes strong earns the 1.1x bonus
	strong := s.Score(title, body, 100, 0, 50, 0.7)
	assert.InDelta(t, 57.57, strong.Engagement, 0.05)
}

func TestScore_ContentBounds(t *testing.T) {
	s := NewScorer(50)

	short := s.Score("hi", "tiny", 50, 0, 10, 0.7)
	assert.Zero(t, short.Content)
	assert.Contains(t, strings.Join(short.Flags, ";"), "content too short")

	long := s.Score("wall of text", strings.Repeat("x", 60000), 50, 0, 10, 0.7)
	assert.Equal(t, 30.0, long.Content, "oversized content is suspicious, not rewarded")
	assert.Contains(t, strings.Join(long.Flags, ";"), "content too long")
}

func TestScore_UpvoteRatioBands(t *testing.T) {
	s := NewScorer(50)
	title := "a reasonably descriptive title for this post"
	body := "Plain discussion body with sufficient length to pass content checks."

	tests := []struct {
		name  string
		ratio float64
		want  float64
	}{
		{"ideal", 0.7, 100},
		{"healthy low edge", 0.5, 80},
		{"healthy high edge", 0.95, 75},
		{"brigaded", 0.3, 20},
		{"artificially high", 0.995, 40},
		{"between brigading and healthy", 0.45, 52.5},
		{"above healthy below suspicious", 0.97, 51},
		{"out of range degrades to neutral", 1.5, 50},
		{"negative degrades to neutral", -0.2, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(title, body, 50, 0, 10, tt.ratio)
			assert.InDelta(t, tt.want, got.UpvoteRatio, 1e-9)
		})
	}
}

func TestScore_SpamKeywordsAccumulate(t *testing.T) {
	s := NewScorer(50)

	got := s.Score(
		"guaranteed gains with this penny stock",
		"Act now, click here for the crypto pump. Limited time, exclusive access, sure thing.",
		50, 0, 10, 0.7,
	)

	// 8 keyword hits at 15 each, capped at 100
	assert.Equal(t, 100.0, got.Spam)
}

func TestScore_Deterministic(t *testing.T) {
	s := NewScorer(50)

	first := s.Score("Analysis of Tesla Q4 earnings", ddBody, 150, 20, 42, 0.88)
	for i := 0; i < 5; i++ {
		again := s.Score("Analysis of Tesla Q4 earnings", ddBody, 150, 20, 42, 0.88)
		require.Equal(t, first, again, "identical inputs must score bit-identically")
	}
}

func TestScore_ThresholdOnlyAffectsIsQuality(t *testing.T) {
	lenient := NewScorer(20)
	strict := NewScorer(80)

	a := lenient.Score("Analysis of Tesla Q4 earnings", ddBody, 150, 20, 42, 0.88)
	b := strict.Score("Analysis of Tesla Q4 earnings", ddBody, 150, 20, 42, 0.88)

	assert.Equal(t, a.Overall, b.Overall)
	assert.Equal(t, a.Tier, b.Tier)
	assert.True(t, a.IsQuality)
	assert.False(t, b.IsQuality)
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		overall float64
		want    string
	}{
		{0, TierPoor},
		{29.99, TierPoor},
		{30, TierFair},
		{49.99, TierFair},
		{50, TierGood},
		{69.99, TierGood},
		{70, TierExcellent},
		{100, TierExcellent},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.overall), "overall=%v", tt.overall)
	}
}
