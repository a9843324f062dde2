package quality

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
)

// Quality tiers, ordered worst to best
const (
	TierPoor      = "poor"
	TierFair      = "fair"
	TierGood      = "good"
	TierExcellent = "excellent"
)

// Tier breakpoints on the overall score. These are fixed labels,
// independent of the acceptance threshold a Scorer is built with.
const (
	fairThreshold      = 30.0
	goodThreshold      = 50.0
	excellentThreshold = 70.0
)

// Sub-score weights. Must sum to 1; spam contributes inverted.
const (
	engagementWeight  = 0.35
	contentWeight     = 0.30
	upvoteRatioWeight = 0.20
	spamWeight        = 0.15
)

// Engagement floors
const (
	minUpvotes    = 5
	minComments   = 2
	commentWeight = 0.3
)

// Content length bounds, in characters of title+body
const (
	minContentLength = 50
	maxContentLength = 50000
)

// Upvote ratio bands
const (
	brigadingThreshold  = 0.4
	suspiciousHighRatio = 0.99
	healthyMin          = 0.5
	healthyMax          = 0.95
	idealRatio          = 0.7
)

// Spam detection thresholds
const (
	maxEmojiRatio = 0.1
	maxCapsRatio  = 0.3
)

// spamKeywords accumulate +15 penalty each, matched on lowercased text
var spamKeywords = []string{
	"buy bags", "pump it", "diamond hands", "moon", "rocket",
	"lamborghini", "hodl", "gme", "amc", "penny stock",
	"get rich quick", "guaranteed", "can't lose", "sure thing",
	"click here", "limited time", "act now", "exclusive",
	"crypto pump", "nft", "coin", "token", "doge",
}

var (
	emojiPattern    = regexp.MustCompile(`[🚀💎🤑💰💸🌙⭐🔥💯👍👎]`)
	urlPattern      = regexp.MustCompile(`https?://`)
	sentencePattern = regexp.MustCompile(`[.!?]+`)
)

// Assessment is the score breakdown for a single post. All scores are
// kept at full float64 precision; rounding for display happens at the
// API boundary, never here, so stored values stay bit-comparable.
type Assessment struct {
	Overall     float64  `json:"overall_score"`
	Engagement  float64  `json:"engagement_score"`
	Content     float64  `json:"content_score"`
	UpvoteRatio float64  `json:"upvote_ratio_score"`
	Spam        float64  `json:"spam_score"` // higher is worse
	Tier        string   `json:"quality_tier"`
	IsQuality   bool     `json:"is_quality"`
	Flags       []string `json:"flags"`
}

// Scorer computes multi-dimensional quality scores for social posts
// before they enter the pipeline. A Scorer is a pure function of its
// inputs plus the acceptance threshold fixed at construction; it holds
// no other state and is safe for concurrent use.
type Scorer struct {
	minQuality float64
}

// NewScorer creates a scorer whose IsQuality verdict uses the given
// acceptance threshold (0-100). The threshold only drives IsQuality;
// tier labels always use the fixed breakpoints.
func NewScorer(minQuality float64) *Scorer {
	return &Scorer{minQuality: minQuality}
}

// Score computes the quality assessment for a post. It never fails:
// out-of-range numeric inputs degrade to neutral sub-scores instead
// of erroring. Two calls with identical inputs return bit-identical
// assessments.
func (s *Scorer) Score(title, body string, upvotes, downvotes, commentCount int, upvoteRatio float64) Assessment {
	flags := []string{}

	engagement := scoreEngagement(upvotes, commentCount, &flags)
	content := scoreContent(title, body, &flags)
	ratio := scoreUpvoteRatio(upvoteRatio, &flags)
	spam := scoreSpam(title, body, &flags)

	overall := engagement*engagementWeight +
		content*contentWeight +
		ratio*upvoteRatioWeight +
		(100-spam)*spamWeight

	return Assessment{
		Overall:     overall,
		Engagement:  engagement,
		Content:     content,
		UpvoteRatio: ratio,
		Spam:        spam,
		Tier:        TierFor(overall),
		IsQuality:   overall >= s.minQuality,
		Flags:       flags,
	}
}

// TierFor maps an overall score to its tier label
func TierFor(overall float64) string {
	switch {
	case overall >= excellentThreshold:
		return TierExcellent
	case overall >= goodThreshold:
		return TierGood
	case overall >= fairThreshold:
		return TierFair
	default:
		return TierPoor
	}
}

// scoreEngagement rewards community interest on a log scale with
// diminishing returns. Hard floor on upvotes, partial credit when
// discussion is missing.
func scoreEngagement(upvotes, commentCount int, flags *[]string) float64 {
	if upvotes < minUpvotes {
		*flags = append(*flags, fmt.Sprintf("low upvotes: %d < %d", upvotes, minUpvotes))
		return 0.0
	}

	if commentCount < minComments {
		*flags = append(*flags, fmt.Sprintf("low comments: %d < %d", commentCount, minComments))
		return 20.0
	}

	upvoteScore := math.Min(100, math.Log10(float64(upvotes)+1)*30)
	commentScore := math.Min(100, math.Log10(float64(commentCount)+1)*20)

	score := upvoteScore*0.7 + commentScore*commentWeight

	// Bonus for balanced engagement on both axes
	if upvotes >= 20 && commentCount >= 5 {
		score = math.Min(100, score*1.1)
	}

	return score
}

// scoreContent scores length on a log scale; too short is worthless
// and too long is suspicious rather than rewarded.
func scoreContent(title, body string, flags *[]string) float64 {
	full := strings.TrimSpace(title + " " + body)
	length := len([]rune(full))

	if length < minContentLength {
		*flags = append(*flags, fmt.Sprintf("content too short: %d < %d", length, minContentLength))
		return 0.0
	}

	if length > maxContentLength {
		*flags = append(*flags, fmt.Sprintf("content too long: %d > %d", length, maxContentLength))
		return 30.0
	}

	score := math.Min(100, 20+(math.Log10(float64(length))-1.7)*25)

	// Structure bonuses compose, each capped independently
	sentences := len(sentencePattern.Split(body, -1))
	paragraphs := len(strings.Split(body, "\n\n"))

	if sentences >= 3 {
		score = math.Min(100, score*1.1)
	}
	if paragraphs >= 2 {
		score = math.Min(100, score*1.05)
	}

	return score
}

// scoreUpvoteRatio detects vote manipulation in both directions:
// brigading drives the ratio down, artificial engagement drives it
// unnaturally high.
func scoreUpvoteRatio(ratio float64, flags *[]string) float64 {
	if ratio < 0 || ratio > 1 {
		return 50.0
	}

	if ratio < brigadingThreshold {
		*flags = append(*flags, fmt.Sprintf("possible brigading: ratio %.0f%% < %.0f%%", ratio*100, brigadingThreshold*100))
		return 20.0
	}

	if ratio > suspiciousHighRatio {
		*flags = append(*flags, fmt.Sprintf("suspicious high ratio: %.0f%% > %.0f%%", ratio*100, suspiciousHighRatio*100))
		return 40.0
	}

	if ratio >= healthyMin && ratio <= healthyMax {
		return 100 - math.Abs(ratio-idealRatio)*100
	}

	// Inside [0.4, 0.99] but outside the healthy band
	edgeDistance := math.Min(math.Abs(ratio-healthyMin), math.Abs(ratio-healthyMax))
	return 50 + edgeDistance*50
}

// scoreSpam accumulates penalty points from independent indicators.
// Returns 0-100 where higher means more spam; the composite inverts
// it. Caps detection runs on the original case, keyword and emoji
// matching on the lowercased text.
func scoreSpam(title, body string, flags *[]string) float64 {
	original := title + " " + body
	lowered := strings.ToLower(original)

	var penalty float64

	// Emoji density
	emojiCount := len(emojiPattern.FindAllString(lowered, -1))
	textLength := len([]rune(lowered))
	if textLength < 1 {
		textLength = 1
	}
	emojiRatio := float64(emojiCount) / float64(textLength)

	if emojiRatio > maxEmojiRatio {
		*flags = append(*flags, fmt.Sprintf("spam emoji ratio: %.1f%% > %.1f%%", emojiRatio*100, maxEmojiRatio*100))
		penalty += 40
	} else if emojiCount > 3 {
		penalty += 20
	}

	// All-caps shouting, measured on the original case
	capsCount := 0
	for _, r := range original {
		if unicode.IsUpper(r) {
			capsCount++
		}
	}
	capsRatio := float64(capsCount) / float64(textLength)
	if capsRatio > maxCapsRatio {
		*flags = append(*flags, fmt.Sprintf("spam caps ratio: %.1f%% > %.1f%%", capsRatio*100, maxCapsRatio*100))
		penalty += 30
	}

	// Keyword matches accumulate without a per-category cap
	for _, kw := range spamKeywords {
		if strings.Contains(lowered, kw) {
			*flags = append(*flags, fmt.Sprintf("spam keyword detected: %q", kw))
			penalty += 15
		}
	}

	// Link stuffing
	urlCount := len(urlPattern.FindAllString(lowered, -1))
	if urlCount > 3 {
		*flags = append(*flags, fmt.Sprintf("high url count: %d", urlCount))
		penalty += 20
	} else if urlCount > 1 {
		penalty += 10
	}

	// Copy-paste repetition: one long word dominating the text
	words := strings.Fields(lowered)
	if len(words) > 20 {
		freq := make(map[string]int)
		for _, w := range words {
			if len(w) > 3 {
				freq[w]++
			}
		}
		maxFreq := 0
		for _, n := range freq {
			if n > maxFreq {
				maxFreq = n
			}
		}
		repetition := float64(maxFreq) / float64(len(words))
		if repetition > 0.15 {
			*flags = append(*flags, fmt.Sprintf("high word repetition: %.0f%%", repetition*100))
			penalty += 25
		}
	}

	return math.Min(100, penalty)
}
