package sentiment

import (
	"math"
	"strings"
	"unicode"
)

// Classification labels
const (
	Positive = "positive"
	Negative = "negative"
	Neutral  = "neutral"
)

// classification thresholds on the compound score
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// negationDampen flips and reduces valence after a negation word
const negationDampen = -0.74

// Analyzer scores free text on a compound scale from -1 (most
// negative) to +1 (most positive) using a valence lexicon tuned for
// trading-forum language. Analyzer is stateless and safe for
// concurrent use; construct one per component that needs it.
type Analyzer struct{}

// NewAnalyzer creates a sentiment analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze returns the compound sentiment score for text, in [-1, 1].
// Empty or whitespace-only input scores exactly 0.
func (a *Analyzer) Analyze(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0.0
	}

	tokens := tokenize(text)

	var sum float64
	for i, tok := range tokens {
		valence, ok := lexicon[tok]
		if !ok {
			continue
		}

		// Booster immediately before the sentiment word
		if i > 0 {
			if boost, ok := boosters[tokens[i-1]]; ok {
				if valence > 0 {
					valence += boost
				} else {
					valence -= boost
				}
			}
		}

		// Negation within the three preceding tokens
		if negatedBefore(tokens, i) {
			valence *= negationDampen
		}

		sum += valence
	}

	return normalize(sum)
}

// Classify maps a compound score to positive, negative, or neutral
func (a *Analyzer) Classify(score float64) string {
	switch {
	case score >= positiveThreshold:
		return Positive
	case score <= negativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

func negatedBefore(tokens []string, i int) bool {
	start := i - 3
	if start < 0 {
		start = 0
	}
	for j := start; j < i; j++ {
		if _, ok := negations[tokens[j]]; ok {
			return true
		}
	}
	return false
}

// tokenize lowercases and splits text on anything that is not a
// letter, digit, or apostrophe, keeping contractions intact
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// normalize maps an unbounded valence sum into [-1, 1] using the
// standard VADER normalization constant
func normalize(score float64) float64 {
	norm := score / math.Sqrt(score*score+15)
	if norm > 1 {
		return 1
	}
	if norm < -1 {
		return -1
	}
	return norm
}
