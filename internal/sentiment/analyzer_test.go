package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze_EmptyInput(t *testing.T) {
	a := NewAnalyzer()

	assert.Zero(t, a.Analyze(""))
	assert.Zero(t, a.Analyze("   \n\t  "))
}

func TestAnalyze_Polarity(t *testing.T) {
	a := NewAnalyzer()

	tests := []struct {
		name string
		text string
		sign int // -1 negative, 0 neutral, +1 positive
	}{
		{"bullish slang", "GME to the moon, diamond hands, massive gains ahead", +1},
		{"bearish slang", "total crash incoming, everyone gets rekt, bagholder city", -1},
		{"plain positive", "great earnings, strong growth, really good quarter", +1},
		{"plain negative", "terrible guidance, weak demand, horrible quarter", -1},
		{"no sentiment words", "the quarterly report was filed on Tuesday", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := a.Analyze(tt.text)
			assert.GreaterOrEqual(t, score, -1.0)
			assert.LessOrEqual(t, score, 1.0)

			switch tt.sign {
			case +1:
				assert.Greater(t, score, 0.05)
			case -1:
				assert.Less(t, score, -0.05)
			default:
				assert.InDelta(t, 0.0, score, 0.05)
			}
		})
	}
}

func TestAnalyze_NegationFlips(t *testing.T) {
	a := NewAnalyzer()

	plain := a.Analyze("this stock is good")
	negated := a.Analyze("this stock is not good")

	assert.Positive(t, plain)
	assert.Negative(t, negated)
	assert.Less(t, -negated, plain, "negation dampens as well as flips")
}

func TestAnalyze_BoosterIntensifies(t *testing.T) {
	a := NewAnalyzer()

	assert.Greater(t, a.Analyze("really bullish on this"), a.Analyze("bullish on this"))
	assert.Less(t, a.Analyze("extremely bearish here"), a.Analyze("bearish here"))
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := NewAnalyzer()
	text := "yolo calls, moon soon, but the dip scares me"

	first := a.Analyze(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, a.Analyze(text))
	}
}

func TestClassify(t *testing.T) {
	a := NewAnalyzer()

	assert.Equal(t, Positive, a.Classify(0.05))
	assert.Equal(t, Positive, a.Classify(0.9))
	assert.Equal(t, Negative, a.Classify(-0.05))
	assert.Equal(t, Negative, a.Classify(-0.7))
	assert.Equal(t, Neutral, a.Classify(0.0))
	assert.Equal(t, Neutral, a.Classify(0.049))
	assert.Equal(t, Neutral, a.Classify(-0.049))
}
