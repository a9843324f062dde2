package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rising(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = 100 + float64(i)
	}
	return s
}

func TestSMA(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}

	assert.InDelta(t, 4.0, SMA(closes, 3), 1e-9)
	assert.InDelta(t, 3.0, SMA(closes, 5), 1e-9)
	assert.Zero(t, SMA(closes, 6), "short series yields zero")
	assert.Zero(t, SMA(closes, 0))
}

func TestEMA(t *testing.T) {
	closes := []float64{10, 10, 10, 10, 20}

	ema := EMA(closes, 4)
	assert.Len(t, ema, 5)
	assert.InDelta(t, 10.0, ema[3], 1e-9, "seeded from SMA")
	// k = 2/5 = 0.4: 20*0.4 + 10*0.6
	assert.InDelta(t, 14.0, ema[4], 1e-9)

	assert.Nil(t, EMA(closes, 6))
}

func TestRSI(t *testing.T) {
	// Strictly rising series has no losses
	assert.InDelta(t, 100.0, RSI(rising(30), 14), 1e-9)

	// Strictly falling series has no gains
	falling := make([]float64, 30)
	for i := range falling {
		falling[i] = 200 - float64(i)
	}
	assert.InDelta(t, 0.0, RSI(falling, 14), 1e-9)

	assert.Zero(t, RSI(rising(10), 14), "short series yields zero")

	// Alternating gains and losses of equal size settle near 50
	alternating := make([]float64, 40)
	for i := range alternating {
		if i%2 == 0 {
			alternating[i] = 100
		} else {
			alternating[i] = 101
		}
	}
	rsi := RSI(alternating, 14)
	assert.Greater(t, rsi, 40.0)
	assert.Less(t, rsi, 60.0)
}

func TestMACD(t *testing.T) {
	macd, signal, hist := MACD(rising(60), 12, 26, 9)

	// In a steady uptrend the fast EMA sits above the slow EMA
	assert.Positive(t, macd)
	assert.Positive(t, signal)
	assert.InDelta(t, macd-signal, hist, 1e-9)

	m, s, h := MACD(rising(20), 12, 26, 9)
	assert.Zero(t, m)
	assert.Zero(t, s)
	assert.Zero(t, h)
}

func TestBollinger(t *testing.T) {
	flat := make([]float64, 25)
	for i := range flat {
		flat[i] = 50
	}

	upper, middle, lower := Bollinger(flat, 20, 2)
	assert.InDelta(t, 50.0, upper, 1e-9, "zero variance collapses the bands")
	assert.InDelta(t, 50.0, middle, 1e-9)
	assert.InDelta(t, 50.0, lower, 1e-9)

	upper, middle, lower = Bollinger(rising(25), 20, 2)
	assert.Greater(t, upper, middle)
	assert.Less(t, lower, middle)
}

func TestVolumeRatio(t *testing.T) {
	volumes := make([]int64, 21)
	for i := range volumes {
		volumes[i] = 1000
	}
	volumes[20] = 3000

	assert.InDelta(t, 3.0, VolumeRatio(volumes, 20), 1e-9)
	assert.Zero(t, VolumeRatio(volumes[:10], 20))
}

func TestComputeIndicators(t *testing.T) {
	prices := make([]Price, 60)
	for i := range prices {
		prices[i] = Price{Close: 100 + float64(i), Volume: 1000}
	}

	got := ComputeIndicators("NVDA", prices)

	assert.Equal(t, "NVDA", got.Ticker)
	assert.InDelta(t, 149.5, got.SMA20, 1e-9)
	assert.InDelta(t, 134.5, got.SMA50, 1e-9)
	assert.InDelta(t, 100.0, got.RSI14, 1e-9)
	assert.Positive(t, got.MACD)
	assert.Greater(t, got.BollUpper, got.BollLower)
	assert.InDelta(t, 1.0, got.VolumeRatio, 1e-9)
}
