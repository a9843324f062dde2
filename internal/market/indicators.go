package market

import "math"

// Technical indicator calculations over daily close series. All
// functions expect bars ordered oldest to newest and return 0 when
// the series is too short for the requested period.

// SMA returns the simple moving average of the last period closes
func SMA(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period {
		return 0
	}

	sum := 0.0
	for _, c := range closes[len(closes)-period:] {
		sum += c
	}
	return sum / float64(period)
}

// EMA returns the exponential moving average series for the closes.
// The first period-1 entries are zero; the period-th entry seeds from
// the SMA of the first period closes.
func EMA(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) < period {
		return nil
	}

	result := make([]float64, len(closes))
	seed := 0.0
	for _, c := range closes[:period] {
		seed += c
	}
	result[period-1] = seed / float64(period)

	k := 2.0 / float64(period+1)
	for i := period; i < len(closes); i++ {
		result[i] = closes[i]*k + result[i-1]*(1-k)
	}
	return result
}

// RSI returns the relative strength index of the series using
// Wilder's smoothing over the given period
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return 0
	}

	var gain, loss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gain += change
		} else {
			loss -= change
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		g, l := 0.0, 0.0
		if change > 0 {
			g = change
		} else {
			l = -change
		}
		avgGain = (avgGain*float64(period-1) + g) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + l) / float64(period)
	}

	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// MACD returns the MACD line, signal line, and histogram for the
// latest bar using the standard 12/26/9 construction
func MACD(closes []float64, fast, slow, signal int) (macd, signalLine, hist float64) {
	if len(closes) < slow+signal {
		return 0, 0, 0
	}

	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)

	// MACD line exists from index slow-1 onward
	line := make([]float64, 0, len(closes)-slow+1)
	for i := slow - 1; i < len(closes); i++ {
		line = append(line, fastEMA[i]-slowEMA[i])
	}

	signalSeries := EMA(line, signal)
	if signalSeries == nil {
		return 0, 0, 0
	}

	macd = line[len(line)-1]
	signalLine = signalSeries[len(signalSeries)-1]
	return macd, signalLine, macd - signalLine
}

// Bollinger returns the upper, middle, and lower bands for the latest
// bar with the given period and standard deviation multiplier
func Bollinger(closes []float64, period int, mult float64) (upper, middle, lower float64) {
	if period <= 0 || len(closes) < period {
		return 0, 0, 0
	}

	middle = SMA(closes, period)

	variance := 0.0
	for _, c := range closes[len(closes)-period:] {
		d := c - middle
		variance += d * d
	}
	variance /= float64(period)

	sd := math.Sqrt(variance)
	return middle + mult*sd, middle, middle - mult*sd
}

// VolumeRatio compares the latest volume to the average of the prior
// period volumes. Values above 1 mean unusually heavy trading.
func VolumeRatio(volumes []int64, period int) float64 {
	if period <= 0 || len(volumes) < period+1 {
		return 0
	}

	sum := int64(0)
	for _, v := range volumes[len(volumes)-period-1 : len(volumes)-1] {
		sum += v
	}
	if sum == 0 {
		return 0
	}
	avg := float64(sum) / float64(period)
	return float64(volumes[len(volumes)-1]) / avg
}

// ComputeIndicators derives the full indicator set from a price
// series ordered oldest to newest
func ComputeIndicators(ticker string, prices []Price) Indicators {
	closes := make([]float64, len(prices))
	volumes := make([]int64, len(prices))
	for i, p := range prices {
		closes[i] = p.Close
		volumes[i] = p.Volume
	}

	macd, signal, hist := MACD(closes, 12, 26, 9)
	upper, middle, lower := Bollinger(closes, 20, 2)

	return Indicators{
		Ticker:      ticker,
		SMA20:       SMA(closes, 20),
		SMA50:       SMA(closes, 50),
		RSI14:       RSI(closes, 14),
		MACD:        macd,
		MACDSignal:  signal,
		MACDHist:    hist,
		BollUpper:   upper,
		BollMiddle:  middle,
		BollLower:   lower,
		VolumeRatio: VolumeRatio(volumes, 20),
	}
}
