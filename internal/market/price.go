package market

import "time"

// Price is one daily OHLCV bar for a ticker
type Price struct {
	Ticker   string    `json:"ticker"`
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   int64     `json:"volume"`
	AdjClose float64   `json:"adj_close"`
}

// Indicators are the technical indicators computed over a price
// series, reported for the most recent bar
type Indicators struct {
	Ticker      string  `json:"ticker"`
	SMA20       float64 `json:"sma_20"`
	SMA50       float64 `json:"sma_50"`
	RSI14       float64 `json:"rsi_14"`
	MACD        float64 `json:"macd"`
	MACDSignal  float64 `json:"macd_signal"`
	MACDHist    float64 `json:"macd_hist"`
	BollUpper   float64 `json:"boll_upper"`
	BollMiddle  float64 `json:"boll_middle"`
	BollLower   float64 `json:"boll_lower"`
	VolumeRatio float64 `json:"volume_ratio"`
}
