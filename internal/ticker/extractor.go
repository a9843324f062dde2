package ticker

import (
	"regexp"
	"sort"
	"strings"
)

// tickerPattern matches cashtags ($AAPL) and bare all-caps words of
// 2-5 letters. The input is uppercased before matching, so the word
// boundaries are enough to isolate candidate tokens.
var tickerPattern = regexp.MustCompile(`\$([A-Z]{1,5})\b|\b([A-Z]{2,5})\b`)

// Extract returns the known tickers mentioned in text, deduplicated
// and sorted. Matching is case-insensitive; candidates must survive
// the blacklist and appear in the whitelist. Extract never fails: any
// input, including empty or non-English text, yields a valid slice.
func Extract(text string) []string {
	matches := tickerPattern.FindAllStringSubmatch(strings.ToUpper(text), -1)

	seen := make(map[string]struct{})
	for _, m := range matches {
		symbol := m[1]
		if symbol == "" {
			symbol = m[2]
		}

		if _, blocked := blacklist[symbol]; blocked {
			continue
		}
		if _, known := whitelist[symbol]; !known {
			continue
		}
		seen[symbol] = struct{}{}
	}

	tickers := make([]string, 0, len(seen))
	for symbol := range seen {
		tickers = append(tickers, symbol)
	}
	sort.Strings(tickers)

	return tickers
}

// stockKeywords are terms whose presence near a ticker suggests the
// mention is about the stock rather than an unrelated acronym.
var stockKeywords = []string{
	"STOCK", "BUY", "SELL", "TRADE", "PRICE", "EARNINGS", "DIVIDEND",
	"SHARES", "SHARE", "TRADING", "BULLISH", "BEARISH", "CALL", "PUT",
	"OPTION", "OPTIONS", "SHORT", "LONG", "POSITION", "UPSIDE", "DOWNSIDE",
	"$", "TICKER", "SYMBOL", "COMPANY", "CORPORATION", "INC",
	"CORP", "LTD", "FINANCIAL", "INVESTOR", "INVESTMENT", "PROFIT",
	"REVENUE", "MARGIN", "RATIO", "ANALYSIS", "FORECAST", "PUMP", "DUMP",
	"MOON", "DIAMOND", "HANDS", "ROCKET", "IPO", "ETF", "PORTFOLIO", "DD",
}

// HasStockContext reports whether ticker appears within contextWindow
// characters of a stock-related keyword in text. Used to filter out
// mentions where a symbol is likely an ordinary acronym.
func HasStockContext(text, ticker string, contextWindow int) bool {
	textUpper := strings.ToUpper(text)
	tickerUpper := strings.ToUpper(ticker)

	pos := strings.Index(textUpper, tickerUpper)
	if pos < 0 {
		return false
	}

	start := pos - contextWindow
	if start < 0 {
		start = 0
	}
	end := pos + len(tickerUpper) + contextWindow
	if end > len(textUpper) {
		end = len(textUpper)
	}
	window := textUpper[start:end]

	for _, kw := range stockKeywords {
		if strings.Contains(window, kw) {
			return true
		}
	}
	return false
}
