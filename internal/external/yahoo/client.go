package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tickerpulse/backend/internal/market"
	"github.com/tickerpulse/backend/pkg/config"
	"github.com/tickerpulse/backend/pkg/httputil"
	"github.com/tickerpulse/backend/pkg/logger"
	"github.com/tickerpulse/backend/pkg/redis"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client fetches daily price history from the public chart API.
// Rate limiting is layered: a process-local token bucket smooths
// bursts and the shared Redis limiter enforces the global budget
// across processes.
type Client struct {
	http    *httputil.Client
	baseURL string
	logger  *logger.Logger
}

// New creates a chart API client
func New(cfg *config.Config, log *logger.Logger, limiter *redis.RateLimiter) *Client {
	baseURL := cfg.Yahoo.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	http := httputil.NewWithTimeout(cfg, log, 15*time.Second).
		WithUserAgent("Mozilla/5.0 (compatible; tickerpulse/1.0)").
		WithLocalLimit(0.5, 1)
	if limiter != nil {
		http = http.WithRateLimiter(limiter, redis.YahooRateLimit)
	}

	return &Client{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log,
	}
}

// DailyPrices returns daily OHLCV bars for the ticker covering the
// given range (e.g. "1mo", "3mo", "1y"), oldest first. Bars with
// missing quote data are dropped rather than zero-filled.
func (c *Client) DailyPrices(ctx context.Context, ticker, rangeSpec string) ([]market.Price, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(ticker),
		url.Values{
			"range":    {rangeSpec},
			"interval": {"1d"},
			"events":   {"div,split"},
		}.Encode())

	var payload chartResponse
	if err := c.http.GetJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("chart request for %s: %w", ticker, err)
	}

	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s: %s (%s)",
			ticker, payload.Chart.Error.Description, payload.Chart.Error.Code)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart API returned no result for %s", ticker)
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart API returned no quote data for %s", ticker)
	}
	quote := result.Indicators.Quote[0]

	var adjClose []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adjClose = result.Indicators.AdjClose[0].AdjClose
	}

	prices := make([]market.Price, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}

		p := market.Price{
			Ticker: strings.ToUpper(ticker),
			Date:   time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close:  *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			p.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			p.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			p.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			p.Volume = *quote.Volume[i]
		}
		if i < len(adjClose) && adjClose[i] != nil {
			p.AdjClose = *adjClose[i]
		} else {
			p.AdjClose = p.Close
		}

		prices = append(prices, p)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"range":  rangeSpec,
		"bars":   len(prices),
	}).Debug("Fetched price history")

	return prices, nil
}

// LatestPrice returns the regular market price from chart metadata
func (c *Client) LatestPrice(ctx context.Context, ticker string) (float64, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=1d", c.baseURL, url.PathEscape(ticker))

	var payload chartResponse
	if err := c.http.GetJSON(ctx, endpoint, &payload); err != nil {
		return 0, fmt.Errorf("quote request for %s: %w", ticker, err)
	}

	if payload.Chart.Error != nil {
		return 0, fmt.Errorf("chart API error for %s: %s", ticker, payload.Chart.Error.Code)
	}
	if len(payload.Chart.Result) == 0 {
		return 0, fmt.Errorf("chart API returned no result for %s", ticker)
	}

	return payload.Chart.Result[0].Meta.RegularMarketPrice, nil
}
