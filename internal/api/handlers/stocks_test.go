package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickerpulse/backend/internal/market"
	"github.com/tickerpulse/backend/pkg/config"
	"github.com/tickerpulse/backend/pkg/logger"
	"github.com/tickerpulse/backend/pkg/redis"
)

// fakeSource serves empty histories and fails the configured tickers
type fakeSource struct {
	fail map[string]bool
}

func (f fakeSource) DailyPrices(ctx context.Context, ticker, rangeSpec string) ([]market.Price, error) {
	if f.fail[ticker] {
		return nil, errors.New("ticker delisted")
	}
	return []market.Price{}, nil
}

func newBatchHandler(t *testing.T, source fakeSource) *StocksHandler {
	t.Helper()

	cfg := &config.Config{LogLevel: "error", LogFormat: "console"}
	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	require.NoError(t, err)

	service := market.NewService(source, market.NewRepository(nil), log)
	return NewStocksHandler(service, nil, redis.NewCache(redisClient, "test"), 3, log)
}

func postBatch(h *StocksHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/stocks/fetch", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.FetchBatch(rec, req)
	return rec
}

func TestFetchBatch_RejectsBadRequests(t *testing.T) {
	h := newBatchHandler(t, fakeSource{})

	tests := []struct {
		name string
		body string
	}{
		{"malformed body", "{not json"},
		{"no tickers", `{"tickers":[]}`},
		{"unknown ticker", `{"tickers":["AAPL","ZZZZZ"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postBatch(h, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestFetchBatch_ReportsPerTickerOutcomes(t *testing.T) {
	h := newBatchHandler(t, fakeSource{fail: map[string]bool{"NVDA": true}})

	rec := postBatch(h, `{"tickers":["aapl","NVDA"],"range":"3mo"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Range   string            `json:"range"`
		Fetched map[string]int    `json:"fetched"`
		Failed  map[string]string `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "3mo", resp.Range)
	assert.Contains(t, resp.Fetched, "AAPL", "lowercase input normalized")
	assert.Contains(t, resp.Failed, "NVDA")
	assert.NotContains(t, resp.Fetched, "NVDA")
}
