package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/tickerpulse/backend/internal/market"
	"github.com/tickerpulse/backend/internal/ticker"
	"github.com/tickerpulse/backend/pkg/logger"
	"github.com/tickerpulse/backend/pkg/redis"
)

// StocksHandler serves price history and indicators
type StocksHandler struct {
	service *market.Service
	repo    *market.Repository
	cache   *redis.Cache
	workers int
	logger  *logger.Logger
}

// NewStocksHandler creates a stocks handler
func NewStocksHandler(service *market.Service, repo *market.Repository, cache *redis.Cache, workers int, log *logger.Logger) *StocksHandler {
	return &StocksHandler{
		service: service,
		repo:    repo,
		cache:   cache,
		workers: workers,
		logger:  log,
	}
}

func knownTicker(w http.ResponseWriter, r *http.Request) (string, bool) {
	symbol := strings.ToUpper(mux.Vars(r)["ticker"])
	if !ticker.IsKnownTicker(symbol) {
		respondError(w, http.StatusNotFound, "Unknown ticker symbol")
		return "", false
	}
	return symbol, true
}

// Prices returns stored daily bars for a ticker
// GET /api/stocks/prices/{ticker}?days=
func (h *StocksHandler) Prices(w http.ResponseWriter, r *http.Request) {
	symbol, ok := knownTicker(w, r)
	if !ok {
		return
	}

	days := queryInt(r, "days", 30, 1, 365)

	var prices []market.Price
	err := h.cache.GetOrSet(r.Context(), redis.PriceRangeKey(symbol, days), &prices, redis.TTLDaily, func() (interface{}, error) {
		return h.repo.Range(r.Context(), symbol, days)
	})
	if err != nil {
		h.logger.WithError(err).WithField("ticker", symbol).Error("Failed to get prices")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve prices")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ticker": symbol,
		"days":   days,
		"prices": prices,
		"count":  len(prices),
	})
}

// Latest returns the most recent stored bar
// GET /api/stocks/latest/{ticker}
func (h *StocksHandler) Latest(w http.ResponseWriter, r *http.Request) {
	symbol, ok := knownTicker(w, r)
	if !ok {
		return
	}

	var price *market.Price
	err := h.cache.GetOrSet(r.Context(), redis.LatestPriceKey(symbol), &price, redis.TTLShort, func() (interface{}, error) {
		return h.repo.Latest(r.Context(), symbol)
	})
	if err != nil {
		h.logger.WithError(err).WithField("ticker", symbol).Error("Failed to get latest price")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve latest price")
		return
	}
	if price == nil {
		respondError(w, http.StatusNotFound, "No price history for ticker")
		return
	}

	respondJSON(w, http.StatusOK, price)
}

// Indicators returns technical indicators over stored history
// GET /api/stocks/indicators/{ticker}?days=
func (h *StocksHandler) Indicators(w http.ResponseWriter, r *http.Request) {
	symbol, ok := knownTicker(w, r)
	if !ok {
		return
	}

	days := queryInt(r, "days", 90, 30, 365)

	indicators, err := h.service.IndicatorsFor(r.Context(), symbol, days)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", symbol).Error("Failed to compute indicators")
		respondError(w, http.StatusInternalServerError, "Failed to compute indicators")
		return
	}

	respondJSON(w, http.StatusOK, indicators)
}

// Fetch triggers an on-demand price fetch for a ticker
// POST /api/stocks/fetch/{ticker}?range=
func (h *StocksHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	symbol, ok := knownTicker(w, r)
	if !ok {
		return
	}

	rangeSpec := r.URL.Query().Get("range")
	if rangeSpec == "" {
		rangeSpec = "1mo"
	}

	bars, err := h.service.FetchOne(r.Context(), symbol, rangeSpec)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", symbol).Error("Failed to fetch prices")
		respondError(w, http.StatusBadGateway, "Failed to fetch prices from source")
		return
	}

	// Stored bars changed, cached reads are stale
	if _, err := h.cache.InvalidatePrefix(r.Context(), "stocks:"); err != nil {
		h.logger.WithError(err).Warn("Failed to invalidate stock caches")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ticker": symbol,
		"range":  rangeSpec,
		"bars":   bars,
	})
}

// fetchBatchRequest carries the tickers for a bulk price fetch
type fetchBatchRequest struct {
	Tickers []string `json:"tickers"`
	Range   string   `json:"range"`
}

// FetchBatch fetches daily bars for several tickers through the
// service's worker pool. Per-ticker failures are reported in the
// response, not as an overall error.
// POST /api/stocks/fetch
func (h *StocksHandler) FetchBatch(w http.ResponseWriter, r *http.Request) {
	var req fetchBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Tickers) == 0 {
		respondError(w, http.StatusBadRequest, "At least one ticker is required")
		return
	}
	if req.Range == "" {
		req.Range = "1mo"
	}

	tickers := make([]string, 0, len(req.Tickers))
	for _, raw := range req.Tickers {
		symbol := strings.ToUpper(raw)
		if !ticker.IsKnownTicker(symbol) {
			respondError(w, http.StatusBadRequest, "Unknown ticker symbol: "+symbol)
			return
		}
		tickers = append(tickers, symbol)
	}

	results := h.service.FetchMany(r.Context(), tickers, req.Range, market.Config{Workers: h.workers})

	fetched := make(map[string]int, len(results))
	failed := make(map[string]string)
	for _, result := range results {
		if result.Error != nil {
			failed[result.Ticker] = result.Error.Error()
			continue
		}
		fetched[result.Ticker] = result.Bars
	}

	if _, err := h.cache.InvalidatePrefix(r.Context(), "stocks:"); err != nil {
		h.logger.WithError(err).Warn("Failed to invalidate stock caches")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"range":   req.Range,
		"fetched": fetched,
		"failed":  failed,
	})
}
