package market

import (
	"context"
	"sync"

	"github.com/tickerpulse/backend/pkg/logger"
)

// PriceSource fetches daily bars for one ticker from an external API
type PriceSource interface {
	DailyPrices(ctx context.Context, ticker, rangeSpec string) ([]Price, error)
}

// Service orchestrates price collection from the external source into
// the repository
type Service struct {
	source PriceSource
	repo   *Repository
	logger *logger.Logger
}

// Config holds service configuration
type Config struct {
	Workers int // concurrent fetch workers
}

// NewService creates a market data service
func NewService(source PriceSource, repo *Repository, log *logger.Logger) *Service {
	return &Service{
		source: source,
		repo:   repo,
		logger: log.WithField("module", "market"),
	}
}

// FetchResult is the outcome of one ticker's collection
type FetchResult struct {
	Ticker string
	Bars   int
	Error  error
}

// FetchOne fetches and stores daily bars for a single ticker
func (s *Service) FetchOne(ctx context.Context, ticker, rangeSpec string) (int, error) {
	prices, err := s.source.DailyPrices(ctx, ticker, rangeSpec)
	if err != nil {
		return 0, err
	}

	if err := s.repo.SaveBatch(ctx, prices); err != nil {
		return 0, err
	}
	return len(prices), nil
}

// FetchMany fetches daily bars for every ticker through a worker
// pool. Per-ticker failures are captured in the results rather than
// aborting the batch.
func (s *Service) FetchMany(ctx context.Context, tickers []string, rangeSpec string, cfg Config) []FetchResult {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	s.logger.WithFields(map[string]interface{}{
		"tickers": len(tickers),
		"range":   rangeSpec,
		"workers": workers,
	}).Info("Starting price collection")

	tickerCh := make(chan string, len(tickers))
	resultCh := make(chan FetchResult, len(tickers))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.fetchWorker(ctx, workerID, tickerCh, resultCh, rangeSpec)
		}(i)
	}

	for _, t := range tickers {
		tickerCh <- t
	}
	close(tickerCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]FetchResult, 0, len(tickers))
	success, failed := 0, 0
	for result := range resultCh {
		results = append(results, result)
		if result.Error != nil {
			failed++
		} else {
			success++
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"success": success,
		"failed":  failed,
		"total":   len(results),
	}).Info("Price collection completed")

	return results
}

func (s *Service) fetchWorker(ctx context.Context, workerID int, tickerCh <-chan string, resultCh chan<- FetchResult, rangeSpec string) {
	for ticker := range tickerCh {
		select {
		case <-ctx.Done():
			resultCh <- FetchResult{Ticker: ticker, Error: ctx.Err()}
			return
		default:
		}

		bars, err := s.FetchOne(ctx, ticker, rangeSpec)
		if err != nil {
			s.logger.WithError(err).WithFields(map[string]interface{}{
				"worker": workerID,
				"ticker": ticker,
			}).Error("Failed to collect prices")
			resultCh <- FetchResult{Ticker: ticker, Error: err}
			continue
		}

		resultCh <- FetchResult{Ticker: ticker, Bars: bars}
	}
}

// IndicatorsFor computes the indicator set from stored history
func (s *Service) IndicatorsFor(ctx context.Context, ticker string, days int) (*Indicators, error) {
	prices, err := s.repo.Range(ctx, ticker, days)
	if err != nil {
		return nil, err
	}

	ind := ComputeIndicators(ticker, prices)
	return &ind, nil
}
