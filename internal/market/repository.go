package market

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists daily price bars
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new price repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveBatch upserts a batch of daily bars. Re-fetching a range is
// common, so conflicts update in place.
func (r *Repository) SaveBatch(ctx context.Context, prices []Price) error {
	if len(prices) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO stock_prices (ticker, trade_date, open, high, low, close, volume, adj_close)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (ticker, trade_date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume,
			adj_close = EXCLUDED.adj_close
	`

	for _, p := range prices {
		batch.Queue(query, p.Ticker, p.Date, p.Open, p.High, p.Low, p.Close, p.Volume, p.AdjClose)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range prices {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// Range returns bars for a ticker within the window, oldest first
func (r *Repository) Range(ctx context.Context, ticker string, days int) ([]Price, error) {
	query := `
		SELECT ticker, trade_date, open, high, low, close, volume, adj_close
		FROM stock_prices
		WHERE ticker = $1 AND trade_date >= $2
		ORDER BY trade_date ASC
	`

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := r.pool.Query(ctx, query, ticker, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prices []Price
	for rows.Next() {
		var p Price
		if err := rows.Scan(&p.Ticker, &p.Date, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume, &p.AdjClose); err != nil {
			return nil, err
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// Latest returns the most recent bar for a ticker, or nil when the
// ticker has no stored history
func (r *Repository) Latest(ctx context.Context, ticker string) (*Price, error) {
	query := `
		SELECT ticker, trade_date, open, high, low, close, volume, adj_close
		FROM stock_prices
		WHERE ticker = $1
		ORDER BY trade_date DESC
		LIMIT 1
	`

	var p Price
	err := r.pool.QueryRow(ctx, query, ticker).Scan(
		&p.Ticker, &p.Date, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume, &p.AdjClose,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteOlderThan removes bars past the retention horizon
func (r *Repository) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM stock_prices WHERE trade_date < $1`, time.Now().UTC().Add(-age),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
