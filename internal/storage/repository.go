package storage

import (
	"context"
	"database/sql"
	"fmt"

	"stockfetcher/internal/prices"
)

const createTable = `CREATE TABLE IF NOT EXISTS stock_prices (
	ticker     TEXT    NOT NULL,
	trade_date DATE    NOT NULL,
	open       NUMERIC NOT NULL,
	high       NUMERIC NOT NULL,
	low        NUMERIC NOT NULL,
	close      NUMERIC NOT NULL,
	adj_close  NUMERIC NOT NULL,
	volume     BIGINT  NOT NULL,
	PRIMARY KEY (ticker, trade_date)
)`

const upsertPrice = `INSERT INTO stock_prices (ticker, trade_date, open, high, low, close, adj_close, volume)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (ticker, trade_date) DO UPDATE SET
	open = EXCLUDED.open,
	high = EXCLUDED.high,
	low = EXCLUDED.low,
	close = EXCLUDED.close,
	adj_close = EXCLUDED.adj_close,
	volume = EXCLUDED.volume`

// PriceRepository mirrors consolidated tables into a database.
type PriceRepository interface {
	EnsureSchema(ctx context.Context) error
	SavePrices(ctx context.Context, t prices.Table) error
}

type priceRepository struct {
	db *sql.DB
}

// NewPriceRepository returns a repository backed by db.
func NewPriceRepository(db *sql.DB) PriceRepository {
	return &priceRepository{db: db}
}

// EnsureSchema creates the stock_prices table when missing.
func (r *priceRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("create stock_prices: %w", err)
	}
	return nil
}

// SavePrices upserts every row of t in a single transaction, so re-running
// with the same data leaves the table unchanged.
func (r *priceRepository) SavePrices(ctx context.Context, t prices.Table) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, upsertPrice)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, rec := range t {
		if _, err := stmt.ExecContext(ctx,
			rec.Ticker,
			rec.Date,
			rec.Open,
			rec.High,
			rec.Low,
			rec.Close,
			rec.AdjClose,
			rec.Volume,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return fmt.Errorf("upsert %s %s: %w", rec.Ticker, rec.Date.Format(prices.DateLayout), err)
		}
	}

	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
