package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ndewijer/stock-ledger/internal/apperrors"
	"github.com/ndewijer/stock-ledger/internal/model"
)

// PriceRepository provides data access methods for the current_price table,
// the persisted form of the portfolio's price map.
type PriceRepository struct {
	db *sql.DB
}

// NewPriceRepository creates a new PriceRepository with the provided database connection.
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// ListPrices retrieves every stored price ordered by ticker.
func (r *PriceRepository) ListPrices(ctx context.Context) ([]model.CurrentPrice, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ticker, price, updated_at
		FROM current_price
		ORDER BY ticker ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query current_price table: %w", err)
	}
	defer rows.Close()

	prices := []model.CurrentPrice{}
	for rows.Next() {
		var p model.CurrentPrice
		var updatedAtStr sql.NullString

		if err := rows.Scan(&p.Ticker, &p.Price, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan current_price results: %w", err)
		}
		if updatedAtStr.Valid && updatedAtStr.String != "" {
			p.UpdatedAt, err = ParseTime(updatedAtStr.String)
			if err != nil {
				return nil, err
			}
		}
		prices = append(prices, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating current_price table: %w", err)
	}

	return prices, nil
}

// GetPriceMap retrieves the stored prices keyed by ticker.
func (r *PriceRepository) GetPriceMap(ctx context.Context) (model.PriceMap, error) {
	prices, err := r.ListPrices(ctx)
	if err != nil {
		return nil, err
	}

	priceMap := make(model.PriceMap, len(prices))
	for _, p := range prices {
		priceMap[p.Ticker] = p.Price
	}
	return priceMap, nil
}

// UpsertPrice stores the current price for a ticker, replacing any previous value.
func (r *PriceRepository) UpsertPrice(ctx context.Context, p model.CurrentPrice) error {
	query := `
		INSERT INTO current_price (ticker, price, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET
			price = excluded.price,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, p.Ticker, p.Price, p.UpdatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert price for %s: %w", p.Ticker, err)
	}
	return nil
}

// DeletePrice removes the stored price for a ticker.
// Returns apperrors.ErrPriceNotFound if no price is stored for it.
func (r *PriceRepository) DeletePrice(ctx context.Context, ticker string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM current_price WHERE ticker = ?`, ticker)
	if err != nil {
		return fmt.Errorf("failed to delete price for %s: %w", ticker, err)
	}

	return requireAffected(result, apperrors.ErrPriceNotFound, ticker)
}
