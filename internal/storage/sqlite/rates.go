package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/tripledger/internal/models"
)

// SetRate inserts or replaces the rate for a currency pair.
func (s *SQLiteStore) SetRate(ctx context.Context, rate models.FXRate) error {
	if rate.UpdatedAt == 0 {
		rate.UpdatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fx_rates (base, quote, rate, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (base, quote) DO UPDATE SET rate = excluded.rate, updated_at = excluded.updated_at`,
		rate.Base, rate.Quote, rate.Rate, rate.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to set rate: %w", err)
	}
	return nil
}

// GetRate returns the stored rate for base→quote, or nil if none.
func (s *SQLiteStore) GetRate(ctx context.Context, base, quote string) (*models.FXRate, error) {
	r := &models.FXRate{}
	err := s.db.QueryRowContext(ctx,
		`SELECT base, quote, rate, updated_at FROM fx_rates WHERE base = ? AND quote = ?`, base, quote,
	).Scan(&r.Base, &r.Quote, &r.Rate, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rate: %w", err)
	}
	return r, nil
}

// ListRates returns every stored rate.
func (s *SQLiteStore) ListRates(ctx context.Context) ([]models.FXRate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT base, quote, rate, updated_at FROM fx_rates ORDER BY base, quote`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}
	defer rows.Close()

	var rates []models.FXRate
	for rows.Next() {
		var r models.FXRate
		if err := rows.Scan(&r.Base, &r.Quote, &r.Rate, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}
		rates = append(rates, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rates: %w", err)
	}
	return rates, nil
}
