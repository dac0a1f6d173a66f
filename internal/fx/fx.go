// Package fx resolves exchange rates for unified balance display.
package fx

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/config"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/money"
	"github.com/mmynk/tripledger/internal/storage"
)

type pair struct{ base, quote string }

// Provider looks rates up in the store first and falls back to static rates
// from configuration.
type Provider struct {
	store  storage.RateStore
	static map[pair]float64
}

// NewProvider creates a Provider.
func NewProvider(store storage.RateStore, static []config.Rate) *Provider {
	p := &Provider{store: store, static: make(map[pair]float64, len(static))}
	for _, r := range static {
		p.static[pair{r.Base, r.Quote}] = r.Rate
	}
	return p
}

// SetRate stores a rate. One unit of base costs rate units of quote.
func (p *Provider) SetRate(ctx context.Context, base, quote string, rate float64) (models.FXRate, error) {
	b, okB := money.NormalizeCurrency(base)
	q, okQ := money.NormalizeCurrency(quote)
	if !okB {
		return models.FXRate{}, apperr.Validation("base", "invalid currency %q", base)
	}
	if !okQ {
		return models.FXRate{}, apperr.Validation("quote", "invalid currency %q", quote)
	}
	if b == q {
		return models.FXRate{}, apperr.Validation("quote", "must differ from base")
	}
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return models.FXRate{}, apperr.Validation("rate", "must be a positive number, got %v", rate)
	}
	r := models.FXRate{Base: b, Quote: q, Rate: rate, UpdatedAt: time.Now().Unix()}
	if err := p.store.SetRate(ctx, r); err != nil {
		return models.FXRate{}, err
	}
	return r, nil
}

// Table is a snapshot of every known rate.
type Table struct {
	stored map[pair]float64
	static map[pair]float64
}

// Snapshot loads the stored rates. The returned Table does no I/O.
func (p *Provider) Snapshot(ctx context.Context) (*Table, error) {
	rates, err := p.store.ListRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}
	t := &Table{stored: make(map[pair]float64, len(rates)), static: p.static}
	for _, r := range rates {
		t.stored[pair{r.Base, r.Quote}] = r.Rate
	}
	return t, nil
}

// Rate returns how many units of to one unit of from costs. Lookup order is
// stored direct, stored inverse, static direct, static inverse.
func (t *Table) Rate(from, to string) (float64, bool) {
	if from == to {
		return 1, true
	}
	for _, m := range []map[pair]float64{t.stored, t.static} {
		if r, ok := m[pair{from, to}]; ok && r > 0 {
			return r, true
		}
		if r, ok := m[pair{to, from}]; ok && r > 0 {
			return 1 / r, true
		}
	}
	return 0, false
}

// For returns a RateFunc converting into pivot.
func (t *Table) For(pivot string) calculator.RateFunc {
	return func(currency string) (float64, bool) {
		return t.Rate(currency, pivot)
	}
}

// Convert converts amount from one currency into another at the current
// rate. A missing rate is a validation error.
func (p *Provider) Convert(ctx context.Context, amount money.Cents, from, to string) (money.Cents, error) {
	if from == to {
		return amount, nil
	}
	t, err := p.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	r, ok := t.Rate(from, to)
	if !ok {
		return 0, apperr.Validation("currency", "no exchange rate from %s to %s", from, to)
	}
	return amount.Convert(r), nil
}

// ListRates returns the stored rates.
func (p *Provider) ListRates(ctx context.Context) ([]models.FXRate, error) {
	return p.store.ListRates(ctx)
}
