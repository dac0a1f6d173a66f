package fx

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/config"
	"github.com/mmynk/tripledger/internal/money"
	"github.com/mmynk/tripledger/internal/storage/sqlite"
)

func newProvider(t *testing.T, static string) *Provider {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	rates, err := config.ParseRates(static)
	if err != nil {
		t.Fatalf("ParseRates failed: %v", err)
	}
	return NewProvider(store, rates)
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTableRate(t *testing.T) {
	ctx := context.Background()
	p := newProvider(t, "EUR:THB=38.5,USD:THB=36.1")
	if _, err := p.SetRate(ctx, "eur", "usd", 1.08); err != nil {
		t.Fatalf("SetRate failed: %v", err)
	}
	// Stored rates win over static ones.
	if _, err := p.SetRate(ctx, "EUR", "THB", 40); err != nil {
		t.Fatalf("SetRate failed: %v", err)
	}

	table, err := p.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	tests := []struct {
		from, to string
		want     float64
		ok       bool
	}{
		{"EUR", "EUR", 1, true},
		{"EUR", "USD", 1.08, true},
		{"USD", "EUR", 1 / 1.08, true},
		{"EUR", "THB", 40, true},
		{"THB", "EUR", 1.0 / 40, true},
		{"USD", "THB", 36.1, true},
		{"THB", "USD", 1 / 36.1, true},
		{"GBP", "THB", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.from+"_"+tt.to, func(t *testing.T) {
			got, ok := table.Rate(tt.from, tt.to)
			if ok != tt.ok || !near(got, tt.want) {
				t.Errorf("Rate(%s, %s) = %v, %v; want %v, %v", tt.from, tt.to, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTableFor(t *testing.T) {
	p := newProvider(t, "EUR:THB=38.5")
	table, err := p.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	b := calculator.Balances{
		"THB": {"a": 3850, "b": -3850},
		"GBP": {"a": -100, "b": 100},
	}
	u := calculator.Unify(b, "EUR", table.For("EUR"))
	if u.Totals["a"] != 100 || u.Totals["b"] != -100 {
		t.Errorf("unexpected totals: %+v", u.Totals)
	}
	if len(u.Dropped) != 1 || u.Dropped[0] != "GBP" {
		t.Errorf("Dropped = %v, want [GBP]", u.Dropped)
	}
}

func TestSetRateValidation(t *testing.T) {
	p := newProvider(t, "")
	ctx := context.Background()
	for _, tc := range []struct {
		base, quote string
		rate        float64
	}{
		{"EUR", "EUR", 1},
		{"EURO", "THB", 1},
		{"EUR", "THB", 0},
		{"EUR", "THB", -2},
	} {
		if _, err := p.SetRate(ctx, tc.base, tc.quote, tc.rate); !apperr.IsValidation(err) {
			t.Errorf("SetRate(%s, %s, %v) = %v, want ValidationError", tc.base, tc.quote, tc.rate, err)
		}
	}
}

func TestConvert(t *testing.T) {
	p := newProvider(t, "EUR:THB=40")
	ctx := context.Background()

	tests := []struct {
		amount   money.Cents
		from, to string
		want     money.Cents
	}{
		{1234, "THB", "THB", 1234},
		{1000, "EUR", "THB", 40000},
		{4000, "THB", "EUR", 100},
		{1, "THB", "EUR", 0},
	}
	for _, tt := range tests {
		got, err := p.Convert(ctx, tt.amount, tt.from, tt.to)
		if err != nil {
			t.Fatalf("Convert(%d, %s, %s) failed: %v", tt.amount, tt.from, tt.to, err)
		}
		if got != tt.want {
			t.Errorf("Convert(%d, %s, %s) = %d, want %d", tt.amount, tt.from, tt.to, got, tt.want)
		}
	}

	if _, err := p.Convert(ctx, 100, "USD", "THB"); !apperr.IsValidation(err) {
		t.Errorf("missing rate: expected ValidationError, got %v", err)
	}
}
