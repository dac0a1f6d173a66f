package calculator

import "testing"

func TestUnify(t *testing.T) {
	b := Balances{
		"EUR": {"A": 1000, "B": -1000},
		"THB": {"A": -3850, "B": 3850},
		"JPY": {"A": 500, "B": -500},
	}
	rates := map[string]float64{"THB": 1 / 38.5}
	rate := func(currency string) (float64, bool) {
		r, ok := rates[currency]
		return r, ok
	}

	u := Unify(b, "EUR", rate)
	if u.Pivot != "EUR" {
		t.Errorf("Pivot = %s", u.Pivot)
	}
	if u.Totals["A"] != 900 || u.Totals["B"] != -900 {
		t.Errorf("Totals = %v, want A=900 B=-900", u.Totals)
	}
	if len(u.Dropped) != 1 || u.Dropped[0] != "JPY" {
		t.Errorf("Dropped = %v, want [JPY]", u.Dropped)
	}
}

func TestUnify_InvalidRateIsDropped(t *testing.T) {
	b := Balances{"USD": {"A": 100, "B": -100}}
	u := Unify(b, "EUR", func(string) (float64, bool) { return 0, true })
	if len(u.Dropped) != 1 {
		t.Errorf("zero rate should drop the currency, got %v", u.Dropped)
	}
	if got, ok := u.Totals["A"]; !ok || got != 0 {
		t.Errorf("A should be present with 0, got %d (present=%v)", got, ok)
	}
}

func TestTripLedgerContext_UnifiedDefaultsToBaseCurrency(t *testing.T) {
	var ctx TripLedgerContext
	ctx.Trip.BaseCurrency = "THB"
	u := ctx.Unified("", func(string) (float64, bool) { return 0, false })
	if u.Pivot != "THB" {
		t.Errorf("Pivot = %s, want THB", u.Pivot)
	}
}
