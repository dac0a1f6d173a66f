package calculator

import (
	"log/slog"
	"math"

	"github.com/mmynk/tripledger/internal/money"
)

// RateFunc returns the rate converting one unit of currency into the pivot.
// ok is false when no rate is known.
type RateFunc func(currency string) (rate float64, ok bool)

// Unified is a set of balances converted into a single pivot currency.
type Unified struct {
	Pivot  string
	Totals map[string]money.Cents

	// Dropped lists the currencies left out for lack of a rate, sorted.
	Dropped []string
}

// Unify converts per-currency balances into the pivot currency. A currency
// without a usable rate is dropped for every member instead of being summed
// at an implicit 1:1.
func Unify(b Balances, pivot string, rate RateFunc) Unified {
	out := Unified{Pivot: pivot, Totals: make(map[string]money.Cents)}
	for _, currency := range b.Currencies() {
		byMember := b[currency]
		r := 1.0
		if currency != pivot {
			var ok bool
			r, ok = rate(currency)
			if !ok || r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
				slog.Warn("No exchange rate, dropping currency from unified balances",
					"currency", currency,
					"pivot", pivot,
				)
				out.Dropped = append(out.Dropped, currency)
				for id := range byMember {
					if _, seen := out.Totals[id]; !seen {
						out.Totals[id] = 0
					}
				}
				continue
			}
		}
		for id, bal := range byMember {
			out.Totals[id] += bal.Convert(r)
		}
	}
	return out
}
