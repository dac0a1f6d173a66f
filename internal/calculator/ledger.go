package calculator

import (
	"github.com/mmynk/tripledger/internal/models"
)

// TripLedgerContext is a snapshot of one trip's rows, fetched in a single
// reload. All derived views are recomputed from it; nothing is cached.
type TripLedgerContext struct {
	Trip        models.Trip
	Members     []models.Member
	Expenses    []models.Expense
	Shares      []models.Share
	Settlements []models.SettlementEvent
}

// Balances returns net balances per currency and member.
func (c *TripLedgerContext) Balances() Balances {
	return ComputeBalances(c.Members, c.Expenses, c.Shares, c.Settlements)
}

// Summaries returns paid/owed breakdowns per currency and member.
func (c *TripLedgerContext) Summaries() map[string]map[string]*MemberBalance {
	return Summarize(c.Members, c.Expenses, c.Shares, c.Settlements)
}

// Plan returns the proposed settling transfers per currency.
func (c *TripLedgerContext) Plan() map[string][]Transfer {
	return PlanSettlements(c.Balances())
}

// Unified converts balances into pivot, defaulting to the trip base currency.
func (c *TripLedgerContext) Unified(pivot string, rate RateFunc) Unified {
	if pivot == "" {
		pivot = c.Trip.BaseCurrency
	}
	return Unify(c.Balances(), pivot, rate)
}

// Me returns the member flagged as me.
func (c *TripLedgerContext) Me() (models.Member, bool) {
	return models.FindMe(c.Members)
}

// SharesOf returns the shares of one expense.
func (c *TripLedgerContext) SharesOf(expenseID string) []models.Share {
	var out []models.Share
	for _, s := range c.Shares {
		if s.ExpenseID == expenseID {
			out = append(out, s)
		}
	}
	return out
}

// Currencies returns the currencies used by expenses or settlements, sorted.
func (c *TripLedgerContext) Currencies() []string {
	set := make(map[string]struct{})
	for _, e := range c.Expenses {
		set[e.Currency] = struct{}{}
	}
	for _, s := range c.Settlements {
		set[s.Currency] = struct{}{}
	}
	return sortedKeys(set)
}
