package ledger

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/metrics"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/money"
)

// Load fetches every row of a trip into a fresh TripLedgerContext.
func (s *Service) Load(ctx context.Context, actor, tripID string) (*calculator.TripLedgerContext, error) {
	trip, err := s.authorizeTrip(ctx, actor, tripID)
	if err != nil {
		return nil, err
	}

	lc := &calculator.TripLedgerContext{Trip: *trip}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lc.Members, err = s.store.ListMembers(gctx, tripID)
		return err
	})
	g.Go(func() error {
		var err error
		lc.Expenses, err = s.store.ListExpenses(gctx, tripID)
		return err
	})
	g.Go(func() error {
		var err error
		lc.Shares, err = s.store.ListShares(gctx, tripID)
		return err
	})
	g.Go(func() error {
		var err error
		lc.Settlements, err = s.store.ListSettlements(gctx, tripID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lc, nil
}

// BalancesView is everything derived from one reload of a trip.
type BalancesView struct {
	Members   []models.Member
	Balances  calculator.Balances
	Summaries map[string]map[string]*calculator.MemberBalance
	Plan      map[string][]calculator.Transfer
	Unified   calculator.Unified
}

// Balances reloads the trip and computes balances, the settlement plan and
// totals unified into pivot (the trip base currency when empty).
func (s *Service) Balances(ctx context.Context, actor, tripID, pivot string) (*BalancesView, error) {
	lc, err := s.Load(ctx, actor, tripID)
	if err != nil {
		return nil, err
	}
	if pivot == "" {
		pivot = lc.Trip.BaseCurrency
	} else if code, ok := money.NormalizeCurrency(pivot); ok {
		pivot = code
	}

	rate := func(string) (float64, bool) { return 0, false }
	if s.rates != nil {
		table, err := s.rates.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		rate = table.For(pivot)
	}

	view := &BalancesView{
		Members:   lc.Members,
		Balances:  lc.Balances(),
		Summaries: lc.Summaries(),
		Plan:      lc.Plan(),
		Unified:   lc.Unified(pivot, rate),
	}
	for _, c := range view.Unified.Dropped {
		metrics.DroppedCurrencies.WithLabelValues(c).Inc()
	}
	return view, nil
}
