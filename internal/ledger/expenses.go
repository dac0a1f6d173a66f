package ledger

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/bridge"
	"github.com/mmynk/tripledger/internal/calculator"
	"github.com/mmynk/tripledger/internal/events"
	"github.com/mmynk/tripledger/internal/metrics"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/money"
)

// ExpenseInput describes a new expense.
type ExpenseInput struct {
	TripID        string
	Date          string
	Label         string
	Amount        money.Cents
	Currency      string
	PayerMemberID string
	// MemberIDs lists who shares the expense, in order. Empty means every
	// member of the trip.
	MemberIDs []string
	Split     models.SplitSpec
}

// ExpenseResult is a stored expense with its shares and how it was bridged.
type ExpenseResult struct {
	Expense *models.Expense
	Shares  []models.Share
	Bridge  bridge.Result
}

func (s *Service) validateExpense(in *ExpenseInput, members []models.Member) error {
	in.Label = strings.TrimSpace(in.Label)
	if in.Label == "" {
		return apperr.Validation("label", "is required")
	}
	if _, err := time.Parse(time.DateOnly, in.Date); err != nil {
		return apperr.Validation("date", "must be YYYY-MM-DD, got %q", in.Date)
	}
	if in.Amount <= 0 {
		return apperr.Validation("amount", "must be positive, got %s", in.Amount)
	}
	currency, ok := money.NormalizeCurrency(in.Currency)
	if !ok {
		return apperr.Validation("currency", "invalid currency %q", in.Currency)
	}
	in.Currency = currency

	idx := memberIndex(members)
	if _, ok := idx[in.PayerMemberID]; !ok {
		return apperr.Validation("payer_member_id", "%q is not a member of the trip", in.PayerMemberID)
	}
	if len(in.MemberIDs) == 0 {
		for _, m := range members {
			in.MemberIDs = append(in.MemberIDs, m.ID)
		}
	}
	for _, id := range in.MemberIDs {
		if _, ok := idx[id]; !ok {
			return apperr.Validation("member_ids", "%q is not a member of the trip", id)
		}
	}
	return nil
}

// AddExpense splits the amount, stores the expense with its shares in one
// write, then syncs it with the personal ledger. A bridge failure is
// returned with the stored expense; the expense is kept and can be resynced.
func (s *Service) AddExpense(ctx context.Context, actor string, in ExpenseInput) (_ *ExpenseResult, err error) {
	defer func() { metrics.ObserveMutation("add_expense", err) }()

	trip, err := s.authorizeTrip(ctx, actor, in.TripID)
	if err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx, in.TripID)
	if err != nil {
		return nil, err
	}
	if err := s.validateExpense(&in, members); err != nil {
		return nil, err
	}

	split, err := calculator.Split(in.Amount, in.MemberIDs, in.Split)
	if err != nil {
		return nil, err
	}
	mode := in.Split.Mode
	if mode == "" {
		mode = models.SplitEqual
	}

	expense := &models.Expense{
		TripID:        in.TripID,
		Date:          in.Date,
		Label:         in.Label,
		Amount:        in.Amount,
		Currency:      in.Currency,
		PayerMemberID: in.PayerMemberID,
		SplitMode:     mode,
	}
	shares := make([]models.Share, len(split))
	for i, sh := range split {
		shares[i] = models.Share{MemberID: sh.MemberID, Amount: sh.Amount}
	}
	if err := s.store.CreateExpense(ctx, expense, shares); err != nil {
		return nil, err
	}
	slog.Info("Expense created",
		"trip_id", expense.TripID,
		"expense_id", expense.ID,
		"amount", expense.Amount.String(),
		"currency", expense.Currency,
	)
	s.publish(ctx, events.New(events.ExpenseCreated, trip.ID, expense.ID, actor).
		With("amount", expense.Amount.String()).
		With("currency", expense.Currency))

	res := &ExpenseResult{Expense: expense, Shares: shares}
	res.Bridge, err = s.sync(ctx, trip, expense, shares, members)
	if err != nil {
		return res, err
	}
	return res, nil
}

func (s *Service) sync(ctx context.Context, trip *models.Trip, expense *models.Expense, shares []models.Share, members []models.Member) (bridge.Result, error) {
	res, err := s.bridge.Sync(ctx, bridge.Entry{Trip: trip, Expense: expense, Shares: shares, Members: members})
	if res.Created > 0 {
		metrics.BridgeTransactions.WithLabelValues(res.Case.String()).Add(float64(res.Created))
	}
	if err != nil {
		slog.Error("Budget sync failed",
			"expense_id", expense.ID,
			"case", res.Case.String(),
			"error", err,
		)
	}
	return res, err
}

// loadExpense fetches an expense and authorizes actor on its trip.
func (s *Service) loadExpense(ctx context.Context, actor, expenseID string) (*models.Trip, *models.Expense, []models.Share, error) {
	expense, shares, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, nil, nil, err
	}
	trip, err := s.authorizeTrip(ctx, actor, expense.TripID)
	if err != nil {
		return nil, nil, nil, err
	}
	return trip, expense, shares, nil
}

// ResyncExpense runs the budget bridge again. Existing links are kept.
func (s *Service) ResyncExpense(ctx context.Context, actor, expenseID string) (_ bridge.Result, err error) {
	defer func() { metrics.ObserveMutation("resync_expense", err) }()

	trip, expense, shares, err := s.loadExpense(ctx, actor, expenseID)
	if err != nil {
		return bridge.Result{}, err
	}
	members, err := s.store.ListMembers(ctx, trip.ID)
	if err != nil {
		return bridge.Result{}, err
	}
	return s.sync(ctx, trip, expense, shares, members)
}

// DeleteExpense removes, in order, budget links with their transactions,
// the directly linked transaction, the shares and the expense.
func (s *Service) DeleteExpense(ctx context.Context, actor, expenseID string) (err error) {
	defer func() { metrics.ObserveMutation("delete_expense", err) }()

	trip, expense, _, err := s.loadExpense(ctx, actor, expenseID)
	if err != nil {
		return err
	}
	removed, err := s.bridge.Unsync(ctx, expense)
	if err != nil {
		return err
	}
	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return err
	}
	slog.Info("Expense deleted",
		"trip_id", trip.ID,
		"expense_id", expenseID,
		"transactions_removed", removed,
	)
	s.publish(ctx, events.New(events.ExpenseDeleted, trip.ID, expenseID, actor))
	return nil
}

// ListExpenses returns a trip's expenses and all their shares.
func (s *Service) ListExpenses(ctx context.Context, actor, tripID string) ([]models.Expense, []models.Share, error) {
	if _, err := s.authorizeTrip(ctx, actor, tripID); err != nil {
		return nil, nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	shares, err := s.store.ListShares(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	return expenses, shares, nil
}

// LinkTransaction links an existing personal transaction to an expense.
func (s *Service) LinkTransaction(ctx context.Context, actor, expenseID, transactionID string) (_ bridge.Case, err error) {
	defer func() { metrics.ObserveMutation("link_transaction", err) }()

	trip, expense, shares, err := s.loadExpense(ctx, actor, expenseID)
	if err != nil {
		return bridge.CaseNone, err
	}
	tx, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return bridge.CaseNone, err
	}
	if _, err := s.ownedWallet(ctx, actor, tx.WalletID); err != nil {
		return bridge.CaseNone, err
	}
	if tx.Currency != expense.Currency {
		return bridge.CaseNone, apperr.Validation("transaction_id",
			"currency %s does not match expense currency %s", tx.Currency, expense.Currency)
	}
	members, err := s.store.ListMembers(ctx, trip.ID)
	if err != nil {
		return bridge.CaseNone, err
	}
	return s.bridge.LinkExisting(ctx, bridge.Entry{Trip: trip, Expense: expense, Shares: shares, Members: members}, transactionID)
}
