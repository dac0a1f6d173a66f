// Package bridge mirrors shared trip expenses into the owner's personal
// ledger so that each one is counted exactly once in the personal budget.
//
// Three cases apply, decided from the "me" member's position in an expense:
//
//   - I paid and my share is the whole amount: one paid transaction, counted
//     in the budget, linked directly to the expense.
//   - I paid but others share the cost: a paid advance for the full amount,
//     excluded from the budget and linked directly, plus an unpaid
//     transaction for my share, counted in the budget and linked through a
//     BudgetLink.
//   - Someone else paid and I hold a share: only the unpaid share
//     transaction with its BudgetLink.
package bridge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/money"
	"github.com/mmynk/tripledger/internal/storage"
)

// Category is the personal-ledger category used for bridged transactions.
const Category = "trip"

// Case identifies which synchronization rule applies to an expense.
type Case int

const (
	// CaseNone means the expense does not touch my budget.
	CaseNone Case = iota
	CaseFullPayment
	CaseAdvance
	CaseOwedShare
)

func (c Case) String() string {
	switch c {
	case CaseFullPayment:
		return "full_payment"
	case CaseAdvance:
		return "advance"
	case CaseOwedShare:
		return "owed_share"
	default:
		return "none"
	}
}

// Store is the subset of storage the bridge needs.
type Store interface {
	storage.LinkStore
	storage.PersonalLedger
}

// Entry is one expense with the trip context needed to bridge it.
type Entry struct {
	Trip    *models.Trip
	Expense *models.Expense
	Shares  []models.Share
	Members []models.Member
}

func (e Entry) me() (models.Member, bool) {
	return models.FindMe(e.Members)
}

func (e Entry) myShare(me models.Member) money.Cents {
	return models.ShareOf(e.Shares, e.Expense.ID, me.ID)
}

// Classify returns the case that applies to the entry.
func Classify(e Entry) Case {
	me, ok := e.me()
	if !ok {
		return CaseNone
	}
	share := e.myShare(me)
	if e.Expense.PayerMemberID == me.ID {
		if share == e.Expense.Amount {
			return CaseFullPayment
		}
		return CaseAdvance
	}
	if share > 0 {
		return CaseOwedShare
	}
	return CaseNone
}

// Result reports what a Sync call did.
type Result struct {
	Case Case
	// DirectTransactionID is the transaction linked to the expense itself.
	DirectTransactionID string
	// ShareTransactionID is the transaction linked to my share.
	ShareTransactionID string
	// Created counts the transactions created by this call; a repeated
	// Sync of the same expense creates none.
	Created int
}

// Converter converts an amount from one currency into another.
type Converter interface {
	Convert(ctx context.Context, amount money.Cents, from, to string) (money.Cents, error)
}

// Bridge synchronizes expenses with the personal ledger.
type Bridge struct {
	store Store
	conv  Converter
}

// New creates a Bridge. Expenses in a currency other than the wallet's are
// converted through conv; with a nil conv they are rejected.
func New(store Store, conv Converter) *Bridge {
	return &Bridge{store: store, conv: conv}
}

// ledgerAmount is an expense amount expressed in the wallet currency.
type ledgerAmount struct {
	currency string
	convert  func(money.Cents) (money.Cents, error)
	foreign  bool
}

func (b *Bridge) walletAmount(ctx context.Context, e Entry) (*ledgerAmount, error) {
	wallet, err := b.store.GetWallet(ctx, e.Trip.WalletID)
	if err != nil {
		return nil, err
	}
	la := &ledgerAmount{currency: wallet.Currency}
	if wallet.Currency == e.Expense.Currency {
		la.convert = func(c money.Cents) (money.Cents, error) { return c, nil }
		return la, nil
	}
	if b.conv == nil {
		return nil, apperr.Validation("currency",
			"expense currency %s differs from wallet currency %s", e.Expense.Currency, wallet.Currency)
	}
	la.foreign = true
	la.convert = func(c money.Cents) (money.Cents, error) {
		return b.conv.Convert(ctx, c, e.Expense.Currency, wallet.Currency)
	}
	return la, nil
}

// label keeps the original amount visible on converted transactions.
func (la *ledgerAmount) label(base string, e Entry, amount money.Cents) string {
	if !la.foreign {
		return base
	}
	return fmt.Sprintf("%s (%s %s)", base, amount, e.Expense.Currency)
}

// Sync creates the personal transactions required by the entry's case.
// Existing links are kept, so calling Sync again is a no-op.
func (b *Bridge) Sync(ctx context.Context, e Entry) (Result, error) {
	res := Result{Case: Classify(e)}
	if res.Case == CaseNone {
		return res, nil
	}
	if e.Trip.WalletID == "" {
		slog.Debug("Trip has no wallet, skipping budget sync",
			"trip_id", e.Trip.ID,
			"expense_id", e.Expense.ID,
		)
		return Result{Case: CaseNone}, nil
	}
	me, _ := e.me()
	la, err := b.walletAmount(ctx, e)
	if err != nil {
		return res, err
	}

	if res.Case == CaseFullPayment || res.Case == CaseAdvance {
		id, created, err := b.ensureDirect(ctx, e, la, res.Case == CaseAdvance)
		if err != nil {
			return res, err
		}
		res.DirectTransactionID = id
		if created {
			res.Created++
		}
	}

	if res.Case == CaseAdvance || res.Case == CaseOwedShare {
		share := e.myShare(me)
		if share > 0 {
			id, created, err := b.ensureShare(ctx, e, la, me, share)
			if err != nil {
				return res, err
			}
			res.ShareTransactionID = id
			if created {
				res.Created++
			}
		}
	}

	slog.Info("Synced expense with personal ledger",
		"expense_id", e.Expense.ID,
		"case", res.Case.String(),
		"created", res.Created,
	)
	return res, nil
}

func (b *Bridge) ensureDirect(ctx context.Context, e Entry, la *ledgerAmount, advance bool) (string, bool, error) {
	if e.Expense.LinkedTransactionID != "" {
		return e.Expense.LinkedTransactionID, false, nil
	}

	label := e.Expense.Label
	if advance {
		label = "Advance: " + label
	}
	amount, err := la.convert(e.Expense.Amount)
	if err != nil {
		return "", false, err
	}
	id, err := b.store.ApplyTransaction(ctx, storage.TransactionParams{
		WalletID:          e.Trip.WalletID,
		Type:              models.TransactionExpense,
		Amount:            amount,
		Currency:          la.currency,
		Category:          Category,
		Label:             la.label(label, e, e.Expense.Amount),
		DateStart:         e.Expense.Date,
		DateEnd:           e.Expense.Date,
		Paid:              true,
		ExcludeFromBudget: advance,
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to create payment transaction: %w", err)
	}

	if err := b.store.LinkExpenseTransaction(ctx, e.Expense.ID, id); err != nil {
		b.discard(ctx, id)
		return "", false, err
	}
	e.Expense.LinkedTransactionID = id
	return id, true, nil
}

func (b *Bridge) ensureShare(ctx context.Context, e Entry, la *ledgerAmount, me models.Member, share money.Cents) (string, bool, error) {
	link, err := b.store.GetBudgetLink(ctx, e.Expense.ID, me.ID)
	if err != nil {
		return "", false, err
	}
	if link != nil {
		return link.TransactionID, false, nil
	}

	amount, err := la.convert(share)
	if err != nil {
		return "", false, err
	}
	if amount <= 0 {
		return "", false, nil
	}
	id, err := b.store.ApplyTransaction(ctx, storage.TransactionParams{
		WalletID:  e.Trip.WalletID,
		Type:      models.TransactionExpense,
		Amount:    amount,
		Currency:  la.currency,
		Category:  Category,
		Label:     la.label(e.Expense.Label, e, share),
		DateStart: e.Expense.Date,
		DateEnd:   e.Expense.Date,
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to create share transaction: %w", err)
	}

	if err := b.store.CreateBudgetLink(ctx, models.BudgetLink{
		ExpenseID:     e.Expense.ID,
		MemberID:      me.ID,
		TripID:        e.Trip.ID,
		TransactionID: id,
	}); err != nil {
		b.discard(ctx, id)
		return "", false, err
	}
	return id, true, nil
}

// discard removes a transaction whose link could not be written.
func (b *Bridge) discard(ctx context.Context, transactionID string) {
	if err := b.store.DeleteTransaction(ctx, transactionID); err != nil {
		slog.Error("Failed to remove unlinked transaction",
			"transaction_id", transactionID,
			"error", err,
		)
	}
}

// Unsync removes every personal transaction linked to the expense: budget
// links and their transactions first, then the direct link and its transaction.
// Deleting a transaction reverses its wallet effect.
func (b *Bridge) Unsync(ctx context.Context, expense *models.Expense) (int, error) {
	links, err := b.store.ListBudgetLinks(ctx, expense.ID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, link := range links {
		if err := b.store.DeleteBudgetLinkAndTransaction(ctx, link.ExpenseID, link.MemberID); err != nil {
			return removed, fmt.Errorf("failed to delete share transaction: %w", err)
		}
		removed++
	}

	if expense.LinkedTransactionID != "" {
		if err := b.store.UnlinkAndDeleteTransaction(ctx, expense.ID); err != nil {
			return removed, fmt.Errorf("failed to delete payment transaction: %w", err)
		}
		expense.LinkedTransactionID = ""
		removed++
	}
	return removed, nil
}

// LinkExisting links a transaction that already exists in the personal
// ledger. A paid transaction for the full expense amount becomes the direct
// link; a transaction for exactly my share becomes my BudgetLink.
func (b *Bridge) LinkExisting(ctx context.Context, e Entry, transactionID string) (Case, error) {
	tx, err := b.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return CaseNone, err
	}

	if tx.Paid && tx.Amount == e.Expense.Amount {
		if e.Expense.LinkedTransactionID != "" {
			return CaseNone, &apperr.LinkConflictError{
				ExpenseID: e.Expense.ID, TransactionID: transactionID,
				Reason: "expense already linked to transaction " + e.Expense.LinkedTransactionID,
			}
		}
		if err := b.store.LinkExpenseTransaction(ctx, e.Expense.ID, transactionID); err != nil {
			return CaseNone, err
		}
		e.Expense.LinkedTransactionID = transactionID
		return CaseFullPayment, nil
	}

	me, ok := e.me()
	if !ok {
		return CaseNone, apperr.Validation("transaction_id", "trip has no member marked as me")
	}
	share := e.myShare(me)
	if share > 0 && tx.Amount == share {
		if err := b.store.CreateBudgetLink(ctx, models.BudgetLink{
			ExpenseID:     e.Expense.ID,
			MemberID:      me.ID,
			TripID:        e.Trip.ID,
			TransactionID: transactionID,
		}); err != nil {
			return CaseNone, err
		}
		return CaseOwedShare, nil
	}

	return CaseNone, apperr.Validation("transaction_id",
		"amount %s matches neither the expense total %s nor my share %s", tx.Amount, e.Expense.Amount, share)
}
