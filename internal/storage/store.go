// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/money"
)

// TripStore persists trips and their members.
type TripStore interface {
	CreateTrip(ctx context.Context, trip *models.Trip) error
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)
	// ListTripsForUser returns trips the user owns or is a member of.
	ListTripsForUser(ctx context.Context, userID string) ([]*models.Trip, error)

	// AddMember inserts a member. When member.IsMe is set, the flag is
	// cleared on every other member of the trip in the same transaction.
	AddMember(ctx context.Context, member *models.Member) error
	GetMember(ctx context.Context, memberID string) (*models.Member, error)
	ListMembers(ctx context.Context, tripID string) ([]models.Member, error)
	// SetMe flags memberID as me and clears the flag on the others.
	SetMe(ctx context.Context, tripID, memberID string) error
	// DeleteMember fails with a ReferentialError if the member paid an
	// expense, holds a share or appears in a settlement.
	DeleteMember(ctx context.Context, memberID string) error
}

// ExpenseStore persists expenses with their shares.
type ExpenseStore interface {
	// CreateExpense inserts the expense and its shares atomically.
	CreateExpense(ctx context.Context, expense *models.Expense, shares []models.Share) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, []models.Share, error)
	ListExpenses(ctx context.Context, tripID string) ([]models.Expense, error)
	ListShares(ctx context.Context, tripID string) ([]models.Share, error)
	// DeleteExpense removes the shares then the expense. Links must already
	// be gone.
	DeleteExpense(ctx context.Context, expenseID string) error
	// MoveExpense reassigns the expense, its shares and links to another trip,
	// rewriting member IDs through memberMap (old ID → new ID).
	MoveExpense(ctx context.Context, expenseID, newTripID string, memberMap map[string]string) error
}

// LinkStore persists the linkage between expenses and personal transactions.
// A transaction is referenced by at most one expense and at most one budget link.
type LinkStore interface {
	LinkExpenseTransaction(ctx context.Context, expenseID, transactionID string) error

	CreateBudgetLink(ctx context.Context, link models.BudgetLink) error
	// GetBudgetLink returns nil, nil when no link exists.
	GetBudgetLink(ctx context.Context, expenseID, memberID string) (*models.BudgetLink, error)
	ListBudgetLinks(ctx context.Context, expenseID string) ([]models.BudgetLink, error)

	// UnlinkAndDeleteTransaction and DeleteBudgetLinkAndTransaction drop a
	// link together with its transaction atomically.
	UnlinkAndDeleteTransaction(ctx context.Context, expenseID string) error
	DeleteBudgetLinkAndTransaction(ctx context.Context, expenseID, memberID string) error
}

// SettlementStore persists the append-only settlement log.
type SettlementStore interface {
	CreateSettlement(ctx context.Context, event *models.SettlementEvent) error
	GetSettlement(ctx context.Context, eventID string) (*models.SettlementEvent, error)
	ListSettlements(ctx context.Context, tripID string) ([]models.SettlementEvent, error)
	// CancelSettlement moves an active event to cancelled.
	CancelSettlement(ctx context.Context, eventID, actor string, at int64) error
}

// TransactionParams describes a personal transaction to apply.
type TransactionParams struct {
	WalletID          string
	Type              models.TransactionType
	Amount            money.Cents
	Currency          string
	Category          string
	Label             string
	DateStart         string
	DateEnd           string
	Paid              bool
	ExcludeFromBudget bool
}

// PersonalLedger is the owner's own budget ledger.
type PersonalLedger interface {
	CreateWallet(ctx context.Context, wallet *models.Wallet) error
	GetWallet(ctx context.Context, walletID string) (*models.Wallet, error)

	// ApplyTransaction records the transaction, moves the wallet balance if
	// paid, and returns the new transaction ID.
	ApplyTransaction(ctx context.Context, params TransactionParams) (string, error)
	GetTransaction(ctx context.Context, transactionID string) (*models.PersonalTransaction, error)
	ListTransactions(ctx context.Context, walletID string) ([]models.PersonalTransaction, error)
	// DeleteTransaction removes the row and reverses its wallet effect.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// RateStore persists exchange rates.
type RateStore interface {
	SetRate(ctx context.Context, rate models.FXRate) error
	// GetRate returns nil, nil when no rate is stored.
	GetRate(ctx context.Context, base, quote string) (*models.FXRate, error)
	ListRates(ctx context.Context) ([]models.FXRate, error)
}

// UserStore persists registered users.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Store bundles every repository. This abstraction allows swapping storage
// backends without changing the ledger or service layers.
type Store interface {
	TripStore
	ExpenseStore
	LinkStore
	SettlementStore
	PersonalLedger
	RateStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}
