package models

import "github.com/mmynk/tripledger/internal/money"

// TransactionType is the direction of a personal transaction.
type TransactionType string

const (
	TransactionExpense TransactionType = "expense"
	TransactionIncome  TransactionType = "income"
)

// Wallet is a personal account whose balance moves with paid transactions.
type Wallet struct {
	ID        string
	OwnerID   string
	Name      string
	Currency  string
	Balance   money.Cents
	CreatedAt int64
}

// PersonalTransaction is a row of the owner's personal budget ledger.
type PersonalTransaction struct {
	ID       string
	WalletID string
	Type     TransactionType
	Amount   money.Cents
	Currency string
	Category string
	Label    string

	// DateStart and DateEnd bound the budget period the row counts in.
	DateStart string
	DateEnd   string

	// Paid rows move the wallet balance; unpaid rows are obligations only.
	Paid bool

	// ExcludeFromBudget keeps the row out of budget accounting (advances,
	// settlements).
	ExcludeFromBudget bool

	CreatedAt int64
}

// BudgetLink maps one member's share of an expense to a personal transaction.
type BudgetLink struct {
	ExpenseID     string
	MemberID      string
	TripID        string
	TransactionID string
}

// FXRate is a stored conversion rate: 1 Base = Rate Quote.
type FXRate struct {
	Base      string
	Quote     string
	Rate      float64
	UpdatedAt int64
}
