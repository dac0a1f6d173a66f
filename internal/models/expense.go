package models

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/money"
)

// SplitMode selects how an expense total is divided between members.
type SplitMode string

const (
	SplitEqual   SplitMode = "equal"
	SplitPercent SplitMode = "percent"
	SplitAmount  SplitMode = "amount"
)

// SplitSpec describes a split. Percents and Amounts are keyed by member ID;
// members missing from Percents get an equal part of 100, members missing
// from Amounts get zero.
type SplitSpec struct {
	Mode     SplitMode
	Percents map[string]decimal.Decimal
	Amounts  map[string]money.Cents
}

// Expense is an amount paid by one member on behalf of the trip.
type Expense struct {
	ID     string
	TripID string

	// Date is the calendar day of the expense (YYYY-MM-DD).
	Date  string
	Label string

	Amount   money.Cents
	Currency string

	PayerMemberID string

	// LinkedTransactionID is the personal transaction recording the payer's
	// outlay, set only when the payer is me.
	LinkedTransactionID string

	SplitMode SplitMode
	CreatedAt int64
}

// Share is one member's portion of an expense.
type Share struct {
	ExpenseID string
	MemberID  string
	Amount    money.Cents
}

// ShareOf returns the share amount for a member, zero if absent.
func ShareOf(shares []Share, expenseID, memberID string) money.Cents {
	for _, s := range shares {
		if s.ExpenseID == expenseID && s.MemberID == memberID {
			return s.Amount
		}
	}
	return 0
}
