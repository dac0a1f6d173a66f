package models

import "github.com/mmynk/tripledger/internal/money"

// SettlementStatus is the lifecycle tag of a settlement event.
// Active → Cancelled is the only transition; Cancelled is terminal.
type SettlementStatus string

const (
	SettlementActive    SettlementStatus = "active"
	SettlementCancelled SettlementStatus = "cancelled"
)

// SettlementEvent represents a payment between trip members to clear debts.
// Events are append-only; cancellation sets the status, never deletes.
type SettlementEvent struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	TripID   string
	Currency string
	Amount   money.Cents

	// FromMemberID is the member who paid (debtor settling up).
	FromMemberID string

	// ToMemberID is the member who received payment (creditor being paid).
	ToMemberID string

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string
	CreatedAt int64

	Status      SettlementStatus
	CancelledAt int64
	CancelledBy string

	// CompanionTransactionID is the wallet transaction recorded alongside the
	// event, if any. Cancelling the event leaves it untouched.
	CompanionTransactionID string

	Note string
}

// Active reports whether the event still counts toward balances.
func (e SettlementEvent) Active() bool {
	return e.Status != SettlementCancelled
}
