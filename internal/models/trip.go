package models

// Trip groups members and their shared expenses.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// OwnerID is the user who created the trip.
	OwnerID string

	// Name is the display name (e.g., "Bangkok 2026").
	Name string

	// BaseCurrency is the default pivot currency for unified balances.
	BaseCurrency string

	// WalletID is the personal wallet the budget bridge writes to.
	// Empty disables the bridge for this trip.
	WalletID string

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64
}

// Member is a participant of a trip.
type Member struct {
	ID     string
	TripID string
	Name   string

	// IsMe marks the account owner's own member. At most one member per trip
	// should carry it; enforced on write only.
	IsMe bool

	// UserID optionally links the member to a registered user, granting
	// that user access to the trip.
	UserID string

	CreatedAt int64
}

// FindMe returns the first member flagged as me.
func FindMe(members []Member) (Member, bool) {
	for _, m := range members {
		if m.IsMe {
			return m, true
		}
	}
	return Member{}, false
}
