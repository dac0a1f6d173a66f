// Package models defines the domain models for the trip ledger.
//
// # Shared ledger
//
//   - Trip: a named group of members sharing expenses, owned by one user
//   - Member: a participant of a trip, optionally flagged as "me"
//   - Expense and Share: what was paid, by whom, and each member's portion
//   - SettlementEvent: an append-only record of a transfer between members
//
// # Personal ledger
//
//   - Wallet and PersonalTransaction: the owner's own budget rows
//   - BudgetLink: the one-to-one mapping between a member's share of an
//     expense and a personal transaction
//
// Monetary fields are money.Cents. Relationships are ID strings, never pointers.
package models
