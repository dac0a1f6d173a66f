// Package apperr defines the ledger error taxonomy.
//
// Validation errors are raised before any mutation. Link conflicts are raised
// by the budget bridge when an expense or personal transaction is already
// linked. Referential errors are raised by the ledger store when a row is
// still referenced. Acting on balances computed from outdated rows is not
// detected: there is no version token.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
)

// ValidationError reports bad input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError with a formatted reason.
func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// LinkConflictError reports an attempt to break the one-to-one linkage
// between shared-ledger obligations and personal transactions.
type LinkConflictError struct {
	ExpenseID     string
	MemberID      string
	TransactionID string
	Reason        string
}

func (e *LinkConflictError) Error() string {
	msg := fmt.Sprintf("link conflict: expense %s", e.ExpenseID)
	if e.MemberID != "" {
		msg += " member " + e.MemberID
	}
	if e.TransactionID != "" {
		msg += " transaction " + e.TransactionID
	}
	return msg + ": " + e.Reason
}

// ReferentialError reports a delete or move blocked by existing references.
type ReferentialError struct {
	Entity string
	ID     string
	Reason string
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Entity, e.ID, e.Reason)
}

// NotFound wraps ErrNotFound with the missing entity.
func NotFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsLinkConflict(err error) bool {
	var l *LinkConflictError
	return errors.As(err, &l)
}

func IsReferential(err error) bool {
	var r *ReferentialError
	return errors.As(err, &r)
}
