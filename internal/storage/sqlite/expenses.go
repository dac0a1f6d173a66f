package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/models"
)

const expenseColumns = `id, trip_id, date, label, amount_cents, currency, payer_member_id,
	linked_transaction_id, split_mode, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (models.Expense, error) {
	var e models.Expense
	var linked sql.NullString
	err := row.Scan(&e.ID, &e.TripID, &e.Date, &e.Label, &e.Amount, &e.Currency, &e.PayerMemberID,
		&linked, &e.SplitMode, &e.CreatedAt)
	e.LinkedTransactionID = linked.String
	return e, err
}

// CreateExpense persists an expense and its shares in one transaction.
// Either both are written or neither is.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense, shares []models.Share) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			expense.ID, expense.TripID, expense.Date, expense.Label, expense.Amount, expense.Currency,
			expense.PayerMemberID, nullString(expense.LinkedTransactionID), expense.SplitMode, expense.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		for i := range shares {
			shares[i].ExpenseID = expense.ID
			_, err = tx.ExecContext(ctx,
				`INSERT INTO shares (expense_id, member_id, trip_id, position, share_cents) VALUES (?, ?, ?, ?, ?)`,
				expense.ID, shares[i].MemberID, expense.TripID, i, shares[i].Amount,
			)
			if err != nil {
				return fmt.Errorf("failed to insert share: %w", err)
			}
		}
		return nil
	})
}

// GetExpense retrieves an expense with its shares.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, []models.Share, error) {
	e, err := scanExpense(s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, expenseID))
	if err == sql.ErrNoRows {
		return nil, nil, apperr.NotFound("expense", expenseID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get expense: %w", err)
	}

	shares, err := queryShares(ctx, s.db,
		`SELECT expense_id, member_id, share_cents FROM shares WHERE expense_id = ? ORDER BY position`, expenseID)
	if err != nil {
		return nil, nil, err
	}
	return &e, shares, nil
}

// ListExpenses returns a trip's expenses ordered by date.
func (s *SQLiteStore) ListExpenses(ctx context.Context, tripID string) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE trip_id = ? ORDER BY date, created_at, rowid`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

// ListShares returns every share of a trip, grouped by expense in input order.
func (s *SQLiteStore) ListShares(ctx context.Context, tripID string) ([]models.Share, error) {
	return queryShares(ctx, s.db,
		`SELECT expense_id, member_id, share_cents FROM shares WHERE trip_id = ? ORDER BY expense_id, position`, tripID)
}

func queryShares(ctx context.Context, q queryer, query string, args ...any) ([]models.Share, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	var shares []models.Share
	for rows.Next() {
		var sh models.Share
		if err := rows.Scan(&sh.ExpenseID, &sh.MemberID, &sh.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares = append(shares, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return shares, nil
}

// DeleteExpense removes an expense's shares, then the expense.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var linked sql.NullString
		err := tx.QueryRowContext(ctx, "SELECT linked_transaction_id FROM expenses WHERE id = ?", expenseID).Scan(&linked)
		if err == sql.ErrNoRows {
			return apperr.NotFound("expense", expenseID)
		}
		if err != nil {
			return fmt.Errorf("failed to check expense existence: %w", err)
		}
		if linked.Valid {
			return &apperr.ReferentialError{Entity: "expense", ID: expenseID, Reason: "still linked to a personal transaction"}
		}
		hasLinks, err := exists(ctx, tx, "SELECT 1 FROM budget_links WHERE expense_id = ? LIMIT 1", expenseID)
		if err != nil {
			return fmt.Errorf("failed to check budget links: %w", err)
		}
		if hasLinks {
			return &apperr.ReferentialError{Entity: "expense", ID: expenseID, Reason: "still has budget links"}
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM shares WHERE expense_id = ?", expenseID); err != nil {
			return fmt.Errorf("failed to delete shares: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID); err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}
		return nil
	})
}

// MoveExpense reassigns an expense, its shares and its budget links to another trip.
func (s *SQLiteStore) MoveExpense(ctx context.Context, expenseID, newTripID string, memberMap map[string]string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var payer string
		err := tx.QueryRowContext(ctx, "SELECT payer_member_id FROM expenses WHERE id = ?", expenseID).Scan(&payer)
		if err == sql.ErrNoRows {
			return apperr.NotFound("expense", expenseID)
		}
		if err != nil {
			return fmt.Errorf("failed to get expense: %w", err)
		}

		remap := func(memberID string) (string, error) {
			if to, ok := memberMap[memberID]; ok {
				return to, nil
			}
			return "", &apperr.ReferentialError{Entity: "member", ID: memberID, Reason: "has no counterpart in the target trip"}
		}

		newPayer, err := remap(payer)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE expenses SET trip_id = ?, payer_member_id = ? WHERE id = ?",
			newTripID, newPayer, expenseID,
		); err != nil {
			return fmt.Errorf("failed to move expense: %w", err)
		}

		for _, table := range []string{"shares", "budget_links"} {
			rows, err := tx.QueryContext(ctx, "SELECT member_id FROM "+table+" WHERE expense_id = ?", expenseID)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", table, err)
			}
			var memberIDs []string
			for rows.Next() {
				var id string
				if err := rows.Scan(&id); err != nil {
					rows.Close()
					return fmt.Errorf("failed to scan %s: %w", table, err)
				}
				memberIDs = append(memberIDs, id)
			}
			rows.Close()
			if err := rows.Err(); err != nil {
				return fmt.Errorf("failed to iterate %s: %w", table, err)
			}

			for _, id := range memberIDs {
				to, err := remap(id)
				if err != nil {
					return err
				}
				if _, err := tx.ExecContext(ctx,
					"UPDATE "+table+" SET trip_id = ?, member_id = ? WHERE expense_id = ? AND member_id = ?",
					newTripID, to, expenseID, id,
				); err != nil {
					return fmt.Errorf("failed to move %s: %w", table, err)
				}
			}
		}
		return nil
	})
}
