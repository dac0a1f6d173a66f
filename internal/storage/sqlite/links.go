package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/models"
)

// checkTransactionFree fails with a LinkConflictError if the transaction is
// already referenced by an expense or a budget link.
func checkTransactionFree(ctx context.Context, q queryer, expenseID, memberID, transactionID string) error {
	ok, err := exists(ctx, q, "SELECT 1 FROM personal_transactions WHERE id = ?", transactionID)
	if err != nil {
		return fmt.Errorf("failed to check transaction existence: %w", err)
	}
	if !ok {
		return apperr.NotFound("transaction", transactionID)
	}

	var other string
	err = q.QueryRowContext(ctx, "SELECT id FROM expenses WHERE linked_transaction_id = ?", transactionID).Scan(&other)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to check expense links: %w", err)
	}
	if err == nil {
		return &apperr.LinkConflictError{
			ExpenseID: expenseID, MemberID: memberID, TransactionID: transactionID,
			Reason: "transaction already linked to expense " + other,
		}
	}

	err = q.QueryRowContext(ctx, "SELECT expense_id FROM budget_links WHERE transaction_id = ?", transactionID).Scan(&other)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to check budget links: %w", err)
	}
	if err == nil {
		return &apperr.LinkConflictError{
			ExpenseID: expenseID, MemberID: memberID, TransactionID: transactionID,
			Reason: "transaction already linked to a share of expense " + other,
		}
	}
	return nil
}

// LinkExpenseTransaction links a personal transaction directly to an expense.
func (s *SQLiteStore) LinkExpenseTransaction(ctx context.Context, expenseID, transactionID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var linked sql.NullString
		err := tx.QueryRowContext(ctx, "SELECT linked_transaction_id FROM expenses WHERE id = ?", expenseID).Scan(&linked)
		if err == sql.ErrNoRows {
			return apperr.NotFound("expense", expenseID)
		}
		if err != nil {
			return fmt.Errorf("failed to get expense: %w", err)
		}
		if linked.Valid {
			return &apperr.LinkConflictError{
				ExpenseID: expenseID, TransactionID: transactionID,
				Reason: "expense already linked to transaction " + linked.String,
			}
		}
		if err := checkTransactionFree(ctx, tx, expenseID, "", transactionID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE expenses SET linked_transaction_id = ? WHERE id = ?", transactionID, expenseID,
		); err != nil {
			return fmt.Errorf("failed to link transaction: %w", err)
		}
		return nil
	})
}

// UnlinkAndDeleteTransaction clears the direct link of an expense and
// deletes the transaction it pointed to, in one transaction.
func (s *SQLiteStore) UnlinkAndDeleteTransaction(ctx context.Context, expenseID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var linked sql.NullString
		err := tx.QueryRowContext(ctx, "SELECT linked_transaction_id FROM expenses WHERE id = ?", expenseID).Scan(&linked)
		if err == sql.ErrNoRows {
			return apperr.NotFound("expense", expenseID)
		}
		if err != nil {
			return fmt.Errorf("failed to get expense: %w", err)
		}
		if !linked.Valid {
			return nil
		}
		if _, err := tx.ExecContext(ctx, "UPDATE expenses SET linked_transaction_id = NULL WHERE id = ?", expenseID); err != nil {
			return fmt.Errorf("failed to unlink transaction: %w", err)
		}
		return deleteTransaction(ctx, tx, linked.String)
	})
}

// CreateBudgetLink links one member's share of an expense to a personal transaction.
func (s *SQLiteStore) CreateBudgetLink(ctx context.Context, link models.BudgetLink) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var tripID string
		err := tx.QueryRowContext(ctx, "SELECT trip_id FROM expenses WHERE id = ?", link.ExpenseID).Scan(&tripID)
		if err == sql.ErrNoRows {
			return apperr.NotFound("expense", link.ExpenseID)
		}
		if err != nil {
			return fmt.Errorf("failed to get expense: %w", err)
		}

		var current string
		err = tx.QueryRowContext(ctx,
			"SELECT transaction_id FROM budget_links WHERE expense_id = ? AND member_id = ?",
			link.ExpenseID, link.MemberID,
		).Scan(&current)
		if err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("failed to check budget link: %w", err)
		}
		if err == nil {
			return &apperr.LinkConflictError{
				ExpenseID: link.ExpenseID, MemberID: link.MemberID, TransactionID: link.TransactionID,
				Reason: "share already linked to transaction " + current,
			}
		}
		if err := checkTransactionFree(ctx, tx, link.ExpenseID, link.MemberID, link.TransactionID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO budget_links (expense_id, member_id, trip_id, transaction_id) VALUES (?, ?, ?, ?)",
			link.ExpenseID, link.MemberID, tripID, link.TransactionID,
		); err != nil {
			return fmt.Errorf("failed to insert budget link: %w", err)
		}
		return nil
	})
}

// GetBudgetLink returns the link for (expense, member), or nil if none exists.
func (s *SQLiteStore) GetBudgetLink(ctx context.Context, expenseID, memberID string) (*models.BudgetLink, error) {
	link := &models.BudgetLink{}
	err := s.db.QueryRowContext(ctx,
		`SELECT expense_id, member_id, trip_id, transaction_id FROM budget_links
		 WHERE expense_id = ? AND member_id = ?`,
		expenseID, memberID,
	).Scan(&link.ExpenseID, &link.MemberID, &link.TripID, &link.TransactionID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget link: %w", err)
	}
	return link, nil
}

// ListBudgetLinks returns every link of an expense.
func (s *SQLiteStore) ListBudgetLinks(ctx context.Context, expenseID string) ([]models.BudgetLink, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT expense_id, member_id, trip_id, transaction_id FROM budget_links WHERE expense_id = ?`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget links: %w", err)
	}
	defer rows.Close()

	var links []models.BudgetLink
	for rows.Next() {
		var l models.BudgetLink
		if err := rows.Scan(&l.ExpenseID, &l.MemberID, &l.TripID, &l.TransactionID); err != nil {
			return nil, fmt.Errorf("failed to scan budget link: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budget links: %w", err)
	}
	return links, nil
}

// DeleteBudgetLinkAndTransaction removes the link for (expense, member) and
// the transaction it pointed to, in one transaction. A missing link is a no-op.
func (s *SQLiteStore) DeleteBudgetLinkAndTransaction(ctx context.Context, expenseID, memberID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var transactionID string
		err := tx.QueryRowContext(ctx,
			"SELECT transaction_id FROM budget_links WHERE expense_id = ? AND member_id = ?", expenseID, memberID,
		).Scan(&transactionID)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get budget link: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM budget_links WHERE expense_id = ? AND member_id = ?", expenseID, memberID,
		); err != nil {
			return fmt.Errorf("failed to delete budget link: %w", err)
		}
		return deleteTransaction(ctx, tx, transactionID)
	})
}
