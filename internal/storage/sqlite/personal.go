package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/money"
	"github.com/mmynk/tripledger/internal/storage"
)

const transactionColumns = `id, wallet_id, type, amount_cents, currency, category, label,
	date_start, date_end, paid, exclude_from_budget, created_at`

// walletEffect is the signed change a transaction applies to its wallet.
func walletEffect(typ models.TransactionType, amount money.Cents, paid bool) money.Cents {
	if !paid {
		return 0
	}
	if typ == models.TransactionIncome {
		return amount
	}
	return -amount
}

// CreateWallet persists a new wallet.
func (s *SQLiteStore) CreateWallet(ctx context.Context, wallet *models.Wallet) error {
	if wallet.ID == "" {
		wallet.ID = uuid.New().String()
	}
	if wallet.CreatedAt == 0 {
		wallet.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO wallets (id, owner_id, name, currency, balance_cents, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		wallet.ID, wallet.OwnerID, wallet.Name, wallet.Currency, wallet.Balance, wallet.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert wallet: %w", err)
	}
	return nil
}

// GetWallet retrieves a wallet by ID.
func (s *SQLiteStore) GetWallet(ctx context.Context, walletID string) (*models.Wallet, error) {
	w := &models.Wallet{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, currency, balance_cents, created_at FROM wallets WHERE id = ?`, walletID,
	).Scan(&w.ID, &w.OwnerID, &w.Name, &w.Currency, &w.Balance, &w.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("wallet", walletID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return w, nil
}

// ApplyTransaction records a personal transaction and moves the wallet balance.
// The transaction must be in the wallet's currency.
func (s *SQLiteStore) ApplyTransaction(ctx context.Context, p storage.TransactionParams) (string, error) {
	if p.Amount <= 0 {
		return "", apperr.Validation("amount", "must be positive, got %s", p.Amount)
	}
	if p.Type != models.TransactionExpense && p.Type != models.TransactionIncome {
		return "", apperr.Validation("type", "unknown transaction type %q", p.Type)
	}

	id := uuid.New().String()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var currency string
		err := tx.QueryRowContext(ctx, "SELECT currency FROM wallets WHERE id = ?", p.WalletID).Scan(&currency)
		if err == sql.ErrNoRows {
			return apperr.NotFound("wallet", p.WalletID)
		}
		if err != nil {
			return fmt.Errorf("failed to get wallet: %w", err)
		}
		if p.Currency != currency {
			return apperr.Validation("currency", "transaction currency %s does not match wallet currency %s", p.Currency, currency)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO personal_transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, p.WalletID, p.Type, p.Amount, p.Currency, p.Category, p.Label,
			p.DateStart, p.DateEnd, boolInt(p.Paid), boolInt(p.ExcludeFromBudget), time.Now().Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}

		if delta := walletEffect(p.Type, p.Amount, p.Paid); delta != 0 {
			if _, err := tx.ExecContext(ctx,
				"UPDATE wallets SET balance_cents = balance_cents + ? WHERE id = ?", delta, p.WalletID,
			); err != nil {
				return fmt.Errorf("failed to update wallet balance: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func scanTransaction(row rowScanner) (models.PersonalTransaction, error) {
	var t models.PersonalTransaction
	err := row.Scan(&t.ID, &t.WalletID, &t.Type, &t.Amount, &t.Currency, &t.Category, &t.Label,
		&t.DateStart, &t.DateEnd, &t.Paid, &t.ExcludeFromBudget, &t.CreatedAt)
	return t, err
}

// GetTransaction retrieves a personal transaction by ID.
func (s *SQLiteStore) GetTransaction(ctx context.Context, transactionID string) (*models.PersonalTransaction, error) {
	t, err := scanTransaction(s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM personal_transactions WHERE id = ?`, transactionID))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("transaction", transactionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &t, nil
}

// ListTransactions returns a wallet's transactions, oldest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, walletID string) ([]models.PersonalTransaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM personal_transactions WHERE wallet_id = ? ORDER BY created_at, rowid`,
		walletID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.PersonalTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txs, nil
}

// DeleteTransaction removes a transaction and reverses its wallet effect.
// Linked transactions can not be deleted until they are unlinked.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, transactionID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return deleteTransaction(ctx, tx, transactionID)
	})
}

func deleteTransaction(ctx context.Context, tx *sql.Tx, transactionID string) error {
	t, err := scanTransaction(tx.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM personal_transactions WHERE id = ?`, transactionID))
	if err == sql.ErrNoRows {
		return apperr.NotFound("transaction", transactionID)
	}
	if err != nil {
		return fmt.Errorf("failed to get transaction: %w", err)
	}

	for _, q := range []string{
		"SELECT 1 FROM expenses WHERE linked_transaction_id = ?",
		"SELECT 1 FROM budget_links WHERE transaction_id = ?",
	} {
		linked, err := exists(ctx, tx, q, transactionID)
		if err != nil {
			return fmt.Errorf("failed to check transaction links: %w", err)
		}
		if linked {
			return &apperr.ReferentialError{Entity: "transaction", ID: transactionID, Reason: "still linked to a shared expense"}
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM personal_transactions WHERE id = ?", transactionID); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if delta := walletEffect(t.Type, t.Amount, t.Paid); delta != 0 {
		if _, err := tx.ExecContext(ctx,
			"UPDATE wallets SET balance_cents = balance_cents - ? WHERE id = ?", delta, t.WalletID,
		); err != nil {
			return fmt.Errorf("failed to reverse wallet balance: %w", err)
		}
	}
	return nil
}
