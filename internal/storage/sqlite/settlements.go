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

const settlementColumns = `id, trip_id, currency, amount_cents, from_member_id, to_member_id,
	created_by, created_at, status, cancelled_at, cancelled_by, companion_transaction_id, note`

func scanSettlement(row rowScanner) (models.SettlementEvent, error) {
	var ev models.SettlementEvent
	var cancelledAt sql.NullInt64
	var cancelledBy, companion, note sql.NullString
	err := row.Scan(&ev.ID, &ev.TripID, &ev.Currency, &ev.Amount, &ev.FromMemberID, &ev.ToMemberID,
		&ev.CreatedBy, &ev.CreatedAt, &ev.Status, &cancelledAt, &cancelledBy, &companion, &note)
	ev.CancelledAt = cancelledAt.Int64
	ev.CancelledBy = cancelledBy.String
	ev.CompanionTransactionID = companion.String
	ev.Note = note.String
	return ev, err
}

// CreateSettlement appends a settlement event.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, event *models.SettlementEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}
	if event.Status == "" {
		event.Status = models.SettlementActive
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlement_events (`+settlementColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.TripID, event.Currency, event.Amount, event.FromMemberID, event.ToMemberID,
		event.CreatedBy, event.CreatedAt, event.Status, nullInt(event.CancelledAt), nullString(event.CancelledBy),
		nullString(event.CompanionTransactionID), nullString(event.Note),
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

// GetSettlement retrieves a settlement event by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, eventID string) (*models.SettlementEvent, error) {
	ev, err := scanSettlement(s.db.QueryRowContext(ctx,
		`SELECT `+settlementColumns+` FROM settlement_events WHERE id = ?`, eventID))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("settlement", eventID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return &ev, nil
}

// ListSettlements retrieves all settlement events of a trip, cancelled ones included.
func (s *SQLiteStore) ListSettlements(ctx context.Context, tripID string) ([]models.SettlementEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+settlementColumns+` FROM settlement_events WHERE trip_id = ? ORDER BY created_at, rowid`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var events []models.SettlementEvent
	for rows.Next() {
		ev, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return events, nil
}

// CancelSettlement marks an active event cancelled. The row is never deleted.
func (s *SQLiteStore) CancelSettlement(ctx context.Context, eventID, actor string, at int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE settlement_events SET status = ?, cancelled_at = ?, cancelled_by = ?
		 WHERE id = ? AND status = ?`,
		models.SettlementCancelled, at, actor, eventID, models.SettlementActive,
	)
	if err != nil {
		return fmt.Errorf("failed to cancel settlement: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		ok, err := exists(ctx, s.db, "SELECT 1 FROM settlement_events WHERE id = ?", eventID)
		if err != nil {
			return fmt.Errorf("failed to check settlement existence: %w", err)
		}
		if !ok {
			return apperr.NotFound("settlement", eventID)
		}
		return apperr.Validation("status", "settlement %s is already cancelled", eventID)
	}
	return nil
}
