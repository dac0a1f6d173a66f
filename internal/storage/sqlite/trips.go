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

// CreateTrip persists a new trip.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	if trip.CreatedAt == 0 {
		trip.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trips (id, owner_id, name, base_currency, wallet_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		trip.ID, trip.OwnerID, trip.Name, trip.BaseCurrency, nullString(trip.WalletID), trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}
	return nil
}

// GetTrip retrieves a trip by ID.
func (s *SQLiteStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip := &models.Trip{}
	var walletID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, base_currency, wallet_id, created_at FROM trips WHERE id = ?`,
		tripID,
	).Scan(&trip.ID, &trip.OwnerID, &trip.Name, &trip.BaseCurrency, &walletID, &trip.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("trip", tripID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	trip.WalletID = walletID.String
	return trip, nil
}

// ListTripsForUser returns trips owned by the user or where the user is linked to a member.
func (s *SQLiteStore) ListTripsForUser(ctx context.Context, userID string) ([]*models.Trip, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT t.id, t.owner_id, t.name, t.base_currency, t.wallet_id, t.created_at
		 FROM trips t
		 LEFT JOIN members m ON m.trip_id = t.id
		 WHERE t.owner_id = ? OR m.user_id = ?
		 ORDER BY t.created_at DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		trip := &models.Trip{}
		var walletID sql.NullString
		if err := rows.Scan(&trip.ID, &trip.OwnerID, &trip.Name, &trip.BaseCurrency, &walletID, &trip.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trip.WalletID = walletID.String
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}
	return trips, nil
}

// AddMember inserts a member, clearing the me flag on the others if needed.
func (s *SQLiteStore) AddMember(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().Unix()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, "SELECT 1 FROM trips WHERE id = ?", member.TripID)
		if err != nil {
			return fmt.Errorf("failed to check trip existence: %w", err)
		}
		if !ok {
			return apperr.NotFound("trip", member.TripID)
		}

		if member.IsMe {
			if _, err := tx.ExecContext(ctx, "UPDATE members SET is_me = 0 WHERE trip_id = ?", member.TripID); err != nil {
				return fmt.Errorf("failed to clear me flag: %w", err)
			}
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO members (id, trip_id, name, is_me, user_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			member.ID, member.TripID, member.Name, boolInt(member.IsMe), nullString(member.UserID), member.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
		return nil
	})
}

// GetMember retrieves a member by ID.
func (s *SQLiteStore) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	m := &models.Member{}
	var userID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, trip_id, name, is_me, user_id, created_at FROM members WHERE id = ?`,
		memberID,
	).Scan(&m.ID, &m.TripID, &m.Name, &m.IsMe, &userID, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("member", memberID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	m.UserID = userID.String
	return m, nil
}

// ListMembers returns a trip's members in creation order.
func (s *SQLiteStore) ListMembers(ctx context.Context, tripID string) ([]models.Member, error) {
	return listMembers(ctx, s.db, tripID)
}

func listMembers(ctx context.Context, q queryer, tripID string) ([]models.Member, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, trip_id, name, is_me, user_id, created_at FROM members
		 WHERE trip_id = ? ORDER BY created_at, rowid`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		var userID sql.NullString
		if err := rows.Scan(&m.ID, &m.TripID, &m.Name, &m.IsMe, &userID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.UserID = userID.String
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// SetMe flags one member as me and clears the others.
func (s *SQLiteStore) SetMe(ctx context.Context, tripID, memberID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, "SELECT 1 FROM members WHERE id = ? AND trip_id = ?", memberID, tripID)
		if err != nil {
			return fmt.Errorf("failed to check member existence: %w", err)
		}
		if !ok {
			return apperr.NotFound("member", memberID)
		}
		if _, err := tx.ExecContext(ctx, "UPDATE members SET is_me = (id = ?) WHERE trip_id = ?", memberID, tripID); err != nil {
			return fmt.Errorf("failed to set me flag: %w", err)
		}
		return nil
	})
}

// DeleteMember removes a member that nothing references.
func (s *SQLiteStore) DeleteMember(ctx context.Context, memberID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, "SELECT 1 FROM members WHERE id = ?", memberID)
		if err != nil {
			return fmt.Errorf("failed to check member existence: %w", err)
		}
		if !ok {
			return apperr.NotFound("member", memberID)
		}

		checks := []struct {
			query  string
			reason string
		}{
			{"SELECT 1 FROM expenses WHERE payer_member_id = ? LIMIT 1", "member paid an expense"},
			{"SELECT 1 FROM shares WHERE member_id = ? LIMIT 1", "member holds a share of an expense"},
			{"SELECT 1 FROM settlement_events WHERE from_member_id = ?1 OR to_member_id = ?1 LIMIT 1", "member appears in a settlement"},
		}
		for _, c := range checks {
			referenced, err := exists(ctx, tx, c.query, memberID)
			if err != nil {
				return fmt.Errorf("failed to check member references: %w", err)
			}
			if referenced {
				return &apperr.ReferentialError{Entity: "member", ID: memberID, Reason: c.reason}
			}
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM members WHERE id = ?", memberID); err != nil {
			return fmt.Errorf("failed to delete member: %w", err)
		}
		return nil
	})
}
