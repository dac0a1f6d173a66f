package ledger

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/events"
	"github.com/mmynk/tripledger/internal/metrics"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/money"
	"github.com/mmynk/tripledger/internal/storage"
)

// SettlementCategory is the personal-ledger category of companion transactions.
const SettlementCategory = "settlement"

// SettlementInput describes a payment between two members.
type SettlementInput struct {
	TripID       string
	FromMemberID string
	ToMemberID   string
	Currency     string
	Amount       money.Cents
	Note         string
	// ReflectInWallet records a companion wallet transaction. Only valid
	// when I am one of the two parties.
	ReflectInWallet bool
}

// RecordSettlement appends a settlement event.
func (s *Service) RecordSettlement(ctx context.Context, actor string, in SettlementInput) (_ *models.SettlementEvent, err error) {
	defer func() { metrics.ObserveMutation("record_settlement", err) }()

	trip, err := s.authorizeTrip(ctx, actor, in.TripID)
	if err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx, in.TripID)
	if err != nil {
		return nil, err
	}

	if in.Amount <= 0 {
		return nil, apperr.Validation("amount", "must be positive, got %s", in.Amount)
	}
	currency, ok := money.NormalizeCurrency(in.Currency)
	if !ok {
		return nil, apperr.Validation("currency", "invalid currency %q", in.Currency)
	}
	if in.FromMemberID == in.ToMemberID {
		return nil, apperr.Validation("to_member_id", "must differ from from_member_id")
	}
	idx := memberIndex(members)
	from, ok := idx[in.FromMemberID]
	if !ok {
		return nil, apperr.Validation("from_member_id", "%q is not a member of the trip", in.FromMemberID)
	}
	to, ok := idx[in.ToMemberID]
	if !ok {
		return nil, apperr.Validation("to_member_id", "%q is not a member of the trip", in.ToMemberID)
	}

	var companion *storage.TransactionParams
	if in.ReflectInWallet {
		companion, err = companionTransaction(trip, from, to, currency, in.Amount, s.now().Format(time.DateOnly))
		if err != nil {
			return nil, err
		}
	}

	event := &models.SettlementEvent{
		TripID:       trip.ID,
		Currency:     currency,
		Amount:       in.Amount,
		FromMemberID: from.ID,
		ToMemberID:   to.ID,
		CreatedBy:    actor,
		CreatedAt:    s.now().Unix(),
		Status:       models.SettlementActive,
		Note:         strings.TrimSpace(in.Note),
	}

	if companion != nil {
		id, err := s.store.ApplyTransaction(ctx, *companion)
		if err != nil {
			return nil, err
		}
		event.CompanionTransactionID = id
	}
	if err := s.store.CreateSettlement(ctx, event); err != nil {
		if event.CompanionTransactionID != "" {
			if derr := s.store.DeleteTransaction(ctx, event.CompanionTransactionID); derr != nil {
				slog.Error("Failed to remove companion transaction",
					"transaction_id", event.CompanionTransactionID,
					"error", derr,
				)
			}
		}
		return nil, err
	}

	slog.Info("Settlement recorded",
		"trip_id", trip.ID,
		"event_id", event.ID,
		"from", from.Name,
		"to", to.Name,
		"amount", event.Amount.String(),
		"currency", currency,
	)
	s.publish(ctx, events.New(events.SettlementRecorded, trip.ID, event.ID, actor).
		With("amount", event.Amount.String()).
		With("currency", currency))
	return event, nil
}

// companionTransaction builds the wallet transaction mirroring a settlement:
// paying a debt is an expense, being paid back is income. Both are paid and
// excluded from the budget.
func companionTransaction(trip *models.Trip, from, to models.Member, currency string, amount money.Cents, day string) (*storage.TransactionParams, error) {
	if trip.WalletID == "" {
		return nil, apperr.Validation("reflect_in_wallet", "trip has no wallet")
	}
	p := &storage.TransactionParams{
		WalletID:          trip.WalletID,
		Amount:            amount,
		Currency:          currency,
		Category:          SettlementCategory,
		Paid:              true,
		ExcludeFromBudget: true,
	}
	switch {
	case from.IsMe:
		p.Type = models.TransactionExpense
		p.Label = "Settlement to " + to.Name
	case to.IsMe:
		p.Type = models.TransactionIncome
		p.Label = "Settlement from " + from.Name
	default:
		return nil, apperr.Validation("reflect_in_wallet", "I am not a party to this settlement")
	}
	p.DateStart, p.DateEnd = day, day
	return p, nil
}

// CancelSettlement cancels an active event. Only the trip owner or the
// event's creator may cancel. A companion wallet transaction is left as is.
func (s *Service) CancelSettlement(ctx context.Context, actor, eventID string) (_ *models.SettlementEvent, err error) {
	defer func() { metrics.ObserveMutation("cancel_settlement", err) }()

	event, err := s.store.GetSettlement(ctx, eventID)
	if err != nil {
		return nil, err
	}
	trip, err := s.store.GetTrip(ctx, event.TripID)
	if err != nil {
		return nil, err
	}
	if actor != trip.OwnerID && actor != event.CreatedBy {
		return nil, apperr.ErrPermissionDenied
	}
	if !event.Active() {
		return nil, apperr.Validation("event_id", "settlement %s is already cancelled", eventID)
	}

	at := s.now().Unix()
	if err := s.store.CancelSettlement(ctx, eventID, actor, at); err != nil {
		return nil, err
	}
	event.Status = models.SettlementCancelled
	event.CancelledAt = at
	event.CancelledBy = actor

	s.publish(ctx, events.New(events.SettlementCancelled, trip.ID, eventID, actor))
	return event, nil
}

// ListSettlements returns a trip's settlement log in creation order.
func (s *Service) ListSettlements(ctx context.Context, actor, tripID string, includeCancelled bool) ([]models.SettlementEvent, error) {
	if _, err := s.authorizeTrip(ctx, actor, tripID); err != nil {
		return nil, err
	}
	all, err := s.store.ListSettlements(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if includeCancelled {
		return all, nil
	}
	active := all[:0]
	for _, e := range all {
		if e.Active() {
			active = append(active, e)
		}
	}
	return active, nil
}
