package ledger

import (
	"context"
	"strings"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/events"
	"github.com/mmynk/tripledger/internal/metrics"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/money"
)

// CreateTrip creates a trip owned by actor. walletID is optional; without
// it the budget bridge is disabled for the trip.
func (s *Service) CreateTrip(ctx context.Context, actor, name, baseCurrency, walletID string) (_ *models.Trip, err error) {
	defer func() { metrics.ObserveMutation("create_trip", err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name", "is required")
	}
	currency, ok := money.NormalizeCurrency(baseCurrency)
	if !ok {
		return nil, apperr.Validation("base_currency", "invalid currency %q", baseCurrency)
	}
	if walletID != "" {
		if _, err := s.ownedWallet(ctx, actor, walletID); err != nil {
			return nil, err
		}
	}

	trip := &models.Trip{OwnerID: actor, Name: name, BaseCurrency: currency, WalletID: walletID}
	if err := s.store.CreateTrip(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// GetTrip returns a trip with its members.
func (s *Service) GetTrip(ctx context.Context, actor, tripID string) (*models.Trip, []models.Member, error) {
	trip, err := s.authorizeTrip(ctx, actor, tripID)
	if err != nil {
		return nil, nil, err
	}
	members, err := s.store.ListMembers(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	return trip, members, nil
}

// ListTrips returns the trips actor can access.
func (s *Service) ListTrips(ctx context.Context, actor string) ([]*models.Trip, error) {
	return s.store.ListTripsForUser(ctx, actor)
}

// AddMember adds a member. When isMe is set the flag moves to the new member.
// Only the owner may set isMe or link the member to a user.
func (s *Service) AddMember(ctx context.Context, actor, tripID, name string, isMe bool, userID string) (_ *models.Member, err error) {
	defer func() { metrics.ObserveMutation("add_member", err) }()

	trip, err := s.authorizeTrip(ctx, actor, tripID)
	if err != nil {
		return nil, err
	}
	if (isMe || userID != "") && trip.OwnerID != actor {
		return nil, apperr.ErrPermissionDenied
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name", "is required")
	}
	members, err := s.store.ListMembers(ctx, tripID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if strings.EqualFold(m.Name, name) {
			return nil, apperr.Validation("name", "member %q already exists", name)
		}
	}

	member := &models.Member{TripID: tripID, Name: name, IsMe: isMe, UserID: userID}
	if err := s.store.AddMember(ctx, member); err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.MemberAdded, tripID, member.ID, actor).With("name", name))
	return member, nil
}

// ListMembers returns a trip's members in creation order.
func (s *Service) ListMembers(ctx context.Context, actor, tripID string) ([]models.Member, error) {
	if _, err := s.authorizeTrip(ctx, actor, tripID); err != nil {
		return nil, err
	}
	return s.store.ListMembers(ctx, tripID)
}

// SetMe moves the me flag to memberID. Only the owner may move it.
func (s *Service) SetMe(ctx context.Context, actor, tripID, memberID string) (err error) {
	defer func() { metrics.ObserveMutation("set_me", err) }()

	trip, err := s.authorizeTrip(ctx, actor, tripID)
	if err != nil {
		return err
	}
	if trip.OwnerID != actor {
		return apperr.ErrPermissionDenied
	}
	return s.store.SetMe(ctx, tripID, memberID)
}

// DeleteMember deletes a member that no expense, share or settlement references.
func (s *Service) DeleteMember(ctx context.Context, actor, memberID string) (err error) {
	defer func() { metrics.ObserveMutation("delete_member", err) }()

	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return err
	}
	if _, err := s.authorizeTrip(ctx, actor, member.TripID); err != nil {
		return err
	}
	if err := s.store.DeleteMember(ctx, memberID); err != nil {
		return err
	}
	s.publish(ctx, events.New(events.MemberDeleted, member.TripID, memberID, actor))
	return nil
}
