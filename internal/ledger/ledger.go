// Package ledger orchestrates trip mutations: it validates input, writes
// through the store, keeps the personal ledger in sync through the budget
// bridge, and records settlements. Read views are recomputed from a full
// reload of the trip on every call.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/bridge"
	"github.com/mmynk/tripledger/internal/events"
	"github.com/mmynk/tripledger/internal/fx"
	"github.com/mmynk/tripledger/internal/metrics"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

// Service is the entry point for every trip operation.
type Service struct {
	store     storage.Store
	bridge    *bridge.Bridge
	rates     *fx.Provider
	publisher events.Publisher
	now       func() time.Time
}

// New creates a Service. A nil publisher discards events.
func New(store storage.Store, rates *fx.Provider, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	var conv bridge.Converter
	if rates != nil {
		conv = rates
	}
	return &Service{
		store:     store,
		bridge:    bridge.New(store, conv),
		rates:     rates,
		publisher: publisher,
		now:       time.Now,
	}
}

// publish sends an event. Failures are logged and never fail the mutation.
func (s *Service) publish(ctx context.Context, e *events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		metrics.EventPublishFailures.Inc()
		slog.Error("Failed to publish ledger event",
			"type", string(e.Type),
			"trip_id", e.TripID,
			"entity_id", e.EntityID,
			"error", err,
		)
	}
}

// authorizeTrip loads a trip the actor may access: the owner, or a user
// linked to one of its members.
func (s *Service) authorizeTrip(ctx context.Context, actor, tripID string) (*models.Trip, error) {
	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.OwnerID == actor {
		return trip, nil
	}
	members, err := s.store.ListMembers(ctx, tripID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if m.UserID != "" && m.UserID == actor {
			return trip, nil
		}
	}
	return nil, apperr.ErrPermissionDenied
}

func memberIndex(members []models.Member) map[string]models.Member {
	idx := make(map[string]models.Member, len(members))
	for _, m := range members {
		idx[m.ID] = m
	}
	return idx
}
