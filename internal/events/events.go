// Package events publishes ledger change events after successful mutations.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"
)

// Type names a ledger change.
type Type string

const (
	MemberAdded         Type = "member.added"
	MemberDeleted       Type = "member.deleted"
	ExpenseCreated      Type = "expense.created"
	ExpenseDeleted      Type = "expense.deleted"
	ExpenseMoved        Type = "expense.moved"
	SettlementRecorded  Type = "settlement.recorded"
	SettlementCancelled Type = "settlement.cancelled"
)

// Event is a lightweight change notification. Consumers fetch full rows
// from the store when they need them.
type Event struct {
	Type      Type              `json:"type"`
	TripID    string            `json:"trip_id"`
	EntityID  string            `json:"entity_id"`
	Actor     string            `json:"actor,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// New creates an event stamped with the current time.
func New(typ Type, tripID, entityID, actor string) *Event {
	return &Event{
		Type:      typ,
		TripID:    tripID,
		EntityID:  entityID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
	}
}

// With sets an attribute and returns the event.
func (e *Event) With(key, value string) *Event {
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	e.Attrs[key] = value
	return e
}

// ToJSON converts the event to JSON bytes.
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON parses an event from JSON bytes.
func FromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e *Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, *Event) error { return nil }

// Log writes events to the structured log instead of a broker.
type Log struct{}

func (Log) Publish(ctx context.Context, e *Event) error {
	slog.DebugContext(ctx, "Ledger event",
		"type", string(e.Type),
		"trip_id", e.TripID,
		"entity_id", e.EntityID,
		"actor", e.Actor,
	)
	return nil
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []*Event
}

// Publish appends the event.
func (r *Recorder) Publish(_ context.Context, e *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Types returns the recorded event types in order.
func (r *Recorder) Types() []Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Type, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

// Last returns the most recent event, or nil.
func (r *Recorder) Last() *Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}

// AuditLog returns a consumer that writes every event to logger, one line
// per event, with its attributes in key order.
func AuditLog(logger *slog.Logger) Handler {
	return func(ctx context.Context, e *Event) error {
		args := []any{
			"type", string(e.Type),
			"trip_id", e.TripID,
			"entity_id", e.EntityID,
			"actor", e.Actor,
			"at", e.Timestamp,
		}
		if len(e.Attrs) > 0 {
			attrs := make([]any, 0, 2*len(e.Attrs))
			for _, k := range slices.Sorted(maps.Keys(e.Attrs)) {
				attrs = append(attrs, k, e.Attrs[k])
			}
			args = append(args, slog.Group("attrs", attrs...))
		}
		logger.InfoContext(ctx, "Ledger event", args...)
		return nil
	}
}
