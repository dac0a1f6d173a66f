package ledger

import (
	"context"
	"strings"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/events"
	"github.com/mmynk/tripledger/internal/metrics"
	"github.com/mmynk/tripledger/internal/models"
)

// MoveExpenseToTrip reassigns an expense, its shares and budget links to
// another trip of the same owner. Members are matched by name, and my
// member always maps to my member in the target trip.
func (s *Service) MoveExpenseToTrip(ctx context.Context, actor, expenseID, targetTripID string) (err error) {
	defer func() { metrics.ObserveMutation("move_expense", err) }()

	source, expense, shares, err := s.loadExpense(ctx, actor, expenseID)
	if err != nil {
		return err
	}
	if source.ID == targetTripID {
		return apperr.Validation("trip_id", "expense already belongs to trip %s", targetTripID)
	}
	target, err := s.authorizeTrip(ctx, actor, targetTripID)
	if err != nil {
		return err
	}
	if target.OwnerID != source.OwnerID {
		return &apperr.ReferentialError{Entity: "trip", ID: targetTripID, Reason: "belongs to another owner"}
	}
	if target.WalletID != source.WalletID {
		if expense.LinkedTransactionID != "" {
			return &apperr.ReferentialError{Entity: "expense", ID: expenseID, Reason: "linked transaction belongs to another wallet"}
		}
		links, err := s.store.ListBudgetLinks(ctx, expenseID)
		if err != nil {
			return err
		}
		if len(links) > 0 {
			return &apperr.ReferentialError{Entity: "expense", ID: expenseID, Reason: "budget-linked transaction belongs to another wallet"}
		}
	}

	from, err := s.store.ListMembers(ctx, source.ID)
	if err != nil {
		return err
	}
	to, err := s.store.ListMembers(ctx, target.ID)
	if err != nil {
		return err
	}

	involved := []string{expense.PayerMemberID}
	for _, sh := range shares {
		involved = append(involved, sh.MemberID)
	}
	memberMap, err := mapMembers(involved, from, to)
	if err != nil {
		return err
	}

	if err := s.store.MoveExpense(ctx, expenseID, target.ID, memberMap); err != nil {
		return err
	}
	s.publish(ctx, events.New(events.ExpenseMoved, target.ID, expenseID, actor).With("from_trip_id", source.ID))
	return nil
}

// mapMembers maps each involved source member to its counterpart in the
// target trip. Every involved member must map, and no two may share a target.
func mapMembers(involved []string, from, to []models.Member) (map[string]string, error) {
	sourceIdx := memberIndex(from)
	targetMe, hasMe := models.FindMe(to)
	byName := make(map[string]models.Member, len(to))
	for _, m := range to {
		byName[strings.ToLower(m.Name)] = m
	}

	out := make(map[string]string, len(involved))
	used := make(map[string]string, len(involved))
	for _, id := range involved {
		if _, done := out[id]; done {
			continue
		}
		m, ok := sourceIdx[id]
		if !ok {
			return nil, &apperr.ReferentialError{Entity: "member", ID: id, Reason: "not found in source trip"}
		}

		var counterpart models.Member
		switch {
		case m.IsMe && hasMe:
			counterpart = targetMe
		default:
			c, ok := byName[strings.ToLower(m.Name)]
			if !ok {
				return nil, &apperr.ReferentialError{Entity: "member", ID: id, Reason: "no member named " + m.Name + " in target trip"}
			}
			counterpart = c
		}

		if prev, taken := used[counterpart.ID]; taken {
			return nil, &apperr.ReferentialError{
				Entity: "member", ID: id,
				Reason: "maps to the same target member as " + prev,
			}
		}
		used[counterpart.ID] = id
		out[id] = counterpart.ID
	}
	return out, nil
}
