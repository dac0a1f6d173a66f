package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/pkg/tripv1"
)

// TripService implements the tripledger.v1.TripService procedures on top of
// the ledger.
type TripService struct {
	ledger *ledger.Service

	// defaultCurrency applies to trips created without a base currency.
	defaultCurrency string
}

var _ tripv1.TripServiceHandler = (*TripService)(nil)

// NewTripService creates a TripService backed by the given ledger.
func NewTripService(l *ledger.Service, defaultCurrency string) *TripService {
	return &TripService{ledger: l, defaultCurrency: defaultCurrency}
}

// CreateTrip creates a trip owned by the caller.
func (s *TripService) CreateTrip(ctx context.Context, req *connect.Request[tripv1.CreateTripRequest]) (*connect.Response[tripv1.CreateTripResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateTrip request received", "name", req.Msg.Name, "base_currency", req.Msg.BaseCurrency)

	currency := req.Msg.BaseCurrency
	if currency == "" {
		currency = s.defaultCurrency
	}
	trip, err := s.ledger.CreateTrip(ctx, userID, req.Msg.Name, currency, req.Msg.WalletID)
	if err != nil {
		return nil, connectError("CreateTrip", err)
	}

	slog.Info("Trip created", "trip_id", trip.ID)
	return connect.NewResponse(&tripv1.CreateTripResponse{Trip: toTrip(trip)}), nil
}

// GetTrip returns a trip with its members.
func (s *TripService) GetTrip(ctx context.Context, req *connect.Request[tripv1.GetTripRequest]) (*connect.Response[tripv1.GetTripResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	trip, members, err := s.ledger.GetTrip(ctx, userID, req.Msg.TripID)
	if err != nil {
		return nil, connectError("GetTrip", err)
	}
	return connect.NewResponse(&tripv1.GetTripResponse{
		Trip:    toTrip(trip),
		Members: toMembers(members),
	}), nil
}

// ListTrips returns the caller's trips.
func (s *TripService) ListTrips(ctx context.Context, req *connect.Request[tripv1.ListTripsRequest]) (*connect.Response[tripv1.ListTripsResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	trips, err := s.ledger.ListTrips(ctx, userID)
	if err != nil {
		return nil, connectError("ListTrips", err)
	}

	out := make([]tripv1.Trip, len(trips))
	for i, t := range trips {
		out[i] = toTrip(t)
	}
	slog.Info("ListTrips successful", "count", len(out))
	return connect.NewResponse(&tripv1.ListTripsResponse{Trips: out}), nil
}

func (s *TripService) AddMember(ctx context.Context, req *connect.Request[tripv1.AddMemberRequest]) (*connect.Response[tripv1.AddMemberResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	m, err := s.ledger.AddMember(ctx, userID, req.Msg.TripID, req.Msg.Name, req.Msg.IsMe, req.Msg.UserID)
	if err != nil {
		return nil, connectError("AddMember", err)
	}
	return connect.NewResponse(&tripv1.AddMemberResponse{Member: toMember(m)}), nil
}

func (s *TripService) DeleteMember(ctx context.Context, req *connect.Request[tripv1.DeleteMemberRequest]) (*connect.Response[tripv1.DeleteMemberResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.DeleteMember(ctx, userID, req.Msg.MemberID); err != nil {
		return nil, connectError("DeleteMember", err)
	}
	return connect.NewResponse(&tripv1.DeleteMemberResponse{}), nil
}

func (s *TripService) SetMe(ctx context.Context, req *connect.Request[tripv1.SetMeRequest]) (*connect.Response[tripv1.SetMeResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.SetMe(ctx, userID, req.Msg.TripID, req.Msg.MemberID); err != nil {
		return nil, connectError("SetMe", err)
	}
	return connect.NewResponse(&tripv1.SetMeResponse{}), nil
}

func (s *TripService) ListMembers(ctx context.Context, req *connect.Request[tripv1.ListMembersRequest]) (*connect.Response[tripv1.ListMembersResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	members, err := s.ledger.ListMembers(ctx, userID, req.Msg.TripID)
	if err != nil {
		return nil, connectError("ListMembers", err)
	}
	return connect.NewResponse(&tripv1.ListMembersResponse{Members: toMembers(members)}), nil
}

// AddExpense records an expense, splits it and mirrors it into the caller's
// personal ledger.
func (s *TripService) AddExpense(ctx context.Context, req *connect.Request[tripv1.AddExpenseRequest]) (*connect.Response[tripv1.AddExpenseResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("AddExpense request received",
		"trip_id", req.Msg.TripID,
		"amount", req.Msg.Amount.String(),
		"currency", req.Msg.Currency,
		"split_mode", req.Msg.SplitMode,
	)

	amount, err := cents("amount", req.Msg.Amount)
	if err != nil {
		return nil, connectError("AddExpense", err)
	}
	amounts, err := toCents("amounts", req.Msg.Amounts)
	if err != nil {
		return nil, connectError("AddExpense", err)
	}

	res, err := s.ledger.AddExpense(ctx, userID, ledger.ExpenseInput{
		TripID:        req.Msg.TripID,
		Date:          req.Msg.Date,
		Label:         req.Msg.Label,
		Amount:        amount,
		Currency:      req.Msg.Currency,
		PayerMemberID: req.Msg.PayerMemberID,
		MemberIDs:     req.Msg.MemberIDs,
		Split: models.SplitSpec{
			Mode:     models.SplitMode(req.Msg.SplitMode),
			Percents: req.Msg.Percents,
			Amounts:  amounts,
		},
	})
	if err != nil {
		return nil, connectError("AddExpense", err)
	}

	slog.Info("Expense created", "expense_id", res.Expense.ID, "bridge_case", res.Bridge.Case.String())
	return connect.NewResponse(&tripv1.AddExpenseResponse{
		Expense:    toExpense(res.Expense, res.Shares),
		BridgeCase: res.Bridge.Case.String(),
	}), nil
}

func (s *TripService) DeleteExpense(ctx context.Context, req *connect.Request[tripv1.DeleteExpenseRequest]) (*connect.Response[tripv1.DeleteExpenseResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.DeleteExpense(ctx, userID, req.Msg.ExpenseID); err != nil {
		return nil, connectError("DeleteExpense", err)
	}
	return connect.NewResponse(&tripv1.DeleteExpenseResponse{}), nil
}

func (s *TripService) ListExpenses(ctx context.Context, req *connect.Request[tripv1.ListExpensesRequest]) (*connect.Response[tripv1.ListExpensesResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	expenses, shares, err := s.ledger.ListExpenses(ctx, userID, req.Msg.TripID)
	if err != nil {
		return nil, connectError("ListExpenses", err)
	}

	out := make([]tripv1.Expense, len(expenses))
	for i := range expenses {
		out[i] = toExpense(&expenses[i], shares)
	}
	return connect.NewResponse(&tripv1.ListExpensesResponse{Expenses: out}), nil
}

// ResyncExpense recreates whatever bridged transactions are missing.
func (s *TripService) ResyncExpense(ctx context.Context, req *connect.Request[tripv1.ResyncExpenseRequest]) (*connect.Response[tripv1.ResyncExpenseResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.ledger.ResyncExpense(ctx, userID, req.Msg.ExpenseID)
	if err != nil {
		return nil, connectError("ResyncExpense", err)
	}
	return connect.NewResponse(&tripv1.ResyncExpenseResponse{
		BridgeCase: res.Case.String(),
		Created:    res.Created,
	}), nil
}

func (s *TripService) MoveExpense(ctx context.Context, req *connect.Request[tripv1.MoveExpenseRequest]) (*connect.Response[tripv1.MoveExpenseResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.MoveExpenseToTrip(ctx, userID, req.Msg.ExpenseID, req.Msg.TargetTripID); err != nil {
		return nil, connectError("MoveExpense", err)
	}
	return connect.NewResponse(&tripv1.MoveExpenseResponse{}), nil
}

func (s *TripService) LinkTransaction(ctx context.Context, req *connect.Request[tripv1.LinkTransactionRequest]) (*connect.Response[tripv1.LinkTransactionResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.ledger.LinkTransaction(ctx, userID, req.Msg.ExpenseID, req.Msg.TransactionID)
	if err != nil {
		return nil, connectError("LinkTransaction", err)
	}
	return connect.NewResponse(&tripv1.LinkTransactionResponse{BridgeCase: c.String()}), nil
}

// GetBalances returns per-currency balances, the settlement plan and totals
// unified into the pivot currency.
func (s *TripService) GetBalances(ctx context.Context, req *connect.Request[tripv1.GetBalancesRequest]) (*connect.Response[tripv1.GetBalancesResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	view, err := s.ledger.Balances(ctx, userID, req.Msg.TripID, req.Msg.Pivot)
	if err != nil {
		return nil, connectError("GetBalances", err)
	}
	return connect.NewResponse(toBalances(view)), nil
}

func (s *TripService) RecordSettlement(ctx context.Context, req *connect.Request[tripv1.RecordSettlementRequest]) (*connect.Response[tripv1.RecordSettlementResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("RecordSettlement request received",
		"trip_id", req.Msg.TripID,
		"from", req.Msg.FromMemberID,
		"to", req.Msg.ToMemberID,
		"amount", req.Msg.Amount.String(),
	)

	amount, err := cents("amount", req.Msg.Amount)
	if err != nil {
		return nil, connectError("RecordSettlement", err)
	}

	ev, err := s.ledger.RecordSettlement(ctx, userID, ledger.SettlementInput{
		TripID:          req.Msg.TripID,
		FromMemberID:    req.Msg.FromMemberID,
		ToMemberID:      req.Msg.ToMemberID,
		Currency:        req.Msg.Currency,
		Amount:          amount,
		Note:            req.Msg.Note,
		ReflectInWallet: req.Msg.ReflectInWallet,
	})
	if err != nil {
		return nil, connectError("RecordSettlement", err)
	}
	return connect.NewResponse(&tripv1.RecordSettlementResponse{Settlement: toSettlement(ev)}), nil
}

func (s *TripService) CancelSettlement(ctx context.Context, req *connect.Request[tripv1.CancelSettlementRequest]) (*connect.Response[tripv1.CancelSettlementResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	ev, err := s.ledger.CancelSettlement(ctx, userID, req.Msg.SettlementID)
	if err != nil {
		return nil, connectError("CancelSettlement", err)
	}
	return connect.NewResponse(&tripv1.CancelSettlementResponse{Settlement: toSettlement(ev)}), nil
}

func (s *TripService) ListSettlements(ctx context.Context, req *connect.Request[tripv1.ListSettlementsRequest]) (*connect.Response[tripv1.ListSettlementsResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	events, err := s.ledger.ListSettlements(ctx, userID, req.Msg.TripID, req.Msg.IncludeCancelled)
	if err != nil {
		return nil, connectError("ListSettlements", err)
	}

	out := make([]tripv1.Settlement, len(events))
	for i := range events {
		out[i] = toSettlement(&events[i])
	}
	return connect.NewResponse(&tripv1.ListSettlementsResponse{Settlements: out}), nil
}
