package tripv1

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{WithCodec()}, opts...)
}

// AuthServiceHandler is implemented by the auth service.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error)
}

// NewAuthServiceHandler returns the path to mount svc on and its handler.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(AuthServiceRegisterProcedure, connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...))
	mux.Handle(AuthServiceLoginProcedure, connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...))
	mux.Handle(AuthServiceGetCurrentUserProcedure, connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...))
	return "/" + AuthServiceName + "/", mux
}

// TripServiceHandler is implemented by the trip service.
type TripServiceHandler interface {
	CreateTrip(context.Context, *connect.Request[CreateTripRequest]) (*connect.Response[CreateTripResponse], error)
	GetTrip(context.Context, *connect.Request[GetTripRequest]) (*connect.Response[GetTripResponse], error)
	ListTrips(context.Context, *connect.Request[ListTripsRequest]) (*connect.Response[ListTripsResponse], error)
	AddMember(context.Context, *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error)
	DeleteMember(context.Context, *connect.Request[DeleteMemberRequest]) (*connect.Response[DeleteMemberResponse], error)
	SetMe(context.Context, *connect.Request[SetMeRequest]) (*connect.Response[SetMeResponse], error)
	ListMembers(context.Context, *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error)
	AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	ResyncExpense(context.Context, *connect.Request[ResyncExpenseRequest]) (*connect.Response[ResyncExpenseResponse], error)
	MoveExpense(context.Context, *connect.Request[MoveExpenseRequest]) (*connect.Response[MoveExpenseResponse], error)
	LinkTransaction(context.Context, *connect.Request[LinkTransactionRequest]) (*connect.Response[LinkTransactionResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	RecordSettlement(context.Context, *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error)
	CancelSettlement(context.Context, *connect.Request[CancelSettlementRequest]) (*connect.Response[CancelSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error)
}

// NewTripServiceHandler returns the path to mount svc on and its handler.
func NewTripServiceHandler(svc TripServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(TripServiceCreateTripProcedure, connect.NewUnaryHandler(TripServiceCreateTripProcedure, svc.CreateTrip, opts...))
	mux.Handle(TripServiceGetTripProcedure, connect.NewUnaryHandler(TripServiceGetTripProcedure, svc.GetTrip, opts...))
	mux.Handle(TripServiceListTripsProcedure, connect.NewUnaryHandler(TripServiceListTripsProcedure, svc.ListTrips, opts...))
	mux.Handle(TripServiceAddMemberProcedure, connect.NewUnaryHandler(TripServiceAddMemberProcedure, svc.AddMember, opts...))
	mux.Handle(TripServiceDeleteMemberProcedure, connect.NewUnaryHandler(TripServiceDeleteMemberProcedure, svc.DeleteMember, opts...))
	mux.Handle(TripServiceSetMeProcedure, connect.NewUnaryHandler(TripServiceSetMeProcedure, svc.SetMe, opts...))
	mux.Handle(TripServiceListMembersProcedure, connect.NewUnaryHandler(TripServiceListMembersProcedure, svc.ListMembers, opts...))
	mux.Handle(TripServiceAddExpenseProcedure, connect.NewUnaryHandler(TripServiceAddExpenseProcedure, svc.AddExpense, opts...))
	mux.Handle(TripServiceDeleteExpenseProcedure, connect.NewUnaryHandler(TripServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...))
	mux.Handle(TripServiceListExpensesProcedure, connect.NewUnaryHandler(TripServiceListExpensesProcedure, svc.ListExpenses, opts...))
	mux.Handle(TripServiceResyncExpenseProcedure, connect.NewUnaryHandler(TripServiceResyncExpenseProcedure, svc.ResyncExpense, opts...))
	mux.Handle(TripServiceMoveExpenseProcedure, connect.NewUnaryHandler(TripServiceMoveExpenseProcedure, svc.MoveExpense, opts...))
	mux.Handle(TripServiceLinkTransactionProcedure, connect.NewUnaryHandler(TripServiceLinkTransactionProcedure, svc.LinkTransaction, opts...))
	mux.Handle(TripServiceGetBalancesProcedure, connect.NewUnaryHandler(TripServiceGetBalancesProcedure, svc.GetBalances, opts...))
	mux.Handle(TripServiceRecordSettlementProcedure, connect.NewUnaryHandler(TripServiceRecordSettlementProcedure, svc.RecordSettlement, opts...))
	mux.Handle(TripServiceCancelSettlementProcedure, connect.NewUnaryHandler(TripServiceCancelSettlementProcedure, svc.CancelSettlement, opts...))
	mux.Handle(TripServiceListSettlementsProcedure, connect.NewUnaryHandler(TripServiceListSettlementsProcedure, svc.ListSettlements, opts...))
	return "/" + TripServiceName + "/", mux
}

// WalletServiceHandler is implemented by the wallet service.
type WalletServiceHandler interface {
	CreateWallet(context.Context, *connect.Request[CreateWalletRequest]) (*connect.Response[CreateWalletResponse], error)
	GetWallet(context.Context, *connect.Request[GetWalletRequest]) (*connect.Response[GetWalletResponse], error)
	ListTransactions(context.Context, *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error)
	SetRate(context.Context, *connect.Request[SetRateRequest]) (*connect.Response[SetRateResponse], error)
	ListRates(context.Context, *connect.Request[ListRatesRequest]) (*connect.Response[ListRatesResponse], error)
}

// NewWalletServiceHandler returns the path to mount svc on and its handler.
func NewWalletServiceHandler(svc WalletServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(WalletServiceCreateWalletProcedure, connect.NewUnaryHandler(WalletServiceCreateWalletProcedure, svc.CreateWallet, opts...))
	mux.Handle(WalletServiceGetWalletProcedure, connect.NewUnaryHandler(WalletServiceGetWalletProcedure, svc.GetWallet, opts...))
	mux.Handle(WalletServiceListTransactionsProcedure, connect.NewUnaryHandler(WalletServiceListTransactionsProcedure, svc.ListTransactions, opts...))
	mux.Handle(WalletServiceSetRateProcedure, connect.NewUnaryHandler(WalletServiceSetRateProcedure, svc.SetRate, opts...))
	mux.Handle(WalletServiceListRatesProcedure, connect.NewUnaryHandler(WalletServiceListRatesProcedure, svc.ListRates, opts...))
	return "/" + WalletServiceName + "/", mux
}
