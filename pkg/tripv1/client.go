package tripv1

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// Client calls every tripledger.v1 procedure over the Connect protocol.
type Client struct {
	httpClient connect.HTTPClient
	baseURL    string
	token      string
	opts       []connect.ClientOption
}

// NewClient returns a client for the server at baseURL. The JSON codec is
// always installed.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		opts:       append([]connect.ClientOption{WithCodec()}, opts...),
	}
}

// WithToken returns a copy of c that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func call[Req, Res any](ctx context.Context, c *Client, procedure string, msg *Req) (*Res, error) {
	client := connect.NewClient[Req, Res](c.httpClient, c.baseURL+procedure, c.opts...)
	req := connect.NewRequest(msg)
	if c.token != "" {
		req.Header().Set("Authorization", "Bearer "+c.token)
	}
	resp, err := client.CallUnary(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func (c *Client) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	return call[RegisterRequest, RegisterResponse](ctx, c, AuthServiceRegisterProcedure, req)
}

func (c *Client) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	return call[LoginRequest, LoginResponse](ctx, c, AuthServiceLoginProcedure, req)
}

func (c *Client) GetCurrentUser(ctx context.Context, req *GetCurrentUserRequest) (*GetCurrentUserResponse, error) {
	return call[GetCurrentUserRequest, GetCurrentUserResponse](ctx, c, AuthServiceGetCurrentUserProcedure, req)
}

func (c *Client) CreateTrip(ctx context.Context, req *CreateTripRequest) (*CreateTripResponse, error) {
	return call[CreateTripRequest, CreateTripResponse](ctx, c, TripServiceCreateTripProcedure, req)
}

func (c *Client) GetTrip(ctx context.Context, req *GetTripRequest) (*GetTripResponse, error) {
	return call[GetTripRequest, GetTripResponse](ctx, c, TripServiceGetTripProcedure, req)
}

func (c *Client) ListTrips(ctx context.Context, req *ListTripsRequest) (*ListTripsResponse, error) {
	return call[ListTripsRequest, ListTripsResponse](ctx, c, TripServiceListTripsProcedure, req)
}

func (c *Client) AddMember(ctx context.Context, req *AddMemberRequest) (*AddMemberResponse, error) {
	return call[AddMemberRequest, AddMemberResponse](ctx, c, TripServiceAddMemberProcedure, req)
}

func (c *Client) DeleteMember(ctx context.Context, req *DeleteMemberRequest) (*DeleteMemberResponse, error) {
	return call[DeleteMemberRequest, DeleteMemberResponse](ctx, c, TripServiceDeleteMemberProcedure, req)
}

func (c *Client) SetMe(ctx context.Context, req *SetMeRequest) (*SetMeResponse, error) {
	return call[SetMeRequest, SetMeResponse](ctx, c, TripServiceSetMeProcedure, req)
}

func (c *Client) ListMembers(ctx context.Context, req *ListMembersRequest) (*ListMembersResponse, error) {
	return call[ListMembersRequest, ListMembersResponse](ctx, c, TripServiceListMembersProcedure, req)
}

func (c *Client) AddExpense(ctx context.Context, req *AddExpenseRequest) (*AddExpenseResponse, error) {
	return call[AddExpenseRequest, AddExpenseResponse](ctx, c, TripServiceAddExpenseProcedure, req)
}

func (c *Client) DeleteExpense(ctx context.Context, req *DeleteExpenseRequest) (*DeleteExpenseResponse, error) {
	return call[DeleteExpenseRequest, DeleteExpenseResponse](ctx, c, TripServiceDeleteExpenseProcedure, req)
}

func (c *Client) ListExpenses(ctx context.Context, req *ListExpensesRequest) (*ListExpensesResponse, error) {
	return call[ListExpensesRequest, ListExpensesResponse](ctx, c, TripServiceListExpensesProcedure, req)
}

func (c *Client) ResyncExpense(ctx context.Context, req *ResyncExpenseRequest) (*ResyncExpenseResponse, error) {
	return call[ResyncExpenseRequest, ResyncExpenseResponse](ctx, c, TripServiceResyncExpenseProcedure, req)
}

func (c *Client) MoveExpense(ctx context.Context, req *MoveExpenseRequest) (*MoveExpenseResponse, error) {
	return call[MoveExpenseRequest, MoveExpenseResponse](ctx, c, TripServiceMoveExpenseProcedure, req)
}

func (c *Client) LinkTransaction(ctx context.Context, req *LinkTransactionRequest) (*LinkTransactionResponse, error) {
	return call[LinkTransactionRequest, LinkTransactionResponse](ctx, c, TripServiceLinkTransactionProcedure, req)
}

func (c *Client) GetBalances(ctx context.Context, req *GetBalancesRequest) (*GetBalancesResponse, error) {
	return call[GetBalancesRequest, GetBalancesResponse](ctx, c, TripServiceGetBalancesProcedure, req)
}

func (c *Client) RecordSettlement(ctx context.Context, req *RecordSettlementRequest) (*RecordSettlementResponse, error) {
	return call[RecordSettlementRequest, RecordSettlementResponse](ctx, c, TripServiceRecordSettlementProcedure, req)
}

func (c *Client) CancelSettlement(ctx context.Context, req *CancelSettlementRequest) (*CancelSettlementResponse, error) {
	return call[CancelSettlementRequest, CancelSettlementResponse](ctx, c, TripServiceCancelSettlementProcedure, req)
}

func (c *Client) ListSettlements(ctx context.Context, req *ListSettlementsRequest) (*ListSettlementsResponse, error) {
	return call[ListSettlementsRequest, ListSettlementsResponse](ctx, c, TripServiceListSettlementsProcedure, req)
}

func (c *Client) CreateWallet(ctx context.Context, req *CreateWalletRequest) (*CreateWalletResponse, error) {
	return call[CreateWalletRequest, CreateWalletResponse](ctx, c, WalletServiceCreateWalletProcedure, req)
}

func (c *Client) GetWallet(ctx context.Context, req *GetWalletRequest) (*GetWalletResponse, error) {
	return call[GetWalletRequest, GetWalletResponse](ctx, c, WalletServiceGetWalletProcedure, req)
}

func (c *Client) ListTransactions(ctx context.Context, req *ListTransactionsRequest) (*ListTransactionsResponse, error) {
	return call[ListTransactionsRequest, ListTransactionsResponse](ctx, c, WalletServiceListTransactionsProcedure, req)
}

func (c *Client) SetRate(ctx context.Context, req *SetRateRequest) (*SetRateResponse, error) {
	return call[SetRateRequest, SetRateResponse](ctx, c, WalletServiceSetRateProcedure, req)
}

func (c *Client) ListRates(ctx context.Context, req *ListRatesRequest) (*ListRatesResponse, error) {
	return call[ListRatesRequest, ListRatesResponse](ctx, c, WalletServiceListRatesProcedure, req)
}
