package tripv1

import "github.com/shopspring/decimal"

// Amounts travel as decimal strings in major units ("12.34").

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type Trip struct {
	ID           string `json:"id"`
	OwnerID      string `json:"owner_id"`
	Name         string `json:"name"`
	BaseCurrency string `json:"base_currency"`
	WalletID     string `json:"wallet_id,omitempty"`
	CreatedAt    int64  `json:"created_at"`
}

type Member struct {
	ID     string `json:"id"`
	TripID string `json:"trip_id"`
	Name   string `json:"name"`
	IsMe   bool   `json:"is_me"`
	UserID string `json:"user_id,omitempty"`
}

type Share struct {
	MemberID string          `json:"member_id"`
	Amount   decimal.Decimal `json:"amount"`
}

type Expense struct {
	ID                  string          `json:"id"`
	TripID              string          `json:"trip_id"`
	Date                string          `json:"date"`
	Label               string          `json:"label"`
	Amount              decimal.Decimal `json:"amount"`
	Currency            string          `json:"currency"`
	PayerMemberID       string          `json:"payer_member_id"`
	SplitMode           string          `json:"split_mode"`
	LinkedTransactionID string          `json:"linked_transaction_id,omitempty"`
	Shares              []Share         `json:"shares"`
	CreatedAt           int64           `json:"created_at"`
}

type Settlement struct {
	ID                     string          `json:"id"`
	TripID                 string          `json:"trip_id"`
	FromMemberID           string          `json:"from_member_id"`
	ToMemberID             string          `json:"to_member_id"`
	Currency               string          `json:"currency"`
	Amount                 decimal.Decimal `json:"amount"`
	Note                   string          `json:"note,omitempty"`
	Status                 string          `json:"status"`
	CreatedBy              string          `json:"created_by"`
	CreatedAt              int64           `json:"created_at"`
	CancelledBy            string          `json:"cancelled_by,omitempty"`
	CancelledAt            int64           `json:"cancelled_at,omitempty"`
	CompanionTransactionID string          `json:"companion_transaction_id,omitempty"`
}

type Wallet struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt int64           `json:"created_at"`
}

type Transaction struct {
	ID                string          `json:"id"`
	WalletID          string          `json:"wallet_id"`
	Type              string          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Category          string          `json:"category"`
	Label             string          `json:"label"`
	DateStart         string          `json:"date_start"`
	DateEnd           string          `json:"date_end"`
	Paid              bool            `json:"paid"`
	ExcludeFromBudget bool            `json:"exclude_from_budget"`
}

type Rate struct {
	Base      string  `json:"base"`
	Quote     string  `json:"quote"`
	Rate      float64 `json:"rate"`
	UpdatedAt int64   `json:"updated_at"`
}

type MemberBalance struct {
	MemberID  string          `json:"member_id"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	TotalOwed decimal.Decimal `json:"total_owed"`
	Net       decimal.Decimal `json:"net"`
}

type Transfer struct {
	FromMemberID string          `json:"from_member_id"`
	ToMemberID   string          `json:"to_member_id"`
	Amount       decimal.Decimal `json:"amount"`
}

// CurrencyBalances is one currency's balances and its settlement plan.
type CurrencyBalances struct {
	Currency  string          `json:"currency"`
	Members   []MemberBalance `json:"members"`
	Transfers []Transfer      `json:"transfers"`
}

type MemberTotal struct {
	MemberID string          `json:"member_id"`
	Amount   decimal.Decimal `json:"amount"`
}

type UnifiedBalances struct {
	Pivot   string        `json:"pivot"`
	Totals  []MemberTotal `json:"totals"`
	Dropped []string      `json:"dropped,omitempty"`
}

// Auth

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User User `json:"user"`
}

// Trips and members

type CreateTripRequest struct {
	Name         string `json:"name"`
	BaseCurrency string `json:"base_currency"`
	WalletID     string `json:"wallet_id,omitempty"`
}

type CreateTripResponse struct {
	Trip Trip `json:"trip"`
}

type GetTripRequest struct {
	TripID string `json:"trip_id"`
}

type GetTripResponse struct {
	Trip    Trip     `json:"trip"`
	Members []Member `json:"members"`
}

type ListTripsRequest struct{}

type ListTripsResponse struct {
	Trips []Trip `json:"trips"`
}

type AddMemberRequest struct {
	TripID string `json:"trip_id"`
	Name   string `json:"name"`
	IsMe   bool   `json:"is_me"`
	UserID string `json:"user_id,omitempty"`
}

type AddMemberResponse struct {
	Member Member `json:"member"`
}

type DeleteMemberRequest struct {
	MemberID string `json:"member_id"`
}

type DeleteMemberResponse struct{}

type SetMeRequest struct {
	TripID   string `json:"trip_id"`
	MemberID string `json:"member_id"`
}

type SetMeResponse struct{}

type ListMembersRequest struct {
	TripID string `json:"trip_id"`
}

type ListMembersResponse struct {
	Members []Member `json:"members"`
}

// Expenses

type AddExpenseRequest struct {
	TripID        string          `json:"trip_id"`
	Date          string          `json:"date"`
	Label         string          `json:"label"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PayerMemberID string          `json:"payer_member_id"`

	// MemberIDs empty means every member of the trip.
	MemberIDs []string `json:"member_ids,omitempty"`
	SplitMode string   `json:"split_mode"`

	// Percents is keyed by member ID, used with split_mode "percent".
	Percents map[string]decimal.Decimal `json:"percents,omitempty"`
	// Amounts is keyed by member ID, used with split_mode "amount".
	Amounts map[string]decimal.Decimal `json:"amounts,omitempty"`
}

type AddExpenseResponse struct {
	Expense    Expense `json:"expense"`
	BridgeCase string  `json:"bridge_case"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

type ListExpensesRequest struct {
	TripID string `json:"trip_id"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type ResyncExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type ResyncExpenseResponse struct {
	BridgeCase string `json:"bridge_case"`
	Created    int    `json:"created"`
}

type MoveExpenseRequest struct {
	ExpenseID    string `json:"expense_id"`
	TargetTripID string `json:"target_trip_id"`
}

type MoveExpenseResponse struct{}

type LinkTransactionRequest struct {
	ExpenseID     string `json:"expense_id"`
	TransactionID string `json:"transaction_id"`
}

type LinkTransactionResponse struct {
	BridgeCase string `json:"bridge_case"`
}

// Balances and settlements

type GetBalancesRequest struct {
	TripID string `json:"trip_id"`
	// Pivot defaults to the trip base currency.
	Pivot string `json:"pivot,omitempty"`
}

type GetBalancesResponse struct {
	Members    []Member           `json:"members"`
	Currencies []CurrencyBalances `json:"currencies"`
	Unified    UnifiedBalances    `json:"unified"`
}

type RecordSettlementRequest struct {
	TripID          string          `json:"trip_id"`
	FromMemberID    string          `json:"from_member_id"`
	ToMemberID      string          `json:"to_member_id"`
	Currency        string          `json:"currency"`
	Amount          decimal.Decimal `json:"amount"`
	Note            string          `json:"note,omitempty"`
	ReflectInWallet bool            `json:"reflect_in_wallet"`
}

type RecordSettlementResponse struct {
	Settlement Settlement `json:"settlement"`
}

type CancelSettlementRequest struct {
	SettlementID string `json:"settlement_id"`
}

type CancelSettlementResponse struct {
	Settlement Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	TripID           string `json:"trip_id"`
	IncludeCancelled bool   `json:"include_cancelled"`
}

type ListSettlementsResponse struct {
	Settlements []Settlement `json:"settlements"`
}

// Wallets and rates

type CreateWalletRequest struct {
	Name     string          `json:"name"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
}

type CreateWalletResponse struct {
	Wallet Wallet `json:"wallet"`
}

type GetWalletRequest struct {
	WalletID string `json:"wallet_id"`
}

type GetWalletResponse struct {
	Wallet Wallet `json:"wallet"`
}

type ListTransactionsRequest struct {
	WalletID string `json:"wallet_id"`
}

type ListTransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

type SetRateRequest struct {
	Base  string  `json:"base"`
	Quote string  `json:"quote"`
	Rate  float64 `json:"rate"`
}

type SetRateResponse struct {
	Rate Rate `json:"rate"`
}

type ListRatesRequest struct{}

type ListRatesResponse struct {
	Rates []Rate `json:"rates"`
}
