package tripv1

const (
	TripServiceName   = "tripledger.v1.TripService"
	WalletServiceName = "tripledger.v1.WalletService"
	AuthServiceName   = "tripledger.v1.AuthService"
)

// TripService procedures.
const (
	TripServiceCreateTripProcedure       = "/tripledger.v1.TripService/CreateTrip"
	TripServiceGetTripProcedure          = "/tripledger.v1.TripService/GetTrip"
	TripServiceListTripsProcedure        = "/tripledger.v1.TripService/ListTrips"
	TripServiceAddMemberProcedure        = "/tripledger.v1.TripService/AddMember"
	TripServiceDeleteMemberProcedure     = "/tripledger.v1.TripService/DeleteMember"
	TripServiceSetMeProcedure            = "/tripledger.v1.TripService/SetMe"
	TripServiceListMembersProcedure      = "/tripledger.v1.TripService/ListMembers"
	TripServiceAddExpenseProcedure       = "/tripledger.v1.TripService/AddExpense"
	TripServiceDeleteExpenseProcedure    = "/tripledger.v1.TripService/DeleteExpense"
	TripServiceListExpensesProcedure     = "/tripledger.v1.TripService/ListExpenses"
	TripServiceResyncExpenseProcedure    = "/tripledger.v1.TripService/ResyncExpense"
	TripServiceMoveExpenseProcedure      = "/tripledger.v1.TripService/MoveExpense"
	TripServiceLinkTransactionProcedure  = "/tripledger.v1.TripService/LinkTransaction"
	TripServiceGetBalancesProcedure      = "/tripledger.v1.TripService/GetBalances"
	TripServiceRecordSettlementProcedure = "/tripledger.v1.TripService/RecordSettlement"
	TripServiceCancelSettlementProcedure = "/tripledger.v1.TripService/CancelSettlement"
	TripServiceListSettlementsProcedure  = "/tripledger.v1.TripService/ListSettlements"
)

// WalletService procedures.
const (
	WalletServiceCreateWalletProcedure     = "/tripledger.v1.WalletService/CreateWallet"
	WalletServiceGetWalletProcedure        = "/tripledger.v1.WalletService/GetWallet"
	WalletServiceListTransactionsProcedure = "/tripledger.v1.WalletService/ListTransactions"
	WalletServiceSetRateProcedure          = "/tripledger.v1.WalletService/SetRate"
	WalletServiceListRatesProcedure        = "/tripledger.v1.WalletService/ListRates"
)

// AuthService procedures.
const (
	AuthServiceRegisterProcedure       = "/tripledger.v1.AuthService/Register"
	AuthServiceLoginProcedure          = "/tripledger.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure = "/tripledger.v1.AuthService/GetCurrentUser"
)

// PublicProcedures do not require a bearer token.
var PublicProcedures = []string{
	AuthServiceRegisterProcedure,
	AuthServiceLoginProcedure,
}
