package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/fx"
	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/pkg/tripv1"
)

// WalletService exposes the caller's personal wallets and the exchange
// rate table.
type WalletService struct {
	ledger *ledger.Service
	rates  *fx.Provider
}

var _ tripv1.WalletServiceHandler = (*WalletService)(nil)

func NewWalletService(l *ledger.Service, rates *fx.Provider) *WalletService {
	return &WalletService{ledger: l, rates: rates}
}

func (s *WalletService) CreateWallet(ctx context.Context, req *connect.Request[tripv1.CreateWalletRequest]) (*connect.Response[tripv1.CreateWalletResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	balance, err := cents("balance", req.Msg.Balance)
	if err != nil {
		return nil, connectError("CreateWallet", err)
	}
	w, err := s.ledger.CreateWallet(ctx, userID, req.Msg.Name, req.Msg.Currency, balance)
	if err != nil {
		return nil, connectError("CreateWallet", err)
	}
	return connect.NewResponse(&tripv1.CreateWalletResponse{Wallet: toWallet(w)}), nil
}

func (s *WalletService) GetWallet(ctx context.Context, req *connect.Request[tripv1.GetWalletRequest]) (*connect.Response[tripv1.GetWalletResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	w, err := s.ledger.GetWallet(ctx, userID, req.Msg.WalletID)
	if err != nil {
		return nil, connectError("GetWallet", err)
	}
	return connect.NewResponse(&tripv1.GetWalletResponse{Wallet: toWallet(w)}), nil
}

// ListTransactions returns the personal transactions of one wallet.
func (s *WalletService) ListTransactions(ctx context.Context, req *connect.Request[tripv1.ListTransactionsRequest]) (*connect.Response[tripv1.ListTransactionsResponse], error) {
	userID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	txs, err := s.ledger.ListTransactions(ctx, userID, req.Msg.WalletID)
	if err != nil {
		return nil, connectError("ListTransactions", err)
	}

	out := make([]tripv1.Transaction, len(txs))
	for i := range txs {
		out[i] = toTransaction(&txs[i])
	}
	return connect.NewResponse(&tripv1.ListTransactionsResponse{Transactions: out}), nil
}

// SetRate stores one unit of base expressed in quote.
func (s *WalletService) SetRate(ctx context.Context, req *connect.Request[tripv1.SetRateRequest]) (*connect.Response[tripv1.SetRateResponse], error) {
	if _, err := actor(ctx); err != nil {
		return nil, err
	}

	r, err := s.rates.SetRate(ctx, req.Msg.Base, req.Msg.Quote, req.Msg.Rate)
	if err != nil {
		return nil, connectError("SetRate", err)
	}
	return connect.NewResponse(&tripv1.SetRateResponse{Rate: toRate(r)}), nil
}

func (s *WalletService) ListRates(ctx context.Context, req *connect.Request[tripv1.ListRatesRequest]) (*connect.Response[tripv1.ListRatesResponse], error) {
	if _, err := actor(ctx); err != nil {
		return nil, err
	}

	rates, err := s.rates.ListRates(ctx)
	if err != nil {
		return nil, connectError("ListRates", err)
	}

	out := make([]tripv1.Rate, len(rates))
	for i, r := range rates {
		out[i] = toRate(r)
	}
	return connect.NewResponse(&tripv1.ListRatesResponse{Rates: out}), nil
}
