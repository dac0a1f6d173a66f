package ledger

import (
	"context"
	"strings"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/metrics"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/money"
)

// CreateWallet creates a personal wallet for actor.
func (s *Service) CreateWallet(ctx context.Context, actor, name, currency string, balance money.Cents) (_ *models.Wallet, err error) {
	defer func() { metrics.ObserveMutation("create_wallet", err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name", "is required")
	}
	code, ok := money.NormalizeCurrency(currency)
	if !ok {
		return nil, apperr.Validation("currency", "invalid currency %q", currency)
	}
	w := &models.Wallet{OwnerID: actor, Name: name, Currency: code, Balance: balance}
	if err := s.store.CreateWallet(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// GetWallet returns one of actor's wallets.
func (s *Service) GetWallet(ctx context.Context, actor, walletID string) (*models.Wallet, error) {
	return s.ownedWallet(ctx, actor, walletID)
}

// ListTransactions returns the transactions of one of actor's wallets.
func (s *Service) ListTransactions(ctx context.Context, actor, walletID string) ([]models.PersonalTransaction, error) {
	if _, err := s.ownedWallet(ctx, actor, walletID); err != nil {
		return nil, err
	}
	return s.store.ListTransactions(ctx, walletID)
}

func (s *Service) ownedWallet(ctx context.Context, actor, walletID string) (*models.Wallet, error) {
	w, err := s.store.GetWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if w.OwnerID != actor {
		return nil, apperr.ErrPermissionDenied
	}
	return w, nil
}
