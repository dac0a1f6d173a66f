package service

import (
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/pkg/tripv1"
)

// Mount registers the three services on mux with the given handler options.
func Mount(mux *http.ServeMux, trips *TripService, wallets *WalletService, users *AuthService, opts ...connect.HandlerOption) {
	mux.Handle(tripv1.NewTripServiceHandler(trips, opts...))
	mux.Handle(tripv1.NewWalletServiceHandler(wallets, opts...))
	mux.Handle(tripv1.NewAuthServiceHandler(users, opts...))
}
