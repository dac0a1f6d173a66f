package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/apperr"
	"github.com/mmynk/tripledger/internal/auth"
	"github.com/mmynk/tripledger/internal/middleware"
)

// connectError maps a domain error to a Connect error. Internal errors are
// logged with the operation name and their message is not exposed.
func connectError(op string, err error) error {
	var ce *connect.Error
	if errors.As(err, &ce) {
		return ce
	}

	code := connect.CodeInternal
	switch {
	case apperr.IsValidation(err):
		code = connect.CodeInvalidArgument
	case apperr.IsLinkConflict(err):
		code = connect.CodeAlreadyExists
	case apperr.IsReferential(err):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, auth.ErrUserNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, apperr.ErrPermissionDenied):
		code = connect.CodePermissionDenied
	case errors.Is(err, auth.ErrEmailExists):
		code = connect.CodeAlreadyExists
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
		code = connect.CodeInvalidArgument
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		code = connect.CodeUnauthenticated
	}

	if code == connect.CodeInternal {
		slog.Error(op+" failed", "error", err)
		return connect.NewError(code, errors.New("internal error"))
	}
	slog.Debug(op+" rejected", "code", code.String(), "error", err)
	return connect.NewError(code, err)
}

// actor returns the authenticated caller.
func actor(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}
