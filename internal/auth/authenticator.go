package auth

import (
	"context"

	"github.com/mmynk/tripledger/internal/models"
)

// Authenticator registers and verifies trip ledger users.
type Authenticator interface {
	// Register creates a user account. The credential format depends on the
	// implementation.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies credentials and returns the user.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// Lookup returns a registered user by ID.
	Lookup(ctx context.Context, userID string) (*models.User, error)
}
