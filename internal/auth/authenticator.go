package auth

import (
	"context"

	"github.com/mmynk/invoicer/internal/models"
)

// Authenticator registers and verifies users.
type Authenticator interface {
	// Register creates a new account. password and confirm must match.
	Register(ctx context.Context, name, email, password, confirm string) (models.User, error)

	// Authenticate verifies the credential and returns the matching user.
	Authenticate(ctx context.Context, email, password string) (models.User, error)
}
