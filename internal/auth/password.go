package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordMismatch   = errors.New("password and confirm password do not match")
)

var _ Authenticator = (*PasswordAuthenticator)(nil)

// PasswordAuthenticator checks email and password against the user store.
//
// Passwords are stored as given unless hashing is enabled, in which case
// they are stored and compared as bcrypt hashes. The two modes do not mix:
// a data file written in one mode cannot be logged into in the other.
type PasswordAuthenticator struct {
	users  *storage.UserStore
	hash   bool
	logger *slog.Logger
}

// NewPasswordAuthenticator creates an authenticator over users.
func NewPasswordAuthenticator(users *storage.UserStore, hash bool, logger *slog.Logger) *PasswordAuthenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &PasswordAuthenticator{users: users, hash: hash, logger: logger}
}

// Register creates a user. All fields are required.
func (a *PasswordAuthenticator) Register(ctx context.Context, name, email, password, confirm string) (models.User, error) {
	if name == "" || email == "" || password == "" || confirm == "" {
		return models.User{}, fmt.Errorf("%w: all inputs are required", storage.ErrValidation)
	}
	if password != confirm {
		return models.User{}, fmt.Errorf("%w: %w", storage.ErrValidation, ErrPasswordMismatch)
	}

	credential := password
	if a.hash {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		credential = string(hashed)
	}

	user, err := a.users.Add(ctx, models.User{Name: name, Email: email, Password: credential})
	if err != nil {
		return user, err
	}
	a.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate returns the user registered with email if password matches.
func (a *PasswordAuthenticator) Authenticate(_ context.Context, email, password string) (models.User, error) {
	if email == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	user, ok := a.users.GetByEmail(email)
	if !ok || !a.matches(user.Password, password) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (a *PasswordAuthenticator) matches(stored, given string) bool {
	if a.hash {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
