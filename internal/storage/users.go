package storage

import (
	"context"
	"fmt"

	"github.com/mmynk/invoicer/internal/models"
)

// UsersCollection is the name users are persisted under.
const UsersCollection = "users"

// UserStore holds user accounts. Emails are unique across all users, and a
// user add or modify taking a used email fails with ErrConflict.
type UserStore struct {
	*Collection[models.User]
}

// NewUserStore creates an empty, uninitialized user store.
func NewUserStore(opts ...Option) *UserStore {
	c := NewCollection[models.User](UsersCollection, opts...)
	c.unique = func(existing, user models.User) error {
		if existing.Email == user.Email {
			return fmt.Errorf("%w: email already used by another account", ErrConflict)
		}
		return nil
	}
	return &UserStore{Collection: c}
}

// GetByEmail returns the user registered with email.
func (s *UserStore) GetByEmail(email string) (models.User, bool) {
	return s.Find(func(u models.User) bool { return u.Email == email })
}

// SetCompanyDetails merges details into the company details of a user.
// Empty fields of details keep their current value.
func (s *UserStore) SetCompanyDetails(ctx context.Context, userID string, details models.CompanyDetails) (models.User, error) {
	return s.Modify(ctx, userID, func(u *models.User) {
		var merged models.CompanyDetails
		if u.CompanyDetails != nil {
			merged = *u.CompanyDetails
		}
		merged = merged.Merge(details)
		u.CompanyDetails = &merged
	})
}

// SetAvatar points the user's avatar at path. An empty path clears it.
func (s *UserStore) SetAvatar(ctx context.Context, userID, path string) (models.User, error) {
	return s.Modify(ctx, userID, func(u *models.User) {
		u.Avatar = path
	})
}
