package storage

import (
	"fmt"

	"github.com/mmynk/invoicer/internal/models"
)

// ClientsCollection is the name clients are persisted under.
const ClientsCollection = "clients"

// ClientStore holds the clients of all users.
//
// For one owning user, client emails are unique, and so are company VAT and
// registration numbers. Add and Modify both reject a client that would break
// this with ErrConflict.
type ClientStore struct {
	*Collection[models.Client]
}

// NewClientStore creates an empty, uninitialized client store.
func NewClientStore(opts ...Option) *ClientStore {
	c := NewCollection[models.Client](ClientsCollection, opts...)
	c.unique = clientConflict
	return &ClientStore{Collection: c}
}

// clientConflict rejects a client sharing an email or a company VAT or
// registration number with another client of the same owner.
func clientConflict(existing, client models.Client) error {
	if existing.UserID != client.UserID {
		return nil
	}
	if existing.Email == client.Email {
		return fmt.Errorf("%w: email already used by another client", ErrConflict)
	}
	if existing.CompanyDetails.Identifies(client.CompanyDetails) {
		return fmt.Errorf("%w: company VAT or registration number already used by another client", ErrConflict)
	}
	return nil
}

// GetByEmailForUser returns the client of userID registered with email.
func (s *ClientStore) GetByEmailForUser(userID, email string) (models.Client, bool) {
	return s.Find(func(c models.Client) bool {
		return c.UserID == userID && c.Email == email
	})
}

// FindCompanyNamesForUser lists the company name of every client of userID.
func (s *ClientStore) FindCompanyNamesForUser(userID string) []models.ClientName {
	clients := s.GetByOwner(userID)
	names := make([]models.ClientName, len(clients))
	for i, c := range clients {
		names[i] = models.ClientName{ID: c.ID, CompanyName: c.CompanyDetails.Name}
	}
	return names
}
