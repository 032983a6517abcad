package storage

import (
	"fmt"

	"github.com/mmynk/invoicer/internal/models"
)

// InvoicesCollection is the name invoices are persisted under.
const InvoicesCollection = "invoices"

// InvoiceStore holds the invoices of all users. Invoice numbers are unique
// per owning user; Add and Modify fail with ErrConflict otherwise. The store
// keeps whatever due date it is given.
type InvoiceStore struct {
	*Collection[models.Invoice]
}

// NewInvoiceStore creates an empty, uninitialized invoice store.
func NewInvoiceStore(opts ...Option) *InvoiceStore {
	c := NewCollection[models.Invoice](InvoicesCollection, opts...)
	c.unique = invoiceConflict
	return &InvoiceStore{Collection: c}
}

func invoiceConflict(existing, invoice models.Invoice) error {
	if existing.UserID == invoice.UserID && existing.InvoiceNumber == invoice.InvoiceNumber {
		return fmt.Errorf("%w: invoice number %q already exists", ErrConflict, invoice.InvoiceNumber)
	}
	return nil
}

// GetByNumberForUser returns the invoice of userID with the given number.
func (s *InvoiceStore) GetByNumberForUser(userID, number string) (models.Invoice, bool) {
	return s.Find(func(i models.Invoice) bool {
		return i.UserID == userID && i.InvoiceNumber == number
	})
}
