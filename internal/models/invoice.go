package models

import "maps"

// DefaultPaymentTerm is the due date offset applied when an invoice is
// created without one: 30 days in milliseconds.
const DefaultPaymentTerm int64 = 30 * 24 * 60 * 60 * 1000

// DefaultProjectCode is assigned to invoices created without a project code.
const DefaultProjectCode = "default"

// Invoice represents a bill issued by a user to one of their clients.
type Invoice struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	// ClientID references a client owned by the same user.
	ClientID string `json:"client_id"`

	// InvoiceNumber is unique among the invoices of one user.
	InvoiceNumber string `json:"invoice_number"`

	// Date is the issue date and DueDate the payment deadline, both in epoch ms.
	Date    int64 `json:"date"`
	DueDate int64 `json:"dueDate"`

	// Value is the invoiced amount, never negative.
	Value float64 `json:"value"`

	ProjectCode string         `json:"projectCode,omitempty"`
	Meta        map[string]any `json:"meta"`

	CreatedAt int64 `json:"createdAt"`
}

func (i Invoice) RecordID() string { return i.ID }
func (i Invoice) OwnerID() string  { return i.UserID }

func (i Invoice) WithID(id string) Invoice {
	i.ID = id
	return i
}

// Clone returns a copy of i that does not share its Meta map.
func (i Invoice) Clone() Invoice {
	if i.Meta != nil {
		i.Meta = maps.Clone(i.Meta)
	}
	return i
}
