package aggregate

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

// InvoiceInput is the caller-supplied part of a new invoice. Pointer fields
// distinguish "absent" from zero.
type InvoiceInput struct {
	InvoiceNumber string         `json:"invoice_number"`
	ClientID      string         `json:"client_id"`
	Date          *int64         `json:"date,omitempty"`
	DueDate       *int64         `json:"dueDate,omitempty"`
	Value         *float64       `json:"value,omitempty"`
	ProjectCode   string         `json:"projectCode,omitempty"`
	Meta          map[string]any `json:"meta,omitempty"`
}

// Validate checks that the required fields are present and sane.
func (in InvoiceInput) Validate() error {
	var missing []string
	if in.InvoiceNumber == "" {
		missing = append(missing, "invoice_number")
	}
	if in.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if in.Date == nil {
		missing = append(missing, "date")
	}
	if in.Value == nil {
		missing = append(missing, "value")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", storage.ErrValidation, missing)
	}
	if *in.Value < 0 {
		return fmt.Errorf("%w: value must not be negative", storage.ErrValidation)
	}
	return nil
}

// AddInvoice creates an invoice for userID against one of the user's clients.
//
// A client that belongs to someone else is reported exactly like a client
// that does not exist.
func (e *Engine) AddInvoice(ctx context.Context, userID string, in InvoiceInput) (created models.Invoice, err error) {
	ctx, done := e.observe(ctx, "AddInvoice", userID)
	defer func() { done(err) }()

	if err := in.Validate(); err != nil {
		return models.Invoice{}, err
	}

	client, ok := e.clients.GetByID(in.ClientID)
	if !ok || client.UserID != userID {
		return models.Invoice{}, fmt.Errorf("%w: client %q", storage.ErrNotFound, in.ClientID)
	}

	dueDate := *in.Date + models.DefaultPaymentTerm
	if in.DueDate != nil {
		dueDate = *in.DueDate
	}
	projectCode := in.ProjectCode
	if projectCode == "" {
		projectCode = models.DefaultProjectCode
	}
	meta := in.Meta
	if meta == nil {
		meta = map[string]any{}
	}

	created, err = e.invoices.Add(ctx, models.Invoice{
		UserID:        userID,
		ClientID:      client.ID,
		InvoiceNumber: in.InvoiceNumber,
		Date:          *in.Date,
		DueDate:       dueDate,
		Value:         *in.Value,
		ProjectCode:   projectCode,
		Meta:          meta,
		CreatedAt:     e.now().UnixMilli(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return models.Invoice{}, err
		}
		e.logger.Error("failed to add invoice", "user_id", userID, "error", err)
		return created, err
	}

	e.logger.Info("invoice created", "user_id", userID, "invoice_id", created.ID, "client_id", client.ID)
	return created, nil
}
