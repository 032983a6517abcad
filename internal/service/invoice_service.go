package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/internal/aggregate"
	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

// InvoiceService manages the caller's invoices.
type InvoiceService struct {
	invoices *storage.InvoiceStore
	clients  *storage.ClientStore
	engine   *aggregate.Engine
	logger   *slog.Logger
}

// NewInvoiceService creates an invoice service.
func NewInvoiceService(invoices *storage.InvoiceStore, clients *storage.ClientStore, engine *aggregate.Engine, logger *slog.Logger) *InvoiceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InvoiceService{invoices: invoices, clients: clients, engine: engine, logger: logger}
}

func (s *InvoiceService) ownedInvoice(userID, id string) (models.Invoice, error) {
	invoice, ok := s.invoices.GetByID(id)
	if !ok || invoice.UserID != userID {
		return models.Invoice{}, fmt.Errorf("%w: invoice %q", storage.ErrNotFound, id)
	}
	return invoice, nil
}

// ListInvoices lists the caller's invoices joined with their clients.
func (s *InvoiceService) ListInvoices(ctx context.Context, req *connect.Request[ListInvoicesRequest]) (*connect.Response[ListInvoicesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	m := req.Msg
	page, err := s.engine.GetInvoices(ctx, aggregate.InvoiceQuery{
		UserID:       userID,
		ClientID:     m.ClientID,
		ProjectCode:  m.ProjectCode,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		StartDueDate: m.StartDueDate,
		EndDueDate:   m.EndDueDate,
		SortBy:       m.SortBy,
		Sort:         m.Sort,
		Offset:       m.Offset,
		Limit:        m.Limit,
	})
	if err != nil {
		s.logger.Error("ListInvoices failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListInvoicesResponse{Invoices: page.Result, Total: page.Total}), nil
}

// GetInvoice returns one of the caller's invoices.
func (s *InvoiceService) GetInvoice(ctx context.Context, req *connect.Request[GetInvoiceRequest]) (*connect.Response[InvoiceResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	invoice, err := s.ownedInvoice(userID, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&InvoiceResponse{Invoice: invoice}), nil
}

// CreateInvoice issues a new invoice to one of the caller's clients.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req *connect.Request[CreateInvoiceRequest]) (*connect.Response[InvoiceResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	invoice, err := s.engine.AddInvoice(ctx, userID, *req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&InvoiceResponse{Invoice: invoice}), nil
}

// UpdateInvoice replaces the editable fields of one of the caller's invoices.
// The invoice may be moved to another client of the caller. A number already
// used by another invoice of the caller is rejected by the invoice store.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, req *connect.Request[UpdateInvoiceRequest]) (*connect.Response[InvoiceResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	m := req.Msg
	if _, err := s.ownedInvoice(userID, m.ID); err != nil {
		return nil, toConnectError(err)
	}
	if _, err := ownedClient(s.clients, userID, m.ClientID); err != nil {
		return nil, toConnectError(err)
	}
	if m.InvoiceNumber == "" {
		return nil, toConnectError(fmt.Errorf("%w: invoice_number is required", storage.ErrValidation))
	}
	if m.Value < 0 {
		return nil, toConnectError(fmt.Errorf("%w: value must not be negative", storage.ErrValidation))
	}

	projectCode := m.ProjectCode
	if projectCode == "" {
		projectCode = models.DefaultProjectCode
	}
	meta := m.Meta
	if meta == nil {
		meta = map[string]any{}
	}

	invoice, err := s.invoices.Modify(ctx, m.ID, func(inv *models.Invoice) {
		inv.ClientID = m.ClientID
		inv.InvoiceNumber = m.InvoiceNumber
		inv.Date = m.Date
		inv.DueDate = m.DueDate
		inv.Value = m.Value
		inv.ProjectCode = projectCode
		inv.Meta = meta
	})
	if err != nil {
		s.logger.Warn("UpdateInvoice failed", "user_id", userID, "invoice_id", m.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&InvoiceResponse{Invoice: invoice}), nil
}
