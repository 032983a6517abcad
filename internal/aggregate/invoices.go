package aggregate

import (
	"cmp"
	"context"
	"fmt"
	"strings"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

// InvoiceSortKey names the field invoices are ordered by.
type InvoiceSortKey string

const (
	InvoiceByCreation    InvoiceSortKey = "creation"
	InvoiceByDate        InvoiceSortKey = "date"
	InvoiceByDueDate     InvoiceSortKey = "dueDate"
	InvoiceByCompanyName InvoiceSortKey = "companyName"
	InvoiceByPrice       InvoiceSortKey = "price"
)

// InvoiceQuery selects a page of a user's invoices. Nil bounds are
// unbounded; date ranges are half-open, [Start, End).
type InvoiceQuery struct {
	UserID string

	ClientID    string
	ProjectCode string

	StartDate    *int64
	EndDate      *int64
	StartDueDate *int64
	EndDueDate   *int64

	// SortBy is optional. Without it invoices keep collection order.
	SortBy InvoiceSortKey
	Sort   Direction

	Offset int
	Limit  int
}

// InvoiceWithClient is an invoice joined with the client it bills.
type InvoiceWithClient struct {
	Invoice models.Invoice `json:"invoice"`
	Client  models.Client  `json:"client"`
}

// GetInvoices joins the user's invoices with their clients, then filters,
// sorts and paginates them.
func (e *Engine) GetInvoices(ctx context.Context, q InvoiceQuery) (page Page[InvoiceWithClient], err error) {
	_, done := e.observe(ctx, "GetInvoices", q.UserID)
	defer func() { done(err) }()

	dir, err := parseDirection(q.Sort)
	if err != nil {
		return Page[InvoiceWithClient]{}, err
	}
	compare, err := invoiceComparator(q.SortBy)
	if err != nil {
		return Page[InvoiceWithClient]{}, err
	}

	invoices := e.invoices.GetByOwner(q.UserID)
	joined := make([]InvoiceWithClient, 0, len(invoices))
	for _, inv := range invoices {
		client, ok := e.clients.GetByID(inv.ClientID)
		if !ok {
			e.logger.Error("invoice references missing client",
				"user_id", q.UserID, "invoice_id", inv.ID, "client_id", inv.ClientID)
			return Page[InvoiceWithClient]{}, fmt.Errorf("%w: invoice %q client %q", ErrMissingClient, inv.ID, inv.ClientID)
		}
		joined = append(joined, InvoiceWithClient{Invoice: inv, Client: client})
	}

	filtered := joined[:0]
	for _, item := range joined {
		if q.matches(item) {
			filtered = append(filtered, item)
		}
	}

	if compare != nil {
		sortStable(filtered, compare, dir)
	}

	page = paginate(filtered, q.Offset, q.Limit)
	e.logger.Debug("listed invoices", "user_id", q.UserID, "total", page.Total, "returned", len(page.Result))
	return page, nil
}

func (q InvoiceQuery) matches(item InvoiceWithClient) bool {
	inv := item.Invoice
	if q.ClientID != "" && item.Client.ID != q.ClientID {
		return false
	}
	if q.ProjectCode != "" && inv.ProjectCode != q.ProjectCode {
		return false
	}
	return inRange(inv.Date, q.StartDate, q.EndDate) &&
		inRange(inv.DueDate, q.StartDueDate, q.EndDueDate)
}

func inRange(v int64, start, end *int64) bool {
	if start != nil && v < *start {
		return false
	}
	if end != nil && v >= *end {
		return false
	}
	return true
}

func invoiceComparator(key InvoiceSortKey) (func(a, b InvoiceWithClient) int, error) {
	switch key {
	case "":
		return nil, nil
	case InvoiceByCreation:
		return func(a, b InvoiceWithClient) int { return cmp.Compare(a.Invoice.CreatedAt, b.Invoice.CreatedAt) }, nil
	case InvoiceByDate:
		return func(a, b InvoiceWithClient) int { return cmp.Compare(a.Invoice.Date, b.Invoice.Date) }, nil
	case InvoiceByDueDate:
		return func(a, b InvoiceWithClient) int { return cmp.Compare(a.Invoice.DueDate, b.Invoice.DueDate) }, nil
	case InvoiceByCompanyName:
		return func(a, b InvoiceWithClient) int {
			return strings.Compare(a.Client.CompanyDetails.Name, b.Client.CompanyDetails.Name)
		}, nil
	case InvoiceByPrice:
		return func(a, b InvoiceWithClient) int { return cmp.Compare(a.Invoice.Value, b.Invoice.Value) }, nil
	default:
		return nil, fmt.Errorf("%w: unknown invoice sort key %q", storage.ErrValidation, key)
	}
}
