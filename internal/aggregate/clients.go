package aggregate

import (
	"cmp"
	"context"
	"fmt"
	"strings"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

// ClientSortKey names the field clients are ordered by.
type ClientSortKey string

const (
	ClientByName          ClientSortKey = "clientName"
	ClientByCompanyName   ClientSortKey = "companyName"
	ClientByTotalBilled   ClientSortKey = "totalBilled"
	ClientByInvoicesCount ClientSortKey = "invoicesCount"
	ClientByCreation      ClientSortKey = "creation"
)

// ClientQuery selects a page of a user's clients.
type ClientQuery struct {
	UserID string

	SortBy ClientSortKey
	Sort   Direction

	Offset int
	Limit  int
}

// ClientSummary is a client with what it was billed so far.
type ClientSummary struct {
	models.Client

	TotalBilled   float64 `json:"totalBilled"`
	InvoicesCount int     `json:"invoicesCount"`
}

// GetClients lists the user's clients with their billing totals, sorted and
// paginated.
func (e *Engine) GetClients(ctx context.Context, q ClientQuery) (page Page[ClientSummary], err error) {
	_, done := e.observe(ctx, "GetClients", q.UserID)
	defer func() { done(err) }()

	dir, err := parseDirection(q.Sort)
	if err != nil {
		return Page[ClientSummary]{}, err
	}
	compare, err := clientComparator(q.SortBy)
	if err != nil {
		return Page[ClientSummary]{}, err
	}

	clients := e.clients.GetByOwner(q.UserID)
	invoices := e.invoices.GetByOwner(q.UserID)

	index := make(map[string]int, len(clients))
	summaries := make([]ClientSummary, len(clients))
	for i, c := range clients {
		summaries[i] = ClientSummary{Client: c}
		index[c.ID] = i
	}
	for _, inv := range invoices {
		i, ok := index[inv.ClientID]
		if !ok {
			continue
		}
		summaries[i].TotalBilled += inv.Value
		summaries[i].InvoicesCount++
	}

	if compare != nil {
		sortStable(summaries, compare, dir)
	}

	page = paginate(summaries, q.Offset, q.Limit)
	e.logger.Debug("listed clients", "user_id", q.UserID, "total", page.Total, "returned", len(page.Result))
	return page, nil
}

func clientComparator(key ClientSortKey) (func(a, b ClientSummary) int, error) {
	switch key {
	case "":
		return nil, nil
	case ClientByName:
		return func(a, b ClientSummary) int { return strings.Compare(a.Name, b.Name) }, nil
	case ClientByCompanyName:
		return func(a, b ClientSummary) int {
			return strings.Compare(a.CompanyDetails.Name, b.CompanyDetails.Name)
		}, nil
	case ClientByTotalBilled:
		return func(a, b ClientSummary) int { return cmp.Compare(a.TotalBilled, b.TotalBilled) }, nil
	case ClientByInvoicesCount:
		return func(a, b ClientSummary) int { return cmp.Compare(a.InvoicesCount, b.InvoicesCount) }, nil
	case ClientByCreation:
		return func(a, b ClientSummary) int { return cmp.Compare(a.CreatedAt, b.CreatedAt) }, nil
	default:
		return nil, fmt.Errorf("%w: unknown client sort key %q", storage.ErrValidation, key)
	}
}
