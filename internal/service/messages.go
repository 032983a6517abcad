package service

import (
	"github.com/mmynk/invoicer/internal/aggregate"
	"github.com/mmynk/invoicer/internal/models"
)

// AuthService messages.

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	UserID         string                 `json:"user_id"`
	Email          string                 `json:"email"`
	Name           string                 `json:"name"`
	Token          string                 `json:"token"`
	CompanyDetails *models.CompanyDetails `json:"companyDetails"`
}

type MeRequest struct{}

// UserResponse carries a user without its credential.
type UserResponse struct {
	User models.User `json:"user"`
}

type UpdateCompanyRequest struct {
	CompanyDetails models.CompanyDetails `json:"companyDetails"`
}

// SetAvatarRequest points the caller's avatar at an already stored file.
type SetAvatarRequest struct {
	Avatar string `json:"avatar"`
}

// ClientService messages.

type ListClientsRequest struct {
	SortBy aggregate.ClientSortKey `json:"sortBy,omitempty"`
	Sort   aggregate.Direction     `json:"sort,omitempty"`
	Offset int                     `json:"offset,omitempty"`
	Limit  int                     `json:"limit,omitempty"`
}

type ListClientsResponse struct {
	Clients []aggregate.ClientSummary `json:"clients"`
	Total   int                       `json:"total"`
}

type ListClientNamesRequest struct{}

type ListClientNamesResponse struct {
	Clients []models.ClientName `json:"clients"`
}

type GetClientRequest struct {
	ID string `json:"id"`
}

type CreateClientRequest struct {
	Email          string                `json:"email"`
	Name           string                `json:"name"`
	CompanyDetails models.CompanyDetails `json:"companyDetails"`
}

// UpdateClientRequest replaces the editable fields of a client.
type UpdateClientRequest struct {
	ID             string                `json:"id"`
	Email          string                `json:"email"`
	Name           string                `json:"name"`
	CompanyDetails models.CompanyDetails `json:"companyDetails"`
}

type ClientResponse struct {
	Client models.Client `json:"client"`
}

// InvoiceService messages.

type ListInvoicesRequest struct {
	ClientID     string                   `json:"clientId,omitempty"`
	ProjectCode  string                   `json:"projectCode,omitempty"`
	StartDate    *int64                   `json:"startDate,omitempty"`
	EndDate      *int64                   `json:"endDate,omitempty"`
	StartDueDate *int64                   `json:"startDueDate,omitempty"`
	EndDueDate   *int64                   `json:"endDueDate,omitempty"`
	SortBy       aggregate.InvoiceSortKey `json:"sortBy,omitempty"`
	Sort         aggregate.Direction      `json:"sort,omitempty"`
	Offset       int                      `json:"offset,omitempty"`
	Limit        int                      `json:"limit,omitempty"`
}

type ListInvoicesResponse struct {
	Invoices []aggregate.InvoiceWithClient `json:"invoices"`
	Total    int                           `json:"total"`
}

type GetInvoiceRequest struct {
	ID string `json:"id"`
}

type CreateInvoiceRequest = aggregate.InvoiceInput

// UpdateInvoiceRequest replaces the editable fields of an invoice.
type UpdateInvoiceRequest struct {
	ID            string         `json:"id"`
	ClientID      string         `json:"client_id"`
	InvoiceNumber string         `json:"invoice_number"`
	Date          int64          `json:"date"`
	DueDate       int64          `json:"dueDate"`
	Value         float64        `json:"value"`
	ProjectCode   string         `json:"projectCode,omitempty"`
	Meta          map[string]any `json:"meta,omitempty"`
}

type InvoiceResponse struct {
	Invoice models.Invoice `json:"invoice"`
}
