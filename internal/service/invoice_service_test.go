package service

import (
	"os"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/invoicer/internal/aggregate"
	"github.com/mmynk/invoicer/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestInvoiceService_Create(t *testing.T) {
	ts := setupTestServer(t)
	userID, token := registerUser(t, ts, "Tarzan", "tarzan@jungle.com")
	_, otherToken := registerUser(t, ts, "Jane", "jane@jungle.com")
	acme := createClient(t, ts, token, "billing@acme.test", "Acme", "VAT-1")

	resp, err := call[CreateInvoiceRequest, InvoiceResponse](t, ts, InvoiceServiceCreateInvoiceProcedure, token, &CreateInvoiceRequest{
		InvoiceNumber: "2024-001",
		ClientID:      acme.ID,
		Date:          ptr(int64(1_700_000_000_000)),
		Value:         ptr(1200.0),
	})
	require.NoError(t, err)

	inv := resp.Invoice
	assert.Equal(t, userID, inv.UserID)
	assert.Equal(t, int64(1_700_000_000_000)+30*24*60*60*1000, inv.DueDate)
	assert.Equal(t, models.DefaultProjectCode, inv.ProjectCode)

	data, err := os.ReadFile(filepath.Join(ts.dataDir, "invoices.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"invoice_number": "2024-001"`)

	t.Run("duplicate number", func(t *testing.T) {
		_, err := call[CreateInvoiceRequest, InvoiceResponse](t, ts, InvoiceServiceCreateInvoiceProcedure, token, &CreateInvoiceRequest{
			InvoiceNumber: "2024-001", ClientID: acme.ID, Date: ptr(int64(1)), Value: ptr(1.0),
		})
		assert.Equal(t, connect.CodeAlreadyExists, connect.CodeOf(err))
	})

	t.Run("client of another user", func(t *testing.T) {
		_, err := call[CreateInvoiceRequest, InvoiceResponse](t, ts, InvoiceServiceCreateInvoiceProcedure, otherToken, &CreateInvoiceRequest{
			InvoiceNumber: "2024-001", ClientID: acme.ID, Date: ptr(int64(1)), Value: ptr(1.0),
		})
		assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
	})

	t.Run("missing value", func(t *testing.T) {
		_, err := call[CreateInvoiceRequest, InvoiceResponse](t, ts, InvoiceServiceCreateInvoiceProcedure, token, &CreateInvoiceRequest{
			InvoiceNumber: "2024-002", ClientID: acme.ID, Date: ptr(int64(1)),
		})
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})

	t.Run("get", func(t *testing.T) {
		got, err := call[GetInvoiceRequest, InvoiceResponse](t, ts, InvoiceServiceGetInvoiceProcedure, token, &GetInvoiceRequest{ID: inv.ID})
		require.NoError(t, err)
		assert.Equal(t, inv, got.Invoice)

		_, err = call[GetInvoiceRequest, InvoiceResponse](t, ts, InvoiceServiceGetInvoiceProcedure, otherToken, &GetInvoiceRequest{ID: inv.ID})
		assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
	})
}

func TestInvoiceService_List(t *testing.T) {
	ts := setupTestServer(t)
	_, token := registerUser(t, ts, "Tarzan", "tarzan@jungle.com")
	acme := createClient(t, ts, token, "billing@acme.test", "Acme", "VAT-1")

	for i, s := range []struct {
		date  int64
		value float64
	}{{1000, 1000}, {5000, 1000}, {7500, 2000}, {10000, 1000}} {
		_, err := call[CreateInvoiceRequest, InvoiceResponse](t, ts, InvoiceServiceCreateInvoiceProcedure, token, &CreateInvoiceRequest{
			InvoiceNumber: string(rune('A' + i)),
			ClientID:      acme.ID,
			Date:          ptr(s.date),
			Value:         ptr(s.value),
		})
		require.NoError(t, err)
	}

	resp, err := call[ListInvoicesRequest, ListInvoicesResponse](t, ts, InvoiceServiceListInvoicesProcedure, token, &ListInvoicesRequest{
		StartDate: ptr(int64(5000)),
		EndDate:   ptr(int64(7501)),
		SortBy:    aggregate.InvoiceByPrice,
		Sort:      aggregate.Desc,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Invoices, 2)
	assert.Equal(t, int64(7500), resp.Invoices[0].Invoice.Date)
	assert.Equal(t, int64(5000), resp.Invoices[1].Invoice.Date)
	assert.Equal(t, acme.ID, resp.Invoices[0].Client.ID)

	resp, err = call[ListInvoicesRequest, ListInvoicesResponse](t, ts, InvoiceServiceListInvoicesProcedure, token, &ListInvoicesRequest{Offset: 50})
	require.NoError(t, err)
	assert.Empty(t, resp.Invoices)
	assert.Equal(t, 4, resp.Total)
}

func TestInvoiceService_Update(t *testing.T) {
	ts := setupTestServer(t)
	_, token := registerUser(t, ts, "Tarzan", "tarzan@jungle.com")
	_, otherToken := registerUser(t, ts, "Jane", "jane@jungle.com")
	acme := createClient(t, ts, token, "billing@acme.test", "Acme", "VAT-1")
	globex := createClient(t, ts, token, "billing@globex.test", "Globex", "VAT-2")
	foreign := createClient(t, ts, otherToken, "billing@initech.test", "Initech", "VAT-3")

	var created []models.Invoice
	for _, n := range []string{"001", "002"} {
		resp, err := call[CreateInvoiceRequest, InvoiceResponse](t, ts, InvoiceServiceCreateInvoiceProcedure, token, &CreateInvoiceRequest{
			InvoiceNumber: n, ClientID: acme.ID, Date: ptr(int64(1000)), Value: ptr(10.0),
		})
		require.NoError(t, err)
		created = append(created, resp.Invoice)
	}
	first := created[0]

	update := func(token string, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
		return call[UpdateInvoiceRequest, InvoiceResponse](t, ts, InvoiceServiceUpdateInvoiceProcedure, token, &req)
	}

	resp, err := update(token, UpdateInvoiceRequest{
		ID: first.ID, ClientID: globex.ID, InvoiceNumber: "001", Date: 2000, DueDate: 3000, Value: 99, ProjectCode: "web",
	})
	require.NoError(t, err)
	assert.Equal(t, globex.ID, resp.Invoice.ClientID)
	assert.Equal(t, int64(3000), resp.Invoice.DueDate)
	assert.Equal(t, first.CreatedAt, resp.Invoice.CreatedAt)
	assert.Equal(t, first.UserID, resp.Invoice.UserID)

	tests := []struct {
		name  string
		token string
		req   UpdateInvoiceRequest
		want  connect.Code
	}{
		{"invoice of another user", otherToken, UpdateInvoiceRequest{ID: first.ID, ClientID: foreign.ID, InvoiceNumber: "001"}, connect.CodeNotFound},
		{"client of another user", token, UpdateInvoiceRequest{ID: first.ID, ClientID: foreign.ID, InvoiceNumber: "001"}, connect.CodeNotFound},
		{"number taken", token, UpdateInvoiceRequest{ID: first.ID, ClientID: acme.ID, InvoiceNumber: "002"}, connect.CodeAlreadyExists},
		{"negative value", token, UpdateInvoiceRequest{ID: first.ID, ClientID: acme.ID, InvoiceNumber: "001", Value: -1}, connect.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := update(tt.token, tt.req)
			assert.Equal(t, tt.want, connect.CodeOf(err))
		})
	}
}
