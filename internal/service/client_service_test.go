package service

import (
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/invoicer/internal/aggregate"
	"github.com/mmynk/invoicer/internal/models"
)

func createClient(t *testing.T, ts *testServer, token, email, company, vat string) models.Client {
	t.Helper()
	resp, err := call[CreateClientRequest, ClientResponse](t, ts, ClientServiceCreateClientProcedure, token, &CreateClientRequest{
		Email:          email,
		Name:           "Contact " + company,
		CompanyDetails: models.CompanyDetails{Name: company, VATNumber: vat},
	})
	require.NoError(t, err)
	return resp.Client
}

func TestClientService_CreateAndGet(t *testing.T) {
	ts := setupTestServer(t)
	userID, token := registerUser(t, ts, "Tarzan", "tarzan@jungle.com")
	_, otherToken := registerUser(t, ts, "Jane", "jane@jungle.com")

	client := createClient(t, ts, token, "billing@acme.test", "Acme", "VAT-1")
	assert.Equal(t, userID, client.UserID)
	assert.NotZero(t, client.CreatedAt)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := call[CreateClientRequest, ClientResponse](t, ts, ClientServiceCreateClientProcedure, token, &CreateClientRequest{
			Email: "billing@acme.test",
		})
		assert.Equal(t, connect.CodeAlreadyExists, connect.CodeOf(err))
	})

	t.Run("same email for another user", func(t *testing.T) {
		createClient(t, ts, otherToken, "billing@acme.test", "Acme", "VAT-1")
	})

	t.Run("get own client", func(t *testing.T) {
		resp, err := call[GetClientRequest, ClientResponse](t, ts, ClientServiceGetClientProcedure, token, &GetClientRequest{ID: client.ID})
		require.NoError(t, err)
		assert.Equal(t, client, resp.Client)
	})

	t.Run("get client of another user", func(t *testing.T) {
		_, err := call[GetClientRequest, ClientResponse](t, ts, ClientServiceGetClientProcedure, otherToken, &GetClientRequest{ID: client.ID})
		assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
	})

	t.Run("missing email", func(t *testing.T) {
		_, err := call[CreateClientRequest, ClientResponse](t, ts, ClientServiceCreateClientProcedure, token, &CreateClientRequest{Name: "x"})
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})
}

func TestClientService_Update(t *testing.T) {
	ts := setupTestServer(t)
	_, token := registerUser(t, ts, "Tarzan", "tarzan@jungle.com")
	_, otherToken := registerUser(t, ts, "Jane", "jane@jungle.com")

	acme := createClient(t, ts, token, "billing@acme.test", "Acme", "VAT-1")
	createClient(t, ts, token, "billing@globex.test", "Globex", "VAT-2")

	resp, err := call[UpdateClientRequest, ClientResponse](t, ts, ClientServiceUpdateClientProcedure, token, &UpdateClientRequest{
		ID:             acme.ID,
		Email:          "accounts@acme.test",
		Name:           "Road Runner",
		CompanyDetails: models.CompanyDetails{Name: "Acme Corp", VATNumber: "VAT-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, acme.ID, resp.Client.ID)
	assert.Equal(t, acme.UserID, resp.Client.UserID)
	assert.Equal(t, acme.CreatedAt, resp.Client.CreatedAt)
	assert.Equal(t, "Acme Corp", resp.Client.CompanyDetails.Name)

	tests := []struct {
		name  string
		token string
		req   UpdateClientRequest
		want  connect.Code
	}{
		{"email of another client", token, UpdateClientRequest{ID: acme.ID, Email: "billing@globex.test"}, connect.CodeAlreadyExists},
		{"vat number of another client", token, UpdateClientRequest{
			ID: acme.ID, Email: "accounts@acme.test", CompanyDetails: models.CompanyDetails{Name: "Acme Corp", VATNumber: "VAT-2"},
		}, connect.CodeAlreadyExists},
		{"missing email", token, UpdateClientRequest{ID: acme.ID}, connect.CodeInvalidArgument},
		{"client of another user", otherToken, UpdateClientRequest{ID: acme.ID, Email: "stolen@acme.test"}, connect.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := call[UpdateClientRequest, ClientResponse](t, ts, ClientServiceUpdateClientProcedure, tt.token, &tt.req)
			assert.Equal(t, tt.want, connect.CodeOf(err))
		})
	}

	stored, ok := ts.stores.Clients.GetByID(acme.ID)
	require.True(t, ok)
	assert.Equal(t, "accounts@acme.test", stored.Email)
	assert.Equal(t, "VAT-1", stored.CompanyDetails.VATNumber)
}

func TestClientService_List(t *testing.T) {
	ts := setupTestServer(t)
	_, token := registerUser(t, ts, "Tarzan", "tarzan@jungle.com")

	acme := createClient(t, ts, token, "billing@acme.test", "Acme", "VAT-1")
	globex := createClient(t, ts, token, "billing@globex.test", "Globex", "VAT-2")

	for i, c := range []struct {
		client models.Client
		value  float64
	}{{acme, 500}, {globex, 100}, {globex, 50}} {
		_, err := call[CreateInvoiceRequest, InvoiceResponse](t, ts, InvoiceServiceCreateInvoiceProcedure, token, &CreateInvoiceRequest{
			InvoiceNumber: string(rune('A' + i)),
			ClientID:      c.client.ID,
			Date:          ptr(int64(1000)),
			Value:         ptr(c.value),
		})
		require.NoError(t, err)
	}

	resp, err := call[ListClientsRequest, ListClientsResponse](t, ts, ClientServiceListClientsProcedure, token, &ListClientsRequest{
		SortBy: aggregate.ClientByTotalBilled,
		Sort:   aggregate.Asc,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Clients, 2)
	assert.Equal(t, globex.ID, resp.Clients[0].ID)
	assert.Equal(t, 150.0, resp.Clients[0].TotalBilled)
	assert.Equal(t, 2, resp.Clients[0].InvoicesCount)
	assert.Equal(t, acme.ID, resp.Clients[1].ID)

	_, err = call[ListClientsRequest, ListClientsResponse](t, ts, ClientServiceListClientsProcedure, token, &ListClientsRequest{SortBy: "vat"})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	names, err := call[ListClientNamesRequest, ListClientNamesResponse](t, ts, ClientServiceListClientNamesProcedure, token, &ListClientNamesRequest{})
	require.NoError(t, err)
	assert.Equal(t, []models.ClientName{
		{ID: acme.ID, CompanyName: "Acme"},
		{ID: globex.ID, CompanyName: "Globex"},
	}, names.Clients)
}
