package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/invoicer/internal/aggregate"
	"github.com/mmynk/invoicer/internal/auth"
	"github.com/mmynk/invoicer/internal/middleware"
	"github.com/mmynk/invoicer/internal/storage"
	"github.com/mmynk/invoicer/internal/storage/file"
)

type testServer struct {
	url     string
	dataDir string
	stores  *storage.Stores
}

// setupTestServer serves all three services over a fresh data directory.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	_, err := file.Ensure(dir, storage.UsersCollection, storage.ClientsCollection, storage.InvoicesCollection)
	require.NoError(t, err)

	stores, err := storage.Open(ctx, file.New(dir), nil)
	require.NoError(t, err)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	engine := aggregate.New(stores.Invoices, stores.Clients)
	requireAuth := middleware.RequireAuth(jwtManager)
	authenticated := connect.WithInterceptors(requireAuth)

	authSvc := NewAuthService(auth.NewPasswordAuthenticator(stores.Users, false, nil), jwtManager, stores.Users, nil)
	authPath, authHandler := NewAuthServiceHandler(authSvc, requireAuth)
	clientPath, clientHandler := NewClientServiceHandler(NewClientService(stores.Clients, engine, nil), authenticated)
	invoicePath, invoiceHandler := NewInvoiceServiceHandler(NewInvoiceService(stores.Invoices, stores.Clients, engine, nil), authenticated)

	mux := http.NewServeMux()
	mux.Handle(authPath, authHandler)
	mux.Handle(clientPath, clientHandler)
	mux.Handle(invoicePath, invoiceHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testServer{url: server.URL, dataDir: dir, stores: stores}
}

// call invokes procedure with msg, authenticating with token when set.
func call[Req, Res any](t *testing.T, ts *testServer, procedure, token string, msg *Req) (*Res, error) {
	t.Helper()
	client := connect.NewClient[Req, Res](http.DefaultClient, ts.url+procedure, connect.WithCodec(Codec{}))
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	resp, err := client.CallUnary(context.Background(), req)
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// registerUser creates an account and returns its ID and token.
func registerUser(t *testing.T, ts *testServer, name, email string) (string, string) {
	t.Helper()
	resp, err := call[RegisterRequest, RegisterResponse](t, ts, AuthServiceRegisterProcedure, "", &RegisterRequest{
		Name: name, Email: email, Password: "123456", ConfirmPassword: "123456",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.UserID)
	require.NotEmpty(t, resp.Token)
	return resp.UserID, resp.Token
}

func TestToConnectError(t *testing.T) {
	tests := []struct {
		err  error
		want connect.Code
	}{
		{storage.ErrNotFound, connect.CodeNotFound},
		{storage.ErrConflict, connect.CodeAlreadyExists},
		{storage.ErrValidation, connect.CodeInvalidArgument},
		{storage.ErrDecode, connect.CodeDataLoss},
		{storage.ErrIO, connect.CodeInternal},
		{aggregate.ErrMissingClient, connect.CodeInternal},
		{auth.ErrInvalidCredentials, connect.CodeUnauthenticated},
		{connect.NewError(connect.CodePermissionDenied, nil), connect.CodePermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, connect.CodeOf(toConnectError(tt.err)))
		})
	}
}
