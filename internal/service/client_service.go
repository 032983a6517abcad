package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/internal/aggregate"
	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

// ClientService manages the caller's clients.
type ClientService struct {
	clients *storage.ClientStore
	engine  *aggregate.Engine
	now     func() time.Time
	logger  *slog.Logger
}

// NewClientService creates a client service.
func NewClientService(clients *storage.ClientStore, engine *aggregate.Engine, logger *slog.Logger) *ClientService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClientService{clients: clients, engine: engine, now: time.Now, logger: logger}
}

// ownedClient returns the client with id if it belongs to userID. Clients of
// other users are reported as missing.
func ownedClient(clients *storage.ClientStore, userID, id string) (models.Client, error) {
	client, ok := clients.GetByID(id)
	if !ok || client.UserID != userID {
		return models.Client{}, fmt.Errorf("%w: client %q", storage.ErrNotFound, id)
	}
	return client, nil
}

// ListClients lists the caller's clients with their billing totals.
func (s *ClientService) ListClients(ctx context.Context, req *connect.Request[ListClientsRequest]) (*connect.Response[ListClientsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	page, err := s.engine.GetClients(ctx, aggregate.ClientQuery{
		UserID: userID,
		SortBy: req.Msg.SortBy,
		Sort:   req.Msg.Sort,
		Offset: req.Msg.Offset,
		Limit:  req.Msg.Limit,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListClientsResponse{Clients: page.Result, Total: page.Total}), nil
}

// ListClientNames lists the company name of every client of the caller.
func (s *ClientService) ListClientNames(ctx context.Context, _ *connect.Request[ListClientNamesRequest]) (*connect.Response[ListClientNamesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&ListClientNamesResponse{Clients: s.clients.FindCompanyNamesForUser(userID)}), nil
}

// GetClient returns one of the caller's clients.
func (s *ClientService) GetClient(ctx context.Context, req *connect.Request[GetClientRequest]) (*connect.Response[ClientResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	client, err := ownedClient(s.clients, userID, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ClientResponse{Client: client}), nil
}

// CreateClient adds a client for the caller.
func (s *ClientService) CreateClient(ctx context.Context, req *connect.Request[CreateClientRequest]) (*connect.Response[ClientResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.Email == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%w: email is required", storage.ErrValidation))
	}

	client, err := s.clients.Add(ctx, models.Client{
		UserID:         userID,
		Email:          req.Msg.Email,
		Name:           req.Msg.Name,
		CompanyDetails: req.Msg.CompanyDetails,
		CreatedAt:      s.now().UnixMilli(),
	})
	if err != nil {
		s.logger.Warn("CreateClient failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Client created", "user_id", userID, "client_id", client.ID)
	return connect.NewResponse(&ClientResponse{Client: client}), nil
}

// UpdateClient replaces the editable fields of one of the caller's clients.
// The client store rejects an email or company identifier already used by
// another client of the caller.
func (s *ClientService) UpdateClient(ctx context.Context, req *connect.Request[UpdateClientRequest]) (*connect.Response[ClientResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := ownedClient(s.clients, userID, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.Email == "" {
		return nil, toConnectError(fmt.Errorf("%w: email is required", storage.ErrValidation))
	}

	client, err := s.clients.Modify(ctx, req.Msg.ID, func(c *models.Client) {
		c.Email = req.Msg.Email
		c.Name = req.Msg.Name
		c.CompanyDetails = req.Msg.CompanyDetails
	})
	if err != nil {
		s.logger.Warn("UpdateClient failed", "user_id", userID, "client_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ClientResponse{Client: client}), nil
}
