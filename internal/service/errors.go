package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/internal/auth"
	"github.com/mmynk/invoicer/internal/middleware"
	"github.com/mmynk/invoicer/internal/storage"
)

// toConnectError maps store and auth failures to Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	code := connect.CodeInternal
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		code = connect.CodeUnauthenticated
	case errors.Is(err, storage.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, storage.ErrConflict):
		code = connect.CodeAlreadyExists
	case errors.Is(err, storage.ErrValidation):
		code = connect.CodeInvalidArgument
	case errors.Is(err, storage.ErrDecode):
		code = connect.CodeDataLoss
	}
	return connect.NewError(code, err)
}

// callerID returns the authenticated user of the request.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}
