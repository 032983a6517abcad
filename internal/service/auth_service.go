package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/internal/auth"
	"github.com/mmynk/invoicer/internal/storage"
)

// AuthService implements account registration, login and profile updates.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         *storage.UserStore
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users *storage.UserStore, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

// Register creates a new user account and logs it in.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	user, err := s.authenticator.Register(ctx, req.Msg.Name, req.Msg.Email, req.Msg.Password, req.Msg.ConfirmPassword)
	if err != nil {
		s.logger.Warn("Registration failed", "email", req.Msg.Email, "error", err)
		return nil, toConnectError(err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&RegisterResponse{UserID: user.ID, Token: token}), nil
}

// Login authenticates a user and returns a session token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&LoginResponse{
		UserID:         user.ID,
		Email:          user.Email,
		Name:           user.Name,
		Token:          token,
		CompanyDetails: user.CompanyDetails,
	}), nil
}

// Me returns the caller's account.
func (s *AuthService) Me(ctx context.Context, _ *connect.Request[MeRequest]) (*connect.Response[UserResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	user, ok := s.users.GetByID(userID)
	if !ok {
		return nil, connect.NewError(connect.CodeNotFound, storage.ErrNotFound)
	}
	return connect.NewResponse(&UserResponse{User: user.Public()}), nil
}

// UpdateCompany merges the non-empty fields of the request into the caller's
// company details.
func (s *AuthService) UpdateCompany(ctx context.Context, req *connect.Request[UpdateCompanyRequest]) (*connect.Response[UserResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.users.SetCompanyDetails(ctx, userID, req.Msg.CompanyDetails)
	if err != nil {
		s.logger.Error("UpdateCompany failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&UserResponse{User: user.Public()}), nil
}

// SetAvatar records the caller's avatar reference.
func (s *AuthService) SetAvatar(ctx context.Context, req *connect.Request[SetAvatarRequest]) (*connect.Response[UserResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.users.SetAvatar(ctx, userID, req.Msg.Avatar)
	if err != nil {
		s.logger.Error("SetAvatar failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&UserResponse{User: user.Public()}), nil
}
