package auth

import (
	"context"
	"fmt"
	"time"

	"wellportal/models"
	"wellportal/services/apiclient"
	"wellportal/services/tokenstore"
	"wellportal/utils"

	"go.uber.org/zap"
)

// API is the part of the wellness API the auth flows use.
type API interface {
	Login(ctx context.Context, in models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, in models.RegisterRequest) (*models.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error)
	ForgotPassword(ctx context.Context, in models.ForgotPasswordRequest) (*models.MessageResponse, error)
	ResetPassword(ctx context.Context, in models.ResetPasswordRequest) (*models.MessageResponse, error)
	OnboardingStatus(ctx context.Context, token string) (*models.OnboardingStatus, error)
}

type Service interface {
	Login(ctx context.Context, store tokenstore.Store, in models.LoginRequest) (*LoginResult, error)
	Register(ctx context.Context, store tokenstore.Store, in models.RegisterRequest) (*LoginResult, error)
	Refresh(ctx context.Context, store tokenstore.Store) (*models.AuthSession, error)
	Logout(ctx context.Context, store tokenstore.Store) error
	ForgotPassword(ctx context.Context, email string) (*models.MessageResponse, error)
	ResetPassword(ctx context.Context, in models.ResetPasswordRequest) (*models.MessageResponse, error)
	OnboardingStatus(ctx context.Context, store tokenstore.Store) (*models.OnboardingStatus, error)
}

// LoginResult is what the portal needs after a session is created.
type LoginResult struct {
	User     *models.User `json:"user"`
	Redirect string       `json:"redirect"`
}

// DefaultService is the production implementation.
type DefaultService struct {
	API    API
	Logger *zap.Logger
	Now    func() time.Time
}

func NewService(api API, logger *zap.Logger) *DefaultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultService{API: api, Logger: logger, Now: time.Now}
}

func (s *DefaultService) Login(ctx context.Context, store tokenstore.Store, in models.LoginRequest) (*LoginResult, error) {
	resp, err := s.API.Login(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, store, resp)
}

func (s *DefaultService) Register(ctx context.Context, store tokenstore.Store, in models.RegisterRequest) (*LoginResult, error) {
	if !in.Role.Valid() || in.Role == models.RoleAdmin {
		return nil, ErrInvalidRole
	}
	resp, err := s.API.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, store, resp)
}

// startSession stores a fresh token pair after checking that the token is
// usable and agrees with the user record on role and user id.
func (s *DefaultService) startSession(ctx context.Context, store tokenstore.Store, resp *models.AuthResponse) (*LoginResult, error) {
	session, err := s.sessionFrom(resp)
	if err != nil {
		return nil, err
	}
	if err := store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.Logger.Info("Session started",
		zap.Int64("userId", session.User.ID),
		zap.String("role", string(session.User.Role)),
	)

	redirect := LandingRoute(session.User.Role)
	if session.User.Role == models.RolePractitioner {
		status, err := s.API.OnboardingStatus(ctx, session.AccessToken)
		switch {
		case err != nil:
			s.Logger.Warn("Onboarding status unavailable, using dashboard", zap.Error(err))
		case !status.ProfileExists || !status.Verified:
			redirect = "/practitioner/onboarding"
		}
	}
	return &LoginResult{User: session.User, Redirect: redirect}, nil
}

func (s *DefaultService) sessionFrom(resp *models.AuthResponse) (*models.AuthSession, error) {
	if resp == nil || resp.User == nil || !resp.User.Role.Valid() {
		return nil, fmt.Errorf("%w: missing user role", ErrInvalidToken)
	}
	if !utils.IsTokenValid(resp.AccessToken, s.Now()) {
		return nil, ErrInvalidToken
	}
	claims, err := utils.DecodeTokenClaims(resp.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claimed := utils.RoleFromToken(resp.AccessToken); claimed != "" && claimed != resp.User.Role {
		s.Logger.Warn("Rejected token with mismatched role",
			zap.String("sub", claims.Subject),
			zap.String("claimed", string(claimed)),
			zap.String("user", string(resp.User.Role)),
		)
		return nil, ErrRoleMismatch
	}
	if claims.UserID != 0 && claims.UserID != resp.User.ID {
		s.Logger.Warn("Rejected token issued for another user",
			zap.String("sub", claims.Subject),
			zap.Int64("claimed", claims.UserID),
			zap.Int64("user", resp.User.ID),
		)
		return nil, ErrUserMismatch
	}
	return &models.AuthSession{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         resp.User,
		CreatedAt:    s.Now(),
	}, nil
}

// Refresh swaps the stored refresh token for a new pair. Any failure ends
// the session.
func (s *DefaultService) Refresh(ctx context.Context, store tokenstore.Store) (*models.AuthSession, error) {
	current, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if current == nil || current.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	resp, err := s.API.Refresh(ctx, current.RefreshToken)
	if err == nil {
		if resp != nil && resp.User == nil {
			resp.User = current.User
		}
		var session *models.AuthSession
		if session, err = s.sessionFrom(resp); err == nil {
			if err = store.Save(ctx, session); err == nil {
				return session, nil
			}
		}
	}

	if clearErr := store.Clear(ctx); clearErr != nil {
		s.Logger.Error("Failed to clear session after refresh failure", zap.Error(clearErr))
	}
	return nil, err
}

func (s *DefaultService) Logout(ctx context.Context, store tokenstore.Store) error {
	return store.Clear(ctx)
}

func (s *DefaultService) ForgotPassword(ctx context.Context, email string) (*models.MessageResponse, error) {
	return s.API.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: email})
}

func (s *DefaultService) ResetPassword(ctx context.Context, in models.ResetPasswordRequest) (*models.MessageResponse, error) {
	return s.API.ResetPassword(ctx, in)
}

// OnboardingStatus asks the backend about the logged-in practitioner. A
// 401/403 clears the session.
func (s *DefaultService) OnboardingStatus(ctx context.Context, store tokenstore.Store) (*models.OnboardingStatus, error) {
	session, err := tokenstore.Session(ctx, store)
	if err != nil {
		return nil, err
	}
	status, err := s.API.OnboardingStatus(ctx, session.AccessToken)
	if err != nil {
		if apiclient.IsAuthFailure(err) {
			_ = store.Clear(ctx)
		}
		return nil, err
	}
	return status, nil
}
