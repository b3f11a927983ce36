package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"wellportal/models"
)

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, in models.LoginRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/login", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns its first token pair.
func (c *Client) Register(ctx context.Context, in models.RegisterRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/register", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh trades a refresh token for a new pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	q := url.Values{"refreshToken": {refreshToken}}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/refresh", query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ForgotPassword(ctx context.Context, in models.ForgotPasswordRequest) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/forgot-password", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ResetPassword(ctx context.Context, in models.ResetPasswordRequest) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/reset-password", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OnboardingStatus reports the calling practitioner's profile state.
func (c *Client) OnboardingStatus(ctx context.Context, token string) (*models.OnboardingStatus, error) {
	var out models.OnboardingStatus
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/practitioners/me/onboarding-status", token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
