package handlers

import (
	"net/http"

	"wellportal/middleware"
	"wellportal/models"
	"wellportal/services/auth"
	"wellportal/services/availability"
	"wellportal/services/notify"
	"wellportal/services/tokenstore"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthHandler serves login, registration and the other session endpoints.
type AuthHandler struct {
	Service   auth.Service
	Sessions  tokenstore.Provider
	Calendars *availability.Calendars
	Notices   notify.Box
}

func NewAuthHandler(svc auth.Service, sessions tokenstore.Provider, calendars *availability.Calendars, notices notify.Box) *AuthHandler {
	return &AuthHandler{
		Service:   svc,
		Sessions:  sessions,
		Calendars: calendars,
		Notices:   notices,
	}
}

// LoginHandler authenticates with the wellness API and starts a session.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	sid := uuid.NewString()
	result, err := h.Service.Login(c.Request.Context(), h.Sessions.For(sid), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.rotate(c, sid)
	logger.Info("User logged in", zap.Int64("userId", result.User.ID), zap.String("role", string(result.User.Role)))
	c.JSON(http.StatusOK, result)
}

// RegisterHandler creates a patient or practitioner account and logs it in.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid registration request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	sid := uuid.NewString()
	result, err := h.Service.Register(c.Request.Context(), h.Sessions.For(sid), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.rotate(c, sid)
	c.JSON(http.StatusCreated, result)
}

// rotate hands the browser the freshly stored session and drops whatever
// the previous session id held.
func (h *AuthHandler) rotate(c *gin.Context, sid string) {
	h.forget(c, middleware.SessionID(c))
	middleware.RotateSession(c, sid)
}

func (h *AuthHandler) forget(c *gin.Context, sid string) {
	if sid == "" {
		return
	}
	logger := getLogger(c)
	ctx := c.Request.Context()
	if err := h.Service.Logout(ctx, h.Sessions.For(sid)); err != nil {
		logger.Error("Failed to clear session", zap.Error(err))
	}
	h.Calendars.Forget(sid)
	if err := h.Notices.Forget(ctx, sid); err != nil {
		logger.Warn("Failed to drop notices", zap.Error(err))
	}
}

// LogoutHandler drops the session and everything kept for it.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	h.forget(c, middleware.SessionID(c))
	c.JSON(http.StatusOK, gin.H{"message": "Logged out", "redirect": middleware.LoginRoute})
}

// RefreshHandler trades the stored refresh token for a new access token.
func (h *AuthHandler) RefreshHandler(c *gin.Context) {
	session, err := h.Service.Refresh(c.Request.Context(), middleware.StoreFor(c, h.Sessions))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": session.User})
}

func (h *AuthHandler) ForgotPasswordHandler(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	resp, err := h.Service.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) ResetPasswordHandler(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	resp, err := h.Service.ResetPassword(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MeHandler returns the stored user. It sits behind APIGuard, so a session
// is always present.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	session, err := tokenstore.Session(c.Request.Context(), middleware.StoreFor(c, h.Sessions))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":    session.User,
		"landing": auth.LandingRoute(session.User.Role),
	})
}

func (h *AuthHandler) OnboardingStatusHandler(c *gin.Context) {
	status, err := h.Service.OnboardingStatus(c.Request.Context(), middleware.StoreFor(c, h.Sessions))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
