package auth

import (
	"context"
	"fmt"
	"time"

	"wellportal/models"
	"wellportal/services/tokenstore"
	"wellportal/utils"

	"go.uber.org/zap"
)

// Decision is the outcome of a route guard check.
type Decision string

const (
	DecisionAllow                Decision = "allow"
	DecisionRedirectLogin        Decision = "redirect_login"
	DecisionRedirectUnauthorized Decision = "redirect_unauthorized"
)

// Role sets used by the portal routes.
var (
	PatientOnly      = []models.Role{models.RolePatient}
	PractitionerOnly = []models.Role{models.RolePractitioner}
	AdminOnly        = []models.Role{models.RoleAdmin}
	StaffOnly        = []models.Role{models.RolePractitioner, models.RoleAdmin}
	AnyRole          = []models.Role{models.RolePatient, models.RolePractitioner, models.RoleAdmin}
)

// Guard decides whether a stored session may reach a route. It never calls
// the backend.
type Guard struct {
	Now    func() time.Time
	Logger *zap.Logger
}

func NewGuard(logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{Now: time.Now, Logger: logger}
}

// Check runs the guard steps in order:
//  1. no token: login
//  2. invalid or expired token: clear the store, login
//  3. no role on the stored user: login
//  4. role not required: unauthorized, store untouched
//  5. allow
//
// A store read error fails closed to login and is returned for logging.
func (g *Guard) Check(ctx context.Context, store tokenstore.Store, required ...models.Role) (Decision, error) {
	d, err := g.check(ctx, store, required)
	utils.GuardDecisions.WithLabelValues(string(d)).Inc()
	return d, err
}

func (g *Guard) check(ctx context.Context, store tokenstore.Store, required []models.Role) (Decision, error) {
	session, err := store.Load(ctx)
	if err != nil {
		return DecisionRedirectLogin, fmt.Errorf("guard: load session: %w", err)
	}
	if session == nil || session.AccessToken == "" {
		return DecisionRedirectLogin, nil
	}

	if !utils.IsTokenValid(session.AccessToken, g.Now()) {
		if err := store.Clear(ctx); err != nil {
			return DecisionRedirectLogin, fmt.Errorf("guard: clear invalid session: %w", err)
		}
		g.Logger.Debug("Cleared session holding an invalid token")
		return DecisionRedirectLogin, nil
	}

	if session.User == nil || session.User.Role == "" {
		return DecisionRedirectLogin, nil
	}

	if !HasRole(session.User.Role, required) {
		return DecisionRedirectUnauthorized, nil
	}
	return DecisionAllow, nil
}

// HasRole reports whether role is in set.
func HasRole(role models.Role, set []models.Role) bool {
	for _, r := range set {
		if r == role {
			return true
		}
	}
	return false
}

// LandingRoute is the dashboard a role lands on after login.
func LandingRoute(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return "/admin/dashboard"
	case models.RolePractitioner:
		return "/practitioner/dashboard"
	case models.RolePatient:
		return "/user/dashboard"
	}
	return "/login"
}
