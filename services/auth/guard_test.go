package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"wellportal/models"

	"github.com/golang-jwt/jwt"
)

var testNow = time.Unix(1_700_000_000, 0)

// fakeStore records how the guard touches the session.
type fakeStore struct {
	session *models.AuthSession
	loadErr error
	saves   int
	clears  int
}

func (f *fakeStore) Load(context.Context) (*models.AuthSession, error) {
	return f.session, f.loadErr
}

func (f *fakeStore) Save(_ context.Context, s *models.AuthSession) error {
	f.saves++
	f.session = s
	return nil
}

func (f *fakeStore) Clear(context.Context) error {
	f.clears++
	f.session = nil
	return nil
}

func token(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func validToken(t *testing.T, role models.Role) string {
	return token(t, jwt.MapClaims{
		"sub":         "someone",
		"authorities": []string{"ROLE_" + string(role)},
		"exp":         testNow.Add(time.Hour).Unix(),
	})
}

func newTestGuard() *Guard {
	g := NewGuard(nil)
	g.Now = func() time.Time { return testNow }
	return g
}

func TestGuardInvalidTokensRedirectToLoginAndClear(t *testing.T) {
	badTokens := map[string]string{
		"expired":      token(t, jwt.MapClaims{"exp": testNow.Add(-time.Minute).Unix(), "role": "ADMIN"}),
		"no exp":       token(t, jwt.MapClaims{"role": "ADMIN"}),
		"two segments": "header.payload",
		"garbage":      "not-a-jwt-at-all",
	}

	for name, tok := range badTokens {
		for _, required := range [][]models.Role{AnyRole, AdminOnly, PatientOnly} {
			t.Run(name, func(t *testing.T) {
				store := &fakeStore{session: &models.AuthSession{
					AccessToken:  tok,
					RefreshToken: "r",
					User:         &models.User{ID: 1, Role: models.RoleAdmin},
				}}
				d, err := newTestGuard().Check(context.Background(), store, required...)
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				if d != DecisionRedirectLogin {
					t.Fatalf("decision = %s, want login", d)
				}
				if store.clears != 1 || store.session != nil {
					t.Fatalf("store not cleared: clears=%d", store.clears)
				}
			})
		}
	}
}

func TestGuardRoleMembership(t *testing.T) {
	roles := []models.Role{models.RolePatient, models.RolePractitioner, models.RoleAdmin}
	sets := map[string][]models.Role{
		"patient":      PatientOnly,
		"practitioner": PractitionerOnly,
		"admin":        AdminOnly,
		"staff":        StaffOnly,
		"any":          AnyRole,
	}

	for _, role := range roles {
		for name, set := range sets {
			t.Run(string(role)+"/"+name, func(t *testing.T) {
				session := &models.AuthSession{
					AccessToken: validToken(t, role),
					User:        &models.User{ID: 7, Role: role},
				}
				store := &fakeStore{session: session}

				d, err := newTestGuard().Check(context.Background(), store, set...)
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				want := DecisionRedirectUnauthorized
				if HasRole(role, set) {
					want = DecisionAllow
				}
				if d != want {
					t.Fatalf("decision = %s, want %s", d, want)
				}
				if store.clears != 0 || store.saves != 0 || store.session != session {
					t.Fatal("guard mutated the store on a role decision")
				}
			})
		}
	}
}

func TestGuardMissingPieces(t *testing.T) {
	cases := map[string]*models.AuthSession{
		"no session": nil,
		"no token":   {User: &models.User{Role: models.RoleAdmin}},
		"no user":    {AccessToken: validToken(t, models.RoleAdmin)},
		"no role":    {AccessToken: validToken(t, models.RoleAdmin), User: &models.User{ID: 1}},
	}
	for name, session := range cases {
		t.Run(name, func(t *testing.T) {
			store := &fakeStore{session: session}
			d, _ := newTestGuard().Check(context.Background(), store, AnyRole...)
			if d != DecisionRedirectLogin {
				t.Fatalf("decision = %s", d)
			}
			if store.clears != 0 {
				t.Fatal("only an invalid token may clear the store")
			}
		})
	}
}

func TestGuardLoadErrorFailsClosed(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("redis down")}
	d, err := newTestGuard().Check(context.Background(), store, AnyRole...)
	if d != DecisionRedirectLogin || err == nil {
		t.Fatalf("got %s, %v", d, err)
	}
}

func TestLandingRoute(t *testing.T) {
	cases := map[models.Role]string{
		models.RoleAdmin:        "/admin/dashboard",
		models.RolePatient:      "/user/dashboard",
		models.RolePractitioner: "/practitioner/dashboard",
		"":                      "/login",
	}
	for role, want := range cases {
		if got := LandingRoute(role); got != want {
			t.Errorf("LandingRoute(%q) = %q, want %q", role, got, want)
		}
	}
}
