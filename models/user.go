package models

import "time"

// Role is one of the three portal roles issued by the auth server.
type Role string

const (
	RolePatient      Role = "PATIENT"
	RolePractitioner Role = "PRACTITIONER"
	RoleAdmin        Role = "ADMIN"
)

// Valid reports whether r is a known portal role.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RolePractitioner, RoleAdmin:
		return true
	}
	return false
}

// User is the user record returned alongside the tokens at login/register.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Bio   string `json:"bio,omitempty"`
}

// AuthSession is what the token store keeps for one browser session.
type AuthSession struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	User         *User     `json:"user,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AuthResponse mirrors the auth server's login/register/refresh payload.
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}

// LoginRequest accepts an email or phone number as identifier.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
	Role     Role   `json:"role" binding:"required"`
	Bio      string `json:"bio,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// OnboardingStatus gates access to the practitioner dashboard.
type OnboardingStatus struct {
	ProfileExists bool `json:"profileExists"`
	Verified      bool `json:"verified"`
}

// MessageResponse is the generic `{message}` body the backend answers with.
type MessageResponse struct {
	Message string `json:"message"`
}
