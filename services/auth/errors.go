package auth

import (
	"errors"

	"wellportal/services/tokenstore"
)

var (
	// ErrInvalidToken means the backend handed out a token the portal cannot use.
	ErrInvalidToken = errors.New("received an invalid access token")
	// ErrRoleMismatch means the token's role claim contradicts the user record.
	ErrRoleMismatch = errors.New("token role does not match user role")
	// ErrUserMismatch means the token was issued for a different user id.
	ErrUserMismatch = errors.New("token user does not match user record")
	// ErrNotAuthenticated means there is no usable session to act on.
	ErrNotAuthenticated = tokenstore.ErrNotAuthenticated
	ErrNoRefreshToken   = errors.New("no refresh token stored")
	// ErrInvalidRole rejects self-registration as anything but patient or practitioner.
	ErrInvalidRole = errors.New("role must be PATIENT or PRACTITIONER")
)
