package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind classifies every failure of a wellness API call.
type ErrorKind string

const (
	KindNetwork             ErrorKind = "network"
	KindServer              ErrorKind = "server"
	KindAuthExpired         ErrorKind = "auth_expired"
	KindAuthorizationDenied ErrorKind = "authorization_denied"
	KindValidation          ErrorKind = "validation"
	KindConflict            ErrorKind = "conflict"
	KindNotFound            ErrorKind = "not_found"
)

// Error is returned by every Client call that did not succeed.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("wellness api %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("wellness api %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of an *Error anywhere in err's chain, or "".
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// MessageOf returns the backend message of err, falling back to err.Error().
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// IsAuthFailure reports whether err means the stored session must go.
func IsAuthFailure(err error) bool {
	k := KindOf(err)
	return k == KindAuthExpired || k == KindAuthorizationDenied
}

// IsRejection reports whether the backend refused the request as a 4xx.
func IsRejection(err error) bool {
	switch KindOf(err) {
	case KindValidation, KindConflict, KindNotFound:
		return true
	}
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindServer && apiErr.Status >= 400 && apiErr.Status < 500
}

// kindForStatus maps a non-2xx status onto the taxonomy. Unlisted 4xx
// statuses stay KindServer but keep their status for IsRejection.
func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized:
		return KindAuthExpired
	case http.StatusForbidden:
		return KindAuthorizationDenied
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusConflict:
		return KindConflict
	case http.StatusNotFound:
		return KindNotFound
	}
	return KindServer
}

func networkError(err error) *Error {
	msg := "The wellness service could not be reached. Please try again."
	if isTimeout(err) {
		msg = "The wellness service took too long to respond. Please try again."
	}
	return &Error{Kind: KindNetwork, Message: msg, Err: err}
}

// IsTimeout reports whether err is a network failure caused by the request
// timeout.
func IsTimeout(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindNetwork && isTimeout(apiErr.Err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
