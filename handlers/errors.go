package handlers

import (
	"errors"
	"net/http"

	"wellportal/middleware"
	"wellportal/services/apiclient"
	"wellportal/services/auth"
	"wellportal/services/availability"
	"wellportal/services/booking"
	"wellportal/services/tokenstore"
	"wellportal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgInternal = "Something went wrong. Please try again."

// statusFor maps a service error onto an HTTP status and the message shown
// to the user.
func statusFor(err error) (int, string) {
	if text, ok := booking.Refusal(err); ok {
		return http.StatusConflict, text
	}

	var bookingErr *booking.ValidationError
	if errors.As(err, &bookingErr) {
		return http.StatusBadRequest, bookingErr.Message
	}
	var windowErr *availability.ValidationError
	if errors.As(err, &windowErr) {
		return http.StatusBadRequest, windowErr.Message
	}

	switch {
	case errors.Is(err, tokenstore.ErrNotAuthenticated), errors.Is(err, auth.ErrNoRefreshToken):
		return http.StatusUnauthorized, "Please log in to continue."
	case errors.Is(err, auth.ErrInvalidRole):
		return http.StatusBadRequest, "Role must be PATIENT or PRACTITIONER."
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrRoleMismatch),
		errors.Is(err, auth.ErrUserMismatch):
		return http.StatusBadGateway, "Login failed. Please try again."
	case errors.Is(err, availability.ErrPastDate):
		return http.StatusBadRequest, "Please choose today or a later date."
	case errors.Is(err, availability.ErrInvalidDate):
		return http.StatusBadRequest, "Date must be YYYY-MM-DD."
	case errors.Is(err, availability.ErrNoDateSelected):
		return http.StatusBadRequest, "Please select a date first."
	case errors.Is(err, availability.ErrSlotUnavailable):
		return http.StatusConflict, "That time is no longer available."
	case errors.Is(err, availability.ErrSlotsLoading):
		return http.StatusConflict, "Slots are still loading."
	case errors.Is(err, booking.ErrBookingInFlight):
		return http.StatusConflict, "This booking is already being submitted."
	case errors.Is(err, booking.ErrSessionNotFound):
		return http.StatusNotFound, "Session not found."
	}

	msg := apiclient.MessageOf(err)
	switch apiclient.KindOf(err) {
	case apiclient.KindAuthExpired:
		return http.StatusUnauthorized, msg
	case apiclient.KindAuthorizationDenied:
		return http.StatusForbidden, msg
	case apiclient.KindValidation:
		return http.StatusBadRequest, msg
	case apiclient.KindConflict:
		return http.StatusConflict, msg
	case apiclient.KindNotFound:
		return http.StatusNotFound, msg
	case apiclient.KindNetwork:
		if apiclient.IsTimeout(err) {
			return http.StatusGatewayTimeout, msg
		}
		return http.StatusServiceUnavailable, msg
	case apiclient.KindServer:
		return http.StatusBadGateway, msg
	}
	return http.StatusInternalServerError, msgInternal
}

// respondError logs err and writes `{"error": ...}`. Auth failures carry the
// login redirect so the portal can leave the page.
func respondError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	logger := getLogger(c)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Int("status", status), zap.Error(err))
	} else {
		logger.Warn("Request refused", zap.Int("status", status), zap.Error(err))
	}
	redirect := ""
	if status == http.StatusUnauthorized {
		redirect = middleware.LoginRoute
	}
	utils.JSONError(c, status, msg, redirect)
}
