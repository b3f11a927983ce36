package booking

import (
	"errors"
	"fmt"
)

// ValidationError is a local precondition failure; nothing was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	ErrNoSlotSelected     = &ValidationError{Field: "slot", Message: "Please select a date and time."}
	ErrInvalidSessionType = &ValidationError{Field: "sessionType", Message: "Session type must be ONLINE or OFFLINE."}
	ErrRescheduleTarget   = &ValidationError{Field: "newSessionDate", Message: "Please select a new date and time."}
	ErrLookupScope        = &ValidationError{Field: "practitionerId", Message: "practitionerId is required to look up this session."}

	// ErrBookingInFlight rejects a second submission of the same request key
	// while the first is still outstanding.
	ErrBookingInFlight = errors.New("this booking is already being submitted")

	ErrSessionNotFound  = errors.New("session not found")
	ErrAlreadyCancelled = errors.New("session is already cancelled")
	ErrSessionCompleted = errors.New("cannot cancel a completed session")
	ErrNotReschedulable = errors.New("only BOOKED sessions can be rescheduled")
)

// statusRefusals are the user-facing texts for status checks done before
// any update is sent.
var statusRefusals = map[error]string{
	ErrAlreadyCancelled: "Session is already cancelled",
	ErrSessionCompleted: "Cannot cancel a completed session",
	ErrNotReschedulable: "Only BOOKED sessions can be rescheduled",
}

// Refusal returns the user-facing text for a status refusal.
func Refusal(err error) (string, bool) {
	for sentinel, text := range statusRefusals {
		if errors.Is(err, sentinel) {
			return text, true
		}
	}
	return "", false
}
