package availability

import (
	"errors"
	"fmt"
)

var (
	ErrPastDate        = errors.New("date is in the past")
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
	ErrNoDateSelected  = errors.New("select a date first")
	ErrSlotUnavailable = errors.New("that time is not available on the selected date")
	ErrSlotsLoading    = errors.New("slots are still loading")
)

// ValidationError reports a rejected availability window field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
