package models

import "time"

// Journal operations.
const (
	OpBook       = "book"
	OpCancel     = "cancel"
	OpReschedule = "reschedule"
)

// Journal outcomes.
const (
	OutcomeBooked   = "booked"
	OutcomeOK       = "ok"
	OutcomeConflict = "conflict"
	OutcomeRejected = "rejected"
	OutcomeAuth     = "auth"
	OutcomeFailed   = "failed"
)

// BookingAttempt is one journalled booking/cancel/reschedule submission.
type BookingAttempt struct {
	ID             string    `bson:"id" json:"id"` // request key
	Op             string    `bson:"op" json:"op"`
	UserID         int64     `bson:"userId" json:"userId"`
	PractitionerID int64     `bson:"practitionerId,omitempty" json:"practitionerId,omitempty"`
	SessionID      int64     `bson:"sessionId,omitempty" json:"sessionId,omitempty"`
	Date           string    `bson:"date,omitempty" json:"date,omitempty"`
	Time           string    `bson:"time,omitempty" json:"time,omitempty"`
	Outcome        string    `bson:"outcome" json:"outcome"`
	Message        string    `bson:"message,omitempty" json:"message,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}
