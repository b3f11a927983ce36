package models

// SessionStatus transitions are owned by the backend.
type SessionStatus string

const (
	StatusBooked      SessionStatus = "BOOKED"
	StatusCompleted   SessionStatus = "COMPLETED"
	StatusCancelled   SessionStatus = "CANCELLED"
	StatusRescheduled SessionStatus = "RESCHEDULED"
)

type SessionType string

const (
	SessionOnline  SessionType = "ONLINE"
	SessionOffline SessionType = "OFFLINE"
)

// TherapySession is the backend's session booking record.
type TherapySession struct {
	ID                 int64         `json:"id"`
	PractitionerID     int64         `json:"practitionerId"`
	PractitionerName   string        `json:"practitionerName,omitempty"`
	UserID             int64         `json:"userId"`
	UserName           string        `json:"userName,omitempty"`
	SessionDate        string        `json:"sessionDate"`
	StartTime          string        `json:"startTime"`
	EndTime            string        `json:"endTime"`
	Duration           int           `json:"duration,omitempty"`
	SessionType        SessionType   `json:"sessionType"`
	Status             SessionStatus `json:"status"`
	PaymentStatus      string        `json:"paymentStatus,omitempty"`
	MeetingLink        string        `json:"meetingLink,omitempty"`
	Notes              string        `json:"notes,omitempty"`
	CancellationReason string        `json:"cancellationReason,omitempty"`
	CancelledBy        string        `json:"cancelledBy,omitempty"`
}

// BookSessionRequest is the body of POST /api/sessions/book.
type BookSessionRequest struct {
	PractitionerID int64       `json:"practitionerId"`
	SessionDate    string      `json:"sessionDate"`
	StartTime      string      `json:"startTime"`
	SessionType    SessionType `json:"sessionType"`
	Notes          string      `json:"notes,omitempty"`
	RequestID      string      `json:"requestId"`
}

type CancelSessionRequest struct {
	CancelledBy string `json:"cancelledBy"`
	Reason      string `json:"reason"`
}

type RescheduleSessionRequest struct {
	NewSessionDate string `json:"newSessionDate"`
	NewStartTime   string `json:"newStartTime"`
	Reason         string `json:"reason,omitempty"`
}

// BookingInput is what the portal collects on the confirm-booking form.
type BookingInput struct {
	SessionType SessionType `json:"sessionType"`
	Notes       string      `json:"notes"`
	RequestID   string      `json:"requestId"`
}
