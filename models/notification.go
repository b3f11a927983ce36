package models

import "time"

// Notice levels.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
	NoticeInfo    = "info"
)

// EventSessionsRefresh tells the portal to reload any session list view.
const EventSessionsRefresh = "sessions.refresh"

// Notice is a transient, toast-style notification for one browser session.
type Notice struct {
	Level     string    `json:"level"`
	Message   string    `json:"message,omitempty"`
	Event     string    `json:"event,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
