package handlers

import (
	"wellportal/services/auth"
	"wellportal/services/notify"
	"wellportal/services/tokenstore"
)

// HandlerBundle groups the endpoint handlers and what the router needs to
// guard them.
type HandlerBundle struct {
	Guard    *auth.Guard
	Sessions tokenstore.Provider
	Notices  notify.Box
	WebDir   string

	Auth         *AuthHandler
	Calendar     *CalendarHandler
	SessionList  *SessionsHandler
	Availability *AvailabilityHandler
	Admin        *AdminHandler
}
