package handlers

import (
	"net/http"
	"strconv"

	"wellportal/middleware"
	"wellportal/services/booking"
	"wellportal/services/notify"
	"wellportal/services/tokenstore"

	"github.com/gin-gonic/gin"
)

// SessionsHandler lists, cancels and reschedules therapy sessions.
type SessionsHandler struct {
	Workflow *booking.Workflow
	Sessions tokenstore.Provider
	Notices  notify.Box
}

func NewSessionsHandler(workflow *booking.Workflow, sessions tokenstore.Provider, notices notify.Box) *SessionsHandler {
	return &SessionsHandler{Workflow: workflow, Sessions: sessions, Notices: notices}
}

func (h *SessionsHandler) sink(c *gin.Context) notify.Sink {
	return notify.SinkFor(h.Notices, middleware.SessionID(c), getLogger(c))
}

// practitionerScope reads the optional ?practitionerId= staff use to look up
// a session's current status.
func practitionerScope(c *gin.Context) (int64, bool) {
	raw := c.Query("practitionerId")
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid practitionerId"})
		return 0, false
	}
	return id, true
}

// MySessionsHandler lists the logged-in patient's sessions.
func (h *SessionsHandler) MySessionsHandler(c *gin.Context) {
	sessions, err := h.Workflow.MySessions(c.Request.Context(), middleware.StoreFor(c, h.Sessions))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// PractitionerSessionsHandler lists one practitioner's sessions.
func (h *SessionsHandler) PractitionerSessionsHandler(c *gin.Context) {
	pid, ok := pathID(c, "practitionerId")
	if !ok {
		return
	}
	sessions, err := h.Workflow.PractitionerSessions(c.Request.Context(), middleware.StoreFor(c, h.Sessions), pid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *SessionsHandler) CancelHandler(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	pid, ok := practitionerScope(c)
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	// The body is optional.
	_ = c.ShouldBindJSON(&req)

	session, err := h.Workflow.Cancel(c.Request.Context(), middleware.StoreFor(c, h.Sessions), h.sink(c), id, pid, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *SessionsHandler) RescheduleHandler(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	pid, ok := practitionerScope(c)
	if !ok {
		return
	}
	var req struct {
		NewSessionDate string `json:"newSessionDate"`
		NewStartTime   string `json:"newStartTime"`
		Reason         string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	session, err := h.Workflow.Reschedule(c.Request.Context(), middleware.StoreFor(c, h.Sessions), h.sink(c),
		id, pid, req.NewSessionDate, req.NewStartTime, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}
