package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"wellportal/middleware"
	"wellportal/models"
	"wellportal/services/availability"
	"wellportal/services/booking"
	"wellportal/services/notify"
	"wellportal/services/tokenstore"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CalendarHandler drives a patient's date and slot selection and the final
// booking submission.
type CalendarHandler struct {
	Calendars *availability.Calendars
	Workflow  *booking.Workflow
	Sessions  tokenstore.Provider
	Notices   notify.Box
}

func NewCalendarHandler(calendars *availability.Calendars, workflow *booking.Workflow, sessions tokenstore.Provider, notices notify.Box) *CalendarHandler {
	return &CalendarHandler{
		Calendars: calendars,
		Workflow:  workflow,
		Sessions:  sessions,
		Notices:   notices,
	}
}

// pathID parses a positive int64 route parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

func (h *CalendarHandler) calendar(c *gin.Context) (*availability.Calendar, bool) {
	pid, ok := pathID(c, "practitionerId")
	if !ok {
		return nil, false
	}
	sid := middleware.SessionID(c)
	return h.Calendars.Get(sid, middleware.StoreFor(c, h.Sessions), pid), true
}

func (h *CalendarHandler) sink(c *gin.Context) notify.Sink {
	return notify.SinkFor(h.Notices, middleware.SessionID(c), getLogger(c))
}

// GetCalendarHandler returns the current calendar view.
func (h *CalendarHandler) GetCalendarHandler(c *gin.Context) {
	cal, ok := h.calendar(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cal.View())
}

// SelectDateHandler switches the calendar to a date and loads its slots.
// "Today" is the patient's day in timeZone when given. A failed load still
// answers with the view, which carries the error text.
func (h *CalendarHandler) SelectDateHandler(c *gin.Context) {
	cal, ok := h.calendar(c)
	if !ok {
		return
	}
	var req struct {
		Date     string `json:"date" binding:"required"`
		TimeZone string `json:"timeZone"` // IANA name, e.g. "America/Los_Angeles"
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	var loc *time.Location
	if req.TimeZone != "" {
		var err error
		if loc, err = time.LoadLocation(req.TimeZone); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown time zone: " + req.TimeZone})
			return
		}
	}

	err := cal.SelectDateIn(c.Request.Context(), req.Date, loc)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, cal.View())
	case errors.Is(err, availability.ErrPastDate), errors.Is(err, availability.ErrInvalidDate):
		respondError(c, err)
	default:
		status, msg := statusFor(err)
		getLogger(c).Warn("Slot lookup failed",
			zap.Int64("practitionerId", cal.PractitionerID()),
			zap.String("date", req.Date),
			zap.Error(err),
		)
		h.sink(c).Notify(c.Request.Context(), notify.Error(msg))
		body := gin.H{"error": msg, "calendar": cal.View()}
		if status == http.StatusUnauthorized {
			body["redirect"] = middleware.LoginRoute
		}
		c.JSON(status, body)
	}
}

// SelectSlotHandler picks a time from the loaded slot list.
func (h *CalendarHandler) SelectSlotHandler(c *gin.Context) {
	cal, ok := h.calendar(c)
	if !ok {
		return
	}
	var req struct {
		Time string `json:"time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if _, err := cal.SelectSlot(req.Time); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cal.View())
}

// BookHandler submits the selected slot.
func (h *CalendarHandler) BookHandler(c *gin.Context) {
	cal, ok := h.calendar(c)
	if !ok {
		return
	}
	var in models.BookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	session, err := h.Workflow.Book(c.Request.Context(), middleware.StoreFor(c, h.Sessions), cal, h.sink(c), in)
	if err != nil {
		status, msg := statusFor(err)
		body := gin.H{"error": msg, "calendar": cal.View()}
		if status == http.StatusUnauthorized {
			body["redirect"] = middleware.LoginRoute
		}
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session, "calendar": cal.View()})
}
