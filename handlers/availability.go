package handlers

import (
	"net/http"

	"wellportal/middleware"
	"wellportal/models"
	"wellportal/services/availability"
	"wellportal/services/notify"
	"wellportal/services/tokenstore"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler manages practitioners' weekly windows and serves
// one-off slot lookups.
type AvailabilityHandler struct {
	Windows  *availability.Windows
	Resolver *availability.Resolver
	Sessions tokenstore.Provider
	Notices  notify.Box
}

func NewAvailabilityHandler(windows *availability.Windows, resolver *availability.Resolver, sessions tokenstore.Provider, notices notify.Box) *AvailabilityHandler {
	return &AvailabilityHandler{Windows: windows, Resolver: resolver, Sessions: sessions, Notices: notices}
}

// ListHandler returns a practitioner's windows.
func (h *AvailabilityHandler) ListHandler(c *gin.Context) {
	pid, ok := pathID(c, "practitionerId")
	if !ok {
		return
	}
	windows, err := h.Windows.List(c.Request.Context(), pid)
	if err != nil {
		respondError(c, err)
		return
	}
	if windows == nil {
		windows = []models.AvailabilityWindow{}
	}
	c.JSON(http.StatusOK, windows)
}

// SetHandler saves one weekday window.
func (h *AvailabilityHandler) SetHandler(c *gin.Context) {
	pid, ok := pathID(c, "practitionerId")
	if !ok {
		return
	}
	var w models.AvailabilityWindow
	if err := c.ShouldBindJSON(&w); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	saved, err := h.Windows.Set(c.Request.Context(), middleware.StoreFor(c, h.Sessions), pid, w)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// PreviewHandler shows the slots a window would generate.
func (h *AvailabilityHandler) PreviewHandler(c *gin.Context) {
	var req struct {
		Window models.AvailabilityWindow `json:"window"`
		Booked []models.BookedInterval   `json:"booked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	slots, err := h.Windows.Preview(req.Window, req.Booked)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// SlotsHandler returns the free slots of one day. Failures answer with an
// empty list and an error notice.
func (h *AvailabilityHandler) SlotsHandler(c *gin.Context) {
	pid, ok := pathID(c, "practitionerId")
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}
	sink := notify.SinkFor(h.Notices, middleware.SessionID(c), getLogger(c))
	slots := h.Resolver.GetAvailableSlots(c.Request.Context(), middleware.StoreFor(c, h.Sessions), pid, date, sink)
	c.JSON(http.StatusOK, gin.H{"date": date, "slots": slots})
}
