package handlers

import (
	"net/http"
	"strconv"

	journalRepo "wellportal/database/repository/journal"
	"wellportal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler exposes the booking journal to admins.
type AdminHandler struct {
	Journal journalRepo.BookingJournalRepository
}

func NewAdminHandler(journal journalRepo.BookingJournalRepository) *AdminHandler {
	return &AdminHandler{Journal: journal}
}

// BookingAttemptsHandler lists recent booking attempts, newest first.
// ?userId= narrows the list to one user.
func (ah *AdminHandler) BookingAttemptsHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(journalRepo.DefaultListLimit)))

	var (
		attempts []models.BookingAttempt
		err      error
	)
	if raw := c.Query("userId"); raw != "" {
		userID, convErr := strconv.ParseInt(raw, 10, 64)
		if convErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
			return
		}
		attempts, err = ah.Journal.ByUser(c.Request.Context(), userID, limit)
	} else {
		attempts, err = ah.Journal.Recent(c.Request.Context(), limit)
	}
	if err != nil {
		zap.L().Error("Failed to fetch booking attempts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch booking attempts"})
		return
	}
	if attempts == nil {
		attempts = []models.BookingAttempt{}
	}
	c.JSON(http.StatusOK, attempts)
}
