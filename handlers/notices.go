package handlers

import (
	"net/http"

	"wellportal/middleware"
	"wellportal/models"
	"wellportal/services/notify"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NoticesHandler drains the session's pending notices.
func NoticesHandler(box notify.Box) gin.HandlerFunc {
	return func(c *gin.Context) {
		notices, err := box.Drain(c.Request.Context(), middleware.SessionID(c))
		if err != nil {
			getLogger(c).Error("Failed to drain notices", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notifications"})
			return
		}
		if notices == nil {
			notices = []models.Notice{}
		}
		c.JSON(http.StatusOK, notices)
	}
}
