package handlers

import (
	"net/http"

	"wellportal/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last dependency snapshot. The wellness API being
// down degrades the portal without taking it offline.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	state := "ok"
	if !status.Backend {
		state = "degraded"
	}
	for _, up := range status.Redis {
		if !up {
			state = "degraded"
		}
	}
	if status.Mongo != nil && !*status.Mongo {
		state = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{"status": state, "checks": status})
}
