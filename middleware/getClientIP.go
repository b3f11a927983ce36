package middleware

import (
	"github.com/gin-gonic/gin"
)

// getClientIP is the address rate limits and access logs are keyed on.
// Forwarding headers only count when the engine trusts the sending proxy.
func getClientIP(c *gin.Context) string {
	return c.ClientIP()
}
