package middleware

import (
	"net/http"

	"wellportal/models"
	"wellportal/services/auth"
	"wellportal/services/tokenstore"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	LoginRoute        = "/login"
	UnauthorizedRoute = "/unauthorized"
)

// PageGuard redirects browsers that may not see a portal page.
func PageGuard(g *auth.Guard, provider tokenstore.Provider, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := g.Check(c.Request.Context(), StoreFor(c, provider), roles...)
		if err != nil {
			zap.L().Warn("Guard check failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		}
		switch d {
		case auth.DecisionAllow:
			c.Next()
		case auth.DecisionRedirectUnauthorized:
			c.Redirect(http.StatusFound, UnauthorizedRoute)
			c.Abort()
		default:
			c.Redirect(http.StatusFound, LoginRoute)
			c.Abort()
		}
	}
}

// APIGuard answers portal API calls with 401/403 JSON instead of redirects.
func APIGuard(g *auth.Guard, provider tokenstore.Provider, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := g.Check(c.Request.Context(), StoreFor(c, provider), roles...)
		if err != nil {
			zap.L().Warn("Guard check failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		}
		switch d {
		case auth.DecisionAllow:
			c.Next()
		case auth.DecisionRedirectUnauthorized:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "You are not allowed to access this resource.",
				"redirect": UnauthorizedRoute,
			})
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "Please log in to continue.",
				"redirect": LoginRoute,
			})
		}
	}
}
