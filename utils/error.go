package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed portal request.
type ErrorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// ErrorHandler catches panics from any handler and renders a generic failure
// body, so one broken page never takes the portal down.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error: "An unexpected error occurred. Please reload and try again.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response. redirect may be empty.
func JSONError(c *gin.Context, status int, message, redirect string) {
	c.JSON(status, ErrorResponse{Error: message, Redirect: redirect})
}
