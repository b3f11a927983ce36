package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorBodies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/refused", func(c *gin.Context) { JSONError(c, http.StatusUnauthorized, "Please log in", "/login") })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	tests := []struct {
		path     string
		status   int
		redirect string
	}{
		{"/refused", http.StatusUnauthorized, "/login"},
		{"/panic", http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.status {
				t.Fatalf("status = %d", w.Code)
			}
			var body ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode %q: %v", w.Body.String(), err)
			}
			if body.Error == "" || body.Redirect != tt.redirect {
				t.Fatalf("body = %+v", body)
			}
		})
	}
}
