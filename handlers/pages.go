package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// PageHandler serves the single-page portal shell for every page route.
func PageHandler(webDir string) gin.HandlerFunc {
	index := filepath.Join(webDir, "index.html")
	return func(c *gin.Context) {
		if _, err := os.Stat(index); err != nil {
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fallbackPage))
			return
		}
		c.File(index)
	}
}

const fallbackPage = `<!doctype html>
<html><head><meta charset="utf-8"><title>Wellness Portal</title></head>
<body><div id="app"></div></body></html>
`
