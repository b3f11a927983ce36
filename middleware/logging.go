package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const TraceIDHeader = "X-Trace-ID"
const TraceParentHeader = "traceparent"

const (
	traceIDKey = "trace_id"
	loggerKey  = "logger"
)

// GetTraceID extracts the trace id from W3C traceparent or X-Trace-ID, or
// generates one.
func GetTraceID(c *gin.Context) string {
	if tp := c.GetHeader(TraceParentHeader); tp != "" {
		// version-trace_id-parent_id-flags
		if parts := strings.Split(tp, "-"); len(parts) >= 2 && parts[1] != "" {
			return parts[1]
		}
	}
	if traceID := c.GetHeader(TraceIDHeader); traceID != "" {
		return traceID
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// TraceID returns the id LoggingMiddleware assigned to the request.
func TraceID(c *gin.Context) string {
	return c.GetString(traceIDKey)
}

// LoggingMiddleware logs one structured line per request with its trace id.
func LoggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		traceID := GetTraceID(c)
		c.Set(traceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)
		c.Set(loggerKey, logger.With(zap.String("trace_id", traceID)))

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("trace_id", traceID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", getClientIP(c)),
			zap.String("user_agent", c.Request.UserAgent()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if status >= 500 {
			logger.Error("HTTP request", fields...)
		} else if status >= 400 {
			logger.Warn("HTTP request", fields...)
		} else {
			logger.Info("HTTP request", fields...)
		}
	}
}
