package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"webstarter/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware reuses a sane incoming X-Request-ID, otherwise
// generates one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := logger.FromContext(c.Request.Context()).With(
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		)
		logger.HTTPLog(log, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), c.Writer.Size())
	}
}
