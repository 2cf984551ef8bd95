package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// Logger tags each request with an id and logs one line when it completes.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("request_id", reqID)
		c.Writer.Header().Set(RequestIDHeader, reqID)

		c.Next()

		status := c.Writer.Status()
		marker := ""
		if status >= 500 {
			marker = "❌ "
		} else if status >= 400 {
			marker = "⚠️  "
		}
		log.Printf("%s%s %s %s %d %s id=%s", marker, c.Request.Method, c.Request.URL.Path, c.ClientIP(), status, time.Since(start), reqID)
	}
}
