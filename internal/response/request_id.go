package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the Gin context key for the request ID.
const ContextKeyRequestID = "request_id"

// maxRequestIDLen caps client-supplied IDs before they are echoed and logged.
const maxRequestIDLen = 64

// RequestIDMiddleware assigns every request an ID, honouring X-Request-ID
// when the client sends a reasonable one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" || len(reqID) > maxRequestIDLen {
			reqID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Header("X-Request-ID", reqID)
		c.Next()
	}
}

// RequestID returns the ID assigned by RequestIDMiddleware, or "" if absent.
func RequestID(c *gin.Context) string {
	id, _ := c.Get(ContextKeyRequestID)
	s, _ := id.(string)
	return s
}
