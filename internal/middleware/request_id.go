// Package middleware provides HTTP middleware components for the scaffold service.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds client supplied IDs before they reach logs.
const maxRequestIDLength = 128

// ContextKey type for context keys to avoid collisions.
type ContextKey string

// RequestIDKey is the context key for request ID.
const RequestIDKey ContextKey = "request_id"

// RequestID tags every request with an ID. A client supplied X-Request-ID is
// kept when it is short printable ASCII; anything else is replaced by a UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}

		c.Set(string(RequestIDKey), requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetRequestID returns the request ID, or "" outside of RequestID.
func GetRequestID(c *gin.Context) string {
	return c.GetString(string(RequestIDKey))
}
