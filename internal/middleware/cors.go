package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// DefaultCORSOrigins are allowed when no origins are configured.
var DefaultCORSOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

// CORSConfig returns the cross-origin policy for the given origins. The
// identity headers are allowed so browser clients can scope requests.
func CORSConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = DefaultCORSOrigins
	}
	return cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Accept-Language",
			"Authorization", "accept", "Cache-Control", "X-Requested-With", "X-API-Key",
			"Idempotency-Key", RequestIDHeader, TenantIDHeader, UserIDHeader, UserRolesHeader,
		},
		ExposeHeaders:    []string{RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}
}

// CORS returns a middleware that handles Cross-Origin Resource Sharing.
func CORS(origins []string) gin.HandlerFunc {
	return cors.New(CORSConfig(origins))
}
