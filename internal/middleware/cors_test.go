//go:build !integration

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORSConfig_DefaultOrigins(t *testing.T) {
	cfg := CORSConfig(nil)
	assert.Equal(t, DefaultCORSOrigins, cfg.AllowOrigins)
	assert.Contains(t, cfg.AllowHeaders, TenantIDHeader)
	assert.Contains(t, cfg.ExposeHeaders, RequestIDHeader)

	cfg = CORSConfig([]string{"https://app.example.com"})
	assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowOrigins)
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		method         string
		origin         string
		expectedStatus int
		expectedOrigin string
	}{
		{
			name:           "preflight from allowed origin",
			method:         http.MethodOptions,
			origin:         "https://app.example.com",
			expectedStatus: http.StatusNoContent,
			expectedOrigin: "https://app.example.com",
		},
		{
			name:           "get from allowed origin",
			method:         http.MethodGet,
			origin:         "https://app.example.com",
			expectedStatus: http.StatusOK,
			expectedOrigin: "https://app.example.com",
		},
		{
			name:           "foreign origin is rejected",
			method:         http.MethodGet,
			origin:         "https://evil.example.com",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "same-origin request without origin header",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORS([]string{"https://app.example.com"}))
			router.GET("/test", func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.method == http.MethodOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
