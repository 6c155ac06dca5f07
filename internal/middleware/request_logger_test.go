//go:build !integration

package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/domain/model"
	"github.com/guttosm/scaffold-service/internal/logger"
)

func TestStatusLevel(t *testing.T) {
	tests := []struct {
		status int
		want   zerolog.Level
	}{
		{http.StatusOK, zerolog.InfoLevel},
		{http.StatusCreated, zerolog.InfoLevel},
		{http.StatusMovedPermanently, zerolog.InfoLevel},
		{http.StatusBadRequest, zerolog.WarnLevel},
		{http.StatusConflict, zerolog.WarnLevel},
		{http.StatusInternalServerError, zerolog.ErrorLevel},
		{http.StatusGatewayTimeout, zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, statusLevel(tt.status))
		})
	}
}

func TestRequestLogger_AccessLog(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		path      string
		status    int
		wantLevel string
		wantQuiet bool
	}{
		{name: "success", path: "/api/stock", status: http.StatusOK, wantLevel: `"level":"info"`},
		{name: "client error", path: "/api/stock", status: http.StatusConflict, wantLevel: `"level":"warn"`},
		{name: "server error", path: "/api/stock", status: http.StatusServiceUnavailable, wantLevel: `"level":"error"`},
		{name: "health probe", path: "/healthz", status: http.StatusOK, wantQuiet: true},
		{name: "failing readiness probe", path: "/readyz", status: http.StatusServiceUnavailable, wantLevel: `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger.InitWithWriter("debug", false, &buf)
			defer logger.InitWithWriter("info", false, io.Discard)

			router := gin.New()
			router.Use(RequestID(), HeaderIdentity(), RequestLogger(nil))
			router.GET(tt.path, func(c *gin.Context) { c.Status(tt.status) })

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set(TenantIDHeader, "acme")
			req.Header.Set(UserIDHeader, "u1")
			router.ServeHTTP(httptest.NewRecorder(), req)

			if tt.wantQuiet {
				assert.Empty(t, buf.String())
				return
			}
			line := buf.String()
			assert.Contains(t, line, tt.wantLevel)
			assert.Contains(t, line, `"path":"`+tt.path+`"`)
			assert.Contains(t, line, `"tenant_id":"acme"`)
			assert.Contains(t, line, `"request_id":`)
		})
	}
}

func TestRequestLogger_PersistsEntry(t *testing.T) {
	StopAsyncLogger()
	gin.SetMode(gin.TestMode)
	logger.InitWithWriter("info", false, io.Discard)

	sink := &MockLoggingService{}
	sink.On("CreateLog", mock.Anything, mock.MatchedBy(func(e *model.LogEntry) bool {
		return e.UserID == "u1" && e.TenantID == "t1" &&
			e.StatusCode == http.StatusCreated && e.Level == "info" &&
			e.Method == http.MethodPost && e.Path == "/api/stock" && e.RequestID != ""
	})).Return(nil).Once()

	router := gin.New()
	router.Use(RequestID(), func(c *gin.Context) {
		setIdentity(c, &dto.Claims{UserID: "u1", TenantID: "t1"})
		c.Next()
	}, RequestLogger(sink))
	router.POST("/api/stock", func(c *gin.Context) { c.Status(http.StatusCreated) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/stock", nil))

	assert.Eventually(t, func() bool {
		return sink.AssertExpectations(new(testing.T))
	}, time.Second, 5*time.Millisecond)
}
