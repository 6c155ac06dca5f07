package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/logger"
	"github.com/guttosm/scaffold-service/internal/metrics"
)

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		handler    gin.HandlerFunc
		wantStatus int
		wantPanic  bool
	}{
		{
			name:       "recovers from panic",
			handler:    func(*gin.Context) { panic("ledger table corrupted") },
			wantStatus: http.StatusInternalServerError,
			wantPanic:  true,
		},
		{
			name: "keeps a response already written",
			handler: func(c *gin.Context) {
				c.String(http.StatusAccepted, "partial")
				panic("late failure")
			},
			wantStatus: http.StatusAccepted,
			wantPanic:  true,
		},
		{
			name:       "passes through without panic",
			handler:    func(c *gin.Context) { c.String(http.StatusOK, "ok") },
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID(), Recovery())
			router.GET("/calc", tt.handler)

			before := testutil.ToFloat64(metrics.HTTPRejectionsTotal.WithLabelValues(metrics.RejectPanic))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/calc", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			after := testutil.ToFloat64(metrics.HTTPRejectionsTotal.WithLabelValues(metrics.RejectPanic))
			if tt.wantPanic {
				assert.Equal(t, before+1, after)
			} else {
				assert.Equal(t, before, after)
			}
		})
	}
}

func TestRecovery_ResponseAndLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger.InitWithWriter("info", false, &buf)
	t.Cleanup(func() { logger.InitWithWriter("info", false, io.Discard) })

	router := gin.New()
	router.Use(RequestID(), HeaderIdentity(), Recovery())
	router.GET("/calc", func(*gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/calc", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	req.Header.Set(TenantIDHeader, "t1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, dto.ErrCodeInternal, body.Error)
	assert.Equal(t, "req-1", body.RequestID)

	assert.Contains(t, buf.String(), `"panic":"boom"`)
	assert.Contains(t, buf.String(), `"tenant_id":"t1"`)
}

func TestRecovery_RepanicsAbortHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Recovery())
	router.GET("/stream", func(*gin.Context) { panic(http.ErrAbortHandler) })

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/stream", nil))
	})
}
