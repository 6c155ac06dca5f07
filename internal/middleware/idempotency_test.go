//go:build !integration

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/metrics"
)

type withdrawalServer struct {
	router *gin.Engine
	calls  int
	status int
}

func newWithdrawalServer(t *testing.T) *withdrawalServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := NewIdempotencyStore(64, time.Minute)
	t.Cleanup(store.Stop)

	s := &withdrawalServer{status: http.StatusOK}
	s.router = gin.New()
	s.router.Use(RequestID(), HeaderIdentity(), Idempotency(store))
	handler := func(c *gin.Context) {
		s.calls++
		c.Header("Location", "/api/stock/s1")
		c.JSON(s.status, gin.H{"calls": s.calls})
	}
	s.router.POST("/api/stock/:id/withdraw", handler)
	s.router.GET("/api/stock/:id", handler)
	return s
}

func (s *withdrawalServer) send(method, path, tenant, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(TenantIDHeader, tenant)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestIdempotency_Replay(t *testing.T) {
	s := newWithdrawalServer(t)
	before := testutil.ToFloat64(metrics.HTTPRejectionsTotal.WithLabelValues(metrics.RejectReplay))

	first := s.send(http.MethodPost, "/api/stock/s1/withdraw", "acme", "retry-1", `{"quantity":2}`)
	replay := s.send(http.MethodPost, "/api/stock/s1/withdraw", "acme", "retry-1", `{"quantity":2}`)

	assert.Equal(t, 1, s.calls)
	assert.Equal(t, first.Code, replay.Code)
	assert.JSONEq(t, first.Body.String(), replay.Body.String())
	assert.Equal(t, "true", replay.Header().Get(IdempotencyReplayedHeader))
	assert.Empty(t, first.Header().Get(IdempotencyReplayedHeader))
	assert.Equal(t, "/api/stock/s1", replay.Header().Get("Location"))
	assert.Contains(t, replay.Header().Get("Content-Type"), "application/json")
	assert.NotEqual(t, first.Header().Get(RequestIDHeader), replay.Header().Get(RequestIDHeader))

	after := testutil.ToFloat64(metrics.HTTPRejectionsTotal.WithLabelValues(metrics.RejectReplay))
	assert.Equal(t, before+1, after)
}

func TestIdempotency_ScopedToCaller(t *testing.T) {
	s := newWithdrawalServer(t)

	s.send(http.MethodPost, "/api/stock/s1/withdraw", "acme", "retry-1", `{"quantity":2}`)
	other := s.send(http.MethodPost, "/api/stock/s1/withdraw", "globex", "retry-1", `{"quantity":2}`)

	assert.Equal(t, 2, s.calls)
	assert.Empty(t, other.Header().Get(IdempotencyReplayedHeader))
}

func TestIdempotency_KeyReuse(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "different body", path: "/api/stock/s1/withdraw", body: `{"quantity":3}`},
		{name: "different path", path: "/api/stock/s2/withdraw", body: `{"quantity":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newWithdrawalServer(t)
			s.send(http.MethodPost, "/api/stock/s1/withdraw", "acme", "retry-1", `{"quantity":2}`)

			w := s.send(http.MethodPost, tt.path, "acme", "retry-1", tt.body)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Contains(t, w.Body.String(), dto.ErrCodeIdempotencyMismatch)
			assert.Equal(t, 1, s.calls)
		})
	}
}

func TestIdempotency_PassThrough(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		key    string
		status int
	}{
		{name: "no key", method: http.MethodPost, path: "/api/stock/s1/withdraw", status: http.StatusOK},
		{name: "safe method", method: http.MethodGet, path: "/api/stock/s1", key: "retry-1", status: http.StatusOK},
		{name: "client error not stored", method: http.MethodPost, path: "/api/stock/s1/withdraw", key: "retry-1", status: http.StatusConflict},
		{name: "server error not stored", method: http.MethodPost, path: "/api/stock/s1/withdraw", key: "retry-1", status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newWithdrawalServer(t)
			s.status = tt.status

			first := s.send(tt.method, tt.path, "acme", tt.key, `{"quantity":2}`)
			second := s.send(tt.method, tt.path, "acme", tt.key, `{"quantity":2}`)

			assert.Equal(t, tt.status, first.Code)
			assert.Equal(t, tt.status, second.Code)
			assert.Equal(t, 2, s.calls)
			assert.Empty(t, second.Header().Get(IdempotencyReplayedHeader))
		})
	}
}

func TestIdempotency_KeyTooLong(t *testing.T) {
	s := newWithdrawalServer(t)

	w := s.send(http.MethodPost, "/api/stock/s1/withdraw", "acme", strings.Repeat("k", maxIdempotencyKeyLength+1), `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, s.calls)
}

func TestIdempotency_NilStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	calls := 0
	router := gin.New()
	router.Use(Idempotency(nil))
	router.POST("/api/stock", func(c *gin.Context) { calls++; c.Status(http.StatusCreated) })

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/stock", strings.NewReader(`{}`))
		req.Header.Set(IdempotencyKeyHeader, "k")
		router.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, 2, calls)
}

func TestFingerprintRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/stock", strings.NewReader(`{"name":"Moise 2m"}`))

	sum, err := fingerprintRequest(req)
	require.NoError(t, err)

	// The body is still readable and hashes the same.
	again, err := fingerprintRequest(req)
	require.NoError(t, err)
	assert.Equal(t, sum, again)

	other := httptest.NewRequest(http.MethodPut, "/api/stock", strings.NewReader(`{"name":"Moise 2m"}`))
	otherSum, err := fingerprintRequest(other)
	require.NoError(t, err)
	assert.NotEqual(t, sum, otherSum)
}

func TestCallerScope(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "", callerScope(c))

	setIdentity(c, &dto.Claims{UserID: "u1", TenantID: "t1"})
	assert.Equal(t, "t1/u1", callerScope(c))
}
