//go:build !integration

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/domain/model"
	"github.com/guttosm/scaffold-service/internal/middleware"
	"github.com/guttosm/scaffold-service/internal/repository"
	"github.com/guttosm/scaffold-service/internal/scaffold"
	"github.com/guttosm/scaffold-service/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testStock is a small yard for two companies. For a 4 x 4.14 x 0.73 m
// scaffold tenant t1 is short of uprights.
func testStock() []model.StockItem {
	return []model.StockItem{
		{Name: "Poteau 2m", Category: "upright", Weight: model.Float(8.5), Quantity: 5, TenantID: "t1"},
		{Name: "Socle reglable", Category: "base_jack", Weight: model.Float(3), Quantity: 10, TenantID: "t1"},
		{Name: "Moise 3m", Category: "ledger", Length: model.Float(3), Weight: model.Float(10), Quantity: 10, TenantID: "t1"},
		{Name: "Moise 1.5m", Category: "ledger", Length: model.Float(1.5), Weight: model.Float(5.4), Quantity: 10, TenantID: "t1"},
		{Name: "Poteau 2m", Category: "upright", Weight: model.Float(8.5), Quantity: 40, TenantID: "t2"},
	}
}

type testEnv struct {
	router *gin.Engine
	repo   *repository.MemoryStockRepository
	items  []model.StockItem
}

// newTestEnv wires the real services over an in-memory store. Identity comes
// from the X-Tenant-ID, X-User-ID and X-User-Roles headers.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := repository.NewMemoryStockRepository()
	items := make([]model.StockItem, 0)
	for _, item := range testStock() {
		require.NoError(t, repo.Create(context.Background(), &item))
		items = append(items, item)
	}

	calculator := service.NewScaffoldService(scaffold.NewEngine(), repo)
	router := NewRouter(NewHealthHandler(), RouterConfig{
		Calculator: calculator,
		Stock:      service.NewStockService(repo),
	})
	return &testEnv{router: router, repo: repo, items: items}
}

// identity builds the identity headers of a caller.
func identity(tenant, user, roles string) map[string]string {
	h := map[string]string{}
	if tenant != "" {
		h[middleware.TenantIDHeader] = tenant
	}
	if user != "" {
		h[middleware.UserIDHeader] = user
	}
	if roles != "" {
		h[middleware.UserRolesHeader] = roles
	}
	return h
}

func doRequest(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the data field of a success envelope into out.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Data      json.RawMessage `json:"data"`
		RequestID string          `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.RequestID)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
