//go:build !integration

package http

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/domain/model"
	"github.com/guttosm/scaffold-service/internal/i18n"
	"github.com/guttosm/scaffold-service/internal/service"
)

// fakeLogs keeps entries in memory. Request logging writes to it from
// background goroutines.
type fakeLogs struct {
	mu       sync.Mutex
	entries  []model.LogEntry
	lastOpts model.LogQueryOptions
	queryErr error
}

func (f *fakeLogs) CreateLog(_ context.Context, entry *model.LogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeLogs) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	for _, e := range entries {
		_ = f.CreateLog(ctx, e)
	}
	return nil
}

func (f *fakeLogs) QueryLogs(_ context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastOpts = opts
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	out := []model.LogEntry{}
	for _, e := range f.entries {
		if e.TenantID == opts.TenantID && (opts.ActionType == "" || e.ActionType == opts.ActionType) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLogs) CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	entries, err := f.QueryLogs(ctx, opts)
	return int64(len(entries)), err
}

func (f *fakeLogs) options() model.LogQueryOptions {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastOpts
}

func newAuditEnv(logs *fakeLogs) *testEnv {
	router := NewRouter(NewHealthHandler(), RouterConfig{LoggingService: logs})
	return &testEnv{router: router}
}

func TestAuditHandler_List(t *testing.T) {
	logs := &fakeLogs{entries: []model.LogEntry{
		{TenantID: "t1", ActionType: "stock_withdraw", Message: "withdrew 2"},
		{TenantID: "t1", ActionType: "stock_create", Message: "created"},
		{TenantID: "t2", ActionType: "stock_withdraw", Message: "other yard"},
	}}
	env := newAuditEnv(logs)

	w := doRequest(env.router, http.MethodGet, "/api/audit-logs?action=stock_withdraw&limit=10&offset=0", "", identity("t1", "u1", dto.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code)

	var page dto.AuditLogPage
	decodeData(t, w, &page)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "withdrew 2", page.Entries[0].Message)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 10, page.Limit)

	opts := logs.options()
	assert.Equal(t, "t1", opts.TenantID)
	assert.Equal(t, 10, opts.Limit)
	assert.Nil(t, opts.StartTime)
}

func TestAuditHandler_Window(t *testing.T) {
	logs := &fakeLogs{}
	env := newAuditEnv(logs)

	w := doRequest(env.router, http.MethodGet, "/api/audit-logs?from=2026-01-02T00:00:00Z&to=2026-01-03T00:00:00Z", "", identity("t1", "u1", dto.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code)

	opts := logs.options()
	require.NotNil(t, opts.StartTime)
	require.NotNil(t, opts.EndTime)
	assert.True(t, opts.StartTime.Equal(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, defaultAuditPageSize, opts.Limit)

	var page dto.AuditLogPage
	decodeData(t, w, &page)
	assert.NotNil(t, page.Entries)
	assert.Empty(t, page.Entries)
}

func TestAuditHandler_Rejections(t *testing.T) {
	admin := identity("t1", "u1", dto.RoleAdmin)

	tests := []struct {
		name     string
		path     string
		headers  map[string]string
		queryErr error
		status   int
		message  string
	}{
		{"not an admin", "/api/audit-logs", identity("t1", "u1", ""), nil, http.StatusForbidden, ""},
		{"foreign tenant", "/api/audit-logs?tenant=t2", admin, nil, http.StatusForbidden, ""},
		{"malformed from", "/api/audit-logs?from=yesterday", admin, nil, http.StatusBadRequest, ""},
		{"malformed limit", "/api/audit-logs?limit=many", admin, nil, http.StatusBadRequest, ""},
		{"negative offset", "/api/audit-logs?offset=-1", admin, nil, http.StatusBadRequest, ""},
		{"inverted window", "/api/audit-logs", admin, service.ErrInvalidLogQuery, http.StatusBadRequest, i18n.GetTranslator().Translate(i18n.ErrKeyInvalidLogWindow, i18n.DefaultLocale)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newAuditEnv(&fakeLogs{queryErr: tt.queryErr})
			w := doRequest(env.router, http.MethodGet, tt.path, "", tt.headers)
			assert.Equal(t, tt.status, w.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, decodeError(t, w).Message)
			}
		})
	}
}

func TestAuditRoutes_RequireLoggingService(t *testing.T) {
	env := newTestEnv(t)
	w := doRequest(env.router, http.MethodGet, "/api/audit-logs", "", identity("t1", "u1", dto.RoleAdmin))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
