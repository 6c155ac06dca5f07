//go:build integration

package service

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/scaffold-service/internal/circuitbreaker"
	"github.com/guttosm/scaffold-service/internal/domain/model"
	"github.com/guttosm/scaffold-service/internal/repository"
	"github.com/guttosm/scaffold-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingService_Integration(t *testing.T) {
	ctx := context.Background()

	db, err := repository.NewMongoDB(ctx, testutil.MongoURI(t), testutil.DatabaseName(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Database.Drop(ctx)
		_ = db.Close(ctx)
	})
	require.NoError(t, db.SetLogsTTL(ctx, 30*24*time.Hour))

	logs := repository.NewLogsRepositoryWithCircuitBreaker(
		repository.NewLogsRepository(db),
		circuitbreaker.New(circuitbreaker.Config{
			Name:             "logs",
			FailureThreshold: 2,
			SuccessThreshold: 1,
			Timeout:          100 * time.Millisecond,
		}),
	)
	svc := NewLoggingService(logs)

	require.NoError(t, svc.CreateLogs(ctx, []*model.LogEntry{
		{Level: "info", Message: "Scaffold calculated", RequestID: "req-1", TenantID: "t1", ActionType: "scaffold_calculate"},
		{Level: "info", Message: "Stock withdrawn", RequestID: "req-2", TenantID: "t1", ActionType: "stock_withdraw"},
		{Level: "error", Message: "Request failed", RequestID: "req-3", TenantID: "t2"},
	}))

	t.Run("query by tenant", func(t *testing.T) {
		entries, err := svc.QueryLogs(ctx, model.LogQueryOptions{TenantID: "t1"})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("count by action", func(t *testing.T) {
		count, err := svc.CountLogs(ctx, model.LogQueryOptions{ActionType: "stock_withdraw"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("time range", func(t *testing.T) {
		start := time.Now().Add(-time.Hour)
		end := time.Now().Add(time.Hour)
		entries, err := svc.QueryLogs(ctx, model.LogQueryOptions{StartTime: &start, EndTime: &end})
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})
}
