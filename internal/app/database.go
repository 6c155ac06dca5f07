package app

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/scaffold-service/config"
	"github.com/guttosm/scaffold-service/internal/circuitbreaker"
	"github.com/guttosm/scaffold-service/internal/logger"
	"github.com/guttosm/scaffold-service/internal/metrics"
	"github.com/guttosm/scaffold-service/internal/middleware"
	"github.com/guttosm/scaffold-service/internal/repository"
	"github.com/guttosm/scaffold-service/internal/service"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB                 *repository.MongoDB
	LoggingService     service.LoggingService
	LogsCircuitBreaker *circuitbreaker.CircuitBreaker
}

// InitializeDatabase connects to MongoDB when the stock store or request log
// persistence needs it. It returns nil components when MongoDB is not needed.
// A failed connection is fatal only for the mongodb stock backend; otherwise
// the service continues without persisted request logs.
func InitializeDatabase(ctx context.Context, cfg config.Config) (*DatabaseComponents, error) {
	if !cfg.MongoDBRequired() {
		return nil, nil
	}
	log := logger.Logger()

	db, err := repository.NewMongoDB(ctx, cfg.Database.URI, cfg.Database.DatabaseName)
	if err != nil {
		if cfg.Store.Backend == config.StoreMongoDB {
			return nil, fmt.Errorf("connect to stock database: %w", err)
		}
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without request log persistence")
		return nil, nil
	}

	log.Info().Str("database", cfg.Database.DatabaseName).Msg("Connected to MongoDB")

	if err := db.SetLogsTTL(ctx, cfg.Database.LogsTTL); err != nil {
		log.Warn().Err(err).Dur("ttl", cfg.Database.LogsTTL).Msg("Failed to set logs TTL index")
	}

	logsCB := newCircuitBreaker("mongodb-logs", cfg.Database, nil)
	logsRepo := repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), logsCB)
	loggingService := service.NewLoggingService(logsRepo)

	middleware.InitAsyncLogger(loggingService, middleware.DefaultAsyncLoggerConfig())

	return &DatabaseComponents{
		DB:                 db,
		LoggingService:     loggingService,
		LogsCircuitBreaker: logsCB,
	}, nil
}

// Close drains the async logger and disconnects from MongoDB.
func (d *DatabaseComponents) Close() {
	if d == nil {
		return
	}
	middleware.StopAsyncLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.DB.Close(ctx); err != nil {
		logger.Logger().Warn().Err(err).Msg("Failed to close MongoDB connection")
	}
}

// newCircuitBreaker builds a breaker from the database settings and publishes
// its transitions as metrics.
func newCircuitBreaker(name string, cfg config.DatabaseConfig, isFailure func(error) bool) *circuitbreaker.CircuitBreaker {
	metrics.SetCircuitBreakerState(name, int(circuitbreaker.StateClosed))
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
		IsFailure:        isFailure,
		OnStateChange: func(name string, _, to circuitbreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
		},
	})
}
