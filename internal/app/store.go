// Package app provides stock store initialization.
package app

import (
	"errors"
	"fmt"

	"github.com/guttosm/scaffold-service/config"
	"github.com/guttosm/scaffold-service/internal/circuitbreaker"
	"github.com/guttosm/scaffold-service/internal/repository"
	"github.com/guttosm/scaffold-service/internal/service"
	"github.com/rs/zerolog/log"
)

// ErrUnknownStoreBackend is returned for a STORE_BACKEND value that names no store.
var ErrUnknownStoreBackend = errors.New("unknown store backend")

// StoreComponents holds the stock store.
type StoreComponents struct {
	// Repo is the breaker-protected store every service uses.
	Repo           repository.StockRepositoryInterface
	CircuitBreaker *circuitbreaker.CircuitBreaker
	closer         func() error
}

// InitializeStore opens the configured stock backend and wraps it with a
// circuit breaker. Domain outcomes such as "not found" or "insufficient stock"
// do not count against the breaker.
func InitializeStore(cfg config.Config, db *DatabaseComponents) (*StoreComponents, error) {
	var (
		repo   repository.StockRepositoryInterface
		closer func() error
	)

	switch cfg.Store.Backend {
	case config.StoreMemory, "":
		repo = repository.NewMemoryStockRepository()
	case config.StoreMongoDB:
		if db == nil || db.DB == nil {
			return nil, fmt.Errorf("%s store: no database connection", config.StoreMongoDB)
		}
		repo = repository.NewMongoStockRepository(db.DB)
	case config.StoreSQLite:
		sqliteRepo, err := repository.NewSQLiteStockRepository(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		repo = sqliteRepo
		closer = sqliteRepo.Close
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStoreBackend, cfg.Store.Backend)
	}

	cb := newCircuitBreaker("stock-"+backendName(cfg.Store.Backend), cfg.Database, isStoreFailure)
	log.Info().Str("backend", backendName(cfg.Store.Backend)).Msg("Stock store ready")

	return &StoreComponents{
		Repo:           repository.NewStockRepositoryWithCircuitBreaker(repo, cb),
		CircuitBreaker: cb,
		closer:         closer,
	}, nil
}

// Close releases the store's own resources. The MongoDB connection is owned
// by DatabaseComponents.
func (s *StoreComponents) Close() {
	if s == nil || s.closer == nil {
		return
	}
	if err := s.closer(); err != nil {
		log.Warn().Err(err).Msg("Failed to close stock store")
	}
}

func isStoreFailure(err error) bool {
	return !repository.IsBusinessError(err) && !service.IsBusinessError(err)
}

func backendName(backend string) string {
	if backend == "" {
		return config.StoreMemory
	}
	return backend
}
