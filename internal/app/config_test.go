package app

import (
	"time"

	"github.com/guttosm/scaffold-service/config"
)

// baseConfig is the in-memory setup shared by unit and integration tests.
func baseConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Port:       "8080",
			RateLimit:  100,
			RateWindow: time.Minute,
		},
		Cache: config.CacheConfig{
			Size: 100,
			TTL:  time.Minute,
		},
		Log:   config.LogConfig{Level: "error"},
		Store: config.StoreConfig{Backend: config.StoreMemory},
		Database: config.DatabaseConfig{
			CircuitBreakerFailureThreshold: 5,
			CircuitBreakerSuccessThreshold: 2,
			CircuitBreakerTimeout:          30 * time.Second,
		},
	}
}
