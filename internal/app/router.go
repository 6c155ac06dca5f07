// Package app provides router configuration.
package app

import (
	"github.com/guttosm/scaffold-service/config"
	"github.com/guttosm/scaffold-service/internal/http"
	"github.com/rs/zerolog/log"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter builds the health checks and router configuration.
func InitializeRouter(
	services *ServiceComponents,
	store *StoreComponents,
	dbComponents *DatabaseComponents,
	cfg config.Config,
) *RouterComponents {
	healthHandler := http.NewHealthHandler()

	routerCfg := http.RouterConfig{
		RateLimit:         cfg.Server.RateLimit,
		RateWindow:        cfg.Server.RateWindow,
		RequestTimeout:    cfg.Server.RequestTimeout,
		EnableAuth:        cfg.Auth.Enabled,
		APIKeys:           cfg.Auth.APIKeys,
		EnableIdempotency: cfg.Server.EnableIdempotency,
		CORSOrigins:       cfg.Server.CORSOrigins,
		SwaggerUser:       cfg.Server.SwaggerUser,
		SwaggerPass:       cfg.Server.SwaggerPass,
		MaxDimension:      cfg.Catalog.MaxDimension,
	}

	if store != nil {
		healthHandler.WatchStore("stock", store.Repo)
		healthHandler.WatchBreaker("stock_store", store.CircuitBreaker)
	}

	if dbComponents != nil {
		if dbComponents.DB != nil {
			healthHandler.WatchStore("mongodb", dbComponents.DB)
		}
		healthHandler.WatchBreaker("mongodb_logs", dbComponents.LogsCircuitBreaker)
		routerCfg.LoggingService = dbComponents.LoggingService
	}

	if services != nil {
		routerCfg.Calculator = services.Calculator
		routerCfg.Stock = services.Stock
		routerCfg.TokenService = services.Tokens
	}

	if cfg.Auth.Enabled && routerCfg.TokenService == nil && len(cfg.Auth.APIKeys) == 0 {
		log.Warn().Msg("Authentication enabled without JWT secret or API keys - identity headers are trusted")
	}

	return &RouterComponents{
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}
