package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/scaffold-service/internal/metrics"
	"github.com/guttosm/scaffold-service/internal/middleware"
	"github.com/guttosm/scaffold-service/internal/service"
)

// RouterConfig holds router configuration options. A nil service leaves its
// route group unmounted.
type RouterConfig struct {
	RateLimit         int
	RateWindow        time.Duration
	RequestTimeout    time.Duration
	APIKeys           map[string]bool
	EnableAuth        bool
	EnableIdempotency bool
	CORSOrigins       []string
	SwaggerUser       string
	SwaggerPass       string
	LoggingService    service.LoggingService
	// TokenService switches the API to JWT identities. Nil trusts the
	// identity headers.
	TokenService service.TokenService
	Calculator   service.ScaffoldCalculator
	// MaxDimension bounds scaffold dimensions; zero selects the engine
	// default.
	MaxDimension float64
	Stock        service.StockManager
}

// RouteGroup mounts a set of business endpoints under /api.
type RouteGroup interface {
	RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig)
}

func DefaultRouterConfig() RouterConfig {
	return RouterConfig{RateLimit: 100, RateWindow: time.Minute}
}

// NewRouter builds the engine: probes, metrics and docs at the root, business
// endpoints under /api behind the caller's identity.
func NewRouter(healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(globalMiddleware(&cfg)...)

	if healthHandler != nil {
		healthHandler.Register(router)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	mountDocs(router, &cfg)

	api := router.Group("/api", apiMiddleware(&cfg)...)
	business := api.Group("", callerMiddleware(&cfg)...)
	for _, group := range routeGroups(&cfg) {
		group.RegisterRoutes(business, &cfg)
	}
	return router
}

func routeGroups(cfg *RouterConfig) []RouteGroup {
	var groups []RouteGroup
	if cfg.Calculator != nil {
		groups = append(groups, NewScaffoldRoutes(cfg.Calculator, cfg.MaxDimension))
	}
	if cfg.Stock != nil {
		groups = append(groups, NewStockRoutes(cfg.Stock))
	}
	if cfg.LoggingService != nil {
		groups = append(groups, NewAuditRoutes(cfg.LoggingService))
	}
	return groups
}

// globalMiddleware runs on every route, probes included. The per-IP limiter
// comes last so rejected requests are still logged and counted.
func globalMiddleware(cfg *RouterConfig) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{
		middleware.CORS(cfg.CORSOrigins),
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(cfg.LoggingService),
		middleware.ErrorHandler(),
		func(c *gin.Context) {
			c.Set(loggingServiceKey, cfg.LoggingService)
			c.Next()
		},
	}
	if cfg.RateLimit > 0 {
		clients := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		chain = append(chain, clients.Middleware(middleware.KeyByClientIP))
	}
	return chain
}

// apiMiddleware guards /api. API keys apply only when auth is on and no
// token service issues identities.
func apiMiddleware(cfg *RouterConfig) []gin.HandlerFunc {
	var chain []gin.HandlerFunc
	if cfg.RequestTimeout > 0 {
		chain = append(chain, middleware.Timeout(cfg.RequestTimeout))
	}
	if cfg.EnableAuth && cfg.TokenService == nil && len(cfg.APIKeys) > 0 {
		chain = append(chain, middleware.APIKeyAuth(cfg.APIKeys))
	}
	return chain
}

// callerMiddleware establishes who is calling. Per-caller rate limiting and
// idempotency need that identity, so they run after it.
func callerMiddleware(cfg *RouterConfig) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{middleware.HeaderIdentity()}
	if cfg.TokenService != nil {
		chain[0] = middleware.JWTAuth(cfg.TokenService)
	}
	if cfg.RateLimit > 0 {
		callers := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		chain = append(chain, callers.Middleware(middleware.KeyByCaller))
	}
	if cfg.EnableIdempotency {
		store := middleware.NewIdempotencyStore(middleware.DefaultIdempotencyCapacity, middleware.DefaultIdempotencyTTL)
		chain = append(chain, middleware.Idempotency(store))
	}
	return chain
}

// mountDocs serves Swagger UI, behind basic auth when credentials are set.
func mountDocs(router *gin.Engine, cfg *RouterConfig) {
	docs := router.Group("/swagger")
	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		docs.Use(gin.BasicAuth(gin.Accounts{cfg.SwaggerUser: cfg.SwaggerPass}))
	}
	docs.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
