// Package app provides service initialization.
package app

import (
	"fmt"

	"github.com/guttosm/scaffold-service/config"
	"github.com/guttosm/scaffold-service/internal/repository"
	"github.com/guttosm/scaffold-service/internal/scaffold"
	"github.com/guttosm/scaffold-service/internal/service"
	"github.com/rs/zerolog/log"
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Calculator *service.ScaffoldService
	Stock      service.StockManager
	// Tokens is nil unless authentication is enabled with a JWT secret.
	Tokens service.TokenService
}

// InitializeServices initializes business logic services over the stock store.
func InitializeServices(cfg config.Config, repo repository.StockRepositoryInterface) (*ServiceComponents, error) {
	catalog, err := BuildCatalog(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("catalog configuration: %w", err)
	}
	engine := scaffold.NewEngine(scaffold.WithCatalog(catalog), scaffold.WithMaxDimension(cfg.Catalog.MaxDimension))

	var opts []service.ScaffoldOption
	if cfg.Cache.Size > 0 {
		opts = append(opts, service.WithPlanCache(cfg.Cache.Size, cfg.Cache.TTL))
	}

	components := &ServiceComponents{
		Calculator: service.NewScaffoldService(engine, repo, opts...),
		Stock: service.NewStockService(repo,
			service.WithLowStockThreshold(cfg.Stock.LowStockThreshold),
			service.WithRecentWindow(cfg.Stock.RecentDays, cfg.Stock.RecentLimit),
		),
	}

	if cfg.Auth.Enabled && cfg.Auth.JWTSecretKey != "" {
		components.Tokens = service.NewTokenService(service.NewTokenConfigFromAuthConfig(cfg.Auth))
	}

	return components, nil
}

// Close stops the plan cache.
func (s *ServiceComponents) Close() {
	if s == nil {
		return
	}
	s.Calculator.Stop()
}

// BuildCatalog returns the built-in catalog unless sizes are configured.
func BuildCatalog(cfg config.CatalogConfig) (scaffold.Catalog, error) {
	def := scaffold.DefaultCatalog()
	if cfg.LevelHeight <= 0 && len(cfg.LedgerLengths) == 0 && len(cfg.DeckWidths) == 0 && cfg.Resolution <= 0 {
		return def, nil
	}

	levelHeight := cfg.LevelHeight
	if levelHeight <= 0 {
		levelHeight = def.LevelHeight()
	}
	ledgers := cfg.LedgerLengths
	if len(ledgers) == 0 {
		ledgers = def.LedgerLengths()
	}
	decks := cfg.DeckWidths
	if len(decks) == 0 {
		decks = def.DeckWidths()
	}
	resolution := cfg.Resolution
	if resolution <= 0 {
		resolution = def.Resolution()
	}

	catalog, err := scaffold.NewCatalog(levelHeight, ledgers, decks, resolution)
	if err != nil {
		return scaffold.Catalog{}, err
	}
	log.Info().
		Float64("level_height", catalog.LevelHeight()).
		Floats64("ledger_lengths", catalog.LedgerLengths()).
		Floats64("deck_widths", catalog.DeckWidths()).
		Int("resolution", catalog.Resolution()).
		Msg("Scaffold catalog configured")
	return catalog, nil
}
