//go:build !integration

package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/scaffold-service/config"
	"github.com/guttosm/scaffold-service/internal/repository"
	"github.com/guttosm/scaffold-service/internal/scaffold"
	"github.com/guttosm/scaffold-service/internal/service"
)

func TestInitializeServices(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*config.Config)
		validate func(*testing.T, *ServiceComponents)
	}{
		{
			name:   "default config",
			mutate: func(*config.Config) {},
			validate: func(t *testing.T, c *ServiceComponents) {
				assert.NotNil(t, c.Calculator)
				assert.NotNil(t, c.Stock)
				assert.Nil(t, c.Tokens)
			},
		},
		{
			name:   "cache disabled",
			mutate: func(c *config.Config) { c.Cache.Size = 0 },
			validate: func(t *testing.T, c *ServiceComponents) {
				assert.NotNil(t, c.Calculator)
			},
		},
		{
			name: "token service needs a secret",
			mutate: func(c *config.Config) {
				c.Auth = config.AuthConfig{Enabled: true, APIKeys: map[string]bool{"k": true}}
			},
			validate: func(t *testing.T, c *ServiceComponents) {
				assert.Nil(t, c.Tokens)
			},
		},
		{
			name: "token service with secret",
			mutate: func(c *config.Config) {
				c.Auth = config.AuthConfig{Enabled: true, JWTSecretKey: "secret"}
			},
			validate: func(t *testing.T, c *ServiceComponents) {
				require.NotNil(t, c.Tokens)
				token, err := c.Tokens.GenerateAccessToken(dtoClaims("u1", "t1"))
				require.NoError(t, err)
				claims, err := c.Tokens.ValidateAccessToken(context.Background(), token.AccessToken)
				require.NoError(t, err)
				assert.Equal(t, "t1", claims.TenantID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(&cfg)

			components, err := InitializeServices(cfg, repository.NewMemoryStockRepository())
			require.NoError(t, err)
			defer components.Close()
			tt.validate(t, components)
		})
	}
}

func TestInitializeServices_StockDefaults(t *testing.T) {
	cfg := baseConfig()
	cfg.Stock = config.StockConfig{LowStockThreshold: 3, RecentDays: 1, RecentLimit: 5}

	components, err := InitializeServices(cfg, repository.NewMemoryStockRepository())
	require.NoError(t, err)
	defer components.Close()

	stats, err := components.Stock.Stats(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.LowStockTrigger)
}

func TestBuildCatalog(t *testing.T) {
	t.Run("empty config selects the built-in catalog", func(t *testing.T) {
		catalog, err := BuildCatalog(config.CatalogConfig{})
		require.NoError(t, err)
		assert.Equal(t, scaffold.DefaultCatalog().Key(), catalog.Key())
	})

	t.Run("partial config keeps the other defaults", func(t *testing.T) {
		catalog, err := BuildCatalog(config.CatalogConfig{LedgerLengths: []float64{3, 1.5}})
		require.NoError(t, err)
		assert.Equal(t, []float64{1.5, 3}, catalog.LedgerLengths())
		assert.Equal(t, scaffold.DefaultCatalog().DeckWidths(), catalog.DeckWidths())
		assert.Equal(t, scaffold.DefaultCatalog().LevelHeight(), catalog.LevelHeight())
	})

	t.Run("invalid sizes are rejected", func(t *testing.T) {
		_, err := BuildCatalog(config.CatalogConfig{DeckWidths: []float64{0.73, -1}})
		assert.ErrorIs(t, err, scaffold.ErrInvalidCatalog)
	})
}

// the calculator satisfies the HTTP-facing interface
var _ service.ScaffoldCalculator = (*service.ScaffoldService)(nil)
