// Package main is the entry point for the scaffold-service application.
//
// @title           Scaffold Service API
// @version         1.0.0
// @description     Computes scaffold bills of materials and allocates them against per-tenant piece inventory.
//
//	Pieces are reserved from stock in a single transaction when a calculation is applied.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/scaffold-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key used when token authentication is not configured.
//
// @tag.name        Scaffold
// @tag.description Bill of materials calculation
//
// @tag.name        Stock
// @tag.description Piece inventory management
//
// @tag.name        Stats
// @tag.description Inventory and withdrawal statistics
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/scaffold-service/config"
	_ "github.com/guttosm/scaffold-service/docs" // swagger docs
	"github.com/guttosm/scaffold-service/internal/app"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.InitializeApp(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	server := app.NewServer(application.Router, cfg.Server)
	if err := server.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Server error")
	}
}
