// Package app provides application initialization and dependency injection.
package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/scaffold-service/config"
	"github.com/guttosm/scaffold-service/internal/http"
)

// App is the wired application: the router plus the resources to release on shutdown.
type App struct {
	Router  *gin.Engine
	closers []func()
}

// InitializeApp wires every component. ctx bounds the startup connections.
func InitializeApp(ctx context.Context, cfg config.Config) (*App, error) {
	InitializeLogger(cfg.Log)

	dbComponents, err := InitializeDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	storeComponents, err := InitializeStore(cfg, dbComponents)
	if err != nil {
		dbComponents.Close()
		return nil, err
	}

	serviceComponents, err := InitializeServices(cfg, storeComponents.Repo)
	if err != nil {
		storeComponents.Close()
		dbComponents.Close()
		return nil, err
	}

	routerComponents := InitializeRouter(serviceComponents, storeComponents, dbComponents, cfg)

	return &App{
		Router:  http.NewRouter(routerComponents.HealthHandler, routerComponents.Config),
		closers: []func(){serviceComponents.Close, storeComponents.Close, dbComponents.Close},
	}, nil
}

// Close releases caches, the async logger and store connections in reverse
// order of creation.
func (a *App) Close() {
	for _, closeFn := range a.closers {
		closeFn()
	}
}
