package app

import (
	"github.com/guttosm/scaffold-service/config"
	"github.com/guttosm/scaffold-service/internal/logger"
)

// InitializeLogger initializes the JSON logger from the log configuration.
func InitializeLogger(cfg config.LogConfig) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	logger.Init(level, cfg.Pretty)
}
