// Package providers contains dependency injection providers for the Ichigo server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/ichigoapp/ichigo-server/internal/config"
	"github.com/ichigoapp/ichigo-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	storeMode := "local"
	if cfg.Store.UseMongo() {
		storeMode = "mongo"
	}
	log.Info("Starting Ichigo Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"store", storeMode,
		"data_path", cfg.Store.DataPath,
	)

	return log, nil
}
