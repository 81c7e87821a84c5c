package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/chrissnell/myweather/internal/controllers/notifier"
	"github.com/chrissnell/myweather/internal/controllers/restserver"
	"github.com/chrissnell/myweather/internal/favorites"
	"github.com/chrissnell/myweather/internal/log"
	"github.com/chrissnell/myweather/internal/lookup"
	"github.com/chrissnell/myweather/internal/managers"
	"github.com/chrissnell/myweather/internal/openweathermap"
	"github.com/chrissnell/myweather/internal/preferences"
	"github.com/chrissnell/myweather/internal/session"
	"github.com/chrissnell/myweather/pkg/config"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	config *config.ConfigData
	logger *zap.SugaredLogger
}

// New creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	return &App{
		config: cfg,
		logger: logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	storageManager, err := managers.NewStorageManager(ctx, &wg, a.config.Storage, a.logger)
	if err != nil {
		return err
	}

	policy, err := favorites.ParseIdentityPolicy(a.config.Favorites.Identity)
	if err != nil {
		return err
	}

	store := storageManager.Store
	prefs := preferences.NewService(store, a.logger)
	favs := favorites.NewService(store, policy, a.logger)
	owm := openweathermap.NewClient(a.config.OpenWeatherMap, a.logger)
	lookups := lookup.NewService(owm, favs, a.logger)

	controllers := a.config.Controllers
	if len(controllers) == 0 {
		a.logger.Info("no controllers configured; starting the REST server with defaults")
		controllers = []config.ControllerData{{Type: "rest"}}
	}

	cm, err := managers.NewControllerManager(ctx, &wg, controllers, managers.ControllerServices{
		REST: restserver.Services{
			Sessions:      session.NewManager(prefs, a.logger),
			Lookups:       lookups,
			Favorites:     favs,
			Preferences:   prefs,
			StorageHealth: storageManager.Health,
		},
		Notifier: notifier.Dependencies{
			Source:      owm,
			Favorites:   favs,
			Preferences: prefs,
		},
	}, a.logger)
	if err != nil {
		return err
	}
	if err := cm.StartControllers(); err != nil {
		return err
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
