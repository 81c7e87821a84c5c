package managers

import (
	"context"
	"fmt"
	"sync"

	"github.com/chrissnell/myweather/internal/storage"
	"github.com/chrissnell/myweather/pkg/config"
	"go.uber.org/zap"
)

// StorageManager owns the key-value store for the lifetime of the app.
type StorageManager struct {
	Store   storage.Store
	Health  *storage.HealthManager
	Backend string
}

// NewStorageManager opens the configured backend and closes it once ctx is
// cancelled.
func NewStorageManager(ctx context.Context, wg *sync.WaitGroup, cfg config.StorageData, logger *zap.SugaredLogger) (*StorageManager, error) {
	store, err := storage.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("could not open %s storage backend: %v", cfg.Backend, err)
	}

	health := storage.NewHealthManager(cfg.Backend)
	s := &StorageManager{
		Store:   storage.WithHealth(store, health),
		Health:  health,
		Backend: cfg.Backend,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		logger.Infof("closing %s storage backend...", cfg.Backend)
		if err := store.Close(); err != nil {
			logger.Errorf("error closing %s storage backend: %v", cfg.Backend, err)
		}
	}()

	logger.Infof("%s storage backend ready", cfg.Backend)
	return s, nil
}
