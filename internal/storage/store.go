// Package storage provides the flat key-value store that holds saved
// locations and user preferences.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/chrissnell/myweather/pkg/config"
	"go.uber.org/zap"
)

// Store is a string key-value store.
type Store interface {
	// Get returns the value stored under key. found is false when the key
	// has never been set.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Error reports a failed read or write against a backend.
type Error struct {
	Op      string
	Key     string
	Backend string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s %q: %v", e.Backend, e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsStorageError reports whether err came from a storage backend.
func IsStorageError(err error) bool {
	var se *Error
	return errors.As(err, &se)
}

// New opens the backend selected in cfg.
func New(ctx context.Context, cfg config.StorageData, logger *zap.SugaredLogger) (Store, error) {
	switch cfg.Backend {
	case "sqlite":
		logger.Infof("opening SQLite store at %s", cfg.SQLitePath)
		return NewSQLiteStore(ctx, cfg.SQLitePath)
	case "postgres":
		logger.Info("connecting to PostgreSQL store...")
		return NewPostgresStore(cfg.PostgresDSN)
	case "memory":
		logger.Warn("using in-memory store; favorites and preferences will not survive a restart")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}
