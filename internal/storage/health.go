package storage

import (
	"context"
	"sync"
	"time"
)

// HealthData is the last observed state of a backend.
type HealthData struct {
	Backend   string    `json:"backend"`
	Status    string    `json:"status"`
	LastCheck time.Time `json:"last_check"`
	Error     string    `json:"error,omitempty"`
}

// HealthManager records the outcome of every operation against a store.
type HealthManager struct {
	mu     sync.RWMutex
	health HealthData
}

// NewHealthManager creates a health manager for the named backend.
func NewHealthManager(backend string) *HealthManager {
	return &HealthManager{health: HealthData{Backend: backend, Status: "unknown"}}
}

func (hm *HealthManager) record(err error) {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	hm.health.LastCheck = time.Now()
	if err != nil {
		hm.health.Status = "unhealthy"
		hm.health.Error = err.Error()
		return
	}
	hm.health.Status = "healthy"
	hm.health.Error = ""
}

// GetHealth returns a copy of the current health data.
func (hm *HealthManager) GetHealth() HealthData {
	hm.mu.RLock()
	defer hm.mu.RUnlock()
	return hm.health
}

// IsHealthy reports whether the last operation succeeded. A store that has
// not been used yet counts as healthy.
func (hm *HealthManager) IsHealthy() bool {
	h := hm.GetHealth()
	return h.Status != "unhealthy"
}

// monitoredStore wraps a Store and reports every result to a HealthManager.
type monitoredStore struct {
	Store
	health *HealthManager
}

// WithHealth wraps s so that every Get and Set updates hm.
func WithHealth(s Store, hm *HealthManager) Store {
	return &monitoredStore{Store: s, health: hm}
}

func (m *monitoredStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, found, err := m.Store.Get(ctx, key)
	m.health.record(err)
	return v, found, err
}

func (m *monitoredStore) Set(ctx context.Context, key, value string) error {
	err := m.Store.Set(ctx, key, value)
	m.health.record(err)
	return err
}
