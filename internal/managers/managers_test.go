package managers

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/chrissnell/myweather/pkg/config"
	"go.uber.org/zap"
)

func TestNewControllerManagerUnknownType(t *testing.T) {
	var wg sync.WaitGroup
	_, err := NewControllerManager(context.Background(), &wg,
		[]config.ControllerData{{Type: "pager"}}, ControllerServices{}, zap.NewNop().Sugar())
	if err == nil || !strings.Contains(err.Error(), "unknown controller type: pager") {
		t.Errorf("error = %v", err)
	}
}

func TestNewControllerManagerMissingServices(t *testing.T) {
	var wg sync.WaitGroup
	_, err := NewControllerManager(context.Background(), &wg,
		[]config.ControllerData{{Type: "rest"}}, ControllerServices{}, zap.NewNop().Sugar())
	if err == nil {
		t.Error("expected error when REST services are missing")
	}
}

func TestStorageManagerClosesOnCancel(t *testing.T) {
	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(context.Background())

	sm, err := NewStorageManager(ctx, &wg, config.StorageData{Backend: "memory"}, zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	if sm.Backend != "memory" || sm.Health == nil {
		t.Errorf("storage manager = %+v", sm)
	}

	if err := sm.Store.Set(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}
	if !sm.Health.IsHealthy() {
		t.Error("store should be healthy after a successful write")
	}

	cancel()
	wg.Wait()
}

func TestStorageManagerUnsupportedBackend(t *testing.T) {
	var wg sync.WaitGroup
	_, err := NewStorageManager(context.Background(), &wg, config.StorageData{Backend: "etcd"}, zap.NewNop().Sugar())
	if err == nil {
		t.Error("expected error for unsupported backend")
	}
}
