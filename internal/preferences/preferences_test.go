package preferences

import (
	"context"
	"errors"
	"testing"

	"github.com/chrissnell/myweather/internal/storage"
	"github.com/chrissnell/myweather/pkg/units"
	"go.uber.org/zap"
)

type brokenStore struct{ *storage.MemoryStore }

func (b *brokenStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, &storage.Error{Op: "get", Key: key, Backend: "test", Err: errors.New("io error")}
}

func (b *brokenStore) Set(ctx context.Context, key, value string) error {
	return &storage.Error{Op: "set", Key: key, Backend: "test", Err: errors.New("io error")}
}

func newService() (*Service, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	return NewService(store, zap.NewNop().Sugar()), store
}

func TestUnits(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()

	if got := svc.Units(ctx); got != units.Imperial {
		t.Errorf("default Units = %q, want imperial", got)
	}

	if err := svc.SetUnits(ctx, units.Metric); err != nil {
		t.Fatal(err)
	}
	if v, _, _ := store.Get(ctx, UnitKey); v != "metric" {
		t.Errorf("stored value = %q, want metric", v)
	}
	if got := svc.Units(ctx); got != units.Metric {
		t.Errorf("Units = %q, want metric", got)
	}

	got, err := svc.ToggleUnits(ctx)
	if err != nil || got != units.Imperial {
		t.Errorf("ToggleUnits = %q, %v", got, err)
	}

	store.Set(ctx, UnitKey, "kelvin")
	if got := svc.Units(ctx); got != units.Imperial {
		t.Errorf("unknown stored value gave %q, want imperial", got)
	}

	if err := svc.SetUnits(ctx, units.System("kelvin")); err == nil {
		t.Error("SetUnits accepted an unknown system")
	}
}

func TestUnitsStorageFailure(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&brokenStore{storage.NewMemoryStore()}, zap.NewNop().Sugar())

	if got := svc.Units(ctx); got != units.Imperial {
		t.Errorf("Units on broken store = %q, want imperial", got)
	}
	got, err := svc.ToggleUnits(ctx)
	if !storage.IsStorageError(err) || got != units.Imperial {
		t.Errorf("ToggleUnits on broken store = %q, %v", got, err)
	}
	if a := svc.Alerts(ctx); a.Enabled || a.Time != DefaultAlertTime {
		t.Errorf("Alerts on broken store = %+v", a)
	}
}

func TestAlerts(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()

	if a := svc.Alerts(ctx); a.Enabled || a.Time != "08:00 AM" {
		t.Errorf("default Alerts = %+v", a)
	}

	saved, err := svc.SetAlerts(ctx, AlertSettings{Enabled: true, Time: "06:00 PM"})
	if err != nil {
		t.Fatalf("SetAlerts: %v", err)
	}
	if saved.Time != "06:00 PM" || !saved.Enabled {
		t.Errorf("SetAlerts = %+v", saved)
	}
	if v, _, _ := store.Get(ctx, AlertsEnabledKey); v != "true" {
		t.Errorf("stored enabled = %q, want true", v)
	}

	// Empty time keeps the saved one.
	saved, err = svc.SetAlerts(ctx, AlertSettings{Enabled: false})
	if err != nil || saved.Time != "06:00 PM" || saved.Enabled {
		t.Errorf("SetAlerts without time = %+v, %v", saved, err)
	}

	if _, err := svc.SetAlerts(ctx, AlertSettings{Enabled: true, Time: "03:00 AM"}); !errors.Is(err, ErrInvalidAlertTime) {
		t.Errorf("SetAlerts with bad time error = %v", err)
	}

	store.Set(ctx, AlertsEnabledKey, "maybe")
	store.Set(ctx, AlertsTimeKey, "noon")
	if a := svc.Alerts(ctx); a.Enabled || a.Time != DefaultAlertTime {
		t.Errorf("malformed stored settings gave %+v", a)
	}
}

func TestParseAlertTime(t *testing.T) {
	tests := []struct {
		in        string
		hour, min int
		wantErr   bool
	}{
		{"07:00 AM", 7, 0, false},
		{"08:00 PM", 20, 0, false},
		{"06:00 PM", 18, 0, false},
		{"12:00 AM", 0, 0, false},
		{"25:00", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h, m, err := ParseAlertTime(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAlertTime(%q) error = %v", tt.in, err)
			}
			if h != tt.hour || m != tt.min {
				t.Errorf("ParseAlertTime(%q) = %d:%02d, want %d:%02d", tt.in, h, m, tt.hour, tt.min)
			}
		})
	}

	for _, s := range AlertTimes {
		if _, _, err := ParseAlertTime(s); err != nil {
			t.Errorf("AlertTimes entry %q does not parse: %v", s, err)
		}
	}
}
