// Package preferences stores the per-install user settings: the unit system
// and the daily weather alert.
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chrissnell/myweather/internal/storage"
	"github.com/chrissnell/myweather/pkg/units"
	"go.uber.org/zap"
)

const (
	UnitKey          = "unit_preference"
	AlertsEnabledKey = "weather_alerts_enabled"
	AlertsTimeKey    = "weather_alerts_time"

	DefaultAlertTime = "08:00 AM"

	alertTimeLayout = "03:04 PM"
)

// AlertTimes are the times a daily alert can be scheduled for.
var AlertTimes = []string{"07:00 AM", "08:00 AM", "09:00 AM", "06:00 PM", "08:00 PM"}

// ErrInvalidAlertTime is returned for an alert time outside AlertTimes.
var ErrInvalidAlertTime = errors.New("invalid alert time")

// AlertSettings configures the daily weather alert.
type AlertSettings struct {
	Enabled bool   `json:"enabled"`
	Time    string `json:"time"`
}

// ParseAlertTime returns the 24-hour clock time of an alert time string.
func ParseAlertTime(s string) (hour, minute int, err error) {
	t, err := time.Parse(alertTimeLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidAlertTime, s)
	}
	return t.Hour(), t.Minute(), nil
}

func validAlertTime(s string) bool {
	for _, t := range AlertTimes {
		if t == s {
			return true
		}
	}
	return false
}

// Service reads and writes preferences. Reads that fail are logged and fall
// back to defaults.
type Service struct {
	store  storage.Store
	logger *zap.SugaredLogger
}

func NewService(store storage.Store, logger *zap.SugaredLogger) *Service {
	return &Service{store: store, logger: logger}
}

// Units returns the saved unit system, imperial if none is saved.
func (s *Service) Units(ctx context.Context) units.System {
	raw, found, err := s.store.Get(ctx, UnitKey)
	if err != nil {
		s.logger.Errorf("error loading unit preference: %v", err)
		return units.Imperial
	}
	if !found {
		return units.Imperial
	}
	return units.SystemOrDefault(raw)
}

// SetUnits saves the unit system.
func (s *Service) SetUnits(ctx context.Context, sys units.System) error {
	if !sys.Valid() {
		return fmt.Errorf("unknown unit system %q", sys)
	}
	if err := s.store.Set(ctx, UnitKey, sys.String()); err != nil {
		s.logger.Errorf("error saving unit preference: %v", err)
		return err
	}
	return nil
}

// ToggleUnits switches to the other unit system and returns it. On a write
// failure the saved system is returned unchanged with the error.
func (s *Service) ToggleUnits(ctx context.Context) (units.System, error) {
	current := s.Units(ctx)
	next := current.Toggle()
	if err := s.SetUnits(ctx, next); err != nil {
		return current, err
	}
	return next, nil
}

// Alerts returns the saved alert settings.
func (s *Service) Alerts(ctx context.Context) AlertSettings {
	settings := AlertSettings{Time: DefaultAlertTime}

	raw, found, err := s.store.Get(ctx, AlertsEnabledKey)
	if err != nil {
		s.logger.Errorf("error loading alert settings: %v", err)
	} else if found {
		if err := json.Unmarshal([]byte(raw), &settings.Enabled); err != nil {
			s.logger.Warnf("ignoring malformed %s value %q", AlertsEnabledKey, raw)
		}
	}

	raw, found, err = s.store.Get(ctx, AlertsTimeKey)
	if err != nil {
		s.logger.Errorf("error loading alert settings: %v", err)
	} else if found && validAlertTime(raw) {
		settings.Time = raw
	}

	return settings
}

// SetAlerts saves the alert settings. An empty Time keeps the saved time.
func (s *Service) SetAlerts(ctx context.Context, settings AlertSettings) (AlertSettings, error) {
	if settings.Time == "" {
		settings.Time = s.Alerts(ctx).Time
	}
	if !validAlertTime(settings.Time) {
		return AlertSettings{}, fmt.Errorf("%w: %q", ErrInvalidAlertTime, settings.Time)
	}

	enabled, _ := json.Marshal(settings.Enabled)
	if err := s.store.Set(ctx, AlertsEnabledKey, string(enabled)); err != nil {
		s.logger.Errorf("error saving alert settings: %v", err)
		return AlertSettings{}, err
	}
	if err := s.store.Set(ctx, AlertsTimeKey, settings.Time); err != nil {
		s.logger.Errorf("error saving alert settings: %v", err)
		return AlertSettings{}, err
	}
	return settings, nil
}
