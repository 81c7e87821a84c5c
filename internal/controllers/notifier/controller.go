// Package notifier sends the daily weather alert: once a day, at the time
// chosen in the settings, it looks up every saved location and hands a
// summary to a Notifier.
package notifier

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chrissnell/myweather/internal/controllers"
	"github.com/chrissnell/myweather/internal/favorites"
	"github.com/chrissnell/myweather/internal/log"
	"github.com/chrissnell/myweather/internal/lookup"
	"github.com/chrissnell/myweather/internal/preferences"
	"github.com/chrissnell/myweather/internal/presentation"
	"github.com/chrissnell/myweather/pkg/config"
	"github.com/chrissnell/myweather/pkg/units"
	"go.uber.org/zap"
)

// LocationSummary is the alert line for one saved location.
type LocationSummary struct {
	Name        string              `json:"name"`
	Temperature int                 `json:"temperature"`
	Symbol      string              `json:"symbol"`
	Description string              `json:"description"`
	Attire      presentation.Attire `json:"attire"`
	Error       string              `json:"error,omitempty"`
}

// Summary is one daily alert.
type Summary struct {
	Date      string            `json:"date"`
	Time      string            `json:"time"`
	Units     units.System      `json:"units"`
	Locations []LocationSummary `json:"locations"`
}

// Notifier delivers a summary.
type Notifier interface {
	Notify(ctx context.Context, s Summary) error
}

// LogNotifier writes summaries to the log.
type LogNotifier struct {
	Logger *zap.SugaredLogger
}

func (n LogNotifier) Notify(ctx context.Context, s Summary) error {
	if len(s.Locations) == 0 {
		n.Logger.Infof("weather alert for %s: no saved locations", s.Date)
		return nil
	}

	lines := make([]string, 0, len(s.Locations))
	for _, l := range s.Locations {
		if l.Error != "" {
			lines = append(lines, fmt.Sprintf("%s: unavailable (%s)", l.Name, l.Error))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %d%s %s, %s", l.Name, l.Temperature, l.Symbol, l.Description, l.Attire.Label))
	}
	n.Logger.Infow("weather alert", "date", s.Date, "time", s.Time, "summary", strings.Join(lines, "; "))
	return nil
}

// Dependencies are the services the notifier reads from.
type Dependencies struct {
	Source      lookup.Source
	Favorites   *favorites.Service
	Preferences *preferences.Service
	Notifier    Notifier
}

// Controller runs the alert check on a ticker.
type Controller struct {
	ctx      context.Context
	wg       *sync.WaitGroup
	interval time.Duration
	location *time.Location
	deps     Dependencies
	logger   *zap.SugaredLogger
	now      func() time.Time

	mu       sync.Mutex
	lastSent string
}

// NewController creates a notifier controller.
func NewController(ctx context.Context, wg *sync.WaitGroup, nc config.NotifierData, deps Dependencies, logger *zap.SugaredLogger) (*Controller, error) {
	if deps.Source == nil || deps.Favorites == nil || deps.Preferences == nil {
		return nil, fmt.Errorf("notifier requires a weather source, favorites and preferences")
	}
	if deps.Notifier == nil {
		deps.Notifier = LogNotifier{Logger: logger}
	}

	if nc.CheckIntervalSeconds <= 0 {
		logger.Infof("notifier check-interval-seconds not provided; defaulting to %d", config.DefaultCheckInterval)
		nc.CheckIntervalSeconds = config.DefaultCheckInterval
	}

	loc := time.Local
	if nc.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(nc.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid notifier timezone %q: %w", nc.Timezone, err)
		}
	}

	return &Controller{
		ctx:      ctx,
		wg:       wg,
		interval: time.Duration(nc.CheckIntervalSeconds) * time.Second,
		location: loc,
		deps:     deps,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// StartController starts the alert check loop.
func (c *Controller) StartController() error {
	log.Info("Starting weather alert notifier...")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()
		controllers.RunPeriodicTask(c.ctx, controllers.PeriodicTask{
			Name:     "weather alerts",
			Interval: c.interval,
			Task:     c.Check,
		}, c.logger)
	}()

	return nil
}

// due reports whether the alert should go out at now. An alert is due from
// its scheduled time until one check interval later, once per day.
func (c *Controller) due(now time.Time, alertTime string) (bool, error) {
	hour, minute, err := preferences.ParseAlertTime(alertTime)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	sentToday := c.lastSent == now.Format(time.DateOnly)
	c.mu.Unlock()
	if sentToday {
		return false, nil
	}

	scheduled := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	window := c.interval
	if window < time.Minute {
		window = time.Minute
	}
	return !now.Before(scheduled) && now.Before(scheduled.Add(window)), nil
}

// Check sends today's alert if it is enabled and due.
func (c *Controller) Check(ctx context.Context) error {
	settings := c.deps.Preferences.Alerts(ctx)
	if !settings.Enabled {
		return nil
	}

	now := c.now().In(c.location)
	due, err := c.due(now, settings.Time)
	if err != nil || !due {
		return err
	}

	summary, err := c.buildSummary(ctx, now, settings.Time)
	if err != nil {
		return err
	}
	if err := c.deps.Notifier.Notify(ctx, summary); err != nil {
		return fmt.Errorf("error sending weather alert: %w", err)
	}

	c.mu.Lock()
	c.lastSent = now.Format(time.DateOnly)
	c.mu.Unlock()
	return nil
}

func (c *Controller) buildSummary(ctx context.Context, now time.Time, alertTime string) (Summary, error) {
	entries, err := c.deps.Favorites.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("error loading favorites for alert: %w", err)
	}
	unit := c.deps.Preferences.Units(ctx)

	summary := Summary{
		Date:      now.Format(time.DateOnly),
		Time:      alertTime,
		Units:     unit,
		Locations: make([]LocationSummary, 0, len(entries)),
	}

	for _, e := range entries {
		ls := LocationSummary{Name: e.Name, Symbol: unit.TemperatureSymbol()}

		obs, err := c.deps.Source.FetchObservation(ctx, e.Query(), unit)
		if err != nil {
			c.logger.Warnf("weather alert: unable to fetch %s: %v", e.Name, err)
			ls.Error = err.Error()
			summary.Locations = append(summary.Locations, ls)
			continue
		}

		p := presentation.Classify(obs, unit, now)
		ls.Temperature = units.Round(obs.Temperature)
		ls.Description = obs.Description
		ls.Attire = p.Attire
		summary.Locations = append(summary.Locations, ls)
	}

	return summary, nil
}
