// Package lookup runs a location search end to end: it fetches the current
// conditions, classifies them for display and tracks which result a session
// is looking at.
package lookup

import (
	"context"
	"errors"
	"time"

	"github.com/chrissnell/myweather/internal/favorites"
	"github.com/chrissnell/myweather/internal/presentation"
	"github.com/chrissnell/myweather/internal/types"
	"github.com/chrissnell/myweather/pkg/solar"
	"github.com/chrissnell/myweather/pkg/units"
	"go.uber.org/zap"
)

// ErrNoCurrentReport is returned when a session has not completed a lookup.
var ErrNoCurrentReport = errors.New("no location has been looked up yet")

// Source fetches current conditions.
type Source interface {
	FetchObservation(ctx context.Context, query types.LocationQuery, unit units.System) (*types.Observation, error)
}

// SavedChecker reports whether a location is in the favorites list.
type SavedChecker interface {
	Contains(ctx context.Context, e favorites.Entry) (bool, error)
}

// Requester is the session a lookup is made for.
type Requester interface {
	Units() units.System
	Tracker() *Tracker
}

// Report is everything the results screen shows for one lookup.
type Report struct {
	Seq          uint64                    `json:"seq"`
	Query        types.LocationQuery       `json:"query"`
	Observation  *types.Observation        `json:"observation"`
	Presentation presentation.Presentation `json:"presentation"`
	Units        units.System              `json:"units"`
	Temperature  int                       `json:"temperature"`
	FeelsLike    int                       `json:"feels_like"`
	TempSymbol   string                    `json:"temperature_symbol"`
	WindSpeed    float64                   `json:"wind_speed"`
	SpeedLabel   string                    `json:"speed_label"`
	Sunrise      string                    `json:"sunrise"`
	Sunset       string                    `json:"sunset"`
	IsSaved      bool                      `json:"is_saved"`
	Superseded   bool                      `json:"superseded,omitempty"`
}

// FavoriteEntry returns the favorites entry for the reported location.
func (r *Report) FavoriteEntry() favorites.Entry {
	return favorites.EntryFromObservation(r.Observation, r.Query)
}

// Service performs lookups.
type Service struct {
	source    Source
	favorites SavedChecker
	logger    *zap.SugaredLogger
	now       func() time.Time
}

// NewService creates a lookup service. favorites may be nil, in which case
// no report is marked as saved.
func NewService(source Source, favorites SavedChecker, logger *zap.SugaredLogger) *Service {
	return &Service{
		source:    source,
		favorites: favorites,
		logger:    logger,
		now:       time.Now,
	}
}

// Lookup fetches and classifies query in the session's unit system. If a
// newer lookup for the same session finished first, the report is returned
// with Superseded set and is not recorded as current.
func (s *Service) Lookup(ctx context.Context, sess Requester, query types.LocationQuery) (*Report, error) {
	tracker := sess.Tracker()
	seq := tracker.Begin()
	unit := sess.Units()

	obs, err := s.source.FetchObservation(ctx, query, unit)
	if err != nil {
		tracker.Complete(seq, nil)
		return nil, err
	}

	report := s.buildReport(ctx, obs, query, unit)
	report.Seq = seq
	if !tracker.Complete(seq, report) {
		s.logger.Debugf("lookup %d for %s superseded by a newer lookup", seq, query)
		report.Superseded = true
	}
	return report, nil
}

// Refresh repeats the session's current lookup, picking up a changed unit
// system.
func (s *Service) Refresh(ctx context.Context, sess Requester) (*Report, error) {
	current := sess.Tracker().Current()
	if current == nil {
		return nil, ErrNoCurrentReport
	}
	return s.Lookup(ctx, sess, current.Query)
}

// Current returns the session's applied report.
func (s *Service) Current(sess Requester) (*Report, error) {
	current := sess.Tracker().Current()
	if current == nil {
		return nil, ErrNoCurrentReport
	}
	return current, nil
}

func (s *Service) buildReport(ctx context.Context, obs *types.Observation, query types.LocationQuery, unit units.System) *Report {
	now := s.now()
	s.fillSunTimes(obs, now)

	from := obs.Units
	if !from.Valid() {
		from = unit
	}
	loc := obs.Location()

	report := &Report{
		Query:        query,
		Observation:  obs,
		Presentation: presentation.Classify(obs, unit, now),
		Units:        unit,
		Temperature:  units.Round(units.Convert(obs.Temperature, from, unit)),
		FeelsLike:    units.Round(units.Convert(obs.FeelsLike, from, unit)),
		TempSymbol:   unit.TemperatureSymbol(),
		WindSpeed:    units.ConvertSpeed(obs.WindSpeed, from, unit),
		SpeedLabel:   unit.SpeedLabel(),
		Sunrise:      solar.FormatClock(obs.Sunrise, loc),
		Sunset:       solar.FormatClock(obs.Sunset, loc),
	}

	if s.favorites != nil {
		saved, err := s.favorites.Contains(ctx, report.FavoriteEntry())
		if err != nil {
			s.logger.Warnf("unable to check favorites for %s: %v", obs.LocationName, err)
		}
		report.IsSaved = saved
	}

	return report
}

// fillSunTimes estimates sunrise and sunset when the provider left them out.
func (s *Service) fillSunTimes(obs *types.Observation, now time.Time) {
	if (obs.Sunrise != 0 && obs.Sunset != 0) || !obs.HasCoords {
		return
	}
	sunrise, sunset, ok := solar.SunTimes(now.In(obs.Location()), obs.Latitude, obs.Longitude)
	if !ok {
		return
	}
	if obs.Sunrise == 0 {
		obs.Sunrise = sunrise.Unix()
	}
	if obs.Sunset == 0 {
		obs.Sunset = sunset.Unix()
	}
}
