package types

import (
	"fmt"
	"time"

	"github.com/chrissnell/myweather/pkg/units"
)

// Observation is a current-conditions report for a single location as
// returned by the weather provider. Temperature and wind speed are expressed
// in Units.
type Observation struct {
	LocationName  string       `json:"location_name"`
	Country       string       `json:"country,omitempty"`
	IconCode      string       `json:"icon_code"`
	Temperature   float64      `json:"temperature"`
	FeelsLike     float64      `json:"feels_like"`
	Humidity      int          `json:"humidity"`
	Pressure      int          `json:"pressure"`
	WindSpeed     float64      `json:"wind_speed"`
	ConditionMain string       `json:"condition_main"`
	Description   string       `json:"description"`
	Sunrise       int64        `json:"sunrise"`
	Sunset        int64        `json:"sunset"`
	Latitude      float64      `json:"lat"`
	Longitude     float64      `json:"lon"`
	HasCoords     bool         `json:"-"`
	TZOffset      int          `json:"timezone_offset"`
	Units         units.System `json:"units"`
	FetchedAt     time.Time    `json:"fetched_at"`
}

// Location returns the fixed-offset zone the observation was taken in.
func (o *Observation) Location() *time.Location {
	if o.TZOffset == 0 {
		return time.UTC
	}
	return time.FixedZone(fmt.Sprintf("UTC%+d", o.TZOffset/3600), o.TZOffset)
}

// TemperatureFahrenheit returns the observed temperature in Fahrenheit
// regardless of the unit system it was fetched in.
func (o *Observation) TemperatureFahrenheit() float64 {
	if o.Units != units.Metric {
		return o.Temperature
	}
	return units.Convert(o.Temperature, units.Metric, units.Imperial)
}

// LocationQuery identifies a location to look up, either by postal code or
// by coordinates.
type LocationQuery struct {
	Zip     string   `json:"zip,omitempty"`
	Country string   `json:"country,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// ByZip reports whether the query is a postal code lookup.
func (q LocationQuery) ByZip() bool {
	return q.Zip != ""
}

// ByCoordinates reports whether the query is a latitude/longitude lookup.
func (q LocationQuery) ByCoordinates() bool {
	return q.Zip == "" && q.Lat != nil && q.Lon != nil
}

func (q LocationQuery) String() string {
	if q.ByZip() {
		return "zip " + q.Zip
	}
	if q.ByCoordinates() {
		return fmt.Sprintf("%.4f,%.4f", *q.Lat, *q.Lon)
	}
	return "empty query"
}

// Coordinates builds a coordinate query.
func Coordinates(lat, lon float64) LocationQuery {
	return LocationQuery{Lat: &lat, Lon: &lon}
}
