package lookup

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/chrissnell/myweather/internal/types"
)

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// InvalidQueryError is returned for search input that cannot be looked up.
type InvalidQueryError struct {
	Message string
}

func (e *InvalidQueryError) Error() string {
	return e.Message
}

// ParseQuery validates raw search input. A zip code takes precedence over
// coordinates when both are given.
func ParseQuery(zip, lat, lon string) (types.LocationQuery, error) {
	zip = strings.TrimSpace(zip)
	lat = strings.TrimSpace(lat)
	lon = strings.TrimSpace(lon)

	if zip != "" {
		if !zipPattern.MatchString(zip) {
			return types.LocationQuery{}, &InvalidQueryError{Message: "Please enter a valid 5-digit zip code"}
		}
		return types.LocationQuery{Zip: zip}, nil
	}

	if lat == "" && lon == "" {
		return types.LocationQuery{}, &InvalidQueryError{Message: "Please enter a zip code or use your current location"}
	}
	if lat == "" || lon == "" {
		return types.LocationQuery{}, &InvalidQueryError{Message: "Could not determine your location"}
	}

	latitude, err := strconv.ParseFloat(lat, 64)
	if err != nil || math.IsNaN(latitude) || latitude < -90 || latitude > 90 {
		return types.LocationQuery{}, &InvalidQueryError{Message: "Latitude must be between -90 and 90"}
	}
	longitude, err := strconv.ParseFloat(lon, 64)
	if err != nil || math.IsNaN(longitude) || longitude < -180 || longitude > 180 {
		return types.LocationQuery{}, &InvalidQueryError{Message: "Longitude must be between -180 and 180"}
	}

	return types.Coordinates(latitude, longitude), nil
}
