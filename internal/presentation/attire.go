package presentation

import (
	"strings"

	"github.com/chrissnell/myweather/pkg/units"
)

// Attire is a clothing recommendation.
type Attire struct {
	Kind  AttireKind `json:"kind"`
	Icon  string     `json:"icon"`
	Label string     `json:"label"`
}

// AttireKind enumerates the recommendations in priority order.
type AttireKind string

const (
	KindUmbrella      AttireKind = "umbrella"
	KindJacket        AttireKind = "jacket"
	KindSunProtection AttireKind = "sun-protection"
	KindHeavyLayers   AttireKind = "heavy-layers"
	KindLightLayers   AttireKind = "light-layers"
	KindPending       AttireKind = "pending"
)

var (
	AttireUmbrella      = Attire{KindUmbrella, "umbrella", "Umbrella"}
	AttireJacket        = Attire{KindJacket, "weather-windy-variant", "Jacket"}
	AttireSunProtection = Attire{KindSunProtection, "sunglasses", "Sun Protection"}
	AttireHeavyLayers   = Attire{KindHeavyLayers, "snowflake", "Heavy Layers"}
	AttireLightLayers   = Attire{KindLightLayers, "tshirt-crew", "Light Layers"}

	// AttirePending is shown until there is an observation to classify.
	AttirePending = Attire{KindPending, "tshirt-crew", "Loading..."}
)

// thresholds hold the strict limits for one unit system. Wind is in mph or
// m/s, temperatures in °F or °C.
type thresholds struct {
	wind float64
	hot  float64
	cold float64
}

var attireThresholds = map[units.System]thresholds{
	units.Imperial: {wind: 15, hot: 80, cold: 45},
	units.Metric:   {wind: 6.7, hot: 26, cold: 7},
}

var wetConditions = []string{"rain", "drizzle", "storm"}

// RecommendAttire maps conditions to a recommendation. The first matching
// rule wins: precipitation, then wind, then heat, then cold. All limits are
// strict, so a value sitting exactly on a limit does not trigger it.
func RecommendAttire(temp float64, conditionMain string, windSpeed float64, unit units.System) Attire {
	limits, ok := attireThresholds[unit]
	if !ok {
		limits = attireThresholds[units.Imperial]
	}

	condition := strings.ToLower(conditionMain)
	for _, wet := range wetConditions {
		if strings.Contains(condition, wet) {
			return AttireUmbrella
		}
	}

	switch {
	case windSpeed > limits.wind:
		return AttireJacket
	case temp > limits.hot:
		return AttireSunProtection
	case temp < limits.cold:
		return AttireHeavyLayers
	}
	return AttireLightLayers
}
