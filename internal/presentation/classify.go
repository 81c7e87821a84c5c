package presentation

import (
	"time"

	"github.com/chrissnell/myweather/internal/types"
	"github.com/chrissnell/myweather/pkg/units"
)

// Presentation bundles every derived display attribute of an observation.
type Presentation struct {
	Background Background `json:"background"`
	Icon       Icon       `json:"icon"`
	Night      bool       `json:"night"`
	Attire     Attire     `json:"attire"`
}

// Classify derives the presentation of obs for a user of the given unit
// system. obs may be nil while a lookup is still in flight.
func Classify(obs *types.Observation, unit units.System, now time.Time) Presentation {
	if obs == nil {
		return Presentation{
			Background: bgDefault,
			Icon:       IconPartlyCloudy,
			Attire:     AttirePending,
		}
	}

	// Thresholds are unit-aware, so values must be in the user's system.
	from := obs.Units
	if !from.Valid() {
		from = unit
	}
	temp := units.Convert(obs.Temperature, from, unit)
	wind := units.ConvertSpeed(obs.WindSpeed, from, unit)

	return Presentation{
		Background: BackgroundFor(obs.IconCode),
		Icon:       DisplayIcon(obs.IconCode, obs.Sunrise, obs.Sunset, now),
		Night:      IsNight(obs.IconCode, obs.Sunrise, obs.Sunset, now),
		Attire:     RecommendAttire(temp, obs.ConditionMain, wind, unit),
	}
}
