// Package presentation derives how a weather observation is shown: the
// background theme, the large condition icon and a clothing recommendation.
// Everything here is a pure function of its inputs.
package presentation

import "strings"

// Theme names one of the fixed background themes.
type Theme string

const (
	ThemeDefault    Theme = "default"
	ThemeClear      Theme = "clear"
	ThemeClearNight Theme = "clear-night"
	ThemeCloud      Theme = "cloud"
	ThemeRain       Theme = "rain"
	ThemeStorm      Theme = "storm"
	ThemeSnow       Theme = "snow"
	ThemeFog        Theme = "fog"
)

// Background is the resolved theme together with the color to paint. The
// cloud theme has separate day and night colors; every other theme has one.
type Background struct {
	Theme Theme  `json:"theme"`
	Color string `json:"color"`
}

var (
	bgDefault    = Background{ThemeDefault, "#0f172a"}
	bgClear      = Background{ThemeClear, "#38bdf8"}
	bgClearNight = Background{ThemeClearNight, "#1e293b"}
	bgCloudDay   = Background{ThemeCloud, "#94a3b8"}
	bgCloudNight = Background{ThemeCloud, "#334155"}
	bgRain       = Background{ThemeRain, "#475569"}
	bgStorm      = Background{ThemeStorm, "#1e1b4b"}
	bgSnow       = Background{ThemeSnow, "#cbd5e1"}
	bgFog        = Background{ThemeFog, "#64748b"}
)

// Themes lists every theme BackgroundFor can return.
func Themes() []Theme {
	return []Theme{
		ThemeDefault, ThemeClear, ThemeClearNight, ThemeCloud,
		ThemeRain, ThemeStorm, ThemeSnow, ThemeFog,
	}
}

// BackgroundFor picks the background for a provider icon code such as "01d"
// or "10n". Night is taken from the code's suffix. Empty and unknown codes
// get the default dark theme.
func BackgroundFor(iconCode string) Background {
	if iconCode == "" {
		return bgDefault
	}

	night := strings.HasSuffix(iconCode, "n")

	switch conditionPrefix(iconCode) {
	case "01":
		if night {
			return bgClearNight
		}
		return bgClear
	case "02", "03", "04":
		if night {
			return bgCloudNight
		}
		return bgCloudDay
	case "09", "10":
		return bgRain
	case "11":
		return bgStorm
	case "13":
		return bgSnow
	case "50":
		return bgFog
	}

	return bgDefault
}

// conditionPrefix returns the two-digit condition family of an icon code, or
// "" when the code is too short to carry one.
func conditionPrefix(iconCode string) string {
	if len(iconCode) < 2 {
		return ""
	}
	return iconCode[:2]
}
