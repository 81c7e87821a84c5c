package presentation

import (
	"strings"
	"time"
)

// Icon is a display icon identifier from the Material Community Icons set.
type Icon string

const (
	IconSunny             Icon = "weather-sunny"
	IconPartlyCloudy      Icon = "weather-partly-cloudy"
	IconCloudy            Icon = "cloud-outline"
	IconRainy             Icon = "weather-rainy"
	IconLightningRainy    Icon = "weather-lightning-rainy"
	IconSnowy             Icon = "weather-snowy"
	IconFog               Icon = "weather-fog"
	IconNight             Icon = "weather-night"
	IconNightPartlyCloudy Icon = "weather-night-partly-cloudy"
)

var dayIcons = map[string]Icon{
	"01": IconSunny,
	"02": IconPartlyCloudy,
	"03": IconCloudy,
	"04": IconCloudy,
	"09": IconRainy,
	"10": IconRainy,
	"11": IconLightningRainy,
	"13": IconSnowy,
	"50": IconFog,
}

// IsNight reports whether now falls outside [sunrise, sunset], both given in
// Unix seconds. When neither is known it falls back to the icon code suffix.
func IsNight(iconCode string, sunrise, sunset int64, now time.Time) bool {
	if sunrise == 0 && sunset == 0 {
		return strings.HasSuffix(iconCode, "n")
	}
	ts := now.Unix()
	return ts > sunset || ts < sunrise
}

// DisplayIcon picks the large condition icon. Day or night comes from the
// sunrise and sunset times rather than the code's own d/n suffix, which can
// be stale near either boundary.
func DisplayIcon(iconCode string, sunrise, sunset int64, now time.Time) Icon {
	prefix := conditionPrefix(iconCode)

	if IsNight(iconCode, sunrise, sunset, now) {
		switch prefix {
		case "02", "03", "04":
			return IconNightPartlyCloudy
		}
		return IconNight
	}

	if icon, ok := dayIcons[prefix]; ok {
		return icon
	}
	return IconPartlyCloudy
}
