// Package solar estimates sunrise and sunset for a location. It is used
// when the weather provider omits them from an observation.
package solar

import (
	"math"
	"time"
)

// hourAngle returns the sunrise hour angle in minutes for the given day of
// the year, or ok=false during polar day or polar night.
func hourAngle(dayOfYear int, latitude float64) (minutes float64, ok bool) {
	doy := float64(dayOfYear)
	innerAngle := degToRad(356.6 + 0.9856*doy)
	outerAngle := degToRad(278.97 + 0.9856*doy + 1.9165*math.Sin(innerAngle))
	declinationRad := math.Asin(0.39785 * math.Sin(outerAngle))

	// cos(H) = -tan(lat) * tan(declination)
	cosH := -math.Tan(degToRad(latitude)) * math.Tan(declinationRad)
	if cosH < -1.0 || cosH > 1.0 {
		return 0, false
	}

	// 15 degrees per hour
	return radToDeg(math.Acos(cosH)) / 15.0 * 60.0, true
}

// solarNoon returns solar noon in minutes after midnight UTC of day. It is
// not wrapped, so western longitudes can run past 1440.
func solarNoon(day time.Time, longitude float64) float64 {
	noon := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.UTC)
	return 720.0 - longitude*4.0 - equationOfTime(noon)
}

// CalculateSunriseSunset returns sunrise and sunset as minutes from midnight
// UTC for the given day-of-year. Both are -1 when the sun never sets or never
// rises.
func CalculateSunriseSunset(dayOfYear int, latitude, longitude float64) (sunriseMinutes, sunsetMinutes int) {
	ha, ok := hourAngle(dayOfYear, latitude)
	if !ok {
		return -1, -1
	}

	day := time.Date(time.Now().Year(), 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, dayOfYear-1)
	noon := solarNoon(day, longitude)

	sunrise := math.Mod(noon-ha+1440, 1440)
	sunset := math.Mod(noon+ha+1440, 1440)
	return int(math.Round(sunrise)), int(math.Round(sunset))
}

// SunTimes returns the sunrise and sunset bracketing the calendar day of
// date, as seen in date's location. ok is false during polar day or night.
func SunTimes(date time.Time, latitude, longitude float64) (sunrise, sunset time.Time, ok bool) {
	ha, ok := hourAngle(date.YearDay(), latitude)
	if !ok {
		return time.Time{}, time.Time{}, false
	}

	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	noon := solarNoon(midnight, longitude)

	sunrise = midnight.Add(time.Duration((noon - ha) * float64(time.Minute))).Truncate(time.Second)
	sunset = midnight.Add(time.Duration((noon + ha) * float64(time.Minute))).Truncate(time.Second)
	return sunrise, sunset, true
}

// FormatSunTime converts UTC minutes from midnight to a clock string in loc.
func FormatSunTime(utcMinutes int, loc *time.Location) string {
	if utcMinutes < 0 {
		return ""
	}

	t := time.Date(2000, 1, 1, utcMinutes/60, utcMinutes%60, 0, 0, time.UTC)
	return t.In(loc).Format("3:04 PM")
}

// FormatClock formats a Unix timestamp as a clock string in loc. A zero
// timestamp formats as "".
func FormatClock(unix int64, loc *time.Location) string {
	if unix == 0 {
		return ""
	}
	return time.Unix(unix, 0).In(loc).Format("3:04 PM")
}
