// Package units converts temperatures and wind speeds between the imperial
// and metric systems used by the weather provider.
package units

import (
	"fmt"
	"math"
	"strings"
)

// System is the unit system a set of weather values is expressed in.
type System string

const (
	Imperial System = "imperial"
	Metric   System = "metric"
)

const metersPerSecondPerMPH = 0.44704

// ParseSystem parses a unit system name.
func ParseSystem(s string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "imperial":
		return Imperial, nil
	case "metric":
		return Metric, nil
	default:
		return "", fmt.Errorf("unknown unit system %q", s)
	}
}

// SystemOrDefault parses s and falls back to Imperial for anything unrecognized.
func SystemOrDefault(s string) System {
	sys, err := ParseSystem(s)
	if err != nil {
		return Imperial
	}
	return sys
}

func (s System) String() string {
	return string(s)
}

// Valid reports whether s is one of the known systems.
func (s System) Valid() bool {
	return s == Imperial || s == Metric
}

// Toggle returns the other unit system.
func (s System) Toggle() System {
	if s == Metric {
		return Imperial
	}
	return Metric
}

// TemperatureSymbol returns the display suffix for temperatures.
func (s System) TemperatureSymbol() string {
	if s == Metric {
		return "°C"
	}
	return "°F"
}

// SpeedLabel returns the display suffix for wind speeds.
func (s System) SpeedLabel() string {
	if s == Metric {
		return "m/s"
	}
	return "mph"
}

// Round rounds half-up, the way the mobile client platform does, so that
// -2.5 becomes -2 rather than -3.
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// FahrenheitToCelsius converts a Fahrenheit temperature to Celsius.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// CelsiusToFahrenheit converts a Celsius temperature to Fahrenheit.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// ToDisplayTemperature turns a temperature stored in Fahrenheit into the
// rounded value shown to a user of the given unit system.
func ToDisplayTemperature(rawFahrenheit float64, unit System) int {
	if unit == Metric {
		return Round(FahrenheitToCelsius(rawFahrenheit))
	}
	return Round(rawFahrenheit)
}

// Convert converts a temperature between unit systems. Converting within
// the same system returns value unchanged.
func Convert(value float64, from, to System) float64 {
	if from == to {
		return value
	}
	if to == Metric {
		return FahrenheitToCelsius(value)
	}
	return CelsiusToFahrenheit(value)
}

// ConvertSpeed converts a wind speed between mph and m/s.
func ConvertSpeed(value float64, from, to System) float64 {
	if from == to {
		return value
	}
	if to == Metric {
		return value * metersPerSecondPerMPH
	}
	return value / metersPerSecondPerMPH
}
