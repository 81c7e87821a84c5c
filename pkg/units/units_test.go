package units

import (
	"math"
	"testing"
)

func TestToDisplayTemperature(t *testing.T) {
	tests := []struct {
		name string
		raw  float64
		unit System
		want int
	}{
		{"imperial rounds", 72.4, Imperial, 72},
		{"imperial rounds half up", 72.5, Imperial, 73},
		{"metric from fahrenheit", 77, Metric, 25},
		{"metric freezing", 32, Metric, 0},
		{"metric below zero", 14, Metric, -10},
		{"metric half rounds up", 27.5, Metric, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDisplayTemperature(tt.raw, tt.unit)
			if got != tt.want {
				t.Errorf("ToDisplayTemperature(%v, %s) = %d, want %d", tt.raw, tt.unit, got, tt.want)
			}
		})
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0.49, 0},
		{0.5, 1},
		{-0.5, 0},
		{-2.5, -2},
		{-2.51, -3},
		{100.2, 100},
	}

	for _, tt := range tests {
		if got := Round(tt.in); got != tt.want {
			t.Errorf("Round(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestConvertSameSystemIsIdentity(t *testing.T) {
	for _, v := range []float64{-40, 0, 21.37, 98.6} {
		for _, sys := range []System{Imperial, Metric} {
			if got := Convert(v, sys, sys); got != v {
				t.Errorf("Convert(%v, %s, %s) = %v, want %v", v, sys, sys, got, v)
			}
			if got := ConvertSpeed(v, sys, sys); got != v {
				t.Errorf("ConvertSpeed(%v, %s, %s) = %v, want %v", v, sys, sys, got, v)
			}
		}
	}
}

func TestConvertRoundTripMayLoseUnderRounding(t *testing.T) {
	// 74°F -> 23.33°C, shown as 23; 23°C -> 73.4°F, shown as 73.
	c := Round(Convert(74, Imperial, Metric))
	back := Round(Convert(float64(c), Metric, Imperial))
	if back == 74 {
		t.Fatalf("expected rounding loss converting 74°F through %d°C, got it back exactly", c)
	}

	// Without rounding the conversion is exact to floating point precision.
	exact := Convert(Convert(74, Imperial, Metric), Metric, Imperial)
	if math.Abs(exact-74) > 1e-9 {
		t.Errorf("unrounded round trip = %v, want 74", exact)
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		from, to System
		want     float64
	}{
		{"boiling to metric", 212, Imperial, Metric, 100},
		{"body temp to imperial", 37, Metric, Imperial, 98.6},
		{"minus forty", -40, Imperial, Metric, -40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(tt.value, tt.from, tt.to)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Convert(%v, %s, %s) = %v, want %v", tt.value, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestConvertSpeed(t *testing.T) {
	got := ConvertSpeed(15, Imperial, Metric)
	if math.Abs(got-6.7056) > 1e-9 {
		t.Errorf("ConvertSpeed(15 mph) = %v m/s, want 6.7056", got)
	}
	back := ConvertSpeed(got, Metric, Imperial)
	if math.Abs(back-15) > 1e-9 {
		t.Errorf("ConvertSpeed back = %v mph, want 15", back)
	}
}

func TestParseSystem(t *testing.T) {
	tests := []struct {
		in      string
		want    System
		wantErr bool
	}{
		{"imperial", Imperial, false},
		{"Metric", Metric, false},
		{" metric ", Metric, false},
		{"kelvin", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSystem(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSystem(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSystem(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if got := SystemOrDefault("bogus"); got != Imperial {
		t.Errorf("SystemOrDefault(bogus) = %q, want imperial", got)
	}
}

func TestToggleAndLabels(t *testing.T) {
	if Imperial.Toggle() != Metric || Metric.Toggle() != Imperial {
		t.Error("Toggle did not swap systems")
	}
	if Imperial.TemperatureSymbol() != "°F" || Metric.TemperatureSymbol() != "°C" {
		t.Error("unexpected temperature symbols")
	}
	if Imperial.SpeedLabel() != "mph" || Metric.SpeedLabel() != "m/s" {
		t.Error("unexpected speed labels")
	}
}
