package solar

import (
	"math"
	"testing"
	"time"
)

func TestCalculateSunriseSunset(t *testing.T) {
	tests := []struct {
		name             string
		dayOfYear        int
		latitude         float64
		longitude        float64
		expectSunrise    bool // false if polar conditions
		sunriseApproxUTC int  // ±60 min tolerance
		sunsetApproxUTC  int
	}{
		{
			name:             "Equator at equinox",
			dayOfYear:        79,
			latitude:         0.0,
			longitude:        0.0,
			expectSunrise:    true,
			sunriseApproxUTC: 360,
			sunsetApproxUTC:  1080,
		},
		{
			name:             "Beverly Hills summer solstice",
			dayOfYear:        172,
			latitude:         34.07,
			longitude:        -118.40,
			expectSunrise:    true,
			sunriseApproxUTC: 762, // ~5:42 AM PDT
			sunsetApproxUTC:  188, // ~8:08 PM PDT, wraps at midnight UTC
		},
		{
			name:          "Arctic circle summer (polar day)",
			dayOfYear:     172,
			latitude:      70.0,
			longitude:     25.0,
			expectSunrise: false,
		},
		{
			name:          "Arctic circle winter (polar night)",
			dayOfYear:     355,
			latitude:      70.0,
			longitude:     25.0,
			expectSunrise: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sunrise, sunset := CalculateSunriseSunset(tt.dayOfYear, tt.latitude, tt.longitude)

			if !tt.expectSunrise {
				if sunrise != -1 || sunset != -1 {
					t.Errorf("expected polar conditions, got sunrise=%d, sunset=%d", sunrise, sunset)
				}
				return
			}

			tolerance := 60
			if diff := int(math.Abs(float64(sunrise - tt.sunriseApproxUTC))); diff > tolerance && diff < 1440-tolerance {
				t.Errorf("sunrise=%d minutes, expected ~%d minutes (±%d)", sunrise, tt.sunriseApproxUTC, tolerance)
			}
			if diff := int(math.Abs(float64(sunset - tt.sunsetApproxUTC))); diff > tolerance && diff < 1440-tolerance {
				t.Errorf("sunset=%d minutes, expected ~%d minutes (±%d)", sunset, tt.sunsetApproxUTC, tolerance)
			}
		})
	}
}

func TestSunTimes(t *testing.T) {
	date := time.Date(2025, time.June, 21, 15, 0, 0, 0, time.UTC)

	sunrise, sunset, ok := SunTimes(date, 40.71, -74.0)
	if !ok {
		t.Fatal("expected sun times for New York")
	}
	if !sunrise.Before(sunset) {
		t.Fatalf("sunrise %v is not before sunset %v", sunrise, sunset)
	}

	// Roughly 5:25 AM and 8:31 PM EDT.
	wantRise := time.Date(2025, time.June, 21, 9, 25, 0, 0, time.UTC)
	wantSet := time.Date(2025, time.June, 22, 0, 31, 0, 0, time.UTC)
	if d := sunrise.Sub(wantRise); d > time.Hour || d < -time.Hour {
		t.Errorf("sunrise = %v, want about %v", sunrise, wantRise)
	}
	if d := sunset.Sub(wantSet); d > time.Hour || d < -time.Hour {
		t.Errorf("sunset = %v, want about %v", sunset, wantSet)
	}

	if _, _, ok := SunTimes(date, 75.0, 15.0); ok {
		t.Error("expected no sunset during polar day")
	}
}

func TestSunTimesDayLength(t *testing.T) {
	start := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	for d := 0; d < 365; d++ {
		day := start.AddDate(0, 0, d)
		sunrise, sunset, ok := SunTimes(day, 45.0, 0.0)
		if !ok {
			t.Fatalf("%s: unexpected polar conditions at 45°N", day.Format("2006-01-02"))
		}
		length := sunset.Sub(sunrise)
		if length < 4*time.Hour || length > 20*time.Hour {
			t.Errorf("%s: unreasonable day length %v", day.Format("2006-01-02"), length)
		}
	}
}

func TestFormatSunTime(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}

	tests := []struct {
		name       string
		utcMinutes int
		loc        *time.Location
		expected   string
	}{
		{"morning UTC to Pacific", 840, loc, "6:00 AM"},
		{"negative minutes", -1, loc, ""},
		{"noon UTC", 720, time.UTC, "12:00 PM"},
		{"midnight UTC", 0, time.UTC, "12:00 AM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatSunTime(tt.utcMinutes, tt.loc)
			if result != tt.expected {
				t.Errorf("FormatSunTime(%d) = %q, expected %q", tt.utcMinutes, result, tt.expected)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	est := time.FixedZone("UTC-5", -5*3600)
	ts := time.Date(2025, time.March, 3, 11, 47, 0, 0, time.UTC).Unix()

	if got := FormatClock(ts, est); got != "6:47 AM" {
		t.Errorf("FormatClock = %q, want 6:47 AM", got)
	}
	if got := FormatClock(0, est); got != "" {
		t.Errorf("FormatClock(0) = %q, want empty", got)
	}
}
