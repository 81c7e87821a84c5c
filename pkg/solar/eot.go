package solar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}

func radToDeg(rad float64) float64 {
	return rad * (180.0 / math.Pi)
}

func fixAngle(angle float64) float64 {
	return angle - 360.0*math.Floor(angle/360.0)
}

// equationOfTime returns the difference between apparent and mean solar
// time at t, in minutes.
func equationOfTime(t time.Time) float64 {
	jd := julian.TimeToJD(t.UTC())
	T := (jd - 2451545.0) / 36525.0 // Julian centuries since J2000.0

	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032))            // mean longitude of the Sun
	M := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))             // mean anomaly of the Sun
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)                  // eccentricity of Earth's orbit
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60 // mean obliquity of the ecliptic

	y := math.Tan(degToRad(eps0)/2) * math.Tan(degToRad(eps0)/2)
	return radToDeg(y*math.Sin(degToRad(2*L0))-
		2*e*math.Sin(degToRad(M))+
		4*e*y*math.Sin(degToRad(M))*math.Cos(degToRad(2*L0))-
		0.5*y*y*math.Sin(degToRad(4*L0))-
		1.25*e*e*math.Sin(degToRad(2*M))) * 4
}
