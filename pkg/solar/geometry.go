// Package solar provides the sun-position approximations used to build an
// analemma: declination, the equation-of-time correction, altitude, azimuth
// and the horizontal-frame direction vector of the sun.
package solar

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Zenith is the straight-overhead direction (z is up).
var Zenith = r3.Vec{X: 0, Y: 0, Z: 1}

// DegToRad converts an angle from degrees to radians
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Declination returns the solar declination in radians for the given day of year.
func Declination(dayOfYear int) float64 {
	return 0.4093 * math.Sin((2*math.Pi/368)*float64(dayOfYear-81))
}

// TimeAdjustment returns the correction in hours from local standard time to
// solar time: the equation of time plus the offset between the site's
// longitude and its time-zone meridian, both in degrees.
func TimeAdjustment(dayOfYear int, longitude, timeZone float64) float64 {
	d := float64(dayOfYear)
	return 0.170*math.Sin((4*math.Pi/373)*(d-80)) -
		0.129*math.Sin((2*math.Pi/355)*(d-8)) +
		12*(DegToRad(timeZone)-DegToRad(longitude))/math.Pi
}

// Altitude returns the solar altitude in radians. latitude and declination are
// in radians, solarTime is the solar hour of day.
func Altitude(latitude, declination, solarTime float64) float64 {
	return math.Asin(math.Sin(latitude)*math.Sin(declination) -
		math.Cos(latitude)*math.Cos(declination)*math.Cos(math.Pi*solarTime/12))
}

// Azimuth returns the raw solar azimuth in radians, measured the way the
// altitude formula is oriented. Site.Position applies the π offset and the
// building rotation.
func Azimuth(latitude, declination, solarTime float64) float64 {
	return -math.Atan2(math.Cos(declination)*math.Sin(solarTime*(math.Pi/12)),
		-math.Cos(latitude)*math.Sin(declination)-
			math.Sin(latitude)*math.Cos(declination)*math.Cos(solarTime*(math.Pi/12)))
}

// Direction converts an altitude/azimuth pair (radians) into a right-handed
// unit vector with z pointing up.
func Direction(altitude, azimuth float64) r3.Vec {
	return r3.Vec{
		X: math.Cos(altitude) * math.Sin(azimuth),
		Y: math.Cos(altitude) * math.Cos(azimuth),
		Z: math.Sin(altitude),
	}
}
