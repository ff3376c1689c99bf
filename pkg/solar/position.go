package solar

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Site describes the location an analemma is computed for. Longitude and
// TimeZone share one sign convention and enter the solar time formula only as
// their difference: weather files supply them east positive, so a site at
// 76.3°W in UTC-5 is Longitude -76.3, TimeZone -75.
type Site struct {
	Latitude  float64 // degrees, north positive
	Longitude float64 // degrees
	TimeZone  float64 // standard meridian in degrees
}

// Position is the sun's location for one hour of one day.
type Position struct {
	DayOfYear   int
	Hour        int
	SolarTime   float64 // solar hour of day
	Declination float64 // radians
	Altitude    float64 // radians
	Azimuth     float64 // radians, rotated into the building frame
	Direction   r3.Vec
}

// Position computes the sun position at the middle of the given hour
// (hour+0.5) for a day of year. rotation is the building rotation in degrees.
func (s Site) Position(dayOfYear, hour int, rotation float64) Position {
	dec := Declination(dayOfYear)
	t := float64(hour) + 0.5 + TimeAdjustment(dayOfYear, s.Longitude, s.TimeZone)
	lat := DegToRad(s.Latitude)

	alt := Altitude(lat, dec, t)
	az := Azimuth(lat, dec, t) + math.Pi - DegToRad(rotation)

	return Position{
		DayOfYear:   dayOfYear,
		Hour:        hour,
		SolarTime:   t,
		Declination: dec,
		Altitude:    alt,
		Azimuth:     az,
		Direction:   Direction(alt, az),
	}
}
