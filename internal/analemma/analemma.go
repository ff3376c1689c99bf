// Package analemma reduces a year of hourly sun positions to a small set of
// representative suns and produces the renderer inputs built from them: the
// light and source declarations for each sun and the sun matrix that weights
// every sun by the hourly direct normal irradiance.
package analemma

import (
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	HoursPerDay  = 24
	DaysPerYear  = 365
	HoursPerYear = HoursPerDay * DaysPerYear

	// HorizonThreshold is the altitude in radians (about 0.159°) at or below
	// which the sun is treated as set.
	HorizonThreshold = 0.00278

	// CreationThreshold is the dot product with the last representative sun
	// below which a position becomes a new sun (about 0.63°).
	CreationThreshold = 0.99994

	// DuplicateThreshold is the dot product above which a candidate is taken
	// as a duplicate of any sun already created for the same hour of day
	// (about 0.55°).
	DuplicateThreshold = 0.999954

	// BelowHorizon marks an hour with no sun in the assignment table.
	BelowHorizon = -1
)

// The seasonal windows where the analemma crosses itself. Bounds are
// exclusive: the early window is days 99-109 and the late window 239-248.
const (
	earlyWindowAfter  = 98
	earlyWindowBefore = 110
	lateWindowAfter   = 238
	lateWindowBefore  = 249
)

func inEarlyWindow(day int) bool {
	return day > earlyWindowAfter && day < earlyWindowBefore
}

func inLateWindow(day int) bool {
	return day > lateWindowAfter && day < lateWindowBefore
}

// Sun is a representative sun direction.
type Sun struct {
	Index     int    // 1-based, in order of discovery
	Direction r3.Vec // unit vector, z up
	DayOfYear int    // day the sun was first seen
	Hour      int    // hour of day the sun was first seen
}

// Slot returns the sun's position in the sun list and assignment table.
func (s Sun) Slot() int {
	return s.Index - 1
}

// Assignments maps each hour of the year to the slot of its representative
// sun, or BelowHorizon.
type Assignments [HoursPerYear]int

// HourOfYear returns the 0-based index of an hour in day-major order.
func HourOfYear(dayOfYear, hour int) int {
	return (dayOfYear-1)*HoursPerDay + hour
}

// HoursPerSun counts the hours assigned to each of numSuns suns.
func (a *Assignments) HoursPerSun(numSuns int) []int {
	counts := make([]int, numSuns)
	for _, slot := range a {
		if slot >= 0 && slot < numSuns {
			counts[slot]++
		}
	}
	return counts
}

// DaylightHours returns the number of hours with a sun assigned.
func (a *Assignments) DaylightHours() int {
	n := 0
	for _, slot := range a {
		if slot != BelowHorizon {
			n++
		}
	}
	return n
}

// Result is the outcome of a full-year sweep.
type Result struct {
	Suns        []Sun
	Assignments *Assignments
}
