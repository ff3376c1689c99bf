package analemma

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chrissnell/dxanalemma/pkg/solar"
)

// SunRecorder receives every representative sun as soon as it is created.
type SunRecorder interface {
	RecordSun(s Sun) error
}

// Generator runs the sun deduplication sweep for one site.
type Generator struct {
	site     solar.Site
	rotation float64
	recorder SunRecorder
	logger   *zap.SugaredLogger

	suns        []Sun
	assignments Assignments
}

// NewGenerator creates a generator for a site and building rotation (degrees).
// recorder may be nil when no scene output is wanted.
func NewGenerator(site solar.Site, rotation float64, recorder SunRecorder, logger *zap.SugaredLogger) *Generator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Generator{
		site:     site,
		rotation: rotation,
		recorder: recorder,
		logger:   logger,
	}
}

// Run sweeps all 24 hours of the day and returns the representative suns and
// the completed assignment table. The context is checked between hours.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	for hour := 0; hour < HoursPerDay; hour++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		before := len(g.suns)
		if err := g.SweepHour(hour); err != nil {
			return nil, err
		}
		g.logger.Debugw("swept hour", "hour", hour, "new_suns", len(g.suns)-before, "total_suns", len(g.suns))
	}

	return &Result{
		Suns:        g.suns,
		Assignments: &g.assignments,
	}, nil
}

// Suns returns the representative suns discovered so far.
func (g *Generator) Suns() []Sun {
	return g.suns
}

// Assignments returns the assignment table as filled so far.
func (g *Generator) Assignments() *Assignments {
	return &g.assignments
}

// overlapEntry is an early-window sun remembered for the late window
type overlapEntry struct {
	direction r3.Vec
	slot      int
}

// pendingDay is a day merged into the current representative whose final
// owner is decided when the run is resolved
type pendingDay struct {
	day       int
	direction r3.Vec
	assigned  bool // already claimed by an early-window sun
}

// hourSweep is the state carried from day to day within one hour of day
type hourSweep struct {
	hour      int
	reference r3.Vec
	last      int // slot of the last accepted sun, -1 before the first
	pending   []pendingDay
	overlap   []overlapEntry
	suns      []int // slots created during this sweep
}

// SweepHour scans days 1-365 at one hour of day, creating representative
// suns and filling that hour's assignment entries.
func (g *Generator) SweepHour(hour int) error {
	if hour < 0 || hour >= HoursPerDay {
		return fmt.Errorf("hour %d out of range", hour)
	}

	s := &hourSweep{
		hour:      hour,
		reference: solar.Zenith,
		last:      -1,
	}

	for day := 1; day <= DaysPerYear; day++ {
		p := g.site.Position(day, hour, g.rotation)
		k := HourOfYear(day, hour)

		if p.Altitude <= HorizonThreshold {
			g.assignments[k] = BelowHorizon
			g.flush(s)
			continue
		}

		closeness := r3.Dot(s.reference, p.Direction)
		if s.last >= 0 && closeness < CreationThreshold {
			if match := g.duplicateOf(s, p.Direction); match >= 0 {
				// Already represented by an earlier sun of this hour
				s.pending = append(s.pending, pendingDay{day: day, direction: p.Direction, assigned: true})
				g.assignments[k] = match
				continue
			}
		}

		if s.last < 0 || closeness < CreationThreshold {
			slot, err := g.accept(p)
			if err != nil {
				return err
			}
			if s.last >= 0 {
				g.resolve(s, slot)
			}
			s.pending = s.pending[:0]
			s.last = slot
			s.reference = p.Direction
			s.suns = append(s.suns, slot)
			if inEarlyWindow(day) {
				s.overlap = append(s.overlap, overlapEntry{direction: p.Direction, slot: slot})
			}
			continue
		}

		match := -1
		if inLateWindow(day) {
			for _, e := range s.overlap {
				if dp := r3.Dot(e.direction, p.Direction); dp > closeness {
					closeness = dp
					match = e.slot
				}
			}
		}
		s.pending = append(s.pending, pendingDay{day: day, direction: p.Direction, assigned: match >= 0})
		if match >= 0 {
			g.assignments[k] = match
		}
	}

	g.flush(s)
	return nil
}

// duplicateOf returns the sun of the current sweep closest to dir when it is
// within DuplicateThreshold, or -1.
func (g *Generator) duplicateOf(s *hourSweep, dir r3.Vec) int {
	best := DuplicateThreshold
	match := -1
	for _, slot := range s.suns {
		if dp := r3.Dot(g.suns[slot].Direction, dir); dp > best {
			best = dp
			match = slot
		}
	}
	return match
}

// accept records a new representative sun and assigns its own hour to it.
func (g *Generator) accept(p solar.Position) (int, error) {
	sun := Sun{
		Index:     len(g.suns) + 1,
		Direction: p.Direction,
		DayOfYear: p.DayOfYear,
		Hour:      p.Hour,
	}
	g.suns = append(g.suns, sun)
	g.assignments[HourOfYear(p.DayOfYear, p.Hour)] = sun.Slot()

	if g.recorder != nil {
		if err := g.recorder.RecordSun(sun); err != nil {
			return 0, fmt.Errorf("error recording sun %d: %w", sun.Index, err)
		}
	}
	return sun.Slot(), nil
}

// resolve splits the pending run between the previous sun and the newly
// created one. The first half goes to the previous sun; an odd middle day
// joins whichever of the two it is closer to, ties going to the previous sun.
func (g *Generator) resolve(s *hourSweep, next int) {
	prevDir := g.suns[s.last].Direction
	nextDir := g.suns[next].Direction

	n := len(s.pending)
	split := n / 2
	if n%2 == 1 {
		mid := s.pending[n/2].direction
		if r3.Dot(mid, prevDir) >= r3.Dot(mid, nextDir) {
			split++
		}
	}

	for i, pd := range s.pending {
		if pd.assigned {
			continue
		}
		slot := s.last
		if i >= split {
			slot = next
			if inLateWindow(pd.day) {
				slot = s.closestOverlap(pd.direction, next, nextDir)
			}
		}
		g.assignments[HourOfYear(pd.day, s.hour)] = slot
	}
}

// flush hands every unassigned pending day to the last accepted sun.
func (g *Generator) flush(s *hourSweep) {
	for _, pd := range s.pending {
		if !pd.assigned {
			g.assignments[HourOfYear(pd.day, s.hour)] = s.last
		}
	}
	s.pending = s.pending[:0]
}

// closestOverlap returns the early-window sun closer to dir than the
// candidate, or the candidate itself.
func (s *hourSweep) closestOverlap(dir r3.Vec, candidate int, candidateDir r3.Vec) int {
	best := r3.Dot(dir, candidateDir)
	slot := candidate
	for _, e := range s.overlap {
		if dp := r3.Dot(dir, e.direction); dp > best {
			best = dp
			slot = e.slot
		}
	}
	return slot
}
