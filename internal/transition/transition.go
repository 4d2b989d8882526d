// Package transition runs the two-lane sky programs that carry the scene
// between day and night.
//
// Every program pairs a descent lane, which sinks the current body below the
// horizon, with an ascent lane, which raises the next one. The ascent lane is
// gated on the descent lane's handoff so the two never write the sky at the
// same time. Both lanes are stepped from a single clock (Scheduler.Advance).
package transition

import (
	"LotusPond/internal/sky"
	"math"
	"time"
)

// Quantum is the resolution of the scheduler clock.
const Quantum = 10 * time.Millisecond

const (
	moonInterval = 20 * time.Millisecond
	sunInterval  = 50 * time.Millisecond

	horizon      = -2.0
	sunZenith    = 2.0
	moonZenith   = 7.0
	moonAzimuth  = -45.0
	nightAzimuth = 180.0

	elevationStep = 0.1
	intensityStep = 0.01
)

type Direction int

const (
	ToDay Direction = iota
	ToNight
)

func (d Direction) String() string {
	switch d {
	case ToDay:
		return "to-day"
	case ToNight:
		return "to-night"
	default:
		return "unknown"
	}
}

type State int

const (
	Descending State = iota
	WaitingForHandoff
	Ascending
	Settled
	Cancelled
)

func (s State) String() string {
	switch s {
	case Descending:
		return "descending"
	case WaitingForHandoff:
		return "waiting-for-handoff"
	case Ascending:
		return "ascending"
	case Settled:
		return "settled"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Applier receives every sky change a program makes.
type Applier interface {
	Apply(p sky.Parameters, moon bool)
}

// Stats counts lane lifecycles. Once nothing is running both counters are
// equal.
type Stats struct {
	TimersStarted int
	TimersStopped int
}

func (s Stats) Running() int {
	return s.TimersStarted - s.TimersStopped
}

func quantizeElevation(v float64) float64 {
	return math.Round(v*10) / 10
}

func quantizeIntensity(v float64) float64 {
	v = math.Round(v*100) / 100
	if v < 0 {
		return 0
	}
	return v
}
