package transition

import (
	"LotusPond/internal/logger"
	"LotusPond/internal/sky"
	"time"

	"go.uber.org/zap"
)

// Scheduler owns the live sky parameters and at most one running Handle.
// It is not safe for concurrent use; everything runs on the render
// goroutine.
type Scheduler struct {
	params  sky.Parameters
	sky     Applier
	live    *Handle
	pending time.Duration
	stats   Stats

	onSettle func(Direction)
}

func NewScheduler(applier Applier) *Scheduler {
	return &Scheduler{
		params: sky.InitialParameters(),
		sky:    applier,
	}
}

func (s *Scheduler) Parameters() sky.Parameters {
	return s.params
}

func (s *Scheduler) Stats() Stats {
	return s.stats
}

// Active returns the running handle, nil when the sky is settled.
func (s *Scheduler) Active() *Handle {
	return s.live
}

func (s *Scheduler) OnSettle(fn func(Direction)) {
	s.onSettle = fn
}

// Cancel stops the running program, if any, leaving the sky where it is.
func (s *Scheduler) Cancel() {
	if s.live != nil {
		s.live.Stop()
		s.live = nil
	}
}

// Start cancels the running program and starts dir from the current
// parameters.
func (s *Scheduler) Start(dir Direction) *Handle {
	s.Cancel()

	h := &Handle{dir: dir, state: Descending}
	switch dir {
	case ToNight:
		h.descent = newLane("moon-set", moonInterval, &s.stats, func() bool { return s.moonSet(h) })
		h.ascent = newLane("sun-rise", sunInterval, &s.stats, func() bool { return s.sunRise(h) })
	default:
		h.descent = newLane("sun-set", sunInterval, &s.stats, func() bool { return s.sunSet(h) })
		h.ascent = newLane("moon-rise", moonInterval, &s.stats, func() bool { return s.moonRise(h) })
	}
	s.live = h
	s.pending = 0

	logger.Log.Info("Sky transition started",
		zap.Stringer("direction", dir),
		zap.Float64("elevation", s.params.Elevation),
		zap.Float64("azimuth", s.params.Azimuth),
		zap.Float64("intensity", s.params.Intensity))
	return h
}

// Advance moves the scheduler clock forward. Within each quantum the
// descent lane steps before the ascent lane.
func (s *Scheduler) Advance(elapsed time.Duration) {
	if s.live == nil {
		s.pending = 0
		return
	}
	s.pending += elapsed
	for s.pending >= Quantum && s.live != nil {
		s.pending -= Quantum
		h := s.live
		h.descent.advance(Quantum)
		h.ascent.advance(Quantum)
		if h.state == Settled {
			s.live = nil
			s.settled(h)
		}
	}
}

func (s *Scheduler) settled(h *Handle) {
	logger.Log.Info("Sky transition settled",
		zap.Stringer("direction", h.dir),
		zap.Float64("elevation", s.params.Elevation),
		zap.Float64("azimuth", s.params.Azimuth),
		zap.Float64("intensity", s.params.Intensity))
	if s.onSettle != nil {
		s.onSettle(h.dir)
	}
}

func (s *Scheduler) apply(moon bool) {
	if s.sky != nil {
		s.sky.Apply(s.params, moon)
	}
}

// moonSet sinks the moon below the horizon and hands over to the sun.
func (s *Scheduler) moonSet(h *Handle) bool {
	if s.params.Elevation >= horizon {
		s.params.Elevation = quantizeElevation(s.params.Elevation - elevationStep)
		s.apply(true)
		return true
	}
	s.params.Azimuth = nightAzimuth
	s.params.Elevation = horizon
	h.handoff()
	return false
}

// sunRise lifts the sun to its low evening height.
func (s *Scheduler) sunRise(h *Handle) bool {
	if !h.gate() {
		return true
	}
	if s.params.Elevation < sunZenith {
		s.params.Elevation = quantizeElevation(s.params.Elevation + elevationStep)
		s.params.Intensity = quantizeIntensity(s.params.Intensity + intensityStep)
		s.apply(false)
		return true
	}
	s.params.Elevation = sunZenith
	s.apply(false)
	h.state = Settled
	return false
}

// sunSet sinks the sun below the horizon and hands over to the moon.
func (s *Scheduler) sunSet(h *Handle) bool {
	if s.params.Elevation > horizon {
		s.params.Elevation = quantizeElevation(s.params.Elevation - elevationStep)
		s.params.Intensity = quantizeIntensity(s.params.Intensity - intensityStep)
		s.apply(false)
		return true
	}
	h.handoff()
	return false
}

// moonRise lifts the moon from the east.
func (s *Scheduler) moonRise(h *Handle) bool {
	if !h.gate() {
		return true
	}
	if s.params.Elevation <= moonZenith {
		s.params.Azimuth = moonAzimuth
		s.params.Elevation = quantizeElevation(s.params.Elevation + elevationStep)
		s.apply(true)
		return true
	}
	h.state = Settled
	return false
}
