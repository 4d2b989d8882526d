package transition

import "time"

// lane is one repeating timer of a transition. step runs every interval of
// scheduler time and returns false to stop the lane.
type lane struct {
	name     string
	interval time.Duration
	accum    time.Duration
	running  bool
	step     func() bool
	stats    *Stats
}

func newLane(name string, interval time.Duration, stats *Stats, step func() bool) *lane {
	stats.TimersStarted++
	return &lane{
		name:     name,
		interval: interval,
		running:  true,
		step:     step,
		stats:    stats,
	}
}

func (l *lane) advance(d time.Duration) {
	if !l.running {
		return
	}
	l.accum += d
	for l.running && l.accum >= l.interval {
		l.accum -= l.interval
		if !l.step() {
			l.stop()
		}
	}
}

// stop is idempotent.
func (l *lane) stop() {
	if !l.running {
		return
	}
	l.running = false
	l.stats.TimersStopped++
}
