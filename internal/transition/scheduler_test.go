package transition

import (
	"LotusPond/internal/logger"
	"LotusPond/internal/sky"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type applyCall struct {
	params sky.Parameters
	moon   bool
}

type recorder struct {
	calls []applyCall
}

func (r *recorder) Apply(p sky.Parameters, moon bool) {
	r.calls = append(r.calls, applyCall{p, moon})
}

func newScheduler(t *testing.T) (*Scheduler, *recorder) {
	t.Helper()
	t.Cleanup(logger.Replace(zaptest.NewLogger(t)))
	rec := &recorder{}
	return NewScheduler(rec), rec
}

func settle(t *testing.T, s *Scheduler) {
	t.Helper()
	for i := 0; i < 100000 && s.Active() != nil; i++ {
		s.Advance(Quantum)
	}
	require.Nil(t, s.Active(), "transition never settled")
}

func TestInitialParameters(t *testing.T) {
	s, _ := newScheduler(t)
	assert.Equal(t, sky.Parameters{Elevation: -2, Azimuth: 180, Intensity: 2}, s.Parameters())
	assert.Nil(t, s.Active())
}

func TestRevealEndsWithMoonHigh(t *testing.T) {
	s, rec := newScheduler(t)
	s.Start(ToDay)
	settle(t, s)

	assert.Equal(t, sky.Parameters{Elevation: 7.1, Azimuth: -45, Intensity: 2}, s.Parameters())
	require.NotEmpty(t, rec.calls)
	for _, c := range rec.calls {
		assert.True(t, c.moon, "only the moon moves when starting below the horizon")
	}
	assert.Equal(t, Stats{TimersStarted: 2, TimersStopped: 2}, s.Stats())
}

func TestToNightEndsWithLowSun(t *testing.T) {
	s, rec := newScheduler(t)
	s.Start(ToDay)
	settle(t, s)
	rec.calls = nil

	s.Start(ToNight)
	settle(t, s)

	assert.Equal(t, sky.Parameters{Elevation: 2, Azimuth: 180, Intensity: 2.4}, s.Parameters())

	// every moon step precedes every sun step
	sawSun := false
	for _, c := range rec.calls {
		if !c.moon {
			sawSun = true
			continue
		}
		assert.False(t, sawSun, "moon applied after the sun started rising")
	}
	assert.True(t, sawSun)
	last := rec.calls[len(rec.calls)-1]
	assert.False(t, last.moon)
	assert.Equal(t, s.Parameters(), last.params)
}

func TestRoundTripHasNoDrift(t *testing.T) {
	s, _ := newScheduler(t)
	s.Start(ToDay)
	settle(t, s)
	day := s.Parameters()

	for i := 0; i < 5; i++ {
		s.Start(ToNight)
		settle(t, s)
		assert.Equal(t, sky.Parameters{Elevation: 2, Azimuth: 180, Intensity: 2.4}, s.Parameters())

		s.Start(ToDay)
		settle(t, s)
		assert.Equal(t, day, s.Parameters())
	}
	assert.Equal(t, 0, s.Stats().Running())
}

func TestAscentWaitsForHandoff(t *testing.T) {
	s, rec := newScheduler(t)
	h := s.Start(ToDay)

	// the moon lane ticks at 20 and 40 ms but the sun only hands over at 50
	s.Advance(40 * time.Millisecond)
	assert.Empty(t, rec.calls)
	assert.Equal(t, Descending, h.State())

	s.Advance(10 * time.Millisecond)
	assert.Equal(t, WaitingForHandoff, h.State())
	assert.Empty(t, rec.calls)

	s.Advance(10 * time.Millisecond)
	assert.Equal(t, Ascending, h.State())
	require.Len(t, rec.calls, 1)
	assert.Equal(t, sky.Parameters{Elevation: -1.9, Azimuth: -45, Intensity: 2}, rec.calls[0].params)
}

func TestDescentStepsBeforeAscentInSameQuantum(t *testing.T) {
	s, _ := newScheduler(t)
	s.params = sky.Parameters{Elevation: -1.7, Azimuth: 180, Intensity: 2}
	h := s.Start(ToNight)

	// moon steps at 20..80 ms, hands over at 100 ms, where the sun lane also fires
	s.Advance(100 * time.Millisecond)

	assert.Equal(t, Ascending, h.State())
	assert.Equal(t, -1.9, s.Parameters().Elevation)
	assert.Equal(t, 2.01, s.Parameters().Intensity)
}

func TestRestartCancelsPreviousLanes(t *testing.T) {
	s, _ := newScheduler(t)
	s.Start(ToDay)
	settle(t, s)

	first := s.Start(ToNight)
	s.Advance(500 * time.Millisecond)
	mid := s.Parameters()

	second := s.Start(ToDay)
	assert.Equal(t, Cancelled, first.State())
	assert.Same(t, second, s.Active())
	assert.Equal(t, Stats{TimersStarted: 6, TimersStopped: 4}, s.Stats())
	assert.Equal(t, mid, s.Parameters(), "starting a program must not jump the sky")

	first.Stop()
	assert.Equal(t, 2, s.Stats().Running())

	settle(t, s)
	assert.Equal(t, 7.1, s.Parameters().Elevation)
	assert.Equal(t, -45.0, s.Parameters().Azimuth)
	assert.Equal(t, 0, s.Stats().Running())
}

func TestRapidToggles(t *testing.T) {
	s, _ := newScheduler(t)
	s.Start(ToDay)
	settle(t, s)

	dir := ToNight
	for i := 0; i < 20; i++ {
		s.Start(dir)
		s.Advance(time.Duration(i*37) * time.Millisecond)
		if dir == ToNight {
			dir = ToDay
		} else {
			dir = ToNight
		}
		assert.LessOrEqual(t, s.Stats().Running(), 2)
	}
	settle(t, s)
	assert.Equal(t, 0, s.Stats().Running())
	assert.GreaterOrEqual(t, s.Parameters().Intensity, 0.0)
}

func TestIntensityNeverNegative(t *testing.T) {
	s, rec := newScheduler(t)
	s.params = sky.Parameters{Elevation: 30, Azimuth: 0, Intensity: 0.05}
	s.Start(ToDay)
	settle(t, s)

	for _, c := range rec.calls {
		assert.GreaterOrEqual(t, c.params.Intensity, 0.0)
	}
	assert.Equal(t, 0.0, s.Parameters().Intensity)
}

func TestLargeAdvanceMatchesSmallSteps(t *testing.T) {
	a, _ := newScheduler(t)
	b, _ := newScheduler(t)
	a.Start(ToDay)
	b.Start(ToDay)

	a.Advance(10 * time.Second)
	for i := 0; i < 1000; i++ {
		b.Advance(Quantum)
	}
	assert.Equal(t, b.Parameters(), a.Parameters())
	assert.Nil(t, a.Active())
}

func TestSubQuantumAdvanceAccumulates(t *testing.T) {
	s, rec := newScheduler(t)
	s.Start(ToDay)
	for i := 0; i < 20; i++ {
		s.Advance(3 * time.Millisecond)
	}
	// 60 ms have elapsed: handoff at 50, first moon step at 60
	assert.Len(t, rec.calls, 1)
}

func TestAdvanceWithoutProgramIsNoop(t *testing.T) {
	s, rec := newScheduler(t)
	s.Advance(time.Hour)
	assert.Empty(t, rec.calls)
	assert.Equal(t, sky.InitialParameters(), s.Parameters())
}

func TestCancelAndStopAreIdempotent(t *testing.T) {
	s, _ := newScheduler(t)
	h := s.Start(ToNight)
	s.Cancel()
	s.Cancel()
	h.Stop()
	assert.Equal(t, Stats{TimersStarted: 2, TimersStopped: 2}, s.Stats())
	assert.Nil(t, s.Active())

	var nilHandle *Handle
	nilHandle.Stop()
}

func TestOnSettleReportsDirection(t *testing.T) {
	s, _ := newScheduler(t)
	var got []Direction
	s.OnSettle(func(d Direction) { got = append(got, d) })

	s.Start(ToDay)
	settle(t, s)
	s.Start(ToNight)
	settle(t, s)

	assert.Equal(t, []Direction{ToDay, ToNight}, got)
}

func TestSettledHandleKeepsState(t *testing.T) {
	s, _ := newScheduler(t)
	h := s.Start(ToDay)
	settle(t, s)
	h.Stop()
	assert.Equal(t, Settled, h.State())
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "to-day", ToDay.String())
	assert.Equal(t, "to-night", ToNight.String())
	assert.Equal(t, "waiting-for-handoff", WaitingForHandoff.String())
	assert.Equal(t, "cancelled", Cancelled.String())
}
