package daynight

import (
	"LotusPond/internal/flight"
	"LotusPond/internal/logger"
	"LotusPond/internal/renderer"
	"LotusPond/internal/sky"
	"LotusPond/internal/transition"
	"LotusPond/internal/tween"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type indicator struct {
	modes []Mode
}

func (i *indicator) SetMode(m Mode) { i.modes = append(i.modes, m) }

type overlay struct {
	hidden int
}

func (o *overlay) Hide() { o.hidden++ }

type fixture struct {
	ctrl      *Controller
	sched     *transition.Scheduler
	group     *tween.Group
	camera    *renderer.Camera
	light     *renderer.Light
	particles []*renderer.Node
	indicator *indicator
	overlay   *overlay
	now       time.Duration
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Cleanup(logger.Replace(zaptest.NewLogger(t)))

	f := &fixture{
		sched:     transition.NewScheduler(nil),
		group:     tween.NewGroup(),
		camera:    renderer.NewDefaultCamera(800, 600),
		light:     renderer.CreateSpotLight(mgl32.Vec3{0, 100, 0}, mgl32.Vec3{1, 1, 1}),
		particles: []*renderer.Node{renderer.NewNode("fireflies"), renderer.NewNode("fireflies-high")},
		indicator: &indicator{},
		overlay:   &overlay{},
	}
	vis := make([]Visible, len(f.particles))
	for i, p := range f.particles {
		vis[i] = p
	}
	f.ctrl = New(f.sched, flight.NewController(f.group), Targets{
		Camera:    f.camera,
		Light:     f.light,
		Particles: vis,
		Indicator: f.indicator,
	})
	return f
}

// run pumps the controller, scheduler and tweens like the render loop does.
func (f *fixture) run(d time.Duration) {
	for step := 10 * time.Millisecond; d > 0; d -= step {
		f.now += step
		f.ctrl.Update(step)
		f.sched.Advance(step)
		f.group.Update(f.now)
	}
}

func (f *fixture) reveal(t *testing.T) {
	t.Helper()
	ready := make(chan struct{})
	f.ctrl.ArmReveal(ready, f.overlay)
	close(ready)
	f.run(OverlayDelay + RevealDelay + 20*time.Millisecond)
	require.True(t, f.ctrl.Revealed())
}

func TestToggleIgnoredBeforeReveal(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.ctrl.Toggle())
	assert.Equal(t, Night, f.ctrl.Mode())
	assert.Nil(t, f.sched.Active())
	assert.Empty(t, f.indicator.modes)
}

func TestRevealWaitsForReady(t *testing.T) {
	f := newFixture(t)
	ready := make(chan struct{})
	f.ctrl.ArmReveal(ready, f.overlay)

	f.run(5 * time.Second)
	assert.False(t, f.ctrl.Revealed())
	assert.Equal(t, 0, f.overlay.hidden)
}

func TestRevealDelays(t *testing.T) {
	f := newFixture(t)
	ready := make(chan struct{})
	f.ctrl.ArmReveal(ready, f.overlay)
	close(ready)

	f.ctrl.Update(0)
	f.ctrl.Update(OverlayDelay - time.Millisecond)
	assert.Equal(t, 0, f.overlay.hidden)

	f.ctrl.Update(time.Millisecond)
	assert.Equal(t, 1, f.overlay.hidden)
	assert.False(t, f.ctrl.Revealed())

	f.ctrl.Update(RevealDelay - time.Millisecond)
	assert.False(t, f.ctrl.Revealed())

	f.ctrl.Update(time.Millisecond)
	assert.True(t, f.ctrl.Revealed())
	assert.Equal(t, Day, f.ctrl.Mode())
	assert.Equal(t, []Mode{Day}, f.indicator.modes)

	h := f.sched.Active()
	require.NotNil(t, h)
	assert.Equal(t, transition.ToDay, h.Direction())
	for _, p := range f.particles {
		assert.False(t, p.Visible)
	}
}

func TestRevealRunsOnce(t *testing.T) {
	f := newFixture(t)
	f.reveal(t)

	f.ctrl.ArmReveal(make(chan struct{}), f.overlay)
	f.run(5 * time.Second)

	assert.Equal(t, 1, f.overlay.hidden)
	assert.Equal(t, []Mode{Day}, f.indicator.modes)
	assert.Equal(t, 2, f.sched.Stats().TimersStarted)
}

func TestRevealSettlesOnWideView(t *testing.T) {
	f := newFixture(t)
	f.reveal(t)
	f.run(4 * time.Second)

	assert.Nil(t, f.sched.Active())
	assert.Equal(t, sky.Parameters{Elevation: 7.1, Azimuth: -45, Intensity: 2}, f.sched.Parameters())
	assert.Equal(t, WideCamera, f.camera.Position)
	assert.Equal(t, LowLight, f.light.Position)
}

func TestToggleToNight(t *testing.T) {
	f := newFixture(t)
	f.reveal(t)
	f.run(4 * time.Second)

	assert.True(t, f.ctrl.Toggle())
	assert.Equal(t, Night, f.ctrl.Mode())
	assert.Equal(t, []Mode{Day, Night}, f.indicator.modes)
	for _, p := range f.particles {
		assert.True(t, p.Visible)
	}
	require.NotNil(t, f.sched.Active())
	assert.Equal(t, transition.ToNight, f.sched.Active().Direction())

	f.run(5 * time.Second)
	assert.Equal(t, sky.Parameters{Elevation: 2, Azimuth: 180, Intensity: 2.4}, f.sched.Parameters())
	assert.Equal(t, NearCamera, f.camera.Position)
	assert.Equal(t, HighLight, f.light.Position)
}

func TestRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.reveal(t)
	f.run(4 * time.Second)
	day := f.sched.Parameters()

	f.ctrl.Toggle()
	f.run(5 * time.Second)
	f.ctrl.Toggle()
	f.run(5 * time.Second)

	assert.Equal(t, Day, f.ctrl.Mode())
	assert.Equal(t, day, f.sched.Parameters())
	assert.Equal(t, WideCamera, f.camera.Position)
	assert.Equal(t, 0, f.sched.Stats().Running())
}

func TestToggleMidTransition(t *testing.T) {
	f := newFixture(t)
	f.reveal(t)
	first := f.sched.Active()
	f.run(300 * time.Millisecond)

	f.ctrl.Toggle()
	assert.Equal(t, transition.Cancelled, first.State())
	assert.Equal(t, 2, f.sched.Stats().Running())

	f.ctrl.Toggle()
	f.ctrl.Toggle()
	assert.Equal(t, 2, f.sched.Stats().Running())
	assert.Equal(t, Night, f.ctrl.Mode())

	f.run(6 * time.Second)
	assert.Nil(t, f.sched.Active())
	assert.Equal(t, 0, f.sched.Stats().Running())
	assert.Equal(t, 2.0, f.sched.Parameters().Elevation)
	assert.Equal(t, 180.0, f.sched.Parameters().Azimuth)
	assert.Equal(t, NearCamera, f.camera.Position)
	assert.Equal(t, 0, f.group.Len(), "all flights finished")
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "Day", Day.String())
	assert.Equal(t, "Night", Night.String())
}
