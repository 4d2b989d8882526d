// Package daynight binds the user toggle to the sky programs, the camera and
// light flights and the firefly visibility.
package daynight

import (
	"LotusPond/internal/flight"
	"LotusPond/internal/logger"
	"LotusPond/internal/transition"
	"LotusPond/internal/tween"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

type Mode int

const (
	Night Mode = iota
	Day
)

func (m Mode) String() string {
	if m == Day {
		return "Day"
	}
	return "Night"
}

// Flight destinations for each mode.
var (
	NearCamera = mgl32.Vec3{0, 30, 100}
	HighLight  = mgl32.Vec3{0, 100, 0}
	WideCamera = mgl32.Vec3{100, 50, -100}
	LowLight   = mgl32.Vec3{0, 28, 0}
)

const (
	OverlayDelay = 500 * time.Millisecond
	RevealDelay  = 100 * time.Millisecond
)

type Visible interface {
	SetVisible(bool)
}

// ModeIndicator shows the current mode to the user.
type ModeIndicator interface {
	SetMode(Mode)
}

// Overlay is the loading screen hidden before the reveal.
type Overlay interface {
	Hide()
}

// Targets are the scene objects the controller drives.
type Targets struct {
	Camera    tween.Positioner
	Light     tween.Positioner
	Particles []Visible
	Indicator ModeIndicator
}

type timer struct {
	at time.Duration
	fn func()
}

type Controller struct {
	mode      Mode
	revealed  bool
	scheduler *transition.Scheduler
	flights   *flight.Controller
	targets   Targets

	clock   time.Duration
	timers  []timer
	ready   <-chan struct{}
	overlay Overlay
	armed   bool
}

func New(scheduler *transition.Scheduler, flights *flight.Controller, targets Targets) *Controller {
	return &Controller{
		mode:      Night,
		scheduler: scheduler,
		flights:   flights,
		targets:   targets,
	}
}

func (c *Controller) Mode() Mode {
	return c.mode
}

func (c *Controller) Revealed() bool {
	return c.revealed
}

// ArmReveal waits for ready to close, hides the overlay OverlayDelay later
// and reveals the scene RevealDelay after that. Only the first call counts.
func (c *Controller) ArmReveal(ready <-chan struct{}, overlay Overlay) {
	if c.armed {
		return
	}
	c.armed = true
	c.ready = ready
	c.overlay = overlay
}

// Update advances the controller clock, firing due delays.
func (c *Controller) Update(elapsed time.Duration) {
	c.clock += elapsed

	if c.ready != nil {
		select {
		case <-c.ready:
			c.ready = nil
			c.after(OverlayDelay, func() {
				if c.overlay != nil {
					c.overlay.Hide()
				}
				c.after(RevealDelay, c.reveal)
			})
		default:
		}
	}

	for len(c.timers) > 0 {
		due := -1
		for i, t := range c.timers {
			if t.at <= c.clock && (due < 0 || t.at < c.timers[due].at) {
				due = i
			}
		}
		if due < 0 {
			return
		}
		t := c.timers[due]
		c.timers = append(c.timers[:due], c.timers[due+1:]...)
		t.fn()
	}
}

func (c *Controller) after(d time.Duration, fn func()) {
	c.timers = append(c.timers, timer{at: c.clock + d, fn: fn})
}

func (c *Controller) reveal() {
	if c.revealed {
		return
	}
	c.revealed = true
	logger.Log.Info("Scene revealed")
	c.switchMode()
}

// Toggle switches between day and night. It is ignored until the scene has
// been revealed.
func (c *Controller) Toggle() bool {
	if !c.revealed {
		logger.Log.Debug("Toggle ignored, scene still loading")
		return false
	}
	c.switchMode()
	return true
}

func (c *Controller) switchMode() {
	var (
		camera, light mgl32.Vec3
		dir           transition.Direction
		particles     bool
		next          Mode
	)
	if c.mode == Day {
		camera, light, dir, particles, next = NearCamera, HighLight, transition.ToNight, true, Night
	} else {
		camera, light, dir, particles, next = WideCamera, LowLight, transition.ToDay, false, Day
	}

	c.scheduler.Cancel()
	if c.targets.Camera != nil {
		c.flights.FlyTo(c.targets.Camera, camera)
	}
	if c.targets.Light != nil {
		c.flights.FlyTo(c.targets.Light, light)
	}
	c.scheduler.Start(dir)
	for _, p := range c.targets.Particles {
		p.SetVisible(particles)
	}
	c.mode = next
	if c.targets.Indicator != nil {
		c.targets.Indicator.SetMode(next)
	}

	logger.Log.Info("Mode switched",
		zap.Stringer("mode", next),
		zap.Stringer("direction", dir))
}
