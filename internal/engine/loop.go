// Package engine runs the per frame update order of the pond and owns the
// OS window.
package engine

import (
	"time"

	"LotusPond/internal/config"
	"LotusPond/internal/daynight"
	"LotusPond/internal/flight"
	"LotusPond/internal/loader"
	"LotusPond/internal/logger"
	"LotusPond/internal/pond"
	"LotusPond/internal/renderer"
	"LotusPond/internal/transition"
	"LotusPond/internal/tween"

	"go.uber.org/zap"
)

// Loop advances every moving part of the scene once per frame. All of its
// methods except Reconfigure must run on the render goroutine.
type Loop struct {
	Pond      *pond.Pond
	Loader    *loader.Loader
	Scheduler *transition.Scheduler
	Tweens    *tween.Group
	Flights   *flight.Controller
	DayNight  *daynight.Controller
	Renderer  renderer.Render

	configs chan config.Config
	frames  uint64
}

func NewLoop(p *pond.Pond, l *loader.Loader, rend renderer.Render, indicator daynight.ModeIndicator) *Loop {
	lp := &Loop{
		Pond:      p,
		Loader:    l,
		Scheduler: transition.NewScheduler(p.Sky),
		Tweens:    tween.NewGroup(),
		Renderer:  rend,
		configs:   make(chan config.Config, 1),
	}
	lp.Flights = flight.NewController(lp.Tweens)
	lp.DayNight = daynight.New(lp.Scheduler, lp.Flights, daynight.Targets{
		Camera:    p.Camera,
		Light:     p.Light,
		Particles: p.Particles(),
		Indicator: indicator,
	})
	lp.Scheduler.OnSettle(func(d transition.Direction) {
		logger.Log.Debug("Sky settled", zap.Stringer("direction", d))
	})
	return lp
}

// Frame runs one frame. delta is the time since the previous frame and
// elapsed the time since the loop started.
func (lp *Loop) Frame(delta, elapsed time.Duration) {
	select {
	case cfg := <-lp.configs:
		lp.Pond.ApplyIdle(cfg.Idle)
	default:
	}

	if lp.Loader != nil {
		lp.Loader.Poll()
	}
	lp.DayNight.Update(delta)
	lp.Scheduler.Advance(delta)
	lp.Pond.Behaviours.UpdateAll(delta.Seconds(), elapsed.Seconds())
	lp.Tweens.Update(elapsed)
	lp.Pond.Controls.Update()
	lp.Pond.Water.Advance()

	if lp.Renderer != nil {
		lp.Renderer.Render(lp.Pond.Scene, lp.Pond.Camera, lp.Pond.Light)
	}
	lp.frames++
}

func (lp *Loop) Frames() uint64 {
	return lp.frames
}

// Reconfigure hands a reloaded config to the next frame. Only the newest
// pending config is kept. It is safe to call from any goroutine.
func (lp *Loop) Reconfigure(cfg config.Config) {
	for {
		select {
		case lp.configs <- cfg:
			return
		default:
		}
		select {
		case <-lp.configs:
		default:
		}
	}
}

// Toggle forwards a user toggle to the day/night controller.
func (lp *Loop) Toggle() {
	if !lp.DayNight.Toggle() {
		return
	}
	logger.Log.Debug("Toggle accepted", zap.Uint64("frame", lp.frames))
}

// Resize updates the projection and the backend viewport.
func (lp *Loop) Resize(width, height int32) {
	if width <= 0 || height <= 0 {
		return
	}
	lp.Pond.Camera.SetAspectRatio(float32(width) / float32(height))
	if lp.Renderer != nil {
		lp.Renderer.UpdateViewport(width, height)
	}
}

// Close releases the backend and stops the loader pool.
func (lp *Loop) Close() {
	if lp.Renderer != nil {
		lp.Renderer.Cleanup()
	}
	if lp.Loader != nil {
		lp.Loader.Close()
	}
	lp.Pond.Sky.Dispose()
}
