package tween

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
)

// Positioner is anything a tween can move: cameras, lights, scene nodes.
type Positioner interface {
	GetPosition() mgl32.Vec3
	SetPositionVec(mgl32.Vec3)
}

// Tween interpolates the position of one target. The start position is
// captured when the tween is created; the clock starts at the first Update
// that sees it.
type Tween struct {
	target   Positioner
	from, to mgl32.Vec3
	duration time.Duration
	easing   Easing

	progress   *gween.Tween // 0 to 1 over duration
	last       time.Duration
	finished   bool
	stopped    bool
	onComplete func()
}

func New(target Positioner, to mgl32.Vec3, duration time.Duration) *Tween {
	return &Tween{
		target:   target,
		from:     target.GetPosition(),
		to:       to,
		duration: duration,
		easing:   Linear,
	}
}

func (t *Tween) Easing(e Easing) *Tween {
	if e != nil {
		t.easing = e
	}
	return t
}

func (t *Tween) OnComplete(fn func()) *Tween {
	t.onComplete = fn
	return t
}

func (t *Tween) Target() Positioner {
	return t.target
}

func (t *Tween) From() mgl32.Vec3 {
	return t.from
}

func (t *Tween) To() mgl32.Vec3 {
	return t.to
}

// Stop freezes the target where it is. The tween is dropped by its group on
// the next Update.
func (t *Tween) Stop() {
	t.stopped = true
}

// Done reports whether the tween finished or was stopped.
func (t *Tween) Done() bool {
	return t.finished || t.stopped
}

// Update moves the target for the absolute time now and reports whether the
// tween is still running.
func (t *Tween) Update(now time.Duration) bool {
	if t.Done() {
		return false
	}
	if t.progress == nil {
		if t.duration <= 0 {
			t.finish()
			return false
		}
		t.progress = gween.New(0, 1, float32(t.duration.Seconds()), t.easing)
		t.last = now
	}

	dt := now - t.last
	if dt < 0 {
		dt = 0
	}
	t.last = now
	k, finished := t.progress.Update(float32(dt.Seconds()))
	if finished {
		t.finish()
		return false
	}
	t.target.SetPositionVec(t.from.Add(t.to.Sub(t.from).Mul(k)))
	return true
}

func (t *Tween) finish() {
	t.target.SetPositionVec(t.to)
	t.finished = true
	if t.onComplete != nil {
		t.onComplete()
	}
}
