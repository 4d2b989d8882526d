// Package flight moves cameras and lights to new positions with eased tweens.
package flight

import (
	"LotusPond/internal/logger"
	"LotusPond/internal/tween"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const DefaultDuration = 3000 * time.Millisecond

// Controller starts flights on a shared tween group. At most one flight per
// entity is in progress; a new one stops the previous in place.
type Controller struct {
	group  *tween.Group
	active map[tween.Positioner]*tween.Tween
}

func NewController(group *tween.Group) *Controller {
	return &Controller{
		group:  group,
		active: make(map[tween.Positioner]*tween.Tween),
	}
}

// FlyTo moves entity to target over three seconds with quadratic in-out
// easing.
func (c *Controller) FlyTo(entity tween.Positioner, target mgl32.Vec3) *tween.Tween {
	return c.FlyToWith(entity, target, DefaultDuration, tween.QuadraticInOut)
}

func (c *Controller) FlyToWith(entity tween.Positioner, target mgl32.Vec3, duration time.Duration, easing tween.Easing) *tween.Tween {
	c.Cancel(entity)

	var tw *tween.Tween
	tw = tween.New(entity, target, duration).
		Easing(easing).
		OnComplete(func() {
			if c.active[entity] == tw {
				delete(c.active, entity)
			}
		})
	c.active[entity] = tw
	c.group.Add(tw)

	logger.Log.Debug("Flight started",
		zap.Float32("x", target.X()),
		zap.Float32("y", target.Y()),
		zap.Float32("z", target.Z()),
		zap.Duration("duration", duration))
	return tw
}

// Cancel stops the flight of entity, leaving it where it is.
func (c *Controller) Cancel(entity tween.Positioner) {
	if tw, ok := c.active[entity]; ok {
		tw.Stop()
		delete(c.active, entity)
	}
}

func (c *Controller) Flying(entity tween.Positioner) bool {
	_, ok := c.active[entity]
	return ok
}
