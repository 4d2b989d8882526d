package tween

import "github.com/tanema/gween/ease"

// Easing maps elapsed time t of duration d onto begin b plus change c.
type Easing = ease.TweenFunc

var (
	Linear         Easing = ease.Linear
	QuadraticIn    Easing = ease.InQuad
	QuadraticOut   Easing = ease.OutQuad
	QuadraticInOut Easing = ease.InOutQuad
)
