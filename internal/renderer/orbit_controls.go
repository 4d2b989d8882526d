package renderer

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const orbitEPS = 0.000001

// OrbitControls rotates and dollies a camera around a target point. Input
// handlers feed Rotate and Dolly; Update must run once per frame and applies
// the accumulated motion with optional damping.
type OrbitControls struct {
	Camera *Camera
	Target mgl32.Vec3

	EnableDamping bool
	DampingFactor float32
	EnablePan     bool
	MinDistance   float32
	MaxDistance   float32
	MinPolarAngle float32
	MaxPolarAngle float32
	RotateSpeed   float32

	deltaTheta float32
	deltaPhi   float32
	scale      float32
}

func NewOrbitControls(camera *Camera) *OrbitControls {
	return &OrbitControls{
		Camera:        camera,
		Target:        camera.Target,
		DampingFactor: 0.05,
		MinDistance:   0,
		MaxDistance:   math32.Inf(1),
		MinPolarAngle: 0,
		MaxPolarAngle: math32.Pi,
		RotateSpeed:   1,
		scale:         1,
	}
}

// Rotate queues a rotation given as a pointer movement in pixels relative to
// a viewport of the given height.
func (oc *OrbitControls) Rotate(dx, dy float32, viewportHeight float32) {
	if viewportHeight <= 0 {
		return
	}
	oc.deltaTheta -= 2 * math32.Pi * dx / viewportHeight * oc.RotateSpeed
	oc.deltaPhi -= 2 * math32.Pi * dy / viewportHeight * oc.RotateSpeed
}

// Dolly queues a zoom. Factors above one move the camera closer.
func (oc *OrbitControls) Dolly(factor float32) {
	if factor > 0 {
		oc.scale /= factor
	}
}

// Pan is accepted only when panning is enabled.
func (oc *OrbitControls) Pan(offset mgl32.Vec3) {
	if !oc.EnablePan {
		return
	}
	oc.Target = oc.Target.Add(offset)
	oc.Camera.Position = oc.Camera.Position.Add(offset)
}

// Update applies queued motion and the distance and polar limits, then
// points the camera at the target. It reports whether the camera moved.
func (oc *OrbitControls) Update() bool {
	cam := oc.Camera
	offset := cam.Position.Sub(oc.Target)

	radius := offset.Len()
	theta := math32.Atan2(offset.X(), offset.Z())
	phi := float32(0)
	if radius > 0 {
		phi = math32.Acos(clamp(offset.Y()/radius, -1, 1))
	}

	if oc.EnableDamping {
		theta += oc.deltaTheta * oc.DampingFactor
		phi += oc.deltaPhi * oc.DampingFactor
	} else {
		theta += oc.deltaTheta
		phi += oc.deltaPhi
	}

	phi = clamp(phi, oc.MinPolarAngle, oc.MaxPolarAngle)
	phi = clamp(phi, orbitEPS, math32.Pi-orbitEPS)
	radius = clamp(radius*oc.scale, oc.MinDistance, oc.MaxDistance)

	sinPhi := math32.Sin(phi)
	newOffset := mgl32.Vec3{
		radius * sinPhi * math32.Sin(theta),
		radius * math32.Cos(phi),
		radius * sinPhi * math32.Cos(theta),
	}
	prev := cam.Position
	cam.Position = oc.Target.Add(newOffset)
	cam.Target = oc.Target

	if oc.EnableDamping {
		oc.deltaTheta *= 1 - oc.DampingFactor
		oc.deltaPhi *= 1 - oc.DampingFactor
	} else {
		oc.deltaTheta, oc.deltaPhi = 0, 0
	}
	oc.scale = 1

	return cam.Position.Sub(prev).LenSqr() > orbitEPS
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}
