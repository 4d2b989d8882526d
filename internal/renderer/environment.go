package renderer

import (
	"image"
	"math"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

var liveEnvironmentMaps atomic.Int64

// EnvironmentMap is a prefiltered ambient lighting image baked from the sky.
// It must be disposed before it is dropped; the OpenGL renderer attaches a
// hook that frees the GPU texture.
type EnvironmentMap struct {
	Image *image.RGBA

	average   mgl32.Vec3
	disposed  bool
	onDispose []func()
}

func NewEnvironmentMap(img *image.RGBA) *EnvironmentMap {
	liveEnvironmentMaps.Add(1)
	return &EnvironmentMap{Image: img, average: averageColor(img)}
}

// LiveEnvironmentMaps reports how many maps were created and not disposed.
func LiveEnvironmentMaps() int64 {
	return liveEnvironmentMaps.Load()
}

func (e *EnvironmentMap) OnDispose(fn func()) {
	e.onDispose = append(e.onDispose, fn)
}

// Dispose releases the map. Calling it twice is a no-op.
func (e *EnvironmentMap) Dispose() {
	if e == nil || e.disposed {
		return
	}
	e.disposed = true
	liveEnvironmentMaps.Add(-1)
	for _, fn := range e.onDispose {
		fn()
	}
	e.onDispose = nil
}

func (e *EnvironmentMap) Disposed() bool {
	return e.disposed
}

// Average is the mean colour of the map in linear 0..1 range, used as the
// ambient term.
func (e *EnvironmentMap) Average() mgl32.Vec3 {
	return e.average
}

// EquirectDirection maps texture coordinates of an environment map to a
// world direction. v runs from the zenith (0) to the nadir (1); u wraps the
// azimuth with +Z at 0.5. The shaders read the map with the inverse.
func EquirectDirection(u, v float64) mgl32.Vec3 {
	polar := v * math.Pi
	az := u*2*math.Pi - math.Pi
	return mgl32.Vec3{
		float32(math.Sin(polar) * math.Sin(az)),
		float32(math.Cos(polar)),
		float32(math.Sin(polar) * math.Cos(az)),
	}
}

func averageColor(img *image.RGBA) mgl32.Vec3 {
	if img == nil {
		return mgl32.Vec3{}
	}
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return mgl32.Vec3{}
	}
	var r, g, bl float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			r += float64(c.R)
			g += float64(c.G)
			bl += float64(c.B)
		}
	}
	d := float64(n) * 255
	return mgl32.Vec3{float32(r / d), float32(g / d), float32(bl / d)}
}
