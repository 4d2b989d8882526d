package sky

import (
	"LotusPond/internal/renderer"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/go-gl/mathgl/mgl32"
)

var ErrNoSunPosition = errors.New("sky uniforms carry no sun position")

// Baker renders the sky into a small equirectangular image and blurs it into
// an ambient environment map.
type Baker struct {
	Width      int
	Height     int
	BlurRadius float64
}

func NewBaker() *Baker {
	return &Baker{Width: 64, Height: 32, BlurRadius: 2}
}

func (b *Baker) Bake(u *renderer.UniformSet) (*renderer.EnvironmentMap, error) {
	if b.Width <= 0 || b.Height <= 0 {
		return nil, fmt.Errorf("bake environment: invalid size %dx%d", b.Width, b.Height)
	}
	sun, ok := u.Vec3(UniformSunPosition)
	if !ok {
		return nil, fmt.Errorf("bake environment: %w", ErrNoSunPosition)
	}
	if sun.Len() > 0 {
		sun = sun.Normalize()
	}
	rayleigh, _ := u.Float(UniformRayleigh)
	g, ok := u.Float(UniformMieDirectionalG)
	if !ok {
		g = mieDirectionalG
	}

	pal := samplePalette(sun.Y())
	bright := brightness(rayleigh)
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))

	for y := 0; y < b.Height; y++ {
		v := (float64(y) + 0.5) / float64(b.Height)
		for x := 0; x < b.Width; x++ {
			dir := renderer.EquirectDirection((float64(x)+0.5)/float64(b.Width), v)

			var c mgl32.Vec3
			if dir.Y() >= 0 {
				c = lerpVec(pal.horizon, pal.zenith, float32(math.Sqrt(float64(dir.Y()))))
			} else {
				c = lerpVec(pal.horizon, pal.ground, mgl32.Clamp(-dir.Y()*4, 0, 1))
			}
			c = c.Mul(bright)

			// forward scattering halo around the sun
			cosTheta := dir.Dot(sun)
			if cosTheta > 0 {
				halo := float32(math.Pow(float64(cosTheta), 64)) * g
				c = c.Add(mgl32.Vec3{1, 0.9, 0.7}.Mul(halo * bright))
			}
			c = clampColor(c)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(c.X()*255 + 0.5),
				G: uint8(c.Y()*255 + 0.5),
				B: uint8(c.Z()*255 + 0.5),
				A: 255,
			})
		}
	}

	if b.BlurRadius > 0 {
		img = blur.Gaussian(img, b.BlurRadius)
	}
	return renderer.NewEnvironmentMap(img), nil
}
