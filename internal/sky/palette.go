package sky

import (
	"github.com/go-gl/mathgl/mgl32"
)

// palette is the sky colour for one sun height (y of the sun direction).
type palette struct {
	sunY    float32
	zenith  mgl32.Vec3
	horizon mgl32.Vec3
	ground  mgl32.Vec3
}

// palettes are ordered by sunY.
var palettes = []palette{
	{ // midnight
		sunY:    -1.0,
		zenith:  mgl32.Vec3{0.02, 0.03, 0.10},
		horizon: mgl32.Vec3{0.04, 0.04, 0.08},
		ground:  mgl32.Vec3{0.01, 0.01, 0.02},
	},
	{ // twilight
		sunY:    -0.05,
		zenith:  mgl32.Vec3{0.08, 0.10, 0.28},
		horizon: mgl32.Vec3{0.50, 0.22, 0.28},
		ground:  mgl32.Vec3{0.04, 0.03, 0.04},
	},
	{ // golden hour
		sunY:    0.10,
		zenith:  mgl32.Vec3{0.14, 0.20, 0.60},
		horizon: mgl32.Vec3{0.90, 0.52, 0.18},
		ground:  mgl32.Vec3{0.08, 0.07, 0.06},
	},
	{ // noon
		sunY:    0.60,
		zenith:  mgl32.Vec3{0.20, 0.42, 0.90},
		horizon: mgl32.Vec3{0.58, 0.75, 0.95},
		ground:  mgl32.Vec3{0.12, 0.10, 0.08},
	},
}

func lerpVec(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func samplePalette(sunY float32) palette {
	if sunY <= palettes[0].sunY {
		return palettes[0]
	}
	for i := 1; i < len(palettes); i++ {
		a, b := palettes[i-1], palettes[i]
		if sunY <= b.sunY {
			t := (sunY - a.sunY) / (b.sunY - a.sunY)
			return palette{
				sunY:    sunY,
				zenith:  lerpVec(a.zenith, b.zenith, t),
				horizon: lerpVec(a.horizon, b.horizon, t),
				ground:  lerpVec(a.ground, b.ground, t),
			}
		}
	}
	return palettes[len(palettes)-1]
}

// brightness scales the palette by the scattering strength. A zero Rayleigh
// coefficient is the moonlit sky.
func brightness(rayleigh float32) float32 {
	b := rayleigh / 2
	if b < 0.15 {
		return 0.15
	}
	if b > 1.2 {
		return 1.2
	}
	return b
}

// SkyColor is the horizon colour for the given sun direction, used to clear
// the frame behind the sky dome.
func SkyColor(sunDir mgl32.Vec3, rayleigh float32) mgl32.Vec3 {
	return clampColor(samplePalette(sunDir.Y()).horizon.Mul(brightness(rayleigh)))
}

func clampColor(c mgl32.Vec3) mgl32.Vec3 {
	for i := range c {
		c[i] = mgl32.Clamp(c[i], 0, 1)
	}
	return c
}
