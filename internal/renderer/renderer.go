package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

var Debug bool = false
var DepthTestEnabled bool = true

type Light struct {
	Position        mgl32.Vec3
	Color           mgl32.Vec3
	Intensity       float32
	Mode            string // "directional", "point", "spot"
	AmbientStrength float32
	Direction       mgl32.Vec3
	Angle           float32 // spot cone half angle in radians
}

// CreateSpotLight creates a white spot light pointing at the origin.
func CreateSpotLight(position mgl32.Vec3, color mgl32.Vec3) *Light {
	return &Light{
		Position:        position,
		Color:           color,
		Intensity:       1.0,
		Mode:            "spot",
		AmbientStrength: 0.1,
		Direction:       mgl32.Vec3{0, -1, 0},
		Angle:           mgl32.DegToRad(60),
	}
}

func (l *Light) GetPosition() mgl32.Vec3 {
	return l.Position
}

func (l *Light) SetPositionVec(p mgl32.Vec3) {
	l.Position = p
	if p.Len() > 0 {
		// Spot lights keep looking at the pond centre.
		l.Direction = p.Mul(-1).Normalize()
	}
}

// Render is the per frame drawing backend. The OpenGL implementation is the
// only one shipped; tests use fakes.
type Render interface {
	Init(width, height int32)
	Render(scene *Scene, camera *Camera, light *Light)
	UpdateViewport(width, height int32)
	Cleanup()
}
