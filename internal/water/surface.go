// Package water holds the pond surface and the parameters of its shader.
package water

import (
	"LotusPond/internal/loader"
	"LotusPond/internal/renderer"
	"LotusPond/internal/sky"
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// FrameStep is how far the surface time moves every rendered frame.
const FrameStep = float32(1.0 / 60.0)

const (
	UniformTime            = "time"
	UniformDistortionScale = "distortionScale"
	UniformWaterColor      = "waterColor"
)

const (
	DefaultSize            = 10000
	DefaultResolution      = 64
	DefaultDistortionScale = 3.7
)

// DefaultColor is #336600.
var DefaultColor = mgl32.Vec3{0x33 / 255.0, 0x66 / 255.0, 0}

type Surface struct {
	Node     *renderer.Node
	Uniforms *renderer.UniformSet
}

func NewSurface(size float32, resolution int) *Surface {
	u := renderer.NewUniformSet()
	u.SetFloat(UniformTime, 0)
	u.SetFloat(UniformDistortionScale, DefaultDistortionScale)
	u.SetVec3(UniformWaterColor, DefaultColor)
	u.SetVec3(sky.UniformSunDirection, mgl32.Vec3{0, 1, 0})

	mesh := loader.LoadPlane(size, resolution)
	mesh.Color = DefaultColor

	node := renderer.NewNode("water")
	node.Mesh = mesh
	node.Shader = renderer.NewWaterShader()
	node.Uniforms = u
	return &Surface{Node: node, Uniforms: u}
}

// SetNormalMap attaches the ripple normals texture once it has loaded.
func (s *Surface) SetNormalMap(img image.Image) {
	s.Node.Mesh.Texture = img
}

// Advance moves the surface animation one frame forward.
func (s *Surface) Advance() float32 {
	return s.Uniforms.AddFloat(UniformTime, FrameStep)
}

func (s *Surface) Time() float32 {
	t, _ := s.Uniforms.Float(UniformTime)
	return t
}

func (s *Surface) SetDistortionScale(v float32) {
	s.Uniforms.SetFloat(UniformDistortionScale, v)
}
