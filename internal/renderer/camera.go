// camera.go
package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Camera struct {
	// HOT DATA - Accessed every frame for view/projection calculations
	Position   mgl32.Vec3 // Camera position in world space
	Target     mgl32.Vec3 // Point the camera looks at
	Up         mgl32.Vec3 // Up direction vector
	Projection mgl32.Mat4 // Projection matrix

	// COLD DATA - Configuration, accessed when the window changes
	Fov         float32 // Vertical field of view in degrees
	Near        float32 // Near clipping plane
	Far         float32 // Far clipping plane
	AspectRatio float32 // Screen aspect ratio

	Name string
}

// NewPerspectiveCamera creates a camera looking at the origin.
func NewPerspectiveCamera(fov, aspect, near, far float32) *Camera {
	camera := Camera{
		Position:    mgl32.Vec3{0, 0, 1},
		Up:          mgl32.Vec3{0, 1, 0},
		Fov:         fov,
		Near:        near,
		Far:         far,
		AspectRatio: aspect,
	}
	camera.UpdateProjection()
	return &camera
}

func NewDefaultCamera(width int32, height int32) *Camera {
	cam := NewPerspectiveCamera(75, float32(width)/float32(height), 0.1, 5000)
	cam.Position = mgl32.Vec3{0, 5, 50}
	return cam
}

func (c *Camera) UpdateProjection() {
	c.Projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.Near, c.Far)
}

func (c *Camera) SetAspectRatio(aspectRatio float32) {
	c.AspectRatio = aspectRatio
	c.UpdateProjection()
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return c.Projection
}

func (c *Camera) GetViewProjection() mgl32.Mat4 {
	return c.Projection.Mul4(c.GetViewMatrix())
}

func (c *Camera) LookAt(target mgl32.Vec3) {
	c.Target = target
}

// Front returns the normalized viewing direction.
func (c *Camera) Front() mgl32.Vec3 {
	d := c.Target.Sub(c.Position)
	if d.Len() == 0 {
		return mgl32.Vec3{0, 0, -1}
	}
	return d.Normalize()
}

func (c *Camera) GetPosition() mgl32.Vec3 {
	return c.Position
}

func (c *Camera) SetPositionVec(p mgl32.Vec3) {
	c.Position = p
}
