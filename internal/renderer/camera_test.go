package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewDefaultCamera(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	if cam == nil {
		t.Fatal("NewDefaultCamera returned nil")
	}

	if cam.Position != (mgl32.Vec3{0, 5, 50}) {
		t.Errorf("Expected start position (0,5,50), got %v", cam.Position)
	}

	if cam.Fov != 75 || cam.Near != 0.1 || cam.Far != 5000 {
		t.Errorf("Unexpected frustum fov=%v near=%v far=%v", cam.Fov, cam.Near, cam.Far)
	}
}

func TestCameraGetViewMatrix(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.Position = mgl32.Vec3{0, 0, 5}
	cam.Target = mgl32.Vec3{0, 0, 0}

	view := cam.GetViewMatrix()

	if view.At(3, 3) != 1.0 {
		t.Error("View matrix should be valid (w component = 1)")
	}

	// The origin ends up 5 units in front of the camera.
	p := view.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if math.Abs(float64(p.Z()+5)) > 1e-5 {
		t.Errorf("Expected origin at z=-5 in view space, got %v", p.Z())
	}
}

func TestCameraGetProjectionMatrix(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	proj := cam.GetProjectionMatrix()

	if proj.At(3, 3) != 0.0 {
		t.Error("Perspective projection should have w=0 at (3,3)")
	}
}

func TestCameraSetAspectRatioUpdatesProjection(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	before := cam.Projection

	cam.SetAspectRatio(2)

	if cam.Projection == before {
		t.Error("Projection should change with the aspect ratio")
	}
}

func TestCameraFront(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.Position = mgl32.Vec3{0, 0, 10}
	cam.LookAt(mgl32.Vec3{0, 0, 0})

	if !cam.Front().ApproxEqual(mgl32.Vec3{0, 0, -1}) {
		t.Errorf("Expected front (0,0,-1), got %v", cam.Front())
	}

	cam.Target = cam.Position
	if cam.Front() != (mgl32.Vec3{0, 0, -1}) {
		t.Errorf("Degenerate front should fall back to -Z, got %v", cam.Front())
	}
}

func TestCameraPositionAccessors(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	cam.SetPositionVec(mgl32.Vec3{10, 20, 30})

	if cam.GetPosition() != (mgl32.Vec3{10, 20, 30}) {
		t.Errorf("Expected position (10,20,30), got %v", cam.GetPosition())
	}
}

func TestLightFollowsPosition(t *testing.T) {
	light := CreateSpotLight(mgl32.Vec3{0, 100, 0}, mgl32.Vec3{1, 1, 1})

	light.SetPositionVec(mgl32.Vec3{0, 28, 0})

	if light.GetPosition() != (mgl32.Vec3{0, 28, 0}) {
		t.Errorf("Expected position (0,28,0), got %v", light.GetPosition())
	}
	if !light.Direction.ApproxEqual(mgl32.Vec3{0, -1, 0}) {
		t.Errorf("Spot light should aim at the origin, got %v", light.Direction)
	}
}
