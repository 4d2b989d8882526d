package pond

import (
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"LotusPond/internal/config"
	"LotusPond/internal/loader"
	"LotusPond/internal/logger"
	"LotusPond/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newPond(t *testing.T) *Pond {
	t.Helper()
	t.Cleanup(logger.Replace(zaptest.NewLogger(t)))
	return Build(config.Default())
}

func TestBuildStaticScene(t *testing.T) {
	p := newPond(t)

	assert.Equal(t, mgl32.Vec3{0, 5, 50}, p.Camera.Position)
	assert.Equal(t, LightPosition, p.Light.Position)
	assert.Equal(t, -1, p.SkyNode.RenderOrder)
	assert.Equal(t, mgl32.Vec3{SkyScale, SkyScale, SkyScale}, p.SkyNode.Scale)
	assert.NotNil(t, p.Scene.Root.Find("water"))
	assert.NotNil(t, p.Scene.Environment(), "initial sky should be baked")
	assert.Equal(t, 1, p.Sky.Applied())

	assert.False(t, p.Controls.EnablePan)
	assert.True(t, p.Controls.EnableDamping)
	assert.Equal(t, float32(5), p.Controls.MinDistance)
	assert.Equal(t, float32(100), p.Controls.MaxDistance)
}

func TestFireflies(t *testing.T) {
	p := newPond(t)
	low, high := p.Fireflies[0], p.Fireflies[1]

	require.Equal(t, FireflyCount, low.Points.Count())
	assert.Same(t, low.Points, high.Points)
	for i := 0; i < low.Points.Count(); i++ {
		x, y, z := low.Points.Positions[i*3], low.Points.Positions[i*3+1], low.Points.Positions[i*3+2]
		assert.Equal(t, float32(FireflyHeight), y)
		assert.True(t, x >= -100 && x <= 100, "x out of range: %f", x)
		assert.True(t, z >= -100 && z <= 100, "z out of range: %f", z)
	}
	assert.Equal(t, float32(HighFlyHeight), high.Position.Y())
	assert.Equal(t, mgl32.Vec3{3, 3, 3}, high.Scale)
	assert.Len(t, p.Particles(), 2)

	p.Particles()[1].SetVisible(false)
	assert.False(t, high.Visible)
}

func TestScatterRing(t *testing.T) {
	pts := Scatter(LeafCount, leafInner, leafOuter, LeafScale, 7)
	require.Len(t, pts, LeafCount)
	for _, v := range pts {
		r := math.Hypot(float64(v.X()), float64(v.Z()))
		assert.Equal(t, float32(0), v.Y())
		// distance is 1 + 2*10 = 21
		assert.True(t, r >= 42-1e-3 && r <= 63+1e-3, "radius %f outside ring", r)
	}
	assert.Equal(t, pts, Scatter(LeafCount, leafInner, leafOuter, LeafScale, 7), "same seed must give the same layout")
	assert.NotEqual(t, pts, Scatter(LeafCount, leafInner, leafOuter, LeafScale, 8))
}

func TestAddModels(t *testing.T) {
	p := newPond(t)
	base := p.Behaviours.Len()

	p.AddLotus(&loader.Model{Root: renderer.NewNode("lotus")})
	assert.Equal(t, mgl32.Vec3{100, 100, 100}, p.Lotus.Scale)
	assert.Equal(t, base+4, p.Behaviours.Len())

	wing := renderer.NewNode("wing")
	bird := renderer.NewNode("bird")
	bird.Add(wing)
	clip := &renderer.AnimationClip{Name: "fly", Duration: 1}
	p.AddBird(&loader.Model{Root: bird, Clips: []*renderer.AnimationClip{clip}})
	assert.Equal(t, BirdPosition, p.Bird.Position)
	assert.Equal(t, mgl32.Vec3{10, 10, 10}, p.Bird.Scale)
	assert.Equal(t, base+5, p.Behaviours.Len())

	p.AddLeaves(&loader.Model{Root: renderer.NewNode("leaf")})
	assert.Len(t, p.Leaves, LeafCount)

	p.AddMountains(&loader.Model{Root: renderer.NewNode("mountain")})
	require.Len(t, p.Mountains, MountainCount)
	for _, m := range p.Mountains {
		assert.Equal(t, MountainScale, m.Scale)
		r := math.Hypot(float64(m.Position.X()), float64(m.Position.Z()))
		assert.True(t, r >= 25*81-1e-2 && r <= 60*81+1e-2, "radius %f outside ring", r)
	}
}

func TestFirefliesWaitForLotus(t *testing.T) {
	p := newPond(t)
	p.Behaviours.UpdateAll(1, 1)
	assert.Equal(t, float32(0), p.Fireflies[0].Rotation.Y())
	assert.Equal(t, float32(0), p.Fireflies[1].Rotation.Y())

	p.AddLotus(&loader.Model{Root: renderer.NewNode("lotus")})
	p.Behaviours.UpdateAll(1, 2)
	assert.NotEqual(t, float32(0), p.Fireflies[0].Rotation.Y())
	assert.NotEqual(t, float32(0), p.Fireflies[1].Rotation.Y())

	n := p.Behaviours.Len()
	p.AddLotus(&loader.Model{Root: renderer.NewNode("second")})
	assert.Equal(t, n, p.Behaviours.Len(), "a second lotus must not spin the fireflies twice")
	assert.Equal(t, "lotus", p.Lotus.Name)
}

func TestApplyIdle(t *testing.T) {
	p := newPond(t)
	p.AddLotus(&loader.Model{Root: renderer.NewNode("lotus")})

	idle := config.Idle{LotusSpin: 0.1, FireflySpin: 0.2, HighFlySpin: 0.3, LotusBobSpeed: 0.4}
	p.ApplyIdle(idle)
	p.Behaviours.UpdateAll(0.016, 0)

	assert.InDelta(t, 0.1, p.Lotus.Rotation.Y(), 1e-6)
	assert.InDelta(t, 0.2, p.Fireflies[0].Rotation.Y(), 1e-6)
	assert.InDelta(t, 0.3, p.Fireflies[1].Rotation.Y(), 1e-6)
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	require.NoError(t, f.Close())
}

func TestLoadDeliversImagesAndSkipsMissingModels(t *testing.T) {
	p := newPond(t)
	assets := config.Default().Assets
	assets.Dir = t.TempDir()
	assets.WaterNormals = "normals.png"
	assets.ParticleDisc = "disc.png"
	writePNG(t, filepath.Join(assets.Dir, assets.WaterNormals))
	writePNG(t, filepath.Join(assets.Dir, assets.ParticleDisc))

	l := loader.NewLoader(loader.NewManager(), 2)
	defer l.Close()
	p.Load(l, assets)

	deadline := time.After(5 * time.Second)
	for done := false; !done; {
		l.Poll()
		select {
		case <-l.Manager().Ready():
			done = true
		case <-deadline:
			t.Fatal("pond assets never finished loading")
		case <-time.After(5 * time.Millisecond):
		}
	}

	assert.Equal(t, 1.0, l.Manager().Ratio())
	assert.NotNil(t, p.Water.Node.Mesh.Texture)
	assert.NotNil(t, p.Fireflies[1].Points.Sprite)
	assert.Nil(t, p.Lotus, "missing model must be skipped")
	assert.Equal(t, 4, l.Manager().Progress().Failed)
}
