// Package pond assembles the lotus pond scene and places the loaded models.
package pond

import (
	"image"
	"math"
	"math/rand"
	"path/filepath"

	"LotusPond/internal/behaviour"
	"LotusPond/internal/config"
	"LotusPond/internal/daynight"
	"LotusPond/internal/loader"
	"LotusPond/internal/logger"
	"LotusPond/internal/renderer"
	"LotusPond/internal/sky"
	"LotusPond/internal/water"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	SkyScale      = 10000
	FireflyCount  = 100
	FireflyHeight = 7
	FireflySpread = 200
	FireflySize   = 0.7
	HighFlyHeight = 70
	HighFlyScale  = 3
	LotusScale    = 100
	BirdScale     = 10
	LeafScale     = 10
	LeafCount     = 50
	MountainCount = 10
	leafInner     = 2
	leafOuter     = 3
	mountainInner = 25
	mountainOuter = 60
	ringMinimum   = 1
	scatterNoise  = 0.37
	scatterWobble = 0.5
)

var (
	LightPosition = mgl32.Vec3{0, 100, 0}
	BirdPosition  = mgl32.Vec3{-60, 0, -1500}
	MountainScale = mgl32.Vec3{40, 25, 40}
	// FireflyColor is hsl(0.1667, 1, 0.5)
	FireflyColor  = mgl32.Vec3{1, 1, 0}
)

type Pond struct {
	// HOT DATA - touched every frame
	Scene      *renderer.Scene
	Camera     *renderer.Camera
	Controls   *renderer.OrbitControls
	Light      *renderer.Light
	Water      *water.Surface
	Behaviours *behaviour.Manager

	// COLD DATA - scene content
	Sky       *sky.Model
	SkyNode   *renderer.Node
	Fireflies [2]*renderer.Node
	Lotus     *renderer.Node
	Bird      *renderer.Node
	Leaves    []*renderer.Node
	Mountains []*renderer.Node

	seed        int64
	idle        config.Idle
	lotusSpin   *behaviour.Spin
	fireflySpin *behaviour.Spin
	highFlySpin *behaviour.Spin
	bob         *behaviour.Bob
}

// Build creates the static part of the scene. Models arrive later through
// Load.
func Build(cfg config.Config) *Pond {
	scene := renderer.NewScene()
	p := &Pond{
		Scene:      scene,
		Camera:     renderer.NewDefaultCamera(cfg.Window.Width, cfg.Window.Height),
		Light:      renderer.CreateSpotLight(LightPosition, mgl32.Vec3{1, 1, 1}),
		Water:      water.NewSurface(water.DefaultSize, water.DefaultResolution),
		Behaviours: behaviour.NewManager(),
		seed:       cfg.Seed,
		idle:       cfg.Idle,
	}

	p.Controls = renderer.NewOrbitControls(p.Camera)
	p.Controls.EnableDamping = true
	p.Controls.EnablePan = false
	p.Controls.MinDistance = 5
	p.Controls.MaxDistance = 100
	p.Controls.MaxPolarAngle = math.Pi/2 - 0.05

	p.SkyNode = renderer.NewNode("sky")
	p.SkyNode.Mesh = loader.LoadBox()
	p.SkyNode.Shader = renderer.NewSkyShader()
	p.SkyNode.Uniforms = renderer.NewUniformSet()
	p.SkyNode.RenderOrder = -1
	p.SkyNode.SetScalar(SkyScale)

	scene.Add(p.Water.Node)
	scene.Add(p.SkyNode)

	rng := rand.New(rand.NewSource(cfg.Seed))
	low := renderer.NewNode("fireflies")
	low.Points = NewFireflies(FireflyCount, rng)
	high := low.Clone()
	high.Name = "fireflies-high"
	high.Position[1] = HighFlyHeight
	high.SetScalar(HighFlyScale)
	p.Fireflies = [2]*renderer.Node{low, high}
	scene.Add(low)
	scene.Add(high)

	// the fireflies start circling once the lotus is in place
	p.fireflySpin = &behaviour.Spin{Node: low, Speed: cfg.Idle.FireflySpin}
	p.highFlySpin = &behaviour.Spin{Node: high, Speed: cfg.Idle.HighFlySpin}

	p.Sky = sky.NewModel(scene, p.SkyNode.Uniforms, p.Water.Uniforms, sky.NewBaker())
	p.Sky.Apply(sky.InitialParameters(), false)

	logger.Log.Info("Pond scene built",
		zap.Int("fireflies", FireflyCount*2),
		zap.Int64("seed", cfg.Seed))
	return p
}

// NewFireflies scatters count points over a square at firefly height.
func NewFireflies(count int, rng *rand.Rand) *renderer.Points {
	pts := &renderer.Points{
		Positions: make([]float32, 0, count*3),
		Size:      FireflySize,
		Color:     FireflyColor,
		AlphaTest: 0.1,
	}
	for i := 0; i < count; i++ {
		x := FireflySpread*rng.Float32() - FireflySpread/2
		z := FireflySpread*rng.Float32() - FireflySpread/2
		pts.Positions = append(pts.Positions, x, FireflyHeight, z)
	}
	return pts
}

// Particles are the nodes whose visibility follows the day/night mode.
func (p *Pond) Particles() []daynight.Visible {
	return []daynight.Visible{p.Fireflies[0], p.Fireflies[1]}
}

// Load queues every asset and seals the manager. Callbacks run on the render
// goroutine from Loader.Poll.
func (p *Pond) Load(l *loader.Loader, assets config.Assets) {
	path := func(rel string) string { return filepath.Join(assets.Dir, rel) }

	l.LoadImage(path(assets.WaterNormals), p.Water.SetNormalMap)
	l.LoadImage(path(assets.ParticleDisc), p.SetSprite)
	l.LoadModel(path(assets.Lotus), p.AddLotus)
	l.LoadModel(path(assets.Bird), p.AddBird)
	l.LoadModel(path(assets.Leaf), p.AddLeaves)
	l.LoadModel(path(assets.Mountain), p.AddMountains)
	l.Manager().Seal()
}

func (p *Pond) SetSprite(img image.Image) {
	// both clouds share one point buffer
	p.Fireflies[0].Points.Sprite = img
}

func (p *Pond) AddLotus(m *loader.Model) {
	if p.Lotus != nil {
		logger.Log.Warn("Lotus already placed, ignoring", zap.String("name", m.Root.Name))
		return
	}
	p.Lotus = m.Root
	p.Lotus.SetScalar(LotusScale)
	p.Scene.Add(p.Lotus)

	p.lotusSpin = &behaviour.Spin{Node: p.Lotus, Speed: p.idle.LotusSpin}
	p.bob = behaviour.NewLotusBob(p.Lotus, p.idle.LotusBobSpeed)
	p.Behaviours.Add(p.lotusSpin)
	p.Behaviours.Add(p.bob)
	p.Behaviours.Add(p.fireflySpin)
	p.Behaviours.Add(p.highFlySpin)
	logger.Log.Info("Lotus placed")
}

func (p *Pond) AddBird(m *loader.Model) {
	p.Bird = m.Root
	p.Bird.SetScalar(BirdScale)
	p.Bird.Position = BirdPosition
	p.Scene.Add(p.Bird)

	if len(m.Clips) > 0 {
		p.Behaviours.Add(behaviour.NewMixer(m.Clips...))
	}
	logger.Log.Info("Bird placed", zap.Int("clips", len(m.Clips)))
}

func (p *Pond) AddLeaves(m *loader.Model) {
	m.Root.SetScalar(LeafScale)
	p.Leaves = p.scatterClones(m.Root, LeafCount, leafInner, leafOuter, 1)
	logger.Log.Info("Leaves placed", zap.Int("count", len(p.Leaves)))
}

func (p *Pond) AddMountains(m *loader.Model) {
	m.Root.Scale = MountainScale
	p.Mountains = p.scatterClones(m.Root, MountainCount, mountainInner, mountainOuter, 2)
	logger.Log.Info("Mountains placed", zap.Int("count", len(p.Mountains)))
}

func (p *Pond) scatterClones(template *renderer.Node, count int, inner, outer float64, stream int64) []*renderer.Node {
	positions := Scatter(count, inner, outer, float64(template.Scale.X()), p.seed+stream)
	clones := make([]*renderer.Node, 0, count)
	for _, pos := range positions {
		c := template.Clone()
		c.Position = pos
		p.Scene.Add(c)
		clones = append(clones, c)
	}
	return clones
}

// Scatter places count points on the ground ring between inner and outer
// times the clone distance (1 + 2*scale). Perlin noise clumps the radii so
// the ring does not look uniformly sprinkled.
func Scatter(count int, inner, outer, scale float64, seed int64) []mgl32.Vec3 {
	rng := rand.New(rand.NewSource(seed))
	noise := perlin.NewPerlin(2, 2, 3, seed)
	distance := ringMinimum + scale*2

	out := make([]mgl32.Vec3, 0, count)
	for i := 0; i < count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		f := rng.Float64() + noise.Noise1D(float64(i)*scatterNoise)*scatterWobble
		f = math.Max(0, math.Min(1, f))
		r := (f*(outer-inner) + inner) * distance
		out = append(out, mgl32.Vec3{float32(math.Cos(angle) * r), 0, float32(math.Sin(angle) * r)})
	}
	return out
}

// ApplyIdle changes the idle animation speeds. It must run on the render
// goroutine.
func (p *Pond) ApplyIdle(idle config.Idle) {
	p.idle = idle
	p.fireflySpin.Speed = idle.FireflySpin
	p.highFlySpin.Speed = idle.HighFlySpin
	if p.lotusSpin != nil {
		p.lotusSpin.Speed = idle.LotusSpin
	}
	if p.bob != nil {
		p.bob.Speed = idle.LotusBobSpeed
	}
}
