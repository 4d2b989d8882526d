package sky

import (
	"LotusPond/internal/logger"
	"LotusPond/internal/renderer"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Uniform names shared by the sky and water shaders.
const (
	UniformTurbidity       = "turbidity"
	UniformRayleigh        = "rayleigh"
	UniformMieCoefficient  = "mieCoefficient"
	UniformMieDirectionalG = "mieDirectionalG"
	UniformSunPosition     = "sunPosition"
	UniformSunDirection    = "sunDirection"
)

const (
	turbidity       = 10
	mieCoefficient  = 0.005
	mieMoon         = 0.00001
	mieDirectionalG = 0.8
)

// Parameters is the simulated sun or moon position. Elevation and Azimuth
// are degrees, Intensity is the Rayleigh scattering coefficient.
type Parameters struct {
	Elevation float64
	Azimuth   float64
	Intensity float64
}

// InitialParameters is the state before the first reveal: the moon just
// under the horizon.
func InitialParameters() Parameters {
	return Parameters{Elevation: -2, Azimuth: 180, Intensity: 2}
}

// SunDirection converts elevation and azimuth into a unit vector, y up.
func SunDirection(elevation, azimuth float64) mgl32.Vec3 {
	phi := (90 - elevation) * math.Pi / 180
	theta := azimuth * math.Pi / 180
	return mgl32.Vec3{
		float32(math.Sin(phi) * math.Sin(theta)),
		float32(math.Cos(phi)),
		float32(math.Sin(phi) * math.Cos(theta)),
	}
}

// Model pushes Parameters into the sky and water shaders and keeps the scene
// environment map in step with the sky.
type Model struct {
	scene *renderer.Scene
	sky   *renderer.UniformSet
	water *renderer.UniformSet
	baker *Baker
	env   *renderer.EnvironmentMap

	applied int
}

func NewModel(scene *renderer.Scene, skyUniforms, waterUniforms *renderer.UniformSet, baker *Baker) *Model {
	if baker == nil {
		baker = NewBaker()
	}
	return &Model{
		scene: scene,
		sky:   skyUniforms,
		water: waterUniforms,
		baker: baker,
	}
}

// Apply writes p to the shaders and rebakes the environment. moon selects
// the moonlit scattering profile.
func (m *Model) Apply(p Parameters, moon bool) {
	dir := SunDirection(p.Elevation, p.Azimuth)

	rayleigh := float32(p.Intensity)
	mie := float32(mieCoefficient)
	if moon {
		rayleigh = 0
		mie = mieMoon
	}

	m.sky.SetFloat(UniformTurbidity, turbidity)
	m.sky.SetFloat(UniformRayleigh, rayleigh)
	m.sky.SetFloat(UniformMieCoefficient, mie)
	m.sky.SetFloat(UniformMieDirectionalG, mieDirectionalG)
	m.sky.SetVec3(UniformSunPosition, dir)

	if m.water != nil && dir.Len() > 0 {
		m.water.SetVec3(UniformSunDirection, dir.Normalize())
	}

	if m.env != nil {
		m.env.Dispose()
		m.env = nil
	}
	env, err := m.baker.Bake(m.sky)
	if err != nil {
		logger.Log.Error("Environment bake failed",
			zap.Float64("elevation", p.Elevation),
			zap.Error(err))
		m.scene.SetEnvironment(nil)
	} else {
		m.env = env
		m.scene.SetEnvironment(env)
	}
	m.scene.Background = SkyColor(dir, rayleigh)
	m.applied++

	if logger.Log.Core().Enabled(zap.DebugLevel) {
		logger.Log.Debug("Sky applied",
			zap.Float64("elevation", p.Elevation),
			zap.Float64("azimuth", p.Azimuth),
			zap.Float64("intensity", p.Intensity),
			zap.Bool("moon", moon))
	}
}

// Environment returns the live environment map, nil before the first Apply
// or after a failed bake.
func (m *Model) Environment() *renderer.EnvironmentMap {
	return m.env
}

// Applied counts Apply calls.
func (m *Model) Applied() int {
	return m.applied
}

// Dispose releases the live environment map.
func (m *Model) Dispose() {
	if m.env != nil {
		m.env.Dispose()
		m.env = nil
		m.scene.SetEnvironment(nil)
	}
}
