package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is where the binary looks for its configuration.
const DefaultPath = "lotuspond.toml"

// ErrNoConfig is returned by Load when the file does not exist. The returned
// Config still holds the defaults.
var ErrNoConfig = errors.New("config: no config file")

type Window struct {
	Width  int32  `toml:"width"`
	Height int32  `toml:"height"`
	Title  string `toml:"title"`
}

type Assets struct {
	Dir           string `toml:"dir"`
	Lotus         string `toml:"lotus"`
	Bird          string `toml:"bird"`
	Leaf          string `toml:"leaf"`
	Mountain      string `toml:"mountain"`
	WaterNormals  string `toml:"water_normals"`
	ParticleDisc  string `toml:"particle_disc"`
	LoaderWorkers int    `toml:"loader_workers"`
}

// Idle holds the per frame idle animation speeds. They are safe to change
// while the scene runs.
type Idle struct {
	LotusSpin     float32 `toml:"lotus_spin"`
	FireflySpin   float32 `toml:"firefly_spin"`
	HighFlySpin   float32 `toml:"high_firefly_spin"`
	LotusBobSpeed float32 `toml:"lotus_bob_speed"`
}

type Log struct {
	Level string `toml:"level"`
}

type Config struct {
	Window Window `toml:"window"`
	Assets Assets `toml:"assets"`
	Idle   Idle   `toml:"idle"`
	Log    Log    `toml:"log"`
	Seed   int64  `toml:"seed"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Window: Window{Width: 1280, Height: 720, Title: "LotusPond"},
		Assets: Assets{
			Dir:           "assets",
			Lotus:         "models/lotus_flower_yellow.glb",
			Bird:          "models/bird.glb",
			Leaf:          "models/senOnly.glb",
			Mountain:      "models/mountain.glb",
			WaterNormals:  "textures/waternormals.jpg",
			ParticleDisc:  "textures/disc.png",
			LoaderWorkers: 4,
		},
		Idle: Idle{
			LotusSpin:     0.0005,
			FireflySpin:   0.001,
			HighFlySpin:   0.0005,
			LotusBobSpeed: 0.005,
		},
		Log:  Log{Level: "info"},
		Seed: 1,
	}
}

// Load reads path over the defaults. Missing keys keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, ErrNoConfig
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Assets.LoaderWorkers <= 0 {
		return fmt.Errorf("config: loader_workers must be positive, got %d", c.Assets.LoaderWorkers)
	}
	return nil
}
