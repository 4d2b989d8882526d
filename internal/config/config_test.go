package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))

	assert.ErrorIs(t, err, ErrNoConfig)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lotuspond.toml")
	data := `
seed = 42

[window]
width = 800

[idle]
lotus_spin = 0.01

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, int32(800), cfg.Window.Width)
	assert.Equal(t, int32(720), cfg.Window.Height, "unset keys keep defaults")
	assert.InDelta(t, 0.01, cfg.Idle.LotusSpin, 1e-9)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "models/bird.glb", cfg.Assets.Bird)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lotuspond.toml")
	require.NoError(t, os.WriteFile(path, []byte("[assets]\nloader_workers = 0\n"), 0o644))

	cfg, err := Load(path)

	assert.Error(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsBrokenToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lotuspond.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window\nwidth = "), 0o644))

	_, err := Load(path)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoConfig)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lotuspond.toml")
	require.NoError(t, os.WriteFile(path, []byte("seed = 1\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c Config) {
			select {
			case changes <- c:
			default:
			}
		})
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("seed = 7\n"), 0o644))

	// A write can surface as several events, the first ones may see a
	// truncated file.
	deadline := time.After(5 * time.Second)
	for seen := false; !seen; {
		select {
		case c := <-changes:
			seen = c.Seed == 7
		case <-deadline:
			t.Fatal("no reload after write")
		}
	}

	cancel()
	assert.NoError(t, <-done)
}
