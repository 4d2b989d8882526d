package engine

import (
	"testing"

	"LotusPond/internal/config"
	"LotusPond/internal/daynight"
	"LotusPond/internal/loader"

	"github.com/stretchr/testify/assert"
)

func TestWindowTitle(t *testing.T) {
	w := NewWindow(config.Window{Width: 640, Height: 480, Title: "LotusPond"})
	assert.Equal(t, "LotusPond - Loading 0%", w.Title())

	w.SetProgress(loader.Progress{Loaded: 3, Total: 6})
	assert.Equal(t, "LotusPond - Loading 50%", w.Title())

	w.Hide()
	assert.Equal(t, "LotusPond - Moon", w.Title())

	w.SetMode(daynight.Day)
	assert.Equal(t, "LotusPond - Sun", w.Title())
}

func TestInSwitcher(t *testing.T) {
	assert.True(t, InSwitcher(630, 10, 640))
	assert.True(t, InSwitcher(520, 60, 640))
	assert.False(t, InSwitcher(500, 10, 640))
	assert.False(t, InSwitcher(630, 61, 640))
	assert.False(t, InSwitcher(10, 10, 640))
}
