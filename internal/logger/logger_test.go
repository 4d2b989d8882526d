package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")

	assert.True(t, SetLevel("debug"))
	assert.Equal(t, "debug", Level())

	assert.False(t, SetLevel("loud"))
	assert.Equal(t, "debug", Level())
}

func TestLogUsableBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		Log.Info("before init")
	})
}

func TestReplaceRestores(t *testing.T) {
	prev := Log
	restore := Replace(zap.NewExample())
	assert.NotSame(t, prev, Log)

	restore()
	assert.Same(t, prev, Log)
}
