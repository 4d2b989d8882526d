package engine

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"LotusPond/internal/config"
	"LotusPond/internal/daynight"
	"LotusPond/internal/loader"
	"LotusPond/internal/logger"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// Top right area of the window that acts as the day/night switch.
const (
	SwitcherWidth  = 120
	SwitcherHeight = 60
)

const scrollDolly = 0.95

// Window is the glfw window. Its title doubles as the loading overlay and as
// the mode indicator.
type Window struct {
	// HOT DATA - input state
	window   *glfw.Window
	width    int32
	height   int32
	dragging bool
	lastX    float64
	lastY    float64

	// COLD DATA - title state
	title   string
	mode    daynight.Mode
	loading atomic.Bool
	percent atomic.Int64
	dirty   atomic.Bool
}

func NewWindow(cfg config.Window) *Window {
	w := &Window{
		title:  cfg.Title,
		width:  cfg.Width,
		height: cfg.Height,
		mode:   daynight.Night,
	}
	w.loading.Store(true)
	w.dirty.Store(true)
	return w
}

// SetMode shows the mode in the title.
func (w *Window) SetMode(m daynight.Mode) {
	w.mode = m
	w.dirty.Store(true)
}

// Hide removes the loading percentage from the title.
func (w *Window) Hide() {
	w.loading.Store(false)
	w.dirty.Store(true)
}

// SetProgress records the loading percentage. It may run on any goroutine.
func (w *Window) SetProgress(p loader.Progress) {
	w.percent.Store(int64(p.Ratio() * 100))
	w.dirty.Store(true)
}

func (w *Window) Title() string {
	if w.loading.Load() {
		return fmt.Sprintf("%s - Loading %d%%", w.title, w.percent.Load())
	}
	icon := "Moon"
	if w.mode == daynight.Day {
		icon = "Sun"
	}
	return fmt.Sprintf("%s - %s", w.title, icon)
}

// InSwitcher reports whether a cursor position lies in the switcher area.
func InSwitcher(x, y float64, width int32) bool {
	return x >= float64(width-SwitcherWidth) && x <= float64(width) && y >= 0 && y <= SwitcherHeight
}

// Run opens the window and drives lp until the window is closed. It locks the
// calling goroutine to its OS thread for the lifetime of the GL context.
func (w *Window) Run(lp *Loop) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 32)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(int(w.width), int(w.height), w.Title(), nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	w.window = win
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	fbw, fbh := win.GetFramebufferSize()
	lp.Renderer.Init(int32(fbw), int32(fbh))
	lp.Resize(int32(fbw), int32(fbh))

	w.bind(lp)
	logger.Log.Info("Window opened", zap.Int32("width", w.width), zap.Int32("height", w.height))

	start := glfw.GetTime()
	last := start
	for !win.ShouldClose() {
		now := glfw.GetTime()
		delta := seconds(now - last)
		last = now

		lp.Frame(delta, seconds(now-start))
		if w.dirty.Swap(false) {
			win.SetTitle(w.Title())
		}
		win.SwapBuffers()
		glfw.PollEvents()
	}
	lp.Close()
	return nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func (w *Window) bind(lp *Loop) {
	w.window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeySpace, glfw.KeyN:
			lp.Toggle()
		case glfw.KeyEscape:
			w.window.SetShouldClose(true)
		}
	})

	w.window.SetMouseButtonCallback(func(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		x, y := win.GetCursorPos()
		switch action {
		case glfw.Press:
			if InSwitcher(x, y, w.width) {
				lp.Toggle()
				return
			}
			w.dragging = true
			w.lastX, w.lastY = x, y
		case glfw.Release:
			w.dragging = false
		}
	})

	w.window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if !w.dragging {
			return
		}
		lp.Pond.Controls.Rotate(float32(x-w.lastX), float32(y-w.lastY), float32(w.height))
		w.lastX, w.lastY = x, y
	})

	w.window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		switch {
		case yoff > 0:
			lp.Pond.Controls.Dolly(1 / scrollDolly)
		case yoff < 0:
			lp.Pond.Controls.Dolly(scrollDolly)
		}
	})

	w.window.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width, w.height = int32(width), int32(height)
	})

	w.window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		lp.Resize(int32(width), int32(height))
	})
}
