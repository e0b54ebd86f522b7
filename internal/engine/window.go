package engine

import (
	"fmt"
	"runtime"

	"LoomWalker/internal/input"
	"LoomWalker/internal/logger"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// Window is a GLFW window used as an input surface. It creates no graphics
// context; a renderer attaches to it separately.
type Window struct {
	Width  int32
	Height int32
	window *glfw.Window

	onResize []func(width, height int32)
}

// OpenWindow initialises GLFW and opens a window. It locks the calling
// goroutine to its OS thread; call it from main and run the window there.
func OpenWindow(width, height int32, title string) (*Window, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("engine: init glfw: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(int(width), int(height), title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("engine: create window: %w", err)
	}
	win.SetInputMode(glfw.CursorMode, glfw.CursorNormal)

	w := &Window{Width: width, Height: height, window: win}
	win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		if width == 0 || height == 0 {
			return
		}
		w.Width, w.Height = int32(width), int32(height)
		for _, fn := range w.onResize {
			fn(w.Width, w.Height)
		}
	})
	logger.Log.Info("Window opened", zap.Int32("width", width), zap.Int32("height", height))
	return w, nil
}

// Input returns a source polling this window.
func (w *Window) Input() *input.WindowSource {
	return input.NewWindowSource(w.window)
}

func (w *Window) OnResize(fn func(width, height int32)) {
	w.onResize = append(w.onResize, fn)
}

// CaptureCursor hides the cursor and gives unbounded mouse motion.
func (w *Window) CaptureCursor(capture bool) {
	mode := glfw.CursorNormal
	if capture {
		mode = glfw.CursorDisabled
	}
	w.window.SetInputMode(glfw.CursorMode, mode)
}

// Run ticks loop with the measured frame time until the window closes or
// frame returns false. frame runs after input is polled and before the tick.
func (w *Window) Run(loop *Loop, frame func(dt float32) bool) {
	lastTime := glfw.GetTime()
	for !w.window.ShouldClose() {
		glfw.PollEvents()
		now := glfw.GetTime()
		dt := float32(now - lastTime)
		lastTime = now

		if frame != nil && !frame(dt) {
			return
		}
		loop.Tick(dt)
	}
}

func (w *Window) SetShouldClose() {
	w.window.SetShouldClose(true)
}

func (w *Window) Close() {
	w.window.Destroy()
	glfw.Terminate()
}
