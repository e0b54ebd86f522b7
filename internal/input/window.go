package input

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

var glfwKeys = map[Key]glfw.Key{
	KeyW:          glfw.KeyW,
	KeyA:          glfw.KeyA,
	KeyS:          glfw.KeyS,
	KeyD:          glfw.KeyD,
	KeySpace:      glfw.KeySpace,
	KeyLeftShift:  glfw.KeyLeftShift,
	KeyRightShift: glfw.KeyRightShift,
	KeyP:          glfw.KeyP,
	KeyEscape:     glfw.KeyEscape,
}

var glfwButtons = map[MouseButton]glfw.MouseButton{
	MouseButtonLeft:   glfw.MouseButtonLeft,
	MouseButtonRight:  glfw.MouseButtonRight,
	MouseButtonMiddle: glfw.MouseButtonMiddle,
}

// WindowSource polls a GLFW window. Keys and buttons read as released while
// the window is unfocused. Must be used from the thread that owns the window.
type WindowSource struct {
	window *glfw.Window
}

func NewWindowSource(window *glfw.Window) *WindowSource {
	return &WindowSource{window: window}
}

func (w *WindowSource) focused() bool {
	return w.window.GetAttrib(glfw.Focused) == glfw.True
}

func (w *WindowSource) KeyDown(key Key) bool {
	gk, ok := glfwKeys[key]
	if !ok || !w.focused() {
		return false
	}
	return w.window.GetKey(gk) == glfw.Press
}

func (w *WindowSource) CursorPos() (float64, float64) {
	return w.window.GetCursorPos()
}

func (w *WindowSource) MouseButtonDown(button MouseButton) bool {
	gb, ok := glfwButtons[button]
	if !ok || !w.focused() {
		return false
	}
	return w.window.GetMouseButton(gb) == glfw.Press
}
