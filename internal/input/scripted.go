package input

import "sync"

// Frame is one step of a scripted input timeline. Keys lists the keys held
// during the frame; CursorDelta moves the cursor before the frame is read.
type Frame struct {
	Keys        []Key
	Buttons     []MouseButton
	CursorDelta [2]float64
}

// ScriptedSource is a Source driven by code instead of a device. It can be
// set directly with Press/Release/MoveCursor or fed a timeline with Play.
type ScriptedSource struct {
	mu      sync.Mutex
	keys    map[Key]bool
	buttons map[MouseButton]bool
	x, y    float64
	script  []Frame
	cursor  int
}

func NewScriptedSource() *ScriptedSource {
	return &ScriptedSource{
		keys:    make(map[Key]bool),
		buttons: make(map[MouseButton]bool),
	}
}

func (s *ScriptedSource) Press(keys ...Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		s.keys[k] = true
	}
}

func (s *ScriptedSource) Release(keys ...Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.keys, k)
	}
}

func (s *ScriptedSource) ReleaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = make(map[Key]bool)
	s.buttons = make(map[MouseButton]bool)
}

func (s *ScriptedSource) SetButton(button MouseButton, down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if down {
		s.buttons[button] = true
	} else {
		delete(s.buttons, button)
	}
}

func (s *ScriptedSource) MoveCursor(dx, dy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.x += dx
	s.y += dy
}

// Play replaces the timeline and rewinds it.
func (s *ScriptedSource) Play(frames []Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = frames
	s.cursor = 0
}

// Advance applies the next timeline frame, replacing held keys and buttons.
// It reports false once the timeline is exhausted.
func (s *ScriptedSource) Advance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor >= len(s.script) {
		return false
	}
	f := s.script[s.cursor]
	s.cursor++

	s.keys = make(map[Key]bool, len(f.Keys))
	for _, k := range f.Keys {
		s.keys[k] = true
	}
	s.buttons = make(map[MouseButton]bool, len(f.Buttons))
	for _, b := range f.Buttons {
		s.buttons[b] = true
	}
	s.x += f.CursorDelta[0]
	s.y += f.CursorDelta[1]
	return true
}

func (s *ScriptedSource) KeyDown(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key]
}

func (s *ScriptedSource) CursorPos() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.x, s.y
}

func (s *ScriptedSource) MouseButtonDown(button MouseButton) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buttons[button]
}
