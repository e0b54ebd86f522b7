package character

import (
	"LoomWalker/internal/input"

	"github.com/go-gl/mathgl/mgl32"
)

// MovementIntent is what the player asked for this tick.
type MovementIntent struct {
	Forward float32 // [-1,1], +1 is away from the camera
	Strafe  float32 // [-1,1], +1 is to the camera's right
	Jump    bool    // true only on the tick the jump key went down
	Run     bool
	// Look is the camera delta in degrees: X turns right, Y tilts up.
	Look mgl32.Vec2
}

// Magnitude is the deadzone metric, |Forward| + |Strafe|.
func (i MovementIntent) Magnitude() float32 {
	return abs32(i.Forward) + abs32(i.Strafe)
}

// Bindings maps actions to keys.
type Bindings struct {
	Forward, Back, Left, Right input.Key
	Jump                       input.Key
	Run                        []input.Key
}

// Sampler turns polled device state into a MovementIntent.
type Sampler struct {
	src      input.Source
	bindings Bindings

	Sensitivity       float32
	InvertY           bool
	RequireLookButton bool

	jumpWasDown  bool
	lastX, lastY float64
	primed       bool
}

func NewSampler(src input.Source, bindings Bindings, sensitivity float32) *Sampler {
	return &Sampler{src: src, bindings: bindings, Sensitivity: sensitivity}
}

func (s *Sampler) axis(positive, negative input.Key) float32 {
	var v float32
	if s.src.KeyDown(positive) {
		v++
	}
	if s.src.KeyDown(negative) {
		v--
	}
	return v
}

// Sample reads the source once. Opposite keys cancel out.
func (s *Sampler) Sample() MovementIntent {
	intent := MovementIntent{
		Forward: s.axis(s.bindings.Forward, s.bindings.Back),
		Strafe:  s.axis(s.bindings.Right, s.bindings.Left),
	}
	for _, k := range s.bindings.Run {
		if s.src.KeyDown(k) {
			intent.Run = true
			break
		}
	}

	jumpDown := s.src.KeyDown(s.bindings.Jump)
	intent.Jump = jumpDown && !s.jumpWasDown
	s.jumpWasDown = jumpDown

	x, y := s.src.CursorPos()
	gate := !s.RequireLookButton || s.src.MouseButtonDown(input.MouseButtonRight)
	if s.primed && gate {
		dx := float32(x-s.lastX) * s.Sensitivity
		// Screen y grows downward; moving the cursor up tilts the camera up.
		dy := float32(s.lastY-y) * s.Sensitivity
		if s.InvertY {
			dy = -dy
		}
		intent.Look = mgl32.Vec2{dx, dy}
	}
	s.lastX, s.lastY = x, y
	s.primed = true

	return intent
}

// Reset forgets cursor history and treats a held jump key as already used.
func (s *Sampler) Reset() {
	s.primed = false
	s.jumpWasDown = s.src.KeyDown(s.bindings.Jump)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
