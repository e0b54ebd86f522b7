package character

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var grounded = GroundContact{Grounded: true, Normal: mgl32.Vec3{0, 1, 0}}
var midair = GroundContact{}

func newTestMachine() *Machine {
	m := NewMachine(DefaultTuning().machineConfig())
	m.SetFacingYaw(-90)
	return m
}

func TestIdleToWalking(t *testing.T) {
	m := newTestMachine()

	out := m.Step(MovementIntent{Forward: 1}, grounded, 0.016)

	assert.Equal(t, StateWalking, out.State)
	assert.InDelta(t, 4.0, out.PlanarVelocity.Len(), 1e-5)
	assert.Zero(t, out.VerticalImpulse)
	// Camera yaw -90 faces -Z.
	assert.InDelta(t, 0, out.PlanarVelocity.X(), 1e-5)
	assert.InDelta(t, -4, out.PlanarVelocity.Y(), 1e-5)
}

func TestJumpImpulseOnlyOnce(t *testing.T) {
	m := newTestMachine()
	intent := MovementIntent{Forward: 1, Jump: true}

	first := m.Step(intent, grounded, 0.016)
	require.Equal(t, StateJumping, first.State)
	assert.Equal(t, float32(350), first.VerticalImpulse)

	second := m.Step(intent, midair, 0.016)
	assert.Equal(t, StateJumping, second.State)
	assert.Zero(t, second.VerticalImpulse)

	for i := 0; i < 20; i++ {
		out := m.Step(intent, midair, 0.016)
		assert.Zero(t, out.VerticalImpulse, "tick %d", i)
		assert.True(t, out.State.IsAirborne())
	}
}

func TestWalkOffLedgeKeepsGroundedVelocity(t *testing.T) {
	m := newTestMachine()

	walk := m.Step(MovementIntent{Forward: 1}, grounded, 0.016)
	fall := m.Step(MovementIntent{Strafe: 1}, midair, 0.016)

	assert.Equal(t, StateFalling, fall.State)
	assert.Zero(t, fall.VerticalImpulse)
	expected := walk.PlanarVelocity.Mul(0.8)
	assert.Less(t, fall.PlanarVelocity.Sub(expected).Len(), float32(1e-5),
		"expected %v, got %v", expected, fall.PlanarVelocity)

	// Steering in the air does not change the carried velocity.
	again := m.Step(MovementIntent{Forward: -1, Run: true}, midair, 0.016)
	assert.Less(t, again.PlanarVelocity.Sub(expected).Len(), float32(1e-5))
}

func TestGroundedMovingNeverAirborne(t *testing.T) {
	axes := []float32{-1, -0.5, 0, 0.5, 1}
	starts := []MovementIntent{
		{},
		{Forward: 1},
		{Forward: 1, Run: true},
	}

	for _, start := range starts {
		for _, fwd := range axes {
			for _, strafe := range axes {
				for _, run := range []bool{false, true} {
					intent := MovementIntent{Forward: fwd, Strafe: strafe, Run: run}
					if intent.Magnitude() <= 0.1 {
						continue
					}
					m := newTestMachine()
					m.Step(start, grounded, 0.016)
					out := m.Step(intent, grounded, 0.016)
					assert.Contains(t, []MovementState{StateWalking, StateRunning}, out.State,
						"start %+v intent %+v", start, intent)
				}
			}
		}
	}
}

func TestRunToggle(t *testing.T) {
	m := newTestMachine()

	assert.Equal(t, StateWalking, m.Step(MovementIntent{Forward: 1}, grounded, 0.016).State)

	run := m.Step(MovementIntent{Forward: 1, Run: true}, grounded, 0.016)
	assert.Equal(t, StateRunning, run.State)
	assert.InDelta(t, 8.0, run.PlanarVelocity.Len(), 1e-5)

	assert.Equal(t, StateWalking, m.Step(MovementIntent{Forward: 1}, grounded, 0.016).State)
	assert.Equal(t, StateIdle, m.Step(MovementIntent{}, grounded, 0.016).State)
}

func TestJumpBeatsSpeedChange(t *testing.T) {
	m := newTestMachine()
	m.Step(MovementIntent{Forward: 1}, grounded, 0.016)

	out := m.Step(MovementIntent{Forward: 1, Run: true, Jump: true}, grounded, 0.016)

	assert.Equal(t, StateJumping, out.State)
	assert.Equal(t, float32(350), out.VerticalImpulse)
}

func TestDeadzone(t *testing.T) {
	m := newTestMachine()

	out := m.Step(MovementIntent{Forward: 0.05, Strafe: 0.04}, grounded, 0.016)

	assert.Equal(t, StateIdle, out.State)
	assert.Equal(t, mgl32.Vec2{}, out.PlanarVelocity)
}

func TestDiagonalIsNormalised(t *testing.T) {
	m := newTestMachine()

	out := m.Step(MovementIntent{Forward: 1, Strafe: 1}, grounded, 0.016)

	assert.InDelta(t, 4.0, out.PlanarVelocity.Len(), 1e-5)
}

func TestFacingYawRotatesIntent(t *testing.T) {
	m := newTestMachine()
	m.SetFacingYaw(0)

	fwd := m.Step(MovementIntent{Forward: 1}, grounded, 0.016)
	assert.InDelta(t, 4, fwd.PlanarVelocity.X(), 1e-5)
	assert.InDelta(t, 0, fwd.PlanarVelocity.Y(), 1e-5)

	right := m.Step(MovementIntent{Strafe: 1}, grounded, 0.016)
	assert.InDelta(t, 0, right.PlanarVelocity.X(), 1e-5)
	assert.InDelta(t, 4, right.PlanarVelocity.Y(), 1e-5)
}

func TestLandingResolvesFromIntent(t *testing.T) {
	m := newTestMachine()
	m.Step(MovementIntent{}, midair, 0.016)
	require.Equal(t, StateFalling, m.State())

	assert.Equal(t, StateRunning, m.Step(MovementIntent{Forward: 1, Run: true}, grounded, 0.016).State)

	m.Step(MovementIntent{}, midair, 0.016)
	assert.Equal(t, StateIdle, m.Step(MovementIntent{}, grounded, 0.016).State)
}

func TestJumpIgnoredWhileAirborne(t *testing.T) {
	m := newTestMachine()
	m.Step(MovementIntent{}, midair, 0.016)

	out := m.Step(MovementIntent{Jump: true}, midair, 0.016)

	assert.Equal(t, StateFalling, out.State)
	assert.Zero(t, out.VerticalImpulse)
}

func TestZeroDeltaIsNotATick(t *testing.T) {
	m := newTestMachine()
	walk := m.Step(MovementIntent{Forward: 1}, grounded, 0.016)

	for _, dt := range []float32{0, -1} {
		out := m.Step(MovementIntent{Jump: true}, midair, dt)
		assert.Equal(t, StateWalking, out.State)
		assert.Equal(t, walk.PlanarVelocity, out.PlanarVelocity)
		assert.Zero(t, out.VerticalImpulse)
	}
}

func TestOnTransition(t *testing.T) {
	m := newTestMachine()
	var seen [][2]MovementState
	m.OnTransition(func(from, to MovementState) {
		seen = append(seen, [2]MovementState{from, to})
	})

	m.Step(MovementIntent{Forward: 1}, grounded, 0.016)
	m.Step(MovementIntent{Forward: 1}, grounded, 0.016)
	m.Step(MovementIntent{Forward: 1, Jump: true}, grounded, 0.016)

	assert.Equal(t, [][2]MovementState{
		{StateIdle, StateWalking},
		{StateWalking, StateJumping},
	}, seen)
}

func TestReset(t *testing.T) {
	m := newTestMachine()
	m.Step(MovementIntent{Forward: 1}, grounded, 0.016)

	m.Reset()

	assert.Equal(t, StateIdle, m.State())
	out := m.Step(MovementIntent{}, midair, 0.016)
	assert.Equal(t, mgl32.Vec2{}, out.PlanarVelocity)
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "Idle", MovementState{}.String())
	assert.Equal(t, "Airborne(Jumping)", StateJumping.String())
	assert.Equal(t, "Airborne(Falling)", StateFalling.String())
	assert.Equal(t, "run", StateRunning.clip())
}
