package character

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mode is the top level movement mode.
type Mode int

const (
	Idle Mode = iota
	Walking
	Running
	Airborne
)

// AirborneKind tells why the character left the ground. Only meaningful
// when Mode is Airborne.
type AirborneKind int

const (
	NotAirborne AirborneKind = iota
	Jumping
	Falling
)

// MovementState is the tagged variant driven by Machine. The zero value is Idle.
type MovementState struct {
	Mode Mode
	Kind AirborneKind
}

var (
	StateIdle    = MovementState{Mode: Idle}
	StateWalking = MovementState{Mode: Walking}
	StateRunning = MovementState{Mode: Running}
	StateJumping = MovementState{Mode: Airborne, Kind: Jumping}
	StateFalling = MovementState{Mode: Airborne, Kind: Falling}
)

func (s MovementState) IsAirborne() bool {
	return s.Mode == Airborne
}

func (s MovementState) String() string {
	switch s.Mode {
	case Idle:
		return "Idle"
	case Walking:
		return "Walking"
	case Running:
		return "Running"
	case Airborne:
		if s.Kind == Jumping {
			return "Airborne(Jumping)"
		}
		return "Airborne(Falling)"
	}
	return "Unknown"
}

// clip is the animation name a model plays in this state.
func (s MovementState) clip() string {
	switch s {
	case StateWalking:
		return "walk"
	case StateRunning:
		return "run"
	case StateJumping:
		return "jump"
	case StateFalling:
		return "fall"
	}
	return "idle"
}

// GroundContact is the result of this tick's ground query.
type GroundContact struct {
	Grounded bool
	Normal   mgl32.Vec3
	Distance float32
}

// Output is what one Machine step asks of the body.
type Output struct {
	State           MovementState
	PlanarVelocity  mgl32.Vec2 // world X and Z, m/s
	VerticalImpulse float32
}

// MachineConfig holds the speeds the machine scales intent by.
type MachineConfig struct {
	WalkSpeed    float32
	RunSpeed     float32
	JumpStrength float32
	AirControl   float32
	Deadzone     float32
}

func (t Tuning) machineConfig() MachineConfig {
	return MachineConfig{
		WalkSpeed:    t.WalkSpeed,
		RunSpeed:     t.RunSpeed,
		JumpStrength: t.JumpStrength,
		AirControl:   t.AirControl,
		Deadzone:     t.Deadzone,
	}
}

// Machine is the movement state machine. It never moves the body itself;
// its Output is applied by Body.
type Machine struct {
	cfg          MachineConfig
	state        MovementState
	facingYaw    float32
	lastGrounded mgl32.Vec2
	lastOutput   mgl32.Vec2
	listeners    []func(from, to MovementState)
}

func NewMachine(cfg MachineConfig) *Machine {
	return &Machine{cfg: cfg, facingYaw: -90}
}

func (m *Machine) State() MovementState { return m.state }

func (m *Machine) Config() MachineConfig { return m.cfg }

func (m *Machine) SetConfig(cfg MachineConfig) { m.cfg = cfg }

// SetFacingYaw sets the basis intent is rotated into, in camera yaw degrees
// (-90 faces -Z).
func (m *Machine) SetFacingYaw(yaw float32) {
	m.facingYaw = yaw
}

// OnTransition registers fn to run after every state change.
func (m *Machine) OnTransition(fn func(from, to MovementState)) {
	m.listeners = append(m.listeners, fn)
}

// Reset returns to Idle with no remembered velocity.
func (m *Machine) Reset() {
	m.set(StateIdle)
	m.lastGrounded = mgl32.Vec2{}
	m.lastOutput = mgl32.Vec2{}
}

// Step evaluates one tick. A dt of zero or less is not a tick: the current
// state and last velocity come back unchanged with no impulse.
func (m *Machine) Step(intent MovementIntent, ground GroundContact, dt float32) Output {
	if dt <= 0 {
		return Output{State: m.state, PlanarVelocity: m.lastOutput}
	}

	var out Output
	switch {
	case ground.Grounded && intent.Jump && !m.state.IsAirborne():
		// Jump wins over any speed change in the same tick.
		m.lastGrounded = m.groundVelocity(intent)
		out = Output{
			State:           StateJumping,
			PlanarVelocity:  m.lastGrounded.Mul(m.cfg.AirControl),
			VerticalImpulse: m.cfg.JumpStrength,
		}
	case !ground.Grounded:
		state := StateFalling
		if m.state.IsAirborne() {
			state = m.state
		}
		out = Output{State: state, PlanarVelocity: m.lastGrounded.Mul(m.cfg.AirControl)}
	default:
		m.lastGrounded = m.groundVelocity(intent)
		out = Output{State: m.groundState(intent), PlanarVelocity: m.lastGrounded}
	}

	m.lastOutput = out.PlanarVelocity
	m.set(out.State)
	return out
}

func (m *Machine) set(next MovementState) {
	prev := m.state
	m.state = next
	if prev == next {
		return
	}
	for _, fn := range m.listeners {
		fn(prev, next)
	}
}

func (m *Machine) groundState(intent MovementIntent) MovementState {
	switch {
	case intent.Magnitude() <= m.cfg.Deadzone:
		return StateIdle
	case intent.Run:
		return StateRunning
	default:
		return StateWalking
	}
}

func (m *Machine) groundVelocity(intent MovementIntent) mgl32.Vec2 {
	if intent.Magnitude() <= m.cfg.Deadzone {
		return mgl32.Vec2{}
	}
	speed := m.cfg.WalkSpeed
	if intent.Run {
		speed = m.cfg.RunSpeed
	}

	forward, right := facingBasis(m.facingYaw)
	dir := forward.Mul(intent.Forward).Add(right.Mul(intent.Strafe))
	if l := dir.Len(); l > 1 {
		dir = dir.Mul(1 / l)
	}
	return dir.Mul(speed)
}

// facingBasis returns planar forward and right on the XZ plane for a camera
// yaw in degrees.
func facingBasis(yaw float32) (forward, right mgl32.Vec2) {
	rad := float64(mgl32.DegToRad(yaw))
	sin, cos := float32(math.Sin(rad)), float32(math.Cos(rad))
	return mgl32.Vec2{cos, sin}, mgl32.Vec2{-sin, cos}
}
