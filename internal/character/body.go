package character

import (
	"errors"
	"math"

	"LoomWalker/internal/logger"
	"LoomWalker/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Body binds the character to one physics body. It caches the last
// transform read from the world and goes quiet once the handle is gone.
type Body struct {
	world  physics.World
	handle physics.BodyHandle

	radius      float32
	halfHeight  float32
	risingSpeed float32
	minGroundY  float32 // cos(max slope)

	position mgl32.Vec3
	rotation mgl32.Quat
	velocity mgl32.Vec3
	disabled bool
}

func newBody(world physics.World, handle physics.BodyHandle, desc physics.BodyDesc, t Tuning) *Body {
	b := &Body{
		world:      world,
		handle:     handle,
		radius:     desc.Radius,
		halfHeight: desc.Height / 2,
		position:   desc.Position,
		rotation:   desc.Rotation,
	}
	b.tune(t)
	return b
}

func (b *Body) tune(t Tuning) {
	b.risingSpeed = t.RisingSpeed
	b.minGroundY = float32(math.Cos(float64(mgl32.DegToRad(t.MaxSlope))))
}

func (b *Body) Handle() physics.BodyHandle { return b.handle }
func (b *Body) Position() mgl32.Vec3       { return b.position }
func (b *Body) Rotation() mgl32.Quat       { return b.rotation }
func (b *Body) Velocity() mgl32.Vec3       { return b.velocity }
func (b *Body) Disabled() bool             { return b.disabled }

// check reports whether err is nil. An invalid handle disables the body;
// anything else is logged and the call skipped.
func (b *Body) check(err error, op string) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, physics.ErrInvalidBody) {
		if !b.disabled {
			logger.Log.Warn("Character body lost, movement disabled",
				zap.Stringer("body", b.handle),
				zap.String("op", op),
				zap.Error(err))
		}
		b.disabled = true
		return false
	}
	logger.Log.Debug("Physics call failed", zap.String("op", op), zap.Error(err))
	return false
}

// ApplyMovement sets horizontal velocity, keeps vertical velocity and applies
// a non-zero vertical impulse once.
func (b *Body) ApplyMovement(planar mgl32.Vec2, verticalImpulse, dt float32) {
	if b.disabled || dt <= 0 {
		return
	}
	vel, err := b.world.Velocity(b.handle)
	if !b.check(err, "velocity") {
		return
	}
	vel = mgl32.Vec3{planar.X(), vel.Y(), planar.Y()}
	if !b.check(b.world.SetVelocity(b.handle, vel), "set_velocity") {
		return
	}
	b.velocity = vel
	if verticalImpulse != 0 {
		b.check(b.world.ApplyImpulse(b.handle, mgl32.Vec3{0, verticalImpulse, 0}), "impulse")
	}
}

// Face turns the body to look along a planar direction.
func (b *Body) Face(dir mgl32.Vec2) {
	if b.disabled || dir.Len() < 1e-4 {
		return
	}
	angle := float32(math.Atan2(float64(-dir.X()), float64(-dir.Y())))
	rot := mgl32.QuatRotate(angle, mgl32.Vec3{0, 1, 0})
	if b.check(b.world.SetRotation(b.handle, rot), "set_rotation") {
		b.rotation = rot
	}
}

// Sync reads the transform the world produced since the last call.
func (b *Body) Sync() {
	if b.disabled {
		return
	}
	pos, err := b.world.Position(b.handle)
	if !b.check(err, "position") {
		return
	}
	rot, err := b.world.Rotation(b.handle)
	if !b.check(err, "rotation") {
		return
	}
	vel, err := b.world.Velocity(b.handle)
	if !b.check(err, "velocity") {
		return
	}
	b.position, b.rotation, b.velocity = pos, rot, vel
}

// SetPosition teleports the body and clears its velocity.
func (b *Body) SetPosition(p mgl32.Vec3) {
	if b.disabled {
		return
	}
	if !b.check(b.world.SetPosition(b.handle, p), "set_position") {
		return
	}
	b.check(b.world.SetVelocity(b.handle, mgl32.Vec3{}), "set_velocity")
	b.position = p
	b.velocity = mgl32.Vec3{}
}

// Ground sweeps a sphere slightly thinner than the capsule down from the
// body center. The body is grounded when the sweep lands within probe of
// its feet on a walkable slope and it is not moving up.
func (b *Body) Ground(probe float32) GroundContact {
	if b.disabled {
		return GroundContact{}
	}
	r := b.radius * 0.9
	rest := b.halfHeight - r
	ray := physics.Ray{Origin: b.position, Direction: mgl32.Vec3{0, -1, 0}}
	hit, ok := b.world.SphereCast(ray, r, rest+probe, b.handle)
	if !ok {
		return GroundContact{}
	}

	contact := GroundContact{
		Normal:   hit.Normal,
		Distance: max(hit.Distance-rest, 0),
	}
	contact.Grounded = hit.Normal.Y() >= b.minGroundY && b.velocity.Y() <= b.risingSpeed
	return contact
}

// Release removes the body from the world. Further calls are no-ops.
func (b *Body) Release() error {
	if b.disabled {
		return nil
	}
	b.disabled = true
	return b.world.RemoveBody(b.handle)
}
