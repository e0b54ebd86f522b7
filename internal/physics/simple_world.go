package physics

import (
	"context"
	"fmt"
	"math"
	"sync"

	"LoomWalker/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type body struct {
	desc         BodyDesc
	halfExtents  mgl32.Vec3
	pos          mgl32.Vec3
	rot          mgl32.Quat
	vel          mgl32.Vec3
	invMass      float32
	gravityScale float32
}

func (b *body) bounds() AABB {
	return NewAABB(b.pos, b.halfExtents)
}

// SimpleWorld is a reference World: static colliders, box shaped dynamic
// bodies, gravity and single-axis push-out. Bodies never rotate on their own
// and do not collide with each other.
type SimpleWorld struct {
	mu       sync.RWMutex
	gravity  mgl32.Vec3
	statics  []Collider
	bodies   map[BodyHandle]*body
	maxSpeed float32
}

func NewSimpleWorld(gravity mgl32.Vec3) *SimpleWorld {
	return &SimpleWorld{
		gravity:  gravity,
		bodies:   make(map[BodyHandle]*body),
		maxSpeed: 200,
	}
}

var _ World = (*SimpleWorld)(nil)

func (w *SimpleWorld) Gravity() mgl32.Vec3 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.gravity
}

func (w *SimpleWorld) SetGravity(g mgl32.Vec3) {
	w.mu.Lock()
	w.gravity = g
	w.mu.Unlock()
}

// AddStatic registers static geometry.
func (w *SimpleWorld) AddStatic(c Collider) {
	w.mu.Lock()
	w.statics = append(w.statics, c)
	w.mu.Unlock()
	logger.Log.Debug("Static collider added", zap.String("name", c.Name()))
}

func (w *SimpleWorld) Statics() []Collider {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Collider, len(w.statics))
	copy(out, w.statics)
	return out
}

func (w *SimpleWorld) BodyCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.bodies)
}

func (w *SimpleWorld) CreateBody(ctx context.Context, desc BodyDesc) (BodyHandle, error) {
	if err := ctx.Err(); err != nil {
		return NoBody, err
	}
	if err := desc.Validate(); err != nil {
		return NoBody, fmt.Errorf("create body %q: %w", desc.Name, err)
	}

	rot := desc.Rotation
	if rot == (mgl32.Quat{}) {
		rot = mgl32.QuatIdent()
	}
	gs := desc.GravityScale
	if gs == 0 {
		gs = 1
	}

	h := BodyHandle(uuid.New())
	w.mu.Lock()
	w.bodies[h] = &body{
		desc:         desc,
		halfExtents:  desc.BoundsHalfExtents(),
		pos:          desc.Position,
		rot:          rot,
		invMass:      1 / desc.Mass,
		gravityScale: gs,
	}
	w.mu.Unlock()

	logger.Log.Debug("Body created",
		zap.String("name", desc.Name),
		zap.Stringer("shape", desc.Shape),
		zap.Stringer("handle", h))
	return h, nil
}

func (w *SimpleWorld) RemoveBody(h BodyHandle) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.bodies[h]; !ok {
		return ErrInvalidBody
	}
	delete(w.bodies, h)
	return nil
}

func (w *SimpleWorld) get(h BodyHandle) (*body, error) {
	b, ok := w.bodies[h]
	if !ok {
		return nil, ErrInvalidBody
	}
	return b, nil
}

func (w *SimpleWorld) Position(h BodyHandle) (mgl32.Vec3, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	b, err := w.get(h)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return b.pos, nil
}

func (w *SimpleWorld) Rotation(h BodyHandle) (mgl32.Quat, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	b, err := w.get(h)
	if err != nil {
		return mgl32.QuatIdent(), err
	}
	return b.rot, nil
}

func (w *SimpleWorld) Velocity(h BodyHandle) (mgl32.Vec3, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	b, err := w.get(h)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return b.vel, nil
}

func (w *SimpleWorld) SetPosition(h BodyHandle, p mgl32.Vec3) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, err := w.get(h)
	if err != nil {
		return err
	}
	b.pos = p
	return nil
}

func (w *SimpleWorld) SetRotation(h BodyHandle, q mgl32.Quat) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, err := w.get(h)
	if err != nil {
		return err
	}
	b.rot = q.Normalize()
	return nil
}

func (w *SimpleWorld) SetVelocity(h BodyHandle, v mgl32.Vec3) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, err := w.get(h)
	if err != nil {
		return err
	}
	b.vel = v
	return nil
}

func (w *SimpleWorld) ApplyImpulse(h BodyHandle, impulse mgl32.Vec3) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, err := w.get(h)
	if err != nil {
		return err
	}
	b.vel = b.vel.Add(impulse.Mul(b.invMass))
	return nil
}

// Step advances every body by dt seconds.
func (w *SimpleWorld) Step(dt float32) {
	if dt <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, b := range w.bodies {
		b.vel = b.vel.Add(w.gravity.Mul(b.gravityScale * dt))
		if s := b.vel.Len(); s > w.maxSpeed {
			b.vel = b.vel.Mul(w.maxSpeed / s)
		}
		b.pos = b.pos.Add(b.vel.Mul(dt))
		w.resolve(b)
	}
}

func (w *SimpleWorld) resolve(b *body) {
	for _, c := range w.statics {
		if !c.Bounds().Inflate(0.01).Overlaps(b.bounds()) {
			continue
		}
		push := c.Resolve(b.bounds())
		if push == (mgl32.Vec3{}) {
			continue
		}
		b.pos = b.pos.Add(push)
		// Kill the velocity component driving into the surface
		for axis := 0; axis < 3; axis++ {
			if (push[axis] > 0 && b.vel[axis] < 0) || (push[axis] < 0 && b.vel[axis] > 0) {
				b.vel[axis] = 0
			}
		}
	}
}

func (w *SimpleWorld) RayCast(ray Ray, maxDist float32, ignore BodyHandle) (Hit, bool) {
	return w.cast(ray, 0, maxDist, ignore)
}

func (w *SimpleWorld) SphereCast(ray Ray, radius, maxDist float32, ignore BodyHandle) (Hit, bool) {
	return w.cast(ray, radius, maxDist, ignore)
}

func (w *SimpleWorld) cast(ray Ray, radius, maxDist float32, ignore BodyHandle) (Hit, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	best := Hit{Distance: float32(math.MaxFloat32)}
	found := false
	for _, c := range w.statics {
		if hit, ok := c.Cast(ray, radius, maxDist); ok && hit.Distance < best.Distance {
			best = hit
			found = true
		}
	}
	for h, b := range w.bodies {
		if h == ignore {
			continue
		}
		ok, t, n := RayIntersectAABB(ray, b.bounds().Inflate(radius))
		if ok && t <= maxDist && t < best.Distance {
			best = Hit{Point: ray.At(t).Sub(n.Mul(radius)), Normal: n, Distance: t, Body: h}
			found = true
		}
	}
	return best, found
}
