// Package physics defines the physics capability the character controller
// depends on, plus a small reference world used by tests and the demo.
package physics

import (
	"context"
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

var (
	// ErrInvalidBody is returned for handles the world does not know about,
	// including bodies that were removed.
	ErrInvalidBody = errors.New("physics: invalid body handle")
	// ErrInvalidShape is returned by CreateBody for malformed descriptions.
	ErrInvalidShape = errors.New("physics: invalid body shape")
)

// DefaultGravity matches Earth gravity along -Y.
var DefaultGravity = mgl32.Vec3{0, -9.81, 0}

// BodyHandle identifies a body inside a World.
type BodyHandle uuid.UUID

// NoBody is the zero handle. It never refers to a live body.
var NoBody BodyHandle

func (h BodyHandle) String() string {
	return uuid.UUID(h).String()
}

func (h BodyHandle) IsZero() bool {
	return h == NoBody
}

type Shape int

const (
	ShapeCapsule Shape = iota
	ShapeBox
	ShapeSphere
)

func (s Shape) String() string {
	switch s {
	case ShapeCapsule:
		return "capsule"
	case ShapeBox:
		return "box"
	case ShapeSphere:
		return "sphere"
	}
	return "unknown"
}

// BodyDesc describes a dynamic body to create.
type BodyDesc struct {
	Name        string
	Shape       Shape
	Radius      float32    // capsule and sphere
	Height      float32    // capsule total height, tip to tip
	HalfExtents mgl32.Vec3 // box
	Mass        float32
	Position    mgl32.Vec3
	Rotation    mgl32.Quat
	// GravityScale multiplies world gravity. Zero is treated as 1.
	GravityScale float32
}

// Validate reports ErrInvalidShape for descriptions a world cannot build.
func (d BodyDesc) Validate() error {
	if d.Mass <= 0 {
		return errors.Join(ErrInvalidShape, errors.New("mass must be positive"))
	}
	switch d.Shape {
	case ShapeCapsule:
		if d.Radius <= 0 || d.Height < 2*d.Radius {
			return errors.Join(ErrInvalidShape, errors.New("capsule needs radius > 0 and height >= 2*radius"))
		}
	case ShapeSphere:
		if d.Radius <= 0 {
			return errors.Join(ErrInvalidShape, errors.New("sphere needs radius > 0"))
		}
	case ShapeBox:
		if d.HalfExtents.X() <= 0 || d.HalfExtents.Y() <= 0 || d.HalfExtents.Z() <= 0 {
			return errors.Join(ErrInvalidShape, errors.New("box needs positive half extents"))
		}
	default:
		return ErrInvalidShape
	}
	return nil
}

// BoundsHalfExtents returns the half size of the body's bounding box.
func (d BodyDesc) BoundsHalfExtents() mgl32.Vec3 {
	switch d.Shape {
	case ShapeCapsule:
		return mgl32.Vec3{d.Radius, d.Height / 2, d.Radius}
	case ShapeSphere:
		return mgl32.Vec3{d.Radius, d.Radius, d.Radius}
	}
	return d.HalfExtents
}

// Hit is the result of a ray or shape cast.
type Hit struct {
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Distance float32
	// Body is set when a dynamic body was hit, NoBody for static geometry.
	Body BodyHandle
	// Collider is set when static geometry was hit.
	Collider Collider
}

// World is the physics capability consumed by the character controller.
// The world owns the authoritative transform of every body; callers hold
// handles and cached reads.
type World interface {
	CreateBody(ctx context.Context, desc BodyDesc) (BodyHandle, error)
	RemoveBody(h BodyHandle) error

	Position(h BodyHandle) (mgl32.Vec3, error)
	Rotation(h BodyHandle) (mgl32.Quat, error)
	Velocity(h BodyHandle) (mgl32.Vec3, error)

	SetPosition(h BodyHandle, p mgl32.Vec3) error
	SetRotation(h BodyHandle, q mgl32.Quat) error
	SetVelocity(h BodyHandle, v mgl32.Vec3) error
	ApplyImpulse(h BodyHandle, impulse mgl32.Vec3) error

	// RayCast reports the first surface along ray within maxDist, skipping
	// the ignored body.
	RayCast(ray Ray, maxDist float32, ignore BodyHandle) (Hit, bool)
	// SphereCast sweeps a sphere of the given radius along ray. Distance in
	// the hit is how far the sphere center travelled before contact.
	SphereCast(ray Ray, radius, maxDist float32, ignore BodyHandle) (Hit, bool)

	Gravity() mgl32.Vec3
}
