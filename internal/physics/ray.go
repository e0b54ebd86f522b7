package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray represents a ray in 3D space. Direction is expected to be normalized.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// NewRay builds a ray from origin towards target. The second return value is
// the distance between the two points.
func NewRay(origin, target mgl32.Vec3) (Ray, float32) {
	d := target.Sub(origin)
	l := d.Len()
	if l < 1e-6 {
		return Ray{Origin: origin, Direction: mgl32.Vec3{0, -1, 0}}, 0
	}
	return Ray{Origin: origin, Direction: d.Mul(1 / l)}, l
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// AABB is an axis aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABB builds a box from its center and half extents.
func NewAABB(center, halfExtents mgl32.Vec3) AABB {
	return AABB{Min: center.Sub(halfExtents), Max: center.Add(halfExtents)}
}

func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) HalfExtents() mgl32.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Inflate grows the box by r on every side.
func (b AABB) Inflate(r float32) AABB {
	e := mgl32.Vec3{r, r, r}
	return AABB{Min: b.Min.Sub(e), Max: b.Max.Add(e)}
}

func (b AABB) Contains(p mgl32.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X() < o.Max.X() && b.Max.X() > o.Min.X() &&
		b.Min.Y() < o.Max.Y() && b.Max.Y() > o.Min.Y() &&
		b.Min.Z() < o.Max.Z() && b.Max.Z() > o.Min.Z()
}

// PushOut returns the smallest translation that moves b out of o, along a
// single axis. Zero when the boxes do not overlap.
func (b AABB) PushOut(o AABB) mgl32.Vec3 {
	if !b.Overlaps(o) {
		return mgl32.Vec3{}
	}

	var push mgl32.Vec3
	best := float32(math.MaxFloat32)
	for axis := 0; axis < 3; axis++ {
		neg := b.Max[axis] - o.Min[axis] // move b towards -axis
		pos := o.Max[axis] - b.Min[axis] // move b towards +axis
		if neg < best {
			best = neg
			push = mgl32.Vec3{}
			push[axis] = -neg
		}
		if pos < best {
			best = pos
			push = mgl32.Vec3{}
			push[axis] = pos
		}
	}
	return push
}

// RayIntersectAABB tests a ray against a box using the slab method.
// Returns: (intersected, distance, surface normal). A ray starting inside the
// box reports a hit at distance 0 facing back along the ray.
func RayIntersectAABB(ray Ray, box AABB) (bool, float32, mgl32.Vec3) {
	tMin := float32(-math.MaxFloat32)
	tMax := float32(math.MaxFloat32)
	var normal mgl32.Vec3

	for axis := 0; axis < 3; axis++ {
		o := ray.Origin[axis]
		d := ray.Direction[axis]
		if d > -1e-8 && d < 1e-8 {
			if o < box.Min[axis] || o > box.Max[axis] {
				return false, 0, mgl32.Vec3{}
			}
			continue
		}

		inv := 1 / d
		t1 := (box.Min[axis] - o) * inv
		t2 := (box.Max[axis] - o) * inv
		sign := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tMin {
			tMin = t1
			normal = mgl32.Vec3{}
			normal[axis] = sign
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return false, 0, mgl32.Vec3{}
		}
	}

	if tMax < 0 {
		return false, 0, mgl32.Vec3{}
	}
	if tMin < 0 {
		return true, 0, ray.Direction.Mul(-1)
	}
	return true, tMin, normal
}

// RayIntersectSphere tests if a ray intersects a sphere
// Returns: (intersected, distance, intersection point)
func RayIntersectSphere(ray Ray, sphereCenter mgl32.Vec3, radius float32) (bool, float32, mgl32.Vec3) {
	oc := ray.Origin.Sub(sphereCenter)

	a := ray.Direction.Dot(ray.Direction)
	b := 2.0 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return false, 0, mgl32.Vec3{}
	}

	sqrtDisc := float32(math.Sqrt(float64(discriminant)))
	t1 := (-b - sqrtDisc) / (2 * a)
	t2 := (-b + sqrtDisc) / (2 * a)

	// Closest positive root
	var t float32
	switch {
	case t1 > 0:
		t = t1
	case t2 > 0:
		t = t2
	default:
		return false, 0, mgl32.Vec3{}
	}

	return true, t, ray.At(t)
}

// RayIntersectTriangle tests if a ray intersects a triangle
// Returns: (intersected, distance, intersection point)
// Uses Möller-Trumbore algorithm
func RayIntersectTriangle(ray Ray, v0, v1, v2 mgl32.Vec3) (bool, float32, mgl32.Vec3) {
	const epsilon = 0.0000001

	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	if a > -epsilon && a < epsilon {
		return false, 0, mgl32.Vec3{} // Ray is parallel to triangle
	}

	f := 1.0 / a
	s := ray.Origin.Sub(v0)
	u := f * s.Dot(h)

	if u < 0.0 || u > 1.0 {
		return false, 0, mgl32.Vec3{}
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)

	if v < 0.0 || u+v > 1.0 {
		return false, 0, mgl32.Vec3{}
	}

	t := f * edge2.Dot(q)
	if t > epsilon {
		return true, t, ray.At(t)
	}

	return false, 0, mgl32.Vec3{} // Line intersection but not ray intersection
}
