package physics

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
)

// Collider is static world geometry.
type Collider interface {
	Name() string
	Bounds() AABB
	// Cast sweeps a sphere of radius (0 for a plain ray) along ray.
	Cast(ray Ray, radius, maxDist float32) (Hit, bool)
	// Resolve returns the translation that moves box out of the collider.
	Resolve(box AABB) mgl32.Vec3
}

// Box is a static axis aligned box.
type Box struct {
	name string
	AABB AABB
}

func NewBox(name string, center, halfExtents mgl32.Vec3) *Box {
	return &Box{name: name, AABB: NewAABB(center, halfExtents)}
}

// NewGroundBox builds a thin square slab whose top face sits at height y.
func NewGroundBox(name string, size, y float32) *Box {
	const thickness = 0.5
	return &Box{name: name, AABB: AABB{
		Min: mgl32.Vec3{-size / 2, y - thickness, -size / 2},
		Max: mgl32.Vec3{size / 2, y, size / 2},
	}}
}

func (b *Box) Name() string { return b.name }
func (b *Box) Bounds() AABB { return b.AABB }

func (b *Box) Cast(ray Ray, radius, maxDist float32) (Hit, bool) {
	ok, t, n := RayIntersectAABB(ray, b.AABB.Inflate(radius))
	if !ok || t > maxDist {
		return Hit{}, false
	}
	return Hit{Point: ray.At(t).Sub(n.Mul(radius)), Normal: n, Distance: t, Collider: b}, true
}

func (b *Box) Resolve(box AABB) mgl32.Vec3 {
	return box.PushOut(b.AABB)
}

// Heightfield is a regular grid of heights sampled from perlin noise.
type Heightfield struct {
	name     string
	origin   mgl32.Vec3 // corner of the grid, heights are relative to origin.Y
	cells    int
	cellSize float32
	heights  []float32 // (cells+1)^2, row major on z
	bounds   AABB
}

// HeightfieldConfig controls the generated terrain.
type HeightfieldConfig struct {
	Cells     int
	CellSize  float32
	Amplitude float32
	Frequency float64
	Seed      int64
}

// NewHeightfield generates terrain centered on center.
func NewHeightfield(name string, center mgl32.Vec3, cfg HeightfieldConfig) *Heightfield {
	if cfg.Cells < 1 {
		cfg.Cells = 1
	}
	if cfg.CellSize <= 0 {
		cfg.CellSize = 1
	}
	if cfg.Frequency <= 0 {
		cfg.Frequency = 0.05
	}

	// alpha, beta, octaves, seed
	noise := perlin.NewPerlin(2, 2, 3, cfg.Seed)

	size := float32(cfg.Cells) * cfg.CellSize
	h := &Heightfield{
		name:     name,
		origin:   mgl32.Vec3{center.X() - size/2, center.Y(), center.Z() - size/2},
		cells:    cfg.Cells,
		cellSize: cfg.CellSize,
		heights:  make([]float32, (cfg.Cells+1)*(cfg.Cells+1)),
	}

	lo, hi := float32(math.MaxFloat32), float32(-math.MaxFloat32)
	for z := 0; z <= cfg.Cells; z++ {
		for x := 0; x <= cfg.Cells; x++ {
			v := float32(noise.Noise2D(float64(x)*cfg.Frequency, float64(z)*cfg.Frequency)) * cfg.Amplitude
			h.heights[z*(cfg.Cells+1)+x] = v
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	h.bounds = AABB{
		Min: mgl32.Vec3{h.origin.X(), h.origin.Y() + lo, h.origin.Z()},
		Max: mgl32.Vec3{h.origin.X() + size, h.origin.Y() + hi, h.origin.Z() + size},
	}
	return h
}

func (h *Heightfield) Name() string { return h.name }
func (h *Heightfield) Bounds() AABB { return h.bounds }

// HeightAt returns the terrain height under (x, z), bilinearly interpolated.
// The second value is false outside the grid.
func (h *Heightfield) HeightAt(x, z float32) (float32, bool) {
	fx := (x - h.origin.X()) / h.cellSize
	fz := (z - h.origin.Z()) / h.cellSize
	if fx < 0 || fz < 0 || fx > float32(h.cells) || fz > float32(h.cells) {
		return 0, false
	}

	ix := min(int(fx), h.cells-1)
	iz := min(int(fz), h.cells-1)
	tx := fx - float32(ix)
	tz := fz - float32(iz)

	stride := h.cells + 1
	h00 := h.heights[iz*stride+ix]
	h10 := h.heights[iz*stride+ix+1]
	h01 := h.heights[(iz+1)*stride+ix]
	h11 := h.heights[(iz+1)*stride+ix+1]

	top := h00 + (h10-h00)*tx
	bottom := h01 + (h11-h01)*tx
	return h.origin.Y() + top + (bottom-top)*tz, true
}

// NormalAt estimates the surface normal with central differences.
func (h *Heightfield) NormalAt(x, z float32) mgl32.Vec3 {
	e := h.cellSize * 0.5
	l, _ := h.HeightAt(x-e, z)
	r, _ := h.HeightAt(x+e, z)
	d, _ := h.HeightAt(x, z-e)
	u, _ := h.HeightAt(x, z+e)
	return mgl32.Vec3{l - r, 2 * e, d - u}.Normalize()
}

func (h *Heightfield) Cast(ray Ray, radius, maxDist float32) (Hit, bool) {
	above := func(t float32) (bool, bool) {
		p := ray.At(t)
		y, ok := h.HeightAt(p.X(), p.Z())
		if !ok {
			return true, false
		}
		return p.Y()-radius > y, true
	}

	// March then refine by bisection
	step := h.cellSize * 0.25
	prev := float32(0)
	if ok, inside := above(0); inside && !ok {
		return Hit{Point: ray.Origin, Normal: ray.Direction.Mul(-1), Distance: 0, Collider: h}, true
	}
	for t := step; t <= maxDist+step; t += step {
		t = min(t, maxDist)
		ok, inside := above(t)
		if inside && !ok {
			lo, hi := prev, t
			for i := 0; i < 12; i++ {
				mid := (lo + hi) / 2
				if a, _ := above(mid); a {
					lo = mid
				} else {
					hi = mid
				}
			}
			p := ray.At(hi)
			n := h.NormalAt(p.X(), p.Z())
			return Hit{Point: p.Sub(n.Mul(radius)), Normal: n, Distance: hi, Collider: h}, true
		}
		if t >= maxDist {
			break
		}
		prev = t
	}
	return Hit{}, false
}

func (h *Heightfield) Resolve(box AABB) mgl32.Vec3 {
	c := box.Center()
	y, ok := h.HeightAt(c.X(), c.Z())
	if !ok || box.Min.Y() >= y {
		return mgl32.Vec3{}
	}
	return mgl32.Vec3{0, y - box.Min.Y(), 0}
}

// Mesh is static triangle geometry, typically a loaded level.
type Mesh struct {
	name      string
	triangles [][3]mgl32.Vec3
	bounds    AABB
}

// NewMesh builds a collider from indexed triangles. Indices that do not form
// whole triangles are ignored.
func NewMesh(name string, vertices []mgl32.Vec3, indices []int32) *Mesh {
	m := &Mesh{name: name}
	if len(vertices) == 0 {
		return m
	}
	m.bounds = AABB{Min: vertices[0], Max: vertices[0]}
	for _, v := range vertices {
		for a := 0; a < 3; a++ {
			m.bounds.Min[a] = min(m.bounds.Min[a], v[a])
			m.bounds.Max[a] = max(m.bounds.Max[a], v[a])
		}
	}
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := int(indices[i]), int(indices[i+1]), int(indices[i+2])
		if a >= len(vertices) || b >= len(vertices) || c >= len(vertices) || a < 0 || b < 0 || c < 0 {
			continue
		}
		m.triangles = append(m.triangles, [3]mgl32.Vec3{vertices[a], vertices[b], vertices[c]})
	}
	return m
}

func (m *Mesh) Name() string   { return m.name }
func (m *Mesh) Bounds() AABB   { return m.bounds }
func (m *Mesh) Triangles() int { return len(m.triangles) }

// Cast treats the sphere as a ray and backs the contact off by radius along
// the surface normal. Good enough for ground and camera probes.
func (m *Mesh) Cast(ray Ray, radius, maxDist float32) (Hit, bool) {
	if ok, t, _ := RayIntersectAABB(ray, m.bounds.Inflate(radius)); !ok || t > maxDist {
		return Hit{}, false
	}

	best := Hit{Distance: float32(math.MaxFloat32)}
	found := false
	for _, tri := range m.triangles {
		ok, t, p := RayIntersectTriangle(ray, tri[0], tri[1], tri[2])
		if !ok {
			continue
		}
		n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Normalize()
		if n.Dot(ray.Direction) > 0 {
			n = n.Mul(-1)
		}
		cos := -n.Dot(ray.Direction)
		d := t
		if radius > 0 {
			d = t - radius/max(cos, 0.1)
			if d < 0 {
				d = 0
			}
		}
		if d <= maxDist && d < best.Distance {
			best = Hit{Point: p, Normal: n, Distance: d, Collider: m}
			found = true
		}
	}
	return best, found
}

// Resolve lifts the box onto the surface directly under its center. Walls are
// not resolved.
func (m *Mesh) Resolve(box AABB) mgl32.Vec3 {
	c := box.Center()
	if !m.bounds.Inflate(0.01).Overlaps(box) {
		return mgl32.Vec3{}
	}
	ray := Ray{Origin: mgl32.Vec3{c.X(), box.Max.Y(), c.Z()}, Direction: mgl32.Vec3{0, -1, 0}}
	hit, ok := m.Cast(ray, 0, box.Max.Y()-box.Min.Y())
	if !ok || hit.Point.Y() <= box.Min.Y() {
		return mgl32.Vec3{}
	}
	return mgl32.Vec3{0, hit.Point.Y() - box.Min.Y(), 0}
}
