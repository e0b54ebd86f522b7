package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeightfieldIsDeterministic(t *testing.T) {
	cfg := HeightfieldConfig{Cells: 16, CellSize: 2, Amplitude: 3, Seed: 42}
	a := NewHeightfield("a", mgl32.Vec3{}, cfg)
	b := NewHeightfield("b", mgl32.Vec3{}, cfg)

	for _, p := range [][2]float32{{0, 0}, {3.3, -7.1}, {-15, 15}} {
		ha, ok := a.HeightAt(p[0], p[1])
		require.True(t, ok)
		hb, _ := b.HeightAt(p[0], p[1])
		assert.Equal(t, ha, hb)
	}
}

func TestHeightfieldOutsideGrid(t *testing.T) {
	h := NewHeightfield("terrain", mgl32.Vec3{}, HeightfieldConfig{Cells: 4, CellSize: 1, Amplitude: 1, Seed: 1})

	_, ok := h.HeightAt(100, 0)
	assert.False(t, ok)
	assert.Equal(t, mgl32.Vec3{}, h.Resolve(NewAABB(mgl32.Vec3{100, -5, 0}, mgl32.Vec3{0.5, 0.5, 0.5})))
}

func TestHeightfieldCastAndResolveAgree(t *testing.T) {
	h := NewHeightfield("terrain", mgl32.Vec3{}, HeightfieldConfig{Cells: 32, CellSize: 1, Amplitude: 2, Seed: 7})
	ground, ok := h.HeightAt(1.5, 2.5)
	require.True(t, ok)

	hit, ok := h.Cast(Ray{Origin: mgl32.Vec3{1.5, 10, 2.5}, Direction: mgl32.Vec3{0, -1, 0}}, 0, 20)
	require.True(t, ok)
	assert.InDelta(t, 10-ground, hit.Distance, 0.01)
	assert.Greater(t, hit.Normal.Y(), float32(0))

	box := NewAABB(mgl32.Vec3{1.5, ground, 2.5}, mgl32.Vec3{0.4, 0.9, 0.4})
	push := h.Resolve(box)
	assert.InDelta(t, 0.9, push.Y(), 1e-4)
}

func TestFlatHeightfieldAmplitudeZero(t *testing.T) {
	h := NewHeightfield("flat", mgl32.Vec3{0, 2, 0}, HeightfieldConfig{Cells: 8, CellSize: 1, Amplitude: 0, Seed: 3})

	y, ok := h.HeightAt(0.3, 0.7)
	require.True(t, ok)
	assert.Equal(t, float32(2), y)
	assert.InDelta(t, 1.0, h.NormalAt(0, 0).Y(), 1e-5)
}

func quad(y float32) ([]mgl32.Vec3, []int32) {
	verts := []mgl32.Vec3{{-5, y, -5}, {5, y, -5}, {5, y, 5}, {-5, y, 5}}
	return verts, []int32{0, 2, 1, 0, 3, 2}
}

func TestMeshCastAndResolve(t *testing.T) {
	verts, idx := quad(1)
	m := NewMesh("level", verts, idx)
	assert.Equal(t, 2, m.Triangles())

	hit, ok := m.Cast(Ray{Origin: mgl32.Vec3{1, 4, -2}, Direction: mgl32.Vec3{0, -1, 0}}, 0, 10)
	require.True(t, ok)
	assert.InDelta(t, 3.0, hit.Distance, 1e-5)
	assert.InDelta(t, 1.0, hit.Normal.Y(), 1e-5)

	hit, ok = m.Cast(Ray{Origin: mgl32.Vec3{1, 4, -2}, Direction: mgl32.Vec3{0, -1, 0}}, 0.5, 10)
	require.True(t, ok)
	assert.InDelta(t, 2.5, hit.Distance, 1e-5)

	push := m.Resolve(NewAABB(mgl32.Vec3{1, 1.7, -2}, mgl32.Vec3{0.4, 0.9, 0.4}))
	assert.InDelta(t, 0.2, push.Y(), 1e-5)
}

func TestMeshSkipsBadIndices(t *testing.T) {
	verts, _ := quad(0)
	m := NewMesh("broken", verts, []int32{0, 1, 9, 0, 1})
	assert.Zero(t, m.Triangles())
}
