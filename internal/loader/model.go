package loader

import (
	"math"

	"LoomWalker/internal/logger"
	"LoomWalker/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Model is a renderer agnostic mesh plus the transform the scene places it at.
type Model struct {
	// HOT DATA - touched every frame by the controller
	ModelMatrix mgl32.Mat4
	Position    mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
	Animation   string // clip currently requested by the owner
	IsDirty     bool

	// MEDIUM DATA
	BoundingSphereCenter mgl32.Vec3
	BoundingSphereRadius float32
	CastShadows          bool

	// COLD DATA
	Name       string
	SourcePath string
	Vertices   []mgl32.Vec3
	Normals    []mgl32.Vec3
	Faces      []int32
	// PivotOffset moves the mesh relative to the transform it follows,
	// e.g. to put a capsule's feet on the body's bottom.
	PivotOffset mgl32.Vec3
}

// NewModel wraps geometry with an identity transform.
func NewModel(name string, vertices []mgl32.Vec3, faces []int32) *Model {
	m := &Model{
		Name:     name,
		Vertices: vertices,
		Faces:    faces,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
	m.updateModelMatrix()
	return m
}

func (m *Model) SetPosition(x, y, z float32) {
	m.SetPositionVec(mgl32.Vec3{x, y, z})
}

func (m *Model) SetScale(x, y, z float32) {
	m.SetScaleVec(mgl32.Vec3{x, y, z})
}

// ScaleBy multiplies the current scale uniformly.
func (m *Model) ScaleBy(f float32) {
	m.SetScaleVec(m.Scale.Mul(f))
}

func (m *Model) Translate(delta mgl32.Vec3) {
	m.SetPositionVec(m.Position.Add(delta))
}

// PlayAnimation records the clip the owner wants; returns true on change.
func (m *Model) PlayAnimation(name string) bool {
	if m.Animation == name {
		return false
	}
	logger.Log.Debug("Model animation changed",
		zap.String("model", m.Name),
		zap.String("from", m.Animation),
		zap.String("to", name))
	m.Animation = name
	return true
}

// behaviour.ModelInterface

func (m *Model) GetPosition() mgl32.Vec3 { return m.Position }
func (m *Model) GetRotation() mgl32.Quat { return m.Rotation }
func (m *Model) GetScale() mgl32.Vec3    { return m.Scale }

func (m *Model) SetPositionVec(p mgl32.Vec3) {
	m.Position = p
	m.MarkDirty()
}

func (m *Model) SetScaleVec(s mgl32.Vec3) {
	m.Scale = s
	m.MarkDirty()
}

// SetTransform assigns all three parts and rebuilds the matrix once.
func (m *Model) SetTransform(p mgl32.Vec3, q mgl32.Quat, s mgl32.Vec3) {
	m.Position = p
	m.Rotation = q
	m.Scale = s
	m.MarkDirty()
}

func (m *Model) MarkDirty() {
	m.IsDirty = true
	m.updateModelMatrix()
}

func (m *Model) updateModelMatrix() {
	// T * R * S, then the pivot offset in model space
	scaleMatrix := mgl32.Scale3D(m.Scale[0], m.Scale[1], m.Scale[2])
	rotationMatrix := m.Rotation.Mat4()
	translationMatrix := mgl32.Translate3D(m.Position[0], m.Position[1], m.Position[2])
	pivot := mgl32.Translate3D(m.PivotOffset[0], m.PivotOffset[1], m.PivotOffset[2])
	m.ModelMatrix = translationMatrix.Mul4(rotationMatrix).Mul4(scaleMatrix).Mul4(pivot)
	m.CalculateBoundingSphere()
}

// WorldVertices returns the vertices transformed by ModelMatrix.
func (m *Model) WorldVertices() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = m.ModelMatrix.Mul4x1(v.Vec4(1)).Vec3()
	}
	return out
}

func (m *Model) CalculateBoundingSphere() {
	if len(m.Vertices) == 0 {
		m.BoundingSphereCenter = m.Position
		m.BoundingSphereRadius = 0
		return
	}

	world := m.WorldVertices()
	var center mgl32.Vec3
	for _, v := range world {
		center = center.Add(v)
	}
	center = center.Mul(1.0 / float32(len(world)))

	var maxDistanceSq float32
	for _, v := range world {
		if d := v.Sub(center).LenSqr(); d > maxDistanceSq {
			maxDistanceSq = d
		}
	}

	m.BoundingSphereCenter = center
	m.BoundingSphereRadius = float32(math.Sqrt(float64(maxDistanceSq)))
}

// LocalBounds returns the untransformed bounding box of the mesh.
func (m *Model) LocalBounds() physics.AABB {
	if len(m.Vertices) == 0 {
		return physics.AABB{}
	}
	b := physics.AABB{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		for a := 0; a < 3; a++ {
			b.Min[a] = min(b.Min[a], v[a])
			b.Max[a] = max(b.Max[a], v[a])
		}
	}
	return b
}

// Collider builds static collision geometry from the model at its current
// transform. Used for level meshes.
func (m *Model) Collider() *physics.Mesh {
	return physics.NewMesh(m.Name, m.WorldVertices(), m.Faces)
}
