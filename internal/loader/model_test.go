package loader

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewCapsuleModelBounds(t *testing.T) {
	m := NewCapsuleModel("capsule", 0.5, 2, 12, 4)

	b := m.LocalBounds()
	if math.Abs(float64(b.Max.Y()-1)) > 1e-4 || math.Abs(float64(b.Min.Y()+1)) > 1e-4 {
		t.Errorf("Capsule should span y in [-1,1], got [%f,%f]", b.Min.Y(), b.Max.Y())
	}
	if math.Abs(float64(b.Max.X()-0.5)) > 1e-4 {
		t.Errorf("Capsule radius should be 0.5, got %f", b.Max.X())
	}
	if len(m.Faces)%3 != 0 {
		t.Errorf("Faces should be whole triangles, got %d indices", len(m.Faces))
	}
	for _, idx := range m.Faces {
		if int(idx) >= len(m.Vertices) {
			t.Fatalf("Face index %d out of range", idx)
		}
	}
}

func TestModelSetPositionUpdatesMatrix(t *testing.T) {
	m := NewCapsuleModel("capsule", 0.5, 2, 8, 2)
	m.IsDirty = false

	m.SetPosition(1, 2, 3)

	if !m.IsDirty {
		t.Error("Model should be dirty after SetPosition")
	}
	if m.ModelMatrix.Col(3).Vec3() != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("Translation column should be (1,2,3), got %v", m.ModelMatrix.Col(3).Vec3())
	}
	if m.BoundingSphereCenter.Sub(mgl32.Vec3{1, 2, 3}).Len() > 0.1 {
		t.Errorf("Bounding sphere should follow the model, got %v", m.BoundingSphereCenter)
	}
}

func TestModelScaleByAndTranslate(t *testing.T) {
	m := NewModel("level", []mgl32.Vec3{{-1, 0, -1}, {1, 0, -1}, {1, 0, 1}}, []int32{0, 2, 1})

	m.ScaleBy(0.7)
	m.Translate(mgl32.Vec3{0, 0.31, 0})

	if m.Scale != (mgl32.Vec3{0.7, 0.7, 0.7}) {
		t.Errorf("Expected scale 0.7, got %v", m.Scale)
	}
	world := m.WorldVertices()
	if math.Abs(float64(world[1].X()-0.7)) > 1e-5 || math.Abs(float64(world[1].Y()-0.31)) > 1e-5 {
		t.Errorf("Unexpected world vertex %v", world[1])
	}
}

func TestModelColliderUsesWorldTransform(t *testing.T) {
	m := NewModel("floor", []mgl32.Vec3{{-5, 0, -5}, {5, 0, -5}, {5, 0, 5}, {-5, 0, 5}}, []int32{0, 2, 1, 0, 3, 2})
	m.SetPosition(0, 2, 0)

	c := m.Collider()
	if c.Triangles() != 2 {
		t.Errorf("Expected 2 triangles, got %d", c.Triangles())
	}
	if c.Bounds().Max.Y() != 2 {
		t.Errorf("Collider should sit at y=2, got %f", c.Bounds().Max.Y())
	}
}

func TestPlayAnimation(t *testing.T) {
	m := NewModel("rig", nil, nil)

	if !m.PlayAnimation("walk") {
		t.Error("First PlayAnimation should report a change")
	}
	if m.PlayAnimation("walk") {
		t.Error("Repeating the same clip should not report a change")
	}
	if m.Animation != "walk" {
		t.Errorf("Expected walk, got %s", m.Animation)
	}
}

func TestModelSetTransform(t *testing.T) {
	m := NewCapsuleModel("capsule", 0.5, 2, 8, 2)
	m.IsDirty = false

	m.SetTransform(mgl32.Vec3{4, 0, -1}, mgl32.QuatIdent(), mgl32.Vec3{2, 2, 2})

	if !m.IsDirty {
		t.Error("Model should be dirty after SetTransform")
	}
	if m.ModelMatrix.Col(3).Vec3() != (mgl32.Vec3{4, 0, -1}) {
		t.Errorf("Translation column should be (4,0,-1), got %v", m.ModelMatrix.Col(3).Vec3())
	}
	if math.Abs(float64(m.ModelMatrix.At(0, 0)-2)) > 1e-5 {
		t.Errorf("Scale should be 2, got %f", m.ModelMatrix.At(0, 0))
	}
	if m.BoundingSphereRadius < 1.5 {
		t.Errorf("Bounding sphere should grow with scale, got %f", m.BoundingSphereRadius)
	}
}
