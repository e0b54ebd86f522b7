package renderer

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewDefaultCamera(t *testing.T) {
	cam := NewDefaultCamera(600, 800)

	if cam == nil {
		t.Fatal("NewDefaultCamera returned nil")
	}

	if cam.Position == (mgl32.Vec3{0, 0, 0}) {
		t.Error("Camera position should not be at origin")
	}

	if cam.Front.Sub(mgl32.Vec3{0, 0, -1}).Len() > 1e-4 {
		t.Errorf("Default camera should look down -Z, got %v", cam.Front)
	}

	if math.Abs(float64(cam.AspectRatio)-800.0/600.0) > 1e-4 {
		t.Errorf("Expected aspect 4:3, got %f", cam.AspectRatio)
	}
}

func TestCameraGetViewMatrix(t *testing.T) {
	cam := NewDefaultCamera(600, 800)
	cam.Position = mgl32.Vec3{0, 0, 5}
	cam.Front = mgl32.Vec3{0, 0, -1}
	cam.Up = mgl32.Vec3{0, 1, 0}

	view := cam.GetViewMatrix()

	if view.At(3, 3) != 1.0 {
		t.Error("View matrix should be valid (w component = 1)")
	}

	origin := view.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if math.Abs(float64(origin.Z())+5) > 1e-4 {
		t.Errorf("Origin should sit 5 units in front of the camera, got z=%f", origin.Z())
	}
}

func TestCameraGetProjectionMatrix(t *testing.T) {
	cam := NewDefaultCamera(600, 800)

	proj := cam.GetProjectionMatrix()

	if proj.At(3, 3) != 0.0 {
		t.Error("Perspective projection should have w=0 at (3,3)")
	}
}

func TestCameraSetFovRebuildsProjection(t *testing.T) {
	cam := NewDefaultCamera(600, 800)
	before := cam.GetProjectionMatrix()

	cam.SetFov(70)

	if cam.GetProjectionMatrix() == before {
		t.Error("SetFov should rebuild the projection")
	}
}

func TestCameraUpdateVectors(t *testing.T) {
	cam := NewDefaultCamera(600, 800)
	cam.Yaw = 0
	cam.Pitch = 30

	cam.updateCameraVectors()

	frontLen := cam.Front.Len()
	if math.Abs(float64(frontLen)-1.0) > 0.01 {
		t.Errorf("Front vector should be normalized, length=%f", frontLen)
	}
	if math.Abs(float64(cam.Front.Dot(cam.Right))) > 1e-4 || math.Abs(float64(cam.Front.Dot(cam.Up))) > 1e-4 {
		t.Error("Camera basis should be orthogonal")
	}
	if cam.Up.Y() <= 0 {
		t.Errorf("Up should point upward, got %v", cam.Up)
	}
}

func TestCameraLookAt(t *testing.T) {
	cam := NewDefaultCamera(600, 800)
	cam.Position = mgl32.Vec3{0, 3, 4}

	cam.LookAt(mgl32.Vec3{0, 0, 0})

	expected := mgl32.Vec3{0, -3, -4}.Normalize()
	if cam.Front.Sub(expected).Len() > 1e-3 {
		t.Errorf("Expected front %v, got %v", expected, cam.Front)
	}
	if cam.Pitch >= 0 {
		t.Errorf("Looking down should give negative pitch, got %f", cam.Pitch)
	}
}

func TestCameraLookAtSelfKeepsOrientation(t *testing.T) {
	cam := NewDefaultCamera(600, 800)
	front := cam.Front

	cam.LookAt(cam.Position)

	if cam.Front != front {
		t.Errorf("LookAt on own position changed front to %v", cam.Front)
	}
}

func TestCameraPitchClamped(t *testing.T) {
	cam := NewDefaultCamera(600, 800)

	cam.SetOrientation(-90, 120)

	if cam.Pitch != 89 {
		t.Errorf("Expected pitch clamped to 89, got %f", cam.Pitch)
	}
}

func TestFrustumContainsTarget(t *testing.T) {
	cam := NewDefaultCamera(600, 800)
	cam.Position = mgl32.Vec3{0, 2, 6}
	cam.LookAt(mgl32.Vec3{0, 1, 0})

	frustum := cam.CalculateFrustum()

	if !frustum.IntersectsSphere(mgl32.Vec3{0, 1, 0}, 0.5) {
		t.Error("Look target should be inside the frustum")
	}
	if frustum.IntersectsSphere(mgl32.Vec3{0, 1, 20}, 0.5) {
		t.Error("Point behind the camera should be culled")
	}
}

func TestViewProjectionLinmath(t *testing.T) {
	cam := NewDefaultCamera(600, 800)

	vp := cam.GetViewProjection()
	lm := cam.ViewProjectionLinmath()

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if lm[i][j] != vp[i*4+j] {
				t.Fatalf("Mismatch at [%d][%d]: %f vs %f", i, j, lm[i][j], vp[i*4+j])
			}
		}
	}
}

func TestCameraPose(t *testing.T) {
	cam := NewDefaultCamera(600, 800)

	pose := cam.Pose()

	if !strings.Contains(pose, "yaw=-90.0") {
		t.Errorf("Pose should include yaw, got %q", pose)
	}
}
