package loader

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// NewCapsuleModel builds a capsule mesh centered on the origin, the same shape
// the character's physics body uses. height is tip to tip.
func NewCapsuleModel(name string, radius, height float32, segments, rings int) *Model {
	segments = max(segments, 3)
	rings = max(rings, 1)
	half := max(height/2-radius, 0)

	var vertices []mgl32.Vec3
	// Each hemisphere contributes rings+1 latitude rows; the top row of the
	// bottom cap and the bottom row of the top cap form the cylinder.
	for hemi := 0; hemi < 2; hemi++ {
		for r := 0; r <= rings; r++ {
			var phi float64
			offset := half
			if hemi == 0 {
				phi = -math.Pi/2 + float64(r)/float64(rings)*math.Pi/2
				offset = -half
			} else {
				phi = float64(r) / float64(rings) * math.Pi / 2
			}
			y := float32(math.Sin(phi))*radius + offset
			ringRadius := float32(math.Cos(phi)) * radius
			for s := 0; s <= segments; s++ {
				theta := float64(s) / float64(segments) * 2 * math.Pi
				vertices = append(vertices, mgl32.Vec3{
					ringRadius * float32(math.Cos(theta)),
					y,
					ringRadius * float32(math.Sin(theta)),
				})
			}
		}
	}

	rows := 2 * (rings + 1)
	stride := segments + 1
	var faces []int32
	for r := 0; r < rows-1; r++ {
		for s := 0; s < segments; s++ {
			a := int32(r*stride + s)
			b := a + 1
			c := int32((r+1)*stride + s)
			d := c + 1
			faces = append(faces, a, c, b, b, c, d)
		}
	}

	m := NewModel(name, vertices, faces)
	m.Normals = RecalculateNormals(vertices, faces)
	m.SourcePath = BuiltinCapsule
	return m
}
