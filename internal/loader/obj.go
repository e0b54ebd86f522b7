package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"LoomWalker/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// ErrEmptyModel is returned when a file parses but holds no triangles.
var ErrEmptyModel = errors.New("loader: model has no geometry")

// LoadModel reads a Wavefront OBJ file. Texture coordinates and materials are
// ignored; only positions, normals and faces are kept.
func LoadModel(filename string, recalculateNormals bool) (*Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	model, err := ParseOBJ(file, name, recalculateNormals)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	model.SourcePath = filename
	return model, nil
}

// ParseOBJ parses OBJ data from r.
func ParseOBJ(r io.Reader, name string, recalculateNormals bool) (*Model, error) {
	var vertices []mgl32.Vec3
	var normals []mgl32.Vec3
	var faces []int32
	texCoords := 0

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "v":
			v, err := parseVertex(parts[1:])
			if err != nil {
				logger.Log.Error("Error parsing vertex", zap.Int("line", line), zap.Error(err))
				return nil, err
			}
			vertices = append(vertices, v)
		case "vn":
			n, err := parseVertex(parts[1:])
			if err != nil {
				logger.Log.Error("Error parsing normal", zap.Int("line", line), zap.Error(err))
				return nil, err
			}
			normals = append(normals, n)
		case "f":
			face, err := parseFace(parts[1:], len(vertices), texCoords, len(normals))
			if err != nil {
				logger.Log.Error("Error parsing face", zap.Int("line", line), zap.Error(err))
				return nil, err
			}
			for _, fv := range face {
				if fv.VertexIdx < 0 || int(fv.VertexIdx) >= len(vertices) {
					return nil, fmt.Errorf("line %d: vertex index %d out of range", line, fv.VertexIdx+1)
				}
				faces = append(faces, fv.VertexIdx)
			}
		case "vt":
			// Counted for relative indices only
			texCoords++
		case "mtllib", "usemtl", "o", "g", "s":
			// Materials and UVs are the renderer's business
		default:
			logger.Log.Debug("Skipping unknown OBJ statement", zap.String("statement", parts[0]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(vertices) == 0 || len(faces) < 3 {
		return nil, ErrEmptyModel
	}

	if recalculateNormals || len(normals) != len(vertices) {
		normals = RecalculateNormals(vertices, faces)
	}

	model := NewModel(name, vertices, faces)
	model.Normals = normals

	logger.Log.Debug("OBJ parsed",
		zap.String("name", name),
		zap.Int("vertices", len(vertices)),
		zap.Int("triangles", len(faces)/3))
	return model, nil
}

func parseVertex(parts []string) (mgl32.Vec3, error) {
	var v mgl32.Vec3
	if len(parts) < 3 {
		return v, fmt.Errorf("vertex needs 3 components, got %d", len(parts))
	}
	for i := 0; i < 3; i++ {
		val, err := strconv.ParseFloat(parts[i], 32)
		if err != nil {
			return v, fmt.Errorf("invalid vertex value %v: %w", parts[i], err)
		}
		v[i] = float32(val)
	}
	return v, nil
}

type FaceVertex struct {
	VertexIdx   int32
	TexCoordIdx int32
	NormalIdx   int32
}

// parseIndex converts a 1-based OBJ index to 0-based. Negative indices count
// back from the count elements seen so far, -1 being the latest.
func parseIndex(s string, count int) (int32, error) {
	if s == "" {
		return -1, nil
	}
	idx, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return -1, err
	}
	switch {
	case idx == 0:
		return -1, fmt.Errorf("index 0 is not valid")
	case idx < 0:
		return int32(int64(count) + idx), nil
	}
	return int32(idx - 1), nil // .obj indices start at 1, not 0
}

func parseFace(parts []string, vertices, texCoords, normals int) ([]FaceVertex, error) {
	if len(parts) < 3 {
		return nil, fmt.Errorf("face needs at least 3 vertices, got %d", len(parts))
	}

	face := make([]FaceVertex, 0, len(parts))
	for _, part := range parts {
		vals := strings.Split(part, "/")

		vertexIdx, err := parseIndex(vals[0], vertices)
		if err != nil || vals[0] == "" {
			return nil, fmt.Errorf("invalid vertex index %q", vals[0])
		}

		fv := FaceVertex{VertexIdx: vertexIdx, TexCoordIdx: -1, NormalIdx: -1}
		if len(vals) > 1 {
			if fv.TexCoordIdx, err = parseIndex(vals[1], texCoords); err != nil {
				return nil, fmt.Errorf("invalid texture coordinate index %q: %w", vals[1], err)
			}
		}
		if len(vals) > 2 {
			if fv.NormalIdx, err = parseIndex(vals[2], normals); err != nil {
				return nil, fmt.Errorf("invalid normal index %q: %w", vals[2], err)
			}
		}
		face = append(face, fv)
	}

	// Quads and larger polygons become a triangle fan from the first vertex
	if len(face) == 3 {
		return face, nil
	}
	triangulated := make([]FaceVertex, 0, (len(face)-2)*3)
	for i := 1; i < len(face)-1; i++ {
		triangulated = append(triangulated, face[0], face[i], face[i+1])
	}
	return triangulated, nil
}

// RecalculateNormals averages face normals per vertex.
func RecalculateNormals(vertices []mgl32.Vec3, faces []int32) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(vertices))

	for i := 0; i+2 < len(faces); i += 3 {
		i0, i1, i2 := faces[i], faces[i+1], faces[i+2]
		if int(i0) >= len(vertices) || int(i1) >= len(vertices) || int(i2) >= len(vertices) {
			continue
		}
		v0, v1, v2 := vertices[i0], vertices[i1], vertices[i2]
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		normals[i0] = normals[i0].Add(n)
		normals[i1] = normals[i1].Add(n)
		normals[i2] = normals[i2].Add(n)
	}

	for i, n := range normals {
		if n.LenSqr() > 0 {
			normals[i] = n.Normalize()
		} else {
			normals[i] = mgl32.Vec3{0, 1, 0}
		}
	}
	return normals
}
