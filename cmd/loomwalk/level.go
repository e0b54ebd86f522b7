package main

import (
	"context"
	"fmt"

	"LoomWalker/internal/input"
	"LoomWalker/internal/loader"
	"LoomWalker/internal/logger"
	"LoomWalker/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const groundSize = 1000

// buildLevel fills world with the demo level: a flat ground, a few blocks to
// bump the camera into, a noise hill and, when levelPath is set, a mesh.
func buildLevel(ctx context.Context, world *physics.SimpleWorld, provider loader.Provider, levelPath string, seed int64) error {
	world.AddStatic(physics.NewGroundBox("ground", groundSize, 0))

	blocks := []struct {
		name   string
		center mgl32.Vec3
		half   mgl32.Vec3
	}{
		{"wall_north", mgl32.Vec3{0, 2, -20}, mgl32.Vec3{10, 2, 0.5}},
		{"step_low", mgl32.Vec3{6, 0.25, -8}, mgl32.Vec3{2, 0.25, 2}},
		{"step_high", mgl32.Vec3{6, 0.75, -12}, mgl32.Vec3{2, 0.75, 2}},
		{"pillar", mgl32.Vec3{-4, 3, -6}, mgl32.Vec3{0.5, 3, 0.5}},
	}
	for _, b := range blocks {
		world.AddStatic(physics.NewBox(b.name, b.center, b.half))
	}

	world.AddStatic(physics.NewHeightfield("hill", mgl32.Vec3{30, 0, -30}, physics.HeightfieldConfig{
		Cells:     32,
		CellSize:  1,
		Amplitude: 3,
		Frequency: 0.08,
		Seed:      seed,
	}))

	if levelPath != "" {
		model, err := provider.Load(ctx, levelPath)
		if err != nil {
			return fmt.Errorf("load level %s: %w", levelPath, err)
		}
		mesh := model.Collider()
		world.AddStatic(mesh)
		logger.Log.Info("Level mesh added",
			zap.String("path", levelPath),
			zap.Int("triangles", mesh.Triangles()))
	}

	logger.Log.Info("Level built", zap.Int("statics", len(world.Statics())))
	return nil
}

// demoScript is the headless input timeline: settle, walk, look around, run,
// jump and stop.
func demoScript() []input.Frame {
	var frames []input.Frame
	hold := func(n int, f input.Frame) {
		for i := 0; i < n; i++ {
			frames = append(frames, f)
		}
	}

	hold(90, input.Frame{})
	hold(120, input.Frame{Keys: []input.Key{input.KeyW}})
	hold(30, input.Frame{Keys: []input.Key{input.KeyW}, CursorDelta: [2]float64{10, 0}})
	hold(90, input.Frame{Keys: []input.Key{input.KeyW, input.KeyLeftShift}})
	hold(1, input.Frame{Keys: []input.Key{input.KeyW, input.KeySpace}})
	hold(60, input.Frame{Keys: []input.Key{input.KeyW}})
	hold(30, input.Frame{Keys: []input.Key{input.KeyA}, CursorDelta: [2]float64{0, -5}})
	hold(60, input.Frame{})
	return frames
}
