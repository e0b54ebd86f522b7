package engine

import (
	"context"
	"testing"

	"LoomWalker/internal/behaviour"
)

type countingWorld struct {
	steps int
	total float32
}

func (w *countingWorld) Step(dt float32) {
	w.steps++
	w.total += dt
}

type frameComponent struct {
	behaviour.BaseComponent
	updates int
	fixed   int
	last    float32
}

func (c *frameComponent) Update(dt float32) {
	c.updates++
	c.last = dt
}

func (c *frameComponent) FixedUpdate(float32) {
	c.fixed++
}

func newTestLoop() (*Loop, *countingWorld, *frameComponent) {
	cm := behaviour.NewComponentManager()
	obj := behaviour.NewGameObject("probe")
	comp := &frameComponent{}
	obj.AddComponent(comp)
	cm.RegisterGameObject(obj)
	world := &countingWorld{}
	loop := NewLoop(cm, world)
	loop.FixedStep = 0.01
	return loop, world, comp
}

func TestLoopFixedSubSteps(t *testing.T) {
	loop, world, comp := newTestLoop()

	loop.Tick(0.035)

	if world.steps != 3 {
		t.Errorf("Expected 3 physics steps, got %d", world.steps)
	}
	if comp.updates != 1 || comp.last != 0.035 {
		t.Errorf("Expected one update with dt 0.035, got %d with %f", comp.updates, comp.last)
	}
	if comp.fixed != 3 {
		t.Errorf("Expected 3 fixed updates, got %d", comp.fixed)
	}

	// The leftover 0.005 carries into the next frame.
	loop.Tick(0.006)
	if world.steps != 4 {
		t.Errorf("Expected carry-over to produce a 4th step, got %d", world.steps)
	}
}

func TestLoopZeroDeltaDoesNotStep(t *testing.T) {
	loop, world, comp := newTestLoop()

	loop.Tick(0)
	loop.Tick(-1)

	if world.steps != 0 {
		t.Errorf("Expected no physics steps, got %d", world.steps)
	}
	if comp.updates != 2 || comp.last != 0 {
		t.Errorf("Components should still tick with dt 0, got %d updates, last %f", comp.updates, comp.last)
	}
}

func TestLoopDropsTimeWhenBehind(t *testing.T) {
	loop, world, _ := newTestLoop()
	loop.MaxSubSteps = 4

	loop.Tick(1)

	if world.steps != 4 {
		t.Errorf("Expected steps capped at 4, got %d", world.steps)
	}
	loop.Tick(0.001)
	if world.steps != 4 {
		t.Errorf("Dropped time should not be replayed, got %d steps", world.steps)
	}
}

func TestLoopRunFixed(t *testing.T) {
	loop, world, _ := newTestLoop()
	var seen []float32
	loop.OnFrame(func(dt float32) { seen = append(seen, dt) })

	err := loop.RunFixed(context.Background(), 5, 0.02, nil)

	if err != nil {
		t.Fatalf("RunFixed returned %v", err)
	}
	if loop.Frame() != 5 || len(seen) != 5 {
		t.Errorf("Expected 5 frames, got %d (%d callbacks)", loop.Frame(), len(seen))
	}
	if world.steps != 10 || loop.FixedSteps() != 10 {
		t.Errorf("Expected 10 steps, got %d", world.steps)
	}
}

func TestLoopRunFixedStops(t *testing.T) {
	loop, _, _ := newTestLoop()

	err := loop.RunFixed(context.Background(), 0, 0.02, func(frame int) bool { return frame < 3 })
	if err != nil {
		t.Fatalf("RunFixed returned %v", err)
	}
	if loop.Frame() != 3 {
		t.Errorf("Expected 3 frames before stop, got %d", loop.Frame())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := loop.RunFixed(ctx, 10, 0.02, nil); err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
