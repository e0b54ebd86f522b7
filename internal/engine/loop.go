// Package engine drives frames: components first, then the physics world on
// a fixed sub-step.
package engine

import (
	"context"

	"LoomWalker/internal/behaviour"
	"LoomWalker/internal/logger"

	"go.uber.org/zap"
)

const (
	DefaultFixedStep   = float32(1.0 / 120.0)
	DefaultMaxSubSteps = 8
)

// Stepper advances a simulation by a fixed amount of time.
type Stepper interface {
	Step(dt float32)
}

// Loop ticks a ComponentManager once per frame and its world at a fixed rate.
// Frame time the world could not catch up on within MaxSubSteps is dropped.
type Loop struct {
	Manager     *behaviour.ComponentManager
	World       Stepper
	FixedStep   float32
	MaxSubSteps int

	accumulator float32
	frame       uint64
	steps       uint64
	onFrame     []func(dt float32)
}

func NewLoop(manager *behaviour.ComponentManager, world Stepper) *Loop {
	return &Loop{
		Manager:     manager,
		World:       world,
		FixedStep:   DefaultFixedStep,
		MaxSubSteps: DefaultMaxSubSteps,
	}
}

// OnFrame registers fn to run at the end of every Tick.
func (l *Loop) OnFrame(fn func(dt float32)) {
	l.onFrame = append(l.onFrame, fn)
}

func (l *Loop) Frame() uint64      { return l.frame }
func (l *Loop) FixedSteps() uint64 { return l.steps }

// Tick runs one frame of deltaSeconds.
func (l *Loop) Tick(deltaSeconds float32) {
	if deltaSeconds < 0 {
		deltaSeconds = 0
	}
	l.Manager.UpdateAll(deltaSeconds)

	l.accumulator += deltaSeconds
	n := 0
	for l.accumulator >= l.FixedStep && n < l.MaxSubSteps {
		l.Manager.FixedUpdateAll(l.FixedStep)
		if l.World != nil {
			l.World.Step(l.FixedStep)
		}
		l.accumulator -= l.FixedStep
		l.steps++
		n++
	}
	if n == l.MaxSubSteps && l.accumulator >= l.FixedStep {
		logger.Log.Debug("Physics fell behind, dropping time",
			zap.Float32("dropped", l.accumulator),
			zap.Uint64("frame", l.frame))
		l.accumulator = 0
	}

	for _, fn := range l.onFrame {
		fn(deltaSeconds)
	}
	l.frame++
}

// RunFixed ticks frames of dt until ctx ends, frames have run, or next
// returns false. frames <= 0 means no limit.
func (l *Loop) RunFixed(ctx context.Context, frames int, dt float32, next func(frame int) bool) error {
	for i := 0; frames <= 0 || i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if next != nil && !next(i) {
			return nil
		}
		l.Tick(dt)
	}
	return nil
}
