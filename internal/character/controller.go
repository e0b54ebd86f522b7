// Package character implements a physics driven third person character:
// input sampling, a movement state machine, the binding to a physics body
// and a collision aware orbit camera, composed by Controller.
package character

import (
	"context"
	"errors"
	"fmt"

	"LoomWalker/internal/behaviour"
	"LoomWalker/internal/input"
	"LoomWalker/internal/loader"
	"LoomWalker/internal/logger"
	"LoomWalker/internal/physics"
	"LoomWalker/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrConstruction = errors.New("character: construction failed")

// Scene is what the controller borrows from its surroundings. None of it is
// owned by the controller, and the scene must outlive it.
type Scene struct {
	World    physics.World
	Camera   *renderer.Camera
	Provider loader.Provider
	Input    input.Source
}

type Options struct {
	Name string
	// ModelPath defaults to loader.BuiltinCapsule.
	ModelPath string
	Position  mgl32.Vec3
	Tuning    Tuning
}

// Result is delivered once on the channel returned by CreateAsync.
type Result struct {
	Controller *Controller
	Err        error
}

type Controller struct {
	id     uuid.UUID
	name   string
	tuning Tuning

	sampler *Sampler
	machine *Machine
	body    *Body
	rig     *CameraRig

	model  *loader.Model
	object *behaviour.GameObject

	tuningUpdates <-chan Tuning
	closed        bool
}

// CreateAsync builds a controller in the background. The channel receives
// exactly one Result and is then closed.
func CreateAsync(ctx context.Context, scene Scene, opts Options) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		c, err := Create(ctx, scene, opts)
		ch <- Result{Controller: c, Err: err}
	}()
	return ch
}

// Create loads the model and creates the physics body concurrently. Either
// both succeed and a ready controller is returned, or everything created so
// far is released and the error wraps ErrConstruction.
func Create(ctx context.Context, scene Scene, opts Options) (*Controller, error) {
	if scene.World == nil || scene.Camera == nil || scene.Provider == nil || scene.Input == nil {
		return nil, fmt.Errorf("%w: scene needs a world, camera, provider and input", ErrConstruction)
	}
	if err := opts.Tuning.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConstruction, err)
	}
	bindings, err := opts.Tuning.Bindings()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConstruction, err)
	}

	id := uuid.New()
	if opts.Name == "" {
		opts.Name = "Character"
	}
	if opts.ModelPath == "" {
		opts.ModelPath = loader.BuiltinCapsule
	}
	desc := physics.BodyDesc{
		Name:     opts.Name,
		Shape:    physics.ShapeCapsule,
		Radius:   opts.Tuning.CapsuleRadius,
		Height:   opts.Tuning.CapsuleHeight,
		Mass:     opts.Tuning.Mass,
		Position: opts.Position,
		Rotation: mgl32.QuatIdent(),
	}

	var (
		model  *loader.Model
		handle physics.BodyHandle
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := scene.Provider.Load(gctx, opts.ModelPath)
		if err != nil {
			return fmt.Errorf("load model %q: %w", opts.ModelPath, err)
		}
		if m == nil {
			return fmt.Errorf("load model %q: %w", opts.ModelPath, loader.ErrEmptyModel)
		}
		model = m
		return nil
	})
	g.Go(func() error {
		h, err := scene.World.CreateBody(gctx, desc)
		if err != nil {
			return fmt.Errorf("create body: %w", err)
		}
		handle = h
		return nil
	})
	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		if !handle.IsZero() {
			if rerr := scene.World.RemoveBody(handle); rerr != nil {
				logger.Log.Warn("Release body after failed construction", zap.Error(rerr))
			}
		}
		logger.Log.Error("Character construction failed", zap.String("name", opts.Name), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrConstruction, err)
	}

	c := &Controller{
		id:      id,
		name:    opts.Name,
		tuning:  opts.Tuning,
		sampler: NewSampler(scene.Input, bindings, opts.Tuning.LookSensitivity),
		machine: NewMachine(opts.Tuning.machineConfig()),
		body:    newBody(scene.World, handle, desc, opts.Tuning),
		model:   model,
	}
	c.sampler.InvertY = opts.Tuning.InvertY
	c.sampler.RequireLookButton = opts.Tuning.RequireLookButton
	c.rig = NewCameraRig(scene.Camera, scene.World, handle, opts.Tuning.rigConfig(),
		opts.Tuning.StartYaw, opts.Tuning.StartPitch)
	c.machine.OnTransition(c.onTransition)
	c.buildObject(scene.Camera)

	c.body.Sync()
	c.rig.Update(c.body.Position(), mgl32.Vec2{}, 0)
	c.syncTransform()
	c.model.PlayAnimation(StateIdle.clip())

	logger.Log.Info("Character ready",
		zap.String("name", c.name),
		zap.Stringer("id", c.id),
		zap.Stringer("body", handle),
		zap.String("model", opts.ModelPath))
	return c, nil
}

func (c *Controller) buildObject(camera *renderer.Camera) {
	c.object = behaviour.NewGameObject(c.name)
	c.object.Tag = "Player"
	c.object.Transform.Scale = c.model.Scale

	mesh := behaviour.NewMeshComponent(c.model.SourcePath)
	c.object.AddComponent(mesh)
	mesh.SetMesh(c.model)

	cam := behaviour.NewCameraComponent()
	cam.IsMain = true
	cam.CameraData = camera
	c.object.AddComponent(cam)

	c.object.AddComponent(&controllerComponent{controller: c})
}

func (c *Controller) onTransition(from, to MovementState) {
	logger.Log.Debug("Movement state changed",
		zap.String("character", c.name),
		zap.Stringer("from", from),
		zap.Stringer("to", to))
	c.model.PlayAnimation(to.clip())
}

// Update advances the controller by one frame: sample input, read back the
// body, step the state machine, apply its output and move the camera.
// A non-positive dt leaves input edges unconsumed and changes nothing but
// the camera placement.
func (c *Controller) Update(deltaSeconds float32) {
	if c.closed {
		return
	}
	c.drainTuning()

	var intent MovementIntent
	if deltaSeconds > 0 {
		intent = c.sampler.Sample()
	}

	c.body.Sync()
	if !c.body.Disabled() {
		ground := c.body.Ground(c.tuning.GroundProbe)
		c.machine.SetFacingYaw(c.rig.Yaw())
		out := c.machine.Step(intent, ground, deltaSeconds)
		c.body.ApplyMovement(out.PlanarVelocity, out.VerticalImpulse, deltaSeconds)
		if deltaSeconds > 0 && !out.State.IsAirborne() {
			c.body.Face(out.PlanarVelocity)
		}
	}

	c.rig.Update(c.body.Position(), intent.Look, deltaSeconds)
	c.syncTransform()
}

func (c *Controller) syncTransform() {
	c.object.Transform.Position = c.body.Position()
	c.object.Transform.Rotation = c.body.Rotation()
	c.object.PushToModel()
}

// WatchTuning makes Update apply tunings received on ch.
func (c *Controller) WatchTuning(ch <-chan Tuning) {
	c.tuningUpdates = ch
}

func (c *Controller) drainTuning() {
	if c.tuningUpdates == nil {
		return
	}
	for {
		select {
		case t, ok := <-c.tuningUpdates:
			if !ok {
				c.tuningUpdates = nil
				return
			}
			if err := c.ApplyTuning(t); err != nil {
				logger.Log.Warn("Rejected tuning update", zap.Error(err))
			}
		default:
			return
		}
	}
}

// ApplyTuning swaps speeds, camera limits and input settings in place. The
// capsule size and mass of an existing body do not change.
func (c *Controller) ApplyTuning(t Tuning) error {
	if err := t.Validate(); err != nil {
		return err
	}
	bindings, err := t.Bindings()
	if err != nil {
		return err
	}
	if t.CapsuleRadius != c.tuning.CapsuleRadius || t.CapsuleHeight != c.tuning.CapsuleHeight || t.Mass != c.tuning.Mass {
		logger.Log.Info("Capsule and mass changes apply to newly created characters only",
			zap.String("character", c.name))
	}
	c.tuning = t
	c.machine.SetConfig(t.machineConfig())
	c.rig.SetConfig(t.rigConfig())
	c.body.tune(t)
	c.sampler.bindings = bindings
	c.sampler.Sensitivity = t.LookSensitivity
	c.sampler.InvertY = t.InvertY
	c.sampler.RequireLookButton = t.RequireLookButton
	logger.Log.Info("Tuning applied", zap.String("character", c.name))
	return nil
}

// SetPosition teleports the character and resets its movement.
func (c *Controller) SetPosition(p mgl32.Vec3) {
	c.body.SetPosition(p)
	c.machine.Reset()
	c.sampler.Reset()
	c.rig.Update(c.body.Position(), mgl32.Vec2{}, 0)
	c.syncTransform()
}

// Close removes the body from the world. The last transform stays readable.
func (c *Controller) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.object.Active = false
	if err := c.body.Release(); err != nil {
		return fmt.Errorf("character: release body: %w", err)
	}
	return nil
}

func (c *Controller) ID() uuid.UUID                   { return c.id }
func (c *Controller) Name() string                    { return c.name }
func (c *Controller) Transform() *behaviour.Transform { return c.object.Transform }
func (c *Controller) Model() *loader.Model            { return c.model }
func (c *Controller) Camera() *renderer.Camera        { return c.rig.Camera() }
func (c *Controller) Rig() *CameraRig                 { return c.rig }
func (c *Controller) Body() *Body                     { return c.body }
func (c *Controller) State() MovementState            { return c.machine.State() }
func (c *Controller) Tuning() Tuning                  { return c.tuning }

// Disabled reports that the physics body is gone and movement is frozen.
func (c *Controller) Disabled() bool { return c.body.Disabled() }

// GameObject carries the mesh, camera and controller components so a
// behaviour.ComponentManager can tick the character.
func (c *Controller) GameObject() *behaviour.GameObject { return c.object }

// Component returns the component that drives this controller.
func (c *Controller) Component() behaviour.Component {
	return c.object.GetComponent(controllerTypeName)
}

const controllerTypeName = "CharacterController"

type controllerComponent struct {
	behaviour.BaseComponent
	controller *Controller
}

func (cc *controllerComponent) Update(dt float32) {
	cc.controller.Update(dt)
}

func (cc *controllerComponent) OnDestroy() {
	if err := cc.controller.Close(); err != nil {
		logger.Log.Warn("Close character", zap.Error(err))
	}
}

func (cc *controllerComponent) GetComponentType() behaviour.ComponentType {
	return behaviour.ComponentTypeController
}

func (cc *controllerComponent) GetTypeName() string {
	return controllerTypeName
}
