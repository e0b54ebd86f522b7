package behaviour

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Component is the base interface for all components
// Components can be attached to GameObjects
type Component interface {
	// Lifecycle methods
	Awake()                          // Called when component is first created
	Start()                          // Called before first Update (after all Awakes)
	Update(deltaSeconds float32)     // Called every frame
	FixedUpdate(stepSeconds float32) // Called at fixed time intervals
	OnDestroy()                      // Called when component/object is destroyed

	// Component info
	GetEnabled() bool
	SetEnabled(bool)
	GetGameObject() *GameObject
	SetGameObject(*GameObject)
}

// BaseComponent provides default implementations for all Component methods
// Embed it to only override the methods you need
type BaseComponent struct {
	enabled    bool
	gameObject *GameObject
}

func (c *BaseComponent) Awake()              {}
func (c *BaseComponent) Start()              {}
func (c *BaseComponent) Update(float32)      {}
func (c *BaseComponent) FixedUpdate(float32) {}
func (c *BaseComponent) OnDestroy()          {}

func (c *BaseComponent) GetEnabled() bool {
	return c.enabled
}

func (c *BaseComponent) SetEnabled(enabled bool) {
	c.enabled = enabled
}

func (c *BaseComponent) GetGameObject() *GameObject {
	return c.gameObject
}

func (c *BaseComponent) SetGameObject(obj *GameObject) {
	c.gameObject = obj
}

// GameObject represents an object in the scene
type GameObject struct {
	Name       string
	Tag        string
	Active     bool
	Transform  *Transform
	Components []Component
	model      ModelInterface
	started    bool
}

// Transform component
type Transform struct {
	BaseComponent
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() *Transform {
	return &Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Transform methods
func (t *Transform) Translate(delta mgl32.Vec3) {
	t.Position = t.Position.Add(delta)
}

func (t *Transform) Rotate(axis mgl32.Vec3, angle float32) {
	rotation := mgl32.QuatRotate(angle, axis)
	t.Rotation = t.Rotation.Mul(rotation)
}

func (t *Transform) SetPosition(pos mgl32.Vec3) {
	t.Position = pos
}

func (t *Transform) SetRotation(rot mgl32.Quat) {
	t.Rotation = rot
}

func (t *Transform) SetScale(scale mgl32.Vec3) {
	t.Scale = scale
}

func (t *Transform) Forward() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

func (t *Transform) Up() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 1, 0})
}

func (t *Transform) Right() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
}

// Heading returns the yaw of Forward on the XZ plane in degrees, 0 facing -Z
// and increasing towards +X.
func (t *Transform) Heading() float32 {
	f := t.Forward()
	return mgl32.RadToDeg(float32(math.Atan2(float64(f.X()), float64(-f.Z()))))
}

// GameObject methods
func NewGameObject(name string) *GameObject {
	obj := &GameObject{
		Name:       name,
		Active:     true,
		Components: make([]Component, 0),
		Transform:  NewTransform(),
	}
	obj.Transform.SetGameObject(obj)
	return obj
}

func (obj *GameObject) AddComponent(component Component) {
	component.SetGameObject(obj)
	component.SetEnabled(true)
	obj.Components = append(obj.Components, component)
	component.Awake()
}

// GetComponent returns the first component whose type name matches.
func (obj *GameObject) GetComponent(typeName string) Component {
	for _, comp := range obj.Components {
		if comp != nil && GetComponentTypeName(comp) == typeName {
			return comp
		}
	}
	return nil
}

// GetComponents returns every component whose type name matches.
func (obj *GameObject) GetComponents(typeName string) []Component {
	var result []Component
	for _, comp := range obj.Components {
		if comp != nil && GetComponentTypeName(comp) == typeName {
			result = append(result, comp)
		}
	}
	return result
}

func (obj *GameObject) RemoveComponent(component Component) {
	for i, comp := range obj.Components {
		if comp == component {
			comp.OnDestroy()
			obj.Components = append(obj.Components[:i], obj.Components[i+1:]...)
			return
		}
	}
}

// SetModel links a renderable whose transform mirrors this object.
func (obj *GameObject) SetModel(model ModelInterface) {
	obj.model = model
}

func (obj *GameObject) GetModel() ModelInterface {
	return obj.model
}

type ModelInterface interface {
	GetPosition() mgl32.Vec3
	GetRotation() mgl32.Quat
	GetScale() mgl32.Vec3
	// SetTransform replaces position, rotation and scale in one update.
	SetTransform(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3)
	MarkDirty()
}

// PushToModel copies the transform to the linked model when they differ.
func (obj *GameObject) PushToModel() {
	model := obj.model
	if model == nil {
		return
	}
	if !obj.Transform.Position.ApproxEqual(model.GetPosition()) ||
		!obj.Transform.Rotation.ApproxEqual(model.GetRotation()) ||
		!obj.Transform.Scale.ApproxEqual(model.GetScale()) {
		model.SetTransform(obj.Transform.Position, obj.Transform.Rotation, obj.Transform.Scale)
	}
}

func (obj *GameObject) internalUpdate(dt float32) {
	if !obj.Active {
		return
	}

	for _, comp := range obj.Components {
		if comp.GetEnabled() {
			comp.Update(dt)
		}
	}
}

func (obj *GameObject) internalFixedUpdate(step float32) {
	if !obj.Active {
		return
	}

	for _, comp := range obj.Components {
		if comp.GetEnabled() {
			comp.FixedUpdate(step)
		}
	}
}

func (obj *GameObject) internalStart() {
	if !obj.Active || obj.started {
		return
	}
	obj.started = true

	for _, comp := range obj.Components {
		if comp.GetEnabled() {
			comp.Start()
		}
	}
}

func (obj *GameObject) Destroy() {
	for _, comp := range obj.Components {
		comp.OnDestroy()
	}
	obj.Active = false
}
