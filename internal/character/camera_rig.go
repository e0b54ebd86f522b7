package character

import (
	"math"

	"LoomWalker/internal/physics"
	"LoomWalker/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// RigConfig holds the camera rig limits. Angles in degrees.
type RigConfig struct {
	MinPitch    float32
	MaxPitch    float32
	PivotOffset mgl32.Vec3
	// MinDistance marks the camera as crowded. It never pushes the camera
	// past a probe hit.
	MinDistance float32
	MaxDistance float32
	ProbeRadius float32
	SkinMargin  float32
}

func (t Tuning) rigConfig() RigConfig {
	return RigConfig{
		MinPitch:    t.MinPitch,
		MaxPitch:    t.MaxPitch,
		PivotOffset: t.PivotOffset(),
		MinDistance: t.MinDistance,
		MaxDistance: t.MaxDistance,
		ProbeRadius: t.ProbeRadius,
		SkinMargin:  t.SkinMargin,
	}
}

// CameraRig orbits a camera around a target and pulls it in when geometry
// sits between the two. The camera itself belongs to the scene.
type CameraRig struct {
	camera *renderer.Camera
	world  physics.World
	ignore physics.BodyHandle
	cfg    RigConfig

	yaw      float32
	pitch    float32
	distance float32
}

func NewCameraRig(camera *renderer.Camera, world physics.World, ignore physics.BodyHandle, cfg RigConfig, yaw, pitch float32) *CameraRig {
	r := &CameraRig{
		camera:   camera,
		world:    world,
		ignore:   ignore,
		cfg:      cfg,
		yaw:      wrapDegrees(yaw),
		distance: cfg.MaxDistance,
	}
	r.pitch = r.clampPitch(pitch)
	return r
}

func (r *CameraRig) Camera() *renderer.Camera { return r.camera }
func (r *CameraRig) Yaw() float32             { return r.yaw }
func (r *CameraRig) Pitch() float32           { return r.pitch }

// Distance is the pivot to camera distance resolved by the last Update.
func (r *CameraRig) Distance() float32 { return r.distance }

// Crowded reports whether an obstruction pulled the camera in closer than
// MinDistance on the last Update.
func (r *CameraRig) Crowded() bool { return r.distance < r.cfg.MinDistance }

func (r *CameraRig) SetConfig(cfg RigConfig) {
	r.cfg = cfg
	r.pitch = r.clampPitch(r.pitch)
}

func (r *CameraRig) clampPitch(p float32) float32 {
	return mgl32.Clamp(p, r.cfg.MinPitch, r.cfg.MaxPitch)
}

// Update applies look, places the camera behind the pivot and aims it at the
// pivot. The distance is recomputed from scratch every call.
func (r *CameraRig) Update(target mgl32.Vec3, look mgl32.Vec2, dt float32) mgl32.Vec3 {
	r.yaw = wrapDegrees(r.yaw + look.X())
	r.pitch = r.clampPitch(r.pitch + look.Y())

	pivot := target.Add(r.cfg.PivotOffset)
	front := orbitFront(r.yaw, r.pitch)
	back := front.Mul(-1)

	r.distance = r.cfg.MaxDistance
	ray := physics.Ray{Origin: pivot, Direction: back}
	if hit, ok := r.world.SphereCast(ray, r.cfg.ProbeRadius, r.cfg.MaxDistance, r.ignore); ok && hit.Distance < r.cfg.MaxDistance {
		r.distance = mgl32.Clamp(hit.Distance-r.cfg.SkinMargin, 0, r.cfg.MaxDistance)
	}

	r.camera.Position = pivot.Add(back.Mul(r.distance))
	r.camera.SetOrientation(r.yaw, r.pitch)
	return r.camera.Position
}

// orbitFront matches renderer.Camera's yaw and pitch convention.
func orbitFront(yaw, pitch float32) mgl32.Vec3 {
	y := float64(mgl32.DegToRad(yaw))
	p := float64(mgl32.DegToRad(pitch))
	return mgl32.Vec3{
		float32(math.Cos(y) * math.Cos(p)),
		float32(math.Sin(p)),
		float32(math.Sin(y) * math.Cos(p)),
	}.Normalize()
}

// wrapDegrees maps an angle into [-180, 180).
func wrapDegrees(a float32) float32 {
	w := float32(math.Mod(float64(a)+180, 360))
	if w < 0 {
		w += 360
	}
	return w - 180
}
