package character

import (
	"errors"
	"fmt"
	"io"
	"os"

	"LoomWalker/internal/input"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

var ErrInvalidTuning = errors.New("character: invalid tuning")

// KeyNames binds actions to input.Key names, e.g. "W" or "LeftShift".
type KeyNames struct {
	Forward string   `yaml:"forward"`
	Back    string   `yaml:"back"`
	Left    string   `yaml:"left"`
	Right   string   `yaml:"right"`
	Jump    string   `yaml:"jump"`
	Run     []string `yaml:"run"`
}

// Tuning is the feel of the character: speeds, jump, camera limits and the
// capsule it is built from. Angles are in degrees, distances in meters.
type Tuning struct {
	WalkSpeed    float32 `yaml:"walk_speed"`
	RunSpeed     float32 `yaml:"run_speed"`
	JumpStrength float32 `yaml:"jump_strength"` // impulse, N*s
	AirControl   float32 `yaml:"air_control"`
	Deadzone     float32 `yaml:"deadzone"`
	GroundProbe  float32 `yaml:"ground_probe"`
	MaxSlope     float32 `yaml:"max_slope"`
	// RisingSpeed is the upward speed above which ground hits are ignored.
	RisingSpeed float32 `yaml:"rising_speed"`

	LookSensitivity   float32 `yaml:"look_sensitivity"`
	InvertY           bool    `yaml:"invert_y"`
	RequireLookButton bool    `yaml:"require_look_button"`
	MinPitch          float32 `yaml:"min_pitch"`
	MaxPitch          float32 `yaml:"max_pitch"`
	StartYaw          float32 `yaml:"start_yaw"`
	StartPitch        float32 `yaml:"start_pitch"`
	PivotHeight       float32 `yaml:"pivot_height"`
	MinDistance       float32 `yaml:"min_distance"`
	MaxDistance       float32 `yaml:"max_distance"`
	ProbeRadius       float32 `yaml:"probe_radius"`
	SkinMargin        float32 `yaml:"skin_margin"`

	CapsuleRadius float32 `yaml:"capsule_radius"`
	CapsuleHeight float32 `yaml:"capsule_height"`
	Mass          float32 `yaml:"mass"`

	Keys KeyNames `yaml:"keys"`
}

func DefaultTuning() Tuning {
	return Tuning{
		WalkSpeed:    4,
		RunSpeed:     8,
		JumpStrength: 350,
		AirControl:   0.8,
		Deadzone:     0.1,
		GroundProbe:  0.15,
		MaxSlope:     50,
		RisingSpeed:  0.5,

		LookSensitivity: 0.15,
		MinPitch:        -70,
		MaxPitch:        35,
		StartYaw:        -90,
		StartPitch:      -15,
		PivotHeight:     0.6,
		MinDistance:     0.6,
		MaxDistance:     5,
		ProbeRadius:     0.2,
		SkinMargin:      0.1,

		CapsuleRadius: 0.4,
		CapsuleHeight: 1.8,
		Mass:          70,

		Keys: KeyNames{
			Forward: "W",
			Back:    "S",
			Left:    "A",
			Right:   "D",
			Jump:    "Space",
			Run:     []string{"LeftShift", "RightShift"},
		},
	}
}

// Validate returns every problem found, joined with ErrInvalidTuning.
func (t Tuning) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(t.WalkSpeed > 0, "walk_speed must be positive, got %v", t.WalkSpeed)
	check(t.RunSpeed >= t.WalkSpeed, "run_speed %v must not be below walk_speed %v", t.RunSpeed, t.WalkSpeed)
	check(t.JumpStrength >= 0, "jump_strength must not be negative")
	check(t.AirControl >= 0 && t.AirControl <= 1, "air_control must be in [0,1], got %v", t.AirControl)
	check(t.Deadzone >= 0 && t.Deadzone < 1, "deadzone must be in [0,1), got %v", t.Deadzone)
	check(t.GroundProbe >= 0, "ground_probe must not be negative")
	check(t.MaxSlope > 0 && t.MaxSlope < 90, "max_slope must be in (0,90), got %v", t.MaxSlope)
	check(t.LookSensitivity > 0, "look_sensitivity must be positive")
	check(t.MinPitch >= -89 && t.MaxPitch <= 89 && t.MinPitch < t.MaxPitch,
		"pitch range [%v,%v] must be ordered inside [-89,89]", t.MinPitch, t.MaxPitch)
	check(t.MinDistance > 0 && t.MinDistance < t.MaxDistance,
		"distance range [%v,%v] must be positive and ordered", t.MinDistance, t.MaxDistance)
	check(t.ProbeRadius >= 0 && t.SkinMargin >= 0, "probe_radius and skin_margin must not be negative")
	check(t.CapsuleRadius > 0 && t.CapsuleHeight >= 2*t.CapsuleRadius,
		"capsule needs radius > 0 and height >= 2*radius")
	check(t.Mass > 0, "mass must be positive")
	if _, err := t.Bindings(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrInvalidTuning}, errs...)...)
}

// PivotOffset is the point the camera orbits, relative to the body center.
func (t Tuning) PivotOffset() mgl32.Vec3 {
	return mgl32.Vec3{0, t.PivotHeight, 0}
}

// Bindings resolves the key names.
func (t Tuning) Bindings() (Bindings, error) {
	var b Bindings
	var err error
	resolve := func(name string) input.Key {
		k, ok := input.ParseKey(name)
		if !ok && err == nil {
			err = fmt.Errorf("unknown key %q", name)
		}
		return k
	}
	b.Forward = resolve(t.Keys.Forward)
	b.Back = resolve(t.Keys.Back)
	b.Left = resolve(t.Keys.Left)
	b.Right = resolve(t.Keys.Right)
	b.Jump = resolve(t.Keys.Jump)
	for _, name := range t.Keys.Run {
		b.Run = append(b.Run, resolve(name))
	}
	return b, err
}

// LoadTuning reads a YAML file over DefaultTuning, so a file only needs the
// fields it changes. Unknown fields are rejected.
func LoadTuning(path string) (Tuning, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("character: open tuning %s: %w", path, err)
	}
	defer f.Close()

	t := DefaultTuning()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return Tuning{}, fmt.Errorf("character: decode tuning %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, fmt.Errorf("character: tuning %s: %w", path, err)
	}
	return t, nil
}
