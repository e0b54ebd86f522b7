// Package input abstracts the device state the character controller polls
// once per frame.
package input

// Key names a logical keyboard key.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeySpace
	KeyLeftShift
	KeyRightShift
	KeyP
	KeyEscape
)

var keyNames = map[Key]string{
	KeyW:          "W",
	KeyA:          "A",
	KeyS:          "S",
	KeyD:          "D",
	KeySpace:      "Space",
	KeyLeftShift:  "LeftShift",
	KeyRightShift: "RightShift",
	KeyP:          "P",
	KeyEscape:     "Escape",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseKey resolves a key by its String name.
func ParseKey(name string) (Key, bool) {
	for k, n := range keyNames {
		if n == name {
			return k, true
		}
	}
	return KeyUnknown, false
}

type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// Source is polled by the sampler. Implementations must not block.
type Source interface {
	KeyDown(Key) bool
	CursorPos() (x, y float64)
	MouseButtonDown(MouseButton) bool
}
