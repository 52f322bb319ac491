package sim

import (
	"fmt"
	"strings"
)

type InputKind uint8

const (
	PointerMove InputKind = iota
	PointerEnter
	PointerLeave
	PointerDown
	PointerDrag
	PointerUp
	Click
	KeyPress
)

var inputNames = [...]string{"pointer-move", "pointer-enter", "pointer-leave", "pointer-down", "pointer-drag", "pointer-up", "click", "key"}

func (k InputKind) String() string {
	if int(k) < len(inputNames) {
		return inputNames[k]
	}
	return "unknown"
}

func ParseInputKind(s string) (InputKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range inputNames {
		if n == s {
			return InputKind(i), nil
		}
	}
	return 0, fmt.Errorf("sim: unknown input kind %q", s)
}

type Key string

const (
	KeyFlip          Key = "flip"
	KeyEscape        Key = "escape"
	KeyReset         Key = "reset"
	KeyQualityLow    Key = "quality-low"
	KeyQualityMedium Key = "quality-medium"
	KeyQualityHigh   Key = "quality-high"
	KeyAutoRotate    Key = "auto-rotate"
)

// Input is one inbound event. PointerMove carries normalized coordinates in
// [-1, 1]; PointerDown/Drag/Up carry pixels.
type Input struct {
	Kind    InputKind
	X, Y    float64
	Outside bool
	Key     Key
}

func (in Input) String() string {
	switch in.Kind {
	case PointerMove, PointerDown, PointerDrag, PointerUp:
		return fmt.Sprintf("%s(%.2f, %.2f)", in.Kind, in.X, in.Y)
	case Click:
		if in.Outside {
			return "click(outside)"
		}
	case KeyPress:
		return fmt.Sprintf("key(%s)", in.Key)
	}
	return in.Kind.String()
}

func Move(x, y float64) Input   { return Input{Kind: PointerMove, X: x, Y: y} }
func Enter() Input              { return Input{Kind: PointerEnter} }
func Leave() Input              { return Input{Kind: PointerLeave} }
func Down(px, py float64) Input { return Input{Kind: PointerDown, X: px, Y: py} }
func Drag(px, py float64) Input { return Input{Kind: PointerDrag, X: px, Y: py} }
func Up(px, py float64) Input   { return Input{Kind: PointerUp, X: px, Y: py} }
func Tap() Input                { return Input{Kind: Click} }
func TapOutside() Input         { return Input{Kind: Click, Outside: true} }
func Press(k Key) Input         { return Input{Kind: KeyPress, Key: k} }
