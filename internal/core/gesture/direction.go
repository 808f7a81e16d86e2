// Package gesture turns raw pointer, touch and keyboard input into the
// direction vocabulary shared by the swipe engine and the deck navigator.
package gesture

import (
	"fmt"
	"math"
	"strings"
)

// Direction is a discrete swipe direction.
type Direction uint8

const (
	None Direction = iota
	Up
	Down
	Left
	Right
)

// Directions lists the four committable directions in display order.
var Directions = [...]Direction{Up, Down, Left, Right}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// ParseDirection parses the lower-case name of a direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "none", "":
		return None, nil
	default:
		return None, fmt.Errorf("unknown direction %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Axis returns the axis the direction lies on.
func (d Direction) Axis() Axis {
	switch d {
	case Up, Down:
		return Vertical
	case Left, Right:
		return Horizontal
	default:
		return NoAxis
	}
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	default:
		return None
	}
}

// Unit returns the unit vector components of the direction in screen
// coordinates (y grows downwards).
func (d Direction) Unit() (float64, float64) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}

// Axis is one of the two screen axes.
type Axis uint8

const (
	NoAxis Axis = iota
	Horizontal
	Vertical
)

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "none"
	}
}

// ParseAxis parses "horizontal", "vertical" or "none".
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal":
		return Horizontal, nil
	case "vertical":
		return Vertical, nil
	case "none", "":
		return NoAxis, nil
	default:
		return NoAxis, fmt.Errorf("unknown axis %q", s)
	}
}

// Classify maps a drag vector to a direction.
//
// Vectors whose larger component is shorter than deadZone classify as None.
// Otherwise the dominant axis wins and the sign picks the direction, with
// screen coordinates: dy > 0 is Down, dx > 0 is Right.
//
// Ties (|dx| == |dy|) always resolve to the horizontal axis. NaN or infinite
// components, and the zero vector, classify as None.
func Classify(dx, dy, deadZone float64) Direction {
	if !finite(dx) || !finite(dy) {
		return None
	}

	ax, ay := math.Abs(dx), math.Abs(dy)
	if math.Max(ax, ay) < deadZone || (ax == 0 && ay == 0) {
		return None
	}

	if ax >= ay {
		if dx > 0 {
			return Right
		}
		return Left
	}

	if dy > 0 {
		return Down
	}
	return Up
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
