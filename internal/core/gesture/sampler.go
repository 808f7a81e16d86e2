package gesture

import (
	"math"
	"time"
)

// Source identifies the device a sample came from.
type Source uint8

const (
	SourcePointer Source = iota
	SourceTouch
	SourceKeyboard
)

func (s Source) String() string {
	switch s {
	case SourcePointer:
		return "pointer"
	case SourceTouch:
		return "touch"
	case SourceKeyboard:
		return "keyboard"
	default:
		return "unknown"
	}
}

// Point is a position in the input surface's coordinate space. For the
// terminal UI these are cell coordinates.
type Point struct {
	X, Y float64
}

// Valid reports whether both coordinates are finite.
func (p Point) Valid() bool {
	return finite(p.X) && finite(p.Y)
}

// Sample is one positional reading from an input device.
type Sample struct {
	Source Source
	Pos    Point
	At     time.Time
}

// Vector is a drag measured from the gesture's start point.
type Vector struct {
	DX, DY   float64
	Distance float64
	// Velocity is the speed between the last two accepted samples in units
	// per second. Zero when fewer than two timed samples were seen.
	Velocity float64
}

// NewVector builds a vector from its components.
func NewVector(dx, dy float64) Vector {
	return Vector{DX: dx, DY: dy, Distance: math.Hypot(dx, dy)}
}

// Zero reports whether the vector has no length.
func (v Vector) Zero() bool {
	return v.DX == 0 && v.DY == 0
}

// Sampler converts a stream of samples into drag vectors relative to the
// first sample. It holds no references to any UI framework.
type Sampler struct {
	active bool
	source Source
	start  Point
	last   Point
	lastAt time.Time
	vel    float64
}

// NewSampler returns an idle sampler.
func NewSampler() *Sampler {
	return &Sampler{}
}

// Begin starts a gesture at s. An invalid sample leaves the sampler idle.
func (s *Sampler) Begin(sample Sample) bool {
	if !sample.Pos.Valid() {
		s.Reset()
		return false
	}
	s.active = true
	s.source = sample.Source
	s.start = sample.Pos
	s.last = sample.Pos
	s.lastAt = sample.At
	s.vel = 0
	return true
}

// Move records a sample and returns the drag vector. Samples arriving while
// idle, or carrying non-finite coordinates, are discarded and ok is false.
func (s *Sampler) Move(sample Sample) (Vector, bool) {
	if !s.active || !sample.Pos.Valid() {
		return Vector{}, false
	}

	if !s.lastAt.IsZero() && !sample.At.IsZero() {
		if dt := sample.At.Sub(s.lastAt).Seconds(); dt > 0 {
			step := math.Hypot(sample.Pos.X-s.last.X, sample.Pos.Y-s.last.Y)
			s.vel = step / dt
		}
	}

	s.last = sample.Pos
	if !sample.At.IsZero() {
		s.lastAt = sample.At
	}
	return s.vector(), true
}

// End records the final sample and stops the gesture. When the final sample
// is invalid the last accepted position is used.
func (s *Sampler) End(sample Sample) (Vector, bool) {
	if !s.active {
		return Vector{}, false
	}
	v, ok := s.Move(sample)
	if !ok {
		v = s.vector()
	}
	s.active = false
	return v, true
}

// Current returns the vector for the last accepted sample.
func (s *Sampler) Current() Vector {
	if !s.active {
		return Vector{}
	}
	return s.vector()
}

// Active reports whether a gesture is in progress.
func (s *Sampler) Active() bool {
	return s.active
}

// Source returns the device of the current gesture.
func (s *Sampler) Source() Source {
	return s.source
}

// Reset abandons the current gesture.
func (s *Sampler) Reset() {
	*s = Sampler{}
}

func (s *Sampler) vector() Vector {
	v := NewVector(s.last.X-s.start.X, s.last.Y-s.start.Y)
	v.Velocity = s.vel
	return v
}

// Synthesize builds the single vector a keyboard press stands for: length
// magnitude along dir. The engine passes exactly its execute distance so a
// key press commits without passing through the confirm phase.
func Synthesize(dir Direction, magnitude float64) Vector {
	ux, uy := dir.Unit()
	if magnitude < 0 || !finite(magnitude) {
		magnitude = 0
	}
	return NewVector(ux*magnitude, uy*magnitude)
}
