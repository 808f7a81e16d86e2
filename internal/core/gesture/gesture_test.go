package gesture

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		dx, dy   float64
		deadZone float64
		want     Direction
	}{
		{name: "inside dead zone", dx: 3, dy: -4, deadZone: 5, want: None},
		{name: "zero vector", dx: 0, dy: 0, deadZone: 0, want: None},
		{name: "up", dx: 0, dy: -170, deadZone: 10, want: Up},
		{name: "down", dx: 2, dy: 40, deadZone: 10, want: Down},
		{name: "left", dx: -40, dy: 12, deadZone: 10, want: Left},
		{name: "right", dx: 40, dy: -39, deadZone: 10, want: Right},
		{name: "exactly at dead zone", dx: 10, dy: 0, deadZone: 10, want: Right},
		{name: "tie positive resolves horizontal", dx: 20, dy: 20, deadZone: 10, want: Right},
		{name: "tie negative resolves horizontal", dx: -20, dy: -20, deadZone: 10, want: Left},
		{name: "tie mixed resolves horizontal", dx: -15, dy: 15, deadZone: 10, want: Left},
		{name: "nan", dx: math.NaN(), dy: 50, deadZone: 10, want: None},
		{name: "inf", dx: math.Inf(1), dy: 0, deadZone: 10, want: None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.dx, tt.dy, tt.deadZone))
		})
	}
}

func TestClassify_TotalAndDeterministic(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	const deadZone = 8.0

	for range 5000 {
		dx := (rng.Float64() - 0.5) * 600
		dy := (rng.Float64() - 0.5) * 600

		got := Classify(dx, dy, deadZone)
		assert.Equal(t, got, Classify(dx, dy, deadZone), "classification must be deterministic")

		if math.Max(math.Abs(dx), math.Abs(dy)) < deadZone {
			assert.Equal(t, None, got, "(%v,%v) is inside the dead zone", dx, dy)
			continue
		}
		assert.Contains(t, Directions[:], got, "(%v,%v) must classify to one of four directions", dx, dy)
	}
}

func TestClassify_TieConvention(t *testing.T) {
	for _, m := range []float64{10, 33.5, 250} {
		for _, sx := range []float64{-1, 1} {
			for _, sy := range []float64{-1, 1} {
				got := Classify(sx*m, sy*m, 1)
				assert.Equal(t, Horizontal, got.Axis(), "tie (%v,%v)", sx*m, sy*m)
			}
		}
	}
}

func TestDirection_Parse(t *testing.T) {
	for _, d := range Directions {
		parsed, err := ParseDirection(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
		assert.Equal(t, d, d.Opposite().Opposite())
	}

	_, err := ParseDirection("sideways")
	assert.Error(t, err)
}

func TestSampler_VectorRelativeToStart(t *testing.T) {
	s := NewSampler()
	t0 := time.Unix(100, 0)

	require.True(t, s.Begin(Sample{Pos: Point{X: 50, Y: 80}, At: t0}))

	v, ok := s.Move(Sample{Pos: Point{X: 50, Y: 40}, At: t0.Add(100 * time.Millisecond)})
	require.True(t, ok)
	assert.InDelta(t, 0, v.DX, 1e-9)
	assert.InDelta(t, -40, v.DY, 1e-9)
	assert.InDelta(t, 40, v.Distance, 1e-9)
	assert.InDelta(t, 400, v.Velocity, 1e-9, "40 units over 100ms")

	v, ok = s.End(Sample{Pos: Point{X: 53, Y: 0}, At: t0.Add(200 * time.Millisecond)})
	require.True(t, ok)
	assert.InDelta(t, 3, v.DX, 1e-9)
	assert.InDelta(t, -80, v.DY, 1e-9)
	assert.False(t, s.Active())
}

func TestSampler_DiscardsInvalidSamples(t *testing.T) {
	s := NewSampler()
	require.True(t, s.Begin(Sample{Pos: Point{X: 0, Y: 0}}))

	_, ok := s.Move(Sample{Pos: Point{X: 10, Y: 0}})
	require.True(t, ok)

	_, ok = s.Move(Sample{Pos: Point{X: math.NaN(), Y: 0}})
	assert.False(t, ok, "NaN sample must be discarded")
	assert.InDelta(t, 10, s.Current().DX, 1e-9, "discarded sample must not move the vector")

	v, ok := s.End(Sample{Pos: Point{X: math.Inf(-1), Y: 0}})
	require.True(t, ok)
	assert.InDelta(t, 10, v.DX, 1e-9, "invalid release falls back to last accepted position")
}

func TestSampler_IdleAndZeroLength(t *testing.T) {
	s := NewSampler()

	_, ok := s.Move(Sample{Pos: Point{X: 1, Y: 1}})
	assert.False(t, ok, "move before begin is ignored")

	assert.False(t, s.Begin(Sample{Pos: Point{X: math.NaN()}}))
	assert.False(t, s.Active())

	require.True(t, s.Begin(Sample{Pos: Point{X: 5, Y: 5}}))
	v, ok := s.End(Sample{Pos: Point{X: 5, Y: 5}})
	require.True(t, ok)
	assert.True(t, v.Zero())
	assert.Zero(t, v.Distance)
}

func TestSynthesize(t *testing.T) {
	v := Synthesize(Right, 150)
	assert.InDelta(t, 150, v.DX, 1e-9)
	assert.InDelta(t, 0, v.DY, 1e-9)
	assert.InDelta(t, 150, v.Distance, 1e-9)
	assert.Equal(t, Right, Classify(v.DX, v.DY, 10))

	v = Synthesize(Up, 150)
	assert.Equal(t, Up, Classify(v.DX, v.DY, 10))

	assert.True(t, Synthesize(None, 150).Zero())
	assert.True(t, Synthesize(Down, math.NaN()).Zero())
}

func TestKeyBridge(t *testing.T) {
	b := NewKeyBridge()

	dir, handled := b.Map("right")
	assert.True(t, handled)
	assert.Equal(t, Right, dir)

	_, handled = b.Map("x")
	assert.False(t, handled, "unmapped keys are not handled")

	b.Bind(Left, "h", " ")
	dir, handled = b.Map("h")
	assert.True(t, handled)
	assert.Equal(t, Left, dir)
	assert.Equal(t, []string{"h", "left"}, b.Keys(Left))

	b.Bind(None, "h")
	_, handled = b.Map("h")
	assert.False(t, handled)
}
