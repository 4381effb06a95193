package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLowPassConvergesToConstantInput(t *testing.T) {
	f := NewLowPass(1.0, 3.0)
	var out float64
	for i := 0; i < 10000; i++ {
		out = f.Step(5.0, 0.01)
	}
	assert.InDelta(t, 5.0, out, 1e-3)
	assert.True(t, f.Valid())
}

func TestLowPassNotValidBeforeWarmup(t *testing.T) {
	f := NewLowPass(1.0, 5.0)
	f.Step(1.0, 0.1)
	assert.False(t, f.Valid())
}

func TestMedian3RejectsSpike(t *testing.T) {
	var m Median3
	m.Push(1.0)
	m.Push(1.0)
	got := m.Push(100.0) // spike
	assert.Equal(t, 1.0, got)
}

func TestWrapLowPassHandlesWrapBoundary(t *testing.T) {
	f := NewWrapLowPass(0.5, 2.0)
	var out float64
	// alternate feeding near +pi and -pi (same physical direction)
	for i := 0; i < 1000; i++ {
		a := math.Pi - 0.01
		if i%2 == 1 {
			a = -math.Pi + 0.01
		}
		out = f.Step(a, 0.01)
	}
	assert.InDelta(t, math.Pi, math.Abs(out), 0.05)
}

func TestWrapLowPassConvergesToConstantAngle(t *testing.T) {
	f := NewWrapLowPass(0.5, 1.0)
	var out float64
	for i := 0; i < 2000; i++ {
		out = f.Step(0.7, 0.01)
	}
	assert.InDelta(t, 0.7, out, 1e-2)
}
