package angle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymmetricRadRange(t *testing.T) {
	for _, x := range []float64{-10, -math.Pi - 0.001, -1, 0, 1, math.Pi, 3 * math.Pi, 100} {
		y := SymmetricRad(x)
		assert.GreaterOrEqual(t, y, -math.Pi)
		assert.Less(t, y, math.Pi)
	}
}

func TestSymmetricRadPeriodic(t *testing.T) {
	for _, x := range []float64{-5, 0, 0.7, 2, 6} {
		assert.InDelta(t, SymmetricRad(x), SymmetricRad(x+2*math.Pi), 1e-9)
	}
}

func TestNormalizeRadRange(t *testing.T) {
	for _, x := range []float64{-10, -1, 0, 1, 2 * math.Pi, 100} {
		y := NormalizeRad(x)
		assert.GreaterOrEqual(t, y, 0.0)
		assert.Less(t, y, 2*math.Pi)
	}
}

func TestDeltaRadBounded(t *testing.T) {
	cases := [][2]float64{{0, math.Pi}, {-3, 3}, {0.1, -0.1}, {3, -3}}
	for _, c := range cases {
		d := DeltaRad(c[0], c[1])
		assert.LessOrEqual(t, math.Abs(d), math.Pi+1e-9)
	}
}

func TestDeltaRadRoundTrip(t *testing.T) {
	for _, a := range []float64{-3, -1, 0, 1, 3} {
		for _, b := range []float64{-3, -1, 0, 1, 3} {
			d := DeltaRad(a, b)
			got := SymmetricRad(a + d)
			want := SymmetricRad(b)
			assert.InDelta(t, want, got, 1e-9)
		}
	}
}

func TestNearestRadTieGoesLeft(t *testing.T) {
	chosen, left := NearestRad(0, 1, -1)
	assert.Equal(t, 1.0, chosen)
	assert.True(t, left)
}

func TestNearestRadPicksCloser(t *testing.T) {
	chosen, left := NearestRad(0, 3, 0.1)
	assert.Equal(t, 0.1, chosen)
	assert.False(t, left)
}

func TestRateLimit(t *testing.T) {
	state := 0.0
	state = RateLimit(10, 1, state)
	assert.Equal(t, 1.0, state)
	for i := 0; i < 20; i++ {
		state = RateLimit(10, 1, state)
	}
	assert.Equal(t, 10.0, state)
}

func TestRateLimitRadWrapsShortestPath(t *testing.T) {
	// From 3.1 towards -3.1 the shortest path wraps across pi, not through 0.
	state := 3.1
	next := RateLimitRad(-3.1, 0.05, state)
	// Moving the short way means a full +0.05 step: 3.15 wraps past pi to
	// about -3.133.
	assert.InDelta(t, 0.05, DeltaRad(state, next), 1e-9)
}

func TestSignNotZeroNeverZero(t *testing.T) {
	assert.Equal(t, 1.0, SignNotZero(0))
	assert.Equal(t, -1.0, SignNotZero(-0.001))
	assert.Equal(t, 1.0, SignNotZero(5))
}

func TestDeg2RadRoundTrip(t *testing.T) {
	for _, d := range []float64{-180, -1, 0, 45.5, 179.999} {
		assert.InDelta(t, d, Rad2Deg(Deg2Rad(d)), 1e-9)
	}
}
