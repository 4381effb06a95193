// Package filter implements the scalar filter primitives the filter block
// is built from: a median-of-N despiker, a first-order low-pass, and a
// wrap-aware low-pass for angles that decomposes into (cos, sin) components
// and reconstructs via atan2, per SPEC_FULL.md's wrap-around-filtering
// design note.
package filter

import (
	"math"

	"github.com/relabs-tech/helmsman/internal/angle"
)

// Median3 tracks the median of the last 3 samples pushed to it, used to
// despike noisy scalar signals (e.g. IMU x-velocity) before low-passing.
type Median3 struct {
	history [3]float64
	n       int
}

// Push feeds a new sample and returns the median of the last up-to-3
// samples seen so far.
func (m *Median3) Push(x float64) float64 {
	m.history[0], m.history[1], m.history[2] = m.history[1], m.history[2], x
	if m.n < 3 {
		m.n++
	}
	switch m.n {
	case 1:
		return x
	case 2:
		return (m.history[1] + m.history[2]) / 2
	default:
		a, b, c := m.history[0], m.history[1], m.history[2]
		return math.Max(math.Min(a, b), math.Min(math.Max(a, b), c))
	}
}

// LowPass is a first-order low-pass filter with time constant T1, tracking
// whether it has been fed long enough to be considered warmed up.
type LowPass struct {
	T1           float64 // seconds
	value        float64
	initialized  bool
	warmElapsed  float64
	warmupPeriod float64
}

// NewLowPass returns a LowPass with time constant t1Seconds and a warm-up
// period (time since first sample after which the filter is considered
// valid) of warmupSeconds.
func NewLowPass(t1Seconds, warmupSeconds float64) *LowPass {
	return &LowPass{T1: t1Seconds, warmupPeriod: warmupSeconds}
}

// Step advances the filter by one sample period dt seconds with input x and
// returns the new filtered value.
func (f *LowPass) Step(x, dt float64) float64 {
	if !f.initialized {
		f.value = x
		f.initialized = true
	} else {
		alpha := dt / (f.T1 + dt)
		f.value += alpha * (x - f.value)
	}
	f.warmElapsed += dt
	return f.value
}

// Value returns the filter's current output without advancing it.
func (f *LowPass) Value() float64 { return f.value }

// Valid reports whether the filter has been fed continuously for at least
// its warm-up period.
func (f *LowPass) Valid() bool {
	return f.initialized && f.warmElapsed >= f.warmupPeriod
}

// Reset clears the filter back to an un-fed state.
func (f *LowPass) Reset() {
	f.value = 0
	f.initialized = false
	f.warmElapsed = 0
}

// WrapLowPass low-passes an angular signal by filtering its (cos, sin)
// components independently and reconstructing via atan2, avoiding the
// discontinuity a naive low-pass would hit at the +-pi wrap boundary.
type WrapLowPass struct {
	cos, sin *LowPass
}

// NewWrapLowPass returns a WrapLowPass with time constant t1Seconds and
// warm-up period warmupSeconds.
func NewWrapLowPass(t1Seconds, warmupSeconds float64) *WrapLowPass {
	return &WrapLowPass{
		cos: NewLowPass(t1Seconds, warmupSeconds),
		sin: NewLowPass(t1Seconds, warmupSeconds),
	}
}

// Step advances the filter by dt seconds given a new angle sample (radians)
// and returns the new filtered, symmetric angle.
func (f *WrapLowPass) Step(angleRad, dt float64) float64 {
	c := f.cos.Step(math.Cos(angleRad), dt)
	s := f.sin.Step(math.Sin(angleRad), dt)
	if c == 0 && s == 0 {
		return 0
	}
	return angle.SymmetricRad(math.Atan2(s, c))
}

// Value returns the filter's current output angle without advancing it.
func (f *WrapLowPass) Value() float64 {
	return angle.SymmetricRad(math.Atan2(f.sin.Value(), f.cos.Value()))
}

// Valid reports whether both components have warmed up.
func (f *WrapLowPass) Valid() bool { return f.cos.Valid() && f.sin.Valid() }

// Reset clears both components.
func (f *WrapLowPass) Reset() {
	f.cos.Reset()
	f.sin.Reset()
}
