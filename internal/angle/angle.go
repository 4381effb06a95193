// Package angle provides the numeric utilities every other Helmsman
// component is built on: angle normalisation, shortest-arc deltas, and
// wrap-aware rate limiting.
//
// Every angle in this codebase is either symmetric, in [-pi, pi), or
// normalised, in [0, 2*pi); callers must keep track of which class a value
// belongs to, since a naive add or subtract produces a value outside either
// range.
package angle

import "math"

const twoPi = 2 * math.Pi

// NormalizeRad maps x into [0, 2*pi).
func NormalizeRad(x float64) float64 {
	y := math.Mod(x, twoPi)
	if y < 0 {
		y += twoPi
	}
	return y
}

// SymmetricRad maps x into [-pi, pi).
func SymmetricRad(x float64) float64 {
	y := math.Mod(x+math.Pi, twoPi)
	if y < 0 {
		y += twoPi
	}
	return y - math.Pi
}

// NormalizeDeg maps x into [0, 360).
func NormalizeDeg(x float64) float64 {
	y := math.Mod(x, 360)
	if y < 0 {
		y += 360
	}
	return y
}

// SymmetricDeg maps x into [-180, 180).
func SymmetricDeg(x float64) float64 {
	y := math.Mod(x+180, 360)
	if y < 0 {
		y += 360
	}
	return y - 180
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 { return deg * math.Pi / 180 }

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 { return rad * 180 / math.Pi }

// DeltaRad returns the shortest signed arc from a to b, in [-pi, pi).
// SymmetricRad(a + DeltaRad(a, b)) == SymmetricRad(b).
func DeltaRad(a, b float64) float64 {
	return SymmetricRad(b - a)
}

// DeltaDeg is the degree analogue of DeltaRad.
func DeltaDeg(a, b float64) float64 {
	return SymmetricDeg(b - a)
}

// NearestRad picks whichever of opt1, opt2 has the smaller absolute delta
// from target, returning opt1 on a tie. tookLeft reports whether opt1 was
// chosen.
func NearestRad(target, opt1, opt2 float64) (chosen float64, tookLeft bool) {
	d1 := math.Abs(DeltaRad(target, opt1))
	d2 := math.Abs(DeltaRad(target, opt2))
	if d1 <= d2 {
		return opt1, true
	}
	return opt2, false
}

// Sign returns -1, 0 or 1 matching the sign of x.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// SignNotZero is like Sign but never returns 0: it returns +1 for x >= 0.
func SignNotZero(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// RateLimit advances state towards target by at most maxDeltaPerStep and
// returns the new state.
func RateLimit(target, maxDeltaPerStep, state float64) float64 {
	d := target - state
	if d > maxDeltaPerStep {
		d = maxDeltaPerStep
	} else if d < -maxDeltaPerStep {
		d = -maxDeltaPerStep
	}
	return state + d
}

// RateLimitRad is the wrap-aware variant of RateLimit: it moves state toward
// target along the shortest angular path, by at most maxDeltaPerStep, and
// returns the new (symmetric) state.
func RateLimitRad(target, maxDeltaPerStep, state float64) float64 {
	d := DeltaRad(state, target)
	if d > maxDeltaPerStep {
		d = maxDeltaPerStep
	} else if d < -maxDeltaPerStep {
		d = -maxDeltaPerStep
	}
	return SymmetricRad(state + d)
}

// Clamp restricts x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
