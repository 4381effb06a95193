package sail

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroWindReturnsZero(t *testing.T) {
	c := NewController()
	assert.Equal(t, 0.0, c.BestGammaSail(0.5, 0))
}

func TestZeroWindReverseReturnsQuarterTurn(t *testing.T) {
	c := NewController()
	got := c.BestGammaSailReverse(0.5, 0)
	assert.InDelta(t, math.Pi/2, math.Abs(got), 1e-9)
}

func TestWingModeFormula(t *testing.T) {
	c := NewController()
	alphaApp := 2.5
	got := c.BestGammaSail(alphaApp, 5)
	want := angle_symmetric(alphaApp - math.Pi + aoa(5))
	assert.InDelta(t, want, got, 1e-9)
}

// TestWingModeFormulaNegativeAngle exercises port-tack apparent wind (all
// the existing formula tests only ever fed a positive alphaApp). The Wing
// formula must run on the sign-folded magnitude, not the raw signed angle:
// BestGammaSail(-2.0, 5) folds to alpha=2.0, giving gamma_before_sign =
// 2.0 - pi + aoa(5) =~ -48.4deg, then the held sign (-1) flips it to
// +48.4deg.
func TestWingModeFormulaNegativeAngle(t *testing.T) {
	c := NewController()
	alphaApp := -2.0
	got := c.BestGammaSail(alphaApp, 5)
	folded := -alphaApp // sign is -1 for a negative angle, so sign*alphaApp = -alphaApp
	want := angle_symmetric(-(folded - math.Pi + aoa(5)))
	assert.InDelta(t, want, got, 1e-9)
	assert.InDelta(t, 48.42*math.Pi/180, got, 1e-2)
}

func TestOutputStaysInSymmetricRange(t *testing.T) {
	c := NewController()
	for _, a := range []float64{-3, -1, 0.01, 1, 3} {
		got := c.BestGammaSail(a, 5)
		assert.GreaterOrEqual(t, got, -math.Pi)
		assert.Less(t, got, math.Pi)
	}
}

func TestModeSwitchesToSpinnakerBelowSwitchpoint(t *testing.T) {
	// Small apparent angle means wind from behind (running); the original
	// switches to Spinnaker there, not Wing.
	m := NewModeLogic()
	var mode Mode
	for i := 0; i < 100; i++ {
		mode = m.BestMode(SwitchPointRad-2*HalfHysteresisRad-0.1, 5)
	}
	assert.Equal(t, Spinnaker, mode)
}

func TestModeStaysWingAboveSwitchpoint(t *testing.T) {
	// Large apparent angle means wind from ahead (beating/reaching); Wing
	// mode should be kept, never switched to Spinnaker.
	m := NewModeLogic()
	var mode Mode
	for i := 0; i < 100; i++ {
		mode = m.BestMode(SwitchPointRad+HalfHysteresisRad+0.1, 5)
	}
	assert.Equal(t, Wing, mode)
}

func TestModeNeverSpinnakerAboveSpinnakerLimit(t *testing.T) {
	m := NewModeLogic()
	mode := m.BestMode(0, SpinnakerLimitMS+1)
	assert.Equal(t, Wing, mode)
}

func TestLockInWingModeForcesWing(t *testing.T) {
	c := NewController()
	c.LockInWingMode()
	// Without the lock this small apparent angle (wind from behind) would
	// switch to Spinnaker; the lock must keep it in Wing mode regardless.
	for i := 0; i < 200; i++ {
		c.BestGammaSail(0.1, 3)
	}
	got := c.BestGammaSail(0.1, 3)
	want := angle_symmetric(0.1 - math.Pi + aoa(3))
	assert.InDelta(t, want, got, 1e-9)
}

func TestCloseHauledCapTransition(t *testing.T) {
	limit := 10 * math.Pi / 180
	atEdge := CloseHauledCap(0, limit)
	farFromEdge := CloseHauledCap(limit, limit)
	assert.Less(t, atEdge, farFromEdge)
	assert.InDelta(t, 4*math.Pi/180, atEdge, 1e-9)
}

// angle_symmetric is a tiny local helper to avoid importing the angle
// package's full name in this test file twice.
func angle_symmetric(x float64) float64 {
	y := math.Mod(x+math.Pi, 2*math.Pi)
	if y < 0 {
		y += 2 * math.Pi
	}
	return y - math.Pi
}
