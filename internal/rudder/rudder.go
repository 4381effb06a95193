// Package rudder implements the twin-rudder full-state feedback controller:
// anti-windup integral control, a NACA-0010 lift-curve plant linearisation,
// and a gamma-zero feed-forward term, grounded on the original project's
// helmsman/rudder_controller.cc, rudder_controller_const.h, naca0010.h and
// c_lift_to_rudder_angle.cc.
package rudder

import (
	"math"

	"github.com/relabs-tech/helmsman/internal/angle"
)

// State-feedback gains tuned for a 5s closed-loop response, per
// rudder_controller_const.h.
const (
	K1 = 452.39 // omega
	K2 = 563.75 // phi
	K3 = 291.71 // integral of phi
)

// IntegralLimit bounds the clamped heading-error integral.
const IntegralLimit = 1.0

// SamplingPeriod is the controller tick period, in seconds.
const SamplingPeriod = 0.1

// Physical constants of the rudder plant (boat.h did not survive in the
// retrieved source tree; these are the values named in the surviving
// comments/tests, supplemented where only a magnitude was implied).
const (
	LeverR   = 1.43  // m, distance from COG to rudder
	NumberR  = 2.0   // twin rudders
	AreaR    = 0.06  // m^2, single rudder blade area
	RhoWater = 1025. // kg/m^3
)

// NACA-0010 lift-curve constants, per naca0010.h.
const (
	CLiftPerRad        = 0.1118 * 180 / math.Pi
	CLiftPerRadReverse = 0.052 * 180 / math.Pi

	AlphaLimit1Rad = 7 * math.Pi / 180
	Speed1MS       = 0.5
	AlphaLimit2Rad = 8 * math.Pi / 180
	Speed2MS       = 1.5
	AlphaLimit3Rad = 9 * math.Pi / 180
	Speed3MS       = 3.0
	AlphaLimit4Rad = 10 * math.Pi / 180
)

// LimitGamma0Rad bounds the feed-forward term, avoiding blow-up at low speed.
const LimitGamma0Rad = 20 * math.Pi / 180

// MagicTestSpeedMS is the fixture speed carried over from the original test
// suite, kept as a named constant so test fixtures can reference it by name
// rather than a bare literal. With the plant constants above, a 0.01 rad
// lift-derived rudder angle at this speed corresponds to about 7.0 N·m of
// torque.
const MagicTestSpeedMS = 1.1164745086921

// rudderLimit returns the speed-dependent saturation limit for the
// commanded lift-derived rudder angle.
func rudderLimit(speedMS float64) float64 {
	if math.IsNaN(speedMS) || speedMS < 0 {
		return AlphaLimit4Rad
	}
	switch {
	case speedMS < Speed1MS:
		return AlphaLimit1Rad
	case speedMS < Speed2MS:
		return AlphaLimit2Rad
	case speedMS < Speed3MS:
		return AlphaLimit3Rad
	default:
		return AlphaLimit4Rad
	}
}

// cLiftToRudderAngle inverts the lift curve to a rudder angle, returning the
// saturation indicator: -1 at the lower limit, 0 unsaturated, +1 at the
// upper limit.
func cLiftToRudderAngle(cLift, speedMS float64) (alphaRad float64, limited int) {
	limit := rudderLimit(speedMS)
	perRad := CLiftPerRad
	if math.IsNaN(speedMS) || speedMS < 0 {
		perRad = CLiftPerRadReverse
	}
	unlimited := cLift / perRad
	switch {
	case unlimited < -limit:
		return -limit, -1
	case unlimited > limit:
		return limit, 1
	default:
		return unlimited, 0
	}
}

// Controller is the stateful twin-rudder controller: a clamped heading-error
// integral and the last saturation indicator, used by the anti-windup rule.
type Controller struct {
	limited        int
	epsIntegralPhi float64
	lastGammaLift  float64
}

// NewController returns a Controller with zeroed integral state.
func NewController() *Controller {
	return &Controller{}
}

// Reset clears the integral and saturation state.
func (c *Controller) Reset() {
	c.limited = 0
	c.epsIntegralPhi = 0
}

// Control runs one tick of the controller and returns the commanded
// (identical) left/right rudder angle, per spec.md §4.5.
func (c *Controller) Control(phiStarRad, omegaStarRad, phiRad, omegaRad, speedMS float64) float64 {
	epsOmega := omegaStarRad - omegaRad
	epsPhi := angle.SymmetricRad(phiStarRad - phiRad)

	// Anti-windup: only integrate when the previous output was not
	// saturated in the same direction as the current error.
	if epsPhi*float64(c.limited) <= 0 {
		c.epsIntegralPhi += SamplingPeriod * epsPhi
	}
	c.epsIntegralPhi = angle.Clamp(c.epsIntegralPhi, -IntegralLimit, IntegralLimit)
	if math.Abs(epsPhi) > math.Pi/2 {
		c.epsIntegralPhi = 0
	}

	torque := epsOmega*K1 + epsPhi*K2 + c.epsIntegralPhi*K3

	// At zero or unknown speed the lift curve's v^2 denominator vanishes;
	// fail safe by holding the last commanded lift-derived angle rather
	// than dividing by zero.
	var gammaRudder float64
	if speedMS == 0 || math.IsNaN(speedMS) {
		gammaRudder = c.lastGammaLift
	} else {
		var limited int
		gammaRudder, limited = c.torqueToGammaRudder(torque, speedMS)
		c.limited = limited
		c.lastGammaLift = gammaRudder
	}

	gamma0 := math.Atan2(omegaStarRad*LeverR, speedMS)
	if speedMS < 0 {
		gamma0 = angle.SymmetricRad(gamma0 - math.Pi)
	}
	gamma0 = angle.Clamp(gamma0, -LimitGamma0Rad, LimitGamma0Rad)

	return -(gammaRudder + gamma0)
}

// torqueToGammaRudder linearises the plant: torque -> force -> lift
// coefficient -> rudder angle, via the NACA-0010 lift curve.
func (c *Controller) torqueToGammaRudder(torque, speedMS float64) (float64, int) {
	force := torque / LeverR
	cLift := 2 * force / (NumberR * AreaR * RhoWater * speedMS * speedMS)
	return cLiftToRudderAngle(cLift, speedMS)
}

// Limited reports the controller's last saturation indicator.
func (c *Controller) Limited() int { return c.limited }

// IntegralValue reports the controller's current clamped integral, exposed
// for the anti-windup invariant tests.
func (c *Controller) IntegralValue() float64 { return c.epsIntegralPhi }
