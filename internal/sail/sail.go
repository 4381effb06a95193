// Package sail computes the optimal sail (boom) angle from the apparent
// wind, with wing/spinnaker mode hysteresis and a held port/starboard sign,
// grounded on the original project's helmsman/sail_controller.{h,cc}.
package sail

import (
	"math"

	"github.com/relabs-tech/helmsman/internal/angle"
)

// Mode is the sail trim mode.
type Mode int

// Sail trim modes.
const (
	Wing Mode = iota
	WingLocked
	Spinnaker
)

// Tuning constants, per spec.md §4.4.
const (
	SwitchPointRad    = 72.5 * math.Pi / 180
	HalfHysteresisRad = 5 * math.Pi / 180
	SwitchBackDelayS  = 5.0
	SamplingPeriodS   = 0.1
	SpinnakerLimitMS  = 10.0
	AoaOptRad         = 17 * math.Pi / 180 // near the middle of the spec's 13-20 deg range
	AoaLimitRad       = 13 * math.Pi / 180
	DragMaxRad        = 93 * math.Pi / 180
)

// ModeLogic holds the hysteresis state deciding Wing vs Spinnaker,
// grounded on SailModeLogic::BestMode / BestStabilizedMode.
type ModeLogic struct {
	mode        Mode
	locked      bool
	delayTicks  int
	switchDelay int
}

// NewModeLogic returns a ModeLogic starting in Wing mode.
func NewModeLogic() *ModeLogic {
	return &ModeLogic{mode: Wing, switchDelay: int(SwitchBackDelayS / SamplingPeriodS)}
}

// LockInWingMode locks the mode to Wing until UnlockMode is called.
func (m *ModeLogic) LockInWingMode() { m.locked = true; m.mode = Wing }

// UnlockMode releases a LockInWingMode lock.
func (m *ModeLogic) UnlockMode() { m.locked = false }

// Reset returns the mode logic to its initial Wing state.
func (m *ModeLogic) Reset() { *m = *NewModeLogic() }

// BestMode updates and returns the current mode given the folded
// (non-negative, in [0,pi]) apparent wind angle and speed. Above
// SpinnakerLimitMS the mode is always Wing. Small apparent angles (wind
// from behind, running) favor Spinnaker; large apparent angles (wind from
// ahead, beating/reaching) favor Wing — matching
// SailModeLogic::BestStabilizedMode, whose immediate-switch threshold is
// twice the delayed-switch threshold's distance from SwitchPointRad.
func (m *ModeLogic) BestMode(apparentAbsRad, magWindMS float64) Mode {
	if m.locked {
		return Wing
	}
	if magWindMS >= SpinnakerLimitMS {
		m.mode = Wing
		m.delayTicks = 0
		return m.mode
	}

	switch m.mode {
	case Wing:
		if apparentAbsRad <= SwitchPointRad-2*HalfHysteresisRad {
			m.mode = Spinnaker
			m.delayTicks = 0
		} else if apparentAbsRad < SwitchPointRad-HalfHysteresisRad {
			m.delayTicks++
			if m.delayTicks >= m.switchDelay {
				m.mode = Spinnaker
				m.delayTicks = 0
			}
		} else {
			m.delayTicks = 0
		}
	case Spinnaker:
		if apparentAbsRad >= SwitchPointRad+2*HalfHysteresisRad {
			m.mode = Wing
			m.delayTicks = 0
		} else if apparentAbsRad > SwitchPointRad+HalfHysteresisRad {
			m.delayTicks++
			if m.delayTicks >= m.switchDelay {
				m.mode = Wing
				m.delayTicks = 0
			}
		} else {
			m.delayTicks = 0
		}
	}
	return m.mode
}

// Controller computes gammaSail from the apparent wind, holding a
// port/starboard sign across ticks so the sail never flips sign as the
// apparent wind angle crosses zero, grounded on SailController.
type Controller struct {
	modeLogic *ModeLogic
	sign      float64
}

// NewController returns a Controller with a fresh ModeLogic and sign held
// to +1 (starboard) until the first non-zero wind sample arrives.
func NewController() *Controller {
	return &Controller{modeLogic: NewModeLogic(), sign: 1}
}

// Reset clears the held sign and mode hysteresis.
func (c *Controller) Reset() {
	c.modeLogic.Reset()
	c.sign = 1
}

// LockInWingMode forces Wing mode.
func (c *Controller) LockInWingMode() { c.modeLogic.LockInWingMode() }

// UnlockMode releases a LockInWingMode lock.
func (c *Controller) UnlockMode() { c.modeLogic.UnlockMode() }

// aoa returns the optimal angle of attack for the given wind speed,
// shrinking above AoaLimitRad-equivalent wind per spec.md §4.4.
func aoa(magWindMS float64) float64 {
	const aoaLimitSpeed = 8.0 // m/s: wind speed past which aoa starts shrinking
	if magWindMS <= aoaLimitSpeed || magWindMS == 0 {
		return AoaOptRad
	}
	ratio := aoaLimitSpeed / magWindMS
	return AoaOptRad * ratio * ratio
}

// BestGammaSail returns the sail angle for the boat moving forward, given
// the apparent wind angle (symmetric) and magnitude.
func (c *Controller) BestGammaSail(alphaAppRad, magWindMS float64) float64 {
	return c.gammaSailInternal(alphaAppRad, magWindMS, false)
}

// BestGammaSailReverse is the reverse-motion variant (spec.md §4.4
// "Reverse-motion variant: mirror around pi, cap to +-90 deg at low wind"),
// used when the boat is moving backwards, e.g. caught aback mid-tack.
func (c *Controller) BestGammaSailReverse(alphaAppRad, magWindMS float64) float64 {
	return c.gammaSailInternal(alphaAppRad, magWindMS, true)
}

func (c *Controller) gammaSailInternal(alphaAppRad, magWindMS float64, reverse bool) float64 {
	if magWindMS == 0 {
		if reverse {
			return c.sign * math.Pi / 2
		}
		return 0
	}

	c.handleSign(alphaAppRad)
	// Fold to the non-negative magnitude and reassign, matching
	// SailController::HandleSign, which returns sign_*alpha_wind_rad and the
	// caller reassigns it to alpha_wind_rad: both trim formulas below, and
	// the mode switch, operate on this folded value in [0,pi], and only the
	// final gamma is multiplied back by c.sign.
	folded := c.sign * alphaAppRad
	mode := c.modeLogic.BestMode(folded, magWindMS)

	var gamma float64
	switch mode {
	case Spinnaker:
		gamma = 0.5*folded - DragMaxRad
	default: // Wing, WingLocked
		gamma = folded - math.Pi + aoa(magWindMS)
	}

	if reverse {
		gamma = angle.SymmetricRad(math.Pi - gamma)
		if magWindMS < 2.0 {
			gamma = angle.Clamp(gamma, -math.Pi/2, math.Pi/2)
		}
	}

	gamma *= c.sign
	return angle.SymmetricRad(gamma)
}

// handleSign updates the held sign from a non-zero apparent wind angle,
// matching SailController::HandleSign: the sign only changes when the
// apparent wind is unambiguously on one side.
func (c *Controller) handleSign(alphaAppRad float64) {
	if alphaAppRad != 0 {
		c.sign = angle.SignNotZero(alphaAppRad)
	}
}

// CloseHauledCap returns the sail-angle magnitude cap to apply when the
// shaped heading is within polar.CloseHauledLimitRad of the tack-zone edge,
// per spec.md §4.7: linearly transitions from 13.8 degrees at the band's
// outer edge down to a tight 4 degrees at the tack-zone boundary itself.
func CloseHauledCap(distanceFromEdgeRad, closeHauledLimitRad float64) float64 {
	const tightCapRad = 4 * math.Pi / 180
	const looseCapRad = 13.8 * math.Pi / 180 // the observed ~13.8deg at the band's outer edge

	if distanceFromEdgeRad >= closeHauledLimitRad {
		return looseCapRad
	}
	if distanceFromEdgeRad <= 0 {
		return tightCapRad
	}
	frac := distanceFromEdgeRad / closeHauledLimitRad
	return tightCapRad + frac*(looseCapRad-tightCapRad)
}
