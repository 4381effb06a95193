// Package drive holds the actuator reference/actual record types and their
// degree/radian conversions, grounded on the original project's
// DriveReferenceValues/DriveActualValues (drive_data.cc): twin-rudder
// mechanical limits, un-homed-as-NaN wire semantics.
package drive

import (
	"fmt"
	"math"

	"github.com/relabs-tech/helmsman/internal/angle"
)

// Mechanical blocking limits, in degrees.
const (
	RudderLeftMinDeg  = -25
	RudderLeftMaxDeg  = 90
	RudderRightMinDeg = -90
	RudderRightMaxDeg = 25
)

// ReferenceValuesRad is the controller-internal, radian representation of a
// commanded drive setpoint.
type ReferenceValuesRad struct {
	GammaRudderLeftRad  float64
	GammaRudderRightRad float64
	GammaSailRad        float64
}

// ReferenceValuesDeg is the wire/degree representation.
type ReferenceValuesDeg struct {
	RudderLeftDeg  float64
	RudderRightDeg float64
	SailDeg        float64
}

// ToDeg converts a radian reference to its degree form, clamping to the
// mechanical rudder limits and wrapping the sail angle into [-180, 180).
func (r ReferenceValuesRad) ToDeg() ReferenceValuesDeg {
	return ReferenceValuesDeg{
		RudderLeftDeg:  angle.Clamp(angle.Rad2Deg(r.GammaRudderLeftRad), RudderLeftMinDeg, RudderLeftMaxDeg),
		RudderRightDeg: angle.Clamp(angle.Rad2Deg(r.GammaRudderRightRad), RudderRightMinDeg, RudderRightMaxDeg),
		SailDeg:        angle.SymmetricDeg(angle.Rad2Deg(r.GammaSailRad)),
	}
}

// ToRad converts a degree reference back to radians.
func (d ReferenceValuesDeg) ToRad() ReferenceValuesRad {
	return ReferenceValuesRad{
		GammaRudderLeftRad:  angle.Deg2Rad(d.RudderLeftDeg),
		GammaRudderRightRad: angle.Deg2Rad(d.RudderRightDeg),
		GammaSailRad:        angle.Deg2Rad(d.SailDeg),
	}
}

// ToString renders the wire format used by the "rudderctl:" record, in the
// order rudder_l, rudder_r, sail, matching the original ToString layout.
func (d ReferenceValuesDeg) ToString(timestampMs int64) string {
	return fmt.Sprintf("rudderctl: timestamp_ms:%d rudder_l_deg:%g rudder_r_deg:%g sail_deg:%g",
		timestampMs, d.RudderLeftDeg, d.RudderRightDeg, d.SailDeg)
}

// ActualValuesDeg mirrors ReferenceValuesDeg but each axis carries a homed
// flag; an un-homed axis reports NaN on the wire regardless of its stored
// value, matching the original's FromProto/ToProto NaN-for-unhomed rule.
type ActualValuesDeg struct {
	RudderLeftDeg   float64
	RudderLeftHomed bool

	RudderRightDeg   float64
	RudderRightHomed bool

	SailDeg   float64
	SailHomed bool
}

// ActualValuesRad is the radian counterpart used inside the controllers.
type ActualValuesRad struct {
	GammaRudderLeftRad  float64
	RudderLeftHomed     bool
	GammaRudderRightRad float64
	RudderRightHomed    bool
	GammaSailRad        float64
	SailHomed           bool
}

// ToRad converts degrees to radians, field by field, preserving homed flags.
func (a ActualValuesDeg) ToRad() ActualValuesRad {
	return ActualValuesRad{
		GammaRudderLeftRad:  angle.Deg2Rad(a.RudderLeftDeg),
		RudderLeftHomed:     a.RudderLeftHomed,
		GammaRudderRightRad: angle.Deg2Rad(a.RudderRightDeg),
		RudderRightHomed:    a.RudderRightHomed,
		GammaSailRad:        angle.Deg2Rad(a.SailDeg),
		SailHomed:           a.SailHomed,
	}
}

// AllHomed reports whether every actuator axis is homed.
func (a ActualValuesRad) AllHomed() bool {
	return a.RudderLeftHomed && a.RudderRightHomed && a.SailHomed
}

// ToString renders the "ruddersts:" record, writing NaN for any un-homed
// axis.
func (a ActualValuesDeg) ToString(timestampMs int64) string {
	l, r, s := a.RudderLeftDeg, a.RudderRightDeg, a.SailDeg
	if !a.RudderLeftHomed {
		l = math.NaN()
	}
	if !a.RudderRightHomed {
		r = math.NaN()
	}
	if !a.SailHomed {
		s = math.NaN()
	}
	return fmt.Sprintf("ruddersts: timestamp_ms:%d rudder_l_deg:%g rudder_r_deg:%g sail_deg:%g",
		timestampMs, l, r, s)
}
