// Package controller implements the supervisor's fixed-output and
// simple-feedback controller variants: Initial, Brake, Dock, Idle and Test,
// grounded on the original project's initial_controller.cc,
// branches/onboard/helmsman/brake_controller.cc, docking_controller.cc,
// branches/onboard/helmsman/idle_controller.cc, and (for Test, which has no
// surviving source) the usage note in ship_control.cc that it runs drive
// and sensor self-checks at startup.
package controller

import (
	"math"

	"github.com/relabs-tech/helmsman/internal/angle"
	"github.com/relabs-tech/helmsman/internal/model"
)

// SamplingPeriod is the controller tick period, in seconds.
const SamplingPeriod = 0.1

// Initial is the default controller on startup and after any homing loss;
// it outputs zero references and never reports Done on its own — the
// supervisor's Initial->Normal gate (spec.md §4.8) is what ends this state.
type Initial struct{}

// Entry is a no-op.
func (c *Initial) Entry(in model.ControllerInput, filtered model.FilteredMeasurements) {}

// Run resets the output to all-zero references.
func (c *Initial) Run(in model.ControllerInput, filtered model.FilteredMeasurements, out *model.ControllerOutput) {
	out.Reset()
}

// Exit is a no-op.
func (c *Initial) Exit() {}

// Done always reports false; Initial->Normal is gated by the supervisor,
// not by this controller reporting completion.
func (c *Initial) Done() bool { return false }

// Name returns "Initial".
func (c *Initial) Name() string { return "Initial" }

// Dock holds all drives at zero, matching DockingController.
type Dock struct{}

// Entry is a no-op.
func (c *Dock) Entry(in model.ControllerInput, filtered model.FilteredMeasurements) {}

// Run zeroes every reference.
func (c *Dock) Run(in model.ControllerInput, filtered model.FilteredMeasurements, out *model.ControllerOutput) {
	out.Reset()
}

// Exit is a no-op.
func (c *Dock) Exit() {}

// Done always reports false; Docking is a meta-state override, ended only
// by a mode change.
func (c *Dock) Done() bool { return false }

// Name returns "Dock".
func (c *Dock) Name() string { return "Dock" }

// Idle performs no action at all on Run, deliberately not even resetting
// the output, so the last commanded drive position is held, matching
// IdleController's empty Run body.
type Idle struct{}

// Entry is a no-op.
func (c *Idle) Entry(in model.ControllerInput, filtered model.FilteredMeasurements) {}

// Run does nothing, holding the previous output.
func (c *Idle) Run(in model.ControllerInput, filtered model.FilteredMeasurements, out *model.ControllerOutput) {
}

// Exit is a no-op.
func (c *Idle) Exit() {}

// Done always reports false.
func (c *Idle) Done() bool { return false }

// Name returns "Idle".
func (c *Idle) Name() string { return "Idle" }

// rudderBrakeAngleRad is the hard-over rudder angle during the brake
// controller's first phase, per spec.md §8 scenario 6's literal value.
const rudderBrakeAngleRad = 80 * math.Pi / 180

// brakeHardOverS is how long the hard-over phase lasts before the
// controller switches to heave-to, per brake_controller.cc.
const brakeHardOverS = 20.0

// Brake stops the boat: rudders hard over for the first 20s, luffing the
// sail toward the apparent wind's flag position; then heaves-to, holding a
// lighter rudder angle and slowly rotating the sail toward beam-on, per
// branches/onboard/helmsman/brake_controller.cc.
type Brake struct {
	count        int
	sign         float64
	gammaSailRad float64
}

// Entry resets the phase counter.
func (c *Brake) Entry(in model.ControllerInput, filtered model.FilteredMeasurements) {
	c.count = 0
}

// Run implements the two-phase brake maneuver.
func (c *Brake) Run(in model.ControllerInput, filtered model.FilteredMeasurements, out *model.ControllerOutput) {
	out.Reset()
	c.count++
	if c.count < int(brakeHardOverS/SamplingPeriod) {
		out.DriveReference.GammaRudderLeftRad = rudderBrakeAngleRad
		out.DriveReference.GammaRudderRightRad = -rudderBrakeAngleRad
		c.gammaSailRad = 0
		if filtered.ValidAppWind {
			c.gammaSailRad = angle.SymmetricRad(filtered.AngleApp - math.Pi)
		}
		c.sign = angle.SignNotZero(c.gammaSailRad)
	} else {
		out.DriveReference.GammaRudderLeftRad = -c.sign * 16 * math.Pi / 180
		out.DriveReference.GammaRudderRightRad = -c.sign * 16 * math.Pi / 180
		c.gammaSailRad = angle.RateLimitRad(c.sign*math.Pi/2, 5*math.Pi/180*SamplingPeriod, c.gammaSailRad)
	}
	out.DriveReference.GammaSailRad = c.gammaSailRad
}

// Exit is a no-op.
func (c *Brake) Exit() {}

// Done always reports false; Braking is a meta-state override, ended only
// by a mode change.
func (c *Brake) Done() bool { return false }

// Name returns "Brake".
func (c *Brake) Name() string { return "Brake" }

// testSettleTicks is how long the Test controller runs its (trivial)
// drive/sensor self-check before reporting Done.
const testSettleTicks = 30

// Test runs the startup drive-and-sensor self-check: zero references held
// for a settle period, then Done. No original source survived for this
// controller; its role is named in ship_control.cc's switch statement and
// supplemented here per SPEC_FULL.md.
type Test struct {
	ticks int
}

// Entry resets the settle counter.
func (c *Test) Entry(in model.ControllerInput, filtered model.FilteredMeasurements) {
	c.ticks = 0
}

// Run holds zero references while counting down the settle period.
func (c *Test) Run(in model.ControllerInput, filtered model.FilteredMeasurements, out *model.ControllerOutput) {
	out.Reset()
	c.ticks++
}

// Exit is a no-op.
func (c *Test) Exit() {}

// Done reports true once the settle period has elapsed.
func (c *Test) Done() bool { return c.ticks >= testSettleTicks }

// Name returns "Test".
func (c *Test) Name() string { return "Test" }
