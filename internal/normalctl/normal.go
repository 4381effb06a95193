// Package normalctl implements the Normal controller: alpha* shaping,
// maneuver planning, no-go-zone handling, sail-mode hysteresis via the
// sail controller, and the close-hauled sail cap, per spec.md §4.7. No
// normal_controller.cc survived in original_source/; behaviour is derived
// from spec.md plus the surviving reference_values_test.cc, maneuver_type.h,
// point_of_sail.h and sail_controller.cc it's built from.
package normalctl

import (
	"math"

	"github.com/relabs-tech/helmsman/internal/angle"
	"github.com/relabs-tech/helmsman/internal/filter"
	"github.com/relabs-tech/helmsman/internal/model"
	"github.com/relabs-tech/helmsman/internal/polar"
	"github.com/relabs-tech/helmsman/internal/reference"
	"github.com/relabs-tech/helmsman/internal/rudder"
	"github.com/relabs-tech/helmsman/internal/sail"
)

// SmallBandRad bounds how far a new alpha* may drift from the currently
// shaped heading before it is treated as a fresh maneuver request, per
// spec.md §4.7 ("if alpha* is within a small band of the current shaped
// value the planner emits a linear ramp").
const SmallBandRad = 1 * math.Pi / 180

// GiveUpSpeedEpsMS and GiveUpTicks bound the give_up() fallback: sustained
// near-zero boat and apparent wind speed for this many ticks, per spec.md
// §4.7.
const (
	GiveUpSpeedEpsMS = 0.05
	GiveUpTicks      = 300 // 30s at the 100ms sampling period
)

// Normal is the Normal controller.
type Normal struct {
	ref          reference.Values
	pos          polar.PointOfSail
	sailCtl      *sail.Controller
	rudderCtl    *rudder.Controller
	offsetFilter *filter.LowPass

	haveTarget       bool
	lastAlphaStarRad float64
	lastPhiZStar     float64
	lastGammaSail    float64

	tacks int
	jibes int

	lowSpeedTicks int
}

// New returns a Normal controller with fresh sub-controller state.
func New() *Normal {
	return &Normal{
		sailCtl:      sail.NewController(),
		rudderCtl:    rudder.NewController(),
		offsetFilter: filter.NewLowPass(1.0, 1.0),
	}
}

// Entry seeds the planner from the boat's actual heading and sail angle so
// the first tick doesn't command a discontinuous jump.
func (n *Normal) Entry(in model.ControllerInput, filtered model.FilteredMeasurements) {
	n.ref.Reset()
	n.ref.SetReferenceValues(filtered.PhiZBoat, in.DriveActual.SailDeg*math.Pi/180)
	n.pos.Reset()
	n.sailCtl.Reset()
	n.rudderCtl.Reset()
	n.offsetFilter.Reset()
	n.haveTarget = false
	n.lowSpeedTicks = 0
}

// Exit is a no-op; planner state is reseeded on the next Entry.
func (n *Normal) Exit() {}

// Name returns "Normal".
func (n *Normal) Name() string { return "Normal" }

// Done always reports false: Normal only yields control via GiveUp, which
// the supervisor checks explicitly rather than through the Controller
// interface's Done.
func (n *Normal) Done() bool { return false }

// GiveUp reports whether the boat and apparent wind have both been
// near-zero for long enough that the supervisor should fall back to
// Initial, per spec.md §4.7.
func (n *Normal) GiveUp() bool {
	return n.lowSpeedTicks >= GiveUpTicks
}

// Tacks and Jibes report the lifetime count of maneuvers of each kind, for
// the supervisor's HelmsmanStatus record. A maneuver is counted when its plan
// starts, so one whose plan is replaced before it finishes is still counted.
func (n *Normal) Tacks() int { return n.tacks }
func (n *Normal) Jibes() int { return n.jibes }

// Run computes this tick's rudder and sail commands.
func (n *Normal) Run(in model.ControllerInput, filtered model.FilteredMeasurements, out *model.ControllerOutput) {
	out.Reset()

	alphaStarRad := angle.Deg2Rad(in.AlphaStarDeg)
	if model.IsUnknown(in.AlphaStarDeg) {
		alphaStarRad = n.lastAlphaStarRad
	}

	_, sailableRad := n.pos.SailableHeading(alphaStarRad, filtered.AngleTrue)

	if !n.haveTarget || math.Abs(angle.DeltaRad(n.lastPhiZStar, sailableRad)) > SmallBandRad {
		maneuver := ClassifyManeuver(n.lastPhiZStar, sailableRad, filtered.AngleTrue)
		deltaPhiZ := angle.DeltaRad(n.lastPhiZStar, sailableRad)
		horizon := PlanHorizon(maneuver, deltaPhiZ)

		targetAppRad := angle.DeltaRad(sailableRad, filtered.AngleTrue)
		targetGammaSail := n.sailCtl.BestGammaSail(targetAppRad, filtered.MagApp)
		deltaGammaSail := targetGammaSail - n.lastGammaSail
		if maneuver == model.ManeuverJibe && math.Abs(deltaGammaSail) < math.Pi {
			// A jibe must sweep the sail across the full ~180 degrees to
			// the new side rather than take the short way around.
			deltaGammaSail += angle.SignNotZero(deltaPhiZ) * math.Pi
		}

		n.ref.NewPlan(sailableRad, deltaGammaSail, horizon)

		switch maneuver {
		case model.ManeuverTack:
			n.tacks++
		case model.ManeuverJibe:
			n.jibes++
		}
		n.haveTarget = true
	} else if !n.ref.RunningPlan() {
		n.ref.SetReferenceValues(sailableRad, n.lastGammaSail)
	}

	phiZStar, omegaStar, gammaSailStar := n.ref.GetReferenceValues()
	n.lastPhiZStar = phiZStar
	n.lastGammaSail = gammaSailStar
	n.lastAlphaStarRad = alphaStarRad

	dist := polar.DistanceFromTackZoneEdgeRad(phiZStar, filtered.AngleTrue)
	if dist < polar.CloseHauledLimitRad {
		cap := sail.CloseHauledCap(dist, polar.CloseHauledLimitRad)
		if math.Abs(gammaSailStar) > cap {
			gammaSailStar = cap * angle.SignNotZero(gammaSailStar)
		}
	}

	rudderCmd := n.rudderCtl.Control(phiZStar, omegaStar, filtered.PhiZBoat, filtered.OmegaZ, filtered.MagBoat)
	out.DriveReference.GammaRudderLeftRad = rudderCmd
	out.DriveReference.GammaRudderRightRad = rudderCmd
	out.DriveReference.GammaSailRad = gammaSailStar

	if filtered.MagBoat < GiveUpSpeedEpsMS && filtered.MagApp < GiveUpSpeedEpsMS {
		n.lowSpeedTicks++
	} else {
		n.lowSpeedTicks = 0
	}
}
