package normalctl

import (
	"math"

	"github.com/relabs-tech/helmsman/internal/angle"
	"github.com/relabs-tech/helmsman/internal/model"
)

// ClassifyManeuver determines what kind of heading change moving from
// oldDirectionRad to newDirectionRad represents, given the current true
// wind direction, per spec.md §4.7 and the original project's
// helmsman/maneuver_type.h FindManeuverType.
func ClassifyManeuver(oldDirectionRad, newDirectionRad, alphaTrueRad float64) model.Maneuver {
	oldApp := angle.DeltaRad(oldDirectionRad, alphaTrueRad)
	newApp := angle.DeltaRad(newDirectionRad, alphaTrueRad)

	if angle.Sign(oldApp) == angle.Sign(newApp) {
		return model.ManeuverChange
	}
	if angle.Sign(oldApp)*angle.Sign(angle.DeltaRad(oldApp, newApp)) > 0 {
		return model.ManeuverTack
	}
	return model.ManeuverJibe
}

// AlphaStarRateLimitRad is the maximum rate at which an external alpha*
// change is shaped into a moving heading target, per spec.md §4.7
// ("rate-limited at ~13 deg/s").
const AlphaStarRateLimitRad = 13 * math.Pi / 180

// JibeSailRotationS is the extra time a jibe's plan horizon must allow for
// the sail to complete its ~180 degree rotation at the drive's maximum
// rate, per spec.md §4.7.
const JibeSailRotationS = 14.0

// PlanHorizon returns the plan horizon, in seconds, for a maneuver moving
// the heading by deltaPhiZRad, per spec.md §4.7: Change/Tack horizons scale
// with the rate limit; Jibe horizons are extended by JibeSailRotationS.
func PlanHorizon(maneuver model.Maneuver, deltaPhiZRad float64) float64 {
	base := math.Abs(deltaPhiZRad) / AlphaStarRateLimitRad
	if maneuver == model.ManeuverJibe {
		return base + JibeSailRotationS
	}
	return base
}
