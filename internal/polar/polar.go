// Package polar implements the point-of-sail policy: tack/jibe no-go
// zones, sector classification, and sailable-heading selection with
// hysteresis, grounded on the original project's common/point_of_sail.h and
// common/polar_diagram.h.
package polar

import (
	"math"

	"github.com/relabs-tech/helmsman/internal/angle"
	"github.com/relabs-tech/helmsman/internal/model"
)

// Zone half-widths, per spec.md §4.3.
const (
	TackZoneRad = 45 * math.Pi / 180
	JibeZoneRad = 20 * math.Pi / 180
)

// HysteresisRad is the small dead-band applied at a zone boundary so a
// target sitting exactly on the edge doesn't oscillate in and out of the
// zone tick to tick.
const HysteresisRad = 2 * math.Pi / 180

// CloseHauledLimitRad is the Open Question decision documented in
// SPEC_FULL.md: the shaped heading is considered "close-hauled" once it is
// within this distance of the tack-zone edge.
const CloseHauledLimitRad = 10 * math.Pi / 180

// ClassifySector returns the point-of-sail sector for beta = alpha* -
// alpha_true (symmetric), per the table in spec.md §4.3.
func ClassifySector(betaRad float64) model.Sector {
	b := angle.SymmetricRad(betaRad)
	switch {
	case b >= 0 && b < TackZoneRad:
		return model.TackStar
	case b < 0 && b > -TackZoneRad:
		return model.TackPort
	case b >= math.Pi-JibeZoneRad || b < -(math.Pi-JibeZoneRad):
		// Near dead-run (+-180): split by sign the same way the tack zone is.
		if b >= 0 {
			return model.JibeStar
		}
		return model.JibePort
	case b > 0:
		return model.ReachStar
	default:
		return model.ReachPort
	}
}

// PointOfSail tracks the hysteresis state needed to keep a boundary-sitting
// alpha* from oscillating the chosen sailable heading in and out of a
// no-go zone tick to tick.
type PointOfSail struct {
	lastSector      model.Sector
	lastInZone      bool
	lastSailableRad float64
	hasLastSailable bool
}

// Reset clears the hysteresis state.
func (p *PointOfSail) Reset() {
	*p = PointOfSail{}
}

// SailableHeading returns the sector classification of alphaStarRad
// relative to alphaTrueRad, and the heading the Normal controller should
// actually steer to: alphaStarRad verbatim when it's in a reachable sector,
// or the nearer zone boundary (with hysteresis) when it falls in a no-go
// zone.
func (p *PointOfSail) SailableHeading(alphaStarRad, alphaTrueRad float64) (model.Sector, float64) {
	beta := angle.DeltaRad(alphaTrueRad, alphaStarRad)
	sector := ClassifySector(beta)

	inZone := sector == model.TackPort || sector == model.TackStar ||
		sector == model.JibePort || sector == model.JibeStar

	if !inZone {
		p.lastInZone = false
		p.lastSector = sector
		return sector, alphaStarRad
	}

	// Within a no-go zone: steer to the nearer boundary of that zone, with
	// hysteresis against the previously chosen boundary so a target
	// wobbling across the edge doesn't cause the sailable heading to flap.
	var lowBoundary, highBoundary float64
	switch sector {
	case model.TackStar, model.TackPort:
		lowBoundary = angle.SymmetricRad(alphaTrueRad - TackZoneRad)
		highBoundary = angle.SymmetricRad(alphaTrueRad + TackZoneRad)
	default: // JibeStar, JibePort
		lowBoundary = angle.SymmetricRad(alphaTrueRad + math.Pi - JibeZoneRad)
		highBoundary = angle.SymmetricRad(alphaTrueRad + math.Pi + JibeZoneRad)
	}

	chosen, _ := angle.NearestRad(alphaStarRad, lowBoundary, highBoundary)

	if p.lastInZone && p.hasLastSailable {
		// Stay on the previously chosen boundary unless the new choice is
		// clearly (by more than the hysteresis band) better.
		dPrev := math.Abs(angle.DeltaRad(alphaStarRad, p.lastSailableRad))
		dNew := math.Abs(angle.DeltaRad(alphaStarRad, chosen))
		if dPrev <= dNew+HysteresisRad {
			chosen = p.lastSailableRad
		}
	}

	p.lastInZone = true
	p.lastSector = sector
	p.lastSailableRad = chosen
	p.hasLastSailable = true
	return sector, chosen
}

// DistanceFromTackZoneEdgeRad returns how far phiZRad is, in radians, from
// the nearer edge of the tack zone around alphaTrueRad; negative if phiZRad
// is inside the zone.
func DistanceFromTackZoneEdgeRad(phiZRad, alphaTrueRad float64) float64 {
	beta := math.Abs(angle.DeltaRad(alphaTrueRad, phiZRad))
	return beta - TackZoneRad
}
