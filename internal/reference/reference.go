// Package reference implements the reference-value planner: a rate-limited
// heading ramp with a matching sail-angle ramp, used to shape maneuvers
// (bearing changes, tacks, jibes). Grounded on the only surviving evidence
// of the original ReferenceValues type, reference_values_test.cc (no .cc/.h
// for it survived in original_source/), per SPEC_FULL.md.
package reference

import (
	"github.com/relabs-tech/helmsman/internal/angle"
)

// SamplingPeriod is the controller tick period, in seconds.
const SamplingPeriod = 0.1

// Values holds either a constant (phiZ, gammaSail) pair, or a running plan
// that ramps from the values in effect when NewPlan was called to a target,
// over a fixed number of ticks, per reference_values_test.cc's observed
// behaviour.
type Values struct {
	phiZ      float64
	gammaSail float64

	running      bool
	samplesLeft  int
	totalSamples int

	startPhiZ float64
	deltaPhiZ float64
	omegaStar float64

	startGammaSail float64
	deltaGammaSail float64

	targetPhiZ      float64
	targetGammaSail float64
}

// SetReferenceValues sets both outputs to constants, cancelling any running
// plan.
func (r *Values) SetReferenceValues(phiZRad, gammaSailRad float64) {
	r.phiZ = phiZRad
	r.gammaSail = gammaSailRad
	r.running = false
}

// NewPlan builds a plan that ramps phiZ linearly from its current value to
// phiZTargetRad over horizonS seconds, taking the shorter rotational
// direction, while rotating gammaSail by deltaGammaSailRad (added directly,
// not wrapped, since a sail rotation through the full circle during a jibe
// is meaningful) over the same horizon. omegaStar is constant through the
// plan.
func (r *Values) NewPlan(phiZTargetRad, deltaGammaSailRad, horizonS float64) {
	total := int(horizonS/SamplingPeriod + 0.5)
	if total < 1 {
		total = 1
	}

	delta := angle.DeltaRad(r.phiZ, phiZTargetRad)

	r.startPhiZ = r.phiZ
	r.deltaPhiZ = delta
	r.omegaStar = delta / horizonS
	r.targetPhiZ = angle.SymmetricRad(r.phiZ + delta)

	r.startGammaSail = r.gammaSail
	r.deltaGammaSail = deltaGammaSailRad
	r.targetGammaSail = angle.SymmetricRad(r.gammaSail + deltaGammaSailRad)

	r.totalSamples = total
	r.samplesLeft = total
	r.running = true
}

// RunningPlan reports whether a plan is still producing samples.
func (r *Values) RunningPlan() bool {
	return r.running && r.samplesLeft > 0
}

// GetReferenceValues consumes one plan sample (or, with no running plan,
// returns the held constants) and returns (phiZStar, omegaStar,
// gammaSailStar). Once a plan's samples are exhausted, every subsequent
// call returns the exact target values.
func (r *Values) GetReferenceValues() (phiZStarRad, omegaStarRad, gammaSailStarRad float64) {
	if !r.running {
		return r.phiZ, 0, r.gammaSail
	}
	if r.samplesLeft <= 0 {
		r.running = false
		r.phiZ = r.targetPhiZ
		r.gammaSail = r.targetGammaSail
		return r.phiZ, 0, r.gammaSail
	}

	consumed := r.totalSamples - r.samplesLeft
	frac := float64(consumed+1) / float64(r.totalSamples)
	phiZStarRad = angle.SymmetricRad(r.startPhiZ + r.deltaPhiZ*frac)
	gammaSailStarRad = angle.SymmetricRad(r.startGammaSail + r.deltaGammaSail*frac)
	r.samplesLeft--
	return phiZStarRad, r.omegaStar, gammaSailStarRad
}

// Peek returns the planner's held constants (phiZ, gammaSail) without
// consuming a plan sample; while a plan is running these are the values
// that were in effect when the plan started, not the in-flight sample.
func (r *Values) Peek() (phiZRad, gammaSailRad float64) {
	return r.phiZ, r.gammaSail
}

// Reset clears the planner back to a stationary, zero state.
func (r *Values) Reset() {
	*r = Values{}
}
