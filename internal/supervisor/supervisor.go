// Package supervisor implements the ShipControl state machine: meta-state
// overrides, the Initial/Normal/Test controller lifecycle, homing-loss
// fallback, wind-strength tracking, and the Skipper/status output records,
// grounded on the original project's helmsman/ship_control.{h,cc} and
// helmsman_status.cc.
package supervisor

import (
	"github.com/relabs-tech/helmsman/internal/angle"
	"github.com/relabs-tech/helmsman/internal/controller"
	"github.com/relabs-tech/helmsman/internal/filterblock"
	"github.com/relabs-tech/helmsman/internal/model"
	"github.com/relabs-tech/helmsman/internal/normalctl"
)

// Wind-strength hysteresis thresholds, in m/s. No numeric band survived in
// the retrieved source; these are named constants documented in DESIGN.md
// rather than bare literals.
const (
	calmLimitMS      = 2.0
	calmLimitHystMS  = 2.5
	stormLimitMS     = 15.0
	stormLimitHystMS = 13.0
)

func classifyWindStrength(prev model.WindStrength, magMS float64) model.WindStrength {
	switch prev {
	case model.WindCalm:
		if magMS > calmLimitHystMS {
			return model.WindNormal
		}
		return model.WindCalm
	case model.WindStorm:
		if magMS < stormLimitHystMS {
			return model.WindNormal
		}
		return model.WindStorm
	default:
		if magMS <= calmLimitMS {
			return model.WindCalm
		}
		if magMS >= stormLimitMS {
			return model.WindStorm
		}
		return model.WindNormal
	}
}

// Supervisor is the ShipControl aggregate: it owns the filter block, every
// controller variant, and the top-level state machine, per spec.md §4.8 and
// DESIGN NOTES' "single Helmsman aggregate" re-architecture.
type Supervisor struct {
	filterBlock *filterblock.FilterBlock
	filtered    model.FilteredMeasurements

	metaState model.MetaState
	active    model.Controller

	initial *controller.Initial
	brake   *controller.Brake
	dock    *controller.Dock
	idle    *controller.Idle
	test    *controller.Test
	normal  *normalctl.Normal

	windStrength         model.WindStrength
	windStrengthApparent model.WindStrength

	status model.HelmsmanStatus
}

// New returns a Supervisor starting in the Test controller, matching the
// original's startup default ("for drive and sensor tests").
func New() *Supervisor {
	s := &Supervisor{
		filterBlock: filterblock.New(),
		metaState:   model.Normal,
		initial:     &controller.Initial{},
		brake:       &controller.Brake{},
		dock:        &controller.Dock{},
		idle:        &controller.Idle{},
		test:        &controller.Test{},
		normal:      normalctl.New(),
	}
	s.active = s.test
	return s
}

// Reset returns the Supervisor to a freshly constructed state, matching
// ShipControl::Reset (used by tests to get a clean fixture).
func (s *Supervisor) Reset() {
	*s = *New()
}

// SetMetaState changes the top-level override state, corresponding to the
// original's ShipControl::Brake/Docking/Normal static setters.
func (s *Supervisor) SetMetaState(m model.MetaState) {
	s.metaState = m
}

// MetaState reports the current top-level override state.
func (s *Supervisor) MetaState() model.MetaState { return s.metaState }

// Idling reports whether the active controller is Idle.
func (s *Supervisor) Idling() bool { return s.active == s.idle }

// ActiveName returns the active controller's name, for logging/status.
func (s *Supervisor) ActiveName() string { return s.active.Name() }

// Status returns the current HelmsmanStatus counters.
func (s *Supervisor) Status() model.HelmsmanStatus { return s.status }

func (s *Supervisor) transition(next model.Controller, in model.ControllerInput) {
	s.active.Exit()
	s.active = next
	s.active.Entry(in, s.filtered)
	if next == s.initial {
		s.status.Inits++
	}
}

// stateMachine implements ShipControl::StateMachine: meta-state override
// first, then the Initial/Normal/Test lifecycle and homing-loss fallback.
func (s *Supervisor) stateMachine(in model.ControllerInput) {
	switch s.metaState {
	case model.Braking:
		if s.active != s.brake {
			s.transition(s.brake, in)
		}
		return
	case model.Docking:
		if s.active != s.dock {
			s.transition(s.dock, in)
		}
		return
	case model.Idle:
		if s.active != s.idle {
			s.transition(s.idle, in)
		}
		return
	case model.Normal:
		if s.active != s.initial && s.active != s.normal && s.active != s.test {
			s.transition(s.initial, in)
		}
	}

	if s.active != s.initial && s.active != s.test {
		if !in.DriveActual.SailHomed || (!in.DriveActual.RudderLeftHomed && !in.DriveActual.RudderRightHomed) {
			s.transition(s.initial, in)
			return
		}
	}

	if s.active == s.test {
		if s.test.Done() {
			s.transition(s.initial, in)
		}
		return
	}

	if s.active == s.initial {
		if s.initial.Done() &&
			s.windStrengthApparent != model.WindCalm &&
			s.filtered.ValidTrueWind &&
			!model.IsUnknown(in.AlphaStarDeg) {
			s.transition(s.normal, in)
		}
		return
	}

	if s.active == s.normal {
		if s.normal.GiveUp() {
			s.transition(s.initial, in)
			return
		}
	}
}

// Run advances the filter block, updates wind-strength tracking and the
// Skipper/status output fields, runs the state machine, and finally
// invokes the active controller, per spec.md §4.8/§5.
func (s *Supervisor) Run(in model.ControllerInput, timestampMs int64, out *model.ControllerOutput) {
	s.filtered = s.filterBlock.Filter(in)

	if s.filtered.ValidTrueWind {
		s.windStrength = classifyWindStrength(s.windStrength, s.filtered.MagTrue)
		out.SkipperInput = model.SkipperInput{
			TimestampMs:  timestampMs,
			LatDeg:       s.filtered.LatDeg,
			LngDeg:       s.filtered.LngDeg,
			AngleTrueDeg: angle.NormalizeDeg(angle.Rad2Deg(s.filtered.AngleTrue)),
			MagTrueKn:    s.filtered.MagTrue * 1.9438445,
		}
		s.status.DirectionTrueDeg = angle.NormalizeDeg(angle.Rad2Deg(s.filtered.AngleTrue))
		s.status.MagTrueMS = s.filtered.MagTrue
	}
	s.windStrengthApparent = classifyWindStrength(s.windStrengthApparent, s.filtered.MagApp)

	s.stateMachine(in)

	s.active.Run(in, s.filtered, out)

	if s.active == s.normal {
		s.status.Tacks = s.normal.Tacks()
		s.status.Jibes = s.normal.Jibes()
	}
	out.Status = s.status
}

// FilteredSnapshot exposes the current filtered measurements, e.g. for
// status daemons or tests.
func (s *Supervisor) FilteredSnapshot() model.FilteredMeasurements { return s.filtered }

// RemoteFailsafeCheck implements spec.md §5's remote-control heartbeat
// failsafe: if the last remote record is older than timeoutS seconds while
// the remote mode is Override or Idle, force Braking.
// nowS is the current clock time in seconds; lastRemoteS is the Remote
// record's received timestamp in seconds.
func (s *Supervisor) RemoteFailsafeCheck(nowS, lastRemoteS float64, timeoutS float64, mode model.RemoteMode) {
	stale := nowS-lastRemoteS > timeoutS
	if stale && (mode == model.RemoteOverride || mode == model.RemoteIdle) {
		s.SetMetaState(model.Braking)
	}
}

// ApplyRemoteMode maps a received remote-control command onto the
// supervisor's meta-state, per spec.md §6 and helmsman_main.cc's
// HandleRemoteControl (PowerCycle folds into Brake).
func ApplyRemoteMode(s *Supervisor, mode model.RemoteMode) {
	switch mode {
	case model.RemoteNormal, model.RemoteOverride:
		s.SetMetaState(model.Normal)
	case model.RemoteDock:
		s.SetMetaState(model.Docking)
	case model.RemoteBrake, model.RemotePowerCycle:
		s.SetMetaState(model.Braking)
	case model.RemoteIdle:
		s.SetMetaState(model.Idle)
	}
}
