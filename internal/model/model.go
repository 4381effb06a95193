// Package model holds the data types shared across the Helmsman's
// components: the per-tick controller input and output, and the filtered
// measurement snapshot the supervisor and controllers consume, per
// spec.md §3 DATA MODEL.
package model

import "github.com/relabs-tech/helmsman/internal/drive"

// Unknown is the sentinel value standing in for "not yet received",
// matching the original's kUnknown usage for alpha_star before the Skipper
// has supplied one and for wind angle before a valid sample has arrived.
const Unknown = -1e30

// IsUnknown reports whether x is the Unknown sentinel.
func IsUnknown(x float64) bool { return x <= Unknown/2 }

// IMUSnapshot is one tick's accumulated "imu:" record, in SI units/radians
// except where noted _deg.
type IMUSnapshot struct {
	TimestampMs int64
	TempC       float64
	AccMS2      [3]float64
	GyrRadS     [3]float64
	MagAu       [3]float64
	RollDeg     float64
	PitchDeg    float64
	YawDeg      float64
	LatDeg      float64
	LngDeg      float64
	AltM        float64
	VelMS       [3]float64
	Received    bool
}

// WindSensorSnapshot is one tick's accumulated "wind:" record.
type WindSensorSnapshot struct {
	TimestampMs int64
	AngleDeg    float64
	MagMS       float64
	Valid       bool
	Received    bool
}

// CompassSnapshot is one tick's accumulated "compass:" record.
type CompassSnapshot struct {
	TimestampMs int64
	RollDeg     float64
	PitchDeg    float64
	YawDeg      float64
	TempC       float64
	Received    bool
}

// GPSSnapshot is one tick's accumulated "gps:" record.
type GPSSnapshot struct {
	TimestampMs int64
	LatDeg      float64
	LngDeg      float64
	SpeedMS     float64
	CogDeg      float64
	Received    bool
}

// RemoteMode mirrors wire.RemoteMode without importing the wire package, to
// keep the model package dependency-free of the I/O layer.
type RemoteMode int

// Remote-control command codes (see wire.RemoteMode for the authoritative
// numbering these must match).
const (
	RemoteNormal     RemoteMode = 1
	RemoteDock       RemoteMode = 2
	RemoteBrake      RemoteMode = 3
	RemoteOverride   RemoteMode = 4
	RemotePowerCycle RemoteMode = 5
	RemoteIdle       RemoteMode = 6
)

// RemoteSnapshot is the most recently received "remote:" record, with the
// record's own timestamp. The local receive time used to detect the 5s
// heartbeat timeout is kept separately by cmd/helmsmand.
type RemoteSnapshot struct {
	TimestampS   int64
	Command      RemoteMode
	AlphaStarDeg float64
	Received     bool
}

// ControllerInput is everything accumulated from the bus over one tick,
// passed into FilterBlock.Filter and then into the active controller.
type ControllerInput struct {
	IMU          IMUSnapshot
	Wind         WindSensorSnapshot
	DriveActual  drive.ActualValuesDeg
	Compass      CompassSnapshot
	GPS          GPSSnapshot
	Remote       RemoteSnapshot
	AlphaStarDeg float64 // Unknown until the Skipper has sent a "helm:" record
}

// FilteredMeasurements is the supervisor's persistent, filtered state,
// recomputed once per tick from the tick's ControllerInput. Angles are
// radians, magnitudes are m/s, unless named _c/_deg.
type FilteredMeasurements struct {
	PhiZBoat float64 // heading
	MagBoat  float64 // boat speed
	OmegaZ   float64 // yaw rate

	AngleTrue float64
	MagTrue   float64

	AngleApp float64
	MagApp   float64

	AngleAoa float64
	MagAoa   float64

	LatDeg float64
	LngDeg float64

	RollRad float64
	PitchRad float64
	TempC    float64

	Valid         bool
	ValidAppWind  bool
	ValidTrueWind bool
}

// SkipperInput is the "skipper_input:" output record.
type SkipperInput struct {
	TimestampMs  int64
	LatDeg       float64
	LngDeg       float64
	AngleTrueDeg float64
	MagTrueKn    float64
}

// HelmsmanStatus is the "helmsman_st:" output record plus lifetime counters,
// grounded on the original's HelmsmanStatus (tacks/jibes/inits counters).
type HelmsmanStatus struct {
	Tacks            int
	Jibes            int
	Inits            int
	DirectionTrueDeg float64
	MagTrueMS        float64
}

// Reset zeroes the counters, matching the original HelmsmanStatus::Reset.
func (s *HelmsmanStatus) Reset() {
	s.Tacks = 0
	s.Jibes = 0
	s.Inits = 0
}

// ControllerOutput is what the active controller produces each tick.
type ControllerOutput struct {
	DriveReference drive.ReferenceValuesRad
	SkipperInput   SkipperInput
	Status         HelmsmanStatus
}

// Reset zeroes the drive reference, matching the original
// ControllerOutput::Reset used at the top of every controller's Run.
func (o *ControllerOutput) Reset() {
	o.DriveReference = drive.ReferenceValuesRad{}
}

// Controller is the common interface every supervisor-owned controller
// variant implements (Initial, Normal, Brake, Dock, Idle, Test), per
// spec.md DESIGN NOTES "tagged sum of controller variants, dispatch
// function per operation" — expressed here as a small interface so the
// supervisor can hold the active controller by reference into a fixed
// table without per-transition allocation.
type Controller interface {
	Entry(in ControllerInput, filtered FilteredMeasurements)
	Run(in ControllerInput, filtered FilteredMeasurements, out *ControllerOutput)
	Exit()
	Done() bool
	Name() string
}

// MetaState is the supervisor's top-level override state, per spec.md §3.
type MetaState int

// Meta-states, in the original's priority order.
const (
	Braking MetaState = iota
	Docking
	Idle
	Normal
)

// String renders the meta-state name.
func (s MetaState) String() string {
	switch s {
	case Braking:
		return "Braking"
	case Docking:
		return "Docking"
	case Idle:
		return "Idle"
	case Normal:
		return "Normal"
	default:
		return "Unknown"
	}
}

// WindStrength is the hysteretic three-level wind classification.
type WindStrength int

// Wind strength levels.
const (
	WindCalm WindStrength = iota
	WindNormal
	WindStorm
)

// String renders the wind strength name.
func (w WindStrength) String() string {
	switch w {
	case WindCalm:
		return "Calm"
	case WindNormal:
		return "Normal"
	case WindStorm:
		return "Storm"
	default:
		return "Unknown"
	}
}

// Maneuver classifies a heading-change request relative to the true wind.
type Maneuver int

// Maneuver kinds.
const (
	ManeuverChange Maneuver = iota
	ManeuverTack
	ManeuverJibe
)

// String renders the maneuver name.
func (m Maneuver) String() string {
	switch m {
	case ManeuverChange:
		return "Change"
	case ManeuverTack:
		return "Tack"
	case ManeuverJibe:
		return "Jibe"
	default:
		return "Unknown"
	}
}

// Sector classifies a desired heading relative to the true wind into the
// six point-of-sail regions.
type Sector int

// Sector values, ordered to match the original's enum (TackPort=1..).
const (
	TackPort Sector = iota + 1
	TackStar
	ReachStar
	JibeStar
	JibePort
	ReachPort
)

// String renders the sector name.
func (s Sector) String() string {
	switch s {
	case TackPort:
		return "TackPort"
	case TackStar:
		return "TackStar"
	case ReachStar:
		return "ReachStar"
	case JibeStar:
		return "JibeStar"
	case JibePort:
		return "JibePort"
	case ReachPort:
		return "ReachPort"
	default:
		return "Unknown"
	}
}
