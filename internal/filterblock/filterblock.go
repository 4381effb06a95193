// Package filterblock fuses one tick's raw ControllerInput into a stable
// FilteredMeasurements snapshot, per spec.md §4.2.
package filterblock

import (
	"math"

	"github.com/relabs-tech/helmsman/internal/angle"
	"github.com/relabs-tech/helmsman/internal/filter"
	"github.com/relabs-tech/helmsman/internal/model"
	"github.com/relabs-tech/helmsman/internal/windmath"
)

// TrueWindWarmupPeriod is the Open Question decision documented in
// SPEC_FULL.md: the true-wind low-pass must be fed continuously for this
// long before valid_true_wind is asserted.
const TrueWindWarmupPeriod = 35.0 // seconds

// MastToSensorOffsetRad is the fixed mechanical offset between the mast's
// zero and the wind sensor's zero.
const MastToSensorOffsetRad = 0

// SamplingPeriod is the nominal control-loop tick, in seconds.
const SamplingPeriod = 0.1

// AccelMagMinMS2 and AccelMagMaxMS2 bound the accelerometer-magnitude window
// within which the accelerometer fallback heading is trusted (spec.md
// §4.2: "accelerometer magnitude in [8,12] m/s^2").
const (
	AccelMagMinMS2 = 8.0
	AccelMagMaxMS2 = 12.0
	MaxTiltRad     = 30.0 * math.Pi / 180
)

// FilterBlock owns the persistent filter state behind FilteredMeasurements.
type FilterBlock struct {
	omegaZ  *filter.LowPass
	speed   *filter.LowPass
	speedM3 filter.Median3

	appWind *wrapVectorFilter
	trueWind *wrapVectorFilter
	aoa     *filter.WrapLowPass

	current model.FilteredMeasurements
}

// wrapVectorFilter low-passes a 2D vector (for apparent/true wind, where the
// polar angle would wrap) by filtering its x and y components directly.
type wrapVectorFilter struct {
	x, y *filter.LowPass
}

func newWrapVectorFilter(t1, warmup float64) *wrapVectorFilter {
	return &wrapVectorFilter{x: filter.NewLowPass(t1, warmup), y: filter.NewLowPass(t1, warmup)}
}

func (w *wrapVectorFilter) step(v windmath.Vector, dt float64) windmath.Vector {
	return windmath.Vector{X: w.x.Step(v.X, dt), Y: w.y.Step(v.Y, dt)}
}

func (w *wrapVectorFilter) valid() bool { return w.x.Valid() && w.y.Valid() }

// New returns a FilterBlock with fresh, cold filter state.
func New() *FilterBlock {
	return &FilterBlock{
		omegaZ:   filter.NewLowPass(1.0, 1.0),
		speed:    filter.NewLowPass(1.0, 1.0),
		appWind:  newWrapVectorFilter(1.0, 1.0),
		trueWind: newWrapVectorFilter(TrueWindWarmupPeriod, TrueWindWarmupPeriod),
		aoa:      filter.NewWrapLowPass(2.0, 2.0),
	}
}

// Reset discards all filter state, as if the FilterBlock were newly
// constructed.
func (fb *FilterBlock) Reset() {
	*fb = *New()
}

// Filter advances every filter by one sample period using in, and returns
// the updated FilteredMeasurements snapshot. Each input is processed
// exactly once in a fixed order, so the result is reproducible given input
// equality (spec.md §5 ordering guarantee).
func (fb *FilterBlock) Filter(in model.ControllerInput) model.FilteredMeasurements {
	dt := SamplingPeriod

	// Heading: prefer the IMU's own fused yaw; when it isn't present (this
	// board's fusion leaves YawDeg at 0, see orientation.NewIMUSource's
	// doc comment) fall back to a tilt-compensated bearing derived from the
	// same tick's magnetometer+accelerometer pair; failing that fall back
	// to the standalone compass.
	headingValid := false
	heading := fb.current.PhiZBoat
	switch {
	case in.IMU.Received && in.IMU.YawDeg != 0:
		heading = angle.Deg2Rad(in.IMU.YawDeg)
		headingValid = true
	case in.IMU.Received && magBearingOK(in.IMU.AccMS2, in.IMU.MagAu):
		heading = magnetometerBearingRad(in.IMU.AccMS2, in.IMU.MagAu)
		headingValid = true
	case in.Compass.Received:
		heading = angle.Deg2Rad(in.Compass.YawDeg)
		headingValid = true
	}
	fb.current.PhiZBoat = angle.SymmetricRad(heading)

	omega := 0.0
	if in.IMU.Received {
		omega = in.IMU.GyrRadS[2]
	}
	fb.current.OmegaZ = fb.omegaZ.Step(omega, dt)

	speedRaw := 0.0
	if in.IMU.Received {
		speedRaw = in.IMU.VelMS[0]
	}
	despiked := fb.speedM3.Push(speedRaw)
	fb.current.MagBoat = fb.speed.Step(despiked, dt)

	// Apparent wind, in the boat frame.
	if in.Wind.Received && in.Wind.Valid {
		sensorPolar := windmath.ApparentFromSensor(
			angle.Deg2Rad(in.Wind.AngleDeg), in.Wind.MagMS,
			MastToSensorOffsetRad, in.DriveActual.SailDeg*math.Pi/180)
		v := fb.appWind.step(sensorPolar.ToVector(), dt)
		p := v.ToPolar()
		fb.current.AngleApp = p.AngleRad
		fb.current.MagApp = p.Mag

		boatVelocity := windmath.Vector{X: fb.current.MagBoat, Y: 0}
		trueVec := windmath.TrueFromApparent(sensorPolar, boatVelocity)
		tv := fb.trueWind.step(trueVec, dt)
		tp := tv.ToPolar()
		fb.current.AngleTrue = tp.AngleRad
		fb.current.MagTrue = tp.Mag

		aoaRaw := angle.DeltaRad(in.DriveActual.SailDeg*math.Pi/180, angle.Deg2Rad(in.Wind.AngleDeg))
		fb.current.AngleAoa = fb.aoa.Step(aoaRaw, dt)
		fb.current.MagAoa = p.Mag
	}

	fb.current.LatDeg = in.GPS.LatDeg
	fb.current.LngDeg = in.GPS.LngDeg
	if in.IMU.Received {
		fb.current.LatDeg = in.IMU.LatDeg
		fb.current.LngDeg = in.IMU.LngDeg
		fb.current.RollRad = angle.Deg2Rad(in.IMU.RollDeg)
		fb.current.PitchRad = angle.Deg2Rad(in.IMU.PitchDeg)
		fb.current.TempC = in.IMU.TempC
	}

	fb.current.ValidAppWind = fb.appWind.valid() && in.Wind.Received
	fb.current.ValidTrueWind = fb.trueWind.valid() && fb.current.ValidAppWind
	fb.current.Valid = fb.current.ValidTrueWind && fb.omegaZ.Valid() && fb.speed.Valid() && headingValid

	return fb.current
}

// Current returns the most recent snapshot without advancing any filter.
func (fb *FilterBlock) Current() model.FilteredMeasurements {
	return fb.current
}

// magBearingOK reports whether acc/mag form a trustworthy pair for
// magnetometerBearingRad: gravity must read within [AccelMagMinMS2,
// AccelMagMaxMS2] and the derived tilt must stay under MaxTiltRad, per
// spec.md §4.2.
func magBearingOK(acc, mag [3]float64) bool {
	accMag := math.Sqrt(acc[0]*acc[0] + acc[1]*acc[1] + acc[2]*acc[2])
	if accMag < AccelMagMinMS2 || accMag > AccelMagMaxMS2 {
		return false
	}
	roll, pitch := tiltRad(acc)
	return math.Abs(roll) < MaxTiltRad && math.Abs(pitch) < MaxTiltRad
}

// tiltRad derives roll and pitch from the accelerometer's gravity vector.
func tiltRad(acc [3]float64) (roll, pitch float64) {
	roll = math.Atan2(acc[1], acc[2])
	pitch = math.Atan2(-acc[0], math.Sqrt(acc[1]*acc[1]+acc[2]*acc[2]))
	return roll, pitch
}

// magnetometerBearingRad projects the magnetic vector into the horizontal
// plane after tilt-compensating it with the accelerometer-derived roll and
// pitch, and returns the resulting bearing. Callers must gate this with
// magBearingOK first; the tilt used here is not re-validated.
func magnetometerBearingRad(acc, mag [3]float64) float64 {
	roll, pitch := tiltRad(acc)
	mx, my, mz := mag[0], mag[1], mag[2]
	xh := mx*math.Cos(pitch) + mz*math.Sin(pitch)
	yh := mx*math.Sin(roll)*math.Sin(pitch) + my*math.Cos(roll) - mz*math.Sin(roll)*math.Cos(pitch)
	return math.Atan2(yh, xh)
}
