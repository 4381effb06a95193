// Package windmath converts between the wind-sensor frame, the boat body
// frame, and the earth frame, per spec.md §4.2 and the original project's
// wind_sensor.cc record.
package windmath

import (
	"math"

	"github.com/relabs-tech/helmsman/internal/angle"
)

// Polar is an (angle, magnitude) pair. Magnitude-0 polars have undefined
// angle; callers must special-case them before reading Angle.
type Polar struct {
	AngleRad float64
	Mag      float64
}

// Vector is a 2D cartesian vector in the boat body frame (x forward,
// y to starboard).
type Vector struct {
	X, Y float64
}

// ToVector converts a polar to cartesian coordinates. The zero polar maps to
// the zero vector.
func (p Polar) ToVector() Vector {
	return Vector{X: p.Mag * math.Cos(p.AngleRad), Y: p.Mag * math.Sin(p.AngleRad)}
}

// ToPolar converts a cartesian vector to polar form. The zero vector maps to
// a zero-magnitude polar with angle 0 (undefined by convention).
func (v Vector) ToPolar() Polar {
	mag := math.Hypot(v.X, v.Y)
	if mag == 0 {
		return Polar{AngleRad: 0, Mag: 0}
	}
	return Polar{AngleRad: angle.SymmetricRad(math.Atan2(v.Y, v.X)), Mag: mag}
}

// Add returns the vector sum of v and w.
func (v Vector) Add(w Vector) Vector { return Vector{X: v.X + w.X, Y: v.Y + w.Y} }

// Sub returns v - w.
func (v Vector) Sub(w Vector) Vector { return Vector{X: v.X - w.X, Y: v.Y - w.Y} }

// ApparentFromSensor converts a raw mast-mounted wind-sensor reading into
// the boat-frame apparent wind: the sensor angle is relative to the mast,
// offset by a fixed mast-to-sensor mount angle and the current sail
// (mast) rotation gammaSailRad, matching the original's
// "wind-sensor reading at the mast, mast-to-sensor offset and sail rotation
// subtracted" rule (spec.md §4.2).
func ApparentFromSensor(sensorAngleRad, sensorMag, mastToSensorOffsetRad, gammaSailRad float64) Polar {
	return Polar{
		AngleRad: angle.SymmetricRad(sensorAngleRad + mastToSensorOffsetRad - gammaSailRad),
		Mag:      sensorMag,
	}
}

// TrueFromApparent computes the true wind vector in the boat frame given the
// apparent wind and the boat's own velocity vector:
// wind_true = wind_sensor - boat_velocity (spec.md §4.2).
func TrueFromApparent(apparent Polar, boatVelocity Vector) Vector {
	return apparent.ToVector().Sub(boatVelocity)
}

// ApparentFromTrue is the inverse of TrueFromApparent: given true wind (as a
// boat-frame vector) and the boat's own velocity, returns the apparent wind.
func ApparentFromTrue(trueWind Vector, boatVelocity Vector) Polar {
	return trueWind.Add(boatVelocity).ToPolar()
}
