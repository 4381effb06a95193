package filterblock

import (
	"math"
	"testing"

	"github.com/relabs-tech/helmsman/internal/model"
	"github.com/stretchr/testify/assert"
)

func constantInput() model.ControllerInput {
	return model.ControllerInput{
		IMU: model.IMUSnapshot{
			Received: true,
			YawDeg:   45,
			VelMS:    [3]float64{2.0, 0, 0},
		},
		Wind: model.WindSensorSnapshot{
			Received: true,
			Valid:    true,
			AngleDeg: 90,
			MagMS:    5,
		},
		GPS: model.GPSSnapshot{LatDeg: 1, LngDeg: 2},
	}
}

func TestFilterBlockWarmsUpAndConverges(t *testing.T) {
	fb := New()
	in := constantInput()
	var out model.FilteredMeasurements
	for i := 0; i < 500; i++ {
		out = fb.Filter(in)
	}
	assert.True(t, out.ValidAppWind)
	assert.InDelta(t, 2.0, out.MagBoat, 0.1)
}

func TestFilterBlockTrueWindNeedsLongWarmup(t *testing.T) {
	fb := New()
	in := constantInput()
	var out model.FilteredMeasurements
	// Only 5s worth of ticks: well under the 35s true-wind warmup.
	for i := 0; i < 50; i++ {
		out = fb.Filter(in)
	}
	assert.False(t, out.ValidTrueWind)
}

func TestFilterBlockMissingWindRetainsValidityFalse(t *testing.T) {
	fb := New()
	in := constantInput()
	in.Wind = model.WindSensorSnapshot{}
	out := fb.Filter(in)
	assert.False(t, out.ValidAppWind)
	assert.False(t, out.Valid)
}

func TestResetClearsWarmState(t *testing.T) {
	fb := New()
	in := constantInput()
	for i := 0; i < 500; i++ {
		fb.Filter(in)
	}
	fb.Reset()
	out := fb.Current()
	assert.False(t, out.ValidAppWind)
}

func TestHeadingFallsBackToMagnetometerWhenYawUnfused(t *testing.T) {
	fb := New()
	in := constantInput()
	// YawDeg left at its unfused placeholder; AccMS2 reads level gravity
	// within the trusted window and MagAu points along the boat's x-axis.
	in.IMU.YawDeg = 0
	in.IMU.AccMS2 = [3]float64{0, 0, 9.8}
	in.IMU.MagAu = [3]float64{1, 0, 0}
	out := fb.Filter(in)
	assert.InDelta(t, 0, out.PhiZBoat, 1e-9)
}

func TestHeadingFallsBackToCompassWhenMagnetometerGateFails(t *testing.T) {
	fb := New()
	in := constantInput()
	in.IMU.YawDeg = 0
	// Gravity magnitude well outside [AccelMagMinMS2, AccelMagMaxMS2]: the
	// magnetometer bearing must be rejected and the compass used instead.
	in.IMU.AccMS2 = [3]float64{0, 0, 0}
	in.IMU.MagAu = [3]float64{1, 0, 0}
	in.Compass.Received = true
	in.Compass.YawDeg = 30
	out := fb.Filter(in)
	assert.InDelta(t, 30*math.Pi/180, out.PhiZBoat, 1e-3)
}
