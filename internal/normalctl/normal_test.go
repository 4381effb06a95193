package normalctl

import (
	"math"
	"testing"

	"github.com/relabs-tech/helmsman/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestClassifyManeuverChange(t *testing.T) {
	// Both old and new heading reach the wind from the same side: a plain
	// bearing change, no wind crossing.
	m := ClassifyManeuver(math.Pi/2, math.Pi/2+0.2, 0)
	assert.Equal(t, model.ManeuverChange, m)
}

func TestClassifyManeuverTack(t *testing.T) {
	// ClassifyManeuver takes the true wind angle as the direction the wind
	// blows toward, so with true wind at 0 a heading of 180deg points into
	// the wind. Swinging from 170deg to -170deg takes the bow through the
	// wind: a tack.
	m := ClassifyManeuver(170*math.Pi/180, -170*math.Pi/180, 0)
	assert.Equal(t, model.ManeuverTack, m)
}

func TestClassifyManeuverJibe(t *testing.T) {
	// Swinging from 10deg to -10deg with true wind at 0 crosses the
	// downwind direction, taking the stern through the wind: a jibe.
	m := ClassifyManeuver(10*math.Pi/180, -10*math.Pi/180, 0)
	assert.Equal(t, model.ManeuverJibe, m)
}

func TestPlanHorizonJibeLongerThanChange(t *testing.T) {
	change := PlanHorizon(model.ManeuverChange, 10*math.Pi/180)
	jibe := PlanHorizon(model.ManeuverJibe, 10*math.Pi/180)
	assert.Greater(t, jibe, change)
}

func TestGiveUpFiresAfterSustainedLowSpeed(t *testing.T) {
	n := New()
	in := model.ControllerInput{AlphaStarDeg: 90}
	filtered := model.FilteredMeasurements{MagBoat: 0, MagApp: 0}
	n.Entry(in, filtered)
	var out model.ControllerOutput
	for i := 0; i < GiveUpTicks+1; i++ {
		n.Run(in, filtered, &out)
	}
	assert.True(t, n.GiveUp())
}

func TestGiveUpDoesNotFireWithSpeed(t *testing.T) {
	n := New()
	in := model.ControllerInput{AlphaStarDeg: 90}
	filtered := model.FilteredMeasurements{MagBoat: 2.0, MagApp: 3.0}
	n.Entry(in, filtered)
	var out model.ControllerOutput
	for i := 0; i < GiveUpTicks+1; i++ {
		n.Run(in, filtered, &out)
	}
	assert.False(t, n.GiveUp())
}

func TestRunProducesSymmetricSailAngle(t *testing.T) {
	n := New()
	in := model.ControllerInput{AlphaStarDeg: 45}
	filtered := model.FilteredMeasurements{MagBoat: 2, MagApp: 5, AngleTrue: 0}
	n.Entry(in, filtered)
	var out model.ControllerOutput
	n.Run(in, filtered, &out)
	assert.GreaterOrEqual(t, out.DriveReference.GammaSailRad, -math.Pi)
	assert.Less(t, out.DriveReference.GammaSailRad, math.Pi)
}

func TestBothRudderCommandsMatch(t *testing.T) {
	n := New()
	in := model.ControllerInput{AlphaStarDeg: 45}
	filtered := model.FilteredMeasurements{MagBoat: 2, MagApp: 5, AngleTrue: 0}
	n.Entry(in, filtered)
	var out model.ControllerOutput
	n.Run(in, filtered, &out)
	assert.Equal(t, out.DriveReference.GammaRudderLeftRad, out.DriveReference.GammaRudderRightRad)
}
