package controller

import (
	"math"
	"testing"

	"github.com/relabs-tech/helmsman/internal/drive"
	"github.com/relabs-tech/helmsman/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestInitialAlwaysZeroesOutput(t *testing.T) {
	c := &Initial{}
	out := model.ControllerOutput{
		DriveReference: drive.ReferenceValuesRad{GammaRudderLeftRad: 1, GammaSailRad: 1},
	}
	c.Run(model.ControllerInput{}, model.FilteredMeasurements{}, &out)
	assert.Equal(t, drive.ReferenceValuesRad{}, out.DriveReference)
	assert.False(t, c.Done())
	assert.Equal(t, "Initial", c.Name())
}

func TestDockZeroesEveryDrive(t *testing.T) {
	c := &Dock{}
	out := model.ControllerOutput{
		DriveReference: drive.ReferenceValuesRad{GammaRudderLeftRad: 0.5, GammaRudderRightRad: -0.5, GammaSailRad: 0.3},
	}
	c.Run(model.ControllerInput{}, model.FilteredMeasurements{}, &out)
	assert.Equal(t, drive.ReferenceValuesRad{}, out.DriveReference)
}

func TestIdleHoldsPreviousOutputUntouched(t *testing.T) {
	c := &Idle{}
	prior := drive.ReferenceValuesRad{GammaRudderLeftRad: 0.2, GammaRudderRightRad: -0.2, GammaSailRad: 0.1}
	out := model.ControllerOutput{DriveReference: prior}
	c.Run(model.ControllerInput{}, model.FilteredMeasurements{}, &out)
	assert.Equal(t, prior, out.DriveReference)
}

func TestTestControllerReportsDoneAfterSettlePeriod(t *testing.T) {
	c := &Test{}
	c.Entry(model.ControllerInput{}, model.FilteredMeasurements{})
	var out model.ControllerOutput
	for i := 0; i < testSettleTicks-1; i++ {
		c.Run(model.ControllerInput{}, model.FilteredMeasurements{}, &out)
		assert.False(t, c.Done())
	}
	c.Run(model.ControllerInput{}, model.FilteredMeasurements{}, &out)
	assert.True(t, c.Done())
}

func TestBrakeHardOverPhaseUsesOppositeRudderSigns(t *testing.T) {
	c := &Brake{}
	c.Entry(model.ControllerInput{}, model.FilteredMeasurements{})
	var out model.ControllerOutput
	c.Run(model.ControllerInput{}, model.FilteredMeasurements{ValidAppWind: true, AngleApp: 0}, &out)
	assert.InDelta(t, rudderBrakeAngleRad, out.DriveReference.GammaRudderLeftRad, 1e-9)
	assert.InDelta(t, -rudderBrakeAngleRad, out.DriveReference.GammaRudderRightRad, 1e-9)
	// Sail luffs toward the apparent wind's reciprocal (flag) position.
	assert.InDelta(t, math.Pi, math.Abs(out.DriveReference.GammaSailRad), 1e-9)
}

func TestBrakeSwitchesToHeaveToAfterHardOverPhase(t *testing.T) {
	c := &Brake{}
	c.Entry(model.ControllerInput{}, model.FilteredMeasurements{})
	var out model.ControllerOutput
	in := model.ControllerInput{}
	filtered := model.FilteredMeasurements{ValidAppWind: true, AngleApp: 0}
	for i := 0; i < int(brakeHardOverS/SamplingPeriod)+5; i++ {
		c.Run(in, filtered, &out)
	}
	// Past the hard-over phase the rudder magnitude drops to the lighter
	// heave-to angle (16 degrees), not the 80 degree hard-over.
	assert.Less(t, math.Abs(out.DriveReference.GammaRudderLeftRad), rudderBrakeAngleRad)
}

func TestBrakeWithoutValidWindDefaultsSailToZero(t *testing.T) {
	c := &Brake{}
	c.Entry(model.ControllerInput{}, model.FilteredMeasurements{})
	var out model.ControllerOutput
	c.Run(model.ControllerInput{}, model.FilteredMeasurements{ValidAppWind: false}, &out)
	assert.Equal(t, 0.0, out.DriveReference.GammaSailRad)
}
