package supervisor

import (
	"testing"

	"github.com/relabs-tech/helmsman/internal/drive"
	"github.com/relabs-tech/helmsman/internal/model"
	"github.com/stretchr/testify/assert"
)

func homedInput() model.ControllerInput {
	return model.ControllerInput{
		DriveActual: drive.ActualValuesDeg{
			RudderLeftHomed:  true,
			RudderRightHomed: true,
			SailHomed:        true,
		},
		AlphaStarDeg: model.Unknown,
	}
}

func TestStartsInTest(t *testing.T) {
	s := New()
	assert.Equal(t, "Test", s.ActiveName())
}

func TestTestControllerTransitionsToInitialWhenDone(t *testing.T) {
	s := New()
	in := homedInput()
	var out model.ControllerOutput
	for i := 0; i < testSettleTicksPlusOne(); i++ {
		s.Run(in, int64(i)*100, &out)
	}
	assert.Equal(t, "Initial", s.ActiveName())
}

// testSettleTicksPlusOne mirrors controller.testSettleTicks+1 without
// importing the unexported constant; the Test controller's settle period is
// documented as 30 ticks in the controller package.
func testSettleTicksPlusOne() int { return 31 }

func TestMetaStateBrakingOverridesController(t *testing.T) {
	s := New()
	s.SetMetaState(model.Braking)
	in := homedInput()
	var out model.ControllerOutput
	s.Run(in, 0, &out)
	assert.Equal(t, "Brake", s.ActiveName())
}

func TestMetaStateDockingOverridesController(t *testing.T) {
	s := New()
	s.SetMetaState(model.Docking)
	in := homedInput()
	var out model.ControllerOutput
	s.Run(in, 0, &out)
	assert.Equal(t, "Dock", s.ActiveName())
}

func TestMetaStateIdleOverridesController(t *testing.T) {
	s := New()
	s.SetMetaState(model.Idle)
	in := homedInput()
	var out model.ControllerOutput
	s.Run(in, 0, &out)
	assert.Equal(t, "Idle", s.ActiveName())
	assert.True(t, s.Idling())
}

func TestHomingLossKeepsInitialActive(t *testing.T) {
	s := New()
	in := homedInput()
	var out model.ControllerOutput
	for i := 0; i < testSettleTicksPlusOne(); i++ {
		s.Run(in, int64(i)*100, &out)
	}
	assert.Equal(t, "Initial", s.ActiveName())

	// Force past Initial by faking the wind/wind-strength gate won't fire
	// (no valid true wind yet), so Initial is expected to persist; homing
	// loss should have no further effect here since we're already there.
	lost := in
	lost.DriveActual.SailHomed = false
	s.Run(lost, 3100, &out)
	assert.Equal(t, "Initial", s.ActiveName())
}

func TestRemoteFailsafeForcesBraking(t *testing.T) {
	s := New()
	s.RemoteFailsafeCheck(10.0, 0.0, 5.0, model.RemoteOverride)
	assert.Equal(t, model.Braking, s.MetaState())
}

func TestRemoteFailsafeDoesNotFireWithinTimeout(t *testing.T) {
	s := New()
	s.SetMetaState(model.Normal)
	s.RemoteFailsafeCheck(3.0, 0.0, 5.0, model.RemoteOverride)
	assert.Equal(t, model.Normal, s.MetaState())
}

func TestApplyRemoteModeMapsToMetaState(t *testing.T) {
	s := New()
	ApplyRemoteMode(s, model.RemoteDock)
	assert.Equal(t, model.Docking, s.MetaState())
	ApplyRemoteMode(s, model.RemoteBrake)
	assert.Equal(t, model.Braking, s.MetaState())
	ApplyRemoteMode(s, model.RemoteIdle)
	assert.Equal(t, model.Idle, s.MetaState())
	ApplyRemoteMode(s, model.RemoteNormal)
	assert.Equal(t, model.Normal, s.MetaState())
}

func TestInitsCounterIncrementsOnEachInitialEntry(t *testing.T) {
	s := New()
	in := homedInput()
	var out model.ControllerOutput
	for i := 0; i < testSettleTicksPlusOne(); i++ {
		s.Run(in, int64(i)*100, &out)
	}
	assert.Equal(t, "Initial", s.ActiveName())
	assert.Equal(t, 1, s.Status().Inits)

	// Force Initial->Normal is not reachable without valid true wind, so
	// instead drive a second Initial entry via the Braking override path,
	// which transitions back through Normal's meta-state gate on release.
	s.SetMetaState(model.Braking)
	s.Run(in, 3100, &out)
	assert.Equal(t, "Brake", s.ActiveName())
	s.SetMetaState(model.Normal)
	s.Run(in, 3200, &out)
	assert.Equal(t, "Initial", s.ActiveName())
	assert.Equal(t, 2, s.Status().Inits)
}
