package polar

import (
	"math"
	"testing"

	"github.com/relabs-tech/helmsman/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestClassifySectorReach(t *testing.T) {
	assert.Equal(t, model.ReachStar, ClassifySector(90*math.Pi/180))
	assert.Equal(t, model.ReachPort, ClassifySector(-90*math.Pi/180))
}

func TestClassifySectorTackZone(t *testing.T) {
	assert.Equal(t, model.TackStar, ClassifySector(20*math.Pi/180))
	assert.Equal(t, model.TackPort, ClassifySector(-20*math.Pi/180))
}

func TestClassifySectorJibeZone(t *testing.T) {
	assert.Equal(t, model.JibeStar, ClassifySector(170*math.Pi/180))
	assert.Equal(t, model.JibePort, ClassifySector(-170*math.Pi/180))
}

func TestSailableHeadingReachIsVerbatim(t *testing.T) {
	var p PointOfSail
	target := 90 * math.Pi / 180
	_, heading := p.SailableHeading(target, 0)
	assert.InDelta(t, target, heading, 1e-9)
}

func TestSailableHeadingNoGoClampsToBoundary(t *testing.T) {
	var p PointOfSail
	// Target dead upwind (true wind at 0), forbidden: should clamp to +-45deg.
	_, heading := p.SailableHeading(0, 0)
	assert.InDelta(t, TackZoneRad, math.Abs(heading), 1e-9)
}

func TestSailableHeadingHysteresisPreventsOscillation(t *testing.T) {
	var p PointOfSail
	alphaTrue := 0.0
	// Target jitters back and forth just inside the tack zone, a hair from
	// its starboard edge; the chosen sailable heading must stay pinned to
	// the boundary it first picked rather than flapping tick to tick.
	a := TackZoneRad - 0.002
	b := TackZoneRad - 0.001
	_, first := p.SailableHeading(a, alphaTrue)
	for i := 0; i < 100; i++ {
		target := a
		if i%2 == 1 {
			target = b
		}
		_, h := p.SailableHeading(target, alphaTrue)
		assert.InDelta(t, first, h, 1e-9)
	}
}
