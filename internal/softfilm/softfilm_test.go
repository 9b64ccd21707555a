package softfilm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mdouchement/dualiso/internal/bayer"
	"github.com/mdouchement/dualiso/internal/softfilm"
)

func TestPlausibleRejectsNonPositiveMultipliers(t *testing.T) {
	assert.False(t, softfilm.Plausible(0, 1, 1))
	assert.False(t, softfilm.Plausible(1, 1, -1))
}

func TestPlausibleAcceptsNearNeutralWhiteBalance(t *testing.T) {
	assert.True(t, softfilm.Plausible(2.1, 1.0, 1.6))
}

func TestPlausibleRejectsExtremeWhiteBalance(t *testing.T) {
	assert.False(t, softfilm.Plausible(50, 1, 0.001))
}

func TestCurveApplyStaysNearInputAtZeroExposure(t *testing.T) {
	black, white := 2048, 14000
	curve := softfilm.NewCurve(0, black, white, black, white, [3]float64{1, 1, 1})

	raw := float64(black + 6000)
	out := curve.Apply(raw, bayer.G1)
	assert.InDelta(t, raw, float64(out), 2)
}

func TestCurveApplyBoostsShadowsWithPositiveExposure(t *testing.T) {
	black, white := 2048, 14000
	curve := softfilm.NewCurve(2, black, white, black, white, [3]float64{1, 1, 1})

	raw := float64(black + 1000)
	out := curve.Apply(raw, bayer.R)
	assert.Greater(t, float64(out), raw)
}
