package blend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mdouchement/dualiso/internal/blend"
	"github.com/mdouchement/dualiso/internal/pipeline/evtable"
)

func TestMixCurveEndsAtZeroAndOne(t *testing.T) {
	black, white := 2048*64, 14000*64
	mc := blend.NewMixCurve(black, white, 0, 4)

	assert.Equal(t, 0.0, mc.At(uint32(black)))
	assert.Equal(t, 1.0, mc.At(uint32(white)))
}

func TestFullresCurveRisesWithBrightness(t *testing.T) {
	black, white := 2048*64, 14000*64
	tbl := evtable.Build(black, white)
	fc := blend.NewFullresCurve(tbl.Raw2EV)

	low := fc.At(uint32(black + 1))
	high := fc.At(uint32(white))
	assert.Less(t, low, high)
	assert.GreaterOrEqual(t, low, 0.0)
	assert.LessOrEqual(t, high, 1.0)
}
