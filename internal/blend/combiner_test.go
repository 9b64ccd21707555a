package blend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mdouchement/dualiso/internal/blend"
	"github.com/mdouchement/dualiso/internal/pipeline/evtable"
)

func TestCombineWithoutFullresIsJustHalfres(t *testing.T) {
	black, white := 2048*64, 14000*64
	tbl := evtable.Build(black, white)
	fc := blend.NewFullresCurve(tbl.Raw2EV)

	w, h := 2, 2
	halfres := []uint32{uint32(black + 1000), uint32(black + 2000), uint32(black + 3000), uint32(black + 4000)}
	dark := make([]uint32, 4)
	bright := make([]uint32, 4)

	out := blend.Combine(dark, bright, halfres, nil, nil, nil, nil, fc, tbl, black, 4, false, w, h)

	for i, v := range out {
		assert.InDeltaf(t, halfres[i], v, float64(halfres[i])*0.01, "pixel %d", i)
	}
}

func TestCombineWithFullresStaysInRange(t *testing.T) {
	black, white := 2048*64, 14000*64
	tbl := evtable.Build(black, white)
	fc := blend.NewFullresCurve(tbl.Raw2EV)

	w, h := 2, 2
	level := uint32(black + 2000)
	halfres := []uint32{level, level, level, level}
	fullres := []uint32{level, level, level, level}
	fullresSmooth := []uint32{level, level, level, level}
	dark := []uint32{level, level, level, level}
	bright := []uint32{level, level, level, level}

	out := blend.Combine(dark, bright, halfres, fullres, fullresSmooth, nil, nil, fc, tbl, black, 4, true, w, h)
	for _, v := range out {
		assert.GreaterOrEqual(t, v, uint32(0))
		assert.LessOrEqual(t, int(v), 0xFFFFF)
	}
}
