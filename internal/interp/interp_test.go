package interp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mdouchement/dualiso/internal/bayer"
	"github.com/mdouchement/dualiso/internal/interp"
	"github.com/mdouchement/dualiso/internal/pipeline/evtable"
	"github.com/mdouchement/dualiso/internal/rawio"
)

// flatInterlaced builds a w x h mosaic where dark rows sit at darkLevel
// and bright rows at brightLevel, with no per-pixel detail, so a correct
// interpolator should recover each exposure at its own flat level
// everywhere, not just on its native rows.
func flatInterlaced(w, h int, rc bayer.RowClasses, darkLevel, brightLevel uint32) *rawio.Mosaic {
	m := rawio.NewMosaic(w, h)
	for y := 0; y < h; y++ {
		v := darkLevel
		if rc.IsBright(y) {
			v = brightLevel
		}
		for x := 0; x < w; x++ {
			m.Set(x, y, v)
		}
	}
	return m
}

func testInterpolator(t *testing.T, it interp.Interpolator) {
	black := 2048 * 64
	whiteDark := 14000 * 64
	whiteBright := 3500 * 64
	rc := bayer.RowClasses{true, false, false, true}
	darkLevel, brightLevel := uint32(6000*64), uint32(3000*64) // both comfortably below their own white level

	m := flatInterlaced(24, 24, rc, darkLevel, brightLevel)
	m.Black = black
	tbl := evtable.Build(black, whiteDark)

	res := it.Interpolate(m, rc, tbl, whiteDark, whiteBright)

	assert.Len(t, res.Dark, 24*24)
	assert.Len(t, res.Bright, 24*24)

	for y := 4; y < 20; y++ {
		for x := 4; x < 20; x++ {
			assert.InDelta(t, darkLevel, res.Dark[y*24+x], float64(darkLevel)*0.05, "dark @ (%d,%d)", x, y)
			assert.InDelta(t, brightLevel, res.Bright[y*24+x], float64(brightLevel)*0.05, "bright @ (%d,%d)", x, y)
		}
	}
}

func TestMean23OnFlatSignal(t *testing.T) {
	testInterpolator(t, interp.Mean23{})
}

func TestEdgeDirectedOnFlatSignal(t *testing.T) {
	testInterpolator(t, interp.EdgeDirected{})
}
