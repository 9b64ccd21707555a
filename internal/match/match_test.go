package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mdouchement/dualiso/internal/bayer"
	"github.com/mdouchement/dualiso/internal/match"
	"github.com/mdouchement/dualiso/internal/perr"
	"github.com/mdouchement/dualiso/internal/rawio"
)

// buildInterlaced makes a 20-bit promoted mosaic where dark rows carry
// black+signal and bright rows carry black+signal*gain (a clean affine
// relationship with gain>1, i.e. the bright exposure really is
// brighter), so the matcher has something well-posed to recover.
func buildInterlaced(w, h int, black int, gain float64) *rawio.Mosaic {
	m := rawio.NewMosaic(w, h)
	m.Black = black
	m.ActiveArea = rawio.Rect{X1: 0, Y1: 0, X2: w, Y2: h}
	rc := bayer.RowClasses{true, false, false, true}
	for y := 0; y < h; y++ {
		bright := rc.IsBright(y)
		for x := 0; x < w; x++ {
			signal := float64((x*7+y*13)%3000) + 200
			v := float64(black) + signal
			if bright {
				v = float64(black) + signal*gain
			}
			if v > 0xFFFFF {
				v = 0xFFFFF
			}
			m.Set(x, y, uint32(v))
		}
	}
	return m
}

func TestMatchRecoversGain(t *testing.T) {
	black := 2048 * 64
	m := buildInterlaced(48, 48, black, 4.0)
	rc := bayer.RowClasses{true, false, false, true}
	res, err := match.Match(m, rc, 14000*64, 3500*64)
	assert.NoError(t, err)
	assert.InDelta(t, 2.0, res.CorrEV, 0.5) // log2(4) == 2 EV
}

func TestMatchFailsWhenExposuresAreIdentical(t *testing.T) {
	black := 2048 * 64
	m := buildInterlaced(48, 48, black, 1.0)
	rc := bayer.RowClasses{true, false, false, true}
	_, err := match.Match(m, rc, 14000*64, 14000*64)
	assert.ErrorIs(t, err, perr.ErrExposureMatchFailed)
}
