package pattern_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mdouchement/dualiso/internal/bayer"
	"github.com/mdouchement/dualiso/internal/pattern"
	"github.com/mdouchement/dualiso/internal/perr"
	"github.com/mdouchement/dualiso/internal/rawio"
)

// syntheticMosaic builds a w x h RGGB mosaic where row class k%4 sits at
// a distinct flat level, mimicking an interlaced dual-exposure capture
// with no scene detail.
func syntheticMosaic(w, h int, levels [4]int) *rawio.Mosaic {
	m := rawio.NewMosaic(w, h)
	m.ActiveArea = rawio.Rect{X1: 0, Y1: 0, X2: w, Y2: h}
	for y := 0; y < h; y++ {
		cls := ((y % 4) + 4) % 4
		for x := 0; x < w; x++ {
			m.Set(x, y, uint32(levels[cls]))
		}
	}
	return m
}

func TestClassifyRowsInterlaced(t *testing.T) {
	m := syntheticMosaic(32, 32, [4]int{200, 9000, 9000, 200})
	rc, err := pattern.ClassifyRows(m)
	assert.NoError(t, err)
	assert.True(t, rc.Valid())
	assert.True(t, rc.IsBright(1))
	assert.True(t, rc.IsBright(2))
	assert.False(t, rc.IsBright(0))
	assert.False(t, rc.IsBright(3))
}

func TestClassifyRowsNotInterlaced(t *testing.T) {
	m := syntheticMosaic(32, 32, [4]int{200, 200, 200, 200})
	_, err := pattern.ClassifyRows(m)
	assert.ErrorIs(t, err, perr.ErrNotInterlaced)
}

func TestShiftForGBRGDropsTopRow(t *testing.T) {
	m := rawio.NewMosaic(4, 5)
	m.CFA = bayer.GBRG
	for i := range m.Samples {
		m.Samples[i] = uint32(i)
	}
	shifted := pattern.ShiftForGBRG(m)
	assert.Equal(t, 4, shifted.Height)
	assert.Equal(t, uint32(4), shifted.At(0, 0)) // row 1 of the original
}
