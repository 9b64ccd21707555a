package blend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mdouchement/dualiso/internal/blend"
	"github.com/mdouchement/dualiso/internal/pipeline/evtable"
)

func TestAliasMapZeroWhenFullresMatchesHalfresInShadows(t *testing.T) {
	black, white := 2048*64, 14000*64
	tbl := evtable.Build(black, white)
	fc := blend.NewFullresCurve(tbl.Raw2EV)

	w, h := 20, 20
	shadow := uint32(black + 500) // comfortably below fullresStart (4 EV above black)
	fullres := make([]uint32, w*h)
	halfres := make([]uint32, w*h)
	bright := make([]uint32, w*h)
	for i := range fullres {
		fullres[i] = shadow
		halfres[i] = shadow
		bright[i] = shadow
	}

	out := blend.AliasMap(fullres, halfres, bright, tbl.Raw2EV, fc, 4, w, h)
	for i, v := range out {
		assert.Equalf(t, uint32(0), v, "pixel %d: identical planes should leave no alias signal", i)
	}
}

func TestAliasMapCapsAtMax(t *testing.T) {
	black, white := 2048*64, 14000*64
	tbl := evtable.Build(black, white)
	fc := blend.NewFullresCurve(tbl.Raw2EV)

	w, h := 20, 20
	bright := make([]uint32, w*h)
	fullres := make([]uint32, w*h)
	halfres := make([]uint32, w*h)
	for i := range fullres {
		bright[i] = uint32(black + 500)
		fullres[i] = uint32(black + 500)
		halfres[i] = uint32(white) // wildly disagrees with fullres
	}

	out := blend.AliasMap(fullres, halfres, bright, tbl.Raw2EV, fc, 4, w, h)
	for _, v := range out {
		assert.LessOrEqual(t, v, uint32(blend.AliasMapMax))
	}
}
