package interp

import (
	"github.com/mdouchement/dualiso/internal/bayer"
	"github.com/mdouchement/dualiso/internal/pipeline/evtable"
	"github.com/mdouchement/dualiso/internal/rawio"
)

// Mean23 is the fast interpolator: red/blue come from a 2-tap vertical
// mean two rows away, green from a 3-tap mean mixing the adjacent row
// of the opposite exposure with the far row of the same colour.
type Mean23 struct{}

func (Mean23) Interpolate(m *rawio.Mosaic, rc bayer.RowClasses, tbl *evtable.Table, whiteDark, whiteDarkened int) Result {
	w, h := m.Width, m.Height
	res := Result{
		Dark:   make([]uint32, w*h),
		Bright: make([]uint32, w*h),
	}

	for y := 2; y < h-2; y++ {
		native, interp := rowBuffers(rc, y, &res)
		isRG := y%2 == 0
		s := rowStep(rc, y)

		// The clipping threshold must match the exposure being filled
		// (interp), not the exposure native to row y.
		white := tbl.Raw2EV(whiteDarkened)
		if rc.IsBright(y) {
			white = tbl.Raw2EV(whiteDark)
		}

		for x := 2; x < w-3; x += 2 {
			if isRG {
				ra := tbl.Raw2EV(int(m.At(x, y-2)))
				rb := tbl.Raw2EV(int(m.At(x, y+2)))
				ri := mean2(ra, rb, white, tbl)

				ga := tbl.Raw2EV(int(m.At(x+2, y+s)))
				gb := tbl.Raw2EV(int(m.At(x, y+s)))
				gc := tbl.Raw2EV(int(m.At(x+1, y-2*s)))
				gi := mean3(ga, gb, gc, white, tbl)

				interp[y*w+x] = ri
				interp[y*w+x+1] = gi
			} else {
				ba := tbl.Raw2EV(int(m.At(x+1, y-2)))
				bb := tbl.Raw2EV(int(m.At(x+1, y+2)))
				bi := mean2(ba, bb, white, tbl)

				ga := tbl.Raw2EV(int(m.At(x+1, y+s)))
				gb := tbl.Raw2EV(int(m.At(x-1, y+s)))
				gc := tbl.Raw2EV(int(m.At(x, y-2*s)))
				gi := mean3(ga, gb, gc, white, tbl)

				interp[y*w+x] = gi
				interp[y*w+x+1] = bi
			}

			native[y*w+x] = uint32(m.At(x, y))
			native[y*w+x+1] = uint32(m.At(x+1, y))
		}
	}

	fillBorders(m, rc, &res)

	return res
}
