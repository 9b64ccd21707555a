// Package interp reconstructs the missing rows of each exposure
// (spec.md §4.5): every native row belongs to exactly one of the dark
// or bright exposures, and the other exposure's sample at that
// location must be interpolated from same-colour neighbours two rows
// away in either direction.
package interp

import (
	"github.com/mdouchement/dualiso/internal/bayer"
	"github.com/mdouchement/dualiso/internal/pipeline/evtable"
	"github.com/mdouchement/dualiso/internal/rawio"
)

// Result holds the two full-resolution planes reconstructed from a
// single interleaved mosaic: Dark carries the low-ISO exposure
// everywhere (native where the row was dark, interpolated where it was
// bright) and Bright carries the high-ISO exposure the same way.
type Result struct {
	Dark   []uint32
	Bright []uint32
}

// Interpolator fills in the missing exposure at every pixel. whiteDark
// is the dark exposure's white level and whiteDarkened is the bright
// exposure's white level after exposure matching; both bound the
// mean2/mean3 clipping test for whichever buffer is being filled.
type Interpolator interface {
	Interpolate(m *rawio.Mosaic, rc bayer.RowClasses, tbl *evtable.Table, whiteDark, whiteDarkened int) Result
}

func mean2(a, b, white int32, tbl *evtable.Table) uint32 {
	if a >= white || b >= white {
		return uint32(tbl.EV2Raw(white))
	}
	return uint32(tbl.EV2Raw((a + b) / 2))
}

func mean3(a, b, c, white int32, tbl *evtable.Table) uint32 {
	m := (a + b + c) / 3
	if a >= white || b >= white || c >= white {
		if m < white {
			m = white
		}
	}
	return uint32(tbl.EV2Raw(m))
}

// fillBorders fills the border (top 3 rows, bottom 2 rows, left 2 and
// right 3 columns) by nearest copy from rows/columns two pixels
// inward, mirroring cr2hdr.c's "border interpolation" pass.
func fillBorders(m *rawio.Mosaic, rc bayer.RowClasses, res *Result) {
	w, h := m.Width, m.Height

	for y := 0; y < 3; y++ {
		native, interp := rowBuffers(rc, y, res)
		for x := 0; x < w; x++ {
			interp[y*w+x] = uint32(m.At(x, y+2))
			native[y*w+x] = uint32(m.At(x, y))
		}
	}
	for y := h - 2; y < h; y++ {
		native, interp := rowBuffers(rc, y, res)
		for x := 0; x < w; x++ {
			interp[y*w+x] = uint32(m.At(x, y-2))
			native[y*w+x] = uint32(m.At(x, y))
		}
	}
	for y := 2; y < h; y++ {
		native, interp := rowBuffers(rc, y, res)
		for x := 0; x < 2; x++ {
			interp[y*w+x] = uint32(m.At(x, y-2))
			native[y*w+x] = uint32(m.At(x, y))
		}
		for x := w - 3; x < w; x++ {
			interp[y*w+x] = uint32(m.At(x-2, y-2))
			native[y*w+x] = uint32(m.At(x-2, y))
		}
	}
}

// rowBuffers returns the native/interp destination slices for row y,
// selecting bright or dark according to rc.
func rowBuffers(rc bayer.RowClasses, y int, res *Result) (native, interp []uint32) {
	if rc.IsBright(y) {
		return res.Bright, res.Dark
	}
	return res.Dark, res.Bright
}

// rowStep points at the nearest row carrying the opposite exposure
// (spec.md §4.5: s = -1 if y and y+1 share an exposure, else +1).
func rowStep(rc bayer.RowClasses, y int) int {
	if rc.IsBright(y) == rc.IsBright(y+1) {
		return -1
	}
	return 1
}
