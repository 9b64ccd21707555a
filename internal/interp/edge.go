package interp

import (
	"github.com/mdouchement/dualiso/internal/bayer"
	"github.com/mdouchement/dualiso/internal/pipeline/evtable"
	"github.com/mdouchement/dualiso/internal/rawio"
)

// edgeDir is one candidate interpolation direction: a and b name the
// near/far taps (multiplied by the row step s at use time), ack/bck
// name verification taps used only during direction search.
type edgeDir struct{ ackX, ackY, aX, aY, bX, bY, bckX, bckY int }

// edgeDirections mirrors cr2hdr.c's table, vertical (index 5) being the
// zero-penalty default and the others trading resolution for handling
// diagonal detail.
var edgeDirections = []edgeDir{
	{-4, 2, -2, 1, 4, -2, 6, -3},
	{-3, 2, -1, 1, 3, -2, 4, -3},
	{-2, 2, -1, 1, 2, -2, 3, -3},
	{-1, 2, -1, 1, 1, -2, 2, -3},
	{-1, 2, 0, 1, 1, -2, 1, -3},
	{0, 2, 0, 1, 0, -2, 0, -3},
	{1, 2, 0, 1, -1, -2, -1, -3},
	{1, 2, 1, 1, -1, -2, -2, -3},
	{2, 2, 1, 1, -2, -2, -3, -3},
	{3, 2, 1, 1, -3, -2, -4, -3},
	{4, 2, 2, 1, -4, -2, -6, -3},
}

const searchArea = 5
const edgeBorder = 5

// EdgeDirected picks, per pixel, the interpolation direction whose four
// taps vary least in EV space, then averages that direction with its
// two neighbours to curb aliasing. It works on a luma proxy built
// directly from the mosaic (spec.md's "gray" plane), rather than a full
// pre-demosaiced RGB triple: the pipeline has no standalone demosaicer
// upstream of this pass, so the direction search reads the Bayer
// samples themselves.
type EdgeDirected struct{}

func (EdgeDirected) Interpolate(m *rawio.Mosaic, rc bayer.RowClasses, tbl *evtable.Table, whiteDark, whiteDarkened int) Result {
	w, h := m.Width, m.Height
	res := Result{
		Dark:   make([]uint32, w*h),
		Bright: make([]uint32, w*h),
	}

	gray := buildGray(m)
	d0 := len(edgeDirections) / 2
	dirs := chooseDirections(m, rc, tbl, gray, d0)

	for y := 2; y < h-2; y++ {
		native, interp := rowBuffers(rc, y, &res)
		s := rowStep(rc, y)

		for x := 2; x < w-2; x++ {
			dir := d0
			if y >= edgeBorder && y < h-edgeBorder && x >= edgeBorder && x < w-edgeBorder {
				dir = dirs[y*w+x]
			}

			pi0 := edgeInterp(m, tbl, x, y, s, dir)
			pip := edgeInterp(m, tbl, x, y, s, minInt(dir+1, len(edgeDirections)-1))
			pim := edgeInterp(m, tbl, x, y, s, maxInt(dir-1, 0))

			interp[y*w+x] = uint32(tbl.EV2Raw((2*pi0 + pip + pim) / 4))
			native[y*w+x] = uint32(m.At(x, y))
		}
	}

	fillBorders(m, rc, &res)

	return res
}

// buildGray approximates a luma plane directly from raw samples: each
// pixel is replaced with a centre-weighted mean of its own value
// (counted twice) and its four adjacent neighbours, which carry the
// other CFA colours, giving the direction search a low-noise signal
// without requiring a separate colour-plane demosaic.
func buildGray(m *rawio.Mosaic) []uint32 {
	w, h := m.Width, m.Height
	gray := make([]uint32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := uint64(m.At(x, y)) * 2
			n := uint64(2)
			if x > 0 {
				sum += uint64(m.At(x-1, y))
				n++
			}
			if x < w-1 {
				sum += uint64(m.At(x+1, y))
				n++
			}
			if y > 0 {
				sum += uint64(m.At(x, y-1))
				n++
			}
			if y < h-1 {
				sum += uint64(m.At(x, y+1))
				n++
			}
			gray[y*w+x] = uint32(sum / n)
		}
	}
	return gray
}

// chooseDirections runs the cross-correlation search of spec.md §4.5
// for every interior pixel of both exposures and keeps the
// lowest-scoring direction. No region is exempt from the search:
// d0, the vertical direction, is kept only where it scores best.
func chooseDirections(m *rawio.Mosaic, rc bayer.RowClasses, tbl *evtable.Table, gray []uint32, d0 int) []int {
	w, h := m.Width, m.Height
	dirs := make([]int, w*h)
	for i := range dirs {
		dirs[i] = d0
	}

	for y := edgeBorder; y < h-edgeBorder; y++ {
		s := rowStep(rc, y)
		for x := edgeBorder; x < w-edgeBorder; x++ {
			eBest := int64(1) << 62
			dBest := d0

			for d, dir := range edgeDirections {
				var e int64
				for j := -searchArea; j <= searchArea; j++ {
					p1 := tbl.Raw2EV(int(gray[clampIdx(x+dir.ackX+j, y+dir.ackY*s, w, h)]))
					p2 := tbl.Raw2EV(int(gray[clampIdx(x+dir.aX+j, y+dir.aY*s, w, h)]))
					p3 := tbl.Raw2EV(int(gray[clampIdx(x+dir.bX+j, y+dir.bY*s, w, h)]))
					p4 := tbl.Raw2EV(int(gray[clampIdx(x+dir.bckX+j, y+dir.bckY*s, w, h)]))
					e += int64(absInt32(p1-p2)) + int64(absInt32(p2-p3)) + int64(absInt32(p3-p4))
				}
				e += int64(absInt(d-d0)) * evtable.EVResolution / 8

				if e < eBest {
					eBest = e
					dBest = d
				}
			}
			dirs[y*w+x] = dBest
		}
	}
	return dirs
}

func edgeInterp(m *rawio.Mosaic, tbl *evtable.Table, x, y, s, dir int) int32 {
	d := edgeDirections[dir]
	pa := tbl.Raw2EV(int(m.At(x+d.aX, y+d.aY*s)))
	pb := tbl.Raw2EV(int(m.At(x+d.bX, y+d.bY*s)))
	return (pa*2 + pb) / 3
}

func clampIdx(x, y, w, h int) int {
	if x < 0 {
		x = 0
	}
	if x >= w {
		x = w - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= h {
		y = h - 1
	}
	return y*w + x
}

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
