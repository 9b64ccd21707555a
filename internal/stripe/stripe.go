// Package stripe implements the horizontal stripe-offset correction of
// spec.md §4.6: dark rows are nudged by a per-row median offset so
// adjacent bright/dark rows agree outside clipped regions, grounded on
// cr2hdr.c's "stripe fix" pass.
package stripe

import "sort"

const maxShift = 200 * 16

// Fix adjusts dark in place, row by row, to match bright where neither
// side is clipped (bright < whiteDarkened and dark < white). Rows whose
// estimated shift exceeds maxShift are left untouched, since that large
// a correction usually means the row had no usable unclipped pixels.
func Fix(dark, bright []uint32, w, h, white, whiteDarkened int) {
	delta := make([]int, 0, w)

	for y := 0; y < h; y++ {
		delta = delta[:0]
		row := y * w
		for x := 0; x < w; x++ {
			b := int(bright[row+x])
			d := int(dark[row+x])
			if b < whiteDarkened && d < white {
				delta = append(delta, b-d)
			}
		}
		if len(delta) == 0 {
			continue
		}

		med := medianInt(delta)
		if abs(med) > maxShift {
			continue
		}

		for x := 0; x < w; x++ {
			v := int(dark[row+x]) + med
			dark[row+x] = uint32(clamp(v, 0, 0xFFFFF))
		}
	}
}

func medianInt(v []int) int {
	cp := append([]int(nil), v...)
	sort.Ints(cp)
	return cp[len(cp)/2]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
