// Package blend reconstructs the combined HDR mosaic from the two
// interpolated exposures (spec.md §4.7-4.10): a full-resolution,
// alias-prone estimate; a half-resolution, low-noise estimate; an
// alias confidence map; and the final tone-dependent mix of the two.
package blend

// Fullres discards interpolated samples wherever a native one exists,
// maximising detail at the cost of shadow noise and clipped-highlight
// artifacts (spec.md §4.7).
func Fullres(dark, bright []uint32, isBrightRow func(y int) bool, w, h, whiteDarkened int) []uint32 {
	out := make([]uint32, w*h)
	for y := 0; y < h; y++ {
		isBright := isBrightRow(y)
		row := y * w
		for x := 0; x < w; x++ {
			if isBright {
				f := bright[row+x]
				if f < uint32(whiteDarkened) {
					out[row+x] = f
				} else if f > dark[row+x] {
					out[row+x] = f
				} else {
					out[row+x] = dark[row+x]
				}
			} else {
				out[row+x] = dark[row+x]
			}
		}
	}
	return out
}
