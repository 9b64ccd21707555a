package blend

// Overexposed flags pixels whose bright or dark exposure has clipped,
// then softens the map with a small separable blur so the final
// combiner's blend factor transitions smoothly at clipping boundaries
// (spec.md §4.10).
func Overexposed(dark, bright []uint32, w, h, white, whiteDarkened int) []uint32 {
	raw := make([]uint32, w*h)
	for i := range raw {
		if bright[i] >= uint32(whiteDarkened) || dark[i] >= uint32(white) {
			raw[i] = 100
		}
	}

	out := append([]uint32(nil), raw...)
	for y := 3; y < h-3; y++ {
		for x := 3; x < w-3; x++ {
			i := y*w + x
			c := raw[i]
			c += (raw[i-w] + raw[i-1] + raw[i+1] + raw[i+w]) * 820 / 1024
			c += (raw[i-w-1] + raw[i-w+1] + raw[i+w-1] + raw[i+w+1]) * 657 / 1024
			out[i] = c
		}
	}
	return out
}
