package blend

import "math/rand"

// Emit demotes a 20-bit working plane to 16-bit output samples,
// dithering with Gaussian noise of standard deviation 0.5 LSB before
// rounding to avoid posterization in smooth gradients (spec.md §4.10's
// emit stage, grounded on cr2hdr.c's raw_set_pixel_20to16_rand). The
// noise comes from a fixed-seed source, so the output is reproducible.
func Emit(plane []uint32) []uint16 {
	rng := rand.New(rand.NewSource(1))
	out := make([]uint16, len(plane))
	for i, v := range plane {
		d := float64(v)/16.0 + rng.NormFloat64()*0.5
		if d < 0 {
			d = 0
		}
		if d > 65535 {
			d = 65535
		}
		out[i] = uint16(d + 0.5)
	}
	return out
}
