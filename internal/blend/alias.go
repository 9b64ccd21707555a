package blend

import "sort"

// AliasMapMax caps the alias confidence map (spec.md §4.8).
const AliasMapMax = 15000

// AliasMap builds the aliasing confidence map: large where fullres and
// halfres disagree enough that the difference looks like real detail
// rather than noise. The raw value, dilation and blur are computed only
// where fullresCurve(bright) does not exceed fullresThr, since the other
// pixels already prefer fullres detail regardless of aliasing (spec.md
// §4.8); the final 2x2 max-pool can still carry a cell neighbour's
// value into those pixels.
func AliasMap(fullresSmooth, halfresSmooth, bright []uint32, raw2ev func(int) int32, fc *FullresCurve, darkNoise float64, w, h int) []uint32 {
	out := make([]uint32, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if fc.At(bright[i]) > FullresThreshold {
				continue
			}
			f := int(fullresSmooth[i])
			hv := int(halfresSmooth[i])
			fe := raw2ev(f)
			he := raw2ev(hv)

			eLin := abs(f - hv)
			eLin -= int(darkNoise * 1.5)
			if eLin < 0 {
				eLin = 0
			}
			eLog := abs(int(fe) - int(he))

			v := minInt3(eLin/2, eLog/16, 65530)
			out[i] = uint32(v)
		}
	}

	dilated := dilate(out, bright, fc, w, h)
	blurred := blur7x7(dilated, bright, fc, w, h)
	return maxPool2x2(blurred, w, h)
}

// dilate replaces each sample with the 5th-largest value over a
// 37-point, step-2 diamond neighbourhood, suppressing isolated alias
// spikes (spec.md §4.8).
func dilate(in, bright []uint32, fc *FullresCurve, w, h int) []uint32 {
	out := append([]uint32(nil), in...)
	neighbours := make([]int, 0, 37)

	for y := 6; y < h-6; y++ {
		for x := 6; x < w-6; x++ {
			i := y*w + x
			if fc.At(bright[i]) > FullresThreshold {
				continue
			}
			neighbours = neighbours[:0]
			for dy := -6; dy <= 6; dy += 2 {
				half := 8 - abs(dy)
				if half > 6 {
					half = 6
				}
				for dx := -half; dx <= half; dx += 2 {
					neighbours = append(neighbours, int(in[(y+dy)*w+(x+dx)]))
				}
			}
			out[i] = uint32(kthLargest(neighbours, 5))
		}
	}
	return out
}

var blurWeights = [4][4]int{
	{1024, 820, 421, 139},
	{820, 657, 337, 111},
	{421, 337, 173, 57},
	{139, 111, 57, 0},
}

// blur7x7 applies the fixed separable-looking coefficient stencil of
// spec.md §4.8 over a 7x7, step-2 neighbourhood.
func blur7x7(in, bright []uint32, fc *FullresCurve, w, h int) []uint32 {
	out := append([]uint32(nil), in...)
	for y := 6; y < h-6; y++ {
		for x := 6; x < w-6; x++ {
			i := y*w + x
			if fc.At(bright[i]) > FullresThreshold {
				continue
			}
			var c int
			for dy := -6; dy <= 6; dy += 2 {
				for dx := -6; dx <= 6; dx += 2 {
					weight := blurWeights[abs(dx)/2][abs(dy)/2]
					c += int(in[(y+dy)*w+(x+dx)]) * weight / 1024
				}
			}
			out[i] = uint32(c)
		}
	}
	return out
}

// maxPool2x2 makes the map pattern-agnostic by taking the max of every
// 2x2 Bayer cell, and applies the final AliasMapMax cap.
func maxPool2x2(in []uint32, w, h int) []uint32 {
	out := append([]uint32(nil), in...)
	for y := 2; y < h-2; y += 2 {
		for x := 2; x < w-2; x += 2 {
			a := in[y*w+x]
			b := in[y*w+x+1]
			c := in[(y+1)*w+x]
			d := in[(y+1)*w+x+1]
			m := maxU32(maxU32(a, b), maxU32(c, d))
			if m > AliasMapMax {
				m = AliasMapMax
			}
			out[y*w+x] = m
			out[y*w+x+1] = m
			out[(y+1)*w+x] = m
			out[(y+1)*w+x+1] = m
		}
	}
	return out
}

func kthLargest(v []int, k int) int {
	cp := append([]int(nil), v...)
	sort.Sort(sort.Reverse(sort.IntSlice(cp)))
	if k-1 >= len(cp) {
		return cp[len(cp)-1]
	}
	return cp[k-1]
}

func minInt3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
