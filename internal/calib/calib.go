// Package calib implements spec.md §4.2: per-row/per-column black-level
// subtraction from the optical-black borders, and coarse white-level
// estimation per exposure.
package calib

import (
	"math"
	"sort"

	"github.com/mdouchement/dualiso/internal/bayer"
	"github.com/mdouchement/dualiso/internal/rawio"
)

// Subtract removes the row/column black pattern estimated from the left
// optical-black strip, and returns the new scalar black level
// (round(avg_black)). It is a no-op (returning the mosaic's existing
// black level) when the margins are too small to sample, per spec.md
// §4.2.
func Subtract(m *rawio.Mosaic, leftMargin, topMargin int) int {
	w, h := m.Width, m.Height

	if leftMargin < 10 || topMargin < 10 {
		return m.Black
	}

	vblack := make([]int, h)
	ymin := (topMargin - 8 - 3) &^ 3
	if ymin < 0 {
		ymin = 0
	}

	for y := ymin; y < h; y++ {
		sum, num := 0, 0
		for x := 2; x < leftMargin-8; x++ {
			sum += int(m.At(x, y))
			num++
		}
		if num > 0 {
			vblack[y] = sum / num
		}
	}

	// Smooth vblack with a uniform mean over 20 same-class rows (y-40
	// through y+36, stepping by 4).
	smoothed := make([]int, h)
	for y := ymin; y < h; y++ {
		sum, num := 0, 0
		for y2 := y - 40; y2 < y+40; y2 += 4 {
			if y2 < ymin || y2 >= h {
				continue
			}
			sum += vblack[y2]
			num++
		}
		if num > 0 {
			smoothed[y] = sum / num
		} else {
			smoothed[y] = vblack[y]
		}
	}
	vblack = smoothed

	blackFrame := make([]int, w*h)
	var avgBlack float64
	for y := ymin; y < h; y++ {
		for x := 0; x < w; x++ {
			blackFrame[y*w+x] = vblack[y]
		}
		avgBlack += float64(vblack[y])
	}
	avgBlack /= float64(h - ymin)

	// Refine with an 8-column-phase horizontal drift estimate per row
	// class.
	ymax := ymin + 8
	aux := make([]int, w)
	hblack := make([]int, w)
	for k := 0; k < 4; k++ {
		y0 := ymin + k
		offset, num := 0, 0
		for y := y0; y < ymax; y += 4 {
			if y < 0 || y >= h {
				continue
			}
			offset += blackFrame[y*w]
			num++
		}
		if num > 0 {
			offset /= num
		}

		for xg := 0; xg < 8; xg++ {
			for x := xg; x < w; x += 8 {
				sum, n := 0, 0
				for y := y0; y < ymax; y += 4 {
					if y < 0 || y >= h {
						continue
					}
					sum += int(m.At(x, y)) - offset
					n++
				}
				if n > 0 {
					hblack[x] = sum / n
				}
			}
			for x := xg; x < w; x += 8 {
				sum, n := 0, 0
				for x2 := x - 1024; x2 < x+1024; x2 += 8 {
					if x2 < 0 || x2 >= w {
						continue
					}
					sum += hblack[x2]
					n++
				}
				if n > 0 {
					aux[x] = sum / n
				}
			}
			copy(hblack, aux)

			for y := y0; y < h; y += 4 {
				for x := xg; x < w; x += 8 {
					blackFrame[y*w+x] += hblack[x]
				}
			}
		}
	}

	for y := ymin; y < h; y++ {
		for x := 0; x < w; x++ {
			p := int(m.At(x, y))
			blackDelta := int(avgBlack) - blackFrame[y*w+x]
			p += blackDelta
			p = clamp(p, 0, 16383)
			m.Set(x, y, uint32(p))
		}
	}

	m.Black = int(avgBlack + 0.5)
	return m.Black
}

// SubtractSimple recentres m.Black using an average over the left
// optical-black strip and returns the new black level together with
// delta (old minus new black). It does not touch the samples or the
// white levels; the caller shifts the white levels by the same delta.
// The pipeline calls it once, after the final combiner ("simple black
// redo", spec.md §4.10); no simple re-centring runs after the matcher.
func SubtractSimple(m *rawio.Mosaic, leftMargin, topMargin int) (newBlack, delta int) {
	if leftMargin < 10 || topMargin < 10 {
		return m.Black, 0
	}
	h := m.Height

	var sum int64
	var num int64
	for y := topMargin + 20; y < h-20; y++ {
		for x := 16; x < leftMargin-16; x++ {
			p := int(m.At(x, y))
			if p > 0 {
				sum += int64(p)
				num++
			}
		}
	}
	if num == 0 {
		return m.Black, 0
	}

	newBlack = int(sum / num)
	delta = m.Black - newBlack
	m.Black -= delta
	return m.Black, delta
}

// WhiteDetect implements spec.md §4.2's white-level estimation: sample
// one pixel per 3x3 cell into two pools (one per exposure), discard the
// brightest few outliers, subtract a safety margin, and clamp to
// [5000, 16383].
func WhiteDetect(m *rawio.Mosaic, rc bayer.RowClasses) (whiteDark, whiteBright int) {
	discard := [2]int{10, 50}
	safety := [2]int{100, 1500}

	var pools [2][]int
	for y := m.ActiveArea.Y1; y < m.ActiveArea.Y2; y += 3 {
		for x := m.ActiveArea.X1; x < m.ActiveArea.X2; x += 3 {
			bin := 0
			if rc.IsBright(y) {
				bin = 1
			}
			pools[bin] = append(pools[bin], int(m.At(x, y)))
		}
	}

	var whites [2]int
	for i := 0; i < 2; i++ {
		sort.Sort(sort.Reverse(sort.IntSlice(pools[i])))
		kth := 0
		if discard[i] < len(pools[i]) {
			kth = pools[i][discard[i]]
		} else if len(pools[i]) > 0 {
			kth = pools[i][len(pools[i])-1]
		}
		whites[i] = kth - safety[i]
	}

	whiteDark = clamp(whites[0], 5000, 16383)
	whiteBright = clamp(whites[1], 5000, 16383)
	return
}

// NoiseFloors estimates sigma_dark and sigma_bright (spec.md §4.4) as
// the min/max, across the four row classes, of the optical-black
// region's per-class standard deviation (decimation stride 4 in y).
func NoiseFloors(m *rawio.Mosaic, leftMargin, topMargin int) (sigmaDark, sigmaBright float64) {
	var stds [4]float64
	for k := 0; k < 4; k++ {
		y0 := (topMargin/4*4 + 20 + k)
		_, std := computeBlackNoise(m, 8, leftMargin-8, y0, m.Height-20, 1, 4)
		stds[k] = std
	}
	sigmaDark, sigmaBright = stds[0], stds[0]
	for _, s := range stds {
		if s < sigmaDark {
			sigmaDark = s
		}
		if s > sigmaBright {
			sigmaBright = s
		}
	}
	return
}

func computeBlackNoise(m *rawio.Mosaic, x1, x2, y1, y2, dx, dy int) (mean, stdev float64) {
	var sum, sumSq float64
	var num float64
	for y := y1; y < y2; y += dy {
		if y < 0 || y >= m.Height {
			continue
		}
		for x := x1; x < x2; x += dx {
			if x < 0 || x >= m.Width {
				continue
			}
			v := float64(m.At(x, y))
			sum += v
			sumSq += v * v
			num++
		}
	}
	if num == 0 {
		return 0, 0
	}
	mean = sum / num
	variance := sumSq/num - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
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
